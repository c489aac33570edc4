package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/modelframe/indexing"
	"github.com/modelframe/indexing/internal/config"
)

// NormalizeOptions holds flags for the normalize command.
type NormalizeOptions struct {
	*RootOptions
}

// NormalizeResult holds the canonicalization outcome for output.
type NormalizeResult struct {
	Input     string `json:"input"`
	Canonical any    `json:"canonical"`
	Rendered  string `json:"rendered"`
	Arity     int    `json:"arity"`
	Flattened bool   `json:"flattened"`
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NormalizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "normalize <key>",
		Short: "Canonicalize a compound index key",
		Long: `Canonicalize a compound index key and print its flat form.

The key is a YAML/JSON literal; nested flow sequences express nesting:

    indexkey normalize '[1, [2, 3], 4]'
    indexkey normalize '["ab", 7]'
    indexkey normalize '7'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(opts, args[0], cmd)
		},
	}

	return cmd
}

func runNormalize(opts *NormalizeOptions, literal string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	canon, err := resolveCanonicalizer(opts.RootOptions)
	if err != nil {
		return err
	}

	var key any
	if err := yaml.Unmarshal([]byte(literal), &key); err != nil {
		formatter.Error("COMMAND_ERROR", "invalid key literal", err.Error())
		return WrapExitError(ExitCommandError, "invalid key literal", err)
	}

	result := NormalizeResult{Input: literal, Flattened: indexing.FlattenEnabled()}
	if result.Flattened {
		canonical, err := canon.Normalize(key)
		if err != nil {
			var ke *indexing.KeyError
			if errors.As(err, &ke) {
				formatter.Error(string(ke.Code), ke.Message, ke.TypeName)
				return WrapExitError(ExitFailure, "normalization failed", err)
			}
			return WrapExitError(ExitFailure, "normalization failed", err)
		}
		result.Canonical = canonical
	} else {
		// Flattening is switched off: call sites use the raw key as-is.
		slog.Debug("flattening disabled; key passed through")
		result.Canonical = key
	}

	result.Rendered = indexing.KeyString(result.Canonical)
	if t, ok := result.Canonical.(indexing.Tuple); ok {
		result.Arity = len(t)
	} else {
		result.Arity = 1
	}

	slog.Debug("key normalized", "input", literal, "arity", result.Arity)

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(result.Rendered)
}

// resolveCanonicalizer builds the canonicalizer for a command run,
// applying the config file when one was given.
func resolveCanonicalizer(opts *RootOptions) (*indexing.Canonicalizer, error) {
	if opts.Config == "" {
		return indexing.New(indexing.DefaultRegistry()), nil
	}
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	return cfg.Apply(), nil
}
