package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modelframe/indexing"
)

// ClassifyEntry is one registry association for output.
type ClassifyEntry struct {
	Type  string `json:"type"`
	Class string `json:"class"`
}

// ClassifyResult holds the registry dump for output.
type ClassifyResult struct {
	Entries []ClassifyEntry        `json:"entries"`
	Stats   indexing.RegistryStats `json:"stats"`
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Dump the type classification registry",
		Long: `Dump the process-wide type classification registry.

Shows every type currently classified as native (atomic) or sequence
(flattenable), plus counts of classifications learned at runtime.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(rootOpts, cmd)
		},
	}

	return cmd
}

func runClassify(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	reg := indexing.DefaultRegistry()
	result := ClassifyResult{Stats: reg.Stats()}
	for _, e := range reg.Entries() {
		result.Entries = append(result.Entries, ClassifyEntry{
			Type:  e.Type.String(),
			Class: e.Class.String(),
		})
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	var b strings.Builder
	for _, e := range result.Entries {
		fmt.Fprintf(&b, "%-9s %s\n", e.Class, e.Type)
	}
	fmt.Fprintf(&b, "\n%d native, %d sequence (%d + %d learned)",
		result.Stats.Native, result.Stats.Sequence,
		result.Stats.LearnedNative, result.Stats.LearnedSequence)
	return formatter.Success(b.String())
}
