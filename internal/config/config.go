// Package config loads the indexing configuration file.
//
// Configuration is YAML, validated against an embedded CUE schema before
// decoding so that typos and out-of-range values fail at load time with a
// position-free but precise message, not at first use.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/modelframe/indexing"
)

//go:embed schema.cue
var schemaCUE string

// Config holds the file-configurable knobs of the indexing subsystem.
type Config struct {
	// Flatten gates framework-wide index flattening. Nil means "not set";
	// the library default (on) is kept.
	Flatten *bool `yaml:"flatten"`

	// MaxSpliceOps caps splice operations per normalization pass.
	// Zero means the library default.
	MaxSpliceOps int `yaml:"max_splice_ops"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates raw YAML against the config schema and decodes it.
func Parse(data []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if err := validate(raw); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// validate unifies the decoded document with #Config from the embedded
// schema. Uses the CUE SDK's Go API directly (not CLI subprocess).
func validate(raw map[string]any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if !def.Exists() {
		return fmt.Errorf("config schema missing #Config definition")
	}
	unified := def.Unify(ctx.Encode(raw))
	if err := unified.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Apply pushes the loaded settings onto the library's process-wide
// flattening toggle and returns a Canonicalizer honoring the configured
// splice budget, bound to the shared registry.
func (c *Config) Apply() *indexing.Canonicalizer {
	if c.Flatten != nil {
		indexing.SetFlatten(*c.Flatten)
	}
	canon := indexing.New(indexing.DefaultRegistry())
	canon.MaxSpliceOps = c.MaxSpliceOps
	return canon
}
