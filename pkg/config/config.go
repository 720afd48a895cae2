// Package config loads a project's acacia.toml (spec.md §6.1) and merges it
// with CLI flag overrides, following the same BurntSushi/toml-backed
// struct-tag convention as miaomiao1992-dingo/pkg/config/config.go: a
// defaulted struct decoded in place from an optional file, then overridden
// field-by-field from whatever the driver actually parsed off the command
// line.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds every setting the CLI surface (spec.md §6.1) can set, either
// from `acacia.toml` or from a flag. Field names mirror the flags: Out is
// -o/--out, Scoreboard is -s/--scoreboard, and so on.
type Config struct {
	Out            string   `toml:"out"`
	Scoreboard     string   `toml:"scoreboard"`
	FunctionFolder string   `toml:"function_folder"`
	Indent         int      `toml:"indent"`
	DebugComments  bool     `toml:"debug_comments"`
	OverrideOld    bool     `toml:"override_old"`
	Encoding       string   `toml:"encoding"`
	Verbose        bool     `toml:"verbose"`
	ModulePath     []string `toml:"module_path"`
}

// Default returns the built-in configuration used when a project carries no
// acacia.toml and the driver supplies no overrides.
func Default() *Config {
	return &Config{
		Scoreboard:     "acacia",
		FunctionFolder: "out",
		Indent:         4,
		Encoding:       "utf-8",
	}
}

// Load reads `acacia.toml` from dir (the project root; conventionally the
// source file's containing directory) if it exists, applies it on top of
// Default, and finally applies overrides — only the fields an override
// actually sets (spec.md §6.1: CLI flags take precedence over file
// configuration). A project without acacia.toml is not an error; the
// defaults, optionally overridden, are used as-is.
func Load(dir string, overrides *Overrides) (*Config, error) {
	cfg := Default()
	path := dir + string(os.PathSeparator) + "acacia.toml"
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if overrides != nil {
		overrides.applyTo(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overrides carries the subset of Config the driver actually saw on the
// command line. A nil field (Out == nil, say) means "the flag was not
// given" and leaves the file/default value untouched; a non-nil field wins
// outright, mirroring the teacher's cmd.Flags().Lookup(name).Changed guard
// in pkg/cmd/root.go before an override is applied.
type Overrides struct {
	Out            *string
	Scoreboard     *string
	FunctionFolder *string
	Indent         *int
	DebugComments  *bool
	OverrideOld    *bool
	Encoding       *string
	Verbose        *bool
}

func (o *Overrides) applyTo(cfg *Config) {
	if o.Out != nil {
		cfg.Out = *o.Out
	}
	if o.Scoreboard != nil {
		cfg.Scoreboard = *o.Scoreboard
	}
	if o.FunctionFolder != nil {
		cfg.FunctionFolder = *o.FunctionFolder
	}
	if o.Indent != nil {
		cfg.Indent = *o.Indent
	}
	if o.DebugComments != nil {
		cfg.DebugComments = *o.DebugComments
	}
	if o.OverrideOld != nil {
		cfg.OverrideOld = *o.OverrideOld
	}
	if o.Encoding != nil {
		cfg.Encoding = *o.Encoding
	}
	if o.Verbose != nil {
		cfg.Verbose = *o.Verbose
	}
}

// Validate checks the fields that have a closed set of legal values or a
// required shape.
func (c *Config) Validate() error {
	if c.Indent < 0 {
		return fmt.Errorf("config: indent must not be negative, got %d", c.Indent)
	}
	if c.Scoreboard == "" {
		return fmt.Errorf("config: scoreboard objective name must not be empty")
	}
	if c.FunctionFolder == "" {
		return fmt.Errorf("config: function folder name must not be empty")
	}
	switch c.Encoding {
	case "utf-8", "ascii":
		// valid
	default:
		return fmt.Errorf("config: unsupported encoding %q (must be \"utf-8\" or \"ascii\")", c.Encoding)
	}
	return nil
}
