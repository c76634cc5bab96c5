// Package config loads the per-user defaults file for eq. go-dws's CLI is
// pure-flag with no config file; eq adds this one ambient concern because
// repeatedly passing --indent/--raw-string/--slurp on every invocation is
// real friction for a jq-like tool used interactively (SPEC_FULL.md's
// Configuration section).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Defaults mirrors the RenderOpts-shaped fields a user would otherwise
// repeat on every invocation, plus the one fileset-level setting
// (natural_sort_inputs) that isn't an output option.
type Defaults struct {
	Compact           bool   `yaml:"compact"`
	Indent            string `yaml:"indent"` // a decimal width, or "tab"
	RawString         bool   `yaml:"raw_string"`
	SuppressNil       bool   `yaml:"suppress_nil"`
	JSON              bool   `yaml:"json"`
	NaturalSortInputs bool   `yaml:"natural_sort_inputs"`
}

// Load reads $EQ_CONFIG, falling back to ~/.config/eq/config.yaml. A missing
// file is not an error: it yields a zero-value Defaults{}, matching the
// teacher's pattern of optional, all-have-sane-zero-value configuration
// (cmd/dwscript/cmd/run.go's BoolVar-with-default flags).
func Load() (Defaults, error) {
	path, err := path()
	if err != nil {
		return Defaults{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Defaults{}, nil
	}
	if err != nil {
		return Defaults{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Defaults{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return d, nil
}

func path() (string, error) {
	if p := os.Getenv("EQ_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".config", "eq", "config.yaml"), nil
}
