// Package config loads compiler configuration (spec.md §6.1), the three
// knobs a caller of Compile can set. Grounded on
// internal/eval_harness/spec.go's YAML-tagged-struct + yaml.Unmarshal idiom.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the options spec.md §6.1 recognizes.
type Config struct {
	// Prelude is a source string prepended to the user's input before
	// parsing — this is how built-in datatypes (bool) and any other
	// standard definitions reach the compiler without a module system.
	Prelude string `yaml:"prelude"`

	// Optimize, when false, skips CaseSimplify's redundancy-arm warning
	// scan (the compiled decision tree itself is identical either way —
	// the pattern-matrix algorithm never specializes past the first
	// fully-general row regardless of this flag).
	Optimize bool `yaml:"optimize"`

	// TrapOnMatch, when true, makes a synthesized non-exhaustive default
	// arm trap directly instead of calling the runtime's MatchFailure
	// helper.
	TrapOnMatch bool `yaml:"trap_on_match"`
}

// Default returns the zero-value-safe default configuration: no prelude,
// optimize on, traps routed through MatchFailure.
func Default() Config {
	return Config{Optimize: true}
}

// Load reads a YAML-encoded Config from path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
