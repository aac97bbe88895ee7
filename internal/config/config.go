// Package config loads the optional YAML defaults file consumed by the
// linkcheck CLI, modeled directly on the retrieved corpus's own
// internal/config package.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds defaults for flags the CLI otherwise takes on the
// command line (spec §6). A field's zero value means "not set in the
// file"; the CLI only applies a Config value when the corresponding
// flag was not given on the command line.
type Config struct {
	Jobs          int    `yaml:"jobs"`
	CheckAnchors  bool   `yaml:"check_anchors"`
	Sources       string `yaml:"sources"`
	GithubActions bool   `yaml:"github_actions"`
}

// Load reads and parses the YAML config file at path. Callers should
// treat a missing default config path as "no config" rather than an
// error; Load itself always reports os.ReadFile failures.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault loads path if it exists, returning a zero Config and no
// error when it does not — the "default: .linkcheck.yaml if present,
// otherwise skipped silently" behavior of the CLI's --config flag.
func LoadDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}
	return Load(path)
}
