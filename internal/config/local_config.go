package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aitri-dev/aitri/internal/paths"
)

// LocalConfig is the on-disk shape of .aitri/config.yaml. It is read
// directly, bypassing the viper singleton, when a command targets a
// project other than the one viper was initialized for, and it is what
// `aitri init` writes.
type LocalConfig struct {
	Paths      LocalPaths      `yaml:"paths"`
	Checkpoint LocalCheckpoint `yaml:"checkpoint,omitempty"`
	Advance    LocalAdvance    `yaml:"advance,omitempty"`
}

// LocalPaths holds the logical roots.
type LocalPaths struct {
	Specs   string `yaml:"specs,omitempty"`
	Backlog string `yaml:"backlog,omitempty"`
	Tests   string `yaml:"tests,omitempty"`
	Docs    string `yaml:"docs,omitempty"`
}

// LocalCheckpoint holds checkpoint settings. Nil means unset.
type LocalCheckpoint struct {
	Enabled *bool `yaml:"enabled,omitempty"`
	Max     int   `yaml:"max,omitempty"`
}

// LocalAdvance holds auto-advance settings. Nil means unset.
type LocalAdvance struct {
	Enabled  *bool `yaml:"enabled,omitempty"`
	MaxSteps int   `yaml:"max-steps,omitempty"`
}

// LoadLocalConfig reads .aitri/config.yaml under projectRoot.
//
// Returns an empty LocalConfig (not nil) if the file doesn't exist or can't be parsed.
func LoadLocalConfig(projectRoot string) *LocalConfig {
	configPath := filepath.Join(projectRoot, DirName, FileName)
	data, err := os.ReadFile(configPath) // #nosec G304 - config file path from project root
	if err != nil {
		return &LocalConfig{}
	}

	var cfg LocalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &LocalConfig{}
	}

	return &cfg
}

// DefaultLocalConfig is what `aitri init` writes for a new project.
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{
		Paths: LocalPaths{
			Specs:   GetString(KeyPathsSpecs),
			Backlog: GetString(KeyPathsBacklog),
			Tests:   GetString(KeyPathsTests),
			Docs:    GetString(KeyPathsDocs),
		},
	}
}

// WriteLocalConfig writes cfg to .aitri/config.yaml under projectRoot. An
// existing file is left alone and reported with created=false.
func WriteLocalConfig(projectRoot string, cfg *LocalConfig) (created bool, err error) {
	dir := filepath.Join(projectRoot, DirName)
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return false, fmt.Errorf("failed to encode config: %w", err)
	}
	header := []byte("# aitri project configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0o600); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// Overrides converts the file's paths section to path overrides.
func (c *LocalConfig) Overrides() paths.Overrides {
	return paths.Overrides{
		Specs:   c.Paths.Specs,
		Backlog: c.Paths.Backlog,
		Tests:   c.Paths.Tests,
		Docs:    c.Paths.Docs,
	}
}
