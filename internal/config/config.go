// Package config wraps a process-wide viper instance. Values come from, in
// increasing precedence: defaults, the user config, the project's
// .aitri/config.yaml, and AITRI_* environment variables. Command-line flags
// are applied on top by the CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DirName is the per-project configuration directory.
const DirName = ".aitri"

// FileName is the configuration file inside DirName.
const FileName = "config.yaml"

var (
	v          *viper.Viper
	projectDir string
)

// Initialize sets up the viper instance, discovering the project config by
// walking up from the current directory.
func Initialize() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	return InitializeFrom(cwd)
}

// InitializeFrom is Initialize with discovery starting at dir.
func InitializeFrom(dir string) error {
	v = viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("AITRI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	RegisterDefaults()
	RegisterPathDefaults()

	// Children spawned by auto-advance are marked with AITRI_AUTO_ADVANCE.
	_ = v.BindEnv(KeyAdvanceEnabled, "AITRI_ADVANCE_ENABLED", "AITRI_AUTO_ADVANCE")

	if userCfg := userConfigPath(); userCfg != "" {
		if _, err := os.Stat(userCfg); err == nil {
			v.SetConfigFile(userCfg)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("error reading user config %s: %w", userCfg, err)
			}
		}
	}

	projectDir = ""
	if found := findProjectConfig(dir); found != "" {
		v.SetConfigFile(found)
		if err := v.MergeInConfig(); err != nil {
			return fmt.Errorf("error reading config file %s: %w", found, err)
		}
		projectDir = filepath.Dir(filepath.Dir(found))
	}
	return nil
}

// ResetForTesting drops all loaded configuration and reinstalls defaults.
func ResetForTesting() {
	v = viper.New()
	projectDir = ""
	RegisterDefaults()
	RegisterPathDefaults()
}

// ProjectDir returns the directory holding the discovered .aitri/, or "".
func ProjectDir() string {
	return projectDir
}

// ConfigFileUsed returns the project config file that was loaded, if any.
func ConfigFileUsed() string {
	if projectDir == "" {
		return ""
	}
	return filepath.Join(projectDir, DirName, FileName)
}

func findProjectConfig(start string) string {
	abs, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	for dir := abs; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, DirName, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		if filepath.Dir(dir) == dir {
			return ""
		}
	}
}

func userConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "aitri", FileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "aitri", FileName)
}

// GetString retrieves a string configuration value
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration retrieves a duration configuration value
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// GetStringSlice retrieves a string slice configuration value
func GetStringSlice(key string) []string {
	if v == nil {
		return nil
	}
	return v.GetStringSlice(key)
}

// Set overrides a value for the rest of the process (used for flags).
func Set(key string, value interface{}) {
	if v == nil {
		ResetForTesting()
	}
	v.Set(key, value)
}

// IsSet reports whether key has a non-default value from any source.
func IsSet(key string) bool {
	if v == nil {
		return false
	}
	return v.IsSet(key)
}

// AllSettings returns every resolved key, for `aitri status --json` diagnostics.
func AllSettings() map[string]interface{} {
	if v == nil {
		return nil
	}
	return v.AllSettings()
}
