package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".planetpage"

// xdgConfigFile is the configuration file name inside the XDG config directory.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile decodes the YAML file at path on top of cfg.
// Keys absent from the file keep the value already in cfg, so callers pass
// a Config from NewConfig to get defaults for everything not overridden.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return ErrConfigNotFound
		}
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.ConfigFilePath = path
	return nil
}

// ApplyEnv overrides cfg with any PLANETPAGE_* environment variables that are set.
// Unset variables leave the current value untouched: no field carries an
// env-default tag, so cleanenv only writes the variables it finds.
func ApplyEnv(cfg *Config) error {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// Load builds a Config from defaults, the configuration file and the environment.
// If configPath is set and does not exist, it returns ErrConfigNotFound.
// If configPath is empty and no file is found, defaults are used.
func Load(configPath string) (*Config, error) {
	cfg := NewConfig()

	found := FindConfigFile(configPath)
	switch {
	case found != "":
		if err := LoadConfigFile(found, cfg); err != nil {
			return nil, err
		}
	case configPath != "":
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .planetpage in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .planetpage in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
