package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment
// variables first.
// Environment variables:
//   - FLIST_CONFIG_PATH: config file location (default: ~/.config/flist.toml)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working directory: %w", err)
	}

	return map[string]string{
		"config_path": configPath,
		"out_dir":     cwd,
	}, nil
}

// getConfigPath returns the config file path, checking FLIST_CONFIG_PATH
// env var first, then falling back to the default ~/.config/flist.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("FLIST_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "flist.toml"), nil
}
