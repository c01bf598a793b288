package appdirs

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "bobina"

// Dirs holds the locations bobina reads and writes outside the snapshot folder
type Dirs struct {
	ConfigPath string
	CachePath  string
	ChartsPath string
}

// New resolves XDG-compliant paths
func New() (*Dirs, error) {
	configPath, configErr := getConfigPath()
	cachePath, cacheErr := getCacheRoot()
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}
	if cacheErr != nil {
		return nil, fmt.Errorf("failed to determine cache directory: %w", cacheErr)
	}

	return &Dirs{
		ConfigPath: configPath,
		CachePath:  cachePath,
		ChartsPath: filepath.Join(cachePath, "charts"),
	}, nil
}

func getConfigPath() (string, error) {
	// Check XDG_CONFIG_HOME first (Unix-like systems)
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// Check if we're on Windows by looking for APPDATA
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName, "config.yaml"), nil
	}

	// Fall back to ~/.config/bobina/config.yaml
	return filepath.Join(homeDir, ".config", appName, "config.yaml"), nil
}

func getCacheRoot() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		return filepath.Join(localAppData, appName, "cache"), nil
	}

	return filepath.Join(homeDir, ".cache", appName), nil
}

// Initialize creates the config and cache directories if they don't exist
func (d *Dirs) Initialize() error {
	directories := []string{
		filepath.Dir(d.ConfigPath),
		d.CachePath,
		d.ChartsPath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ConfigExists checks if a config file has been written
func (d *Dirs) ConfigExists() bool {
	info, err := os.Stat(d.ConfigPath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ChartPath returns the full path for an exported chart
func (d *Dirs) ChartPath(filename string) string {
	return filepath.Join(d.ChartsPath, filename)
}
