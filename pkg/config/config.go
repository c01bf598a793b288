package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Snapshot folder
	Directory    string `yaml:"directory"`
	LiveFallback bool   `yaml:"live_fallback"`

	// History
	MaxDays    int `yaml:"max_days"`
	MaxWorkers int `yaml:"max_workers"`

	// CSV Parsing
	Delimiter  string `yaml:"delimiter"`
	Encoding   string `yaml:"encoding"`
	InferTypes bool   `yaml:"infer_types"`

	// UI Settings
	ColorTheme    string `yaml:"color_theme"`
	ShowAllWidths bool   `yaml:"show_all_widths"`
	Editor        string `yaml:"editor"`

	// Performance
	WatchDebounceMS int `yaml:"watch_debounce_ms"`

	// Export
	ChartOutput string `yaml:"chart_output"`
	ChartTitle  string `yaml:"chart_title"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		Directory:       "",
		LiveFallback:    false,
		MaxDays:         5,
		MaxWorkers:      4,
		Delimiter:       ",",
		Encoding:        "auto",
		InferTypes:      true,
		ColorTheme:      "auto",
		ShowAllWidths:   false,
		Editor:          "",
		WatchDebounceMS: 500,
		ChartOutput:     "",
		ChartTitle:      "Historial de bobinas",
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	// Try to read the file
	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	return cfg, nil
}

// applyDefaults restores essential values that are missing or invalid
func (c *Config) applyDefaults() {
	// 0 keeps every day; anything below means the same
	if c.MaxDays < 0 {
		c.MaxDays = 0
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = 4
	}
	if c.WatchDebounceMS <= 0 {
		c.WatchDebounceMS = 500
	}
	if c.Delimiter == "" || !isValidDelimiter(c.Delimiter) {
		c.Delimiter = ","
	}
	if c.Encoding == "" || !isValidEncoding(c.Encoding) {
		c.Encoding = "auto"
	}
	if !isValidColorTheme(c.ColorTheme) {
		c.ColorTheme = "auto"
	}
	if c.ChartTitle == "" {
		c.ChartTitle = "Historial de bobinas"
	}
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DelimiterRune returns the CSV field separator; "tab" and "\t" mean a tab
func (c *Config) DelimiterRune() rune {
	switch strings.ToLower(c.Delimiter) {
	case "tab", `\t`, "\t":
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// isValidDelimiter accepts a single character other than quotes and line breaks
func isValidDelimiter(d string) bool {
	switch strings.ToLower(d) {
	case "tab", `\t`:
		return true
	}
	if utf8.RuneCountInString(d) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(d)
	return r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError
}

// isValidEncoding checks if the encoding is one the decoder supports
func isValidEncoding(encoding string) bool {
	validEncodings := []string{"auto", "utf-8", "windows-1252", "latin1"}
	for _, valid := range validEncodings {
		if strings.EqualFold(encoding, valid) {
			return true
		}
	}
	return false
}

// isValidColorTheme checks if the color theme is valid
func isValidColorTheme(theme string) bool {
	validThemes := []string{"auto", "dark", "light"}
	for _, valid := range validThemes {
		if theme == valid {
			return true
		}
	}
	return false
}
