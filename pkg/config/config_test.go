package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes yamlContent to a fresh config file and returns its path
func writeConfig(t *testing.T, yamlContent string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}
	return configPath
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Directory", cfg.Directory, ""},
		{"MaxDays", cfg.MaxDays, 5},
		{"MaxWorkers", cfg.MaxWorkers, 4},
		{"Delimiter", cfg.Delimiter, ","},
		{"Encoding", cfg.Encoding, "auto"},
		{"InferTypes", cfg.InferTypes, true},
		{"LiveFallback", cfg.LiveFallback, false},
		{"WatchDebounceMS", cfg.WatchDebounceMS, 500},
		{"ShowAllWidths", cfg.ShowAllWidths, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	// Loading a non-existent file should return default config
	cfg, err := Load("/nonexistent/path/config.yaml")

	if err != nil {
		t.Fatalf("unexpected error loading non-existent file: %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.MaxDays != 5 {
		t.Errorf("expected default MaxDays=5, got %d", cfg.MaxDays)
	}
}

func TestSave_And_Load(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Directory = "/srv/exports/bobinas"
	cfg.MaxDays = 30
	cfg.MaxWorkers = 8
	cfg.Delimiter = ";"
	cfg.InferTypes = false
	cfg.LiveFallback = true

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loadedCfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loadedCfg.Directory != cfg.Directory {
		t.Errorf("Directory: expected %q, got %q", cfg.Directory, loadedCfg.Directory)
	}
	if loadedCfg.MaxDays != 30 {
		t.Errorf("MaxDays: expected 30, got %d", loadedCfg.MaxDays)
	}
	if loadedCfg.MaxWorkers != 8 {
		t.Errorf("MaxWorkers: expected 8, got %d", loadedCfg.MaxWorkers)
	}
	if loadedCfg.DelimiterRune() != ';' {
		t.Errorf("Delimiter: expected ';', got %q", loadedCfg.Delimiter)
	}
	if loadedCfg.InferTypes {
		t.Error("InferTypes: expected false to survive a round trip")
	}
	if !loadedCfg.LiveFallback {
		t.Error("LiveFallback: expected true")
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	configPath := writeConfig(t, `directory: /tmp/exports
editor: nvim
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Should apply defaults for missing values
	if cfg.MaxDays != 5 {
		t.Errorf("expected default MaxDays=5, got %d", cfg.MaxDays)
	}
	if cfg.MaxWorkers != 4 {
		t.Errorf("expected default MaxWorkers=4, got %d", cfg.MaxWorkers)
	}
	if !cfg.InferTypes {
		t.Error("expected default InferTypes=true")
	}

	// Should preserve specified values
	if cfg.Directory != "/tmp/exports" {
		t.Errorf("expected Directory='/tmp/exports', got %q", cfg.Directory)
	}
	if cfg.Editor != "nvim" {
		t.Errorf("expected Editor='nvim', got %q", cfg.Editor)
	}
}

func TestLoad_MaxDays(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		expected int
	}{
		{"zero keeps every day", "max_days: 0\n", 0},
		{"negative clamps to zero", "max_days: -3\n", 0},
		{"positive is kept", "max_days: 12\n", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.yaml))
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}
			if cfg.MaxDays != tt.expected {
				t.Errorf("MaxDays: expected %d, got %d", tt.expected, cfg.MaxDays)
			}
		})
	}
}

func TestLoad_ZeroMaxWorkers(t *testing.T) {
	cfg, err := Load(writeConfig(t, "max_workers: 0\n"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.MaxWorkers != 4 {
		t.Errorf("expected default MaxWorkers=4 for zero value, got %d", cfg.MaxWorkers)
	}
}

func TestLoad_NegativeDebounce(t *testing.T) {
	cfg, err := Load(writeConfig(t, "watch_debounce_ms: -1\n"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.WatchDebounceMS != 500 {
		t.Errorf("expected default WatchDebounceMS=500, got %d", cfg.WatchDebounceMS)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, `directory: /tmp
delimiter: [invalid yaml structure
`)

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected error loading invalid YAML, got nil")
	}
}

func TestLoad_Enumerations(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		delimiter string
		encoding  string
		theme     string
	}{
		{"valid values", "delimiter: \";\"\nencoding: windows-1252\ncolor_theme: dark\n", ";", "windows-1252", "dark"},
		{"tab delimiter", "delimiter: tab\n", "tab", "auto", "auto"},
		{"multi-character delimiter", "delimiter: \";;\"\n", ",", "auto", "auto"},
		{"quote delimiter", "delimiter: '\"'\n", ",", "auto", "auto"},
		{"unknown encoding", "encoding: ebcdic\n", ",", "auto", "auto"},
		{"unknown theme", "color_theme: neon\n", ",", "auto", "auto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.yaml))
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}
			if cfg.Delimiter != tt.delimiter {
				t.Errorf("Delimiter: expected %q, got %q", tt.delimiter, cfg.Delimiter)
			}
			if cfg.Encoding != tt.encoding {
				t.Errorf("Encoding: expected %q, got %q", tt.encoding, cfg.Encoding)
			}
			if cfg.ColorTheme != tt.theme {
				t.Errorf("ColorTheme: expected %q, got %q", tt.theme, cfg.ColorTheme)
			}
		})
	}
}

func TestDelimiterRune(t *testing.T) {
	tests := []struct {
		delimiter string
		expected  rune
	}{
		{",", ','},
		{";", ';'},
		{"tab", '\t'},
		{"\t", '\t'},
		{"|", '|'},
		{"", ','},
	}

	for _, tt := range tests {
		cfg := &Config{Delimiter: tt.delimiter}
		if got := cfg.DelimiterRune(); got != tt.expected {
			t.Errorf("DelimiterRune(%q) = %q, want %q", tt.delimiter, got, tt.expected)
		}
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestSave_ValidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Directory = "/srv/exports"
	cfg.Editor = "emacs"

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}

	content := string(data)
	for _, want := range []string{"directory: /srv/exports", "editor: emacs", "max_days: 5"} {
		if !strings.Contains(content, want) {
			t.Errorf("config file should contain %q", want)
		}
	}
}
