package appdirs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_XDG(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))

	d, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"config", d.ConfigPath, filepath.Join(root, "config", "bobina", "config.yaml")},
		{"cache", d.CachePath, filepath.Join(root, "cache", "bobina")},
		{"charts", d.ChartsPath, filepath.Join(root, "cache", "bobina", "charts")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}

func TestDirs_ChartPath(t *testing.T) {
	d := &Dirs{ChartsPath: "/test/cache/charts"}

	if got := d.ChartPath("historial.html"); got != filepath.Join("/test/cache/charts", "historial.html") {
		t.Errorf("ChartPath() = %q", got)
	}
}

func TestDirs_Initialize(t *testing.T) {
	root := t.TempDir()
	d := &Dirs{
		ConfigPath: filepath.Join(root, "config", "config.yaml"),
		CachePath:  filepath.Join(root, "cache"),
		ChartsPath: filepath.Join(root, "cache", "charts"),
	}

	if d.ConfigExists() {
		t.Error("config should not exist yet")
	}

	if err := d.Initialize(); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	for _, dir := range []string{filepath.Dir(d.ConfigPath), d.CachePath, d.ChartsPath} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s", dir)
		}
	}

	if err := os.WriteFile(d.ConfigPath, []byte("max_days: 5\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if !d.ConfigExists() {
		t.Error("config should exist after writing it")
	}
}
