package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `deep: true
follow_symlinks: true
exclude:
  - node_modules
  - .git
concurrency: 4
stats_db: /tmp/usbclean/stats.db
log_file: /tmp/usbclean.log
confirm: false
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if !cfg.Deep || !cfg.FollowSymlinks {
		t.Errorf("expected deep and follow_symlinks, got %+v", cfg)
	}
	expectedExclude := []string{"node_modules", ".git"}
	if len(cfg.Exclude) != len(expectedExclude) {
		t.Fatalf("Expected %d exclude entries, got %d", len(expectedExclude), len(cfg.Exclude))
	}
	for i, expected := range expectedExclude {
		if cfg.Exclude[i] != expected {
			t.Errorf("Exclude[%d]: expected %q, got %q", i, expected, cfg.Exclude[i])
		}
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Concurrency)
	}
	if cfg.MaxDepth != 256 {
		t.Errorf("unset max_depth should keep default, got %d", cfg.MaxDepth)
	}
	if cfg.StatsDB != "/tmp/usbclean/stats.db" || cfg.LogFile != "/tmp/usbclean.log" {
		t.Errorf("unexpected paths: %q %q", cfg.StatsDB, cfg.LogFile)
	}
	if cfg.Confirm {
		t.Error("confirm should be false")
	}
}

func TestLoadConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig should return default config for nonexistent file, got error: %v", err)
	}
	if cfg.Deep {
		t.Error("default scan should be shallow")
	}
	if !cfg.Confirm {
		t.Error("default should confirm before deleting")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(configPath, []byte("deep: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(configPath); err == nil {
		t.Error("LoadConfig should return error for invalid YAML")
	}
}

func TestLoadConfig_EmptyConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed for empty config: %v", err)
	}
	if cfg.Exclude == nil {
		t.Error("Exclude should not be nil")
	}
}

func TestLoadConfig_RejectsNegativeValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("concurrency: -1\nmax_depth: -2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"concurrency", "max_depth"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestValidate_ExcludeMustBeName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude = []string{"a/b"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected path-like exclude to be rejected")
	}
}
