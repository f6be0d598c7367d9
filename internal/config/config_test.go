package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/sbu-cli/sbu/internal/errors"
)

func TestInit_Defaults(t *testing.T) {
	viper.Reset()
	Init()

	if got := viper.GetString("overwrite_mode"); got != "default" {
		t.Errorf("expected overwrite_mode default %q, got %q", "default", got)
	}
	if got := viper.GetString("compress"); got != "tgz" {
		t.Errorf("expected compress default %q, got %q", "tgz", got)
	}
	if got := viper.GetInt("workers"); got != 8 {
		t.Errorf("expected workers default 8, got %d", got)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	viper.Reset()
	Init()
	// Point the search path somewhere empty.
	viper.AddConfigPath(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.OverwriteMode != "default" {
		t.Errorf("expected default overwrite mode, got %q", cfg.OverwriteMode)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	viper.Reset()
	Init()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := []byte("overwrite_mode: force\ncompress: zip\nworkers: 2\n")
	if err := os.WriteFile(configPath, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.OverwriteMode != "force" {
		t.Errorf("expected force, got %q", cfg.OverwriteMode)
	}
	if cfg.Compress != "zip" {
		t.Errorf("expected zip, got %q", cfg.Compress)
	}
	if cfg.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Workers)
	}
}

func TestLoad_InvalidMode(t *testing.T) {
	viper.Reset()
	Init()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("overwrite_mode: maybe\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(configPath)
	if !errors.Is(err, errors.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	viper.Reset()
	Init()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for explicit missing config path")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty is valid", Config{}, false},
		{"valid full", Config{OverwriteMode: "interactive", Compress: "tzst", Workers: 4}, false},
		{"bad mode", Config{OverwriteMode: "ask"}, true},
		{"bad format", Config{Compress: "rar"}, true},
		{"negative workers", Config{Workers: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
