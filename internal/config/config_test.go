package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filmlog/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file to be reported")
	}
	if cfg.User.Name != "admin" {
		t.Fatalf("expected default user admin, got %q", cfg.User.Name)
	}
	if cfg.Stock.LowStockThreshold != 2 {
		t.Fatalf("expected default threshold 2, got %d", cfg.Stock.LowStockThreshold)
	}
	if !strings.HasSuffix(cfg.DatabasePath(), "filmlog.db") {
		t.Fatalf("unexpected database path %q", cfg.DatabasePath())
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + dir + `/data"

[user]
name = "  erin  "

[dropbox]
enabled = true
access_token = "tok"
remote_folder = "backups"

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be found, got %q exists=%v", path, resolved, exists)
	}
	if cfg.User.Name != "erin" {
		t.Fatalf("expected trimmed user name, got %q", cfg.User.Name)
	}
	if cfg.Dropbox.RemoteFolder != "/backups" {
		t.Fatalf("expected remote folder with leading slash, got %q", cfg.Dropbox.RemoteFolder)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lowercase format, got %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty user", func(c *config.Config) { c.User.Name = "" }},
		{"negative threshold", func(c *config.Config) { c.Stock.LowStockThreshold = -1 }},
		{"dropbox without token", func(c *config.Config) {
			c.Dropbox.Enabled = true
			c.Dropbox.AccessToken = ""
		}},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[dropbox]") {
		t.Fatal("expected sample to include dropbox section")
	}
}
