package testsupport

import (
	"path/filepath"
	"testing"

	"filmlog/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ExportDir = filepath.Join(base, "exports")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithLowStockThreshold overrides the alert threshold on the test config.
func WithLowStockThreshold(threshold int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Stock.LowStockThreshold = threshold
	}
}

// WithDropbox enables the backup provider on the test config.
func WithDropbox(token, folder string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Dropbox.Enabled = true
		cfg.Dropbox.AccessToken = token
		cfg.Dropbox.RemoteFolder = folder
	}
}
