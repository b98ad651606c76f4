package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateUser(); err != nil {
		return err
	}
	if err := c.validateStock(); err != nil {
		return err
	}
	if err := c.validateDropbox(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateUser() error {
	if c.User.Name == "" {
		return errors.New("user.name must be set")
	}
	return nil
}

func (c *Config) validateStock() error {
	if c.Stock.LowStockThreshold < 0 {
		return errors.New("stock.low_stock_threshold must be >= 0")
	}
	return nil
}

func (c *Config) validateDropbox() error {
	if !c.Dropbox.Enabled {
		return nil
	}
	if c.Dropbox.AccessToken == "" {
		return errors.New("dropbox.access_token must be set when dropbox.enabled is true")
	}
	if c.Dropbox.RemoteFolder == "" {
		return errors.New("dropbox.remote_folder must be set when dropbox.enabled is true")
	}
	if c.Dropbox.RequestTimeout <= 0 {
		return errors.New("dropbox.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
