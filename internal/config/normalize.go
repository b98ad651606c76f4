package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}

	c.User.Name = strings.TrimSpace(c.User.Name)
	c.Dropbox.AccessToken = strings.TrimSpace(c.Dropbox.AccessToken)
	c.Dropbox.RemoteFolder = strings.TrimSpace(c.Dropbox.RemoteFolder)
	if c.Dropbox.RemoteFolder != "" && !strings.HasPrefix(c.Dropbox.RemoteFolder, "/") {
		c.Dropbox.RemoteFolder = "/" + c.Dropbox.RemoteFolder
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}
