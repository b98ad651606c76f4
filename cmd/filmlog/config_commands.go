package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"filmlog/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and bootstrap configuration",
	}
	cmd.AddCommand(newConfigInitCommand(ctx))
	cmd.AddCommand(newConfigShowCommand(ctx))
	return cmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = defaultPath
			} else {
				expanded, err := config.ExpandPath(path)
				if err != nil {
					return err
				}
				path = expanded
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
				}
			}

			if err := config.CreateSample(path); err != nil {
				return err
			}
			cmd.Printf("Wrote sample configuration to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{
					"config_file":         ctx.configPath,
					"data_dir":            cfg.Paths.DataDir,
					"export_dir":          cfg.Paths.ExportDir,
					"database":            cfg.DatabasePath(),
					"user":                cfg.User.Name,
					"low_stock_threshold": cfg.Stock.LowStockThreshold,
					"dropbox_enabled":     cfg.Dropbox.Enabled,
					"log_format":          cfg.Logging.Format,
					"log_level":           cfg.Logging.Level,
				})
			}

			cmd.Printf("Config file: %s\n", ctx.configPath)
			cmd.Printf("Data directory: %s\n", cfg.Paths.DataDir)
			cmd.Printf("Export directory: %s\n", cfg.Paths.ExportDir)
			cmd.Printf("Database: %s\n", cfg.DatabasePath())
			cmd.Printf("User: %s\n", cfg.User.Name)
			cmd.Printf("Low stock threshold: %d\n", cfg.Stock.LowStockThreshold)
			cmd.Printf("Dropbox backup: %s\n", yesNo(cfg.Dropbox.Enabled))
			cmd.Printf("Logging: %s at %s\n", cfg.Logging.Format, cfg.Logging.Level)
			return nil
		},
	}
}
