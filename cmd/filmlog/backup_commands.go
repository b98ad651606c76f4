package main

import (
	"github.com/spf13/cobra"

	"filmlog/internal/backup"
)

func newBackupCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back the database up to Dropbox",
	}
	cmd.AddCommand(newBackupRunCommand(ctx))
	cmd.AddCommand(newBackupStatusCommand(ctx))
	return cmd
}

func (c *commandContext) backupRunner() (*backup.Runner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	st, err := c.ensureStore()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return backup.NewRunner(cfg, st, nil, logger), nil
}

func newBackupRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Upload a database snapshot now",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.backupRunner()
			if err != nil {
				return err
			}
			user, err := ctx.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			result, err := runner.Run(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}
			cmd.Printf("Uploaded snapshot to %s\n", result.RemotePath)
			return nil
		},
	}
}

func newBackupStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show when the last backup ran",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runner, err := ctx.backupRunner()
			if err != nil {
				return err
			}
			user, err := ctx.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			last, err := runner.LastSync(cmd.Context(), user.ID)
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{
					"enabled":   cfg.Dropbox.Enabled,
					"last_sync": last,
				})
			}

			cmd.Printf("Dropbox backup enabled: %s\n", yesNo(cfg.Dropbox.Enabled))
			if last != nil {
				cmd.Printf("Last sync: %s\n", last.Format("2006-01-02 15:04:05"))
			} else {
				cmd.Println("Last sync: never")
			}
			return nil
		},
	}
}
