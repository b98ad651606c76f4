package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"filmlog/internal/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export rolls and frames to CSV or JSON",
	}
	cmd.AddCommand(newExportRollsCommand(ctx))
	cmd.AddCommand(newExportFramesCommand(ctx))
	return cmd
}

// exportWriter opens the output target: an explicit --output path, a
// timestamped file in the configured export directory, or stdout with "-".
func exportWriter(ctx *commandContext, cmd *cobra.Command, output, stem string, format export.Format) (io.WriteCloser, string, error) {
	if output == "-" {
		return nopWriteCloser{cmd.OutOrStdout()}, "", nil
	}
	if output == "" {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return nil, "", err
		}
		name := fmt.Sprintf("%s-%s.%s", stem, time.Now().Format("2006-01-02"), format)
		output = filepath.Join(cfg.Paths.ExportDir, name)
	}
	file, err := os.Create(output)
	if err != nil {
		return nil, "", fmt.Errorf("create export file: %w", err)
	}
	return file, output, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func newExportRollsCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var output string
	cmd := &cobra.Command{
		Use:   "rolls",
		Short: "Export every roll with its lifecycle dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			user, err := ctx.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			summaries, err := st.ListRollSummaries(cmd.Context(), user.ID)
			if err != nil {
				return err
			}

			w, path, err := exportWriter(ctx, cmd, output, "rolls", format)
			if err != nil {
				return err
			}
			defer w.Close()

			if err := export.Rolls(w, format, summaries); err != nil {
				return err
			}
			if path != "" {
				cmd.Printf("Exported %d rolls to %s\n", len(summaries), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&formatFlag, "format", "csv", "csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (- for stdout)")
	return cmd
}

func newExportFramesCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var output string
	var rollID int64
	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Export a roll's frame log",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			user, err := ctx.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			frames, err := st.FramesForRoll(cmd.Context(), rollID)
			if err != nil {
				return err
			}

			lenses, err := st.ListLenses(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			lensNames := make(map[int64]string, len(lenses))
			for _, lens := range lenses {
				lensNames[lens.ID] = lens.Name
			}

			stem := fmt.Sprintf("roll-%d-frames", rollID)
			w, path, err := exportWriter(ctx, cmd, output, stem, format)
			if err != nil {
				return err
			}
			defer w.Close()

			if err := export.Frames(w, format, frames, lensNames); err != nil {
				return err
			}
			if path != "" {
				cmd.Printf("Exported %d frames to %s\n", len(frames), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&formatFlag, "format", "csv", "csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (- for stdout)")
	cmd.Flags().Int64Var(&rollID, "roll", 0, "Roll id (required)")
	_ = cmd.MarkFlagRequired("roll")
	return cmd
}
