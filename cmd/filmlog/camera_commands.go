package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"filmlog/internal/store"
)

func newCameraCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "camera",
		Short: "Manage camera bodies",
	}
	cmd.AddCommand(newCameraListCommand(ctx))
	cmd.AddCommand(newCameraAddCommand(ctx))
	cmd.AddCommand(newCameraShowCommand(ctx))
	cmd.AddCommand(newCameraRemoveCommand(ctx))
	cmd.AddCommand(newCameraIssueCommand(ctx))
	return cmd
}

func newCameraListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cameras",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			user, err := ctx.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			cameras, err := st.ListCameras(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, cameras)
			}
			rows := make([][]string, 0, len(cameras))
			for _, camera := range cameras {
				rows = append(rows, []string{
					strconv.FormatInt(camera.ID, 10),
					camera.Name,
					camera.Make,
					camera.Model,
					camera.CameraType,
					camera.SerialNumber,
				})
			}
			cmd.Println(renderTable(
				[]string{"ID", "Name", "Make", "Model", "Type", "Serial"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}
}

func newCameraAddCommand(ctx *commandContext) *cobra.Command {
	var (
		makeName   string
		model      string
		serial     string
		cameraType string
		notes      string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a camera",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			user, err := ctx.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			camera, err := st.CreateCamera(cmd.Context(), &store.Camera{
				UserID:       user.ID,
				Name:         args[0],
				Make:         makeName,
				Model:        model,
				SerialNumber: serial,
				CameraType:   cameraType,
				Notes:        notes,
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, camera)
			}
			cmd.Printf("Added camera %d: %s\n", camera.ID, camera.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&makeName, "make", "", "Manufacturer")
	cmd.Flags().StringVar(&model, "model", "", "Model name")
	cmd.Flags().StringVar(&serial, "serial", "", "Serial number")
	cmd.Flags().StringVar(&cameraType, "type", "film", "film or digital")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	return cmd
}

func newCameraShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a camera and its issue log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			camera, err := st.GetCamera(cmd.Context(), id)
			if err != nil {
				return err
			}
			issues, err := st.CameraIssues(cmd.Context(), id)
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"camera": camera, "issues": issues})
			}

			cmd.Printf("Camera %d: %s\n", camera.ID, camera.Name)
			if camera.Make != "" || camera.Model != "" {
				cmd.Printf("  Make/Model: %s %s\n", camera.Make, camera.Model)
			}
			if camera.SerialNumber != "" {
				cmd.Printf("  Serial: %s\n", camera.SerialNumber)
			}
			if camera.Notes != "" {
				cmd.Printf("  Notes: %s\n", camera.Notes)
			}
			if len(issues) > 0 {
				cmd.Println("  Issues:")
				for _, issue := range issues {
					cmd.Printf("    [%d] %s (resolved: %s)\n", issue.ID, issue.Description, yesNo(issue.Resolved))
				}
			}
			return nil
		},
	}
}

func newCameraRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a camera",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			if err := st.DeleteCamera(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Printf("Removed camera %d\n", id)
			return nil
		},
	}
}

func newCameraIssueCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Manage a camera's issue log",
	}

	var noted string
	addCmd := &cobra.Command{
		Use:   "add <camera-id> <description>",
		Short: "Log an issue against a camera",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cameraID, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			issue := &store.CameraIssue{CameraID: cameraID, Description: args[1]}
			date, err := parseFlagDate(noted)
			if err != nil {
				return err
			}
			issue.DateNoted = date
			saved, err := st.AddCameraIssue(cmd.Context(), issue)
			if err != nil {
				return err
			}
			cmd.Printf("Logged issue %d on camera %d\n", saved.ID, cameraID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&noted, "date", "", "Date noted (YYYY-MM-DD)")

	resolveCmd := &cobra.Command{
		Use:   "resolve <issue-id>",
		Short: "Mark an issue resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issueID, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			if err := st.ResolveCameraIssue(cmd.Context(), issueID, time.Now()); err != nil {
				return err
			}
			cmd.Printf("Resolved issue %d\n", issueID)
			return nil
		},
	}

	cmd.AddCommand(addCmd, resolveCmd)
	return cmd
}
