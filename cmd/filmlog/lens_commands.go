package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"filmlog/internal/store"
)

func newLensCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lens",
		Short: "Manage lenses",
	}
	cmd.AddCommand(newLensListCommand(ctx))
	cmd.AddCommand(newLensAddCommand(ctx))
	cmd.AddCommand(newLensShowCommand(ctx))
	cmd.AddCommand(newLensRemoveCommand(ctx))
	cmd.AddCommand(newLensNoteCommand(ctx))
	return cmd
}

func newLensListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List lenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			user, err := ctx.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			lenses, err := st.ListLenses(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, lenses)
			}
			rows := make([][]string, 0, len(lenses))
			for _, lens := range lenses {
				rows = append(rows, []string{
					strconv.FormatInt(lens.ID, 10),
					lens.Name,
					lens.Make,
					lens.FocalLength,
					lens.MaxAperture,
				})
			}
			cmd.Println(renderTable(
				[]string{"ID", "Name", "Make", "Focal Length", "Max Aperture"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}
}

func newLensAddCommand(ctx *commandContext) *cobra.Command {
	var (
		makeName string
		model    string
		focal    string
		aperture string
		filter   string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a lens",
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
			lens, err := st.CreateLens(cmd.Context(), &store.Lens{
				UserID:         user.ID,
				Name:           args[0],
				Make:           makeName,
				Model:          model,
				FocalLength:    focal,
				MaxAperture:    aperture,
				FilterDiameter: filter,
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, lens)
			}
			cmd.Printf("Added lens %d: %s\n", lens.ID, lens.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&makeName, "make", "", "Manufacturer")
	cmd.Flags().StringVar(&model, "model", "", "Model name")
	cmd.Flags().StringVar(&focal, "focal", "", "Focal length, e.g. 50mm")
	cmd.Flags().StringVar(&aperture, "aperture", "", "Maximum aperture, e.g. f/1.8")
	cmd.Flags().StringVar(&filter, "filter", "", "Filter diameter, e.g. 52mm")
	return cmd
}

func newLensShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a lens and its notes",
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
			lens, err := st.GetLens(cmd.Context(), id)
			if err != nil {
				return err
			}
			notes, err := st.LensNotes(cmd.Context(), id)
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"lens": lens, "notes": notes})
			}

			cmd.Printf("Lens %d: %s\n", lens.ID, lens.Name)
			if lens.Make != "" || lens.Model != "" {
				cmd.Printf("  Make/Model: %s %s\n", lens.Make, lens.Model)
			}
			if lens.FocalLength != "" {
				cmd.Printf("  Focal length: %s\n", lens.FocalLength)
			}
			if lens.MaxAperture != "" {
				cmd.Printf("  Max aperture: %s\n", lens.MaxAperture)
			}
			if lens.FilterDiameter != "" {
				cmd.Printf("  Filter diameter: %s\n", lens.FilterDiameter)
			}
			for _, note := range notes {
				cmd.Printf("  Note [%s]: %s\n", note.CreatedAt.Format("2006-01-02"), note.Content)
			}
			return nil
		},
	}
}

func newLensRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a lens",
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
			if err := st.DeleteLens(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Printf("Removed lens %d\n", id)
			return nil
		},
	}
}

func newLensNoteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "note <lens-id> <content>",
		Short: "Attach a note to a lens",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lensID, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			note, err := st.AddLensNote(cmd.Context(), lensID, args[1])
			if err != nil {
				return err
			}
			cmd.Printf("Added note %d to lens %d\n", note.ID, lensID)
			return nil
		},
	}
}
