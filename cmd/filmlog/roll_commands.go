package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"filmlog/internal/lifecycle"
	"filmlog/internal/store"
)

func newRollCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roll",
		Short: "Track rolls through the shoot and development lifecycle",
	}
	cmd.AddCommand(newRollListCommand(ctx))
	cmd.AddCommand(newRollCreateCommand(ctx))
	cmd.AddCommand(newRollLoadCommand(ctx))
	cmd.AddCommand(newRollAdvanceCommand(ctx))
	cmd.AddCommand(newRollDevelopCommand(ctx))
	cmd.AddCommand(newRollScanCommand(ctx))
	cmd.AddCommand(newRollShowCommand(ctx))
	cmd.AddCommand(newRollFramesCommand(ctx))
	cmd.AddCommand(newRollFrameCommand(ctx))
	cmd.AddCommand(newRollDeleteCommand(ctx))
	return cmd
}

func newRollListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rolls",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			user, err := ctx.currentUser(cmd.Context())
			if err != nil {
				return err
			}

			var statuses []store.Status
			if statusFlag != "" {
				status, ok := store.ParseStatus(statusFlag)
				if !ok {
					return fmt.Errorf("unknown status %q", statusFlag)
				}
				statuses = append(statuses, status)
			}

			summaries, err := st.ListRollSummaries(cmd.Context(), user.ID, statuses...)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, summaries)
			}

			rows := make([][]string, 0, len(summaries))
			for _, summary := range summaries {
				roll := summary.Roll
				rows = append(rows, []string{
					strconv.FormatInt(roll.ID, 10),
					roll.Title,
					summary.StockName,
					summary.CameraName,
					string(roll.Status),
					formatDate(roll.LoadedDate),
					formatDate(roll.DevelopedDate),
				})
			}
			cmd.Println(renderTable(
				[]string{"ID", "Title", "Film Stock", "Camera", "Status", "Loaded", "Developed"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}
	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status (fresh, loaded, shooting, finished, developing, developed)")
	return cmd
}

func newRollCreateCommand(ctx *commandContext) *cobra.Command {
	var (
		stockID  int64
		cameraID int64
		lensID   int64
		title    string
		location string
		notes    string
		push     float64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a fresh roll from a film stock",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.engine()
			if err != nil {
				return err
			}
			user, err := ctx.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			roll, err := engine.Create(cmd.Context(), user.ID, lifecycle.CreateInput{
				FilmStockID:   stockID,
				CameraID:      optionalInt64(cameraID),
				LensID:        optionalInt64(lensID),
				Title:         title,
				Location:      location,
				Notes:         notes,
				PushPullStops: optionalFloat(push, cmd.Flags().Changed("push")),
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, roll)
			}
			cmd.Printf("Created roll %d (%s)\n", roll.ID, roll.Status)
			return nil
		},
	}
	cmd.Flags().Int64Var(&stockID, "stock", 0, "Film stock id (required)")
	cmd.Flags().Int64Var(&cameraID, "camera", 0, "Camera id")
	cmd.Flags().Int64Var(&lensID, "lens", 0, "Lens id")
	cmd.Flags().StringVar(&title, "title", "", "Roll title")
	cmd.Flags().StringVar(&location, "location", "", "Shooting location")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().Float64Var(&push, "push", 0, "Push/pull in stops, e.g. 1 or -0.5")
	_ = cmd.MarkFlagRequired("stock")
	return cmd
}

func newRollLoadCommand(ctx *commandContext) *cobra.Command {
	var (
		cameraID int64
		lensID   int64
		push     float64
		location string
	)
	cmd := &cobra.Command{
		Use:   "load <id>",
		Short: "Load a fresh roll into a camera",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			engine, err := ctx.engine()
			if err != nil {
				return err
			}
			roll, err := engine.Load(cmd.Context(), id, lifecycle.LoadInput{
				CameraID:      cameraID,
				LensID:        optionalInt64(lensID),
				PushPullStops: optionalFloat(push, cmd.Flags().Changed("push")),
				Location:      location,
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, roll)
			}
			cmd.Printf("Roll %d loaded on %s\n", roll.ID, formatDate(roll.LoadedDate))
			return nil
		},
	}
	cmd.Flags().Int64Var(&cameraID, "camera", 0, "Camera id (required)")
	cmd.Flags().Int64Var(&lensID, "lens", 0, "Lens id, propagated onto every frame")
	cmd.Flags().Float64Var(&push, "push", 0, "Push/pull in stops")
	cmd.Flags().StringVar(&location, "location", "", "Shooting location")
	_ = cmd.MarkFlagRequired("camera")
	return cmd
}

func newRollAdvanceCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "advance <id>",
		Short: "Advance a roll to its next status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			engine, err := ctx.engine()
			if err != nil {
				return err
			}
			roll, err := engine.Advance(cmd.Context(), id)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, roll)
			}
			cmd.Printf("Roll %d is now %s\n", roll.ID, roll.Status)
			return nil
		},
	}
}

func newRollDevelopCommand(ctx *commandContext) *cobra.Command {
	var (
		lab      bool
		labName  string
		contact  string
		cost     float64
		process  string
		notes    string
		steps    []string
		recipeID int64
	)
	cmd := &cobra.Command{
		Use:   "develop <id>",
		Short: "Record how a roll was developed",
		Long: `Record development for a finished roll.

Lab development (--lab) moves the roll to developing. Self development
moves it straight to developed; supply --step flags in process order or
--recipe to copy a saved recipe's steps. Step format:

  --step "Chemical|temperature|duration|agitation"

Duration accepts m:ss (8:00) or plain seconds. Everything after the
chemical name is optional.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			engine, err := ctx.engine()
			if err != nil {
				return err
			}

			var dev *store.RollDevelopment
			switch {
			case lab:
				dev, err = engine.DevelopLab(cmd.Context(), id, lifecycle.LabDevelopment{
					LabName:    labName,
					LabContact: contact,
					CostAmount: optionalFloat(cost, cmd.Flags().Changed("cost")),
					Notes:      notes,
				})
			case recipeID > 0:
				dev, err = engine.ApplyRecipe(cmd.Context(), id, recipeID)
			default:
				devSteps := make([]store.DevelopmentStep, 0, len(steps))
				for _, raw := range steps {
					spec := parseStepSpec(raw)
					devSteps = append(devSteps, store.DevelopmentStep{
						ChemicalName:    spec.chemical,
						Temperature:     spec.temp,
						DurationSeconds: spec.duration,
						Agitation:       spec.agitation,
					})
				}
				dev, err = engine.DevelopSelf(cmd.Context(), id, lifecycle.SelfDevelopment{
					ProcessType: process,
					Notes:       notes,
					Steps:       devSteps,
				})
			}
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, dev)
			}
			cmd.Printf("Recorded %s development for roll %d\n", dev.DevType, id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&lab, "lab", false, "Sent to a lab instead of self-developed")
	cmd.Flags().StringVar(&labName, "lab-name", "", "Lab name (required with --lab)")
	cmd.Flags().StringVar(&contact, "contact", "", "Lab contact")
	cmd.Flags().Float64Var(&cost, "cost", 0, "Development cost")
	cmd.Flags().StringVar(&process, "process", "", "Process type: "+strings.Join(store.ProcessTypes, ", "))
	cmd.Flags().StringVar(&notes, "notes", "", "Development notes")
	cmd.Flags().StringArrayVar(&steps, "step", nil, "Process step, repeatable")
	cmd.Flags().Int64Var(&recipeID, "recipe", 0, "Copy steps from a saved recipe")
	return cmd
}

func newRollScanCommand(ctx *commandContext) *cobra.Command {
	var date string
	var notes string
	cmd := &cobra.Command{
		Use:   "scan <id>",
		Short: "Record when a developed roll was scanned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			engine, err := ctx.engine()
			if err != nil {
				return err
			}
			roll, err := engine.RecordScan(cmd.Context(), id, date, notes)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, roll)
			}
			cmd.Printf("Roll %d scanned on %s\n", roll.ID, formatDate(roll.ScanDate))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Scan date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&notes, "notes", "", "Scan notes")
	return cmd
}

func newRollShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a roll, its development record, and dates",
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
			roll, err := st.GetRoll(cmd.Context(), id)
			if err != nil {
				return err
			}
			dev, err := st.GetRollDevelopmentByRoll(cmd.Context(), id)
			if err != nil {
				return err
			}
			var steps []store.DevelopmentStep
			if dev != nil {
				steps, err = st.DevelopmentSteps(cmd.Context(), dev.ID)
				if err != nil {
					return err
				}
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{
					"roll":        roll,
					"development": dev,
					"steps":       steps,
				})
			}

			cmd.Printf("Roll %d: %s\n", roll.ID, roll.Title)
			cmd.Printf("  Status: %s\n", roll.Status)
			if roll.PushPullStops != nil {
				cmd.Printf("  Push/pull: %s stops\n", formatStops(roll.PushPullStops))
			}
			if roll.Location != "" {
				cmd.Printf("  Location: %s\n", roll.Location)
			}
			for _, entry := range []struct {
				label string
				date  string
			}{
				{"Loaded", formatDate(roll.LoadedDate)},
				{"Finished", formatDate(roll.FinishedDate)},
				{"Sent for dev", formatDate(roll.SentForDevDate)},
				{"Developed", formatDate(roll.DevelopedDate)},
				{"Scanned", formatDate(roll.ScanDate)},
			} {
				if entry.date != "" {
					cmd.Printf("  %s: %s\n", entry.label, entry.date)
				}
			}
			if roll.Notes != "" {
				cmd.Printf("  Notes: %s\n", roll.Notes)
			}
			if dev != nil {
				cmd.Printf("  Development: %s", dev.DevType)
				if dev.ProcessType != "" {
					cmd.Printf(" (%s)", dev.ProcessType)
				}
				if dev.LabName != "" {
					cmd.Printf(" at %s", dev.LabName)
				}
				if dev.CostAmount != nil {
					cmd.Printf(", cost %.2f", *dev.CostAmount)
				}
				cmd.Println()
				for _, step := range steps {
					cmd.Printf("    %d. %s", step.StepOrder+1, step.ChemicalName)
					if step.Temperature != "" {
						cmd.Printf(" @ %s", step.Temperature)
					}
					if step.DurationSeconds != nil {
						cmd.Printf(" for %s", formatDuration(step.DurationSeconds))
					}
					if step.Agitation != "" {
						cmd.Printf(" (%s)", step.Agitation)
					}
					cmd.Println()
				}
			}
			return nil
		},
	}
}

func newRollFramesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "frames <id>",
		Short: "List a roll's frames",
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
			frames, err := st.FramesForRoll(cmd.Context(), id)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, frames)
			}
			rows := make([][]string, 0, len(frames))
			for _, frame := range frames {
				rating := ""
				if frame.Rating != nil {
					rating = strconv.FormatInt(*frame.Rating, 10)
				}
				rows = append(rows, []string{
					strconv.Itoa(frame.FrameNumber),
					frame.Subject,
					frame.Aperture,
					frame.ShutterSpeed,
					formatDate(frame.DateTaken),
					frame.Location,
					rating,
				})
			}
			cmd.Println(renderTable(
				[]string{"#", "Subject", "Aperture", "Shutter", "Date", "Location", "Rating"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}
}

func newRollFrameCommand(ctx *commandContext) *cobra.Command {
	var (
		subject  string
		aperture string
		shutter  string
		lensID   int64
		taken    string
		location string
		rating   int64
		notes    string
	)
	cmd := &cobra.Command{
		Use:   "frame <roll-id> <frame-number>",
		Short: "Edit a single frame's exposure details",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rollID, err := parseID(args[0])
			if err != nil {
				return err
			}
			frameNumber, err := strconv.Atoi(args[1])
			if err != nil || frameNumber <= 0 {
				return fmt.Errorf("invalid frame number %q", args[1])
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			frame, err := st.GetFrame(cmd.Context(), rollID, frameNumber)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("subject") {
				frame.Subject = subject
			}
			if flags.Changed("aperture") {
				frame.Aperture = aperture
			}
			if flags.Changed("shutter") {
				frame.ShutterSpeed = shutter
			}
			if flags.Changed("lens") {
				frame.LensID = optionalInt64(lensID)
			}
			if flags.Changed("date") {
				date, err := parseFlagDate(taken)
				if err != nil {
					return err
				}
				frame.DateTaken = date
			}
			if flags.Changed("location") {
				frame.Location = location
			}
			if flags.Changed("rating") {
				if rating < 1 || rating > 5 {
					return fmt.Errorf("rating must be between 1 and 5")
				}
				frame.Rating = &rating
			}
			if flags.Changed("notes") {
				frame.Notes = notes
			}

			if err := st.UpdateFrame(cmd.Context(), frame); err != nil {
				return err
			}
			cmd.Printf("Updated frame %d of roll %d\n", frameNumber, rollID)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "What was photographed")
	cmd.Flags().StringVar(&aperture, "aperture", "", "Aperture, e.g. f/8")
	cmd.Flags().StringVar(&shutter, "shutter", "", "Shutter speed, e.g. 1/250")
	cmd.Flags().Int64Var(&lensID, "lens", 0, "Lens id (0 clears)")
	cmd.Flags().StringVar(&taken, "date", "", "Date taken (YYYY-MM-DD)")
	cmd.Flags().StringVar(&location, "location", "", "Where it was taken")
	cmd.Flags().Int64Var(&rating, "rating", 0, "Rating 1-5")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	return cmd
}

func newRollDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a roll and everything attached to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			engine, err := ctx.engine()
			if err != nil {
				return err
			}
			if err := engine.Delete(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Printf("Deleted roll %d\n", id)
			return nil
		},
	}
}
