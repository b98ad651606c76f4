package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"filmlog/internal/store"
)

func newRecipeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Manage reusable development recipes",
	}
	cmd.AddCommand(newRecipeListCommand(ctx))
	cmd.AddCommand(newRecipeAddCommand(ctx))
	cmd.AddCommand(newRecipeShowCommand(ctx))
	cmd.AddCommand(newRecipeRemoveCommand(ctx))
	return cmd
}

func newRecipeListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List development recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			user, err := ctx.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			recipes, err := st.ListDevRecipes(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, recipes)
			}
			rows := make([][]string, 0, len(recipes))
			for _, recipe := range recipes {
				rows = append(rows, []string{
					strconv.FormatInt(recipe.ID, 10),
					recipe.Name,
					recipe.ProcessType,
				})
			}
			cmd.Println(renderTable(
				[]string{"ID", "Name", "Process"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}
}

func newRecipeAddCommand(ctx *commandContext) *cobra.Command {
	var (
		process string
		notes   string
		steps   []string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Save a development recipe",
		Long: `Save a named recipe whose steps can later be copied onto a roll with
"roll develop --recipe". Steps use the same format as roll develop:

  --step "Chemical|temperature|duration|agitation"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			user, err := ctx.currentUser(cmd.Context())
			if err != nil {
				return err
			}

			recipeSteps := make([]store.DevRecipeStep, 0, len(steps))
			for _, raw := range steps {
				spec := parseStepSpec(raw)
				if spec.chemical == "" {
					continue
				}
				recipeSteps = append(recipeSteps, store.DevRecipeStep{
					StepOrder:       len(recipeSteps),
					ChemicalName:    spec.chemical,
					Temperature:     spec.temp,
					DurationSeconds: spec.duration,
					Agitation:       spec.agitation,
				})
			}

			recipe, err := st.SaveDevRecipe(cmd.Context(), &store.DevRecipe{
				UserID:      user.ID,
				Name:        args[0],
				ProcessType: process,
				Notes:       notes,
			}, recipeSteps)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, recipe)
			}
			cmd.Printf("Saved recipe %d: %s (%d steps)\n", recipe.ID, recipe.Name, len(recipeSteps))
			return nil
		},
	}
	cmd.Flags().StringVar(&process, "process", "", "Process type: "+strings.Join(store.ProcessTypes, ", "))
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringArrayVar(&steps, "step", nil, "Process step, repeatable")
	return cmd
}

func newRecipeShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recipe and its steps",
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
			recipe, err := st.GetDevRecipe(cmd.Context(), id)
			if err != nil {
				return err
			}
			steps, err := st.DevRecipeSteps(cmd.Context(), id)
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"recipe": recipe, "steps": steps})
			}

			cmd.Printf("Recipe %d: %s", recipe.ID, recipe.Name)
			if recipe.ProcessType != "" {
				cmd.Printf(" (%s)", recipe.ProcessType)
			}
			cmd.Println()
			if recipe.Notes != "" {
				cmd.Printf("  Notes: %s\n", recipe.Notes)
			}
			for _, step := range steps {
				cmd.Printf("  %d. %s", step.StepOrder+1, step.ChemicalName)
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
			return nil
		},
	}
}

func newRecipeRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a recipe",
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
			if err := st.DeleteDevRecipe(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Printf("Removed recipe %d\n", id)
			return nil
		},
	}
}
