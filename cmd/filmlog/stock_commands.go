package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"filmlog/internal/store"
)

func newStockCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Manage the film stock inventory",
	}
	cmd.AddCommand(newStockListCommand(ctx))
	cmd.AddCommand(newStockAddCommand(ctx))
	cmd.AddCommand(newStockSetCommand(ctx))
	cmd.AddCommand(newStockRemoveCommand(ctx))
	return cmd
}

func newStockListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List film stocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			user, err := ctx.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			stocks, err := st.ListFilmStocks(cmd.Context(), user.ID)
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, stocks)
			}

			rows := make([][]string, 0, len(stocks))
			for _, stock := range stocks {
				iso := ""
				if stock.ISO != nil {
					iso = strconv.FormatInt(*stock.ISO, 10)
				}
				rows = append(rows, []string{
					strconv.FormatInt(stock.ID, 10),
					stock.DisplayName(),
					stock.Type,
					iso,
					stock.Format,
					strconv.Itoa(stock.FramesPerRoll),
					strconv.Itoa(stock.QuantityOnHand),
				})
			}
			cmd.Println(renderTable(
				[]string{"ID", "Stock", "Type", "ISO", "Format", "Frames", "On Hand"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
}

func newStockAddCommand(ctx *commandContext) *cobra.Command {
	var (
		brand    string
		kind     string
		media    string
		iso      int64
		format   string
		frames   int
		quantity int
		notes    string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a film stock",
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
			stock, err := st.CreateFilmStock(cmd.Context(), &store.FilmStock{
				UserID:         user.ID,
				Brand:          brand,
				Name:           args[0],
				Type:           kind,
				MediaType:      media,
				ISO:            optionalInt64(iso),
				Format:         format,
				FramesPerRoll:  frames,
				QuantityOnHand: quantity,
				Notes:          notes,
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, stock)
			}
			cmd.Printf("Added film stock %d: %s\n", stock.ID, stock.DisplayName())
			return nil
		},
	}
	cmd.Flags().StringVar(&brand, "brand", "", "Manufacturer")
	cmd.Flags().StringVar(&kind, "type", "", "color or black_and_white")
	cmd.Flags().StringVar(&media, "media", store.MediaAnalog, "analog or digital")
	cmd.Flags().Int64Var(&iso, "iso", 0, "Box speed")
	cmd.Flags().StringVar(&format, "format", "", "Film format, e.g. 35mm or 120")
	cmd.Flags().IntVar(&frames, "frames", 0, "Frames per roll (0 = unbounded)")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "Rolls on hand")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	return cmd
}

func newStockSetCommand(ctx *commandContext) *cobra.Command {
	var quantity int
	var notes string
	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Edit a film stock",
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
			stock, err := st.GetFilmStock(cmd.Context(), id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("quantity") {
				stock.QuantityOnHand = quantity
			}
			if cmd.Flags().Changed("notes") {
				stock.Notes = notes
			}
			if err := st.UpdateFilmStock(cmd.Context(), stock); err != nil {
				return err
			}
			cmd.Printf("Updated film stock %d\n", stock.ID)
			return nil
		},
	}
	cmd.Flags().IntVar(&quantity, "quantity", 0, "Rolls on hand")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	return cmd
}

func newStockRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a film stock",
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
			if err := st.DeleteFilmStock(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Printf("Removed film stock %d\n", id)
			return nil
		},
	}
}
