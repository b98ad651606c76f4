package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"filmlog/internal/store"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog totals, breakdowns, and low-stock alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
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

			stats, err := st.CollectStats(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			lowStock, err := st.LowFilmStocks(cmd.Context(), user.ID, cfg.Stock.LowStockThreshold)
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{
					"stats":     stats,
					"low_stock": lowStock,
				})
			}

			cmd.Printf("Rolls: %d  Frames: %d  Cameras: %d  Lenses: %d  Stocks: %d\n",
				stats.TotalRolls, stats.TotalFrames, stats.TotalCameras, stats.TotalLenses, stats.TotalStocks)
			if stats.TotalDevCost > 0 {
				cmd.Printf("Total development cost: %.2f\n", stats.TotalDevCost)
			}

			printGroup(cmd, "By status", stats.RollsByStatus)
			printGroup(cmd, "By format", stats.RollsByFormat)
			printGroup(cmd, "By film type", stats.RollsByType)
			printGroup(cmd, "By month", stats.RollsByMonth)
			printGroup(cmd, "Top stocks", stats.TopStocks)
			printGroup(cmd, "Top cameras", stats.TopCameras)
			printGroup(cmd, "Top lenses", stats.TopLenses)
			printGroup(cmd, "Top locations", stats.TopLocations)
			printGroup(cmd, "Development", stats.DevTypeSplit)

			if len(stats.LoadedCameras) > 0 {
				cmd.Println("\nLoaded cameras:")
				rows := make([][]string, 0, len(stats.LoadedCameras))
				for _, loaded := range stats.LoadedCameras {
					rows = append(rows, []string{
						loaded.CameraName,
						strconv.FormatInt(loaded.RollID, 10),
						loaded.StockName,
						string(loaded.Status),
					})
				}
				cmd.Println(renderTable(
					[]string{"Camera", "Roll", "Film Stock", "Status"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
			}

			if len(lowStock) > 0 {
				cmd.Println("\nLow stock:")
				for _, entry := range lowStock {
					if entry.OutOfStock {
						cmd.Printf("  %s: out of stock\n", entry.Stock.DisplayName())
					} else {
						cmd.Printf("  %s: %d left\n", entry.Stock.DisplayName(), entry.Stock.QuantityOnHand)
					}
				}
			}
			return nil
		},
	}
}

func printGroup(cmd *cobra.Command, title string, entries []store.CountEntry) {
	if len(entries) == 0 {
		return
	}
	cmd.Printf("\n%s:\n", title)
	for _, entry := range entries {
		cmd.Printf("  %-24s %d\n", entry.Label, entry.Count)
	}
}
