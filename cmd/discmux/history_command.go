package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"discmux/internal/disc"
	"discmux/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently completed rips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			if !cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Rip history is disabled (history.enabled = false).")
				return nil
			}

			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open rip history: %w", err)
			}
			defer store.Close()

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No completed rips recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.CompletedAt.Local().Format(time.DateTime),
					record.Artist,
					record.Album,
					strconv.Itoa(record.TrackCount),
					formatDiscDuration(record.TotalSamples),
					record.OutputPath,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Completed", "Artist", "Album", "Tracks", "Length", "Output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of records to show")
	return cmd
}

func formatDiscDuration(totalSamples int64) string {
	seconds := totalSamples / disc.SampleRate
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
