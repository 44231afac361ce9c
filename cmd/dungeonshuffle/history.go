package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history <location-id>",
	Short: "Show generation statistics for a location",
	Long: `Display attempt statistics and the most recent stored layouts of a
location.

Examples:
  dungeonshuffle history 7
  dungeonshuffle history 7 --limit 20`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of layouts to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	locationID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid location id %q", args[0])
	}
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.AttemptStats(locationID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Location %d\n\n", locationID)
	if stats.Total == 0 {
		fmt.Fprintln(out, "No attempts recorded yet.")
		return nil
	}
	fmt.Fprintf(out, "Attempts:  %d\n", stats.Total)
	fmt.Fprintf(out, "Succeeded: %d (%.1f%%)\n", stats.Succeeded, 100*stats.SuccessRate())
	fmt.Fprintf(out, "Mean time: %v\n", stats.MeanDuration)

	stages := make([]string, 0, len(stats.Failures))
	for stage := range stats.Failures {
		stages = append(stages, stage)
	}
	slices.Sort(stages)
	if len(stages) > 0 {
		fmt.Fprintln(out, "\nFailures by stage:")
		for _, stage := range stages {
			fmt.Fprintf(out, "  %-12s %d\n", stage, stats.Failures[stage])
		}
	}

	layouts, err := db.ListLayouts(locationID, flagHistoryLimit)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nRecent layouts:")
	fmt.Fprintf(out, "  %-6s %-20s %-8s %-6s %s\n", "ID", "SEED", "ATTEMPT", "SIZE", "CREATED")
	for _, l := range layouts {
		fmt.Fprintf(out, "  %-6d %-20d %-8d %-6s %s\n", l.ID, l.Seed, l.Attempt,
			fmt.Sprintf("%dx%d", l.Height, l.Width), l.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
