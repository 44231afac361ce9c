package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var flagShowData bool

var showCmd = &cobra.Command{
	Use:   "show <layout-id>",
	Short: "Show a stored layout",
	Long: `Print the drawing of a layout stored by generate --record.

Examples:
  dungeonshuffle show 12
  dungeonshuffle show 12 --data > location.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&flagShowData, "data", false, "Print the level record YAML instead of the drawing")
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid layout id %q", args[0])
	}
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	l, err := db.GetLayout(id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if flagShowData {
		fmt.Fprint(out, l.Data)
		return nil
	}
	fmt.Fprintf(out, "Layout %d - %s (%d)\n", l.ID, l.Name, l.LocationID)
	fmt.Fprintf(out, "seed %d, attempt %d, %dx%d, %s\n\n", l.Seed, l.Attempt, l.Height, l.Width,
		l.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprint(out, l.Render)
	return nil
}
