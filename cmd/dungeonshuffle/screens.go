package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/dungeonshuffle/internal/catalog"
	"github.com/lawnchairsociety/dungeonshuffle/internal/maze"
)

var screensCmd = &cobra.Command{
	Use:   "screens",
	Short: "List the screen catalogue",
	Long: `List every screen of the catalogue with its edge code, tile slot,
drawing and features.

Examples:
  dungeonshuffle screens
  dungeonshuffle screens --catalog other.yaml`,
	Args: cobra.NoArgs,
	RunE: runScreens,
}

func runScreens(cmd *cobra.Command, _ []string) error {
	cat, err := catalog.Load(flagCatalog)
	if err != nil {
		return err
	}
	m, err := maze.New(nil, 1, 1, cat)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-4s %-7s %-6s %s  %s\n", "#", "EDGES", "TILE", "G", "FEATURES")
	for i, spec := range m.Screens() {
		m.Replace(maze.At(0, 0), spec.Edges)
		tile := fmt.Sprintf("0x%02x", spec.Tile)
		if spec.Virtual() {
			tile = fmt.Sprintf("v%d", ^spec.Tile)
		}
		fmt.Fprintf(out, "%-4d %-7s %-6s %s  %s\n", i, spec.Edges, tile, strings.TrimRight(m.Show(false), "\n"), features(spec))
	}
	return nil
}

func features(spec *maze.Spec) string {
	var parts []string
	if spec.Fixed {
		parts = append(parts, "fixed")
	}
	if spec.DeadEnd {
		parts = append(parts, "dead end")
	}
	for _, st := range spec.Stairs {
		parts = append(parts, "stair "+st.Dir.String())
	}
	if spec.Wall != nil {
		parts = append(parts, spec.Wall.Type.String())
	}
	if len(spec.POI) > 0 {
		parts = append(parts, fmt.Sprintf("%d poi", len(spec.POI)))
	}
	return strings.Join(parts, ", ")
}
