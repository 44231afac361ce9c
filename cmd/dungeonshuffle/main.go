// dungeonshuffle rebuilds the screen layout of dungeon locations.
//
// Usage:
//
//	dungeonshuffle generate --location <file>  - Generate a new layout
//	dungeonshuffle show <layout-id>            - Show a stored layout
//	dungeonshuffle history <location-id>       - Show attempt statistics
//	dungeonshuffle screens                     - List the screen catalogue
//	dungeonshuffle serve                       - Start the live preview server
//
// Global flags:
//
//	--config <path>   - Generator config (default: data/dungeonshuffle.yaml)
//	--logging <path>  - Logging config (default: data/logging.yaml)
//	--catalog <path>  - Screen catalogue (default: data/screens.yaml)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/dungeonshuffle/internal/config"
	"github.com/lawnchairsociety/dungeonshuffle/internal/database"
	"github.com/lawnchairsociety/dungeonshuffle/internal/logger"
)

var (
	flagConfig  string
	flagLogging string
	flagCatalog string

	cfg *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dungeonshuffle",
	Short: "Shuffle the screen layout of dungeon locations",
	Long: `dungeonshuffle lays dungeon locations out anew from a catalogue of
interlocking screens while keeping their exits, staircases and fixed rooms.

Examples:
  dungeonshuffle generate --location data/location.yaml --survey data/survey.yaml
  dungeonshuffle screens
  dungeonshuffle history 7
  dungeonshuffle serve --location data/location.yaml --interval 5s`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logConfig, _ := logger.LoadConfig(flagLogging)
		if err := logger.Initialize(logConfig); err != nil {
			return err
		}
		var err error
		cfg, err = config.LoadConfig(flagConfig)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "data/dungeonshuffle.yaml", "Path to generator config YAML file")
	rootCmd.PersistentFlags().StringVar(&flagLogging, "logging", "data/logging.yaml", "Path to logging config YAML file")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "data/screens.yaml", "Path to screen catalogue YAML file")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(screensCmd)
	rootCmd.AddCommand(serveCmd)
}

// openDatabase opens the configured layout store
func openDatabase() (*database.Database, error) {
	db, err := database.OpenWithConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening layout database: %w", err)
	}
	return db, nil
}
