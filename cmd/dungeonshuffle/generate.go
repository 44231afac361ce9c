package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/dungeonshuffle/internal/catalog"
	"github.com/lawnchairsociety/dungeonshuffle/internal/level"
	"github.com/lawnchairsociety/dungeonshuffle/internal/logger"
	"github.com/lawnchairsociety/dungeonshuffle/internal/maze"
	"github.com/lawnchairsociety/dungeonshuffle/internal/rng"
	"github.com/lawnchairsociety/dungeonshuffle/internal/shuffle"
)

var (
	flagLocation   string
	flagSurvey     string
	flagOut        string
	flagTiles      string
	flagSeed       int64
	flagSeedPhrase string
	flagRecord     bool
	flagHex        bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new layout for a location",
	Long: `Generate a new layout for a location and print its drawing.

The finished level record is written to --out when given. With --record
(or generator.record in the config) every attempt and the final layout are
stored in the database.

Examples:
  dungeonshuffle generate --location data/location.yaml --survey data/survey.yaml
  dungeonshuffle generate --location data/location.yaml --seed 42 --out new.yaml
  dungeonshuffle generate --location data/location.yaml --seed-phrase "goa fortress"`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	addGenerationFlags(generateCmd)
	generateCmd.Flags().StringVar(&flagOut, "out", "", "Write the finished location YAML here")
	generateCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	generateCmd.Flags().StringVar(&flagSeedPhrase, "seed-phrase", "", "Derive the seed from a phrase")
	generateCmd.Flags().BoolVar(&flagRecord, "record", false, "Store attempts and the layout in the database")
	generateCmd.Flags().BoolVar(&flagHex, "hex", false, "Print screen codes instead of box drawing")
}

// addGenerationFlags registers the inputs shared by generate and serve
func addGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagLocation, "location", "data/location.yaml", "Path to the source location YAML file")
	cmd.Flags().StringVar(&flagSurvey, "survey", "data/survey.yaml", "Path to the location survey YAML file")
	cmd.Flags().StringVar(&flagTiles, "tiles", "", "Tileset YAML file receiving consolidated graphics")
}

// inputs are the files a generation run reads
type inputs struct {
	catalog  *maze.Catalog
	survey   *maze.Survey
	location *level.Location
	tiles    *level.Tileset
}

func loadInputs() (*inputs, error) {
	cat, err := catalog.Load(flagCatalog)
	if err != nil {
		return nil, err
	}
	survey, err := catalog.LoadSurvey(flagSurvey)
	if err != nil {
		return nil, err
	}
	loc, err := level.Load(flagLocation)
	if err != nil {
		return nil, err
	}
	in := &inputs{catalog: cat, survey: survey, location: loc}
	if flagTiles != "" {
		if in.tiles, err = level.LoadTileset(flagTiles); err != nil {
			return nil, err
		}
	}
	logger.Debug("inputs loaded", "screens", len(cat.Specs), "location", loc.ID,
		"exits", len(survey.Exits), "stairs", len(survey.Stairs), "fixed", len(survey.Fixed))
	return in, nil
}

func pickSeed() int64 {
	switch {
	case flagSeedPhrase != "":
		return rng.SeedFromString(flagSeedPhrase)
	case flagSeed != 0:
		return flagSeed
	}
	return time.Now().UnixNano()
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	in, err := loadInputs()
	if err != nil {
		return err
	}

	opts := []shuffle.Option{}
	if in.tiles != nil {
		opts = append(opts, shuffle.WithTileset(in.tiles))
	}
	if flagRecord || cfg.Generator.Record {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()
		opts = append(opts, shuffle.WithRecorder(db))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := pickSeed()
	logger.Info("generating layout", "location", in.location.ID, "seed", seed)
	res, err := shuffle.New(cfg.Generator, in.catalog, in.survey, opts...).Run(ctx, in.location, seed)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d) seed %d attempt %d\n", res.Location.Name, res.Location.ID, res.Seed, res.Attempt)
	if res.LayoutID != 0 {
		fmt.Fprintf(out, "stored as layout %d\n", res.LayoutID)
	}
	fmt.Fprint(out, res.Maze.Show(flagHex))

	if flagOut != "" {
		if err := level.Save(flagOut, res.Location); err != nil {
			return err
		}
	}
	if in.tiles != nil {
		if err := level.SaveTileset(flagTiles, in.tiles); err != nil {
			return err
		}
	}
	return nil
}
