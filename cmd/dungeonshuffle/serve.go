package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/dungeonshuffle/internal/logger"
	"github.com/lawnchairsociety/dungeonshuffle/internal/preview"
	"github.com/lawnchairsociety/dungeonshuffle/internal/shuffle"
)

var (
	flagAddr     string
	flagInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the live preview server",
	Long: `Start an HTTP server that streams layout drawings to browsers.

With --interval the server generates a fresh layout of --location on that
schedule and pushes it to every open page.

Examples:
  dungeonshuffle serve
  dungeonshuffle serve --addr :9000
  dungeonshuffle serve --location data/location.yaml --interval 5s`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	addGenerationFlags(serveCmd)
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default: preview.address from the config)")
	serveCmd.Flags().DurationVar(&flagInterval, "interval", 0, "Generate a layout this often (0 = never)")
}

func runServe(_ *cobra.Command, _ []string) error {
	addr := cfg.Preview.Address
	if flagAddr != "" {
		addr = flagAddr
	}
	hub := preview.NewHub(cfg.Preview)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagInterval > 0 {
		in, err := loadInputs()
		if err != nil {
			return err
		}
		opts := []shuffle.Option{shuffle.WithPublisher(hub)}
		if cfg.Generator.Record {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()
			opts = append(opts, shuffle.WithRecorder(db))
		}
		gen := shuffle.New(cfg.Generator, in.catalog, in.survey, opts...)
		go generateEvery(ctx, gen, in, flagInterval)
	}

	return hub.Serve(ctx, addr)
}

// generateEvery publishes a new layout each tick until ctx is done
func generateEvery(ctx context.Context, gen *shuffle.Generator, in *inputs, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		_, err := gen.Run(ctx, in.location, time.Now().UnixNano())
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warning("preview generation failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
