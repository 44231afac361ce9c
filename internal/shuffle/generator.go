// Package shuffle drives layout generation: it retries seeded attempts
// until one produces a connected layout that honors the survey, then
// records and publishes the result.
package shuffle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeonshuffle/internal/config"
	"github.com/lawnchairsociety/dungeonshuffle/internal/database"
	"github.com/lawnchairsociety/dungeonshuffle/internal/level"
	"github.com/lawnchairsociety/dungeonshuffle/internal/logger"
	"github.com/lawnchairsociety/dungeonshuffle/internal/maze"
	"github.com/lawnchairsociety/dungeonshuffle/internal/rng"
)

// ErrExhausted is returned when no attempt succeeds
var ErrExhausted = errors.New("shuffle: no layout within max attempts")

// Recorder persists attempts and finished layouts
type Recorder interface {
	RecordAttempt(a database.Attempt) error
	SaveLayout(l *database.Layout) (int64, error)
}

// Publisher receives the render of every finished layout
type Publisher interface {
	Publish(name, render string)
}

// Generator builds layouts for locations sharing one catalogue and survey.
type Generator struct {
	cfg       config.GeneratorConfig
	catalog   *maze.Catalog
	survey    *maze.Survey
	tiles     *level.Tileset
	recorder  Recorder
	publisher Publisher
}

// Option configures a Generator
type Option func(*Generator)

// WithRecorder stores every attempt and the final layout
func WithRecorder(r Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

// WithPublisher publishes the final layout's render
func WithPublisher(p Publisher) Option {
	return func(g *Generator) { g.publisher = p }
}

// WithTileset receives the graphics of consolidated virtual screens
func WithTileset(ts *level.Tileset) Option {
	return func(g *Generator) { g.tiles = ts }
}

// New creates a Generator
func New(cfg config.GeneratorConfig, catalog *maze.Catalog, survey *maze.Survey, opts ...Option) *Generator {
	g := &Generator{cfg: cfg, catalog: catalog, survey: survey}
	for _, opt := range opts {
		opt(g)
	}
	if g.survey == nil {
		g.survey = &maze.Survey{}
	}
	return g
}

// Result is a finished layout
type Result struct {
	Location *level.Location
	Maze     *maze.Maze
	Seed     int64
	Attempt  int
	LayoutID int64
}

// Run generates a layout for loc. Attempt i draws from the seed
// rng.Derive(seed, i). loc itself is never modified. Run stops early with
// ctx's error when ctx is done.
func (g *Generator) Run(ctx context.Context, loc *level.Location, seed int64) (*Result, error) {
	height, width := g.cfg.Height, g.cfg.Width
	if height == 0 {
		height = loc.Height
	}
	if width == 0 {
		width = loc.Width
	}
	attempts := max(g.cfg.MaxAttempts, 1)
	log := logger.With("location", loc.ID, "seed", seed)

	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		attemptSeed := rng.Derive(seed, i)
		start := time.Now()
		m, err := maze.New(rng.New(attemptSeed), height, width, g.catalog)
		if err != nil {
			return nil, err
		}
		out := loc.Clone()
		stage, err := g.attempt(m, out)
		if err != nil {
			return nil, fmt.Errorf("attempt %d: %s: %w", i, stage, err)
		}
		g.record(database.Attempt{
			LocationID: loc.ID,
			Seed:       attemptSeed,
			Attempt:    i,
			Succeeded:  stage == "",
			Stage:      stage,
			Duration:   time.Since(start),
		})
		if stage != "" {
			log.Debug("attempt failed", "attempt", i, "stage", stage)
			continue
		}

		res := &Result{Location: out, Maze: m, Seed: attemptSeed, Attempt: i}
		if err := g.finish(res); err != nil {
			return nil, err
		}
		log.Info("layout generated", "attempt", i, "height", m.Height(), "width", m.Width())
		return res, nil
	}
	log.Warn("no layout generated", "attempts", attempts)
	return nil, ErrExhausted
}

// finish stores and publishes a successful result
func (g *Generator) finish(res *Result) error {
	render := res.Maze.Show(false)
	name := fmt.Sprintf("%s (%d) seed %d", res.Location.Name, res.Location.ID, res.Seed)
	if g.publisher != nil {
		g.publisher.Publish(name, render)
	}
	if g.recorder == nil {
		return nil
	}
	data, err := yaml.Marshal(res.Location)
	if err != nil {
		return fmt.Errorf("failed to marshal location: %w", err)
	}
	id, err := g.recorder.SaveLayout(&database.Layout{
		LocationID: res.Location.ID,
		Name:       res.Location.Name,
		Seed:       res.Seed,
		Attempt:    res.Attempt,
		Height:     res.Maze.Height(),
		Width:      res.Maze.Width(),
		Render:     render,
		Data:       string(data),
	})
	if err != nil {
		return err
	}
	res.LayoutID = id
	return nil
}

func (g *Generator) record(a database.Attempt) {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.RecordAttempt(a); err != nil {
		logger.Warning("failed to record attempt", "error", err)
	}
}
