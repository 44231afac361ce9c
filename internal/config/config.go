// Package config loads the generator's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeonshuffle/internal/database"
	"github.com/lawnchairsociety/dungeonshuffle/internal/maze"
)

// Config is the root of the configuration file.
type Config struct {
	Generator GeneratorConfig `yaml:"generator"`
	Database  database.Config `yaml:"database"`
	Preview   PreviewConfig   `yaml:"preview"`
}

// GeneratorConfig tunes the layout generator.
type GeneratorConfig struct {
	// Height and Width override the grid size; 0 keeps the size of the
	// source location.
	Height int `yaml:"height"`
	Width  int `yaml:"width"`

	// MaxAttempts is how many seeds are tried before giving up.
	MaxAttempts int `yaml:"max_attempts"`

	// Loops is how many loops are added after the exits are connected.
	Loops int `yaml:"loops"`

	// ExitType is the edge type of ordinary corridors.
	ExitType int `yaml:"exit_type"`

	// Fuzzy is the fuzziness used when filling stair cells.
	Fuzzy int `yaml:"fuzzy"`

	// Detours is the most back-and-forth pairs mixed into a corridor path.
	Detours int `yaml:"detours"`

	// PathAttempts is how many random paths are tried per connection.
	PathAttempts int `yaml:"path_attempts"`

	// Consolidate squeezes the layout into Slots when set.
	Consolidate bool  `yaml:"consolidate"`
	Slots       []int `yaml:"slots"`

	// Record stores attempts and layouts in the database.
	Record bool `yaml:"record"`
}

// PreviewConfig holds settings for the live preview server.
type PreviewConfig struct {
	Address string `yaml:"address"`

	// AllowedOrigins lists origins allowed to open a preview socket. An
	// empty list enforces the same-origin policy and "*" allows all.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the largest message read from a client.
	MaxMessageSize int64 `yaml:"max_message_size"`

	// MaxPerIP and MaxTotal cap concurrent viewers; 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip"`
	MaxTotal int `yaml:"max_total"`
}

// ErrInvalid is wrapped by every Validate error
var ErrInvalid = errors.New("config: invalid")

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Generator: GeneratorConfig{
			MaxAttempts:  100,
			Loops:        1,
			ExitType:     1,
			Fuzzy:        1,
			Detours:      1,
			PathAttempts: 20,
		},
		Database: database.DefaultConfig("data/layouts.db"),
		Preview: PreviewConfig{
			Address:        ":8090",
			AllowedOrigins: []string{},
			MaxMessageSize: 4096,
			MaxPerIP:       3,
			MaxTotal:       50,
		},
	}
}

// LoadConfig reads a YAML file over the defaults. A missing file yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return config, nil
}

// Validate rejects settings the generator cannot run with.
func (c *Config) Validate() error {
	g := c.Generator
	switch {
	case g.Height < 0:
		return fmt.Errorf("%w: height %d", ErrInvalid, g.Height)
	case g.Width < 0 || g.Width > maze.MaxWidth:
		return fmt.Errorf("%w: width %d is outside 0..%d", ErrInvalid, g.Width, maze.MaxWidth)
	case g.MaxAttempts <= 0:
		return fmt.Errorf("%w: max_attempts %d", ErrInvalid, g.MaxAttempts)
	case g.Loops < 0 || g.Detours < 0 || g.Fuzzy < 0 || g.PathAttempts < 0:
		return fmt.Errorf("%w: negative loops, detours, fuzzy or path_attempts", ErrInvalid)
	case g.ExitType <= 0 || g.ExitType >= maze.WildcardEdge:
		return fmt.Errorf("%w: exit_type %d", ErrInvalid, g.ExitType)
	case g.Consolidate && len(g.Slots) == 0:
		return fmt.Errorf("%w: consolidate needs at least one slot", ErrInvalid)
	}
	switch database.DialectType(c.Database.Driver) {
	case database.DialectSQLite, database.DialectPostgres:
	default:
		return fmt.Errorf("%w: database driver %q", ErrInvalid, c.Database.Driver)
	}
	return nil
}

// IsOriginAllowed checks a websocket Origin header against the policy.
func (c *PreviewConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// isSameOrigin reports whether origin names requestHost. A missing Origin
// header is a non-browser client and is allowed.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true
	}
	host := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		host = origin[idx+3:]
	}
	return strings.TrimSuffix(host, "/") == requestHost
}
