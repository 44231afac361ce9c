// Package catalog reads screen catalogues and location surveys from YAML.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeonshuffle/internal/maze"
)

// ErrCatalog is wrapped by every validation error
var ErrCatalog = errors.New("catalog: invalid")

// Hex is an integer written in YAML either as a number or as a string
// such as "0x1010"
type Hex int

// UnmarshalYAML accepts a plain or quoted integer in any base
func (h *Hex) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", value.Line)
	}
	n, err := strconv.ParseInt(value.Value, 0, 64)
	if err != nil {
		return fmt.Errorf("line %d: %q is not a number", value.Line, value.Value)
	}
	*h = Hex(n)
	return nil
}

type stairEntry struct {
	Dir      string `yaml:"dir"`
	Entrance Hex    `yaml:"entrance"`
	Exit     Hex    `yaml:"exit"`
}

type wallEntry struct {
	Type   string  `yaml:"type"`
	Tile   Hex     `yaml:"tile"`
	Open   [][]Hex `yaml:"open"`
	Closed [][]Hex `yaml:"closed"`
}

type poiEntry struct {
	Priority int `yaml:"priority"`
	Dy       int `yaml:"dy"`
	Dx       int `yaml:"dx"`
}

type screenEntry struct {
	Edges Hex `yaml:"edges"`
	// Tile is the physical slot; Virtual names a graphics entry instead
	Tile        *Hex         `yaml:"tile"`
	Virtual     *int         `yaml:"virtual"`
	Icon        string       `yaml:"icon"`
	Fixed       bool         `yaml:"fixed"`
	DeadEnd     bool         `yaml:"dead_end"`
	Stairs      []stairEntry `yaml:"stairs"`
	Connections [][]Hex      `yaml:"connections"`
	Wall        *wallEntry   `yaml:"wall"`
	POI         []poiEntry   `yaml:"poi"`
}

type catalogFile struct {
	Graphics [][]int       `yaml:"graphics"`
	Screens  []screenEntry `yaml:"screens"`
}

// Load reads a screen catalogue from a YAML file
func Load(path string) (*maze.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a screen catalogue
func Parse(data []byte) (*maze.Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue YAML: %w", err)
	}

	cat := &maze.Catalog{Graphics: file.Graphics}
	seen := make(map[maze.Scr]bool)
	for i, entry := range file.Screens {
		spec, err := entry.spec(len(file.Graphics))
		if err != nil {
			return nil, fmt.Errorf("screen %d: %w", i, err)
		}
		if seen[spec.Edges] {
			return nil, fmt.Errorf("%w: screen %d: duplicate edges %v", ErrCatalog, i, spec.Edges)
		}
		seen[spec.Edges] = true
		cat.Specs = append(cat.Specs, spec)
	}
	return cat, nil
}

func (e screenEntry) spec(graphics int) (maze.Spec, error) {
	if e.Edges < 0 || e.Edges >= 1<<21 {
		return maze.Spec{}, fmt.Errorf("%w: edges 0x%x out of range", ErrCatalog, int(e.Edges))
	}
	spec := maze.Spec{
		Edges:       maze.Scr(e.Edges),
		Fixed:       e.Fixed,
		DeadEnd:     e.DeadEnd,
		Connections: tileGroups(e.Connections),
	}

	switch {
	case e.Tile != nil && e.Virtual != nil:
		return spec, fmt.Errorf("%w: both tile and virtual set", ErrCatalog)
	case e.Tile != nil:
		if *e.Tile < 0 {
			return spec, fmt.Errorf("%w: negative tile", ErrCatalog)
		}
		spec.Tile = int(*e.Tile)
	case e.Virtual != nil:
		if *e.Virtual < 0 || *e.Virtual >= graphics {
			return spec, fmt.Errorf("%w: virtual tile %d has no graphics", ErrCatalog, *e.Virtual)
		}
		spec.Tile = ^*e.Virtual
	default:
		return spec, fmt.Errorf("%w: no tile", ErrCatalog)
	}

	if icon := []rune(e.Icon); len(icon) > 0 {
		spec.Icon = icon[0]
	}
	for _, st := range e.Stairs {
		dir, err := parseStairDir(st.Dir)
		if err != nil {
			return spec, err
		}
		spec.Stairs = append(spec.Stairs, maze.Stair{Dir: dir, Entrance: uint8(st.Entrance), Exit: uint8(st.Exit)})
	}
	if e.Wall != nil {
		var t maze.WallType
		switch e.Wall.Type {
		case "wall", "":
			t = maze.SolidWall
		case "bridge":
			t = maze.Bridge
		default:
			return spec, fmt.Errorf("%w: wall type %q", ErrCatalog, e.Wall.Type)
		}
		spec.Wall = &maze.Wall{
			Type:   t,
			Tile:   uint8(e.Wall.Tile),
			Open:   tileGroups(e.Wall.Open),
			Closed: tileGroups(e.Wall.Closed),
		}
	}
	for _, p := range e.POI {
		spec.POI = append(spec.POI, maze.POI{Priority: p.Priority, Dy: p.Dy, Dx: p.Dx})
	}
	return spec, nil
}

func parseStairDir(s string) (maze.StairDir, error) {
	switch s {
	case "up":
		return maze.StairUp, nil
	case "down":
		return maze.StairDown, nil
	}
	return maze.StairNone, fmt.Errorf("%w: stair direction %q", ErrCatalog, s)
}

func tileGroups(groups [][]Hex) [][]uint8 {
	if len(groups) == 0 {
		return nil
	}
	out := make([][]uint8, len(groups))
	for i, g := range groups {
		out[i] = make([]uint8, len(g))
		for j, t := range g {
			out[i][j] = uint8(t)
		}
	}
	return out
}
