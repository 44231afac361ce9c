// Package level holds the level record a generated layout is written into:
// the screen grid, wall flags, exits, entrances and spawns of one location.
//
// Screen positions use the same packing as the layout engine:
// (row << 4) | column.
package level

import (
	"fmt"
)

// BlankScreen is written for grid cells that hold no screen
const BlankScreen = 0x80

// FirstWallFlag is the first flag id handed out to walls when no old wall
// flag can be reused
const FirstWallFlag = 0x200

// SpawnKind identifies what a spawn record places
type SpawnKind int

const (
	SpawnMonster SpawnKind = iota
	SpawnWall
	SpawnChest
	SpawnTrigger
	SpawnNPC
)

// String returns the string representation of a SpawnKind
func (k SpawnKind) String() string {
	switch k {
	case SpawnMonster:
		return "monster"
	case SpawnWall:
		return "wall"
	case SpawnChest:
		return "chest"
	case SpawnTrigger:
		return "trigger"
	case SpawnNPC:
		return "npc"
	default:
		return "unknown"
	}
}

// ParseSpawnKind converts a string to a SpawnKind
func ParseSpawnKind(s string) (SpawnKind, error) {
	switch s {
	case "monster":
		return SpawnMonster, nil
	case "wall":
		return SpawnWall, nil
	case "chest":
		return SpawnChest, nil
	case "trigger":
		return SpawnTrigger, nil
	case "npc":
		return SpawnNPC, nil
	default:
		return 0, fmt.Errorf("unknown spawn kind %q", s)
	}
}

// Flag marks a screen with a game flag id
type Flag struct {
	Screen int `yaml:"screen"`
	Flag   int `yaml:"flag"`
}

// Exit leads from a tile of a screen to an entrance of another location
type Exit struct {
	Screen       int   `yaml:"screen"`
	Tile         uint8 `yaml:"tile"`
	Dest         int   `yaml:"dest"`
	DestEntrance int   `yaml:"dest_entrance"`
}

// Entrance is where the player appears when arriving at this location.
// Tile is the in-screen coordinate as (y << 4) | x.
type Entrance struct {
	Screen int   `yaml:"screen"`
	Tile   uint8 `yaml:"tile"`
}

// Spawn places a monster, wall, chest, trigger or NPC on a tile
type Spawn struct {
	Screen int       `yaml:"screen"`
	Tile   uint8     `yaml:"tile"`
	Kind   SpawnKind `yaml:"kind"`
	ID     int       `yaml:"id"`
}

// Location is one level record. Screens is Height rows of Width tile
// indices, row-major.
type Location struct {
	ID        int        `yaml:"id"`
	Name      string     `yaml:"name"`
	Height    int        `yaml:"height"`
	Width     int        `yaml:"width"`
	Screens   [][]int    `yaml:"screens"`
	Flags     []Flag     `yaml:"flags,omitempty"`
	Exits     []Exit     `yaml:"exits,omitempty"`
	Entrances []Entrance `yaml:"entrances,omitempty"`
	Spawns    []Spawn    `yaml:"spawns,omitempty"`
}

// NewLocation creates an empty location of the given size
func NewLocation(id int, name string, height, width int) *Location {
	loc := &Location{ID: id, Name: name}
	loc.Resize(height, width)
	return loc
}

// Resize replaces the screen grid with a blank grid of the given size
func (l *Location) Resize(height, width int) {
	l.Height = height
	l.Width = width
	l.Screens = make([][]int, height)
	for y := range l.Screens {
		row := make([]int, width)
		for x := range row {
			row[x] = BlankScreen
		}
		l.Screens[y] = row
	}
}

// Screen returns the tile index at a packed position
func (l *Location) Screen(pos int) (int, bool) {
	y, x := pos>>4, pos&0xf
	if pos < 0 || y >= l.Height || x >= l.Width || y >= len(l.Screens) || x >= len(l.Screens[y]) {
		return 0, false
	}
	return l.Screens[y][x], true
}

// SetScreen writes the tile index at a packed position
func (l *Location) SetScreen(pos, tile int) error {
	y, x := pos>>4, pos&0xf
	if pos < 0 || y >= l.Height || x >= l.Width {
		return fmt.Errorf("level: screen %02x outside %dx%d location", pos, l.Height, l.Width)
	}
	l.Screens[y][x] = tile
	return nil
}

// SetEntrance writes entrance id, growing the list as needed
func (l *Location) SetEntrance(id int, e Entrance) {
	for len(l.Entrances) <= id {
		l.Entrances = append(l.Entrances, Entrance{})
	}
	l.Entrances[id] = e
}

// Clone returns a deep copy of the location
func (l *Location) Clone() *Location {
	c := *l
	c.Screens = make([][]int, len(l.Screens))
	for i, row := range l.Screens {
		c.Screens[i] = append([]int(nil), row...)
	}
	c.Flags = append([]Flag(nil), l.Flags...)
	c.Exits = append([]Exit(nil), l.Exits...)
	c.Entrances = append([]Entrance(nil), l.Entrances...)
	c.Spawns = append([]Spawn(nil), l.Spawns...)
	return &c
}

// NextFlag returns a flag id not used by any flag in the location
func (l *Location) NextFlag() int {
	next := FirstWallFlag
	for _, f := range l.Flags {
		if f.Flag >= next {
			next = f.Flag + 1
		}
	}
	return next
}
