package maze

// StairDir says which way a staircase leads
type StairDir uint8

const (
	StairNone StairDir = iota
	StairUp
	StairDown
)

// String returns the string representation of a StairDir
func (s StairDir) String() string {
	switch s {
	case StairNone:
		return "none"
	case StairUp:
		return "up"
	case StairDown:
		return "down"
	default:
		return "unknown"
	}
}

// Stair describes a staircase inside a screen. Entrance and Exit are
// in-screen tile coordinates, (y << 4) | x.
type Stair struct {
	Dir      StairDir
	Entrance uint8
	Exit     uint8
}

// WallType distinguishes breakable walls from bridges
type WallType uint8

const (
	SolidWall WallType = iota
	Bridge
)

// String returns the string representation of a WallType
func (w WallType) String() string {
	switch w {
	case SolidWall:
		return "wall"
	case Bridge:
		return "bridge"
	default:
		return "unknown"
	}
}

// Wall is a flag-controlled obstacle inside a screen. Open lists the
// tile-exit-point groups connected while the flag is set, Closed the groups
// connected while it is clear.
type Wall struct {
	Type   WallType
	Tile   uint8
	Open   [][]uint8
	Closed [][]uint8
}

// POI is a candidate placement for a spawn, offset within the screen
type POI struct {
	Priority int
	Dy, Dx   int
}

// Tile returns the in-screen tile coordinate of the POI
func (p POI) Tile() uint8 {
	return uint8(p.Dy<<4 | p.Dx&0xf)
}

// Spec is the catalogue entry for one screen code. A negative Tile is a
// virtual slot: ^Tile indexes the virtual graphics table until
// consolidation assigns a physical slot.
type Spec struct {
	Edges       Scr
	Tile        int
	Icon        rune
	Fixed       bool
	DeadEnd     bool
	Stairs      []Stair
	Connections [][]uint8
	Wall        *Wall
	POI         []POI
}

// Virtual reports whether the screen still lacks a physical tile slot
func (s *Spec) Virtual() bool {
	return s.Tile < 0
}

// HasStair reports whether the screen has a staircase leading dir
func (s *Spec) HasStair(dir StairDir) bool {
	for _, st := range s.Stairs {
		if st.Dir == dir {
			return true
		}
	}
	return false
}

// Stair returns the first staircase leading dir
func (s *Spec) Stair(dir StairDir) (Stair, bool) {
	for _, st := range s.Stairs {
		if st.Dir == dir {
			return st, true
		}
	}
	return Stair{}, false
}

// Catalog is the ordered list of screens a maze may use, plus the graphics
// of virtual tiles. Order matters: candidates are always enumerated in
// catalogue order so a seed reproduces the same layout.
type Catalog struct {
	Specs    []Spec
	Graphics [][]int
}

// Extension is a way to grow a placed screen by one exit into an empty
// neighbor. Tag groups extensions that reach the same empty region with the
// same exit type.
type Extension struct {
	Pos Pos
	Scr Scr
	Dir Dir
	Tag int
}

// Target returns the empty cell the extension opens into
func (e Extension) Target() Pos {
	return e.Pos.Plus(e.Dir)
}

// ExitType returns the edge type of the new exit
func (e Extension) ExitType() int {
	return e.Scr.Edge(e.Dir)
}
