package maze

// Dir is one of the four compass directions
type Dir uint8

const (
	Up Dir = iota
	Right
	Down
	Left
)

// AnyDir asks an operation to infer the direction itself
const AnyDir Dir = 0xff

// Dirs lists the four directions in nibble order
var Dirs = [4]Dir{Up, Right, Down, Left}

// String returns the string representation of a Dir
func (d Dir) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	case AnyDir:
		return "any"
	default:
		return "unknown"
	}
}

// ParseDir converts a string to a Dir
func ParseDir(s string) (Dir, bool) {
	switch s {
	case "up":
		return Up, true
	case "right":
		return Right, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	}
	return AnyDir, false
}

// Inverse returns the opposite direction
func (d Dir) Inverse() Dir {
	return d ^ 2
}

// Shift returns the bit offset of this direction's nibble in a Scr
func (d Dir) Shift() uint {
	return uint(d) << 2
}

// Mask selects this direction's nibble in a Scr
func (d Dir) Mask() Scr {
	return 0xf << d.Shift()
}

// Turn is a path instruction relative to the current heading
type Turn uint8

const (
	Straight  Turn = 0
	TurnRight Turn = 1
	TurnLeft  Turn = 3
)

// Turn returns the heading after applying t
func (d Dir) Turn(t Turn) Dir {
	return (d + Dir(t)) & 3
}

func (d Dir) delta() (dr, dc int) {
	switch d {
	case Up:
		return -1, 0
	case Right:
		return 0, 1
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	}
	return 0, 0
}

// Edge lists every position along this side of a height x width rectangle
func (d Dir) Edge(height, width int) []Pos {
	var out []Pos
	switch d {
	case Up:
		for c := 0; c < width; c++ {
			out = append(out, At(0, c))
		}
	case Down:
		for c := 0; c < width; c++ {
			out = append(out, At(height-1, c))
		}
	case Left:
		for r := 0; r < height; r++ {
			out = append(out, At(r, 0))
		}
	case Right:
		for r := 0; r < height; r++ {
			out = append(out, At(r, width-1))
		}
	}
	return out
}

// DirMask is a set of directions, one bit per Dir
type DirMask uint8

// Has reports whether d is in the set
func (m DirMask) Has(d Dir) bool {
	return m&(1<<d) != 0
}

// With returns the set with d added
func (m DirMask) With(d Dir) DirMask {
	return m | 1<<d
}

// Count returns the number of directions in the set
func (m DirMask) Count() int {
	n := 0
	for _, d := range Dirs {
		if m.Has(d) {
			n++
		}
	}
	return n
}

// Dirs lists the directions in the set
func (m DirMask) Dirs() []Dir {
	var out []Dir
	for _, d := range Dirs {
		if m.Has(d) {
			out = append(out, d)
		}
	}
	return out
}
