package maze

import (
	"fmt"
)

// Pos is a grid coordinate packed as (row << 4) | column. Columns are
// limited to 0-15 by the packing.
type Pos int

// NoPos marks an absent position
const NoPos Pos = -1

// MaxWidth is the widest grid the packing can address
const MaxWidth = 16

// At packs a row and column into a Pos
func At(row, col int) Pos {
	return Pos(row<<4 | col)
}

// Row returns the row of the position
func (p Pos) Row() int {
	return int(p) >> 4
}

// Col returns the column of the position
func (p Pos) Col() int {
	return int(p) & 0xf
}

// Plus returns the neighbor in the given direction, or NoPos if the step
// would leave the packed coordinate space
func (p Pos) Plus(d Dir) Pos {
	if p == NoPos {
		return NoPos
	}
	dr, dc := d.delta()
	row, col := p.Row()+dr, p.Col()+dc
	if row < 0 || col < 0 || col >= MaxWidth {
		return NoPos
	}
	return At(row, col)
}

// String returns the position as two hex digits
func (p Pos) String() string {
	if p == NoPos {
		return "--"
	}
	return fmt.Sprintf("%02x", int(p))
}

// Relative reprojects the offset from one position to another into a frame
// facing heading: forward is the distance along heading, right is the
// distance to its right.
func Relative(from, to Pos, heading Dir) (forward, right int) {
	dy := to.Row() - from.Row()
	dx := to.Col() - from.Col()
	switch heading {
	case Up:
		return -dy, dx
	case Right:
		return dx, dy
	case Down:
		return dy, -dx
	case Left:
		return -dx, -dy
	}
	return 0, 0
}
