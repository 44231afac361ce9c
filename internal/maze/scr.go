package maze

import (
	"fmt"
)

// Scr is a packed screen code. Bits 0-15 hold one 4-bit edge type per
// direction (Up, Right, Down, Left from the low nibble up). Bits 16-20 are
// style flags: screens that differ only in style connect the same way but
// use different graphics.
type Scr uint32

// Empty marks a grid cell that holds no screen
const Empty Scr = ^Scr(0)

// WildcardEdge is an edge type that matches nothing on the survey side
const WildcardEdge = 0xf

// Edge returns the edge type on side d
func (s Scr) Edge(d Dir) int {
	return int(s>>d.Shift()) & 0xf
}

// WithEdge returns the screen with side d replaced by edge type t
func (s Scr) WithEdge(d Dir, t int) Scr {
	return s&^d.Mask() | Scr(t&0xf)<<d.Shift()
}

// Signature returns the connectivity part of the screen without style bits
func (s Scr) Signature() Scr {
	return s & 0xffff
}

// Style returns the style flags
func (s Scr) Style() Scr {
	return s >> 16 & 0x1f
}

// Exits returns the set of sides with a non-zero edge type
func (s Scr) Exits() DirMask {
	var m DirMask
	for _, d := range Dirs {
		if s.Edge(d) != 0 {
			m = m.With(d)
		}
	}
	return m
}

// ExitCount returns the number of sides with a non-zero edge type
func (s Scr) ExitCount() int {
	return s.Exits().Count()
}

// Fits reports whether other can sit on side d of s
func (s Scr) Fits(d Dir, other Scr) bool {
	return s.Edge(d) == other.Edge(d.Inverse())
}

// String returns the screen as five hex digits
func (s Scr) String() string {
	if s == Empty {
		return "....."
	}
	return fmt.Sprintf("%05x", uint32(s))
}

// Corridor builds the two-exit screen entered from side in and left
// through side out, both with edge type t
func Corridor(in, out Dir, t int) Scr {
	return Scr(0).WithEdge(in, t).WithEdge(out, t)
}
