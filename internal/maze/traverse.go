package maze

import (
	"github.com/lawnchairsociety/dungeonshuffle/internal/unionfind"
)

// Point is a tile exit point: (pos << 8) | (y << 4) | x
type Point int

// PointAt packs a screen position and in-screen tile into a Point
func PointAt(pos Pos, tile uint8) Point {
	return Point(int(pos)<<8 | int(tile))
}

// Pos returns the screen the point lies in
func (p Point) Pos() Pos {
	return Pos(int(p) >> 8)
}

// Tile returns the in-screen tile coordinate
func (p Point) Tile() uint8 {
	return uint8(p)
}

// EdgeTile is the tile where a screen's edge exit on side d sits
func EdgeTile(d Dir) uint8 {
	switch d {
	case Up:
		return 0x07
	case Right:
		return 0x7f
	case Down:
		return 0xe7
	case Left:
		return 0x70
	}
	return 0
}

// TraverseOpts controls Traverse
type TraverseOpts struct {
	// Flagged treats every wall as broken and every bridge as built
	Flagged bool
	// Flight lets the player cross any screen that is not a dead end
	Flight bool
}

// Traverse partitions every tile exit point of the placed screens into
// the sets mutually reachable. Points joined within a screen by its
// connections, its wall state or flight are merged, as are the edge points
// of adjacent screens with an open shared edge.
func (m *Maze) Traverse(opts TraverseOpts) map[Point][]Point {
	return m.traverse(opts).Partitions()
}

// Connected reports whether every tile exit point is reachable from every
// other
func (m *Maze) Connected(opts TraverseOpts) bool {
	return len(m.traverse(opts).Sets()) <= 1
}

func (m *Maze) traverse(opts TraverseOpts) *unionfind.UnionFind[Point] {
	uf := unionfind.New[Point]()
	join := func(pos Pos, group []uint8) {
		if len(group) == 0 {
			return
		}
		first := PointAt(pos, group[0])
		uf.Add(first)
		for _, tile := range group[1:] {
			uf.Union(first, PointAt(pos, tile))
		}
	}

	for _, pos := range m.Positions() {
		s, ok := m.At(pos)
		if !ok {
			continue
		}
		spec := m.specs[s]
		var endpoints []uint8
		for _, group := range spec.Connections {
			join(pos, group)
			endpoints = append(endpoints, group...)
		}
		if spec.Wall != nil {
			groups := spec.Wall.Closed
			if opts.Flagged {
				groups = spec.Wall.Open
			}
			for _, group := range groups {
				join(pos, group)
				endpoints = append(endpoints, group...)
			}
		}
		if opts.Flight && !spec.DeadEnd {
			join(pos, endpoints)
		}

		for _, d := range []Dir{Right, Down} {
			n, ok := m.At(pos.Plus(d))
			if !ok || s.Edge(d) == 0 || !s.Fits(d, n) {
				continue
			}
			uf.Union(PointAt(pos, EdgeTile(d)), PointAt(pos.Plus(d), EdgeTile(d.Inverse())))
		}
	}
	return uf
}
