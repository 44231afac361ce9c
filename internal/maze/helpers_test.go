package maze

import (
	"testing"

	"github.com/lawnchairsociety/dungeonshuffle/internal/rng"
)

// edgeScr builds a screen from edge types in Up, Right, Down, Left order
func edgeScr(up, right, down, left int) Scr {
	return Scr(up | right<<4 | down<<8 | left<<12)
}

// fullCatalog has every screen whose edges are open (type 1) or closed,
// each connecting all of its exits
func fullCatalog() *Catalog {
	cat := &Catalog{}
	for mask := 0; mask < 16; mask++ {
		var s Scr
		var group []uint8
		for _, d := range Dirs {
			if mask&(1<<d) != 0 {
				s = s.WithEdge(d, 1)
				group = append(group, EdgeTile(d))
			}
		}
		spec := Spec{Edges: s, Tile: mask}
		if len(group) > 0 {
			spec.Connections = [][]uint8{group}
		}
		cat.Specs = append(cat.Specs, spec)
	}
	return cat
}

func newTestMaze(t *testing.T, seed int64, height, width int, cat *Catalog) *Maze {
	t.Helper()
	m, err := New(rng.New(seed), height, width, cat)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

// checkCompatible fails the test if any placed screen mismatches a placed
// neighbor or the border
func checkCompatible(t *testing.T, m *Maze) {
	t.Helper()
	for _, pos := range m.Positions() {
		s, ok := m.At(pos)
		if !ok {
			continue
		}
		for _, d := range Dirs {
			if n, ok := m.Get(pos, d); ok && !s.Fits(d, n) {
				t.Errorf("%v at %v does not fit %v on its %v side\n%s", s, pos, n, d, m.Show(true))
			}
		}
	}
}

func isEmpty(m *Maze) bool {
	for _, pos := range m.Positions() {
		if _, ok := m.At(pos); ok {
			return false
		}
	}
	return true
}
