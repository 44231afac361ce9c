// Package maze lays out a location as a grid of interlocking screens.
//
// Each screen's four edge types must match the touching edge of its
// neighbors (or the border, outside the grid). A Maze is built from a
// screen catalogue, grown by fill, connect and loop operations, optionally
// consolidated to fit a tile budget, and finally reconciled against a
// survey of the source location and written into a level record.
//
// Operations report retryable failures as a false result and leave the
// grid untouched; errors wrapping ErrInvariant signal caller bugs.
package maze

import (
	"fmt"
	"maps"
	"slices"

	"github.com/lawnchairsociety/dungeonshuffle/internal/rng"
)

// Maze is one generation attempt. It is not safe for concurrent use.
type Maze struct {
	random rng.Random
	height int
	width  int

	grid   []Scr
	border []Scr
	counts map[Scr]int

	screens          []*Spec
	specs            map[Scr]*Spec
	screenExtensions map[Scr][]extension
	extraTiles       [][]int
	extraTilesMap    map[int]int

	// stale holds cells a failed fill asked to clear
	stale []Pos
}

type extension struct {
	dir Dir
	scr Scr
}

// New creates an empty height x width maze over the given catalogue
func New(r rng.Random, height, width int, cat *Catalog) (*Maze, error) {
	if height <= 0 || width <= 0 || width > MaxWidth {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, height, width)
	}
	m := &Maze{
		random:           r,
		height:           height,
		width:            width,
		grid:             make([]Scr, height<<4),
		border:           make([]Scr, height<<4),
		counts:           make(map[Scr]int),
		specs:            make(map[Scr]*Spec),
		screenExtensions: make(map[Scr][]extension),
		extraTilesMap:    make(map[int]int),
	}
	for i := range m.grid {
		m.grid[i] = Empty
	}
	if cat == nil {
		return m, nil
	}
	m.extraTiles = cat.Graphics
	for i := range cat.Specs {
		spec := &cat.Specs[i]
		if _, dup := m.specs[spec.Edges]; dup {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateScreen, spec.Edges)
		}
		m.specs[spec.Edges] = spec
		m.screens = append(m.screens, spec)
		if spec.Fixed || len(spec.Stairs) > 0 {
			continue
		}
		for _, d := range Dirs {
			if spec.Edges.Edge(d) == 0 {
				continue
			}
			key := spec.Edges.WithEdge(d, 0).Signature()
			m.screenExtensions[key] = append(m.screenExtensions[key], extension{dir: d, scr: spec.Edges})
		}
	}
	return m, nil
}

// Height returns the number of rows
func (m *Maze) Height() int { return m.height }

// Width returns the number of columns
func (m *Maze) Width() int { return m.width }

// Random returns the random source the maze draws from
func (m *Maze) Random() rng.Random { return m.random }

// Spec returns the catalogue entry for a screen
func (m *Maze) Spec(s Scr) (*Spec, bool) {
	spec, ok := m.specs[s]
	return spec, ok
}

// Screens returns the catalogue in order
func (m *Maze) Screens() []*Spec {
	return m.screens
}

// InBounds reports whether pos is inside the grid
func (m *Maze) InBounds(pos Pos) bool {
	return pos >= 0 && pos.Row() < m.height && pos.Col() < m.width
}

// Positions lists every in-bounds position, row-major
func (m *Maze) Positions() []Pos {
	out := make([]Pos, 0, m.height*m.width)
	for r := 0; r < m.height; r++ {
		for c := 0; c < m.width; c++ {
			out = append(out, At(r, c))
		}
	}
	return out
}

// At returns the screen placed at pos
func (m *Maze) At(pos Pos) (Scr, bool) {
	if !m.InBounds(pos) || m.grid[pos] == Empty {
		return 0, false
	}
	return m.grid[pos], true
}

// Get returns what pos sees on side d: the neighboring screen, or for a
// side facing out of the grid the border value in that screen's
// inverse-direction nibble
func (m *Maze) Get(pos Pos, d Dir) (Scr, bool) {
	np := pos.Plus(d)
	if !m.InBounds(np) {
		return m.border[pos] & d.Inverse().Mask(), true
	}
	return m.At(np)
}

// Counts returns how many cells use each screen
func (m *Maze) Counts() map[Scr]int {
	return maps.Clone(m.counts)
}

// ExtraTilesMap returns the physical slot assigned to each virtual tile
func (m *Maze) ExtraTilesMap() map[int]int {
	return maps.Clone(m.extraTilesMap)
}

// onBorder reports whether side d of pos faces out of the grid
func (m *Maze) onBorder(pos Pos, d Dir) bool {
	return m.InBounds(pos) && !m.InBounds(pos.Plus(d))
}

// fits reports whether s matches every neighbor and border of pos
func (m *Maze) fits(pos Pos, s Scr) bool {
	for _, d := range Dirs {
		if n, ok := m.Get(pos, d); ok && !s.Fits(d, n) {
			return false
		}
	}
	return true
}

// Fits reports whether s could be placed at pos
func (m *Maze) Fits(pos Pos, s Scr) bool {
	return m.InBounds(pos) && m.fits(pos, s)
}

// isAnchor reports whether a placed screen may never be displaced
func (m *Maze) isAnchor(s Scr) bool {
	spec, ok := m.specs[s]
	return ok && (spec.Fixed || len(spec.Stairs) > 0)
}

// Set places s at pos, failing hard if it is not catalogued or does not
// fit the neighbors already placed
func (m *Maze) Set(pos Pos, s Scr) error {
	if !m.InBounds(pos) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, pos)
	}
	if _, ok := m.specs[s]; !ok {
		return fmt.Errorf("%w: %v", ErrUnknownScreen, s)
	}
	if !m.fits(pos, s) {
		return fmt.Errorf("%w: %v at %v", ErrMisfit, s, pos)
	}
	m.Replace(pos, s)
	return nil
}

// TrySet places s at pos only if it fits, reporting whether it did. Fixed
// screens are never replaced.
func (m *Maze) TrySet(pos Pos, s Scr) (bool, error) {
	if !m.InBounds(pos) {
		return false, fmt.Errorf("%w: %v", ErrOutOfBounds, pos)
	}
	if _, ok := m.specs[s]; !ok {
		return false, fmt.Errorf("%w: %v", ErrUnknownScreen, s)
	}
	if old, ok := m.At(pos); ok && m.specs[old].Fixed {
		return false, nil
	}
	if !m.fits(pos, s) {
		return false, nil
	}
	m.Replace(pos, s)
	return true, nil
}

// Replace writes s at pos without any checks
func (m *Maze) Replace(pos Pos, s Scr) {
	m.Delete(pos)
	m.grid[pos] = s
	m.counts[s]++
}

// Delete clears pos
func (m *Maze) Delete(pos Pos) {
	old := m.grid[pos]
	if old == Empty {
		return
	}
	m.grid[pos] = Empty
	if m.counts[old] <= 1 {
		delete(m.counts, old)
	} else {
		m.counts[old]--
	}
}

// SetBorder records the edge type beyond side d of an empty edge cell
func (m *Maze) SetBorder(pos Pos, d Dir, edge int) error {
	if !m.onBorder(pos, d) {
		return fmt.Errorf("%w: %v %v is not on the border", ErrBorder, pos, d)
	}
	if m.grid[pos] != Empty {
		return fmt.Errorf("%w: %v is already set", ErrBorder, pos)
	}
	inv := d.Inverse()
	if m.border[pos]&inv.Mask() != 0 {
		return fmt.Errorf("%w: %v %v border is already set", ErrBorder, pos, d)
	}
	m.border[pos] |= Scr(edge&0xf) << inv.Shift()
	return nil
}

// SaveExcursion runs body and rolls the grid, border, counts and size back
// to their prior state unless it succeeds
func (m *Maze) SaveExcursion(body func() (bool, error)) (bool, error) {
	height, width := m.height, m.width
	grid := slices.Clone(m.grid)
	border := slices.Clone(m.border)
	counts := maps.Clone(m.counts)

	ok, err := body()
	if ok && err == nil {
		return true, nil
	}
	m.height, m.width = height, width
	m.grid, m.border, m.counts = grid, border, counts
	return false, err
}

// Alternates lists the catalogued screens that connect like s but differ
// in style
func (m *Maze) Alternates(s Scr) []Scr {
	var out []Scr
	for _, spec := range m.screens {
		if spec.Edges != s && spec.Edges.Signature() == s.Signature() {
			out = append(out, spec.Edges)
		}
	}
	return out
}

// tileFor resolves the physical slot for a spec
func (m *Maze) tileFor(spec *Spec) (int, error) {
	if !spec.Virtual() {
		return spec.Tile, nil
	}
	if slot, ok := m.extraTilesMap[^spec.Tile]; ok {
		return slot, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrUnassignedTile, spec.Edges)
}
