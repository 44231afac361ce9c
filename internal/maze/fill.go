package maze

import (
	"slices"

	"github.com/lawnchairsociety/dungeonshuffle/internal/rng"
)

// FillOpts controls how a single cell is filled
type FillOpts struct {
	// MaxExits caps the number of open sides; 0 means no cap
	MaxExits int
	// Fuzzy is the mismatch budget. 0 requires an exact match. Otherwise
	// placed non-fixed neighbors may be refilled to make room, each level
	// of refill spending one unit. The border and fixed or stair neighbors
	// always constrain exactly.
	Fuzzy int
	// Stair requires a staircase leading this way. StairNone excludes
	// stair screens entirely.
	Stair StairDir
	// NoAlternates excludes screens with style bits
	NoAlternates bool
	// Allowed restricts candidates when non-nil
	Allowed []Scr
	// DeleteNeighbors clears the non-fixed neighbors of the cell that could
	// not be filled, after any rollback, so a later pass can retry with
	// fewer constraints
	DeleteNeighbors bool
}

// FillAllOpts controls FillAll
type FillAllOpts struct {
	Fill FillOpts
	// Shuffle visits the empty cells in random order instead of row-major
	Shuffle bool
}

// Eligible lists the catalogued screens that may be placed at pos, in
// catalogue order
func (m *Maze) Eligible(pos Pos, opts FillOpts) []Scr {
	if !m.InBounds(pos) {
		return nil
	}
	var constraint, mask, soft Scr
	for _, d := range Dirs {
		n, ok := m.Get(pos, d)
		if !ok {
			continue
		}
		constraint |= Scr(n.Edge(d.Inverse())) << d.Shift()
		mask |= d.Mask()
		if opts.Fuzzy > 0 && !m.onBorder(pos, d) && !m.isAnchor(n) {
			soft |= d.Mask()
		}
	}
	hard := mask &^ soft

	var out []Scr
	best := -1
	for _, spec := range m.screens {
		s := spec.Edges
		if !m.candidate(spec, opts) {
			continue
		}
		if s&hard != constraint&hard {
			continue
		}
		if opts.Fuzzy == 0 {
			out = append(out, s)
			continue
		}
		miss := 0
		for _, d := range Dirs {
			if soft&d.Mask() != 0 && s&d.Mask() != constraint&d.Mask() {
				miss++
			}
		}
		switch {
		case best < 0 || miss < best:
			best = miss
			out = append(out[:0], s)
		case miss == best:
			out = append(out, s)
		}
	}
	return out
}

// candidate applies the option filters that do not depend on neighbors
func (m *Maze) candidate(spec *Spec, opts FillOpts) bool {
	if spec.Fixed {
		return false
	}
	if opts.Stair == StairNone {
		if len(spec.Stairs) > 0 {
			return false
		}
	} else if !spec.HasStair(opts.Stair) {
		return false
	}
	if opts.NoAlternates && spec.Edges.Style() != 0 {
		return false
	}
	if opts.MaxExits > 0 && spec.Edges.ExitCount() > opts.MaxExits {
		return false
	}
	if opts.Allowed != nil && !slices.Contains(opts.Allowed, spec.Edges) {
		return false
	}
	return true
}

// Fill places a random eligible screen at pos. A fuzzy fill that has to
// refill neighbors is atomic: on failure the grid is left as it was,
// apart from the neighbors DeleteNeighbors clears.
func (m *Maze) Fill(pos Pos, opts FillOpts) (bool, error) {
	m.stale = m.stale[:0]
	var ok bool
	var err error
	if opts.Fuzzy == 0 {
		ok, err = m.fill(pos, opts)
	} else {
		ok, err = m.SaveExcursion(func() (bool, error) {
			return m.fill(pos, opts)
		})
	}
	if !ok && err == nil {
		m.clearStale()
	}
	return ok, err
}

// clearStale deletes the non-fixed screens recorded by a failed fill
func (m *Maze) clearStale() {
	for _, pos := range m.stale {
		if s, ok := m.At(pos); ok && !m.specs[s].Fixed {
			m.Delete(pos)
		}
	}
	m.stale = m.stale[:0]
}

func (m *Maze) fill(pos Pos, opts FillOpts) (bool, error) {
	if !m.InBounds(pos) {
		return false, nil
	}
	candidates := m.Eligible(pos, opts)
	if len(candidates) == 0 {
		if opts.DeleteNeighbors {
			for _, d := range Dirs {
				if np := pos.Plus(d); m.InBounds(np) {
					m.stale = append(m.stale, np)
				}
			}
		}
		return false, nil
	}
	s := rng.Pick(m.random, candidates)
	if opts.Fuzzy == 0 {
		return true, m.Set(pos, s)
	}
	return m.setAndUpdate(pos, s, opts)
}

// setAndUpdate places s and refills every neighbor it now mismatches with
// one less unit of fuzz
func (m *Maze) setAndUpdate(pos Pos, s Scr, opts FillOpts) (bool, error) {
	m.Replace(pos, s)
	next := opts
	next.Fuzzy--
	next.DeleteNeighbors = false
	next.Stair = StairNone
	next.MaxExits = 0
	for _, d := range Dirs {
		np := pos.Plus(d)
		n, ok := m.At(np)
		if !ok || s.Fits(d, n) {
			continue
		}
		if m.isAnchor(n) {
			return false, nil
		}
		m.Delete(np)
		if ok, err := m.fill(np, next); !ok || err != nil {
			return false, err
		}
	}
	return true, nil
}

// FillAll fills every empty cell. It is all or nothing: if any cell
// cannot be filled the grid is restored and false is returned. With
// DeleteNeighbors the failing cell's neighbors are then cleared.
func (m *Maze) FillAll(opts FillAllOpts) (bool, error) {
	positions := m.Positions()
	if opts.Shuffle {
		rng.Shuffle(m.random, positions)
	}
	m.stale = m.stale[:0]
	ok, err := m.SaveExcursion(func() (bool, error) {
		for _, pos := range positions {
			if m.grid[pos] != Empty {
				continue
			}
			if ok, err := m.fill(pos, opts.Fill); !ok || err != nil {
				return false, err
			}
		}
		return true, nil
	})
	if !ok && err == nil {
		m.clearStale()
	}
	return ok, err
}
