package maze

import (
	"fmt"
	"slices"

	"github.com/lawnchairsociety/dungeonshuffle/internal/rng"
	"github.com/lawnchairsociety/dungeonshuffle/internal/unionfind"
)

// defaultPathAttempts is how many random paths are tried between two ends
const defaultPathAttempts = 20

// PathOpts controls how corridors are synthesized along a path
type PathOpts struct {
	// Alternates maps a corridor screen to style variants that may be
	// substituted for it
	Alternates map[Scr][]Scr
}

// LoopOpts controls AddLoop
type LoopOpts struct {
	Path PathOpts
	// Attempts is the number of random paths tried; 0 means 20
	Attempts int
	// Detours is the most back-and-forth pairs mixed into each path
	Detours int
}

// ConnectOpts controls Connect
type ConnectOpts struct {
	Path     PathOpts
	Attempts int
	Detours  int
}

// Extensions lists every way a placed screen could gain one exit into an
// empty in-bounds neighbor. Empty cells are partitioned into connected
// regions; the tag combines the region with the new exit type.
func (m *Maze) Extensions() []Extension {
	uf := unionfind.New[Pos]()
	for _, pos := range m.Positions() {
		if m.grid[pos] != Empty {
			continue
		}
		uf.Add(pos)
		for _, d := range []Dir{Right, Down} {
			np := pos.Plus(d)
			if m.InBounds(np) && m.grid[np] == Empty {
				uf.Union(pos, np)
			}
		}
	}

	var out []Extension
	for _, pos := range m.Positions() {
		s, ok := m.At(pos)
		if !ok || m.isAnchor(s) {
			continue
		}
		for _, ext := range m.screenExtensions[s.Signature()] {
			np := pos.Plus(ext.dir)
			if !m.InBounds(np) || m.grid[np] != Empty {
				continue
			}
			out = append(out, Extension{
				Pos: pos,
				Scr: ext.scr,
				Dir: ext.dir,
				Tag: int(uf.Find(np))<<4 | ext.scr.Edge(ext.dir),
			})
		}
	}
	return out
}

// AddLoop opens two extensions into the same empty region and joins them
// with a corridor, creating a loop in the layout
func (m *Maze) AddLoop(opts LoopOpts) (bool, error) {
	groups := make(map[int][]Extension)
	for _, ext := range m.Extensions() {
		groups[ext.Tag] = append(groups[ext.Tag], ext)
	}
	var tags []int
	for tag, exts := range groups {
		if distinctPositions(exts) > 1 {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return false, nil
	}
	slices.Sort(tags)

	group := groups[rng.Pick(m.random, tags)]
	first := rng.Pick(m.random, group)
	var rest []Extension
	for _, ext := range group {
		if ext.Pos != first.Pos {
			rest = append(rest, ext)
		}
	}
	second := rng.Pick(m.random, rest)

	return m.SaveExcursion(func() (bool, error) {
		if err := m.Set(first.Pos, first.Scr); err != nil {
			return false, err
		}
		if err := m.Set(second.Pos, second.Scr); err != nil {
			return false, err
		}
		return m.join(first.Pos, first.Dir, second.Pos, second.Dir, first.ExitType(),
			opts.Attempts, opts.Detours, opts.Path)
	})
}

func distinctPositions(exts []Extension) int {
	seen := make(map[Pos]bool)
	for _, ext := range exts {
		seen[ext.Pos] = true
	}
	return len(seen)
}

// Connect joins the open exit of pos1 to the open exit of pos2. AnyDir
// infers a direction from the screen's single dangling exit. If pos2 is
// NoPos, a random extension with a matching exit type is opened instead.
// Exits of different types are an invariant violation.
func (m *Maze) Connect(pos1 Pos, dir1 Dir, pos2 Pos, dir2 Dir, opts ConnectOpts) (bool, error) {
	s1, ok := m.At(pos1)
	if !ok {
		return false, fmt.Errorf("%w: nothing to connect at %v", ErrInvariant, pos1)
	}
	if dir1 == AnyDir {
		d, err := m.openExit(pos1)
		if err != nil {
			return false, err
		}
		dir1 = d
	}
	exitType := s1.Edge(dir1)

	var adopt *Extension
	if pos2 == NoPos {
		var matches []Extension
		for _, ext := range m.Extensions() {
			if ext.Pos != pos1 && ext.ExitType() == exitType {
				matches = append(matches, ext)
			}
		}
		if len(matches) == 0 {
			return false, nil
		}
		ext := rng.Pick(m.random, matches)
		adopt = &ext
		pos2, dir2 = ext.Pos, ext.Dir
	} else {
		s2, ok := m.At(pos2)
		if !ok {
			return false, fmt.Errorf("%w: nothing to connect at %v", ErrInvariant, pos2)
		}
		if dir2 == AnyDir {
			d, err := m.openExit(pos2)
			if err != nil {
				return false, err
			}
			dir2 = d
		}
		if s2.Edge(dir2) != exitType {
			return false, fmt.Errorf("%w: %v %v (%x) and %v %v (%x)",
				ErrIncompatibleExits, pos1, dir1, exitType, pos2, dir2, s2.Edge(dir2))
		}
	}

	return m.SaveExcursion(func() (bool, error) {
		if adopt != nil {
			if err := m.Set(adopt.Pos, adopt.Scr); err != nil {
				return false, err
			}
		}
		return m.join(pos1, dir1, pos2, dir2, exitType, opts.Attempts, opts.Detours, opts.Path)
	})
}

// openExit finds the single exit of pos that leads into an empty cell
func (m *Maze) openExit(pos Pos) (Dir, error) {
	s, _ := m.At(pos)
	found := AnyDir
	for _, d := range Dirs {
		if s.Edge(d) == 0 {
			continue
		}
		np := pos.Plus(d)
		if !m.InBounds(np) || m.grid[np] != Empty {
			continue
		}
		if found != AnyDir {
			return AnyDir, fmt.Errorf("%w: %v has several", ErrNoOpenExit, pos)
		}
		found = d
	}
	if found == AnyDir {
		return AnyDir, fmt.Errorf("%w: %v has none", ErrNoOpenExit, pos)
	}
	return found, nil
}

// join fills the cells between two exits. Callers run it inside an
// excursion.
func (m *Maze) join(pos1 Pos, dir1 Dir, pos2 Pos, dir2 Dir, exitType, attempts, detours int, opts PathOpts) (bool, error) {
	start := pos1.Plus(dir1)
	end := pos2.Plus(dir2)
	if !m.InBounds(start) || !m.InBounds(end) {
		return false, nil
	}
	if start == end {
		return m.fill(start, FillOpts{MaxExits: 2})
	}
	if attempts <= 0 {
		attempts = defaultPathAttempts
	}
	forward, right := Relative(start, end, dir1)
	for i := 0; i < attempts; i++ {
		path := GeneratePath(m.random, forward, right, detours)
		if path == nil {
			continue
		}
		ok, err := m.FillPath(pos1, dir1, path, exitType, opts)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// FillPath walks path from the cell beyond side dir of pos, laying a
// corridor of the given exit type in every cell it passes, then fills the
// final cell with at most two exits. Any step that does not fit aborts the
// whole path.
func (m *Maze) FillPath(pos Pos, dir Dir, path Path, exitType int, opts PathOpts) (bool, error) {
	return m.SaveExcursion(func() (bool, error) {
		cur, heading := pos.Plus(dir), dir
		for _, t := range path {
			if !m.InBounds(cur) {
				return false, nil
			}
			next := heading.Turn(t)
			corridor := Corridor(heading.Inverse(), next, exitType)
			if _, ok := m.specs[corridor]; !ok {
				return false, nil
			}
			if alts := opts.Alternates[corridor]; len(alts) > 0 {
				corridor = rng.Pick(m.random, append([]Scr{corridor}, alts...))
			}
			if ok, err := m.TrySet(cur, corridor); !ok || err != nil {
				return false, err
			}
			cur, heading = cur.Plus(next), next
		}
		if !m.InBounds(cur) || m.grid[cur] != Empty {
			return false, nil
		}
		return m.fill(cur, FillOpts{MaxExits: 2})
	})
}
