package maze

import (
	"slices"
	"sort"

	"github.com/lawnchairsociety/dungeonshuffle/internal/level"
	"github.com/lawnchairsociety/dungeonshuffle/internal/rng"
)

// maxConsolidateIterations bounds the local search in Consolidate
const maxConsolidateIterations = 1000

// Consolidate rewrites screens until the layout uses no more distinct
// screens than the physical slots available allow. Only mutable screens
// (non-fixed, and either virtual or backed by one of slots) are rewritten.
// Every rewrite must keep valid(m) true; a nil valid accepts anything.
//
// On success, virtual screens still in use are given the physical slots
// of mutable screens that ended up unused, and their graphics are copied
// into tiles when it is non-nil. Slots are checked against tiles before
// anything is assigned; a bad slot leaves the maze as it was.
func (m *Maze) Consolidate(slots []int, valid func(*Maze) bool, tiles *level.Tileset) (bool, error) {
	available := make(map[int]bool, len(slots))
	for _, slot := range slots {
		available[slot] = true
	}
	var mutable []Scr
	isMutable := make(map[Scr]bool)
	for _, spec := range m.screens {
		if spec.Fixed || !(spec.Virtual() || available[spec.Tile]) {
			continue
		}
		mutable = append(mutable, spec.Edges)
		isMutable[spec.Edges] = true
	}
	extra := 0
	for s := range m.counts {
		if !isMutable[s] {
			extra++
		}
	}
	target := extra + len(slots)

	var plan map[int]int
	ok, err := m.SaveExcursion(func() (bool, error) {
		for iter := 0; len(m.counts) > target; iter++ {
			if iter >= maxConsolidateIterations {
				return false, nil
			}
			ranked := slices.Clone(mutable)
			sort.SliceStable(ranked, func(i, j int) bool {
				return m.counts[ranked[i]] > m.counts[ranked[j]]
			})
			n := min(len(slots), len(ranked))
			keep := ranked[:n]
			replace := make(map[Scr]bool)
			for _, s := range ranked[n:] {
				replace[s] = true
			}

			var cells []Pos
			for _, pos := range m.Positions() {
				if replace[m.grid[pos]] {
					cells = append(cells, pos)
				}
			}
			if len(cells) == 0 {
				return false, nil
			}
			pos := rng.Pick(m.random, cells)
			if _, err := m.tryConsolidate(pos, keep, valid); err != nil {
				return false, err
			}
		}
		var ok bool
		if plan, ok = m.planSlots(slots, mutable); !ok || tiles == nil {
			return ok, nil
		}
		for _, slot := range plan {
			if err := tiles.CheckSlot(slot); err != nil {
				return false, err
			}
		}
		return true, nil
	})
	if !ok || err != nil {
		return ok, err
	}
	if tiles != nil {
		for virtual, slot := range plan {
			if virtual >= len(m.extraTiles) {
				continue
			}
			if err := tiles.SetScreen(slot, m.extraTiles[virtual]); err != nil {
				return false, err
			}
		}
	}
	for virtual, slot := range plan {
		m.extraTilesMap[virtual] = slot
	}
	return true, nil
}

// tryConsolidate replaces the screen at pos with a kept screen that
// differs in at most one side, adjusting the neighbor on that side when
// needed
func (m *Maze) tryConsolidate(pos Pos, keep []Scr, valid func(*Maze) bool) (bool, error) {
	cur := m.grid[pos]
	inKeep := make(map[Scr]bool, len(keep))
	for _, s := range keep {
		inKeep[s] = true
	}
	for _, k := range keep {
		var diff []Dir
		for _, d := range Dirs {
			if k.Edge(d) != cur.Edge(d) {
				diff = append(diff, d)
			}
		}
		if len(diff) > 1 {
			continue
		}

		np, neighbor := NoPos, Empty
		if len(diff) == 1 {
			d := diff[0]
			edge := k.Edge(d)
			n, ok := m.Get(pos, d)
			switch {
			case m.onBorder(pos, d):
				if n.Edge(d.Inverse()) != edge {
					continue
				}
			case !ok:
				continue
			case n.Edge(d.Inverse()) != edge:
				if m.specs[n].Fixed {
					continue
				}
				np = pos.Plus(d)
				neighbor = m.neighborReplacement(n, d.Inverse(), edge, inKeep)
				if neighbor == Empty {
					continue
				}
			}
		}

		ok, err := m.SaveExcursion(func() (bool, error) {
			m.Replace(pos, k)
			if np != NoPos {
				m.Replace(np, neighbor)
			}
			if !m.fits(pos, k) || (np != NoPos && !m.fits(np, neighbor)) {
				return false, nil
			}
			return valid == nil || valid(m), nil
		})
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// neighborReplacement finds a kept, non-fixed screen that matches n except
// for side d, which becomes edge
func (m *Maze) neighborReplacement(n Scr, d Dir, edge int, inKeep map[Scr]bool) Scr {
	want := n.WithEdge(d, edge).Signature()
	for _, spec := range m.screens {
		if spec.Fixed || spec.Edges.Signature() != want || !inKeep[spec.Edges] {
			continue
		}
		return spec.Edges
	}
	return Empty
}

// planSlots picks a physical slot for every virtual screen still in use,
// taking the slots of mutable screens that ended up unused
func (m *Maze) planSlots(slots []int, mutable []Scr) (map[int]int, bool) {
	taken := make(map[int]bool)
	for _, s := range mutable {
		spec := m.specs[s]
		if !spec.Virtual() && m.counts[s] > 0 {
			taken[spec.Tile] = true
		}
	}
	for _, slot := range m.extraTilesMap {
		taken[slot] = true
	}
	var free []int
	for _, slot := range slots {
		if !taken[slot] {
			free = append(free, slot)
		}
	}

	plan := make(map[int]int)
	for _, s := range mutable {
		spec := m.specs[s]
		if !spec.Virtual() || m.counts[s] == 0 {
			continue
		}
		virtual := ^spec.Tile
		if _, done := m.extraTilesMap[virtual]; done {
			continue
		}
		if _, done := plan[virtual]; done {
			continue
		}
		if len(free) == 0 {
			return nil, false
		}
		plan[virtual] = free[0]
		free = free[1:]
	}
	return plan, true
}
