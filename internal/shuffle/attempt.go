package shuffle

import (
	"github.com/lawnchairsociety/dungeonshuffle/internal/level"
	"github.com/lawnchairsociety/dungeonshuffle/internal/logger"
	"github.com/lawnchairsociety/dungeonshuffle/internal/maze"
	"github.com/lawnchairsociety/dungeonshuffle/internal/rng"
)

// Attempt stages, recorded when an attempt gives up
const (
	StageExits       = "exits"
	StageFixed       = "fixed"
	StageStairs      = "stairs"
	StageConnect     = "connect"
	StageFill        = "fill"
	StageConnected   = "connected"
	StageConsolidate = "consolidate"
	StageFinish      = "finish"
)

// dangling is an exit leading into an empty cell
type dangling struct {
	pos maze.Pos
	dir maze.Dir
}

// attempt runs one generation attempt on m and finishes into loc. It
// returns the stage that gave up, or "" on success; errors are fatal.
func (g *Generator) attempt(m *maze.Maze, loc *level.Location) (string, error) {
	steps := []struct {
		stage string
		run   func(*maze.Maze) (bool, error)
	}{
		{StageFixed, g.placeFixed},
		{StageExits, g.placeExits},
		{StageStairs, g.placeStairs},
		{StageConnect, g.connect},
		{StageFill, g.fillRest},
		{StageConnected, func(m *maze.Maze) (bool, error) {
			return connected(m), nil
		}},
		{StageConsolidate, g.consolidate},
		{StageFinish, func(m *maze.Maze) (bool, error) {
			return m.Finish(g.survey, loc, maze.FinishOpts{Monsters: monsterPlacer(m)})
		}},
	}
	for _, step := range steps {
		ok, err := step.run(m)
		if err != nil || !ok {
			return step.stage, err
		}
	}
	return "", nil
}

func connected(m *maze.Maze) bool {
	return m.Connected(maze.TraverseOpts{Flagged: true})
}

// exitsAt indexes the survey exits by source position
func (g *Generator) exitsAt() map[maze.Pos]maze.SurveyExit {
	out := make(map[maze.Pos]maze.SurveyExit)
	for _, e := range g.survey.Exits {
		out[e.Pos] = e
	}
	return out
}

// edgeCells returns the empty cells along side d in random order
func edgeCells(m *maze.Maze, d maze.Dir) []maze.Pos {
	var out []maze.Pos
	for _, pos := range d.Edge(m.Height(), m.Width()) {
		if _, ok := m.At(pos); !ok {
			out = append(out, pos)
		}
	}
	return rng.Shuffle(m.Random(), out)
}

// emptyCells returns every empty cell in random order
func emptyCells(m *maze.Maze) []maze.Pos {
	var out []maze.Pos
	for _, pos := range m.Positions() {
		if _, ok := m.At(pos); !ok {
			out = append(out, pos)
		}
	}
	return rng.Shuffle(m.Random(), out)
}

// placeFixed puts every surveyed fixed room somewhere it fits. A room that
// carries an exit goes on the matching side of the grid with its exit
// opening through the border.
func (g *Generator) placeFixed(m *maze.Maze) (bool, error) {
	exits := g.exitsAt()
	for _, room := range g.survey.Fixed {
		e, isExit := exits[room.Pos]
		cells := emptyCells(m)
		if isExit {
			cells = edgeCells(m, e.Dir)
		}
		placed := false
		for _, pos := range cells {
			if isExit {
				edge := room.Edges.Edge(e.Dir)
				if edge == 0 {
					return false, nil
				}
				ok, err := m.SaveExcursion(func() (bool, error) {
					if err := m.SetBorder(pos, e.Dir, edge); err != nil {
						return false, err
					}
					return m.Fits(pos, room.Edges), nil
				})
				if err != nil {
					return false, err
				}
				if !ok {
					continue
				}
			} else if !m.Fits(pos, room.Edges) {
				continue
			}
			if err := m.Set(pos, room.Edges); err != nil {
				return false, err
			}
			placed = true
			break
		}
		if !placed {
			return false, nil
		}
	}
	return true, nil
}

// placeExits opens the border for every surveyed exit that is not a fixed
// room and places a screen there with exactly one exit inward
func (g *Generator) placeExits(m *maze.Maze) (bool, error) {
	fixed := make(map[maze.Pos]bool)
	for _, room := range g.survey.Fixed {
		fixed[room.Pos] = true
	}
	for _, e := range g.survey.Exits {
		if fixed[e.Pos] {
			continue
		}
		placed := false
		for _, pos := range edgeCells(m, e.Dir) {
			ok, err := m.SaveExcursion(func() (bool, error) {
				if err := m.SetBorder(pos, e.Dir, g.cfg.ExitType); err != nil {
					return false, err
				}
				var through []maze.Scr
				for _, s := range m.Eligible(pos, maze.FillOpts{MaxExits: 2}) {
					if s.ExitCount() == 2 {
						through = append(through, s)
					}
				}
				if len(through) == 0 {
					return false, nil
				}
				return true, m.Set(pos, rng.Pick(m.Random(), through))
			})
			if err != nil {
				return false, err
			}
			if ok {
				placed = true
				break
			}
		}
		if !placed {
			return false, nil
		}
	}
	return true, nil
}

// placeStairs fills a random empty cell with a matching staircase for
// every surveyed stair
func (g *Generator) placeStairs(m *maze.Maze) (bool, error) {
	for _, st := range g.survey.Stairs {
		cells := emptyCells(m)
		if len(cells) == 0 {
			return false, nil
		}
		ok, err := m.Fill(cells[0], maze.FillOpts{Stair: st.Dir, Fuzzy: g.cfg.Fuzzy})
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// danglingExits lists every exit leading into an empty in-bounds cell
func danglingExits(m *maze.Maze) []dangling {
	var out []dangling
	for _, pos := range m.Positions() {
		s, ok := m.At(pos)
		if !ok {
			continue
		}
		for _, d := range maze.Dirs {
			np := pos.Plus(d)
			if s.Edge(d) == 0 || !m.InBounds(np) {
				continue
			}
			if _, taken := m.At(np); !taken {
				out = append(out, dangling{pos: pos, dir: d})
			}
		}
	}
	return out
}

// connect joins dangling exits pairwise, preferring partners in a
// different reachable region, until none is left. Then loops are added.
func (g *Generator) connect(m *maze.Maze) (bool, error) {
	opts := maze.ConnectOpts{Attempts: g.cfg.PathAttempts, Detours: g.cfg.Detours}
	for budget := 2 * m.Height() * m.Width(); ; budget-- {
		open := danglingExits(m)
		if len(open) == 0 {
			break
		}
		if budget <= 0 {
			return false, nil
		}
		a := open[0]
		bpos, bdir := partner(m, a, open[1:])
		ok, err := m.Connect(a.pos, a.dir, bpos, bdir, opts)
		if err != nil || !ok {
			return false, err
		}
	}
	for i := 0; i < g.cfg.Loops; i++ {
		ok, err := m.AddLoop(maze.LoopOpts{Attempts: g.cfg.PathAttempts, Detours: g.cfg.Detours})
		if err != nil {
			return false, err
		}
		if !ok {
			logger.Debug("no room for another loop", "loops", i)
			break
		}
	}
	return true, nil
}

// partner picks the exit to join a with, returning NoPos when none shares
// its exit type
func partner(m *maze.Maze, a dangling, rest []dangling) (maze.Pos, maze.Dir) {
	sa, _ := m.At(a.pos)
	regions := regionOf(m)
	var same, other []dangling
	for _, b := range rest {
		sb, _ := m.At(b.pos)
		if b.pos == a.pos || sb.Edge(b.dir) != sa.Edge(a.dir) {
			continue
		}
		if regions[maze.PointAt(b.pos, maze.EdgeTile(b.dir))] == regions[maze.PointAt(a.pos, maze.EdgeTile(a.dir))] {
			same = append(same, b)
		} else {
			other = append(other, b)
		}
	}
	switch {
	case len(other) > 0:
		b := rng.Pick(m.Random(), other)
		return b.pos, b.dir
	case len(same) > 0:
		b := rng.Pick(m.Random(), same)
		return b.pos, b.dir
	}
	return maze.NoPos, maze.AnyDir
}

// regionOf maps every tile exit point to a representative of its region
func regionOf(m *maze.Maze) map[maze.Point]maze.Point {
	out := make(map[maze.Point]maze.Point)
	for root, points := range m.Traverse(maze.TraverseOpts{Flagged: true}) {
		for _, p := range points {
			out[p] = root
		}
	}
	return out
}

// fillRest closes every remaining empty cell with an exitless screen
func (g *Generator) fillRest(m *maze.Maze) (bool, error) {
	var closed []maze.Scr
	for _, spec := range m.Screens() {
		if spec.Edges.ExitCount() == 0 && !spec.Fixed && len(spec.Stairs) == 0 {
			closed = append(closed, spec.Edges)
		}
	}
	if len(closed) == 0 {
		return false, nil
	}
	return m.FillAll(maze.FillAllOpts{Fill: maze.FillOpts{Allowed: closed}})
}

// consolidate squeezes the layout into the configured slots when asked,
// keeping it connected
func (g *Generator) consolidate(m *maze.Maze) (bool, error) {
	if !g.cfg.Consolidate {
		return true, nil
	}
	return m.Consolidate(g.cfg.Slots, connected, g.tiles)
}

// monsterPlacer moves monsters onto random open, non-fixed screens of the
// finished layout, at a point of interest when the screen has one
func monsterPlacer(m *maze.Maze) maze.MonsterPlacer {
	return func(level.Spawn) (int, uint8, bool) {
		var open []maze.Pos
		for _, pos := range m.Positions() {
			s, ok := m.At(pos)
			if !ok || s.ExitCount() == 0 {
				continue
			}
			if spec, _ := m.Spec(s); spec.Fixed || len(spec.Stairs) > 0 {
				continue
			}
			open = append(open, pos)
		}
		if len(open) == 0 {
			return 0, 0, false
		}
		pos := rng.Pick(m.Random(), open)
		s, _ := m.At(pos)
		spec, _ := m.Spec(s)
		tile := uint8(0x77)
		if len(spec.POI) > 0 {
			tile = rng.Pick(m.Random(), spec.POI).Tile()
		}
		return int(pos), tile, true
	}
}
