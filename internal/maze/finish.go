package maze

import (
	"fmt"
	"slices"
	"sort"

	"github.com/lawnchairsociety/dungeonshuffle/internal/level"
	"github.com/lawnchairsociety/dungeonshuffle/internal/rng"
)

// LegacyEntranceTrigger is the one trigger that stays next to entrance 0
// wherever it ends up instead of taking a point of interest
const LegacyEntranceTrigger = 0xad

// MonsterPlacer picks a new home for a monster spawn. It is bound to the
// target location and random source by the caller; ok is false when the
// monster should be dropped.
type MonsterPlacer func(spawn level.Spawn) (screen int, tile uint8, ok bool)

// FinishOpts controls Finish
type FinishOpts struct {
	// Monsters relocates monster spawns; nil drops them
	Monsters MonsterPlacer
}

// Delta is an in-screen tile offset
type Delta struct {
	Dy, Dx int
}

// Apply shifts a tile coordinate, clamped to the screen
func (d Delta) Apply(tile uint8) uint8 {
	y := min(max(int(tile>>4)+d.Dy, 0), 0xe)
	x := min(max(int(tile&0xf)+d.Dx, 0), 0xf)
	return uint8(y<<4 | x)
}

// EntranceTile is where the player appears after entering through side d
func EntranceTile(d Dir) uint8 {
	switch d {
	case Up:
		return 0x17
	case Right:
		return 0x7e
	case Down:
		return 0xd7
	case Left:
		return 0x71
	}
	return 0
}

type finisher struct {
	m      *Maze
	survey *Survey
	orig   *level.Location
	loc    *level.Location
	opts   FinishOpts

	posMapping   map[Pos]Pos
	displacement map[Pos]Delta
	assigned     map[Pos]bool
}

// Finish trims the grid, maps the survey's fixed rooms, exits and stairs
// onto it, writes it into loc and relocates loc's spawns. loc is only
// modified on success.
func (m *Maze) Finish(survey *Survey, loc *level.Location, opts FinishOpts) (bool, error) {
	f := &finisher{
		m:            m,
		survey:       survey,
		orig:         loc,
		loc:          loc.Clone(),
		opts:         opts,
		posMapping:   make(map[Pos]Pos),
		displacement: make(map[Pos]Delta),
		assigned:     make(map[Pos]bool),
	}
	ok, err := m.SaveExcursion(func() (bool, error) {
		m.Trim()
		if ok, err := f.shuffleFixed(); !ok || err != nil {
			return false, err
		}
		if ok, err := f.placeExits(); !ok || err != nil {
			return false, err
		}
		if err := m.Write(f.loc); err != nil {
			return false, err
		}
		return f.placeNpcs()
	})
	if ok {
		*loc = *f.loc
	}
	return ok, err
}

// shuffleFixed assigns each surveyed fixed room a random grid cell holding
// the same fixed screen. Rooms carrying exits are left to placeExits.
func (f *finisher) shuffleFixed() (bool, error) {
	m := f.m
	buckets := make(map[Scr][]Pos)
	for _, pos := range m.Positions() {
		s, ok := m.At(pos)
		if ok && m.specs[s].Fixed {
			buckets[s] = append(buckets[s], pos)
		}
	}
	keys := make([]Scr, 0, len(buckets))
	for s := range buckets {
		keys = append(keys, s)
	}
	slices.Sort(keys)
	for _, s := range keys {
		rng.Shuffle(m.random, buckets[s])
	}

	exits := f.survey.exitPositions()
	for _, room := range f.survey.Fixed {
		if exits[room.Pos] {
			continue
		}
		bucket := buckets[room.Edges]
		if len(bucket) == 0 {
			return false, nil
		}
		f.posMapping[room.Pos] = bucket[0]
		f.assigned[bucket[0]] = true
		buckets[room.Edges] = bucket[1:]
	}
	return true, nil
}

// pop removes and returns the first unassigned position in pool accepted
// by match
func (f *finisher) pop(pool *[]Pos, match func(Pos) bool) (Pos, bool) {
	for i, pos := range *pool {
		if f.assigned[pos] || (match != nil && !match(pos)) {
			continue
		}
		*pool = slices.Delete(*pool, i, i+1)
		return pos, true
	}
	return NoPos, false
}

// placeExits maps every surveyed exit onto a grid edge cell opening the
// same way and every surveyed staircase onto a stair screen, rewriting the
// location's exits and entrances
func (f *finisher) placeExits() (bool, error) {
	m := f.m
	var pools, fixedPools [4][]Pos
	for _, d := range Dirs {
		for _, pos := range d.Edge(m.height, m.width) {
			s, ok := m.At(pos)
			if !ok || f.assigned[pos] {
				continue
			}
			if e := s.Edge(d); e == 0 || e == WildcardEdge {
				continue
			}
			if m.specs[s].Fixed {
				fixedPools[d] = append(fixedPools[d], pos)
			} else {
				pools[d] = append(pools[d], pos)
			}
		}
		rng.Shuffle(m.random, pools[d])
		rng.Shuffle(m.random, fixedPools[d])
	}
	stairPools := make(map[StairDir][]Pos)
	for _, pos := range m.Positions() {
		s, ok := m.At(pos)
		if !ok {
			continue
		}
		for _, dir := range []StairDir{StairUp, StairDown} {
			if m.specs[s].HasStair(dir) {
				stairPools[dir] = append(stairPools[dir], pos)
			}
		}
	}
	rng.Shuffle(m.random, stairPools[StairUp])
	rng.Shuffle(m.random, stairPools[StairDown])

	f.loc.Exits = nil
	for _, e := range f.survey.Exits {
		if e.Dir > Left {
			return false, fmt.Errorf("%w: exit at %v has no direction", ErrSurvey, e.Pos)
		}
		pos, ok := f.posMapping[e.Pos]
		if !ok {
			if room, fixed := f.survey.fixedAt(e.Pos); fixed {
				pos, ok = f.pop(&fixedPools[e.Dir], func(p Pos) bool {
					return m.grid[p] == room.Edges
				})
			} else {
				pos, ok = f.pop(&pools[e.Dir], nil)
			}
			if !ok {
				return false, nil
			}
			f.posMapping[e.Pos] = pos
			f.assigned[pos] = true
		}
		f.loc.SetEntrance(e.Entrance, level.Entrance{Screen: int(pos), Tile: EntranceTile(e.Dir)})
		f.loc.Exits = append(f.loc.Exits, level.Exit{
			Screen:       int(pos),
			Tile:         EdgeTile(e.Dir),
			Dest:         e.Dest,
			DestEntrance: e.DestEntrance,
		})
	}

	for _, st := range f.survey.Stairs {
		if st.Entrance < 0 || st.Entrance >= len(f.orig.Entrances) {
			return false, fmt.Errorf("%w: entrance %d of stair at %v", ErrSurvey, st.Entrance, st.Pos)
		}
		pool := stairPools[st.Dir]
		pos, ok := f.pop(&pool, nil)
		stairPools[st.Dir] = pool
		if !ok {
			return false, nil
		}
		stair, _ := m.specs[m.grid[pos]].Stair(st.Dir)
		old := f.orig.Entrances[st.Entrance].Tile
		f.displacement[st.Pos] = Delta{
			Dy: int(stair.Entrance>>4) - int(old>>4),
			Dx: int(stair.Entrance&0xf) - int(old&0xf),
		}
		f.posMapping[st.Pos] = pos
		f.assigned[pos] = true
		f.loc.SetEntrance(st.Entrance, level.Entrance{Screen: int(pos), Tile: stair.Entrance})
		f.loc.Exits = append(f.loc.Exits, level.Exit{
			Screen:       int(pos),
			Tile:         stair.Exit,
			Dest:         st.Dest,
			DestEntrance: st.DestEntrance,
		})
	}
	return true, nil
}

type poiSlot struct {
	pos      Pos
	priority int
	tile     uint8
}

type spawnSpot struct {
	screen int
	tile   uint8
}

// placeNpcs relocates every spawn that is not a wall
func (f *finisher) placeNpcs() (bool, error) {
	m := f.m
	var pois []poiSlot
	for _, pos := range m.Positions() {
		s, ok := m.At(pos)
		if !ok {
			continue
		}
		for _, p := range m.specs[s].POI {
			pois = append(pois, poiSlot{pos: pos, priority: p.Priority, tile: p.Tile()})
		}
	}
	rng.Shuffle(m.random, pois)
	sort.SliceStable(pois, func(i, j int) bool {
		return pois[i].priority < pois[j].priority
	})

	moved := make(map[spawnSpot]spawnSpot)
	spawns := make([]level.Spawn, 0, len(f.loc.Spawns))
	for _, sp := range f.loc.Spawns {
		if sp.Kind == level.SpawnWall {
			spawns = append(spawns, sp)
			continue
		}
		from := spawnSpot{screen: sp.Screen, tile: sp.Tile}
		if sp.Kind == level.SpawnMonster {
			if f.opts.Monsters == nil {
				continue
			}
			screen, tile, ok := f.opts.Monsters(sp)
			if !ok {
				continue
			}
			sp.Screen, sp.Tile = screen, tile
			spawns = append(spawns, sp)
			continue
		}

		if to, ok := moved[from]; ok {
			sp.Screen, sp.Tile = to.screen, to.tile
		} else if pos, ok := f.posMapping[Pos(sp.Screen)]; ok {
			sp.Tile = f.displacement[Pos(sp.Screen)].Apply(sp.Tile)
			sp.Screen = int(pos)
		} else if sp.Kind == level.SpawnTrigger && sp.ID == LegacyEntranceTrigger {
			if len(f.loc.Entrances) == 0 {
				return false, fmt.Errorf("%w: no entrance 0 for trigger %x", ErrSurvey, sp.ID)
			}
			sp.Screen = f.loc.Entrances[0].Screen
		} else {
			if len(pois) == 0 {
				return false, fmt.Errorf("%w: %v %x", ErrNoPOI, sp.Kind, sp.ID)
			}
			sp.Screen, sp.Tile = int(pois[0].pos), pois[0].tile
			pois = pois[1:]
		}
		moved[from] = spawnSpot{screen: sp.Screen, tile: sp.Tile}
		spawns = append(spawns, sp)
	}
	f.loc.Spawns = spawns
	return true, nil
}
