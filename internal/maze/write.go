package maze

import (
	"github.com/lawnchairsociety/dungeonshuffle/internal/level"
)

// Spawn ids written for wall and bridge spawns
const (
	WallSpawnID   = 0x2e
	BridgeSpawnID = 0x2f
)

// Write bakes the grid into loc: the screen tiles, one flag per wall
// screen and one wall spawn per wall screen. Flag ids and spawn records of
// the walls loc already had are reused before new ones are made. Other
// spawns are left alone.
func (m *Maze) Write(loc *level.Location) error {
	loc.Resize(m.height, m.width)
	for _, pos := range m.Positions() {
		s, ok := m.At(pos)
		if !ok {
			continue
		}
		tile, err := m.tileFor(m.specs[s])
		if err != nil {
			return err
		}
		if err := loc.SetScreen(int(pos), tile); err != nil {
			return err
		}
	}

	var oldWalls, others []level.Spawn
	wallScreens := make(map[int]bool)
	for _, sp := range loc.Spawns {
		if sp.Kind == level.SpawnWall {
			oldWalls = append(oldWalls, sp)
			wallScreens[sp.Screen] = true
		} else {
			others = append(others, sp)
		}
	}
	next := loc.NextFlag()
	var reuse []int
	var flags []level.Flag
	for _, fl := range loc.Flags {
		if wallScreens[fl.Screen] {
			reuse = append(reuse, fl.Flag)
		} else {
			flags = append(flags, fl)
		}
	}

	var walls []level.Spawn
	for _, pos := range m.Positions() {
		s, ok := m.At(pos)
		if !ok || m.specs[s].Wall == nil {
			continue
		}
		wall := m.specs[s].Wall

		id := next
		if len(reuse) > 0 {
			id, reuse = reuse[0], reuse[1:]
		} else {
			next++
		}
		flags = append(flags, level.Flag{Screen: int(pos), Flag: id})

		sp := level.Spawn{ID: WallSpawnID}
		if len(oldWalls) > 0 {
			sp, oldWalls = oldWalls[0], oldWalls[1:]
		}
		sp.Screen = int(pos)
		sp.Tile = wall.Tile
		sp.Kind = level.SpawnWall
		sp.ID = wallSpawnID(wall.Type, sp.ID)
		walls = append(walls, sp)
	}

	loc.Flags = flags
	loc.Spawns = append(walls, others...)
	return nil
}

// wallSpawnID keeps a reused wall's id (which may encode what breaks it)
// unless the wall type changed
func wallSpawnID(t WallType, old int) int {
	switch t {
	case SolidWall:
		if old == BridgeSpawnID {
			return WallSpawnID
		}
		return old
	case Bridge:
		return BridgeSpawnID
	}
	return old
}
