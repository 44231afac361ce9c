package maze

import (
	"github.com/lawnchairsociety/dungeonshuffle/internal/rng"
)

// Path is a sequence of turns, one per cell walked
type Path []Turn

// shuffle attempts before GeneratePath gives up on a move set
const pathShuffles = 20

// move directions in a frame where forward is Up
const (
	moveForward = Up
	moveRight   = Right
	moveBack    = Down
	moveLeft    = Left
)

// GeneratePath builds a random turn sequence that ends forward cells ahead
// and right cells to the right of its start, entering the start cell facing
// forward. Up to maxDetours extra back-and-forth pairs are mixed in. It
// returns nil if no valid ordering was found.
func GeneratePath(r rng.Random, forward, right, maxDetours int) Path {
	var moves []Dir
	add := func(d Dir, n int) {
		for i := 0; i < n; i++ {
			moves = append(moves, d)
		}
	}
	if forward >= 0 {
		add(moveForward, forward)
	} else {
		add(moveBack, -forward)
	}
	if right >= 0 {
		add(moveRight, right)
	} else {
		add(moveLeft, -right)
	}
	if maxDetours > 0 {
		for n := r.NextInt(maxDetours + 1); n > 0; n-- {
			if r.NextInt(2) == 0 {
				add(moveForward, 1)
				add(moveBack, 1)
			} else {
				add(moveRight, 1)
				add(moveLeft, 1)
			}
		}
	}

	for attempt := 0; attempt < pathShuffles; attempt++ {
		rng.Shuffle(r, moves)
		if path, ok := toTurns(moves); ok {
			return path
		}
	}
	return nil
}

// toTurns converts absolute moves into turns, rejecting any reversal
func toTurns(moves []Dir) (Path, bool) {
	path := make(Path, 0, len(moves))
	heading := moveForward
	for _, m := range moves {
		t := Turn((m - heading) & 3)
		if t == 2 {
			return nil, false
		}
		path = append(path, t)
		heading = m
	}
	return path, true
}

// End returns where a path that starts at pos facing heading finishes, and
// the heading it arrives with. NoPos means the path left the grid space.
func (p Path) End(pos Pos, heading Dir) (Pos, Dir) {
	for _, t := range p {
		heading = heading.Turn(t)
		pos = pos.Plus(heading)
	}
	return pos, heading
}
