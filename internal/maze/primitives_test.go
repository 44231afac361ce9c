package maze

import (
	"testing"

	"github.com/lawnchairsociety/dungeonshuffle/internal/rng"
)

func TestPosPacking(t *testing.T) {
	tests := []struct {
		row, col int
		want     Pos
	}{
		{0, 0, 0x00},
		{1, 2, 0x12},
		{3, 15, 0x3f},
	}
	for _, tt := range tests {
		p := At(tt.row, tt.col)
		if p != tt.want {
			t.Errorf("At(%d, %d) = %v, want %v", tt.row, tt.col, p, tt.want)
		}
		if p.Row() != tt.row || p.Col() != tt.col {
			t.Errorf("%v unpacks to (%d, %d)", p, p.Row(), p.Col())
		}
	}
}

func TestPosPlus(t *testing.T) {
	tests := []struct {
		pos  Pos
		dir  Dir
		want Pos
	}{
		{0x12, Up, 0x02},
		{0x12, Right, 0x13},
		{0x12, Down, 0x22},
		{0x12, Left, 0x11},
		{0x02, Up, NoPos},
		{0x10, Left, NoPos},
		{0x1f, Right, NoPos},
		{NoPos, Down, NoPos},
	}
	for _, tt := range tests {
		if got := tt.pos.Plus(tt.dir); got != tt.want {
			t.Errorf("%v.Plus(%v) = %v, want %v", tt.pos, tt.dir, got, tt.want)
		}
	}
}

func TestRelative(t *testing.T) {
	from, to := At(5, 5), At(3, 8)
	tests := []struct {
		heading        Dir
		forward, right int
	}{
		{Up, 2, 3},
		{Right, 3, -2},
		{Down, -2, -3},
		{Left, -3, 2},
	}
	for _, tt := range tests {
		f, r := Relative(from, to, tt.heading)
		if f != tt.forward || r != tt.right {
			t.Errorf("Relative facing %v = (%d, %d), want (%d, %d)", tt.heading, f, r, tt.forward, tt.right)
		}
	}
}

func TestDirInverseAndTurn(t *testing.T) {
	tests := []struct {
		dir     Dir
		inverse Dir
		right   Dir
		left    Dir
	}{
		{Up, Down, Right, Left},
		{Right, Left, Down, Up},
		{Down, Up, Left, Right},
		{Left, Right, Up, Down},
	}
	for _, tt := range tests {
		if got := tt.dir.Inverse(); got != tt.inverse {
			t.Errorf("%v.Inverse() = %v, want %v", tt.dir, got, tt.inverse)
		}
		if got := tt.dir.Turn(TurnRight); got != tt.right {
			t.Errorf("%v.Turn(right) = %v, want %v", tt.dir, got, tt.right)
		}
		if got := tt.dir.Turn(TurnLeft); got != tt.left {
			t.Errorf("%v.Turn(left) = %v, want %v", tt.dir, got, tt.left)
		}
		if got := tt.dir.Turn(Straight); got != tt.dir {
			t.Errorf("%v.Turn(straight) = %v", tt.dir, got)
		}
	}
}

func TestDirEdge(t *testing.T) {
	tests := []struct {
		dir  Dir
		want []Pos
	}{
		{Up, []Pos{0x00, 0x01, 0x02}},
		{Down, []Pos{0x10, 0x11, 0x12}},
		{Left, []Pos{0x00, 0x10}},
		{Right, []Pos{0x02, 0x12}},
	}
	for _, tt := range tests {
		got := tt.dir.Edge(2, 3)
		if len(got) != len(tt.want) {
			t.Fatalf("%v.Edge(2, 3) = %v, want %v", tt.dir, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%v.Edge(2, 3) = %v, want %v", tt.dir, got, tt.want)
				break
			}
		}
	}
}

func TestDirMask(t *testing.T) {
	m := DirMask(0).With(Up).With(Left)
	if !m.Has(Up) || !m.Has(Left) || m.Has(Down) {
		t.Errorf("unexpected mask %04b", m)
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}
	dirs := m.Dirs()
	if len(dirs) != 2 || dirs[0] != Up || dirs[1] != Left {
		t.Errorf("Dirs() = %v", dirs)
	}
}

func TestScrNibbles(t *testing.T) {
	s := edgeScr(1, 2, 0, 3) | 5<<16
	tests := []struct {
		dir  Dir
		want int
	}{
		{Up, 1},
		{Right, 2},
		{Down, 0},
		{Left, 3},
	}
	for _, tt := range tests {
		if got := s.Edge(tt.dir); got != tt.want {
			t.Errorf("Edge(%v) = %d, want %d", tt.dir, got, tt.want)
		}
	}
	if s.Signature() != 0x3021 {
		t.Errorf("Signature() = %x, want 3021", uint32(s.Signature()))
	}
	if s.Style() != 5 {
		t.Errorf("Style() = %d, want 5", s.Style())
	}
	if s.ExitCount() != 3 {
		t.Errorf("ExitCount() = %d, want 3", s.ExitCount())
	}
	if got := s.WithEdge(Down, 4).Edge(Down); got != 4 {
		t.Errorf("WithEdge(Down, 4).Edge(Down) = %d", got)
	}
	if Dir(Left).Mask() != 0xf000 || Dir(Right).Shift() != 4 {
		t.Error("unexpected mask or shift for horizontal sides")
	}
}

func TestScrFits(t *testing.T) {
	a := edgeScr(0, 2, 0, 0)
	tests := []struct {
		other Scr
		want  bool
	}{
		{edgeScr(0, 0, 0, 2), true},
		{edgeScr(0, 0, 0, 1), false},
		{edgeScr(0, 2, 0, 0), false},
	}
	for _, tt := range tests {
		if got := a.Fits(Right, tt.other); got != tt.want {
			t.Errorf("Fits(Right, %v) = %v, want %v", tt.other, got, tt.want)
		}
	}
}

func TestCorridor(t *testing.T) {
	if got := Corridor(Left, Right, 1); got != edgeScr(0, 1, 0, 1) {
		t.Errorf("Corridor(Left, Right, 1) = %v", got)
	}
	if got := Corridor(Down, Up, 3); got != edgeScr(3, 0, 3, 0) {
		t.Errorf("Corridor(Down, Up, 3) = %v", got)
	}
}

func TestGeneratePathReachesTarget(t *testing.T) {
	r := rng.New(11)
	start := At(8, 8)
	for _, heading := range Dirs {
		for forward := -3; forward <= 3; forward++ {
			for right := -3; right <= 3; right++ {
				if forward < 0 && right == 0 {
					// straight back is never reachable without detours
					continue
				}
				path := GeneratePath(r, forward, right, 2)
				if path == nil {
					continue
				}
				for _, turn := range path {
					if turn == 2 {
						t.Fatalf("path %v reverses", path)
					}
				}
				end, _ := path.End(start, heading)
				f, rt := Relative(start, end, heading)
				if f != forward || rt != right {
					t.Errorf("path %v facing %v ends at (%d, %d), want (%d, %d)", path, heading, f, rt, forward, right)
				}
			}
		}
	}
}

func TestGeneratePathStraight(t *testing.T) {
	path := GeneratePath(rng.New(1), 3, 0, 0)
	if len(path) != 3 {
		t.Fatalf("len(path) = %d, want 3", len(path))
	}
	for _, turn := range path {
		if turn != Straight {
			t.Errorf("path %v should be straight", path)
		}
	}
}
