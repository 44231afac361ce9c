package maze

import (
	"errors"
	"testing"
)

func TestNewRejectsBadInput(t *testing.T) {
	tests := []struct {
		name          string
		height, width int
		cat           *Catalog
		want          error
	}{
		{"zero height", 0, 4, fullCatalog(), ErrInvalidSize},
		{"too wide", 2, 17, fullCatalog(), ErrInvalidSize},
		{"duplicate", 2, 2, &Catalog{Specs: []Spec{{Edges: 0}, {Edges: 0}}}, ErrDuplicateScreen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil, tt.height, tt.width, tt.cat)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrInvariant) {
				t.Errorf("New() error %v should be an invariant violation", err)
			}
		})
	}
}

func TestSetChecksCatalogAndFit(t *testing.T) {
	m := newTestMaze(t, 1, 2, 2, fullCatalog())

	if err := m.Set(0x00, 0x7777); !errors.Is(err, ErrUnknownScreen) {
		t.Errorf("Set(unknown) error = %v, want ErrUnknownScreen", err)
	}
	if err := m.Set(0x22, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Set(out of bounds) error = %v, want ErrOutOfBounds", err)
	}
	// open to the top with a closed border
	if err := m.Set(0x00, edgeScr(1, 0, 0, 0)); !errors.Is(err, ErrMisfit) {
		t.Errorf("Set(misfit) error = %v, want ErrMisfit", err)
	}
	if err := m.Set(0x00, edgeScr(0, 1, 0, 0)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	ok, err := m.TrySet(0x01, edgeScr(0, 0, 0, 0))
	if err != nil || ok {
		t.Errorf("TrySet(closed next to open) = %v, %v, want false", ok, err)
	}
	ok, err = m.TrySet(0x01, edgeScr(0, 0, 0, 1))
	if err != nil || !ok {
		t.Errorf("TrySet(matching) = %v, %v, want true", ok, err)
	}
	if got := m.Counts()[edgeScr(0, 0, 0, 1)]; got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
	m.Delete(0x01)
	if _, ok := m.At(0x01); ok {
		t.Error("Delete left a screen behind")
	}
	if len(m.Counts()) != 1 {
		t.Errorf("Counts() = %v, want one entry", m.Counts())
	}
}

func TestTrySetKeepsFixedScreens(t *testing.T) {
	cat := fullCatalog()
	fixed := edgeScr(0, 0, 0, 0) | 1<<16
	cat.Specs = append(cat.Specs, Spec{Edges: fixed, Fixed: true})
	m := newTestMaze(t, 1, 1, 1, cat)
	m.Replace(0x00, fixed)
	ok, err := m.TrySet(0x00, 0)
	if err != nil || ok {
		t.Errorf("TrySet over fixed = %v, %v, want false", ok, err)
	}
}

func TestSetBorder(t *testing.T) {
	m := newTestMaze(t, 1, 2, 3, fullCatalog())
	m.Replace(0x11, 0)

	tests := []struct {
		name string
		pos  Pos
		dir  Dir
		ok   bool
	}{
		{"top edge", 0x01, Up, true},
		{"same side twice", 0x01, Up, false},
		{"other side of same cell", 0x00, Left, true},
		{"interior side", 0x01, Down, false},
		{"placed cell", 0x11, Down, false},
		{"outside grid", 0x05, Up, false},
	}
	for _, tt := range tests {
		err := m.SetBorder(tt.pos, tt.dir, 1)
		if (err == nil) != tt.ok {
			t.Errorf("%s: SetBorder(%v, %v) error = %v", tt.name, tt.pos, tt.dir, err)
		}
		if err != nil && !errors.Is(err, ErrBorder) {
			t.Errorf("%s: error %v should wrap ErrBorder", tt.name, err)
		}
	}

	n, _ := m.Get(0x01, Up)
	if n.Edge(Down) != 1 {
		t.Errorf("border above 01 = %v, want edge 1 facing down", n)
	}
	if m.Fits(0x01, 0) {
		t.Error("closed screen should not fit under an open border")
	}
	if !m.Fits(0x01, edgeScr(1, 0, 0, 0)) {
		t.Error("screen open upward should fit under an open border")
	}
}

func TestSaveExcursion(t *testing.T) {
	m := newTestMaze(t, 1, 2, 2, fullCatalog())
	m.Replace(0x00, 0)
	before := m.Show(true)

	ok, err := m.SaveExcursion(func() (bool, error) {
		m.Replace(0x01, 0)
		m.Delete(0x00)
		return false, nil
	})
	if ok || err != nil {
		t.Errorf("SaveExcursion = %v, %v", ok, err)
	}
	if got := m.Show(true); got != before {
		t.Errorf("grid after failed excursion:\n%s\nwant:\n%s", got, before)
	}

	boom := errors.New("boom")
	_, err = m.SaveExcursion(func() (bool, error) {
		m.Replace(0x11, 0)
		return true, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
	if got := m.Show(true); got != before {
		t.Errorf("grid after erroring excursion:\n%s\nwant:\n%s", got, before)
	}

	ok, _ = m.SaveExcursion(func() (bool, error) {
		m.Replace(0x11, 0)
		return true, nil
	})
	if !ok {
		t.Fatal("successful excursion reported failure")
	}
	if _, ok := m.At(0x11); !ok {
		t.Error("successful excursion was rolled back")
	}
}

func TestAlternates(t *testing.T) {
	cat := fullCatalog()
	alt := edgeScr(0, 1, 0, 1) | 2<<16
	cat.Specs = append(cat.Specs, Spec{Edges: alt})
	m := newTestMaze(t, 1, 1, 1, cat)

	got := m.Alternates(edgeScr(0, 1, 0, 1))
	if len(got) != 1 || got[0] != alt {
		t.Errorf("Alternates = %v, want [%v]", got, alt)
	}
	if got := m.Alternates(alt); len(got) != 1 || got[0] != edgeScr(0, 1, 0, 1) {
		t.Errorf("Alternates(alt) = %v", got)
	}
}

func TestShow(t *testing.T) {
	cat := fullCatalog()
	m := newTestMaze(t, 1, 1, 3, cat)
	m.Replace(0x00, edgeScr(0, 1, 0, 0))
	m.Replace(0x01, edgeScr(0, 0, 0, 1))

	if got, want := m.Show(false), "╶╴ \n"; got != want {
		t.Errorf("Show(false) = %q, want %q", got, want)
	}
	if got, want := m.Show(true), "00010 01000 .....\n"; got != want {
		t.Errorf("Show(true) = %q, want %q", got, want)
	}

	cat.Specs[0].Icon = 'X'
	m.Replace(0x02, 0)
	if got, want := m.Show(false), "╶╴X\n"; got != want {
		t.Errorf("Show(false) with icon = %q, want %q", got, want)
	}
}
