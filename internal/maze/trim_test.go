package maze

import (
	"testing"
)

func TestTrim(t *testing.T) {
	m := newTestMaze(t, 1, 4, 5, fullCatalog())
	m.Replace(At(1, 1), edgeScr(1, 1, 0, 0))
	m.Replace(At(1, 2), edgeScr(0, 0, 1, 1))
	m.Replace(At(2, 2), edgeScr(1, 0, 0, 0))

	m.Trim()
	if m.Height() != 2 || m.Width() != 2 {
		t.Fatalf("size after Trim = %dx%d, want 2x2", m.Height(), m.Width())
	}
	want := edgeScr(1, 1, 0, 0).String() + " " + edgeScr(0, 0, 1, 1).String() + "\n" +
		"..... " + edgeScr(1, 0, 0, 0).String() + "\n"
	if got := m.Show(true); got != want {
		t.Errorf("grid after Trim:\n%s\nwant:\n%s", got, want)
	}
	checkCompatible(t, m)

	once := m.Show(true)
	m.Trim()
	if m.Height() != 2 || m.Width() != 2 || m.Show(true) != once {
		t.Errorf("second Trim changed the grid:\n%s", m.Show(true))
	}
}

func TestTrimEmptyGrid(t *testing.T) {
	m := newTestMaze(t, 1, 3, 3, fullCatalog())
	m.Trim()
	if m.Height() != 3 || m.Width() != 3 {
		t.Errorf("Trim of an empty grid resized it to %dx%d", m.Height(), m.Width())
	}
}

func TestTrimKeepsExistingBorder(t *testing.T) {
	m := newTestMaze(t, 1, 2, 1, fullCatalog())
	if err := m.SetBorder(At(0, 0), Left, 1); err != nil {
		t.Fatal(err)
	}
	m.Replace(At(0, 0), edgeScr(0, 0, 0, 1))
	m.Trim()
	if m.Height() != 1 {
		t.Fatalf("Height() = %d, want 1", m.Height())
	}
	n, _ := m.Get(At(0, 0), Left)
	if n.Edge(Right) != 1 {
		t.Errorf("left border lost: %v", n)
	}
}
