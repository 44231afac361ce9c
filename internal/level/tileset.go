package level

import (
	"fmt"
)

// Tileset holds the graphics of every physical screen slot. Each slot is a
// list of metatile ids for one screen.
type Tileset struct {
	Screens [][]int `yaml:"screens"`
}

// NewTileset creates a tileset with the given number of empty slots
func NewTileset(slots int) *Tileset {
	return &Tileset{Screens: make([][]int, slots)}
}

// CheckSlot reports whether slot can hold graphics
func (t *Tileset) CheckSlot(slot int) error {
	if slot < 0 {
		return fmt.Errorf("level: negative tileset slot %d", slot)
	}
	return nil
}

// SetScreen copies graphics into a physical slot
func (t *Tileset) SetScreen(slot int, graphics []int) error {
	if err := t.CheckSlot(slot); err != nil {
		return err
	}
	for len(t.Screens) <= slot {
		t.Screens = append(t.Screens, nil)
	}
	t.Screens[slot] = append([]int(nil), graphics...)
	return nil
}

// Screen returns the graphics stored in a slot
func (t *Tileset) Screen(slot int) []int {
	if slot < 0 || slot >= len(t.Screens) {
		return nil
	}
	return t.Screens[slot]
}
