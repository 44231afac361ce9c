package maze

import (
	"strings"
)

// box-drawing glyphs indexed by exit mask (Up=1, Right=2, Down=4, Left=8)
var exitGlyphs = []rune(" ╵╶└╷│┌├╴┘─┴┐┤┬┼")

// Show renders the grid for debugging, either as hex screen codes or as
// one glyph per screen
func (m *Maze) Show(hex bool) string {
	var sb strings.Builder
	for r := 0; r < m.height; r++ {
		for c := 0; c < m.width; c++ {
			pos := At(r, c)
			if hex {
				if c > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(m.grid[pos].String())
				continue
			}
			sb.WriteRune(m.glyph(pos))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (m *Maze) glyph(pos Pos) rune {
	s, ok := m.At(pos)
	if !ok {
		return ' '
	}
	if spec := m.specs[s]; spec.Icon != 0 {
		return spec.Icon
	}
	if exits := s.Exits(); exits != 0 {
		return exitGlyphs[exits]
	}
	return '#'
}
