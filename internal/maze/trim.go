package maze

// Trim drops empty rows and columns from the edges of the grid. Cells left
// on a new edge get a border equal to their own outward edge, so trimming
// twice changes nothing.
func (m *Maze) Trim() {
	top, bottom, left, right := m.height, -1, m.width, -1
	for _, pos := range m.Positions() {
		if m.grid[pos] == Empty {
			continue
		}
		top = min(top, pos.Row())
		bottom = max(bottom, pos.Row())
		left = min(left, pos.Col())
		right = max(right, pos.Col())
	}
	if bottom < 0 {
		return
	}
	if top == 0 && left == 0 && bottom == m.height-1 && right == m.width-1 {
		return
	}

	height, width := bottom-top+1, right-left+1
	grid := make([]Scr, height<<4)
	border := make([]Scr, height<<4)
	for i := range grid {
		grid[i] = Empty
	}
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			from, to := At(r+top, c+left), At(r, c)
			s := m.grid[from]
			grid[to] = s
			border[to] = m.border[from]
			for _, d := range Dirs {
				if m.onBorder(from, d) {
					continue
				}
				nr, nc := r+dirRow(d), c+dirCol(d)
				if nr >= 0 && nr < height && nc >= 0 && nc < width {
					continue
				}
				inv := d.Inverse()
				border[to] &^= inv.Mask()
				if s != Empty {
					border[to] |= Scr(s.Edge(d)) << inv.Shift()
				}
			}
		}
	}
	m.height, m.width = height, width
	m.grid, m.border = grid, border
}

func dirRow(d Dir) int {
	dr, _ := d.delta()
	return dr
}

func dirCol(d Dir) int {
	_, dc := d.delta()
	return dc
}
