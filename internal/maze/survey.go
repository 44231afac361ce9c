package maze

// FixedRoom is a fixed screen of the source layout that must reappear
type FixedRoom struct {
	Pos   Pos
	Edges Scr
}

// SurveyExit is an edge exit of the source layout. Entrance is the id of
// the matching entrance in this location.
type SurveyExit struct {
	Pos          Pos
	Dir          Dir
	Dest         int
	DestEntrance int
	Entrance     int
}

// SurveyStair is a staircase of the source layout
type SurveyStair struct {
	Pos          Pos
	Dir          StairDir
	Dest         int
	DestEntrance int
	Entrance     int
}

// Survey lists what the generated layout must preserve from the source
// layout. Positions are in source coordinates.
type Survey struct {
	Fixed  []FixedRoom
	Exits  []SurveyExit
	Stairs []SurveyStair
}

// fixedAt returns the fixed room at a source position
func (s *Survey) fixedAt(pos Pos) (FixedRoom, bool) {
	for _, f := range s.Fixed {
		if f.Pos == pos {
			return f, true
		}
	}
	return FixedRoom{}, false
}

// exitPositions returns the source positions that carry exits or stairs
func (s *Survey) exitPositions() map[Pos]bool {
	out := make(map[Pos]bool)
	for _, e := range s.Exits {
		out[e.Pos] = true
	}
	for _, st := range s.Stairs {
		out[st.Pos] = true
	}
	return out
}
