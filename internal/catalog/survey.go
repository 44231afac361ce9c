package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeonshuffle/internal/maze"
)

type fixedEntry struct {
	Pos   Hex `yaml:"pos"`
	Edges Hex `yaml:"edges"`
}

type exitEntry struct {
	Pos          Hex    `yaml:"pos"`
	Dir          string `yaml:"dir"`
	Dest         int    `yaml:"dest"`
	DestEntrance int    `yaml:"dest_entrance"`
	Entrance     int    `yaml:"entrance"`
}

type surveyFile struct {
	Fixed  []fixedEntry `yaml:"fixed"`
	Exits  []exitEntry  `yaml:"exits"`
	Stairs []exitEntry  `yaml:"stairs"`
}

// LoadSurvey reads a location survey from a YAML file
func LoadSurvey(path string) (*maze.Survey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read survey file: %w", err)
	}
	return ParseSurvey(data)
}

// ParseSurvey decodes a location survey. Exit directions are up, right,
// down or left; stair directions are up or down.
func ParseSurvey(data []byte) (*maze.Survey, error) {
	var file surveyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse survey YAML: %w", err)
	}

	survey := &maze.Survey{}
	for _, f := range file.Fixed {
		survey.Fixed = append(survey.Fixed, maze.FixedRoom{Pos: maze.Pos(f.Pos), Edges: maze.Scr(f.Edges)})
	}
	for i, e := range file.Exits {
		dir, ok := maze.ParseDir(e.Dir)
		if !ok || dir == maze.AnyDir {
			return nil, fmt.Errorf("%w: exit %d: direction %q", ErrCatalog, i, e.Dir)
		}
		survey.Exits = append(survey.Exits, maze.SurveyExit{
			Pos:          maze.Pos(e.Pos),
			Dir:          dir,
			Dest:         e.Dest,
			DestEntrance: e.DestEntrance,
			Entrance:     e.Entrance,
		})
	}
	for i, st := range file.Stairs {
		dir, err := parseStairDir(st.Dir)
		if err != nil {
			return nil, fmt.Errorf("stair %d: %w", i, err)
		}
		survey.Stairs = append(survey.Stairs, maze.SurveyStair{
			Pos:          maze.Pos(st.Pos),
			Dir:          dir,
			Dest:         st.Dest,
			DestEntrance: st.DestEntrance,
			Entrance:     st.Entrance,
		})
	}
	return survey, nil
}
