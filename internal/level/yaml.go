package level

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MarshalYAML writes a SpawnKind as its name
func (k SpawnKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML reads a SpawnKind from its name
func (k *SpawnKind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	kind, err := ParseSpawnKind(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*k = kind
	return nil
}

// Load reads a location from a YAML file
func Load(path string) (*Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read location file: %w", err)
	}

	var loc Location
	if err := yaml.Unmarshal(data, &loc); err != nil {
		return nil, fmt.Errorf("failed to parse location YAML: %w", err)
	}
	if len(loc.Screens) == 0 && loc.Height > 0 && loc.Width > 0 {
		loc.Resize(loc.Height, loc.Width)
	}
	return &loc, nil
}

// Save writes a location to a YAML file
func Save(path string, loc *Location) error {
	data, err := yaml.Marshal(loc)
	if err != nil {
		return fmt.Errorf("failed to marshal location: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write location file: %w", err)
	}
	return nil
}

// LoadTileset reads a tileset from a YAML file
func LoadTileset(path string) (*Tileset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tileset file: %w", err)
	}

	var ts Tileset
	if err := yaml.Unmarshal(data, &ts); err != nil {
		return nil, fmt.Errorf("failed to parse tileset YAML: %w", err)
	}
	return &ts, nil
}

// SaveTileset writes a tileset to a YAML file
func SaveTileset(path string, ts *Tileset) error {
	data, err := yaml.Marshal(ts)
	if err != nil {
		return fmt.Errorf("failed to marshal tileset: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write tileset file: %w", err)
	}
	return nil
}
