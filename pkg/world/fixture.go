package world

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// LoadFixture reads an initial world state from a JSON or YAML document
// and validates it. The fixture is authored by hand and seeds a fresh game;
// it is never written back.
func LoadFixture(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}

	var s State
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		// Round-trip through JSON so the json struct tags apply.
		var raw map[string]interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
		}
		jsonData, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to convert fixture %s: %w", path, err)
		}
		if err := json.Unmarshal(jsonData, &s); err != nil {
			return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
		}
	}

	applyFixtureDefaults(&s)

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return &s, nil
}

func applyFixtureDefaults(s *State) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Player.MaxHealth == 0 {
		s.Player.MaxHealth = 100
	}
	if s.Player.Health == 0 {
		s.Player.Health = s.Player.MaxHealth
	}
	if s.Player.Inventory == nil {
		s.Player.Inventory = make([]string, 0)
	}
}
