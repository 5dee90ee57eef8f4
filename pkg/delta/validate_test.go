package delta

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

func testWorld() *world.State {
	return &world.State{
		ID: uuid.New(),
		Player: world.Player{
			LocationID: "cave",
			Inventory:  []string{},
			Health:     100,
			MaxHealth:  100,
		},
		Locations: map[string]world.Location{
			"cave":        {Exits: map[string]string{"north": "forest_path"}},
			"forest_path": {Exits: map[string]string{"south": "cave"}},
		},
		Items: map[string]world.Item{
			"rusty_dagger": {Name: "Rusty Dagger"},
			"torch":        {Name: "Torch"},
		},
		NPCs: map[string]world.NPC{
			"old_hermit": {Name: "Old Hermit", LocationID: "forest_path", Health: 40},
		},
	}
}

func TestValidate_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty response", ""},
		{"prose only", "I'm sorry, I cannot interpret that action."},
		{"array not object", `["move", "north"]`},
		{"unterminated object", `{"player_actions": ["move"`},
		{"bare number", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate([]byte(tt.raw), testWorld())
			var malformed *MalformedError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedError, got %T: %v", err, err)
			}
		})
	}
}

func TestValidate_SchemaViolations(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		violation string
	}{
		{
			name:      "player_actions not an array",
			raw:       `{"player_actions": "move"}`,
			violation: "player_actions",
		},
		{
			name:      "inventory_changes wrong type",
			raw:       `{"inventory_changes": ["rusty_dagger"]}`,
			violation: "inventory_changes",
		},
		{
			name:      "added holds numbers",
			raw:       `{"inventory_changes": {"added": [1, 2]}}`,
			violation: "inventory_changes.added",
		},
		{
			name:      "health_change is a float",
			raw:       `{"player_stats_changes": {"health_change": 2.5}}`,
			violation: "player_stats_changes.health_change",
		},
		{
			name:      "gold_change is a string",
			raw:       `{"player_stats_changes": {"gold_change": "10"}}`,
			violation: "player_stats_changes.gold_change",
		},
		{
			name:      "new_location_id is a number",
			raw:       `{"location_changes": {"new_location_id": 7}}`,
			violation: "location_changes.new_location_id",
		},
		{
			name:      "unknown destination",
			raw:       `{"location_changes": {"new_location_id": "nowhere"}}`,
			violation: `"nowhere" not in location registry`,
		},
		{
			name:      "narrative_hint wrong type",
			raw:       `{"narrative_hint": {"text": "hi"}}`,
			violation: "narrative_hint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate([]byte(tt.raw), testWorld())
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaError, got %T: %v", err, err)
			}
			if !strings.Contains(schemaErr.Error(), tt.violation) {
				t.Errorf("expected violation mentioning %q, got %v", tt.violation, schemaErr)
			}
		})
	}
}

func TestValidate_Accepts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty object is a no-op turn", `{}`},
		{"null fields treated as absent", `{"narrative_hint": null, "location_changes": null}`},
		{
			"unknown item ids are an application concern",
			`{"inventory_changes": {"added": ["nonexistent_item_42"]}}`,
		},
		{
			"unknown top-level keys ignored",
			`{"player_actions": ["move"], "mood": "ominous"}`,
		},
		{
			"markdown fenced output",
			"```json\n{\"player_actions\": [\"look\"]}\n```",
		},
		{
			"prose around the object",
			`Here is the update: {"player_actions": ["look"]} Hope that helps!`,
		},
		{
			"full delta",
			`{
				"player_actions": ["move", "take_item"],
				"inventory_changes": {"added": ["rusty_dagger"], "removed": []},
				"location_changes": {"new_location_id": "forest_path", "direction_moved": "north"},
				"player_stats_changes": {"health_change": -5, "gold_change": 0, "xp_gained": 5},
				"entity_interactions": [{"id": "old_hermit", "type": "NPC", "action": "talked_to"}],
				"quest_updates": [{"quest_id": "find_the_amulet", "status": "started"}],
				"game_events": ["secret_revealed"],
				"narrative_hint": "You step onto the forest path."
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Validate([]byte(tt.raw), testWorld())
			if err != nil {
				t.Fatalf("expected valid delta, got %v", err)
			}
			if d == nil {
				t.Fatal("expected delta, got nil")
			}
		})
	}
}

func TestValidate_FullDeltaDecoded(t *testing.T) {
	raw := `{
		"inventory_changes": {"added": ["rusty_dagger"]},
		"location_changes": {"new_location_id": "forest_path", "direction_moved": "north"},
		"player_stats_changes": {"xp_gained": 5},
		"narrative_hint": "You move north."
	}`

	d, err := Validate([]byte(raw), testWorld())
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if len(d.InventoryChanges.Added) != 1 || d.InventoryChanges.Added[0] != "rusty_dagger" {
		t.Errorf("unexpected added items: %v", d.InventoryChanges.Added)
	}
	if d.LocationChanges.NewLocationID != "forest_path" {
		t.Errorf("unexpected destination: %s", d.LocationChanges.NewLocationID)
	}
	if d.PlayerStatsChanges.XPGained != 5 {
		t.Errorf("unexpected xp: %d", d.PlayerStatsChanges.XPGained)
	}
	if d.NarrativeHint != "You move north." {
		t.Errorf("unexpected hint: %s", d.NarrativeHint)
	}
	if d.IsEmpty() {
		t.Error("delta should not be empty")
	}
}

func TestDelta_IsEmpty(t *testing.T) {
	var d Delta
	if !d.IsEmpty() {
		t.Error("zero delta should be empty")
	}
	d.GameEvents = []string{"trap_sprung"}
	if d.IsEmpty() {
		t.Error("delta with events should not be empty")
	}
}

func TestSchemaJSON(t *testing.T) {
	data, err := SchemaJSON()
	if err != nil {
		t.Fatalf("SchemaJSON failed: %v", err)
	}
	schema := string(data)
	for _, field := range []string{"player_actions", "inventory_changes", "location_changes", "player_stats_changes", "quest_updates", "narrative_hint"} {
		if !strings.Contains(schema, field) {
			t.Errorf("schema missing field %q", field)
		}
	}
}
