package delta

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Delta is the structured update the oracle produces for one player turn.
// It is a compact representation of intended changes; the application
// engine decides what is actually committed.
type Delta struct {
	PlayerActions      []string            `json:"player_actions,omitempty" jsonschema:"description=Short tags for the distinct actions the player performed"`
	InventoryChanges   InventoryChanges    `json:"inventory_changes,omitempty"`
	LocationChanges    LocationChanges     `json:"location_changes,omitempty"`
	PlayerStatsChanges PlayerStatsChanges  `json:"player_stats_changes,omitempty"`
	EntityInteractions []EntityInteraction `json:"entity_interactions,omitempty"`
	QuestUpdates       []QuestUpdate       `json:"quest_updates,omitempty"`
	GameEvents         []string            `json:"game_events,omitempty" jsonschema:"description=Special events triggered this turn"`
	NarrativeHint      string              `json:"narrative_hint,omitempty" jsonschema:"description=Brief objective hint about what changed,used only for display"`
}

// InventoryChanges lists items entering and leaving the player inventory.
type InventoryChanges struct {
	Added      []string `json:"added,omitempty" jsonschema:"description=Item IDs added to the player inventory"`
	Removed    []string `json:"removed,omitempty" jsonschema:"description=Item IDs removed from the player inventory"`
	Equipped   []string `json:"equipped,omitempty"`
	Unequipped []string `json:"unequipped,omitempty"`
}

// LocationChanges describes player movement and room changes.
// DirectionMoved is advisory narrative only; NewLocationID is authoritative.
type LocationChanges struct {
	NewLocationID    string            `json:"new_location_id,omitempty" jsonschema:"description=ID of the destination location if the player moved"`
	DirectionMoved   string            `json:"direction_moved,omitempty" jsonschema:"description=Compass direction of movement if relevant"`
	RoomStateUpdates []RoomStateUpdate `json:"room_state_updates,omitempty"`
}

// RoomStateUpdate records a change to an object in the current room.
type RoomStateUpdate struct {
	ObjectID string `json:"object_id"`
	State    string `json:"state" jsonschema:"description=New object state such as opened or broken or missing"`
}

// PlayerStatsChanges holds signed stat adjustments for the turn.
type PlayerStatsChanges struct {
	HealthChange int `json:"health_change,omitempty" jsonschema:"description=Signed change to player health"`
	ManaChange   int `json:"mana_change,omitempty" jsonschema:"description=Signed change to player mana"`
	GoldChange   int `json:"gold_change,omitempty" jsonschema:"description=Signed change to player gold"`
	XPGained     int `json:"xp_gained,omitempty" jsonschema:"description=Experience points gained"`
}

// EntityInteraction describes what the player did to an NPC or object.
type EntityInteraction struct {
	ID      string `json:"id"`
	Type    string `json:"type" jsonschema:"description=Entity type such as NPC or monster or door"`
	Action  string `json:"action" jsonschema:"description=What the player did such as attacked or talked_to"`
	Outcome string `json:"outcome,omitempty"`
}

// QuestUpdate advances a quest's status or objective.
type QuestUpdate struct {
	QuestID     string `json:"quest_id"`
	Status      string `json:"status" jsonschema:"description=New status: started or completed or failed or updated_objective"`
	ObjectiveID string `json:"objective_id,omitempty"`
}

// IsEmpty reports whether applying the delta would be a no-op turn.
func (d *Delta) IsEmpty() bool {
	return d == nil || (len(d.PlayerActions) == 0 &&
		len(d.InventoryChanges.Added) == 0 &&
		len(d.InventoryChanges.Removed) == 0 &&
		len(d.InventoryChanges.Equipped) == 0 &&
		len(d.InventoryChanges.Unequipped) == 0 &&
		d.LocationChanges.NewLocationID == "" &&
		len(d.LocationChanges.RoomStateUpdates) == 0 &&
		d.PlayerStatsChanges == PlayerStatsChanges{} &&
		len(d.EntityInteractions) == 0 &&
		len(d.QuestUpdates) == 0 &&
		len(d.GameEvents) == 0 &&
		d.NarrativeHint == "")
}

// SchemaJSON renders the delta contract as a JSON Schema document. The
// schema is embedded in the oracle prompt so the model sees the exact
// shape it must produce, and is also used by cmd/validate.
func SchemaJSON() ([]byte, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(&Delta{})
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal delta schema: %w", err)
	}
	return data, nil
}
