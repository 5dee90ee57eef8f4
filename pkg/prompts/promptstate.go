package prompts

import (
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// PromptState is a reduced world state for oracle prompts. Sending the
// full registry every turn wastes context, so only the parts the model
// needs to interpret the current action are included.
type PromptState struct {
	Location      string                    `json:"player_location"`
	Inventory     []string                  `json:"player_inventory"`
	Health        int                       `json:"player_health"`
	MaxHealth     int                       `json:"player_max_health"`
	Gold          int                       `json:"player_gold"`
	XP            int                       `json:"player_xp"`
	Locations     map[string]world.Location `json:"locations,omitempty"`
	NPCs          map[string]world.NPC      `json:"npcs,omitempty"`
	ActiveQuests  map[string]world.Quest    `json:"active_quests,omitempty"`
	RecentEvents  []string                  `json:"recent_events,omitempty"`
	NarrativeHint string                    `json:"last_narrative_hint,omitempty"`
}

const recentEventLimit = 5

// ToPromptState builds the oracle-facing snapshot: the current location,
// locations adjacent to it, NPCs present there, and active quests.
func ToPromptState(gs *world.State) *PromptState {
	ps := &PromptState{
		Location:      gs.Player.LocationID,
		Inventory:     gs.Player.Inventory,
		Health:        gs.Player.Health,
		MaxHealth:     gs.Player.MaxHealth,
		Gold:          gs.Player.Gold,
		XP:            gs.Player.XP,
		Locations:     filterLocations(gs),
		NPCs:          filterNPCs(gs),
		ActiveQuests:  filterQuests(gs),
		NarrativeHint: gs.NarrativeHint,
	}
	if n := len(gs.EventHistory); n > 0 {
		start := max(0, n-recentEventLimit)
		ps.RecentEvents = gs.EventHistory[start:]
	}
	return ps
}

// filterLocations returns the player's current location plus locations
// reachable through its exits.
func filterLocations(gs *world.State) map[string]world.Location {
	filtered := make(map[string]world.Location)

	current, ok := gs.Locations[gs.Player.LocationID]
	if !ok {
		return filtered
	}
	filtered[gs.Player.LocationID] = current

	for _, dest := range current.Exits {
		if adjacent, exists := gs.Locations[dest]; exists {
			filtered[dest] = adjacent
		}
	}
	return filtered
}

// filterNPCs returns living NPCs in the player's current location.
func filterNPCs(gs *world.State) map[string]world.NPC {
	filtered := make(map[string]world.NPC)
	for id, npc := range gs.NPCs {
		if npc.Dead {
			continue
		}
		if npc.LocationID == gs.Player.LocationID {
			filtered[id] = npc
		}
	}
	return filtered
}

func filterQuests(gs *world.State) map[string]world.Quest {
	filtered := make(map[string]world.Quest)
	for id, quest := range gs.Quests {
		if quest.Status == world.QuestActive {
			filtered[id] = quest
		}
	}
	return filtered
}
