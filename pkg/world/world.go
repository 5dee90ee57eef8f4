package world

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EventLogLimit caps the narrative event history carried in the state.
const EventLogLimit = 100

// QuestStatus tracks the lifecycle of a quest.
type QuestStatus string

const (
	QuestNotStarted QuestStatus = "not_started"
	QuestActive     QuestStatus = "in_progress"
	QuestCompleted  QuestStatus = "completed"
	QuestFailed     QuestStatus = "failed"
)

// Player is the user-controlled character.
type Player struct {
	LocationID string   `json:"location_id"`
	Inventory  []string `json:"inventory"`
	Health     int      `json:"health"`
	MaxHealth  int      `json:"max_health"`
	Mana       int      `json:"mana,omitempty"`
	Gold       int      `json:"gold"`
	XP         int      `json:"xp"`
	Equipped   []string `json:"equipped,omitempty"`
}

// Location is a place in the game world with exits to other locations.
type Location struct {
	Name         string            `json:"name,omitempty"`
	Description  string            `json:"description,omitempty"`
	Items        []string          `json:"items_present,omitempty"`
	NPCs         []string          `json:"npcs_present,omitempty"`
	Exits        map[string]string `json:"exits,omitempty"`         // direction -> location ID
	ObjectStates map[string]string `json:"object_states,omitempty"` // object ID -> state ("opened", "broken", ...)
}

// NPC represents a non-player character in the game.
type NPC struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Disposition string   `json:"disposition,omitempty"` // e.g. "hostile", "neutral", "friendly"
	LocationID  string   `json:"location_id,omitempty"`
	Items       []string `json:"items,omitempty"`
	Health      int      `json:"health,omitempty"`
	Hostile     bool     `json:"hostile,omitempty"`
	Talked      bool     `json:"talked,omitempty"`
	Dead        bool     `json:"dead,omitempty"`
}

// Item is static descriptive metadata. Deltas reference items by ID but
// never mutate the registry itself.
type Item struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Quest tracks progress toward a scenario goal.
type Quest struct {
	Name                string      `json:"name,omitempty"`
	Status              QuestStatus `json:"status"`
	CompletedObjectives []string    `json:"completed_objectives,omitempty"`
}

// State is the authoritative world state for one game session.
// It is mutated at most once per accepted player turn and persisted
// after every successful mutation.
type State struct {
	ID            uuid.UUID           `json:"id"`
	Player        Player              `json:"player"`
	Locations     map[string]Location `json:"locations"`
	NPCs          map[string]NPC      `json:"npcs,omitempty"`
	Items         map[string]Item     `json:"items,omitempty"`
	Quests        map[string]Quest    `json:"quests,omitempty"`
	EventHistory  []string            `json:"event_history,omitempty"`
	NarrativeHint string              `json:"narrative_hint,omitempty"` // last hint, display only
	UpdatedAt     time.Time           `json:"updated_at,omitempty"`
}

// Validate checks referential integrity: every ID referenced anywhere must
// resolve to a real entry in its owning registry, and player stats must be
// within bounds.
func (s *State) Validate() error {
	var errs []string

	if s.Player.MaxHealth <= 0 {
		errs = append(errs, "player max_health must be positive")
	}
	if s.Player.Health < 0 || s.Player.Health > s.Player.MaxHealth {
		errs = append(errs, fmt.Sprintf("player health %d outside [0, %d]", s.Player.Health, s.Player.MaxHealth))
	}
	if s.Player.Gold < 0 {
		errs = append(errs, "player gold must not be negative")
	}
	if s.Player.XP < 0 {
		errs = append(errs, "player xp must not be negative")
	}

	if _, ok := s.Locations[s.Player.LocationID]; !ok {
		errs = append(errs, fmt.Sprintf("player location %q not in location registry", s.Player.LocationID))
	}
	for _, item := range s.Player.Inventory {
		if _, ok := s.Items[item]; !ok {
			errs = append(errs, fmt.Sprintf("inventory item %q not in item registry", item))
		}
	}

	for locID, loc := range s.Locations {
		for dir, dest := range loc.Exits {
			if _, ok := s.Locations[dest]; !ok {
				errs = append(errs, fmt.Sprintf("location %q exit %q leads to unknown location %q", locID, dir, dest))
			}
		}
		for _, item := range loc.Items {
			if _, ok := s.Items[item]; !ok {
				errs = append(errs, fmt.Sprintf("location %q contains unknown item %q", locID, item))
			}
		}
		for _, npcID := range loc.NPCs {
			if _, ok := s.NPCs[npcID]; !ok {
				errs = append(errs, fmt.Sprintf("location %q lists unknown NPC %q", locID, npcID))
			}
		}
	}

	for npcID, npc := range s.NPCs {
		if npc.LocationID != "" {
			if _, ok := s.Locations[npc.LocationID]; !ok {
				errs = append(errs, fmt.Sprintf("NPC %q located at unknown location %q", npcID, npc.LocationID))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid world state: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Clone returns a deep copy of the state via a JSON round-trip.
// The delta engine mutates a clone so a rejected turn never leaves
// a partially applied state behind.
func (s *State) Clone() (*State, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state for copy: %w", err)
	}
	var out State
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state copy: %w", err)
	}
	return &out, nil
}

// CurrentLocation returns the player's location entry, if it exists.
func (s *State) CurrentLocation() (Location, bool) {
	loc, ok := s.Locations[s.Player.LocationID]
	return loc, ok
}

// HasItem reports whether the player carries the item.
func (s *State) HasItem(item string) bool {
	for _, inv := range s.Player.Inventory {
		if inv == item {
			return true
		}
	}
	return false
}

// HasLocation reports whether the location registry contains the ID.
func (s *State) HasLocation(id string) bool {
	_, ok := s.Locations[id]
	return ok
}

// HasRegisteredItem reports whether the item registry contains the ID.
func (s *State) HasRegisteredItem(id string) bool {
	_, ok := s.Items[id]
	return ok
}

// NormalizeInventory removes duplicate inventory entries, keeping
// first-seen order. The inventory is a set at every observable boundary.
func (s *State) NormalizeInventory() {
	if len(s.Player.Inventory) < 2 {
		return
	}
	seen := make(map[string]struct{}, len(s.Player.Inventory))
	out := s.Player.Inventory[:0]
	for _, item := range s.Player.Inventory {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	s.Player.Inventory = out
}

// AppendEvent records a narrative event, trimming history to EventLogLimit.
func (s *State) AppendEvent(event string) {
	s.EventHistory = append(s.EventHistory, event)
	if len(s.EventHistory) > EventLogLimit {
		s.EventHistory = s.EventHistory[len(s.EventHistory)-EventLogLimit:]
	}
}

// DescribeLocation renders the current location for display.
func (s *State) DescribeLocation() string {
	loc, ok := s.CurrentLocation()
	if !ok {
		return "You are in an unknown location."
	}

	var b strings.Builder
	name := loc.Name
	if name == "" {
		name = titleFromID(s.Player.LocationID)
	}
	b.WriteString(name)
	if loc.Description != "" {
		b.WriteString("\n")
		b.WriteString(loc.Description)
	}
	if len(loc.Items) > 0 {
		b.WriteString("\nItems here: " + strings.Join(loc.Items, ", "))
	}
	if len(loc.NPCs) > 0 {
		b.WriteString("\nAlso here: " + strings.Join(loc.NPCs, ", "))
	}
	if len(loc.Exits) > 0 {
		dirs := make([]string, 0, len(loc.Exits))
		for dir, dest := range loc.Exits {
			dirs = append(dirs, dir+" to "+titleFromID(dest))
		}
		sort.Strings(dirs)
		b.WriteString("\nExits: " + strings.Join(dirs, ", "))
	}
	return b.String()
}

// DescribeInventory renders the player's inventory for display.
func (s *State) DescribeInventory() string {
	if len(s.Player.Inventory) == 0 {
		return "Your inventory is empty."
	}
	return "You have: " + strings.Join(s.Player.Inventory, ", ")
}

// DescribeStats renders the player's stats for display.
func (s *State) DescribeStats() string {
	return fmt.Sprintf("Health: %d/%d | Gold: %d | XP: %d",
		s.Player.Health, s.Player.MaxHealth, s.Player.Gold, s.Player.XP)
}

func titleFromID(id string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(id, "_", " "))
}
