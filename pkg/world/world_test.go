package world

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func testState() *State {
	return &State{
		ID: uuid.New(),
		Player: Player{
			LocationID: "cave",
			Inventory:  []string{"torch"},
			Health:     100,
			MaxHealth:  100,
			Gold:       10,
			XP:         0,
		},
		Locations: map[string]Location{
			"cave": {
				Name:        "Dark Cave",
				Description: "A damp cave.",
				Items:       []string{"rusty_dagger"},
				Exits:       map[string]string{"north": "forest_path"},
			},
			"forest_path": {
				Name:  "Forest Path",
				NPCs:  []string{"old_hermit"},
				Exits: map[string]string{"south": "cave"},
			},
		},
		NPCs: map[string]NPC{
			"old_hermit": {Name: "Old Hermit", LocationID: "forest_path", Health: 40},
		},
		Items: map[string]Item{
			"torch":        {Name: "Torch"},
			"rusty_dagger": {Name: "Rusty Dagger"},
		},
		Quests: map[string]Quest{
			"find_the_amulet": {Status: QuestNotStarted},
		},
	}
}

func TestState_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*State)
		wantErr string
	}{
		{
			name:   "valid state",
			mutate: func(s *State) {},
		},
		{
			name:    "player in unknown location",
			mutate:  func(s *State) { s.Player.LocationID = "nowhere" },
			wantErr: "player location",
		},
		{
			name:    "inventory item not registered",
			mutate:  func(s *State) { s.Player.Inventory = append(s.Player.Inventory, "ghost_item") },
			wantErr: "inventory item",
		},
		{
			name: "exit to unknown location",
			mutate: func(s *State) {
				loc := s.Locations["cave"]
				loc.Exits = map[string]string{"down": "abyss"}
				s.Locations["cave"] = loc
			},
			wantErr: "unknown location",
		},
		{
			name: "location lists unknown NPC",
			mutate: func(s *State) {
				loc := s.Locations["cave"]
				loc.NPCs = []string{"phantom"}
				s.Locations["cave"] = loc
			},
			wantErr: "unknown NPC",
		},
		{
			name: "NPC at unknown location",
			mutate: func(s *State) {
				npc := s.NPCs["old_hermit"]
				npc.LocationID = "void"
				s.NPCs["old_hermit"] = npc
			},
			wantErr: "unknown location",
		},
		{
			name:    "health above max",
			mutate:  func(s *State) { s.Player.Health = 150 },
			wantErr: "health",
		},
		{
			name:    "negative gold",
			mutate:  func(s *State) { s.Player.Gold = -5 },
			wantErr: "gold",
		},
		{
			name:    "zero max health",
			mutate:  func(s *State) { s.Player.MaxHealth = 0; s.Player.Health = 0 },
			wantErr: "max_health",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testState()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected valid state, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestState_Clone(t *testing.T) {
	s := testState()
	copied, err := s.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}

	copied.Player.Inventory = append(copied.Player.Inventory, "rusty_dagger")
	copied.Player.Health = 1
	loc := copied.Locations["cave"]
	loc.Items = nil
	copied.Locations["cave"] = loc

	if len(s.Player.Inventory) != 1 {
		t.Errorf("mutating clone changed original inventory: %v", s.Player.Inventory)
	}
	if s.Player.Health != 100 {
		t.Errorf("mutating clone changed original health: %d", s.Player.Health)
	}
	if len(s.Locations["cave"].Items) != 1 {
		t.Errorf("mutating clone changed original location items")
	}
}

func TestState_NormalizeInventory(t *testing.T) {
	s := testState()
	s.Player.Inventory = []string{"torch", "rusty_dagger", "torch", "torch"}
	s.NormalizeInventory()

	want := []string{"torch", "rusty_dagger"}
	if len(s.Player.Inventory) != len(want) {
		t.Fatalf("expected %v, got %v", want, s.Player.Inventory)
	}
	for i := range want {
		if s.Player.Inventory[i] != want[i] {
			t.Errorf("expected %v, got %v", want, s.Player.Inventory)
		}
	}
}

func TestState_AppendEvent_Bounded(t *testing.T) {
	s := testState()
	for i := 0; i < EventLogLimit+25; i++ {
		s.AppendEvent(fmt.Sprintf("event_%d", i))
	}
	if len(s.EventHistory) != EventLogLimit {
		t.Fatalf("expected history capped at %d, got %d", EventLogLimit, len(s.EventHistory))
	}
	if s.EventHistory[0] != "event_25" {
		t.Errorf("expected oldest retained event to be event_25, got %s", s.EventHistory[0])
	}
}

func TestState_Describe(t *testing.T) {
	s := testState()

	loc := s.DescribeLocation()
	if !strings.Contains(loc, "Dark Cave") {
		t.Errorf("location description missing name: %s", loc)
	}
	if !strings.Contains(loc, "rusty_dagger") {
		t.Errorf("location description missing items: %s", loc)
	}
	if !strings.Contains(loc, "north to Forest Path") {
		t.Errorf("location description missing exits: %s", loc)
	}

	inv := s.DescribeInventory()
	if !strings.Contains(inv, "torch") {
		t.Errorf("inventory description missing item: %s", inv)
	}
	s.Player.Inventory = nil
	if got := s.DescribeInventory(); got != "Your inventory is empty." {
		t.Errorf("unexpected empty inventory message: %s", got)
	}

	stats := s.DescribeStats()
	if !strings.Contains(stats, "100/100") || !strings.Contains(stats, "Gold: 10") {
		t.Errorf("unexpected stats: %s", stats)
	}

	s.Player.LocationID = "nowhere"
	if got := s.DescribeLocation(); got != "You are in an unknown location." {
		t.Errorf("unexpected unknown-location message: %s", got)
	}
}

func TestState_HasItem(t *testing.T) {
	s := testState()
	if !s.HasItem("torch") {
		t.Error("expected player to carry torch")
	}
	if s.HasItem("rusty_dagger") {
		t.Error("did not expect player to carry rusty_dagger")
	}
}
