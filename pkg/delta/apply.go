package delta

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// Result reports side facts of a committed delta that the caller may need
// to surface: anomalies that were silently dropped, and terminal player
// death, which the engine flags but does not handle.
type Result struct {
	Anomalies  []string
	PlayerDied bool
}

// Worker encapsulates the logic for applying a validated delta to world
// state. It mutates a clone and returns it, so the input state is
// untouched unless the whole delta commits.
type Worker struct {
	gs     *world.State
	delta  *Delta
	logger *slog.Logger
	result *Result
}

// NewWorker creates a worker for applying state changes.
func NewWorker(gs *world.State, d *Delta, logger *slog.Logger) *Worker {
	return &Worker{
		gs:     gs,
		delta:  d,
		logger: logger,
		result: &Result{},
	}
}

// Apply folds the delta into a copy of the state and returns the updated
// state. Merge order is fixed to avoid cross-field ambiguity: inventory
// (removed before added), location, stats, room states, entity
// interactions, quests, events. An empty delta is a legal no-op turn.
func (w *Worker) Apply() (*world.State, *Result, error) {
	next, err := w.gs.Clone()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to copy state: %w", err)
	}

	if w.delta == nil || w.delta.IsEmpty() {
		return next, w.result, nil
	}

	w.applyInventory(next)
	w.applyLocation(next)
	w.applyStats(next)
	w.applyRoomStates(next)
	w.applyInteractions(next)
	w.applyQuests(next)
	w.applyEvents(next)

	next.NormalizeInventory()
	return next, w.result, nil
}

// applyInventory applies removals before additions, so a delta that both
// removes and adds the same item nets to the item being present.
func (w *Worker) applyInventory(gs *world.State) {
	for _, item := range w.delta.InventoryChanges.Removed {
		for i, inv := range gs.Player.Inventory {
			if inv == item {
				gs.Player.Inventory = append(gs.Player.Inventory[:i], gs.Player.Inventory[i+1:]...)
				break
			}
		}
	}

	for _, item := range w.delta.InventoryChanges.Added {
		// The registry is more trustworthy than the oracle's vocabulary:
		// unknown items are dropped, not a rejected turn.
		if !gs.HasRegisteredItem(item) {
			w.anomaly(fmt.Sprintf("dropped unknown item %q", item))
			continue
		}
		if !slices.Contains(gs.Player.Inventory, item) {
			gs.Player.Inventory = append(gs.Player.Inventory, item)
		}
	}

	for _, item := range w.delta.InventoryChanges.Equipped {
		if gs.HasItem(item) && !slices.Contains(gs.Player.Equipped, item) {
			gs.Player.Equipped = append(gs.Player.Equipped, item)
		}
	}
	for _, item := range w.delta.InventoryChanges.Unequipped {
		for i, eq := range gs.Player.Equipped {
			if eq == item {
				gs.Player.Equipped = append(gs.Player.Equipped[:i], gs.Player.Equipped[i+1:]...)
				break
			}
		}
	}
}

// applyLocation moves the player. The destination was checked against the
// registry at validation time, so movement intent is trusted here even
// when no declared exit matches direction_moved.
func (w *Worker) applyLocation(gs *world.State) {
	dest := w.delta.LocationChanges.NewLocationID
	if dest == "" {
		return
	}
	if !gs.HasLocation(dest) {
		w.anomaly(fmt.Sprintf("dropped move to unknown location %q", dest))
		return
	}
	if gs.Player.LocationID != dest && w.logger != nil {
		w.logger.Info("player moved", "from", gs.Player.LocationID, "to", dest,
			"direction", w.delta.LocationChanges.DirectionMoved)
	}
	gs.Player.LocationID = dest
}

func (w *Worker) applyStats(gs *world.State) {
	changes := w.delta.PlayerStatsChanges

	if changes.HealthChange != 0 {
		gs.Player.Health = clamp(gs.Player.Health+changes.HealthChange, 0, gs.Player.MaxHealth)
		if gs.Player.Health == 0 {
			w.result.PlayerDied = true
		}
	}
	if changes.ManaChange != 0 {
		gs.Player.Mana = max(0, gs.Player.Mana+changes.ManaChange)
	}
	if changes.GoldChange != 0 {
		gs.Player.Gold = max(0, gs.Player.Gold+changes.GoldChange)
	}
	if changes.XPGained > 0 {
		gs.Player.XP += changes.XPGained
	}
}

// applyRoomStates records object state changes on the player's current
// location. An object marked "missing" also leaves the room's item list.
func (w *Worker) applyRoomStates(gs *world.State) {
	updates := w.delta.LocationChanges.RoomStateUpdates
	if len(updates) == 0 {
		return
	}

	loc, ok := gs.Locations[gs.Player.LocationID]
	if !ok {
		return
	}

	for _, update := range updates {
		if update.ObjectID == "" {
			continue
		}
		if loc.ObjectStates == nil {
			loc.ObjectStates = make(map[string]string)
		}
		loc.ObjectStates[update.ObjectID] = update.State

		if update.State == "missing" {
			for i, item := range loc.Items {
				if item == update.ObjectID {
					loc.Items = append(loc.Items[:i], loc.Items[i+1:]...)
					break
				}
			}
		}
	}
	gs.Locations[gs.Player.LocationID] = loc
}

func (w *Worker) applyInteractions(gs *world.State) {
	for _, interaction := range w.delta.EntityInteractions {
		if interaction.Type != "NPC" {
			continue
		}
		npc, ok := gs.NPCs[interaction.ID]
		if !ok {
			w.anomaly(fmt.Sprintf("dropped interaction with unknown entity %q", interaction.ID))
			continue
		}

		switch interaction.Action {
		case "attacked":
			if npc.Health > 0 {
				npc.Health = max(0, npc.Health-10)
			}
			npc.Hostile = true
		case "talked_to":
			npc.Talked = true
		}

		switch interaction.Outcome {
		case "killed", "defeated", "destroyed":
			npc.Dead = true
			w.removeNPCFromLocation(gs, interaction.ID, npc.LocationID)
		}

		gs.NPCs[interaction.ID] = npc
	}
}

func (w *Worker) removeNPCFromLocation(gs *world.State, npcID, locID string) {
	loc, ok := gs.Locations[locID]
	if !ok {
		return
	}
	for i, present := range loc.NPCs {
		if present == npcID {
			loc.NPCs = append(loc.NPCs[:i], loc.NPCs[i+1:]...)
			gs.Locations[locID] = loc
			return
		}
	}
}

// applyQuests records quest progress. Quests named by the oracle that are
// not yet registered are created, so scenario authors do not have to
// predeclare every quest the model may invent mid-story.
func (w *Worker) applyQuests(gs *world.State) {
	for _, update := range w.delta.QuestUpdates {
		if update.QuestID == "" {
			continue
		}
		if gs.Quests == nil {
			gs.Quests = make(map[string]world.Quest)
		}

		quest, ok := gs.Quests[update.QuestID]
		if !ok {
			quest = world.Quest{Status: world.QuestNotStarted}
		}

		switch update.Status {
		case "started":
			if quest.Status == world.QuestNotStarted {
				quest.Status = world.QuestActive
			}
		case "completed":
			quest.Status = world.QuestCompleted
		case "failed":
			quest.Status = world.QuestFailed
		}

		if update.ObjectiveID != "" && !slices.Contains(quest.CompletedObjectives, update.ObjectiveID) {
			quest.CompletedObjectives = append(quest.CompletedObjectives, update.ObjectiveID)
		}

		gs.Quests[update.QuestID] = quest
	}
}

func (w *Worker) applyEvents(gs *world.State) {
	for _, event := range w.delta.GameEvents {
		gs.AppendEvent(event)
	}
	if w.delta.NarrativeHint != "" {
		gs.NarrativeHint = w.delta.NarrativeHint
	}
}

func (w *Worker) anomaly(msg string) {
	w.result.Anomalies = append(w.result.Anomalies, msg)
	if w.logger != nil {
		w.logger.Warn("delta anomaly", "detail", msg)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
