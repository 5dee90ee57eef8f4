package prompts

import (
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/adventure-engine/pkg/delta"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// SystemPrompt is the game-master instruction given to the oracle. The
// %s slot receives the delta JSON schema, generated from the Go types so
// the prompt and the validator can never drift apart.
const SystemPrompt = `You are the Game Master for a text-based adventure RPG. Your role is to interpret player actions and translate them into structured JSON data that updates the game's state.

Analyze the player's action: their intent, the objects they interact with, their movement, combat actions, or dialogue.

Your response MUST be a single valid JSON object matching this schema. Do not include any conversational text, explanations, or narrative outside the object.

%s

Rules:
- Omit any field that is not relevant to the action, or use an empty array/object.
- Use item and location IDs exactly as they appear in the game state.
- new_location_id must be set only when the player actually moves.
- narrative_hint is a brief, objective note about what changed, not a story.
- health_change and gold_change may be negative; xp_gained may not.`

// BuildParseRequest renders the system instruction and the user message
// for one turn: the reduced state snapshot followed by the raw utterance.
func BuildParseRequest(gs *world.State, utterance string) (system string, user string, err error) {
	schema, err := delta.SchemaJSON()
	if err != nil {
		return "", "", err
	}

	stateJSON, err := json.MarshalIndent(ToPromptState(gs), "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal prompt state: %w", err)
	}

	system = fmt.Sprintf(SystemPrompt, string(schema))
	user = fmt.Sprintf("Current game state:\n```json\n%s\n```\n\nPlayer action: %q\n\nReturn ONLY valid JSON with no additional text.",
		string(stateJSON), utterance)
	return system, user, nil
}
