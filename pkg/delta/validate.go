package delta

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// MalformedError indicates the oracle returned text that cannot be read
// as a JSON object at all, e.g. prose instead of structured output.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return "malformed oracle output: " + e.Reason
}

// SchemaError indicates structured output that violates the delta contract:
// a present field with the wrong type, or a new_location_id that does not
// exist in the location registry.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return "delta schema violation: " + strings.Join(e.Violations, "; ")
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindStringArray
	kindObject
	kindObjectArray
)

func (k fieldKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindInt:
		return "integer"
	case kindStringArray:
		return "array of strings"
	case kindObject:
		return "object"
	case kindObjectArray:
		return "array of objects"
	}
	return "unknown"
}

// The shape contract, declared once so the validator can be tested against
// a table of malformed fixtures. Every field is individually optional;
// a present field must match its declared kind.
var (
	deltaFields = map[string]fieldKind{
		"player_actions":       kindStringArray,
		"inventory_changes":    kindObject,
		"location_changes":     kindObject,
		"player_stats_changes": kindObject,
		"entity_interactions":  kindObjectArray,
		"quest_updates":        kindObjectArray,
		"game_events":          kindStringArray,
		"narrative_hint":       kindString,
	}

	inventoryFields = map[string]fieldKind{
		"added":      kindStringArray,
		"removed":    kindStringArray,
		"equipped":   kindStringArray,
		"unequipped": kindStringArray,
	}

	locationFields = map[string]fieldKind{
		"new_location_id":    kindString,
		"direction_moved":    kindString,
		"room_state_updates": kindObjectArray,
	}

	statsFields = map[string]fieldKind{
		"health_change": kindInt,
		"mana_change":   kindInt,
		"gold_change":   kindInt,
		"xp_gained":     kindInt,
	}
)

// Validate checks raw oracle output against the delta shape contract and
// returns the typed delta. Unknown item IDs in inventory_changes.added are
// not a validation concern (the application engine drops them), but a
// present new_location_id must resolve in the world's location registry.
func Validate(raw []byte, w *world.State) (*Delta, error) {
	obj, err := extractObject(raw)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(obj, &fields); err != nil {
		return nil, &MalformedError{Reason: err.Error()}
	}

	var violations []string
	checkFields(fields, deltaFields, "", &violations)
	checkNested(fields, "inventory_changes", inventoryFields, &violations)
	checkNested(fields, "location_changes", locationFields, &violations)
	checkNested(fields, "player_stats_changes", statsFields, &violations)
	if len(violations) > 0 {
		return nil, &SchemaError{Violations: violations}
	}

	var d Delta
	if err := json.Unmarshal(obj, &d); err != nil {
		return nil, &SchemaError{Violations: []string{err.Error()}}
	}

	// Location legality is cheap to check against the registry, so it is a
	// shape concern: a delta naming a nonexistent destination is rejected
	// before the engine sees it.
	if dest := d.LocationChanges.NewLocationID; dest != "" && !w.HasLocation(dest) {
		return nil, &SchemaError{
			Violations: []string{fmt.Sprintf("new_location_id %q not in location registry", dest)},
		}
	}

	return &d, nil
}

func checkFields(fields map[string]json.RawMessage, contract map[string]fieldKind, prefix string, violations *[]string) {
	for name, kind := range contract {
		raw, present := fields[name]
		if !present || isNull(raw) {
			continue
		}
		if !matchesKind(raw, kind) {
			*violations = append(*violations, fmt.Sprintf("field %s%s: expected %s", prefix, name, kind))
		}
	}
}

func checkNested(fields map[string]json.RawMessage, name string, contract map[string]fieldKind, violations *[]string) {
	raw, present := fields[name]
	if !present || isNull(raw) || !matchesKind(raw, kindObject) {
		return
	}
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err != nil {
		return
	}
	checkFields(nested, contract, name+".", violations)
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func matchesKind(raw json.RawMessage, kind fieldKind) bool {
	switch kind {
	case kindString:
		var v string
		return json.Unmarshal(raw, &v) == nil
	case kindInt:
		var v int
		return json.Unmarshal(raw, &v) == nil
	case kindStringArray:
		var v []string
		return json.Unmarshal(raw, &v) == nil
	case kindObject:
		var v map[string]json.RawMessage
		return json.Unmarshal(raw, &v) == nil
	case kindObjectArray:
		var v []map[string]json.RawMessage
		return json.Unmarshal(raw, &v) == nil
	}
	return false
}

// extractObject finds the first complete JSON object in raw text. Oracles
// sometimes wrap output in markdown fences or surround it with prose, so
// anything outside the outermost braces is discarded.
func extractObject(raw []byte) (json.RawMessage, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, &MalformedError{Reason: "empty response"}
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, &MalformedError{Reason: "no JSON object in response"}
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				obj := json.RawMessage(text[start : i+1])
				if !json.Valid(obj) {
					return nil, &MalformedError{Reason: "invalid JSON object in response"}
				}
				return obj, nil
			}
		}
	}

	return nil, &MalformedError{Reason: "unterminated JSON object in response"}
}
