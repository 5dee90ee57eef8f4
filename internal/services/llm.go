package services

import (
	"context"
)

// LLMService defines the interface for the action-parsing oracle.
// Implementations return the raw candidate text; callers own validation,
// because the oracle can go silent, return prose, or hallucinate values.
type LLMService interface {
	// InitModel prepares the model on startup.
	InitModel(ctx context.Context, modelName string) error

	// ParseAction sends the game-master instruction and the user message
	// (state snapshot + utterance) and returns the raw response text.
	ParseAction(ctx context.Context, system, user string) ([]byte, error)
}

// TransportError wraps failures to reach the oracle at all, as opposed to
// the oracle answering with unusable content. The turn engine reports
// these to the player without burning retry budget.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "oracle transport failure: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
