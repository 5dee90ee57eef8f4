package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/adventure-engine/internal/services"
	"github.com/jwebster45206/adventure-engine/internal/storage"
	"github.com/jwebster45206/adventure-engine/pkg/delta"
	"github.com/jwebster45206/adventure-engine/pkg/prompts"
	"github.com/jwebster45206/adventure-engine/pkg/world"
)

// Oracle call budget per attempt.
const oracleTimeout = 60 * time.Second

// OracleDownError reports that the oracle could not be reached. The turn
// aborts with state unchanged; the player may retry the same utterance.
type OracleDownError struct {
	Err error
}

func (e *OracleDownError) Error() string {
	return "the storyteller is unreachable: " + e.Err.Error()
}

func (e *OracleDownError) Unwrap() error {
	return e.Err
}

// ParseFailedError reports that the oracle kept returning malformed or
// schema-invalid output across the whole retry budget. State is unchanged;
// the player should rephrase.
type ParseFailedError struct {
	Attempts int
	Err      error
}

func (e *ParseFailedError) Error() string {
	return fmt.Sprintf("could not interpret the action after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ParseFailedError) Unwrap() error {
	return e.Err
}

// TurnResult is what one accepted turn produced. State is the updated
// world state; the caller commits it to the session. ProcessTurn never
// writes the session itself, so a caller running turns off the main
// goroutine can keep reading the session safely while a turn is in
// flight.
type TurnResult struct {
	State         *world.State
	Delta         *delta.Delta
	NarrativeHint string
	Anomalies     []string
	PlayerDied    bool

	// SaveFailed warns that the committed turn could not be persisted.
	// The in-memory state remains canonical for the session, but progress
	// may not survive a restart.
	SaveFailed bool
}

// TurnProcessor runs the turn state machine: oracle call, validation,
// bounded retry, delta application, persistence. The world state is
// mutated at most once per successful turn and never from an unvalidated
// delta.
type TurnProcessor struct {
	store      storage.Store
	llm        services.LLMService
	logger     *slog.Logger
	maxRetries int
}

// NewTurnProcessor creates a turn processor. maxRetries bounds automatic
// oracle re-invocations after malformed or schema-invalid output.
func NewTurnProcessor(store storage.Store, llm services.LLMService, maxRetries int, logger *slog.Logger) *TurnProcessor {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &TurnProcessor{
		store:      store,
		llm:        llm,
		logger:     logger,
		maxRetries: maxRetries,
	}
}

// ProcessTurn interprets one player utterance against the session state.
// On success the updated state is persisted and returned in the result
// for the caller to commit. The session itself is only read, never
// written, and on any failure the returned result is nil.
func (p *TurnProcessor) ProcessTurn(ctx context.Context, sess *Session, utterance string) (*TurnResult, error) {
	gs := sess.State

	system, user, err := prompts.BuildParseRequest(gs, utterance)
	if err != nil {
		return nil, fmt.Errorf("failed to build oracle prompt: %w", err)
	}

	d, err := p.requestDelta(ctx, gs, system, user)
	if err != nil {
		return nil, err
	}

	next, applied, err := delta.NewWorker(gs, d, p.logger).Apply()
	if err != nil {
		return nil, fmt.Errorf("failed to apply delta: %w", err)
	}

	result := &TurnResult{
		State:         next,
		Delta:         d,
		NarrativeHint: d.NarrativeHint,
		Anomalies:     applied.Anomalies,
		PlayerDied:    applied.PlayerDied,
	}

	// The game never advances to the next utterance while the previous
	// turn's state is unpersisted, so save synchronously here.
	if err := p.store.SaveState(ctx, sess.ID, next); err != nil {
		p.logger.Error("Failed to persist turn", "session_id", sess.ID, "error", err)
		result.SaveFailed = true
	}

	return result, nil
}

// SaveNow persists the current session state, used for quit and shutdown.
func (p *TurnProcessor) SaveNow(ctx context.Context, sess *Session) error {
	return p.store.SaveState(ctx, sess.ID, sess.State)
}

// requestDelta calls the oracle and validates its output, retrying
// malformed and schema-invalid responses with the same input up to the
// configured budget. Transport failures are surfaced immediately.
func (p *TurnProcessor) requestDelta(ctx context.Context, gs *world.State, system, user string) (*delta.Delta, error) {
	attempts := 1 + p.maxRetries

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			p.logger.Info("Retrying oracle parse", "attempt", attempt)
		}

		callCtx, cancel := context.WithTimeout(ctx, oracleTimeout)
		raw, err := p.llm.ParseAction(callCtx, system, user)
		cancel()

		if err != nil {
			var transport *services.TransportError
			if errors.As(err, &transport) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return nil, &OracleDownError{Err: err}
			}
			// Unusable response from a reachable oracle gets the same
			// bounded-retry treatment as malformed output.
			p.logger.Warn("Oracle response unusable", "attempt", attempt, "error", err)
			lastErr = err
			continue
		}

		d, err := delta.Validate(raw, gs)
		if err != nil {
			p.logger.Warn("Oracle output rejected", "attempt", attempt, "error", err)
			lastErr = err
			continue
		}
		return d, nil
	}

	return nil, &ParseFailedError{Attempts: attempts, Err: lastErr}
}
