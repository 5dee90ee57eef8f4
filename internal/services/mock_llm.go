package services

import (
	"context"
	"sync"
)

// MockLLM is a mock implementation of LLMService for testing.
type MockLLM struct {
	InitModelFunc   func(ctx context.Context, modelName string) error
	ParseActionFunc func(ctx context.Context, system, user string) ([]byte, error)

	// Track calls for testing
	InitModelCalls   []string
	ParseActionCalls []ParseActionCall

	// Responses is consumed one entry per ParseAction call when
	// ParseActionFunc is nil; the last entry repeats once exhausted.
	Responses []MockResponse

	mu sync.Mutex
}

type ParseActionCall struct {
	System string
	User   string
}

type MockResponse struct {
	Raw []byte
	Err error
}

var _ LLMService = (*MockLLM)(nil)

// NewMockLLM creates a new mock LLM service.
func NewMockLLM() *MockLLM {
	return &MockLLM{
		InitModelCalls:   make([]string, 0),
		ParseActionCalls: make([]ParseActionCall, 0),
	}
}

func (m *MockLLM) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)
	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

func (m *MockLLM) ParseAction(ctx context.Context, system, user string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := ParseActionCall{System: system, User: user}
	m.ParseActionCalls = append(m.ParseActionCalls, call)

	if m.ParseActionFunc != nil {
		return m.ParseActionFunc(ctx, system, user)
	}

	if len(m.Responses) > 0 {
		idx := len(m.ParseActionCalls) - 1
		if idx >= len(m.Responses) {
			idx = len(m.Responses) - 1
		}
		r := m.Responses[idx]
		return r.Raw, r.Err
	}

	// Default behavior: an empty no-op delta.
	return []byte(`{}`), nil
}

// CallCount returns how many times ParseAction was invoked.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ParseActionCalls)
}
