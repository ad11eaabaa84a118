package testutil

import (
	"context"
	"sync"

	"tempchat/model"
)

// MockProvider implements model.Provider for testing
type MockProvider struct {
	// Configurable response
	SendFunc func(ctx context.Context, prompt model.Prompt) (string, error)

	// State
	mu      sync.Mutex
	name    string
	prompts []model.Prompt
}

// NewMockProvider creates a mock provider that answers every turn with reply
func NewMockProvider(reply string) *MockProvider {
	return &MockProvider{
		name: "mock",
		SendFunc: func(ctx context.Context, prompt model.Prompt) (string, error) {
			return reply, nil
		},
	}
}

// NewFailingProvider creates a mock provider whose every turn fails with err
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		name: "mock",
		SendFunc: func(ctx context.Context, prompt model.Prompt) (string, error) {
			return "", err
		},
	}
}

// NewBlockingProvider creates a mock provider that only returns once ctx is done
func NewBlockingProvider() *MockProvider {
	return &MockProvider{
		name: "mock",
		SendFunc: func(ctx context.Context, prompt model.Prompt) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
}

func (m *MockProvider) Send(ctx context.Context, prompt model.Prompt) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.SendFunc(ctx, prompt)
}

func (m *MockProvider) Name() string {
	return m.name
}

// Calls returns how many times Send was invoked
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns a copy of every prompt received
func (m *MockProvider) Prompts() []model.Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Prompt, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// RecordingNotifier collects notifications for assertions
type RecordingNotifier struct {
	mu   sync.Mutex
	seen []model.Notification
}

func (r *RecordingNotifier) Notify(n model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
}

func (r *RecordingNotifier) Notifications() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Notification, len(r.seen))
	copy(out, r.seen)
	return out
}
