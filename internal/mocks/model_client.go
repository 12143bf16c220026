package mocks

import (
	"context"
	"fmt"
	"sync"
)

// MockModelClient implements generation.ModelClient for testing.
type MockModelClient struct {
	GenerateTextFn func(ctx context.Context, model, prompt string) (string, error)

	// Replies and Errors are keyed by model name. A model with neither
	// entry fails.
	Replies map[string]string
	Errors  map[string]error

	mu      sync.Mutex
	models  []string
	prompts []string
}

// GenerateText implements generation.ModelClient.
func (m *MockModelClient) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	m.mu.Lock()
	m.models = append(m.models, model)
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateTextFn != nil {
		return m.GenerateTextFn(ctx, model, prompt)
	}
	if err, ok := m.Errors[model]; ok {
		return "", err
	}
	if reply, ok := m.Replies[model]; ok {
		return reply, nil
	}
	return "", fmt.Errorf("model %s not found", model)
}

// CalledModels returns the models invoked, in order.
func (m *MockModelClient) CalledModels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.models...)
}

// Prompts returns the prompts sent, in order.
func (m *MockModelClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// CallCount returns the number of GenerateText calls.
func (m *MockModelClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.models)
}
