package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/ankigen/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateCardJSONFn allows test cases to mock the GenerateCardJSON behavior
	GenerateCardJSONFn func(ctx context.Context, word string) (string, error)

	// Responses maps words to canned raw responses, used when GenerateCardJSONFn is nil
	Responses map[string]string
	// Errors maps words to canned errors; an entry here wins over Responses
	Errors map[string]error

	// Call tracking for verification
	GenerateCardJSONCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times GenerateCardJSON was called
		Count int

		// Words contains all words passed to GenerateCardJSON calls
		Words []string
	}
}

var _ generation.Generator = (*MockGenerator)(nil)

// GenerateCardJSON implements the generation.Generator interface
func (m *MockGenerator) GenerateCardJSON(ctx context.Context, word string) (string, error) {
	m.GenerateCardJSONCalls.mu.Lock()
	m.GenerateCardJSONCalls.Count++
	m.GenerateCardJSONCalls.Words = append(m.GenerateCardJSONCalls.Words, word)
	m.GenerateCardJSONCalls.mu.Unlock()

	if m.GenerateCardJSONFn != nil {
		return m.GenerateCardJSONFn(ctx, word)
	}

	if err, ok := m.Errors[word]; ok {
		return "", err
	}
	return m.Responses[word], nil
}

// CalledWords returns a copy of the words GenerateCardJSON was called with.
func (m *MockGenerator) CalledWords() []string {
	m.GenerateCardJSONCalls.mu.Lock()
	defer m.GenerateCardJSONCalls.mu.Unlock()
	return append([]string(nil), m.GenerateCardJSONCalls.Words...)
}

// NewMockGeneratorWithResponses creates a MockGenerator that returns the given raw responses
func NewMockGeneratorWithResponses(responses map[string]string) *MockGenerator {
	return &MockGenerator{
		Responses: responses,
	}
}

// NewMockGeneratorWithError creates a MockGenerator that fails every word with err
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{
		GenerateCardJSONFn: func(context.Context, string) (string, error) {
			return "", err
		},
	}
}

// MockGeneratorThatFails creates a MockGenerator that simulates exhausted retries
func MockGeneratorThatFails() *MockGenerator {
	return NewMockGeneratorWithError(generation.ErrRetriesExhausted)
}
