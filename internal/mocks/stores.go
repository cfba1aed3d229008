package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/ankigen/internal/domain"
	"github.com/phrazzld/ankigen/internal/store"
)

// MockCardStore implements store.CardStore in memory
type MockCardStore struct {
	// SaveCardFn allows test cases to mock the SaveCard behavior
	SaveCardFn func(ctx context.Context, card *domain.Card) error

	mu    sync.Mutex
	cards []*domain.Card
}

var _ store.CardStore = (*MockCardStore)(nil)

// SaveCard implements store.CardStore. Cards are recorded only when the call succeeds.
func (m *MockCardStore) SaveCard(ctx context.Context, card *domain.Card) error {
	if m.SaveCardFn != nil {
		if err := m.SaveCardFn(ctx, card); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards = append(m.cards, card)
	return nil
}

// Cards returns the saved cards in order
func (m *MockCardStore) Cards() []*domain.Card {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Card(nil), m.cards...)
}

// RawEntry is one recorded raw log entry
type RawEntry struct {
	Word string
	Raw  string
}

// MockRawLogStore implements store.RawLogStore in memory
type MockRawLogStore struct {
	// AppendRawFn allows test cases to mock the AppendRaw behavior
	AppendRawFn func(ctx context.Context, word, raw string) error

	mu      sync.Mutex
	entries []RawEntry
}

var _ store.RawLogStore = (*MockRawLogStore)(nil)

// AppendRaw implements store.RawLogStore
func (m *MockRawLogStore) AppendRaw(ctx context.Context, word, raw string) error {
	if m.AppendRawFn != nil {
		if err := m.AppendRawFn(ctx, word, raw); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, RawEntry{Word: word, Raw: raw})
	return nil
}

// Entries returns the recorded entries in order
func (m *MockRawLogStore) Entries() []RawEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RawEntry(nil), m.entries...)
}
