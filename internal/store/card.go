package store

import (
	"context"

	"github.com/phrazzld/ankigen/internal/domain"
)

// CardStore defines the interface for card persistence.
type CardStore interface {
	// SaveCard appends one card. A card is either written completely or
	// not at all; implementations must not leave partial records behind
	// on error.
	SaveCard(ctx context.Context, card *domain.Card) error
}

// RawLogStore keeps the unparsed model responses for debugging and recovery.
type RawLogStore interface {
	// AppendRaw records the raw response text returned for word. Empty
	// responses are recorded too.
	AppendRaw(ctx context.Context, word, raw string) error
}
