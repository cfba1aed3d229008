package csvfile

import (
	"context"
	"fmt"
	"io"

	"github.com/phrazzld/ankigen/internal/store"
)

// RawLog implements store.RawLogStore. Each entry is a "--- word ---" header
// line, the raw response text, and a blank line.
type RawLog struct {
	w      io.Writer
	closer io.Closer
	closed bool
}

var _ store.RawLogStore = (*RawLog)(nil)

// NewRawLog writes entries to w. Close does not close w.
func NewRawLog(w io.Writer) *RawLog {
	return &RawLog{w: w}
}

// OpenRawLog opens the log file at path in append mode.
func OpenRawLog(path string) (*RawLog, error) {
	f, err := openAppend(path)
	if err != nil {
		return nil, err
	}
	return &RawLog{w: f, closer: f}, nil
}

// AppendRaw implements store.RawLogStore.
func (l *RawLog) AppendRaw(_ context.Context, word, raw string) error {
	if l.closed {
		return store.ErrClosed
	}
	if _, err := fmt.Fprintf(l.w, "--- %s ---\n%s\n\n", word, raw); err != nil {
		return fmt.Errorf("%w: %v", store.ErrWriteFailed, err)
	}
	return nil
}

// Close closes the underlying file if the log opened it.
func (l *RawLog) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
