package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/phrazzld/ankigen/internal/domain"
	"github.com/phrazzld/ankigen/internal/store"
)

// lineTerminator matches the CSV default of common spreadsheet and Anki
// importers.
const lineTerminator = "\r\n"

// ErrInvalidDelimiter is returned for delimiters that cannot separate quoted fields.
var ErrInvalidDelimiter = errors.New("invalid CSV delimiter")

// CardWriter implements store.CardStore by appending one fully quoted row
// per card.
type CardWriter struct {
	w         io.Writer
	closer    io.Closer
	delimiter rune
	closed    bool
}

var _ store.CardStore = (*CardWriter)(nil)

// NewCardWriter writes rows to w. Close does not close w.
func NewCardWriter(w io.Writer, delimiter rune) (*CardWriter, error) {
	if err := validateDelimiter(delimiter); err != nil {
		return nil, err
	}
	return &CardWriter{w: w, delimiter: delimiter}, nil
}

// OpenCardWriter opens the CSV file at path in append mode.
func OpenCardWriter(path string, delimiter rune) (*CardWriter, error) {
	if err := validateDelimiter(delimiter); err != nil {
		return nil, err
	}

	f, err := openAppend(path)
	if err != nil {
		return nil, err
	}

	return &CardWriter{w: f, closer: f, delimiter: delimiter}, nil
}

// SaveCard implements store.CardStore.
func (c *CardWriter) SaveCard(_ context.Context, card *domain.Card) error {
	if c.closed {
		return store.ErrClosed
	}
	if card == nil {
		return fmt.Errorf("%w: card is nil", store.ErrInvalidEntity)
	}

	// One Write per row keeps rows whole on the append-mode file.
	if _, err := io.WriteString(c.w, FormatRecord(card.Record(), c.delimiter)); err != nil {
		return fmt.Errorf("%w: %v", store.ErrWriteFailed, err)
	}
	return nil
}

// Close closes the underlying file if the writer opened it.
func (c *CardWriter) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// FormatRecord renders fields as one CSV row with every field quoted and
// embedded quotes doubled, terminated by CRLF. Newlines inside fields are
// kept verbatim within the quotes.
func FormatRecord(fields []string, delimiter rune) string {
	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteRune(delimiter)
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString(lineTerminator)
	return b.String()
}

func validateDelimiter(r rune) error {
	if r == 0 || r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError || !utf8.ValidRune(r) {
		return fmt.Errorf("%w: %q", ErrInvalidDelimiter, r)
	}
	return nil
}

// ParseDelimiter converts a configured single-character delimiter string.
func ParseDelimiter(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return 0, fmt.Errorf("%w: %q must be a single character", ErrInvalidDelimiter, s)
	}
	if err := validateDelimiter(r); err != nil {
		return 0, err
	}
	return r, nil
}
