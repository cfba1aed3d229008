// Package wordlist reads the words to generate cards for.
package wordlist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInputNotFound is returned when the input file does not exist.
	ErrInputNotFound = errors.New("input file not found")

	// ErrNoWords is returned when the input file contains no words.
	ErrNoWords = errors.New("no words found")
)

// Read loads the whitespace-separated words from the UTF-8 file at path,
// preserving their order. Duplicates are kept.
func Read(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, absPath(path))
		}
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}

	words := Parse(string(data))
	if len(words) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoWords, absPath(path))
	}

	return words, nil
}

// Parse splits text on any Unicode whitespace, including the ideographic
// space, and drops empty tokens. A leading byte order mark is ignored.
func Parse(text string) []string {
	return strings.Fields(strings.TrimPrefix(text, "\uFEFF"))
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
