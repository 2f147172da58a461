// Package chunker splits extracted document text into overlapping,
// bounded-size chunks suitable for embedding.
package chunker

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Default parameters, matching the reference ingestion configuration.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 250
)

// ErrInvalidConfig indicates unusable chunking parameters.
var ErrInvalidConfig = errors.New("invalid chunking config")

// separators ordered from most to least structural. Chunks are cut at the
// latest occurrence of the most structural separator that fits the window;
// hard character slicing is the fallback when none fits.
var separators = []string{"\n\n", "\n", ". ", " "}

// Splitter cuts text into chunks of at most chunkSize runes where
// consecutive chunks share exactly chunkOverlap runes.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

// New validates the parameters and returns a Splitter. The overlap must be
// non-negative and strictly smaller than the chunk size, otherwise the
// window could never advance.
func New(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidConfig, chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrInvalidConfig, chunkOverlap, chunkSize)
	}
	return &Splitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}, nil
}

// Split returns the chunks of text in document order. Sizes are measured in
// runes. Each chunk after the first starts exactly chunkOverlap runes before
// the previous chunk's end, so concatenating the first chunk with every
// subsequent chunk minus its leading overlap reproduces the input exactly.
// Empty input yields no chunks. Output is deterministic.
func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}
	if n <= s.chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		end := start + s.chunkSize
		if end >= n {
			// Final window reaches the end of the text.
			chunks = append(chunks, string(runes[start:n]))
			return chunks
		}
		end = s.cut(runes, start, end)
		chunks = append(chunks, string(runes[start:end]))
		start = end - s.chunkOverlap
	}
}

// cut picks the end of the chunk starting at start, scanning the full window
// runes[start:limit] for the latest occurrence of each separator in
// hierarchy order. A boundary only qualifies if the resulting chunk is
// longer than the overlap, which keeps the next start strictly advancing.
// Returns limit (hard slice) when no separator qualifies.
func (s *Splitter) cut(runes []rune, start, limit int) int {
	window := string(runes[start:limit])
	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		// Separator stays with the chunk it terminates.
		end := start + utf8.RuneCountInString(window[:idx]) + utf8.RuneCountInString(sep)
		if end-start > s.chunkOverlap {
			return end
		}
	}
	return limit
}
