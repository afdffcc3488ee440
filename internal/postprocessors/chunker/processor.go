// Package chunker splits extracted document text into overlapping,
// sentence-aligned chunks.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// sentenceSearchSpan is how far back from a window's end a sentence
// terminator is looked for.
const sentenceSearchSpan = 200

// Verify interface compliance.
var _ driven.Chunker = (*Processor)(nil)

// Processor splits document text into chunks.
// It implements the driven.Chunker interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
// An overlap that is not smaller than the chunk size is kept as given
// and reported by Split.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Split splits text using the processor's size and overlap.
func (p *Processor) Split(text string) ([]string, error) {
	return Chunk(text, p.chunkSize, p.overlap)
}

// Chunk splits text into windows of at most chunkSize bytes, each
// starting overlap bytes before the previous one ended. A window that
// would cut mid-sentence is shortened to end just after the last '.',
// '!' or '?' within its final 200 bytes. Chunks are trimmed and empty
// ones dropped.
//
// Text no longer than chunkSize is returned unchanged as a single chunk.
// Returns domain.ErrInvalidInput when chunkSize is not positive or
// overlap is outside [0, chunkSize).
func Chunk(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", domain.ErrInvalidInput, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", domain.ErrInvalidInput, overlap, chunkSize)
	}

	if len(text) <= chunkSize {
		if strings.TrimSpace(text) == "" {
			return nil, nil
		}
		return []string{text}, nil
	}

	chunks := make([]string, 0, len(text)/(chunkSize-overlap)+1)
	start := 0

	for start < len(text) {
		end := start + chunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = runeFloor(text, end, start)
			if snapped := sentenceEnd(text, start, end, chunkSize); snapped-overlap > start {
				end = snapped
			}
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(text) {
			break
		}

		next := runeFloor(text, end-overlap, start)
		if next <= start {
			// Only reachable when a multi-byte rune swallows the whole step.
			next = runeCeil(text, start+1)
		}
		start = next
	}

	return chunks, nil
}

// sentenceEnd returns the position just after the last sentence
// terminator in text[floor:end), or end when there is none.
func sentenceEnd(text string, start, end, chunkSize int) int {
	floor := start + chunkSize - sentenceSearchSpan
	if floor < start {
		floor = start
	}
	for i := end - 1; i > floor; i-- {
		switch text[i] {
		case '.', '!', '?':
			return i + 1
		}
	}
	return end
}

// runeFloor moves pos back to the start of the rune containing it,
// never past min.
func runeFloor(text string, pos, min int) int {
	for pos > min && pos < len(text) && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}

// runeCeil moves pos forward to the next rune start.
func runeCeil(text string, pos int) int {
	for pos < len(text) && !utf8.RuneStart(text[pos]) {
		pos++
	}
	return pos
}
