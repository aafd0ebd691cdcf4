// Package chunk splits extracted text into bounded chunks suitable for
// embedding, offering a fixed-size strategy and a sentence-aware strategy.
package chunk

import (
	"regexp"
	"strings"

	"github.com/Muxite/filex/internal/ferrors"
)

// Chunker splits text into a list of non-empty chunks.
type Chunker interface {
	Chunk(text string) []string
	// EstimateChunkCount returns an estimate of how many chunks Chunk would
	// produce for text of the given character length, without doing the
	// actual split.
	EstimateChunkCount(textLength int) int
}

// FixedSizeChunker splits text into fixed-size, optionally overlapping
// windows measured in characters.
type FixedSizeChunker struct {
	Size    int
	Overlap int
}

// NewFixedSizeChunker validates size and overlap and builds a FixedSizeChunker.
func NewFixedSizeChunker(size, overlap int) (*FixedSizeChunker, error) {
	if size <= 0 {
		return nil, ferrors.InvalidArgument("chunk size must be positive", nil)
	}
	if overlap < 0 || overlap >= size {
		return nil, ferrors.InvalidArgument("chunk overlap must be >= 0 and < size", nil)
	}
	return &FixedSizeChunker{Size: size, Overlap: overlap}, nil
}

// Chunk splits text into windows of Size runes, stepping by Size-Overlap.
// Whitespace-only windows are skipped. If every window turns out to be
// whitespace-only, the whole original text is returned as a single chunk
// rather than producing zero chunks; only empty text yields no chunks.
func (c *FixedSizeChunker) Chunk(text string) []string {
	runes := []rune(text)
	step := c.Size - c.Overlap

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + c.Size
		if end > len(runes) {
			end = len(runes)
		}
		window := string(runes[start:end])
		if strings.TrimSpace(window) != "" {
			chunks = append(chunks, window)
		}
		if end == len(runes) {
			break
		}
	}

	if len(chunks) == 0 {
		if text == "" {
			return nil
		}
		return []string{text}
	}
	return chunks
}

// EstimateChunkCount estimates the number of windows for a text of the
// given rune length.
func (c *FixedSizeChunker) EstimateChunkCount(textLength int) int {
	if textLength <= 0 {
		return 0
	}
	step := c.Size - c.Overlap
	if textLength <= c.Size {
		return 1
	}
	return 1 + (textLength-c.Size+step-1)/step
}

var sentenceBoundaryRe = regexp.MustCompile(`[.!?]+(\s+|$)`)

// SentenceAwareChunker groups whole sentences into chunks targeting a
// character count. A sentence is never split across two chunks; a single
// sentence longer than Max becomes a chunk of its own that exceeds Max.
type SentenceAwareChunker struct {
	Target int
	Max    int
}

// NewSentenceAwareChunker validates target/max and builds a
// SentenceAwareChunker. Max defaults to 2x Target when zero.
func NewSentenceAwareChunker(target, max int) (*SentenceAwareChunker, error) {
	if target <= 0 {
		return nil, ferrors.InvalidArgument("sentence chunk target must be positive", nil)
	}
	if max == 0 {
		max = target * 2
	}
	if max < target {
		return nil, ferrors.InvalidArgument("sentence chunk max must be >= target", nil)
	}
	return &SentenceAwareChunker{Target: target, Max: max}, nil
}

// Chunk splits text into sentences, then greedily accumulates sentences into
// a current chunk, flushing and starting a new chunk with the pending
// sentence whenever adding it would push the current chunk past Target (and
// it is non-empty), so the chunk never accumulates past Max. Flushes the
// tail at the end. If no sentence boundaries are found, the whole (trimmed)
// text is returned as a single chunk.
func (c *SentenceAwareChunker) Chunk(text string) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, sentence := range sentences {
		separator := 0
		if current.Len() > 0 {
			separator = 1
		}
		candidateLen := current.Len() + separator + len(sentence)
		if current.Len() > 0 && (candidateLen > c.Target || candidateLen > c.Max) {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sentence)
	}
	flush()

	if len(chunks) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}
	return chunks
}

// EstimateChunkCount estimates the number of chunks for a text of the given
// character length, assuming average sentence packing near Target.
func (c *SentenceAwareChunker) EstimateChunkCount(textLength int) int {
	if textLength <= 0 {
		return 0
	}
	if textLength <= c.Target {
		return 1
	}
	return (textLength + c.Target - 1) / c.Target
}

// splitSentences splits text on sentence-ending punctuation, discarding
// empty trailing fragments.
func splitSentences(text string) []string {
	locs := sentenceBoundaryRe.FindAllStringIndex(text, -1)
	if locs == nil {
		return nil
	}

	var sentences []string
	start := 0
	for _, loc := range locs {
		sentence := strings.TrimSpace(text[start:loc[1]])
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = loc[1]
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}
