// Package textsplit splits plain text into overlapping fixed-size chunks
// suitable for embedding.
package textsplit

import "strings"

const (
	// DefaultChunkSize is the target chunk length in runes.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the number of runes shared between adjacent chunks.
	DefaultChunkOverlap = 200
)

// separators is the cut-point hierarchy, most preferred first.
// Paragraph break, line break, word break; a hard cut is the fallback.
var separators = []string{"\n\n", "\n", " "}

// Splitter produces chunks of at most chunkSize runes. Adjacent chunks from
// the same text share exactly chunkOverlap runes: each chunk starts
// chunkOverlap runes before the previous chunk's end.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

// NewSplitter creates a splitter with the given size and overlap (in runes).
// Non-positive or inconsistent values fall back to the defaults.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = DefaultChunkOverlap
		if chunkOverlap >= chunkSize {
			chunkOverlap = chunkSize / 5
		}
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Split divides text into chunks. The result is deterministic: the same
// input always yields the same chunk sequence. Empty or whitespace-only
// input yields no chunks.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []string{text}
	}

	var chunks []string
	pos := 0
	for {
		end := pos + s.chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[pos:]))
			break
		}

		cut := s.findCut(runes, pos, end)
		chunks = append(chunks, string(runes[pos:cut]))
		pos = cut - s.chunkOverlap
	}

	return chunks
}

// findCut picks the chunk end in (pos+overlap, end], preferring the latest
// occurrence of the highest-ranked separator. The lower bound guarantees
// forward progress once the overlap is subtracted.
func (s *Splitter) findCut(runes []rune, pos, end int) int {
	low := pos + s.chunkOverlap + 1
	for _, sep := range separators {
		if cut := lastSeparatorEnd(runes, sep, low, end); cut > 0 {
			return cut
		}
	}
	return end
}

// lastSeparatorEnd returns the index just past the last occurrence of sep
// whose end falls within [low, end], or 0 if there is none.
func lastSeparatorEnd(runes []rune, sep string, low, end int) int {
	sepRunes := []rune(sep)
	n := len(sepRunes)
	for i := end - n; i >= low-n && i >= 0; i-- {
		if matchAt(runes, sepRunes, i) && i+n >= low {
			return i + n
		}
	}
	return 0
}

func matchAt(runes, sep []rune, at int) bool {
	if at+len(sep) > len(runes) {
		return false
	}
	for j, r := range sep {
		if runes[at+j] != r {
			return false
		}
	}
	return true
}
