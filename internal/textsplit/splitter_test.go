package textsplit

import (
	"strings"
	"testing"
)

// TestSplit_ShortText verifies text at or under the chunk size is one chunk.
func TestSplit_ShortText(t *testing.T) {
	s := NewSplitter(1000, 200)

	input := "A short paragraph that fits in a single chunk."
	chunks := s.Split(input)

	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != input {
		t.Errorf("Chunk should equal input, got %q", chunks[0])
	}
}

// TestSplit_Empty verifies empty input yields no chunks.
func TestSplit_Empty(t *testing.T) {
	s := NewSplitter(1000, 200)

	if chunks := s.Split(""); chunks != nil {
		t.Errorf("Expected nil for empty input, got %v", chunks)
	}
}

// TestSplit_ChunkSizeBound verifies no chunk exceeds the target size.
func TestSplit_ChunkSizeBound(t *testing.T) {
	s := NewSplitter(1000, 200)

	input := strings.Repeat("Sentence with several words in it. ", 200)
	chunks := s.Split(input)

	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if n := len([]rune(chunk)); n > 1000 {
			t.Errorf("Chunk %d has %d runes, exceeds target 1000", i, n)
		}
	}
}

// TestSplit_OverlapInvariant verifies the trailing 200 runes of each chunk
// equal the leading 200 runes of the next.
func TestSplit_OverlapInvariant(t *testing.T) {
	s := NewSplitter(1000, 200)

	input := strings.Repeat("The quick brown fox jumps over the lazy dog.\n", 150)
	chunks := s.Split(input)

	if len(chunks) < 3 {
		t.Fatalf("Expected at least 3 chunks, got %d", len(chunks))
	}
	for i := 0; i < len(chunks)-1; i++ {
		cur := []rune(chunks[i])
		next := []rune(chunks[i+1])
		tail := string(cur[len(cur)-200:])
		head := string(next[:200])
		if tail != head {
			t.Errorf("Chunks %d/%d: overlap mismatch\ntail: %q\nhead: %q", i, i+1, tail, head)
		}
	}
}

// TestSplit_Deterministic verifies repeated splits of the same input agree.
func TestSplit_Deterministic(t *testing.T) {
	s := NewSplitter(1000, 200)

	input := strings.Repeat("Paragraph one has content.\n\nParagraph two has more content. ", 60)
	first := s.Split(input)
	second := s.Split(input)

	if len(first) != len(second) {
		t.Fatalf("Chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Chunk %d differs between runs", i)
		}
	}
}

// TestSplit_PrefersParagraphBreaks verifies chunks end at paragraph
// boundaries when one is available inside the window.
func TestSplit_PrefersParagraphBreaks(t *testing.T) {
	s := NewSplitter(100, 20)

	para := strings.Repeat("word ", 12) // 60 runes
	input := para + "\n\n" + para + "\n\n" + para
	chunks := s.Split(input)

	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], "\n\n") {
		t.Errorf("First chunk should end at a paragraph break, got %q", chunks[0])
	}
}

// TestSplit_NoSeparators verifies a hard cut when the text has no separators.
func TestSplit_NoSeparators(t *testing.T) {
	s := NewSplitter(100, 20)

	input := strings.Repeat("x", 350)
	chunks := s.Split(input)

	for i, chunk := range chunks {
		if n := len([]rune(chunk)); n > 100 {
			t.Errorf("Chunk %d has %d runes, exceeds target 100", i, n)
		}
	}
	// Reassembling without the overlap must reproduce the input.
	var rebuilt strings.Builder
	for i, chunk := range chunks {
		runes := []rune(chunk)
		if i == 0 {
			rebuilt.WriteString(chunk)
		} else {
			rebuilt.WriteString(string(runes[20:]))
		}
	}
	if rebuilt.String() != input {
		t.Error("Chunks do not cover the input exactly")
	}
}

// TestNewSplitter_Defaults verifies bad parameters fall back to defaults.
func TestNewSplitter_Defaults(t *testing.T) {
	s := NewSplitter(0, -1)
	if s.chunkSize != DefaultChunkSize {
		t.Errorf("Expected default chunk size %d, got %d", DefaultChunkSize, s.chunkSize)
	}
	if s.chunkOverlap != DefaultChunkOverlap {
		t.Errorf("Expected default overlap %d, got %d", DefaultChunkOverlap, s.chunkOverlap)
	}

	// Overlap >= size is rejected too.
	s = NewSplitter(100, 150)
	if s.chunkOverlap >= s.chunkSize {
		t.Errorf("Overlap %d should be below chunk size %d", s.chunkOverlap, s.chunkSize)
	}
}
