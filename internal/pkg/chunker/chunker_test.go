package chunker

import (
	"strings"
	"testing"
)

func TestSplitShortTextReturnedWhole(t *testing.T) {
	c := New(500, 50)

	got := c.Split("a short document")
	if len(got) != 1 || got[0] != "a short document" {
		t.Errorf("Split() = %v, want the text as a single chunk", got)
	}
}

func TestSplitEmptyText(t *testing.T) {
	c := New(500, 50)

	for _, text := range []string{"", "   \n\t"} {
		if got := c.Split(text); got != nil {
			t.Errorf("Split(%q) = %v, want nil", text, got)
		}
	}
}

func TestSplitPrefersSentenceBoundaries(t *testing.T) {
	c := New(40, 5)

	text := "First sentence here. Second sentence follows. Third one ends the text."
	chunks := c.Split(text)

	if len(chunks) < 2 {
		t.Fatalf("Split() = %v, want multiple chunks", chunks)
	}
	if !strings.HasSuffix(chunks[0], "sentence here.") {
		t.Errorf("first chunk %q should end at a sentence boundary", chunks[0])
	}
}

func TestSplitRespectsChunkSize(t *testing.T) {
	c := New(100, 20)

	text := strings.Repeat("word and another word. ", 50)
	for i, chunk := range c.Split(text) {
		if len(chunk) > 100 {
			t.Errorf("chunk %d length = %d, exceeds chunk size", i, len(chunk))
		}
	}
}

func TestSplitOverlapCarriesContext(t *testing.T) {
	c := New(50, 10)

	text := strings.Repeat("abcde ", 30)
	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("Split() produced %d chunks, want at least 2", len(chunks))
	}

	// Consecutive chunks share text from the overlap window.
	tail := chunks[0][len(chunks[0])-5:]
	if !strings.Contains(chunks[1], tail) {
		t.Errorf("chunk 1 %q does not overlap with chunk 0 tail %q", chunks[1], tail)
	}
}

func TestSplitNoBoundaryFallsBackToHardCut(t *testing.T) {
	c := New(10, 2)

	text := strings.Repeat("x", 35)
	chunks := c.Split(text)

	if len(chunks) == 0 {
		t.Fatal("Split() returned no chunks")
	}
	for i, chunk := range chunks {
		if len(chunk) > 10 {
			t.Errorf("chunk %d length = %d, exceeds chunk size", i, len(chunk))
		}
	}
	if joined := strings.Join(chunks, ""); !strings.HasPrefix(joined, "xxxxxxxxxx") {
		t.Errorf("unexpected chunk content: %v", chunks)
	}
}

func TestSplitTerminatesOnPathologicalOverlap(t *testing.T) {
	// Overlap nearly the size of the chunk must still make forward progress.
	c := New(10, 9)

	text := strings.Repeat("y", 100)
	chunks := c.Split(text)
	if len(chunks) == 0 {
		t.Fatal("Split() returned no chunks")
	}
}

func TestNewClampsInvalidConfig(t *testing.T) {
	c := New(0, -1)
	if c.chunkSize != DefaultChunkSize || c.overlap != DefaultOverlap {
		t.Errorf("New(0, -1) = %+v, want defaults", c)
	}

	c = New(20, 30)
	if c.overlap >= c.chunkSize {
		t.Errorf("overlap %d not clamped below chunk size %d", c.overlap, c.chunkSize)
	}
}
