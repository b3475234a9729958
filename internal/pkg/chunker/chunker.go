// Package chunker splits document text into overlapping chunks sized for
// embedding. Cuts prefer sentence and word boundaries, falling back to a
// hard cut when none is found in the window.
package chunker

import "strings"

const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
)

// Boundary separators in preference order.
var separators = []string{". ", "! ", "? ", "\n\n", "\n", " "}

type Chunker struct {
	chunkSize int
	overlap   int
}

func New(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultOverlap
		if overlap >= chunkSize {
			overlap = chunkSize / 10
		}
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// Split breaks text into chunks of at most chunkSize characters with the
// configured overlap between consecutive chunks.
func (c *Chunker) Split(text string) []string {
	if len(text) <= c.chunkSize {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := start + c.chunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			for _, sep := range separators {
				if idx := strings.LastIndex(text[start:end], sep); idx > 0 {
					end = start + idx + len(sep)
					break
				}
			}
		}

		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(text) {
			break
		}

		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}
