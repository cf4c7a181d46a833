package chunker

import "strings"

// Config controls chunking behavior.
type Config struct {
	MaxChars int // Target chunk size in characters.
	MinChunk int // Trimmed slices at or below this length are dropped.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxChars: 3500,
		MinChunk: 100,
	}
}

// Chunk is a contiguous, non-overlapping slice of normalized text.
type Chunk struct {
	Index int
	Text  string
}

// boundaryWindow is how far around the naive cut point the paragraph-break
// search looks.
const boundaryWindow = 200

// Split cuts text into ordered chunks of at most MaxChars characters,
// preferring paragraph breaks, then sentence endings, then a hard cut.
// Trimmed slices of MinChunk characters or fewer are discarded silently;
// surviving chunks are indexed sequentially from 0.
func Split(text string, cfg Config) []Chunk {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 3500
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 100
	}

	var chunks []Chunk
	n := len(text)
	start := 0
	index := 0

	for start < n {
		end := start + cfg.MaxChars
		if end >= n {
			end = n
		} else {
			end = findCut(text, start, end, n)
		}

		piece := strings.TrimSpace(text[start:end])
		if len(piece) > cfg.MinChunk {
			chunks = append(chunks, Chunk{Index: index, Text: piece})
			index++
		}

		start = end
	}

	return chunks
}

// findCut picks the cut offset for a chunk starting at start with naive end
// naiveEnd. It looks for the last paragraph break within boundaryWindow of
// the naive end, then falls back to the last sentence ending before it, then
// to the naive end itself. The returned offset is always past start.
func findCut(text string, start, naiveEnd, n int) int {
	lo := naiveEnd - boundaryWindow
	if lo < start {
		lo = start
	}
	hi := naiveEnd + boundaryWindow
	if hi > n {
		hi = n
	}

	if p := strings.LastIndex(text[lo:hi], "\n\n"); p >= 0 {
		return lo + p + 2 // advance past the break itself
	}
	if s := strings.LastIndex(text[start:naiveEnd], ". "); s >= 0 {
		return start + s + 2 // keep the period and space with this chunk
	}
	return naiveEnd
}
