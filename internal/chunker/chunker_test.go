package chunker

import (
	"strings"
	"testing"
)

func TestSplit_SmallTextFitsOneChunk(t *testing.T) {
	text := strings.Repeat("Some meaningful sentence here. ", 20) // ~620 chars
	chunks := Split(text, DefaultConfig())

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
	if chunks[0].Text != strings.TrimSpace(text) {
		t.Errorf("expected chunk to equal trimmed input")
	}
}

func TestSplit_EmptyText(t *testing.T) {
	if chunks := Split("", DefaultConfig()); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty text, got %d", len(chunks))
	}
}

func TestSplit_DropsShortText(t *testing.T) {
	if chunks := Split("too short to matter", DefaultConfig()); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for sub-minimum text, got %d", len(chunks))
	}
}

func TestSplit_SequentialIndexes(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 300) // ~13800 chars
	chunks := Split(text, DefaultConfig())

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
	}
}

func TestSplit_SizeBound(t *testing.T) {
	cfg := Config{MaxChars: 500, MinChunk: 100}
	text := strings.Repeat("A sentence about something important. ", 200)
	chunks := Split(text, cfg)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// Paragraph boundary search may overshoot by up to the window size.
	limit := cfg.MaxChars + boundaryWindow
	for i, c := range chunks {
		if len(c.Text) > limit {
			t.Errorf("chunk %d: %d chars exceeds limit %d", i, len(c.Text), limit)
		}
	}
}

func TestSplit_PrefersParagraphBreaks(t *testing.T) {
	// Two paragraphs with the break just before the naive cut point.
	para1 := strings.Repeat("x", 450)
	para2 := strings.Repeat("y", 450)
	text := para1 + "\n\n" + para2

	chunks := Split(text, Config{MaxChars: 500, MinChunk: 100})
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != para1 {
		t.Errorf("expected first chunk to end at the paragraph break, got %d chars", len(chunks[0].Text))
	}
	if chunks[1].Text != para2 {
		t.Errorf("expected second chunk to start after the break, got %d chars", len(chunks[1].Text))
	}
}

func TestSplit_FallsBackToSentenceBreaks(t *testing.T) {
	// One long paragraph, no "\n\n" anywhere: the cut should land after a
	// period+space, not mid-word.
	text := strings.Repeat("This sentence fills the chunk with words. ", 40) // ~1680 chars
	chunks := Split(text, Config{MaxChars: 500, MinChunk: 100})

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(c.Text, ".") {
			t.Errorf("chunk %d: expected sentence-boundary cut, got suffix %q", i, c.Text[len(c.Text)-10:])
		}
	}
}

func TestSplit_HardCutWithoutBoundaries(t *testing.T) {
	// No paragraph breaks, no ". " — forces hard cuts at exactly MaxChars.
	text := strings.Repeat("a", 1200)
	chunks := Split(text, Config{MaxChars: 500, MinChunk: 100})

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[0].Text) != 500 || len(chunks[1].Text) != 500 || len(chunks[2].Text) != 200 {
		t.Errorf("expected sizes [500 500 200], got [%d %d %d]",
			len(chunks[0].Text), len(chunks[1].Text), len(chunks[2].Text))
	}
}

func TestSplit_Coverage(t *testing.T) {
	// Concatenating chunks (modulo boundary whitespace) reconstructs the text.
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString(strings.Repeat("Paragraph content sentence. ", 10))
		sb.WriteString("\n\n")
	}
	text := strings.TrimSpace(sb.String())
	chunks := Split(text, DefaultConfig())

	var joined strings.Builder
	for _, c := range chunks {
		joined.WriteString(c.Text)
		joined.WriteString(" ")
	}

	// Compare with all whitespace runs normalized to a single space.
	canon := func(s string) string { return strings.Join(strings.Fields(s), " ") }
	if canon(joined.String()) != canon(text) {
		t.Error("expected chunk concatenation to reconstruct the input text")
	}
}

func TestSplit_ZeroConfigUsesDefaults(t *testing.T) {
	text := strings.Repeat("Filler sentence for default config. ", 20)
	chunks := Split(text, Config{})
	if len(chunks) != 1 {
		t.Errorf("expected 1 chunk with zero config (defaults applied), got %d", len(chunks))
	}
}

func TestSplit_TrailingFragmentDropped(t *testing.T) {
	// 500 chars of prose, then a paragraph break and a tiny tail.
	body := strings.Repeat("Words that carry the main content of the text. ", 11)
	text := strings.TrimSpace(body) + "\n\nshort tail"

	chunks := Split(text, Config{MaxChars: 520, MinChunk: 100})
	for _, c := range chunks {
		if len(c.Text) <= 100 {
			t.Errorf("expected fragments at or below 100 chars dropped, found %d-char chunk", len(c.Text))
		}
	}
}
