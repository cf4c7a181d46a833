package textutil

import (
	"strings"
	"testing"
)

func TestNormalize_StripsTags(t *testing.T) {
	got := Normalize("Hello <b>world</b>, how <em>are</em> you?")
	want := "Hello world , how are you?"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_StripsMarkdownImages(t *testing.T) {
	got := Normalize("Before ![cover art](https://example.com/cover.png) after.")
	want := "Before after."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_CollapsesNewlines(t *testing.T) {
	got := Normalize("Paragraph one.\n\n\n\n\nParagraph two.")
	want := "Paragraph one.\n\nParagraph two."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_CollapsesSpacesAndTabs(t *testing.T) {
	got := Normalize("a  \t b\t\tc")
	want := "a b c"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_RemovesControlCharacters(t *testing.T) {
	got := Normalize("abc\x00\x01def\x1fghi\x7f�jkl")
	want := "abcdefghijkl"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_WindowsLineEndings(t *testing.T) {
	got := Normalize("line one\r\nline two\r\rline three")
	want := "line one\nline two\n\nline three"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_TrimsLines(t *testing.T) {
	got := Normalize("   leading\ntrailing   \n\n  both  ")
	want := "leading\ntrailing\n\nboth"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_EmptyAndWhitespaceOnly(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\n", " \t \n "} {
		if got := Normalize(input); got != "" {
			t.Errorf("Normalize(%q): expected empty string, got %q", input, got)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello <b>world</b>!",
		"Para one.\n\n\n\nPara two.\n\nPara   three.",
		"![img](x.png) text\twith\ttabs",
		"plain text already clean",
		"  mixed <div>content</div>\r\n\r\n\r\nwith ![a](b) everything  ",
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\n once: %q\ntwice: %q", input, once, twice)
		}
	}
}

func TestNormalize_PreservesParagraphStructure(t *testing.T) {
	input := "First paragraph with\nan internal line break.\n\nSecond paragraph."
	got := Normalize(input)
	if !strings.Contains(got, "\n\n") {
		t.Errorf("expected paragraph break preserved, got %q", got)
	}
	if strings.Count(got, "\n\n") != 1 {
		t.Errorf("expected exactly 1 paragraph break, got %d in %q", strings.Count(got, "\n\n"), got)
	}
}
