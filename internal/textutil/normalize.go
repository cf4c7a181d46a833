package textutil

import (
	"regexp"
	"strings"
)

var (
	mdImageRe = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	tagRe     = regexp.MustCompile(`<[^>]*>`)
	spaceRe   = regexp.MustCompile(`[ \t]+`)
	newlineRe = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans raw extracted text into plain prose suitable for chunking.
// It strips HTML-like tags and markdown image syntax, removes control
// characters, collapses whitespace runs, and preserves paragraph breaks as
// exactly one blank line. The result of normalizing twice equals normalizing
// once. Empty or whitespace-only input yields "".
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = mdImageRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = stripControl(s)

	s = spaceRe.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	s = strings.Join(lines, "\n")

	s = newlineRe.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}

// stripControl drops ASCII control characters (keeping newline and tab,
// which later passes handle) and Unicode replacement characters.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f || r == '�' {
			return -1
		}
		return r
	}, s)
}
