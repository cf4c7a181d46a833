package summarize

import (
	"fmt"
	"strings"
)

// SectionSeparator joins partial analyses into the fuse input and the fused
// summary with the final report.
const SectionSeparator = "\n\n---\n\n"

const partialSystemPrompt = `You are a study assistant summarizing one section of a book for a student.

Summarize the section you are given in clear, plain prose:
- Cover the events, arguments, and characters in the order they appear
- Keep names, places, and dates exact
- Do not speculate about parts of the book you have not seen
- Do not add headings, bullet lists, or commentary about the task

Respond with the summary text only.`

const fuseSystemPrompt = `You are a study assistant. You are given several section summaries of the same book, in reading order, separated by "---".

Merge them into ONE coherent summary of the whole book:
- Keep chronological order
- Remove repetition between sections
- Smooth the transitions so it reads as a single narrative
- Keep names, places, and dates exact

Respond with the merged summary only.`

const finalSystemPrompt = `You are a study assistant. You are given a complete summary of a book.

Produce two parts:
1. A short analysis of the book's main themes and structure (a few paragraphs).
2. Exactly 6 exam-style questions about the book, each followed by a model answer.

Label the questions Q1 through Q6. Respond with these two parts only.`

// chunkMessage builds the user message for one chunk's analysis call.
func chunkMessage(title, author string, position, total int, text string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Book: %q by %s\n", title, author)
	fmt.Fprintf(&sb, "Section %d of %d:\n\n", position, total)
	sb.WriteString(text)
	return sb.String()
}

// fuseMessage builds the user message for the merge call.
func fuseMessage(title, author string, partials []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Book: %q by %s\n", title, author)
	fmt.Fprintf(&sb, "Section summaries (%d):\n\n", len(partials))
	sb.WriteString(strings.Join(partials, SectionSeparator))
	return sb.String()
}

// finalMessage builds the user message for the optional analysis call.
func finalMessage(title, author, fused string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Book: %q by %s\n", title, author)
	sb.WriteString("Summary:\n\n")
	sb.WriteString(fused)
	return sb.String()
}
