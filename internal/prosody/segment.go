package prosody

import "strings"

// Sentence is one sentence-like unit of a transcript. Text is the trimmed
// span including the terminal punctuation mark; Terminal is that mark, or 0
// when the span ran to the end of the input without one.
type Sentence struct {
	Text     string
	Terminal rune
}

func isTerminal(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}

// Segment splits a transcript into sentences on '.', '?' and '!', preserving
// each terminal mark. A trailing span with no terminal mark is kept unless it
// is blank. Only boundary whitespace is trimmed; interior whitespace is left
// untouched, so re-segmenting the joined output yields the same sequence.
func Segment(text string) []Sentence {
	var out []Sentence
	start := 0
	for i, r := range text {
		if !isTerminal(r) {
			continue
		}
		span := strings.TrimSpace(text[start : i+1])
		if span != "" {
			out = append(out, Sentence{Text: span, Terminal: r})
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		out = append(out, Sentence{Text: tail})
	}
	return out
}

// Join reassembles segmented sentences into a single line, one space between
// sentences. Used by callers that want the normalized transcript back.
func Join(sentences []Sentence) string {
	parts := make([]string, len(sentences))
	for i, s := range sentences {
		parts[i] = s.Text
	}
	return strings.Join(parts, " ")
}
