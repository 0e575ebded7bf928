package prosody

import (
	"regexp"
	"strings"
)

// Tag identifies what a rendered span holds so the display layer can style it
// without re-parsing the text.
type Tag string

const (
	TagContent      Tag = "content"
	TagFunction     Tag = "function"
	TagLiteral      Tag = "literal"
	TagArrowRising  Tag = "arrow_rising"
	TagArrowFalling Tag = "arrow_falling"
)

// Span is one fragment of a rendered sentence. Concatenating the Text of all
// spans reproduces a readable stress-marked line ending in an arrow.
type Span struct {
	Text string `json:"text"`
	Tag  Tag    `json:"tag"`
}

const (
	ArrowRising  = "↗"
	ArrowFalling = "↘"

	// arrowDelimiter separates the arrow from a sentence that has no
	// terminal punctuation of its own.
	arrowDelimiter = "  "
)

// tokenRe splits a sentence into words (letters and apostrophes),
// punctuation runs and whitespace runs, in order and without loss.
var (
	tokenRe = regexp.MustCompile(`[A-Za-z']+|[^A-Za-z'\s]+|\s+`)
	wordRe  = regexp.MustCompile(`^[A-Za-z']+$`)
)

// Render maps a sentence to its ordered span sequence: content words
// uppercased, function words lowercased, punctuation and whitespace passed
// through verbatim, followed by a single directional arrow span chosen from
// the sentence's intonation.
func Render(s Sentence) []Span {
	var spans []Span
	for _, tok := range tokenRe.FindAllString(s.Text, -1) {
		switch {
		case wordRe.MatchString(tok):
			if Classify(tok) == FunctionWord {
				spans = append(spans, Span{Text: strings.ToLower(tok), Tag: TagFunction})
			} else {
				spans = append(spans, Span{Text: strings.ToUpper(tok), Tag: TagContent})
			}
		default:
			spans = append(spans, Span{Text: tok, Tag: TagLiteral})
		}
	}

	arrow, tag := ArrowFalling, TagArrowFalling
	if Intonation(s) == Rising {
		arrow, tag = ArrowRising, TagArrowRising
	}
	if s.Terminal == 0 {
		arrow = arrowDelimiter + arrow
	}
	return append(spans, Span{Text: arrow, Tag: tag})
}

// RenderLine renders a sentence and concatenates its spans into one string.
func RenderLine(s Sentence) string {
	var b strings.Builder
	for _, sp := range Render(s) {
		b.WriteString(sp.Text)
	}
	return b.String()
}
