// Package prosody turns a transcript into stress-marked, intonation-annotated
// feedback: sentence segmentation, yes/no-question classification and span
// rendering. Everything in this package is a pure function of its input, so
// it can be unit tested without any capture or ASR machinery.
package prosody

import "strings"

// WordClass labels a word token as stressed (content) or unstressed (function).
type WordClass int

const (
	ContentWord WordClass = iota
	FunctionWord
)

func (c WordClass) String() string {
	if c == FunctionWord {
		return "function"
	}
	return "content"
}

// functionWords is the fixed closed-class set: articles, conjunctions,
// prepositions, personal pronouns and possessives, forms of be/have/do, and
// modal verbs. Demonstratives (this, that) are deliberately absent: they
// carry stress when used as subjects, so they render as content words.
// Unknown tokens are treated as open-class (content) words.
var functionWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a an the and but or for nor so yet
		at by from in into of off on onto over out up with to as
		is am are was were be been being
		have has had do does did
		can could will would shall should may might must
		i you he she it we they me him her us them
		my your his its our their
		not no if than then there here also very just only about
	`) {
		functionWords[w] = struct{}{}
	}
}

// auxStarters are the auxiliary/modal verbs that open a canonical yes/no
// question ("Is this correct?", "Can you hear me?").
var auxStarters = map[string]struct{}{
	"is": {}, "are": {}, "am": {}, "was": {}, "were": {},
	"do": {}, "does": {}, "did": {},
	"have": {}, "has": {}, "had": {},
	"can": {}, "could": {}, "will": {}, "would": {},
	"shall": {}, "should": {}, "may": {}, "might": {}, "must": {},
}

// Classify reports whether a word token is a function or content word.
// The lookup is case-insensitive and depends only on the lowercased token.
func Classify(token string) WordClass {
	if _, ok := functionWords[strings.ToLower(token)]; ok {
		return FunctionWord
	}
	return ContentWord
}

// IsAuxStarter reports whether word is an auxiliary/modal yes/no-question
// starter.
func IsAuxStarter(word string) bool {
	_, ok := auxStarters[strings.ToLower(word)]
	return ok
}
