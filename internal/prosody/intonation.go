package prosody

import "regexp"

// Label is the sentence-final intonation contour.
type Label int

const (
	Falling Label = iota
	Rising
)

func (l Label) String() string {
	if l == Rising {
		return "rising"
	}
	return "falling"
}

var firstWordRe = regexp.MustCompile(`[A-Za-z']+`)

// Intonation classifies a sentence as Rising (yes/no question) or Falling.
//
// A terminal '?' always wins Rising, whatever the first word is; wh-questions
// with a question mark therefore classify Rising too. Without a '?', a
// fronted auxiliary/modal first word is treated as an implied yes/no question
// and classifies Rising. Everything else falls.
func Intonation(s Sentence) Label {
	if s.Terminal == '?' {
		return Rising
	}
	if first := firstWordRe.FindString(s.Text); first != "" && IsAuxStarter(first) {
		return Rising
	}
	return Falling
}
