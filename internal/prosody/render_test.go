package prosody

import (
	"strings"
	"testing"
)

func spansEqual(t *testing.T, got, want []Span) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d spans, want %d: %+v", len(got), len(want), got)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRender_AuxQuestion(t *testing.T) {
	s := Segment("Is this correct?")[0]
	spansEqual(t, Render(s), []Span{
		{"is", TagFunction},
		{" ", TagLiteral},
		{"THIS", TagContent},
		{" ", TagLiteral},
		{"CORRECT", TagContent},
		{"?", TagLiteral},
		{ArrowRising, TagArrowRising},
	})
}

func TestRender_Statement(t *testing.T) {
	s := Segment("The cat sat on the mat.")[0]
	spansEqual(t, Render(s), []Span{
		{"the", TagFunction},
		{" ", TagLiteral},
		{"CAT", TagContent},
		{" ", TagLiteral},
		{"SAT", TagContent},
		{" ", TagLiteral},
		{"on", TagFunction},
		{" ", TagLiteral},
		{"the", TagFunction},
		{" ", TagLiteral},
		{"MAT", TagContent},
		{".", TagLiteral},
		{ArrowFalling, TagArrowFalling},
	})
}

func TestRender_ApostrophePreserved(t *testing.T) {
	s := Segment("don't stop")[0]
	spans := Render(s)
	if spans[0].Text != "DON'T" || spans[0].Tag != TagContent {
		t.Errorf("expected DON'T content span, got %+v", spans[0])
	}
}

func TestRender_ArrowDelimiter(t *testing.T) {
	// A sentence without terminal punctuation gets a two-space delimiter
	// before the arrow; punctuated sentences do not.
	unpunctuated := Segment("can you hear me")[0]
	spans := Render(unpunctuated)
	last := spans[len(spans)-1]
	if last.Text != "  "+ArrowRising || last.Tag != TagArrowRising {
		t.Errorf("expected delimited rising arrow, got %+v", last)
	}

	punctuated := Segment("Great.")[0]
	spans = Render(punctuated)
	last = spans[len(spans)-1]
	if last.Text != ArrowFalling || last.Tag != TagArrowFalling {
		t.Errorf("expected bare falling arrow, got %+v", last)
	}
}

func TestRenderLine(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Is this correct?", "is THIS CORRECT?" + ArrowRising},
		{"The cat sat on the mat.", "the CAT SAT on the MAT." + ArrowFalling},
		{"can you hear me", "can you HEAR me  " + ArrowRising},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			s := Segment(tt.text)[0]
			if got := RenderLine(s); got != tt.want {
				t.Errorf("RenderLine(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestRender_MultipleSentences(t *testing.T) {
	sentences := Segment("Hello there. Can you hear me? Great.")
	if len(sentences) != 3 {
		t.Fatalf("expected 3 sentences, got %d", len(sentences))
	}

	wantLabels := []Label{Falling, Rising, Falling}
	for i, s := range sentences {
		if got := Intonation(s); got != wantLabels[i] {
			t.Errorf("sentence %d intonation = %v, want %v", i, got, wantLabels[i])
		}
	}

	// Each sentence renders independently and ends in exactly one arrow span.
	for i, s := range sentences {
		spans := Render(s)
		last := spans[len(spans)-1]
		if last.Tag != TagArrowRising && last.Tag != TagArrowFalling {
			t.Errorf("sentence %d: last span is %+v, want an arrow", i, last)
		}
		for _, sp := range spans[:len(spans)-1] {
			if strings.Contains(sp.Text, ArrowRising) || strings.Contains(sp.Text, ArrowFalling) {
				t.Errorf("sentence %d: arrow glyph in non-arrow span %+v", i, sp)
			}
		}
	}
}
