package asr

import "fmt"

// Confidence is a transcript reliability score in [0,1], or unknown when the
// service reported none. A missing confidence is never replaced with a
// fabricated 1.0.
type Confidence struct {
	Value float64 `json:"value"`
	Known bool    `json:"known"`
}

// Unknown is the zero Confidence.
var Unknown = Confidence{}

// Known wraps a reported confidence value.
func Known(v float64) Confidence {
	return Confidence{Value: v, Known: true}
}

// ExtractConfidence applies the first-alternative-only rule: take the
// confidence of the top-ranked alternative if the service reported one,
// otherwise unknown. Malformed and plain-transcript payloads have no
// confidence to extract.
func ExtractConfidence(p Payload) Confidence {
	if p.Kind != Alternatives || len(p.Alternatives) == 0 {
		return Unknown
	}
	if c := p.Alternatives[0].Confidence; c != nil {
		return Known(*c)
	}
	return Unknown
}

// Band buckets a confidence score for display.
type Band string

const (
	BandUnknown Band = "unknown"
	BandLow     Band = "low"
	BandMedium  Band = "medium"
	BandHigh    Band = "high"
)

// Display is the consumer-facing rendering of a confidence score.
type Display struct {
	Band       Band    `json:"band"`
	Normalized float64 `json:"normalized"`
	Label      string  `json:"label"`
}

// DisplayConfidence maps a confidence to its display band: below 65% is low,
// below 85% is medium, the rest high. Unknown maps to an empty gauge labelled
// "N/A". Normalized is clamped into [0,1].
func DisplayConfidence(c Confidence) Display {
	if !c.Known {
		return Display{Band: BandUnknown, Normalized: 0, Label: "N/A"}
	}

	pct := c.Value * 100
	band := BandHigh
	switch {
	case pct < 65:
		band = BandLow
	case pct < 85:
		band = BandMedium
	}

	normalized := c.Value
	if normalized < 0 {
		normalized = 0
	} else if normalized > 1 {
		normalized = 1
	}

	return Display{
		Band:       band,
		Normalized: normalized,
		Label:      fmt.Sprintf("%.1f%%", pct),
	}
}
