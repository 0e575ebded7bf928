// Package asr defines what the core needs from a speech-recognition
// collaborator: a payload shape decoded at the service boundary, a confidence
// extraction policy, and the failure taxonomy shared by all backends.
package asr

import "encoding/json"

// Kind tags the decoded payload variant so core logic never branches on raw
// dynamic shapes.
type Kind int

const (
	// Malformed means the payload carried nothing usable.
	Malformed Kind = iota
	// Alternatives means the payload carried ranked alternatives, each with
	// a transcript and an optional confidence.
	Alternatives
	// PlainTranscript means the payload was a bare transcript string.
	PlainTranscript
)

// Alternative is one ranked recognition hypothesis. Confidence is nil when
// the service omitted the field for this alternative.
type Alternative struct {
	Transcript string   `json:"transcript"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Payload is the decoded form of a raw ASR response.
type Payload struct {
	Kind         Kind          `json:"kind"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
	Plain        string        `json:"plain,omitempty"`
}

// Transcript returns the best transcript in the payload: the first
// alternative by the service's own ranking, or the plain string. Returns ""
// for malformed payloads.
func (p Payload) Transcript() string {
	switch p.Kind {
	case Alternatives:
		if len(p.Alternatives) > 0 {
			return p.Alternatives[0].Transcript
		}
	case PlainTranscript:
		return p.Plain
	}
	return ""
}

// Decode turns an arbitrary decoded JSON value into a Payload. It accepts the
// two shapes recognition services are known to return, a mapping with an
// "alternative" list or a bare string, and maps everything else to Malformed.
// It never panics on any input.
func Decode(v any) Payload {
	switch raw := v.(type) {
	case string:
		if raw == "" {
			return Payload{Kind: Malformed}
		}
		return Payload{Kind: PlainTranscript, Plain: raw}
	case map[string]any:
		list, ok := raw["alternative"].([]any)
		if !ok {
			return Payload{Kind: Malformed}
		}
		alts := make([]Alternative, 0, len(list))
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			var alt Alternative
			if s, ok := m["transcript"].(string); ok {
				alt.Transcript = s
			}
			if c, ok := m["confidence"].(float64); ok {
				conf := c
				alt.Confidence = &conf
			}
			alts = append(alts, alt)
		}
		return Payload{Kind: Alternatives, Alternatives: alts}
	default:
		return Payload{Kind: Malformed}
	}
}

// DecodeJSON decodes a raw JSON document into a Payload. Invalid JSON maps to
// Malformed rather than an error; a missing payload is a degraded result, not
// a failure.
func DecodeJSON(data []byte) Payload {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Payload{Kind: Malformed}
	}
	return Decode(v)
}
