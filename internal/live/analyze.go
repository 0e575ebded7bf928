// Package live exposes the trainer over HTTP: a one-shot analysis endpoint
// for already-transcribed text and a WebSocket endpoint that runs a full
// recording session over audio streamed in by the client.
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fluentvoice/speech-trainer/internal/asr"
	"github.com/fluentvoice/speech-trainer/internal/ipa"
	"github.com/fluentvoice/speech-trainer/internal/prosody"
)

// AnalyzeRequest is the body of POST /analyze. Confidence is optional; when
// the caller has none the display degrades to N/A.
type AnalyzeRequest struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// SentenceAnalysis is the per-sentence output: question classification plus
// the rendered stress spans.
type SentenceAnalysis struct {
	Text       string         `json:"text"`
	Intonation string         `json:"intonation"`
	Line       string         `json:"line"`
	Spans      []prosody.Span `json:"spans"`
}

// ConfidenceDisplay mirrors asr.Display on the wire.
type ConfidenceDisplay struct {
	Band       string  `json:"band"`
	Normalized float64 `json:"normalized"`
	Label      string  `json:"label"`
}

// Analysis is the full response for one transcript.
type Analysis struct {
	Transcript string             `json:"transcript"`
	Confidence ConfidenceDisplay  `json:"confidence"`
	IPA        string             `json:"ipa"`
	Sentences  []SentenceAnalysis `json:"sentences"`
}

func buildAnalysis(ctx context.Context, ipaClient *ipa.Client, transcript string, conf asr.Confidence) Analysis {
	display := asr.DisplayConfidence(conf)
	out := Analysis{
		Transcript: transcript,
		Confidence: ConfidenceDisplay{
			Band:       string(display.Band),
			Normalized: display.Normalized,
			Label:      display.Label,
		},
		IPA: ipa.Placeholder,
	}
	if ipaClient != nil {
		out.IPA = ipaClient.Convert(ctx, transcript)
	}
	for _, s := range prosody.Segment(transcript) {
		out.Sentences = append(out.Sentences, SentenceAnalysis{
			Text:       s.Text,
			Intonation: prosody.Intonation(s).String(),
			Line:       prosody.RenderLine(s),
			Spans:      prosody.Render(s),
		})
	}
	return out
}

// AnalyzeHandler serves POST /analyze.
func AnalyzeHandler(ipaClient *ipa.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			http.Error(w, "text is required", http.StatusBadRequest)
			return
		}

		conf := asr.Unknown
		if req.Confidence != nil {
			conf = asr.Known(*req.Confidence)
		}
		analysis := buildAnalysis(r.Context(), ipaClient, strings.TrimSpace(req.Text), conf)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(analysis); err != nil {
			log.Error().Err(err).Msg("failed to encode analysis response")
		}
	}
}
