package live

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fluentvoice/speech-trainer/internal/ipa"
	"github.com/fluentvoice/speech-trainer/internal/prosody"
)

func postAnalyze(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AnalyzeHandler(ipa.NewClient(""))(rec, req)
	return rec
}

func TestAnalyzeQuestion(t *testing.T) {
	rec := postAnalyze(t, `{"text":"Is this correct?","confidence":0.95}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var a Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(a.Sentences) != 1 {
		t.Fatalf("sentences = %d, want 1", len(a.Sentences))
	}
	s := a.Sentences[0]
	if s.Intonation != "rising" {
		t.Errorf("intonation = %q, want rising", s.Intonation)
	}
	wantTags := []prosody.Tag{prosody.TagFunction, prosody.TagContent, prosody.TagContent, prosody.TagLiteral, prosody.TagArrowRising}
	var gotTags []prosody.Tag
	for _, sp := range s.Spans {
		if strings.TrimSpace(sp.Text) == "" {
			continue
		}
		gotTags = append(gotTags, sp.Tag)
	}
	if len(gotTags) != len(wantTags) {
		t.Fatalf("tags = %v, want %v", gotTags, wantTags)
	}
	for i := range wantTags {
		if gotTags[i] != wantTags[i] {
			t.Errorf("tag[%d] = %v, want %v", i, gotTags[i], wantTags[i])
		}
	}
	if a.Confidence.Band != "high" || a.Confidence.Label != "95.0%" {
		t.Errorf("confidence = %+v", a.Confidence)
	}
	if a.IPA != ipa.Placeholder {
		t.Errorf("ipa = %q, want placeholder with no converter configured", a.IPA)
	}
}

func TestAnalyzeThreeSentences(t *testing.T) {
	rec := postAnalyze(t, `{"text":"Hello there. Can you hear me? Great."}`)
	var a Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"falling", "rising", "falling"}
	if len(a.Sentences) != 3 {
		t.Fatalf("sentences = %d, want 3", len(a.Sentences))
	}
	for i, s := range a.Sentences {
		if s.Intonation != want[i] {
			t.Errorf("sentence %d intonation = %q, want %q", i, s.Intonation, want[i])
		}
	}
	if a.Confidence.Label != "N/A" {
		t.Errorf("label = %q, want N/A without confidence", a.Confidence.Label)
	}
}

func TestAnalyzeRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"get", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"bad json", http.MethodPost, "{", http.StatusBadRequest},
		{"empty text", http.MethodPost, `{"text":"  "}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/analyze", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			AnalyzeHandler(ipa.NewClient(""))(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
