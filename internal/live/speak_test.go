package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fluentvoice/speech-trainer/internal/tts"
)

func TestSpeakHandler(t *testing.T) {
	synth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer synth.Close()

	tests := []struct {
		name string
		opts tts.Options
		body string
		want int
	}{
		{"plays transcript", tts.Options{BaseURL: synth.URL, Voice: "en-default", Rate: 140}, `{"text":"the cat sat"}`, http.StatusNoContent},
		{"empty text refused", tts.Options{BaseURL: synth.URL}, `{"text":" "}`, http.StatusBadRequest},
		{"bad body", tts.Options{BaseURL: synth.URL}, `{`, http.StatusBadRequest},
		{"unconfigured service", tts.Options{}, `{"text":"hello"}`, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/speak", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			SpeakHandler(tt.opts)(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSpeakHandlerMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/speak", nil)
	rec := httptest.NewRecorder()
	SpeakHandler(tts.Options{})(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
