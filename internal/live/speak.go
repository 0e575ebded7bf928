package live

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fluentvoice/speech-trainer/internal/tts"
)

// SpeakRequest is the body of POST /speak.
type SpeakRequest struct {
	Text string `json:"text"`
}

// SpeakHandler plays a transcript back through the synthesis collaborator at
// the configured slow rate. Playback of an empty transcript is refused, the
// caller should render a no-speech placeholder instead.
func SpeakHandler(opts tts.Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req SpeakRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			http.Error(w, "nothing to play", http.StatusBadRequest)
			return
		}
		if err := tts.Speak(r.Context(), opts, req.Text); err != nil {
			log.Warn().Err(err).Msg("playback failed")
			http.Error(w, "playback failed", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
