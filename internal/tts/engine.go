// Package tts drives the playback collaborator. The synthesis engine is a
// one-shot scoped resource: acquired per utterance and released when the call
// returns, so a wedged engine can never poison later playbacks.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fluentvoice/speech-trainer/internal/observability"
)

// Options identify the playback service and voice settings.
type Options struct {
	BaseURL string
	Voice   string
	Rate    int // words per minute
}

type speakRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
	Rate  int    `json:"rate"`
}

// engine is the per-call scoped resource.
type engine struct {
	httpClient *http.Client
	opts       Options
}

func newEngine(opts Options) *engine {
	return &engine{
		// No client timeout: playback blocks for the length of the
		// utterance and the service decides when it is done.
		httpClient: &http.Client{},
		opts:       opts,
	}
}

func (e *engine) speak(ctx context.Context, text string) error {
	payload, err := json.Marshal(speakRequest{
		Text:  text,
		Voice: e.opts.Voice,
		Rate:  e.opts.Rate,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.opts.BaseURL+"/speak", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("playback request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("playback service returned status %d", resp.StatusCode)
	}

	// Fire and wait for completion: the service holds the response open
	// until playback finishes.
	_, err = io.Copy(io.Discard, resp.Body)
	return err
}

func (e *engine) close() {
	e.httpClient.CloseIdleConnections()
}

// Speak synthesizes and plays a transcript at the configured rate, blocking
// until playback completes or fails. An empty transcript is a no-op. A
// disabled collaborator (empty BaseURL) is an error the caller reports as a
// status message; it never aborts a session.
func Speak(ctx context.Context, opts Options, transcript string) error {
	if transcript == "" {
		return nil
	}
	if opts.BaseURL == "" {
		return fmt.Errorf("playback service not configured")
	}

	start := time.Now()
	e := newEngine(opts)
	defer e.close()

	err := e.speak(ctx, transcript)
	observability.RecordTTSRequest(err)
	if err != nil {
		log.Warn().Err(err).Msg("playback failed")
		return err
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("playback complete")
	return nil
}
