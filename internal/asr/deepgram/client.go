// Package deepgram implements the asr.Recognizer over Deepgram's streaming
// WebSocket API, scoped to a single utterance per call: connect, write the
// captured PCM, finish, and wait for the final result.
package deepgram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	websocketv1api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/websocket"
	msginterfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/websocket/interfaces"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	listenClient "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"
	"github.com/rs/zerolog/log"

	"github.com/fluentvoice/speech-trainer/internal/asr"
	"github.com/fluentvoice/speech-trainer/internal/audio"
	"github.com/fluentvoice/speech-trainer/internal/observability"
)

const (
	writeChunkBytes = 4096
	resultTimeout   = 20 * time.Second
)

// Client is a Deepgram recognizer. It holds credentials only; each Transcribe
// call opens and tears down its own WebSocket connection.
type Client struct {
	apiKey string
	model  string
}

// New creates a recognizer with the given API key and model.
func New(apiKey, model string) *Client {
	return &Client{apiKey: apiKey, model: model}
}

// callbackHandler embeds the default handler and overrides only the message
// and error callbacks.
type callbackHandler struct {
	*websocketv1api.DefaultCallbackHandler
	onMessage func(*msginterfaces.MessageResponse)
	onError   func(*msginterfaces.ErrorResponse)
}

func (h *callbackHandler) Message(msg *msginterfaces.MessageResponse) error {
	h.onMessage(msg)
	return nil
}

func (h *callbackHandler) Error(errResp *msginterfaces.ErrorResponse) error {
	h.onError(errResp)
	return nil
}

// Transcribe streams one utterance and returns the concatenated final
// transcript with the first segment's confidence.
func (c *Client) Transcribe(ctx context.Context, utt audio.Utterance, opts asr.Options) (asr.Payload, error) {
	start := time.Now()
	payload, err := c.transcribe(ctx, utt, opts)
	observability.RecordASRRequest("deepgram", err, time.Since(start))
	return payload, err
}

func (c *Client) transcribe(ctx context.Context, utt audio.Utterance, opts asr.Options) (asr.Payload, error) {
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type segment struct {
		transcript string
		confidence float64
	}
	var mu sync.Mutex
	var segments []segment
	done := make(chan struct{})
	errCh := make(chan error, 1)

	callback := &callbackHandler{
		DefaultCallbackHandler: websocketv1api.NewDefaultCallbackHandler(),
		onMessage: func(msg *msginterfaces.MessageResponse) {
			if msg == nil {
				return
			}
			switch msg.Type {
			case "Results", "Message":
				if !msg.IsFinal || len(msg.Channel.Alternatives) == 0 {
					return
				}
				alt := msg.Channel.Alternatives[0]
				if alt.Transcript == "" {
					return
				}
				mu.Lock()
				segments = append(segments, segment{transcript: alt.Transcript, confidence: alt.Confidence})
				mu.Unlock()
				if msg.SpeechFinal {
					select {
					case done <- struct{}{}:
					default:
					}
				}
			default:
			}
		},
		onError: func(errResp *msginterfaces.ErrorResponse) {
			log.Warn().Str("backend", "deepgram").Interface("response", errResp).Msg("transcription error")
			select {
			case errCh <- fmt.Errorf("%w: deepgram: %s", asr.ErrServiceUnavailable, errResp.Description):
			default:
			}
		},
	}

	tOptions := &interfaces.LiveTranscriptionOptions{
		Model:          c.model,
		Language:       normalizeLanguage(opts.Language),
		Punctuate:      true,
		InterimResults: false,
		Encoding:       "linear16",
		Channels:       1,
		SampleRate:     utt.SampleRate,
	}

	client, err := listenClient.NewWSUsingCallback(connCtx, c.apiKey, nil, tOptions, callback)
	if err != nil {
		return asr.Payload{}, fmt.Errorf("%w: %v", asr.ErrServiceUnavailable, err)
	}

	data := utt.Bytes()
	for off := 0; off < len(data); off += writeChunkBytes {
		end := off + writeChunkBytes
		if end > len(data) {
			end = len(data)
		}
		if _, err := client.Write(data[off:end]); err != nil {
			return asr.Payload{}, fmt.Errorf("%w: %v", asr.ErrServiceUnavailable, err)
		}
	}
	client.Finish()

	timer := time.NewTimer(resultTimeout)
	defer timer.Stop()
	select {
	case <-done:
	case err := <-errCh:
		return asr.Payload{}, err
	case <-ctx.Done():
		return asr.Payload{}, ctx.Err()
	case <-timer.C:
		// Finish was sent; whatever finals arrived by now are all we get.
	}

	mu.Lock()
	defer mu.Unlock()
	if len(segments) == 0 {
		return asr.Payload{}, asr.ErrNoSpeech
	}

	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.transcript
	}
	transcript := strings.Join(parts, " ")
	if transcript == "" {
		return asr.Payload{}, asr.ErrNoSpeech
	}

	alt := asr.Alternative{Transcript: transcript}
	if segments[0].confidence > 0 {
		conf := segments[0].confidence
		alt.Confidence = &conf
	}
	if !opts.WantAlternatives {
		return asr.Payload{Kind: asr.PlainTranscript, Plain: transcript}, nil
	}
	return asr.Payload{Kind: asr.Alternatives, Alternatives: []asr.Alternative{alt}}, nil
}

// normalizeLanguage maps BCP-47 tags to Deepgram's short codes, e.g. en-US
// stays en-US but a bare locale like en is passed through.
func normalizeLanguage(lang string) string {
	if lang == "" {
		return "en-US"
	}
	return lang
}
