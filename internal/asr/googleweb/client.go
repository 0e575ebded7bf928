// Package googleweb implements the asr.Recognizer against the Google Web
// Speech API: one HTTP POST of raw PCM per utterance, answered by
// line-delimited JSON results whose alternatives optionally carry confidence.
package googleweb

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fluentvoice/speech-trainer/internal/asr"
	"github.com/fluentvoice/speech-trainer/internal/audio"
	"github.com/fluentvoice/speech-trainer/internal/observability"
)

const defaultMaxAlternatives = 5

// Client is a Google Web Speech recognizer.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// New creates a recognizer against the given endpoint. The API key may be
// empty for the public endpoint.
func New(endpoint, apiKey string) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// response frames one result line. Each result element keeps its raw JSON so
// the shared boundary decoder owns the alternative shape.
type response struct {
	Result      []json.RawMessage `json:"result"`
	ResultIndex int               `json:"result_index"`
}

// Transcribe sends one utterance and decodes the first non-empty result.
func (c *Client) Transcribe(ctx context.Context, utt audio.Utterance, opts asr.Options) (asr.Payload, error) {
	start := time.Now()
	payload, err := c.transcribe(ctx, utt, opts)
	observability.RecordASRRequest("googleweb", err, time.Since(start))
	return payload, err
}

func (c *Client) transcribe(ctx context.Context, utt audio.Utterance, opts asr.Options) (asr.Payload, error) {
	q := url.Values{}
	q.Set("client", "chromium")
	q.Set("lang", opts.Language)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	maxAlts := 1
	if opts.WantAlternatives {
		maxAlts = defaultMaxAlternatives
	}
	q.Set("maxAlternatives", strconv.Itoa(maxAlts))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?"+q.Encode(), bytes.NewReader(utt.Bytes()))
	if err != nil {
		return asr.Payload{}, fmt.Errorf("%w: %v", asr.ErrServiceUnavailable, err)
	}
	req.Header.Set("Content-Type", fmt.Sprintf("audio/l16; rate=%d", utt.SampleRate))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return asr.Payload{}, fmt.Errorf("%w: %v", asr.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return asr.Payload{}, fmt.Errorf("%w: status %d", asr.ErrServiceUnavailable, resp.StatusCode)
	}

	// The service streams one JSON document per line; the first lines are
	// usually empty results that must be skipped.
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var r response
		if err := json.Unmarshal(line, &r); err != nil {
			log.Debug().Err(err).Msg("skipping undecodable result line")
			continue
		}
		for _, result := range r.Result {
			payload := asr.DecodeJSON(result)
			if payload.Kind != asr.Alternatives || len(payload.Alternatives) == 0 {
				continue
			}
			if !opts.WantAlternatives {
				return asr.Payload{Kind: asr.PlainTranscript, Plain: payload.Transcript()}, nil
			}
			return payload, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return asr.Payload{}, fmt.Errorf("%w: %v", asr.ErrServiceUnavailable, err)
	}

	// The service answered but understood nothing.
	return asr.Payload{}, asr.ErrNoSpeech
}

// Check issues a HEAD request against the endpoint for the readiness handler.
func (c *Client) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
