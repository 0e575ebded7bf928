// Package ipa talks to the phonetic-spelling collaborator. Conversion is
// best-effort: any failure degrades to a fixed placeholder instead of
// surfacing as a session error.
package ipa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fluentvoice/speech-trainer/internal/observability"
	"github.com/fluentvoice/speech-trainer/internal/resilience"
)

// Placeholder is shown when phonetic conversion is unavailable.
const Placeholder = "(IPA unavailable)"

// Client converts text to IPA via an HTTP service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      *resilience.RetryConfig
}

// NewClient creates a phonetic conversion client. An empty baseURL disables
// the collaborator; Convert then always returns the placeholder.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry: &resilience.RetryConfig{
			MaxAttempts:    2,
			InitialBackoff: 200 * time.Millisecond,
			MaxBackoff:     time.Second,
			Multiplier:     2.0,
			Jitter:         true,
		},
	}
}

type convertRequest struct {
	Text string `json:"text"`
}

type convertResponse struct {
	IPA string `json:"ipa"`
}

// Convert returns the IPA rendering of text, or the placeholder when the
// collaborator is disabled, unreachable, or answers garbage.
func (c *Client) Convert(ctx context.Context, text string) string {
	if c.baseURL == "" || text == "" {
		return Placeholder
	}

	var out convertResponse
	err := resilience.Retry(ctx, func() error {
		return c.convert(ctx, text, &out)
	}, c.retry, nil)

	observability.RecordIPARequest(err)
	if err != nil {
		log.Warn().Err(err).Msg("phonetic conversion failed, using placeholder")
		return Placeholder
	}
	if out.IPA == "" {
		return Placeholder
	}
	return out.IPA
}

func (c *Client) convert(ctx context.Context, text string, out *convertResponse) error {
	payload, err := json.Marshal(convertRequest{Text: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/convert", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ipa service returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Check probes the collaborator for the readiness endpoint.
func (c *Client) Check(ctx context.Context) error {
	if c.baseURL == "" {
		return nil // disabled is a valid configuration
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ipa service returned status %d", resp.StatusCode)
	}
	return nil
}
