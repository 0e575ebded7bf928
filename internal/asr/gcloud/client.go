// Package gcloud implements the asr.Recognizer using Google Cloud
// Speech-to-Text synchronous recognition. Requires the
// GOOGLE_APPLICATION_CREDENTIALS environment variable to be set.
package gcloud

import (
	"context"
	"fmt"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"

	"github.com/fluentvoice/speech-trainer/internal/asr"
	"github.com/fluentvoice/speech-trainer/internal/audio"
	"github.com/fluentvoice/speech-trainer/internal/observability"
)

const maxAlternatives = 5

// Client is a Google Cloud Speech recognizer.
type Client struct {
	client *speech.Client
}

// New dials the Speech-to-Text API.
func New(ctx context.Context) (*Client, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", asr.ErrServiceUnavailable, err)
	}
	return &Client{client: c}, nil
}

// Transcribe runs one synchronous recognition over the utterance.
func (c *Client) Transcribe(ctx context.Context, utt audio.Utterance, opts asr.Options) (asr.Payload, error) {
	start := time.Now()
	payload, err := c.transcribe(ctx, utt, opts)
	observability.RecordASRRequest("gcloud", err, time.Since(start))
	return payload, err
}

func (c *Client) transcribe(ctx context.Context, utt audio.Utterance, opts asr.Options) (asr.Payload, error) {
	alts := int32(1)
	if opts.WantAlternatives {
		alts = maxAlternatives
	}
	resp, err := c.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: int32(utt.SampleRate),
			LanguageCode:    opts.Language,
			MaxAlternatives: alts,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: utt.Bytes()},
		},
	})
	if err != nil {
		return asr.Payload{}, fmt.Errorf("%w: %v", asr.ErrServiceUnavailable, err)
	}

	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		if !opts.WantAlternatives {
			return asr.Payload{Kind: asr.PlainTranscript, Plain: r.Alternatives[0].Transcript}, nil
		}
		out := make([]asr.Alternative, len(r.Alternatives))
		for i, a := range r.Alternatives {
			out[i] = asr.Alternative{Transcript: a.Transcript}
			if a.Confidence > 0 {
				conf := float64(a.Confidence)
				out[i].Confidence = &conf
			}
		}
		return asr.Payload{Kind: asr.Alternatives, Alternatives: out}, nil
	}
	return asr.Payload{}, asr.ErrNoSpeech
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	return c.client.Close()
}
