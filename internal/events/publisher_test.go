package events

import (
	"context"
	"testing"
	"time"

	"github.com/fluentvoice/speech-trainer/internal/asr"
	"github.com/fluentvoice/speech-trainer/internal/audio"
	"github.com/fluentvoice/speech-trainer/internal/session"
)

func TestLogOnlyModeNeverErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"disabled", Config{Enabled: false, Brokers: []string{"broker:9092"}, Topic: "results"}},
		{"no brokers", Config{Enabled: true, Topic: "results"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			res := session.Result{
				Transcript: "is this correct",
				Confidence: asr.Known(0.9),
				Display:    asr.DisplayConfidence(asr.Known(0.9)),
				Utterance:  audio.Utterance{Samples: make([]int16, 16000), SampleRate: 16000},
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := p.PublishResult(ctx, "session-1", res); err != nil {
				t.Fatalf("PublishResult() error = %v", err)
			}
			if err := p.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
		})
	}
}
