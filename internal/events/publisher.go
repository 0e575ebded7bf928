// Package events publishes finished transcription results to Kafka. When no
// brokers are configured the publisher runs in log-only mode, so the session
// controller never needs to know whether a broker exists.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/fluentvoice/speech-trainer/internal/observability"
	"github.com/fluentvoice/speech-trainer/internal/session"
)

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers []string
	Topic   string
	Enabled bool
}

// ResultEvent is the wire form of a finished transcription.
type ResultEvent struct {
	SessionID  string    `json:"session_id"`
	Transcript string    `json:"transcript"`
	Confidence string    `json:"confidence"`
	DurationMs int64     `json:"duration_ms"`
	CapturedAt time.Time `json:"captured_at"`
}

// Publisher writes result events to a single results topic.
type Publisher struct {
	writer  *kafka.Writer
	topic   string
	enabled bool
}

// New creates a publisher. A disabled config or empty broker list yields a
// log-only publisher.
func New(cfg Config) *Publisher {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("kafka disabled, publishing results in log-only mode")
		return &Publisher{topic: cfg.Topic}
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    &kafka.Transport{Dial: dialer.DialFunc},
	}

	log.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("kafka publisher initialized")
	return &Publisher{writer: writer, topic: cfg.Topic, enabled: true}
}

// PublishResult publishes one finished transcription, keyed by session id.
func (p *Publisher) PublishResult(ctx context.Context, sessionID string, res session.Result) error {
	event := ResultEvent{
		SessionID:  sessionID,
		Transcript: res.Transcript,
		Confidence: res.Display.Label,
		DurationMs: res.Utterance.Duration().Milliseconds(),
		CapturedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		observability.RecordResultPublished(err)
		return err
	}

	log.Debug().Str("topic", p.topic).Str("session", sessionID).RawJSON("payload", payload).Msg("publishing result")

	if !p.enabled || p.writer == nil {
		observability.RecordResultPublished(nil)
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(sessionID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte("transcription.result")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Error().Err(err).Str("topic", p.topic).Str("session", sessionID).Msg("kafka write failed")
		observability.RecordResultPublished(err)
		return err
	}
	observability.RecordResultPublished(nil)
	return nil
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
