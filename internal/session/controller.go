// Package session drives one recording at a time through the
// capture/transcribe state machine and hands results to the consumer over a
// polled channel. The consumer context never blocks; the worker goroutine is
// the only place microphone and recognizer calls may block.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fluentvoice/speech-trainer/internal/asr"
	"github.com/fluentvoice/speech-trainer/internal/audio"
	"github.com/fluentvoice/speech-trainer/internal/mic"
	"github.com/fluentvoice/speech-trainer/internal/observability"
)

// State is the controller's externally visible phase.
type State string

const (
	StateIdle         State = "idle"
	StateListening    State = "listening"
	StateTranscribing State = "transcribing"
	StateReady        State = "ready"
	StateNoSpeech     State = "no_speech"
	StateFailed       State = "failed"
)

// FailReason classifies a Failed state. A capture that simply heard nothing
// is NoSpeech, not Failed.
type FailReason string

const (
	ReasonServiceUnreachable FailReason = "service-unreachable"
	ReasonMicUnavailable     FailReason = "microphone-unavailable"
)

// Result is the successful outcome of one recording.
type Result struct {
	Transcript string
	Confidence asr.Confidence
	Display    asr.Display
	Utterance  audio.Utterance
}

// Message is the worker's handoff payload. It is a self-contained value;
// consumers discard messages whose Generation no longer matches the session.
type Message struct {
	Generation uint64
	State      State
	Result     *Result
	Reason     FailReason
	Err        error
}

// Publisher receives successful results, e.g. for a downstream event stream.
type Publisher interface {
	PublishResult(ctx context.Context, sessionID string, res Result) error
}

// Config carries the controller's collaborator settings.
type Config struct {
	Mic       mic.Config
	Language  string
	Publisher Publisher
}

// Controller owns at most one active capture worker. Start, Poll and Clear
// are called from the consumer context; everything else runs on the worker.
type Controller struct {
	id         string
	source     mic.Source
	recognizer asr.Recognizer
	cfg        Config
	logger     zerolog.Logger

	mu         sync.Mutex
	state      State
	reason     FailReason
	result     *Result
	generation uint64
	active     bool

	msgs chan Message
}

// New creates an idle controller over the given source and recognizer.
func New(source mic.Source, recognizer asr.Recognizer, cfg Config) *Controller {
	id := uuid.New().String()
	return &Controller{
		id:         id,
		source:     source,
		recognizer: recognizer,
		cfg:        cfg,
		logger:     observability.WithCorrelationID(id),
		state:      StateIdle,
		msgs:       make(chan Message, 4),
	}
}

// ID returns the session correlation id.
func (c *Controller) ID() string { return c.id }

// State returns the current visible state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result returns the last dequeued result, if any.
func (c *Controller) Result() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Start spawns the capture worker. It is a no-op returning false while a
// worker is already active.
func (c *Controller) Start(ctx context.Context) bool {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return false
	}
	c.active = true
	c.state = StateListening
	c.result = nil
	c.reason = ""
	// Each Start opens a new logical session: bump the generation so a
	// leftover message from an earlier, never-polled capture can not
	// surface as this session's result, and drop anything still queued.
	c.generation++
	gen := c.generation
	c.mu.Unlock()
	c.drain()

	observability.RecordSessionStart()
	c.logger.Info().Uint64("generation", gen).Msg("recording started")

	go c.run(ctx, gen)
	return true
}

func (c *Controller) run(ctx context.Context, gen uint64) {
	msg := c.capture(ctx, gen)

	// The handoff must never block the worker; the channel is buffered and
	// a full buffer means the consumer is gone, so the message is dropped.
	select {
	case c.msgs <- msg:
	default:
		c.logger.Warn().Uint64("generation", gen).Msg("handoff queue full, dropping message")
	}

	observability.RecordSessionEnd(string(msg.State))

	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
}

func (c *Controller) capture(ctx context.Context, gen uint64) Message {
	if err := c.source.Open(); err != nil {
		c.logger.Error().Err(err).Msg("microphone open failed")
		observability.RecordError("mic_unavailable", "session")
		return Message{Generation: gen, State: StateFailed, Reason: ReasonMicUnavailable, Err: err}
	}
	defer c.source.Close()

	utt, err := mic.Listen(ctx, c.source, c.cfg.Mic)
	if err != nil {
		if errors.Is(err, mic.ErrNoAudio) {
			c.logger.Info().Msg("capture ended without speech")
			return Message{Generation: gen, State: StateNoSpeech}
		}
		c.logger.Error().Err(err).Msg("capture failed")
		observability.RecordError("capture", "session")
		return Message{Generation: gen, State: StateFailed, Reason: ReasonMicUnavailable, Err: err}
	}
	observability.RecordUtterance(utt.Duration())
	c.setState(gen, StateTranscribing)
	c.logger.Debug().Dur("duration", utt.Duration()).Msg("utterance captured")

	payload, err := c.recognizer.Transcribe(ctx, utt, asr.Options{Language: c.cfg.Language, WantAlternatives: true})
	if err == nil && strings.TrimSpace(payload.Transcript()) == "" {
		// The rich form produced nothing usable; retry in plain form before
		// reporting no speech.
		if plain, perr := c.recognizer.Transcribe(ctx, utt, asr.Options{Language: c.cfg.Language}); perr == nil {
			payload = plain
		}
	}
	if err != nil {
		if errors.Is(err, asr.ErrNoSpeech) {
			c.logger.Info().Msg("recognizer heard no speech")
			return Message{Generation: gen, State: StateNoSpeech}
		}
		c.logger.Error().Err(err).Msg("transcription failed")
		observability.RecordError("asr", "session")
		return Message{Generation: gen, State: StateFailed, Reason: ReasonServiceUnreachable, Err: err}
	}

	transcript := strings.TrimSpace(payload.Transcript())
	if transcript == "" {
		return Message{Generation: gen, State: StateNoSpeech}
	}

	conf := asr.ExtractConfidence(payload)
	res := Result{
		Transcript: transcript,
		Confidence: conf,
		Display:    asr.DisplayConfidence(conf),
		Utterance:  utt,
	}
	c.logger.Info().Str("transcript", transcript).Str("confidence", res.Display.Label).Msg("transcription ready")

	if c.cfg.Publisher != nil {
		if perr := c.cfg.Publisher.PublishResult(ctx, c.id, res); perr != nil {
			c.logger.Warn().Err(perr).Msg("result publish failed")
		}
	}
	return Message{Generation: gen, State: StateReady, Result: &res}
}

// Poll dequeues one pending message without blocking. Messages tagged with a
// stale generation are discarded. The returned bool reports whether a live
// message was applied.
func (c *Controller) Poll() (Message, bool) {
	select {
	case msg := <-c.msgs:
		c.mu.Lock()
		defer c.mu.Unlock()
		if msg.Generation != c.generation {
			return Message{}, false
		}
		c.state = msg.State
		c.result = msg.Result
		c.reason = msg.Reason
		return msg, true
	default:
		return Message{}, false
	}
}

// Clear resets to Idle and bumps the generation so any in-flight worker's
// message is discarded on arrival.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.state = StateIdle
	c.result = nil
	c.reason = ""
}

// setState applies a worker-side transition only while the worker's
// generation is still current. A worker orphaned by Clear or a restart must
// not touch the visible state.
func (c *Controller) setState(gen uint64, s State) {
	c.mu.Lock()
	if gen == c.generation {
		c.state = s
	}
	c.mu.Unlock()
}

// drain empties the handoff queue without blocking.
func (c *Controller) drain() {
	for {
		select {
		case <-c.msgs:
		default:
			return
		}
	}
}
