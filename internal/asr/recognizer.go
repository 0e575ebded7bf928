package asr

import (
	"context"
	"errors"

	"github.com/fluentvoice/speech-trainer/internal/audio"
)

// Failure taxonomy shared by all recognizer backends. Everything here is
// recoverable: a failure ends one session and the next start() retries.
var (
	// ErrNoSpeech means the service understood no words in the utterance.
	ErrNoSpeech = errors.New("asr: no speech detected")
	// ErrServiceUnavailable means the service could not be reached or
	// answered with a server error.
	ErrServiceUnavailable = errors.New("asr: service unavailable")
)

// Options control a single transcription request.
type Options struct {
	// Language is the BCP-47 code sent to the service.
	Language string
	// WantAlternatives requests the richest response form, including
	// per-alternative confidence. When false the backend may answer with a
	// plain transcript.
	WantAlternatives bool
}

// Recognizer is an opaque remote transcription service.
type Recognizer interface {
	// Transcribe sends one captured utterance and returns the decoded
	// payload. It blocks for the duration of the network call and is only
	// ever invoked from a session worker goroutine.
	Transcribe(ctx context.Context, utt audio.Utterance, opts Options) (Payload, error)
}
