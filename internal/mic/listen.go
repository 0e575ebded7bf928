package mic

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/fluentvoice/speech-trainer/internal/audio"
)

// ErrNoAudio means the source ended before any speech was observed.
var ErrNoAudio = errors.New("mic: no speech captured")

// Config controls one capture: the silence gate settings plus how long to
// sample ambient noise before listening.
type Config struct {
	Gate        audio.GateConfig
	Calibration time.Duration
}

// DefaultConfig returns capture defaults: a 2.5s pause threshold and half a
// second of ambient calibration.
func DefaultConfig() Config {
	return Config{
		Gate:        audio.DefaultGateConfig(),
		Calibration: 500 * time.Millisecond,
	}
}

func (c Config) calibrationFrames() int {
	if c.Gate.FrameSize <= 0 || c.Gate.SampleRate <= 0 {
		return 0
	}
	frameDur := time.Duration(c.Gate.FrameSize) * time.Second / time.Duration(c.Gate.SampleRate)
	if frameDur <= 0 {
		return 0
	}
	return int(c.Calibration / frameDur)
}

// Listen captures one utterance from an opened source. It samples ambient
// noise to calibrate the silence gate, waits for speech, and returns once
// the configured trailing silence follows it. There is no overall duration
// cap; the capture runs until silence or the source ends. An exhausted source
// with no speech returns ErrNoAudio.
func Listen(ctx context.Context, src Source, cfg Config) (audio.Utterance, error) {
	gate := audio.NewGate(cfg.Gate)

	// Ambient-noise calibration before capture begins.
	var ambient []float64
	for i := 0; i < cfg.calibrationFrames(); i++ {
		frame, err := src.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return audio.Utterance{}, ErrNoAudio
			}
			return audio.Utterance{}, err
		}
		ambient = append(ambient, audio.RMS(frame))
	}
	gate.Calibrate(ambient)

	utt := audio.Utterance{SampleRate: cfg.Gate.SampleRate}
	for {
		select {
		case <-ctx.Done():
			return audio.Utterance{}, ctx.Err()
		default:
		}

		frame, err := src.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Source ended mid-utterance: keep what we have.
				if !utt.Empty() {
					return utt, nil
				}
				return audio.Utterance{}, ErrNoAudio
			}
			return audio.Utterance{}, err
		}

		speaking, ended := gate.Observe(frame)
		if speaking {
			utt.Samples = append(utt.Samples, frame...)
		}
		if ended {
			return utt, nil
		}
	}
}
