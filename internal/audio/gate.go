package audio

import "time"

// GateConfig configures the silence gate.
type GateConfig struct {
	// Threshold is the RMS energy above which a frame counts as speech.
	// Calibration replaces it with a value derived from ambient noise.
	Threshold float64
	// TrailingSilence is how long continuous silence after speech must last
	// before the utterance is considered finished.
	TrailingSilence time.Duration
	// FrameSize is the number of samples per frame.
	FrameSize int
	// SampleRate is samples per second.
	SampleRate int
}

// DefaultGateConfig returns the capture defaults: 20 ms frames at 16 kHz and
// a 2.5 second pause threshold.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		Threshold:       300.0,
		TrailingSilence: 2500 * time.Millisecond,
		FrameSize:       320,
		SampleRate:      16000,
	}
}

// silenceFrames converts the trailing-silence duration into a frame count.
func (c GateConfig) silenceFrames() int {
	if c.FrameSize <= 0 || c.SampleRate <= 0 {
		return 1
	}
	frameDur := time.Duration(c.FrameSize) * time.Second / time.Duration(c.SampleRate)
	if frameDur <= 0 {
		return 1
	}
	n := int(c.TrailingSilence / frameDur)
	if n < 1 {
		n = 1
	}
	return n
}

// Gate tracks speech activity across frames and signals end-of-utterance
// after the configured trailing silence. It is used by exactly one capture
// goroutine at a time and needs no locking.
type Gate struct {
	cfg           GateConfig
	silenceFrames int
	silenceCount  int
	speaking      bool
}

// NewGate creates a silence gate.
func NewGate(cfg GateConfig) *Gate {
	return &Gate{cfg: cfg, silenceFrames: cfg.silenceFrames()}
}

// Calibrate sets the speech threshold from ambient-noise frames sampled
// before capture begins. The gate keeps its configured threshold when the
// ambient estimate is below it.
func (g *Gate) Calibrate(ambient []float64) {
	if len(ambient) == 0 {
		return
	}
	sum := 0.0
	for _, e := range ambient {
		sum += e
	}
	// Speech must clear ambient noise by a margin.
	threshold := (sum / float64(len(ambient))) * 1.5
	if threshold > g.cfg.Threshold {
		g.cfg.Threshold = threshold
	}
}

// Threshold returns the current speech threshold.
func (g *Gate) Threshold() float64 {
	return g.cfg.Threshold
}

// Observe processes one frame. ended is true on the frame where trailing
// silence completes an utterance; the gate then resets to waiting for speech.
func (g *Gate) Observe(frame []int16) (speaking, ended bool) {
	if RMS(frame) > g.cfg.Threshold {
		g.silenceCount = 0
		g.speaking = true
		return true, false
	}

	if !g.speaking {
		return false, false
	}

	g.silenceCount++
	if g.silenceCount >= g.silenceFrames {
		g.speaking = false
		g.silenceCount = 0
		return false, true
	}
	return true, false
}

// Speaking reports whether the gate is currently inside an utterance.
func (g *Gate) Speaking() bool {
	return g.speaking
}

// Reset clears all gate state.
func (g *Gate) Reset() {
	g.speaking = false
	g.silenceCount = 0
}
