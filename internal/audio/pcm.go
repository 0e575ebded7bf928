// Package audio holds PCM frame analysis: sample conversion, RMS energy, and
// the calibrated silence gate that decides when an utterance has ended.
package audio

import (
	"encoding/binary"
	"math"
	"time"
)

// BytesToSamples converts little-endian 16-bit PCM bytes to samples. A
// trailing odd byte is dropped.
func BytesToSamples(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples
}

// SamplesToBytes converts samples to little-endian 16-bit PCM bytes.
func SamplesToBytes(samples []int16) []byte {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	return data
}

// RMS returns the root-mean-square energy of a frame.
func RMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Utterance is the raw audio captured for one recording session. It is owned
// by the session worker during capture and discarded once transcription
// completes.
type Utterance struct {
	Samples    []int16
	SampleRate int
}

// Bytes returns the utterance as little-endian 16-bit PCM.
func (u Utterance) Bytes() []byte {
	return SamplesToBytes(u.Samples)
}

// Duration returns the utterance length in wall time.
func (u Utterance) Duration() time.Duration {
	if u.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(u.Samples)) * time.Second / time.Duration(u.SampleRate)
}

// Empty reports whether no samples were captured.
func (u Utterance) Empty() bool {
	return len(u.Samples) == 0
}
