// Package mic is the microphone-capture collaborator: a frame source
// abstraction, a stream-fed implementation, and the calibrate-then-listen
// capture routine with silence-based auto-stop.
package mic

import (
	"errors"
	"io"
	"sync"

	"github.com/fluentvoice/speech-trainer/internal/audio"
)

// ErrUnavailable means the audio source could not be opened.
var ErrUnavailable = errors.New("mic: source unavailable")

// Source is a scoped audio resource. Open acquires it, ReadFrame blocks until
// one frame of samples is available (or io.EOF when the source ends), and
// Close releases it on every exit path.
type Source interface {
	Open() error
	ReadFrame() ([]int16, error)
	Close() error
}

// StreamSource is a Source fed by pushed PCM bytes, typically from a
// WebSocket client streaming its microphone. ReadFrame blocks until a full
// frame has been pushed.
type StreamSource struct {
	mu        sync.Mutex
	cond      *sync.Cond
	buf       []byte
	frameSize int
	closed    bool
}

// NewStreamSource creates a stream source producing frames of frameSize
// samples.
func NewStreamSource(frameSize int) *StreamSource {
	s := &StreamSource{frameSize: frameSize}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Open implements Source.
func (s *StreamSource) Open() error {
	return nil
}

// Push appends PCM bytes from the producer. Pushes after Close are dropped.
func (s *StreamSource) Push(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.buf = append(s.buf, data...)
	s.cond.Broadcast()
}

// ReadFrame blocks until frameSize samples are buffered, returning io.EOF
// once the source is closed and drained.
func (s *StreamSource) ReadFrame() ([]int16, error) {
	want := s.frameSize * 2
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.buf) < want {
		if s.closed {
			return nil, io.EOF
		}
		s.cond.Wait()
	}
	frame := audio.BytesToSamples(s.buf[:want])
	s.buf = s.buf[want:]
	return frame, nil
}

// Close marks the end of the stream and wakes any blocked reader.
func (s *StreamSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cond.Broadcast()
	return nil
}
