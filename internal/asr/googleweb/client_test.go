package googleweb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fluentvoice/speech-trainer/internal/asr"
	"github.com/fluentvoice/speech-trainer/internal/audio"
)

func testUtterance() audio.Utterance {
	return audio.Utterance{Samples: make([]int16, 1600), SampleRate: 16000}
}

func TestTranscribeSkipsEmptyResultLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.Write([]byte(`{"result":[]}
{"result":[{"alternative":[{"transcript":"is this correct","confidence":0.87},{"transcript":"is this korrect"}],"final":true}],"result_index":0}
`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	p, err := c.Transcribe(context.Background(), testUtterance(), asr.Options{Language: "en-US", WantAlternatives: true})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if p.Kind != asr.Alternatives {
		t.Fatalf("Kind = %v, want Alternatives", p.Kind)
	}
	if len(p.Alternatives) != 2 {
		t.Fatalf("len(Alternatives) = %d, want 2", len(p.Alternatives))
	}
	if p.Alternatives[0].Transcript != "is this correct" {
		t.Errorf("Transcript = %q", p.Alternatives[0].Transcript)
	}
	if p.Alternatives[0].Confidence == nil || *p.Alternatives[0].Confidence != 0.87 {
		t.Errorf("Confidence = %v, want 0.87", p.Alternatives[0].Confidence)
	}
	if p.Alternatives[1].Confidence != nil {
		t.Errorf("second alternative should have no confidence")
	}
}

func TestTranscribePlainForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("maxAlternatives"); got != "1" {
			t.Errorf("maxAlternatives = %q, want 1", got)
		}
		w.Write([]byte(`{"result":[{"alternative":[{"transcript":"hello there"}]}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	p, err := c.Transcribe(context.Background(), testUtterance(), asr.Options{Language: "en-US"})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if p.Kind != asr.PlainTranscript || p.Plain != "hello there" {
		t.Errorf("payload = %+v, want plain %q", p, "hello there")
	}
}

func TestTranscribeSkipsUnusableResults(t *testing.T) {
	// Results without a usable alternative list are skipped, whatever their
	// shape, until one decodes to ranked alternatives.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[{"final":true},{"alternative":[]},{"alternative":[{"transcript":"after noise","confidence":0.7}]}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	p, err := c.Transcribe(context.Background(), testUtterance(), asr.Options{Language: "en-US", WantAlternatives: true})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if p.Kind != asr.Alternatives || len(p.Alternatives) != 1 {
		t.Fatalf("payload = %+v, want one alternative", p)
	}
	if p.Alternatives[0].Transcript != "after noise" {
		t.Errorf("Transcript = %q", p.Alternatives[0].Transcript)
	}
}

func TestTranscribeNoSpeech(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[]}
{"result":[]}
`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Transcribe(context.Background(), testUtterance(), asr.Options{Language: "en-US", WantAlternatives: true})
	if !errors.Is(err, asr.ErrNoSpeech) {
		t.Fatalf("error = %v, want ErrNoSpeech", err)
	}
}

func TestTranscribeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Transcribe(context.Background(), testUtterance(), asr.Options{Language: "en-US"})
	if !errors.Is(err, asr.ErrServiceUnavailable) {
		t.Fatalf("error = %v, want ErrServiceUnavailable", err)
	}
}

func TestTranscribeNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, "")
	_, err := c.Transcribe(context.Background(), testUtterance(), asr.Options{Language: "en-US"})
	if !errors.Is(err, asr.ErrServiceUnavailable) {
		t.Fatalf("error = %v, want ErrServiceUnavailable", err)
	}
}
