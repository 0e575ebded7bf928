package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Session metrics
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "speech_trainer_active_sessions",
		Help: "Number of recording sessions currently capturing or transcribing",
	})

	sessionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speech_trainer_sessions_total",
		Help: "Total recording sessions by outcome",
	}, []string{"outcome"}) // ready, no_speech, failed

	utteranceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "speech_trainer_utterance_duration_seconds",
		Help:    "Duration of captured utterances in seconds",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	})

	// ASR metrics
	asrRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speech_trainer_asr_requests_total",
		Help: "Total ASR transcription requests",
	}, []string{"backend", "status"})

	asrLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "speech_trainer_asr_latency_seconds",
		Help:    "ASR transcription latency in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
	})

	// Collaborator metrics
	ipaRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speech_trainer_ipa_requests_total",
		Help: "Total phonetic conversion requests",
	}, []string{"status"})

	ttsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speech_trainer_tts_requests_total",
		Help: "Total playback synthesis requests",
	}, []string{"status"})

	resultsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speech_trainer_results_published_total",
		Help: "Total session results published to the event stream",
	}, []string{"status"})

	// Error metrics
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "speech_trainer_errors_total",
		Help: "Total number of errors",
	}, []string{"type", "component"})
)

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordSessionStart marks a session as active.
func RecordSessionStart() {
	activeSessions.Inc()
}

// RecordSessionEnd records a finished session with its outcome label.
func RecordSessionEnd(outcome string) {
	activeSessions.Dec()
	sessionsTotal.WithLabelValues(outcome).Inc()
}

// RecordUtterance records the duration of a captured utterance.
func RecordUtterance(d time.Duration) {
	utteranceDuration.Observe(d.Seconds())
}

// RecordASRRequest records one transcription call.
func RecordASRRequest(backend string, err error, latency time.Duration) {
	asrRequests.WithLabelValues(backend, statusLabel(err)).Inc()
	asrLatency.Observe(latency.Seconds())
}

// RecordIPARequest records one phonetic conversion call.
func RecordIPARequest(err error) {
	ipaRequests.WithLabelValues(statusLabel(err)).Inc()
}

// RecordTTSRequest records one playback synthesis call.
func RecordTTSRequest(err error) {
	ttsRequests.WithLabelValues(statusLabel(err)).Inc()
}

// RecordResultPublished records one event-stream publish.
func RecordResultPublished(err error) {
	resultsPublished.WithLabelValues(statusLabel(err)).Inc()
}

// RecordError records an error by type and component.
func RecordError(errorType, component string) {
	errorsTotal.WithLabelValues(errorType, component).Inc()
}
