package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fluentvoice/speech-trainer/internal/asr"
	"github.com/fluentvoice/speech-trainer/internal/asr/deepgram"
	"github.com/fluentvoice/speech-trainer/internal/asr/gcloud"
	"github.com/fluentvoice/speech-trainer/internal/asr/googleweb"
	"github.com/fluentvoice/speech-trainer/internal/audio"
	"github.com/fluentvoice/speech-trainer/internal/config"
	"github.com/fluentvoice/speech-trainer/internal/events"
	"github.com/fluentvoice/speech-trainer/internal/ipa"
	"github.com/fluentvoice/speech-trainer/internal/live"
	"github.com/fluentvoice/speech-trainer/internal/mic"
	"github.com/fluentvoice/speech-trainer/internal/observability"
	"github.com/fluentvoice/speech-trainer/internal/tts"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	logger.Info().
		Str("port", cfg.Port).
		Str("asr_backend", cfg.ASRBackend).
		Str("log_level", cfg.LogLevel).
		Bool("metrics_enabled", cfg.MetricsEnabled).
		Msg("Speech Trainer Service starting")

	ctx := context.Background()
	recognizer, closeRecognizer, err := buildRecognizer(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize ASR backend")
	}
	defer closeRecognizer()

	ipaClient := ipa.NewClient(cfg.IPAServiceURL)
	publisher := events.New(events.Config{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
		Enabled: cfg.KafkaEnabled,
	})
	defer publisher.Close()

	micCfg := mic.Config{
		Gate: audio.GateConfig{
			Threshold:       cfg.GateEnergyThreshold,
			TrailingSilence: cfg.PauseThreshold(),
			FrameSize:       cfg.FrameSize,
			SampleRate:      cfg.SampleRate,
		},
		Calibration: cfg.Calibration(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", live.AnalyzeHandler(ipaClient))
	mux.HandleFunc("/speak", live.SpeakHandler(tts.Options{
		BaseURL: cfg.TTSServiceURL,
		Voice:   cfg.TTSVoice,
		Rate:    cfg.TTSRate,
	}))
	mux.HandleFunc("/ws/session", live.SessionHandler(live.SessionDeps{
		Recognizer: recognizer,
		IPA:        ipaClient,
		Publisher:  publisher,
		Mic:        micCfg,
		FrameSize:  cfg.FrameSize,
		Language:   cfg.ASRLanguage,
	}))

	mux.HandleFunc("/health", observability.HealthCheckHandler())

	checks := map[string]observability.HealthCheckFunc{}
	if cfg.IPAServiceURL != "" {
		checks["ipa"] = ipaClient.Check
	}
	if cfg.ASRBackend == "googleweb" {
		if gw, ok := recognizer.(*googleweb.Client); ok {
			checks["asr"] = gw.Check
		}
	}
	mux.HandleFunc("/ready", observability.ReadinessHandler(checks))

	if cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info().Msg("Prometheus metrics enabled at /metrics")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("endpoint", fmt.Sprintf("ws://localhost:%s/ws/session", cfg.Port)).
			Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}

// buildRecognizer wires the configured ASR backend. The returned func
// releases any long-lived backend resources.
func buildRecognizer(ctx context.Context, cfg *config.Config) (asr.Recognizer, func(), error) {
	switch cfg.ASRBackend {
	case "googleweb":
		return googleweb.New(cfg.GoogleWebEndpoint, cfg.GoogleWebAPIKey), func() {}, nil
	case "deepgram":
		return deepgram.New(cfg.DeepgramAPIKey, cfg.DeepgramModel), func() {}, nil
	case "gcloud":
		client, err := gcloud.New(ctx)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown ASR backend %q", cfg.ASRBackend)
	}
}
