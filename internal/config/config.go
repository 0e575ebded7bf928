package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the speech trainer service.
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`

	// ASR backend selection: googleweb, deepgram or gcloud
	ASRBackend  string `envconfig:"ASR_BACKEND" default:"googleweb"`
	ASRLanguage string `envconfig:"ASR_LANGUAGE" default:"en-US"`

	// Google Web Speech API configuration
	GoogleWebEndpoint string `envconfig:"GOOGLE_WEB_ENDPOINT" default:"http://www.google.com/speech-api/v2/recognize"`
	GoogleWebAPIKey   string `envconfig:"GOOGLE_WEB_API_KEY" default:""`

	// Deepgram API configuration
	DeepgramAPIKey string `envconfig:"DEEPGRAM_API_KEY" default:""`
	DeepgramModel  string `envconfig:"DEEPGRAM_MODEL" default:"nova-2"`

	// Capture configuration
	SampleRate          int     `envconfig:"SAMPLE_RATE" default:"16000"`           // Hz
	FrameSize           int     `envconfig:"FRAME_SIZE" default:"320"`              // samples per frame (20ms at 16kHz)
	PauseThresholdMs    int     `envconfig:"PAUSE_THRESHOLD_MS" default:"2500"`     // trailing silence before auto-stop
	CalibrationMs       int     `envconfig:"CALIBRATION_MS" default:"500"`          // ambient noise sampling before capture
	GateEnergyThreshold float64 `envconfig:"GATE_ENERGY_THRESHOLD" default:"300.0"` // RMS floor for speech detection

	// Phonetic conversion collaborator (empty disables, placeholder is shown)
	IPAServiceURL string `envconfig:"IPA_SERVICE_URL" default:""`

	// Playback collaborator
	TTSServiceURL string `envconfig:"TTS_SERVICE_URL" default:""`
	TTSVoice      string `envconfig:"TTS_VOICE" default:"en-default"`
	TTSRate       int    `envconfig:"TTS_RATE" default:"140"` // words per minute, slowed for clarity

	// Result event stream
	KafkaEnabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:""`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"speech-trainer.results"`

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load reads configuration from environment variables, first loading a .env
// file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables without
// touching any .env file (useful for containerized deployments).
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.ASRBackend {
	case "googleweb", "gcloud":
		// googleweb works keyless against the public endpoint; gcloud reads
		// GOOGLE_APPLICATION_CREDENTIALS itself.
	case "deepgram":
		if c.DeepgramAPIKey == "" {
			return fmt.Errorf("DEEPGRAM_API_KEY is required for the deepgram backend")
		}
	default:
		return fmt.Errorf("unknown ASR_BACKEND %q", c.ASRBackend)
	}
	if c.SampleRate <= 0 || c.FrameSize <= 0 {
		return fmt.Errorf("SAMPLE_RATE and FRAME_SIZE must be positive")
	}
	return nil
}

// PauseThreshold returns the trailing-silence auto-stop duration.
func (c *Config) PauseThreshold() time.Duration {
	return time.Duration(c.PauseThresholdMs) * time.Millisecond
}

// Calibration returns the ambient-noise sampling duration.
func (c *Config) Calibration() time.Duration {
	return time.Duration(c.CalibrationMs) * time.Millisecond
}
