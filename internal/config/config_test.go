package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("ASR_BACKEND")
	os.Unsetenv("PAUSE_THRESHOLD_MS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default Port '8080', got '%s'", cfg.Port)
	}
	if cfg.ASRBackend != "googleweb" {
		t.Errorf("Expected default ASRBackend 'googleweb', got '%s'", cfg.ASRBackend)
	}
	if cfg.ASRLanguage != "en-US" {
		t.Errorf("Expected default ASRLanguage 'en-US', got '%s'", cfg.ASRLanguage)
	}
	if cfg.SampleRate != 16000 {
		t.Errorf("Expected default SampleRate 16000, got %d", cfg.SampleRate)
	}
	if cfg.FrameSize != 320 {
		t.Errorf("Expected default FrameSize 320, got %d", cfg.FrameSize)
	}
	if cfg.PauseThreshold() != 2500*time.Millisecond {
		t.Errorf("Expected default PauseThreshold 2.5s, got %v", cfg.PauseThreshold())
	}
	if cfg.Calibration() != 500*time.Millisecond {
		t.Errorf("Expected default Calibration 500ms, got %v", cfg.Calibration())
	}
	if cfg.TTSRate != 140 {
		t.Errorf("Expected default TTSRate 140, got %d", cfg.TTSRate)
	}
	if cfg.KafkaEnabled {
		t.Error("Expected Kafka disabled by default")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default LogLevel 'info', got '%s'", cfg.LogLevel)
	}
	if !cfg.MetricsEnabled {
		t.Error("Expected default MetricsEnabled true")
	}
}

func TestLoad_DeepgramRequiresKey(t *testing.T) {
	os.Setenv("ASR_BACKEND", "deepgram")
	os.Unsetenv("DEEPGRAM_API_KEY")
	defer os.Unsetenv("ASR_BACKEND")

	if _, err := LoadFromEnv(); err == nil {
		t.Error("Expected error when deepgram backend has no API key")
	}

	os.Setenv("DEEPGRAM_API_KEY", "test-key")
	defer os.Unsetenv("DEEPGRAM_API_KEY")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() failed: %v", err)
	}
	if cfg.DeepgramAPIKey != "test-key" {
		t.Errorf("Expected DeepgramAPIKey 'test-key', got '%s'", cfg.DeepgramAPIKey)
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	os.Setenv("ASR_BACKEND", "whisper-on-a-potato")
	defer os.Unsetenv("ASR_BACKEND")

	if _, err := LoadFromEnv(); err == nil {
		t.Error("Expected error for unknown ASR backend")
	}
}

func TestLoad_Overrides(t *testing.T) {
	os.Setenv("PAUSE_THRESHOLD_MS", "1000")
	os.Setenv("KAFKA_ENABLED", "true")
	os.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	defer os.Unsetenv("PAUSE_THRESHOLD_MS")
	defer os.Unsetenv("KAFKA_ENABLED")
	defer os.Unsetenv("KAFKA_BROKERS")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() failed: %v", err)
	}
	if cfg.PauseThreshold() != time.Second {
		t.Errorf("Expected PauseThreshold 1s, got %v", cfg.PauseThreshold())
	}
	if !cfg.KafkaEnabled {
		t.Error("Expected Kafka enabled")
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "broker-1:9092" {
		t.Errorf("Unexpected brokers: %v", cfg.KafkaBrokers)
	}
}

func TestLoad_InvalidCapture(t *testing.T) {
	os.Setenv("SAMPLE_RATE", "0")
	defer os.Unsetenv("SAMPLE_RATE")

	if _, err := LoadFromEnv(); err == nil {
		t.Error("Expected error for zero sample rate")
	}
}
