package config

import (
	"strings"
	"testing"
)

const validYAML = `
server:
  log_level: info
  health_addr: ":8080"
  monitoring_endpoint: "http://localhost:9000/ping"
session:
  interface: en0
  voices:
    - Zoe
    - Isha
  sensitivity: 0.01
  model: Large
  models_dir: /opt/varys/models
  data_dir: /var/lib/varys/data
  tts_base_url: http://localhost:5002
  queries_file: /etc/varys/queries.txt
`

func TestLoadFromReaderValid(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(validYAML))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Session.Interface != "en0" {
		t.Errorf("unexpected interface: %q", cfg.Session.Interface)
	}
	if len(cfg.Session.Voices) != 2 {
		t.Errorf("unexpected voices: %v", cfg.Session.Voices)
	}
}

func TestLoadFromReaderEmptyFailsValidation(t *testing.T) {
	// Session validation still fails (no interface, no voices, etc.) but the
	// decode step itself must not error on an empty document.
	if _, err := LoadFromReader(strings.NewReader("")); err == nil {
		t.Fatal("expected validation errors for an empty config")
	}
}

func TestLoadFromReaderRejectsUnknownFields(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader(validYAML + "\nunknown_field: true\n"))
	if err == nil {
		t.Fatal("expected error for unknown top-level field")
	}
}

func TestValidateRequiresAtLeastOneVoice(t *testing.T) {
	cfg := &Config{Session: SessionConfig{
		Interface:   "en0",
		Model:       ModelLarge,
		ModelsDir:   "/models",
		DataDir:     "/data",
		TTSBaseURL:  "http://localhost:5002",
		QueriesFile: "/queries.txt",
	}}
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for empty voice roster")
	}
}

func TestValidateRejectsOutOfRangeSensitivity(t *testing.T) {
	cfg := &Config{Session: SessionConfig{
		Interface:   "en0",
		Voices:      []string{"Zoe"},
		Sensitivity: 1.5,
		Model:       ModelLarge,
		ModelsDir:   "/models",
		DataDir:     "/data",
		TTSBaseURL:  "http://localhost:5002",
		QueriesFile: "/queries.txt",
	}}
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for sensitivity out of [0, 1]")
	}
}

func TestValidateDefaultsEmptyModelToLarge(t *testing.T) {
	cfg := &Config{Session: SessionConfig{
		Interface:   "en0",
		Voices:      []string{"Zoe"},
		ModelsDir:   "/models",
		DataDir:     "/data",
		TTSBaseURL:  "http://localhost:5002",
		QueriesFile: "/queries.txt",
	}}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Session.Model != ModelLarge {
		t.Errorf("expected model to default to Large, got %q", cfg.Session.Model)
	}
}

func TestValidateRejectsUnknownModel(t *testing.T) {
	cfg := &Config{Session: SessionConfig{
		Interface:   "en0",
		Voices:      []string{"Zoe"},
		Model:       "Tiny",
		ModelsDir:   "/models",
		DataDir:     "/data",
		TTSBaseURL:  "http://localhost:5002",
		QueriesFile: "/queries.txt",
	}}
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for unknown model name")
	}
}
