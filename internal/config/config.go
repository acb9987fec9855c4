// Package config provides the configuration schema and loader for varys.
package config

import (
	"fmt"

	"github.com/clonder/varys/internal/recognise"
)

// Config is the root configuration structure for varys.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
}

// ServerConfig holds logging and ambient-service settings.
type ServerConfig struct {
	// LogLevel controls verbosity. Valid values: "debug", "info", "warn", "error".
	LogLevel LogLevel `yaml:"log_level"`

	// HealthAddr is the TCP address the health/readiness server listens on
	// (e.g., ":8080"). Empty disables the health server.
	HealthAddr string `yaml:"health_addr"`

	// MonitoringEndpoint is the URL the monitoring ping is sent to at each
	// interaction boundary. Empty disables pinging entirely.
	MonitoringEndpoint string `yaml:"monitoring_endpoint"`
}

// LogLevel mirrors slog's four levels as a validated YAML string.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// IsValid reports whether l is empty or one of the known levels.
func (l LogLevel) IsValid() bool {
	switch l {
	case "", LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	default:
		return false
	}
}

// SessionConfig holds the interactor configuration: everything the engine
// needs to begin and run sessions.
type SessionConfig struct {
	// Interface is the network device the sniffer captures from.
	Interface string `yaml:"interface"`

	// Voices is the roster rotated across sessions, in round-robin order.
	Voices []string `yaml:"voices"`

	// Sensitivity is the silence threshold (0..1) the listener's moving
	// average must exceed (strict >) to count as speech.
	Sensitivity float32 `yaml:"sensitivity"`

	// Model selects the recogniser's acoustic model. Valid values: "Large",
	// "MediumEn".
	Model ModelName `yaml:"model"`

	// ModelsDir is the directory the recogniser's model files live in.
	ModelsDir string `yaml:"models_dir"`

	// DataDir is the root directory session subdirectories and their
	// artifacts are written under.
	DataDir string `yaml:"data_dir"`

	// TTSBaseURL is the base URL of the local text-to-speech server the
	// speaker synthesizes utterances against.
	TTSBaseURL string `yaml:"tts_base_url"`

	// QueriesFile is the path to the UTF-8 queries file, one query per line.
	QueriesFile string `yaml:"queries_file"`
}

// ModelName is the YAML-facing spelling of a recogniser model selector.
type ModelName string

const (
	ModelLarge    ModelName = "Large"
	ModelMediumEn ModelName = "MediumEn"
)

// IsValid reports whether m is a known model name.
func (m ModelName) IsValid() bool {
	switch m {
	case ModelLarge, ModelMediumEn:
		return true
	default:
		return false
	}
}

// ToRecogniseModel maps m onto the recognise package's model selector.
func (m ModelName) ToRecogniseModel() (recognise.Model, error) {
	switch m {
	case ModelLarge:
		return recognise.Large, nil
	case ModelMediumEn:
		return recognise.MediumEn, nil
	default:
		return 0, fmt.Errorf("config: unknown model name %q", m)
	}
}
