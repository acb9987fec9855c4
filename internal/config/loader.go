package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent, runnable set of values. It
// returns a joined error listing all hard validation failures found; soft
// problems are logged at warn rather than rejected.
func Validate(cfg *Config) error {
	var errs []error

	if !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.HealthAddr == "" {
		slog.Warn("server.health_addr is empty; the health/readiness server will not start")
	}
	if cfg.Server.MonitoringEndpoint == "" {
		slog.Warn("server.monitoring_endpoint is empty; monitoring pings are disabled")
	}

	if cfg.Session.Interface == "" {
		errs = append(errs, fmt.Errorf("session.interface is required"))
	}
	if len(cfg.Session.Voices) == 0 {
		errs = append(errs, fmt.Errorf("session.voices must list at least one voice"))
	}
	if cfg.Session.Sensitivity < 0 || cfg.Session.Sensitivity > 1 {
		errs = append(errs, fmt.Errorf("session.sensitivity %v is out of range [0, 1]", cfg.Session.Sensitivity))
	}
	if cfg.Session.Model == "" {
		cfg.Session.Model = ModelLarge
		slog.Warn("session.model is empty; defaulting to Large")
	} else if !cfg.Session.Model.IsValid() {
		errs = append(errs, fmt.Errorf("session.model %q is invalid; valid values: Large, MediumEn", cfg.Session.Model))
	}
	if cfg.Session.ModelsDir == "" {
		errs = append(errs, fmt.Errorf("session.models_dir is required"))
	}
	if cfg.Session.DataDir == "" {
		errs = append(errs, fmt.Errorf("session.data_dir is required"))
	}
	if cfg.Session.TTSBaseURL == "" {
		errs = append(errs, fmt.Errorf("session.tts_base_url is required"))
	}
	if cfg.Session.QueriesFile == "" {
		errs = append(errs, fmt.Errorf("session.queries_file is required"))
	}

	return errors.Join(errs...)
}
