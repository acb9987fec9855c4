// Command varys drives a voice assistant through a scripted list of spoken
// queries, recording the synthesized query audio, the assistant's spoken
// response, and a packet capture of the network traffic generated while
// each interaction was underway.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clonder/varys/internal/assistant"
	"github.com/clonder/varys/internal/config"
	"github.com/clonder/varys/internal/engine"
	"github.com/clonder/varys/internal/health"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	assistantName := flag.String("assistant", "Siri", "voice assistant to drive")
	testVoices := flag.Bool("test-voices", false, "speak a sample sentence in every configured voice, then exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "varys: config file %q not found\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "varys: %v\n", err)
		}
		return 1
	}

	slog.SetDefault(newLogger(cfg.Server.LogLevel))

	slog.Info("varys starting",
		"config", *configPath,
		"assistant", *assistantName,
		"interface", cfg.Session.Interface,
		"voices", len(cfg.Session.Voices),
	)

	model, err := cfg.Session.Model.ToRecogniseModel()
	if err != nil {
		slog.Error("invalid model selector", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	va := assistant.From(*assistantName, cfg.Session.TTSBaseURL)
	if err := va.Setup(); err != nil {
		slog.Error("assistant setup failed", "assistant", va.Name(), "error", err)
		return 1
	}

	if *testVoices {
		if err := va.TestVoices(ctx, cfg.Session.Voices); err != nil {
			slog.Error("voice test failed", "error", err)
			return 1
		}
		slog.Info("voice test complete")
		return 0
	}

	eng, err := engine.New(ctx, engine.Config{
		Interface:          cfg.Session.Interface,
		Voices:             cfg.Session.Voices,
		Sensitivity:        cfg.Session.Sensitivity,
		Model:              model,
		ModelsDir:          cfg.Session.ModelsDir,
		DataDir:            cfg.Session.DataDir,
		TTSBaseURL:         cfg.Session.TTSBaseURL,
		MonitoringEndpoint: cfg.Server.MonitoringEndpoint,
	})
	if err != nil {
		slog.Error("failed to initialise engine", "error", err)
		return 1
	}
	defer func() {
		if err := eng.Close(); err != nil {
			slog.Error("error closing engine", "error", err)
		}
	}()

	var healthSrv *http.Server
	if cfg.Server.HealthAddr != "" {
		handler := health.New(eng.HealthCheckers()...)
		mux := http.NewServeMux()
		handler.Register(mux)
		healthSrv = &http.Server{Addr: cfg.Server.HealthAddr, Handler: mux}
		go func() {
			slog.Info("health server listening", "addr", cfg.Server.HealthAddr)
			if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("health server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			healthSrv.Shutdown(shutdownCtx)
		}()
	}

	slog.Info("running session", "assistant", va.Name(), "queries_file", cfg.Session.QueriesFile)
	if err := va.Interact(ctx, eng, cfg.Session.QueriesFile); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("session did not complete successfully", "error", err)
		return 1
	}

	slog.Info("session complete")
	return 0
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogLevelDebug:
		lvl = slog.LevelDebug
	case config.LogLevelWarn:
		lvl = slog.LevelWarn
	case config.LogLevelError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
