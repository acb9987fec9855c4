// Package engine is the per-query orchestrator: for every query it
// synthesizes speech, captures and silence-gates a microphone recording,
// runs a live packet capture in lock-step, recognises the response, and
// records everything in the session store. Grounded on
// original_source/src/assistant/interactor.rs's Interactor/InteractorInstance
// split (begin_session consumes self and returns a bound instance; start
// consumes the instance and returns the interactor for a new session) and
// on the teacher's error-trap-and-continue loop shape.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/clonder/varys/internal/artifact"
	"github.com/clonder/varys/internal/audio"
	"github.com/clonder/varys/internal/health"
	"github.com/clonder/varys/internal/listen"
	"github.com/clonder/varys/internal/namer"
	"github.com/clonder/varys/internal/opusfile"
	"github.com/clonder/varys/internal/ping"
	"github.com/clonder/varys/internal/recognise"
	"github.com/clonder/varys/internal/sniff"
	"github.com/clonder/varys/internal/speak"
	"github.com/clonder/varys/internal/store"
	"github.com/clonder/varys/internal/varyserr"
	"golang.org/x/sync/errgroup"
)

// silenceDuration is the fixed quiet window that ends response recording.
const silenceDuration = 2 * time.Second

// Query is a (text, category) pair loaded from the queries file.
// Immutable once loaded.
type Query struct {
	Text     string
	Category string
}

// Config is the interactor configuration: the values snapshotted onto every
// Session row this Engine begins.
type Config struct {
	Interface          string
	Voices             []string
	Sensitivity        float32
	Model              recognise.Model
	ModelsDir          string
	DataDir            string
	TTSBaseURL         string
	MonitoringEndpoint string
}

// Engine owns one Listener, Speaker, Sniffer descriptor, Recogniser, voice
// roster, and data-directory root, shared across every session it begins.
type Engine struct {
	cfg    Config
	voices []string // FIFO; head is popped and re-queued at the tail each session

	recogniser *recognise.Recogniser
	listener   *listen.Listener
	speaker    *speak.Speaker
	notifier   *ping.Notifier
	store      *store.Store
}

// New constructs an Engine: loads the recogniser model, opens the default
// input device, and connects to the session store. Every acquired resource
// is released if a later step fails.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	if len(cfg.Voices) == 0 {
		return nil, fmt.Errorf("engine: %w", varyserr.ErrNoVoiceProvided)
	}

	rec, err := recognise.Load(cfg.ModelsDir, cfg.Model)
	if err != nil {
		return nil, err
	}

	lis, err := listen.New()
	if err != nil {
		rec.Close()
		return nil, err
	}

	st, err := store.Connect(ctx)
	if err != nil {
		lis.Close()
		rec.Close()
		return nil, err
	}

	voices := make([]string, len(cfg.Voices))
	copy(voices, cfg.Voices)

	return &Engine{
		cfg:        cfg,
		voices:     voices,
		recogniser: rec,
		listener:   lis,
		speaker:    speak.New(cfg.TTSBaseURL),
		notifier:   ping.New(cfg.MonitoringEndpoint),
		store:      st,
	}, nil
}

// Close releases the Engine's long-lived resources: the input device
// session, the recogniser model, and the store connection pool. The
// listener and recogniser are independent and are torn down concurrently.
func (e *Engine) Close() error {
	var g errgroup.Group
	g.Go(func() error { return e.listener.Close() })
	g.Go(e.recogniser.Close)
	err := g.Wait()
	e.store.Close()
	return err
}

// HealthCheckers returns the readiness checks for the Engine's stateful
// dependencies: the session store and the recogniser's loaded model.
func (e *Engine) HealthCheckers() []health.Checker {
	return []health.Checker{
		health.StoreChecker(e.store),
		health.RecogniserChecker(e.recogniser),
	}
}

// Session is a bound, in-progress run of interactions returned by
// [Engine.BeginSession].
type Session struct {
	engine *Engine
	row    *store.Session
	dir    string
}

// BeginSession rotates the voice queue, applies the new head voice to the
// Speaker, inserts a Session row, and creates its data directory. It fails
// with [varyserr.ErrNoVoiceProvided] if the roster is empty. Creating the
// directory is idempotent: re-running BeginSession after a crash with the
// same session id simply reuses the existing directory.
func (e *Engine) BeginSession(ctx context.Context) (*Session, error) {
	if len(e.voices) == 0 {
		return nil, fmt.Errorf("engine: %w", varyserr.ErrNoVoiceProvided)
	}
	voice := e.voices[0]
	e.voices = append(e.voices[1:], voice)

	if err := e.speaker.SetVoice(ctx, voice); err != nil {
		return nil, fmt.Errorf("engine: begin session: %w", err)
	}

	row, err := e.store.CreateSession(ctx, store.NewSessionConfig{
		Interface:   e.cfg.Interface,
		Voice:       voice,
		Sensitivity: fmt.Sprintf("%v", e.cfg.Sensitivity),
		Model:       e.cfg.Model.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("engine: begin session: %w", err)
	}

	sessionDir := namer.SessionDir(e.cfg.DataDir, row.ID)
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		return nil, fmt.Errorf("engine: create session dir %q: %w: %w", sessionDir, err, varyserr.ErrFileIO)
	}

	row.DataDir = sessionDir
	if err := e.store.UpdateSession(ctx, row); err != nil {
		return nil, fmt.Errorf("engine: begin session: %w", err)
	}

	slog.Info("session started", "session_id", row.ID, "voice", voice, "dir", sessionDir)

	return &Session{engine: e, row: row, dir: sessionDir}, nil
}

// Start runs one interaction per query, in order. Per-query failures are
// logged and do not abort the session; after every query has been
// attempted, the session row is completed.
func (s *Session) Start(ctx context.Context, queries []Query) error {
	slog.Info("starting session", "session_id", s.row.ID, "queries", len(queries))

	for _, q := range queries {
		if err := s.interaction(ctx, q); err != nil {
			slog.Error("interaction did not complete successfully", "session_id", s.row.ID, "query", q.Text, "error", err)
		}
	}

	if err := s.engine.store.CompleteSession(ctx, s.row); err != nil {
		return fmt.Errorf("engine: complete session %d: %w", s.row.ID, err)
	}
	return nil
}

// interaction runs the strict ten-step protocol for a single query.
func (s *Session) interaction(ctx context.Context, q Query) error {
	e := s.engine
	slog.Info("starting interaction", "session_id", s.row.ID, "query", q.Text)

	// 1. Best-effort monitoring ping; ignore failures.
	e.notifier.Send(ctx, fmt.Sprintf("interaction started: %s", q.Text))

	// 2. Insert the Interaction row.
	ia, err := e.store.CreateInteraction(ctx, s.row.ID, q.Text)
	if err != nil {
		return fmt.Errorf("interaction: create row: %w", err)
	}

	// 3. Start the Sniffer.
	capturePath := namer.CapturePath(s.dir, s.row.ID, ia.ID, namer.Timestamp())
	sn, err := sniff.FromInterface(e.cfg.Interface).Start(capturePath)
	if err != nil {
		return fmt.Errorf("interaction %d: start sniffer: %w", ia.ID, err)
	}

	// 4. Start the query Listener instance.
	queryInst, err := e.listener.Start()
	if err != nil {
		sn.Stop()
		return fmt.Errorf("interaction %d: start query listener: %w", ia.ID, err)
	}

	// 5. Synthesize the query, blocking.
	queryDuration, err := e.speaker.Say(ctx, q.Text, true)
	if err != nil {
		// Step 4 succeeded but step 5 failed: still attempt to stop the
		// query instance and the sniffer, discarding their output, before
		// bubbling the error up. The two are independent, so bound the
		// combined teardown wait by running them concurrently rather than
		// paying the sniffer's join wait after the listener's.
		var g errgroup.Group
		g.Go(func() error { _, stopErr := queryInst.Stop(); return stopErr })
		g.Go(func() error { sn.Stop(); return nil })
		g.Wait()
		return fmt.Errorf("interaction %d: say query: %w", ia.ID, err)
	}
	queryDurationMS := int64(queryDuration / time.Millisecond)

	// 6. Stop the query instance; persist its audio.
	queryAudio, err := queryInst.Stop()
	if err != nil {
		sn.Stop()
		return fmt.Errorf("interaction %d: stop query listener: %w", ia.ID, err)
	}
	queryAudioPath := namer.QueryAudioPath(s.dir, s.row.ID, ia.ID, namer.Timestamp())
	if err := writeOpus(queryAudioPath, queryAudio, serialFor(s.row.ID, ia.ID, 0)); err != nil {
		sn.Stop()
		return fmt.Errorf("interaction %d: write query audio: %w", ia.ID, err)
	}
	ia.QueryDurationMS = &queryDurationMS
	queryFile := artifact.BaseOrFull(queryAudioPath, s.dir)
	ia.QueryFile = &queryFile
	if err := e.store.UpdateInteraction(ctx, ia); err != nil {
		sn.Stop()
		return fmt.Errorf("interaction %d: update after query: %w", ia.ID, err)
	}

	// 7. Record the response until silence; persist its audio. A failure
	// here still lets step 8 run, so the capture isn't leaked.
	responseAudio, responseErr := e.listener.RecordUntilSilent(ctx, silenceDuration, e.cfg.Sensitivity)
	if responseErr == nil {
		responseDurationMS := responseAudio.DurationMS()
		responseAudioPath := namer.ResponseAudioPath(s.dir, s.row.ID, ia.ID, namer.Timestamp())
		if err := writeOpus(responseAudioPath, responseAudio, serialFor(s.row.ID, ia.ID, 1)); err != nil {
			responseErr = fmt.Errorf("write response audio: %w", err)
		} else {
			ia.ResponseDurationMS = &responseDurationMS
			responseFile := artifact.BaseOrFull(responseAudioPath, s.dir)
			ia.ResponseFile = &responseFile
			if err := e.store.UpdateInteraction(ctx, ia); err != nil {
				responseErr = fmt.Errorf("update after response: %w", err)
			}
		}
	}

	// 8. Stop the sniffer regardless of step 7's outcome.
	summary := sn.Stop()
	captureFile := artifact.BaseOrFull(capturePath, s.dir)
	ia.CaptureFile = &captureFile
	slog.Info("sniffer stopped", "interaction_id", ia.ID, "packets", summary.PacketsCaptured, "bytes", summary.BytesWritten)

	if responseErr != nil {
		// Still complete the interaction even though the response failed.
		if err := e.store.CompleteInteraction(ctx, ia); err != nil {
			return fmt.Errorf("interaction %d: complete after response failure: %w", ia.ID, err)
		}
		return fmt.Errorf("interaction %d: record response: %w", ia.ID, responseErr)
	}

	// 9. Recognise the response; response stays null if this fails.
	text, err := e.recogniser.Recognise(responseAudio)
	if err != nil {
		slog.Warn("recognition failed", "interaction_id", ia.ID, "error", err)
	} else {
		ia.Response = &text
	}
	if err := e.store.UpdateInteraction(ctx, ia); err != nil {
		return fmt.Errorf("interaction %d: update after recognition: %w", ia.ID, err)
	}

	// 10. Complete the interaction.
	if err := e.store.CompleteInteraction(ctx, ia); err != nil {
		return fmt.Errorf("interaction %d: complete: %w", ia.ID, err)
	}

	return nil
}

// writeOpus downmixes and downsamples data to the storage format in place
// before encoding it. Callers must not reuse data afterward.
func writeOpus(path string, data audio.Data, serial uint32) error {
	data.ToMono()
	if data.SampleRate != opusfile.SampleRate {
		if err := data.Downsample(opusfile.SampleRate); err != nil {
			return err
		}
	}
	return opusfile.WriteFile(path, data.Samples, data.SampleRate, serial)
}

// serialFor derives a stable Ogg stream serial from the session id,
// interaction id, and an artifact discriminant (0 = query, 1 = response) so
// the two files written per interaction never collide.
func serialFor(sessionID, interactionID int64, discriminant uint32) uint32 {
	return uint32(sessionID)*1000003 + uint32(interactionID)*2 + discriminant
}
