// Package recognise turns captured audio into text using whisper.cpp's CGO
// bindings, loaded once and shared across calls. Grounded on the teacher's
// pkg/provider/stt/whisper/native.go (model loaded via whisperlib.New, a
// fresh per-call Context, Process then NextSegment-until-io.EOF) and, for
// the single-pass greedy decode, on the Context configuration used by
// other_examples' autowhisper-streaming.go (SetTemperatureFallback(-1.0)
// disables whisper's confidence-driven retry-at-higher-temperature
// behaviour, leaving one greedy decode pass per call).
package recognise

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/clonder/varys/internal/audio"
	"github.com/clonder/varys/internal/varyserr"
)

// InputSampleRate is the fixed rate the recogniser accepts. Audio at a
// different rate is downmixed to mono and downsampled before inference.
const InputSampleRate = 16000

// Model selects which whisper.cpp model file to load.
type Model int

const (
	// Large is the multilingual large model.
	Large Model = iota
	// MediumEn is the English-only medium model, smaller and faster when
	// the interaction language is known to be English.
	MediumEn
)

// String returns the selector's name, used when snapshotting it onto a
// session row.
func (m Model) String() string {
	switch m {
	case Large:
		return "Large"
	case MediumEn:
		return "MediumEn"
	default:
		return "Unknown"
	}
}

// filename returns the ggml model file this selector maps to, relative to
// a models directory.
func (m Model) filename() (string, error) {
	switch m {
	case Large:
		return "ggml-large-v3.bin", nil
	case MediumEn:
		return "ggml-medium.en.bin", nil
	default:
		return "", fmt.Errorf("recognise: unknown model selector %d: %w", m, varyserr.ErrModelLoad)
	}
}

// Recogniser wraps a whisper.cpp model loaded once and reused for every
// call. A Recogniser is safe for concurrent use; whisper.cpp contexts are
// created per call and are not shared.
type Recogniser struct {
	mu    sync.Mutex
	model whisperlib.Model
}

// Load resolves model within modelsDir and loads it. It fails with
// varyserr.ErrModelLoad if the file is missing or whisper.cpp rejects it as
// malformed.
func Load(modelsDir string, model Model) (*Recogniser, error) {
	name, err := model.filename()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(modelsDir, name)

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("recognise: model file %q: %w: %w", path, err, varyserr.ErrModelLoad)
	}

	m, err := whisperlib.New(path)
	if err != nil {
		return nil, fmt.Errorf("recognise: load model %q: %w: %w", path, err, varyserr.ErrModelLoad)
	}

	return &Recogniser{model: m}, nil
}

// Close releases the underlying model.
func (r *Recogniser) Close() error {
	if r.model == nil {
		return nil
	}
	return r.model.Close()
}

// Ready reports whether a model is currently loaded. It is a
// [health.Checker]-compatible readiness probe; whisper.cpp contexts are
// created per call, so there is no live connection to ping beyond this.
func (r *Recogniser) Ready(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.model == nil {
		return fmt.Errorf("recognise: %w", varyserr.ErrModelLoad)
	}
	return nil
}

// Recognise preprocesses data to mono at InputSampleRate, then runs a
// single greedy decode pass and returns the concatenated segment text in
// order. Segments whisper.cpp reports as blank (non-speech or silence) are
// dropped rather than joined in as empty strings.
func (r *Recogniser) Recognise(data audio.Data) (string, error) {
	if data.Empty() {
		return "", fmt.Errorf("recognise: %w", varyserr.ErrEmptyAudio)
	}

	data.ToMono()
	if data.SampleRate != InputSampleRate {
		if err := data.Downsample(InputSampleRate); err != nil {
			return "", fmt.Errorf("recognise: preprocess: %w", err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	wctx, err := r.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("recognise: create context: %w: %w", err, varyserr.ErrRecognition)
	}

	// Single greedy decode pass: no temperature fallback retries.
	wctx.SetTemperatureFallback(-1.0)
	wctx.SetSplitOnWord(true)

	if err := wctx.Process(data.Samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("recognise: process audio: %w: %w", err, varyserr.ErrRecognition)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("recognise: read segment: %w: %w", err, varyserr.ErrRecognition)
		}
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}

	return strings.Join(parts, " "), nil
}
