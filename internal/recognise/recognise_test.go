package recognise

import (
	"os"
	"testing"

	"github.com/clonder/varys/internal/audio"
)

// testModelsDir returns a directory containing ggml model files for
// integration tests. It reads from VARYS_TEST_MODELS_DIR; if unset the test
// is skipped.
func testModelsDir(t *testing.T) string {
	t.Helper()
	d := os.Getenv("VARYS_TEST_MODELS_DIR")
	if d == "" {
		t.Skip("VARYS_TEST_MODELS_DIR not set; skipping recognise integration test")
	}
	return d
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	_, err := Load("/nonexistent/models/dir", Large)
	if err == nil {
		t.Fatal("expected error for missing model file, got nil")
	}
}

func TestLoad_UnknownSelector_ReturnsError(t *testing.T) {
	_, err := Load(t.TempDir(), Model(99))
	if err == nil {
		t.Fatal("expected error for unknown model selector, got nil")
	}
}

func TestRecognise_EmptyAudio_ReturnsError(t *testing.T) {
	dir := testModelsDir(t)
	r, err := Load(dir, MediumEn)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer r.Close()

	_, err = r.Recognise(audio.New(nil, 1, InputSampleRate))
	if err == nil {
		t.Fatal("expected error for empty audio, got nil")
	}
}

func TestRecognise_DownmixesAndDownsamples(t *testing.T) {
	dir := testModelsDir(t)
	r, err := Load(dir, MediumEn)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer r.Close()

	// 48kHz stereo silence; Recognise must downmix then downsample to
	// InputSampleRate before inference rather than erroring out.
	samples := make([]float32, 48000*2)
	data := audio.New(samples, 2, 48000)

	text, err := r.Recognise(data)
	if err != nil {
		t.Fatalf("Recognise: %v", err)
	}
	t.Logf("transcribed text for silence: %q", text)
}
