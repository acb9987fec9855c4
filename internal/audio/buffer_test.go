package audio

import (
	"errors"
	"testing"

	"github.com/clonder/varys/internal/varyserr"
)

func TestToMonoNoOpWhenAlreadyMono(t *testing.T) {
	d := New([]float32{0.1, 0.2, 0.3}, 1, 16000)
	d.ToMono()
	if d.Channels != 1 || len(d.Samples) != 3 {
		t.Fatalf("expected no-op, got channels=%d samples=%v", d.Channels, d.Samples)
	}
}

func TestToMonoAveragesStereoFrames(t *testing.T) {
	// Two stereo frames: (1.0, -1.0) and (0.5, 0.5).
	d := New([]float32{1.0, -1.0, 0.5, 0.5}, 2, 16000)
	d.ToMono()
	if d.Channels != 1 {
		t.Fatalf("expected mono, got channels=%d", d.Channels)
	}
	want := []float32{0.0, 0.5}
	if len(d.Samples) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(d.Samples))
	}
	for i, v := range want {
		if d.Samples[i] != v {
			t.Errorf("frame %d: want %v, got %v", i, v, d.Samples[i])
		}
	}
}

func TestDownsampleRejectsNonMultiple(t *testing.T) {
	d := New(make([]float32, 100), 1, 44100)
	err := d.Downsample(16000)
	if !errors.Is(err, varyserr.ErrUnsupportedRate) {
		t.Fatalf("expected ErrUnsupportedRate, got %v", err)
	}
}

func TestDownsampleRetainsEveryKthFrame(t *testing.T) {
	// 48000 -> 16000 is k=3; mono, 9 samples => 3 kept.
	samples := make([]float32, 9)
	for i := range samples {
		samples[i] = float32(i)
	}
	d := New(samples, 1, 48000)
	if err := d.Downsample(16000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float32{0, 3, 6}
	if len(d.Samples) != len(want) {
		t.Fatalf("expected %d samples, got %d (%v)", len(want), len(d.Samples), d.Samples)
	}
	for i, v := range want {
		if d.Samples[i] != v {
			t.Errorf("sample %d: want %v, got %v", i, v, d.Samples[i])
		}
	}
	if d.SampleRate != 16000 {
		t.Errorf("expected SampleRate 16000, got %d", d.SampleRate)
	}
}

func TestDownsampleStereoPreservesFrameShape(t *testing.T) {
	// 4 stereo frames at 32000 Hz downsampled to 16000 Hz (k=2) -> 2 frames.
	d := New([]float32{1, 1, 2, 2, 3, 3, 4, 4}, 2, 32000)
	if err := d.Downsample(16000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Samples) != 4 {
		t.Fatalf("expected 4 samples (2 frames x 2 channels), got %d", len(d.Samples))
	}
}

func TestDownsampleSameRateIsNoop(t *testing.T) {
	d := New([]float32{1, 2, 3}, 1, 16000)
	if err := d.Downsample(16000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Samples) != 3 {
		t.Fatalf("expected unchanged buffer, got %v", d.Samples)
	}
}

func TestDurationMS(t *testing.T) {
	// 16000 Hz mono, 16000 samples => 1000ms.
	d := New(make([]float32, 16000), 1, 16000)
	if got := d.DurationMS(); got != 1000 {
		t.Errorf("expected 1000ms, got %d", got)
	}
}

func TestDurationMSStereo(t *testing.T) {
	// 16000 Hz stereo, 32000 samples (16000 frames) => 1000ms.
	d := New(make([]float32, 32000), 2, 16000)
	if got := d.DurationMS(); got != 1000 {
		t.Errorf("expected 1000ms, got %d", got)
	}
}
