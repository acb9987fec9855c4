// Package audio provides an in-memory PCM sample buffer with channel/rate
// metadata, used by the Listener, Speaker, and Recogniser to move audio
// between components without committing to a file format until persisted.
package audio

import (
	"fmt"

	"github.com/clonder/varys/internal/varyserr"
)

// Data is a contiguous sequence of interleaved f32 samples at a fixed
// channel count and sample rate. The invariant len(Samples) % Channels == 0
// must hold at all times; every constructor and mutator in this package
// preserves it.
type Data struct {
	Samples    []float32
	Channels   int
	SampleRate int
}

// New wraps samples with the given format. It panics if channels <= 0 or if
// len(samples) is not a multiple of channels — both indicate a programming
// error in the caller, not a runtime condition.
func New(samples []float32, channels, sampleRate int) Data {
	if channels <= 0 {
		panic("audio: channels must be positive")
	}
	if len(samples)%channels != 0 {
		panic("audio: sample count is not a multiple of channel count")
	}
	return Data{Samples: samples, Channels: channels, SampleRate: sampleRate}
}

// ToMono down-mixes interleaved multi-channel samples to a single channel by
// averaging each frame. If d.Channels == 1 it is a no-op. The result has the
// same frame count as the input.
func (d *Data) ToMono() {
	if d.Channels == 1 {
		return
	}
	frames := len(d.Samples) / d.Channels
	mono := make([]float32, frames)
	for i := range frames {
		var sum float32
		base := i * d.Channels
		for ch := range d.Channels {
			sum += d.Samples[base+ch]
		}
		mono[i] = sum / float32(d.Channels)
	}
	d.Samples = mono
	d.Channels = 1
}

// Downsample reduces the sample rate to targetHz by retaining every k-th
// frame, where k = d.SampleRate/targetHz. It fails with
// [varyserr.ErrUnsupportedRate] unless d.SampleRate is an integer multiple
// of targetHz. A target equal to the current rate is a no-op.
func (d *Data) Downsample(targetHz int) error {
	if targetHz <= 0 {
		return fmt.Errorf("audio: downsample target %d: %w", targetHz, varyserr.ErrOutOfRange)
	}
	if d.SampleRate == targetHz {
		return nil
	}
	if d.SampleRate%targetHz != 0 {
		return fmt.Errorf("audio: %d %% %d != 0: %w", d.SampleRate, targetHz, varyserr.ErrUnsupportedRate)
	}

	k := d.SampleRate / targetHz
	frames := len(d.Samples) / d.Channels
	keptFrames := frames / k
	out := make([]float32, 0, keptFrames*d.Channels)
	for frame := 0; frame < frames; frame += k {
		base := frame * d.Channels
		out = append(out, d.Samples[base:base+d.Channels]...)
	}
	d.Samples = out
	d.SampleRate = targetHz
	return nil
}

// DurationMS returns the buffer's playback duration in milliseconds.
func (d *Data) DurationMS() int64 {
	if d.SampleRate == 0 || d.Channels == 0 {
		return 0
	}
	frames := int64(len(d.Samples) / d.Channels)
	return frames * 1000 / int64(d.SampleRate)
}

// Empty reports whether the buffer has no samples.
func (d *Data) Empty() bool {
	return len(d.Samples) == 0
}
