// Package listen wraps the host's default audio input device, exposing the
// start/stop and silence-gated recording operations the interaction engine
// drives. Grounded on the original harness's listen.rs (cpal + a
// non-summing moving average) and on the teacher's discord package for the
// non-blocking drop-on-contention channel idiom (pkg/audio/discord's
// "select { case ch <- frame: default: }" pattern, here applied to the
// loudness-average channel instead of a frame channel).
//
// The host device binding is github.com/gordonklaus/portaudio — present in
// the example pack's go.mod but unused there (that repo captures audio from
// a game server protocol, not a local device); it is the natural choice for
// actual host-microphone capture, which nothing in the teacher repo does
// directly since it only ever receives audio over a Discord voice channel.
package listen

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/clonder/varys/internal/audio"
	"github.com/clonder/varys/internal/varyserr"
)

// FixedRate is the recogniser's fixed input rate. A Listener only accepts a
// device configuration whose sample rate is an integer multiple of it.
const FixedRate = 16000

// windowSize is the number of consecutive absolute-amplitude samples
// averaged into one loudness datum — a tumbling, non-summing window: the
// sum is recomputed from the window slice once it fills, rather than
// maintained incrementally, to avoid floating-point drift across a long
// recording.
const windowSize = 1024

// avgChanBuffer bounds the moving-average signal channel. The producer
// (device callback) drops a value rather than block when it is full —
// losing one average sample merely delays silence detection by one window.
const avgChanBuffer = 16

// defaultRecordingTimeout bounds record_until_silent independently of the
// silence gate. Zero disables it.
const defaultRecordingTimeout = 60 * time.Second

// Listener acquires the host's default input device at construction and
// produces [Instance] values on start.
type Listener struct {
	deviceChannels int
	sampleRate     int

	// RecordingTimeout bounds RecordUntilSilent; zero disables it.
	RecordingTimeout time.Duration
}

// New opens the host's default input device and validates that it offers a
// float32 configuration whose sample rate is an integer multiple of
// [FixedRate]. It fails with [varyserr.ErrAudioInputDeviceNotFound] if there
// is no default input device, and with
// [varyserr.ErrConfigurationNotSupported] if the device's rate does not
// divide evenly into a multiple of FixedRate.
func New() (*Listener, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("listen: initialize portaudio: %w", err)
	}

	hostAPI, err := portaudio.DefaultHostApi()
	if err != nil || hostAPI.DefaultInputDevice == nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("listen: %w", varyserr.ErrAudioInputDeviceNotFound)
	}
	dev := hostAPI.DefaultInputDevice

	rate := int(dev.DefaultSampleRate)
	if rate <= 0 || rate%FixedRate != 0 {
		portaudio.Terminate()
		return nil, fmt.Errorf("listen: device rate %d is not a multiple of %d: %w", rate, FixedRate, varyserr.ErrConfigurationNotSupported)
	}

	channels := 1
	if dev.MaxInputChannels < 1 {
		portaudio.Terminate()
		return nil, fmt.Errorf("listen: %w", varyserr.ErrConfigurationNotSupported)
	}

	return &Listener{
		deviceChannels:   channels,
		sampleRate:       rate,
		RecordingTimeout: defaultRecordingTimeout,
	}, nil
}

// Close terminates the underlying portaudio session. Call once, when the
// Listener is no longer needed (normally for the lifetime of a session).
func (l *Listener) Close() error {
	return portaudio.Terminate()
}

// Instance is a running capture started by [Listener.Start]. Its sample
// buffer is mutated by the device callback under a try-lock; Stop takes
// exclusive ownership after the stream is halted.
type Instance struct {
	stream     *portaudio.Stream
	mu         sync.Mutex
	buffer     []float32
	avgCh      chan float32
	channels   int
	sampleRate int

	window    []float32
	stopOnce  sync.Once
	started   time.Time
}

// Start opens an input stream and begins appending samples to a shared
// buffer on every device callback under a non-blocking lock: contention
// drops that callback's samples entirely, which is acceptable because the
// moving-average channel separately tracks loudness and the durable
// artifact is only ever read after Stop.
func (l *Listener) Start() (*Instance, error) {
	inst := &Instance{
		avgCh:      make(chan float32, avgChanBuffer),
		channels:   l.deviceChannels,
		sampleRate: l.sampleRate,
		window:     make([]float32, 0, windowSize),
		started:    time.Now(),
	}

	stream, err := portaudio.OpenDefaultStream(l.deviceChannels, 0, float64(l.sampleRate), 0, inst.onSamples)
	if err != nil {
		return nil, fmt.Errorf("listen: %w: %w", err, varyserr.ErrStreamBuild)
	}
	inst.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("listen: %w: %w", err, varyserr.ErrStreamPlay)
	}

	return inst, nil
}

// onSamples is the device callback. It must not block.
func (inst *Instance) onSamples(in []float32) {
	if !inst.mu.TryLock() {
		return
	}
	defer inst.mu.Unlock()

	inst.buffer = append(inst.buffer, in...)

	for _, s := range in {
		if s < 0 {
			s = -s
		}
		inst.window = append(inst.window, s)
		if len(inst.window) == windowSize {
			var sum float32
			for _, v := range inst.window {
				sum += v
			}
			avg := sum / windowSize
			select {
			case inst.avgCh <- avg:
			default:
			}
			inst.window = inst.window[:0]
		}
	}
}

// Stop halts the device callback and takes exclusive ownership of the
// shared sample buffer, returning it as [audio.Data]. If a callback is
// still mid-flight when the try-lock is attempted, it fails with
// [varyserr.ErrStillRecording] — the drop-then-unwrap handshake that is the
// synchronization primitive for this component.
func (inst *Instance) Stop() (audio.Data, error) {
	inst.stopOnce.Do(func() {
		inst.stream.Stop()
		inst.stream.Close()
	})

	if !inst.mu.TryLock() {
		return audio.Data{}, fmt.Errorf("listen: %w", varyserr.ErrStillRecording)
	}
	defer inst.mu.Unlock()

	samples := inst.buffer
	inst.buffer = nil
	return audio.New(samples, inst.channels, inst.sampleRate), nil
}

// RecordUntilSilent starts an instance, blocks receiving loudness averages,
// and stops once silenceDuration has elapsed since the last average that
// exceeded threshold (strict >; ties count as silence), or once
// RecordingTimeout elapses, whichever comes first. A zero RecordingTimeout
// disables the hard bound.
func (l *Listener) RecordUntilSilent(ctx context.Context, silenceDuration time.Duration, threshold float32) (audio.Data, error) {
	inst, err := l.Start()
	if err != nil {
		return audio.Data{}, err
	}

	lastAudio := time.Now()
	started := time.Now()
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case avg := <-inst.avgCh:
			if avg > threshold {
				lastAudio = time.Now()
			}
		case <-ticker.C:
			// fall through to the boundary checks below
		}

		if time.Since(lastAudio) >= silenceDuration {
			break loop
		}
		if l.RecordingTimeout > 0 && time.Since(started) >= l.RecordingTimeout {
			break loop
		}
	}

	return inst.Stop()
}

// RecordFor starts an instance, waits the given duration, and stops it.
func (l *Listener) RecordFor(ctx context.Context, d time.Duration) (audio.Data, error) {
	inst, err := l.Start()
	if err != nil {
		return audio.Data{}, err
	}

	select {
	case <-time.After(d):
	case <-ctx.Done():
	}

	return inst.Stop()
}

// calibrationWindow is the fixed recording length [Listener.Calibrate] uses.
const calibrationWindow = 5 * time.Second

// Calibrate records for a fixed 5 s window and returns the mean of observed
// loudness averages, discarding the captured audio. Used to derive a
// per-environment silence threshold.
func (l *Listener) Calibrate(ctx context.Context) (float32, error) {
	inst, err := l.Start()
	if err != nil {
		return 0, err
	}

	var sum float32
	var count int
	deadline := time.After(calibrationWindow)

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-deadline:
			break loop
		case avg := <-inst.avgCh:
			sum += avg
			count++
		}
	}

	if _, err := inst.Stop(); err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float32(count), nil
}
