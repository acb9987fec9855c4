// Package varyserr defines the sentinel errors shared across the harness.
// Components wrap these with context via fmt.Errorf("...: %w", ErrX);
// callers compare with errors.Is.
package varyserr

import "errors"

var (
	// ErrAudioInputDeviceNotFound means no default host input device is available.
	ErrAudioInputDeviceNotFound = errors.New("audio input device not found")

	// ErrConfigurationNotSupported means no input stream configuration satisfies
	// the recogniser's fixed-rate requirement.
	ErrConfigurationNotSupported = errors.New("input configuration not supported")

	// ErrStillRecording means a Listener instance's sample buffer is still
	// referenced by an in-flight callback when stop was called.
	ErrStillRecording = errors.New("listener instance is still recording")

	// ErrRecordingFailed covers stream build/start/runtime failures.
	ErrRecordingFailed = errors.New("recording failed")

	// ErrOutOfRange is returned for parameters outside their valid domain.
	ErrOutOfRange = errors.New("value out of range")

	// ErrStreamBuild means the host audio stream could not be constructed.
	ErrStreamBuild = errors.New("stream build failed")

	// ErrStreamPlay means the host audio stream could not be started.
	ErrStreamPlay = errors.New("stream play failed")

	// ErrSpeaker covers synthesizer failures and unknown voice selection.
	ErrSpeaker = errors.New("speaker error")

	// ErrSniffer covers packet-capture start/stop failures.
	ErrSniffer = errors.New("sniffer error")

	// ErrRecognition covers model inference failures.
	ErrRecognition = errors.New("recognition error")

	// ErrModelLoad means the acoustic model file is missing or malformed.
	ErrModelLoad = errors.New("model load failed")

	// ErrUnsupportedRate means a downsample target does not evenly divide the
	// current sample rate.
	ErrUnsupportedRate = errors.New("unsupported sample rate")

	// ErrEmptyAudio means an operation was attempted on zero-length audio.
	ErrEmptyAudio = errors.New("audio buffer is empty")

	// ErrStoreConnect means the session store could not be reached.
	ErrStoreConnect = errors.New("store connect failed")

	// ErrStoreQuery means a store operation failed at the database layer.
	ErrStoreQuery = errors.New("store query failed")

	// ErrStoreNotFound means a requested row does not exist.
	ErrStoreNotFound = errors.New("store row not found")

	// ErrFileIO covers artifact read/write failures.
	ErrFileIO = errors.New("file io error")

	// ErrNoVoiceProvided means the voice roster was empty at begin_session.
	ErrNoVoiceProvided = errors.New("no voice provided")

	// ErrMonitoring covers monitoring-ping transport failures. Always
	// non-fatal; logged at warn by the caller.
	ErrMonitoring = errors.New("monitoring ping failed")
)
