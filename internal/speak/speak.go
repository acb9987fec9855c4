// Package speak wraps a local text-to-speech server, playing synthesized
// utterances audibly through the host's default output device and
// reporting utterance duration. Grounded on the teacher's
// pkg/provider/tts/coqui — a local (non-cloud) TTS server accessed over a
// plain HTTP API with a functional-options constructor — adapted from its
// streaming SynthesizeStream shape to the blocking Say/ListVoices/SetVoice
// surface a host voice synthesizer presents.
package speak

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/clonder/varys/internal/audio"
	"github.com/clonder/varys/internal/varyserr"
)

const (
	defaultTimeout  = 30 * time.Second
	synthesizeEndpoint = "/api/tts"
	voicesEndpoint     = "/details"
)

// Speaker synthesizes utterances with a named voice and plays them back
// through the host's default output device.
type Speaker struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration

	voice string
}

// Option configures a Speaker at construction.
type Option func(*Speaker)

// WithTimeout overrides the HTTP request timeout used to reach the TTS server.
func WithTimeout(d time.Duration) Option {
	return func(s *Speaker) { s.timeout = d }
}

// WithHTTPClient overrides the HTTP client, for tests that point at a
// httptest.Server.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Speaker) { s.httpClient = c }
}

// New creates a Speaker targeting the local TTS server at baseURL (e.g.
// "http://localhost:5002").
func New(baseURL string, opts ...Option) *Speaker {
	s := &Speaker{
		baseURL: baseURL,
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: s.timeout}
	}
	return s
}

// voiceListResponse mirrors the coqui standard server's /details catalogue.
type voiceListResponse struct {
	Speakers []string `json:"speakers"`
}

// ListVoices enumerates the voice names the TTS server currently offers.
func (s *Speaker) ListVoices(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+voicesEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("speak: build voices request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speak: list voices: %w: %w", err, varyserr.ErrSpeaker)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speak: list voices: status %d: %w", resp.StatusCode, varyserr.ErrSpeaker)
	}

	var out voiceListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("speak: decode voices: %w: %w", err, varyserr.ErrSpeaker)
	}
	return out.Speakers, nil
}

// SetVoice selects name from the server's roster, failing if it is not
// present in [Speaker.ListVoices].
func (s *Speaker) SetVoice(ctx context.Context, name string) error {
	voices, err := s.ListVoices(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(voices, name) {
		return fmt.Errorf("speak: unknown voice %q: %w", name, varyserr.ErrSpeaker)
	}
	s.voice = name
	return nil
}

// Say synthesizes text with the current voice and plays it audibly. When
// blocking is true, Say waits for playback to finish and returns the
// measured wall-clock duration; otherwise it starts playback in the
// background and returns the synthesized audio's nominal duration
// immediately.
func (s *Speaker) Say(ctx context.Context, text string, blocking bool) (time.Duration, error) {
	if s.voice == "" {
		return 0, fmt.Errorf("speak: no voice selected: %w", varyserr.ErrSpeaker)
	}

	samples, rate, err := s.synthesize(ctx, text)
	if err != nil {
		return 0, err
	}
	data := audio.New(samples, 1, rate)
	nominal := time.Duration(data.DurationMS()) * time.Millisecond

	if !blocking {
		go func() {
			if err := playback(samples, rate); err != nil {
				// Best-effort playback; the caller already has the nominal duration.
				_ = err
			}
		}()
		return nominal, nil
	}

	start := time.Now()
	if err := playback(samples, rate); err != nil {
		return 0, fmt.Errorf("speak: playback: %w: %w", err, varyserr.ErrSpeaker)
	}
	return time.Since(start), nil
}

// synthesize calls the TTS server and decodes the returned PCM as mono f32
// samples at the server's native rate.
func (s *Speaker) synthesize(ctx context.Context, text string) ([]float32, int, error) {
	q := url.Values{}
	q.Set("text", text)
	q.Set("speaker_id", s.voice)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+synthesizeEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("speak: build synthesize request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("speak: synthesize: %w: %w", err, varyserr.ErrSpeaker)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("speak: synthesize: status %d: %w", resp.StatusCode, varyserr.ErrSpeaker)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("speak: read synthesized audio: %w: %w", err, varyserr.ErrSpeaker)
	}

	return decodeWAV(body)
}

// playback writes samples to the host's default output device and blocks
// until the stream has finished draining.
func playback(samples []float32, sampleRate int) error {
	if len(samples) == 0 {
		return nil
	}

	out := make([]float32, len(samples))
	copy(out, samples)

	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), len(out), &out)
	if err != nil {
		return fmt.Errorf("speak: open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("speak: start output stream: %w", err)
	}
	defer stream.Stop()

	if err := stream.Write(); err != nil {
		return fmt.Errorf("speak: write output stream: %w", err)
	}
	return nil
}
