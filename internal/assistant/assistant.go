// Package assistant is the external voice-assistant collaborator the
// engine is driven through. Grounded on original_source/src/assistant.rs's
// VoiceAssistant trait (name/setup/interact/test_voices) and its from(name)
// constructor, which returns Siri for any input including unrecognized
// names — preserved here rather than erroring, per that behavior being an
// intentional compatibility choice in the source rather than an oversight.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/clonder/varys/internal/engine"
	"github.com/clonder/varys/internal/speak"
)

// VoiceAssistant is implemented by every voice assistant varys can drive.
// The Engine only consumes Interact; Setup and TestVoices are operator
// utilities invoked directly from the CLI.
type VoiceAssistant interface {
	Name() string
	Setup() error
	Interact(ctx context.Context, eng *engine.Engine, queriesPath string) error
	TestVoices(ctx context.Context, voices []string) error
}

// Siri is the only voice assistant varys currently supports: the host
// platform's built-in assistant, driven by emitting a wake phrase audibly
// and listening to its spoken response.
type Siri struct {
	ttsBaseURL string
}

// NewSiri constructs a Siri assistant; ttsBaseURL is used only by
// TestVoices, which synthesizes sample utterances independently of any
// running session.
func NewSiri(ttsBaseURL string) Siri {
	return Siri{ttsBaseURL: ttsBaseURL}
}

// From returns the voice assistant named by name. Currently only Siri is
// supported; unrecognized names (and the empty string) also return Siri,
// matching the source's observed from() behavior.
func From(name string, ttsBaseURL string) VoiceAssistant {
	switch strings.ToLower(name) {
	case "siri":
		return NewSiri(ttsBaseURL)
	default:
		return NewSiri(ttsBaseURL)
	}
}

// Name returns "Siri".
func (Siri) Name() string { return "Siri" }

// Setup is a no-op: Siri requires no voice-recognition setup step.
func (Siri) Setup() error { return nil }

// Interact loads queriesPath, begins a session on eng, and runs it.
func (Siri) Interact(ctx context.Context, eng *engine.Engine, queriesPath string) error {
	queries, err := engine.LoadQueries(queriesPath)
	if err != nil {
		return fmt.Errorf("assistant: %w", err)
	}

	session, err := eng.BeginSession(ctx)
	if err != nil {
		return fmt.Errorf("assistant: begin session: %w", err)
	}

	return session.Start(ctx, queries)
}

// TestVoices speaks a short sample sentence with each voice in order, so an
// operator can audibly check a roster before running a full session.
func (s Siri) TestVoices(ctx context.Context, voices []string) error {
	spk := speak.New(s.ttsBaseURL)
	for _, voice := range voices {
		if err := spk.SetVoice(ctx, voice); err != nil {
			return fmt.Errorf("assistant: test voice %q: %w", voice, err)
		}
		if _, err := spk.Say(ctx, fmt.Sprintf("This is the %s voice.", voice), true); err != nil {
			return fmt.Errorf("assistant: test voice %q: %w", voice, err)
		}
	}
	return nil
}
