package store

import "testing"

func TestNewSessionConfigFieldsCarryToSession(t *testing.T) {
	cfg := NewSessionConfig{
		Interface:   "en0",
		Voice:       "Zoe",
		Sensitivity: "0.01",
		Model:       "Large",
	}
	sess := &Session{
		Interface:   cfg.Interface,
		Voice:       cfg.Voice,
		Sensitivity: cfg.Sensitivity,
		Model:       cfg.Model,
	}
	if sess.Interface != "en0" || sess.Voice != "Zoe" {
		t.Fatalf("unexpected session snapshot: %+v", sess)
	}
	if sess.Ended != nil {
		t.Fatalf("expected Ended to be nil before completion, got %v", sess.Ended)
	}
}

func TestInteractionResponseNilBeforeRecognition(t *testing.T) {
	ia := &Interaction{Query: "Hey Siri. What time is it?"}
	if ia.Response != nil {
		t.Fatalf("expected nil response before recognition, got %v", ia.Response)
	}
}
