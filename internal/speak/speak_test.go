package speak

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, voices []string, wav []byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(voicesEndpoint, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(voiceListResponse{Speakers: voices})
	})
	mux.HandleFunc(synthesizeEndpoint, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(wav)
	})
	return httptest.NewServer(mux)
}

func TestListVoices(t *testing.T) {
	srv := newTestServer(t, []string{"Zoe", "Max"}, nil)
	defer srv.Close()

	s := New(srv.URL)
	voices, err := s.ListVoices(context.Background())
	if err != nil {
		t.Fatalf("ListVoices: %v", err)
	}
	if len(voices) != 2 || voices[0] != "Zoe" {
		t.Fatalf("unexpected voices: %v", voices)
	}
}

func TestSetVoiceRejectsUnknown(t *testing.T) {
	srv := newTestServer(t, []string{"Zoe"}, nil)
	defer srv.Close()

	s := New(srv.URL)
	if err := s.SetVoice(context.Background(), "Nonexistent"); err == nil {
		t.Fatal("expected error for unknown voice")
	}
	if err := s.SetVoice(context.Background(), "Zoe"); err != nil {
		t.Fatalf("expected known voice to succeed: %v", err)
	}
}

func TestSayFailsWithoutVoiceSelected(t *testing.T) {
	s := New("http://unused")
	if _, err := s.Say(context.Background(), "hello", true); err == nil {
		t.Fatal("expected error when no voice has been selected")
	}
}
