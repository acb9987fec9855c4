package ping

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendSendsLabelInBody(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(srv.URL)
	n.Send(context.Background(), "session-1-interaction-3")

	if gotBody != "session-1-interaction-3" {
		t.Fatalf("expected label in body, got %q", gotBody)
	}
}

func TestSendEmptyEndpointIsNoop(t *testing.T) {
	n := New("")
	// Must not panic or block; there is nothing listening on this endpoint.
	n.Send(context.Background(), "whatever")
}

func TestSendServerErrorDoesNotPanic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := New(srv.URL)
	n.Send(context.Background(), "label")
}

func TestSendUnreachableEndpointDoesNotPanic(t *testing.T) {
	n := New("http://127.0.0.1:1")
	n.Send(context.Background(), "label")
}
