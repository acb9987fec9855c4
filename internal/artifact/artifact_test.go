package artifact

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestGzipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "capture.pcap")
	want := "not a real capture but good enough for a round trip"
	if err := os.WriteFile(src, []byte(want), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	gz, err := Gzip(src)
	if err != nil {
		t.Fatalf("Gzip: %v", err)
	}
	if gz != src+".gz" {
		t.Fatalf("expected %q, got %q", src+".gz", gz)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should still exist: %v", err)
	}

	f, err := os.Open(gz)
	if err != nil {
		t.Fatalf("open gz: %v", err)
	}
	defer f.Close()
	r, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestBaseOrFullInsideDir(t *testing.T) {
	dir := "/data/sessions/session_1"
	path := "/data/sessions/session_1/s1i2-capture-ts.pcap"
	if got := BaseOrFull(path, dir); got != "s1i2-capture-ts.pcap" {
		t.Errorf("expected basename, got %q", got)
	}
}

func TestBaseOrFullOutsideDir(t *testing.T) {
	dir := "/data/sessions/session_1"
	path := "/tmp/elsewhere/capture.pcap"
	if got := BaseOrFull(path, dir); got != path {
		t.Errorf("expected full path, got %q", got)
	}
}
