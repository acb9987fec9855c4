package namer

import (
	"regexp"
	"testing"
)

func TestTimestampFormat(t *testing.T) {
	ts := Timestamp()
	re := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}-\d{6}$`)
	if !re.MatchString(ts) {
		t.Errorf("timestamp %q does not match expected layout", ts)
	}
}

func TestArtifactNameBindsRowPrefix(t *testing.T) {
	ts := "2026-01-02-03-04-05-000001"
	q := ArtifactName(7, 3, KindQueryAudio, ts, ExtOpus)
	r := ArtifactName(7, 3, KindResponseAudio, ts, ExtOpus)
	c := ArtifactName(7, 3, KindCapture, ts, ExtPcap)

	want := "s7i3-"
	for _, name := range []string{q, r, c} {
		if len(name) < len(want) || name[:len(want)] != want {
			t.Errorf("expected %q to start with %q", name, want)
		}
	}
	if q == r || q == c || r == c {
		t.Errorf("expected distinct names, got %q %q %q", q, r, c)
	}
}

func TestSessionDirLayout(t *testing.T) {
	got := SessionDir("/data", 42)
	want := "/data/sessions/session_42"
	if got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}
