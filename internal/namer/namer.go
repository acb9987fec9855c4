// Package namer builds the session-directory layout and artifact file names
// the interaction engine writes to, grounded on the original harness's
// audio_file_name/capture_file_name/data_file_name helpers: every artifact
// is named "s<sid>i<iid>-<kind>-<ts>.<ext>" so the "s*i*" prefix binds it to
// its row and <ts> gives intra-kind uniqueness across retries.
package namer

import (
	"fmt"
	"path/filepath"
	"time"
)

const (
	KindQueryAudio    = "query-audio"
	KindResponseAudio = "response-audio"
	KindCapture       = "capture"

	ExtOpus = "opus"
	ExtPcap = "pcap"
)

// Timestamp returns a high-resolution UTC timestamp in the
// "%Y-%m-%d-%H-%M-%S-%f" form: uniqueness and human sortability, not
// correctness of row association. Go's reference-time layout cannot express
// a dash before the fractional component (it requires a literal dot), so
// the microsecond suffix is appended by hand.
func Timestamp() string {
	now := time.Now().UTC()
	return fmt.Sprintf("%s-%06d", now.Format("2006-01-02-15-04-05"), now.Nanosecond()/1000)
}

// SessionDir returns "<dataDir>/sessions/session_<sessionID>".
func SessionDir(dataDir string, sessionID int64) string {
	return filepath.Join(dataDir, "sessions", fmt.Sprintf("session_%d", sessionID))
}

// ArtifactName returns "s<sid>i<iid>-<kind>-<ts>.<ext>".
func ArtifactName(sessionID, interactionID int64, kind, ts, ext string) string {
	return fmt.Sprintf("s%di%d-%s-%s.%s", sessionID, interactionID, kind, ts, ext)
}

// QueryAudioPath returns the full path for an interaction's query-audio artifact.
func QueryAudioPath(sessionDir string, sessionID, interactionID int64, ts string) string {
	return filepath.Join(sessionDir, ArtifactName(sessionID, interactionID, KindQueryAudio, ts, ExtOpus))
}

// ResponseAudioPath returns the full path for an interaction's response-audio artifact.
func ResponseAudioPath(sessionDir string, sessionID, interactionID int64, ts string) string {
	return filepath.Join(sessionDir, ArtifactName(sessionID, interactionID, KindResponseAudio, ts, ExtOpus))
}

// CapturePath returns the full path for an interaction's packet-capture artifact.
func CapturePath(sessionDir string, sessionID, interactionID int64, ts string) string {
	return filepath.Join(sessionDir, ArtifactName(sessionID, interactionID, KindCapture, ts, ExtPcap))
}
