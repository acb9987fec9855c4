package sniff

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromInterfaceStoresName(t *testing.T) {
	s := FromInterface("eth0")
	if s.iface != "eth0" {
		t.Fatalf("expected iface %q, got %q", "eth0", s.iface)
	}
}

// TestLiveCapture exercises a real capture against a loopback-style
// interface. It requires capture privileges (CAP_NET_RAW or root) that are
// not guaranteed to be present, so it is gated behind an explicit
// environment variable naming the interface to use.
func TestLiveCapture(t *testing.T) {
	iface := os.Getenv("VARYS_TEST_CAPTURE_IFACE")
	if iface == "" {
		t.Skip("VARYS_TEST_CAPTURE_IFACE not set — skipping live packet capture test")
	}

	out := filepath.Join(t.TempDir(), "capture.pcap")
	inst, err := FromInterface(iface).Start(out)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	time.Sleep(200 * time.Millisecond)

	summary := inst.Stop()
	if summary.PacketsCaptured < 0 {
		t.Fatalf("unexpected negative packet count: %d", summary.PacketsCaptured)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat capture file: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("expected non-empty pcap file (file header at minimum)")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	iface := os.Getenv("VARYS_TEST_CAPTURE_IFACE")
	if iface == "" {
		t.Skip("VARYS_TEST_CAPTURE_IFACE not set — skipping live packet capture test")
	}

	out := filepath.Join(t.TempDir(), "capture.pcap")
	inst, err := FromInterface(iface).Start(out)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	_ = inst.Stop()
	// Calling Stop twice must not panic or block.
	_ = inst.Stop()
}
