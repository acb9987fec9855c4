// Package sniff runs a background packet capture against a named network
// interface, writing a standard libpcap file. No pack repo does packet
// capture, so google/gopacket (and its pcap/pcapgo subpackages) is adopted
// from the wider ecosystem, named per the rule that out-of-pack
// dependencies need naming rather than in-pack grounding. Its worker-with-
// stop-channel shape follows the teacher's discord.Connection recv/send
// loop convention (pkg/audio/discord/connection.go).
package sniff

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
	"github.com/google/gopacket/pcapgo"

	"github.com/clonder/varys/internal/varyserr"
)

const (
	snapLen    int32 = 262144
	readTimeout     = 500 * time.Millisecond
	stopJoinBound   = 5 * time.Second
)

// Sniffer is bound to a single named network interface.
type Sniffer struct {
	iface string
}

// FromInterface returns a Sniffer bound to iface by name. Resolution of the
// device is deferred to Start (pcap.OpenLive) so FromInterface itself cannot
// fail on a device that
// appears and disappears between construction and use.
func FromInterface(iface string) *Sniffer {
	return &Sniffer{iface: iface}
}

// Summary is the short statistical result of a completed capture.
type Summary struct {
	PacketsCaptured int
	BytesWritten    int64
}

// Instance is a running capture started by [Sniffer.Start].
type Instance struct {
	handle *pcap.Handle
	file   *os.File
	writer *pcapgo.Writer

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	summary Summary
}

// Start opens outputPath and begins writing packets captured on the
// interface to it in libpcap format. The capture runs in a background
// goroutine until Stop is called.
func (s *Sniffer) Start(outputPath string) (*Instance, error) {
	handle, err := pcap.OpenLive(s.iface, snapLen, true, readTimeout)
	if err != nil {
		return nil, fmt.Errorf("sniff: open %q: %w: %w", s.iface, err, varyserr.ErrSniffer)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		handle.Close()
		return nil, fmt.Errorf("sniff: create %q: %w: %w", outputPath, err, varyserr.ErrFileIO)
	}

	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(uint32(snapLen), handle.LinkType()); err != nil {
		f.Close()
		handle.Close()
		return nil, fmt.Errorf("sniff: write pcap header: %w: %w", err, varyserr.ErrSniffer)
	}

	inst := &Instance{
		handle: handle,
		file:   f,
		writer: w,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	go inst.captureLoop()

	return inst, nil
}

// captureLoop reads packets until Stop closes the stop channel or the
// handle is closed out from under it (e.g. the interface went down).
func (inst *Instance) captureLoop() {
	defer close(inst.done)

	source := gopacket.NewPacketSource(inst.handle, inst.handle.LinkType())
	packets := source.Packets()

	for {
		select {
		case <-inst.stop:
			return
		case packet, ok := <-packets:
			if !ok {
				return
			}
			if err := inst.writer.WritePacket(packet.Metadata().CaptureInfo, packet.Data()); err != nil {
				continue
			}
			inst.mu.Lock()
			inst.summary.PacketsCaptured++
			inst.summary.BytesWritten += int64(packet.Metadata().CaptureInfo.CaptureLength)
			inst.mu.Unlock()
		}
	}
}

// Stop halts capture and returns whatever was written. It is
// idempotent-on-error: if the capture already ended on its own (the
// interface went down), Stop still flushes the file and returns the
// summary accumulated up to that point. The join wait is bounded so a
// wedged capture worker cannot hang the interaction.
func (inst *Instance) Stop() Summary {
	inst.stopOnce.Do(func() {
		close(inst.stop)
	})

	select {
	case <-inst.done:
	case <-time.After(stopJoinBound):
	}

	inst.handle.Close()
	inst.file.Sync()
	inst.file.Close()

	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.summary
}
