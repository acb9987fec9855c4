package opusfile

import (
	"encoding/binary"
	"fmt"
	"io"
)

// oggPageWriter serialises packets into Ogg pages. One page per packet is
// sufficient for the short utterances this harness records, so no packet
// ever needs to span multiple pages; segment tables still follow the
// lacing-value convention so the stream remains a conformant Ogg file for
// any standard demuxer.
type oggPageWriter struct {
	w        io.Writer
	serial   uint32
	sequence uint32
}

func newOggPageWriter(w io.Writer, serial uint32) *oggPageWriter {
	return &oggPageWriter{w: w, serial: serial}
}

const (
	headerTypeContinuation = 0x01
	headerTypeBOS          = 0x02
	headerTypeEOS          = 0x04
)

// writePage writes a single packet as one Ogg page with the given header
// flags and granule position.
func (o *oggPageWriter) writePage(packet []byte, granule int64, flags byte) error {
	segments := lacingValues(len(packet))

	header := make([]byte, 27+len(segments))
	copy(header[0:4], "OggS")
	header[4] = 0 // version
	header[5] = flags
	binary.LittleEndian.PutUint64(header[6:14], uint64(granule))
	binary.LittleEndian.PutUint32(header[14:18], o.serial)
	binary.LittleEndian.PutUint32(header[18:22], o.sequence)
	// header[22:26] checksum left zero for CRC computation
	header[26] = byte(len(segments))
	copy(header[27:], segments)

	crcInput := make([]byte, 0, len(header)+len(packet))
	crcInput = append(crcInput, header...)
	crcInput = append(crcInput, packet...)
	crc := oggCRC32(crcInput)
	binary.LittleEndian.PutUint32(header[22:26], crc)

	if _, err := o.w.Write(header); err != nil {
		return fmt.Errorf("opusfile: write page header: %w", err)
	}
	if _, err := o.w.Write(packet); err != nil {
		return fmt.Errorf("opusfile: write page payload: %w", err)
	}
	o.sequence++
	return nil
}

// lacingValues computes the Ogg segment table for a packet of the given
// length: as many 255 entries as fit, followed by the remainder. A packet
// whose length is an exact multiple of 255 gets a trailing 0 entry so the
// packet boundary is unambiguous.
func lacingValues(length int) []byte {
	var segs []byte
	for length >= 255 {
		segs = append(segs, 255)
		length -= 255
	}
	segs = append(segs, byte(length))
	return segs
}
