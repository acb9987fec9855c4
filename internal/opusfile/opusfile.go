// Package opusfile writes mono 16 kHz f32 PCM audio as an Opus-in-Ogg file,
// the storage format spec.md mandates for query and response artifacts. The
// pack carries a raw Opus codec binding (layeh.com/gopus, used by the
// teacher for Discord voice) but no Ogg container library, so the Ogg
// muxing here is hand-written against the public Ogg bitstream format.
package opusfile

import (
	"encoding/binary"
	"fmt"
	"os"

	"layeh.com/gopus"
)

const (
	// SampleRate is the fixed storage rate for all written files, matching
	// the recogniser's fixed input rate.
	SampleRate = 16000

	// Channels is fixed at mono for stored artifacts.
	Channels = 1

	// frameMs is the Opus frame duration used for encoding.
	frameMs = 20

	// frameSize is the number of samples per channel per frame at SampleRate.
	frameSize = SampleRate * frameMs / 1000 // 320

	oggSerialBase = 0x76617973 // "vays" — arbitrary per-file serial seed
)

// WriteFile encodes mono PCM samples at sampleRate into an Opus-in-Ogg file
// at path. WriteFile does not resample: it only accepts
// sampleRate == [SampleRate] and returns an error for any other rate, so
// callers downsample beforehand.
func WriteFile(path string, samples []float32, sampleRate int, serial uint32) error {
	if sampleRate != SampleRate {
		return fmt.Errorf("opusfile: samples must already be at %d Hz, got %d", SampleRate, sampleRate)
	}

	enc, err := gopus.NewEncoder(SampleRate, Channels, gopus.Voip)
	if err != nil {
		return fmt.Errorf("opusfile: create encoder: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("opusfile: create %q: %w", path, err)
	}
	defer f.Close()

	pw := newOggPageWriter(f, oggSerialBase^serial)

	preSkip := uint16(0)
	if err := pw.writePage(opusHeadPacket(preSkip), 0, headerTypeBOS); err != nil {
		return err
	}
	if err := pw.writePage(opusTagsPacket(), 0, 0); err != nil {
		return err
	}

	pcm16 := float32ToInt16(samples)

	var granule int64
	for offset := 0; offset < len(pcm16); offset += frameSize {
		end := offset + frameSize
		chunk := pcm16[offset:min(end, len(pcm16))]
		if len(chunk) < frameSize {
			chunk = padToFrame(chunk, frameSize)
		}

		opusPacket, err := enc.Encode(chunk, frameSize, frameSize*2)
		if err != nil {
			return fmt.Errorf("opusfile: encode frame: %w", err)
		}

		granule += frameSize
		flags := byte(0)
		last := offset+frameSize >= len(pcm16)
		if last {
			flags = headerTypeEOS
		}
		if err := pw.writePage(opusPacket, granule, flags); err != nil {
			return err
		}
	}

	// An empty buffer still needs a terminating page so the file is a valid
	// (silent) Ogg Opus stream.
	if len(pcm16) == 0 {
		if err := pw.writePage(nil, 0, headerTypeEOS); err != nil {
			return err
		}
	}

	return nil
}

func padToFrame(chunk []int16, size int) []int16 {
	padded := make([]int16, size)
	copy(padded, chunk)
	return padded
}

func opusHeadPacket(preSkip uint16) []byte {
	b := make([]byte, 19)
	copy(b[0:8], "OpusHead")
	b[8] = 1                    // version
	b[9] = byte(Channels)       // channel count
	binary.LittleEndian.PutUint16(b[10:12], preSkip)
	binary.LittleEndian.PutUint32(b[12:16], uint32(SampleRate)) // input sample rate, informational
	binary.LittleEndian.PutUint16(b[16:18], 0)                  // output gain
	b[18] = 0                                                   // channel mapping family
	return b
}

func opusTagsPacket() []byte {
	vendor := "varys"
	b := make([]byte, 0, 8+4+len(vendor)+4)
	b = append(b, "OpusTags"...)
	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(vendor)))
	b = append(b, lenBuf...)
	b = append(b, vendor...)
	binary.LittleEndian.PutUint32(lenBuf, 0) // comment count
	b = append(b, lenBuf...)
	return b
}

// float32ToInt16 converts normalised [-1,1] f32 samples to 16-bit signed PCM,
// clamping out-of-range values.
func float32ToInt16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		v := s * 32767
		switch {
		case v > 32767:
			v = 32767
		case v < -32768:
			v = -32768
		}
		out[i] = int16(v)
	}
	return out
}
