package speak

import (
	"encoding/binary"
	"fmt"
)

// decodeWAV parses a canonical 16-bit PCM WAV file (the format the teacher's
// whisper HTTP provider produces on the encode side) into mono f32 samples
// normalised to [-1, 1] and its sample rate. Multi-channel input is
// down-mixed by averaging, matching internal/audio.Data.ToMono.
func decodeWAV(data []byte) ([]float32, int, error) {
	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("speak: not a RIFF/WAVE file")
	}

	var (
		channels   int
		sampleRate int
		bitsPerSample int
		dataStart, dataLen int
	)

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		switch chunkID {
		case "fmt ":
			if body+16 > len(data) {
				return nil, 0, fmt.Errorf("speak: truncated fmt chunk")
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			dataStart = body
			dataLen = chunkSize
		}

		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++ // chunks are word-aligned
		}
	}

	if channels == 0 || sampleRate == 0 || bitsPerSample != 16 || dataStart == 0 {
		return nil, 0, fmt.Errorf("speak: unsupported or incomplete WAV (channels=%d rate=%d bits=%d)", channels, sampleRate, bitsPerSample)
	}
	if dataStart+dataLen > len(data) {
		dataLen = len(data) - dataStart
	}

	pcm := data[dataStart : dataStart+dataLen]
	frames := len(pcm) / (2 * channels)
	mono := make([]float32, frames)
	for i := range frames {
		var sum float32
		for ch := range channels {
			idx := (i*channels + ch) * 2
			sample := int16(binary.LittleEndian.Uint16(pcm[idx : idx+2]))
			sum += float32(sample) / 32768.0
		}
		mono[i] = sum / float32(channels)
	}

	return mono, sampleRate, nil
}
