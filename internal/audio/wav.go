// Package audio handles WAV encoding, capture-blob decoding and upload
// validation. All submissions are normalized here before they cross the
// transport boundary.
package audio

import (
	"encoding/binary"
	"fmt"
)

const (
	wavHeaderSize  = 44
	bytesPerSample = 2
)

// EncodePCM16 writes mono float samples into a canonical WAV container:
// a 44-byte header followed by little-endian 16-bit signed PCM. Samples are
// clamped to [-1, 1] and scaled asymmetrically (×32768 negative, ×32767
// non-negative, truncated toward zero) so the positive extreme cannot
// overflow. The input domain is always valid once a blob has decoded
// upstream, so there is no error path.
func EncodePCM16(samples []float64, sampleRate int) []byte {
	dataSize := len(samples) * bytesPerSample
	buf := make([]byte, wavHeaderSize+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(buf[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1)  // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*bytesPerSample))
	binary.LittleEndian.PutUint16(buf[32:34], bytesPerSample)
	binary.LittleEndian.PutUint16(buf[34:36], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	off := wavHeaderSize
	for _, s := range samples {
		if s > 1 {
			s = 1
		}
		if s < -1 {
			s = -1
		}
		var v int16
		if s < 0 {
			v = int16(s * 32768)
		} else {
			v = int16(s * 32767)
		}
		binary.LittleEndian.PutUint16(buf[off:off+2], uint16(v))
		off += 2
	}

	return buf
}

// DecodePCM16 is the inverse of EncodePCM16 for canonical mono PCM WAV data.
// It returns the samples scaled back to [-1, 1] and the declared sample rate.
func DecodePCM16(data []byte) ([]float64, int, error) {
	if len(data) < wavHeaderSize {
		return nil, 0, fmt.Errorf("audio: WAV data too short: %d bytes", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("audio: not a RIFF/WAVE container")
	}
	if string(data[12:16]) != "fmt " || string(data[36:40]) != "data" {
		return nil, 0, fmt.Errorf("audio: missing fmt or data chunk")
	}
	if format := binary.LittleEndian.Uint16(data[20:22]); format != 1 {
		return nil, 0, fmt.Errorf("audio: unsupported audio format %d", format)
	}
	if channels := binary.LittleEndian.Uint16(data[22:24]); channels != 1 {
		return nil, 0, fmt.Errorf("audio: unsupported channel count %d", channels)
	}
	if depth := binary.LittleEndian.Uint16(data[34:36]); depth != 16 {
		return nil, 0, fmt.Errorf("audio: unsupported bit depth %d", depth)
	}

	sampleRate := int(binary.LittleEndian.Uint32(data[24:28]))
	dataSize := int(binary.LittleEndian.Uint32(data[40:44]))
	if dataSize > len(data)-wavHeaderSize {
		dataSize = len(data) - wavHeaderSize
	}

	samples := make([]float64, dataSize/bytesPerSample)
	for i := range samples {
		off := wavHeaderSize + i*bytesPerSample
		v := int16(binary.LittleEndian.Uint16(data[off : off+2]))
		if v < 0 {
			samples[i] = float64(v) / 32768
		} else {
			samples[i] = float64(v) / 32767
		}
	}

	return samples, sampleRate, nil
}
