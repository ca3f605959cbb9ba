package audio

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// Decoder turns a captured blob into mono samples for WAV re-encoding.
// Decoding is the optional-enhancement half of capture finalization: when it
// fails the session falls back to the raw blob instead of failing the user.
type Decoder interface {
	Decode(data []byte, mimeType string) (samples []float64, sampleRate int, err error)
}

// StandardDecoder understands PCM WAV and MP3 blobs. Compressed container
// encodings produced by some recorders (webm/opus, mp4/aac) are reported as
// undecodable and ride the fallback path.
type StandardDecoder struct{}

func (StandardDecoder) Decode(data []byte, mimeType string) ([]float64, int, error) {
	switch {
	case strings.Contains(mimeType, "wav") || strings.Contains(mimeType, "wave"):
		return DecodePCM16(data)
	case strings.Contains(mimeType, "mp3") || strings.Contains(mimeType, "mpeg"):
		return decodeMP3(data)
	default:
		return nil, 0, fmt.Errorf("audio: no decoder for %q", mimeType)
	}
}

// decodeMP3 decodes an MP3 blob and keeps only the first channel.
func decodeMP3(data []byte) ([]float64, int, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("audio: mp3 decode: %w", err)
	}

	// go-mp3 emits 16-bit stereo frames: L lo, L hi, R lo, R hi. A read may
	// end mid-frame, so leftover bytes are carried into the next read to keep
	// the channel interleave aligned.
	var samples []float64
	var pending []byte
	buf := make([]byte, 4096)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			samples, pending = drainStereoFrames(samples, pending)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("audio: mp3 read: %w", err)
		}
	}

	if len(samples) == 0 {
		return nil, 0, fmt.Errorf("audio: mp3 blob contains no samples")
	}

	return samples, dec.SampleRate(), nil
}

// drainStereoFrames consumes the complete 4-byte stereo frames in pending,
// appending the left channel to samples, and returns the bytes of a partial
// trailing frame for the next read.
func drainStereoFrames(samples []float64, pending []byte) ([]float64, []byte) {
	whole := len(pending) - len(pending)%4
	for i := 0; i < whole; i += 4 {
		v := int16(pending[i]) | int16(pending[i+1])<<8
		samples = append(samples, float64(v)/32768)
	}
	return samples, pending[:copy(pending, pending[whole:])]
}
