// Package capture drives an audio input device through one recording:
// acquire, accumulate chunks, enforce the duration cap, and finalize into a
// submittable file.
package capture

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ewilliams-labs/beatlens/internal/audio"
	"github.com/ewilliams-labs/beatlens/internal/core/ports"
)

// MaxDuration caps a single recording. The cap bounds memory growth and
// upload size; it is not a model constraint.
const MaxDuration = 30 * time.Second

// State is the per-session recording state.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateFinalizing
)

// encodingPriority is probed in order against the device; the last entry is
// the generic default used when nothing matches.
var encodingPriority = []string{
	"audio/webm;codecs=opus",
	"audio/mp4",
	"audio/webm",
}

// Recording is the finalized output of one session. Either a canonical WAV
// (Fallback false) or, when decoding the captured blob failed, the raw blob
// in its native encoding with the reason preserved. The session always
// produces some submittable file rather than failing the recording outright.
type Recording struct {
	Data           []byte
	MimeType       string
	FileName       string
	Fallback       bool
	FallbackReason string
}

// Session records from a device at most once at a time. It is re-entrant for
// subsequent recordings after Stop returns.
type Session struct {
	device  ports.CaptureDevice
	decoder audio.Decoder

	mu      sync.Mutex
	state   State
	elapsed int
	rec     Recording
	stopped bool
	stopCh  chan struct{}
	done    chan struct{}
}

// NewSession wires a session to a device and a blob decoder.
func NewSession(device ports.CaptureDevice, decoder audio.Decoder) *Session {
	return &Session{device: device, decoder: decoder}
}

// State returns the current recording state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed returns the recorded duration in whole seconds.
func (s *Session) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Start acquires the device and begins accumulating chunks. Permission denial
// or device unavailability surfaces as a *ports.DeviceError and leaves the
// session Idle; no retry is attempted.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return &ports.DeviceError{Reason: "recording already in progress"}
	}
	mimeType := s.pickEncoding()
	s.mu.Unlock()

	stream, err := s.device.Open(ctx, mimeType)
	if err != nil {
		return &ports.DeviceError{Reason: "microphone permission denied", Err: err}
	}

	s.mu.Lock()
	s.state = StateRecording
	s.elapsed = 0
	s.rec = Recording{}
	s.stopped = false
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.run(stream)
	return nil
}

// Stop finalizes the recording and returns the submittable file. Reaching the
// duration cap triggers the same path; a Stop after auto-stop just collects
// the stored result.
func (s *Session) Stop() (Recording, error) {
	s.mu.Lock()
	done := s.done
	if done == nil {
		s.mu.Unlock()
		return Recording{}, &ports.DeviceError{Reason: "no recording in progress"}
	}
	if !s.stopped {
		s.stopped = true
		close(s.stopCh)
	}
	s.mu.Unlock()

	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = nil
	return s.rec, nil
}

func (s *Session) pickEncoding() string {
	for _, mt := range encodingPriority {
		if s.device.Supports(mt) {
			return mt
		}
	}
	return encodingPriority[len(encodingPriority)-1]
}

func (s *Session) run(stream ports.CaptureStream) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	limit := time.NewTimer(MaxDuration)
	defer limit.Stop()

	var chunks [][]byte

loop:
	for {
		select {
		case chunk, ok := <-stream.Chunks():
			if !ok {
				break loop
			}
			if len(chunk) > 0 {
				chunks = append(chunks, chunk)
			}
		case <-ticker.C:
			s.mu.Lock()
			s.elapsed++
			s.mu.Unlock()
		case <-limit.C:
			break loop
		case <-s.stopCh:
			break loop
		}
	}

	// Release the device first, then drain whatever the stream already
	// buffered; chunk order is capture order and must be preserved.
	_ = stream.Close()
	for chunk := range stream.Chunks() {
		if len(chunk) > 0 {
			chunks = append(chunks, chunk)
		}
	}

	s.mu.Lock()
	s.state = StateFinalizing
	s.mu.Unlock()

	// The stream reports the encoding it actually produced, which can differ
	// from the one requested at Open.
	rec := s.finalize(chunks, stream.MimeType())

	s.mu.Lock()
	s.rec = rec
	s.state = StateIdle
	s.mu.Unlock()
	close(s.done)
}

// finalize assembles the captured chunks and attempts the WAV conversion.
// A decode failure is not an error: the raw blob is emitted verbatim with an
// extension derived from the encoding actually used.
func (s *Session) finalize(chunks [][]byte, mimeType string) Recording {
	blob := bytes.Join(chunks, nil)

	samples, rate, err := s.decoder.Decode(blob, mimeType)
	if err == nil {
		return Recording{
			Data:     audio.EncodePCM16(samples, rate),
			MimeType: "audio/wav",
			FileName: "recording.wav",
		}
	}

	ext := "webm"
	if strings.Contains(mimeType, "mp4") {
		ext = "m4a"
	}
	return Recording{
		Data:           blob,
		MimeType:       mimeType,
		FileName:       "recording." + ext,
		Fallback:       true,
		FallbackReason: err.Error(),
	}
}
