package ports

import "context"

// CaptureStream delivers recorded audio chunks in capture order. The channel
// is closed when the stream ends; Close releases the underlying device and is
// safe to call more than once.
type CaptureStream interface {
	Chunks() <-chan []byte
	MimeType() string
	Close() error
}

// CaptureDevice abstracts an audio input device. Supports probes whether the
// device can record in the given encoding; Open acquires the device
// exclusively until the returned stream is closed.
type CaptureDevice interface {
	Supports(mimeType string) bool
	Open(ctx context.Context, mimeType string) (CaptureStream, error)
}

// DeviceError reports that the capture device was denied or unavailable.
// No automatic retry is attempted; the user has to fix permissions and try
// again.
type DeviceError struct {
	Reason string
	Err    error
}

func (e *DeviceError) Error() string {
	return "capture: " + e.Reason
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}
