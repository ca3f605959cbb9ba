package capture

import (
	"context"
	"fmt"
	"os"

	"github.com/ewilliams-labs/beatlens/internal/core/ports"
)

// FileDevice plays an on-disk clip through the capture pipeline in fixed-size
// chunks, standing in for a microphone where no audio hardware is available.
type FileDevice struct {
	Path      string
	Encoding  string
	ChunkSize int
}

const defaultChunkSize = 32 << 10

// Supports reports whether the device can emit the requested encoding.
func (d *FileDevice) Supports(mimeType string) bool {
	return mimeType == d.Encoding
}

// Open reads the backing file and starts emitting its bytes as capture
// chunks. A missing or unreadable file behaves like an unavailable device.
func (d *FileDevice) Open(ctx context.Context, mimeType string) (ports.CaptureStream, error) {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, fmt.Errorf("capture: open %s: %w", d.Path, err)
	}

	size := d.ChunkSize
	if size <= 0 {
		size = defaultChunkSize
	}

	st := &fileStream{
		mimeType: d.Encoding,
		chunks:   make(chan []byte, (len(data)/size)+1),
	}

	// The whole clip fits the channel buffer, so emission is synchronous and
	// chunk order is trivially capture order.
	for off := 0; off < len(data); off += size {
		end := off + size
		if end > len(data) {
			end = len(data)
		}
		st.chunks <- data[off:end]
	}
	close(st.chunks)

	return st, nil
}

type fileStream struct {
	mimeType string
	chunks   chan []byte
}

func (s *fileStream) Chunks() <-chan []byte {
	return s.chunks
}

func (s *fileStream) MimeType() string {
	return s.mimeType
}

func (s *fileStream) Close() error {
	return nil
}
