package audio

import (
	"strings"

	"github.com/ewilliams-labs/beatlens/internal/core/domain"
)

// MaxUploadBytes is the hard submission size limit, enforced on both the
// client and server sides of the boundary.
const MaxUploadBytes = 20 << 20

const (
	msgNoFile       = "No audio file provided"
	msgFileTooLarge = "File too large (max 20MB)"
	msgWrongType    = "Unsupported file type"
)

// audioSubtypes is matched by substring containment against the declared
// type. Browsers and OSes report inconsistent or partial MIME strings for
// some audio containers, so the audio/ prefix check alone is not enough.
var audioSubtypes = []string{
	"mp3", "mpeg", "wav", "wave", "aac", "ogg", "flac", "x-m4a", "mp4",
}

// IsAudioType reports whether a declared media type indicates audio: either
// the audio/ top-level type, or a known audio subtype anywhere in the string.
func IsAudioType(mimeType string) bool {
	if strings.HasPrefix(mimeType, "audio/") {
		return true
	}
	for _, sub := range audioSubtypes {
		if strings.Contains(mimeType, sub) {
			return true
		}
	}
	return false
}

// ValidateUpload applies the size and type constraints shared by FileIntake
// and the server boundary. The returned errors carry the user-facing message.
func ValidateUpload(size int64, mimeType string) error {
	if size <= 0 {
		return &domain.InvalidInputError{Message: msgNoFile}
	}
	if size > MaxUploadBytes {
		return &domain.InvalidInputError{Message: msgFileTooLarge}
	}
	if !IsAudioType(mimeType) {
		return &domain.InvalidInputError{Message: msgWrongType}
	}
	return nil
}

// Accept validates a user-supplied file and wraps it as a submission. The
// input is never mutated; rejection carries a displayable message.
func Accept(name, mimeType string, data []byte) (domain.AudioSubmission, error) {
	if err := ValidateUpload(int64(len(data)), mimeType); err != nil {
		return domain.AudioSubmission{}, err
	}
	return domain.AudioSubmission{
		Data:     data,
		MimeType: mimeType,
		FileName: name,
	}, nil
}

// FileInfo describes one file of a drag-and-drop set.
type FileInfo struct {
	Name     string
	MimeType string
}

// PickAudioFile selects the first file of a dropped set whose declared type
// starts with audio/; the rest are ignored silently.
func PickAudioFile(files []FileInfo) (FileInfo, bool) {
	for _, f := range files {
		if strings.HasPrefix(f.MimeType, "audio/") {
			return f, true
		}
	}
	return FileInfo{}, false
}
