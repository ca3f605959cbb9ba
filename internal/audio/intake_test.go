package audio

import (
	"errors"
	"testing"

	"github.com/ewilliams-labs/beatlens/internal/core/domain"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		mimeType string
		wantMsg  string
	}{
		{
			name:     "19MiB mp3 accepted",
			size:     19 << 20,
			mimeType: "audio/mp3",
		},
		{
			name:     "exactly at the limit accepted",
			size:     20 << 20,
			mimeType: "audio/wav",
		},
		{
			name:     "21MiB wav rejected",
			size:     21 << 20,
			mimeType: "audio/wav",
			wantMsg:  "File too large (max 20MB)",
		},
		{
			name:     "empty file rejected",
			size:     0,
			mimeType: "audio/wav",
			wantMsg:  "No audio file provided",
		},
		{
			name:     "video rejected",
			size:     1024,
			mimeType: "video/quicktime",
			wantMsg:  "Unsupported file type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.size, tt.mimeType)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var invalid *domain.InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}
			if invalid.Message != tt.wantMsg {
				t.Fatalf("message %q, want %q", invalid.Message, tt.wantMsg)
			}
		})
	}
}

// Browsers and OSes report partial or vendor-prefixed MIME strings for some
// containers; the subtype allow-list catches what the audio/ prefix misses.
func TestIsAudioType(t *testing.T) {
	tests := []struct {
		mimeType string
		want     bool
	}{
		{"audio/mpeg", true},
		{"audio/x-something-new", true}, // prefix wins even for unknown subtypes
		{"application/x-m4a", true},     // subtype containment
		{"video/mp4", true},             // mp4 container reported as video
		{"application/ogg", true},
		{"text/plain", false},
		{"image/png", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := IsAudioType(tt.mimeType); got != tt.want {
				t.Fatalf("IsAudioType(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestAccept(t *testing.T) {
	data := []byte("not really audio but the right shape")

	sub, err := Accept("beat.mp3", "audio/mpeg", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.FileName != "beat.mp3" || sub.MimeType != "audio/mpeg" || len(sub.Data) != len(data) {
		t.Fatalf("unexpected submission: %+v", sub)
	}

	if _, err := Accept("notes.txt", "text/plain", data); err == nil {
		t.Fatal("expected rejection for non-audio type")
	}
}

func TestPickAudioFile(t *testing.T) {
	tests := []struct {
		name  string
		files []FileInfo
		want  string
		ok    bool
	}{
		{
			name: "first audio file wins",
			files: []FileInfo{
				{Name: "cover.png", MimeType: "image/png"},
				{Name: "beat.wav", MimeType: "audio/wav"},
				{Name: "alt.mp3", MimeType: "audio/mpeg"},
			},
			want: "beat.wav",
			ok:   true,
		},
		{
			name: "no audio files",
			files: []FileInfo{
				{Name: "cover.png", MimeType: "image/png"},
			},
			ok: false,
		},
		{
			name: "empty set",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PickAudioFile(tt.files)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got.Name != tt.want {
				t.Fatalf("picked %q, want %q", got.Name, tt.want)
			}
		})
	}
}
