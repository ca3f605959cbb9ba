package ports

import (
	"context"

	"github.com/ewilliams-labs/beatlens/internal/core/domain"
)

// BeatAnalyzer is the model backend: audio bytes in, validated breakdown out.
// Exactly one implementation is active per process, chosen by configuration.
type BeatAnalyzer interface {
	Analyze(ctx context.Context, audio []byte, mimeType string) (domain.AnalysisResult, error)
}
