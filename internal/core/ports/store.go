package ports

import (
	"context"

	"github.com/ewilliams-labs/beatlens/internal/core/domain"
)

// ResultStore is the session result slot: it holds at most the latest
// AnalysisResult, overwritten on every submission. Nothing survives the
// process; results are intentionally ephemeral.
type ResultStore interface {
	SaveLatest(ctx context.Context, res domain.AnalysisResult) error
	Latest(ctx context.Context) (domain.AnalysisResult, error)
}
