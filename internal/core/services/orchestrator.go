package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/beatlens/internal/audio"
	"github.com/ewilliams-labs/beatlens/internal/core/domain"
	"github.com/ewilliams-labs/beatlens/internal/core/ports"
)

// Orchestrator coordinates the analysis flow: re-validate the submission,
// invoke the model backend, and park the result in the session slot.
type Orchestrator struct {
	analyzer ports.BeatAnalyzer
	store    ports.ResultStore
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(analyzer ports.BeatAnalyzer, store ports.ResultStore) *Orchestrator {
	return &Orchestrator{
		analyzer: analyzer,
		store:    store,
	}
}

// AnalyzeSubmission runs one audio submission end to end.
// Validation here duplicates the client-side intake checks on purpose: the
// client-side check can be bypassed, this one cannot.
func (o *Orchestrator) AnalyzeSubmission(ctx context.Context, sub domain.AudioSubmission) (domain.AnalysisResult, error) {
	if err := audio.ValidateUpload(int64(len(sub.Data)), sub.MimeType); err != nil {
		return domain.AnalysisResult{}, err
	}

	id := uuid.NewString()
	log.Printf("service: analysis %s: %q (%d bytes, %s)", id, sub.FileName, len(sub.Data), sub.MimeType)

	res, err := o.analyzer.Analyze(ctx, sub.Data, sub.MimeType)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("service: analysis %s failed: %w", id, err)
	}

	// The slot is a convenience for the result view; losing it must not fail
	// an analysis that already succeeded.
	if err := o.store.SaveLatest(ctx, res); err != nil {
		log.Printf("WARN service: analysis %s: failed to store result: %v", id, err)
	}

	return res, nil
}

// LatestResult reads the session result slot. Returns domain.ErrNoResult when
// nothing has been analyzed yet this session.
func (o *Orchestrator) LatestResult(ctx context.Context) (domain.AnalysisResult, error) {
	res, err := o.store.Latest(ctx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	return res, nil
}
