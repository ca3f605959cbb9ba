package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/ewilliams-labs/beatlens/internal/core/domain"
)

func sampleResult(style string) domain.AnalysisResult {
	return domain.AnalysisResult{
		Styles: []domain.StyleBreakdown{
			{Name: style, Percentage: 100, Description: "d"},
		},
		BPM: 140,
		Elements: []domain.CoreElement{
			{Name: "Drums", Description: "d", Icon: "drum"},
		},
		Tags:           []string{"808 heavy"},
		SearchKeywords: "a,b",
		Summary:        "s",
	}
}

func TestStore_SessionSlot(t *testing.T) {
	store, err := NewStore()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	// Empty session has no result.
	if _, err := store.Latest(ctx); !errors.Is(err, domain.ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}

	// First submission fills the slot.
	if err := store.SaveLatest(ctx, sampleResult("Trap")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Styles[0].Name != "Trap" || got.BPM != 140 {
		t.Fatalf("unexpected result: %+v", got)
	}

	// The next submission overwrites it; there is only ever one slot.
	if err := store.SaveLatest(ctx, sampleResult("Boom Bap")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = store.Latest(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Styles[0].Name != "Boom Bap" {
		t.Fatalf("slot not overwritten: %+v", got)
	}
}

func TestStore_Isolation(t *testing.T) {
	// Two stores must not share state: the slot is process-scoped, not
	// machine-scoped.
	a, err := NewStore()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer a.Close()
	b, err := NewStore()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer b.Close()

	if err := a.SaveLatest(context.Background(), sampleResult("Trap")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.Latest(context.Background()); !errors.Is(err, domain.ErrNoResult) {
		t.Fatalf("expected ErrNoResult from second store, got %v", err)
	}
}
