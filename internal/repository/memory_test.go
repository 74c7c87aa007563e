package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"example.com/capacity-planner/console/internal/models"
)

// TestMemoryReportStoreListNewestFirst проверяет порядок и лимит выдачи.
func TestMemoryReportStoreListNewestFirst(t *testing.T) {
	store := NewMemoryReportStore()
	ctx := context.Background()
	sessionID := uuid.New()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := store.Save(ctx, models.ArchivedReport{
			SessionID:      sessionID,
			Source:         models.ReportSourceManual,
			Result:         []byte(`{}`),
			TotalFirstYear: float64(i),
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	reports, err := store.ListBySession(ctx, sessionID, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].TotalFirstYear != 2 || reports[1].TotalFirstYear != 1 {
		t.Fatalf("expected newest first, got %v and %v", reports[0].TotalFirstYear, reports[1].TotalFirstYear)
	}
}

// TestMemoryReportStoreIsolatesSessions проверяет, что чужой отчет не выдается.
func TestMemoryReportStoreIsolatesSessions(t *testing.T) {
	store := NewMemoryReportStore()
	ctx := context.Background()
	owner := uuid.New()

	saved, err := store.Save(ctx, models.ArchivedReport{SessionID: owner, Result: []byte(`{}`)})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := store.Get(ctx, uuid.New(), saved.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, err := store.Get(ctx, owner, saved.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.ID != saved.ID || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected report %+v", got)
	}
}

// TestMemoryReportStoreDeleteBySession проверяет очистку архива сессии.
func TestMemoryReportStoreDeleteBySession(t *testing.T) {
	store := NewMemoryReportStore()
	ctx := context.Background()
	sessionID := uuid.New()

	_, _ = store.Save(ctx, models.ArchivedReport{SessionID: sessionID, Result: []byte(`{}`)})
	_, _ = store.Save(ctx, models.ArchivedReport{SessionID: sessionID, Result: []byte(`{}`)})

	deleted, err := store.DeleteBySession(ctx, sessionID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}

	reports, _ := store.ListBySession(ctx, sessionID, 10)
	if len(reports) != 0 {
		t.Fatalf("expected empty archive, got %d", len(reports))
	}
}
