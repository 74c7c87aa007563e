package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"example.com/capacity-planner/console/internal/models"
	"example.com/capacity-planner/console/internal/planning"
)

// TestArchiverStoresResult проверяет сохранение отчета и итога первого года.
func TestArchiverStoresResult(t *testing.T) {
	store := NewMemoryReportStore()
	archiver := NewArchiver(store)
	ctx := context.Background()
	sessionID := uuid.New()

	var result planning.Result
	if err := json.Unmarshal([]byte(`{
		"architecture": {"architecture_type": "sharding", "node_count": 4},
		"resources": {"cost": {"total": {"total_first_year": 125000}}}
	}`), &result); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	input := &planning.ManualInput{TotalDataSizeGB: 500}
	if err := archiver.Archive(ctx, sessionID, models.ReportSourceManual, input, result); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	reports, err := store.ListBySession(ctx, sessionID, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}

	report := reports[0]
	if report.TotalFirstYear != 125000 {
		t.Fatalf("expected total 125000, got %v", report.TotalFirstYear)
	}
	if report.Source != models.ReportSourceManual {
		t.Fatalf("expected manual source, got %s", report.Source)
	}
	if len(report.Input) == 0 {
		t.Fatal("expected archived input")
	}

	var restored planning.Result
	if err := json.Unmarshal(report.Result, &restored); err != nil {
		t.Fatalf("expected archived result to decode, got %v", err)
	}
	if restored.Architecture.ArchitectureType != "sharding" {
		t.Fatalf("expected sharding, got %s", restored.Architecture.ArchitectureType)
	}
}

// TestArchiverWithoutInput проверяет архивирование отчета по изображению.
func TestArchiverWithoutInput(t *testing.T) {
	store := NewMemoryReportStore()
	archiver := NewArchiver(store)
	sessionID := uuid.New()

	if err := archiver.Archive(context.Background(), sessionID, models.ReportSourceImage, nil, planning.Result{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	reports, _ := store.ListBySession(context.Background(), sessionID, 10)
	if len(reports) != 1 || reports[0].Input != nil {
		t.Fatalf("expected one report without input, got %+v", reports)
	}
}
