package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/capacity-planner/console/internal/models"
)

// MemoryReportStore хранит архив в памяти процесса.
type MemoryReportStore struct {
	mu      sync.RWMutex
	reports map[uuid.UUID][]models.ArchivedReport
	now     func() time.Time
}

// NewMemoryReportStore создает пустой архив в памяти.
func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{
		reports: make(map[uuid.UUID][]models.ArchivedReport),
		now:     time.Now,
	}
}

func (s *MemoryReportStore) Save(_ context.Context, report models.ArchivedReport) (models.ArchivedReport, error) {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[report.SessionID] = append(s.reports[report.SessionID], report)
	return report, nil
}

func (s *MemoryReportStore) Get(_ context.Context, sessionID, id uuid.UUID) (models.ArchivedReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, report := range s.reports[sessionID] {
		if report.ID == id {
			return report, nil
		}
	}
	return models.ArchivedReport{}, ErrNotFound
}

func (s *MemoryReportStore) ListBySession(_ context.Context, sessionID uuid.UUID, limit int) ([]models.ArchivedReport, error) {
	s.mu.RLock()
	stored := s.reports[sessionID]
	out := make([]models.ArchivedReport, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryReportStore) DeleteBySession(_ context.Context, sessionID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := int64(len(s.reports[sessionID]))
	delete(s.reports, sessionID)
	return count, nil
}
