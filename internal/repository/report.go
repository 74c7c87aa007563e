package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/capacity-planner/console/internal/models"
)

// ReportStore хранит архив отчетов по сессиям.
type ReportStore interface {
	Save(ctx context.Context, report models.ArchivedReport) (models.ArchivedReport, error)
	Get(ctx context.Context, sessionID, id uuid.UUID) (models.ArchivedReport, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.ArchivedReport, error)
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
}

const reportsSchema = `CREATE TABLE IF NOT EXISTS planning_reports (
	id UUID PRIMARY KEY,
	session_id UUID NOT NULL,
	source TEXT NOT NULL,
	input JSONB,
	result JSONB NOT NULL,
	total_first_year DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS planning_reports_session_idx ON planning_reports (session_id, created_at DESC);`

type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository создает репозиторий архива отчетов.
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

// EnsureSchema создает таблицу архива, если ее еще нет.
func (r *ReportRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, reportsSchema)
	return err
}

// Save сохраняет отчет и возвращает его с идентификатором и временем создания.
func (r *ReportRepository) Save(ctx context.Context, report models.ArchivedReport) (models.ArchivedReport, error) {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO planning_reports (id, session_id, source, input, result, total_first_year)
		 VALUES ($1, $2, $3, NULLIF($4, '')::jsonb, $5::jsonb, $6)
		 RETURNING created_at`,
		report.ID,
		report.SessionID,
		string(report.Source),
		string(report.Input),
		string(report.Result),
		report.TotalFirstYear,
	).Scan(&report.CreatedAt)
	if err != nil {
		return models.ArchivedReport{}, err
	}

	return report, nil
}

// Get возвращает отчет сессии по идентификатору.
func (r *ReportRepository) Get(ctx context.Context, sessionID, id uuid.UUID) (models.ArchivedReport, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, session_id, source, input, result, total_first_year, created_at
		 FROM planning_reports
		 WHERE id = $1 AND session_id = $2`,
		id, sessionID,
	)

	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ArchivedReport{}, ErrNotFound
		}
		return models.ArchivedReport{}, err
	}

	return report, nil
}

// ListBySession возвращает последние отчеты сессии, новые первыми.
func (r *ReportRepository) ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.ArchivedReport, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, session_id, source, input, result, total_first_year, created_at
		 FROM planning_reports
		 WHERE session_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]models.ArchivedReport, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}

// DeleteBySession удаляет все отчеты сессии.
func (r *ReportRepository) DeleteBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM planning_reports WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanReport(row pgx.Row) (models.ArchivedReport, error) {
	var report models.ArchivedReport
	var source string
	var input, result []byte

	if err := row.Scan(&report.ID, &report.SessionID, &source, &input, &result, &report.TotalFirstYear, &report.CreatedAt); err != nil {
		return models.ArchivedReport{}, err
	}

	report.Source = models.ReportSource(source)
	report.Input = input
	report.Result = result
	return report, nil
}
