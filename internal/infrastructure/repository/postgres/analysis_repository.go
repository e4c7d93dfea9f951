package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkoval/findoc-scanner/internal/core/domain"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082902)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS analysis_results (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	owner_id TEXT NOT NULL,
	analysis_type TEXT NOT NULL,
	query TEXT NOT NULL,
	output JSONB NOT NULL,
	confidence_score DOUBLE PRECISION NOT NULL,
	data_quality_score DOUBLE PRECISION NOT NULL,
	validation_status TEXT NOT NULL,
	error_logs JSONB NOT NULL DEFAULT '[]'::jsonb,
	processing_time_sec INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analysis_results_document ON analysis_results(document_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_analysis_results_owner ON analysis_results(owner_id, created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const analysisColumns = `id, document_id, owner_id, analysis_type, query, output, confidence_score, data_quality_score, validation_status, error_logs, processing_time_sec, created_at`

func (r *AnalysisRepository) Create(ctx context.Context, result *domain.AnalysisResult) error {
	outputJSON, err := json.Marshal(result.Output)
	if err != nil {
		return fmt.Errorf("marshal analysis output: %w", err)
	}
	logsJSON, err := json.Marshal(result.ErrorLogs)
	if err != nil {
		return fmt.Errorf("marshal error logs: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO analysis_results (`+analysisColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`,
		result.ID, result.DocumentID, result.OwnerID, result.AnalysisType, result.Query, outputJSON,
		result.ConfidenceScore, result.DataQualityScore, string(result.ValidationStatus), logsJSON,
		result.ProcessingTimeSec, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis result: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (*domain.AnalysisResult, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+analysisColumns+`
FROM analysis_results
WHERE id = $1
`, id)

	result, err := scanAnalysisResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get analysis result", fmt.Errorf("analysis %s", id))
		}
		return nil, fmt.Errorf("scan analysis result: %w", err)
	}
	return result, nil
}

// ListByDocument returns results newest-first.
func (r *AnalysisRepository) ListByDocument(ctx context.Context, documentID string) ([]domain.AnalysisResult, error) {
	return r.list(ctx, `
SELECT `+analysisColumns+`
FROM analysis_results
WHERE document_id = $1
ORDER BY created_at DESC, id
`, documentID)
}

func (r *AnalysisRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.AnalysisResult, error) {
	return r.list(ctx, `
SELECT `+analysisColumns+`
FROM analysis_results
WHERE owner_id = $1
ORDER BY created_at DESC, id
`, ownerID)
}

func (r *AnalysisRepository) DeleteByDocument(ctx context.Context, documentID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analysis_results WHERE document_id = $1`, documentID)
	if err != nil {
		return 0, fmt.Errorf("delete analysis results: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete analysis results rows affected: %w", err)
	}
	return int(affected), nil
}

func (r *AnalysisRepository) list(ctx context.Context, query string, arg any) ([]domain.AnalysisResult, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query analysis results: %w", err)
	}
	defer rows.Close()

	results := []domain.AnalysisResult{}
	for rows.Next() {
		result, err := scanAnalysisResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis result row: %w", err)
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analysis result rows: %w", err)
	}
	return results, nil
}

func scanAnalysisResult(row rowScanner) (*domain.AnalysisResult, error) {
	var result domain.AnalysisResult
	var outputRaw, logsRaw []byte
	var validation string

	err := row.Scan(
		&result.ID, &result.DocumentID, &result.OwnerID, &result.AnalysisType, &result.Query,
		&outputRaw, &result.ConfidenceScore, &result.DataQualityScore, &validation, &logsRaw,
		&result.ProcessingTimeSec, &result.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(outputRaw, &result.Output); err != nil {
		return nil, fmt.Errorf("unmarshal analysis output: %w", err)
	}
	if err := json.Unmarshal(logsRaw, &result.ErrorLogs); err != nil {
		return nil, fmt.Errorf("unmarshal error logs: %w", err)
	}
	result.ValidationStatus = domain.ValidationStatus(validation)
	return &result, nil
}
