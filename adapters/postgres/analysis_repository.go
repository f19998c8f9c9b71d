package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"goccram/domain/core"
	"goccram/models"
	"goccram/ports"
)

// AnalysisRepositoryImpl implements ports.AnalysisRepository for PostgreSQL
type AnalysisRepositoryImpl struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new PostgreSQL analysis repository
func NewAnalysisRepository(db *sqlx.DB) ports.AnalysisRepository {
	return &AnalysisRepositoryImpl{db: db}
}

// Migrate creates the analyses table when it does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analyses (
			id         UUID PRIMARY KEY,
			dataset    TEXT NOT NULL,
			response   INT NOT NULL,
			predictors JSONB NOT NULL,
			ccram      DOUBLE PRECISION NOT NULL,
			sccram     DOUBLE PRECISION,
			payload    JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

// Save upserts one analysis result; the full result travels as JSONB so the
// schema stays stable as inference layers evolve.
func (r *AnalysisRepositoryImpl) Save(ctx context.Context, result *models.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal analysis %s: %w", result.ID, err)
	}
	predictors, _ := json.Marshal(result.Predictors)

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analyses (id, dataset, response, predictors, ccram, sccram, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			dataset    = EXCLUDED.dataset,
			response   = EXCLUDED.response,
			predictors = EXCLUDED.predictors,
			ccram      = EXCLUDED.ccram,
			sccram     = EXCLUDED.sccram,
			payload    = EXCLUDED.payload`,
		result.ID.String(), result.Dataset, result.Response, predictors,
		result.CCRAM, result.SCCRAM, payload, result.CreatedAt)
	return err
}

// Get retrieves a stored analysis by id.
func (r *AnalysisRepositoryImpl) Get(ctx context.Context, id core.AnalysisID) (*models.AnalysisResult, error) {
	var payload []byte
	err := r.db.QueryRowxContext(ctx,
		`SELECT payload FROM analyses WHERE id = $1`, id.String()).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	var result models.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshal analysis %s: %w", id, err)
	}
	return &result, nil
}

// List returns the most recent analyses, newest first.
func (r *AnalysisRepositoryImpl) List(ctx context.Context, limit int) ([]*models.AnalysisResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryxContext(ctx,
		`SELECT payload FROM analyses ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.AnalysisResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var result models.AnalysisResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, err
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}

// Delete removes a stored analysis.
func (r *AnalysisRepositoryImpl) Delete(ctx context.Context, id core.AnalysisID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = $1`, id.String())
	return err
}
