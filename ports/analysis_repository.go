package ports

import (
	"context"

	"goccram/domain/core"
	"goccram/models"
)

// AnalysisRepository persists completed analysis runs. Persistence is
// optional at runtime; callers without a database simply pass a nil
// repository and keep results in memory.
type AnalysisRepository interface {
	Save(ctx context.Context, result *models.AnalysisResult) error
	Get(ctx context.Context, id core.AnalysisID) (*models.AnalysisResult, error)
	List(ctx context.Context, limit int) ([]*models.AnalysisResult, error)
	Delete(ctx context.Context, id core.AnalysisID) error
}
