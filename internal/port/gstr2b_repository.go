package port

import (
	"context"

	"github.com/google/uuid"

	"rcmbooks/internal/domain"
)

// GSTR2BRepository stores imported GSTR-2B feed entries per return period.
type GSTR2BRepository interface {
	BulkInsert(ctx context.Context, registrationID uuid.UUID, period string, entries []domain.GSTR2BEntry) error
	ListByPeriod(ctx context.Context, registrationID uuid.UUID, period string) ([]domain.GSTR2BEntry, error)
	DeleteByPeriod(ctx context.Context, registrationID uuid.UUID, period string) error
}

// ReconciliationRepository persists reconciliation run results so a period's
// outcome can be reviewed after the fact.
type ReconciliationRepository interface {
	Save(ctx context.Context, result *domain.ReconciliationResult) error
	GetByPeriod(ctx context.Context, registrationID uuid.UUID, period string) (*domain.ReconciliationResult, error)
}
