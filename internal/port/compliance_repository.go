package port

import (
	"context"

	"github.com/google/uuid"

	"rcmbooks/internal/domain"
)

// ComplianceRepository persists per-transaction payment compliance records.
type ComplianceRepository interface {
	Upsert(ctx context.Context, rec *domain.ComplianceRecord) error
	GetByTransaction(ctx context.Context, registrationID, txID uuid.UUID) (*domain.ComplianceRecord, error)
	ListOverdue(ctx context.Context, registrationID uuid.UUID) ([]domain.ComplianceRecord, error)
	ListByPeriod(ctx context.Context, registrationID uuid.UUID, period string) ([]domain.ComplianceRecord, error)
}

// PeriodRepository tracks the filing lifecycle of return periods.
type PeriodRepository interface {
	GetOrCreate(ctx context.Context, registrationID uuid.UUID, period string) (*domain.ReturnPeriod, error)
	SetStatus(ctx context.Context, registrationID uuid.UUID, period string, status domain.PeriodStatus) error
	List(ctx context.Context, registrationID uuid.UUID) ([]domain.ReturnPeriod, error)
}
