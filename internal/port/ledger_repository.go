package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rcmbooks/internal/domain"
)

// LedgerRepository defines the contract for the append-only electronic
// credit ledger. There is no Update or Delete: corrections are posted as
// new adjustment entries.
type LedgerRepository interface {
	Append(ctx context.Context, entry *domain.CreditLedgerEntry) error
	ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]domain.CreditLedgerEntry, error)
	ListByRegistrationUpTo(ctx context.Context, registrationID uuid.UUID, asOf time.Time) ([]domain.CreditLedgerEntry, error)
}
