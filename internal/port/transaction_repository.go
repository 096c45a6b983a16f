package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rcmbooks/internal/domain"
)

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	ReturnPeriod   string
	Classification domain.RCMCategory
	PaymentStatus  domain.PaymentStatus
	SupplierGSTIN  string
	From           time.Time
	To             time.Time
}

// TransactionRepository defines the contract for RCM transaction persistence.
// All query methods include registrationID for isolation.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.RCMTransaction) error
	GetByID(ctx context.Context, registrationID, txID uuid.UUID) (*domain.RCMTransaction, error)
	List(ctx context.Context, registrationID uuid.UUID, filter TransactionFilter, offset, limit int) ([]domain.RCMTransaction, int, error)
	ListByPeriod(ctx context.Context, registrationID uuid.UUID, period string) ([]domain.RCMTransaction, error)
	ListUnpaidDueBefore(ctx context.Context, registrationID uuid.UUID, before time.Time) ([]domain.RCMTransaction, error)
	Update(ctx context.Context, tx *domain.RCMTransaction) error
	AttachPayment(ctx context.Context, registrationID, txID uuid.UUID, payment domain.Payment) error
	NextInvoiceSequence(ctx context.Context, registrationID uuid.UUID, fiscalYear string) (int, error)
	Delete(ctx context.Context, registrationID, txID uuid.UUID) error
}

// EligibilityRepository stores ITC eligibility determinations. Results are
// never updated in place: a re-evaluation inserts a new row pointing at the
// one it supersedes.
type EligibilityRepository interface {
	Create(ctx context.Context, res *domain.ITCEligibilityResult) error
	GetCurrentByTransaction(ctx context.Context, registrationID, txID uuid.UUID) (*domain.ITCEligibilityResult, error)
	ListByPeriod(ctx context.Context, registrationID uuid.UUID, period string) ([]domain.ITCEligibilityResult, error)
	HistoryByTransaction(ctx context.Context, registrationID, txID uuid.UUID) ([]domain.ITCEligibilityResult, error)
}
