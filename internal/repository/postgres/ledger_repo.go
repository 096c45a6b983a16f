package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/port"
)

type ledgerRepo struct {
	db *sqlx.DB
}

// NewLedgerRepo creates a new PostgreSQL-backed LedgerRepository.
// The table is append-only: no UPDATE or DELETE statements exist here.
func NewLedgerRepo(db *sqlx.DB) port.LedgerRepository {
	return &ledgerRepo{db: db}
}

func (r *ledgerRepo) Append(ctx context.Context, entry *domain.CreditLedgerEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now().UTC()
	query := `INSERT INTO credit_ledger_entries (
		id, registration_id, transaction_id, entry_date, entry_type,
		cgst, sgst, igst, cess,
		balance_cgst, balance_sgst, balance_igst, balance_cess,
		narration, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.RegistrationID, entry.TransactionID, entry.EntryDate, entry.Type,
		entry.CGST, entry.SGST, entry.IGST, entry.Cess,
		entry.BalanceCGST, entry.BalanceSGST, entry.BalanceIGST, entry.BalanceCess,
		entry.Narration, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("ledgerRepo.Append: %w", err)
	}
	return nil
}

func (r *ledgerRepo) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]domain.CreditLedgerEntry, error) {
	var entries []domain.CreditLedgerEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM credit_ledger_entries WHERE registration_id = $1
		 ORDER BY entry_date, created_at`,
		registrationID)
	if err != nil {
		return nil, fmt.Errorf("ledgerRepo.ListByRegistration: %w", err)
	}
	return entries, nil
}

func (r *ledgerRepo) ListByRegistrationUpTo(ctx context.Context, registrationID uuid.UUID, asOf time.Time) ([]domain.CreditLedgerEntry, error) {
	var entries []domain.CreditLedgerEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM credit_ledger_entries WHERE registration_id = $1 AND entry_date <= $2
		 ORDER BY entry_date, created_at`,
		registrationID, asOf)
	if err != nil {
		return nil, fmt.Errorf("ledgerRepo.ListByRegistrationUpTo: %w", err)
	}
	return entries, nil
}
