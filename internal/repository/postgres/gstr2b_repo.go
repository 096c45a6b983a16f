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

type gstr2bRepo struct {
	db *sqlx.DB
}

// NewGSTR2BRepo creates a new PostgreSQL-backed GSTR2BRepository.
func NewGSTR2BRepo(db *sqlx.DB) port.GSTR2BRepository {
	return &gstr2bRepo{db: db}
}

// BulkInsert replaces nothing; a re-import of the same period should call
// DeleteByPeriod first. Runs in one transaction so a failed import leaves no
// partial feed behind.
func (r *gstr2bRepo) BulkInsert(ctx context.Context, registrationID uuid.UUID, period string, entries []domain.GSTR2BEntry) error {
	dbtx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("gstr2bRepo.BulkInsert begin: %w", err)
	}
	defer dbtx.Rollback()

	query := `INSERT INTO gstr2b_entries (
		id, registration_id, supplier_gstin, invoice_number, invoice_date,
		taxable_amount, cgst, sgst, igst, cess,
		eligible_amount, blocked_amount, period, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	now := time.Now().UTC()
	for i := range entries {
		e := &entries[i]
		e.ID = uuid.New()
		e.RegistrationID = registrationID
		e.Period = period
		e.CreatedAt = now
		_, err := dbtx.ExecContext(ctx, query,
			e.ID, e.RegistrationID, e.SupplierGSTIN, e.InvoiceNumber, e.InvoiceDate,
			e.TaxableAmount, e.CGST, e.SGST, e.IGST, e.Cess,
			e.EligibleAmount, e.BlockedAmount, e.Period, e.CreatedAt)
		if err != nil {
			return fmt.Errorf("gstr2bRepo.BulkInsert row %d: %w", i, err)
		}
	}
	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("gstr2bRepo.BulkInsert commit: %w", err)
	}
	return nil
}

func (r *gstr2bRepo) ListByPeriod(ctx context.Context, registrationID uuid.UUID, period string) ([]domain.GSTR2BEntry, error) {
	var entries []domain.GSTR2BEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM gstr2b_entries WHERE registration_id = $1 AND period = $2
		 ORDER BY supplier_gstin, invoice_number`,
		registrationID, period)
	if err != nil {
		return nil, fmt.Errorf("gstr2bRepo.ListByPeriod: %w", err)
	}
	return entries, nil
}

func (r *gstr2bRepo) DeleteByPeriod(ctx context.Context, registrationID uuid.UUID, period string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM gstr2b_entries WHERE registration_id = $1 AND period = $2",
		registrationID, period)
	if err != nil {
		return fmt.Errorf("gstr2bRepo.DeleteByPeriod: %w", err)
	}
	return nil
}
