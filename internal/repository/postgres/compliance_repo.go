package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/port"
)

type complianceRepo struct {
	db *sqlx.DB
}

// NewComplianceRepo creates a new PostgreSQL-backed ComplianceRepository.
func NewComplianceRepo(db *sqlx.DB) port.ComplianceRepository {
	return &complianceRepo{db: db}
}

// Upsert keys on transaction_id: compliance records are recomputed, not
// accumulated.
func (r *complianceRepo) Upsert(ctx context.Context, rec *domain.ComplianceRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	query := `INSERT INTO compliance_records (
		id, registration_id, transaction_id, due_date, status,
		overdue_category, days_overdue, interest_amount, return_period, computed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (transaction_id) DO UPDATE SET
		due_date = EXCLUDED.due_date,
		status = EXCLUDED.status,
		overdue_category = EXCLUDED.overdue_category,
		days_overdue = EXCLUDED.days_overdue,
		interest_amount = EXCLUDED.interest_amount,
		return_period = EXCLUDED.return_period,
		computed_at = EXCLUDED.computed_at`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.RegistrationID, rec.TransactionID, rec.DueDate, rec.Status,
		rec.OverdueCategory, rec.DaysOverdue, rec.InterestAmount, rec.ReturnPeriod, rec.ComputedAt)
	if err != nil {
		return fmt.Errorf("complianceRepo.Upsert: %w", err)
	}
	return nil
}

func (r *complianceRepo) GetByTransaction(ctx context.Context, registrationID, txID uuid.UUID) (*domain.ComplianceRecord, error) {
	var rec domain.ComplianceRecord
	err := r.db.GetContext(ctx, &rec,
		"SELECT * FROM compliance_records WHERE registration_id = $1 AND transaction_id = $2",
		registrationID, txID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("complianceRepo.GetByTransaction: %w", err)
	}
	return &rec, nil
}

func (r *complianceRepo) ListOverdue(ctx context.Context, registrationID uuid.UUID) ([]domain.ComplianceRecord, error) {
	var recs []domain.ComplianceRecord
	err := r.db.SelectContext(ctx, &recs,
		`SELECT * FROM compliance_records WHERE registration_id = $1 AND status = 'overdue'
		 ORDER BY days_overdue DESC`,
		registrationID)
	if err != nil {
		return nil, fmt.Errorf("complianceRepo.ListOverdue: %w", err)
	}
	return recs, nil
}

func (r *complianceRepo) ListByPeriod(ctx context.Context, registrationID uuid.UUID, period string) ([]domain.ComplianceRecord, error) {
	var recs []domain.ComplianceRecord
	err := r.db.SelectContext(ctx, &recs,
		`SELECT * FROM compliance_records WHERE registration_id = $1 AND return_period = $2
		 ORDER BY due_date`,
		registrationID, period)
	if err != nil {
		return nil, fmt.Errorf("complianceRepo.ListByPeriod: %w", err)
	}
	return recs, nil
}
