package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/port"
)

type eligibilityRepo struct {
	db *sqlx.DB
}

// NewEligibilityRepo creates a new PostgreSQL-backed EligibilityRepository.
func NewEligibilityRepo(db *sqlx.DB) port.EligibilityRepository {
	return &eligibilityRepo{db: db}
}

func (r *eligibilityRepo) Create(ctx context.Context, res *domain.ITCEligibilityResult) error {
	res.ID = uuid.New()
	if res.EvaluatedAt.IsZero() {
		res.EvaluatedAt = time.Now().UTC()
	}
	query := `INSERT INTO itc_eligibility_results (
		id, registration_id, transaction_id, supersedes_id, eligible,
		eligible_amount, blocked_amount, eligible_cgst, eligible_sgst, eligible_igst, eligible_cess,
		eligible_percent, blocked_category, section_ref,
		reversal, reversal_reason, reversal_amount,
		reclaim, reclaim_amount, reclaim_period,
		table_tag, notes, evaluated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err := r.db.ExecContext(ctx, query,
		res.ID, res.RegistrationID, res.TransactionID, res.SupersedesID, res.Eligible,
		res.EligibleAmount, res.BlockedAmount, res.EligibleCGST, res.EligibleSGST, res.EligibleIGST, res.EligibleCess,
		res.EligiblePercent, res.BlockedCategory, res.SectionRef,
		res.Reversal, res.ReversalReason, res.ReversalAmount,
		res.Reclaim, res.ReclaimAmount, res.ReclaimPeriod,
		res.TableTag, res.Notes, res.EvaluatedAt)
	if err != nil {
		return fmt.Errorf("eligibilityRepo.Create: %w", err)
	}
	return nil
}

// GetCurrentByTransaction returns the newest result that no later result
// supersedes.
func (r *eligibilityRepo) GetCurrentByTransaction(ctx context.Context, registrationID, txID uuid.UUID) (*domain.ITCEligibilityResult, error) {
	var res domain.ITCEligibilityResult
	err := r.db.GetContext(ctx, &res,
		`SELECT * FROM itc_eligibility_results e
		 WHERE registration_id = $1 AND transaction_id = $2
		   AND NOT EXISTS (
			SELECT 1 FROM itc_eligibility_results s WHERE s.supersedes_id = e.id
		 )
		 ORDER BY evaluated_at DESC LIMIT 1`,
		registrationID, txID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("eligibilityRepo.GetCurrentByTransaction: %w", err)
	}
	return &res, nil
}

// ListByPeriod returns the current (non-superseded) result for every
// transaction in the period.
func (r *eligibilityRepo) ListByPeriod(ctx context.Context, registrationID uuid.UUID, period string) ([]domain.ITCEligibilityResult, error) {
	var out []domain.ITCEligibilityResult
	err := r.db.SelectContext(ctx, &out,
		`SELECT e.* FROM itc_eligibility_results e
		 JOIN rcm_transactions t ON t.id = e.transaction_id
		 WHERE e.registration_id = $1 AND t.return_period = $2
		   AND NOT EXISTS (
			SELECT 1 FROM itc_eligibility_results s WHERE s.supersedes_id = e.id
		 )
		 ORDER BY e.evaluated_at`,
		registrationID, period)
	if err != nil {
		return nil, fmt.Errorf("eligibilityRepo.ListByPeriod: %w", err)
	}
	return out, nil
}

func (r *eligibilityRepo) HistoryByTransaction(ctx context.Context, registrationID, txID uuid.UUID) ([]domain.ITCEligibilityResult, error) {
	var out []domain.ITCEligibilityResult
	err := r.db.SelectContext(ctx, &out,
		`SELECT * FROM itc_eligibility_results
		 WHERE registration_id = $1 AND transaction_id = $2
		 ORDER BY evaluated_at`,
		registrationID, txID)
	if err != nil {
		return nil, fmt.Errorf("eligibilityRepo.HistoryByTransaction: %w", err)
	}
	return out, nil
}
