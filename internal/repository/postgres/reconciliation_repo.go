package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/port"
)

type reconciliationRepo struct {
	db *sqlx.DB
}

// NewReconciliationRepo creates a new PostgreSQL-backed ReconciliationRepository.
func NewReconciliationRepo(db *sqlx.DB) port.ReconciliationRepository {
	return &reconciliationRepo{db: db}
}

// Match detail lists are stored as JSONB: they are read back whole for
// review, never queried row-by-row.
type reconciliationRow struct {
	ID             uuid.UUID       `db:"id"`
	RegistrationID uuid.UUID       `db:"registration_id"`
	Period         string          `db:"period"`
	Matched        []byte          `db:"matched"`
	Unmatched      []byte          `db:"unmatched"`
	Mismatched     []byte          `db:"mismatched"`
	Violations     []byte          `db:"violations"`
	MatchPercent   decimal.Decimal `db:"match_percent"`
	IsReconciled   bool            `db:"is_reconciled"`
	RunAt          time.Time       `db:"run_at"`
}

func (r *reconciliationRepo) Save(ctx context.Context, result *domain.ReconciliationResult) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	matched, err := json.Marshal(result.Matched)
	if err != nil {
		return fmt.Errorf("reconciliationRepo.Save marshal matched: %w", err)
	}
	unmatched, err := json.Marshal(result.Unmatched)
	if err != nil {
		return fmt.Errorf("reconciliationRepo.Save marshal unmatched: %w", err)
	}
	mismatched, err := json.Marshal(result.Mismatched)
	if err != nil {
		return fmt.Errorf("reconciliationRepo.Save marshal mismatched: %w", err)
	}
	violations, err := json.Marshal(result.Violations)
	if err != nil {
		return fmt.Errorf("reconciliationRepo.Save marshal violations: %w", err)
	}

	query := `INSERT INTO reconciliation_results (
		id, registration_id, period, matched, unmatched, mismatched, violations,
		match_percent, is_reconciled, run_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (registration_id, period) DO UPDATE SET
		matched = EXCLUDED.matched,
		unmatched = EXCLUDED.unmatched,
		mismatched = EXCLUDED.mismatched,
		violations = EXCLUDED.violations,
		match_percent = EXCLUDED.match_percent,
		is_reconciled = EXCLUDED.is_reconciled,
		run_at = EXCLUDED.run_at`
	_, err = r.db.ExecContext(ctx, query,
		result.ID, result.RegistrationID, result.Period, matched, unmatched, mismatched, violations,
		result.MatchPercent, result.IsReconciled, result.RunAt)
	if err != nil {
		return fmt.Errorf("reconciliationRepo.Save: %w", err)
	}
	return nil
}

func (r *reconciliationRepo) GetByPeriod(ctx context.Context, registrationID uuid.UUID, period string) (*domain.ReconciliationResult, error) {
	var row reconciliationRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM reconciliation_results WHERE registration_id = $1 AND period = $2",
		registrationID, period)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reconciliationRepo.GetByPeriod: %w", err)
	}

	result := &domain.ReconciliationResult{
		ID:             row.ID,
		RegistrationID: row.RegistrationID,
		Period:         row.Period,
		MatchPercent:   row.MatchPercent,
		IsReconciled:   row.IsReconciled,
		RunAt:          row.RunAt,
	}
	for _, pair := range []struct {
		raw  []byte
		dest any
	}{
		{row.Matched, &result.Matched},
		{row.Unmatched, &result.Unmatched},
		{row.Mismatched, &result.Mismatched},
		{row.Violations, &result.Violations},
	} {
		if len(pair.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(pair.raw, pair.dest); err != nil {
			return nil, fmt.Errorf("reconciliationRepo.GetByPeriod unmarshal: %w", err)
		}
	}
	return result, nil
}
