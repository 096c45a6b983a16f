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

type periodRepo struct {
	db *sqlx.DB
}

// NewPeriodRepo creates a new PostgreSQL-backed PeriodRepository.
func NewPeriodRepo(db *sqlx.DB) port.PeriodRepository {
	return &periodRepo{db: db}
}

func (r *periodRepo) GetOrCreate(ctx context.Context, registrationID uuid.UUID, period string) (*domain.ReturnPeriod, error) {
	var rp domain.ReturnPeriod
	err := r.db.GetContext(ctx, &rp,
		"SELECT * FROM return_periods WHERE registration_id = $1 AND period = $2",
		registrationID, period)
	if err == nil {
		return &rp, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("periodRepo.GetOrCreate lookup: %w", err)
	}

	rp = domain.ReturnPeriod{
		ID:             uuid.New(),
		RegistrationID: registrationID,
		Period:         period,
		Status:         domain.PeriodOpen,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO return_periods (id, registration_id, period, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (registration_id, period) DO NOTHING`,
		rp.ID, rp.RegistrationID, rp.Period, rp.Status, rp.CreatedAt, rp.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("periodRepo.GetOrCreate insert: %w", err)
	}
	// Re-read to cover a concurrent insert winning the conflict.
	err = r.db.GetContext(ctx, &rp,
		"SELECT * FROM return_periods WHERE registration_id = $1 AND period = $2",
		registrationID, period)
	if err != nil {
		return nil, fmt.Errorf("periodRepo.GetOrCreate reread: %w", err)
	}
	return &rp, nil
}

func (r *periodRepo) SetStatus(ctx context.Context, registrationID uuid.UUID, period string, status domain.PeriodStatus) error {
	var filedAt any
	if status == domain.PeriodFiled {
		filedAt = time.Now().UTC()
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE return_periods SET status = $1, filed_at = COALESCE($2, filed_at), updated_at = NOW()
		 WHERE registration_id = $3 AND period = $4`,
		status, filedAt, registrationID, period)
	if err != nil {
		return fmt.Errorf("periodRepo.SetStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *periodRepo) List(ctx context.Context, registrationID uuid.UUID) ([]domain.ReturnPeriod, error) {
	var periods []domain.ReturnPeriod
	err := r.db.SelectContext(ctx, &periods,
		"SELECT * FROM return_periods WHERE registration_id = $1 ORDER BY period",
		registrationID)
	if err != nil {
		return nil, fmt.Errorf("periodRepo.List: %w", err)
	}
	return periods, nil
}
