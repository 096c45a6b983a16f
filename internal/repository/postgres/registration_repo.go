package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/port"
)

type registrationRepo struct {
	db *sqlx.DB
}

// NewRegistrationRepo creates a new PostgreSQL-backed RegistrationRepository.
func NewRegistrationRepo(db *sqlx.DB) port.RegistrationRepository {
	return &registrationRepo{db: db}
}

func (r *registrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	reg.ID = uuid.New()
	now := time.Now().UTC()
	reg.CreatedAt = now
	reg.UpdatedAt = now

	query := `INSERT INTO registrations (id, gstin, legal_name, state_code, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		reg.ID, reg.GSTIN, reg.LegalName, reg.StateCode, reg.IsActive, reg.CreatedAt, reg.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateGSTIN
		}
		return fmt.Errorf("registrationRepo.Create: %w", err)
	}
	return nil
}

func (r *registrationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Registration, error) {
	var reg domain.Registration
	err := r.db.GetContext(ctx, &reg, "SELECT * FROM registrations WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("registrationRepo.GetByID: %w", err)
	}
	return &reg, nil
}

func (r *registrationRepo) GetByGSTIN(ctx context.Context, gstin string) (*domain.Registration, error) {
	var reg domain.Registration
	err := r.db.GetContext(ctx, &reg, "SELECT * FROM registrations WHERE gstin = $1", gstin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("registrationRepo.GetByGSTIN: %w", err)
	}
	return &reg, nil
}

func (r *registrationRepo) List(ctx context.Context, offset, limit int) ([]domain.Registration, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM registrations"); err != nil {
		return nil, 0, fmt.Errorf("registrationRepo.List count: %w", err)
	}
	var regs []domain.Registration
	err := r.db.SelectContext(ctx, &regs,
		"SELECT * FROM registrations ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("registrationRepo.List: %w", err)
	}
	return regs, total, nil
}

func (r *registrationRepo) Update(ctx context.Context, reg *domain.Registration) error {
	reg.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE registrations SET legal_name = $1, state_code = $2, is_active = $3, updated_at = $4
		 WHERE id = $5`,
		reg.LegalName, reg.StateCode, reg.IsActive, reg.UpdatedAt, reg.ID)
	if err != nil {
		return fmt.Errorf("registrationRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM registrations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("registrationRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
