package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"rcmbooks/internal/detection"
	"rcmbooks/internal/domain"
	"rcmbooks/internal/port"
)

// CreateRegistrationInput onboards a GSTIN together with its first admin user.
type CreateRegistrationInput struct {
	GSTIN         string `json:"gstin" binding:"required"`
	LegalName     string `json:"legal_name" binding:"required"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminName     string `json:"admin_name" binding:"required"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
}

// RegistrationService manages GST registrations.
type RegistrationService interface {
	Create(ctx context.Context, input CreateRegistrationInput) (*domain.Registration, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Registration, error)
	List(ctx context.Context, offset, limit int) ([]domain.Registration, int, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type registrationService struct {
	regRepo  port.RegistrationRepository
	userRepo port.UserRepository
}

// NewRegistrationService creates a new RegistrationService implementation.
func NewRegistrationService(regRepo port.RegistrationRepository, userRepo port.UserRepository) RegistrationService {
	return &registrationService{regRepo: regRepo, userRepo: userRepo}
}

// Create validates the GSTIN shape, stores the registration and seeds its
// first admin user.
func (s *registrationService) Create(ctx context.Context, input CreateRegistrationInput) (*domain.Registration, error) {
	gstin := strings.ToUpper(strings.TrimSpace(input.GSTIN))
	if !detection.IsValidGSTIN(gstin) {
		return nil, fmt.Errorf("%w: gstin %q is not structurally valid", domain.ErrValidation, input.GSTIN)
	}

	reg := &domain.Registration{
		ID:        uuid.New(),
		GSTIN:     gstin,
		LegalName: strings.TrimSpace(input.LegalName),
		StateCode: gstin[:2],
		IsActive:  true,
	}
	if err := s.regRepo.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("registration.Create: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("registration.Create: %w", err)
	}
	admin := &domain.User{
		ID:             uuid.New(),
		RegistrationID: reg.ID,
		Email:          strings.ToLower(strings.TrimSpace(input.AdminEmail)),
		PasswordHash:   string(hash),
		FullName:       strings.TrimSpace(input.AdminName),
		Role:           domain.RoleAdmin,
		IsActive:       true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("registration.Create: %w", err)
	}
	return reg, nil
}

func (s *registrationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Registration, error) {
	return s.regRepo.GetByID(ctx, id)
}

func (s *registrationService) List(ctx context.Context, offset, limit int) ([]domain.Registration, int, error) {
	return s.regRepo.List(ctx, offset, limit)
}

// Deactivate soft-disables a registration. Transactions and ledger history
// stay intact for audit.
func (s *registrationService) Deactivate(ctx context.Context, id uuid.UUID) error {
	reg, err := s.regRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("registration.Deactivate: %w", err)
	}
	reg.IsActive = false
	if err := s.regRepo.Update(ctx, reg); err != nil {
		return fmt.Errorf("registration.Deactivate: %w", err)
	}
	return nil
}
