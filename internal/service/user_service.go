package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/port"
)

// CreateUserInput adds a user to an existing registration.
type CreateUserInput struct {
	Email    string          `json:"email" binding:"required,email"`
	FullName string          `json:"full_name" binding:"required"`
	Password string          `json:"password" binding:"required,min=8"`
	Role     domain.UserRole `json:"role" binding:"required"`
}

// UpdateUserInput carries optional user mutations; nil fields are untouched.
type UpdateUserInput struct {
	FullName *string          `json:"full_name"`
	Role     *domain.UserRole `json:"role"`
	IsActive *bool            `json:"is_active"`
}

// UserService manages the users of a registration.
type UserService interface {
	Create(ctx context.Context, registrationID uuid.UUID, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, registrationID, userID uuid.UUID) (*domain.User, error)
	List(ctx context.Context, registrationID uuid.UUID, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, registrationID, userID uuid.UUID, input UpdateUserInput) (*domain.User, error)
	ChangePassword(ctx context.Context, registrationID, userID uuid.UUID, current, updated string) error
	Delete(ctx context.Context, registrationID, userID uuid.UUID) error
}

type userService struct {
	userRepo port.UserRepository
}

// NewUserService creates a new UserService implementation.
func NewUserService(userRepo port.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Create(ctx context.Context, registrationID uuid.UUID, input CreateUserInput) (*domain.User, error) {
	if input.Role != domain.RoleAdmin && input.Role != domain.RoleMember {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, input.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("user.Create: %w", err)
	}
	user := &domain.User{
		ID:             uuid.New(),
		RegistrationID: registrationID,
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:   string(hash),
		FullName:       strings.TrimSpace(input.FullName),
		Role:           input.Role,
		IsActive:       true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("user.Create: %w", err)
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, registrationID, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, registrationID, userID)
}

func (s *userService) List(ctx context.Context, registrationID uuid.UUID, offset, limit int) ([]domain.User, int, error) {
	return s.userRepo.ListByRegistration(ctx, registrationID, offset, limit)
}

func (s *userService) Update(ctx context.Context, registrationID, userID uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, registrationID, userID)
	if err != nil {
		return nil, fmt.Errorf("user.Update: %w", err)
	}
	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Role != nil {
		if *input.Role != domain.RoleAdmin && *input.Role != domain.RoleMember {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, *input.Role)
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("user.Update: %w", err)
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, registrationID, userID uuid.UUID, current, updated string) error {
	user, err := s.userRepo.GetByID(ctx, registrationID, userID)
	if err != nil {
		return fmt.Errorf("user.ChangePassword: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return domain.ErrUnauthorized
	}
	if len(updated) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(updated), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("user.ChangePassword: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("user.ChangePassword: %w", err)
	}
	return nil
}

func (s *userService) Delete(ctx context.Context, registrationID, userID uuid.UUID) error {
	return s.userRepo.Delete(ctx, registrationID, userID)
}
