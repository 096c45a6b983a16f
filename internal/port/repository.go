package port

import (
	"context"

	"github.com/google/uuid"

	"rcmbooks/internal/domain"
)

// RegistrationRepository defines the contract for GST registration persistence.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *domain.Registration) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Registration, error)
	GetByGSTIN(ctx context.Context, gstin string) (*domain.Registration, error)
	List(ctx context.Context, offset, limit int) ([]domain.Registration, int, error)
	Update(ctx context.Context, reg *domain.Registration) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the contract for user persistence.
// All query methods include registrationID to enforce isolation at the data layer.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, registrationID, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, registrationID uuid.UUID, email string) (*domain.User, error)
	ListByRegistration(ctx context.Context, registrationID uuid.UUID, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, registrationID, userID uuid.UUID) error
}
