package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rcmbooks/internal/domain"
)

// MockLedgerRepo is a mock implementation of port.LedgerRepository.
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Append(ctx context.Context, entry *domain.CreditLedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepo) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]domain.CreditLedgerEntry, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditLedgerEntry), args.Error(1)
}

func (m *MockLedgerRepo) ListByRegistrationUpTo(ctx context.Context, registrationID uuid.UUID, asOf time.Time) ([]domain.CreditLedgerEntry, error) {
	args := m.Called(ctx, registrationID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditLedgerEntry), args.Error(1)
}
