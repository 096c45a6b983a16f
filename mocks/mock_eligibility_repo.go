package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rcmbooks/internal/domain"
)

// MockEligibilityRepo is a mock implementation of port.EligibilityRepository.
type MockEligibilityRepo struct {
	mock.Mock
}

func (m *MockEligibilityRepo) Create(ctx context.Context, res *domain.ITCEligibilityResult) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *MockEligibilityRepo) GetCurrentByTransaction(ctx context.Context, registrationID, txID uuid.UUID) (*domain.ITCEligibilityResult, error) {
	args := m.Called(ctx, registrationID, txID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ITCEligibilityResult), args.Error(1)
}

func (m *MockEligibilityRepo) ListByPeriod(ctx context.Context, registrationID uuid.UUID, period string) ([]domain.ITCEligibilityResult, error) {
	args := m.Called(ctx, registrationID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ITCEligibilityResult), args.Error(1)
}

func (m *MockEligibilityRepo) HistoryByTransaction(ctx context.Context, registrationID, txID uuid.UUID) ([]domain.ITCEligibilityResult, error) {
	args := m.Called(ctx, registrationID, txID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ITCEligibilityResult), args.Error(1)
}
