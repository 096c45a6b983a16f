package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rcmbooks/internal/domain"
)

// MockGSTR2BRepo is a mock implementation of port.GSTR2BRepository.
type MockGSTR2BRepo struct {
	mock.Mock
}

func (m *MockGSTR2BRepo) BulkInsert(ctx context.Context, registrationID uuid.UUID, period string, entries []domain.GSTR2BEntry) error {
	args := m.Called(ctx, registrationID, period, entries)
	return args.Error(0)
}

func (m *MockGSTR2BRepo) ListByPeriod(ctx context.Context, registrationID uuid.UUID, period string) ([]domain.GSTR2BEntry, error) {
	args := m.Called(ctx, registrationID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GSTR2BEntry), args.Error(1)
}

func (m *MockGSTR2BRepo) DeleteByPeriod(ctx context.Context, registrationID uuid.UUID, period string) error {
	args := m.Called(ctx, registrationID, period)
	return args.Error(0)
}

// MockReconciliationRepo is a mock implementation of port.ReconciliationRepository.
type MockReconciliationRepo struct {
	mock.Mock
}

func (m *MockReconciliationRepo) Save(ctx context.Context, result *domain.ReconciliationResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockReconciliationRepo) GetByPeriod(ctx context.Context, registrationID uuid.UUID, period string) (*domain.ReconciliationResult, error) {
	args := m.Called(ctx, registrationID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationResult), args.Error(1)
}
