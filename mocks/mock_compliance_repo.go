package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rcmbooks/internal/domain"
)

// MockComplianceRepo is a mock implementation of port.ComplianceRepository.
type MockComplianceRepo struct {
	mock.Mock
}

func (m *MockComplianceRepo) Upsert(ctx context.Context, rec *domain.ComplianceRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockComplianceRepo) GetByTransaction(ctx context.Context, registrationID, txID uuid.UUID) (*domain.ComplianceRecord, error) {
	args := m.Called(ctx, registrationID, txID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComplianceRecord), args.Error(1)
}

func (m *MockComplianceRepo) ListOverdue(ctx context.Context, registrationID uuid.UUID) ([]domain.ComplianceRecord, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ComplianceRecord), args.Error(1)
}

func (m *MockComplianceRepo) ListByPeriod(ctx context.Context, registrationID uuid.UUID, period string) ([]domain.ComplianceRecord, error) {
	args := m.Called(ctx, registrationID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ComplianceRecord), args.Error(1)
}

// MockPeriodRepo is a mock implementation of port.PeriodRepository.
type MockPeriodRepo struct {
	mock.Mock
}

func (m *MockPeriodRepo) GetOrCreate(ctx context.Context, registrationID uuid.UUID, period string) (*domain.ReturnPeriod, error) {
	args := m.Called(ctx, registrationID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReturnPeriod), args.Error(1)
}

func (m *MockPeriodRepo) SetStatus(ctx context.Context, registrationID uuid.UUID, period string, status domain.PeriodStatus) error {
	args := m.Called(ctx, registrationID, period, status)
	return args.Error(0)
}

func (m *MockPeriodRepo) List(ctx context.Context, registrationID uuid.UUID) ([]domain.ReturnPeriod, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReturnPeriod), args.Error(1)
}
