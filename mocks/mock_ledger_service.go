package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/ledger"
)

// MockLedgerService is a mock implementation of service.LedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Post(ctx context.Context, reg *domain.Registration, entry domain.CreditLedgerEntry) error {
	args := m.Called(ctx, reg, entry)
	return args.Error(0)
}

func (m *MockLedgerService) Balance(ctx context.Context, registrationID uuid.UUID) (ledger.Balance, error) {
	args := m.Called(ctx, registrationID)
	return args.Get(0).(ledger.Balance), args.Error(1)
}

func (m *MockLedgerService) BalanceAsOf(ctx context.Context, registrationID uuid.UUID, asOf time.Time) (ledger.Balance, error) {
	args := m.Called(ctx, registrationID, asOf)
	return args.Get(0).(ledger.Balance), args.Error(1)
}

func (m *MockLedgerService) Statement(ctx context.Context, registrationID uuid.UUID) ([]domain.CreditLedgerEntry, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditLedgerEntry), args.Error(1)
}

func (m *MockLedgerService) Utilize(ctx context.Context, reg *domain.Registration, liability ledger.Liability, entryDate time.Time) (*ledger.Utilization, error) {
	args := m.Called(ctx, reg, liability, entryDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Utilization), args.Error(1)
}
