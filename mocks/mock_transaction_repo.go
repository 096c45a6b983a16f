package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/port"
)

// MockTransactionRepo is a mock implementation of port.TransactionRepository.
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, tx *domain.RCMTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, registrationID, txID uuid.UUID) (*domain.RCMTransaction, error) {
	args := m.Called(ctx, registrationID, txID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RCMTransaction), args.Error(1)
}

func (m *MockTransactionRepo) List(ctx context.Context, registrationID uuid.UUID, filter port.TransactionFilter, offset, limit int) ([]domain.RCMTransaction, int, error) {
	args := m.Called(ctx, registrationID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.RCMTransaction), args.Int(1), args.Error(2)
}

func (m *MockTransactionRepo) ListByPeriod(ctx context.Context, registrationID uuid.UUID, period string) ([]domain.RCMTransaction, error) {
	args := m.Called(ctx, registrationID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RCMTransaction), args.Error(1)
}

func (m *MockTransactionRepo) ListUnpaidDueBefore(ctx context.Context, registrationID uuid.UUID, before time.Time) ([]domain.RCMTransaction, error) {
	args := m.Called(ctx, registrationID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RCMTransaction), args.Error(1)
}

func (m *MockTransactionRepo) Update(ctx context.Context, tx *domain.RCMTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepo) AttachPayment(ctx context.Context, registrationID, txID uuid.UUID, payment domain.Payment) error {
	args := m.Called(ctx, registrationID, txID, payment)
	return args.Error(0)
}

func (m *MockTransactionRepo) NextInvoiceSequence(ctx context.Context, registrationID uuid.UUID, fiscalYear string) (int, error) {
	args := m.Called(ctx, registrationID, fiscalYear)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepo) Delete(ctx context.Context, registrationID, txID uuid.UUID) error {
	args := m.Called(ctx, registrationID, txID)
	return args.Error(0)
}
