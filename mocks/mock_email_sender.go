package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rcmbooks/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendPaymentReminder(ctx context.Context, toEmail, toName string, reminder port.PaymentReminder) error {
	args := m.Called(ctx, toEmail, toName, reminder)
	return args.Error(0)
}

func (m *MockEmailSender) SendFilingConfirmation(ctx context.Context, toEmail, toName, period, archiveURL string) error {
	args := m.Called(ctx, toEmail, toName, period, archiveURL)
	return args.Error(0)
}
