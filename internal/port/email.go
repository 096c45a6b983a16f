package port

import (
	"context"

	"rcmbooks/internal/domain"
)

// PaymentReminder carries everything the reminder template needs.
type PaymentReminder struct {
	GSTIN         string
	ReturnPeriod  string
	InvoiceNumber string
	AmountDue     string
	DueDate       string
	DaysOverdue   int
	Category      domain.OverdueCategory
}

// EmailSender defines the contract for outbound mail.
type EmailSender interface {
	SendPaymentReminder(ctx context.Context, toEmail, toName string, reminder PaymentReminder) error
	SendFilingConfirmation(ctx context.Context, toEmail, toName, period, archiveURL string) error
}
