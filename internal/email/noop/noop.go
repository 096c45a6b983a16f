package noop

import (
	"context"
	"log"

	"rcmbooks/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs instead of sending.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendPaymentReminder(_ context.Context, toEmail, toName string, reminder port.PaymentReminder) error {
	log.Printf("[NOOP EMAIL] Payment reminder for %s (%s): invoice %s, Rs. %s due %s, %d day(s) overdue",
		toName, toEmail, reminder.InvoiceNumber, reminder.AmountDue, reminder.DueDate, reminder.DaysOverdue)
	return nil
}

func (s *noopSender) SendFilingConfirmation(_ context.Context, toEmail, toName, period, archiveURL string) error {
	log.Printf("[NOOP EMAIL] Filing confirmation for %s (%s): period %s archived at %s",
		toName, toEmail, period, archiveURL)
	return nil
}
