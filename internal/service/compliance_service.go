package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rcmbooks/internal/compliance"
	"rcmbooks/internal/domain"
	"rcmbooks/internal/port"
)

// ComplianceService keeps per-transaction payment compliance records current
// and nudges admins about overdue liabilities.
type ComplianceService interface {
	Refresh(ctx context.Context, registrationID uuid.UUID, period string, asOf time.Time) ([]domain.ComplianceRecord, error)
	GetByTransaction(ctx context.Context, registrationID, txID uuid.UUID) (*domain.ComplianceRecord, error)
	ListByPeriod(ctx context.Context, registrationID uuid.UUID, period string) ([]domain.ComplianceRecord, error)
	SendReminders(ctx context.Context, registrationID uuid.UUID) (int, error)
}

type complianceService struct {
	compRepo     port.ComplianceRepository
	txRepo       port.TransactionRepository
	regRepo      port.RegistrationRepository
	userRepo     port.UserRepository
	mailer       port.EmailSender
	interestRate decimal.Decimal
}

// NewComplianceService creates a new ComplianceService. rate is the annual
// Section 50(1) interest rate in percent; an empty or unparseable value falls
// back to the statutory default.
func NewComplianceService(
	compRepo port.ComplianceRepository,
	txRepo port.TransactionRepository,
	regRepo port.RegistrationRepository,
	userRepo port.UserRepository,
	mailer port.EmailSender,
	rate string,
) ComplianceService {
	interestRate := compliance.DefaultInterestRate
	if rate != "" {
		parsed, err := decimal.NewFromString(rate)
		if err != nil || !parsed.IsPositive() {
			log.Printf("compliance: invalid interest rate %q, using default %s", rate, compliance.DefaultInterestRate)
		} else {
			interestRate = parsed
		}
	}
	return &complianceService{
		compRepo:     compRepo,
		txRepo:       txRepo,
		regRepo:      regRepo,
		userRepo:     userRepo,
		mailer:       mailer,
		interestRate: interestRate,
	}
}

// Refresh recomputes the compliance record for every RCM transaction in the
// period as of the given date and upserts the results. Idempotent.
func (s *complianceService) Refresh(ctx context.Context, registrationID uuid.UUID, period string, asOf time.Time) ([]domain.ComplianceRecord, error) {
	txs, err := s.txRepo.ListByPeriod(ctx, registrationID, period)
	if err != nil {
		return nil, fmt.Errorf("compliance.Refresh: %w", err)
	}

	records := make([]domain.ComplianceRecord, 0, len(txs))
	for i := range txs {
		tx := &txs[i]
		if tx.Classification == domain.RCMNone {
			continue
		}
		rec, err := compliance.Track(tx, asOf)
		if err != nil {
			return nil, fmt.Errorf("compliance.Refresh: transaction %s: %w", tx.ID, err)
		}
		if rec.DaysOverdue > 0 && !s.interestRate.Equal(compliance.DefaultInterestRate) {
			rec.InterestAmount, err = compliance.Interest(tx.TotalTax, s.interestRate, rec.DaysOverdue)
			if err != nil {
				return nil, fmt.Errorf("compliance.Refresh: transaction %s: %w", tx.ID, err)
			}
		}
		if err := s.compRepo.Upsert(ctx, &rec); err != nil {
			return nil, fmt.Errorf("compliance.Refresh: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *complianceService) GetByTransaction(ctx context.Context, registrationID, txID uuid.UUID) (*domain.ComplianceRecord, error) {
	return s.compRepo.GetByTransaction(ctx, registrationID, txID)
}

func (s *complianceService) ListByPeriod(ctx context.Context, registrationID uuid.UUID, period string) ([]domain.ComplianceRecord, error) {
	return s.compRepo.ListByPeriod(ctx, registrationID, period)
}

// SendReminders mails every admin of the registration one reminder per
// overdue liability and returns the count of reminders sent. A failed send is
// logged and skipped so one bad address does not block the batch.
func (s *complianceService) SendReminders(ctx context.Context, registrationID uuid.UUID) (int, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return 0, fmt.Errorf("compliance.SendReminders: %w", err)
	}
	overdue, err := s.compRepo.ListOverdue(ctx, registrationID)
	if err != nil {
		return 0, fmt.Errorf("compliance.SendReminders: %w", err)
	}
	if len(overdue) == 0 {
		return 0, nil
	}

	users, _, err := s.userRepo.ListByRegistration(ctx, registrationID, 0, 100)
	if err != nil {
		return 0, fmt.Errorf("compliance.SendReminders: %w", err)
	}
	var admins []domain.User
	for _, u := range users {
		if u.Role == domain.RoleAdmin && u.IsActive {
			admins = append(admins, u)
		}
	}
	if len(admins) == 0 {
		return 0, nil
	}

	unpaid, err := s.txRepo.ListUnpaidDueBefore(ctx, registrationID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("compliance.SendReminders: %w", err)
	}
	byTx := make(map[uuid.UUID]*domain.RCMTransaction, len(unpaid))
	for i := range unpaid {
		byTx[unpaid[i].ID] = &unpaid[i]
	}

	sent := 0
	for i := range overdue {
		rec := &overdue[i]
		tx, ok := byTx[rec.TransactionID]
		if !ok {
			// Paid or removed since the record was computed.
			log.Printf("compliance: reminder skipped, transaction %s no longer unpaid", rec.TransactionID)
			continue
		}
		reminder := port.PaymentReminder{
			GSTIN:         reg.GSTIN,
			ReturnPeriod:  rec.ReturnPeriod,
			InvoiceNumber: tx.InvoiceNumber,
			AmountDue:     tx.TotalTax.Add(rec.InterestAmount).StringFixed(2),
			DueDate:       rec.DueDate.Format("02 Jan 2006"),
			DaysOverdue:   rec.DaysOverdue,
			Category:      rec.OverdueCategory,
		}
		for _, admin := range admins {
			if err := s.mailer.SendPaymentReminder(ctx, admin.Email, admin.FullName, reminder); err != nil {
				log.Printf("compliance: reminder to %s failed: %v", admin.Email, err)
				continue
			}
			sent++
		}
	}
	return sent, nil
}
