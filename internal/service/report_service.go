package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/gstr3b"
	"rcmbooks/internal/port"
)

// ReportService builds the period's GSTR-3B reverse-charge figures, checks
// them against cash-ledger payments and the books, and files the period.
type ReportService interface {
	Build(ctx context.Context, registrationID uuid.UUID, period string) (*gstr3b.Report, error)
	Validate(ctx context.Context, registrationID uuid.UUID, period string) (*gstr3b.Report, []gstr3b.Violation, error)
	ReconcileWithBooks(ctx context.Context, registrationID uuid.UUID, period string, books gstr3b.BookTotals) ([]gstr3b.Adjustment, error)
	File(ctx context.Context, registrationID uuid.UUID, period string, filedAt time.Time) (string, error)
}

type reportService struct {
	txRepo     port.TransactionRepository
	eligRepo   port.EligibilityRepository
	regRepo    port.RegistrationRepository
	userRepo   port.UserRepository
	periodRepo port.PeriodRepository
	storage    port.ObjectStorage
	mailer     port.EmailSender
	bucket     string
	presignTTL int64
}

// NewReportService creates a new ReportService implementation.
func NewReportService(
	txRepo port.TransactionRepository,
	eligRepo port.EligibilityRepository,
	regRepo port.RegistrationRepository,
	userRepo port.UserRepository,
	periodRepo port.PeriodRepository,
	storage port.ObjectStorage,
	mailer port.EmailSender,
	bucket string,
	presignTTL int64,
) ReportService {
	return &reportService{
		txRepo:     txRepo,
		eligRepo:   eligRepo,
		regRepo:    regRepo,
		userRepo:   userRepo,
		periodRepo: periodRepo,
		storage:    storage,
		mailer:     mailer,
		bucket:     bucket,
		presignTTL: presignTTL,
	}
}

func (s *reportService) Build(ctx context.Context, registrationID uuid.UUID, period string) (*gstr3b.Report, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("report.Build: %w", err)
	}
	txs, err := s.txRepo.ListByPeriod(ctx, registrationID, period)
	if err != nil {
		return nil, fmt.Errorf("report.Build: %w", err)
	}
	results, err := s.eligRepo.ListByPeriod(ctx, registrationID, period)
	if err != nil {
		return nil, fmt.Errorf("report.Build: %w", err)
	}
	rep := gstr3b.Build(period, reg.GSTIN, txs, results)
	return &rep, nil
}

// Validate rebuilds the report and checks the declared liability against the
// cash actually discharged through challans in the period.
func (s *reportService) Validate(ctx context.Context, registrationID uuid.UUID, period string) (*gstr3b.Report, []gstr3b.Violation, error) {
	rep, err := s.Build(ctx, registrationID, period)
	if err != nil {
		return nil, nil, err
	}
	cashPaid, err := s.cashPaid(ctx, registrationID, period)
	if err != nil {
		return nil, nil, err
	}
	return rep, gstr3b.Validate(rep, cashPaid), nil
}

func (s *reportService) cashPaid(ctx context.Context, registrationID uuid.UUID, period string) (decimal.Decimal, error) {
	txs, err := s.txRepo.ListByPeriod(ctx, registrationID, period)
	if err != nil {
		return decimal.Zero, fmt.Errorf("report.cashPaid: %w", err)
	}
	total := decimal.Zero
	for i := range txs {
		tx := &txs[i]
		if tx.Classification == domain.RCMNone || tx.Payment.Date == nil {
			continue
		}
		total = total.Add(tx.Payment.Amount)
	}
	return total, nil
}

func (s *reportService) ReconcileWithBooks(ctx context.Context, registrationID uuid.UUID, period string, books gstr3b.BookTotals) ([]gstr3b.Adjustment, error) {
	rep, err := s.Build(ctx, registrationID, period)
	if err != nil {
		return nil, err
	}
	return gstr3b.ReconcileWithBooks(rep, books), nil
}

// File archives the report snapshot, closes the period and stamps every RCM
// transaction with the filing. Filing refuses when payment validation still
// reports violations.
func (s *reportService) File(ctx context.Context, registrationID uuid.UUID, period string, filedAt time.Time) (string, error) {
	rp, err := s.periodRepo.GetOrCreate(ctx, registrationID, period)
	if err != nil {
		return "", fmt.Errorf("report.File: %w", err)
	}
	if rp.Status == domain.PeriodFiled {
		return "", domain.ErrPeriodClosed
	}

	rep, violations, err := s.Validate(ctx, registrationID, period)
	if err != nil {
		return "", err
	}
	if len(violations) > 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrValidation, violations[0].Detail)
	}

	payload, err := gstr3b.ExportJSON(rep)
	if err != nil {
		return "", fmt.Errorf("report.File: %w", err)
	}
	key := fmt.Sprintf("reports/%s/%s.json", rep.GSTIN, period)
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        bytes.NewReader(payload),
		ContentType: "application/json",
		Size:        int64(len(payload)),
	})
	if err != nil {
		return "", fmt.Errorf("report.File: %w", err)
	}

	if err := s.periodRepo.SetStatus(ctx, registrationID, period, domain.PeriodFiled); err != nil {
		return "", fmt.Errorf("report.File: %w", err)
	}
	if err := s.markTransactionsFiled(ctx, registrationID, period, filedAt); err != nil {
		return "", err
	}

	url, err := s.storage.GetPresignedURL(ctx, s.bucket, key, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("report.File: %w", err)
	}
	s.notifyFiled(ctx, registrationID, period, url)
	return url, nil
}

func (s *reportService) markTransactionsFiled(ctx context.Context, registrationID uuid.UUID, period string, filedAt time.Time) error {
	txs, err := s.txRepo.ListByPeriod(ctx, registrationID, period)
	if err != nil {
		return fmt.Errorf("report.markTransactionsFiled: %w", err)
	}
	for i := range txs {
		tx := &txs[i]
		if tx.Classification == domain.RCMNone || tx.Filing.Reported {
			continue
		}
		tx.Filing = domain.Filing{Reported: true, ReportedAt: &filedAt, Period: period}
		if err := s.txRepo.Update(ctx, tx); err != nil {
			return fmt.Errorf("report.markTransactionsFiled: %w", err)
		}
	}
	return nil
}

// notifyFiled emails active admins. Filing already succeeded, so failures are
// logged rather than returned.
func (s *reportService) notifyFiled(ctx context.Context, registrationID uuid.UUID, period, archiveURL string) {
	users, _, err := s.userRepo.ListByRegistration(ctx, registrationID, 0, 100)
	if err != nil {
		log.Printf("report: filing notification skipped: %v", err)
		return
	}
	for _, u := range users {
		if u.Role != domain.RoleAdmin || !u.IsActive {
			continue
		}
		if err := s.mailer.SendFilingConfirmation(ctx, u.Email, u.FullName, period, archiveURL); err != nil {
			log.Printf("report: filing confirmation to %s failed: %v", u.Email, err)
		}
	}
}
