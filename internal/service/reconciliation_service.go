package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rcmbooks/internal/csvexport"
	"rcmbooks/internal/domain"
	"rcmbooks/internal/ledger"
	"rcmbooks/internal/port"
)

// ReconciliationService matches claimed ITC against the GSTR-2B feed and
// records the outcome per period.
type ReconciliationService interface {
	ImportFeed(ctx context.Context, registrationID uuid.UUID, period string, entries []domain.GSTR2BEntry) error
	Run(ctx context.Context, registrationID uuid.UUID, period string, runAt time.Time) (*domain.ReconciliationResult, error)
	Get(ctx context.Context, registrationID uuid.UUID, period string) (*domain.ReconciliationResult, error)
	ExportCSV(ctx context.Context, registrationID uuid.UUID, period string) (string, error)
}

type reconciliationService struct {
	feedRepo   port.GSTR2BRepository
	reconRepo  port.ReconciliationRepository
	txRepo     port.TransactionRepository
	eligRepo   port.EligibilityRepository
	periodRepo port.PeriodRepository
	storage    port.ObjectStorage
	bucket     string
	presignTTL int64
}

// NewReconciliationService creates a new ReconciliationService implementation.
func NewReconciliationService(
	feedRepo port.GSTR2BRepository,
	reconRepo port.ReconciliationRepository,
	txRepo port.TransactionRepository,
	eligRepo port.EligibilityRepository,
	periodRepo port.PeriodRepository,
	storage port.ObjectStorage,
	bucket string,
	presignTTL int64,
) ReconciliationService {
	return &reconciliationService{
		feedRepo:   feedRepo,
		reconRepo:  reconRepo,
		txRepo:     txRepo,
		eligRepo:   eligRepo,
		periodRepo: periodRepo,
		storage:    storage,
		bucket:     bucket,
		presignTTL: presignTTL,
	}
}

// ImportFeed replaces the period's feed wholesale. GSTR-2B is a statement,
// not a stream; partial imports would make match percentages meaningless.
// Importing into a reconciled period demotes it back to open: the new
// statement invalidates the stored reconciliation, so the reconciled mark
// must not outlive it.
func (s *reconciliationService) ImportFeed(ctx context.Context, registrationID uuid.UUID, period string, entries []domain.GSTR2BEntry) error {
	rp, err := s.periodRepo.GetOrCreate(ctx, registrationID, period)
	if err != nil {
		return fmt.Errorf("reconciliation.ImportFeed: %w", err)
	}
	if rp.Status == domain.PeriodFiled {
		return domain.ErrPeriodClosed
	}
	if rp.Status == domain.PeriodReconciled {
		if err := s.periodRepo.SetStatus(ctx, registrationID, period, domain.PeriodOpen); err != nil {
			return fmt.Errorf("reconciliation.ImportFeed: %w", err)
		}
	}
	if err := s.feedRepo.DeleteByPeriod(ctx, registrationID, period); err != nil {
		return fmt.Errorf("reconciliation.ImportFeed: %w", err)
	}
	if err := s.feedRepo.BulkInsert(ctx, registrationID, period, entries); err != nil {
		return fmt.Errorf("reconciliation.ImportFeed: %w", err)
	}
	return nil
}

// Run matches the period's claims against the imported feed. A reconciled
// period's result is frozen: re-running requires a fresh ImportFeed, which
// reopens the period.
func (s *reconciliationService) Run(ctx context.Context, registrationID uuid.UUID, period string, runAt time.Time) (*domain.ReconciliationResult, error) {
	rp, err := s.periodRepo.GetOrCreate(ctx, registrationID, period)
	if err != nil {
		return nil, fmt.Errorf("reconciliation.Run: %w", err)
	}
	if rp.Status != domain.PeriodOpen {
		return nil, domain.ErrPeriodClosed
	}

	claims, err := s.buildClaims(ctx, registrationID, period)
	if err != nil {
		return nil, err
	}
	feed, err := s.feedRepo.ListByPeriod(ctx, registrationID, period)
	if err != nil {
		return nil, fmt.Errorf("reconciliation.Run: %w", err)
	}

	result := ledger.Reconcile(period, claims, feed, runAt)
	result.RegistrationID = registrationID

	if err := s.reconRepo.Save(ctx, &result); err != nil {
		return nil, fmt.Errorf("reconciliation.Run: %w", err)
	}
	if result.IsReconciled {
		if err := s.periodRepo.SetStatus(ctx, registrationID, period, domain.PeriodReconciled); err != nil {
			return nil, fmt.Errorf("reconciliation.Run: %w", err)
		}
	}
	return &result, nil
}

// buildClaims turns the period's eligible ITC results into reconciliation
// claims. Only eligible credit is claimed; blocked or reversed credit never
// reaches GSTR-2B matching.
func (s *reconciliationService) buildClaims(ctx context.Context, registrationID uuid.UUID, period string) ([]ledger.Claim, error) {
	txs, err := s.txRepo.ListByPeriod(ctx, registrationID, period)
	if err != nil {
		return nil, fmt.Errorf("reconciliation.buildClaims: %w", err)
	}
	results, err := s.eligRepo.ListByPeriod(ctx, registrationID, period)
	if err != nil {
		return nil, fmt.Errorf("reconciliation.buildClaims: %w", err)
	}
	byTx := make(map[uuid.UUID]*domain.RCMTransaction, len(txs))
	for i := range txs {
		byTx[txs[i].ID] = &txs[i]
	}

	var claims []ledger.Claim
	for i := range results {
		res := &results[i]
		if !res.Eligible {
			continue
		}
		tx, ok := byTx[res.TransactionID]
		if !ok {
			continue
		}
		invoiceDate := tx.SupplyDate
		if tx.InvoiceDate != nil {
			invoiceDate = *tx.InvoiceDate
		}
		claims = append(claims, ledger.Claim{
			TransactionID: tx.ID,
			SupplierGSTIN: tx.Supplier.GSTIN,
			InvoiceNumber: tx.InvoiceNumber,
			InvoiceDate:   invoiceDate,
			ClaimedAmount: res.EligibleAmount,
			ClaimDate:     res.EvaluatedAt,
			PaymentMode:   tx.Payment.Mode,
			PaymentDate:   tx.Payment.Date,
		})
	}
	return claims, nil
}

func (s *reconciliationService) Get(ctx context.Context, registrationID uuid.UUID, period string) (*domain.ReconciliationResult, error) {
	return s.reconRepo.GetByPeriod(ctx, registrationID, period)
}

// ExportCSV writes the period's reconciliation result to object storage and
// returns a presigned download URL.
func (s *reconciliationService) ExportCSV(ctx context.Context, registrationID uuid.UUID, period string) (string, error) {
	result, err := s.reconRepo.GetByPeriod(ctx, registrationID, period)
	if err != nil {
		return "", fmt.Errorf("reconciliation.ExportCSV: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return "", fmt.Errorf("reconciliation.ExportCSV: %w", err)
	}
	if err := w.WriteResult(result); err != nil {
		return "", fmt.Errorf("reconciliation.ExportCSV: %w", err)
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("reconciliation.ExportCSV: %w", err)
	}

	key := fmt.Sprintf("reconciliations/%s/%s.csv", registrationID, period)
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        &buf,
		ContentType: "text/csv",
		Size:        int64(buf.Len()),
	})
	if err != nil {
		return "", fmt.Errorf("reconciliation.ExportCSV: %w", err)
	}
	return s.storage.GetPresignedURL(ctx, s.bucket, key, s.presignTTL)
}
