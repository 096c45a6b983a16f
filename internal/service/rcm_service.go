package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rcmbooks/internal/compliance"
	"rcmbooks/internal/detection"
	"rcmbooks/internal/domain"
	"rcmbooks/internal/itc"
	"rcmbooks/internal/port"
	"rcmbooks/internal/taxcalc"
)

// CreateTransactionInput is the DTO for recording an inward supply.
type CreateTransactionInput struct {
	Supplier      domain.Supplier  `json:"supplier" binding:"required"`
	HSNSACCode    string           `json:"hsn_sac_code"`
	Category      string           `json:"category"`
	Description   string           `json:"description"`
	AssetClass    domain.AssetClass `json:"asset_class"`
	SupplyDate    time.Time        `json:"supply_date" binding:"required"`
	PlaceOfSupply string           `json:"place_of_supply"`
	InvoiceNumber string           `json:"invoice_number" binding:"required"`
	InvoiceDate   *time.Time       `json:"invoice_date"`

	TaxableAmount decimal.Decimal  `json:"taxable_amount" binding:"required"`
	CessRate      decimal.Decimal  `json:"cess_rate"`
	GSTRate       decimal.Decimal  `json:"gst_rate"`
	ForeignAmount *decimal.Decimal `json:"foreign_amount"`
	ExchangeRate  *decimal.Decimal `json:"exchange_rate"`
	ForeignCcy    string           `json:"foreign_currency"`
}

// RecordPaymentInput is the DTO for discharging an RCM liability.
type RecordPaymentInput struct {
	Amount    decimal.Decimal    `json:"amount" binding:"required"`
	Date      time.Time          `json:"date" binding:"required"`
	Mode      domain.PaymentMode `json:"mode" binding:"required"`
	ChallanNo string             `json:"challan_no" binding:"required"`
	// AsOf is the reference date for future-dating checks; callers default
	// it to the request time.
	AsOf time.Time `json:"as_of"`
}

// EvaluateITCInput carries the usage facts the books cannot derive.
type EvaluateITCInput struct {
	Category       itc.SupplyCategory  `json:"category"`
	Usage          domain.UsagePurpose `json:"usage" binding:"required"`
	BusinessShare  decimal.Decimal     `json:"business_share"`
	CSRExpense     bool                `json:"csr_expense"`
	LostStolen     bool                `json:"lost_stolen"`
	ForResale      bool                `json:"for_resale"`
	LegallyMandate bool                `json:"legally_mandated"`
	SeatingCap     int                 `json:"seating_capacity"`
	TransportUse   bool                `json:"transport_use"`
	PlantMachinery bool                `json:"plant_machinery"`
	RentalBusiness bool                `json:"rental_business"`
	GTAWithoutITC  bool                `json:"gta_without_itc"`

	ClaimDate         time.Time       `json:"claim_date" binding:"required"`
	DaysUnpaid        int             `json:"days_unpaid"`
	SupplierCancelled bool            `json:"supplier_cancelled"`
	CommonCredit      bool            `json:"common_credit"`
	TaxableSupplies   decimal.Decimal `json:"taxable_supplies"`
	TotalSupplies     decimal.Decimal `json:"total_supplies"`
}

// RCMService is the entry point for the reverse-charge transaction lifecycle:
// record, pay, evaluate credit.
type RCMService interface {
	RecordTransaction(ctx context.Context, registrationID, userID uuid.UUID, input CreateTransactionInput) (*domain.RCMTransaction, error)
	GetTransaction(ctx context.Context, registrationID, txID uuid.UUID) (*domain.RCMTransaction, error)
	ListTransactions(ctx context.Context, registrationID uuid.UUID, filter port.TransactionFilter, offset, limit int) ([]domain.RCMTransaction, int, error)
	RecordPayment(ctx context.Context, registrationID, txID uuid.UUID, input RecordPaymentInput) (*domain.RCMTransaction, error)
	DeleteTransaction(ctx context.Context, registrationID, txID uuid.UUID) error
	EvaluateITC(ctx context.Context, registrationID, txID uuid.UUID, input EvaluateITCInput) (*domain.ITCEligibilityResult, error)
	ITCHistory(ctx context.Context, registrationID, txID uuid.UUID) ([]domain.ITCEligibilityResult, error)
}

type rcmService struct {
	txRepo      port.TransactionRepository
	eligRepo    port.EligibilityRepository
	regRepo     port.RegistrationRepository
	periodRepo  port.PeriodRepository
	detector    *detection.Detector
	ledgerSvc   LedgerService
}

// NewRCMService creates a new RCMService implementation.
func NewRCMService(
	txRepo port.TransactionRepository,
	eligRepo port.EligibilityRepository,
	regRepo port.RegistrationRepository,
	periodRepo port.PeriodRepository,
	detector *detection.Detector,
	ledgerSvc LedgerService,
) RCMService {
	return &rcmService{
		txRepo:     txRepo,
		eligRepo:   eligRepo,
		regRepo:    regRepo,
		periodRepo: periodRepo,
		detector:   detector,
		ledgerSvc:  ledgerSvc,
	}
}

func (s *rcmService) RecordTransaction(ctx context.Context, registrationID, userID uuid.UUID, input CreateTransactionInput) (*domain.RCMTransaction, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("rcm.RecordTransaction: %w", err)
	}

	period := itc.ReturnPeriodOf(input.SupplyDate)
	rp, err := s.periodRepo.GetOrCreate(ctx, registrationID, period)
	if err != nil {
		return nil, fmt.Errorf("rcm.RecordTransaction: %w", err)
	}
	if rp.Status == domain.PeriodFiled {
		return nil, domain.ErrPeriodClosed
	}

	res, err := s.detector.Detect(detection.Input{
		Supplier:           input.Supplier,
		HSNSACCode:         input.HSNSACCode,
		TaxableAmount:      input.TaxableAmount,
		SupplyDate:         input.SupplyDate,
		RecipientGSTIN:     reg.GSTIN,
		RecipientStateCode: reg.StateCode,
		PlaceOfSupply:      input.PlaceOfSupply,
	})
	if err != nil {
		return nil, err
	}
	if input.HSNSACCode == "" && res.DefaultHSN != "" {
		input.HSNSACCode = res.DefaultHSN
	}

	tx := &domain.RCMTransaction{
		RegistrationID: registrationID,
		Supplier:       input.Supplier,
		HSNSACCode:     input.HSNSACCode,
		Category:       input.Category,
		Description:    input.Description,
		AssetClass:     input.AssetClass,
		SupplyDate:     input.SupplyDate,
		PlaceOfSupply:  input.PlaceOfSupply,
		InvoiceNumber:  input.InvoiceNumber,
		InvoiceDate:    input.InvoiceDate,
		ReturnPeriod:   period,
		Classification: res.Category,
		TaxType:        res.TaxType,
		TaxableAmount:  input.TaxableAmount,
		CessRate:       input.CessRate,
		ForeignAmount:  input.ForeignAmount,
		ExchangeRate:   input.ExchangeRate,
		ForeignCurrency: input.ForeignCcy,
		CreatedBy:      userID,
	}

	if res.Applies {
		rate := res.GSTRate
		if rate.IsZero() {
			rate = input.GSTRate
		}
		calc, err := taxcalc.Calculate(taxcalc.Input{
			TaxableAmount: input.TaxableAmount,
			TaxType:       res.TaxType,
			GSTRate:       rate,
			CessRate:      input.CessRate,
			ForeignAmount: input.ForeignAmount,
			ExchangeRate:  input.ExchangeRate,
		})
		if err != nil {
			return nil, err
		}
		tx.GSTRate = rate
		tx.TaxableAmount = calc.TaxableAmount
		tx.CGSTAmount = calc.Heads.CGST
		tx.SGSTAmount = calc.Heads.SGST
		tx.IGSTAmount = calc.Heads.IGST
		tx.CessAmount = calc.Heads.Cess
		tx.TotalTax = calc.TotalTax

		// Section 31(3)(f): a self-invoice is required when the supplier
		// cannot issue a GST invoice.
		if res.Category == domain.RCMUnregistered || res.Category == domain.RCMImportService {
			if err := s.issueSelfInvoice(ctx, registrationID, tx, calc); err != nil {
				return nil, err
			}
		}
	} else {
		tx.GSTRate = input.GSTRate
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("rcm.RecordTransaction: %w", err)
	}
	return tx, nil
}

func (s *rcmService) issueSelfInvoice(ctx context.Context, registrationID uuid.UUID, tx *domain.RCMTransaction, calc domain.TaxResult) error {
	fyStart := itc.FiscalYearStart(tx.SupplyDate)
	fy := fmt.Sprintf("%d-%02d", fyStart.Year(), (fyStart.Year()+1)%100)
	seq, err := s.txRepo.NextInvoiceSequence(ctx, registrationID, fy)
	if err != nil {
		return fmt.Errorf("rcm.issueSelfInvoice: %w", err)
	}
	date := tx.SupplyDate
	tx.SelfInvoice = domain.SelfInvoice{
		Number:      fmt.Sprintf("RCM/%s/%05d", fy, seq),
		Date:        &date,
		TaxableAmt:  calc.TaxableAmount,
		CGSTAmount:  calc.Heads.CGST,
		SGSTAmount:  calc.Heads.SGST,
		IGSTAmount:  calc.Heads.IGST,
		CessAmount:  calc.Heads.Cess,
		TotalAmount: calc.TotalAmount,
	}
	return nil
}

func (s *rcmService) GetTransaction(ctx context.Context, registrationID, txID uuid.UUID) (*domain.RCMTransaction, error) {
	return s.txRepo.GetByID(ctx, registrationID, txID)
}

func (s *rcmService) ListTransactions(ctx context.Context, registrationID uuid.UUID, filter port.TransactionFilter, offset, limit int) ([]domain.RCMTransaction, int, error) {
	return s.txRepo.List(ctx, registrationID, filter, offset, limit)
}

// DeleteTransaction removes an erroneously entered transaction. Anything
// already reported in a filed return stays: the return is the audit record.
func (s *rcmService) DeleteTransaction(ctx context.Context, registrationID, txID uuid.UUID) error {
	tx, err := s.txRepo.GetByID(ctx, registrationID, txID)
	if err != nil {
		return fmt.Errorf("rcm.DeleteTransaction: %w", err)
	}
	if tx.Filing.Reported {
		return domain.ErrPeriodClosed
	}
	rp, err := s.periodRepo.GetOrCreate(ctx, registrationID, tx.ReturnPeriod)
	if err != nil {
		return fmt.Errorf("rcm.DeleteTransaction: %w", err)
	}
	if rp.Status == domain.PeriodFiled {
		return domain.ErrPeriodClosed
	}
	if err := s.txRepo.Delete(ctx, registrationID, txID); err != nil {
		return fmt.Errorf("rcm.DeleteTransaction: %w", err)
	}
	return nil
}

func (s *rcmService) RecordPayment(ctx context.Context, registrationID, txID uuid.UUID, input RecordPaymentInput) (*domain.RCMTransaction, error) {
	tx, err := s.txRepo.GetByID(ctx, registrationID, txID)
	if err != nil {
		return nil, fmt.Errorf("rcm.RecordPayment: %w", err)
	}
	if tx.Classification == domain.RCMNone {
		return nil, fmt.Errorf("%w: transaction has no reverse charge liability", domain.ErrValidation)
	}

	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	if err := compliance.ValidatePayment(compliance.PaymentInput{
		Amount:    input.Amount,
		Date:      input.Date,
		Mode:      input.Mode,
		ChallanNo: input.ChallanNo,
	}, asOf); err != nil {
		return nil, err
	}

	date := input.Date
	payment := domain.Payment{
		Date:      &date,
		Mode:      input.Mode,
		ChallanNo: input.ChallanNo,
		Amount:    input.Amount,
	}
	if err := s.txRepo.AttachPayment(ctx, registrationID, txID, payment); err != nil {
		return nil, fmt.Errorf("rcm.RecordPayment: %w", err)
	}
	tx.Payment = payment
	return tx, nil
}

// EvaluateITC runs the eligibility pipeline and persists the result. A
// re-evaluation supersedes the current result rather than replacing it, so
// the audit trail survives. Newly eligible credit posts to the ledger; a
// reversal of previously posted credit posts a reversal entry.
func (s *rcmService) EvaluateITC(ctx context.Context, registrationID, txID uuid.UUID, input EvaluateITCInput) (*domain.ITCEligibilityResult, error) {
	tx, err := s.txRepo.GetByID(ctx, registrationID, txID)
	if err != nil {
		return nil, fmt.Errorf("rcm.EvaluateITC: %w", err)
	}
	if tx.Classification == domain.RCMNone {
		return nil, fmt.Errorf("%w: transaction has no reverse charge liability", domain.ErrValidation)
	}

	invoiceDate := tx.SupplyDate
	if tx.InvoiceDate != nil {
		invoiceDate = *tx.InvoiceDate
	}

	req := itc.Request{
		TaxableAmount:  tx.TaxableAmount,
		TaxHeads:       tx.TaxHeads(),
		Category:       input.Category,
		AssetClass:     tx.AssetClass,
		Usage:          input.Usage,
		BusinessShare:  input.BusinessShare,
		CSRExpense:     input.CSRExpense,
		LostStolen:     input.LostStolen,
		ForResale:      input.ForResale,
		LegallyMandate: input.LegallyMandate,
		SeatingCap:     input.SeatingCap,
		TransportUse:   input.TransportUse,
		PlantMachinery: input.PlantMachinery,
		RentalBusiness: input.RentalBusiness,

		InvoiceDate:     invoiceDate,
		SelfInvoiceDate: tx.SelfInvoice.Date,
		ClaimDate:       input.ClaimDate,

		PaymentConfirmed: tx.Payment.Date != nil,
		PaymentMode:      tx.Payment.Mode,
		PaymentDate:      tx.Payment.Date,
		GTAWithoutITC:    input.GTAWithoutITC,

		DaysUnpaid:        input.DaysUnpaid,
		SupplierCancelled: input.SupplierCancelled,
		CommonCredit:      input.CommonCredit,
		TaxableSupplies:   input.TaxableSupplies,
		TotalSupplies:     input.TotalSupplies,
	}

	prior, err := s.eligRepo.GetCurrentByTransaction(ctx, registrationID, txID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("rcm.EvaluateITC: %w", err)
	}
	if prior != nil && prior.Reversal {
		req.PriorReversed = true
		req.PriorReversedAmt = prior.ReversalAmount
	}

	result := itc.Determine(req)
	result.RegistrationID = registrationID
	result.TransactionID = txID
	if prior != nil {
		result.SupersedesID = &prior.ID
	}

	if err := s.eligRepo.Create(ctx, &result); err != nil {
		return nil, fmt.Errorf("rcm.EvaluateITC: %w", err)
	}

	if err := s.postLedgerEffect(ctx, registrationID, tx, prior, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// postLedgerEffect translates an eligibility transition into ledger entries:
// newly eligible credit is credited, a reversal debits what was credited
// before, a reclaim credits it back.
func (s *rcmService) postLedgerEffect(ctx context.Context, registrationID uuid.UUID, tx *domain.RCMTransaction, prior, current *domain.ITCEligibilityResult) error {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return fmt.Errorf("rcm.postLedgerEffect: %w", err)
	}

	switch {
	case current.Reversal && prior != nil && prior.Eligible:
		entry := domain.CreditLedgerEntry{
			RegistrationID: registrationID,
			TransactionID:  &tx.ID,
			EntryDate:      current.EvaluatedAt,
			Type:           domain.LedgerReversal,
			CGST:           prior.EligibleCGST,
			SGST:           prior.EligibleSGST,
			IGST:           prior.EligibleIGST,
			Cess:           prior.EligibleCess,
			Narration:      fmt.Sprintf("ITC reversal for %s: %s", tx.InvoiceNumber, current.ReversalReason),
		}
		return s.ledgerSvc.Post(ctx, reg, entry)

	case current.Eligible && (prior == nil || !prior.Eligible):
		entryType := domain.LedgerCredit
		narration := fmt.Sprintf("ITC on RCM invoice %s", tx.InvoiceNumber)
		if current.Reclaim {
			narration = fmt.Sprintf("ITC reclaim on RCM invoice %s", tx.InvoiceNumber)
		}
		entry := domain.CreditLedgerEntry{
			RegistrationID: registrationID,
			TransactionID:  &tx.ID,
			EntryDate:      current.EvaluatedAt,
			Type:           entryType,
			CGST:           current.EligibleCGST,
			SGST:           current.EligibleSGST,
			IGST:           current.EligibleIGST,
			Cess:           current.EligibleCess,
			Narration:      narration,
		}
		return s.ledgerSvc.Post(ctx, reg, entry)
	}
	return nil
}

func (s *rcmService) ITCHistory(ctx context.Context, registrationID, txID uuid.UUID) ([]domain.ITCEligibilityResult, error) {
	return s.eligRepo.HistoryByTransaction(ctx, registrationID, txID)
}
