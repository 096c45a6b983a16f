package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rcmbooks/internal/detection"
	"rcmbooks/internal/domain"
	"rcmbooks/internal/itc"
	"rcmbooks/internal/rules"
	"rcmbooks/internal/service"
	"rcmbooks/mocks"
)

const (
	testRecipientGSTIN = "27AAPFU0939F1ZV" // Maharashtra
	testSupplierGSTIN  = "29AAGCB7383J1Z4" // Karnataka
)

type rcmFixture struct {
	txRepo     *mocks.MockTransactionRepo
	eligRepo   *mocks.MockEligibilityRepo
	regRepo    *mocks.MockRegistrationRepo
	periodRepo *mocks.MockPeriodRepo
	ledgerSvc  *mocks.MockLedgerService
	svc        service.RCMService
	reg        *domain.Registration
}

func newRCMFixture() *rcmFixture {
	f := &rcmFixture{
		txRepo:     new(mocks.MockTransactionRepo),
		eligRepo:   new(mocks.MockEligibilityRepo),
		regRepo:    new(mocks.MockRegistrationRepo),
		periodRepo: new(mocks.MockPeriodRepo),
		ledgerSvc:  new(mocks.MockLedgerService),
	}
	detector := detection.NewDetector(rules.NewRegistry(rules.SeedRules()), nil)
	f.svc = service.NewRCMService(f.txRepo, f.eligRepo, f.regRepo, f.periodRepo, detector, f.ledgerSvc)
	f.reg = &domain.Registration{
		ID:        uuid.New(),
		GSTIN:     testRecipientGSTIN,
		LegalName: "Acme Traders",
		StateCode: "27",
		IsActive:  true,
	}
	return f
}

func legalServicesInput() service.CreateTransactionInput {
	return service.CreateTransactionInput{
		Supplier: domain.Supplier{
			Name:             "Sharma & Associates",
			RegistrationType: domain.RegistrationRegistered,
			GSTIN:            testSupplierGSTIN,
			Country:          "IN",
		},
		HSNSACCode:    "998213",
		Description:   "legal advisory retainer",
		AssetClass:    domain.AssetInputServices,
		SupplyDate:    time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
		PlaceOfSupply: "27",
		InvoiceNumber: "LS-0042",
		TaxableAmount: decimal.NewFromInt(100000),
	}
}

func TestRCMService_RecordTransaction_NotifiedService(t *testing.T) {
	f := newRCMFixture()

	f.regRepo.On("GetByID", mock.Anything, f.reg.ID).Return(f.reg, nil)
	f.periodRepo.On("GetOrCreate", mock.Anything, f.reg.ID, "052024").
		Return(&domain.ReturnPeriod{Period: "052024", Status: domain.PeriodOpen}, nil)
	f.txRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.RCMTransaction")).Return(nil)

	tx, err := f.svc.RecordTransaction(context.Background(), f.reg.ID, uuid.New(), legalServicesInput())
	require.NoError(t, err)

	assert.Equal(t, domain.RCMNotifiedService, tx.Classification)
	assert.Equal(t, domain.TaxTypeCGSTSGST, tx.TaxType)
	assert.Equal(t, "052024", tx.ReturnPeriod)
	assert.True(t, tx.CGSTAmount.Equal(decimal.NewFromInt(9000)))
	assert.True(t, tx.SGSTAmount.Equal(decimal.NewFromInt(9000)))
	assert.True(t, tx.TotalTax.Equal(decimal.NewFromInt(18000)))
	assert.Empty(t, tx.SelfInvoice.Number, "registered supplier needs no self-invoice")
	f.txRepo.AssertExpectations(t)
}

func TestRCMService_RecordTransaction_PeriodClosed(t *testing.T) {
	f := newRCMFixture()

	f.regRepo.On("GetByID", mock.Anything, f.reg.ID).Return(f.reg, nil)
	f.periodRepo.On("GetOrCreate", mock.Anything, f.reg.ID, "052024").
		Return(&domain.ReturnPeriod{Period: "052024", Status: domain.PeriodFiled}, nil)

	_, err := f.svc.RecordTransaction(context.Background(), f.reg.ID, uuid.New(), legalServicesInput())
	assert.ErrorIs(t, err, domain.ErrPeriodClosed)
	f.txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRCMService_RecordTransaction_UnregisteredSelfInvoice(t *testing.T) {
	f := newRCMFixture()

	input := legalServicesInput()
	input.HSNSACCode = ""
	input.Supplier.GSTIN = ""
	input.Supplier.RegistrationType = domain.RegistrationUnregistered
	input.GSTRate = decimal.NewFromInt(18)

	f.regRepo.On("GetByID", mock.Anything, f.reg.ID).Return(f.reg, nil)
	f.periodRepo.On("GetOrCreate", mock.Anything, f.reg.ID, "052024").
		Return(&domain.ReturnPeriod{Period: "052024", Status: domain.PeriodOpen}, nil)
	f.txRepo.On("NextInvoiceSequence", mock.Anything, f.reg.ID, "2024-25").Return(7, nil)
	f.txRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.RCMTransaction")).Return(nil)

	tx, err := f.svc.RecordTransaction(context.Background(), f.reg.ID, uuid.New(), input)
	require.NoError(t, err)

	assert.Equal(t, domain.RCMUnregistered, tx.Classification)
	assert.Equal(t, "RCM/2024-25/00007", tx.SelfInvoice.Number)
	require.NotNil(t, tx.SelfInvoice.Date)
	assert.True(t, tx.SelfInvoice.TotalAmount.Equal(decimal.NewFromInt(118000)))
	f.txRepo.AssertExpectations(t)
}

func TestRCMService_RecordTransaction_NoRCM(t *testing.T) {
	f := newRCMFixture()

	input := legalServicesInput()
	input.HSNSACCode = "8471" // plain goods from a registered supplier

	f.regRepo.On("GetByID", mock.Anything, f.reg.ID).Return(f.reg, nil)
	f.periodRepo.On("GetOrCreate", mock.Anything, f.reg.ID, "052024").
		Return(&domain.ReturnPeriod{Period: "052024", Status: domain.PeriodOpen}, nil)
	f.txRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.RCMTransaction")).Return(nil)

	tx, err := f.svc.RecordTransaction(context.Background(), f.reg.ID, uuid.New(), input)
	require.NoError(t, err)

	assert.Equal(t, domain.RCMNone, tx.Classification)
	assert.True(t, tx.TotalTax.IsZero())
}

func TestRCMService_RecordTransaction_ImportDefaultsHSNFromLookup(t *testing.T) {
	f := newRCMFixture()
	detector := detection.NewDetector(
		rules.NewRegistry(rules.SeedRules()),
		detection.NewStaticForeignLookup(detection.KnownForeignSuppliers()),
	)
	f.svc = service.NewRCMService(f.txRepo, f.eligRepo, f.regRepo, f.periodRepo, detector, f.ledgerSvc)

	input := service.CreateTransactionInput{
		Supplier: domain.Supplier{
			Name:    "GitHub, Inc.",
			Country: "US",
		},
		Description:   "source hosting subscription",
		AssetClass:    domain.AssetInputServices,
		SupplyDate:    time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
		PlaceOfSupply: "96",
		InvoiceNumber: "GH-2024-0051",
		TaxableAmount: decimal.NewFromInt(100000),
		GSTRate:       decimal.NewFromInt(18),
	}

	f.regRepo.On("GetByID", mock.Anything, f.reg.ID).Return(f.reg, nil)
	f.periodRepo.On("GetOrCreate", mock.Anything, f.reg.ID, "052024").
		Return(&domain.ReturnPeriod{Period: "052024", Status: domain.PeriodOpen}, nil)
	f.txRepo.On("NextInvoiceSequence", mock.Anything, f.reg.ID, "2024-25").Return(3, nil)
	f.txRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.RCMTransaction")).Return(nil)

	tx, err := f.svc.RecordTransaction(context.Background(), f.reg.ID, uuid.New(), input)
	require.NoError(t, err)

	assert.Equal(t, domain.RCMImportService, tx.Classification)
	assert.Equal(t, domain.TaxTypeIGST, tx.TaxType)
	assert.Equal(t, "997331", tx.HSNSACCode, "default SAC from the known-supplier table")
	assert.True(t, tx.IGSTAmount.Equal(decimal.NewFromInt(18000)))
}

func paidTransaction(regID uuid.UUID) *domain.RCMTransaction {
	payDate := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	invDate := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)
	return &domain.RCMTransaction{
		ID:             uuid.New(),
		RegistrationID: regID,
		Supplier: domain.Supplier{
			Name:             "Sharma & Associates",
			RegistrationType: domain.RegistrationRegistered,
			GSTIN:            testSupplierGSTIN,
		},
		AssetClass:     domain.AssetInputServices,
		SupplyDate:     invDate,
		InvoiceNumber:  "LS-0042",
		InvoiceDate:    &invDate,
		ReturnPeriod:   "052024",
		Classification: domain.RCMNotifiedService,
		TaxType:        domain.TaxTypeCGSTSGST,
		TaxableAmount:  decimal.NewFromInt(100000),
		CGSTAmount:     decimal.NewFromInt(9000),
		SGSTAmount:     decimal.NewFromInt(9000),
		TotalTax:       decimal.NewFromInt(18000),
		Payment: domain.Payment{
			Date:      &payDate,
			Mode:      domain.PaymentModeCash,
			ChallanNo: "CHAL27-20240610-000123",
			Amount:    decimal.NewFromInt(18000),
		},
	}
}

func TestRCMService_RecordPayment_Success(t *testing.T) {
	f := newRCMFixture()

	tx := paidTransaction(f.reg.ID)
	tx.Payment = domain.Payment{}
	f.txRepo.On("GetByID", mock.Anything, f.reg.ID, tx.ID).Return(tx, nil)
	f.txRepo.On("AttachPayment", mock.Anything, f.reg.ID, tx.ID, mock.AnythingOfType("domain.Payment")).Return(nil)

	got, err := f.svc.RecordPayment(context.Background(), f.reg.ID, tx.ID, service.RecordPaymentInput{
		Amount:    decimal.NewFromInt(18000),
		Date:      time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		Mode:      domain.PaymentModeCash,
		ChallanNo: "CHAL27-20240610-000123",
		AsOf:      time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotNil(t, got.Payment.Date)
	assert.True(t, got.Payment.Amount.Equal(decimal.NewFromInt(18000)))
	f.txRepo.AssertExpectations(t)
}

func TestRCMService_RecordPayment_InvalidChallan(t *testing.T) {
	f := newRCMFixture()

	tx := paidTransaction(f.reg.ID)
	tx.Payment = domain.Payment{}
	f.txRepo.On("GetByID", mock.Anything, f.reg.ID, tx.ID).Return(tx, nil)

	_, err := f.svc.RecordPayment(context.Background(), f.reg.ID, tx.ID, service.RecordPaymentInput{
		Amount:    decimal.NewFromInt(18000),
		Date:      time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		Mode:      domain.PaymentModeCash,
		ChallanNo: "CH-123",
		AsOf:      time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidChallan)
	f.txRepo.AssertNotCalled(t, "AttachPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRCMService_RecordPayment_NoLiability(t *testing.T) {
	f := newRCMFixture()

	tx := paidTransaction(f.reg.ID)
	tx.Classification = domain.RCMNone
	f.txRepo.On("GetByID", mock.Anything, f.reg.ID, tx.ID).Return(tx, nil)

	_, err := f.svc.RecordPayment(context.Background(), f.reg.ID, tx.ID, service.RecordPaymentInput{
		Amount:    decimal.NewFromInt(18000),
		Date:      time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		Mode:      domain.PaymentModeCash,
		ChallanNo: "CHAL27-20240610-000123",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRCMService_DeleteTransaction(t *testing.T) {
	f := newRCMFixture()

	tx := paidTransaction(f.reg.ID)
	f.txRepo.On("GetByID", mock.Anything, f.reg.ID, tx.ID).Return(tx, nil)
	f.periodRepo.On("GetOrCreate", mock.Anything, f.reg.ID, "052024").
		Return(&domain.ReturnPeriod{Period: "052024", Status: domain.PeriodOpen}, nil)
	f.txRepo.On("Delete", mock.Anything, f.reg.ID, tx.ID).Return(nil)

	require.NoError(t, f.svc.DeleteTransaction(context.Background(), f.reg.ID, tx.ID))
	f.txRepo.AssertExpectations(t)
}

func TestRCMService_DeleteTransaction_ReportedStays(t *testing.T) {
	f := newRCMFixture()

	tx := paidTransaction(f.reg.ID)
	reportedAt := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	tx.Filing = domain.Filing{Reported: true, ReportedAt: &reportedAt, Period: "052024"}
	f.txRepo.On("GetByID", mock.Anything, f.reg.ID, tx.ID).Return(tx, nil)

	err := f.svc.DeleteTransaction(context.Background(), f.reg.ID, tx.ID)
	assert.ErrorIs(t, err, domain.ErrPeriodClosed)
	f.txRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestRCMService_DeleteTransaction_FiledPeriod(t *testing.T) {
	f := newRCMFixture()

	tx := paidTransaction(f.reg.ID)
	f.txRepo.On("GetByID", mock.Anything, f.reg.ID, tx.ID).Return(tx, nil)
	f.periodRepo.On("GetOrCreate", mock.Anything, f.reg.ID, "052024").
		Return(&domain.ReturnPeriod{Period: "052024", Status: domain.PeriodFiled}, nil)

	err := f.svc.DeleteTransaction(context.Background(), f.reg.ID, tx.ID)
	assert.ErrorIs(t, err, domain.ErrPeriodClosed)
	f.txRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func evaluateInput() service.EvaluateITCInput {
	return service.EvaluateITCInput{
		Category:      itc.CategoryService,
		Usage:         domain.UsageBusiness,
		BusinessShare: decimal.NewFromInt(100),
		ClaimDate:     time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestRCMService_EvaluateITC_FirstEvaluationPostsCredit(t *testing.T) {
	f := newRCMFixture()

	tx := paidTransaction(f.reg.ID)
	f.txRepo.On("GetByID", mock.Anything, f.reg.ID, tx.ID).Return(tx, nil)
	f.eligRepo.On("GetCurrentByTransaction", mock.Anything, f.reg.ID, tx.ID).Return(nil, domain.ErrNotFound)
	f.eligRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ITCEligibilityResult")).Return(nil)
	f.regRepo.On("GetByID", mock.Anything, f.reg.ID).Return(f.reg, nil)
	f.ledgerSvc.On("Post", mock.Anything, f.reg, mock.MatchedBy(func(e domain.CreditLedgerEntry) bool {
		return e.Type == domain.LedgerCredit && e.CGST.Equal(decimal.NewFromInt(9000))
	})).Return(nil)

	result, err := f.svc.EvaluateITC(context.Background(), f.reg.ID, tx.ID, evaluateInput())
	require.NoError(t, err)

	assert.True(t, result.Eligible)
	assert.True(t, result.EligibleAmount.Equal(decimal.NewFromInt(18000)))
	assert.Nil(t, result.SupersedesID)
	f.eligRepo.AssertExpectations(t)
	f.ledgerSvc.AssertExpectations(t)
}

func TestRCMService_EvaluateITC_ReversalDebitsPriorCredit(t *testing.T) {
	f := newRCMFixture()

	tx := paidTransaction(f.reg.ID)
	prior := &domain.ITCEligibilityResult{
		ID:             uuid.New(),
		RegistrationID: f.reg.ID,
		TransactionID:  tx.ID,
		Eligible:       true,
		EligibleAmount: decimal.NewFromInt(18000),
		EligibleCGST:   decimal.NewFromInt(9000),
		EligibleSGST:   decimal.NewFromInt(9000),
	}

	f.txRepo.On("GetByID", mock.Anything, f.reg.ID, tx.ID).Return(tx, nil)
	f.eligRepo.On("GetCurrentByTransaction", mock.Anything, f.reg.ID, tx.ID).Return(prior, nil)
	f.eligRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ITCEligibilityResult")).Return(nil)
	f.regRepo.On("GetByID", mock.Anything, f.reg.ID).Return(f.reg, nil)
	f.ledgerSvc.On("Post", mock.Anything, f.reg, mock.MatchedBy(func(e domain.CreditLedgerEntry) bool {
		return e.Type == domain.LedgerReversal && e.CGST.Equal(decimal.NewFromInt(9000))
	})).Return(nil)

	// Rule 37: 180 days unpaid forces reversal of the claimed credit.
	input := evaluateInput()
	input.DaysUnpaid = 200

	result, err := f.svc.EvaluateITC(context.Background(), f.reg.ID, tx.ID, input)
	require.NoError(t, err)

	assert.True(t, result.Reversal)
	require.NotNil(t, result.SupersedesID)
	assert.Equal(t, prior.ID, *result.SupersedesID)
	f.ledgerSvc.AssertExpectations(t)
}

func TestRCMService_EvaluateITC_NoLiability(t *testing.T) {
	f := newRCMFixture()

	tx := paidTransaction(f.reg.ID)
	tx.Classification = domain.RCMNone
	f.txRepo.On("GetByID", mock.Anything, f.reg.ID, tx.ID).Return(tx, nil)

	_, err := f.svc.EvaluateITC(context.Background(), f.reg.ID, tx.ID, evaluateInput())
	assert.ErrorIs(t, err, domain.ErrValidation)
}
