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

	"rcmbooks/internal/domain"
	"rcmbooks/internal/port"
	"rcmbooks/internal/service"
	"rcmbooks/mocks"
)

type complianceFixture struct {
	compRepo *mocks.MockComplianceRepo
	txRepo   *mocks.MockTransactionRepo
	regRepo  *mocks.MockRegistrationRepo
	userRepo *mocks.MockUserRepo
	mailer   *mocks.MockEmailSender
	svc      service.ComplianceService
	regID    uuid.UUID
}

func newComplianceFixture(rate string) *complianceFixture {
	f := &complianceFixture{
		compRepo: new(mocks.MockComplianceRepo),
		txRepo:   new(mocks.MockTransactionRepo),
		regRepo:  new(mocks.MockRegistrationRepo),
		userRepo: new(mocks.MockUserRepo),
		mailer:   new(mocks.MockEmailSender),
		regID:    uuid.New(),
	}
	f.svc = service.NewComplianceService(f.compRepo, f.txRepo, f.regRepo, f.userRepo, f.mailer, rate)
	return f
}

func TestComplianceService_Refresh_OverdueInterest(t *testing.T) {
	f := newComplianceFixture("")

	tx := paidTransaction(f.regID)
	tx.Payment = domain.Payment{} // unpaid
	// Supply in May 2024: due 20 June; 30 days late as of 20 July.
	asOf := time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC)

	f.txRepo.On("ListByPeriod", mock.Anything, f.regID, "052024").Return([]domain.RCMTransaction{*tx}, nil)
	f.compRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.ComplianceRecord")).Return(nil)

	records, err := f.svc.Refresh(context.Background(), f.regID, "052024", asOf)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, domain.PaymentOverdue, rec.Status)
	assert.Equal(t, 30, rec.DaysOverdue)
	assert.Equal(t, domain.OverdueMinor, rec.OverdueCategory)
	// 18000 * 18% * 30/365, rounded to the rupee.
	assert.True(t, rec.InterestAmount.Equal(decimal.NewFromInt(266)), "got %s", rec.InterestAmount)
	f.compRepo.AssertExpectations(t)
}

func TestComplianceService_Refresh_SkipsNonRCM(t *testing.T) {
	f := newComplianceFixture("")

	tx := paidTransaction(f.regID)
	tx.Classification = domain.RCMNone

	f.txRepo.On("ListByPeriod", mock.Anything, f.regID, "052024").Return([]domain.RCMTransaction{*tx}, nil)

	records, err := f.svc.Refresh(context.Background(), f.regID, "052024", time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, records)
	f.compRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestComplianceService_Refresh_ConfiguredRateOverridesDefault(t *testing.T) {
	f := newComplianceFixture("24")

	tx := paidTransaction(f.regID)
	tx.Payment = domain.Payment{}
	asOf := time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC)

	f.txRepo.On("ListByPeriod", mock.Anything, f.regID, "052024").Return([]domain.RCMTransaction{*tx}, nil)
	f.compRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.ComplianceRecord")).Return(nil)

	records, err := f.svc.Refresh(context.Background(), f.regID, "052024", asOf)
	require.NoError(t, err)
	require.Len(t, records, 1)
	// 18000 * 24% * 30/365 = 355.07 → 355.
	assert.True(t, records[0].InterestAmount.Equal(decimal.NewFromInt(355)), "got %s", records[0].InterestAmount)
}

func TestComplianceService_SendReminders(t *testing.T) {
	f := newComplianceFixture("")

	tx := paidTransaction(f.regID)
	reg := &domain.Registration{ID: f.regID, GSTIN: testRecipientGSTIN, LegalName: "Acme Traders"}
	overdue := []domain.ComplianceRecord{{
		TransactionID:   tx.ID,
		ReturnPeriod:    "052024",
		DueDate:         time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC),
		DaysOverdue:     30,
		Status:          domain.PaymentOverdue,
		OverdueCategory: domain.OverdueMinor,
		InterestAmount:  decimal.NewFromInt(266),
	}}
	users := []domain.User{
		{Email: "admin@acme.test", FullName: "Admin", Role: domain.RoleAdmin, IsActive: true},
		{Email: "clerk@acme.test", FullName: "Clerk", Role: domain.RoleMember, IsActive: true},
	}

	f.regRepo.On("GetByID", mock.Anything, f.regID).Return(reg, nil)
	f.compRepo.On("ListOverdue", mock.Anything, f.regID).Return(overdue, nil)
	f.userRepo.On("ListByRegistration", mock.Anything, f.regID, 0, 100).Return(users, 2, nil)
	f.txRepo.On("ListUnpaidDueBefore", mock.Anything, f.regID, mock.AnythingOfType("time.Time")).
		Return([]domain.RCMTransaction{*tx}, nil)
	f.mailer.On("SendPaymentReminder", mock.Anything, "admin@acme.test", "Admin",
		mock.MatchedBy(func(r port.PaymentReminder) bool {
			return r.InvoiceNumber == "LS-0042" && r.DaysOverdue == 30
		})).Return(nil)

	sent, err := f.svc.SendReminders(context.Background(), f.regID)
	require.NoError(t, err)
	assert.Equal(t, 1, sent, "only admins get reminders")
	f.mailer.AssertExpectations(t)
}

func TestComplianceService_SendReminders_SkipsSettledTransactions(t *testing.T) {
	f := newComplianceFixture("")

	tx := paidTransaction(f.regID)
	reg := &domain.Registration{ID: f.regID, GSTIN: testRecipientGSTIN}
	overdue := []domain.ComplianceRecord{{
		TransactionID: tx.ID,
		ReturnPeriod:  "052024",
		DueDate:       time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC),
		DaysOverdue:   30,
		Status:        domain.PaymentOverdue,
	}}
	users := []domain.User{{Email: "admin@acme.test", FullName: "Admin", Role: domain.RoleAdmin, IsActive: true}}

	f.regRepo.On("GetByID", mock.Anything, f.regID).Return(reg, nil)
	f.compRepo.On("ListOverdue", mock.Anything, f.regID).Return(overdue, nil)
	f.userRepo.On("ListByRegistration", mock.Anything, f.regID, 0, 100).Return(users, 1, nil)
	// Liability discharged after the record was computed: nothing unpaid left.
	f.txRepo.On("ListUnpaidDueBefore", mock.Anything, f.regID, mock.AnythingOfType("time.Time")).
		Return([]domain.RCMTransaction{}, nil)

	sent, err := f.svc.SendReminders(context.Background(), f.regID)
	require.NoError(t, err)
	assert.Zero(t, sent)
	f.mailer.AssertNotCalled(t, "SendPaymentReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestComplianceService_SendReminders_NoOverdue(t *testing.T) {
	f := newComplianceFixture("")

	reg := &domain.Registration{ID: f.regID, GSTIN: testRecipientGSTIN}
	f.regRepo.On("GetByID", mock.Anything, f.regID).Return(reg, nil)
	f.compRepo.On("ListOverdue", mock.Anything, f.regID).Return([]domain.ComplianceRecord{}, nil)

	sent, err := f.svc.SendReminders(context.Background(), f.regID)
	require.NoError(t, err)
	assert.Zero(t, sent)
	f.mailer.AssertNotCalled(t, "SendPaymentReminder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
