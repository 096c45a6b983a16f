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
	"rcmbooks/internal/ledger"
	"rcmbooks/internal/service"
	"rcmbooks/mocks"
)

type ledgerFixture struct {
	repo   *mocks.MockLedgerRepo
	locker *mocks.MockLocker
	svc    service.LedgerService
	reg    *domain.Registration
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		repo:   new(mocks.MockLedgerRepo),
		locker: new(mocks.MockLocker),
	}
	f.svc = service.NewLedgerService(f.repo, f.locker, 5*time.Second)
	f.reg = &domain.Registration{ID: uuid.New(), GSTIN: testRecipientGSTIN}
	return f
}

func creditEntry(regID uuid.UUID, day int, cgst, sgst, igst int64) domain.CreditLedgerEntry {
	return domain.CreditLedgerEntry{
		ID:             uuid.New(),
		RegistrationID: regID,
		EntryDate:      time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC),
		Type:           domain.LedgerCredit,
		CGST:           decimal.NewFromInt(cgst),
		SGST:           decimal.NewFromInt(sgst),
		IGST:           decimal.NewFromInt(igst),
	}
}

func TestLedgerService_Post_StampsRunningBalance(t *testing.T) {
	f := newLedgerFixture()
	prior := []domain.CreditLedgerEntry{creditEntry(f.reg.ID, 1, 9000, 9000, 0)}

	f.locker.On("Obtain", mock.Anything, "ledger:"+testRecipientGSTIN, 5*time.Second).Return(nil)
	f.repo.On("ListByRegistration", mock.Anything, f.reg.ID).Return(prior, nil)
	f.repo.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.CreditLedgerEntry) bool {
		return e.BalanceCGST.Equal(decimal.NewFromInt(10000)) &&
			e.BalanceSGST.Equal(decimal.NewFromInt(10000))
	})).Return(nil)

	err := f.svc.Post(context.Background(), f.reg, creditEntry(f.reg.ID, 15, 1000, 1000, 0))
	require.NoError(t, err)
	f.locker.AssertExpectations(t)
	f.repo.AssertExpectations(t)
}

func TestLedgerService_Post_DebitBeyondBalance(t *testing.T) {
	f := newLedgerFixture()
	prior := []domain.CreditLedgerEntry{creditEntry(f.reg.ID, 1, 9000, 9000, 0)}

	f.locker.On("Obtain", mock.Anything, "ledger:"+testRecipientGSTIN, 5*time.Second).Return(nil)
	f.repo.On("ListByRegistration", mock.Anything, f.reg.ID).Return(prior, nil)

	debit := domain.CreditLedgerEntry{
		RegistrationID: f.reg.ID,
		EntryDate:      time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC),
		Type:           domain.LedgerDebit,
		CGST:           decimal.NewFromInt(12000),
	}
	err := f.svc.Post(context.Background(), f.reg, debit)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	f.repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestLedgerService_Post_LockContention(t *testing.T) {
	f := newLedgerFixture()

	lockErr := assert.AnError
	f.locker.On("Obtain", mock.Anything, "ledger:"+testRecipientGSTIN, 5*time.Second).Return(lockErr)

	err := f.svc.Post(context.Background(), f.reg, creditEntry(f.reg.ID, 15, 1000, 0, 0))
	assert.ErrorIs(t, err, lockErr)
	f.repo.AssertNotCalled(t, "ListByRegistration", mock.Anything, mock.Anything)
}

func TestLedgerService_BalanceAsOf(t *testing.T) {
	f := newLedgerFixture()
	asOf := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	entries := []domain.CreditLedgerEntry{creditEntry(f.reg.ID, 1, 9000, 9000, 0)}

	f.repo.On("ListByRegistrationUpTo", mock.Anything, f.reg.ID, asOf).Return(entries, nil)

	bal, err := f.svc.BalanceAsOf(context.Background(), f.reg.ID, asOf)
	require.NoError(t, err)
	assert.True(t, bal.CGST.Equal(decimal.NewFromInt(9000)))
	assert.True(t, bal.IGST.IsZero())
}

func TestLedgerService_Utilize_IGSTSpillover(t *testing.T) {
	f := newLedgerFixture()
	entries := []domain.CreditLedgerEntry{creditEntry(f.reg.ID, 1, 5000, 5000, 10000)}
	entryDate := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)

	f.locker.On("Obtain", mock.Anything, "ledger:"+testRecipientGSTIN, 5*time.Second).Return(nil)
	f.repo.On("ListByRegistration", mock.Anything, f.reg.ID).Return(entries, nil)
	f.repo.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.CreditLedgerEntry) bool {
		// one debit covering own-head use plus all IGST consumed
		return e.Type == domain.LedgerDebit &&
			e.CGST.Equal(decimal.NewFromInt(5000)) &&
			e.SGST.Equal(decimal.NewFromInt(5000)) &&
			e.IGST.Equal(decimal.NewFromInt(10000))
	})).Return(nil)

	util, err := f.svc.Utilize(context.Background(), f.reg, ledger.Liability{
		CGST: decimal.NewFromInt(9000),
		SGST: decimal.NewFromInt(9000),
		IGST: decimal.NewFromInt(2000),
	}, entryDate)
	require.NoError(t, err)

	assert.True(t, util.IGSTUsedForIGST.Equal(decimal.NewFromInt(2000)))
	assert.True(t, util.IGSTUsedForCGST.Equal(decimal.NewFromInt(4000)))
	assert.True(t, util.IGSTUsedForSGST.Equal(decimal.NewFromInt(4000)))
	assert.True(t, util.CashRequired.SGST.IsZero())
	assert.True(t, util.TotalCashRequired().IsZero())
	f.repo.AssertExpectations(t)
}

func TestLedgerService_Utilize_NoCreditPostsNothing(t *testing.T) {
	f := newLedgerFixture()

	f.locker.On("Obtain", mock.Anything, "ledger:"+testRecipientGSTIN, 5*time.Second).Return(nil)
	f.repo.On("ListByRegistration", mock.Anything, f.reg.ID).Return([]domain.CreditLedgerEntry{}, nil)

	util, err := f.svc.Utilize(context.Background(), f.reg, ledger.Liability{
		CGST: decimal.NewFromInt(9000),
		SGST: decimal.NewFromInt(9000),
	}, time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, util.TotalCashRequired().Equal(decimal.NewFromInt(18000)))
	f.repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}
