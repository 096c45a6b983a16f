package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/ledger"
	"rcmbooks/internal/lock"
	"rcmbooks/internal/port"
)

// LedgerService owns the electronic credit ledger: posting entries, replaying
// balances and computing set-off against output liability.
type LedgerService interface {
	Post(ctx context.Context, reg *domain.Registration, entry domain.CreditLedgerEntry) error
	Balance(ctx context.Context, registrationID uuid.UUID) (ledger.Balance, error)
	BalanceAsOf(ctx context.Context, registrationID uuid.UUID, asOf time.Time) (ledger.Balance, error)
	Statement(ctx context.Context, registrationID uuid.UUID) ([]domain.CreditLedgerEntry, error)
	Utilize(ctx context.Context, reg *domain.Registration, liability ledger.Liability, entryDate time.Time) (*ledger.Utilization, error)
}

type ledgerService struct {
	repo    port.LedgerRepository
	locker  port.Locker
	lockTTL time.Duration
}

// NewLedgerService creates a new LedgerService implementation. All writes for
// one GSTIN are serialized through the distributed lock so running balances
// never interleave across processes.
func NewLedgerService(repo port.LedgerRepository, locker port.Locker, lockTTL time.Duration) LedgerService {
	return &ledgerService{repo: repo, locker: locker, lockTTL: lockTTL}
}

func (s *ledgerService) Post(ctx context.Context, reg *domain.Registration, entry domain.CreditLedgerEntry) error {
	release, err := s.locker.Obtain(ctx, lock.LedgerKey(reg.GSTIN), s.lockTTL)
	if err != nil {
		return fmt.Errorf("ledger.Post: %w", err)
	}
	defer release(context.WithoutCancel(ctx))

	entries, err := s.repo.ListByRegistration(ctx, reg.ID)
	if err != nil {
		return fmt.Errorf("ledger.Post: %w", err)
	}
	stamped, err := ledger.Append(entries, entry)
	if err != nil {
		return err
	}
	if err := s.repo.Append(ctx, &stamped); err != nil {
		return fmt.Errorf("ledger.Post: %w", err)
	}
	return nil
}

func (s *ledgerService) Balance(ctx context.Context, registrationID uuid.UUID) (ledger.Balance, error) {
	entries, err := s.repo.ListByRegistration(ctx, registrationID)
	if err != nil {
		return ledger.Balance{}, fmt.Errorf("ledger.Balance: %w", err)
	}
	return ledger.Replay(entries), nil
}

func (s *ledgerService) BalanceAsOf(ctx context.Context, registrationID uuid.UUID, asOf time.Time) (ledger.Balance, error) {
	entries, err := s.repo.ListByRegistrationUpTo(ctx, registrationID, asOf)
	if err != nil {
		return ledger.Balance{}, fmt.Errorf("ledger.BalanceAsOf: %w", err)
	}
	return ledger.Replay(entries), nil
}

func (s *ledgerService) Statement(ctx context.Context, registrationID uuid.UUID) ([]domain.CreditLedgerEntry, error) {
	return s.repo.ListByRegistration(ctx, registrationID)
}

// Utilize computes the statutory set-off of available credit against the
// period's output liability and posts one debit entry per consumed head.
// The whole computation runs under the registration's ledger lock so the
// balance read and the debit write are atomic with respect to other posters.
func (s *ledgerService) Utilize(ctx context.Context, reg *domain.Registration, liability ledger.Liability, entryDate time.Time) (*ledger.Utilization, error) {
	release, err := s.locker.Obtain(ctx, lock.LedgerKey(reg.GSTIN), s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("ledger.Utilize: %w", err)
	}
	defer release(context.WithoutCancel(ctx))

	entries, err := s.repo.ListByRegistration(ctx, reg.ID)
	if err != nil {
		return nil, fmt.Errorf("ledger.Utilize: %w", err)
	}
	balance := ledger.Replay(entries)
	util := ledger.TrackUtilization(balance, liability)

	debit := domain.CreditLedgerEntry{
		RegistrationID: reg.ID,
		EntryDate:      entryDate,
		Type:           domain.LedgerDebit,
		CGST:           util.CGSTUsed,
		SGST:           util.SGSTUsed,
		IGST:           util.IGSTUsedForIGST.Add(util.IGSTUsedForCGST).Add(util.IGSTUsedForSGST),
		Narration:      "credit utilized against output liability",
	}
	if !debit.Heads().IsZero() {
		stamped, err := ledger.Append(entries, debit)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Append(ctx, &stamped); err != nil {
			return nil, fmt.Errorf("ledger.Utilize: %w", err)
		}
	}
	return &util, nil
}
