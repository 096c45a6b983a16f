package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"rcmbooks/internal/domain"
)

// Balance is the running per-head credit balance.
type Balance struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
	Cess decimal.Decimal `json:"cess"`
}

// Heads converts a Balance into the shared value type.
func (b Balance) Heads() domain.TaxHeads {
	return domain.TaxHeads{CGST: b.CGST, SGST: b.SGST, IGST: b.IGST, Cess: b.Cess}
}

func sign(t domain.LedgerEntryType) decimal.Decimal {
	switch t {
	case domain.LedgerCredit, domain.LedgerAdjustment:
		return decimal.NewFromInt(1)
	default: // debit, reversal
		return decimal.NewFromInt(-1)
	}
}

// apply folds one entry into the balance, flooring each head at zero.
func apply(b Balance, e *domain.CreditLedgerEntry) Balance {
	s := sign(e.Type)
	b.CGST = floorZero(b.CGST.Add(e.CGST.Mul(s)))
	b.SGST = floorZero(b.SGST.Add(e.SGST.Mul(s)))
	b.IGST = floorZero(b.IGST.Add(e.IGST.Mul(s)))
	b.Cess = floorZero(b.Cess.Add(e.Cess.Mul(s)))
	return b
}

func floorZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// Replay recomputes the balance by folding all entries in chronological
// order. Balance is never decremented destructively: the full ordered
// sequence is the single source of truth.
func Replay(entries []domain.CreditLedgerEntry) Balance {
	ordered := make([]domain.CreditLedgerEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EntryDate.Before(ordered[j].EntryDate)
	})
	var b Balance
	for i := range ordered {
		b = apply(b, &ordered[i])
	}
	return b
}

// Append validates an entry against the replayed balance and returns it with
// running balances stamped. A DEBIT that would drive any head negative before
// flooring is rejected with ErrInsufficientBalance and nothing is applied.
func Append(entries []domain.CreditLedgerEntry, e domain.CreditLedgerEntry) (domain.CreditLedgerEntry, error) {
	b := Replay(entries)
	if e.Type == domain.LedgerDebit {
		if e.CGST.GreaterThan(b.CGST) || e.SGST.GreaterThan(b.SGST) ||
			e.IGST.GreaterThan(b.IGST) || e.Cess.GreaterThan(b.Cess) {
			return domain.CreditLedgerEntry{}, fmt.Errorf(
				"%w: debit {cgst:%s sgst:%s igst:%s cess:%s} against balance {cgst:%s sgst:%s igst:%s cess:%s}",
				domain.ErrInsufficientBalance,
				e.CGST, e.SGST, e.IGST, e.Cess, b.CGST, b.SGST, b.IGST, b.Cess)
		}
	}
	if e.EntryDate.IsZero() {
		return domain.CreditLedgerEntry{}, fmt.Errorf("%w: ledger entry date is required", domain.ErrValidation)
	}
	next := apply(b, &e)
	e.BalanceCGST = next.CGST
	e.BalanceSGST = next.SGST
	e.BalanceIGST = next.IGST
	e.BalanceCess = next.Cess
	return e, nil
}
