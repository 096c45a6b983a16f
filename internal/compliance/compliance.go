package compliance

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rcmbooks/internal/domain"
)

// DefaultInterestRate is the statutory Section 50(1) annual rate, percent.
var DefaultInterestRate = decimal.NewFromInt(18)

// challanPattern is the fixed challan shape:
// CHAL<2-digit-state-code>-<YYYYMMDD>-<6-digit-sequence>.
var challanPattern = regexp.MustCompile(`^CHAL(\d{2})-(\d{8})-(\d{6})$`)

// DueDate is the 20th of the month following the transaction month; December
// rolls into January of the next year.
func DueDate(supplyDate time.Time) time.Time {
	year, month := supplyDate.Year(), supplyDate.Month()
	if month == time.December {
		year++
		month = time.January
	} else {
		month++
	}
	return time.Date(year, month, 20, 0, 0, 0, 0, time.UTC)
}

// DaysOverdue counts whole days past the due date; the due date itself is
// compliant.
func DaysOverdue(dueDate, asOf time.Time) int {
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	ref := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	days := int(ref.Sub(due).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Categorize buckets days past due into the overdue severity ladder.
func Categorize(daysOverdue int) domain.OverdueCategory {
	switch {
	case daysOverdue <= 0:
		return domain.OverdueNone
	case daysOverdue <= 30:
		return domain.OverdueMinor
	case daysOverdue <= 90:
		return domain.OverdueMajor
	default:
		return domain.OverdueCritical
	}
}

// Interest computes simple interest on a late RCM payment, rounded to the
// nearest whole rupee: principal × rate × days / 36500.
func Interest(principal, annualRate decimal.Decimal, daysOverdue int) (decimal.Decimal, error) {
	if principal.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: principal cannot be negative", domain.ErrValidation)
	}
	if daysOverdue < 0 {
		return decimal.Zero, fmt.Errorf("%w: days overdue cannot be negative", domain.ErrValidation)
	}
	if !annualRate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: annual rate must be positive", domain.ErrValidation)
	}
	days := decimal.NewFromInt(int64(daysOverdue))
	denominator := decimal.NewFromInt(36500)
	return principal.Mul(annualRate).Mul(days).Div(denominator).Round(0), nil
}

// ValidateChallan checks the fixed challan shape, including that the embedded
// date parses.
func ValidateChallan(challanNo string) error {
	m := challanPattern.FindStringSubmatch(strings.TrimSpace(challanNo))
	if m == nil {
		return fmt.Errorf("%w: %q does not match CHALnn-YYYYMMDD-nnnnnn", domain.ErrInvalidChallan, challanNo)
	}
	if _, err := time.Parse("20060102", m[2]); err != nil {
		return fmt.Errorf("%w: %q carries an invalid date part", domain.ErrInvalidChallan, challanNo)
	}
	return nil
}

// PaymentInput is a liability payment to validate before recording.
type PaymentInput struct {
	Amount    decimal.Decimal
	Date      time.Time
	Mode      domain.PaymentMode
	ChallanNo string
}

// ValidatePayment rejects malformed challans, non-positive amounts,
// future-dated payments and unknown payment modes. asOf is the explicit
// reference date.
func ValidatePayment(p PaymentInput, asOf time.Time) error {
	if err := ValidateChallan(p.ChallanNo); err != nil {
		return err
	}
	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: payment amount must be positive", domain.ErrValidation)
	}
	if p.Date.After(asOf) {
		return fmt.Errorf("%w: payment date %s is in the future", domain.ErrValidation, p.Date.Format("2006-01-02"))
	}
	if !domain.AllowedPaymentModes[p.Mode] {
		return fmt.Errorf("%w: %q", domain.ErrInvalidPaymentMode, p.Mode)
	}
	return nil
}

// Track recomputes the compliance record for one transaction from its supply
// date, tax and payment state. It is idempotent: the same inputs always
// produce the same record.
func Track(tx *domain.RCMTransaction, asOf time.Time) (domain.ComplianceRecord, error) {
	due := DueDate(tx.SupplyDate)
	rec := domain.ComplianceRecord{
		RegistrationID: tx.RegistrationID,
		TransactionID:  tx.ID,
		DueDate:        due,
		Status:         domain.PaymentPending,
		ReturnPeriod:   fmt.Sprintf("%02d%d", int(tx.SupplyDate.Month()), tx.SupplyDate.Year()),
		ComputedAt:     asOf,
	}

	if tx.Payment.Date != nil {
		rec.Status = domain.PaymentPaid
		rec.DaysOverdue = DaysOverdue(due, *tx.Payment.Date)
	} else {
		rec.DaysOverdue = DaysOverdue(due, asOf)
		if rec.DaysOverdue > 0 {
			rec.Status = domain.PaymentOverdue
		}
	}
	rec.OverdueCategory = Categorize(rec.DaysOverdue)

	if rec.DaysOverdue > 0 {
		interest, err := Interest(tx.TotalTax, DefaultInterestRate, rec.DaysOverdue)
		if err != nil {
			return domain.ComplianceRecord{}, err
		}
		rec.InterestAmount = interest
	} else {
		rec.InterestAmount = decimal.Zero
	}
	return rec, nil
}
