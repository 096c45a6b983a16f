package itc

import (
	"fmt"
	"time"
)

// FiscalYearStart returns 1 April of the fiscal year the date falls in.
// The Indian fiscal year runs April through March.
func FiscalYearStart(date time.Time) time.Time {
	year := date.Year()
	if date.Month() < time.April {
		year--
	}
	return time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
}

// ClaimDeadline is the canonical Section 16(4) time limit: credit for an
// invoice must be claimed by 30 November of the calendar year following the
// invoice's fiscal year. Every time-limit decision in the engine and the
// monthly workflow goes through this one function.
func ClaimDeadline(invoiceDate time.Time) time.Time {
	fyEndYear := FiscalYearStart(invoiceDate).Year() + 1
	return time.Date(fyEndYear, time.November, 30, 0, 0, 0, 0, time.UTC)
}

// WithinTimeLimit reports whether a claim on claimDate is still allowed for
// the given invoice date. The deadline date itself is compliant.
func WithinTimeLimit(invoiceDate, claimDate time.Time) bool {
	deadline := ClaimDeadline(invoiceDate)
	claim := time.Date(claimDate.Year(), claimDate.Month(), claimDate.Day(), 0, 0, 0, 0, time.UTC)
	return !claim.After(deadline)
}

// ReturnPeriodOf formats a date as the MMYYYY return period tag.
func ReturnPeriodOf(date time.Time) string {
	return fmt.Sprintf("%02d%d", int(date.Month()), date.Year())
}
