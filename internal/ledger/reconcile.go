package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rcmbooks/internal/domain"
)

// amountTolerance is the per-claim tolerance before a matched claim is
// flagged as a mismatch: one rupee, mirroring round-off on filed returns.
var amountTolerance = decimal.NewFromInt(1)

// matchDateTolerance allows the claimed and reported invoice dates to differ
// by one day in either direction.
const matchDateTolerance = 24 * time.Hour

// Claim is one ITC claim to reconcile against the GSTR-2B feed.
type Claim struct {
	TransactionID uuid.UUID          `json:"transaction_id"`
	SupplierGSTIN string             `json:"supplier_gstin"`
	InvoiceNumber string             `json:"invoice_number"`
	InvoiceDate   time.Time          `json:"invoice_date"`
	ClaimedAmount decimal.Decimal    `json:"claimed_amount"`
	ClaimDate     time.Time          `json:"claim_date"`
	PaymentMode   domain.PaymentMode `json:"payment_mode"`
	PaymentDate   *time.Time         `json:"payment_date"`
}

// MatchGSTR2B pairs claims to third-party records by (GSTIN, invoice number,
// date within ±1 day). Matched claims over the amount tolerance are flagged
// MISMATCH; a claim above the reported eligible amount is a violation.
func MatchGSTR2B(claims []Claim, feed []domain.GSTR2BEntry) domain.ReconciliationResult {
	res := domain.ReconciliationResult{IsReconciled: true}

	for i := range claims {
		claim := &claims[i]
		entry := findFeedEntry(claim, feed)
		if entry == nil {
			res.Unmatched = append(res.Unmatched, domain.ClaimMatch{
				TransactionID: claim.TransactionID,
				SupplierGSTIN: claim.SupplierGSTIN,
				InvoiceNumber: claim.InvoiceNumber,
				Status:        domain.MatchUnmatched,
				ClaimedAmount: claim.ClaimedAmount,
				Detail:        "no gstr-2b record for this supplier invoice",
			})
			continue
		}

		m := domain.ClaimMatch{
			TransactionID: claim.TransactionID,
			SupplierGSTIN: claim.SupplierGSTIN,
			InvoiceNumber: claim.InvoiceNumber,
			Status:        domain.MatchMatched,
			ClaimedAmount: claim.ClaimedAmount,
			ReportedAmt:   entry.EligibleAmount,
			Difference:    claim.ClaimedAmount.Sub(entry.EligibleAmount),
		}
		if claim.ClaimedAmount.GreaterThan(entry.EligibleAmount) {
			m.Violation = true
			m.Detail = "claimed amount exceeds gstr-2b eligible amount"
		}
		if m.Difference.Abs().GreaterThan(amountTolerance) {
			m.Status = domain.MatchMismatch
			if m.Detail == "" {
				m.Detail = fmt.Sprintf("amount differs by %s", m.Difference.Abs())
			}
			res.Mismatched = append(res.Mismatched, m)
		} else {
			res.Matched = append(res.Matched, m)
		}
	}

	total := len(claims)
	if total > 0 {
		res.MatchPercent = decimal.NewFromInt(int64(len(res.Matched))).
			Div(decimal.NewFromInt(int64(total))).Mul(decimal.NewFromInt(100)).Round(2)
	}
	if len(res.Unmatched) > 0 || len(res.Mismatched) > 0 {
		res.IsReconciled = false
	}
	return res
}

func findFeedEntry(claim *Claim, feed []domain.GSTR2BEntry) *domain.GSTR2BEntry {
	for i := range feed {
		e := &feed[i]
		if !strings.EqualFold(e.SupplierGSTIN, claim.SupplierGSTIN) {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(e.InvoiceNumber), strings.TrimSpace(claim.InvoiceNumber)) {
			continue
		}
		diff := e.InvoiceDate.Sub(claim.InvoiceDate)
		if diff < 0 {
			diff = -diff
		}
		if diff <= matchDateTolerance {
			return e
		}
	}
	return nil
}

// CheckRCMViolations records reverse-charge specific violations: a non-cash
// payment mode and credit claimed before the liability was paid. Violations
// are returned as data so a batch can report all of them in one pass.
func CheckRCMViolations(claims []Claim) []domain.ComplianceViolation {
	var out []domain.ComplianceViolation
	for i := range claims {
		c := &claims[i]
		if c.PaymentMode != "" && c.PaymentMode != domain.PaymentModeCash {
			out = append(out, domain.ComplianceViolation{
				TransactionID: c.TransactionID,
				Code:          "RCM_NON_CASH_PAYMENT",
				Detail:        fmt.Sprintf("reverse charge paid via %s; only cash ledger discharge is valid", c.PaymentMode),
			})
		}
		if c.PaymentDate != nil && c.ClaimDate.Before(*c.PaymentDate) {
			out = append(out, domain.ComplianceViolation{
				TransactionID: c.TransactionID,
				Code:          "RCM_CLAIM_BEFORE_PAYMENT",
				Detail:        "input tax credit claimed before the reverse charge liability was paid",
			})
		}
		if c.PaymentDate == nil {
			out = append(out, domain.ComplianceViolation{
				TransactionID: c.TransactionID,
				Code:          "RCM_CLAIM_BEFORE_PAYMENT",
				Detail:        "input tax credit claimed with no recorded payment",
			})
		}
	}
	return out
}

// Reconcile runs the GSTR-2B match plus the RCM violation checks and folds
// both into one period result. Any violation forces isReconciled = false.
func Reconcile(period string, claims []Claim, feed []domain.GSTR2BEntry, runAt time.Time) domain.ReconciliationResult {
	res := MatchGSTR2B(claims, feed)
	res.Period = period
	res.RunAt = runAt
	res.Violations = CheckRCMViolations(claims)
	for i := range res.Mismatched {
		if res.Mismatched[i].Violation {
			res.Violations = append(res.Violations, domain.ComplianceViolation{
				TransactionID: res.Mismatched[i].TransactionID,
				Code:          "RCM_EXCESS_CLAIM",
				Detail:        res.Mismatched[i].Detail,
			})
		}
	}
	for i := range res.Matched {
		if res.Matched[i].Violation {
			res.Violations = append(res.Violations, domain.ComplianceViolation{
				TransactionID: res.Matched[i].TransactionID,
				Code:          "RCM_EXCESS_CLAIM",
				Detail:        res.Matched[i].Detail,
			})
		}
	}
	if len(res.Violations) > 0 {
		res.IsReconciled = false
	}
	return res
}
