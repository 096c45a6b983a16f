package gstr3b

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"rcmbooks/internal/domain"
)

// LiabilityRow is table 3.1(d): inward supplies liable to reverse charge.
type LiabilityRow struct {
	TaxableValue decimal.Decimal `json:"taxable_value"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
	Cess         decimal.Decimal `json:"cess"`
	HasImports   bool            `json:"has_imports"`
	EntryCount   int             `json:"entry_count"`
}

// ITCRow is a per-asset-class subtotal of table 4(A)(3).
type ITCRow struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
	Cess decimal.Decimal `json:"cess"`
}

// Total sums the row's heads.
func (r ITCRow) Total() decimal.Decimal {
	return r.CGST.Add(r.SGST).Add(r.IGST).Add(r.Cess)
}

// Report is the reverse-charge slice of a GSTR-3B return for one period.
type Report struct {
	Period        string                       `json:"period"`
	GSTIN         string                       `json:"gstin"`
	Liability     LiabilityRow                 `json:"liability_3_1_d"`
	ITCAvailable  map[domain.AssetClass]ITCRow `json:"itc_available_4a3"`
	IneligibleITC decimal.Decimal              `json:"ineligible_itc_4d1"`
	TotalITC      decimal.Decimal              `json:"total_itc"`
}

// Violation is a recorded cross-check failure on the report.
type Violation struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

const (
	ViolationPaymentMismatch = "PAYMENT_MISMATCH"
	ViolationExcessClaim     = "EXCESS_CLAIM"
)

// Build aggregates all RCM inward supplies into the liability table and the
// supplied eligibility results into the ITC table. Eligibility results are
// matched to transactions by transaction ID; a transaction with blocked
// credit still contributes its full liability.
func Build(period, gstin string, txs []domain.RCMTransaction, results []domain.ITCEligibilityResult) Report {
	rep := Report{
		Period:       period,
		GSTIN:        gstin,
		ITCAvailable: make(map[domain.AssetClass]ITCRow),
	}

	byTx := make(map[string]*domain.ITCEligibilityResult, len(results))
	for i := range results {
		byTx[results[i].TransactionID.String()] = &results[i]
	}

	for i := range txs {
		tx := &txs[i]
		if tx.Classification == domain.RCMNone {
			continue
		}
		rep.Liability.TaxableValue = rep.Liability.TaxableValue.Add(tx.TaxableAmount)
		rep.Liability.CGST = rep.Liability.CGST.Add(tx.CGSTAmount)
		rep.Liability.SGST = rep.Liability.SGST.Add(tx.SGSTAmount)
		rep.Liability.IGST = rep.Liability.IGST.Add(tx.IGSTAmount)
		rep.Liability.Cess = rep.Liability.Cess.Add(tx.CessAmount)
		rep.Liability.EntryCount++
		if tx.Classification == domain.RCMImportService {
			rep.Liability.HasImports = true
		}

		res, ok := byTx[tx.ID.String()]
		if !ok {
			continue
		}
		if res.Eligible {
			class := tx.AssetClass
			if class == "" {
				class = domain.AssetInputs
			}
			row := rep.ITCAvailable[class]
			row.CGST = row.CGST.Add(res.EligibleCGST)
			row.SGST = row.SGST.Add(res.EligibleSGST)
			row.IGST = row.IGST.Add(res.EligibleIGST)
			row.Cess = row.Cess.Add(res.EligibleCess)
			rep.ITCAvailable[class] = row
			rep.TotalITC = rep.TotalITC.Add(res.EligibleAmount)
		}
		rep.IneligibleITC = rep.IneligibleITC.Add(res.BlockedAmount)
	}
	return rep
}

// TotalLiabilityTax sums the liability table's tax heads.
func (r *Report) TotalLiabilityTax() decimal.Decimal {
	return r.Liability.CGST.Add(r.Liability.SGST).Add(r.Liability.IGST).Add(r.Liability.Cess)
}

// Validate cross-checks the report against cash payment records: declared
// reverse-charge tax must equal cash-paid reverse-charge tax, and claimed ITC
// must never exceed the reverse-charge tax paid. Failures are recorded
// violations, not errors, so a filing review sees all of them at once.
func Validate(rep *Report, cashPaid decimal.Decimal) []Violation {
	var out []Violation
	declared := rep.TotalLiabilityTax()
	if !declared.Equal(cashPaid) {
		out = append(out, Violation{
			Code:   ViolationPaymentMismatch,
			Detail: fmt.Sprintf("declared reverse charge tax %s but cash paid %s", declared, cashPaid),
		})
	}
	if rep.TotalITC.GreaterThan(cashPaid) {
		out = append(out, Violation{
			Code:   ViolationExcessClaim,
			Detail: fmt.Sprintf("claimed itc %s exceeds reverse charge tax paid %s", rep.TotalITC, cashPaid),
		})
	}
	return out
}

// BookTotals are independently recorded purchase-register totals for the
// same period.
type BookTotals struct {
	TaxableValue decimal.Decimal `json:"taxable_value"`
	TotalTax     decimal.Decimal `json:"total_tax"`
}

// Adjustment is a proposed line-level correction from books reconciliation.
type Adjustment struct {
	Field      string          `json:"field"`
	Reportside decimal.Decimal `json:"report_side"`
	BookSide   decimal.Decimal `json:"book_side"`
	Delta      decimal.Decimal `json:"delta"`
	Suggestion string          `json:"suggestion"`
}

// ReconcileWithBooks diffs the report against the purchase register and
// proposes adjustments where they disagree.
func ReconcileWithBooks(rep *Report, books BookTotals) []Adjustment {
	var out []Adjustment
	if !rep.Liability.TaxableValue.Equal(books.TaxableValue) {
		delta := rep.Liability.TaxableValue.Sub(books.TaxableValue)
		out = append(out, Adjustment{
			Field:      "taxable_value",
			Reportside: rep.Liability.TaxableValue,
			BookSide:   books.TaxableValue,
			Delta:      delta,
			Suggestion: suggestionFor("taxable value", delta),
		})
	}
	declared := rep.TotalLiabilityTax()
	if !declared.Equal(books.TotalTax) {
		delta := declared.Sub(books.TotalTax)
		out = append(out, Adjustment{
			Field:      "total_tax",
			Reportside: declared,
			BookSide:   books.TotalTax,
			Delta:      delta,
			Suggestion: suggestionFor("tax", delta),
		})
	}
	return out
}

// ExportJSON renders the report for filing: every amount fixed at two
// decimal places, map keys sorted by the encoder, so identical reports
// always yield identical bytes. The output unmarshals back into a Report.
func ExportJSON(rep *Report) ([]byte, error) {
	cp := *rep
	cp.Liability.TaxableValue = cp.Liability.TaxableValue.Round(2)
	cp.Liability.CGST = cp.Liability.CGST.Round(2)
	cp.Liability.SGST = cp.Liability.SGST.Round(2)
	cp.Liability.IGST = cp.Liability.IGST.Round(2)
	cp.Liability.Cess = cp.Liability.Cess.Round(2)
	cp.IneligibleITC = cp.IneligibleITC.Round(2)
	cp.TotalITC = cp.TotalITC.Round(2)
	cp.ITCAvailable = make(map[domain.AssetClass]ITCRow, len(rep.ITCAvailable))
	for class, row := range rep.ITCAvailable {
		cp.ITCAvailable[class] = ITCRow{
			CGST: row.CGST.Round(2),
			SGST: row.SGST.Round(2),
			IGST: row.IGST.Round(2),
			Cess: row.Cess.Round(2),
		}
	}
	return json.MarshalIndent(&cp, "", "  ")
}

// ParseJSON reads a report previously produced by ExportJSON.
func ParseJSON(data []byte) (*Report, error) {
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parsing gstr3b report: %w", err)
	}
	return &rep, nil
}

func suggestionFor(what string, delta decimal.Decimal) string {
	if delta.IsPositive() {
		return fmt.Sprintf("report %s exceeds books by %s; check for purchases booked without reverse charge", what, delta)
	}
	return fmt.Sprintf("books %s exceeds report by %s; check for inward supplies missing from the return", what, delta.Abs())
}
