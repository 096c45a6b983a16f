package ledger

import (
	"github.com/shopspring/decimal"
)

// Liability is the output tax owed per head for a period.
type Liability struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
}

// Utilization is how available credit offsets output liability under the
// statutory set-off order.
type Utilization struct {
	IGSTUsedForIGST decimal.Decimal `json:"igst_used_for_igst"`
	IGSTUsedForCGST decimal.Decimal `json:"igst_used_for_cgst"`
	IGSTUsedForSGST decimal.Decimal `json:"igst_used_for_sgst"`
	CGSTUsed        decimal.Decimal `json:"cgst_used"`
	SGSTUsed        decimal.Decimal `json:"sgst_used"`
	RemainingCredit Balance         `json:"remaining_credit"`
	CashRequired    Liability       `json:"cash_required"`
}

// TotalCashRequired sums the per-head cash shortfall.
func (u Utilization) TotalCashRequired() decimal.Decimal {
	return u.CashRequired.CGST.Add(u.CashRequired.SGST).Add(u.CashRequired.IGST)
}

// TrackUtilization applies the statutory set-off order: each head's credit
// first offsets its own liability, then leftover IGST credit may cover the
// CGST shortfall and then the SGST shortfall. CGST and SGST credit can never
// cross-offset each other. Whatever liability survives becomes cash required.
func TrackUtilization(available Balance, liability Liability) Utilization {
	var u Utilization

	u.IGSTUsedForIGST = decimal.Min(available.IGST, liability.IGST)
	igstLeft := available.IGST.Sub(u.IGSTUsedForIGST)
	igstDue := liability.IGST.Sub(u.IGSTUsedForIGST)

	u.CGSTUsed = decimal.Min(available.CGST, liability.CGST)
	cgstLeft := available.CGST.Sub(u.CGSTUsed)
	cgstDue := liability.CGST.Sub(u.CGSTUsed)

	u.SGSTUsed = decimal.Min(available.SGST, liability.SGST)
	sgstLeft := available.SGST.Sub(u.SGSTUsed)
	sgstDue := liability.SGST.Sub(u.SGSTUsed)

	// IGST spillover: CGST shortfall first, then SGST.
	u.IGSTUsedForCGST = decimal.Min(igstLeft, cgstDue)
	igstLeft = igstLeft.Sub(u.IGSTUsedForCGST)
	cgstDue = cgstDue.Sub(u.IGSTUsedForCGST)

	u.IGSTUsedForSGST = decimal.Min(igstLeft, sgstDue)
	igstLeft = igstLeft.Sub(u.IGSTUsedForSGST)
	sgstDue = sgstDue.Sub(u.IGSTUsedForSGST)

	u.RemainingCredit = Balance{CGST: cgstLeft, SGST: sgstLeft, IGST: igstLeft, Cess: available.Cess}
	u.CashRequired = Liability{CGST: cgstDue, SGST: sgstDue, IGST: igstDue}
	return u
}
