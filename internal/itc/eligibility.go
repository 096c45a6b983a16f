package itc

import (
	"time"

	"github.com/shopspring/decimal"

	"rcmbooks/internal/domain"
)

// SupplyCategory narrows which Section 17(5) bucket a supply is examined under.
type SupplyCategory string

const (
	CategoryMotorVehicle SupplyCategory = "motor_vehicle"
	CategoryFoodBeverage SupplyCategory = "food_beverage"
	CategoryMembership   SupplyCategory = "membership"
	CategoryConstruction SupplyCategory = "construction"
	CategoryGoods        SupplyCategory = "goods"
	CategoryService      SupplyCategory = "service"
	CategoryGTA          SupplyCategory = "transport_agency"
)

// Statutory table tags for GSTR-3B.
const (
	TableLiability  = "3.1(d)"
	TableEligible   = "4(A)(3)"
	TableIneligible = "4(D)(1)"
	TableReversal   = "4(B)(2)"
	TableReclaim    = "4(A)(5)"
)

var hundred = decimal.NewFromInt(100)

// Request carries the taxed transaction plus the usage metadata eligibility
// depends on. ClaimDate is the explicit reference date; the engine never
// reads the clock.
type Request struct {
	TaxableAmount decimal.Decimal
	TaxHeads      domain.TaxHeads

	Category       SupplyCategory
	AssetClass     domain.AssetClass
	Usage          domain.UsagePurpose
	BusinessShare  decimal.Decimal // percentage of business use, 0-100
	CSRExpense     bool
	LostStolen     bool
	ForResale      bool
	LegallyMandate bool // food & beverages mandated by law
	SeatingCap     int  // motor vehicles
	TransportUse   bool // passenger/goods transport or driving training
	PlantMachinery bool // construction qualifying as plant & machinery
	RentalBusiness bool // construction for rental business

	InvoiceDate     time.Time
	SelfInvoiceDate *time.Time
	ClaimDate       time.Time

	PaymentConfirmed bool
	PaymentMode      domain.PaymentMode
	PaymentDate      *time.Time
	GTAWithoutITC    bool

	DaysUnpaid         int // days the supplier invoice has stayed unpaid
	SupplierCancelled  bool
	PriorReversed      bool // an earlier evaluation reversed this credit
	PriorReversedAmt   decimal.Decimal
	CommonCredit       bool // Rule 42: credit common to taxable and exempt supplies
	TaxableSupplies    decimal.Decimal
	TotalSupplies      decimal.Decimal
}

// Determine runs the eligibility pipeline in fixed order, short-circuiting on
// the first disqualification. It is pure: disqualification is data on the
// result, never an error.
func Determine(req Request) domain.ITCEligibilityResult {
	totalTax := req.TaxHeads.Total()
	res := domain.ITCEligibilityResult{
		Eligible:      true,
		TableTag:      TableEligible,
		BlockedAmount: decimal.Zero,
		EvaluatedAt:   req.ClaimDate,
	}

	// 1. Section 17(5) blocked categories.
	if blocked, category, section, note := blockedCategory(&req); blocked {
		return disqualified(req, totalTax, category, section, note)
	}

	// 2. Business purpose.
	if req.Usage == domain.UsagePersonal || req.Usage == domain.UsageCSR || req.CSRExpense {
		return disqualified(req, totalTax, domain.BlockedPersonalUse, "17(5)(g)", "supply not used in course or furtherance of business")
	}
	if req.Usage == domain.UsageMixed && !req.BusinessShare.IsPositive() {
		return disqualified(req, totalTax, domain.BlockedPersonalUse, "17(5)(g)", "zero business-use share")
	}

	// 3. Section 16(4) time limit. The self-invoice date governs when present.
	invoiceDate := req.InvoiceDate
	if req.SelfInvoiceDate != nil {
		invoiceDate = *req.SelfInvoiceDate
	}
	if !WithinTimeLimit(invoiceDate, req.ClaimDate) {
		r := disqualified(req, totalTax, "", "16(4)", "claim is time-barred: past 30 November following the invoice fiscal year")
		return r
	}

	// 4. Reverse-charge specific: liability must be discharged in cash, and a
	// GTA billing at the concessional rate without the ITC option carries no credit.
	if req.GTAWithoutITC {
		return disqualified(req, totalTax, "", "N.13/2017 Sl.1", "transport agency opted for 5% without input tax credit")
	}
	if req.PaymentConfirmed && req.PaymentMode != domain.PaymentModeCash {
		return disqualified(req, totalTax, "", "49(4)", "reverse charge liability must be paid through the electronic cash ledger")
	}

	// 5. Reversal triggers.
	if req.DaysUnpaid > 180 {
		return reversed(req, totalTax, "consideration unpaid beyond 180 days", "second proviso to 16(2)")
	}
	if req.SupplierCancelled {
		return reversed(req, totalTax, "supplier registration cancelled", "16(2)")
	}

	// 6. Reclaim of a prior reversal once payment is confirmed.
	if req.PriorReversed {
		if !req.PaymentConfirmed || req.PaymentDate == nil {
			return reversed(req, totalTax, "prior reversal stands until payment is confirmed", "second proviso to 16(2)")
		}
		res.Reclaim = true
		res.ReclaimAmount = req.PriorReversedAmt
		if res.ReclaimAmount.IsZero() {
			res.ReclaimAmount = totalTax
		}
		res.ReclaimPeriod = ReturnPeriodOf(*req.PaymentDate)
		res.TableTag = TableReclaim
	}

	// 7. Proportionate rules.
	eligible := totalTax
	switch {
	case req.Usage == domain.UsageMixed:
		// Straight percentage split for mixed personal/business use.
		eligible = totalTax.Mul(req.BusinessShare).Div(hundred).Round(2)
		res.Notes = appendNote(res.Notes, "proportionate claim at "+req.BusinessShare.String()+"% business use")
	case req.CommonCredit && req.TotalSupplies.IsPositive():
		ratio := req.TaxableSupplies.Div(req.TotalSupplies)
		if req.AssetClass == domain.AssetCapitalGoods {
			// Rule 43: eligible and reversed portions round independently.
			eligible = totalTax.Mul(ratio).Round(2)
			res.ReversalAmount = totalTax.Sub(totalTax.Mul(ratio)).Round(2)
			res.Notes = appendNote(res.Notes, "capital goods common credit apportioned under rule 43")
		} else {
			eligible = totalTax.Mul(ratio).Round(2)
			res.Notes = appendNote(res.Notes, "common credit apportioned under rule 42")
		}
	}

	res.EligibleAmount = eligible
	res.BlockedAmount = totalTax.Sub(eligible)
	splitHeads(&res, req.TaxHeads, eligible, totalTax)
	res.EligiblePercent = percentOf(eligible, totalTax)
	return res
}

// blockedCategory evaluates the Section 17(5) table with its exceptions.
func blockedCategory(req *Request) (bool, domain.BlockedCategory, string, string) {
	switch req.Category {
	case CategoryMotorVehicle:
		if req.SeatingCap > 0 && req.SeatingCap <= 13 && !req.TransportUse {
			return true, domain.BlockedMotorVehicle, "17(5)(a)", "motor vehicle with seating capacity of 13 or fewer, not used for transport or training"
		}
	case CategoryFoodBeverage:
		if !req.LegallyMandate && !req.ForResale {
			return true, domain.BlockedFoodBeverage, "17(5)(b)(i)", "food and beverages neither mandated by law nor resold"
		}
	case CategoryMembership:
		return true, domain.BlockedMembership, "17(5)(b)(ii)", "club, health or fitness membership"
	case CategoryConstruction:
		if !req.PlantMachinery && !req.RentalBusiness {
			return true, domain.BlockedConstruction, "17(5)(d)", "construction of immovable property other than plant or machinery"
		}
	case CategoryGoods:
		if req.Usage == domain.UsagePersonal {
			return true, domain.BlockedPersonalUse, "17(5)(g)", "goods used for personal consumption"
		}
		if req.LostStolen {
			return true, domain.BlockedLostStolen, "17(5)(h)", "goods lost, stolen, destroyed or written off"
		}
	}
	if req.CSRExpense {
		return true, domain.BlockedCSR, "17(5)(fa)", "expense linked to corporate social responsibility obligation"
	}
	return false, "", "", ""
}

// disqualified builds a zero-credit result. Liability under 3.1(d) is still
// reported by the caller even when the credit is blocked.
func disqualified(req Request, totalTax decimal.Decimal, category domain.BlockedCategory, section, note string) domain.ITCEligibilityResult {
	return domain.ITCEligibilityResult{
		Eligible:        false,
		EligibleAmount:  decimal.Zero,
		BlockedAmount:   totalTax,
		EligiblePercent: decimal.Zero,
		BlockedCategory: category,
		SectionRef:      section,
		TableTag:        TableIneligible,
		Notes:           note,
		EvaluatedAt:     req.ClaimDate,
	}
}

// reversed builds a result that reverses previously eligible credit in full.
func reversed(req Request, totalTax decimal.Decimal, reason, section string) domain.ITCEligibilityResult {
	amount := req.PriorReversedAmt
	if amount.IsZero() {
		amount = totalTax
	}
	return domain.ITCEligibilityResult{
		Eligible:        false,
		EligibleAmount:  decimal.Zero,
		BlockedAmount:   totalTax,
		EligiblePercent: decimal.Zero,
		SectionRef:      section,
		Reversal:        true,
		ReversalReason:  reason,
		ReversalAmount:  amount,
		TableTag:        TableReversal,
		EvaluatedAt:     req.ClaimDate,
	}
}

// splitHeads distributes the eligible amount across heads in proportion to
// the original tax split.
func splitHeads(res *domain.ITCEligibilityResult, heads domain.TaxHeads, eligible, totalTax decimal.Decimal) {
	if totalTax.IsZero() || eligible.IsZero() {
		return
	}
	ratio := eligible.Div(totalTax)
	res.EligibleCGST = heads.CGST.Mul(ratio).Round(2)
	res.EligibleSGST = heads.SGST.Mul(ratio).Round(2)
	res.EligibleIGST = heads.IGST.Mul(ratio).Round(2)
	res.EligibleCess = heads.Cess.Mul(ratio).Round(2)
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "; " + note
}
