package itc

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"rcmbooks/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tp(t time.Time) *time.Time { return &t }

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// baseRequest is an eligible service supply: 10,000 taxable, 1,800 IGST,
// paid in cash within time.
func baseRequest() Request {
	return Request{
		TaxableAmount:    d("10000"),
		TaxHeads:         domain.TaxHeads{IGST: d("1800")},
		Category:         CategoryService,
		AssetClass:       domain.AssetInputServices,
		Usage:            domain.UsageBusiness,
		BusinessShare:    d("100"),
		InvoiceDate:      date(2024, time.May, 10),
		ClaimDate:        date(2024, time.June, 15),
		PaymentConfirmed: true,
		PaymentMode:      domain.PaymentModeCash,
		PaymentDate:      tp(date(2024, time.June, 10)),
	}
}

func TestDetermine_FullyEligible(t *testing.T) {
	res := Determine(baseRequest())
	assert.True(t, res.Eligible)
	assert.True(t, res.EligibleAmount.Equal(d("1800")))
	assert.True(t, res.BlockedAmount.IsZero())
	assert.True(t, res.EligibleIGST.Equal(d("1800")))
	assert.True(t, res.EligiblePercent.Equal(d("100")))
	assert.Equal(t, TableEligible, res.TableTag)
}

func TestDetermine_MotorVehicleBlocked(t *testing.T) {
	// Scenario: seating 7, personal usage → blocked under 17(5)(a), zero credit.
	req := baseRequest()
	req.Category = CategoryMotorVehicle
	req.SeatingCap = 7
	req.Usage = domain.UsagePersonal

	res := Determine(req)
	assert.False(t, res.Eligible)
	assert.True(t, res.EligibleAmount.IsZero())
	assert.Equal(t, domain.BlockedMotorVehicle, res.BlockedCategory)
	assert.Equal(t, "17(5)(a)", res.SectionRef)
	assert.True(t, res.BlockedAmount.Equal(d("1800")))
	assert.Equal(t, TableIneligible, res.TableTag)
}

func TestDetermine_MotorVehicleExceptions(t *testing.T) {
	req := baseRequest()
	req.Category = CategoryMotorVehicle
	req.SeatingCap = 7
	req.TransportUse = true
	res := Determine(req)
	assert.True(t, res.Eligible, "passenger/goods transport exception")

	req = baseRequest()
	req.Category = CategoryMotorVehicle
	req.SeatingCap = 20
	res = Determine(req)
	assert.True(t, res.Eligible, "seating above 13 is not blocked")
}

func TestDetermine_FoodBeverage(t *testing.T) {
	req := baseRequest()
	req.Category = CategoryFoodBeverage
	res := Determine(req)
	assert.False(t, res.Eligible)
	assert.Equal(t, "17(5)(b)(i)", res.SectionRef)

	req.LegallyMandate = true
	res = Determine(req)
	assert.True(t, res.Eligible, "statutorily mandated canteen is allowed")

	req.LegallyMandate = false
	req.ForResale = true
	res = Determine(req)
	assert.True(t, res.Eligible, "resale in the same line of business is allowed")
}

func TestDetermine_MembershipAlwaysBlocked(t *testing.T) {
	req := baseRequest()
	req.Category = CategoryMembership
	res := Determine(req)
	assert.False(t, res.Eligible)
	assert.Equal(t, domain.BlockedMembership, res.BlockedCategory)
}

func TestDetermine_Construction(t *testing.T) {
	req := baseRequest()
	req.Category = CategoryConstruction
	res := Determine(req)
	assert.False(t, res.Eligible)
	assert.Equal(t, "17(5)(d)", res.SectionRef)

	req.PlantMachinery = true
	res = Determine(req)
	assert.True(t, res.Eligible, "plant and machinery exception")

	req.PlantMachinery = false
	req.RentalBusiness = true
	res = Determine(req)
	assert.True(t, res.Eligible, "rental business exception")
}

func TestDetermine_GoodsPersonalAndLost(t *testing.T) {
	req := baseRequest()
	req.Category = CategoryGoods
	req.Usage = domain.UsagePersonal
	res := Determine(req)
	assert.False(t, res.Eligible)
	assert.Equal(t, "17(5)(g)", res.SectionRef)

	req = baseRequest()
	req.Category = CategoryGoods
	req.LostStolen = true
	res = Determine(req)
	assert.False(t, res.Eligible)
	assert.Equal(t, domain.BlockedLostStolen, res.BlockedCategory)
	assert.Equal(t, "17(5)(h)", res.SectionRef)
}

func TestDetermine_CSRAlwaysBlocked(t *testing.T) {
	req := baseRequest()
	req.CSRExpense = true
	res := Determine(req)
	assert.False(t, res.Eligible)
	assert.Equal(t, domain.BlockedCSR, res.BlockedCategory)
}

func TestDetermine_TimeLimit(t *testing.T) {
	// Invoiced 31 March 2024 (FY 2023-24): deadline is 30 November 2024.
	req := baseRequest()
	req.InvoiceDate = date(2024, time.March, 31)

	req.ClaimDate = date(2024, time.November, 30)
	res := Determine(req)
	assert.True(t, res.Eligible, "deadline day itself is compliant")

	req.ClaimDate = date(2024, time.December, 1)
	res = Determine(req)
	assert.False(t, res.Eligible, "one day past the deadline is time-barred")
	assert.Equal(t, "16(4)", res.SectionRef)
}

func TestDetermine_TimeLimitUsesSelfInvoiceDate(t *testing.T) {
	// Original invoice is long stale, but the self-invoice was raised in the
	// current fiscal year: the self-invoice date governs.
	req := baseRequest()
	req.InvoiceDate = date(2022, time.May, 1)
	req.SelfInvoiceDate = tp(date(2024, time.May, 1))
	req.ClaimDate = date(2024, time.December, 15)

	res := Determine(req)
	assert.True(t, res.Eligible)
}

func TestDetermine_RCMCashOnly(t *testing.T) {
	req := baseRequest()
	req.PaymentMode = domain.PaymentModeNetBanking
	res := Determine(req)
	assert.False(t, res.Eligible)
	assert.Equal(t, "49(4)", res.SectionRef)
}

func TestDetermine_GTAWithoutITCOption(t *testing.T) {
	req := baseRequest()
	req.Category = CategoryGTA
	req.GTAWithoutITC = true
	res := Determine(req)
	assert.False(t, res.Eligible)
}

func TestDetermine_ReversalTriggers(t *testing.T) {
	req := baseRequest()
	req.DaysUnpaid = 181
	res := Determine(req)
	assert.False(t, res.Eligible)
	assert.True(t, res.Reversal)
	assert.True(t, res.ReversalAmount.Equal(d("1800")))
	assert.Equal(t, TableReversal, res.TableTag)

	req = baseRequest()
	req.DaysUnpaid = 180
	res = Determine(req)
	assert.True(t, res.Eligible, "exactly 180 days is still inside the window")

	req = baseRequest()
	req.SupplierCancelled = true
	res = Determine(req)
	assert.True(t, res.Reversal)
	assert.Equal(t, "supplier registration cancelled", res.ReversalReason)
}

func TestDetermine_Reclaim(t *testing.T) {
	req := baseRequest()
	req.PriorReversed = true
	req.PriorReversedAmt = d("1800")
	req.PaymentDate = tp(date(2024, time.July, 5))

	res := Determine(req)
	assert.True(t, res.Eligible)
	assert.True(t, res.Reclaim)
	assert.True(t, res.ReclaimAmount.Equal(d("1800")))
	assert.Equal(t, "072024", res.ReclaimPeriod, "reclaim dated to payment's return period")
	assert.Equal(t, TableReclaim, res.TableTag)
}

func TestDetermine_ReclaimNeedsConfirmedPayment(t *testing.T) {
	req := baseRequest()
	req.PriorReversed = true
	req.PaymentConfirmed = false
	req.PaymentMode = ""
	req.PaymentDate = nil

	res := Determine(req)
	assert.False(t, res.Eligible)
	assert.True(t, res.Reversal, "prior reversal stands until payment confirms")
}

func TestDetermine_MixedUseProportionate(t *testing.T) {
	req := baseRequest()
	req.Usage = domain.UsageMixed
	req.BusinessShare = d("60")
	req.TaxHeads = domain.TaxHeads{CGST: d("900"), SGST: d("900")}

	res := Determine(req)
	assert.True(t, res.Eligible)
	assert.True(t, res.EligibleAmount.Equal(d("1080")), "60%% of 1800, got %s", res.EligibleAmount)
	assert.True(t, res.EligibleCGST.Equal(d("540")))
	assert.True(t, res.EligibleSGST.Equal(d("540")))
	assert.True(t, res.EligiblePercent.Equal(d("60")))
	assert.True(t, res.BlockedAmount.Equal(d("720")))
}

func TestDetermine_MixedUseZeroShareDisqualifies(t *testing.T) {
	req := baseRequest()
	req.Usage = domain.UsageMixed
	req.BusinessShare = decimal.Zero
	res := Determine(req)
	assert.False(t, res.Eligible)
}

func TestDetermine_CommonCreditRule42(t *testing.T) {
	req := baseRequest()
	req.CommonCredit = true
	req.TaxableSupplies = d("800000")
	req.TotalSupplies = d("1000000")

	res := Determine(req)
	assert.True(t, res.EligibleAmount.Equal(d("1440")), "80%% of 1800, got %s", res.EligibleAmount)
	assert.True(t, res.EligiblePercent.Equal(d("80")))
}

func TestDetermine_CapitalGoodsRule43(t *testing.T) {
	req := baseRequest()
	req.AssetClass = domain.AssetCapitalGoods
	req.CommonCredit = true
	req.TaxableSupplies = d("700000")
	req.TotalSupplies = d("900000")
	req.TaxHeads = domain.TaxHeads{IGST: d("1000")}

	res := Determine(req)
	// 7/9 of 1000 = 777.78 eligible; reversal 222.22; rounded independently.
	assert.True(t, res.EligibleAmount.Equal(d("777.78")), "eligible = %s", res.EligibleAmount)
	assert.True(t, res.ReversalAmount.Equal(d("222.22")), "reversal = %s", res.ReversalAmount)
}

func TestClaimDeadline(t *testing.T) {
	// FY 2023-24 invoice (May 2023) → 30 Nov 2024.
	assert.Equal(t, date(2024, time.November, 30), ClaimDeadline(date(2023, time.May, 15)))
	// 31 March 2024 still belongs to FY 2023-24 → 30 Nov 2024.
	assert.Equal(t, date(2024, time.November, 30), ClaimDeadline(date(2024, time.March, 31)))
	// 1 April 2024 rolls into FY 2024-25 → 30 Nov 2025.
	assert.Equal(t, date(2025, time.November, 30), ClaimDeadline(date(2024, time.April, 1)))
}

func TestReturnPeriodOf(t *testing.T) {
	assert.Equal(t, "042024", ReturnPeriodOf(date(2024, time.April, 3)))
	assert.Equal(t, "122023", ReturnPeriodOf(date(2023, time.December, 31)))
}
