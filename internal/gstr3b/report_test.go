package gstr3b

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcmbooks/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func legalServiceTx(id uuid.UUID) domain.RCMTransaction {
	return domain.RCMTransaction{
		ID:             id,
		Classification: domain.RCMNotifiedService,
		AssetClass:     domain.AssetInputServices,
		TaxableAmount:  d("100000"),
		CGSTAmount:     d("9000"),
		SGSTAmount:     d("9000"),
	}
}

func importTx(id uuid.UUID) domain.RCMTransaction {
	return domain.RCMTransaction{
		ID:             id,
		Classification: domain.RCMImportService,
		AssetClass:     domain.AssetInputServices,
		TaxableAmount:  d("83500"),
		IGSTAmount:     d("15030"),
	}
}

func fullEligibility(t domain.RCMTransaction) domain.ITCEligibilityResult {
	return domain.ITCEligibilityResult{
		TransactionID:  t.ID,
		Eligible:       true,
		EligibleAmount: t.CGSTAmount.Add(t.SGSTAmount).Add(t.IGSTAmount).Add(t.CessAmount),
		EligibleCGST:   t.CGSTAmount,
		EligibleSGST:   t.SGSTAmount,
		EligibleIGST:   t.IGSTAmount,
		EligibleCess:   t.CessAmount,
	}
}

func TestBuildAggregatesLiability(t *testing.T) {
	legal := legalServiceTx(uuid.New())
	imp := importTx(uuid.New())
	rep := Build("052024", "27AAPFU0939F1ZV",
		[]domain.RCMTransaction{legal, imp},
		[]domain.ITCEligibilityResult{fullEligibility(legal), fullEligibility(imp)})

	assert.True(t, rep.Liability.TaxableValue.Equal(d("183500")))
	assert.True(t, rep.Liability.CGST.Equal(d("9000")))
	assert.True(t, rep.Liability.SGST.Equal(d("9000")))
	assert.True(t, rep.Liability.IGST.Equal(d("15030")))
	assert.True(t, rep.Liability.HasImports)
	assert.Equal(t, 2, rep.Liability.EntryCount)
	assert.True(t, rep.TotalLiabilityTax().Equal(d("33030")))
}

func TestBuildGroupsITCByAssetClass(t *testing.T) {
	services := legalServiceTx(uuid.New())
	goods := domain.RCMTransaction{
		ID:             uuid.New(),
		Classification: domain.RCMNotifiedService,
		AssetClass:     domain.AssetInputs,
		TaxableAmount:  d("50000"),
		IGSTAmount:     d("2500"),
	}
	capital := domain.RCMTransaction{
		ID:             uuid.New(),
		Classification: domain.RCMNotifiedService,
		AssetClass:     domain.AssetCapitalGoods,
		TaxableAmount:  d("200000"),
		IGSTAmount:     d("36000"),
	}
	rep := Build("052024", "27AAPFU0939F1ZV",
		[]domain.RCMTransaction{services, goods, capital},
		[]domain.ITCEligibilityResult{fullEligibility(services), fullEligibility(goods), fullEligibility(capital)})

	assert.True(t, rep.ITCAvailable[domain.AssetInputServices].Total().Equal(d("18000")))
	assert.True(t, rep.ITCAvailable[domain.AssetInputs].Total().Equal(d("2500")))
	assert.True(t, rep.ITCAvailable[domain.AssetCapitalGoods].Total().Equal(d("36000")))
	assert.True(t, rep.TotalITC.Equal(d("56500")))
}

func TestBuildBlockedCreditStillDeclaresLiability(t *testing.T) {
	blocked := legalServiceTx(uuid.New())
	res := domain.ITCEligibilityResult{
		TransactionID: blocked.ID,
		Eligible:      false,
		BlockedAmount: d("18000"),
	}
	rep := Build("052024", "27AAPFU0939F1ZV",
		[]domain.RCMTransaction{blocked}, []domain.ITCEligibilityResult{res})

	assert.True(t, rep.Liability.TaxableValue.Equal(d("100000")))
	assert.True(t, rep.TotalITC.IsZero())
	assert.True(t, rep.IneligibleITC.Equal(d("18000")))
	assert.Empty(t, rep.ITCAvailable)
}

func TestBuildSkipsNonRCMTransactions(t *testing.T) {
	plain := domain.RCMTransaction{
		ID:             uuid.New(),
		Classification: domain.RCMNone,
		TaxableAmount:  d("5000"),
	}
	rep := Build("052024", "27AAPFU0939F1ZV", []domain.RCMTransaction{plain}, nil)
	assert.Zero(t, rep.Liability.EntryCount)
	assert.True(t, rep.Liability.TaxableValue.IsZero())
}

func TestBuildBlankAssetClassDefaultsToInputs(t *testing.T) {
	goods := domain.RCMTransaction{
		ID:             uuid.New(),
		Classification: domain.RCMNotifiedService,
		TaxableAmount:  d("10000"),
		IGSTAmount:     d("500"),
	}
	rep := Build("052024", "27AAPFU0939F1ZV",
		[]domain.RCMTransaction{goods}, []domain.ITCEligibilityResult{fullEligibility(goods)})
	assert.True(t, rep.ITCAvailable[domain.AssetInputs].IGST.Equal(d("500")))
}

func TestValidateCleanReport(t *testing.T) {
	legal := legalServiceTx(uuid.New())
	rep := Build("052024", "27AAPFU0939F1ZV",
		[]domain.RCMTransaction{legal}, []domain.ITCEligibilityResult{fullEligibility(legal)})
	assert.Empty(t, Validate(&rep, d("18000")))
}

func TestValidatePaymentMismatch(t *testing.T) {
	legal := legalServiceTx(uuid.New())
	rep := Build("052024", "27AAPFU0939F1ZV",
		[]domain.RCMTransaction{legal}, nil)

	violations := Validate(&rep, d("15000"))
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationPaymentMismatch, violations[0].Code)
}

func TestValidateExcessClaim(t *testing.T) {
	legal := legalServiceTx(uuid.New())
	rep := Build("052024", "27AAPFU0939F1ZV",
		[]domain.RCMTransaction{legal}, []domain.ITCEligibilityResult{fullEligibility(legal)})
	// Claimed 18000 but only 10000 paid in cash.
	violations := Validate(&rep, d("10000"))
	require.Len(t, violations, 2)
	codes := []string{violations[0].Code, violations[1].Code}
	assert.Contains(t, codes, ViolationPaymentMismatch)
	assert.Contains(t, codes, ViolationExcessClaim)
}

func TestReconcileWithBooksInAgreement(t *testing.T) {
	legal := legalServiceTx(uuid.New())
	rep := Build("052024", "27AAPFU0939F1ZV",
		[]domain.RCMTransaction{legal}, nil)
	adj := ReconcileWithBooks(&rep, BookTotals{TaxableValue: d("100000"), TotalTax: d("18000")})
	assert.Empty(t, adj)
}

func TestReconcileWithBooksFlagsDiffs(t *testing.T) {
	legal := legalServiceTx(uuid.New())
	rep := Build("052024", "27AAPFU0939F1ZV",
		[]domain.RCMTransaction{legal}, nil)

	adj := ReconcileWithBooks(&rep, BookTotals{TaxableValue: d("120000"), TotalTax: d("18000")})
	require.Len(t, adj, 1)
	assert.Equal(t, "taxable_value", adj[0].Field)
	assert.True(t, adj[0].Delta.Equal(d("-20000")))
	assert.Contains(t, adj[0].Suggestion, "missing from the return")

	adj = ReconcileWithBooks(&rep, BookTotals{TaxableValue: d("100000"), TotalTax: d("12000")})
	require.Len(t, adj, 1)
	assert.Equal(t, "total_tax", adj[0].Field)
	assert.True(t, adj[0].Delta.Equal(d("6000")))
	assert.Contains(t, adj[0].Suggestion, "booked without reverse charge")
}

func TestExportJSONDeterministicAndRoundTrips(t *testing.T) {
	legal := legalServiceTx(uuid.New())
	imp := importTx(uuid.New())
	rep := Build("052024", "27AAPFU0939F1ZV",
		[]domain.RCMTransaction{legal, imp},
		[]domain.ITCEligibilityResult{fullEligibility(legal), fullEligibility(imp)})

	first, err := ExportJSON(&rep)
	require.NoError(t, err)
	second, err := ExportJSON(&rep)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	parsed, err := ParseJSON(first)
	require.NoError(t, err)
	assert.Equal(t, rep.Period, parsed.Period)
	assert.Equal(t, rep.GSTIN, parsed.GSTIN)
	assert.True(t, parsed.Liability.TaxableValue.Equal(d("183500.00")))
	assert.True(t, parsed.TotalITC.Equal(rep.TotalITC.Round(2)))
	assert.True(t, parsed.ITCAvailable[domain.AssetInputServices].Total().Equal(d("33030.00")))
}

func TestParseJSONRejectsGarbage(t *testing.T) {
	_, err := ParseJSON([]byte("{not json"))
	assert.Error(t, err)
}
