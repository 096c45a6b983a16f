package taxcalc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"rcmbooks/internal/domain"
)

// notifiedRates is the fixed domestic GST rate schedule.
var notifiedRates = []decimal.Decimal{
	decimal.Zero,
	decimal.NewFromInt(5),
	decimal.NewFromInt(12),
	decimal.NewFromInt(18),
	decimal.NewFromInt(28),
}

var two = decimal.NewFromInt(2)
var hundred = decimal.NewFromInt(100)

func isNotifiedRate(rate decimal.Decimal) bool {
	for _, r := range notifiedRates {
		if rate.Equal(r) {
			return true
		}
	}
	return false
}

// Input is a single taxable supply to compute GST on. ForeignAmount and
// ExchangeRate, when set, override TaxableAmount with their rounded product.
type Input struct {
	TaxableAmount decimal.Decimal
	TaxType       domain.TaxType
	GSTRate       decimal.Decimal
	CessRate      decimal.Decimal
	ForeignAmount *decimal.Decimal
	ExchangeRate  *decimal.Decimal
}

// roundRupee rounds half-up to the nearest whole rupee, statutory style.
func roundRupee(v decimal.Decimal) decimal.Decimal {
	return v.Round(0)
}

// Calculate computes CGST/SGST or IGST plus optional cess for one supply.
// Each head is rounded to whole rupees independently; totals are sums of the
// already-rounded heads, matching how heads appear on a filed return.
func Calculate(in Input) (domain.TaxResult, error) {
	if in.TaxableAmount.IsNegative() {
		return domain.TaxResult{}, fmt.Errorf("%w: taxable amount cannot be negative", domain.ErrValidation)
	}
	if !isNotifiedRate(in.GSTRate) {
		return domain.TaxResult{}, fmt.Errorf("%w: rate %s%%", domain.ErrInvalidGSTRate, in.GSTRate.String())
	}

	taxable := in.TaxableAmount
	if in.ForeignAmount != nil {
		if in.ExchangeRate == nil || !in.ExchangeRate.IsPositive() {
			return domain.TaxResult{}, fmt.Errorf("%w: foreign amount requires a positive exchange rate", domain.ErrValidation)
		}
		taxable = roundRupee(in.ForeignAmount.Mul(*in.ExchangeRate))
	}

	var heads domain.TaxHeads
	switch in.TaxType {
	case domain.TaxTypeCGSTSGST:
		// The GST rate splits exactly in half per head.
		halfRate := in.GSTRate.Div(two)
		heads.CGST = roundRupee(taxable.Mul(halfRate).Div(hundred))
		heads.SGST = roundRupee(taxable.Mul(halfRate).Div(hundred))
	case domain.TaxTypeIGST:
		heads.IGST = roundRupee(taxable.Mul(in.GSTRate).Div(hundred))
	default:
		return domain.TaxResult{}, fmt.Errorf("%w: unknown tax type %q", domain.ErrValidation, in.TaxType)
	}

	// Cess applies to the taxable amount independently of the GST heads.
	if in.CessRate.IsPositive() {
		heads.Cess = roundRupee(taxable.Mul(in.CessRate).Div(hundred))
	}

	totalTax := heads.Total()
	return domain.TaxResult{
		TaxableAmount: taxable,
		TaxType:       in.TaxType,
		GSTRate:       in.GSTRate,
		CessRate:      in.CessRate,
		Heads:         heads,
		TotalTax:      totalTax,
		TotalAmount:   taxable.Add(totalTax),
		ForeignAmount: in.ForeignAmount,
		ExchangeRate:  in.ExchangeRate,
	}, nil
}

// BatchResult aggregates per-item results; totals are sums of the per-item
// values, never re-derived from an aggregate rate.
type BatchResult struct {
	Items       []domain.TaxResult
	Taxable     decimal.Decimal
	Heads       domain.TaxHeads
	TotalTax    decimal.Decimal
	TotalAmount decimal.Decimal
}

// CalculateBatch applies Calculate to each line item and sums the results.
func CalculateBatch(items []Input) (BatchResult, error) {
	out := BatchResult{Items: make([]domain.TaxResult, 0, len(items))}
	for i := range items {
		res, err := Calculate(items[i])
		if err != nil {
			return BatchResult{}, fmt.Errorf("item %d: %w", i, err)
		}
		out.Items = append(out.Items, res)
		out.Taxable = out.Taxable.Add(res.TaxableAmount)
		out.Heads = out.Heads.Add(res.Heads)
		out.TotalTax = out.TotalTax.Add(res.TotalTax)
		out.TotalAmount = out.TotalAmount.Add(res.TotalAmount)
	}
	return out, nil
}
