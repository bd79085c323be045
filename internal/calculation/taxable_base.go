// Package calculation implements the tax liability engine: taxable base
// derivation, flat and progressive bracket tax, contribution scheme parameter
// resolution and the year summary assembler. Everything here is synchronous
// and pure; collaborators are consumed through the ports interfaces and no
// state is written anywhere.
package calculation

import (
	"github.com/shopspring/decimal"

	"pivatax/internal/domain"
)

var oneHundred = decimal.NewFromInt(100)

// roundMoney rounds a monetary amount to 2 decimal places, half-up.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// TaxableBaseCalculator derives the taxable income base from yearly totals,
// the regime configuration and the previous year's paid contributions.
type TaxableBaseCalculator struct{}

// NewTaxableBaseCalculator creates a new taxable base calculator.
func NewTaxableBaseCalculator() *TaxableBaseCalculator {
	return &TaxableBaseCalculator{}
}

// Calculate returns the taxable base for one year.
//
//	simplified: totalIncome * profitabilityRate/100 - previousYearContributions
//	standard:   totalIncome - totalDeductibleCosts - previousYearContributions
//
// The result is clamped to a floor of 0: a negative taxable base is not
// meaningful, so the deduction simply zeroes the base out. A missing regime
// or missing regime-specific field fails with ValidationErrors carrying the
// offending field.
func (tb *TaxableBaseCalculator) Calculate(totalIncome, totalDeductibleCosts, previousYearContributions decimal.Decimal, regime domain.RegimeConfig) (decimal.Decimal, error) {
	if errs := domain.ValidateRegimeConfig(regime); len(errs) > 0 {
		return decimal.Zero, errs
	}

	var base decimal.Decimal
	switch regime.TaxRegime {
	case domain.RegimeSimplified:
		base = totalIncome.Mul(*regime.ProfitabilityRate).Div(oneHundred).Sub(previousYearContributions)
	case domain.RegimeStandard:
		base = totalIncome.Sub(totalDeductibleCosts).Sub(previousYearContributions)
	}

	if base.IsNegative() {
		base = decimal.Zero
	}
	return roundMoney(base), nil
}
