package calculation

import (
	"github.com/shopspring/decimal"

	"pivatax/internal/domain"
)

// BracketTaxCalculator computes the tax due on a taxable base: a flat
// substitute-rate tax under the simplified regime, a progressive IRPEF
// bracket tax under the standard regime.
type BracketTaxCalculator struct {
	year     int
	brackets []domain.IrpefBracket // active, ascending by lower bound
}

// NewBracketTaxCalculator validates the year's bracket set as a complete,
// non-overlapping partition of [0, inf) and returns a calculator over it.
// A broken set fails with *domain.BracketConfigurationError before any
// arithmetic runs.
func NewBracketTaxCalculator(year int, brackets []domain.IrpefBracket) (*BracketTaxCalculator, error) {
	if err := domain.ValidateBrackets(year, brackets); err != nil {
		return nil, err
	}
	return &BracketTaxCalculator{year: year, brackets: domain.ActiveBrackets(brackets)}, nil
}

// Progressive computes the standard-regime tax: for each bracket, the portion
// of the base lying within [lowerBound, min(upperBound, base)) is taxed at
// the bracket's rate; the open-ended top bracket absorbs the remainder.
// Rounded to 2 decimals, half-up.
func (c *BracketTaxCalculator) Progressive(taxableBase decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	for _, b := range c.brackets {
		if taxableBase.LessThanOrEqual(b.LowerBound) {
			break
		}
		top := taxableBase
		if b.UpperBound != nil {
			top = decimal.Min(taxableBase, *b.UpperBound)
		}
		portion := top.Sub(b.LowerBound)
		if portion.GreaterThan(decimal.Zero) {
			tax = tax.Add(portion.Mul(b.Rate).Div(oneHundred))
		}
	}
	return roundMoney(tax)
}

// FlatTax computes the simplified-regime substitute tax:
// taxableBase * substituteRate/100, rounded to 2 decimals half-up.
func FlatTax(taxableBase, substituteRate decimal.Decimal) decimal.Decimal {
	return roundMoney(taxableBase.Mul(substituteRate).Div(oneHundred))
}
