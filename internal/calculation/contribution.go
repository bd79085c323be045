package calculation

import (
	"github.com/shopspring/decimal"

	"pivatax/internal/domain"
)

// ContributionCalculator applies resolved scheme parameters to a taxable base.
type ContributionCalculator struct{}

// NewContributionCalculator creates a new contribution calculator.
func NewContributionCalculator() *ContributionCalculator {
	return &ContributionCalculator{}
}

// Calculate computes the contribution due:
//
//	max(taxableBase * rate/100, minimumContribution) + fixedAnnualContributions
//
// The statutory floor applies only to the rate-based portion; the fixed
// surcharge is additive and never floored. Rounded to 2 decimals, half-up.
func (cc *ContributionCalculator) Calculate(taxableBase decimal.Decimal, params domain.ContributionParams) decimal.Decimal {
	rated := taxableBase.Mul(params.Rate).Div(oneHundred)
	if rated.LessThan(params.MinimumContribution) {
		rated = params.MinimumContribution
	}
	return roundMoney(rated.Add(params.FixedAnnualContributions))
}
