package calculation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"pivatax/internal/domain"
)

// RegimeComparison holds the same fiscal year computed under both regimes,
// so a taxpayer can see which election is cheaper before switching.
type RegimeComparison struct {
	Year       int                          `json:"year"`
	Current    domain.TaxRegime             `json:"current"`
	Simplified *domain.TaxCalculationResult `json:"simplified"`
	Standard   *domain.TaxCalculationResult `json:"standard"`
	Cheaper    domain.TaxRegime             `json:"cheaper"`
	Saving     decimal.Decimal              `json:"saving"`
}

// CompareRegimes recomputes one (user, year) under both regimes. The side
// matching the user's current election keeps its configured rates; the other
// side is derived through the regime transition function, so the simplified
// leg of a standard-regime user runs on the default substitute and
// profitability rates.
func (ce *CalculationEngine) CompareRegimes(ctx context.Context, userID string, year int) (*RegimeComparison, error) {
	record, err := ce.Ledger.FiscalYear(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("loading ledger for %s/%d: %w", userID, year, err)
	}
	regime, err := ce.Settings.RegimeConfig(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading regime config for %s: %w", userID, err)
	}
	pension, err := ce.Settings.PensionConfig(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading pension config for %s: %w", userID, err)
	}
	prev, err := ce.CarryForward.PreviousYearContribution(ctx, userID, year-1)
	if err != nil {
		return nil, fmt.Errorf("loading previous year contributions for %s/%d: %w", userID, year-1, err)
	}

	simplifiedCfg := regime.TransitionTo(domain.RegimeSimplified)
	standardCfg := regime.TransitionTo(domain.RegimeStandard)

	simplified, err := ce.compute(record, simplifiedCfg, *pension, prev, year)
	if err != nil {
		return nil, fmt.Errorf("simplified leg: %w", err)
	}
	standard, err := ce.compute(record, standardCfg, *pension, prev, year)
	if err != nil {
		return nil, fmt.Errorf("standard leg: %w", err)
	}

	cmp := &RegimeComparison{
		Year:       year,
		Current:    regime.TaxRegime,
		Simplified: simplified,
		Standard:   standard,
	}
	if simplified.TotalTaxes.LessThanOrEqual(standard.TotalTaxes) {
		cmp.Cheaper = domain.RegimeSimplified
		cmp.Saving = standard.TotalTaxes.Sub(simplified.TotalTaxes)
	} else {
		cmp.Cheaper = domain.RegimeStandard
		cmp.Saving = simplified.TotalTaxes.Sub(standard.TotalTaxes)
	}
	return cmp, nil
}
