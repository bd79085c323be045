package calculation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"pivatax/internal/domain"
	"pivatax/internal/ports"
)

// Logger is the minimal logging surface the engine emits debug detail on.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// CalculationEngine assembles one consistent tax summary per (user, year).
// Every call recomputes fully from the collaborators; nothing is cached, so
// the result can never drift from the underlying ledger and configuration.
type CalculationEngine struct {
	Ledger       ports.Ledger
	Settings     ports.SettingsStore
	Reference    ports.ReferenceDataStore
	CarryForward ports.CarryForwardStore

	baseCalc    *TaxableBaseCalculator
	resolver    *SchemeParameterResolver
	contribCalc *ContributionCalculator

	Debug  bool
	logger Logger
}

// NewCalculationEngine creates an engine over the four collaborators.
func NewCalculationEngine(ledger ports.Ledger, settings ports.SettingsStore, ref ports.ReferenceDataStore, carry ports.CarryForwardStore) *CalculationEngine {
	return &CalculationEngine{
		Ledger:       ledger,
		Settings:     settings,
		Reference:    ref,
		CarryForward: carry,
		baseCalc:     NewTaxableBaseCalculator(),
		resolver:     NewSchemeParameterResolver(ref),
		contribCalc:  NewContributionCalculator(),
	}
}

// SetLogger enables debug logging of intermediate figures.
func (ce *CalculationEngine) SetLogger(l Logger) { ce.logger = l }

func (ce *CalculationEngine) debugf(format string, args ...any) {
	if ce.Debug && ce.logger != nil {
		ce.logger.Debugf(format, args...)
	}
}

// Calculate computes the full tax summary for one user and year: ledger
// totals feed the taxable base, which feeds the bracket tax and the resolved
// contribution scheme, assembled into a TaxCalculationResult.
func (ce *CalculationEngine) Calculate(ctx context.Context, userID string, year int) (*domain.TaxCalculationResult, error) {
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
	// The contributions paid for year-1 are this year's deduction.
	prev, err := ce.CarryForward.PreviousYearContribution(ctx, userID, year-1)
	if err != nil {
		return nil, fmt.Errorf("loading previous year contributions for %s/%d: %w", userID, year-1, err)
	}

	return ce.compute(record, *regime, *pension, prev, year)
}

// compute is the pure core shared by Calculate and CompareRegimes.
func (ce *CalculationEngine) compute(record *domain.FiscalYearRecord, regime domain.RegimeConfig, pension domain.PensionSchemeConfig, previousContributions decimal.Decimal, year int) (*domain.TaxCalculationResult, error) {
	totalIncome := record.TotalIncome()
	totalCosts := record.TotalCosts()
	deductible := record.TotalDeductibleCosts()

	base, err := ce.baseCalc.Calculate(totalIncome, deductible, previousContributions, regime)
	if err != nil {
		return nil, err
	}
	ce.debugf("year %d: income=%s deductible=%s carry=%s base=%s", year, totalIncome, deductible, previousContributions, base)

	var taxDue decimal.Decimal
	switch regime.TaxRegime {
	case domain.RegimeSimplified:
		taxDue = FlatTax(base, *regime.SubstituteRate)
	case domain.RegimeStandard:
		brackets, err := ce.Reference.IrpefBrackets(year)
		if err != nil {
			return nil, err
		}
		btc, err := NewBracketTaxCalculator(year, brackets)
		if err != nil {
			return nil, err
		}
		taxDue = btc.Progressive(base)
	}

	params, err := ce.resolver.Resolve(pension, year)
	if err != nil {
		return nil, err
	}
	contributions := ce.contribCalc.Calculate(base, *params)
	ce.debugf("year %d: tax=%s contributions=%s (rate=%s min=%s fixed=%s)",
		year, taxDue, contributions, params.Rate, params.MinimumContribution, params.FixedAnnualContributions)

	totalTaxes := taxDue.Add(contributions)
	effectiveRate := decimal.Zero
	if totalIncome.GreaterThan(decimal.Zero) {
		effectiveRate = totalTaxes.Div(totalIncome).Mul(oneHundred).Round(2)
	}

	return &domain.TaxCalculationResult{
		Year:             year,
		TaxRegime:        regime.TaxRegime,
		TotalIncome:      totalIncome,
		TotalCosts:       totalCosts,
		TaxableIncome:    base,
		TaxDue:           taxDue,
		ContributionsDue: contributions,
		TotalTaxes:       totalTaxes,
		EffectiveRate:    effectiveRate,
	}, nil
}

// ValidatePensionConfig runs both the field-level and the catalog-dependent
// checks on a pension configuration.
func (ce *CalculationEngine) ValidatePensionConfig(cfg domain.PensionSchemeConfig) error {
	if errs := domain.ValidatePensionConfig(cfg); len(errs) > 0 {
		return errs
	}
	return ce.resolver.ValidateConfig(cfg)
}
