package config

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"pivatax/internal/domain"
)

// Profile is a self-contained YAML input for offline runs: one user's ledger,
// regime and pension configuration, and contributions paid in earlier years.
// It implements the engine's Ledger, SettingsStore and CarryForwardStore
// ports in memory, so no database is needed for a CLI calculation.
type Profile struct {
	UserID  string                     `yaml:"user_id"`
	Year    int                        `yaml:"year"`
	Regime  domain.RegimeConfig        `yaml:"regime"`
	Pension domain.PensionSchemeConfig `yaml:"pension"`
	Incomes []domain.IncomeEntry       `yaml:"incomes"`
	Costs   []domain.CostEntry         `yaml:"costs"`

	// Contributions paid per year; the entry for year-1 feeds the base.
	PreviousYearContributions map[int]decimal.Decimal `yaml:"previous_year_contributions"`
}

// LoadProfile reads and validates a profile file.
func LoadProfile(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}
	if p.UserID == "" {
		p.UserID = "local"
	}
	return &p, nil
}

// Validate runs the field-level checks on the embedded configurations.
func (p *Profile) Validate() error {
	if p.Year == 0 {
		return fmt.Errorf("year is required")
	}
	if errs := domain.ValidateRegimeConfig(p.Regime); len(errs) > 0 {
		return fmt.Errorf("regime: %w", errs)
	}
	if errs := domain.ValidatePensionConfig(p.Pension); len(errs) > 0 {
		return fmt.Errorf("pension: %w", errs)
	}
	for i, e := range p.Incomes {
		if e.Amount.IsNegative() {
			return fmt.Errorf("income %d: amount cannot be negative", i)
		}
	}
	for i, c := range p.Costs {
		if c.Amount.IsNegative() {
			return fmt.Errorf("cost %d: amount cannot be negative", i)
		}
	}
	return nil
}

// FiscalYear returns the profile's ledger, filtered to the requested year
// when entry dates are set.
func (p *Profile) FiscalYear(_ context.Context, _ string, year int) (*domain.FiscalYearRecord, error) {
	rec := &domain.FiscalYearRecord{UserID: p.UserID, Year: year}
	for _, e := range p.Incomes {
		if e.Date.IsZero() || e.Date.Year() == year {
			rec.Incomes = append(rec.Incomes, e)
		}
	}
	for _, c := range p.Costs {
		if c.Date.IsZero() || c.Date.Year() == year {
			rec.Costs = append(rec.Costs, c)
		}
	}
	return rec, nil
}

// AddIncome appends an income entry to the in-memory ledger.
func (p *Profile) AddIncome(_ context.Context, _ string, _ int, e *domain.IncomeEntry) error {
	p.Incomes = append(p.Incomes, *e)
	return nil
}

// AddCost appends a cost entry to the in-memory ledger.
func (p *Profile) AddCost(_ context.Context, _ string, _ int, e *domain.CostEntry) error {
	p.Costs = append(p.Costs, *e)
	return nil
}

// DeleteIncome removes an income entry by id.
func (p *Profile) DeleteIncome(_ context.Context, _ string, entryID string) error {
	for i := range p.Incomes {
		if p.Incomes[i].ID == entryID {
			p.Incomes = append(p.Incomes[:i], p.Incomes[i+1:]...)
			return nil
		}
	}
	return &domain.NotFoundError{Kind: "income entry", Key: entryID}
}

// DeleteCost removes a cost entry by id.
func (p *Profile) DeleteCost(_ context.Context, _ string, entryID string) error {
	for i := range p.Costs {
		if p.Costs[i].ID == entryID {
			p.Costs = append(p.Costs[:i], p.Costs[i+1:]...)
			return nil
		}
	}
	return &domain.NotFoundError{Kind: "cost entry", Key: entryID}
}

// RegimeConfig returns the profile's regime configuration.
func (p *Profile) RegimeConfig(_ context.Context, _ string) (*domain.RegimeConfig, error) {
	c := p.Regime
	return &c, nil
}

// SaveRegimeConfig replaces the profile's regime configuration.
func (p *Profile) SaveRegimeConfig(_ context.Context, _ string, c domain.RegimeConfig) error {
	p.Regime = c
	return nil
}

// PensionConfig returns the profile's pension configuration.
func (p *Profile) PensionConfig(_ context.Context, _ string) (*domain.PensionSchemeConfig, error) {
	c := p.Pension
	return &c, nil
}

// SavePensionConfig replaces the profile's pension configuration.
func (p *Profile) SavePensionConfig(_ context.Context, _ string, c domain.PensionSchemeConfig) error {
	p.Pension = c
	return nil
}

// PreviousYearContribution returns the contributions recorded for a year,
// zero when none were recorded.
func (p *Profile) PreviousYearContribution(_ context.Context, _ string, year int) (decimal.Decimal, error) {
	if amount, ok := p.PreviousYearContributions[year]; ok {
		return amount, nil
	}
	return decimal.Zero, nil
}

// UpsertPreviousYearContribution records the contributions paid for a year.
func (p *Profile) UpsertPreviousYearContribution(_ context.Context, _ string, year int, amount decimal.Decimal) error {
	if p.PreviousYearContributions == nil {
		p.PreviousYearContributions = map[int]decimal.Decimal{}
	}
	p.PreviousYearContributions[year] = amount
	return nil
}
