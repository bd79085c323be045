// Package domain holds the plain data types the calculation engine operates
// on: yearly ledger records, regime and pension scheme configurations,
// reference data (IRPEF brackets, contribution scheme catalogs) and the
// derived tax summary. All monetary amounts and rates are decimal.Decimal;
// rates are percentages in [0, 100] with up to two fractional digits.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeEntry is a single invoice or receipt recorded for a fiscal year.
type IncomeEntry struct {
	ID          string          `yaml:"id,omitempty" json:"id,omitempty"`
	Amount      decimal.Decimal `yaml:"amount" json:"amount"`
	Date        time.Time       `yaml:"date" json:"date"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
}

// CostEntry is a single cost recorded for a fiscal year. Only deductible
// costs reduce the taxable base, and only under the standard regime.
type CostEntry struct {
	ID          string          `yaml:"id,omitempty" json:"id,omitempty"`
	Amount      decimal.Decimal `yaml:"amount" json:"amount"`
	Date        time.Time       `yaml:"date" json:"date"`
	Deductible  bool            `yaml:"deductible" json:"deductible"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
}

// FiscalYearRecord is one user's ledger for one fiscal year.
type FiscalYearRecord struct {
	UserID  string        `yaml:"user_id,omitempty" json:"userId,omitempty"`
	Year    int           `yaml:"year" json:"year"`
	Incomes []IncomeEntry `yaml:"incomes" json:"incomes"`
	Costs   []CostEntry   `yaml:"costs" json:"costs"`
}

// TotalIncome sums all income entries.
func (r *FiscalYearRecord) TotalIncome() decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.Incomes {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalCosts sums all cost entries, deductible or not.
func (r *FiscalYearRecord) TotalCosts() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Costs {
		total = total.Add(c.Amount)
	}
	return total
}

// TotalDeductibleCosts sums the cost entries flagged deductible.
func (r *FiscalYearRecord) TotalDeductibleCosts() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Costs {
		if c.Deductible {
			total = total.Add(c.Amount)
		}
	}
	return total
}

// PreviousYearContribution records the contributions actually paid for a
// year. The amount stored against year Y-1 is the deduction consumed when
// computing year Y's taxable base.
type PreviousYearContribution struct {
	UserID string          `yaml:"user_id,omitempty" json:"userId,omitempty"`
	Year   int             `yaml:"year" json:"year"`
	Amount decimal.Decimal `yaml:"amount" json:"amount"`
}

// TaxCalculationResult is the derived summary for one user and year. It is
// never persisted; every read recomputes it from the source data.
type TaxCalculationResult struct {
	Year             int             `json:"year"`
	TaxRegime        TaxRegime       `json:"taxRegime"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalCosts       decimal.Decimal `json:"totalCosts"`
	TaxableIncome    decimal.Decimal `json:"taxableIncome"`
	TaxDue           decimal.Decimal `json:"taxDue"`
	ContributionsDue decimal.Decimal `json:"contributionsDue"`
	TotalTaxes       decimal.Decimal `json:"totalTaxes"`
	EffectiveRate    decimal.Decimal `json:"effectiveRate"`
}
