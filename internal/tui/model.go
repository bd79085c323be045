// Package tui is an interactive what-if calculator: edit the year's totals
// and rates, toggle the regime, and watch the liability recompute live.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"pivatax/internal/calculation"
	"pivatax/internal/config"
	"pivatax/internal/domain"
)

// Input field indices.
const (
	fieldIncome = iota
	fieldCosts
	fieldCarry
	fieldProfitability
	fieldSubstitute
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Total income",
	"Deductible costs",
	"Previous year contributions",
	"Profitability rate %",
	"Substitute rate %",
}

// Model is the whole TUI state: one scene, a column of inputs and a result
// panel that recomputes on every accepted keystroke.
type Model struct {
	year    int
	regime  domain.TaxRegime
	pension domain.PensionSchemeConfig
	catalog *config.Catalog

	inputs [fieldCount]textinput.Model
	focus  int

	result *domain.TaxCalculationResult
	err    error

	width  int
	height int
}

// NewModel builds the initial model over a reference catalog. The pension
// configuration is fixed for the session; the fiscal inputs are editable.
func NewModel(year int, pension domain.PensionSchemeConfig, catalog *config.Catalog) Model {
	m := Model{
		year:    year,
		regime:  domain.RegimeSimplified,
		pension: pension,
		catalog: catalog,
	}
	defaults := [fieldCount]string{"0", "0", "0", "78", "5"}
	for i := 0; i < fieldCount; i++ {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 12
		in.Width = 14
		in.SetValue(defaults[i])
		m.inputs[i] = in
	}
	m.inputs[0].Focus()
	m.recalculate()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// recalculate recomputes the summary from the current field values. A field
// that does not parse leaves the previous result on screen with the error
// line set.
func (m *Model) recalculate() {
	values := [fieldCount]decimal.Decimal{}
	for i := range m.inputs {
		v := m.inputs[i].Value()
		if v == "" {
			v = "0"
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			m.err = &domain.ValidationError{Field: fieldLabels[i], Message: "not a number"}
			return
		}
		values[i] = d
	}

	regimeCfg := domain.RegimeConfig{TaxRegime: m.regime}
	if m.regime == domain.RegimeSimplified {
		sub, prof := values[fieldSubstitute], values[fieldProfitability]
		regimeCfg.SubstituteRate = &sub
		regimeCfg.ProfitabilityRate = &prof
	}

	base, err := calculation.NewTaxableBaseCalculator().
		Calculate(values[fieldIncome], values[fieldCosts], values[fieldCarry], regimeCfg)
	if err != nil {
		m.err = err
		return
	}

	var taxDue decimal.Decimal
	if m.regime == domain.RegimeSimplified {
		taxDue = calculation.FlatTax(base, values[fieldSubstitute])
	} else {
		brackets, err := m.catalog.IrpefBrackets(m.year)
		if err != nil {
			m.err = err
			return
		}
		btc, err := calculation.NewBracketTaxCalculator(m.year, brackets)
		if err != nil {
			m.err = err
			return
		}
		taxDue = btc.Progressive(base)
	}

	params, err := calculation.NewSchemeParameterResolver(m.catalog).Resolve(m.pension, m.year)
	if err != nil {
		m.err = err
		return
	}
	contributions := calculation.NewContributionCalculator().Calculate(base, *params)

	totalTaxes := taxDue.Add(contributions)
	effective := decimal.Zero
	if values[fieldIncome].GreaterThan(decimal.Zero) {
		effective = totalTaxes.Div(values[fieldIncome]).Mul(decimal.NewFromInt(100)).Round(2)
	}

	m.err = nil
	m.result = &domain.TaxCalculationResult{
		Year:             m.year,
		TaxRegime:        m.regime,
		TotalIncome:      values[fieldIncome],
		TotalCosts:       values[fieldCosts],
		TaxableIncome:    base,
		TaxDue:           taxDue,
		ContributionsDue: contributions,
		TotalTaxes:       totalTaxes,
		EffectiveRate:    effective,
	}
}
