package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"pivatax/internal/domain"
)

// CSVFormatter renders the summary as a two-row CSV (header + values).
type CSVFormatter struct{}

func (f *CSVFormatter) Name() string { return "csv" }

func (f *CSVFormatter) Format(r *domain.TaxCalculationResult) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	records := [][]string{
		{"year", "tax_regime", "total_income", "total_costs", "taxable_income", "tax_due", "contributions_due", "total_taxes", "effective_rate"},
		{
			strconv.Itoa(r.Year),
			string(r.TaxRegime),
			r.TotalIncome.StringFixed(2),
			r.TotalCosts.StringFixed(2),
			r.TaxableIncome.StringFixed(2),
			r.TaxDue.StringFixed(2),
			r.ContributionsDue.StringFixed(2),
			r.TotalTaxes.StringFixed(2),
			r.EffectiveRate.StringFixed(2),
		},
	}
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	w.Flush()
	return b.Bytes(), w.Error()
}
