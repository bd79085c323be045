package output

import (
	"bytes"
	"fmt"

	"pivatax/internal/calculation"
	"pivatax/internal/domain"
)

// ConsoleFormatter renders a plain-text summary table.
type ConsoleFormatter struct{}

func (f *ConsoleFormatter) Name() string { return "console" }

func (f *ConsoleFormatter) Format(r *domain.TaxCalculationResult) ([]byte, error) {
	var b bytes.Buffer
	rule := "==========================================="
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "TAX SUMMARY %d (%s regime)\n", r.Year, r.TaxRegime)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "%-24s %18s\n", "Total income:", FormatCurrency(r.TotalIncome))
	fmt.Fprintf(&b, "%-24s %18s\n", "Total costs:", FormatCurrency(r.TotalCosts))
	fmt.Fprintf(&b, "%-24s %18s\n", "Taxable income:", FormatCurrency(r.TaxableIncome))
	fmt.Fprintf(&b, "%-24s %18s\n", "Tax due:", FormatCurrency(r.TaxDue))
	fmt.Fprintf(&b, "%-24s %18s\n", "Contributions due:", FormatCurrency(r.ContributionsDue))
	fmt.Fprintf(&b, "%-24s %18s\n", "Total taxes:", FormatCurrency(r.TotalTaxes))
	fmt.Fprintf(&b, "%-24s %18s\n", "Effective rate:", FormatPercent(r.EffectiveRate))
	return b.Bytes(), nil
}

// FormatComparison renders a side-by-side regime comparison table.
func FormatComparison(c *calculation.RegimeComparison) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "REGIME COMPARISON %d (current: %s)\n\n", c.Year, c.Current)
	fmt.Fprintf(&b, "%-24s %18s %18s\n", "", "simplified", "standard")
	row := func(label string, s, t string) {
		fmt.Fprintf(&b, "%-24s %18s %18s\n", label, s, t)
	}
	row("Taxable income:", FormatCurrency(c.Simplified.TaxableIncome), FormatCurrency(c.Standard.TaxableIncome))
	row("Tax due:", FormatCurrency(c.Simplified.TaxDue), FormatCurrency(c.Standard.TaxDue))
	row("Contributions due:", FormatCurrency(c.Simplified.ContributionsDue), FormatCurrency(c.Standard.ContributionsDue))
	row("Total taxes:", FormatCurrency(c.Simplified.TotalTaxes), FormatCurrency(c.Standard.TotalTaxes))
	row("Effective rate:", FormatPercent(c.Simplified.EffectiveRate), FormatPercent(c.Standard.EffectiveRate))
	fmt.Fprintf(&b, "\nCheaper regime: %s (saves %s)\n", c.Cheaper, FormatCurrency(c.Saving))
	return b.Bytes()
}
