// Package output renders a TaxCalculationResult (or a regime comparison) as
// console text, JSON, CSV or PDF.
package output

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"pivatax/internal/domain"
)

// Formatter renders a single year summary.
type Formatter interface {
	Format(result *domain.TaxCalculationResult) ([]byte, error)
	Name() string
}

// GetFormatterByName returns the formatter registered under name, or nil.
func GetFormatterByName(name string) Formatter {
	switch strings.ToLower(name) {
	case "console", "table":
		return &ConsoleFormatter{}
	case "json":
		return &JSONFormatter{}
	case "csv":
		return &CSVFormatter{}
	case "pdf":
		return &PDFFormatter{}
	default:
		return nil
	}
}

// FormatCurrency renders a euro amount with thousands separators,
// e.g. 34200 -> "€34,200.00".
func FormatCurrency(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := "€" + strings.Join(groups, ",") + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}

// FormatPercent renders a percentage with two decimals, e.g. "26.07%".
func FormatPercent(d decimal.Decimal) string {
	return fmt.Sprintf("%s%%", d.StringFixed(2))
}
