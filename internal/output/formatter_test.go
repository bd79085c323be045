package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pivatax/internal/calculation"
	"pivatax/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleResult() *domain.TaxCalculationResult {
	return &domain.TaxCalculationResult{
		Year:             2025,
		TaxRegime:        domain.RegimeSimplified,
		TotalIncome:      dec("50000"),
		TotalCosts:       dec("1200"),
		TaxableIncome:    dec("34200"),
		TaxDue:           dec("1710"),
		ContributionsDue: dec("8915.94"),
		TotalTaxes:       dec("10625.94"),
		EffectiveRate:    dec("21.25"),
	}
}

func TestGetFormatterByName(t *testing.T) {
	assert.Equal(t, "console", GetFormatterByName("console").Name())
	assert.Equal(t, "console", GetFormatterByName("table").Name())
	assert.Equal(t, "json", GetFormatterByName("JSON").Name())
	assert.Equal(t, "csv", GetFormatterByName("csv").Name())
	assert.Equal(t, "pdf", GetFormatterByName("pdf").Name())
	assert.Nil(t, GetFormatterByName("xml"))
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "€0.00"},
		{"999", "€999.00"},
		{"1000", "€1,000.00"},
		{"34200", "€34,200.00"},
		{"1234567.89", "€1,234,567.89"},
		{"-4800.79", "-€4,800.79"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(dec(tt.in)), "input %s", tt.in)
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "26.07%", FormatPercent(dec("26.07")))
	assert.Equal(t, "5.00%", FormatPercent(dec("5")))
}

func TestConsoleFormatter(t *testing.T) {
	data, err := (&ConsoleFormatter{}).Format(sampleResult())
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "TAX SUMMARY 2025 (simplified regime)")
	assert.Contains(t, text, "€34,200.00")
	assert.Contains(t, text, "€8,915.94")
	assert.Contains(t, text, "21.25%")
}

func TestJSONFormatter(t *testing.T) {
	data, err := (&JSONFormatter{}).Format(sampleResult())
	require.NoError(t, err)

	var decoded domain.TaxCalculationResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2025, decoded.Year)
	assert.True(t, decoded.TaxableIncome.Equal(dec("34200")))
	assert.True(t, decoded.TotalTaxes.Equal(dec("10625.94")))
}

func TestCSVFormatter(t *testing.T) {
	data, err := (&CSVFormatter{}).Format(sampleResult())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "year", records[0][0])
	assert.Equal(t, "2025", records[1][0])
	assert.Equal(t, "simplified", records[1][1])
	assert.Equal(t, "34200.00", records[1][4])
	assert.Equal(t, "8915.94", records[1][6])
}

func TestPDFFormatter(t *testing.T) {
	data, err := (&PDFFormatter{}).Format(sampleResult())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output is a PDF document")
	assert.Greater(t, len(data), 500)
}

func TestFormatComparison(t *testing.T) {
	simplified := sampleResult()
	standard := sampleResult()
	standard.TaxRegime = domain.RegimeStandard
	standard.TaxableIncome = dec("45200")
	standard.TotalTaxes = dec("24243.64")

	text := string(FormatComparison(&calculation.RegimeComparison{
		Year:       2025,
		Current:    domain.RegimeSimplified,
		Simplified: simplified,
		Standard:   standard,
		Cheaper:    domain.RegimeSimplified,
		Saving:     dec("13617.70"),
	}))
	assert.Contains(t, text, "REGIME COMPARISON 2025")
	assert.Contains(t, text, "€45,200.00")
	assert.Contains(t, text, "Cheaper regime: simplified")
	assert.Contains(t, text, "€13,617.70")
}
