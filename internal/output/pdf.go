package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"pivatax/internal/domain"
)

// PDFFormatter renders a one-page year summary suitable for handing to an
// accountant. fpdf's core fonts are cp1252-only, so amounts use "EUR" rather
// than the euro sign.
type PDFFormatter struct{}

func (f *PDFFormatter) Name() string { return "pdf" }

func (f *PDFFormatter) Format(r *domain.TaxCalculationResult) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	marginL, marginT, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	// Header bar
	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW-4, 7, fmt.Sprintf("TAX AND CONTRIBUTION SUMMARY  -  %d", r.Year), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	y := marginT + 14
	pdf.SetXY(marginL, y)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Fiscal regime: "+strings.ToUpper(string(r.TaxRegime)), "", 1, "L", false, 0, "")
	y += 9

	rows := []struct {
		label string
		value string
	}{
		{"Total income", pdfAmount(r.TotalIncome.StringFixed(2))},
		{"Total costs", pdfAmount(r.TotalCosts.StringFixed(2))},
		{"Taxable income", pdfAmount(r.TaxableIncome.StringFixed(2))},
		{"Tax due", pdfAmount(r.TaxDue.StringFixed(2))},
		{"Contributions due", pdfAmount(r.ContributionsDue.StringFixed(2))},
		{"Total taxes", pdfAmount(r.TotalTaxes.StringFixed(2))},
		{"Effective rate", r.EffectiveRate.StringFixed(2) + " %"},
	}

	colLabel := contentW * 0.6
	colValue := contentW - colLabel
	for i, row := range rows {
		pdf.SetXY(marginL, y)
		fill := i%2 == 0
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(colLabel, 8, row.label, "1", 0, "L", fill, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(colValue, 8, row.value, "1", 1, "R", fill, 0, "")
		y += 8
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pdfAmount(s string) string { return "EUR " + s }
