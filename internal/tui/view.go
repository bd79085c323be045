package tui

import (
	"fmt"
	"strings"

	"pivatax/internal/domain"
	"pivatax/internal/output"
)

// View renders the input column and the live result panel.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("pivatax what-if %d", m.year)))
	b.WriteString("\n")
	b.WriteString(regimeStyle.Render("regime: " + string(m.regime)))
	b.WriteString("\n\n")

	for i := 0; i < fieldCount; i++ {
		if m.regime == domain.RegimeStandard && (i == fieldProfitability || i == fieldSubstitute) {
			continue
		}
		label := labelStyle
		if i == m.focus {
			label = focusedLabelStyle
		}
		b.WriteString(label.Render(fieldLabels[i]))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("! " + m.err.Error()))
		b.WriteString("\n")
	} else if m.result != nil {
		b.WriteString(panelStyle.Render(m.resultLines()))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("tab/↑↓ move · r toggle regime · q quit"))
	return b.String()
}

func (m Model) resultLines() string {
	r := m.result
	rows := []struct {
		label string
		value string
	}{
		{"Taxable income", output.FormatCurrency(r.TaxableIncome)},
		{"Tax due", output.FormatCurrency(r.TaxDue)},
		{"Contributions due", output.FormatCurrency(r.ContributionsDue)},
		{"Total taxes", output.FormatCurrency(r.TotalTaxes)},
		{"Effective rate", output.FormatPercent(r.EffectiveRate)},
	}
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(resultLabelStyle.Render(row.label))
		b.WriteString(resultValueStyle.Render(row.value))
	}
	return b.String()
}
