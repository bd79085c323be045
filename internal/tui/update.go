package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"pivatax/internal/domain"
)

// Update handles all messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "tab", "down", "enter":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil

		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil

		case "r":
			// Regime toggle runs through the transition function, so the
			// rate fields default or clear exactly like a real switch.
			m.toggleRegime()
			m.recalculate()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.recalculate()
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m *Model) toggleRegime() {
	target := domain.RegimeStandard
	if m.regime == domain.RegimeStandard {
		target = domain.RegimeSimplified
	}
	cfg := domain.RegimeConfig{TaxRegime: m.regime}.TransitionTo(target)
	m.regime = cfg.TaxRegime
	if cfg.SubstituteRate != nil {
		m.inputs[fieldSubstitute].SetValue(cfg.SubstituteRate.String())
	}
	if cfg.ProfitabilityRate != nil {
		m.inputs[fieldProfitability].SetValue(cfg.ProfitabilityRate.String())
	}
}
