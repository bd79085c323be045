package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRegimeTransitionClearsSimplifiedFields(t *testing.T) {
	cfg := RegimeConfig{
		TaxRegime:         RegimeSimplified,
		SubstituteRate:    decPtr("25"),
		ProfitabilityRate: decPtr("67"),
	}

	next := cfg.TransitionTo(RegimeStandard)

	assert.Equal(t, RegimeStandard, next.TaxRegime)
	assert.Nil(t, next.SubstituteRate)
	assert.Nil(t, next.ProfitabilityRate)
}

func TestRegimeTransitionDefaultsSimplifiedFields(t *testing.T) {
	cfg := RegimeConfig{TaxRegime: RegimeStandard}

	next := cfg.TransitionTo(RegimeSimplified)

	assert.Equal(t, RegimeSimplified, next.TaxRegime)
	require.NotNil(t, next.SubstituteRate)
	require.NotNil(t, next.ProfitabilityRate)
	assert.True(t, next.SubstituteRate.Equal(decimal.NewFromInt(5)))
	assert.True(t, next.ProfitabilityRate.Equal(decimal.NewFromInt(78)))
}

func TestRegimeTransitionKeepsExplicitRates(t *testing.T) {
	// A standard config that still carries rates (should not happen after
	// validation, but the transition must not overwrite explicit values).
	cfg := RegimeConfig{
		TaxRegime:         RegimeStandard,
		SubstituteRate:    decPtr("25"),
		ProfitabilityRate: decPtr("40"),
	}

	next := cfg.TransitionTo(RegimeSimplified)

	assert.True(t, next.SubstituteRate.Equal(decimal.NewFromInt(25)))
	assert.True(t, next.ProfitabilityRate.Equal(decimal.NewFromInt(40)))
}

func TestRegimeTransitionNoOp(t *testing.T) {
	cfg := RegimeConfig{TaxRegime: RegimeSimplified, SubstituteRate: decPtr("5"), ProfitabilityRate: decPtr("78")}
	assert.Equal(t, cfg, cfg.TransitionTo(RegimeSimplified))
}

func TestPensionTransition(t *testing.T) {
	public := PensionSchemeConfig{
		PensionSystem: SystemPublic,
		INPSRateType:  INPSRateProfessional,
	}

	guild := public.TransitionTo(SystemGuildFund)
	assert.Equal(t, SystemGuildFund, guild.PensionSystem)
	assert.Empty(t, guild.INPSRateType)

	guild.GuildFundID = "INARCASSA"
	guild.ManualContributionRate = decPtr("15")

	back := guild.TransitionTo(SystemPublic)
	assert.Equal(t, SystemPublic, back.PensionSystem)
	assert.Empty(t, back.GuildFundID)
	assert.Nil(t, back.ManualContributionRate)
	assert.Nil(t, back.ManualMinimumContribution)
	assert.Nil(t, back.ManualFixedAnnualContributions)
}

func TestValidateRegimeConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       RegimeConfig
		wantField string // empty means valid
	}{
		{
			name: "valid simplified",
			cfg:  RegimeConfig{TaxRegime: RegimeSimplified, SubstituteRate: decPtr("5"), ProfitabilityRate: decPtr("78")},
		},
		{
			name: "valid simplified startup rate",
			cfg:  RegimeConfig{TaxRegime: RegimeSimplified, SubstituteRate: decPtr("25"), ProfitabilityRate: decPtr("40")},
		},
		{
			name: "valid standard",
			cfg:  RegimeConfig{TaxRegime: RegimeStandard},
		},
		{
			name:      "substitute rate not in {5,25}",
			cfg:       RegimeConfig{TaxRegime: RegimeSimplified, SubstituteRate: decPtr("10"), ProfitabilityRate: decPtr("78")},
			wantField: "substituteRate",
		},
		{
			name:      "profitability rate above 100",
			cfg:       RegimeConfig{TaxRegime: RegimeSimplified, SubstituteRate: decPtr("5"), ProfitabilityRate: decPtr("101")},
			wantField: "profitabilityRate",
		},
		{
			name:      "missing substitute rate",
			cfg:       RegimeConfig{TaxRegime: RegimeSimplified, ProfitabilityRate: decPtr("78")},
			wantField: "substituteRate",
		},
		{
			name:      "rates on standard regime",
			cfg:       RegimeConfig{TaxRegime: RegimeStandard, SubstituteRate: decPtr("5")},
			wantField: "substituteRate",
		},
		{
			name:      "missing regime",
			cfg:       RegimeConfig{},
			wantField: "taxRegime",
		},
		{
			name:      "unknown regime",
			cfg:       RegimeConfig{TaxRegime: "flat"},
			wantField: "taxRegime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRegimeConfig(tt.cfg)
			if tt.wantField == "" {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.wantField, errs[0].Field)
		})
	}
}

func TestValidatePensionConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       PensionSchemeConfig
		wantField string
	}{
		{
			name: "valid public",
			cfg:  PensionSchemeConfig{PensionSystem: SystemPublic, INPSRateType: INPSRateProfessional},
		},
		{
			name: "valid guild fund with overrides",
			cfg: PensionSchemeConfig{
				PensionSystem:          SystemGuildFund,
				GuildFundID:            "INARCASSA",
				ManualContributionRate: decPtr("15"),
			},
		},
		{
			name:      "public missing tier",
			cfg:       PensionSchemeConfig{PensionSystem: SystemPublic},
			wantField: "inpsRateType",
		},
		{
			name:      "public with fund id",
			cfg:       PensionSchemeConfig{PensionSystem: SystemPublic, INPSRateType: INPSRateProfessional, GuildFundID: "INARCASSA"},
			wantField: "guildFundId",
		},
		{
			name:      "public with manual override",
			cfg:       PensionSchemeConfig{PensionSystem: SystemPublic, INPSRateType: INPSRateProfessional, ManualContributionRate: decPtr("15")},
			wantField: "manualContributionRate",
		},
		{
			name:      "guild fund missing id",
			cfg:       PensionSchemeConfig{PensionSystem: SystemGuildFund},
			wantField: "guildFundId",
		},
		{
			name:      "guild fund manual rate out of range",
			cfg:       PensionSchemeConfig{PensionSystem: SystemGuildFund, GuildFundID: "INARCASSA", ManualContributionRate: decPtr("120")},
			wantField: "manualContributionRate",
		},
		{
			name:      "missing system",
			cfg:       PensionSchemeConfig{},
			wantField: "pensionSystem",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidatePensionConfig(tt.cfg)
			if tt.wantField == "" {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.wantField, errs[0].Field)
		})
	}
}
