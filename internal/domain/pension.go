package domain

import "github.com/shopspring/decimal"

// PensionSystem selects the family of contribution schemes.
type PensionSystem string

const (
	// SystemPublic is the state-run Gestione Separata INPS, with discrete
	// contributor-type rate tiers.
	SystemPublic PensionSystem = "PUBLIC"
	// SystemGuildFund is a profession-specific pension fund ("cassa") with
	// its own rate, minimum and fixed surcharge, versioned by year.
	SystemGuildFund PensionSystem = "GUILD_FUND"
)

// INPSRateType identifies a Gestione Separata contributor tier.
type INPSRateType string

const (
	INPSRateProfessional      INPSRateType = "PROFESSIONAL"
	INPSRateProfessionalOther INPSRateType = "PROFESSIONAL_OTHER_COVERAGE"
	INPSRateCollaborator      INPSRateType = "COLLABORATOR"
	INPSRatePensioner         INPSRateType = "PENSIONER"
)

// PensionSchemeConfig is the singleton per-user pension scheme selection.
// INPSRateType is required iff the system is PUBLIC; GuildFundID iff
// GUILD_FUND. The three Manual* fields are independent per-field overrides of
// the fund's catalog parameters, meaningful only for guild funds whose
// AllowManualEdit flag is set.
type PensionSchemeConfig struct {
	PensionSystem PensionSystem `yaml:"pension_system" json:"pensionSystem"`

	INPSRateType INPSRateType `yaml:"inps_rate_type,omitempty" json:"inpsRateType,omitempty"`
	GuildFundID  string       `yaml:"guild_fund_id,omitempty" json:"guildFundId,omitempty"`

	ManualContributionRate         *decimal.Decimal `yaml:"manual_contribution_rate,omitempty" json:"manualContributionRate,omitempty"`
	ManualMinimumContribution      *decimal.Decimal `yaml:"manual_minimum_contribution,omitempty" json:"manualMinimumContribution,omitempty"`
	ManualFixedAnnualContributions *decimal.Decimal `yaml:"manual_fixed_annual_contributions,omitempty" json:"manualFixedAnnualContributions,omitempty"`
}

// TransitionTo returns the configuration after switching pension system,
// applying the transition table exhaustively:
//
//	PUBLIC -> GUILD_FUND: clear inpsRateType
//	GUILD_FUND -> PUBLIC: clear guildFundId and all manual overrides
//
// The caller must set the new system's identifying field afterwards; a no-op
// transition returns the receiver unchanged.
func (c PensionSchemeConfig) TransitionTo(target PensionSystem) PensionSchemeConfig {
	if c.PensionSystem == target {
		return c
	}
	next := PensionSchemeConfig{PensionSystem: target}
	switch target {
	case SystemGuildFund:
		next.GuildFundID = c.GuildFundID
		next.ManualContributionRate = c.ManualContributionRate
		next.ManualMinimumContribution = c.ManualMinimumContribution
		next.ManualFixedAnnualContributions = c.ManualFixedAnnualContributions
	case SystemPublic:
		next.INPSRateType = c.INPSRateType
	}
	return next
}

// ContributionSchemeDefinition is one row of the reference catalog: the
// parameters of a scheme (a guild fund or an INPS tier) for one year. Rows
// are append-only; multiple years coexist and rows may be flagged inactive
// instead of being deleted.
type ContributionSchemeDefinition struct {
	SchemeID                 string          `yaml:"scheme_id" json:"schemeId"`
	Year                     int             `yaml:"year" json:"year"`
	Rate                     decimal.Decimal `yaml:"rate" json:"rate"`
	MinimumContribution      decimal.Decimal `yaml:"minimum_contribution" json:"minimumContribution"`
	FixedAnnualContributions decimal.Decimal `yaml:"fixed_annual_contributions" json:"fixedAnnualContributions"`
	Active                   bool            `yaml:"active" json:"active"`
}

// GuildFund describes a professional pension fund in the catalog.
type GuildFund struct {
	ID              string `yaml:"id" json:"id"`
	Name            string `yaml:"name" json:"name"`
	AllowManualEdit bool   `yaml:"allow_manual_edit" json:"allowManualEdit"`
}

// ContributionParams is the resolved effective parameter set a contribution
// is computed from, after catalog lookup and any manual overrides.
type ContributionParams struct {
	Rate                     decimal.Decimal `json:"rate"`
	MinimumContribution      decimal.Decimal `json:"minimumContribution"`
	FixedAnnualContributions decimal.Decimal `json:"fixedAnnualContributions"`
}
