package domain

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	five    = decimal.NewFromInt(5)
	twenty5 = decimal.NewFromInt(25)
)

// ValidateRegimeConfig performs field-level validation of a regime
// configuration: the simplified regime requires substituteRate in {5, 25} and
// profitabilityRate in [0, 100]; the standard regime must carry neither.
// It returns every violation, not just the first.
func ValidateRegimeConfig(c RegimeConfig) ValidationErrors {
	var errs ValidationErrors
	switch c.TaxRegime {
	case RegimeSimplified:
		if c.SubstituteRate == nil {
			errs = append(errs, &ValidationError{Field: "substituteRate", Message: "required for the simplified regime"})
		} else if !c.SubstituteRate.Equal(five) && !c.SubstituteRate.Equal(twenty5) {
			errs = append(errs, &ValidationError{Field: "substituteRate", Message: "must be 5 or 25"})
		}
		if c.ProfitabilityRate == nil {
			errs = append(errs, &ValidationError{Field: "profitabilityRate", Message: "required for the simplified regime"})
		} else if c.ProfitabilityRate.IsNegative() || c.ProfitabilityRate.GreaterThan(hundred) {
			errs = append(errs, &ValidationError{Field: "profitabilityRate", Message: "must be between 0 and 100"})
		}
	case RegimeStandard:
		if c.SubstituteRate != nil {
			errs = append(errs, &ValidationError{Field: "substituteRate", Message: "not allowed under the standard regime"})
		}
		if c.ProfitabilityRate != nil {
			errs = append(errs, &ValidationError{Field: "profitabilityRate", Message: "not allowed under the standard regime"})
		}
	case "":
		errs = append(errs, &ValidationError{Field: "taxRegime", Message: "required"})
	default:
		errs = append(errs, &ValidationError{Field: "taxRegime", Message: "must be \"simplified\" or \"standard\""})
	}
	return errs
}

// ValidatePensionConfig performs field-level validation of a pension scheme
// configuration. Catalog-dependent checks (unknown fund or tier, manual edits
// against a fund that forbids them) belong to the scheme parameter resolver.
func ValidatePensionConfig(c PensionSchemeConfig) ValidationErrors {
	var errs ValidationErrors
	switch c.PensionSystem {
	case SystemPublic:
		if c.INPSRateType == "" {
			errs = append(errs, &ValidationError{Field: "inpsRateType", Message: "required for the public scheme"})
		}
		if c.GuildFundID != "" {
			errs = append(errs, &ValidationError{Field: "guildFundId", Message: "not allowed for the public scheme"})
		}
		if c.ManualContributionRate != nil || c.ManualMinimumContribution != nil || c.ManualFixedAnnualContributions != nil {
			errs = append(errs, &ValidationError{Field: "manualContributionRate", Message: "manual overrides apply only to guild funds"})
		}
	case SystemGuildFund:
		if c.GuildFundID == "" {
			errs = append(errs, &ValidationError{Field: "guildFundId", Message: "required for a guild fund scheme"})
		}
		if c.INPSRateType != "" {
			errs = append(errs, &ValidationError{Field: "inpsRateType", Message: "not allowed for a guild fund scheme"})
		}
		errs = append(errs, validateManualOverrides(c)...)
	case "":
		errs = append(errs, &ValidationError{Field: "pensionSystem", Message: "required"})
	default:
		errs = append(errs, &ValidationError{Field: "pensionSystem", Message: "must be \"PUBLIC\" or \"GUILD_FUND\""})
	}
	return errs
}

func validateManualOverrides(c PensionSchemeConfig) ValidationErrors {
	var errs ValidationErrors
	if c.ManualContributionRate != nil && (c.ManualContributionRate.IsNegative() || c.ManualContributionRate.GreaterThan(hundred)) {
		errs = append(errs, &ValidationError{Field: "manualContributionRate", Message: "must be between 0 and 100"})
	}
	if c.ManualMinimumContribution != nil && c.ManualMinimumContribution.IsNegative() {
		errs = append(errs, &ValidationError{Field: "manualMinimumContribution", Message: "cannot be negative"})
	}
	if c.ManualFixedAnnualContributions != nil && c.ManualFixedAnnualContributions.IsNegative() {
		errs = append(errs, &ValidationError{Field: "manualFixedAnnualContributions", Message: "cannot be negative"})
	}
	return errs
}
