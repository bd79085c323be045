package calculation

import (
	"fmt"

	"pivatax/internal/domain"
	"pivatax/internal/ports"
)

// SchemeParameterResolver resolves the effective contribution parameters
// (rate, minimum floor, fixed surcharge) for a user's pension scheme, merging
// catalog defaults with any permitted manual overrides.
type SchemeParameterResolver struct {
	ref ports.ReferenceDataStore
}

// NewSchemeParameterResolver creates a resolver over a reference data store.
func NewSchemeParameterResolver(ref ports.ReferenceDataStore) *SchemeParameterResolver {
	return &SchemeParameterResolver{ref: ref}
}

// Resolve returns the parameters in force for the configuration and year.
//
// Both scheme families apply the carry-forward policy: the catalog entry for
// the requested year is preferred, otherwise the most recent earlier year is
// used; parameters are never silently zero. Unknown tier or fund codes fail
// with *domain.NotFoundError; a fund with no catalog entry at or before the
// year fails the same way with the catalog-data kind.
func (r *SchemeParameterResolver) Resolve(cfg domain.PensionSchemeConfig, year int) (*domain.ContributionParams, error) {
	if errs := domain.ValidatePensionConfig(cfg); len(errs) > 0 {
		return nil, errs
	}

	switch cfg.PensionSystem {
	case domain.SystemPublic:
		return r.resolvePublic(cfg, year)
	case domain.SystemGuildFund:
		return r.resolveGuildFund(cfg, year)
	}
	// Unreachable after validation.
	return nil, fmt.Errorf("unsupported pension system %q", cfg.PensionSystem)
}

func (r *SchemeParameterResolver) resolvePublic(cfg domain.PensionSchemeConfig, year int) (*domain.ContributionParams, error) {
	defs, err := r.ref.PublicSchemeDefinitions(cfg.INPSRateType)
	if err != nil {
		return nil, err
	}
	def := latestDefinitionAtOrBefore(defs, year)
	if def == nil {
		return nil, &domain.NotFoundError{Kind: domain.NotFoundCatalogData, Key: string(cfg.INPSRateType), Year: year}
	}
	return &domain.ContributionParams{
		Rate:                     def.Rate,
		MinimumContribution:      def.MinimumContribution,
		FixedAnnualContributions: def.FixedAnnualContributions,
	}, nil
}

func (r *SchemeParameterResolver) resolveGuildFund(cfg domain.PensionSchemeConfig, year int) (*domain.ContributionParams, error) {
	fund, err := r.ref.GuildFund(cfg.GuildFundID)
	if err != nil {
		return nil, err
	}
	if err := checkManualEditAllowed(cfg, fund); err != nil {
		return nil, err
	}

	defs, err := r.ref.GuildFundDefinitions(cfg.GuildFundID)
	if err != nil {
		return nil, err
	}
	def := latestDefinitionAtOrBefore(defs, year)
	if def == nil {
		return nil, &domain.NotFoundError{Kind: domain.NotFoundCatalogData, Key: cfg.GuildFundID, Year: year}
	}

	params := &domain.ContributionParams{
		Rate:                     def.Rate,
		MinimumContribution:      def.MinimumContribution,
		FixedAnnualContributions: def.FixedAnnualContributions,
	}
	// Per-field overrides: each manual value replaces only its own base field.
	if fund.AllowManualEdit {
		if cfg.ManualContributionRate != nil {
			params.Rate = *cfg.ManualContributionRate
		}
		if cfg.ManualMinimumContribution != nil {
			params.MinimumContribution = *cfg.ManualMinimumContribution
		}
		if cfg.ManualFixedAnnualContributions != nil {
			params.FixedAnnualContributions = *cfg.ManualFixedAnnualContributions
		}
	}
	return params, nil
}

// ValidateConfig runs the catalog-dependent checks on a pension
// configuration: the fund or tier must exist, and manual overrides are
// rejected when the fund forbids them. Used by the settings update path so a
// configuration that cannot be resolved is never persisted.
func (r *SchemeParameterResolver) ValidateConfig(cfg domain.PensionSchemeConfig) error {
	switch cfg.PensionSystem {
	case domain.SystemPublic:
		_, err := r.ref.PublicSchemeDefinitions(cfg.INPSRateType)
		return err
	case domain.SystemGuildFund:
		fund, err := r.ref.GuildFund(cfg.GuildFundID)
		if err != nil {
			return err
		}
		return checkManualEditAllowed(cfg, fund)
	}
	return nil
}

// checkManualEditAllowed enforces a fund's allowManualEdit flag at the
// engine boundary, not only in a client.
func checkManualEditAllowed(cfg domain.PensionSchemeConfig, fund *domain.GuildFund) error {
	if fund.AllowManualEdit {
		return nil
	}
	if cfg.ManualContributionRate != nil || cfg.ManualMinimumContribution != nil || cfg.ManualFixedAnnualContributions != nil {
		return &domain.ConfigurationInconsistencyError{
			Field:   "manualContributionRate",
			Message: fmt.Sprintf("fund %q does not allow manual parameter overrides", fund.ID),
		}
	}
	return nil
}

// latestDefinitionAtOrBefore picks the active catalog entry for the requested
// year, or failing that the most recent earlier one. Nil when none exists.
func latestDefinitionAtOrBefore(defs []domain.ContributionSchemeDefinition, year int) *domain.ContributionSchemeDefinition {
	var best *domain.ContributionSchemeDefinition
	for i := range defs {
		d := &defs[i]
		if !d.Active || d.Year > year {
			continue
		}
		if best == nil || d.Year > best.Year {
			best = d
		}
	}
	return best
}
