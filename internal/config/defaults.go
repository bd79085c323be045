package config

import (
	"github.com/shopspring/decimal"

	"pivatax/internal/domain"
)

var hundred = decimal.NewFromInt(100)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// DefaultReferenceData returns the compiled-in 2025 catalog, used when no
// reference file is supplied. An administrator file with the same shape
// replaces it entirely.
func DefaultReferenceData() *ReferenceData {
	return &ReferenceData{
		Metadata: ReferenceMetadata{
			DataYear:    2025,
			LastUpdated: "2025-01-01",
			Description: "Built-in IRPEF brackets, Gestione Separata tiers and guild fund catalog",
		},
		IrpefBrackets: []domain.IrpefBracket{
			{Year: 2025, Rate: dec("23"), LowerBound: decimal.Zero, UpperBound: decPtr("28000"), Active: true},
			{Year: 2025, Rate: dec("35"), LowerBound: dec("28000"), UpperBound: decPtr("50000"), Active: true},
			{Year: 2025, Rate: dec("43"), LowerBound: dec("50000"), Active: true},
		},
		PublicSchemeTiers: map[domain.INPSRateType][]domain.ContributionSchemeDefinition{
			domain.INPSRateProfessional: {
				{SchemeID: string(domain.INPSRateProfessional), Year: 2025, Rate: dec("26.07"), MinimumContribution: dec("4800.79"), FixedAnnualContributions: decimal.Zero, Active: true},
			},
			domain.INPSRateProfessionalOther: {
				{SchemeID: string(domain.INPSRateProfessionalOther), Year: 2025, Rate: dec("24"), MinimumContribution: dec("4419.60"), FixedAnnualContributions: decimal.Zero, Active: true},
			},
			domain.INPSRateCollaborator: {
				{SchemeID: string(domain.INPSRateCollaborator), Year: 2025, Rate: dec("35.03"), MinimumContribution: decimal.Zero, FixedAnnualContributions: decimal.Zero, Active: true},
			},
			domain.INPSRatePensioner: {
				{SchemeID: string(domain.INPSRatePensioner), Year: 2025, Rate: dec("24"), MinimumContribution: dec("4419.60"), FixedAnnualContributions: decimal.Zero, Active: true},
			},
		},
		GuildFunds: []domain.GuildFund{
			{ID: "CASSA_FORENSE", Name: "Cassa Forense", AllowManualEdit: false},
			{ID: "INARCASSA", Name: "Inarcassa", AllowManualEdit: true},
			{ID: "CASSA_GEOMETRI", Name: "Cassa Geometri", AllowManualEdit: true},
		},
		GuildFundDefinitions: []domain.ContributionSchemeDefinition{
			{SchemeID: "CASSA_FORENSE", Year: 2024, Rate: dec("16"), MinimumContribution: dec("2750"), FixedAnnualContributions: dec("350"), Active: true},
			{SchemeID: "INARCASSA", Year: 2024, Rate: dec("14.5"), MinimumContribution: dec("2695"), FixedAnnualContributions: decimal.Zero, Active: true},
			{SchemeID: "CASSA_GEOMETRI", Year: 2023, Rate: dec("18"), MinimumContribution: dec("3250"), FixedAnnualContributions: dec("180"), Active: true},
		},
	}
}

// DefaultCatalog wraps DefaultReferenceData in a Catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultReferenceData())
}
