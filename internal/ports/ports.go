// Package ports defines the collaborator interfaces the calculation engine
// consumes. The engine itself is pure; everything that touches storage or
// reference data sits behind one of these.
package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"pivatax/internal/domain"
)

// Ledger yields and mutates the per-(user, year) income and cost entries.
type Ledger interface {
	FiscalYear(ctx context.Context, userID string, year int) (*domain.FiscalYearRecord, error)
	AddIncome(ctx context.Context, userID string, year int, e *domain.IncomeEntry) error
	AddCost(ctx context.Context, userID string, year int, e *domain.CostEntry) error
	DeleteIncome(ctx context.Context, userID string, entryID string) error
	DeleteCost(ctx context.Context, userID string, entryID string) error
}

// SettingsStore persists the singleton regime and pension configurations per
// user. Saves replace the whole value; concurrent writers are last-writer-wins.
type SettingsStore interface {
	RegimeConfig(ctx context.Context, userID string) (*domain.RegimeConfig, error)
	SaveRegimeConfig(ctx context.Context, userID string, c domain.RegimeConfig) error
	PensionConfig(ctx context.Context, userID string) (*domain.PensionSchemeConfig, error)
	SavePensionConfig(ctx context.Context, userID string, c domain.PensionSchemeConfig) error
}

// CarryForwardStore holds the contributions paid per (user, year); the record
// for year Y-1 feeds year Y's taxable base. Upserts are idempotent.
type CarryForwardStore interface {
	PreviousYearContribution(ctx context.Context, userID string, year int) (decimal.Decimal, error)
	UpsertPreviousYearContribution(ctx context.Context, userID string, year int, amount decimal.Decimal) error
}

// ReferenceDataStore yields the administrator-maintained reference data:
// IRPEF brackets per year, the Gestione Separata tier catalog and the guild
// fund catalog. Read-only during a calculation. Scheme definitions are served
// raw, all years of a scheme at once; the year-fallback policy lives in the
// scheme parameter resolver.
type ReferenceDataStore interface {
	// IrpefBrackets returns the bracket set for the requested year, falling
	// back to the most recent earlier year. *domain.NotFoundError when no
	// year at or before the requested one exists.
	IrpefBrackets(year int) ([]domain.IrpefBracket, error)

	// PublicSchemeDefinitions returns every catalog year for a Gestione
	// Separata tier. *domain.NotFoundError for an unknown tier.
	PublicSchemeDefinitions(tier domain.INPSRateType) ([]domain.ContributionSchemeDefinition, error)

	// GuildFund returns a fund's descriptor. *domain.NotFoundError for an
	// unknown fund.
	GuildFund(fundID string) (*domain.GuildFund, error)

	// GuildFundDefinitions returns every catalog year for a guild fund.
	// *domain.NotFoundError for an unknown fund.
	GuildFundDefinitions(fundID string) ([]domain.ContributionSchemeDefinition, error)
}
