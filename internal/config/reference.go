// Package config loads the two kinds of input the engine runs on: the
// administrator-maintained reference catalog (IRPEF brackets, Gestione
// Separata tiers, guild funds) and self-contained user profiles for offline
// runs, both YAML. It also carries the environment-driven server settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	"pivatax/internal/domain"
)

// ReferenceMetadata describes a catalog file.
type ReferenceMetadata struct {
	DataYear    int    `yaml:"data_year"`
	LastUpdated string `yaml:"last_updated"`
	Description string `yaml:"description"`
}

// ReferenceData is the full reference catalog. Scheme definition rows are
// append-only and year-versioned; administrators publish a new file and the
// process reloads it explicitly.
type ReferenceData struct {
	Metadata             ReferenceMetadata                                              `yaml:"metadata"`
	IrpefBrackets        []domain.IrpefBracket                                          `yaml:"irpef_brackets"`
	PublicSchemeTiers    map[domain.INPSRateType][]domain.ContributionSchemeDefinition `yaml:"public_scheme_tiers"`
	GuildFunds           []domain.GuildFund                                             `yaml:"guild_funds"`
	GuildFundDefinitions []domain.ContributionSchemeDefinition                          `yaml:"guild_fund_definitions"`
}

// Validate checks the catalog invariants: every year's active bracket set
// must be a complete partition of [0, inf), and no scheme parameter may be
// negative or out of range.
func (rd *ReferenceData) Validate() error {
	years := map[int]bool{}
	for _, b := range rd.IrpefBrackets {
		if b.Active {
			years[b.Year] = true
		}
	}
	if len(years) == 0 {
		return fmt.Errorf("reference data has no active irpef brackets")
	}
	for year := range years {
		if err := domain.ValidateBrackets(year, rd.bracketsOfYear(year)); err != nil {
			return err
		}
	}
	for tier, defs := range rd.PublicSchemeTiers {
		for _, d := range defs {
			if err := validateDefinition(d); err != nil {
				return fmt.Errorf("public tier %s: %w", tier, err)
			}
		}
	}
	fundIDs := map[string]bool{}
	for _, f := range rd.GuildFunds {
		if f.ID == "" {
			return fmt.Errorf("guild fund with empty id")
		}
		if fundIDs[f.ID] {
			return fmt.Errorf("duplicate guild fund id %q", f.ID)
		}
		fundIDs[f.ID] = true
	}
	for _, d := range rd.GuildFundDefinitions {
		if !fundIDs[d.SchemeID] {
			return fmt.Errorf("guild fund definition references unknown fund %q", d.SchemeID)
		}
		if err := validateDefinition(d); err != nil {
			return fmt.Errorf("guild fund %s: %w", d.SchemeID, err)
		}
	}
	return nil
}

func validateDefinition(d domain.ContributionSchemeDefinition) error {
	if d.Year == 0 {
		return fmt.Errorf("definition without a year")
	}
	if d.Rate.IsNegative() || d.Rate.GreaterThan(hundred) {
		return fmt.Errorf("year %d: rate must be between 0 and 100", d.Year)
	}
	if d.MinimumContribution.IsNegative() {
		return fmt.Errorf("year %d: minimum contribution cannot be negative", d.Year)
	}
	if d.FixedAnnualContributions.IsNegative() {
		return fmt.Errorf("year %d: fixed annual contributions cannot be negative", d.Year)
	}
	return nil
}

func (rd *ReferenceData) bracketsOfYear(year int) []domain.IrpefBracket {
	var out []domain.IrpefBracket
	for _, b := range rd.IrpefBrackets {
		if b.Year == year {
			out = append(out, b)
		}
	}
	return out
}

// Catalog is the process-wide, read-mostly view of the reference data the
// calculation engine consumes. It implements ports.ReferenceDataStore.
// Reads may run concurrently with an administrator Reload.
type Catalog struct {
	mu   sync.RWMutex
	path string
	data *ReferenceData
}

// NewCatalog wraps an already-validated reference data set.
func NewCatalog(data *ReferenceData) *Catalog {
	return &Catalog{data: data}
}

// LoadCatalog reads and validates a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := loadReferenceFile(path)
	if err != nil {
		return nil, err
	}
	return &Catalog{path: path, data: data}, nil
}

// Reload re-reads the catalog file, replacing the cached data only when the
// new file validates. This is the explicit invalidation point after an
// administrator updates catalog entries.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return fmt.Errorf("catalog was not loaded from a file")
	}
	data, err := loadReferenceFile(c.path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data = data
	c.mu.Unlock()
	return nil
}

func loadReferenceFile(path string) (*ReferenceData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference file %s: %w", path, err)
	}
	var data ReferenceData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse reference YAML: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("reference data validation failed: %w", err)
	}
	return &data, nil
}

// IrpefBrackets returns the bracket set for the requested year, falling back
// to the most recent earlier year with active brackets.
func (c *Catalog) IrpefBrackets(year int) ([]domain.IrpefBracket, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	best := 0
	for _, b := range c.data.IrpefBrackets {
		if b.Active && b.Year <= year && b.Year > best {
			best = b.Year
		}
	}
	if best == 0 {
		return nil, &domain.NotFoundError{Kind: domain.NotFoundBrackets, Key: strconv.Itoa(year), Year: year}
	}
	return c.data.bracketsOfYear(best), nil
}

// PublicSchemeDefinitions returns all catalog years for a Gestione Separata tier.
func (c *Catalog) PublicSchemeDefinitions(tier domain.INPSRateType) ([]domain.ContributionSchemeDefinition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	defs, ok := c.data.PublicSchemeTiers[tier]
	if !ok {
		return nil, &domain.NotFoundError{Kind: domain.NotFoundRateTier, Key: string(tier)}
	}
	return defs, nil
}

// GuildFund returns a fund descriptor by id.
func (c *Catalog) GuildFund(fundID string) (*domain.GuildFund, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.data.GuildFunds {
		if c.data.GuildFunds[i].ID == fundID {
			f := c.data.GuildFunds[i]
			return &f, nil
		}
	}
	return nil, &domain.NotFoundError{Kind: domain.NotFoundGuildFund, Key: fundID}
}

// GuildFundDefinitions returns all catalog years for a guild fund.
func (c *Catalog) GuildFundDefinitions(fundID string) ([]domain.ContributionSchemeDefinition, error) {
	if _, err := c.GuildFund(fundID); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []domain.ContributionSchemeDefinition
	for _, d := range c.data.GuildFundDefinitions {
		if d.SchemeID == fundID {
			out = append(out, d)
		}
	}
	return out, nil
}
