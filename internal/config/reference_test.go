package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pivatax/internal/domain"
)

const catalogYAML = `
metadata:
  data_year: 2025
  last_updated: "2025-06-30"
  description: test catalog
irpef_brackets:
  - { year: 2025, rate: "23", lower_bound: "0", upper_bound: "28000", active: true }
  - { year: 2025, rate: "35", lower_bound: "28000", upper_bound: "50000", active: true }
  - { year: 2025, rate: "43", lower_bound: "50000", active: true }
public_scheme_tiers:
  PROFESSIONAL:
    - { scheme_id: PROFESSIONAL, year: 2025, rate: "26.07", minimum_contribution: "4800.79", fixed_annual_contributions: "0", active: true }
guild_funds:
  - { id: INARCASSA, name: Inarcassa, allow_manual_edit: true }
guild_fund_definitions:
  - { scheme_id: INARCASSA, year: 2024, rate: "14.5", minimum_contribution: "2695", fixed_annual_contributions: "0", active: true }
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reference.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultReferenceDataValidates(t *testing.T) {
	assert.NoError(t, DefaultReferenceData().Validate())
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog(writeCatalog(t, catalogYAML))
	require.NoError(t, err)

	brackets, err := c.IrpefBrackets(2025)
	require.NoError(t, err)
	require.Len(t, brackets, 3)
	assert.True(t, brackets[0].Rate.Equal(dec("23")))
	assert.True(t, brackets[1].UpperBound.Equal(dec("50000")))
	assert.Nil(t, brackets[2].UpperBound)

	defs, err := c.PublicSchemeDefinitions(domain.INPSRateProfessional)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.True(t, defs[0].Rate.Equal(dec("26.07")))

	fund, err := c.GuildFund("INARCASSA")
	require.NoError(t, err)
	assert.True(t, fund.AllowManualEdit)
}

func TestLoadCatalogRejectsBrokenBrackets(t *testing.T) {
	// Drop the middle bracket: the 2025 set no longer partitions [0, inf).
	broken := `
metadata:
  data_year: 2025
irpef_brackets:
  - { year: 2025, rate: "23", lower_bound: "0", upper_bound: "28000", active: true }
  - { year: 2025, rate: "43", lower_bound: "50000", active: true }
`
	_, err := LoadCatalog(writeCatalog(t, broken))
	var bce *domain.BracketConfigurationError
	require.ErrorAs(t, err, &bce)
	assert.Equal(t, 2025, bce.Year)
}

func TestLoadCatalogRejectsOrphanFundDefinition(t *testing.T) {
	orphan := catalogYAML + `
  - { scheme_id: CASSA_IGNOTA, year: 2024, rate: "10", minimum_contribution: "0", fixed_annual_contributions: "0", active: true }
`
	_, err := LoadCatalog(writeCatalog(t, orphan))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CASSA_IGNOTA")
}

func TestIrpefBracketsYearFallback(t *testing.T) {
	c := DefaultCatalog()

	// 2027 has no row of its own, so 2025 serves it.
	brackets, err := c.IrpefBrackets(2027)
	require.NoError(t, err)
	require.Len(t, brackets, 3)
	assert.Equal(t, 2025, brackets[0].Year)

	_, err = c.IrpefBrackets(2020)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, domain.NotFoundBrackets, nf.Kind)
}

func TestCatalogUnknownLookups(t *testing.T) {
	c := DefaultCatalog()

	_, err := c.PublicSchemeDefinitions("APPRENTICE")
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, domain.NotFoundRateTier, nf.Kind)

	_, err = c.GuildFund("CASSA_IGNOTA")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, domain.NotFoundGuildFund, nf.Kind)

	_, err = c.GuildFundDefinitions("CASSA_IGNOTA")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, domain.NotFoundGuildFund, nf.Kind)
}

func TestCatalogReload(t *testing.T) {
	path := writeCatalog(t, catalogYAML)
	c, err := LoadCatalog(path)
	require.NoError(t, err)

	updated := catalogYAML + `
  - { scheme_id: INARCASSA, year: 2025, rate: "15", minimum_contribution: "2750", fixed_annual_contributions: "0", active: true }
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	require.NoError(t, c.Reload())

	defs, err := c.GuildFundDefinitions("INARCASSA")
	require.NoError(t, err)
	assert.Len(t, defs, 2)
}

func TestCatalogReloadKeepsOldDataOnBrokenFile(t *testing.T) {
	path := writeCatalog(t, catalogYAML)
	c, err := LoadCatalog(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("irpef_brackets: []\n"), 0o644))
	require.Error(t, c.Reload())

	// The previously loaded data still serves reads.
	brackets, err := c.IrpefBrackets(2025)
	require.NoError(t, err)
	assert.Len(t, brackets, 3)
}

func TestCatalogReloadWithoutFile(t *testing.T) {
	assert.Error(t, DefaultCatalog().Reload())
}
