package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pivatax/internal/calculation"
	"pivatax/internal/config"
	"pivatax/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testProfile() *config.Profile {
	return &config.Profile{
		UserID: "u-1",
		Year:   2025,
		Regime: domain.RegimeConfig{
			TaxRegime:         domain.RegimeSimplified,
			SubstituteRate:    decPtr("5"),
			ProfitabilityRate: decPtr("78"),
		},
		Pension: domain.PensionSchemeConfig{
			PensionSystem: domain.SystemPublic,
			INPSRateType:  domain.INPSRateProfessional,
		},
		Incomes: []domain.IncomeEntry{
			{ID: "i-1", Amount: dec("50000")},
		},
		PreviousYearContributions: map[int]decimal.Decimal{
			2024: dec("4800"),
		},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *config.Profile) {
	t.Helper()
	p := testProfile()
	engine := calculation.NewCalculationEngine(p, p, config.DefaultCatalog(), p)
	ts := httptest.NewServer(New(engine, p, p, p, nil).Routes())
	t.Cleanup(ts.Close)
	return ts, p
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp, decoded
}

func TestCreateUser(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/users", "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["userId"])
}

func TestGetSummary(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/users/u-1/summary/2025", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "34200", body["taxableIncome"])
	assert.Equal(t, "1710", body["taxDue"])
	assert.Equal(t, "8915.94", body["contributionsDue"])
	assert.Equal(t, "21.25", body["effectiveRate"])
}

func TestGetSummaryInvalidYear(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/users/u-1/summary/later", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetComparison(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/users/u-1/comparison/2025", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "simplified", body["current"])
	assert.Equal(t, "simplified", body["cheaper"])
	assert.NotNil(t, body["standard"])
}

func TestPutRegimeTransition(t *testing.T) {
	ts, p := newTestServer(t)

	// simplified -> standard clears the regime-specific rates.
	resp, body := doJSON(t, http.MethodPut, ts.URL+"/api/users/u-1/regime",
		`{"taxRegime":"standard"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "standard", body["taxRegime"])
	assert.Nil(t, body["substituteRate"])
	assert.Equal(t, domain.RegimeStandard, p.Regime.TaxRegime)
	assert.Nil(t, p.Regime.SubstituteRate)

	// standard -> simplified without explicit rates takes the defaults.
	resp, body = doJSON(t, http.MethodPut, ts.URL+"/api/users/u-1/regime",
		`{"taxRegime":"simplified"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "5", body["substituteRate"])
	assert.Equal(t, "78", body["profitabilityRate"])
}

func TestPutRegimeExplicitRates(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPut, ts.URL+"/api/users/u-1/regime",
		`{"taxRegime":"simplified","substituteRate":"25","profitabilityRate":"67"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "25", body["substituteRate"])
	assert.Equal(t, "67", body["profitabilityRate"])
}

func TestPutRegimeValidation(t *testing.T) {
	ts, p := newTestServer(t)

	resp, body := doJSON(t, http.MethodPut, ts.URL+"/api/users/u-1/regime",
		`{"taxRegime":"simplified","substituteRate":"10"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errs := body["errors"].([]any)
	require.NotEmpty(t, errs)
	assert.Equal(t, "substituteRate", errs[0].(map[string]any)["field"])
	// The invalid configuration was not persisted.
	assert.True(t, p.Regime.SubstituteRate.Equal(dec("5")))
}

func TestPutPensionManualEditRejected(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPut, ts.URL+"/api/users/u-1/pension",
		`{"pensionSystem":"GUILD_FUND","guildFundId":"CASSA_FORENSE","manualContributionRate":"10"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errs := body["errors"].([]any)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].(map[string]any)["message"], "does not allow manual")
}

func TestPutPensionTransition(t *testing.T) {
	ts, p := newTestServer(t)

	resp, body := doJSON(t, http.MethodPut, ts.URL+"/api/users/u-1/pension",
		`{"pensionSystem":"GUILD_FUND","guildFundId":"INARCASSA","manualContributionRate":"15"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "INARCASSA", body["guildFundId"])
	assert.Nil(t, body["inpsRateType"])
	assert.Equal(t, domain.SystemGuildFund, p.Pension.PensionSystem)

	// Switching back to PUBLIC clears the fund and the manual overrides.
	resp, body = doJSON(t, http.MethodPut, ts.URL+"/api/users/u-1/pension",
		`{"pensionSystem":"PUBLIC","inpsRateType":"COLLABORATOR"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "COLLABORATOR", body["inpsRateType"])
	assert.Nil(t, body["guildFundId"])
	assert.Nil(t, body["manualContributionRate"])
}

func TestAddIncomeRecomputes(t *testing.T) {
	ts, p := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/users/u-1/years/2025/incomes",
		`{"amount":"10000","description":"extra invoice"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	entity := body["entity"].(map[string]any)
	assert.NotEmpty(t, entity["id"])
	summary := body["summary"].(map[string]any)
	// 60000 * 78% - 4800 = 42000
	assert.Equal(t, "42000", summary["taxableIncome"])
	assert.Len(t, p.Incomes, 2)
}

func TestAddIncomeNegativeAmount(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/users/u-1/years/2025/incomes",
		`{"amount":"-5"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDeleteIncome(t *testing.T) {
	ts, p := newTestServer(t)

	resp, _ := doJSON(t, http.MethodDelete, ts.URL+"/api/users/u-1/incomes/i-1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, p.Incomes)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/users/u-1/incomes/i-1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPutContributionRecomputesNextYear(t *testing.T) {
	ts, p := newTestServer(t)

	// Recording 2024's paid contributions changes 2025's base.
	resp, body := doJSON(t, http.MethodPut, ts.URL+"/api/users/u-1/contributions/2024",
		`{"amount":"9000"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	summary := body["summary"].(map[string]any)
	assert.Equal(t, 2025, int(summary["year"].(float64)))
	// 50000 * 78% - 9000 = 30000
	assert.Equal(t, "30000", summary["taxableIncome"])
	assert.True(t, p.PreviousYearContributions[2024].Equal(dec("9000")))
}

func TestExportFormats(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/users/u-1/summary/2025/export?format=csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

	resp, err = http.Get(ts.URL + "/api/users/u-1/summary/2025/export?format=nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReloadWithoutCatalogFile(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/admin/reference/reload", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
