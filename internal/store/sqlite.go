// Package store persists users' ledgers, fiscal configurations and
// carry-forward contributions in SQLite. It implements the Ledger,
// SettingsStore and CarryForwardStore ports. Monetary values are stored as
// decimal strings so no precision is lost through the database.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"pivatax/internal/domain"
)

type Store struct {
	db *sql.DB
}

// New opens (and if needed initializes) the SQLite database at dsn.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS income_entries (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			year        INTEGER NOT NULL,
			amount      TEXT NOT NULL,
			date        TIMESTAMP NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_income_user_year ON income_entries(user_id, year);

		CREATE TABLE IF NOT EXISTS cost_entries (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			year        INTEGER NOT NULL,
			amount      TEXT NOT NULL,
			date        TIMESTAMP NOT NULL,
			deductible  INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_cost_user_year ON cost_entries(user_id, year);

		CREATE TABLE IF NOT EXISTS regime_configs (
			user_id            TEXT PRIMARY KEY,
			tax_regime         TEXT NOT NULL,
			substitute_rate    TEXT,
			profitability_rate TEXT
		);

		CREATE TABLE IF NOT EXISTS pension_configs (
			user_id        TEXT PRIMARY KEY,
			pension_system TEXT NOT NULL,
			inps_rate_type TEXT NOT NULL DEFAULT '',
			guild_fund_id  TEXT NOT NULL DEFAULT '',
			manual_rate    TEXT,
			manual_minimum TEXT,
			manual_fixed   TEXT
		);

		CREATE TABLE IF NOT EXISTS previous_year_contributions (
			user_id TEXT NOT NULL,
			year    INTEGER NOT NULL,
			amount  TEXT NOT NULL,
			PRIMARY KEY (user_id, year)
		);
	`)
	return err
}

// Ledger

func (s *Store) FiscalYear(ctx context.Context, userID string, year int) (*domain.FiscalYearRecord, error) {
	rec := &domain.FiscalYearRecord{UserID: userID, Year: year}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount, date, description
		FROM income_entries WHERE user_id=? AND year=? ORDER BY date, id`, userID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e domain.IncomeEntry
		var amount string
		if err := rows.Scan(&e.ID, &amount, &e.Date, &e.Description); err != nil {
			return nil, err
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("income entry %s: %w", e.ID, err)
		}
		rec.Incomes = append(rec.Incomes, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	costRows, err := s.db.QueryContext(ctx, `
		SELECT id, amount, date, deductible, description
		FROM cost_entries WHERE user_id=? AND year=? ORDER BY date, id`, userID, year)
	if err != nil {
		return nil, err
	}
	defer costRows.Close()
	for costRows.Next() {
		var c domain.CostEntry
		var amount string
		var deductible int
		if err := costRows.Scan(&c.ID, &amount, &c.Date, &deductible, &c.Description); err != nil {
			return nil, err
		}
		if c.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("cost entry %s: %w", c.ID, err)
		}
		c.Deductible = deductible == 1
		rec.Costs = append(rec.Costs, c)
	}
	return rec, costRows.Err()
}

func (s *Store) AddIncome(ctx context.Context, userID string, year int, e *domain.IncomeEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO income_entries (id, user_id, year, amount, date, description)
		VALUES (?,?,?,?,?,?)`,
		e.ID, userID, year, e.Amount.String(), e.Date, e.Description)
	return err
}

func (s *Store) AddCost(ctx context.Context, userID string, year int, c *domain.CostEntry) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cost_entries (id, user_id, year, amount, date, deductible, description)
		VALUES (?,?,?,?,?,?,?)`,
		c.ID, userID, year, c.Amount.String(), c.Date, boolToInt(c.Deductible), c.Description)
	return err
}

func (s *Store) DeleteIncome(ctx context.Context, userID string, entryID string) error {
	return s.deleteEntry(ctx, "income_entries", "income entry", userID, entryID)
}

func (s *Store) DeleteCost(ctx context.Context, userID string, entryID string) error {
	return s.deleteEntry(ctx, "cost_entries", "cost entry", userID, entryID)
}

func (s *Store) deleteEntry(ctx context.Context, table, kind, userID, entryID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id=? AND user_id=?`, entryID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.NotFoundError{Kind: kind, Key: entryID}
	}
	return nil
}

// Settings

func (s *Store) RegimeConfig(ctx context.Context, userID string) (*domain.RegimeConfig, error) {
	var c domain.RegimeConfig
	var substitute, profitability sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT tax_regime, substitute_rate, profitability_rate
		FROM regime_configs WHERE user_id=?`, userID).
		Scan(&c.TaxRegime, &substitute, &profitability)
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Kind: domain.NotFoundConfig, Key: "regime config for " + userID}
	}
	if err != nil {
		return nil, err
	}
	if c.SubstituteRate, err = nullDecimal(substitute); err != nil {
		return nil, err
	}
	if c.ProfitabilityRate, err = nullDecimal(profitability); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveRegimeConfig replaces the user's regime configuration wholesale.
// Concurrent writers are last-writer-wins; there is no version column.
func (s *Store) SaveRegimeConfig(ctx context.Context, userID string, c domain.RegimeConfig) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO regime_configs (user_id, tax_regime, substitute_rate, profitability_rate)
		VALUES (?,?,?,?)
		ON CONFLICT(user_id) DO UPDATE SET
			tax_regime=excluded.tax_regime,
			substitute_rate=excluded.substitute_rate,
			profitability_rate=excluded.profitability_rate`,
		userID, c.TaxRegime, decimalString(c.SubstituteRate), decimalString(c.ProfitabilityRate))
	return err
}

func (s *Store) PensionConfig(ctx context.Context, userID string) (*domain.PensionSchemeConfig, error) {
	var c domain.PensionSchemeConfig
	var rate, minimum, fixed sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT pension_system, inps_rate_type, guild_fund_id, manual_rate, manual_minimum, manual_fixed
		FROM pension_configs WHERE user_id=?`, userID).
		Scan(&c.PensionSystem, &c.INPSRateType, &c.GuildFundID, &rate, &minimum, &fixed)
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Kind: domain.NotFoundConfig, Key: "pension config for " + userID}
	}
	if err != nil {
		return nil, err
	}
	if c.ManualContributionRate, err = nullDecimal(rate); err != nil {
		return nil, err
	}
	if c.ManualMinimumContribution, err = nullDecimal(minimum); err != nil {
		return nil, err
	}
	if c.ManualFixedAnnualContributions, err = nullDecimal(fixed); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) SavePensionConfig(ctx context.Context, userID string, c domain.PensionSchemeConfig) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pension_configs (user_id, pension_system, inps_rate_type, guild_fund_id, manual_rate, manual_minimum, manual_fixed)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(user_id) DO UPDATE SET
			pension_system=excluded.pension_system,
			inps_rate_type=excluded.inps_rate_type,
			guild_fund_id=excluded.guild_fund_id,
			manual_rate=excluded.manual_rate,
			manual_minimum=excluded.manual_minimum,
			manual_fixed=excluded.manual_fixed`,
		userID, c.PensionSystem, c.INPSRateType, c.GuildFundID,
		decimalString(c.ManualContributionRate), decimalString(c.ManualMinimumContribution), decimalString(c.ManualFixedAnnualContributions))
	return err
}

// Carry-forward

// PreviousYearContribution returns the contributions recorded for a year.
// A missing record reads as zero: a first fiscal year simply has no
// carry-forward deduction.
func (s *Store) PreviousYearContribution(ctx context.Context, userID string, year int) (decimal.Decimal, error) {
	var amount string
	err := s.db.QueryRowContext(ctx, `
		SELECT amount FROM previous_year_contributions WHERE user_id=? AND year=?`, userID, year).
		Scan(&amount)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(amount)
}

// UpsertPreviousYearContribution records the contributions paid for a year.
// Idempotent: rewriting the same value changes nothing observable.
func (s *Store) UpsertPreviousYearContribution(ctx context.Context, userID string, year int, amount decimal.Decimal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO previous_year_contributions (user_id, year, amount)
		VALUES (?,?,?)
		ON CONFLICT(user_id, year) DO UPDATE SET amount=excluded.amount`,
		userID, year, amount.String())
	return err
}

// helpers

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func decimalString(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullDecimal(v sql.NullString) (*decimal.Decimal, error) {
	if !v.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
