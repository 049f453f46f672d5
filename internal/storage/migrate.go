package storage

import (
	"database/sql"
	"fmt"

	appErrors "github.com/D1992S/budzet/customErrors"
	"github.com/D1992S/budzet/logging"
)

// Each schema version declares the complete table and index set that
// is valid as of that version. Versions are purely additive: a version
// never removes or renames anything a previous version declared, so
// re-declaring an existing table is a no-op and existing rows are left
// untouched.

type indexSpec struct {
	Name   string
	Table  string
	Column string
}

type tableSpec struct {
	Name    string
	Columns string
	Indexes []indexSpec
}

type schemaVersion struct {
	Version int
	Tables  []tableSpec
}

var transactionsTable = tableSpec{
	Name: "transactions",
	Columns: `id VARCHAR(64) PRIMARY KEY,
		seq BIGINT NOT NULL,
		amount VARCHAR(64) NOT NULL,
		type VARCHAR(16) NOT NULL,
		category VARCHAR(255) NOT NULL,
		description TEXT,
		date VARCHAR(10) NOT NULL`,
	Indexes: []indexSpec{
		{Name: "idx_transactions_date", Table: "transactions", Column: "date"},
		{Name: "idx_transactions_type", Table: "transactions", Column: "type"},
		{Name: "idx_transactions_category", Table: "transactions", Column: "category"},
	},
}

var goalsTable = tableSpec{
	Name: "goals",
	Columns: `id VARCHAR(64) PRIMARY KEY,
		seq BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		target_amount VARCHAR(64) NOT NULL,
		current_amount VARCHAR(64) NOT NULL,
		color VARCHAR(32) NOT NULL`,
	Indexes: []indexSpec{
		{Name: "idx_goals_name", Table: "goals", Column: "name"},
	},
}

var recurringExpensesTable = tableSpec{
	Name: "recurring_expenses",
	Columns: `id VARCHAR(64) PRIMARY KEY,
		seq BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		amount VARCHAR(64) NOT NULL,
		frequency VARCHAR(16) NOT NULL,
		due_day INT NOT NULL,
		category VARCHAR(255) NOT NULL`,
	Indexes: []indexSpec{
		{Name: "idx_recurring_expenses_name", Table: "recurring_expenses", Column: "name"},
	},
}

var debtsTable = tableSpec{
	Name: "debts",
	Columns: `id VARCHAR(64) PRIMARY KEY,
		seq BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		total_amount VARCHAR(64) NOT NULL,
		remaining_amount VARCHAR(64) NOT NULL,
		interest_rate VARCHAR(64),
		minimum_payment VARCHAR(64)`,
	Indexes: []indexSpec{
		{Name: "idx_debts_name", Table: "debts", Column: "name"},
	},
}

var investmentsTable = tableSpec{
	Name: "investments",
	Columns: `id VARCHAR(64) PRIMARY KEY,
		seq BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		type VARCHAR(32) NOT NULL,
		amount_invested VARCHAR(64) NOT NULL,
		current_value VARCHAR(64) NOT NULL,
		date VARCHAR(10) NOT NULL`,
	Indexes: []indexSpec{
		{Name: "idx_investments_name", Table: "investments", Column: "name"},
		{Name: "idx_investments_type", Table: "investments", Column: "type"},
	},
}

var schemaVersions = []schemaVersion{
	{
		Version: 1,
		Tables:  []tableSpec{transactionsTable, goalsTable},
	},
	{
		Version: 2,
		Tables:  []tableSpec{transactionsTable, goalsTable, recurringExpensesTable, debtsTable},
	},
	{
		Version: 3,
		Tables:  []tableSpec{transactionsTable, goalsTable, recurringExpensesTable, debtsTable, investmentsTable},
	},
}

// LatestSchemaVersion is the version an opened store is migrated to.
var LatestSchemaVersion = schemaVersions[len(schemaVersions)-1].Version

func storedSchemaVersion(db *sql.DB) (int, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INT NOT NULL)`)
	if err != nil {
		return 0, err
	}

	var version int
	err = db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if err == sql.ErrNoRows {
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return 0, err
		}
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

// runMigrations brings the store from its stored version up to target,
// one version at a time in ascending order. Skipping intermediate
// versions is not permitted.
func runMigrations(db *sql.DB, d dialect, target int) error {
	stored, err := storedSchemaVersion(db)
	if err != nil {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrSchemaUpgrade,
			Message: fmt.Sprintf("Failed to read stored schema version: %v.", err),
		}
	}

	if stored >= target {
		logging.Logger.Infof("schema version %d is current, no migration needed", stored)
		return nil
	}

	for _, sv := range schemaVersions {
		if sv.Version <= stored || sv.Version > target {
			continue
		}
		logging.Logger.Infof("applying schema version %d", sv.Version)
		if err := applyVersion(db, d, sv); err != nil {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrSchemaUpgrade,
				Message: fmt.Sprintf("Failed to apply schema version %d: %v.", sv.Version, err),
			}
		}
	}

	logging.Logger.Infof("store migrated to schema version %d", target)
	return nil
}

func applyVersion(db *sql.DB, d dialect, sv schemaVersion) error {
	// MySQL auto-commits DDL, so the transaction only really protects
	// the version bump there; the declarations themselves are additive
	// and re-runnable, which keeps a partial apply harmless. SQLite
	// rolls the whole step back.
	txn, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	for _, table := range sv.Tables {
		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table.Name, table.Columns)
		if _, err := txn.Exec(ddl); err != nil {
			txn.Rollback()
			return fmt.Errorf("failed to declare table %s: %w", table.Name, err)
		}
		for _, idx := range table.Indexes {
			if err := d.createIndex(txn, idx); err != nil {
				txn.Rollback()
				return fmt.Errorf("failed to declare index %s: %w", idx.Name, err)
			}
		}
	}

	if _, err := txn.Exec(`UPDATE schema_version SET version = ?`, sv.Version); err != nil {
		txn.Rollback()
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return txn.Commit()
}
