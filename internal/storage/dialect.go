package storage

import (
	"database/sql"
	"fmt"
)

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// dialect hides the one DDL difference between the two supported
// drivers: SQLite supports CREATE INDEX IF NOT EXISTS, MySQL needs an
// information_schema lookup first.
type dialect interface {
	Name() string
	createIndex(e execer, idx indexSpec) error
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite3" }

func (sqliteDialect) createIndex(e execer, idx indexSpec) error {
	_, err := e.Exec(fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", idx.Name, idx.Table, idx.Column))
	return err
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }

func (mysqlDialect) createIndex(e execer, idx indexSpec) error {
	var count int
	existsQuery := `SELECT COUNT(*) FROM INFORMATION_SCHEMA.STATISTICS WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?`
	if err := e.QueryRow(existsQuery, idx.Table, idx.Name).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := e.Exec(fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.Name, idx.Table, idx.Column))
	return err
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case "sqlite3":
		return sqliteDialect{}, nil
	case "mysql":
		return mysqlDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
