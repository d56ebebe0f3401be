package database

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

const (
	driverSQLite   = "sqlite3"
	driverPostgres = "pgx"

	pgUniqueViolation = "23505"
)

// dialect captures the few differences between the SQLite and Postgres backends.
type dialect struct {
	driver string
}

// rebind rewrites ? placeholders into $n for Postgres.
func (d dialect) rebind(query string) string {
	if d.driver != driverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// forUpdate appends a row lock where the backend supports one. SQLite
// serializes writers through BEGIN IMMEDIATE instead.
func (d dialect) forUpdate(query string) string {
	if d.driver == driverPostgres {
		return query + " FOR UPDATE"
	}
	return query
}

func (d dialect) schema() []string {
	timestamp := "TIMESTAMP"
	sequence := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if d.driver == driverPostgres {
		timestamp = "TIMESTAMPTZ"
		sequence = "BIGSERIAL PRIMARY KEY"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			password_hash TEXT NOT NULL DEFAULT '',
			balance TEXT NOT NULL DEFAULT '0.00',
			version BIGINT NOT NULL DEFAULT 1,
			created_at %[1]s NOT NULL,
			updated_at %[1]s NOT NULL
		)`, timestamp),
		`CREATE INDEX IF NOT EXISTS idx_users_name ON users(first_name, last_name)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS connections (
			id TEXT PRIMARY KEY,
			initializer_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			receiver_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			pair_key TEXT NOT NULL UNIQUE,
			starting_date %s NOT NULL,
			CHECK (initializer_id <> receiver_id)
		)`, timestamp),
		`CREATE INDEX IF NOT EXISTS idx_connections_initializer ON connections(initializer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_connections_receiver ON connections(receiver_id)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			issuer_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			payee_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			date %s NOT NULL,
			amount TEXT NOT NULL,
			fee TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`, timestamp),
		`CREATE INDEX IF NOT EXISTS idx_transactions_issuer ON transactions(issuer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_payee ON transactions(payee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS bank_accounts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			bank_name TEXT NOT NULL,
			iban TEXT NOT NULL,
			balance TEXT NOT NULL DEFAULT '0.00',
			version BIGINT NOT NULL DEFAULT 1,
			created_at %s NOT NULL
		)`, timestamp),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS ledger_entries (
			seq %s,
			id TEXT NOT NULL UNIQUE,
			account_type TEXT NOT NULL,
			account_id TEXT NOT NULL,
			entry_type TEXT NOT NULL,
			amount TEXT NOT NULL,
			balance_before TEXT NOT NULL,
			balance_after TEXT NOT NULL,
			reference TEXT NOT NULL DEFAULT '',
			created_at %s NOT NULL
		)`, sequence, timestamp),
		`CREATE INDEX IF NOT EXISTS idx_ledger_entries_account ON ledger_entries(account_type, account_id)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS platform_accounts (
			id TEXT PRIMARY KEY,
			balance TEXT NOT NULL DEFAULT '0.00',
			version BIGINT NOT NULL DEFAULT 1,
			updated_at %s NOT NULL
		)`, timestamp),
	}
}

// isUniqueViolation reports whether err comes from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	return false
}
