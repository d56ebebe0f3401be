package models

import "time"

// Config represents the application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Auth       AuthConfig
	Reconciler ReconcilerConfig
	LogLevel   string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // "sqlite3" or "pgx"
	Path            string // sqlite file
	URL             string // postgres connection string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	SeedFile        string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// AuthConfig holds bearer token settings
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

// ReconcilerConfig holds ledger reconciliation job settings
type ReconcilerConfig struct {
	Enabled  bool
	Schedule string
}
