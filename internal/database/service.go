/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pay-my-buddy-go/internal/models"
	"pay-my-buddy-go/internal/store"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.Store.
var _ store.Store = (*Service)(nil)

// Service owns the connection pool. Its embedded Repository runs queries
// outside any transaction; WithinTx hands out a transaction-scoped one.
type Service struct {
	*Repository
	db      *sql.DB
	dialect dialect
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	var dsn string
	switch cfg.Driver {
	case driverSQLite, "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("database path cannot be empty")
		}
		cfg.Driver = driverSQLite
		zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
		dsn = cfg.Path + "?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000" +
			"&_busy_timeout=5000&_txlock=immediate&_foreign_keys=on"
	case driverPostgres:
		if cfg.URL == "" {
			return nil, fmt.Errorf("database url cannot be empty")
		}
		zap.L().Info("Opening Postgres database")
		dsn = cfg.URL
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			zap.L().Warn("Failed to close database after ping failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	d := dialect{driver: cfg.Driver}
	service := &Service{Repository: newRepository(db, d), db: db, dialect: d}
	if err := service.initSchema(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			zap.L().Warn("Failed to close database after schema failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully", zap.String("driver", cfg.Driver))
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Service) initSchema(ctx context.Context) error {
	for _, statement := range s.dialect.schema() {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return err
		}
	}

	// The fee account is a fixed row so writers can lock it like any balance.
	_, err := s.db.ExecContext(ctx, s.dialect.rebind(queryEnsurePlatformAccount), models.PlatformFeeAccount, nowUTC())
	if err != nil {
		return fmt.Errorf("failed to create platform fee account: %w", err)
	}
	return nil
}

// WithinTx runs fn in a single database transaction
func (s *Service) WithinTx(ctx context.Context, fn func(q store.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			zap.L().Warn("Failed to roll back transaction", zap.Error(err))
		}
	}()

	if err := fn(newRepository(tx, s.dialect)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
