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
	"errors"
	"fmt"

	"pay-my-buddy-go/internal/models"
	"pay-my-buddy-go/internal/store"

	"go.uber.org/zap"
)

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var balanceStr string
	err := row.Scan(&user.Id, &user.Email, &user.FirstName, &user.LastName, &user.PasswordHash,
		&balanceStr, &user.Version, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	user.Balance, err = parseDecimal("balance", balanceStr)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUsers(ctx context.Context) ([]models.User, error) {
	zap.L().Debug("Querying users")

	rows, err := r.query(ctx, queryGetUsers)
	if err != nil {
		zap.L().Error("Failed to query users", zap.Error(err))
		return nil, fmt.Errorf("unable to query users: %w", err)
	}
	defer closeRows(rows)

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			zap.L().Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("unable to scan user row: %w", err)
		}
		users = append(users, *user)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during user row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	zap.L().Debug("Retrieved users", zap.Int("count", len(users)))
	return users, nil
}

func (r *Repository) GetUserById(ctx context.Context, userId string) (*models.User, error) {
	return r.getUser(ctx, queryGetUserById, "id", userId)
}

// GetUserForUpdate reads the user row and locks it until the surrounding
// transaction ends.
func (r *Repository) GetUserForUpdate(ctx context.Context, userId string) (*models.User, error) {
	return r.getUser(ctx, r.dialect.forUpdate(queryGetUserById), "id", userId)
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, queryGetUserByEmail, "email", email)
}

func (r *Repository) GetUserByName(ctx context.Context, firstName, lastName string) (*models.User, error) {
	return r.getUser(ctx, queryGetUserByName, "name", firstName, lastName)
}

func (r *Repository) getUser(ctx context.Context, query, field string, args ...any) (*models.User, error) {
	zap.L().Debug("Querying user", zap.String("by", field), zap.Any("value", args))

	user, err := scanUser(r.queryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s %v: %w", field, args, store.ErrNotFound)
		}
		zap.L().Error("Failed to query user", zap.String("by", field), zap.Error(err))
		return nil, fmt.Errorf("unable to query user by %s: %w", field, err)
	}

	return user, nil
}

func (r *Repository) InsertUser(ctx context.Context, user *models.User) error {
	zap.L().Info("Creating user", zap.String("id", user.Id), zap.String("email", user.Email))

	_, err := r.exec(ctx, queryInsertUser,
		user.Id, user.Email, user.FirstName, user.LastName, user.PasswordHash,
		user.Balance.StringFixed(2), user.Version, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user with email %s: %w", user.Email, store.ErrDuplicate)
		}
		zap.L().Error("Failed to insert user", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("unable to insert user: %w", err)
	}

	return nil
}

func (r *Repository) DeleteUser(ctx context.Context, userId string) error {
	zap.L().Info("Deleting user", zap.String("user_id", userId))

	account, err := r.GetBankAccountByUser(ctx, userId)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if account != nil {
		if _, err := r.exec(ctx, queryDeleteLedgerEntries, models.AccountTypeBankAccount, account.Id); err != nil {
			return fmt.Errorf("unable to delete bank account ledger entries: %w", err)
		}
	}

	result, err := r.exec(ctx, queryDeleteUser, userId)
	if err != nil {
		zap.L().Error("Failed to delete user", zap.String("user_id", userId), zap.Error(err))
		return fmt.Errorf("unable to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", userId, store.ErrNotFound)
	}

	if _, err := r.exec(ctx, queryDeleteLedgerEntries, models.AccountTypeUser, userId); err != nil {
		return fmt.Errorf("unable to delete ledger entries: %w", err)
	}

	return nil
}

// setUserBalance writes a new balance guarded by the version read earlier.
func (r *Repository) setUserBalance(ctx context.Context, user *models.User, balance string) error {
	result, err := r.exec(ctx, queryUpdateUserBalance, balance, nowUTC(), user.Id, user.Version)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return expectOneRow(result)
}
