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

package common

import (
	"context"
	"errors"
	"fmt"

	"pay-my-buddy-go/internal/api"
	"pay-my-buddy-go/internal/models"

	"go.uber.org/zap"
)

// InitializeUsers retrieves users based on an optional email filter.
// If emailFilter is provided, returns a single user with that email.
// If emailFilter is empty, returns all users.
func InitializeUsers(ctx context.Context, service *api.Service, emailFilter string) ([]models.UserView, error) {
	var users []models.UserView

	if emailFilter != "" {
		zap.L().Info("Looking up user by email", zap.String("email", emailFilter))
		user, err := service.GetUserByEmail(ctx, emailFilter)
		if err != nil {
			return nil, fmt.Errorf("user not found: %w", err)
		}
		users = append(users, user)
	} else {
		allUsers, err := service.GetUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get users: %w", err)
		}
		users = allUsers
	}

	zap.L().Info("Retrieved users", zap.Int("count", len(users)))
	return users, nil
}

// SeedUsers creates the users, bank accounts and connections of a seed file.
// Users whose email already exists are left untouched, so seeding twice is safe.
func SeedUsers(ctx context.Context, service *api.Service, seed *SeedConfig) error {
	created := 0
	for _, entry := range seed.Users {
		balance, err := parseSeedAmount(entry.Balance)
		if err != nil {
			return err
		}

		user, err := service.CreateUserWithBalance(ctx, models.SignupRequest{
			Email:     entry.Email,
			FirstName: entry.FirstName,
			LastName:  entry.LastName,
			Password:  entry.Password,
		}, balance)
		if errors.Is(err, api.ErrEmailAlreadyUsed) {
			zap.L().Info("Seed user already exists", zap.String("email", entry.Email))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", entry.Email, err)
		}
		created++

		if entry.BankAccount == nil {
			continue
		}
		bankBalance, err := parseSeedAmount(entry.BankAccount.Balance)
		if err != nil {
			return err
		}
		if _, err := service.CreateBankAccount(ctx, user, entry.BankAccount.BankName, entry.BankAccount.Iban, bankBalance); err != nil {
			return fmt.Errorf("failed to create bank account for %s: %w", entry.Email, err)
		}
	}

	for _, conn := range seed.Connections {
		initializer, err := service.CurrentUser(ctx, conn.From)
		if err != nil {
			return fmt.Errorf("unknown seed connection user %s: %w", conn.From, err)
		}
		_, err = service.CreateConnection(ctx, initializer, conn.To)
		if err != nil && !errors.Is(err, api.ErrDuplicateConnection) {
			return fmt.Errorf("failed to connect %s to %s: %w", conn.From, conn.To, err)
		}
	}

	zap.L().Info("Seed data loaded",
		zap.Int("users_created", created),
		zap.Int("connections", len(seed.Connections)))
	return nil
}
