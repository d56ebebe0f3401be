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
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"pay-my-buddy-go/internal/api"
	"pay-my-buddy-go/internal/common"
	"pay-my-buddy-go/internal/config"
	"pay-my-buddy-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type balanceStats struct {
	totalUsers       int
	withBankAccounts int
	totalBalance     decimal.Decimal
}

func printUser(ctx context.Context, report *common.Report, service *api.Service, user models.UserView) (bool, error) {
	report.Section(fmt.Sprintf("User: %s %s (%s)", user.FirstName, user.LastName, user.Email),
		fmt.Sprintf("ID: %s", user.Id))

	current, err := service.CurrentUser(ctx, user.Email)
	if err != nil {
		return false, fmt.Errorf("failed to load user: %w", err)
	}

	account, err := service.GetBankAccount(ctx, current)
	if errors.Is(err, api.ErrNotFound) {
		report.Item("Balance", common.FormatMoney(user.Balance), true)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get bank account: %w", err)
	}

	report.Item("Balance", common.FormatMoney(user.Balance), false)
	report.Item("Bank "+account.BankName, fmt.Sprintf("%s  (%s)", common.FormatMoney(account.Balance), account.Iban), true)
	return true, nil
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	// Parse command line flags
	emailFlag := flag.String("email", "", "Filter by specific user email (optional)")
	flag.Parse()

	logger.Info("Starting balance query")

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	users, err := common.InitializeUsers(ctx, services.ApiService, *emailFlag)
	if err != nil {
		logger.Fatal("Failed to initialize users", zap.Error(err))
	}

	report := common.NewReport(os.Stdout, common.DefaultWidth)
	report.Header("USER BALANCE REPORT")

	stats := balanceStats{}
	for _, user := range users {
		stats.totalUsers++
		stats.totalBalance = stats.totalBalance.Add(user.Balance)

		linked, err := printUser(ctx, report, services.ApiService, user)
		if err != nil {
			logger.Error("Failed to process user",
				zap.String("user_id", user.Id),
				zap.String("email", user.Email),
				zap.Error(err))
			continue
		}
		if linked {
			stats.withBankAccounts++
		}
	}

	fees, err := services.ApiService.PlatformFees(ctx)
	if err != nil {
		logger.Error("Failed to read platform fees", zap.Error(err))
	}

	report.Footer(fmt.Sprintf("SUMMARY: %d users (%d with a bank account), %s held, %s collected in fees",
		stats.totalUsers, stats.withBankAccounts,
		stats.totalBalance.StringFixed(2), fees.StringFixed(2)))

	logger.Info("Balance query completed",
		zap.Int("users_queried", stats.totalUsers),
		zap.Int("with_bank_accounts", stats.withBankAccounts))
}
