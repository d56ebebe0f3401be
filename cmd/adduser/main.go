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

type bankAccountFlags struct {
	bankName string
	iban     string
	balance  string
}

func (b bankAccountFlags) requested() bool {
	return b.iban != ""
}

func parseOptionalAmount(name, raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		zap.L().Fatal("Invalid amount", zap.String("flag", name), zap.String("value", raw), zap.Error(err))
	}
	return amount
}

func createBankAccount(ctx context.Context, service *api.Service, user *models.User, flags bankAccountFlags) (models.BankAccountView, error) {
	zap.L().Info("Creating bank account",
		zap.String("user_id", user.Id),
		zap.String("bank_name", flags.bankName))

	return service.CreateBankAccount(ctx, user, flags.bankName, flags.iban, parseOptionalAmount("bank-balance", flags.balance))
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	_, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	// Parse command line flags
	firstNameFlag := flag.String("first-name", "", "User's first name (required)")
	lastNameFlag := flag.String("last-name", "", "User's last name (required)")
	emailFlag := flag.String("email", "", "User's email address (required)")
	passwordFlag := flag.String("password", "", "User's password, 8 to 72 characters (required)")
	balanceFlag := flag.String("balance", "", "Opening balance (optional)")
	var bank bankAccountFlags
	flag.StringVar(&bank.bankName, "bank-name", "", "Bank name of the linked account (optional)")
	flag.StringVar(&bank.iban, "iban", "", "IBAN of the linked account (optional)")
	flag.StringVar(&bank.balance, "bank-balance", "", "Opening balance of the linked account (optional)")
	flag.Parse()

	if *firstNameFlag == "" || *lastNameFlag == "" || *emailFlag == "" || *passwordFlag == "" {
		zap.L().Fatal("Flags are required: --first-name, --last-name, --email and --password")
	}

	zap.L().Info("Starting user creation process",
		zap.String("email", *emailFlag))

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	user, err := services.ApiService.CreateUserWithBalance(ctx, models.SignupRequest{
		Email:     *emailFlag,
		FirstName: *firstNameFlag,
		LastName:  *lastNameFlag,
		Password:  *passwordFlag,
	}, parseOptionalAmount("balance", *balanceFlag))
	if err != nil {
		if errors.Is(err, api.ErrEmailAlreadyUsed) {
			zap.L().Fatal("User already exists with this email", zap.String("email", *emailFlag))
		}
		zap.L().Fatal("Failed to create user", zap.Error(err))
	}

	report := common.NewReport(os.Stdout, common.DefaultWidth)
	report.Header("USER CREATED")
	fmt.Printf("ID:      %s\n", user.Id)
	fmt.Printf("Name:    %s %s\n", user.FirstName, user.LastName)
	fmt.Printf("Email:   %s\n", user.Email)
	fmt.Printf("Balance: %s\n", user.Balance.StringFixed(2))
	report.Separator("=")

	zap.L().Info("User created successfully", zap.String("id", user.Id))

	if !bank.requested() {
		fmt.Println("\nNo bank account linked. Re-run with --iban to fund this user from a bank.")
		return
	}

	account, err := createBankAccount(ctx, services.ApiService, user, bank)
	if err != nil {
		zap.L().Error("User created but bank account was rejected",
			zap.String("user_id", user.Id),
			zap.Error(err))
		fmt.Printf("\n✗ Bank account not linked: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n✓ Bank account %s (%s) linked with balance %s\n", account.Iban, account.BankName, account.Balance.StringFixed(2))
}
