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

type transferRequest struct {
	from        string
	to          string
	amount      decimal.Decimal
	description string
	dryRun      bool
}

func parseFlags() transferRequest {
	fromFlag := flag.String("from", "", "Issuer email (required)")
	toFlag := flag.String("to", "", "Payee email, must be a buddy of the issuer (required)")
	amountFlag := flag.String("amount", "", "Amount to send before fees (required)")
	descriptionFlag := flag.String("description", "", "Free text shown in both histories")
	dryRunFlag := flag.Bool("dry-run", false, "Only print the fee quote")
	flag.Parse()

	if *fromFlag == "" || *toFlag == "" || *amountFlag == "" {
		zap.L().Fatal("Flags are required: --from, --to and --amount")
	}

	amount, err := decimal.NewFromString(*amountFlag)
	if err != nil {
		zap.L().Fatal("Invalid amount", zap.String("amount", *amountFlag), zap.Error(err))
	}

	return transferRequest{
		from:        *fromFlag,
		to:          *toFlag,
		amount:      amount,
		description: *descriptionFlag,
		dryRun:      *dryRunFlag,
	}
}

func printQuote(issuer *models.User, req transferRequest, quote models.FeeBreakdown) {
	fmt.Printf("Issuer:            %s %s (%s)\n", issuer.FirstName, issuer.LastName, issuer.Email)
	fmt.Printf("Payee:             %s\n", req.to)
	fmt.Printf("Current Balance:   %s\n", issuer.Balance.StringFixed(2))
	fmt.Printf("Amount:            %s\n", quote.Amount.StringFixed(2))
	fmt.Printf("Fee (0.5%%):        %s\n", quote.Fee.StringFixed(2))
	fmt.Printf("Total Debited:     %s\n", quote.AmountWithFee.StringFixed(2))
	fmt.Printf("Remaining Balance: %s\n", issuer.Balance.Sub(quote.AmountWithFee).StringFixed(2))
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

	req := parseFlags()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	issuer, err := services.ApiService.CurrentUser(ctx, req.from)
	if err != nil {
		fmt.Printf("Error: User not found for email %s\n", req.from)
		os.Exit(1)
	}

	quote, err := services.ApiService.QuoteTransfer(req.amount)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	report := common.NewReport(os.Stdout, common.DefaultWidth)
	report.Header("TRANSFER")
	printQuote(issuer, req, quote)
	report.Separator("=")

	if req.dryRun {
		fmt.Println("\nDry run: nothing was sent")
		return
	}

	tx, err := services.ApiService.Transfer(ctx, issuer, req.to, req.description, req.amount)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrInsufficientBalance):
			fmt.Printf("\n✗ Insufficient balance: %s needed\n", quote.AmountWithFee.StringFixed(2))
		case errors.Is(err, api.ErrInvalidPayee):
			fmt.Printf("\n✗ %s is not a buddy of %s\n", req.to, req.from)
		default:
			fmt.Printf("\n✗ Transfer failed: %v\n", err)
		}
		zap.L().Error("Transfer failed",
			zap.String("from", req.from),
			zap.String("to", req.to),
			zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("\n✅ Transfer created successfully!\n")
	fmt.Printf("   Transaction ID: %s\n", tx.Id)
	fmt.Printf("   Date:           %s\n", tx.Date.Format("2006-01-02 15:04:05"))
	fmt.Printf("   Amount:         %s\n\n", tx.Amount.StringFixed(2))
}
