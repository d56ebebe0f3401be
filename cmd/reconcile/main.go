package main

import (
	"context"
	"fmt"
	"os"

	"pay-my-buddy-go/internal/common"
	"pay-my-buddy-go/internal/config"
	"pay-my-buddy-go/internal/reconciler"

	"go.uber.org/zap"
)

// reconcile runs a single ledger reconciliation pass and exits non-zero on
// any mismatch.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	_, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	result, err := reconciler.New(services.ApiService, cfg.Reconciler.Schedule).RunOnce(ctx)
	if err != nil {
		zap.L().Fatal("Reconciliation failed", zap.Error(err))
	}

	report := common.NewReport(os.Stdout, common.DefaultWidth)
	report.Header("LEDGER RECONCILIATION")
	fmt.Printf("Accounts checked: %d\n", result.Accounts)
	fmt.Printf("Duration:         %s\n", result.Duration)
	for i, account := range result.Mismatches {
		fmt.Printf("%s mismatch %s\n", common.BoxPrefix(i == len(result.Mismatches)-1), account)
	}

	if !result.Ok() {
		report.Footer(fmt.Sprintf("FAILED: %d accounts out of balance", len(result.Mismatches)))
		os.Exit(1)
	}
	report.Footer("OK: every balance matches its ledger")
}
