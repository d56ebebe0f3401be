package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pay-my-buddy-go/internal/models"
	"pay-my-buddy-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReconcileReport summarizes one reconciliation pass over every account
type ReconcileReport struct {
	Accounts   int
	Mismatches []string
	Duration   time.Duration
}

func (r ReconcileReport) Ok() bool {
	return len(r.Mismatches) == 0
}

// Reconcile checks that every user, bank account and the fee account hold the
// balance their ledger entries add up to.
func (s *Service) Reconcile(ctx context.Context) (ReconcileReport, error) {
	start := time.Now()

	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return ReconcileReport{}, fmt.Errorf("failed to list users: %w", err)
	}

	accounts := []models.AccountRef{models.FeeAccount()}
	for _, u := range users {
		accounts = append(accounts, models.UserAccount(u.Id))

		bank, err := s.store.GetBankAccountByUser(ctx, u.Id)
		switch {
		case err == nil:
			accounts = append(accounts, models.BankAccountRef(bank.Id))
		case !errors.Is(err, store.ErrNotFound):
			return ReconcileReport{}, err
		}
	}

	report := ReconcileReport{Accounts: len(accounts)}
	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		err := s.store.WithinTx(ctx, func(q store.Queries) error {
			return q.ReconcileBalance(ctx, account)
		})
		if err != nil {
			report.Mismatches = append(report.Mismatches, fmt.Sprintf("%s/%s: %v", account.Type, account.Id, err))
		}
	}
	report.Duration = time.Since(start)

	s.metrics.RecordReconciliation(report.Accounts, len(report.Mismatches), report.Duration)
	if report.Ok() {
		zap.L().Info("Reconciliation completed", zap.Int("accounts", report.Accounts), zap.Duration("duration", report.Duration))
	} else {
		zap.L().Error("Reconciliation found mismatches",
			zap.Int("accounts", report.Accounts),
			zap.Int("mismatches", len(report.Mismatches)),
			zap.Strings("details", report.Mismatches))
	}
	return report, nil
}

// PlatformFees returns the total retained by the platform
func (s *Service) PlatformFees(ctx context.Context) (decimal.Decimal, error) {
	return s.store.GetAccountBalance(ctx, models.FeeAccount())
}
