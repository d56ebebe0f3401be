package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pay-my-buddy-go/internal/models"
	"pay-my-buddy-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Credit adds the amount to the account balance and records the entry.
func (r *Repository) Credit(ctx context.Context, params store.EntryParams) (*models.LedgerEntry, error) {
	return r.applyEntry(ctx, params, params.Amount.Abs())
}

// Debit subtracts the amount from the account balance and records the entry.
// Balances have no floor; callers decide whether an overdraft is acceptable.
func (r *Repository) Debit(ctx context.Context, params store.EntryParams) (*models.LedgerEntry, error) {
	return r.applyEntry(ctx, params, params.Amount.Abs().Neg())
}

// applyEntry updates the balance row (with optimistic locking) and appends a
// ledger entry. It must run inside the caller's transaction to be atomic with
// any sibling mutations.
func (r *Repository) applyEntry(ctx context.Context, params store.EntryParams, delta decimal.Decimal) (*models.LedgerEntry, error) {
	zap.L().Debug("Applying ledger entry",
		zap.String("account_type", params.Account.Type),
		zap.String("account_id", params.Account.Id),
		zap.String("entry_type", params.EntryType),
		zap.String("delta", delta.String()))

	var before decimal.Decimal

	switch params.Account.Type {
	case models.AccountTypeUser:
		user, err := r.GetUserForUpdate(ctx, params.Account.Id)
		if err != nil {
			return nil, fmt.Errorf("failed to get current balance: %w", err)
		}
		before = user.Balance
		if err := r.setUserBalance(ctx, user, before.Add(delta).StringFixed(2)); err != nil {
			return nil, err
		}

	case models.AccountTypeBankAccount:
		account, err := r.getBankAccount(ctx, r.dialect.forUpdate(queryGetBankAccountById), params.Account.Id)
		if err != nil {
			return nil, fmt.Errorf("failed to get current balance: %w", err)
		}
		before = account.Balance
		if err := r.setBankAccountBalance(ctx, account, before.Add(delta).StringFixed(2)); err != nil {
			return nil, err
		}

	case models.AccountTypePlatform:
		balance, version, err := r.getPlatformAccount(ctx, r.dialect.forUpdate(queryGetPlatformAccount), params.Account.Id)
		if err != nil {
			return nil, fmt.Errorf("failed to get current balance: %w", err)
		}
		before = balance
		result, err := r.exec(ctx, queryUpdatePlatformBalance, before.Add(delta).StringFixed(2), nowUTC(), params.Account.Id, version)
		if err != nil {
			return nil, fmt.Errorf("failed to update platform balance: %w", err)
		}
		if err := expectOneRow(result); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown account type %q", params.Account.Type)
	}

	entry := &models.LedgerEntry{
		Id:            uuid.New().String(),
		AccountType:   params.Account.Type,
		AccountId:     params.Account.Id,
		EntryType:     params.EntryType,
		Amount:        delta,
		BalanceBefore: before,
		BalanceAfter:  before.Add(delta),
		Reference:     params.Reference,
		CreatedAt:     nowUTC(),
	}

	_, err := r.exec(ctx, queryInsertLedgerEntry,
		entry.Id, entry.AccountType, entry.AccountId, entry.EntryType,
		entry.Amount.StringFixed(2), entry.BalanceBefore.StringFixed(2), entry.BalanceAfter.StringFixed(2),
		entry.Reference, entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	zap.L().Info("Ledger entry recorded",
		zap.String("entry_id", entry.Id),
		zap.String("account_type", entry.AccountType),
		zap.String("account_id", entry.AccountId),
		zap.String("entry_type", entry.EntryType),
		zap.String("old_balance", entry.BalanceBefore.String()),
		zap.String("new_balance", entry.BalanceAfter.String()))

	return entry, nil
}

func (r *Repository) getPlatformAccount(ctx context.Context, query, accountId string) (decimal.Decimal, int64, error) {
	var balanceStr string
	var version int64
	err := r.queryRow(ctx, query, accountId).Scan(&balanceStr, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, 0, fmt.Errorf("platform account %s: %w", accountId, store.ErrNotFound)
	}
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to get platform balance: %w", err)
	}
	balance, err := parseDecimal("balance", balanceStr)
	return balance, version, err
}

// GetAccountBalance returns the stored balance of a user or bank account, or
// the running total of the platform account.
func (r *Repository) GetAccountBalance(ctx context.Context, account models.AccountRef) (decimal.Decimal, error) {
	switch account.Type {
	case models.AccountTypeUser:
		user, err := r.GetUserById(ctx, account.Id)
		if err != nil {
			return decimal.Zero, err
		}
		return user.Balance, nil
	case models.AccountTypeBankAccount:
		bankAccount, err := r.GetBankAccountById(ctx, account.Id)
		if err != nil {
			return decimal.Zero, err
		}
		return bankAccount.Balance, nil
	case models.AccountTypePlatform:
		balance, _, err := r.getPlatformAccount(ctx, queryGetPlatformAccount, account.Id)
		return balance, err
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q", account.Type)
	}
}

// lockedBalance reads the stored balance and holds the row lock until the
// surrounding transaction ends, so no entry can land between the balance read
// and the ledger scan.
func (r *Repository) lockedBalance(ctx context.Context, account models.AccountRef) (decimal.Decimal, error) {
	switch account.Type {
	case models.AccountTypeUser:
		user, err := r.GetUserForUpdate(ctx, account.Id)
		if err != nil {
			return decimal.Zero, err
		}
		return user.Balance, nil
	case models.AccountTypeBankAccount:
		bankAccount, err := r.getBankAccount(ctx, r.dialect.forUpdate(queryGetBankAccountById), account.Id)
		if err != nil {
			return decimal.Zero, err
		}
		return bankAccount.Balance, nil
	case models.AccountTypePlatform:
		balance, _, err := r.getPlatformAccount(ctx, r.dialect.forUpdate(queryGetPlatformAccount), account.Id)
		return balance, err
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q", account.Type)
	}
}

// GetLedgerEntries returns the entries of one account in insertion order.
func (r *Repository) GetLedgerEntries(ctx context.Context, account models.AccountRef) ([]models.LedgerEntry, error) {
	rows, err := r.query(ctx, queryGetLedgerEntries, account.Type, account.Id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}
	defer closeRows(rows)

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var amountStr, beforeStr, afterStr string
		err := rows.Scan(&e.Id, &e.AccountType, &e.AccountId, &e.EntryType,
			&amountStr, &beforeStr, &afterStr, &e.Reference, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}

		if e.Amount, err = parseDecimal("amount", amountStr); err != nil {
			return nil, err
		}
		if e.BalanceBefore, err = parseDecimal("balance_before", beforeStr); err != nil {
			return nil, err
		}
		if e.BalanceAfter, err = parseDecimal("balance_after", afterStr); err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during ledger entry row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}

	return entries, nil
}

// ReconcileBalance verifies that current balance matches sum of all ledger entries.
// Run it inside WithinTx so both reads see the same state.
func (r *Repository) ReconcileBalance(ctx context.Context, account models.AccountRef) error {
	zap.L().Debug("Reconciling balance",
		zap.String("account_type", account.Type),
		zap.String("account_id", account.Id))

	currentBalance, err := r.lockedBalance(ctx, account)
	if err != nil {
		return fmt.Errorf("failed to get current balance: %w", err)
	}

	entries, err := r.GetLedgerEntries(ctx, account)
	if err != nil {
		return fmt.Errorf("failed to calculate balance from entries: %w", err)
	}

	calculatedBalance := decimal.Zero
	for _, e := range entries {
		calculatedBalance = calculatedBalance.Add(e.Amount)
	}

	// Check if balances match (exact decimal comparison)
	if !currentBalance.Equal(calculatedBalance) {
		zap.L().Error("Balance reconciliation failed",
			zap.String("account_type", account.Type),
			zap.String("account_id", account.Id),
			zap.String("current_balance", currentBalance.String()),
			zap.String("calculated_balance", calculatedBalance.String()),
			zap.String("difference", currentBalance.Sub(calculatedBalance).String()))
		return fmt.Errorf("balance mismatch: current=%s, calculated=%s", currentBalance.String(), calculatedBalance.String())
	}

	zap.L().Debug("Balance reconciliation successful",
		zap.String("account_type", account.Type),
		zap.String("account_id", account.Id),
		zap.String("balance", currentBalance.String()))
	return nil
}
