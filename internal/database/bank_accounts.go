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

func scanBankAccount(row rowScanner) (*models.BankAccount, error) {
	var account models.BankAccount
	var balanceStr string
	err := row.Scan(&account.Id, &account.UserId, &account.BankName, &account.Iban,
		&balanceStr, &account.Version, &account.CreatedAt)
	if err != nil {
		return nil, err
	}

	account.Balance, err = parseDecimal("balance", balanceStr)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *Repository) getBankAccount(ctx context.Context, query, key string) (*models.BankAccount, error) {
	account, err := scanBankAccount(r.queryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("bank account for %s: %w", key, store.ErrNotFound)
		}
		zap.L().Error("Failed to query bank account", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("unable to query bank account: %w", err)
	}
	return account, nil
}

func (r *Repository) GetBankAccountById(ctx context.Context, bankAccountId string) (*models.BankAccount, error) {
	return r.getBankAccount(ctx, queryGetBankAccountById, bankAccountId)
}

func (r *Repository) GetBankAccountByUser(ctx context.Context, userId string) (*models.BankAccount, error) {
	return r.getBankAccount(ctx, queryGetBankAccountByUser, userId)
}

func (r *Repository) GetBankAccountByUserForUpdate(ctx context.Context, userId string) (*models.BankAccount, error) {
	return r.getBankAccount(ctx, r.dialect.forUpdate(queryGetBankAccountByUser), userId)
}

func (r *Repository) InsertBankAccount(ctx context.Context, account *models.BankAccount) error {
	zap.L().Info("Storing bank account",
		zap.String("id", account.Id),
		zap.String("user_id", account.UserId),
		zap.String("bank_name", account.BankName))

	_, err := r.exec(ctx, queryInsertBankAccount,
		account.Id, account.UserId, account.BankName, account.Iban,
		account.Balance.StringFixed(2), account.Version, account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("bank account for user %s: %w", account.UserId, store.ErrDuplicate)
		}
		zap.L().Error("Failed to insert bank account", zap.Error(err))
		return fmt.Errorf("unable to insert bank account: %w", err)
	}
	return nil
}

func (r *Repository) DeleteBankAccount(ctx context.Context, bankAccountId string) error {
	result, err := r.exec(ctx, queryDeleteBankAccount, bankAccountId)
	if err != nil {
		return fmt.Errorf("unable to delete bank account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("bank account %s: %w", bankAccountId, store.ErrNotFound)
	}

	if _, err := r.exec(ctx, queryDeleteLedgerEntries, models.AccountTypeBankAccount, bankAccountId); err != nil {
		return fmt.Errorf("unable to delete ledger entries: %w", err)
	}
	return nil
}

func (r *Repository) setBankAccountBalance(ctx context.Context, account *models.BankAccount, balance string) error {
	result, err := r.exec(ctx, queryUpdateBankAccountBalance, balance, account.Id, account.Version)
	if err != nil {
		return fmt.Errorf("failed to update bank account balance: %w", err)
	}
	return expectOneRow(result)
}
