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

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var tx models.Transaction
	var amountStr, feeStr string
	err := row.Scan(&tx.Id, &tx.IssuerId, &tx.PayeeId, &tx.Date, &amountStr, &feeStr, &tx.Description)
	if err != nil {
		return nil, err
	}

	tx.Amount, err = parseDecimal("amount", amountStr)
	if err != nil {
		return nil, err
	}
	tx.Fee, err = parseDecimal("fee", feeStr)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *Repository) listTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		zap.L().Error("Failed to query transactions", zap.Error(err))
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer closeRows(rows)

	var transactions []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *tx)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during transaction row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, nil
}

func (r *Repository) GetTransactions(ctx context.Context) ([]models.Transaction, error) {
	return r.listTransactions(ctx, queryGetTransactions)
}

// GetTransactionsByUser returns the transfers a user sent or received, newest first.
func (r *Repository) GetTransactionsByUser(ctx context.Context, userId string) ([]models.Transaction, error) {
	zap.L().Debug("Getting transaction history", zap.String("user_id", userId))
	return r.listTransactions(ctx, queryGetTransactionsByUser, userId, userId)
}

func (r *Repository) GetTransactionsByIssuer(ctx context.Context, issuerId string) ([]models.Transaction, error) {
	return r.listTransactions(ctx, queryGetTransactionsByIssuer, issuerId)
}

func (r *Repository) GetTransactionsByPayee(ctx context.Context, payeeId string) ([]models.Transaction, error) {
	return r.listTransactions(ctx, queryGetTransactionsByPayee, payeeId)
}

func (r *Repository) GetTransactionById(ctx context.Context, transactionId string) (*models.Transaction, error) {
	tx, err := scanTransaction(r.queryRow(ctx, queryGetTransactionById, transactionId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", transactionId, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return tx, nil
}

func (r *Repository) InsertTransaction(ctx context.Context, tx *models.Transaction) error {
	_, err := r.exec(ctx, queryInsertTransaction,
		tx.Id, tx.IssuerId, tx.PayeeId, tx.Date, tx.Amount.StringFixed(2), tx.Fee.StringFixed(2), tx.Description)
	if err != nil {
		zap.L().Error("Failed to insert transaction", zap.String("transaction_id", tx.Id), zap.Error(err))
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	zap.L().Info("Transaction recorded",
		zap.String("transaction_id", tx.Id),
		zap.String("issuer_id", tx.IssuerId),
		zap.String("payee_id", tx.PayeeId),
		zap.String("amount", tx.Amount.String()),
		zap.String("fee", tx.Fee.String()))
	return nil
}
