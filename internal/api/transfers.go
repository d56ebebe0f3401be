package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pay-my-buddy-go/internal/metrics"
	"pay-my-buddy-go/internal/models"
	"pay-my-buddy-go/internal/money"
	"pay-my-buddy-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuoteTransfer returns what a transfer of amount would cost the issuer
func (s *Service) QuoteTransfer(amount decimal.Decimal) (models.FeeBreakdown, error) {
	return transferBreakdown(amount)
}

// transferBreakdown rejects amounts that are not positive once rounded to
// cents, so no transfer of 0.00 is ever recorded.
func transferBreakdown(amount decimal.Decimal) (models.FeeBreakdown, error) {
	if err := money.CheckBounds(amount); err != nil {
		return models.FeeBreakdown{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if !amount.IsPositive() {
		return models.FeeBreakdown{}, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidAmount, amount.String())
	}

	breakdown := money.CalculateAmountWithFee(amount)
	if !breakdown.Amount.IsPositive() {
		return models.FeeBreakdown{}, fmt.Errorf("%w: %s rounds to %s", ErrInvalidAmount, amount.String(), money.Format(breakdown.Amount))
	}
	return breakdown, nil
}

// Transfer sends amount to the user owning payeeEmail
func (s *Service) Transfer(ctx context.Context, issuer *models.User, payeeEmail, description string, amount decimal.Decimal) (models.TransactionView, error) {
	if issuer == nil {
		return models.TransactionView{}, fmt.Errorf("%w: issuer is required", ErrInvalidInput)
	}

	payeeEmail = strings.TrimSpace(payeeEmail)
	payee, err := s.store.GetUserByEmail(ctx, payeeEmail)
	if err != nil {
		err = notFound(err, ErrPeerNotFound, payeeEmail)
		s.metrics.RecordTransfer(outcomeOf(err), amount, decimal.Zero, 0)
		return models.TransactionView{}, err
	}

	tx, err := s.CreateTransaction(ctx, issuer, payee, description, amount)
	if err != nil {
		return models.TransactionView{}, err
	}

	return newUserResolver(s.store).transactionView(ctx, *tx)
}

// CreateTransaction moves amount from issuer to payee and charges the fee to
// the issuer. Checks run in a fixed order: inputs, amount, balance, then the
// connection. All mutations commit together or not at all.
func (s *Service) CreateTransaction(ctx context.Context, issuer, payee *models.User, description string, amount decimal.Decimal) (*models.Transaction, error) {
	start := time.Now()

	tx, breakdown, err := s.createTransaction(ctx, issuer, payee, description, amount)
	if err != nil {
		s.metrics.RecordTransfer(outcomeOf(err), amount, decimal.Zero, time.Since(start))
		if outcomeOf(err) == metrics.OutcomeError {
			zap.L().Error("Transfer failed", zap.String("amount", amount.String()), zap.Error(err))
		} else {
			zap.L().Info("Transfer rejected", zap.String("amount", amount.String()), zap.Error(err))
		}
		return nil, err
	}

	s.metrics.RecordTransfer(metrics.OutcomeSuccess, breakdown.Amount, breakdown.Fee, time.Since(start))
	zap.L().Info("Transfer processed successfully",
		zap.String("transaction_id", tx.Id),
		zap.String("issuer_id", tx.IssuerId),
		zap.String("payee_id", tx.PayeeId),
		zap.String("amount", tx.Amount.String()),
		zap.String("fee", tx.Fee.String()),
		zap.String("amount_with_fee", breakdown.AmountWithFee.String()))
	return tx, nil
}

func (s *Service) createTransaction(ctx context.Context, issuer, payee *models.User, description string, amount decimal.Decimal) (*models.Transaction, models.FeeBreakdown, error) {
	if issuer == nil || payee == nil {
		return nil, models.FeeBreakdown{}, fmt.Errorf("%w: issuer and payee are required", ErrInvalidInput)
	}
	breakdown, err := transferBreakdown(amount)
	if err != nil {
		return nil, models.FeeBreakdown{}, err
	}

	tx := &models.Transaction{
		Id:          uuid.New().String(),
		IssuerId:    issuer.Id,
		PayeeId:     payee.Id,
		Amount:      breakdown.Amount,
		Fee:         breakdown.Fee,
		Description: description,
	}

	err = s.store.WithinTx(ctx, func(q store.Queries) error {
		lockedIssuer, err := lockUsers(ctx, q, issuer.Id, payee.Id)
		if err != nil {
			return err
		}

		if lockedIssuer.Balance.LessThan(breakdown.AmountWithFee) {
			return fmt.Errorf("%w: balance %s is below %s", ErrInsufficientBalance,
				money.Format(lockedIssuer.Balance), money.Format(breakdown.AmountWithFee))
		}

		connected, err := q.ConnectionExists(ctx, issuer.Id, payee.Id)
		if err != nil {
			return err
		}
		if !connected {
			return fmt.Errorf("%w: %s is not a buddy", ErrInvalidPayee, payee.Email)
		}

		if _, err := q.Debit(ctx, store.EntryParams{
			Account:   models.UserAccount(issuer.Id),
			EntryType: models.EntryTypeTransferDebit,
			Amount:    breakdown.AmountWithFee,
			Reference: tx.Id,
		}); err != nil {
			return err
		}

		if _, err := q.Credit(ctx, store.EntryParams{
			Account:   models.UserAccount(payee.Id),
			EntryType: models.EntryTypeTransferCredit,
			Amount:    breakdown.Amount,
			Reference: tx.Id,
		}); err != nil {
			return err
		}

		if breakdown.Fee.IsPositive() {
			if _, err := q.Credit(ctx, store.EntryParams{
				Account:   models.FeeAccount(),
				EntryType: models.EntryTypeFee,
				Amount:    breakdown.Fee,
				Reference: tx.Id,
			}); err != nil {
				return err
			}
		}

		tx.Date = s.clock.Now()
		return q.InsertTransaction(ctx, tx)
	})
	if err != nil {
		return nil, breakdown, err
	}

	return tx, breakdown, nil
}

// lockUsers locks both rows in id order and returns the issuer as read under
// the lock.
func lockUsers(ctx context.Context, q store.Queries, issuerId, payeeId string) (*models.User, error) {
	ids := []string{issuerId, payeeId}
	if payeeId < issuerId {
		ids = []string{payeeId, issuerId}
	}

	var issuer *models.User
	for i, id := range ids {
		if i == 1 && id == ids[0] {
			break
		}
		u, err := q.GetUserForUpdate(ctx, id)
		if err != nil {
			return nil, notFound(err, ErrUserNotFound, id)
		}
		if id == issuerId {
			issuer = u
		}
	}
	return issuer, nil
}

func (s *Service) GetTransactions(ctx context.Context) ([]models.TransactionView, error) {
	transactions, err := s.store.GetTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return newUserResolver(s.store).transactionViews(ctx, transactions)
}

func (s *Service) GetTransactionById(ctx context.Context, transactionId string) (models.TransactionView, error) {
	tx, err := s.store.GetTransactionById(ctx, transactionId)
	if err != nil {
		return models.TransactionView{}, notFound(err, ErrTransactionNotFound, transactionId)
	}
	return newUserResolver(s.store).transactionView(ctx, *tx)
}

// GetUserTransactions lists the transfers a user sent or received, newest first
func (s *Service) GetUserTransactions(ctx context.Context, userId string) ([]models.TransactionView, error) {
	if _, err := s.store.GetUserById(ctx, userId); err != nil {
		return nil, notFound(err, ErrUserNotFound, userId)
	}

	transactions, err := s.store.GetTransactionsByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	return newUserResolver(s.store).transactionViews(ctx, transactions)
}

func (s *Service) TransactionsPage(ctx context.Context, user *models.User, page, size int) (models.Page[models.TransactionView], error) {
	if user == nil {
		return models.Page[models.TransactionView]{}, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	views, err := s.GetUserTransactions(ctx, user.Id)
	if err != nil {
		return models.Page[models.TransactionView]{}, err
	}
	return Paginate(views, page, size), nil
}
