package api

import (
	"context"
	"fmt"

	"pay-my-buddy-go/internal/metrics"
	"pay-my-buddy-go/internal/models"
	"pay-my-buddy-go/internal/money"
	"pay-my-buddy-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	directionDeposit  = "deposit"
	directionWithdraw = "withdraw"
)

// Deposit moves money from the user's bank account onto their balance.
// The sign of the input is ignored.
func (s *Service) Deposit(ctx context.Context, user *models.User, amount string) (models.UserView, error) {
	return s.fund(ctx, user, amount, directionDeposit)
}

// Withdraw moves money from the user's balance back to their bank account.
// The sign of the input is ignored.
func (s *Service) Withdraw(ctx context.Context, user *models.User, amount string) (models.UserView, error) {
	return s.fund(ctx, user, amount, directionWithdraw)
}

func (s *Service) fund(ctx context.Context, user *models.User, raw, direction string) (models.UserView, error) {
	view, err := s.applyFunding(ctx, user, raw, direction)
	if err != nil {
		s.metrics.RecordFunding(direction, outcomeOf(err))
		zap.L().Info("Funding rejected",
			zap.String("direction", direction),
			zap.String("amount", raw),
			zap.Error(err))
		return models.UserView{}, err
	}
	s.metrics.RecordFunding(direction, metrics.OutcomeSuccess)
	return view, nil
}

func (s *Service) applyFunding(ctx context.Context, user *models.User, raw, direction string) (models.UserView, error) {
	if user == nil {
		return models.UserView{}, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}

	var (
		amount  decimal.Decimal
		updated models.UserView
	)
	err := s.store.WithinTx(ctx, func(q store.Queries) error {
		if _, err := q.GetUserForUpdate(ctx, user.Id); err != nil {
			return notFound(err, ErrUserNotFound, user.Id)
		}

		account, err := q.GetBankAccountByUserForUpdate(ctx, user.Id)
		if err != nil {
			return notFound(err, ErrBankAccountNotFound, user.Email)
		}

		amount, err = money.ParseAmount(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		bank := store.EntryParams{Account: models.BankAccountRef(account.Id), Amount: amount, Reference: user.Id}
		balance := store.EntryParams{Account: models.UserAccount(user.Id), Amount: amount, Reference: account.Id}

		if direction == directionDeposit {
			bank.EntryType, balance.EntryType = models.EntryTypeDeposit, models.EntryTypeDeposit
			if _, err := q.Debit(ctx, bank); err != nil {
				return err
			}
			if _, err := q.Credit(ctx, balance); err != nil {
				return err
			}
		} else {
			bank.EntryType, balance.EntryType = models.EntryTypeWithdrawal, models.EntryTypeWithdrawal
			if _, err := q.Debit(ctx, balance); err != nil {
				return err
			}
			if _, err := q.Credit(ctx, bank); err != nil {
				return err
			}
		}

		fresh, err := q.GetUserById(ctx, user.Id)
		if err != nil {
			return err
		}
		updated = userView(fresh)
		return nil
	})
	if err != nil {
		return models.UserView{}, err
	}

	zap.L().Info("Funding processed successfully",
		zap.String("direction", direction),
		zap.String("user_id", user.Id),
		zap.String("amount", amount.String()),
		zap.String("new_balance", updated.Balance.String()))
	return updated, nil
}
