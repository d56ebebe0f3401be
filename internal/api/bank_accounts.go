package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pay-my-buddy-go/internal/models"
	"pay-my-buddy-go/internal/money"
	"pay-my-buddy-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateBankAccount links a bank account to the user. A user has at most one.
// The opening balance is recorded in the ledger.
func (s *Service) CreateBankAccount(ctx context.Context, user *models.User, bankName, iban string, balance decimal.Decimal) (models.BankAccountView, error) {
	if user == nil {
		return models.BankAccountView{}, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	if err := validateName("bank name", bankName); err != nil {
		return models.BankAccountView{}, err
	}
	iban = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(iban), " ", ""))
	if len(iban) < 15 || len(iban) > 34 {
		return models.BankAccountView{}, fmt.Errorf("%w: invalid iban length", ErrInvalidInput)
	}
	if err := money.CheckBounds(balance); err != nil {
		return models.BankAccountView{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if balance.IsNegative() {
		return models.BankAccountView{}, fmt.Errorf("%w: opening balance cannot be negative", ErrInvalidAmount)
	}

	account := &models.BankAccount{
		Id:        uuid.New().String(),
		UserId:    user.Id,
		BankName:  strings.TrimSpace(bankName),
		Iban:      iban,
		Balance:   decimal.Zero,
		Version:   1,
		CreatedAt: s.clock.Now(),
	}

	err := s.store.WithinTx(ctx, func(q store.Queries) error {
		if err := q.InsertBankAccount(ctx, account); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fmt.Errorf("%w: user already has a bank account", ErrInvalidInput)
			}
			return err
		}

		if balance.IsPositive() {
			entry, err := q.Credit(ctx, store.EntryParams{
				Account:   models.BankAccountRef(account.Id),
				EntryType: models.EntryTypeOpening,
				Amount:    money.Round(balance),
				Reference: "opening balance",
			})
			if err != nil {
				return err
			}
			account.Balance = entry.BalanceAfter
		}
		return nil
	})
	if err != nil {
		return models.BankAccountView{}, err
	}

	zap.L().Info("Bank account created",
		zap.String("bank_account_id", account.Id),
		zap.String("user_id", user.Id),
		zap.String("balance", account.Balance.String()))
	return bankAccountView(account), nil
}

func (s *Service) GetBankAccount(ctx context.Context, user *models.User) (models.BankAccountView, error) {
	if user == nil {
		return models.BankAccountView{}, fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	account, err := s.store.GetBankAccountByUser(ctx, user.Id)
	if err != nil {
		return models.BankAccountView{}, notFound(err, ErrBankAccountNotFound, user.Email)
	}
	return bankAccountView(account), nil
}

func (s *Service) DeleteBankAccount(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("%w: user is required", ErrInvalidInput)
	}

	err := s.store.WithinTx(ctx, func(q store.Queries) error {
		account, err := q.GetBankAccountByUserForUpdate(ctx, user.Id)
		if err != nil {
			return notFound(err, ErrBankAccountNotFound, user.Email)
		}
		return q.DeleteBankAccount(ctx, account.Id)
	})
	if err != nil {
		return err
	}

	zap.L().Info("Bank account deleted", zap.String("user_id", user.Id))
	return nil
}
