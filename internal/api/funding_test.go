package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeposit_StripsSign(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "0")
	_, err := svc.CreateBankAccount(ctx, alice, "Bank", "FR7630006000011234567890189", dec("500.00"))
	require.NoError(t, err)

	view, err := svc.Deposit(ctx, alice, "-50")
	require.NoError(t, err)
	assert.True(t, view.Balance.Equal(dec("50.00")))

	bank, err := svc.GetBankAccount(ctx, alice)
	require.NoError(t, err)
	assert.True(t, bank.Balance.Equal(dec("450.00")))
	assert.True(t, balanceOf(t, db, alice.Id).Equal(dec("50.00")))
}

func TestWithdraw(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "20.00")
	_, err := svc.CreateBankAccount(ctx, alice, "Bank", "FR7630006000011234567890189", dec("0"))
	require.NoError(t, err)

	view, err := svc.Withdraw(ctx, alice, "30.005")
	require.NoError(t, err)
	assert.True(t, view.Balance.Equal(dec("-10.01")), "no floor on withdrawals, got %s", view.Balance)

	bank, err := svc.GetBankAccount(ctx, alice)
	require.NoError(t, err)
	assert.True(t, bank.Balance.Equal(dec("30.01")))

	report, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, report.Ok(), "mismatches: %v", report.Mismatches)
}

func TestFunding_Errors(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "0")

	_, err := svc.Deposit(ctx, alice, "10")
	assert.ErrorIs(t, err, ErrBankAccountNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Withdraw(ctx, alice, "ten")
	assert.ErrorIs(t, err, ErrBankAccountNotFound, "the bank account is looked up before the amount is parsed")

	_, err = svc.Deposit(ctx, nil, "10")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateBankAccount(ctx, alice, "Bank", "FR7630006000011234567890189", dec("100"))
	require.NoError(t, err)

	for _, raw := range []string{"ten", "", "1e2000000"} {
		_, err = svc.Withdraw(ctx, alice, raw)
		assert.ErrorIs(t, err, ErrInvalidInput, "amount %q", raw)
	}

	bank, err := svc.GetBankAccount(ctx, alice)
	require.NoError(t, err)
	assert.True(t, bank.Balance.Equal(dec("100.00")))
}

func TestFunding_ZeroAmountAllowed(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "5")
	_, err := svc.CreateBankAccount(ctx, alice, "Bank", "FR7630006000011234567890189", dec("5"))
	require.NoError(t, err)

	view, err := svc.Deposit(ctx, alice, "0")
	require.NoError(t, err)
	assert.True(t, view.Balance.Equal(dec("5")))
}

func TestBankAccount_Lifecycle(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "0")

	_, err := svc.GetBankAccount(ctx, alice)
	assert.ErrorIs(t, err, ErrBankAccountNotFound)

	created, err := svc.CreateBankAccount(ctx, alice, "Bank", "fr76 3000 6000 0112 3456 7890 189", dec("12.345"))
	require.NoError(t, err)
	assert.Equal(t, "FR7630006000011234567890189", created.Iban)
	assert.True(t, created.Balance.Equal(dec("12.35")))

	_, err = svc.CreateBankAccount(ctx, alice, "Other", "DE89370400440532013000", dec("0"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateBankAccount(ctx, alice, "Other", "short", dec("0"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.DeleteBankAccount(ctx, alice))
	assert.ErrorIs(t, svc.DeleteBankAccount(ctx, alice), ErrBankAccountNotFound)
}
