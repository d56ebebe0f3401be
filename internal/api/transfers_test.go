package api

import (
	"context"
	"errors"
	"sync"
	"testing"

	"pay-my-buddy-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteTransfer(t *testing.T) {
	svc, _ := setupTestService(t)

	quote, err := svc.QuoteTransfer(dec("100.00"))
	require.NoError(t, err)
	assert.True(t, quote.Fee.Equal(dec("0.50")))
	assert.True(t, quote.AmountWithFee.Equal(dec("100.50")))

	for _, amount := range []decimal.Decimal{dec("0"), dec("0.004"), dec("-0.004"), decimal.New(1, 2000000)} {
		_, err = svc.QuoteTransfer(amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %s", amount)
	}

	quote, err = svc.QuoteTransfer(dec("0.005"))
	require.NoError(t, err)
	assert.True(t, quote.Amount.Equal(dec("0.01")))
}

func TestTransfer_EndToEnd(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	issuer := createUser(t, svc, "issuer@example.com", "1250.48")
	payee := createUser(t, svc, "payee@example.com", "0")
	connect(t, svc, issuer, payee)

	view, err := svc.Transfer(ctx, issuer, payee.Email, "Rent share", dec("100"))
	require.NoError(t, err)

	assert.True(t, view.Amount.Equal(dec("100.00")), "got %s", view.Amount)
	assert.Equal(t, "Rent share", view.Description)
	assert.Equal(t, issuer.Id, view.Issuer.Id)
	assert.Equal(t, payee.Id, view.Payee.Id)

	assert.True(t, balanceOf(t, db, issuer.Id).Equal(dec("1149.98")))
	assert.True(t, balanceOf(t, db, payee.Id).Equal(dec("100.00")))

	history, err := svc.GetUserTransactions(ctx, issuer.Id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Amount.Equal(dec("100.00")))

	fees, err := svc.PlatformFees(ctx)
	require.NoError(t, err)
	assert.True(t, fees.Equal(dec("0.50")))
}

func TestTransfer_ConservesBalances(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "300.00")
	bob := createUser(t, svc, "bob@example.com", "20.00")
	connect(t, svc, alice, bob)

	for _, amount := range []string{"10.01", "99.99", "0.33"} {
		_, err := svc.Transfer(ctx, alice, bob.Email, "", dec(amount))
		require.NoError(t, err)
	}
	_, err := svc.Transfer(ctx, bob, alice.Email, "back", dec("5.55"))
	require.NoError(t, err)

	fees, err := svc.PlatformFees(ctx)
	require.NoError(t, err)

	total := balanceOf(t, db, alice.Id).Add(balanceOf(t, db, bob.Id)).Add(fees)
	assert.True(t, total.Equal(dec("320.00")), "total %s", total)

	report, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, report.Ok(), "mismatches: %v", report.Mismatches)
}

func TestCreateTransaction_RequiresConnection(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "500.00")
	bob := createUser(t, svc, "bob@example.com", "0")

	_, err := svc.CreateTransaction(ctx, alice, bob, "", dec("10"))
	assert.ErrorIs(t, err, ErrInvalidPayee)

	assert.True(t, balanceOf(t, db, alice.Id).Equal(dec("500.00")))
	assert.True(t, balanceOf(t, db, bob.Id).Equal(dec("0")))

	all, err := svc.GetTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateTransaction_InsufficientBalance(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "100.00")
	bob := createUser(t, svc, "bob@example.com", "0")
	connect(t, svc, alice, bob)

	_, err := svc.CreateTransaction(ctx, alice, bob, "", dec("100.00"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.True(t, balanceOf(t, db, alice.Id).Equal(dec("100.00")))
}

func TestCreateTransaction_BalanceCheckedBeforeConnection(t *testing.T) {
	svc, _ := setupTestService(t)

	alice := createUser(t, svc, "alice@example.com", "1.00")
	bob := createUser(t, svc, "bob@example.com", "0")

	_, err := svc.CreateTransaction(context.Background(), alice, bob, "", dec("50"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestCreateTransaction_AmountCheckedFirst(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "0")
	bob := createUser(t, svc, "bob@example.com", "0")

	for _, amount := range []string{"0", "-5", "-0.01"} {
		_, err := svc.CreateTransaction(ctx, alice, bob, "", dec(amount))
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %s", amount)
	}
}

func TestCreateTransaction_RejectsAmountRoundingToZero(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "10.00")
	bob := createUser(t, svc, "bob@example.com", "0")
	connect(t, svc, alice, bob)

	for _, amount := range []decimal.Decimal{dec("0.004"), dec("0.0049"), decimal.New(1, 2000000)} {
		_, err := svc.CreateTransaction(ctx, alice, bob, "dust", amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %s", amount)
	}

	assert.True(t, balanceOf(t, db, alice.Id).Equal(dec("10.00")))
	assert.True(t, balanceOf(t, db, bob.Id).Equal(dec("0")))

	history, err := svc.GetUserTransactions(ctx, alice.Id)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCreateTransaction_SelfTransferRejected(t *testing.T) {
	svc, db := setupTestService(t)
	alice := createUser(t, svc, "alice@example.com", "50.00")

	_, err := svc.CreateTransaction(context.Background(), alice, alice, "", dec("10"))
	assert.ErrorIs(t, err, ErrInvalidPayee)
	assert.True(t, balanceOf(t, db, alice.Id).Equal(dec("50.00")))
}

func TestCreateTransaction_NilParticipants(t *testing.T) {
	svc, _ := setupTestService(t)
	alice := createUser(t, svc, "alice@example.com", "10")

	_, err := svc.CreateTransaction(context.Background(), alice, nil, "", dec("-1"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateTransaction(context.Background(), nil, alice, "", dec("1"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTransfer_UnknownPayee(t *testing.T) {
	svc, _ := setupTestService(t)
	alice := createUser(t, svc, "alice@example.com", "10")

	_, err := svc.Transfer(context.Background(), alice, "ghost@example.com", "", dec("1"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrPeerNotFound)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestCreateTransaction_ConcurrentTransfersNeverOverdraw(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "150.00")
	bob := createUser(t, svc, "bob@example.com", "0")
	carol := createUser(t, svc, "carol@example.com", "0")
	connect(t, svc, alice, bob)
	connect(t, svc, alice, carol)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, payee := range []*models.User{bob, carol} {
		wg.Add(1)
		go func(i int, payee *models.User) {
			defer wg.Done()
			_, errs[i] = svc.CreateTransaction(ctx, alice, payee, "race", dec("100"))
		}(i, payee)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, ErrInsufficientBalance), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.True(t, balanceOf(t, db, alice.Id).Equal(dec("49.50")))

	report, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, report.Ok(), "mismatches: %v", report.Mismatches)
}

func TestGetUserTransactions_NewestFirst(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "100")
	bob := createUser(t, svc, "bob@example.com", "100")
	connect(t, svc, alice, bob)

	first, err := svc.Transfer(ctx, alice, bob.Email, "first", dec("1"))
	require.NoError(t, err)
	second, err := svc.Transfer(ctx, bob, alice.Email, "second", dec("2"))
	require.NoError(t, err)

	history, err := svc.GetUserTransactions(ctx, alice.Id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.Id, history[0].Id)
	assert.Equal(t, first.Id, history[1].Id)

	byId, err := svc.GetTransactionById(ctx, first.Id)
	require.NoError(t, err)
	assert.Equal(t, "first", byId.Description)

	_, err = svc.GetTransactionById(ctx, "missing")
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	_, err = svc.GetUserTransactions(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	page, err := svc.TransactionsPage(ctx, alice, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, first.Id, page.Items[0].Id)
}
