package api

import (
	"context"
	"sync"
	"testing"

	"pay-my-buddy-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_CleanLedger(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "40.00")
	createUser(t, svc, "bob@example.com", "0")
	_, err := svc.CreateBankAccount(ctx, alice, "Bank", "FR7630006000011234567890189", dec("10"))
	require.NoError(t, err)

	report, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, report.Ok(), "mismatches: %v", report.Mismatches)
	assert.Equal(t, 4, report.Accounts, "fee account, two users and one bank account")
}

func TestReconcile_ConsistentDuringConcurrentTransfers(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "100000.00")
	bob := createUser(t, svc, "bob@example.com", "100000.00")
	connect(t, svc, alice, bob)

	stop := make(chan struct{})
	var (
		wg        sync.WaitGroup
		transfers int
		failures  []error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		pair := [2]*models.User{alice, bob}
		for i := 0; ; i++ {
			if _, err := svc.CreateTransaction(ctx, pair[i%2], pair[(i+1)%2], "ping", dec("1.37")); err != nil {
				failures = append(failures, err)
			} else {
				transfers++
			}
			select {
			case <-stop:
				return
			default:
			}
		}
	}()

	for i := 0; i < 30; i++ {
		report, err := svc.Reconcile(ctx)
		assert.NoError(t, err)
		assert.True(t, report.Ok(), "pass %d mismatches: %v", i, report.Mismatches)
	}
	close(stop)
	wg.Wait()

	assert.Empty(t, failures)
	assert.Positive(t, transfers)

	report, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, report.Ok(), "mismatches: %v", report.Mismatches)
}
