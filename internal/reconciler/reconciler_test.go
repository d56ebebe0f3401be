package reconciler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"pay-my-buddy-go/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	calls  atomic.Int32
	report api.ReconcileReport
	err    error
}

func (f *fakeLedger) Reconcile(ctx context.Context) (api.ReconcileReport, error) {
	f.calls.Add(1)
	return f.report, f.err
}

func TestRunOnceStoresReport(t *testing.T) {
	ledger := &fakeLedger{report: api.ReconcileReport{Accounts: 3, Mismatches: []string{"user:u1"}}}
	r := New(ledger, "@every 1h")

	_, ok := r.LastReport()
	assert.False(t, ok)

	report, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Ok())

	last, ok := r.LastReport()
	require.True(t, ok)
	assert.Equal(t, 3, last.Accounts)
}

func TestRunOnceError(t *testing.T) {
	ledger := &fakeLedger{err: errors.New("database is locked")}
	r := New(ledger, "@every 1h")

	_, err := r.RunOnce(context.Background())
	assert.Error(t, err)

	_, ok := r.LastReport()
	assert.False(t, ok)
}

func TestStartRunsImmediatelyAndOnSchedule(t *testing.T) {
	ledger := &fakeLedger{report: api.ReconcileReport{Accounts: 1}}
	r := New(ledger, "@every 1s")

	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	assert.GreaterOrEqual(t, ledger.calls.Load(), int32(1))
	assert.Eventually(t, func() bool {
		return ledger.calls.Load() >= 2
	}, 3*time.Second, 50*time.Millisecond)
}

func TestStartInvalidSchedule(t *testing.T) {
	r := New(&fakeLedger{}, "whenever")

	err := r.Start(context.Background())
	assert.Error(t, err)
}
