/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pay-my-buddy-go/internal/api"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Ledger is the part of the service the job needs
type Ledger interface {
	Reconcile(ctx context.Context) (api.ReconcileReport, error)
}

// Reconciler periodically checks every stored balance against the sum of
// its ledger entries.
type Reconciler struct {
	ledger   Ledger
	schedule string
	timeout  time.Duration
	cron     *cron.Cron

	mu   sync.Mutex
	last *api.ReconcileReport
}

func New(ledger Ledger, schedule string) *Reconciler {
	logger := cronLogger{}
	return &Reconciler{
		ledger:   ledger,
		schedule: schedule,
		timeout:  5 * time.Minute,
		cron: cron.New(cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		)),
	}
}

// Start runs one pass immediately, then registers the scheduled job.
func (r *Reconciler) Start(ctx context.Context) error {
	zap.L().Info("Starting ledger reconciler", zap.String("schedule", r.schedule))

	if _, err := r.RunOnce(ctx); err != nil {
		zap.L().Error("Startup reconciliation failed", zap.Error(err))
	}

	if _, err := r.cron.AddFunc(r.schedule, func() {
		if _, err := r.RunOnce(ctx); err != nil {
			zap.L().Error("Scheduled reconciliation failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", r.schedule, err)
	}

	r.cron.Start()
	return nil
}

// Stop waits for a running pass to finish.
func (r *Reconciler) Stop() {
	zap.L().Info("Stopping ledger reconciler")
	<-r.cron.Stop().Done()
	zap.L().Info("Ledger reconciler stopped")
}

func (r *Reconciler) RunOnce(ctx context.Context) (api.ReconcileReport, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	report, err := r.ledger.Reconcile(ctx)
	if err != nil {
		return api.ReconcileReport{}, err
	}

	r.mu.Lock()
	r.last = &report
	r.mu.Unlock()

	zap.L().Debug("Reconciliation pass finished",
		zap.Int("accounts", report.Accounts),
		zap.Bool("ok", report.Ok()))
	return report, nil
}

// LastReport returns the most recent completed pass, if any.
func (r *Reconciler) LastReport() (api.ReconcileReport, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return api.ReconcileReport{}, false
	}
	return *r.last, true
}

// cronLogger routes cron's own messages through zap.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	zap.S().Debugw(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	zap.S().Errorw(msg, append(keysAndValues, "error", err)...)
}
