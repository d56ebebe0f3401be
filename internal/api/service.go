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

package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pay-my-buddy-go/internal/metrics"
	"pay-my-buddy-go/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// Clock supplies the timestamps stamped on connections and transactions
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Service exposes the transfer, connection and funding operations
type Service struct {
	store      store.Store
	clock      Clock
	metrics    metrics.Recorder
	bcryptCost int
}

type Option func(*Service)

func WithClock(clock Clock) Option {
	return func(s *Service) { s.clock = clock }
}

func WithMetrics(recorder metrics.Recorder) Option {
	return func(s *Service) { s.metrics = recorder }
}

// WithBcryptCost lowers the hashing cost, used by tests and seeding.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:      st,
		clock:      systemClock{},
		metrics:    metrics.NoOpRecorder{},
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// notFound maps a store miss onto the given NotFound variant.
func notFound(err, kind error, key string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", kind, key)
	}
	return err
}

// outcomeOf classifies an error for metrics: domain rejections versus failures.
func outcomeOf(err error) string {
	for _, kind := range []error{
		ErrInvalidInput, ErrNotFound, ErrDuplicateConnection, ErrInvalidAmount,
		ErrInsufficientBalance, ErrInvalidPayee, ErrNotAuthenticated, ErrEmailAlreadyUsed,
	} {
		if errors.Is(err, kind) {
			return metrics.OutcomeRejected
		}
	}
	return metrics.OutcomeError
}
