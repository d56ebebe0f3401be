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

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"pay-my-buddy-go/internal/api"
	"pay-my-buddy-go/internal/common"
	"pay-my-buddy-go/internal/config"
	"pay-my-buddy-go/internal/httpapi"
	"pay-my-buddy-go/internal/identity"
	"pay-my-buddy-go/internal/metrics"
	"pay-my-buddy-go/internal/reconciler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	_, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting Pay My Buddy server",
		zap.String("addr", cfg.Server.Addr),
		zap.String("driver", cfg.Database.Driver))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheusRecorder("paymybuddy")
	if err := recorder.Register(registry); err != nil {
		zap.L().Fatal("Failed to register metrics", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg, api.WithMetrics(recorder))
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	tokens, err := identity.NewTokenIssuer(cfg.Auth)
	if err != nil {
		zap.L().Fatal("Invalid auth configuration (set JWT_SECRET)", zap.Error(err))
	}
	provider := identity.NewProvider(tokens, services.ApiService)

	router := httpapi.NewRouter(services.ApiService, provider, httpapi.RouterConfig{
		Timeout:        cfg.Server.WriteTimeout,
		Metrics:        recorder,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      h2c.NewHandler(router, &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	var job *reconciler.Reconciler
	if cfg.Reconciler.Enabled {
		job = reconciler.New(services.ApiService, cfg.Reconciler.Schedule)
		if err := job.Start(ctx); err != nil {
			zap.L().Fatal("Failed to start reconciler", zap.Error(err))
		}
	}

	serverErr := make(chan error, 1)
	go func() {
		zap.L().Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		zap.L().Info("Shutdown signal received, stopping server...")
	case err := <-serverErr:
		zap.L().Error("HTTP server failed", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.Shutdown(shutdownCtx); err != nil {
				zap.L().Warn("HTTP server shutdown incomplete", zap.Error(err))
			}
		}()

		if job != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				job.Stop()
			}()
		}

		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		zap.L().Info("Server stopped gracefully")
	case <-shutdownCtx.Done():
		zap.L().Warn("Forced shutdown after timeout")
	}
	cancel()
}
