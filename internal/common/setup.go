package common

import (
	"context"
	"fmt"
	"log"
	"strings"

	"pay-my-buddy-go/internal/api"
	"pay-my-buddy-go/internal/database"
	"pay-my-buddy-go/internal/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// init loads environment variables from .env file if it exists
func init() {
	// A missing .env is fine; the environment can come from the shell or the container.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService  *database.Service
	ApiService *api.Service
}

// InitializeLogger builds the production zap logger at the given level and
// installs it as the global logger. Unknown levels fall back to info.
func InitializeLogger(level string) (*zap.Logger, func()) {
	zapConfig := zap.NewProductionConfig()

	parsed, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	zapConfig.Level = zap.NewAtomicLevelAt(parsed)

	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices opens the database, builds the service on top of it and
// loads the seed file when one is configured.
func InitializeServices(ctx context.Context, cfg *models.Config, opts ...api.Option) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	apiService := api.NewService(dbService, opts...)

	if cfg.Database.SeedFile != "" {
		seed, err := LoadSeedFile(cfg.Database.SeedFile)
		if err != nil {
			dbService.Close()
			return nil, err
		}
		if err := SeedUsers(ctx, apiService, seed); err != nil {
			dbService.Close()
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}

	return &Services{
		DbService:  dbService,
		ApiService: apiService,
	}, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
