package api

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"pay-my-buddy-go/internal/database"
	"pay-my-buddy-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// stepClock advances one second per call so insertion order is observable.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func setupTestService(t *testing.T) (*Service, *database.Service) {
	t.Helper()

	db, err := database.NewService(context.Background(), models.DatabaseConfig{
		Driver:       "sqlite3",
		Path:         filepath.Join(t.TempDir(), "api.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		PingTimeout:  time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return NewService(db, WithClock(newStepClock()), WithBcryptCost(bcrypt.MinCost)), db
}

func createUser(t *testing.T, svc *Service, email, balance string) *models.User {
	t.Helper()

	user, err := svc.CreateUserWithBalance(context.Background(), models.SignupRequest{
		Email:     email,
		FirstName: "First",
		LastName:  email,
		Password:  "correct-horse",
	}, decimal.RequireFromString(balance))
	require.NoError(t, err)
	return user
}

func connect(t *testing.T, svc *Service, a, b *models.User) {
	t.Helper()

	_, err := svc.CreateConnection(context.Background(), a, b.Email)
	require.NoError(t, err)
}

func balanceOf(t *testing.T, db *database.Service, userId string) decimal.Decimal {
	t.Helper()

	user, err := db.GetUserById(context.Background(), userId)
	require.NoError(t, err)
	return user.Balance
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
