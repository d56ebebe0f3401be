package api

import (
	"context"
	"testing"

	"pay-my-buddy-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, models.SignupRequest{
		Email: "new.buddy@example.com", FirstName: "New", LastName: "Buddy", Password: "long-enough",
	})
	require.NoError(t, err)
	assert.True(t, user.Balance.IsZero())
	assert.NotEqual(t, "long-enough", user.PasswordHash)

	_, err = svc.CreateUser(ctx, models.SignupRequest{
		Email: "new.buddy@example.com", FirstName: "Again", LastName: "Buddy", Password: "long-enough",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
}

func TestCreateUser_Validation(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	cases := []models.SignupRequest{
		{Email: "bad", FirstName: "A", LastName: "B", Password: "long-enough"},
		{Email: "a@example.com", FirstName: "", LastName: "B", Password: "long-enough"},
		{Email: "a@example.com", FirstName: "A", LastName: " ", Password: "long-enough"},
		{Email: "a@example.com", FirstName: "A", LastName: "B", Password: "short"},
	}
	for _, req := range cases {
		_, err := svc.CreateUser(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput, "request %+v", req)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "0")

	got, err := svc.Authenticate(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, alice.Id, got.Id)

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong-horse")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.Authenticate(ctx, "ghost@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCurrentUser(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "0")

	got, err := svc.CurrentUser(ctx, alice.Email)
	require.NoError(t, err)
	assert.Equal(t, alice.Id, got.Id)

	_, err = svc.CurrentUser(ctx, "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.CurrentUser(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestUserQueries(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := createUser(t, svc, "alice@example.com", "12.50")
	createUser(t, svc, "bob@example.com", "0")

	users, err := svc.GetUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	byId, err := svc.GetUserById(ctx, alice.Id)
	require.NoError(t, err)
	assert.True(t, byId.Balance.Equal(dec("12.50")))

	byName, err := svc.GetUserByName(ctx, "First", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.Id, byName.Id)

	_, err = svc.GetUserByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, svc.DeleteUser(ctx, alice.Id))
	assert.ErrorIs(t, svc.DeleteUser(ctx, alice.Id), ErrUserNotFound)

	_, err = svc.GetUserById(ctx, alice.Id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@example.com", "first.last@sub.example.org", "under_score-dash@ex-ample.io"}
	for _, email := range valid {
		assert.NoError(t, validateEmail(email), email)
	}

	invalid := []string{"", "plain", "@example.com", "a@example", "a@-example.com", "a..b@example.com",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa@example.com"}
	for _, email := range invalid {
		assert.ErrorIs(t, validateEmail(email), ErrInvalidInput, email)
	}
}
