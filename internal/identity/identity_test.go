package identity

import (
	"context"
	"testing"
	"time"

	"pay-my-buddy-go/internal/api"
	"pay-my-buddy-go/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) CurrentUser(_ context.Context, email string) (*models.User, error) {
	if u, ok := f[email]; ok {
		return u, nil
	}
	return nil, api.ErrNotAuthenticated
}

func newIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(models.AuthConfig{
		JWTSecret: "0123456789abcdef0123",
		Issuer:    "pay-my-buddy",
		TokenTTL:  time.Hour,
	})
	require.NoError(t, err)
	return issuer
}

func TestNewTokenIssuer_Validation(t *testing.T) {
	_, err := NewTokenIssuer(models.AuthConfig{JWTSecret: "short", TokenTTL: time.Hour})
	assert.Error(t, err)

	_, err = NewTokenIssuer(models.AuthConfig{JWTSecret: "0123456789abcdef", TokenTTL: 0})
	assert.Error(t, err)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := newIssuer(t)

	token, expiresAt, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	email, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := newIssuer(t)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := issuer.Issue("alice@example.com")
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_WrongSecretOrAlgorithm(t *testing.T) {
	issuer := newIssuer(t)

	other, err := NewTokenIssuer(models.AuthConfig{JWTSecret: "another-secret-value", Issuer: "pay-my-buddy", TokenTTL: time.Hour})
	require.NoError(t, err)
	token, _, err := other.Issue("alice@example.com")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "alice@example.com"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestProvider_Authenticate(t *testing.T) {
	issuer := newIssuer(t)
	alice := &models.User{Id: "u1", Email: "alice@example.com"}
	provider := NewProvider(issuer, fakeUsers{alice.Email: alice})
	ctx := context.Background()

	token, _, err := issuer.Issue(alice.Email)
	require.NoError(t, err)

	user, err := provider.Authenticate(ctx, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, alice.Id, user.Id)

	for _, header := range []string{"", token, "Bearer ", "Bearer garbage"} {
		_, err := provider.Authenticate(ctx, header)
		assert.ErrorIs(t, err, api.ErrNotAuthenticated, "header %q", header)
	}

	orphan, _, err := issuer.Issue("ghost@example.com")
	require.NoError(t, err)
	_, err = provider.Authenticate(ctx, "Bearer "+orphan)
	assert.ErrorIs(t, err, api.ErrNotAuthenticated)
}
