// Package identity issues and verifies bearer tokens and resolves them to
// the user they were issued for.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pay-my-buddy-go/internal/api"
	"pay-my-buddy-go/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer signs HS256 tokens whose subject is the user's email
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(cfg models.AuthConfig) (*TokenIssuer, error) {
	if len(cfg.JWTSecret) < 16 {
		return nil, fmt.Errorf("jwt secret must be at least 16 characters")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %v", cfg.TokenTTL)
	}
	return &TokenIssuer{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}, nil
}

func (t *TokenIssuer) Issue(email string) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   email,
		Issuer:    t.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, issuer and expiry and returns the subject email
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// UserResolver looks up the user behind an authenticated email
type UserResolver interface {
	CurrentUser(ctx context.Context, email string) (*models.User, error)
}

// Provider turns an Authorization header into the authenticated user
type Provider struct {
	tokens *TokenIssuer
	users  UserResolver
}

func NewProvider(tokens *TokenIssuer, users UserResolver) *Provider {
	return &Provider{tokens: tokens, users: users}
}

// Authenticate returns api.ErrNotAuthenticated for a missing, malformed,
// expired or orphaned token.
func (p *Provider) Authenticate(ctx context.Context, authHeader string) (*models.User, error) {
	if authHeader == "" {
		return nil, fmt.Errorf("%w: authorization header required", api.ErrNotAuthenticated)
	}

	// Extract the token from "Bearer <token>"
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || tokenString == "" {
		return nil, fmt.Errorf("%w: invalid authorization header format", api.ErrNotAuthenticated)
	}

	email, err := p.tokens.Verify(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", api.ErrNotAuthenticated, err)
	}

	return p.users.CurrentUser(ctx, email)
}

func (p *Provider) Tokens() *TokenIssuer {
	return p.tokens
}
