package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pay-my-buddy-go/internal/models"
	"pay-my-buddy-go/internal/money"
	"pay-my-buddy-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CreateUser registers a new user with a zero balance
func (s *Service) CreateUser(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	return s.CreateUserWithBalance(ctx, req, decimal.Zero)
}

// CreateUserWithBalance registers a user and records the opening balance in
// the ledger. It backs fixture seeding.
func (s *Service) CreateUserWithBalance(ctx context.Context, req models.SignupRequest, opening decimal.Decimal) (*models.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validateName("first name", req.FirstName); err != nil {
		return nil, err
	}
	if err := validateName("last name", req.LastName); err != nil {
		return nil, err
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	if err := money.CheckBounds(opening); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if opening.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance cannot be negative", ErrInvalidAmount)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("unable to hash password: %w", err)
	}

	now := s.clock.Now()
	user := &models.User{
		Id:           uuid.New().String(),
		Email:        req.Email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: string(hash),
		Balance:      decimal.Zero,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.store.WithinTx(ctx, func(q store.Queries) error {
		if _, err := q.GetUserByEmail(ctx, user.Email); err == nil {
			return fmt.Errorf("%w: %s", ErrEmailAlreadyUsed, user.Email)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := q.InsertUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fmt.Errorf("%w: %s", ErrEmailAlreadyUsed, user.Email)
			}
			return err
		}

		if opening.IsPositive() {
			entry, err := q.Credit(ctx, store.EntryParams{
				Account:   models.UserAccount(user.Id),
				EntryType: models.EntryTypeOpening,
				Amount:    money.Round(opening),
				Reference: "opening balance",
			})
			if err != nil {
				return err
			}
			user.Balance = entry.BalanceAfter
			user.Version++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("User created",
		zap.String("user_id", user.Id),
		zap.String("email", user.Email),
		zap.String("balance", user.Balance.String()))
	return user, nil
}

// Authenticate checks the credentials and returns the matching user.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: bad credentials", ErrNotAuthenticated)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		zap.L().Warn("Authentication failed", zap.String("email", email))
		return nil, fmt.Errorf("%w: bad credentials", ErrNotAuthenticated)
	}
	return user, nil
}

// CurrentUser resolves an authenticated email to its user
func (s *Service) CurrentUser(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, ErrNotAuthenticated
	}
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user %s", ErrNotAuthenticated, email)
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) GetUsers(ctx context.Context) ([]models.UserView, error) {
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]models.UserView, 0, len(users))
	for i := range users {
		views = append(views, userView(&users[i]))
	}
	return views, nil
}

func (s *Service) GetUserById(ctx context.Context, userId string) (models.UserView, error) {
	user, err := s.store.GetUserById(ctx, userId)
	if err != nil {
		return models.UserView{}, notFound(err, ErrUserNotFound, userId)
	}
	return userView(user), nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (models.UserView, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return models.UserView{}, notFound(err, ErrUserNotFound, email)
	}
	return userView(user), nil
}

func (s *Service) GetUserByName(ctx context.Context, firstName, lastName string) (models.UserView, error) {
	user, err := s.store.GetUserByName(ctx, firstName, lastName)
	if err != nil {
		return models.UserView{}, notFound(err, ErrUserNotFound, firstName+" "+lastName)
	}
	return userView(user), nil
}

// DeleteUser removes a user together with its connections, transfers and
// bank account. It is an administrative operation.
func (s *Service) DeleteUser(ctx context.Context, userId string) error {
	err := s.store.WithinTx(ctx, func(q store.Queries) error {
		return q.DeleteUser(ctx, userId)
	})
	if err != nil {
		return notFound(err, ErrUserNotFound, userId)
	}
	zap.L().Info("User deleted", zap.String("user_id", userId))
	return nil
}
