package api

import (
	"errors"
	"fmt"
)

// Error kinds returned by the service. Callers match them with errors.Is.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrDuplicateConnection = errors.New("already a buddy")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidPayee        = errors.New("invalid payee")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrEmailAlreadyUsed    = errors.New("email already used")
)

// NotFound variants
var (
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrPeerNotFound        = fmt.Errorf("buddy %w", ErrNotFound)
	ErrConnectionNotFound  = fmt.Errorf("connection %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrBankAccountNotFound = fmt.Errorf("bank account %w", ErrNotFound)
)
