package store

import (
	"context"
	"errors"

	"pay-my-buddy-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrNotFound               = errors.New("record not found")
	ErrDuplicate              = errors.New("duplicate record")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// EntryParams describes one balance mutation recorded in the ledger.
type EntryParams struct {
	Account   models.AccountRef
	EntryType string
	Amount    decimal.Decimal // already rounded, sign ignored
	Reference string
}

// Queries is the set of reads and writes available both on the store itself
// and inside a transaction opened with WithinTx.
type Queries interface {
	// --- Users ---
	GetUsers(ctx context.Context) ([]models.User, error)
	GetUserById(ctx context.Context, userId string) (*models.User, error)
	GetUserForUpdate(ctx context.Context, userId string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByName(ctx context.Context, firstName, lastName string) (*models.User, error)
	InsertUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, userId string) error

	// --- Connections ---
	GetConnections(ctx context.Context) ([]models.Connection, error)
	GetConnectionById(ctx context.Context, connectionId string) (*models.Connection, error)
	GetConnectionsByUser(ctx context.Context, userId string) ([]models.Connection, error)
	ConnectionExists(ctx context.Context, userA, userB string) (bool, error)
	InsertConnection(ctx context.Context, connection *models.Connection) error

	// --- Transactions ---
	GetTransactions(ctx context.Context) ([]models.Transaction, error)
	GetTransactionById(ctx context.Context, transactionId string) (*models.Transaction, error)
	GetTransactionsByUser(ctx context.Context, userId string) ([]models.Transaction, error)
	GetTransactionsByIssuer(ctx context.Context, issuerId string) ([]models.Transaction, error)
	GetTransactionsByPayee(ctx context.Context, payeeId string) ([]models.Transaction, error)
	InsertTransaction(ctx context.Context, transaction *models.Transaction) error

	// --- Bank accounts ---
	GetBankAccountById(ctx context.Context, bankAccountId string) (*models.BankAccount, error)
	GetBankAccountByUser(ctx context.Context, userId string) (*models.BankAccount, error)
	GetBankAccountByUserForUpdate(ctx context.Context, userId string) (*models.BankAccount, error)
	InsertBankAccount(ctx context.Context, account *models.BankAccount) error
	DeleteBankAccount(ctx context.Context, bankAccountId string) error

	// --- Ledger ---
	Credit(ctx context.Context, params EntryParams) (*models.LedgerEntry, error)
	Debit(ctx context.Context, params EntryParams) (*models.LedgerEntry, error)
	GetAccountBalance(ctx context.Context, account models.AccountRef) (decimal.Decimal, error)
	GetLedgerEntries(ctx context.Context, account models.AccountRef) ([]models.LedgerEntry, error)
	ReconcileBalance(ctx context.Context, account models.AccountRef) error
}

// Store is a Queries backed by a database that can also open transactions.
type Store interface {
	Queries

	// WithinTx runs fn inside one database transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise.
	WithinTx(ctx context.Context, fn func(q Queries) error) error
	Ping(ctx context.Context) error
	Close()
}
