package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered buddy
type User struct {
	Id           string          `db:"id"`
	Email        string          `db:"email"`
	FirstName    string          `db:"first_name"`
	LastName     string          `db:"last_name"`
	PasswordHash string          `db:"password_hash"`
	Balance      decimal.Decimal `db:"balance"`
	Version      int64           `db:"version"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// Connection is a buddy relationship. It is stored with a direction but
// queried as undirected.
type Connection struct {
	Id            string    `db:"id"`
	InitializerId string    `db:"initializer_id"`
	ReceiverId    string    `db:"receiver_id"`
	StartingDate  time.Time `db:"starting_date"`
}

// Transaction represents an immutable transfer between two users.
// Amount is what the payee received; Fee was retained by the platform.
type Transaction struct {
	Id          string          `db:"id"`
	IssuerId    string          `db:"issuer_id"`
	PayeeId     string          `db:"payee_id"`
	Date        time.Time       `db:"date"`
	Amount      decimal.Decimal `db:"amount"`
	Fee         decimal.Decimal `db:"fee"`
	Description string          `db:"description"`
}

// BankAccount is the single external account a user can fund from
type BankAccount struct {
	Id        string          `db:"id"`
	UserId    string          `db:"user_id"`
	BankName  string          `db:"bank_name"`
	Iban      string          `db:"iban"`
	Balance   decimal.Decimal `db:"balance"`
	Version   int64           `db:"version"`
	CreatedAt time.Time       `db:"created_at"`
}

// Account types addressed by the balance ledger
const (
	AccountTypeUser        = "user"
	AccountTypeBankAccount = "bank_account"
	AccountTypePlatform    = "platform"
)

// PlatformFeeAccount collects transfer fees
const PlatformFeeAccount = "fees"

// Ledger entry types
const (
	EntryTypeOpening        = "opening"
	EntryTypeTransferDebit  = "transfer_debit"
	EntryTypeTransferCredit = "transfer_credit"
	EntryTypeFee            = "fee"
	EntryTypeDeposit        = "deposit"
	EntryTypeWithdrawal     = "withdrawal"
)

// AccountRef identifies a balance holder in the ledger
type AccountRef struct {
	Type string
	Id   string
}

func UserAccount(userId string) AccountRef {
	return AccountRef{Type: AccountTypeUser, Id: userId}
}

func BankAccountRef(bankAccountId string) AccountRef {
	return AccountRef{Type: AccountTypeBankAccount, Id: bankAccountId}
}

func FeeAccount() AccountRef {
	return AccountRef{Type: AccountTypePlatform, Id: PlatformFeeAccount}
}

// LedgerEntry represents one balance mutation (audit trail)
type LedgerEntry struct {
	Id            string          `db:"id"`
	AccountType   string          `db:"account_type"`
	AccountId     string          `db:"account_id"`
	EntryType     string          `db:"entry_type"`
	Amount        decimal.Decimal `db:"amount"`
	BalanceBefore decimal.Decimal `db:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	Reference     string          `db:"reference"`
	CreatedAt     time.Time       `db:"created_at"`
}
