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

package database

// Queries are written with ? placeholders and rebound per dialect.
const (
	userColumns = `id, email, first_name, last_name, password_hash, balance, version, created_at, updated_at`

	// User queries
	queryGetUsers = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at, id`

	queryGetUserById = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = ?`

	queryGetUserByEmail = `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(email) = LOWER(?)`

	queryGetUserByName = `
		SELECT ` + userColumns + `
		FROM users
		WHERE first_name = ? AND last_name = ?
		ORDER BY created_at, id
		LIMIT 1`

	queryInsertUser = `
		INSERT INTO users (id, email, first_name, last_name, password_hash, balance, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryUpdateUserBalance = `
		UPDATE users
		SET balance = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`

	queryDeleteUser = `
		DELETE FROM users WHERE id = ?`

	// Connection queries
	connectionColumns = `id, initializer_id, receiver_id, starting_date`

	queryGetConnections = `
		SELECT ` + connectionColumns + `
		FROM connections
		ORDER BY starting_date, id`

	queryGetConnectionById = `
		SELECT ` + connectionColumns + `
		FROM connections
		WHERE id = ?`

	queryGetConnectionsByUser = `
		SELECT ` + connectionColumns + `
		FROM connections
		WHERE initializer_id = ? OR receiver_id = ?
		ORDER BY starting_date, id`

	queryConnectionExists = `
		SELECT COUNT(1)
		FROM connections
		WHERE pair_key = ?`

	queryInsertConnection = `
		INSERT INTO connections (id, initializer_id, receiver_id, pair_key, starting_date)
		VALUES (?, ?, ?, ?, ?)`

	// Transaction queries
	transactionColumns = `id, issuer_id, payee_id, date, amount, fee, description`

	queryGetTransactions = `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY date DESC, id`

	queryGetTransactionById = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = ?`

	queryGetTransactionsByUser = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE issuer_id = ? OR payee_id = ?
		ORDER BY date DESC, id`

	queryGetTransactionsByIssuer = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE issuer_id = ?
		ORDER BY date DESC, id`

	queryGetTransactionsByPayee = `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE payee_id = ?
		ORDER BY date DESC, id`

	queryInsertTransaction = `
		INSERT INTO transactions (id, issuer_id, payee_id, date, amount, fee, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	// Bank account queries
	bankAccountColumns = `id, user_id, bank_name, iban, balance, version, created_at`

	queryGetBankAccountById = `
		SELECT ` + bankAccountColumns + `
		FROM bank_accounts
		WHERE id = ?`

	queryGetBankAccountByUser = `
		SELECT ` + bankAccountColumns + `
		FROM bank_accounts
		WHERE user_id = ?`

	queryInsertBankAccount = `
		INSERT INTO bank_accounts (id, user_id, bank_name, iban, balance, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryUpdateBankAccountBalance = `
		UPDATE bank_accounts
		SET balance = ?, version = version + 1
		WHERE id = ? AND version = ?`

	queryDeleteBankAccount = `
		DELETE FROM bank_accounts WHERE id = ?`

	// Ledger queries
	queryInsertLedgerEntry = `
		INSERT INTO ledger_entries (id, account_type, account_id, entry_type, amount, balance_before, balance_after, reference, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetLedgerEntries = `
		SELECT id, account_type, account_id, entry_type, amount, balance_before, balance_after, reference, created_at
		FROM ledger_entries
		WHERE account_type = ? AND account_id = ?
		ORDER BY seq`

	// Platform account queries
	queryEnsurePlatformAccount = `
		INSERT INTO platform_accounts (id, balance, version, updated_at)
		VALUES (?, '0.00', 1, ?)
		ON CONFLICT (id) DO NOTHING`

	queryGetPlatformAccount = `
		SELECT balance, version
		FROM platform_accounts
		WHERE id = ?`

	queryUpdatePlatformBalance = `
		UPDATE platform_accounts
		SET balance = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`

	queryDeleteLedgerEntries = `
		DELETE FROM ledger_entries WHERE account_type = ? AND account_id = ?`
)
