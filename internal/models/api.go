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

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserView is the public projection of a user
type UserView struct {
	Id        string          `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Balance   decimal.Decimal `json:"balance"`
}

// ConnectionView represents a connection with both parties projected
type ConnectionView struct {
	Id           string    `json:"id"`
	Initializer  UserView  `json:"initializer"`
	Receiver     UserView  `json:"receiver"`
	StartingDate time.Time `json:"starting_date"`
}

// TransactionView represents a transfer in a user's history
type TransactionView struct {
	Id          string          `json:"id"`
	Issuer      UserView        `json:"issuer"`
	Payee       UserView        `json:"payee"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// BankAccountView hides the version counter
type BankAccountView struct {
	Id       string          `json:"id"`
	BankName string          `json:"bank_name"`
	Iban     string          `json:"iban"`
	Balance  decimal.Decimal `json:"balance"`
}

// FeeBreakdown is the result of a fee calculation
type FeeBreakdown struct {
	Amount        decimal.Decimal `json:"amount"`
	Fee           decimal.Decimal `json:"fee"`
	AmountWithFee decimal.Decimal `json:"amount_with_fee"`
}

// Page is one page of a list. Page numbers start at 1.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// SignupRequest carries the fields needed to register a user
type SignupRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}
