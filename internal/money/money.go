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

// Package money holds the fixed-point helpers shared by every balance mutation.
// All amounts are two-decimal values rounded half away from zero.
package money

import (
	"errors"
	"fmt"
	"strings"

	"pay-my-buddy-go/internal/models"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places kept on every stored amount
const Scale int32 = 2

// FeeRate is the share of each transfer retained by the platform
var FeeRate = decimal.RequireFromString("0.005")

// Bounds on accepted amounts. Rounding a value far outside them would expand
// its coefficient to millions of digits.
const (
	MaxIntegerDigits  = 12
	MaxFractionDigits = 18
)

var ErrOutOfRange = errors.New("amount out of range")

// CheckBounds rejects amounts with more than MaxIntegerDigits integer digits
// or more than MaxFractionDigits decimals. It never rescales the value.
func CheckBounds(amount decimal.Decimal) error {
	exp := int64(amount.Exponent())
	if exp < -MaxFractionDigits {
		return fmt.Errorf("%w: more than %d decimals", ErrOutOfRange, MaxFractionDigits)
	}
	if int64(amount.NumDigits())+exp > MaxIntegerDigits {
		return fmt.Errorf("%w: more than %d integer digits", ErrOutOfRange, MaxIntegerDigits)
	}
	return nil
}

// Round rounds to Scale places, ties away from zero.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(Scale)
}

// CalculateAmountWithFee returns the payee amount, the platform fee and the
// total debited from the issuer. The caller guarantees amount is not negative.
func CalculateAmountWithFee(amount decimal.Decimal) models.FeeBreakdown {
	fee := Round(amount.Mul(FeeRate))
	rounded := Round(amount)

	return models.FeeBreakdown{
		Amount:        rounded,
		Fee:           fee,
		AmountWithFee: rounded.Add(fee),
	}
}

// ParseAmount reads a user supplied amount. Every minus sign is dropped so the
// result is never negative.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, "-", ""))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}

	if strings.ContainsAny(cleaned, "eE") {
		return decimal.Zero, fmt.Errorf("invalid amount %q: exponent notation is not accepted", raw)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if err := CheckBounds(amount); err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}

	return Round(amount), nil
}

// Format renders an amount with exactly Scale decimals
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(Scale)
}
