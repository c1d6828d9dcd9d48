package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Monetary amounts are carried as decimals and rounded to currency
// precision (2 places) at the single point where a charge is computed, so
// repeated buys never drift against the wallet balance.
const CurrencyPrecision = 2

// StartingBalance is credited to every account at registration.
var StartingBalance = decimal.NewFromInt(100000)

// ParseUnits parses raw user input into a positive unit quantity.
// Non-numeric, zero, and negative input all fail with ErrInvalidUnits.
func ParseUnits(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, ErrInvalidUnits
	}
	units, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidUnits
	}
	if units.Sign() <= 0 {
		return decimal.Zero, ErrInvalidUnits
	}
	return units, nil
}

// PurchaseTotal is the amount charged for buying units at the given
// per-unit price: units × price, rounded to currency precision.
func PurchaseTotal(units, pricePerUnit decimal.Decimal) decimal.Decimal {
	return units.Mul(pricePerUnit).Round(CurrencyPrecision)
}
