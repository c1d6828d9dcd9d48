package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleAdmin
}

// Category is the closed set of product categories.
type Category string

const (
	CategoryStock      Category = "Stock"
	CategoryMutualFund Category = "Mutual Fund"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c == CategoryStock || c == CategoryMutualFund
}

// Account holds a user's identity, wallet balance and role.
// The wallet balance is never negative after a committed operation.
type Account struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	PasswordHash  string          `json:"-"`
	PAN           string          `json:"pan,omitempty"`
	KYCImage      string          `json:"kyc_image,omitempty"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	Role          Role            `json:"role"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Product is a catalog entry. Read-only from the trading flow's
// perspective; only seeding writes it.
type Product struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Category     Category          `json:"category"`
	PricePerUnit decimal.Decimal   `json:"price_per_unit"`
	Metric       string            `json:"metric"`
	Description  string            `json:"description"`
	PriceHistory []decimal.Decimal `json:"price_history"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Transaction is one completed purchase. Immutable once created:
// price_at_purchase and total_amount are snapshots, not references.
type Transaction struct {
	ID              uuid.UUID       `json:"id"`
	AccountID       uuid.UUID       `json:"account_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	Units           decimal.Decimal `json:"units"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	CreatedAt       time.Time       `json:"created_at"`
}
