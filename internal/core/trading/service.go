package trading

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aftab6393/finmini/internal/core/domain"
)

// Catalog resolves products for pricing.
type Catalog interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

// Ledger performs the atomic debit-and-record commit and serves reads of
// past purchases.
type Ledger interface {
	ExecuteBuy(ctx context.Context, accountID uuid.UUID, product *domain.Product, units, total decimal.Decimal) (*domain.Transaction, decimal.Decimal, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
}

// Service executes buy orders: validate, price, then commit as one unit.
type Service struct {
	catalog Catalog
	ledger  Ledger
	logger  *slog.Logger
}

func NewService(catalog Catalog, ledger Ledger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog: catalog,
		ledger:  ledger,
		logger:  logger,
	}
}

// BuyResult is the outcome of a committed purchase.
type BuyResult struct {
	Transaction   *domain.Transaction `json:"transaction"`
	WalletBalance decimal.Decimal     `json:"wallet_balance"`
}

// Buy purchases rawUnits of a product for the given account. The wallet
// debit and the ledger append happen atomically; on any failure no
// partial effect is observable.
func (s *Service) Buy(ctx context.Context, accountID, productID uuid.UUID, rawUnits string) (*BuyResult, error) {
	units, err := domain.ParseUnits(rawUnits)
	if err != nil {
		return nil, err
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	total := domain.PurchaseTotal(units, product.PricePerUnit)

	purchase, balance, err := s.ledger.ExecuteBuy(ctx, accountID, product, units, total)
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase committed",
		"account_id", accountID,
		"product_id", productID,
		"units", units.String(),
		"total", total.String(),
		"balance", balance.String(),
	)

	return &BuyResult{Transaction: purchase, WalletBalance: balance}, nil
}

// History returns the account's purchases, newest first.
func (s *Service) History(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	return s.ledger.ListByAccount(ctx, accountID)
}
