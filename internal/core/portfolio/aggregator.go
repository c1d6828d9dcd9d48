package portfolio

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aftab6393/finmini/internal/core/domain"
)

// Accounts resolves the owning account.
type Accounts interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

// Catalog serves current prices.
type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Ledger serves the account's purchase history.
type Ledger interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
}

// Holding is an aggregated position in one product.
type Holding struct {
	Product      domain.Product  `json:"product"`
	Units        decimal.Decimal `json:"units"`
	Invested     decimal.Decimal `json:"invested"`
	CurrentValue decimal.Decimal `json:"current_value"`
}

// Summary is the derived portfolio view. It has no persisted state of its
// own; it is a pure function of the ledger and current catalog prices.
type Summary struct {
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	TotalInvested decimal.Decimal `json:"total_invested"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	Returns       decimal.Decimal `json:"returns"`
	Holdings      []Holding       `json:"holdings"`
}

// Service folds the ledger over current catalog prices.
type Service struct {
	accounts Accounts
	catalog  Catalog
	ledger   Ledger
	logger   *slog.Logger
}

func NewService(accounts Accounts, catalog Catalog, ledger Ledger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		accounts: accounts,
		catalog:  catalog,
		ledger:   ledger,
		logger:   logger,
	}
}

// Summarize builds the portfolio summary for the account. An account with
// no transactions yields an empty, non-error summary. Invested amounts sum
// the transaction snapshots; current values use today's catalog prices.
func (s *Service) Summarize(ctx context.Context, accountID uuid.UUID) (*Summary, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.ledger.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	grouped := make(map[uuid.UUID]*Holding)
	totalInvested := decimal.Zero
	for _, t := range transactions {
		product, ok := byID[t.ProductID]
		if !ok {
			// A purchase of a vanished product cannot be valued; skip it
			// rather than failing the whole summary.
			s.logger.Warn("transaction references unknown product",
				"transaction_id", t.ID, "product_id", t.ProductID)
			continue
		}

		totalInvested = totalInvested.Add(t.TotalAmount)

		h, ok := grouped[t.ProductID]
		if !ok {
			h = &Holding{Product: product}
			grouped[t.ProductID] = h
		}
		h.Units = h.Units.Add(t.Units)
		h.Invested = h.Invested.Add(t.TotalAmount)
	}

	holdings := make([]Holding, 0, len(grouped))
	currentValue := decimal.Zero
	for _, h := range grouped {
		h.CurrentValue = h.Units.Mul(h.Product.PricePerUnit).Round(domain.CurrencyPrecision)
		currentValue = currentValue.Add(h.CurrentValue)
		holdings = append(holdings, *h)
	}
	sort.Slice(holdings, func(i, j int) bool {
		return holdings[i].Product.Name < holdings[j].Product.Name
	})

	return &Summary{
		WalletBalance: account.WalletBalance,
		TotalInvested: totalInvested,
		CurrentValue:  currentValue,
		Returns:       currentValue.Sub(totalInvested),
		Holdings:      holdings,
	}, nil
}
