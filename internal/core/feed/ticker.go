package feed

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aftab6393/finmini/internal/core/domain"
)

// Tick is one simulated price observation. The feed is presentation only:
// ticks are never written back to the catalog, so the prices used by
// trading and portfolio valuation are unaffected.
type Tick struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

// Catalog provides the products to tick.
type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// TickerConfig holds configuration for the simulated price ticker.
type TickerConfig struct {
	Interval   time.Duration
	Volatility float64
}

// DefaultTickerConfig returns a sensible default configuration.
func DefaultTickerConfig() TickerConfig {
	return TickerConfig{
		Interval:   30 * time.Second,
		Volatility: 0.01, // 1% volatility
	}
}

// Ticker walks each product's price randomly around its catalog price and
// publishes the result to the broadcaster.
type Ticker struct {
	catalog     Catalog
	broadcaster *Broadcaster
	config      TickerConfig
	rng         *rand.Rand
	logger      *slog.Logger
}

func NewTicker(catalog Catalog, broadcaster *Broadcaster, config TickerConfig, logger *slog.Logger) *Ticker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ticker{
		catalog:     catalog,
		broadcaster: broadcaster,
		config:      config,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:      logger,
	}
}

// Start loads the catalog and begins publishing ticks until ctx is
// cancelled.
func (t *Ticker) Start(ctx context.Context) error {
	products, err := t.catalog.ListProducts(ctx)
	if err != nil {
		return err
	}

	prices := make(map[uuid.UUID]float64, len(products))
	for _, p := range products {
		prices[p.ID] = p.PricePerUnit.InexactFloat64()
	}

	go func() {
		t.logger.Info("price feed started", "products", len(products), "interval", t.config.Interval)
		ticker := time.NewTicker(t.config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				now := time.Now().UTC()
				for _, p := range products {
					prices[p.ID] = t.nextPrice(prices[p.ID])
					t.broadcaster.Publish(Tick{
						ProductID: p.ID,
						Name:      p.Name,
						Price:     decimal.NewFromFloat(prices[p.ID]).Round(domain.CurrencyPrecision),
						Timestamp: now,
					})
				}
			case <-ctx.Done():
				t.logger.Info("price feed stopped")
				return
			}
		}
	}()

	return nil
}

// nextPrice applies a normally distributed variation and keeps the walk
// strictly positive.
func (t *Ticker) nextPrice(price float64) float64 {
	next := price + t.rng.NormFloat64()*t.config.Volatility*price
	if next <= 0 {
		next = price * 0.99
	}
	return next
}
