package trading

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aftab6393/finmini/internal/core/domain"
)

// fakeCatalog serves products from a map.
type fakeCatalog struct {
	products map[uuid.UUID]*domain.Product
}

func (f *fakeCatalog) GetProduct(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// fakeLedger mirrors the storage semantics: the funds check, the debit and
// the append happen under one lock, so concurrent buys serialize exactly
// like the row-locked transaction does.
type fakeLedger struct {
	mu       sync.Mutex
	balances map[uuid.UUID]decimal.Decimal
	records  []domain.Transaction
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: make(map[uuid.UUID]decimal.Decimal)}
}

func (f *fakeLedger) ExecuteBuy(_ context.Context, accountID uuid.UUID, product *domain.Product, units, total decimal.Decimal) (*domain.Transaction, decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	balance, ok := f.balances[accountID]
	if !ok {
		return nil, decimal.Zero, domain.ErrAccountNotFound
	}
	if balance.LessThan(total) {
		return nil, decimal.Zero, domain.ErrInsufficientFunds
	}

	newBalance := balance.Sub(total)
	f.balances[accountID] = newBalance

	record := domain.Transaction{
		ID:              uuid.New(),
		AccountID:       accountID,
		ProductID:       product.ID,
		Units:           units,
		PriceAtPurchase: product.PricePerUnit,
		TotalAmount:     total,
		CreatedAt:       time.Now(),
	}
	f.records = append(f.records, record)
	return &record, newBalance, nil
}

func (f *fakeLedger) ListByAccount(_ context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Transaction
	for _, r := range f.records {
		if r.AccountID == accountID {
			out = append(out, r)
		}
	}
	return out, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(balance string, price string) (*Service, *fakeLedger, uuid.UUID, uuid.UUID) {
	accountID := uuid.New()
	product := &domain.Product{
		ID:           uuid.New(),
		Name:         "Reliance Industries Ltd",
		Category:     domain.CategoryStock,
		PricePerUnit: dec(price),
	}

	catalog := &fakeCatalog{products: map[uuid.UUID]*domain.Product{product.ID: product}}
	ledger := newFakeLedger()
	ledger.balances[accountID] = dec(balance)

	return NewService(catalog, ledger, nil), ledger, accountID, product.ID
}

func TestBuySuccess(t *testing.T) {
	svc, ledger, accountID, productID := setup("100000", "2847.50")

	result, err := svc.Buy(context.Background(), accountID, productID, "10")
	require.NoError(t, err)

	assert.True(t, result.WalletBalance.Equal(dec("71525.00")),
		"balance %s", result.WalletBalance)
	assert.True(t, result.Transaction.TotalAmount.Equal(dec("28475.00")))
	assert.True(t, result.Transaction.PriceAtPurchase.Equal(dec("2847.50")))
	assert.True(t, result.Transaction.Units.Equal(dec("10")))

	records, err := ledger.ListByAccount(context.Background(), accountID)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestBuyInsufficientFunds(t *testing.T) {
	svc, ledger, accountID, productID := setup("100", "2847.50")

	_, err := svc.Buy(context.Background(), accountID, productID, "1")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// No partial effect: balance unchanged, nothing recorded.
	assert.True(t, ledger.balances[accountID].Equal(dec("100")))
	records, _ := ledger.ListByAccount(context.Background(), accountID)
	assert.Empty(t, records)
}

func TestBuyInvalidUnits(t *testing.T) {
	svc, ledger, accountID, productID := setup("100000", "2847.50")

	for _, units := range []string{"abc", "-5", "0", ""} {
		_, err := svc.Buy(context.Background(), accountID, productID, units)
		assert.ErrorIs(t, err, domain.ErrInvalidUnits, "units %q", units)
	}

	records, _ := ledger.ListByAccount(context.Background(), accountID)
	assert.Empty(t, records)
}

func TestBuyProductNotFound(t *testing.T) {
	svc, _, accountID, _ := setup("100000", "2847.50")

	_, err := svc.Buy(context.Background(), accountID, uuid.New(), "1")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestBuyAccountNotFound(t *testing.T) {
	svc, _, _, productID := setup("100000", "2847.50")

	_, err := svc.Buy(context.Background(), uuid.New(), productID, "1")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestSequentialBuysNeverDrift(t *testing.T) {
	svc, ledger, accountID, productID := setup("100000", "123.45")

	spent := decimal.Zero
	for i := 0; i < 20; i++ {
		result, err := svc.Buy(context.Background(), accountID, productID, "1.5")
		require.NoError(t, err)
		spent = spent.Add(result.Transaction.TotalAmount)
	}

	expected := dec("100000").Sub(spent)
	assert.True(t, ledger.balances[accountID].Equal(expected),
		"balance %s, expected %s", ledger.balances[accountID], expected)
}

func TestConcurrentBuysNeverOverdraw(t *testing.T) {
	// 10 concurrent buys of 30 each against a balance of 100: exactly 3
	// can commit, the rest must fail, and the balance stays non-negative.
	svc, ledger, accountID, productID := setup("100", "30")

	const attempts = 10
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Buy(context.Background(), accountID, productID, "1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	committed, rejected := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			committed++
		default:
			assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
			rejected++
		}
	}

	assert.Equal(t, 3, committed)
	assert.Equal(t, attempts-3, rejected)

	final := ledger.balances[accountID]
	assert.True(t, final.Equal(dec("10")), "final balance %s", final)
	assert.False(t, final.IsNegative())

	records, _ := ledger.ListByAccount(context.Background(), accountID)
	assert.Len(t, records, 3)
}

func TestHistory(t *testing.T) {
	svc, _, accountID, productID := setup("100000", "100")

	_, err := svc.Buy(context.Background(), accountID, productID, "2")
	require.NoError(t, err)
	_, err = svc.Buy(context.Background(), accountID, productID, "3")
	require.NoError(t, err)

	history, err := svc.History(context.Background(), accountID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
