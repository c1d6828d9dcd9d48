package feed

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aftab6393/finmini/internal/core/domain"
)

type fakeCatalog struct {
	products []domain.Product
}

func (f *fakeCatalog) ListProducts(_ context.Context) ([]domain.Product, error) {
	return f.products, nil
}

func TestBroadcasterFanOut(t *testing.T) {
	b := NewBroadcaster()

	first, cancelFirst := b.Subscribe()
	second, cancelSecond := b.Subscribe()
	defer cancelSecond()
	assert.Equal(t, 2, b.Subscribers())

	tick := Tick{ProductID: uuid.New(), Name: "Acme", Price: decimal.NewFromInt(100)}
	b.Publish(tick)

	assert.Equal(t, tick, <-first)
	assert.Equal(t, tick, <-second)

	cancelFirst()
	assert.Equal(t, 1, b.Subscribers())

	// Cancel is safe to call twice and closes the channel.
	cancelFirst()
	_, open := <-first
	assert.False(t, open)
}

func TestBroadcasterDropsWhenSubscriberIsSlow(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe()
	defer cancel()

	// Publish more ticks than the channel buffers; Publish must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(Tick{Name: "Acme"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
	assert.NotEmpty(t, ch)
}

func TestTickerPublishesPositivePrices(t *testing.T) {
	catalog := &fakeCatalog{products: []domain.Product{
		{ID: uuid.New(), Name: "Acme Tech Ltd", PricePerUnit: decimal.RequireFromString("450.50")},
		{ID: uuid.New(), Name: "Bluechip Fund", PricePerUnit: decimal.RequireFromString("120.45")},
	}}

	b := NewBroadcaster()
	ticker := NewTicker(catalog, b, TickerConfig{Interval: 5 * time.Millisecond, Volatility: 0.01}, nil)

	ticks, cancelSub := b.Subscribe()
	defer cancelSub()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, ticker.Start(ctx))
	defer cancel()

	seen := 0
	deadline := time.After(2 * time.Second)
	for seen < 6 {
		select {
		case tick := <-ticks:
			assert.True(t, tick.Price.IsPositive(), "price %s", tick.Price)
			assert.NotEmpty(t, tick.Name)
			assert.False(t, tick.Timestamp.IsZero())
			seen++
		case <-deadline:
			t.Fatalf("timed out after %d ticks", seen)
		}
	}
}

func TestTickerStopsOnCancel(t *testing.T) {
	catalog := &fakeCatalog{products: []domain.Product{
		{ID: uuid.New(), Name: "Acme", PricePerUnit: decimal.NewFromInt(100)},
	}}

	b := NewBroadcaster()
	ticker := NewTicker(catalog, b, TickerConfig{Interval: 5 * time.Millisecond, Volatility: 0.01}, nil)

	ticks, cancelSub := b.Subscribe()
	defer cancelSub()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, ticker.Start(ctx))

	// Wait for at least one tick, then stop the feed.
	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick before cancel")
	}
	cancel()

	// Drain anything in flight, then confirm silence.
	time.Sleep(50 * time.Millisecond)
	for len(ticks) > 0 {
		<-ticks
	}
	select {
	case tick := <-ticks:
		t.Fatalf("unexpected tick after cancel: %+v", tick)
	case <-time.After(50 * time.Millisecond):
	}
}
