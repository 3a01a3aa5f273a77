package core_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"refill-ledger/internal/core"
	"refill-ledger/internal/store/memory"

	"github.com/shopspring/decimal"
)

// fakeStore wraps the memory store so tests can inject failures and count saves.
type fakeStore struct {
	*memory.Store
	loadFn func(ctx context.Context, key string) ([]byte, error)
	saveFn func(ctx context.Context, key string, value []byte) error
	saves  map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{Store: memory.New(), saves: make(map[string]int)}
}

func (f *fakeStore) Load(ctx context.Context, key string) ([]byte, error) {
	if f.loadFn != nil {
		return f.loadFn(ctx, key)
	}
	return f.Store.Load(ctx, key)
}

func (f *fakeStore) Save(ctx context.Context, key string, value []byte) error {
	if f.saveFn != nil {
		if err := f.saveFn(ctx, key, value); err != nil {
			return err
		}
	}
	f.saves[key]++
	return f.Store.Save(ctx, key, value)
}

func (f *fakeStore) raw(t *testing.T, key string) string {
	t.Helper()
	b, err := f.Store.Load(context.Background(), key)
	if err != nil {
		t.Fatalf("raw load %s: %v", key, err)
	}
	return string(b)
}

var fixedNow = time.Date(2026, 2, 8, 14, 30, 5, 0, time.UTC)

func newTestLedger(t *testing.T, kv *fakeStore) *core.SalesLedger {
	t.Helper()
	n := 0
	l, err := core.LoadLedger(context.Background(), kv, nil,
		core.WithClock(func() time.Time { return fixedNow }),
		core.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("sale-%d", n)
		}),
	)
	if err != nil {
		t.Fatalf("LoadLedger: %v", err)
	}
	return l
}

func pricing(buy, sell string) core.PricingConfig {
	return core.PricingConfig{
		BuyPrice:  decimal.RequireFromString(buy),
		SellPrice: decimal.RequireFromString(sell),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertStats(t *testing.T, got core.DayStats, count int, profit, gross string) {
	t.Helper()
	if got.Count != count {
		t.Errorf("expected count %d, got %d", count, got.Count)
	}
	if !got.TotalProfit.Equal(dec(profit)) {
		t.Errorf("expected total profit %s, got %s", profit, got.TotalProfit)
	}
	if !got.TotalGross.Equal(dec(gross)) {
		t.Errorf("expected total gross %s, got %s", gross, got.TotalGross)
	}
}
