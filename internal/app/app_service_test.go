package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"refill-ledger/internal/app"
	"refill-ledger/internal/core"
	"refill-ledger/internal/store"
	"refill-ledger/internal/store/memory"

	"github.com/shopspring/decimal"
)

type countingRefresher struct{ n int }

func (r *countingRefresher) Refresh() { r.n++ }

type failingStore struct {
	*memory.Store
	failKey string
	// failFn, when set, decides per save whether to fail.
	failFn func(key string) bool
}

func (f *failingStore) Save(ctx context.Context, key string, value []byte) error {
	if key == f.failKey || (f.failFn != nil && f.failFn(key)) {
		return errors.New("disk full")
	}
	return f.Store.Save(ctx, key, value)
}

type harness struct {
	svc       app.ApplicationService
	kv        store.Store
	now       time.Time
	refresher *countingRefresher
}

func newHarness(t *testing.T, kv store.Store) *harness {
	t.Helper()
	ctx := context.Background()
	h := &harness{
		kv:        kv,
		now:       time.Date(2026, 2, 8, 9, 0, 0, 0, time.UTC),
		refresher: &countingRefresher{},
	}
	clock := func() time.Time { return h.now }

	ledger, err := core.LoadLedger(ctx, kv, nil, core.WithClock(clock))
	if err != nil {
		t.Fatalf("LoadLedger: %v", err)
	}
	pricing, err := core.LoadPricing(ctx, kv, nil)
	if err != nil {
		t.Fatalf("LoadPricing: %v", err)
	}
	h.svc = app.NewAppService(ledger, pricing, time.UTC, h.refresher, nil, app.WithClock(clock))
	return h
}

func setPrices(t *testing.T, svc app.ApplicationService, buy, sell string) {
	t.Helper()
	_, err := svc.UpdatePricing(context.Background(), app.UpdatePricingRequest{
		BuyPrice:  decimal.RequireFromString(buy),
		SellPrice: decimal.RequireFromString(sell),
	})
	if err != nil {
		t.Fatalf("UpdatePricing: %v", err)
	}
}

func TestRecordSale_RequiresPricing(t *testing.T) {
	h := newHarness(t, memory.New())

	_, err := h.svc.RecordSale(context.Background(), app.RecordSaleRequest{})
	if !errors.Is(err, core.ErrConfigurationRequired) {
		t.Fatalf("expected ErrConfigurationRequired, got %v", err)
	}

	stats, _ := h.svc.GetTodayStats(context.Background())
	if stats.Stats.Count != 0 {
		t.Errorf("expected no sales, got %d", stats.Stats.Count)
	}
}

func TestRecordSale_UsesTodayAndCurrentPricing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, memory.New())
	setPrices(t, h.svc, "2.00", "3.50")

	res, err := h.svc.RecordSale(ctx, app.RecordSaleRequest{BroughtContainer: true, Label: " Ana "})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if res.Date != "2026-02-08" {
		t.Errorf("Date = %s, want 2026-02-08", res.Date)
	}
	if res.Sale.Label != "Ana" || !res.Sale.BroughtContainer {
		t.Errorf("unexpected sale %+v", res.Sale)
	}
	if !res.Sale.UnitProfit.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("profit = %s, want 1.5", res.Sale.UnitProfit)
	}
	if res.Stats.Count != 1 || res.Stats.ContainerReturns != 1 {
		t.Errorf("unexpected stats %+v", res.Stats)
	}
}

func TestPriceChange_DoesNotAffectRecordedSales(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, memory.New())

	setPrices(t, h.svc, "2", "3.5")
	if _, err := h.svc.RecordSale(ctx, app.RecordSaleRequest{}); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	setPrices(t, h.svc, "2", "4")
	if _, err := h.svc.RecordSale(ctx, app.RecordSaleRequest{}); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	stats, _ := h.svc.GetTodayStats(ctx)
	if !stats.Stats.TotalProfit.Equal(decimal.RequireFromString("3.5")) {
		t.Errorf("profit = %s, want 3.5", stats.Stats.TotalProfit)
	}
	if !stats.Stats.TotalGross.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("gross = %s, want 7.5", stats.Stats.TotalGross)
	}

	sales, _ := h.svc.GetTodaySales(ctx)
	if !sales.Sales[0].UnitGross.Equal(decimal.NewFromInt(4)) {
		t.Errorf("newest sale should be first, got gross %s", sales.Sales[0].UnitGross)
	}
}

func TestDayRollover_StartsFreshBucket(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, memory.New())
	setPrices(t, h.svc, "1", "2")

	if _, err := h.svc.RecordSale(ctx, app.RecordSaleRequest{}); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	h.now = h.now.Add(24 * time.Hour)

	if got := h.svc.Today(); got != "2026-02-09" {
		t.Fatalf("Today = %s, want 2026-02-09", got)
	}
	stats, _ := h.svc.GetTodayStats(ctx)
	if stats.Stats.Count != 0 {
		t.Errorf("new day should be empty, got %d", stats.Stats.Count)
	}
	prev, _ := h.svc.GetStats(ctx, "2026-02-08")
	if prev.Stats.Count != 1 {
		t.Errorf("previous day should keep its sale, got %d", prev.Stats.Count)
	}
}

func TestToday_UsesConfiguredLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	ctx := context.Background()
	kv := memory.New()
	ledger, _ := core.LoadLedger(ctx, kv, nil)
	pricing, _ := core.LoadPricing(ctx, kv, nil)

	// 02:00 UTC is still the previous evening five hours west.
	now := time.Date(2026, 2, 8, 2, 0, 0, 0, time.UTC)
	svc := app.NewAppService(ledger, pricing, loc, nil, nil, app.WithClock(func() time.Time { return now }))

	if got := svc.Today(); got != "2026-02-07" {
		t.Errorf("Today = %s, want 2026-02-07", got)
	}
}

func TestClearToday_LeavesOtherDates(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, memory.New())
	setPrices(t, h.svc, "1", "2")

	h.svc.RecordSale(ctx, app.RecordSaleRequest{})
	h.now = h.now.Add(24 * time.Hour)
	h.svc.RecordSale(ctx, app.RecordSaleRequest{})

	if err := h.svc.ClearToday(ctx); err != nil {
		t.Fatalf("ClearToday: %v", err)
	}
	today, _ := h.svc.GetTodaySales(ctx)
	if len(today.Sales) != 0 {
		t.Errorf("today should be empty, got %d", len(today.Sales))
	}
	prev, _ := h.svc.GetSales(ctx, "2026-02-08")
	if len(prev.Sales) != 1 {
		t.Errorf("previous day should be untouched, got %d", len(prev.Sales))
	}
}

func TestResetEverything(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	h := newHarness(t, kv)
	setPrices(t, h.svc, "2", "3.5")
	h.svc.RecordSale(ctx, app.RecordSaleRequest{})

	if err := h.svc.ResetEverything(ctx); err != nil {
		t.Fatalf("ResetEverything: %v", err)
	}

	pricing, _ := h.svc.GetPricing(ctx)
	if pricing.Configured || !pricing.Pricing.BuyPrice.IsZero() || !pricing.Pricing.SellPrice.IsZero() {
		t.Errorf("pricing not reset: %+v", pricing.Pricing)
	}
	stats, _ := h.svc.GetTodayStats(ctx)
	if stats.Stats.Count != 0 {
		t.Errorf("sales not cleared: %d", stats.Stats.Count)
	}
	if h.refresher.n != 1 {
		t.Errorf("expected one refresh, got %d", h.refresher.n)
	}

	settings, _ := kv.Load(ctx, store.KeySettings)
	if string(settings) != `{"buyPrice":0,"sellPrice":0}` {
		t.Errorf("settings slot = %s", settings)
	}
	sales, _ := kv.Load(ctx, store.KeySales)
	if string(sales) != `{}` {
		t.Errorf("sales slot = %s", sales)
	}

	_, err := h.svc.RecordSale(ctx, app.RecordSaleRequest{})
	if !errors.Is(err, core.ErrConfigurationRequired) {
		t.Errorf("expected ErrConfigurationRequired after reset, got %v", err)
	}
}

func TestResetEverything_SaveFailureSkipsRefresh(t *testing.T) {
	ctx := context.Background()
	kv := &failingStore{Store: memory.New()}
	h := newHarness(t, kv)
	setPrices(t, h.svc, "2", "3")
	h.svc.RecordSale(ctx, app.RecordSaleRequest{})

	kv.failKey = store.KeySales
	if err := h.svc.ResetEverything(ctx); err == nil {
		t.Fatal("expected error")
	}
	if h.refresher.n != 0 {
		t.Errorf("refresh should not fire on failure, got %d", h.refresher.n)
	}
	stats, _ := h.svc.GetTodayStats(ctx)
	if stats.Stats.Count != 1 {
		t.Errorf("sales should survive a failed reset, got %d", stats.Stats.Count)
	}
	assertStoredPricing(t, kv, `{"buyPrice":2,"sellPrice":3}`)
	p, _ := h.svc.GetPricing(ctx)
	if !p.Configured || !p.Pricing.SellPrice.Equal(decimal.NewFromInt(3)) {
		t.Errorf("prices should be restored after a failed reset: %+v", p.Pricing)
	}
}

func TestResetEverything_PricingSaveFailureChangesNothing(t *testing.T) {
	ctx := context.Background()
	kv := &failingStore{Store: memory.New()}
	h := newHarness(t, kv)
	setPrices(t, h.svc, "2", "3.5")
	if _, err := h.svc.RecordSale(ctx, app.RecordSaleRequest{}); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	kv.failKey = store.KeySettings
	if err := h.svc.ResetEverything(ctx); err == nil {
		t.Fatal("expected error")
	}

	stats, _ := h.svc.GetTodayStats(ctx)
	if stats.Stats.Count != 1 {
		t.Errorf("sales should survive a failed reset, got %d", stats.Stats.Count)
	}
	raw, _ := kv.Store.Load(ctx, store.KeySales)
	if string(raw) == `{}` {
		t.Error("stored sales were wiped by a failed reset")
	}
	p, _ := h.svc.GetPricing(ctx)
	if !p.Configured {
		t.Errorf("prices should be unchanged: %+v", p.Pricing)
	}
	if h.refresher.n != 0 {
		t.Errorf("nothing changed, so no refresh expected, got %d", h.refresher.n)
	}
}

func TestResetEverything_RestoreFailureStillRefreshes(t *testing.T) {
	ctx := context.Background()
	kv := &failingStore{Store: memory.New()}
	h := newHarness(t, kv)
	setPrices(t, h.svc, "2", "3.5")
	h.svc.RecordSale(ctx, app.RecordSaleRequest{})

	settingsSaves := 0
	kv.failFn = func(key string) bool {
		if key == store.KeySales {
			return true
		}
		settingsSaves++
		return settingsSaves > 1
	}

	if err := h.svc.ResetEverything(ctx); err == nil {
		t.Fatal("expected error")
	}
	if h.refresher.n != 1 {
		t.Errorf("view should be refreshed to match storage, got %d refreshes", h.refresher.n)
	}
	assertStoredPricing(t, kv, `{"buyPrice":0,"sellPrice":0}`)
	p, _ := h.svc.GetPricing(ctx)
	if p.Configured {
		t.Errorf("in-memory pricing should match storage: %+v", p.Pricing)
	}
}

func assertStoredPricing(t *testing.T, kv *failingStore, want string) {
	t.Helper()
	raw, err := kv.Store.Load(context.Background(), store.KeySettings)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if string(raw) != want {
		t.Errorf("settings slot = %s, want %s", raw, want)
	}
}

func TestUpdatePricing_ReportsConfigured(t *testing.T) {
	h := newHarness(t, memory.New())

	res, err := h.svc.UpdatePricing(context.Background(), app.UpdatePricingRequest{
		BuyPrice:  decimal.NewFromInt(2),
		SellPrice: decimal.Zero,
	})
	if err != nil {
		t.Fatalf("UpdatePricing: %v", err)
	}
	if res.Configured {
		t.Error("zero sell price should not count as configured")
	}
	if !res.UnitProfit.Equal(decimal.NewFromInt(-2)) {
		t.Errorf("unit profit = %s, want -2", res.UnitProfit)
	}
}
