package core

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"refill-ledger/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SalesLedger maps calendar dates to their sales, newest first.
//
// A date has a bucket only while it holds at least one sale: clearing a date
// deletes its bucket, so a cleared date and a date that never sold look the same.
// Every mutation saves the whole ledger to the "sales" slot and only takes
// effect in memory once that save succeeds.
type SalesLedger struct {
	mu      sync.Mutex
	kv      store.Store
	log     *zap.Logger
	now     func() time.Time
	newID   func() string
	buckets map[Date][]Sale
}

// LedgerOption customises a SalesLedger.
type LedgerOption func(*SalesLedger)

// WithClock sets the clock used to stamp Sale.Time. The returned time should
// already be in the shop's location.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *SalesLedger) { l.now = now }
}

// WithIDGenerator replaces the UUID generator used for Sale.ID.
func WithIDGenerator(newID func() string) LedgerOption {
	return func(l *SalesLedger) { l.newID = newID }
}

// LoadLedger reads the sales slot. A missing slot is initialised to an empty
// ledger and written back.
func LoadLedger(ctx context.Context, kv store.Store, log *zap.Logger, opts ...LedgerOption) (*SalesLedger, error) {
	if log == nil {
		log = zap.NewNop()
	}
	l := &SalesLedger{
		kv:    kv,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}

	raw, err := kv.Load(ctx, store.KeySales)
	switch {
	case errors.Is(err, store.ErrNotFound):
		l.buckets = make(map[Date][]Sale)
		if err := l.persist(ctx, l.buckets); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("load sales: %w", err)
	default:
		buckets, err := decodeSales(raw)
		if err != nil {
			return nil, err
		}
		l.buckets = buckets
	}
	return l, nil
}

// RecordSale prepends a new sale to date's bucket, pricing it from pricing.
// It fails with ErrConfigurationRequired, changing nothing, unless both prices
// are strictly positive.
func (l *SalesLedger) RecordSale(ctx context.Context, date Date, broughtContainer bool, label string, pricing PricingConfig) (Sale, error) {
	if !pricing.IsConfigured() {
		l.log.Warn("sale rejected: pricing not configured",
			zap.String("date", date.String()),
			zap.String("buy_price", pricing.BuyPrice.String()),
			zap.String("sell_price", pricing.SellPrice.String()),
		)
		return Sale{}, ErrConfigurationRequired
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	sale := Sale{
		ID:               l.newID(),
		Time:             l.now().Format(TimeLayout),
		BroughtContainer: broughtContainer,
		Label:            strings.TrimSpace(label),
		UnitProfit:       pricing.UnitProfit(),
		UnitGross:        pricing.SellPrice,
	}

	prev := l.buckets[date]
	bucket := make([]Sale, 0, len(prev)+1)
	bucket = append(bucket, sale)
	bucket = append(bucket, prev...)

	next := maps.Clone(l.buckets)
	next[date] = bucket
	if err := l.persist(ctx, next); err != nil {
		return Sale{}, err
	}
	l.buckets = next

	l.log.Info("sale recorded",
		zap.String("date", date.String()),
		zap.String("sale_id", sale.ID),
		zap.Bool("brought_container", sale.BroughtContainer),
		zap.String("profit", sale.UnitProfit.String()),
		zap.String("gross", sale.UnitGross.String()),
	)
	return sale, nil
}

// SalesFor returns a copy of date's bucket, newest first. An absent date
// yields an empty slice and no bucket is created.
func (l *SalesLedger) SalesFor(date Date) []Sale {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[date]
	if !ok {
		return []Sale{}
	}
	return slices.Clone(bucket)
}

// StatsFor folds date's bucket. It is recomputed on every call.
func (l *SalesLedger) StatsFor(date Date) DayStats {
	return ComputeStats(date, l.SalesFor(date))
}

// HasBucket reports whether date currently has a bucket.
func (l *SalesLedger) HasBucket(date Date) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.buckets[date]
	return ok
}

// Dates lists every date that has a bucket, newest first.
func (l *SalesLedger) Dates() []Date {
	l.mu.Lock()
	defer l.mu.Unlock()

	dates := slices.Collect(maps.Keys(l.buckets))
	slices.Sort(dates)
	slices.Reverse(dates)
	return dates
}

// ClearDate deletes date's bucket. Clearing a date without a bucket is a no-op.
func (l *SalesLedger) ClearDate(ctx context.Context, date Date) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[date]
	if !ok {
		return nil
	}
	removed := len(bucket)

	next := maps.Clone(l.buckets)
	delete(next, date)
	if err := l.persist(ctx, next); err != nil {
		return err
	}
	l.buckets = next

	l.log.Info("date cleared", zap.String("date", date.String()), zap.Int("sales_removed", removed))
	return nil
}

// ClearAll deletes every bucket.
func (l *SalesLedger) ClearAll(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make(map[Date][]Sale)
	if err := l.persist(ctx, next); err != nil {
		return err
	}
	l.buckets = next

	l.log.Info("ledger cleared")
	return nil
}

func (l *SalesLedger) persist(ctx context.Context, buckets map[Date][]Sale) error {
	raw, err := encodeSales(buckets)
	if err != nil {
		return err
	}
	if err := l.kv.Save(ctx, store.KeySales, raw); err != nil {
		l.log.Error("failed to save sales", zap.Error(err))
		return fmt.Errorf("save sales: %w", err)
	}
	return nil
}
