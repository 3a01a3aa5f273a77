package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"refill-ledger/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PricingService owns the current PricingConfig and its "settings" slot.
type PricingService struct {
	mu      sync.Mutex
	kv      store.Store
	log     *zap.Logger
	current PricingConfig
}

// LoadPricing reads the settings slot. A missing slot is initialised to zero
// prices and written back.
func LoadPricing(ctx context.Context, kv store.Store, log *zap.Logger) (*PricingService, error) {
	if log == nil {
		log = zap.NewNop()
	}
	p := &PricingService{kv: kv, log: log}

	raw, err := kv.Load(ctx, store.KeySettings)
	switch {
	case errors.Is(err, store.ErrNotFound):
		p.current = PricingConfig{BuyPrice: decimal.Zero, SellPrice: decimal.Zero}
		if err := p.persist(ctx, p.current); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("load pricing: %w", err)
	default:
		cfg, err := decodeSettings(raw)
		if err != nil {
			return nil, err
		}
		p.current = cfg
	}
	return p, nil
}

// Get returns the current pricing snapshot.
func (p *PricingService) Get() PricingConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Update replaces both prices. Any values are accepted here; RecordSale is
// where non-positive prices are rejected.
func (p *PricingService) Update(ctx context.Context, buy, sell decimal.Decimal) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := PricingConfig{BuyPrice: buy, SellPrice: sell}
	if err := p.persist(ctx, next); err != nil {
		return err
	}
	p.current = next
	p.log.Info("pricing updated",
		zap.String("buy_price", buy.String()),
		zap.String("sell_price", sell.String()),
	)
	return nil
}

// Reset sets both prices back to zero.
func (p *PricingService) Reset(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := PricingConfig{BuyPrice: decimal.Zero, SellPrice: decimal.Zero}
	if err := p.persist(ctx, next); err != nil {
		return err
	}
	p.current = next
	p.log.Info("pricing reset")
	return nil
}

func (p *PricingService) persist(ctx context.Context, cfg PricingConfig) error {
	raw, err := encodeSettings(cfg)
	if err != nil {
		return err
	}
	if err := p.kv.Save(ctx, store.KeySettings, raw); err != nil {
		p.log.Error("failed to save pricing", zap.Error(err))
		return fmt.Errorf("save pricing: %w", err)
	}
	return nil
}
