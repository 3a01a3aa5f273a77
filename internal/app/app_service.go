package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"refill-ledger/internal/core"

	"go.uber.org/zap"
)

type appService struct {
	ledger    *core.SalesLedger
	pricing   *core.PricingService
	loc       *time.Location
	now       func() time.Time
	refresher Refresher
	log       *zap.Logger
}

// Option customises the application service.
type Option func(*appService)

// WithClock replaces time.Now when deriving today's date.
func WithClock(now func() time.Time) Option {
	return func(s *appService) { s.now = now }
}

// NewAppService constructs an appService that satisfies ApplicationService.
// A nil refresher or logger is replaced by a no-op.
func NewAppService(
	ledger *core.SalesLedger,
	pricing *core.PricingService,
	loc *time.Location,
	refresher Refresher,
	log *zap.Logger,
	opts ...Option,
) ApplicationService {
	if loc == nil {
		loc = time.Local
	}
	if refresher == nil {
		refresher = NopRefresher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &appService{
		ledger:    ledger,
		pricing:   pricing,
		loc:       loc,
		now:       time.Now,
		refresher: refresher,
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *appService) Today() core.Date {
	return core.DateOf(s.now(), s.loc)
}

func (s *appService) GetTodayStats(ctx context.Context) (*StatsResult, error) {
	return s.GetStats(ctx, s.Today())
}

func (s *appService) GetTodaySales(ctx context.Context) (*SalesResult, error) {
	return s.GetSales(ctx, s.Today())
}

func (s *appService) GetStats(_ context.Context, date core.Date) (*StatsResult, error) {
	return &StatsResult{Stats: s.ledger.StatsFor(date)}, nil
}

func (s *appService) GetSales(_ context.Context, date core.Date) (*SalesResult, error) {
	return &SalesResult{Date: date, Sales: s.ledger.SalesFor(date)}, nil
}

// RecordSale prices the sale from a snapshot of the pricing taken now, so a
// concurrent price change cannot split buy and sell between two configs.
func (s *appService) RecordSale(ctx context.Context, req RecordSaleRequest) (*SaleResult, error) {
	today := s.Today()
	sale, err := s.ledger.RecordSale(ctx, today, req.BroughtContainer, req.Label, s.pricing.Get())
	if err != nil {
		return nil, err
	}
	return &SaleResult{Date: today, Sale: sale, Stats: s.ledger.StatsFor(today)}, nil
}

func (s *appService) ClearToday(ctx context.Context) error {
	return s.ledger.ClearDate(ctx, s.Today())
}

// ResetEverything zeroes pricing first and then clears sales. If clearing sales
// fails the previous prices are written back, so a failed reset leaves both
// slots as they were. If that restore also fails the view is refreshed anyway
// to match what is stored.
func (s *appService) ResetEverything(ctx context.Context) error {
	prev := s.pricing.Get()
	if err := s.pricing.Reset(ctx); err != nil {
		return fmt.Errorf("reset pricing: %w", err)
	}

	if err := s.ledger.ClearAll(ctx); err != nil {
		clearErr := fmt.Errorf("reset sales: %w", err)
		if restoreErr := s.pricing.Update(ctx, prev.BuyPrice, prev.SellPrice); restoreErr != nil {
			s.log.Error("failed to restore pricing after failed reset", zap.Error(restoreErr))
			s.refresher.Refresh()
			return errors.Join(clearErr, fmt.Errorf("restore pricing: %w", restoreErr))
		}
		return clearErr
	}

	s.log.Info("full reset completed")
	s.refresher.Refresh()
	return nil
}

func (s *appService) GetPricing(_ context.Context) (*PricingResult, error) {
	return pricingResult(s.pricing.Get()), nil
}

func (s *appService) UpdatePricing(ctx context.Context, req UpdatePricingRequest) (*PricingResult, error) {
	if err := s.pricing.Update(ctx, req.BuyPrice, req.SellPrice); err != nil {
		return nil, err
	}
	return pricingResult(s.pricing.Get()), nil
}

func pricingResult(p core.PricingConfig) *PricingResult {
	return &PricingResult{
		Pricing:    p,
		UnitProfit: p.UnitProfit(),
		Configured: p.IsConfigured(),
	}
}
