package app

import (
	"context"

	"refill-ledger/internal/core"
)

// ApplicationService is the single interface all UI adapters (REPL, CLI) call.
// Implementations must contain no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// Today returns the current calendar date in the shop's location.
	Today() core.Date

	// GetTodayStats returns count, profit and gross for today.
	GetTodayStats(ctx context.Context) (*StatsResult, error)

	// GetTodaySales returns today's sales, newest first.
	GetTodaySales(ctx context.Context) (*SalesResult, error)

	// GetStats returns the aggregates for an explicit date.
	GetStats(ctx context.Context, date core.Date) (*StatsResult, error)

	// GetSales returns the sales for an explicit date, newest first.
	GetSales(ctx context.Context, date core.Date) (*SalesResult, error)

	// RecordSale records one sale for today at the current pricing.
	// Returns core.ErrConfigurationRequired when pricing is not set; callers should
	// send the user to price entry and not retry automatically.
	RecordSale(ctx context.Context, req RecordSaleRequest) (*SaleResult, error)

	// ClearToday deletes today's sales. Callers confirm with the user first.
	ClearToday(ctx context.Context) error

	// ResetEverything deletes all sales and zeroes pricing, leaving storage as on
	// first start, then asks the presentation layer to refresh.
	// Callers confirm with the user first.
	ResetEverything(ctx context.Context) error

	// GetPricing returns the current pricing.
	GetPricing(ctx context.Context) (*PricingResult, error)

	// UpdatePricing replaces buy and sell price together. Future sales use the new
	// prices; recorded sales keep theirs.
	UpdatePricing(ctx context.Context, req UpdatePricingRequest) (*PricingResult, error)
}

// Prompter is the confirmation/notification capability the presentation layer
// provides. It is used before destructive operations.
type Prompter interface {
	Confirm(message string) bool
	Notify(message string)
}

// Refresher is signalled when state changed wholesale and every view must be redrawn.
type Refresher interface {
	Refresh()
}

// NopRefresher ignores refresh signals. Used by one-shot adapters.
type NopRefresher struct{}

func (NopRefresher) Refresh() {}
