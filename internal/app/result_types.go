package app

import (
	"refill-ledger/internal/core"

	"github.com/shopspring/decimal"
)

// StatsResult is returned by GetTodayStats and GetStats.
type StatsResult struct {
	Stats core.DayStats
}

// SalesResult is returned by GetTodaySales and GetSales.
type SalesResult struct {
	Date  core.Date
	Sales []core.Sale
}

// SaleResult is returned by RecordSale. Stats reflect the bucket after the sale.
type SaleResult struct {
	Date  core.Date
	Sale  core.Sale
	Stats core.DayStats
}

// PricingResult is returned by GetPricing and UpdatePricing.
type PricingResult struct {
	Pricing    core.PricingConfig
	UnitProfit decimal.Decimal
	Configured bool
}
