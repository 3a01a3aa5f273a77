package app

import "github.com/shopspring/decimal"

// RecordSaleRequest is the input collected from the user for one sale.
type RecordSaleRequest struct {
	BroughtContainer bool
	Label            string // optional customer identification
}

// UpdatePricingRequest replaces both prices.
type UpdatePricingRequest struct {
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
}
