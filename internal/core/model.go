package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrConfigurationRequired is returned by RecordSale when the buy or sell price
// is not strictly positive. Callers should send the user to price entry.
var ErrConfigurationRequired = errors.New("pricing not configured: buy and sell price must be greater than zero")

// DateLayout is the layout of a ledger partition key.
const DateLayout = "2006-01-02"

// TimeLayout is the display layout of Sale.Time.
const TimeLayout = "15:04:05"

// Date is a calendar date (YYYY-MM-DD) in the shop's local time zone.
type Date string

// DateOf returns the calendar date of t in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return Date(t.In(loc).Format(DateLayout))
}

// ParseDate validates s as a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return Date(t.Format(DateLayout)), nil
}

func (d Date) String() string { return string(d) }

// PricingConfig holds the unit cost and unit sale price.
type PricingConfig struct {
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
}

// IsConfigured reports whether both prices are strictly positive.
func (p PricingConfig) IsConfigured() bool {
	return p.BuyPrice.IsPositive() && p.SellPrice.IsPositive()
}

// UnitProfit is SellPrice - BuyPrice.
func (p PricingConfig) UnitProfit() decimal.Decimal {
	return p.SellPrice.Sub(p.BuyPrice)
}

// Sale is one recorded transaction. Profit and gross are copied from the
// pricing in force when the sale was recorded and never change afterwards.
type Sale struct {
	ID               string
	Time             string
	BroughtContainer bool
	Label            string
	UnitProfit       decimal.Decimal
	UnitGross        decimal.Decimal
}

// DayStats aggregates one date's bucket.
type DayStats struct {
	Date             Date
	Count            int
	ContainerReturns int
	TotalProfit      decimal.Decimal
	TotalGross       decimal.Decimal
}

// ComputeStats folds sales into a DayStats for date.
func ComputeStats(date Date, sales []Sale) DayStats {
	stats := DayStats{
		Date:        date,
		TotalProfit: decimal.Zero,
		TotalGross:  decimal.Zero,
	}
	for _, s := range sales {
		stats.Count++
		if s.BroughtContainer {
			stats.ContainerReturns++
		}
		stats.TotalProfit = stats.TotalProfit.Add(s.UnitProfit)
		stats.TotalGross = stats.TotalGross.Add(s.UnitGross)
	}
	return stats
}
