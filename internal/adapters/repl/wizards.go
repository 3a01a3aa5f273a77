package repl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"refill-ledger/internal/app"
	"refill-ledger/internal/core"

	"github.com/shopspring/decimal"
)

// handleSell runs the interactive sale entry.
func (s *Session) handleSell(ctx context.Context) error {
	choice, ok := s.prompt("Customer brought a container? (y/n): ")
	if !ok {
		return nil
	}
	label, ok := s.prompt("Label (optional): ")
	if !ok {
		return nil
	}

	result, err := s.svc.RecordSale(ctx, app.RecordSaleRequest{
		BroughtContainer: isYes(choice),
		Label:            label,
	})
	if errors.Is(err, core.ErrConfigurationRequired) {
		s.Notify("Prices are not set. Enter them now, then record the sale again.")
		return s.handlePrice(ctx, nil)
	}
	if err != nil {
		return err
	}

	s.printf("Sale recorded at %s. Profit %s, gross %s.\n",
		result.Sale.Time, money(result.Sale.UnitProfit), money(result.Sale.UnitGross))
	s.printf("Today: %d sales, profit %s, gross %s.\n",
		result.Stats.Count, money(result.Stats.TotalProfit), money(result.Stats.TotalGross))
	return nil
}

// handlePrice changes pricing. With two args it applies them directly,
// otherwise it asks for each price; a blank answer keeps the current value.
func (s *Session) handlePrice(ctx context.Context, args []string) error {
	current, err := s.svc.GetPricing(ctx)
	if err != nil {
		return err
	}

	buy, sell := current.Pricing.BuyPrice, current.Pricing.SellPrice
	switch len(args) {
	case 0:
		var ok bool
		if buy, ok = s.askPrice("Buy price", buy); !ok {
			s.println("Price change cancelled.")
			return nil
		}
		if sell, ok = s.askPrice("Sell price", sell); !ok {
			s.println("Price change cancelled.")
			return nil
		}
	case 2:
		if buy, err = parsePrice(args[0]); err != nil {
			s.printf("Invalid buy price: %s\n", args[0])
			return nil
		}
		if sell, err = parsePrice(args[1]); err != nil {
			s.printf("Invalid sell price: %s\n", args[1])
			return nil
		}
	default:
		s.println("Usage: /price [buy sell]")
		return nil
	}

	result, err := s.svc.UpdatePricing(ctx, app.UpdatePricingRequest{BuyPrice: buy, SellPrice: sell})
	if err != nil {
		return err
	}
	s.println("Prices updated.")
	s.write(func(b *strings.Builder) { printPricing(b, result) })
	return nil
}

// askPrice keeps prompting until the input is blank, a valid price or "cancel".
func (s *Session) askPrice(label string, current decimal.Decimal) (decimal.Decimal, bool) {
	for {
		raw, ok := s.prompt(fmt.Sprintf("%s [%s]: ", label, current.StringFixed(2)))
		if !ok || strings.EqualFold(raw, "cancel") {
			return current, false
		}
		if raw == "" {
			return current, true
		}
		price, err := parsePrice(raw)
		if err != nil {
			s.println("  Invalid price. Enter a number of zero or more.")
			continue
		}
		return price, true
	}
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if err != nil {
		return decimal.Zero, err
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %s", raw)
	}
	return price, nil
}

func isYes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes"
}
