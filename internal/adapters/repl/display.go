package repl

import (
	"fmt"
	"io"
	"strings"

	"refill-ledger/internal/app"
	"refill-ledger/internal/core"

	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

func printDashboard(w io.Writer, pricing *app.PricingResult, stats core.DayStats) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "  REFILL LEDGER — %s\n", stats.Date)
	fmt.Fprintln(w, strings.Repeat("=", 50))
	if pricing.Configured {
		fmt.Fprintf(w, "  Buy %s   Sell %s   Profit/unit %s\n",
			money(pricing.Pricing.BuyPrice), money(pricing.Pricing.SellPrice), money(pricing.UnitProfit))
	} else {
		fmt.Fprintln(w, "  Pricing not set. Use /price before selling.")
	}
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "  %-20s %27d\n", "Sales today", stats.Count)
	fmt.Fprintf(w, "  %-20s %27d\n", "Containers returned", stats.ContainerReturns)
	fmt.Fprintf(w, "  %-20s %27s\n", "Profit", money(stats.TotalProfit))
	fmt.Fprintf(w, "  %-20s %27s\n", "Gross", money(stats.TotalGross))
	fmt.Fprintln(w, strings.Repeat("=", 50))
}

func printStats(w io.Writer, stats core.DayStats) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  STATS — %s\n", stats.Date)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "  %-20s %17d\n", "Sales", stats.Count)
	fmt.Fprintf(w, "  %-20s %17d\n", "Containers returned", stats.ContainerReturns)
	fmt.Fprintf(w, "  %-20s %17s\n", "Profit", money(stats.TotalProfit))
	fmt.Fprintf(w, "  %-20s %17s\n", "Gross", money(stats.TotalGross))
}

func printSales(w io.Writer, result *app.SalesResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintf(w, "  SALES — %s\n", result.Date)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	if len(result.Sales) == 0 {
		fmt.Fprintln(w, "  No sales recorded.")
		fmt.Fprintln(w, strings.Repeat("=", 62))
		return
	}
	fmt.Fprintf(w, "  %-8s %-9s %-20s %10s %10s\n", "TIME", "CONTAINER", "LABEL", "PROFIT", "GROSS")
	fmt.Fprintln(w, strings.Repeat("-", 62))
	for _, s := range result.Sales {
		container := "no"
		if s.BroughtContainer {
			container = "yes"
		}
		fmt.Fprintf(w, "  %-8s %-9s %-20s %10s %10s\n",
			s.Time, container, truncate(s.Label, 20), money(s.UnitProfit), money(s.UnitGross))
	}
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func printPricing(w io.Writer, result *app.PricingResult) {
	fmt.Fprintf(w, "Buy price:   %s\n", money(result.Pricing.BuyPrice))
	fmt.Fprintf(w, "Sell price:  %s\n", money(result.Pricing.SellPrice))
	fmt.Fprintf(w, "Unit profit: %s\n", money(result.UnitProfit))
	if !result.Configured {
		fmt.Fprintln(w, "Sales are blocked until both prices are above zero.")
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  /sell              record a sale (shortcut: s)")
	fmt.Fprintln(w, "  /price [buy sell]  show or change prices")
	fmt.Fprintln(w, "  /sales [date]      list sales, newest first (default today)")
	fmt.Fprintln(w, "  /stats [date]      totals for a date (default today)")
	fmt.Fprintln(w, "  /today             redraw the dashboard")
	fmt.Fprintln(w, "  /clear             delete today's sales")
	fmt.Fprintln(w, "  /reset             delete all sales and reset prices")
	fmt.Fprintln(w, "  /help              this list")
	fmt.Fprintln(w, "  /exit              quit")
	fmt.Fprintln(w, "Dates use YYYY-MM-DD.")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
