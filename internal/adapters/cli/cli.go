package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"refill-ledger/internal/app"
	"refill-ledger/internal/core"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const usage = "Available: stats, sales, sell, price, clear, reset, schema"

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string, log *zap.Logger) {
	if err := Execute(ctx, svc, args, os.Stdout); err != nil {
		log.Fatal("command failed", zap.Strings("args", args), zap.Error(err))
	}
}

// Execute runs one subcommand, writing its output to out.
func Execute(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	switch args[0] {
	case "stats", "st":
		fs, date := dateFlags("stats")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		d, err := resolveDate(svc, *date)
		if err != nil {
			return err
		}
		result, err := svc.GetStats(ctx, d)
		if err != nil {
			return err
		}
		printStats(out, result.Stats)

	case "sales", "ls":
		fs, date := dateFlags("sales")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		d, err := resolveDate(svc, *date)
		if err != nil {
			return err
		}
		result, err := svc.GetSales(ctx, d)
		if err != nil {
			return err
		}
		printSales(out, result)

	case "sell", "s":
		fs := flag.NewFlagSet("sell", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		container := fs.Bool("container", false, "customer brought their own container")
		label := fs.String("label", "", "optional customer identification")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		result, err := svc.RecordSale(ctx, app.RecordSaleRequest{BroughtContainer: *container, Label: *label})
		if errors.Is(err, core.ErrConfigurationRequired) {
			return fmt.Errorf("%w: set prices first with: price <buy> <sell>", err)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Sale recorded: %s %s (profit %s, gross %s)\n",
			result.Date, result.Sale.Time, money(result.Sale.UnitProfit), money(result.Sale.UnitGross))
		printStats(out, result.Stats)

	case "price", "p":
		switch len(args) {
		case 1:
			result, err := svc.GetPricing(ctx)
			if err != nil {
				return err
			}
			printPricing(out, result)
		case 3:
			buy, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid buy price %q: %w", args[1], err)
			}
			sell, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid sell price %q: %w", args[2], err)
			}
			if buy.IsNegative() || sell.IsNegative() {
				return errors.New("prices cannot be negative")
			}
			result, err := svc.UpdatePricing(ctx, app.UpdatePricingRequest{BuyPrice: buy, SellPrice: sell})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Prices updated.")
			printPricing(out, result)
		default:
			return errors.New("usage: price [buy sell]")
		}

	case "clear":
		if !confirmed(args[1:]) {
			return errors.New("clear deletes today's sales; pass --yes to confirm")
		}
		if err := svc.ClearToday(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "Sales for %s cleared.\n", svc.Today())

	case "reset":
		if !confirmed(args[1:]) {
			return errors.New("reset deletes all sales and prices; pass --yes to confirm")
		}
		if err := svc.ResetEverything(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Everything reset.")

	case "schema":
		schema, err := core.PersistenceSchema()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(schema))

	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage)
	}
	return nil
}

func dateFlags(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	date := fs.String("date", "", "date as YYYY-MM-DD (default today)")
	return fs, date
}

func resolveDate(svc app.ApplicationService, raw string) (core.Date, error) {
	if raw == "" {
		return svc.Today(), nil
	}
	return core.ParseDate(raw)
}

func confirmed(args []string) bool {
	for _, a := range args {
		if a == "--yes" || a == "-y" {
			return true
		}
	}
	return false
}

func money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

func printStats(w io.Writer, stats core.DayStats) {
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintf(w, "  %-20s %17s\n", "Date", stats.Date)
	fmt.Fprintf(w, "  %-20s %17d\n", "Sales", stats.Count)
	fmt.Fprintf(w, "  %-20s %17d\n", "Containers returned", stats.ContainerReturns)
	fmt.Fprintf(w, "  %-20s %17s\n", "Profit", money(stats.TotalProfit))
	fmt.Fprintf(w, "  %-20s %17s\n", "Gross", money(stats.TotalGross))
	fmt.Fprintln(w, strings.Repeat("=", 40))
}

func printSales(w io.Writer, result *app.SalesResult) {
	if len(result.Sales) == 0 {
		fmt.Fprintf(w, "No sales recorded for %s.\n", result.Date)
		return
	}
	fmt.Fprintf(w, "%-36s %-8s %-9s %-20s %10s %10s\n", "ID", "TIME", "CONTAINER", "LABEL", "PROFIT", "GROSS")
	for _, s := range result.Sales {
		fmt.Fprintf(w, "%-36s %-8s %-9t %-20s %10s %10s\n",
			s.ID, s.Time, s.BroughtContainer, s.Label, money(s.UnitProfit), money(s.UnitGross))
	}
}

func printPricing(w io.Writer, result *app.PricingResult) {
	fmt.Fprintf(w, "Buy price:   %s\n", money(result.Pricing.BuyPrice))
	fmt.Fprintf(w, "Sell price:  %s\n", money(result.Pricing.SellPrice))
	fmt.Fprintf(w, "Unit profit: %s\n", money(result.UnitProfit))
	if !result.Configured {
		fmt.Fprintln(w, "Sales are blocked until both prices are above zero.")
	}
}
