// verify-store connects to the configured backend, creates missing slots and
// reports what is stored. Run it after changing STORE_BACKEND.
//
// Usage: go run ./cmd/verify-store
package main

import (
	"context"
	"log"
	"time"

	"refill-ledger/internal/app"
	"refill-ledger/internal/config"
	"refill-ledger/internal/core"
	"refill-ledger/internal/store/backend"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	kv, err := backend.Open(ctx, cfg.Store, nil)
	if err != nil {
		log.Fatalf("[CONNECT] %v", err)
	}
	defer kv.Close()
	log.Printf("[CONNECT] %s backend ok", cfg.Store.Backend)

	pricing, err := core.LoadPricing(ctx, kv, nil)
	if err != nil {
		log.Fatalf("[SETTINGS] %v", err)
	}
	ledger, err := core.LoadLedger(ctx, kv, nil)
	if err != nil {
		log.Fatalf("[SALES] %v", err)
	}

	svc := app.NewAppService(ledger, pricing, loc, nil, nil)
	p, _ := svc.GetPricing(ctx)
	log.Printf("[SETTINGS] buy=%s sell=%s configured=%t",
		p.Pricing.BuyPrice.StringFixed(2), p.Pricing.SellPrice.StringFixed(2), p.Configured)

	dates := ledger.Dates()
	total := 0
	for _, d := range dates {
		total += len(ledger.SalesFor(d))
	}
	log.Printf("[SALES] %d dates, %d sales", len(dates), total)

	today, _ := svc.GetTodayStats(ctx)
	log.Printf("[SALES] today %s: %d sales, profit %s",
		today.Stats.Date, today.Stats.Count, today.Stats.TotalProfit.StringFixed(2))

	log.Println("[DONE] Store verified.")
}
