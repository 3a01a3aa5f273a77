package main

import (
	"bufio"
	"context"
	"log"
	"os"
	"time"

	"refill-ledger/internal/adapters/cli"
	"refill-ledger/internal/adapters/repl"
	"refill-ledger/internal/app"
	"refill-ledger/internal/config"
	"refill-ledger/internal/core"
	"refill-ledger/internal/scheduler"
	"refill-ledger/internal/store/backend"
	"refill-ledger/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid timezone: %v", err)
	}

	base := logger.Must(logger.New(cfg.LogLevel, cfg.LogFile))
	defer base.Sync()

	ctx := context.Background()
	kv, err := backend.Open(ctx, cfg.Store, logger.Named(base, "store"))
	if err != nil {
		base.Fatal("unable to open store", zap.Error(err))
	}
	defer kv.Close()

	clock := func() time.Time { return time.Now().In(loc) }
	ledger, err := core.LoadLedger(ctx, kv, logger.Named(base, "ledger"), core.WithClock(clock))
	if err != nil {
		base.Fatal("unable to load sales", zap.Error(err))
	}
	pricing, err := core.LoadPricing(ctx, kv, logger.Named(base, "pricing"))
	if err != nil {
		base.Fatal("unable to load pricing", zap.Error(err))
	}

	if len(os.Args) > 1 {
		svc := app.NewAppService(ledger, pricing, loc, app.NopRefresher{}, logger.Named(base, "app"), app.WithClock(clock))
		cli.Run(ctx, svc, os.Args[1:], logger.Named(base, "cli"))
		return
	}

	session := repl.NewSession(bufio.NewReader(os.Stdin), os.Stdout)
	svc := app.NewAppService(ledger, pricing, loc, session, logger.Named(base, "app"), app.WithClock(clock))

	sched := scheduler.NewScheduler(cfg.RolloverCron, loc, svc, session, session, logger.Named(base, "scheduler"))
	if err := sched.Start(); err != nil {
		base.Fatal("unable to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	session.Run(ctx, svc)
}
