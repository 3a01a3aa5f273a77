// Package backend opens the store.Store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"refill-ledger/internal/config"
	"refill-ledger/internal/store"
	"refill-ledger/internal/store/file"
	"refill-ledger/internal/store/memory"
	"refill-ledger/internal/store/mongo"
	"refill-ledger/internal/store/postgres"
	"refill-ledger/internal/store/redis"

	"go.uber.org/zap"
)

// Open connects to the configured backend. The caller closes the store.
func Open(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (store.Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("backend", cfg.Backend))

	var (
		kv  store.Store
		err error
	)
	switch cfg.Backend {
	case config.BackendMemory:
		kv = memory.New()

	case config.BackendFile, "":
		kv, err = file.New(cfg.DataDir)

	case config.BackendPostgres:
		kv, err = postgres.Open(ctx, cfg.DatabaseURL)

	case config.BackendRedis:
		rs := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
		if err = rs.Ping(ctx); err != nil {
			rs.Close()
			err = fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		} else {
			kv = rs
		}

	case config.BackendMongo:
		kv, err = mongo.Open(ctx, cfg.MongoURI, cfg.MongoDBName)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		log.Error("failed to open store", zap.Error(err))
		return nil, fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}

	log.Info("store opened")
	return kv, nil
}
