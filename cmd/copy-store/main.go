// copy-store copies the settings and sales slots from one backend to another,
// for example when moving from the local data directory to PostgreSQL.
// Both backends take their connection settings from the environment.
//
// Usage: go run ./cmd/copy-store -from file -to postgres
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"refill-ledger/internal/config"
	"refill-ledger/internal/store"
	"refill-ledger/internal/store/backend"
)

func main() {
	from := flag.String("from", config.BackendFile, "source backend")
	to := flag.String("to", "", "destination backend")
	force := flag.Bool("force", false, "overwrite slots that already exist at the destination")
	flag.Parse()

	if *to == "" || *to == *from {
		log.Fatal("Usage: copy-store -from <backend> -to <other backend> [-force]")
	}

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	src, err := open(ctx, cfg.Store, *from)
	if err != nil {
		log.Fatalf("Source: %v", err)
	}
	defer src.Close()

	dst, err := open(ctx, cfg.Store, *to)
	if err != nil {
		log.Fatalf("Destination: %v", err)
	}
	defer dst.Close()

	for _, key := range []string{store.KeySettings, store.KeySales} {
		value, err := src.Load(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("Skipping %s: not present in %s", key, *from)
			continue
		}
		if err != nil {
			log.Fatalf("Failed to read %s: %v", key, err)
		}

		if !*force {
			if _, err := dst.Load(ctx, key); err == nil {
				log.Fatalf("%s already exists in %s; rerun with -force to overwrite", key, *to)
			} else if !errors.Is(err, store.ErrNotFound) {
				log.Fatalf("Failed to check %s: %v", key, err)
			}
		}

		if err := dst.Save(ctx, key, value); err != nil {
			log.Fatalf("Failed to write %s: %v", key, err)
		}
		log.Printf("Copied %s (%d bytes)", key, len(value))
	}

	log.Println("Copy complete.")
}

func open(ctx context.Context, base config.StoreConfig, name string) (store.Store, error) {
	cfg := base
	cfg.Backend = name
	return backend.Open(ctx, cfg, nil)
}
