package main

import (
	"context"
	"route-creator/internal/adapters/cache"
	"route-creator/internal/config"
	"route-creator/internal/platform/db"
	"route-creator/internal/platform/logger"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// dbtool creates the place cache schema and optionally seeds it from JSON.
func main() {
	envErr := godotenv.Load()

	log := logger.Setup(config.Get("LOG_LEVEL", "info"), config.Get("LOG_FORMAT", "console"))
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Info("no .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer pool.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/places.json")
	if err := initAndSeed(ctx, pool, seedPath); err != nil {
		log.Fatal("init and seed", zap.Error(err))
	}
}

func initAndSeed(ctx context.Context, pool *pgxpool.Pool, seedPath string) error {
	log := logger.L()

	log.Info("initializing database schema")
	if err := cache.InitSchema(ctx, pool); err != nil {
		return err
	}
	log.Info("schema ready")

	if seedPath == "" {
		return nil
	}

	log.Info("seeding place cache", zap.String("path", seedPath))
	n, err := cache.SeedPlacesFromJSON(ctx, cache.NewPGPlaceCache(pool), seedPath)
	if err != nil {
		return err
	}
	log.Info("seeding complete", zap.Int("places", n))

	return nil
}
