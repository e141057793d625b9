package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"route-creator/internal/adapters/cache"
	"route-creator/internal/adapters/events"
	"route-creator/internal/adapters/routing"
	"route-creator/internal/adapters/storage"
	"route-creator/internal/api"
	"route-creator/internal/config"
	"route-creator/internal/domain"
	"route-creator/internal/measure"
	"route-creator/internal/platform/db"
	"route-creator/internal/platform/logger"
	"route-creator/internal/playback"
	"route-creator/internal/ports"
	"route-creator/internal/services"
	"route-creator/internal/session"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (ORS, Redis, Postgres, Kafka, MinIO) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	app, closers, err := build(ctx, cfg)
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	log.Info("server listening", zap.String("addr", ":"+cfg.Port))
	if err := Run(ctx, app, ":"+cfg.Port, signals, nil); err != nil {
		log.Error("server exited with error", zap.Error(err))
	}

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			log.Warn("close failed", zap.Error(err))
		}
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

// Run serves app until a signal arrives, ctx ends or listening fails.
func Run(ctx context.Context, app *fiber.App, addr string, signals <-chan os.Signal, listen ListenFunc) error {
	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(app, addr)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return app.ShutdownWithContext(shutdownCtx)
}

// build wires every adapter. Optional backends are skipped when unconfigured.
func build(ctx context.Context, cfg config.Config) (*fiber.App, []func() error, error) {
	var closers []func() error

	ors, err := routing.NewORSProvider(routing.ORSConfig{
		APIKey:  cfg.ORSAPIKey,
		BaseURL: cfg.ORSBaseURL,
		Profile: cfg.ORSProfile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build: %w", err)
	}

	var (
		provider ports.RouteProvider   = ors
		reverser ports.ReverseGeocoder = ors
	)

	rdb := openRedis(cfg)
	if rdb != nil {
		closers = append(closers, rdb.Close)
		ttl := time.Duration(cfg.LegCacheTTLSeconds) * time.Second
		provider = routing.NewCachedRouteProvider(ors, cache.NewRedisLegCache(rdb, ttl))
	}

	if cfg.DatabaseURL != "" {
		pool, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, closers, fmt.Errorf("build: %w", err)
		}
		closers = append(closers, func() error { pool.Close(); return nil })

		if err := cache.InitSchema(ctx, pool); err != nil {
			return nil, closers, fmt.Errorf("build: %w", err)
		}
		reverser = routing.NewCachedReverser(ors, cache.NewPGPlaceCache(pool))
	}

	publisher, err := newPublisher(cfg, rdb)
	if err != nil {
		return nil, closers, fmt.Errorf("build: %w", err)
	}
	closers = append(closers, publisher.Close)

	store, err := newArtifactStore(ctx, cfg)
	if err != nil {
		return nil, closers, fmt.Errorf("build: %w", err)
	}

	plain, err := services.NewRouteAssembler(provider, services.AssemblerConfig{Cap: cfg.PlainCap, Mode: domain.ModePlain})
	if err != nil {
		return nil, closers, fmt.Errorf("build: plain assembler: %w", err)
	}
	optimize, err := services.NewRouteAssembler(provider, services.AssemblerConfig{Cap: cfg.OptimizeCap, Mode: domain.ModeOptimize})
	if err != nil {
		return nil, closers, fmt.Errorf("build: optimize assembler: %w", err)
	}

	planner, err := services.NewRoutePlanner(services.RoutePlannerConfig{
		Session:  session.New(),
		Plain:    plain,
		Optimize: optimize,
		Reverser: reverser,
		Events:   publisher,
	})
	if err != nil {
		return nil, closers, fmt.Errorf("build: %w", err)
	}

	deps := api.Deps{
		Planner: planner,
		Measure: measure.New(),
		Playback: playback.Options{
			FrameInterval: time.Duration(cfg.PlaybackFrameMs) * time.Millisecond,
		},
	}
	if store != nil {
		deps.Store = store
	}

	return api.NewRouter(deps), closers, nil
}

func openRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}

func newPublisher(cfg config.Config, rdb *redis.Client) (ports.EventPublisher, error) {
	switch cfg.EventsBackend {
	case "", "none":
		return events.NopPublisher{}, nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("new publisher: EVENTS_BACKEND=redis requires REDIS_ADDR")
		}
		return events.NewRedisPublisher(rdb), nil
	case "kafka":
		if cfg.KafkaBroker == "" {
			return nil, fmt.Errorf("new publisher: EVENTS_BACKEND=kafka requires KAFKA_BROKER")
		}
		return events.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic), nil
	default:
		return nil, fmt.Errorf("new publisher: unknown EVENTS_BACKEND %q", cfg.EventsBackend)
	}
}

// newArtifactStore returns nil when MinIO is not configured.
func newArtifactStore(ctx context.Context, cfg config.Config) (*storage.S3ArtifactStore, error) {
	if cfg.MinioEndpoint == "" {
		return nil, nil
	}

	store, err := storage.NewS3ArtifactStore(storage.S3Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("new artifact store: %w", err)
	}
	if err := store.EnsureBucket(ctx, ""); err != nil {
		return nil, fmt.Errorf("new artifact store: %w", err)
	}
	return store, nil
}
