package main

import (
	"context"
	"errors"
	"os"
	"route-creator/internal/adapters/events"
	"route-creator/internal/config"
	"syscall"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func TestRunHandlesSignal(t *testing.T) {
	signals := make(chan os.Signal, 1)

	listenCalled := false
	listen := func(_ *fiber.App, _ string) error {
		listenCalled = true
		return nil
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		signals <- syscall.SIGINT
	}()

	if err := Run(context.Background(), fiber.New(), ":0", signals, listen); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !listenCalled {
		t.Fatalf("expected listen to be called")
	}
}

func TestRunReturnsListenError(t *testing.T) {
	listen := func(_ *fiber.App, _ string) error { return errors.New("address in use") }

	if err := Run(context.Background(), fiber.New(), ":0", make(chan os.Signal), listen); err == nil {
		t.Fatalf("expected listen error")
	}
}

func TestNewPublisher(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	p, err := newPublisher(config.Config{EventsBackend: "none"}, nil)
	if err != nil {
		t.Fatalf("none: %v", err)
	}
	if _, ok := p.(events.NopPublisher); !ok {
		t.Fatalf("expected NopPublisher, got %T", p)
	}

	p, err = newPublisher(config.Config{EventsBackend: "redis"}, rdb)
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	if _, ok := p.(*events.RedisPublisher); !ok {
		t.Fatalf("expected RedisPublisher, got %T", p)
	}

	p, err = newPublisher(config.Config{EventsBackend: "kafka", KafkaBroker: "localhost:9092", KafkaTopic: "routes.published"}, nil)
	if err != nil {
		t.Fatalf("kafka: %v", err)
	}
	if _, ok := p.(*events.KafkaPublisher); !ok {
		t.Fatalf("expected KafkaPublisher, got %T", p)
	}
	_ = p.Close()

	if _, err := newPublisher(config.Config{EventsBackend: "redis"}, nil); err == nil {
		t.Fatalf("redis without a client should fail")
	}
	if _, err := newPublisher(config.Config{EventsBackend: "nats"}, nil); err == nil {
		t.Fatalf("unknown backend should fail")
	}
}

func TestBuildRequiresAPIKey(t *testing.T) {
	if _, _, err := build(context.Background(), config.Config{}); err == nil {
		t.Fatalf("expected error without ORS_API_KEY")
	}
}

func TestBuildMinimal(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Config{
		ORSAPIKey:          "key",
		ORSBaseURL:         "http://127.0.0.1:1",
		ORSProfile:         "driving-car",
		PlainCap:           25,
		OptimizeCap:        9,
		RedisAddr:          mr.Addr(),
		LegCacheTTLSeconds: 60,
		EventsBackend:      "redis",
		PlaybackFrameMs:    16,
	}

	app, closers, err := build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if app == nil {
		t.Fatalf("expected app")
	}
	for _, c := range closers {
		_ = c()
	}
}
