package events

import (
	"context"
	"encoding/json"
	"errors"
	"route-creator/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

func sampleEvent() domain.RouteEvent {
	return domain.RouteEvent{
		SessionID:       "session-1",
		Mode:            domain.ModePlain,
		DistanceMeters:  50000,
		DurationSeconds: 3600,
		Stops:           2,
		Requests:        1,
		PublishedAt:     time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestRedisPublisher(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	ctx := context.Background()
	sub := client.Subscribe(ctx, RedisChannel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	p := NewRedisPublisher(client)
	if err := p.Publish(ctx, sampleEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-sub.Channel():
		var got domain.RouteEvent
		if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.SessionID != "session-1" || got.DistanceMeters != 50000 {
			t.Fatalf("unexpected event: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for event")
	}
}

func TestRedisPublisherNilClient(t *testing.T) {
	if err := NewRedisPublisher(nil).Publish(context.Background(), sampleEvent()); err == nil {
		t.Fatalf("expected error")
	}
}

type mockWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

func TestKafkaPublisher(t *testing.T) {
	w := &mockWriter{}
	p := NewKafkaPublisherWithWriter(w)

	if err := p.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "session-1" {
		t.Fatalf("key = %q", w.msgs[0].Key)
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Fatalf("close: %v closed=%v", err, w.closed)
	}
}

func TestKafkaPublisherWriteError(t *testing.T) {
	w := &mockWriter{err: errors.New("broker down")}
	err := NewKafkaPublisherWithWriter(w).Publish(context.Background(), sampleEvent())
	if !errors.Is(err, w.err) {
		t.Fatalf("expected wrapped broker error, got %v", err)
	}
}
