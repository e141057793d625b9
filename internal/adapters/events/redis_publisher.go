package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"route-creator/internal/domain"

	"github.com/redis/go-redis/v9"
)

const RedisChannel = "routes:published"

// RedisPublisher announces route events on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client, channel: RedisChannel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event domain.RouteEvent) error {
	if p.client == nil {
		return errors.New("redis publisher: client is nil")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis publish: encode: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish channel=%s: %w", p.channel, err)
	}
	return nil
}

// Close is a no-op; the client is owned by the caller.
func (p *RedisPublisher) Close() error { return nil }
