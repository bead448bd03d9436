package service

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/wawa-academy/erp-server/internal/config"
)

// MessageBus carries new direct messages to open WebSocket streams over
// Redis pub/sub.
type MessageBus struct {
	rdb *redis.Client
}

func NewMessageBus(rdb *redis.Client) *MessageBus {
	return &MessageBus{rdb: rdb}
}

func (b *MessageBus) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.rdb.Publish(ctx, channel, payload).Err()
}

// Subscribe listens to a teacher's inbox channel. The caller closes the
// subscription.
func (b *MessageBus) Subscribe(ctx context.Context, teacherID string) *redis.PubSub {
	return b.rdb.Subscribe(ctx, config.CacheKey.MessageChannel(teacherID))
}
