package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisMessage is a received Redis pub/sub message.
type RedisMessage struct {
	Channel string
	Payload string
}

// RedisPubSub implements pub/sub backed by Redis channels.
type RedisPubSub struct {
	client *goredis.Client
}

// NewPubSub creates a Redis-backed pub/sub client.
func NewPubSub(cfg Config) (*RedisPubSub, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisPubSub{client: client}, nil
}

// Publish sends a message to the given channel.
func (ps *RedisPubSub) Publish(ctx context.Context, channel, message string) error {
	return ps.client.Publish(ctx, channel, message).Err()
}

// Subscribe returns a channel of messages for the given channels, and a
// cancel function that closes the subscription.
func (ps *RedisPubSub) Subscribe(ctx context.Context, channels ...string) (<-chan *RedisMessage, func(), error) {
	sub := ps.client.Subscribe(ctx, channels...)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan *RedisMessage, 256)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			out <- &RedisMessage{Channel: msg.Channel, Payload: msg.Payload}
		}
	}()

	cancel := func() { _ = sub.Close() }
	return out, cancel, nil
}
