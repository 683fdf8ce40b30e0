package settings

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces settings keys in a shared redis.
const DefaultKeyPrefix = "learntabs:settings:"

type RedisOptions struct {
	Host     string
	Port     string
	Password string
	DB       int
	Timeout  time.Duration
}

// Conn opens a redis client and verifies it with PING.
func Conn(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        net.JoinHostPort(opts.Host, opts.Port),
		DialTimeout: opts.Timeout,
		ReadTimeout: opts.Timeout,
		Password:    opts.Password,
		DB:          opts.DB,
	})
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", client.Options().Addr, err)
	}
	if pong != "PONG" {
		_ = client.Close()
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}
	return client, nil
}

// Redis reads settings written by the extension's options page into
// <prefix><key> string values.
type Redis struct {
	client redis.Cmdable
	prefix string
}

func NewRedis(client redis.Cmdable, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("settings %s: %w", key, err)
	}
	return strings.TrimSpace(v), nil
}
