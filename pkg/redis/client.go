package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/inventory/pkg/config"
	"github.com/angelmondragon/inventory/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Counters live under inv:window:<scope>.
const windowKeyPrefix = "inv:window"

var errNotConnected = errors.New("redis: not connected")

// backend is the slice of go-redis the limiter talks to.
type backend interface {
	Ping(context.Context) *redis.StatusCmd
	TxPipelined(context.Context, func(redis.Pipeliner) error) ([]redis.Cmder, error)
	PTTL(context.Context, string) *redis.DurationCmd
	Close() error
}

// Client keeps per-scope request counters in fixed windows.
type Client struct {
	conn backend
}

// New dials Redis and fails unless the server answers PING.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	conn := redis.NewClient(opts)
	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"redis_addr": opts.Addr,
			"redis_db":   opts.DB,
		}), "redis ready")
	}
	return &Client{conn: conn}, nil
}

// optionsFromConfig prefers a redis:// URL; explicit settings fill whatever
// the URL leaves unset.
func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	url := strings.TrimSpace(cfg.URL)
	addr := strings.TrimSpace(cfg.Address)

	opts := &redis.Options{Addr: addr, Password: cfg.Password}
	switch {
	case url != "":
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	case addr == "":
		return nil, errors.New("redis url or address is required")
	}

	fill(&opts.DB, cfg.DB)
	fill(&opts.PoolSize, cfg.PoolSize)
	fill(&opts.MinIdleConns, cfg.MinIdleConns)
	fill(&opts.DialTimeout, cfg.DialTimeout)
	fill(&opts.ReadTimeout, cfg.ReadTimeout)
	fill(&opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

func fill[T int | time.Duration](dst *T, v T) {
	if *dst == 0 {
		*dst = v
	}
}

// FixedWindowAllow counts one request against scope and reports whether the
// count is still within limit. The first request of a window creates the
// counter with the window as its expiry; both steps run in one MULTI so a
// counter never outlives its window.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	if c == nil || c.conn == nil {
		return false, 0, errNotConnected
	}
	if window <= 0 {
		return false, 0, fmt.Errorf("window must be positive, got %s", window)
	}

	key := windowKey(scope)
	var hits *redis.IntCmd
	_, err := c.conn.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, window)
		hits = pipe.Incr(ctx, key)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("count request for %s: %w", scope, err)
	}
	count := hits.Val()
	return count <= limit, count, nil
}

// WindowRemaining is the time left before scope's counter resets. It is zero
// when no window is open.
func (c *Client) WindowRemaining(ctx context.Context, scope string) (time.Duration, error) {
	if c == nil || c.conn == nil {
		return 0, errNotConnected
	}
	ttl, err := c.conn.PTTL(ctx, windowKey(scope)).Result()
	if err != nil {
		return 0, err
	}
	return max(ttl, 0), nil
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.conn == nil {
		return errNotConnected
	}
	return c.conn.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func windowKey(scope string) string {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return windowKeyPrefix
	}
	return windowKeyPrefix + ":" + scope
}
