package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/fatflowers/paytrack/pkg/config"
)

// NewClient connects to redis. An empty address disables redis and yields a
// nil client, which consumers must tolerate.
func NewClient(l *zap.SugaredLogger, cfg *cfgpkg.Config) (*goredis.Client, error) {
	if cfg.Redis.Addr == "" {
		l.Infow("redis disabled, redis.addr is empty")
		return nil, nil
	}
	poolSize := cfg.Redis.PoolSize
	if poolSize <= 0 {
		poolSize = 20
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     poolSize,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  800 * time.Millisecond,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolTimeout:  800 * time.Millisecond,
		IdleTimeout:  90 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	l.Infow("connected to redis", "addr", cfg.Redis.Addr)
	return client, nil
}

func registerClose(lc fx.Lifecycle, l *zap.SugaredLogger, client *goredis.Client) {
	if client == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			l.Infow("closing redis client")
			return client.Close()
		},
	})
}

var Module = fx.Options(
	fx.Provide(NewClient),
	fx.Invoke(registerClose),
)
