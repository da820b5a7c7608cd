package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDialTimeout = 5 * time.Second

// Config holds the Redis settings used for sessions and the submit guard.
type Config struct {
	Addr     string
	Password string
	DB       int
	// TLS enables TLS 1.2+ towards Addr, as required by most managed Redis
	// offerings.
	TLS     bool
	Timeout time.Duration
}

// Connect opens a client for cfg and pings it before returning.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(clientOptions(cfg))

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout(cfg))
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func clientOptions(cfg Config) *redis.Options {
	timeout := dialTimeout(cfg)
	opts := &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	if cfg.TLS {
		host, _, err := net.SplitHostPort(cfg.Addr)
		if err != nil {
			host = cfg.Addr
		}
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}
	}
	return opts
}

func dialTimeout(cfg Config) time.Duration {
	if cfg.Timeout <= 0 {
		return defaultDialTimeout
	}
	return cfg.Timeout
}
