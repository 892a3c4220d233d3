package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultConnLifetime = time.Hour
	defaultConnIdleTime = 30 * time.Minute
)

// PoolOption — настройка пула поверх разобранного DSN.
type PoolOption func(*pgxpool.Config)

// WithMaxConns — размер пула; n <= 0 оставляет значение из DSN.
func WithMaxConns(n int32) PoolOption {
	return func(cfg *pgxpool.Config) {
		if n > 0 {
			cfg.MaxConns = n
		}
	}
}

// WithConnLifetime — время жизни и простоя соединения.
func WithConnLifetime(lifetime, idle time.Duration) PoolOption {
	return func(cfg *pgxpool.Config) {
		if lifetime > 0 {
			cfg.MaxConnLifetime = lifetime
		}
		if idle > 0 {
			cfg.MaxConnIdleTime = idle
		}
	}
}

// NewPool — пул соединений к хранилищу сделок. Ping до возврата: недоступная база видна сразу.
func NewPool(ctx context.Context, dsn string, opts ...PoolOption) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConnLifetime = defaultConnLifetime
	cfg.MaxConnIdleTime = defaultConnIdleTime
	for _, opt := range opts {
		opt(cfg)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}
