package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/linemk/homedeco-shop/internal/config"
	"github.com/linemk/homedeco-shop/internal/lib/metrics"
	"github.com/linemk/homedeco-shop/internal/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// TokenStore хранилище отозванных токенов: пишет auth-сервис, читает jwt middleware.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	DB      *sql.DB
	Tokens  TokenStore
	Metrics *metrics.Metrics

	closers []func() error
}

// NewApp создаёт новый экземпляр App: пул соединений с БД, клиент Redis и реестр метрик
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := sql.Open("postgres", DatabaseDSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &App{
		Config:  cfg,
		Logger:  log,
		DB:      db,
		Tokens:  rdb,
		Metrics: metrics.New(cfg.Metrics.Namespace, reg),
		closers: []func() error{rdb.Close, db.Close},
	}, nil
}

// DatabaseDSN собирает строку подключения к PostgreSQL
func DatabaseDSN(db config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.SSLMode,
	)
}

// Close освобождает соединения с Redis и БД
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
