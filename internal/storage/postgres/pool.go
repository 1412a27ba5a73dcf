package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/issuetracker/issue-tracker-backend/config"
)

// NewPool opens a pgx pool and exposes it through database/sql so the
// same store code runs on either driver.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	pcfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	// Fail fast
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return stdlib.OpenDBFromPool(pool), nil
}

// PoolConfig parses the DSN and applies the pool limits from cfg.
func PoolConfig(cfg *config.DatabaseConfig) (*pgxpool.Config, error) {
	pcfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	if cfg.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 && cfg.MinConns <= int(pcfg.MaxConns) {
		pcfg.MinConns = int32(cfg.MinConns)
	}
	pcfg.MaxConnIdleTime = 5 * time.Minute
	pcfg.HealthCheckPeriod = 30 * time.Second

	return pcfg, nil
}
