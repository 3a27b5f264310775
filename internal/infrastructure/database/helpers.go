package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Ping kiểm tra database connection có còn sống và responsive không.
// Được gọi bởi readiness endpoint.
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close đóng connection pool.
// Safe to call multiple times - subsequent calls sẽ là no-op
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		log.Debug().Msg("[DATABASE] Pool is already closed or was never initialized")
		return nil
	}

	log.Info().Msg("[DATABASE] Closing database connection pool...")
	db.Pool.Close()
	db.Pool = nil

	log.Info().Msg("[DATABASE] Connection pool closed successfully")
	return nil
}

// PoolStats chứa thống kê về connection pool, export ra Prometheus
type PoolStats struct {
	AcquireCount         int64
	AcquireDuration      time.Duration
	AcquiredConns        int32
	CanceledAcquireCount int64
	IdleConns            int32
	MaxConns             int32
	TotalConns           int32
	NewConnsCount        int64
}

// Stats trả về snapshot của connection pool statistics
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		AcquireCount:         raw.AcquireCount(),
		AcquireDuration:      raw.AcquireDuration(),
		AcquiredConns:        raw.AcquiredConns(),
		CanceledAcquireCount: raw.CanceledAcquireCount(),
		IdleConns:            raw.IdleConns(),
		MaxConns:             raw.MaxConns(),
		TotalConns:           raw.TotalConns(),
		NewConnsCount:        raw.NewConnsCount(),
	}, nil
}

// AvgAcquireDuration là average thời gian chờ acquire connection
func (s *PoolStats) AvgAcquireDuration() time.Duration {
	if s.AcquireCount == 0 {
		return 0
	}
	return s.AcquireDuration / time.Duration(s.AcquireCount)
}
