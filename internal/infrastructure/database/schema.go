package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// BooksTableDDL tạo bảng books nếu chưa tồn tại.
// BIGSERIAL không bao giờ tái sử dụng id đã cấp.
const BooksTableDDL = `
CREATE TABLE IF NOT EXISTS books (
    id          BIGSERIAL PRIMARY KEY,
    title       VARCHAR(255) NOT NULL,
    author      VARCHAR(255) NOT NULL,
    year        INTEGER,
    description TEXT
)`

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// EnsureSchema chạy DDL lúc startup. Không phải migration system.
func EnsureSchema(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, BooksTableDDL); err != nil {
		return fmt.Errorf("failed to ensure books table: %w", err)
	}
	log.Info().Msg("[DATABASE] Schema ensured (books)")
	return nil
}
