package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a row addressed by id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrSchemaMissing is returned when a table the query needs does not
	// exist, usually because the migrations were never applied.
	ErrSchemaMissing = errors.New("schema missing")
)

type DB struct {
	Pool *pgxpool.Pool
	log  *zap.Logger
}

func Connect(ctx context.Context, databaseURL string, logger *zap.Logger) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("module", "database"))
	logger.Info("Database connection established")
	return &DB{Pool: pool, log: logger}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
	db.log.Info("Database connection closed")
}

// timed logs the duration of a query at debug level. Use as
// defer db.timed("ListProjects", time.Now()).
func (db *DB) timed(op string, start time.Time, fields ...zap.Field) {
	db.log.Debug(op, append(fields, zap.Duration("duration", time.Since(start)))...)
}

// wrap annotates err with op and maps well-known postgres failures onto
// the package sentinels.
func wrap(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to %s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return fmt.Errorf("failed to %s: %w: %s", op, ErrSchemaMissing, pgErr.Message)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
