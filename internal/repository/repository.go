// Package repository implements the location-directory collaborator on
// top of Postgres. The service depends only on Interface, so the
// directory can be swapped for another backend without touching the
// resolution pipeline.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/havenwell/waypoint/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Interface is the directory contract: active locations that already
// carry coordinates, ready for distance matching.
type Interface interface {
	ListActiveLocations(ctx context.Context) ([]models.LocationRecord, error)
}

// Database is the subset of pgxpool.Pool the repository needs. It is
// satisfied by pgxmock pools in tests.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

type Repository struct {
	db  Database
	log *slog.Logger
}

// NewRepository creates a new instance of Repository with the provided Database.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}

// NewDatabase opens a pgx connection pool against the configured
// Postgres instance and verifies it with a ping.
func NewDatabase(ctx context.Context, host, port, user, password, name string) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
