package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"cfb_analytics/cfbsync/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// PostgresStore writes to a PostgreSQL schema named after the dataset
type PostgresStore struct {
	Pool    *pgxpool.Pool
	dataset string
}

// NewPostgresStore connects to databaseURL, creates the dataset schema and
// applies the bookkeeping migrations inside it.
func NewPostgresStore(ctx context.Context, databaseURL, dataset string) (*PostgresStore, error) {
	// Configure connection pool
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+quoteIdent(dataset)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema %s: %w", dataset, err)
	}

	migrationURL, err := migrationsURL(databaseURL, dataset)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if err := runMigrations("migrations/postgres", migrationURL); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().
		Str("host", poolConfig.ConnConfig.Host).
		Str("database", poolConfig.ConnConfig.Database).
		Str("dataset", dataset).
		Msg("Successfully connected to database")

	return &PostgresStore{Pool: pool, dataset: dataset}, nil
}

// migrationsURL points golang-migrate's pgx/v5 driver at the dataset schema
func migrationsURL(databaseURL, dataset string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql":
		u.Scheme = "pgx5"
	default:
		return "", fmt.Errorf("unsupported DATABASE_URL scheme %q", u.Scheme)
	}
	q := u.Query()
	q.Set("search_path", dataset)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *PostgresStore) Destination() string { return postgresDialect.name }

func (s *PostgresStore) Dataset() string { return s.dataset }

func (s *PostgresStore) tableName(table string) string {
	return quoteIdent(s.dataset) + "." + quoteIdent(table)
}

// EnsureTable creates the schema's table if it does not exist
func (s *PostgresStore) EnsureTable(ctx context.Context, schema *models.Schema) error {
	if _, err := s.Pool.Exec(ctx, postgresDialect.createTable(s.tableName(schema.Table), schema)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", schema.Table, err)
	}
	return nil
}

// Write sends rows as one batch inside a transaction
func (s *PostgresStore) Write(ctx context.Context, schema *models.Schema, loadID string, rows []models.Record) error {
	if len(rows) == 0 {
		return nil
	}

	query := postgresDialect.insert(s.tableName(schema.Table), schema)
	batch := &pgx.Batch{}
	for _, rec := range rows {
		values, err := args(schema, rec, loadID)
		if err != nil {
			return fmt.Errorf("failed to convert %s row: %w", schema.Table, err)
		}
		batch.Queue(query, values...)
	}

	return pgx.BeginFunc(ctx, s.Pool, func(tx pgx.Tx) error {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to write %s batch: %w", schema.Table, err)
		}
		return nil
	})
}

// RecordLoad stores a load summary
func (s *PostgresStore) RecordLoad(ctx context.Context, info *LoadInfo) error {
	tables, err := json.Marshal(info.Tables)
	if err != nil {
		return fmt.Errorf("failed to encode load tables: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			load_id, pipeline_name, dataset_name, status,
			started_at, finished_at, rows_written, rows_skipped, tables
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.tableName("_sync_loads"))

	_, err = s.Pool.Exec(ctx, query,
		info.LoadID, info.Pipeline, info.Dataset, info.Status,
		info.StartedAt, info.FinishedAt,
		info.RowsWritten(), info.RowsSkipped(), string(tables),
	)
	if err != nil {
		return fmt.Errorf("failed to record load: %w", err)
	}
	return nil
}

// Health checks if the database is healthy
func (s *PostgresStore) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}

// PoolStats returns database pool statistics
func (s *PostgresStore) PoolStats() map[string]interface{} {
	stat := s.Pool.Stat()
	return map[string]interface{}{
		"total_conns":    stat.TotalConns(),
		"acquired_conns": stat.AcquiredConns(),
		"idle_conns":     stat.IdleConns(),
		"max_conns":      stat.MaxConns(),
	}
}

// Close closes the database connection pool
func (s *PostgresStore) Close() error {
	if s.Pool != nil {
		s.Pool.Close()
		log.Info().Msg("Database connection pool closed")
	}
	return nil
}

