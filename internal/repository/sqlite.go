package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cfb_analytics/cfbsync/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// SQLiteStore writes to a local SQLite file
type SQLiteStore struct {
	DB      *sqlx.DB
	path    string
	dataset string
}

// NewSQLiteStore opens (creating if needed) the database at path and applies
// the bookkeeping migrations. Tables of a dataset other than "main" are
// prefixed with the dataset name.
func NewSQLiteStore(ctx context.Context, path, dataset string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	if err := runMigrations("migrations/sqlite", "sqlite3://"+path); err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	log.Info().
		Str("path", path).
		Str("dataset", dataset).
		Msg("Successfully opened sqlite destination")

	return &SQLiteStore{DB: db, path: path, dataset: dataset}, nil
}

func (s *SQLiteStore) Destination() string { return sqliteDialect.name }

func (s *SQLiteStore) Dataset() string { return s.dataset }

// tableName qualifies a table with the dataset
func (s *SQLiteStore) tableName(table string) string {
	if s.dataset == "" || s.dataset == "main" {
		return quoteIdent(table)
	}
	return quoteIdent(s.dataset + "_" + table)
}

// EnsureTable creates the schema's table if it does not exist
func (s *SQLiteStore) EnsureTable(ctx context.Context, schema *models.Schema) error {
	if _, err := s.DB.ExecContext(ctx, sqliteDialect.createTable(s.tableName(schema.Table), schema)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", schema.Table, err)
	}
	return nil
}

// Write stores rows in one transaction
func (s *SQLiteStore) Write(ctx context.Context, schema *models.Schema, loadID string, rows []models.Record) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, sqliteDialect.insert(s.tableName(schema.Table), schema))
	if err != nil {
		return fmt.Errorf("failed to prepare insert into %s: %w", schema.Table, err)
	}
	defer stmt.Close()

	for _, rec := range rows {
		values, err := args(schema, rec, loadID)
		if err != nil {
			return fmt.Errorf("failed to convert %s row: %w", schema.Table, err)
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("failed to write %s row: %w", schema.Table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s batch: %w", schema.Table, err)
	}
	return nil
}

// RecordLoad stores a load summary
func (s *SQLiteStore) RecordLoad(ctx context.Context, info *LoadInfo) error {
	tables, err := json.Marshal(info.Tables)
	if err != nil {
		return fmt.Errorf("failed to encode load tables: %w", err)
	}

	query := `
		INSERT INTO _sync_loads (
			load_id, pipeline_name, dataset_name, status,
			started_at, finished_at, rows_written, rows_skipped, tables
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.DB.ExecContext(ctx, query,
		info.LoadID, info.Pipeline, info.Dataset, info.Status,
		info.StartedAt.UTC(), info.FinishedAt.UTC(),
		info.RowsWritten(), info.RowsSkipped(), string(tables),
	)
	if err != nil {
		return fmt.Errorf("failed to record load: %w", err)
	}
	return nil
}

// Health checks the database file is reachable
func (s *SQLiteStore) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	log.Info().Str("path", s.path).Msg("Sqlite destination closed")
	return s.DB.Close()
}
