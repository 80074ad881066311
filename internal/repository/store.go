package repository

import (
	"context"

	"cfb_analytics/cfbsync/internal/models"
)

// LoadIDColumn is added to every entity table and holds the load that last wrote the row
const LoadIDColumn = "_load_id"

// Store is a destination able to create entity tables and write rows to them
type Store interface {
	// Destination names the backend, e.g. "sqlite"
	Destination() string
	// Dataset is the namespace tables are created in
	Dataset() string
	// EnsureTable creates the schema's table if it does not exist
	EnsureTable(ctx context.Context, schema *models.Schema) error
	// Write stores one batch in a single transaction. Merge schemas upsert
	// by primary key, append schemas insert every row.
	Write(ctx context.Context, schema *models.Schema, loadID string, rows []models.Record) error
	// RecordLoad stores a finished load's summary in _sync_loads
	RecordLoad(ctx context.Context, info *LoadInfo) error
	Health(ctx context.Context) error
	Close() error
}
