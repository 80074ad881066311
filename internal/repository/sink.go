package repository

import (
	"context"
	"fmt"
	"iter"
	"time"

	"cfb_analytics/cfbsync/internal/metrics"
	"cfb_analytics/cfbsync/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultBatchSize is the number of rows written per transaction
const DefaultBatchSize = 500

// Stream is a finite sequence of records bound for one table
type Stream interface {
	TableSchema() *models.Schema
	Records(ctx context.Context) iter.Seq2[models.Record, error]
}

// Sink drains streams into a Store
type Sink struct {
	store     Store
	pipeline  string
	batchSize int
	now       func() time.Time
	newLoadID func() string
}

// NewSink creates a sink writing to store under the given pipeline name
func NewSink(store Store, pipeline string) *Sink {
	return &Sink{
		store:     store,
		pipeline:  pipeline,
		batchSize: DefaultBatchSize,
		now:       time.Now,
		newLoadID: uuid.NewString,
	}
}

// WithBatchSize overrides the rows written per transaction
func (s *Sink) WithBatchSize(n int) *Sink {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

// Run drains streams in order. The first stream or write error stops the
// run; batches already committed stay committed. The returned LoadInfo is
// never nil and is recorded in the store either way.
func (s *Sink) Run(ctx context.Context, streams ...Stream) (*LoadInfo, error) {
	info := &LoadInfo{
		LoadID:      s.newLoadID(),
		Pipeline:    s.pipeline,
		Destination: s.store.Destination(),
		Dataset:     s.store.Dataset(),
		StartedAt:   s.now(),
	}

	var runErr error
	for _, stream := range streams {
		if runErr = s.drain(ctx, info, stream); runErr != nil {
			break
		}
	}

	info.FinishedAt = s.now()
	info.Status = LoadCompleted
	if runErr != nil {
		info.Status = LoadFailed
		info.Error = runErr.Error()
	}

	// Record the load even if ctx was cancelled
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.store.RecordLoad(recordCtx, info); err != nil {
		log.Error().Err(err).Str("load_id", info.LoadID).Msg("Failed to record load")
		if runErr == nil {
			runErr = err
		}
	}

	return info, runErr
}

// drain writes one stream to its table
func (s *Sink) drain(ctx context.Context, info *LoadInfo, stream Stream) error {
	schema := stream.TableSchema()
	if err := s.store.EnsureTable(ctx, schema); err != nil {
		return err
	}

	info.Tables = append(info.Tables, TableLoad{Table: schema.Table})
	load := &info.Tables[len(info.Tables)-1]

	batch := make([]models.Record, 0, s.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.store.Write(ctx, schema, info.LoadID, batch); err != nil {
			return err
		}
		load.RowsWritten += len(batch)
		metrics.RecordRowsWritten(schema.Table, len(batch), 0)
		batch = batch[:0]
		return nil
	}

	for rec, err := range stream.Records(ctx) {
		if err != nil {
			return fmt.Errorf("%s stream failed: %w", schema.Table, err)
		}

		if schema.WriteDisposition == models.WriteMerge && schema.HasNullKey(rec) {
			load.RowsSkipped++
			metrics.RecordRowsWritten(schema.Table, 0, 1)
			log.Warn().
				Str("table", schema.Table).
				Strs("primary_key", schema.PrimaryKey).
				Msg("Skipping row with null primary key")
			continue
		}

		batch = append(batch, rec)
		if len(batch) >= s.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if err := flush(); err != nil {
		return err
	}
	load.Completed = true

	log.Info().
		Str("table", schema.Table).
		Int("rows", load.RowsWritten).
		Int("skipped", load.RowsSkipped).
		Msg("Table loaded")
	return nil
}
