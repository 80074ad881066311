// Package pipeline turns the year and week segmented CFBD endpoints into
// lazy, ordered streams of normalized records, one stream per entity.
package pipeline

import (
	"context"
	"iter"

	"cfb_analytics/cfbsync/internal/client"
	"cfb_analytics/cfbsync/internal/metrics"
	"cfb_analytics/cfbsync/internal/models"

	"github.com/rs/zerolog/log"
)

// Fetcher issues one API request and returns the decoded records
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, params client.Params) ([]map[string]interface{}, error)
}

// FailurePolicy decides what a resource does when a single API call fails
type FailurePolicy int

const (
	// Strict ends the stream with the error
	Strict FailurePolicy = iota
	// Tolerant skips the failed slice (a week or a year) and continues.
	// Configuration errors are never skipped.
	Tolerant
)

func (p FailurePolicy) String() string {
	if p == Tolerant {
		return "tolerant"
	}
	return "strict"
}

// request is one API call making up part of a resource's stream
type request struct {
	endpoint string
	params   client.Params
	year     int
}

// Resource is a named, finite stream of records for one entity together with
// the write semantics the sink should apply to it.
type Resource struct {
	Name      string
	Schema    *models.Schema
	Policy    FailurePolicy
	Team      string
	StartYear int
	EndYear   int

	fetcher  Fetcher
	requests []request
}

// Table returns the destination table name
func (r *Resource) Table() string {
	return r.Schema.Table
}

// TableSchema returns the schema the sink writes the stream with
func (r *Resource) TableSchema() *models.Schema {
	return r.Schema
}

// Records returns the resource's stream. Every call performs a fresh pull
// from the first year; a stream stops early only when the consumer stops or
// a fatal error is yielded.
func (r *Resource) Records(ctx context.Context) iter.Seq2[models.Record, error] {
	return func(yield func(models.Record, error) bool) {
		lastYear := 0
		for _, req := range r.requests {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			if req.year != lastYear {
				lastYear = req.year
				log.Info().
					Str("resource", r.Name).
					Str("team", r.Team).
					Int("year", req.year).
					Msg("Loading " + r.Name)
			}

			raws, err := r.fetcher.Fetch(ctx, req.endpoint, req.params)
			if err != nil {
				// A cancelled run is never a missing slice
				if ctxErr := ctx.Err(); ctxErr != nil {
					yield(nil, ctxErr)
					return
				}
				if r.Policy == Tolerant && client.IsRemoteRequestError(err) {
					metrics.RecordSkippedRemoteError(r.Name)
					log.Debug().
						Err(err).
						Str("resource", r.Name).
						Str("params", req.params.String()).
						Msg("Skipping slice with no data")
					continue
				}
				yield(nil, err)
				return
			}

			for _, raw := range raws {
				metrics.RecordEmitted(r.Name)
				if !yield(r.Schema.Normalize(raw), nil) {
					return
				}
			}
		}
	}
}
