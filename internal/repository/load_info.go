package repository

import (
	"fmt"
	"strings"
	"time"
)

// Load statuses
const (
	LoadCompleted = "completed"
	LoadFailed    = "failed"
)

// TableLoad is what one stream wrote to its table
type TableLoad struct {
	Table       string `json:"table"`
	RowsWritten int    `json:"rows_written"`
	RowsSkipped int    `json:"rows_skipped"`
	Completed   bool   `json:"completed"`
}

// LoadInfo summarises one sink run
type LoadInfo struct {
	LoadID      string      `json:"load_id"`
	Pipeline    string      `json:"pipeline"`
	Destination string      `json:"destination"`
	Dataset     string      `json:"dataset"`
	Status      string      `json:"status"`
	Error       string      `json:"error,omitempty"`
	StartedAt   time.Time   `json:"started_at"`
	FinishedAt  time.Time   `json:"finished_at"`
	Tables      []TableLoad `json:"tables"`
}

// RowsWritten totals written rows across tables
func (li *LoadInfo) RowsWritten() int {
	n := 0
	for _, t := range li.Tables {
		n += t.RowsWritten
	}
	return n
}

// RowsSkipped totals skipped rows across tables
func (li *LoadInfo) RowsSkipped() int {
	n := 0
	for _, t := range li.Tables {
		n += t.RowsSkipped
	}
	return n
}

// Duration is the wall time of the load
func (li *LoadInfo) Duration() time.Duration {
	return li.FinishedAt.Sub(li.StartedAt)
}

// Table returns the entry for a table, or nil
func (li *LoadInfo) Table(name string) *TableLoad {
	for i := range li.Tables {
		if li.Tables[i].Table == name {
			return &li.Tables[i]
		}
	}
	return nil
}

func (li *LoadInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pipeline %s load step %s in %s.\n", li.Pipeline, li.Status, li.Duration().Round(time.Millisecond))
	fmt.Fprintf(&b, "Load package %s to %s dataset %s\n", li.LoadID, li.Destination, li.Dataset)
	for _, t := range li.Tables {
		fmt.Fprintf(&b, "  %-12s %8d rows written", t.Table, t.RowsWritten)
		if t.RowsSkipped > 0 {
			fmt.Fprintf(&b, ", %d skipped", t.RowsSkipped)
		}
		if !t.Completed {
			b.WriteString(" (incomplete)")
		}
		b.WriteString("\n")
	}
	if li.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", li.Error)
	}
	return b.String()
}
