package models

import (
	"strings"
)

// Record is one flat, normalized row keyed by output column name.
// A normalized record always carries every column of its schema; absent
// upstream values are stored as nil.
type Record map[string]interface{}

// Kind is the storage type a column is declared with
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindText
	KindBool
	KindJSON // arrays and objects, stored as encoded JSON
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindJSON:
		return "json"
	default:
		return "unknown"
	}
}

// WriteDisposition tells the sink how to reconcile rows with existing data
type WriteDisposition string

const (
	// WriteMerge upserts by primary key
	WriteMerge WriteDisposition = "merge"
	// WriteAppend inserts every row
	WriteAppend WriteDisposition = "append"
)

// Column maps an upstream JSON path to an output column.
// Source is a dotted path; "startTime.minutes" reads minutes from the
// startTime object.
type Column struct {
	Name   string
	Source string
	Kind   Kind
}

// Schema is the single source of truth for an entity's output shape: its
// table, columns, primary key and write disposition.
type Schema struct {
	Table            string
	Columns          []Column
	PrimaryKey       []string
	WriteDisposition WriteDisposition
}

// Normalize maps one upstream record to a flat record holding exactly the
// schema's columns. It never fails: missing or non-object path segments yield nil.
func (s *Schema) Normalize(raw map[string]interface{}) Record {
	rec := make(Record, len(s.Columns))
	for _, col := range s.Columns {
		rec[col.Name] = Lookup(raw, col.Source)
	}
	return rec
}

// ColumnNames returns the column names in declaration order
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// IsPrimaryKey reports whether name is part of the primary key
func (s *Schema) IsPrimaryKey(name string) bool {
	for _, pk := range s.PrimaryKey {
		if pk == name {
			return true
		}
	}
	return false
}

// HasNullKey reports whether any primary key column of rec is nil
func (s *Schema) HasNullKey(rec Record) bool {
	for _, pk := range s.PrimaryKey {
		if rec[pk] == nil {
			return true
		}
	}
	return false
}

// Lookup resolves a dotted path in a decoded JSON object.
func Lookup(raw map[string]interface{}, path string) interface{} {
	if raw == nil {
		return nil
	}
	head, rest, nested := strings.Cut(path, ".")
	value, ok := raw[head]
	if !ok {
		return nil
	}
	if !nested {
		return value
	}
	child, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}
	return Lookup(child, rest)
}
