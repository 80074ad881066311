package repository

import (
	"fmt"
	"strings"

	"cfb_analytics/cfbsync/internal/models"
)

// dialect holds the SQL differences between the supported destinations
type dialect struct {
	name        string
	types       map[models.Kind]string
	placeholder func(n int) string
}

var sqliteDialect = dialect{
	name: "sqlite",
	types: map[models.Kind]string{
		models.KindInteger: "INTEGER",
		models.KindFloat:   "REAL",
		models.KindText:    "TEXT",
		models.KindBool:    "INTEGER",
		models.KindJSON:    "TEXT",
	},
	placeholder: func(int) string { return "?" },
}

var postgresDialect = dialect{
	name: "postgres",
	types: map[models.Kind]string{
		models.KindInteger: "BIGINT",
		models.KindFloat:   "DOUBLE PRECISION",
		models.KindText:    "TEXT",
		models.KindBool:    "BOOLEAN",
		models.KindJSON:    "JSONB",
	},
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteIdents(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quoteIdent(n)
	}
	return out
}

// createTable builds the DDL for a schema. Append tables get no primary key.
func (d dialect) createTable(table string, schema *models.Schema) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", table)
	for _, col := range schema.Columns {
		fmt.Fprintf(&b, "    %s %s", quoteIdent(col.Name), d.types[col.Kind])
		if schema.WriteDisposition == models.WriteMerge && schema.IsPrimaryKey(col.Name) {
			b.WriteString(" NOT NULL")
		}
		b.WriteString(",\n")
	}
	fmt.Fprintf(&b, "    %s TEXT NOT NULL", quoteIdent(LoadIDColumn))
	if schema.WriteDisposition == models.WriteMerge && len(schema.PrimaryKey) > 0 {
		fmt.Fprintf(&b, ",\n    PRIMARY KEY (%s)", strings.Join(quoteIdents(schema.PrimaryKey), ", "))
	}
	b.WriteString("\n)")
	return b.String()
}

// insert builds the single-row write statement for a schema. Merge schemas
// update every non-key column on conflict.
func (d dialect) insert(table string, schema *models.Schema) string {
	columns := append(schema.ColumnNames(), LoadIDColumn)

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = d.placeholder(i + 1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(quoteIdents(columns), ", "),
		strings.Join(placeholders, ", "),
	)

	if schema.WriteDisposition != models.WriteMerge || len(schema.PrimaryKey) == 0 {
		return query
	}

	var updates []string
	for _, name := range columns {
		if schema.IsPrimaryKey(name) {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", quoteIdent(name), quoteIdent(name)))
	}
	return fmt.Sprintf("%s ON CONFLICT (%s) DO UPDATE SET %s",
		query,
		strings.Join(quoteIdents(schema.PrimaryKey), ", "),
		strings.Join(updates, ", "),
	)
}

// args converts a record to statement arguments in column order
func args(schema *models.Schema, rec models.Record, loadID string) ([]interface{}, error) {
	out := make([]interface{}, 0, len(schema.Columns)+1)
	for _, col := range schema.Columns {
		v, err := convert(rec[col.Name], col.Kind)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		out = append(out, v)
	}
	return append(out, loadID), nil
}
