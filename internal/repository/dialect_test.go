package repository

import (
	"encoding/json"
	"testing"

	"cfb_analytics/cfbsync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = &models.Schema{
	Table: "transfers",
	Columns: []models.Column{
		{Name: "season", Source: "season", Kind: models.KindInteger},
		{Name: "name", Source: "name", Kind: models.KindText},
		{Name: "rating", Source: "rating", Kind: models.KindFloat},
	},
	PrimaryKey:       []string{"season", "name"},
	WriteDisposition: models.WriteMerge,
}

func TestDialect_CreateTable(t *testing.T) {
	ddl := postgresDialect.createTable(`"main"."transfers"`, testSchema)

	assert.Contains(t, ddl, `CREATE TABLE IF NOT EXISTS "main"."transfers"`)
	assert.Contains(t, ddl, `"season" BIGINT NOT NULL`)
	assert.Contains(t, ddl, `"rating" DOUBLE PRECISION,`)
	assert.Contains(t, ddl, `"_load_id" TEXT NOT NULL`)
	assert.Contains(t, ddl, `PRIMARY KEY ("season", "name")`)

	appendSchema := *testSchema
	appendSchema.WriteDisposition = models.WriteAppend
	assert.NotContains(t, sqliteDialect.createTable(`"t"`, &appendSchema), "PRIMARY KEY")
}

func TestDialect_Insert(t *testing.T) {
	assert.Equal(t,
		`INSERT INTO "transfers" ("season", "name", "rating", "_load_id") VALUES (?, ?, ?, ?)`+
			` ON CONFLICT ("season", "name") DO UPDATE SET "rating" = excluded."rating", "_load_id" = excluded."_load_id"`,
		sqliteDialect.insert(`"transfers"`, testSchema))

	assert.Contains(t, postgresDialect.insert(`"s"."transfers"`, testSchema), `VALUES ($1, $2, $3, $4)`)

	appendSchema := *testSchema
	appendSchema.WriteDisposition = models.WriteAppend
	assert.NotContains(t, postgresDialect.insert(`"t"`, &appendSchema), "ON CONFLICT")
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"games"`, quoteIdent("games"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		kind  models.Kind
		want  interface{}
	}{
		{"nil", nil, models.KindInteger, nil},
		{"large id", json.Number("401628374101849901"), models.KindInteger, int64(401628374101849901)},
		{"whole float as integer", json.Number("1500.0"), models.KindInteger, int64(1500)},
		{"fractional integer kept", json.Number("1500.5"), models.KindInteger, 1500.5},
		{"float64 integer", float64(12), models.KindInteger, int64(12)},
		{"numeric string integer", "2024", models.KindInteger, int64(2024)},
		{"float", json.Number("0.42"), models.KindFloat, 0.42},
		{"int as float", 3, models.KindFloat, float64(3)},
		{"number as text", json.Number("4015"), models.KindText, "4015"},
		{"float as text", float64(1.5), models.KindText, "1.5"},
		{"text", "Oklahoma", models.KindText, "Oklahoma"},
		{"bool", true, models.KindBool, true},
		{"array as json", []interface{}{json.Number("7"), json.Number("0")}, models.KindJSON, "[7,0]"},
		{"object as json", map[string]interface{}{"a": "b"}, models.KindJSON, `{"a":"b"}`},
		{"object as text", map[string]interface{}{"a": "b"}, models.KindText, `{"a":"b"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convert(tt.value, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMigrationsURL(t *testing.T) {
	got, err := migrationsURL("postgres://u:p@db:5432/cfb?sslmode=disable", "analytics")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://u:p@db:5432/cfb?search_path=analytics&sslmode=disable", got)

	_, err = migrationsURL("mysql://db/cfb", "main")
	assert.Error(t, err)
}
