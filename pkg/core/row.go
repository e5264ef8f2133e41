package core

import "database/sql"

// TableStatsRow is one INFORMATION_SCHEMA.TABLES row for a (schema, table)
// pair. The statistics columns are NULL for views, some storage engines
// and tables mid-ALTER, so they stay nullable here; whoever maps them to
// points decides what NULL means.
type TableStatsRow struct {
	Schema     string
	Table      string
	Rows       sql.NullInt64
	DataBytes  sql.NullInt64
	IndexBytes sql.NullInt64
	FreeBytes  sql.NullInt64
}
