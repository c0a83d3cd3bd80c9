package engine

import "github.com/sabledb/sabledb/types"

// Result is the uniform return shape spec.md §6's "Exit codes / return
// shape" describes: a result set for SELECT/EXPLAIN/SHOW/DESC, a
// rows-affected count for DML, or an acknowledgement for DDL/TXN. A
// structured error (dberrors.Error) is returned alongside rather than
// folded into this type, so callers branch on Go's usual (value, err)
// shape instead of an extra in-band status field.
type Result struct {
	// Columns names the result set's columns, for SELECT, DESC, SHOW
	// TABLES and SHOW INDEX.
	Columns []string
	// Rows holds a SELECT's typed output, one []types.Value per row.
	Rows [][]types.Value
	// Text holds DESC/SHOW's informational rows, already rendered to
	// strings (these describe metadata, not table data).
	Text [][]string
	// Affected is the rows-affected count for INSERT/DELETE/UPDATE.
	Affected int32
	// Message is a short human-readable acknowledgement for DDL/TXN
	// statements ("table created", "transaction committed", ...).
	Message string
	// ExplainText holds EXPLAIN's rendered plan tree; non-empty only for
	// EXPLAIN.
	ExplainText string
}
