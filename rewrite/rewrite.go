// Package rewrite implements the logical optimizer (spec.md §4.2):
// predicate pushdown, projection pushdown, and greedy join reordering.
// It mutates a resolved query.Query in place; the physical planner
// (package planner) consumes the result.
package rewrite

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/query"
)

// Apply runs (a)-(c) of spec.md §4.2 in order. rc supplies per-table
// cardinality for the greedy join-reordering step; it is typically the
// record manager backing the engine's catalog.
func Apply(q *query.Query, rc catalog.RowCounter) {
	pushdownNeededColumns(q)
	if len(q.Tables) >= 3 {
		reorderTables(q, rc)
	}
}

// pushdownNeededColumns implements §4.2(b): for each table, the union of
// SELECT-, WHERE-, join-condition- and ORDER BY-referenced columns on
// that table. Predicate pushdown itself (§4.2(a)) needs no structural
// change here — query.Condition already self-describes as single-table
// or join via Condition.SingleTable/Tables, which the physical planner
// consults directly when partitioning conditions per table (§4.3 Phase
// A).
func pushdownNeededColumns(q *query.Query) {
	needed := make(map[string]mapset.Set[string])
	add := func(table, column string) {
		s, ok := needed[table]
		if !ok {
			s = mapset.NewThreadUnsafeSet[string]()
			needed[table] = s
		}
		s.Add(column)
	}

	if !q.Star {
		for _, c := range q.Projections {
			add(c.Table, c.Column)
		}
	}
	for _, c := range q.Conds {
		add(c.LHS.Table, c.LHS.Column)
		if c.RHS.IsColumn {
			add(c.RHS.Column.Table, c.RHS.Column.Column)
		}
	}
	if q.Order != nil {
		add(q.Order.Column.Table, q.Order.Column.Column)
	}

	out := make(map[string]map[string]struct{}, len(needed))
	for table, set := range needed {
		cols := make(map[string]struct{}, set.Cardinality())
		for _, c := range set.ToSlice() {
			cols[c] = struct{}{}
		}
		out[table] = cols
	}
	q.NeededColumns = out
}
