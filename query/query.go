// Package query holds the resolved Query value spec.md §3 describes —
// the catalog resolver's output and the logical optimizer's input.
package query

import "github.com/sabledb/sabledb/types"

// TableRef is a resolved FROM-list entry: the physical table name, and
// the alias (if any) other parts of the query qualify columns with.
type TableRef struct {
	Table string
	Alias string
}

// Name returns the alias when set, otherwise the table name — the
// identifier other ColumnRefs qualify against.
func (t TableRef) Name() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Table
}

// ColumnRef is a resolved (table, column) pair, optionally carrying an
// output alias (e.g. a SELECT list entry's "AS" name).
type ColumnRef struct {
	Table      string
	Column     string
	OutputName string
}

// Op enumerates the comparison operators a Condition may use.
type Op int

const (
	Eq Op = iota
	Neq
	Lt
	Gt
	Le
	Ge
)

// Operand is either a literal Value or another ColumnRef — the right
// side of a Condition.
type Operand struct {
	IsColumn bool
	Value    types.Value
	Column   ColumnRef
}

func ValueOperand(v types.Value) Operand { return Operand{Value: v} }
func ColumnOperand(c ColumnRef) Operand  { return Operand{IsColumn: true, Column: c} }

// Condition is `(lhs, op, rhs)` where rhs is a Value or a ColumnRef.
type Condition struct {
	LHS ColumnRef
	Op  Op
	RHS Operand
}

// SingleTable reports whether cond only ever touches one table: either
// rhs is a literal, or both sides name the same table.
func (c Condition) SingleTable() bool {
	if !c.RHS.IsColumn {
		return true
	}
	return c.LHS.Table == c.RHS.Column.Table
}

// Tables returns the distinct table name(s) a condition references, in
// (lhs, rhs) order, collapsing to one entry for a single-table
// condition.
func (c Condition) Tables() []string {
	if c.SingleTable() {
		return []string{c.LHS.Table}
	}
	return []string{c.LHS.Table, c.RHS.Column.Table}
}

// SetClause is one `column = value` pair of an UPDATE statement.
type SetClause struct {
	Column string
	Value  types.Value
}

// OrderDirection is ASC or DESC.
type OrderDirection int

const (
	Asc OrderDirection = iota
	Desc
)

// OrderKey is a resolved ORDER BY clause.
type OrderKey struct {
	Column    ColumnRef
	Direction OrderDirection
}

// Kind distinguishes the statement shape a Query was resolved from, so
// the physical planner (package planner) knows which plan wrapper to
// build.
type Kind int

const (
	Select Kind = iota
	Insert
	Delete
	Update
	Explain
)

// Query is the resolver's full output: §3's "Resolved query".
// Projections is nil and Star is true for a `SELECT *`; the planner
// expands the star from the final plan's output schema (spec.md §9).
type Query struct {
	Kind        Kind
	Tables      []TableRef
	Star        bool
	Projections []ColumnRef
	Conds       []Condition
	Values      []types.Value // INSERT literal row
	SetClauses  []SetClause   // UPDATE
	Order       *OrderKey

	// NeededColumns is filled in by rewrite's projection-pushdown pass
	// (§4.2b): for each table name, the set of columns that must survive
	// to satisfy SELECT/WHERE/join/ORDER BY references on that table.
	NeededColumns map[string]map[string]struct{}
}
