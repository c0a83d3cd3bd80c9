// Package planner is the physical planner (spec.md §4.3): it turns a
// resolved query.Query (or, for DDL/SHOW/TXN/SET, a bare ast.Statement)
// into a plan tree of the closed kinds listed in spec.md §3 — a tagged
// sum type, per the design note in §9, rather than a down-castable
// polymorphic base.
package planner

import (
	"github.com/sabledb/sabledb/ast"
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/types"
)

// Plan is the closed plan-node interface. Code that needs a node's
// concrete shape (exec.Compile, the EXPLAIN renderer, the planner's own
// passes) type-switches over it.
type Plan interface {
	plan()
}

// ScanMode selects the access path a ScanPlan uses.
type ScanMode int

const (
	SeqMode ScanMode = iota
	IndexMode
)

// ScanPlan is a table access path. IndexKey is nil for SeqMode.
type ScanPlan struct {
	Mode     ScanMode
	Table    string
	Conds    []query.Condition
	IndexKey []string
}

func (*ScanPlan) plan() {}

// Algo selects the join algorithm a JoinPlan executes with.
type Algo int

const (
	NestedLoop Algo = iota
	SortMerge
)

// JoinPlan is always left-deep with respect to a multi-way join: Right
// is always a single table's *ScanPlan, possibly wrapped in a *FilterPlan
// and/or a per-table *ProjectionPlan (spec.md §3 invariant).
type JoinPlan struct {
	Algo  Algo
	Left  Plan
	Right Plan
	Conds []query.Condition
}

func (*JoinPlan) plan() {}

// FilterPlan forwards child tuples for which every condition holds.
type FilterPlan struct {
	Child Plan
	Conds []query.Condition
}

func (*FilterPlan) plan() {}

// ProjectionPlan narrows the child's schema to Cols.
type ProjectionPlan struct {
	Child Plan
	Cols  []query.ColumnRef
}

func (*ProjectionPlan) plan() {}

// SortPlan fully materializes and sorts its child by Key.
type SortPlan struct {
	Child     Plan
	Key       query.ColumnRef
	Direction query.OrderDirection
}

func (*SortPlan) plan() {}

// DMLKind distinguishes the mutating/readback statement a DMLPlan
// executes.
type DMLKind int

const (
	Insert DMLKind = iota
	Delete
	Update
	Select
	ExplainKind
)

// DMLPlan is the root for every statement that produces rows or a
// rows-affected count: Child is nil for Insert (the row comes from
// Values), and holds the scan/filter/join/projection/sort subtree
// otherwise.
type DMLPlan struct {
	Kind       DMLKind
	Child      Plan
	Table      string
	Values     []types.Value
	Conds      []query.Condition
	SetClauses []query.SetClause
}

func (*DMLPlan) plan() {}

// DDLKind enumerates the four DDL statement shapes spec.md §6 accepts.
type DDLKind int

const (
	CreateTable DDLKind = iota
	DropTable
	CreateIndex
	DropIndex
)

// DDLPlan has no subtree: DDL executes directly against the catalog.
type DDLPlan struct {
	Kind       DDLKind
	Table      string
	Columns    []ast.ColumnDef // CreateTable only
	KeyColumns []string        // CreateIndex/DropIndex only
}

func (*DDLPlan) plan() {}

// OtherKind enumerates the remaining no-subtree statement shapes:
// informational (SHOW/DESC), transaction control, and session config.
type OtherKind int

const (
	ShowTables OtherKind = iota
	ShowIndex
	Desc
	TxnBegin
	TxnCommit
	TxnAbort
	TxnRollback
	SetConfig
)

// OtherPlan has no subtree.
type OtherPlan struct {
	Kind        OtherKind
	Table       string // ShowIndex, Desc
	ConfigKey   string // SetConfig
	ConfigValue bool   // SetConfig
}

func (*OtherPlan) plan() {}
