package exec

import (
	"github.com/sabledb/sabledb/dberrors"
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/txn"
)

// Operator is the uniform capability set every execution node
// implements (spec.md §4.4's begin/next/is_end/current_tuple table).
type Operator interface {
	// Begin positions the operator at its first output tuple,
	// acquiring any resources it needs. Calling Begin again on a
	// Streaming or Ended operator re-initializes it (used by
	// NestedLoopJoin's inner-child rewinds).
	Begin(ctx *txn.Context) error
	// Next advances to the next output tuple. A no-op once IsEnd is
	// true.
	Next() error
	IsEnd() bool
	// CurrentTuple is valid only while Streaming.
	CurrentTuple() *Tuple
	OutputColumns() []query.ColumnRef
	TupleWidth() uint32
	// CurrentRowID is valid only for scan-typed operators and for a
	// Filter, which forwards its child's row identifier; everything else
	// returns ErrUnsupportedOperation (an InternalError).
	CurrentRowID() (record.RowID, error)
}

// ErrUnsupportedOperation is returned by CurrentRowID on operators that
// do not front a single physical row (joins, projections, sorts).
var ErrUnsupportedOperation = dberrors.NewInternalError("operator does not support current_row_id")

// state is the embeddable Idle/Streaming/Ended machine spec.md §4.4
// requires every operator to obey.
type state int

const (
	idle state = iota
	streaming
	ended
)

// schemaProvider is implemented by every concrete operator in this
// package to expose its full, type-and-length-carrying output Schema —
// OutputColumns() only hands back the bare ColumnRef list the spec
// names; joins and per-table projections need the richer Schema to
// build their own layouts at construction time, before the first Begin.
type schemaProvider interface {
	schema() Schema
}

func schemaOf(op Operator) Schema {
	if sp, ok := op.(schemaProvider); ok {
		return sp.schema()
	}
	return nil
}
