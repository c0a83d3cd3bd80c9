package exec

import (
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/txn"
)

// NestedLoopJoin: outer loop over left, inner loop rewinds right for
// every outer tuple, emitting concatenated tuples for which every join
// condition holds. Left-tuple order is preserved (spec.md §4.4
// "NestedLoopJoin").
type NestedLoopJoin struct {
	left, right Operator
	conds       []query.Condition
	outSchema   Schema

	st  state
	ctx *txn.Context
	cur *Tuple
}

func NewNestedLoopJoin(left, right Operator, conds []query.Condition) *NestedLoopJoin {
	return &NestedLoopJoin{
		left: left, right: right, conds: conds,
		outSchema: Concat(schemaOf(left), schemaOf(right)),
	}
}

func (j *NestedLoopJoin) schema() Schema { return j.outSchema }

func (j *NestedLoopJoin) Begin(ctx *txn.Context) error {
	j.ctx = ctx
	if err := j.left.Begin(ctx); err != nil {
		return err
	}
	j.st = streaming
	return j.openInnerAndAdvance(true)
}

// openInnerAndAdvance scans forward (first rewinding the right child, if
// rewindInner, for a newly positioned outer tuple) until a matching pair
// is found or the outer is exhausted.
func (j *NestedLoopJoin) openInnerAndAdvance(rewindInner bool) error {
	for {
		if j.left.IsEnd() {
			j.st = ended
			j.cur = nil
			return nil
		}
		if rewindInner {
			if err := j.right.Begin(j.ctx); err != nil {
				return err
			}
			rewindInner = false
		}
		for !j.right.IsEnd() {
			if j.ctx.CancelRequested() {
				j.st = ended
				return cancelled()
			}
			lt, rt := j.left.CurrentTuple(), j.right.CurrentTuple()
			combined := lt.concatWith(rt, j.outSchema)
			if evalConds(j.conds, combined.Get) {
				j.cur = combined
				return nil
			}
			if err := j.right.Next(); err != nil {
				return err
			}
		}
		if err := j.left.Next(); err != nil {
			return err
		}
		rewindInner = true
	}
}

func (j *NestedLoopJoin) Next() error {
	if j.st != streaming {
		return nil
	}
	if err := j.right.Next(); err != nil {
		return err
	}
	return j.openInnerAndAdvance(false)
}

func (j *NestedLoopJoin) IsEnd() bool { return j.st == ended }

func (j *NestedLoopJoin) CurrentTuple() *Tuple { return j.cur }

func (j *NestedLoopJoin) OutputColumns() []query.ColumnRef { return j.outSchema.ColumnRefs() }

func (j *NestedLoopJoin) TupleWidth() uint32 { return j.outSchema.Width() }

func (j *NestedLoopJoin) CurrentRowID() (record.RowID, error) {
	return record.RowID{}, ErrUnsupportedOperation
}
