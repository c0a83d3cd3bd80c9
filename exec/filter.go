package exec

import (
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/txn"
)

// Filter forwards child tuples for which every predicate holds; its
// schema is the child's, unchanged (spec.md §4.4 "Filter").
type Filter struct {
	child Operator
	conds []query.Condition
	st    state
}

func NewFilter(child Operator, conds []query.Condition) *Filter {
	return &Filter{child: child, conds: conds}
}

func (f *Filter) Begin(ctx *txn.Context) error {
	if err := f.child.Begin(ctx); err != nil {
		return err
	}
	f.st = streaming
	return f.advance()
}

func (f *Filter) advance() error {
	for !f.child.IsEnd() {
		t := f.child.CurrentTuple()
		if evalConds(f.conds, t.Get) {
			return nil
		}
		if err := f.child.Next(); err != nil {
			return err
		}
	}
	f.st = ended
	return nil
}

func (f *Filter) Next() error {
	if f.st != streaming {
		return nil
	}
	if err := f.child.Next(); err != nil {
		return err
	}
	return f.advance()
}

func (f *Filter) IsEnd() bool { return f.st == ended }

func (f *Filter) CurrentTuple() *Tuple {
	if f.st != streaming {
		return nil
	}
	return f.child.CurrentTuple()
}

func (f *Filter) OutputColumns() []query.ColumnRef { return f.child.OutputColumns() }

func (f *Filter) TupleWidth() uint32 { return f.child.TupleWidth() }

func (f *Filter) CurrentRowID() (record.RowID, error) { return f.child.CurrentRowID() }

func (f *Filter) schema() Schema { return schemaOf(f.child) }
