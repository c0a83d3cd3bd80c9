package exec

import (
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/txn"
)

// Projection forwards a permuted/narrowed copy of the child tuple.
// Projection is pure — it never drops rows (spec.md §4.4 "Projection").
// Its schema is resolved against the child's schema at construction
// time (not only from the first streamed tuple), since a Projection can
// itself sit as a Join's left or right child and the join needs a
// schema before the first Begin call.
type Projection struct {
	child     Operator
	cols      []query.ColumnRef
	outSchema Schema
	st        state
	cur       *Tuple
}

func NewProjection(child Operator, cols []query.ColumnRef) *Projection {
	return &Projection{child: child, cols: cols, outSchema: schemaOf(child).Select(cols)}
}

func (p *Projection) schema() Schema { return p.outSchema }

func (p *Projection) Begin(ctx *txn.Context) error {
	if err := p.child.Begin(ctx); err != nil {
		return err
	}
	p.st = streaming
	return p.refresh()
}

func (p *Projection) refresh() error {
	if p.child.IsEnd() {
		p.st = ended
		p.cur = nil
		return nil
	}
	p.cur = p.child.CurrentTuple().Project(p.cols)
	return nil
}

func (p *Projection) Next() error {
	if p.st != streaming {
		return nil
	}
	if err := p.child.Next(); err != nil {
		return err
	}
	return p.refresh()
}

func (p *Projection) IsEnd() bool { return p.st == ended }

func (p *Projection) CurrentTuple() *Tuple { return p.cur }

func (p *Projection) OutputColumns() []query.ColumnRef { return p.cols }

func (p *Projection) TupleWidth() uint32 { return p.outSchema.Width() }

func (p *Projection) CurrentRowID() (record.RowID, error) { return record.RowID{}, ErrUnsupportedOperation }
