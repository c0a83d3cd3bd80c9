package exec

import (
	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/txn"
)

// SeqScan iterates every record of a table in physical order, skipping
// rows that fail its condition list (spec.md §4.4 "SeqScan").
type SeqScan struct {
	name      string
	outSchema Schema
	conds     []query.Condition
	fh        record.FileHandle

	st  state
	ctx *txn.Context
	it  record.Iterator
	cur *Tuple
}

func NewSeqScan(name string, meta *catalog.TableMeta, conds []query.Condition, fh record.FileHandle) *SeqScan {
	return &SeqScan{name: name, outSchema: SchemaOfTable(name, meta), conds: conds, fh: fh}
}

func (s *SeqScan) Begin(ctx *txn.Context) error {
	if err := ctx.LockShared(s.name); err != nil {
		return asConflict(err)
	}
	s.ctx = ctx
	it, err := s.fh.Scan()
	if err != nil {
		return asStorage(err)
	}
	s.it = it
	s.st = streaming
	return s.advance()
}

// advance skips forward through the iterator until a row satisfies
// every condition, or the iterator is exhausted.
func (s *SeqScan) advance() error {
	for {
		if s.ctx.CancelRequested() {
			s.st = ended
			return cancelled()
		}
		if s.it.IsEnd() {
			s.st = ended
			s.cur = nil
			return nil
		}
		rec := s.it.Record()
		vals := s.outSchema.Decode(rec)
		t := &Tuple{Schema: s.outSchema, Values: vals, RowID: s.it.RowID()}
		if evalConds(s.conds, t.Get) {
			s.cur = t
			return nil
		}
		s.it.Next()
	}
}

func (s *SeqScan) Next() error {
	if s.st != streaming {
		return nil
	}
	s.it.Next()
	return s.advance()
}

func (s *SeqScan) IsEnd() bool { return s.st == ended }

func (s *SeqScan) CurrentTuple() *Tuple { return s.cur }

func (s *SeqScan) OutputColumns() []query.ColumnRef { return s.outSchema.ColumnRefs() }

func (s *SeqScan) TupleWidth() uint32 { return s.outSchema.Width() }

func (s *SeqScan) CurrentRowID() (record.RowID, error) {
	if s.cur == nil {
		return record.RowID{}, ErrUnsupportedOperation
	}
	return s.cur.RowID, nil
}

func (s *SeqScan) schema() Schema { return s.outSchema }
