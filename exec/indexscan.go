package exec

import (
	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/storage/index"
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/txn"
	"github.com/sabledb/sabledb/types"
)

// IndexScan derives a key range from the predicates that constrain a
// prefix of the index key, probes the index for matching row
// identifiers, then re-evaluates every predicate (including any that
// did not participate in the range) against the fetched record
// (spec.md §4.4 "IndexScan").
type IndexScan struct {
	name      string
	outSchema Schema
	conds     []query.Condition
	keyCols   []string
	idx       index.Handle
	fh        record.FileHandle

	st   state
	ctx  *txn.Context
	rids []record.RowID
	pos  int
	cur  *Tuple
}

func NewIndexScan(name string, meta *catalog.TableMeta, conds []query.Condition, keyCols []string, idx index.Handle, fh record.FileHandle) *IndexScan {
	return &IndexScan{name: name, outSchema: SchemaOfTable(name, meta), conds: conds, keyCols: keyCols, idx: idx, fh: fh}
}

// deriveRange implements the [lo, hi] range derivation: a condition on
// the first key column pins (or narrows) the probe. A `<>` on the key
// degenerates to a full scan with residual filtering, since that
// predicate cannot express a contiguous range.
func (s *IndexScan) deriveRange() (*index.Bound, *index.Bound, bool) {
	if len(s.keyCols) == 0 {
		return nil, nil, false
	}
	keyCol := s.keyCols[0]
	var lo, hi *index.Bound
	for _, c := range s.conds {
		if c.LHS.Column != keyCol || c.RHS.IsColumn {
			continue
		}
		v := c.RHS.Value
		switch c.Op {
		case query.Eq:
			b := &index.Bound{Value: []types.Value{v}, Inclusive: true}
			lo, hi = b, b
		case query.Lt:
			hi = &index.Bound{Value: []types.Value{v}, Inclusive: false}
		case query.Le:
			hi = &index.Bound{Value: []types.Value{v}, Inclusive: true}
		case query.Gt:
			lo = &index.Bound{Value: []types.Value{v}, Inclusive: false}
		case query.Ge:
			lo = &index.Bound{Value: []types.Value{v}, Inclusive: true}
		case query.Neq:
			return nil, nil, true // degenerate: full scan, residual filter
		}
	}
	return lo, hi, false
}

func (s *IndexScan) Begin(ctx *txn.Context) error {
	if err := ctx.LockShared(s.name); err != nil {
		return asConflict(err)
	}
	s.ctx = ctx

	lo, hi, fullScan := s.deriveRange()
	var rids []record.RowID
	var err error
	if fullScan {
		rids, err = s.fullScanRowIDs()
	} else {
		rids, err = s.idx.RangeProbe(lo, hi)
	}
	if err != nil {
		return asStorage(err)
	}
	s.rids = rids
	s.pos = -1
	s.st = streaming
	return s.advance()
}

func (s *IndexScan) fullScanRowIDs() ([]record.RowID, error) {
	it, err := s.fh.Scan()
	if err != nil {
		return nil, err
	}
	var out []record.RowID
	for !it.IsEnd() {
		out = append(out, it.RowID())
		it.Next()
	}
	return out, nil
}

func (s *IndexScan) advance() error {
	for {
		if s.ctx.CancelRequested() {
			s.st = ended
			return cancelled()
		}
		s.pos++
		if s.pos >= len(s.rids) {
			s.st = ended
			s.cur = nil
			return nil
		}
		rid := s.rids[s.pos]
		rec, err := s.fh.Get(rid)
		if err != nil {
			continue // concurrently deleted between probe and fetch
		}
		vals := s.outSchema.Decode(rec)
		t := &Tuple{Schema: s.outSchema, Values: vals, RowID: rid}
		if evalConds(s.conds, t.Get) {
			s.cur = t
			return nil
		}
	}
}

func (s *IndexScan) Next() error {
	if s.st != streaming {
		return nil
	}
	return s.advance()
}

func (s *IndexScan) IsEnd() bool { return s.st == ended }

func (s *IndexScan) CurrentTuple() *Tuple { return s.cur }

func (s *IndexScan) OutputColumns() []query.ColumnRef { return s.outSchema.ColumnRefs() }

func (s *IndexScan) TupleWidth() uint32 { return s.outSchema.Width() }

func (s *IndexScan) CurrentRowID() (record.RowID, error) {
	if s.cur == nil {
		return record.RowID{}, ErrUnsupportedOperation
	}
	return s.cur.RowID, nil
}

func (s *IndexScan) schema() Schema { return s.outSchema }
