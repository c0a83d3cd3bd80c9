package exec

import (
	"sort"

	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/txn"
	"github.com/sabledb/sabledb/types"
)

// Sort fully materializes its child, sorts by the key, then streams the
// result out (spec.md §4.4 "Sort"). Numeric keys use arithmetic
// comparison; CHAR(n) keys use the type's own byte-wise,
// trailing-pad-consistent comparison.
type Sort struct {
	child Operator
	key   query.ColumnRef
	dir   query.OrderDirection

	st   state
	rows []*Tuple
	pos  int
}

func NewSort(child Operator, key query.ColumnRef, dir query.OrderDirection) *Sort {
	return &Sort{child: child, key: key, dir: dir}
}

func (s *Sort) Begin(ctx *txn.Context) error {
	if err := s.child.Begin(ctx); err != nil {
		return err
	}
	s.rows = nil
	for !s.child.IsEnd() {
		t := s.child.CurrentTuple()
		cp := &Tuple{Schema: t.Schema, Values: append([]types.Value(nil), t.Values...)}
		s.rows = append(s.rows, cp)
		if err := s.child.Next(); err != nil {
			return err
		}
	}
	sort.SliceStable(s.rows, func(i, j int) bool {
		vi, _ := s.rows[i].Get(s.key)
		vj, _ := s.rows[j].Get(s.key)
		if s.dir == query.Desc {
			return vi.CompareGreaterThan(vj)
		}
		return vi.CompareLessThan(vj)
	})
	s.pos = 0
	s.st = streaming
	if len(s.rows) == 0 {
		s.st = ended
	}
	return nil
}

func (s *Sort) Next() error {
	if s.st != streaming {
		return nil
	}
	s.pos++
	if s.pos >= len(s.rows) {
		s.st = ended
	}
	return nil
}

func (s *Sort) IsEnd() bool { return s.st == ended }

func (s *Sort) CurrentTuple() *Tuple {
	if s.st != streaming {
		return nil
	}
	return s.rows[s.pos]
}

func (s *Sort) OutputColumns() []query.ColumnRef { return s.child.OutputColumns() }

func (s *Sort) TupleWidth() uint32 { return s.child.TupleWidth() }

func (s *Sort) CurrentRowID() (record.RowID, error) { return record.RowID{}, ErrUnsupportedOperation }

func (s *Sort) schema() Schema { return schemaOf(s.child) }
