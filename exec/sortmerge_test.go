package exec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/types"
)

func TestSortMergeJoinMatchesEqualityKey(t *testing.T) {
	cat := catalog.NewCatalog()
	rm := record.NewHeapManager()

	customers := newTestTable(t, rm, cat, "c", []*catalog.ColumnMeta{
		catalog.NewColumnMeta("c", "id", types.Integer, types.Integer.Size(), 0),
	}, [][]types.Value{
		{types.NewInteger(2)},
		{types.NewInteger(1)},
	})
	orders := newTestTable(t, rm, cat, "o", []*catalog.ColumnMeta{
		catalog.NewColumnMeta("o", "customer_id", types.Integer, types.Integer.Size(), 0),
		catalog.NewColumnMeta("o", "amount", types.Integer, types.Integer.Size(), 0),
	}, [][]types.Value{
		{types.NewInteger(1), types.NewInteger(10)},
		{types.NewInteger(1), types.NewInteger(20)},
		{types.NewInteger(2), types.NewInteger(30)},
	})

	left := NewSeqScan("c", customers.meta, nil, customers.fh)
	right := NewSeqScan("o", orders.meta, nil, orders.fh)
	cond := query.Condition{
		LHS: query.ColumnRef{Table: "c", Column: "id"},
		Op:  query.Eq,
		RHS: query.ColumnOperand(query.ColumnRef{Table: "o", Column: "customer_id"}),
	}
	join, err := NewSortMergeJoin(left, right, []query.Condition{cond})
	require.NoError(t, err)

	lm := newLockManager()
	rows := drainTuples(t, join, lm.Begin())
	require.Len(t, rows, 3)

	amounts := make(map[int32][]int32)
	for _, r := range rows {
		cid, _ := r.Get(query.ColumnRef{Table: "c", Column: "id"})
		amt, _ := r.Get(query.ColumnRef{Table: "o", Column: "amount"})
		amounts[cid.ToInteger()] = append(amounts[cid.ToInteger()], amt.ToInteger())
	}
	require.ElementsMatch(t, []int32{10, 20}, amounts[1])
	require.ElementsMatch(t, []int32{30}, amounts[2])
}

func TestSortMergeJoinAppliesResidualCondition(t *testing.T) {
	cat := catalog.NewCatalog()
	rm := record.NewHeapManager()

	left := newTestTable(t, rm, cat, "l", []*catalog.ColumnMeta{
		catalog.NewColumnMeta("l", "key", types.Integer, types.Integer.Size(), 0),
		catalog.NewColumnMeta("l", "flag", types.Integer, types.Integer.Size(), 0),
	}, [][]types.Value{
		{types.NewInteger(1), types.NewInteger(1)},
	})
	right := newTestTable(t, rm, cat, "r", []*catalog.ColumnMeta{
		catalog.NewColumnMeta("r", "key", types.Integer, types.Integer.Size(), 0),
	}, [][]types.Value{
		{types.NewInteger(1)},
	})

	leftScan := NewSeqScan("l", left.meta, nil, left.fh)
	rightScan := NewSeqScan("r", right.meta, nil, right.fh)
	eqCond := query.Condition{
		LHS: query.ColumnRef{Table: "l", Column: "key"},
		Op:  query.Eq,
		RHS: query.ColumnOperand(query.ColumnRef{Table: "r", Column: "key"}),
	}
	residual := query.Condition{
		LHS: query.ColumnRef{Table: "l", Column: "flag"},
		Op:  query.Eq,
		RHS: query.ValueOperand(types.NewInteger(0)),
	}
	join, err := NewSortMergeJoin(leftScan, rightScan, []query.Condition{eqCond, residual})
	require.NoError(t, err)

	lm := newLockManager()
	rows := drainTuples(t, join, lm.Begin())
	require.Len(t, rows, 0)
}

func TestSortMergeJoinRequiresEqualityCondition(t *testing.T) {
	cat := catalog.NewCatalog()
	rm := record.NewHeapManager()

	left := newTestTable(t, rm, cat, "l", intCol("l", "key"), nil)
	right := newTestTable(t, rm, cat, "r", intCol("r", "key"), nil)

	leftScan := NewSeqScan("l", left.meta, nil, left.fh)
	rightScan := NewSeqScan("r", right.meta, nil, right.fh)
	_, err := NewSortMergeJoin(leftScan, rightScan, nil)
	require.Error(t, err)
}
