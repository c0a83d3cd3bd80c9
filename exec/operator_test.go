package exec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/types"
)

func TestFilterForwardsMatchingRowsOnly(t *testing.T) {
	cat := catalog.NewCatalog()
	rm := record.NewHeapManager()
	tbl := newTestTable(t, rm, cat, "t", intCol("t", "id"), [][]types.Value{
		{types.NewInteger(1)}, {types.NewInteger(2)}, {types.NewInteger(3)},
	})

	scan := NewSeqScan("t", tbl.meta, nil, tbl.fh)
	filter := NewFilter(scan, []query.Condition{colEq("t", "id", types.NewInteger(2))})

	lm := newLockManager()
	rows := drainTuples(t, filter, lm.Begin())
	require.Len(t, rows, 1)
	require.Equal(t, int32(2), rows[0].Values[0].ToInteger())
}

func TestSortOrdersDescending(t *testing.T) {
	cat := catalog.NewCatalog()
	rm := record.NewHeapManager()
	tbl := newTestTable(t, rm, cat, "t", intCol("t", "points"), [][]types.Value{
		{types.NewInteger(10)}, {types.NewInteger(30)}, {types.NewInteger(20)},
	})

	scan := NewSeqScan("t", tbl.meta, nil, tbl.fh)
	s := NewSort(scan, query.ColumnRef{Table: "t", Column: "points"}, query.Desc)

	lm := newLockManager()
	rows := drainTuples(t, s, lm.Begin())
	require.Len(t, rows, 3)
	require.Equal(t, []int32{30, 20, 10}, []int32{
		rows[0].Values[0].ToInteger(),
		rows[1].Values[0].ToInteger(),
		rows[2].Values[0].ToInteger(),
	})
}

func TestProjectionNarrowsColumns(t *testing.T) {
	cat := catalog.NewCatalog()
	rm := record.NewHeapManager()
	tbl := newTestTable(t, rm, cat, "t", []*catalog.ColumnMeta{
		catalog.NewColumnMeta("t", "id", types.Integer, types.Integer.Size(), 0),
		catalog.NewColumnMeta("t", "balance", types.Integer, types.Integer.Size(), 0),
	}, [][]types.Value{{types.NewInteger(1), types.NewInteger(100)}})

	scan := NewSeqScan("t", tbl.meta, nil, tbl.fh)
	proj := NewProjection(scan, []query.ColumnRef{{Table: "t", Column: "balance"}})

	lm := newLockManager()
	rows := drainTuples(t, proj, lm.Begin())
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Values, 1)
	require.Equal(t, int32(100), rows[0].Values[0].ToInteger())
}

func TestNestedLoopJoinEmitsMatchingPairs(t *testing.T) {
	cat := catalog.NewCatalog()
	rm := record.NewHeapManager()

	left := newTestTable(t, rm, cat, "l", intCol("l", "key"), [][]types.Value{
		{types.NewInteger(1)}, {types.NewInteger(2)},
	})
	right := newTestTable(t, rm, cat, "r", intCol("r", "key"), [][]types.Value{
		{types.NewInteger(2)}, {types.NewInteger(3)},
	})

	leftScan := NewSeqScan("l", left.meta, nil, left.fh)
	rightScan := NewSeqScan("r", right.meta, nil, right.fh)
	cond := query.Condition{
		LHS: query.ColumnRef{Table: "l", Column: "key"},
		Op:  query.Eq,
		RHS: query.ColumnOperand(query.ColumnRef{Table: "r", Column: "key"}),
	}
	join := NewNestedLoopJoin(leftScan, rightScan, []query.Condition{cond})

	lm := newLockManager()
	rows := drainTuples(t, join, lm.Begin())
	require.Len(t, rows, 1)
	require.Equal(t, int32(2), rows[0].Values[0].ToInteger())
	require.Equal(t, int32(2), rows[0].Values[1].ToInteger())
}
