package exec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/planner"
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/storage/index"
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/types"
)

func TestCompileScanPlanSeqMode(t *testing.T) {
	cat := catalog.NewCatalog()
	rm := record.NewHeapManager()
	im := index.NewSortedIndexManager()

	newTestTable(t, rm, cat, "t", intCol("t", "id"), [][]types.Value{
		{types.NewInteger(1)}, {types.NewInteger(2)},
	})

	ctx := &Context{Catalog: cat, Records: rm, Indexes: im}
	op, err := Compile(&planner.ScanPlan{Mode: planner.SeqMode, Table: "t"}, ctx)
	require.NoError(t, err)

	rows := drainTuples(t, op, newLockManager().Begin())
	require.Len(t, rows, 2)
}

func TestCompileScanPlanResolvesAliasViaNameToTable(t *testing.T) {
	cat := catalog.NewCatalog()
	rm := record.NewHeapManager()
	im := index.NewSortedIndexManager()

	newTestTable(t, rm, cat, "customers", intCol("customers", "id"), [][]types.Value{{types.NewInteger(7)}})

	ctx := &Context{Catalog: cat, Records: rm, Indexes: im, NameToTable: map[string]string{"c": "customers"}}
	op, err := Compile(&planner.ScanPlan{Mode: planner.SeqMode, Table: "c"}, ctx)
	require.NoError(t, err)

	rows := drainTuples(t, op, newLockManager().Begin())
	require.Len(t, rows, 1)
}

func TestCompileJoinPlanNestedLoop(t *testing.T) {
	cat := catalog.NewCatalog()
	rm := record.NewHeapManager()
	im := index.NewSortedIndexManager()

	newTestTable(t, rm, cat, "l", intCol("l", "key"), [][]types.Value{{types.NewInteger(1)}})
	newTestTable(t, rm, cat, "r", intCol("r", "key"), [][]types.Value{{types.NewInteger(1)}})

	ctx := &Context{Catalog: cat, Records: rm, Indexes: im}
	cond := query.Condition{
		LHS: query.ColumnRef{Table: "l", Column: "key"},
		Op:  query.Eq,
		RHS: query.ColumnOperand(query.ColumnRef{Table: "r", Column: "key"}),
	}
	joinPlan := &planner.JoinPlan{
		Algo:  planner.NestedLoop,
		Left:  &planner.ScanPlan{Mode: planner.SeqMode, Table: "l"},
		Right: &planner.ScanPlan{Mode: planner.SeqMode, Table: "r"},
		Conds: []query.Condition{cond},
	}
	op, err := Compile(joinPlan, ctx)
	require.NoError(t, err)

	rows := drainTuples(t, op, newLockManager().Begin())
	require.Len(t, rows, 1)
}

func TestCompileDMLInsertPlan(t *testing.T) {
	cat := catalog.NewCatalog()
	rm := record.NewHeapManager()
	im := index.NewSortedIndexManager()

	newTestTable(t, rm, cat, "t", intCol("t", "id"), nil)

	ctx := &Context{Catalog: cat, Records: rm, Indexes: im}
	op, err := Compile(&planner.DMLPlan{Kind: planner.Insert, Table: "t", Values: []types.Value{types.NewInteger(9)}}, ctx)
	require.NoError(t, err)

	rows := drainTuples(t, op, newLockManager().Begin())
	require.Len(t, rows, 1)
	require.Equal(t, int32(1), rows[0].Values[0].ToInteger())
}

func TestCompileUnsupportedPlanNode(t *testing.T) {
	ctx := &Context{}
	_, err := Compile(nil, ctx)
	require.Error(t, err)
}
