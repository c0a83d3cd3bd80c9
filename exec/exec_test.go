package exec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/txn"
	"github.com/sabledb/sabledb/types"
)

// testTable wires a catalog table plus its backing heap storage, the
// combination every operator test in this package drives tuples
// through.
type testTable struct {
	meta *catalog.TableMeta
	fh   record.FileHandle
}

func newTestTable(t *testing.T, rm *record.HeapManager, cat *catalog.Catalog, name string, cols []*catalog.ColumnMeta, rows [][]types.Value) testTable {
	t.Helper()
	require.True(t, cat.CreateTable(name, cols))
	meta, ok := cat.GetTable(name)
	require.True(t, ok)
	require.NoError(t, rm.CreateTable(name, meta.RowWidth()))
	fh, err := rm.Open(name)
	require.NoError(t, err)

	schema := SchemaOfTable(name, meta)
	for _, row := range rows {
		_, err := fh.Insert(schema.Encode(row))
		require.NoError(t, err)
	}
	return testTable{meta: meta, fh: fh}
}

func newLockManager() *txn.LockManager { return txn.NewLockManager() }

func drainTuples(t *testing.T, op Operator, ctx *txn.Context) []*Tuple {
	t.Helper()
	defer ctx.Release()
	require.NoError(t, op.Begin(ctx))
	var out []*Tuple
	for !op.IsEnd() {
		out = append(out, op.CurrentTuple())
		require.NoError(t, op.Next())
	}
	return out
}

func intCol(table, name string) []*catalog.ColumnMeta {
	return []*catalog.ColumnMeta{catalog.NewColumnMeta(table, name, types.Integer, types.Integer.Size(), 0)}
}

func colEq(table, column string, v types.Value) query.Condition {
	return query.Condition{LHS: query.ColumnRef{Table: table, Column: column}, Op: query.Eq, RHS: query.ValueOperand(v)}
}
