package exec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/storage/index"
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/txn"
	"github.com/sabledb/sabledb/types"
)

// newAccountsTable builds a two-column (id, balance) table with an index
// on id, already backfilled via NewInsert with the given rows — so every
// row this helper returns is guaranteed index-consistent, rather than
// poking the heap file and index table separately.
func newAccountsTable(t *testing.T, rows [][]types.Value) (testTable, index.Manager, *txn.LockManager) {
	t.Helper()
	cat := catalog.NewCatalog()
	rm := record.NewHeapManager()
	im := index.NewSortedIndexManager()

	tbl := newTestTable(t, rm, cat, "accounts", []*catalog.ColumnMeta{
		catalog.NewColumnMeta("accounts", "id", types.Integer, types.Integer.Size(), 0),
		catalog.NewColumnMeta("accounts", "balance", types.Integer, types.Integer.Size(), 0),
	}, nil)
	require.True(t, cat.CreateIndex("accounts", []string{"id"}))
	require.NoError(t, im.CreateIndex("accounts", []string{"id"}))

	lm := newLockManager()
	for _, row := range rows {
		ins, err := NewInsert("accounts", tbl.meta, row, tbl.fh, im)
		require.NoError(t, err)
		drainTuples(t, ins, lm.Begin())
	}
	return tbl, im, lm
}

func TestInsertWritesRowAndIndex(t *testing.T) {
	tbl, im, lm := newAccountsTable(t, nil)

	ins, err := NewInsert("accounts", tbl.meta, []types.Value{types.NewInteger(1), types.NewInteger(100)}, tbl.fh, im)
	require.NoError(t, err)

	rows := drainTuples(t, ins, lm.Begin())
	require.Len(t, rows, 1)
	require.Equal(t, int32(1), rows[0].Values[0].ToInteger())

	idx, err := im.Open("accounts", []string{"id"})
	require.NoError(t, err)
	rids, err := idx.Probe([]types.Value{types.NewInteger(1)})
	require.NoError(t, err)
	require.Len(t, rids, 1)
}

func TestDeleteRemovesRowAndIndexEntry(t *testing.T) {
	tbl, im, lm := newAccountsTable(t, [][]types.Value{
		{types.NewInteger(1), types.NewInteger(100)},
		{types.NewInteger(2), types.NewInteger(200)},
	})

	child := NewSeqScan("accounts", tbl.meta, []query.Condition{colEq("accounts", "id", types.NewInteger(1))}, tbl.fh)
	del, err := NewDelete("accounts", tbl.meta, child, tbl.fh, im)
	require.NoError(t, err)

	rows := drainTuples(t, del, lm.Begin())
	require.Len(t, rows, 1)
	require.Equal(t, int32(1), rows[0].Values[0].ToInteger())

	idx, err := im.Open("accounts", []string{"id"})
	require.NoError(t, err)
	rids, err := idx.Probe([]types.Value{types.NewInteger(1)})
	require.NoError(t, err)
	require.Len(t, rids, 0)

	remaining := NewSeqScan("accounts", tbl.meta, nil, tbl.fh)
	require.Len(t, drainTuples(t, remaining, lm.Begin()), 1)
}

func TestUpdateRewritesRowAndReindexes(t *testing.T) {
	tbl, im, lm := newAccountsTable(t, [][]types.Value{
		{types.NewInteger(1), types.NewInteger(100)},
	})

	child := NewSeqScan("accounts", tbl.meta, []query.Condition{colEq("accounts", "id", types.NewInteger(1))}, tbl.fh)
	upd, err := NewUpdate("accounts", tbl.meta, child, []query.SetClause{{Column: "balance", Value: types.NewInteger(150)}}, tbl.fh, im)
	require.NoError(t, err)

	rows := drainTuples(t, upd, lm.Begin())
	require.Len(t, rows, 1)
	require.Equal(t, int32(1), rows[0].Values[0].ToInteger())

	after := NewSeqScan("accounts", tbl.meta, nil, tbl.fh)
	got := drainTuples(t, after, lm.Begin())
	require.Len(t, got, 1)
	require.Equal(t, int32(150), got[0].Values[1].ToInteger())

	idx, err := im.Open("accounts", []string{"id"})
	require.NoError(t, err)
	rids, err := idx.Probe([]types.Value{types.NewInteger(1)})
	require.NoError(t, err)
	require.Len(t, rids, 1)
}
