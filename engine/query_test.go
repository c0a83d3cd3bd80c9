package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sabledb/sabledb/ast"
)

// helpers mirroring ddl_test.go's small literal/column builders.
func sLit(v string) ast.LiteralExpr { return ast.LiteralExpr{Kind: ast.StringLiteral, Str: v} }
func cmp(lhs ast.Expr, op ast.CmpOp, rhs ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
}

func createTable(t *testing.T, s *Session, name string, cols ...ast.ColumnDef) {
	t.Helper()
	_, err := s.Execute(&ast.CreateTableStmt{Table: name, Columns: cols})
	require.NoError(t, err)
}

func insertRow(t *testing.T, s *Session, table string, vals ...ast.LiteralExpr) {
	t.Helper()
	_, err := s.Execute(&ast.InsertStmt{Table: table, Values: vals})
	require.NoError(t, err)
}

// Scenario 1 (spec.md §8): two-table equi-join.
func TestScenarioTwoTableEquiJoin(t *testing.T) {
	s := newTestSession(t)

	createTable(t, s, "s", ast.ColumnDef{Name: "id", Type: "INT"}, ast.ColumnDef{Name: "n", Type: "CHAR", Length: 4})
	createTable(t, s, "t", ast.ColumnDef{Name: "id", Type: "INT"}, ast.ColumnDef{Name: "v", Type: "INT"})

	insertRow(t, s, "s", intLit(1), sLit("a"))
	insertRow(t, s, "s", intLit(2), sLit("b"))
	insertRow(t, s, "t", intLit(1), intLit(10))
	insertRow(t, s, "t", intLit(2), intLit(20))
	insertRow(t, s, "t", intLit(3), intLit(30))

	res, err := s.Execute(&ast.SelectStmt{
		Projection: []ast.ColumnExpr{col("s", "n"), col("t", "v")},
		From:       []ast.TableRef{{Table: "s"}, {Table: "t"}},
		Where:      []*ast.BinaryExpr{cmp(col("s", "id"), ast.Eq, col("t", "id"))},
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	got := map[string]int32{}
	for _, row := range res.Rows {
		got[row[0].ToVarchar()] = row[1].ToInteger()
	}
	require.Equal(t, map[string]int32{"a": 10, "b": 20}, got)
}

// Scenario 2 (spec.md §8): index access path with a range predicate.
func TestScenarioIndexAccessPathRangePredicate(t *testing.T) {
	s := newTestSession(t)

	createTable(t, s, "r", ast.ColumnDef{Name: "k", Type: "INT"}, ast.ColumnDef{Name: "v", Type: "INT"})
	_, err := s.Execute(&ast.CreateIndexStmt{Table: "r", Columns: []string{"k"}})
	require.NoError(t, err)

	for i, v := range []int32{100, 200, 300, 400} {
		insertRow(t, s, "r", intLit(int32(i+1)), intLit(v))
	}

	res, err := s.Execute(&ast.SelectStmt{
		Projection: []ast.ColumnExpr{col("r", "v")},
		From:       []ast.TableRef{{Table: "r"}},
		Where: []*ast.BinaryExpr{
			cmp(col("r", "k"), ast.Ge, intLit(2)),
			cmp(col("r", "k"), ast.Lt, intLit(4)),
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	require.Equal(t, int32(200), res.Rows[0][0].ToInteger())
	require.Equal(t, int32(300), res.Rows[1][0].ToInteger())
}

// Scenario 3 (spec.md §8): predicate pushdown across a join.
func TestScenarioPredicatePushdownAcrossJoin(t *testing.T) {
	s := newTestSession(t)

	createTable(t, s, "a", ast.ColumnDef{Name: "id", Type: "INT"}, ast.ColumnDef{Name: "x", Type: "INT"})
	createTable(t, s, "b", ast.ColumnDef{Name: "id", Type: "INT"}, ast.ColumnDef{Name: "y", Type: "INT"})

	insertRow(t, s, "a", intLit(1), intLit(10))
	insertRow(t, s, "a", intLit(2), intLit(20))
	insertRow(t, s, "b", intLit(1), intLit(100))
	insertRow(t, s, "b", intLit(2), intLit(200))
	insertRow(t, s, "b", intLit(3), intLit(300))

	res, err := s.Execute(&ast.SelectStmt{
		Projection: []ast.ColumnExpr{col("a", "x"), col("b", "y")},
		From:       []ast.TableRef{{Table: "a"}, {Table: "b"}},
		Where: []*ast.BinaryExpr{
			cmp(col("a", "id"), ast.Eq, col("b", "id")),
			cmp(col("a", "x"), ast.Gt, intLit(10)),
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, int32(20), res.Rows[0][0].ToInteger())
	require.Equal(t, int32(200), res.Rows[0][1].ToInteger())
}

// Scenario 5 (spec.md §8): UPDATE rekeys the index it reads back through.
func TestScenarioUpdateWithIndexRekeysBothDirections(t *testing.T) {
	s := newTestSession(t)

	createTable(t, s, "u", ast.ColumnDef{Name: "k", Type: "INT"}, ast.ColumnDef{Name: "v", Type: "INT"})
	_, err := s.Execute(&ast.CreateIndexStmt{Table: "u", Columns: []string{"k"}})
	require.NoError(t, err)

	insertRow(t, s, "u", intLit(1), intLit(1))
	insertRow(t, s, "u", intLit(2), intLit(2))

	_, err = s.Execute(&ast.UpdateStmt{
		Table: "u",
		Set:   []ast.SetClause{{Column: "k", Value: intLit(3)}},
		Where: []*ast.BinaryExpr{cmp(col("u", "v"), ast.Eq, intLit(2))},
	})
	require.NoError(t, err)

	res, err := s.Execute(&ast.SelectStmt{Star: true, From: []ast.TableRef{{Table: "u"}},
		Where: []*ast.BinaryExpr{cmp(col("u", "k"), ast.Eq, intLit(3))}})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, int32(2), res.Rows[0][1].ToInteger())

	res, err = s.Execute(&ast.SelectStmt{Star: true, From: []ast.TableRef{{Table: "u"}},
		Where: []*ast.BinaryExpr{cmp(col("u", "k"), ast.Eq, intLit(2))}})
	require.NoError(t, err)
	require.Len(t, res.Rows, 0)
}

// Scenario 6 (spec.md §8): ORDER BY DESC.
func TestScenarioOrderByDescendingExactOrder(t *testing.T) {
	s := newTestSession(t)

	createTable(t, s, "o", ast.ColumnDef{Name: "x", Type: "INT"})
	insertRow(t, s, "o", intLit(3))
	insertRow(t, s, "o", intLit(1))
	insertRow(t, s, "o", intLit(2))

	res, err := s.Execute(&ast.SelectStmt{
		Projection: []ast.ColumnExpr{col("o", "x")},
		From:       []ast.TableRef{{Table: "o"}},
		OrderBy:    &ast.ColumnExpr{Table: "o", Column: "x"},
		OrderDir:   ast.Desc,
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)
	require.Equal(t, []int32{3, 2, 1}, []int32{
		res.Rows[0][0].ToInteger(), res.Rows[1][0].ToInteger(), res.Rows[2][0].ToInteger(),
	})
}

// SELECT * over a single table returns the table's contents regardless of
// an index's presence (spec.md §8 invariant 5).
func TestInvariantSelectStarSingleTableIgnoresIndexPresence(t *testing.T) {
	s := newTestSession(t)
	createTable(t, s, "p", ast.ColumnDef{Name: "id", Type: "INT"})
	_, err := s.Execute(&ast.CreateIndexStmt{Table: "p", Columns: []string{"id"}})
	require.NoError(t, err)
	insertRow(t, s, "p", intLit(1))
	insertRow(t, s, "p", intLit(2))

	res, err := s.Execute(&ast.SelectStmt{Star: true, From: []ast.TableRef{{Table: "p"}}})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	require.Equal(t, int32(1), res.Rows[0][0].ToInteger())
	require.Equal(t, int32(2), res.Rows[1][0].ToInteger())
}

// An empty relation on either side of a join yields an empty result
// (spec.md §8 boundary behaviors).
func TestBoundaryEmptyRelationJoinYieldsEmpty(t *testing.T) {
	s := newTestSession(t)
	createTable(t, s, "e1", ast.ColumnDef{Name: "id", Type: "INT"})
	createTable(t, s, "e2", ast.ColumnDef{Name: "id", Type: "INT"})
	insertRow(t, s, "e2", intLit(1))

	res, err := s.Execute(&ast.SelectStmt{
		Star:  true,
		From:  []ast.TableRef{{Table: "e1"}, {Table: "e2"}},
		Where: []*ast.BinaryExpr{cmp(col("e1", "id"), ast.Eq, col("e2", "id"))},
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 0)
}

// UPDATE t SET c = c WHERE p leaves SELECT * bag-unchanged (round-trip law).
func TestRoundTripUpdateSetToSameValueIsNoop(t *testing.T) {
	s := newTestSession(t)
	createTable(t, s, "rt", ast.ColumnDef{Name: "id", Type: "INT"}, ast.ColumnDef{Name: "v", Type: "INT"})
	insertRow(t, s, "rt", intLit(1), intLit(7))

	_, err := s.Execute(&ast.UpdateStmt{
		Table: "rt",
		Set:   []ast.SetClause{{Column: "v", Value: intLit(7)}},
		Where: []*ast.BinaryExpr{cmp(col("rt", "id"), ast.Eq, intLit(1))},
	})
	require.NoError(t, err)

	res, err := s.Execute(&ast.SelectStmt{Star: true, From: []ast.TableRef{{Table: "rt"}}})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, int32(7), res.Rows[0][1].ToInteger())
}

// EXPLAIN does not touch rows: a SELECT after it still sees the stored
// row, and its Result carries plan text rather than a row set.
func TestExplainDoesNotExecuteOrReturnRows(t *testing.T) {
	s := newTestSession(t)
	createTable(t, s, "ex", ast.ColumnDef{Name: "id", Type: "INT"})
	insertRow(t, s, "ex", intLit(1))

	res, err := s.Execute(&ast.ExplainStmt{Stmt: &ast.SelectStmt{Star: true, From: []ast.TableRef{{Table: "ex"}}}})
	require.NoError(t, err)
	require.NotEmpty(t, res.ExplainText)
	require.Nil(t, res.Rows)

	sel, err := s.Execute(&ast.SelectStmt{Star: true, From: []ast.TableRef{{Table: "ex"}}})
	require.NoError(t, err)
	require.Len(t, sel.Rows, 1)
}

// Scenario 4 (spec.md §8): greedy join reordering seeds the left-deep
// tree with the two smallest tables, leaving the largest for the
// outermost join — verified by the order scans appear in EXPLAIN's
// depth-first rendering (small and med both before big).
func TestScenarioGreedyJoinOrderingSeedsSmallestTwo(t *testing.T) {
	s := newTestSession(t)

	createTable(t, s, "small", ast.ColumnDef{Name: "id", Type: "INT"})
	createTable(t, s, "med", ast.ColumnDef{Name: "id", Type: "INT"})
	createTable(t, s, "big", ast.ColumnDef{Name: "id", Type: "INT"})

	insertRow(t, s, "small", intLit(1))
	for i := int32(1); i <= 5; i++ {
		insertRow(t, s, "med", intLit(i))
	}
	for i := int32(1); i <= 20; i++ {
		insertRow(t, s, "big", intLit(i))
	}

	res, err := s.Execute(&ast.ExplainStmt{Stmt: &ast.SelectStmt{
		Star: true,
		From: []ast.TableRef{{Table: "big"}, {Table: "small"}, {Table: "med"}},
		Where: []*ast.BinaryExpr{
			cmp(col("small", "id"), ast.Eq, col("med", "id")),
			cmp(col("med", "id"), ast.Eq, col("big", "id")),
		},
	}})
	require.NoError(t, err)

	small := strings.Index(res.ExplainText, "SeqScan(small)")
	med := strings.Index(res.ExplainText, "SeqScan(med)")
	big := strings.Index(res.ExplainText, "SeqScan(big)")
	require.True(t, small >= 0 && med >= 0 && big >= 0)
	require.Less(t, small, big)
	require.Less(t, med, big)
}
