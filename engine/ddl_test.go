package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sabledb/sabledb/ast"
)

func TestCreateTableThenDescribeRoundTrip(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute(&ast.CreateTableStmt{Table: "widgets", Columns: []ast.ColumnDef{
		{Name: "id", Type: "INT"},
		{Name: "sku", Type: "CHAR", Length: 8},
	}})
	require.NoError(t, err)

	res, err := s.Execute(&ast.DescStmt{Table: "widgets"})
	require.NoError(t, err)
	require.Equal(t, []string{"name", "type", "length"}, res.Columns)
	require.Len(t, res.Text, 2)
	require.Equal(t, "id", res.Text[0][0])
	require.Equal(t, "sku", res.Text[1][0])
}

func TestCreateTableRejectsDuplicateName(t *testing.T) {
	s := newTestSession(t)

	stmt := &ast.CreateTableStmt{Table: "t", Columns: []ast.ColumnDef{{Name: "id", Type: "INT"}}}
	_, err := s.Execute(stmt)
	require.NoError(t, err)

	_, err = s.Execute(stmt)
	require.Error(t, err)
}

func TestCreateTableRejectsUnrecognizedColumnType(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute(&ast.CreateTableStmt{Table: "t", Columns: []ast.ColumnDef{{Name: "id", Type: "BLOB"}}})
	require.Error(t, err)
}

func TestCreateTableRejectsCharWithoutLength(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute(&ast.CreateTableStmt{Table: "t", Columns: []ast.ColumnDef{{Name: "name", Type: "CHAR"}}})
	require.Error(t, err)
}

func TestDropTableRemovesItFromCatalog(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute(&ast.CreateTableStmt{Table: "t", Columns: []ast.ColumnDef{{Name: "id", Type: "INT"}}})
	require.NoError(t, err)

	_, err = s.Execute(&ast.DropTableStmt{Table: "t"})
	require.NoError(t, err)

	_, err = s.Execute(&ast.DescStmt{Table: "t"})
	require.Error(t, err)
}

func TestDropTableUnknownFails(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute(&ast.DropTableStmt{Table: "ghost"})
	require.Error(t, err)
}

func TestCreateIndexBackfillsExistingRows(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute(&ast.CreateTableStmt{Table: "accounts", Columns: []ast.ColumnDef{
		{Name: "id", Type: "INT"},
		{Name: "balance", Type: "INT"},
	}})
	require.NoError(t, err)

	_, err = s.Execute(&ast.InsertStmt{Table: "accounts", Values: []ast.LiteralExpr{intLit(1), intLit(100)}})
	require.NoError(t, err)
	_, err = s.Execute(&ast.InsertStmt{Table: "accounts", Values: []ast.LiteralExpr{intLit(2), intLit(200)}})
	require.NoError(t, err)

	res, err := s.Execute(&ast.CreateIndexStmt{Table: "accounts", Columns: []string{"id"}})
	require.NoError(t, err)
	require.Equal(t, "index created", res.Message)

	res, err = s.Execute(&ast.ShowIndexStmt{Table: "accounts"})
	require.NoError(t, err)
	require.Len(t, res.Text, 1)
	require.Equal(t, "id", res.Text[0][0])

	idxRes, err := s.Execute(&ast.SelectStmt{
		Star: true,
		From: []ast.TableRef{{Table: "accounts"}},
		Where: []*ast.BinaryExpr{
			eq(col("accounts", "id"), intLit(2)),
		},
	})
	require.NoError(t, err)
	require.Len(t, idxRes.Rows, 1)
}

func TestDropIndexRemovesIt(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute(&ast.CreateTableStmt{Table: "t", Columns: []ast.ColumnDef{{Name: "id", Type: "INT"}}})
	require.NoError(t, err)
	_, err = s.Execute(&ast.CreateIndexStmt{Table: "t", Columns: []string{"id"}})
	require.NoError(t, err)

	_, err = s.Execute(&ast.DropIndexStmt{Table: "t", Columns: []string{"id"}})
	require.NoError(t, err)

	res, err := s.Execute(&ast.ShowIndexStmt{Table: "t"})
	require.NoError(t, err)
	require.Len(t, res.Text, 0)
}

func TestShowTablesListsCreatedTablesSorted(t *testing.T) {
	s := newTestSession(t)

	for _, name := range []string{"zebras", "apples", "mangos"} {
		_, err := s.Execute(&ast.CreateTableStmt{Table: name, Columns: []ast.ColumnDef{{Name: "id", Type: "INT"}}})
		require.NoError(t, err)
	}

	res, err := s.Execute(&ast.ShowTablesStmt{})
	require.NoError(t, err)
	require.Equal(t, [][]string{{"apples"}, {"mangos"}, {"zebras"}}, res.Text)
}

func intLit(v int32) ast.LiteralExpr { return ast.LiteralExpr{Kind: ast.IntLiteral, Int: v} }
func col(table, name string) ast.ColumnExpr { return ast.ColumnExpr{Table: table, Column: name} }
func eq(lhs, rhs ast.Expr) *ast.BinaryExpr  { return &ast.BinaryExpr{Op: ast.Eq, LHS: lhs, RHS: rhs} }
