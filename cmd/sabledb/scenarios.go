package main

import (
	"github.com/sabledb/sabledb/ast"
)

// scenario is one named, fixed demonstration: a human description plus
// the sequence of already-constructed ast.Statement values that exercise
// it. There is no SQL text anywhere in this file — a future parser is
// exactly what would turn source text into the same Statement values
// built here by hand.
type scenario struct {
	name  string
	about string
	stmts []ast.Statement
}

func scenarios() []scenario {
	return []scenario{
		twoTableEquiJoin(),
		indexAccessPath(),
		predicatePushdownAcrossJoin(),
		greedyJoinOrdering(),
		updateWithIndex(),
		orderByDescending(),
	}
}

func intLit(v int32) ast.LiteralExpr  { return ast.LiteralExpr{Kind: ast.IntLiteral, Int: v} }
func strLit(v string) ast.LiteralExpr { return ast.LiteralExpr{Kind: ast.StringLiteral, Str: v} }

func col(table, name string) ast.ColumnExpr { return ast.ColumnExpr{Table: table, Column: name} }

func eq(lhs, rhs ast.Expr) *ast.BinaryExpr { return &ast.BinaryExpr{Op: ast.Eq, LHS: lhs, RHS: rhs} }
func lt(lhs, rhs ast.Expr) *ast.BinaryExpr { return &ast.BinaryExpr{Op: ast.Lt, LHS: lhs, RHS: rhs} }

func twoTableEquiJoin() scenario {
	stmts := []ast.Statement{
		&ast.CreateTableStmt{Table: "customers", Columns: []ast.ColumnDef{
			{Name: "id", Type: "INT"},
			{Name: "name", Type: "CHAR", Length: 16},
		}},
		&ast.CreateTableStmt{Table: "orders", Columns: []ast.ColumnDef{
			{Name: "id", Type: "INT"},
			{Name: "customer_id", Type: "INT"},
			{Name: "amount", Type: "FLOAT"},
		}},
		&ast.InsertStmt{Table: "customers", Values: []ast.LiteralExpr{intLit(1), strLit("ann")}},
		&ast.InsertStmt{Table: "customers", Values: []ast.LiteralExpr{intLit(2), strLit("bo")}},
		&ast.InsertStmt{Table: "orders", Values: []ast.LiteralExpr{intLit(100), intLit(1), {Kind: ast.FloatLiteral, Flt: 9.5}}},
		&ast.InsertStmt{Table: "orders", Values: []ast.LiteralExpr{intLit(101), intLit(2), {Kind: ast.FloatLiteral, Flt: 4.0}}},
		&ast.SelectStmt{
			Star: true,
			From: []ast.TableRef{{Table: "customers", Alias: "c"}},
			Joins: []ast.JoinRef{{
				Kind: ast.InnerJoin,
				Ref:  ast.TableRef{Table: "orders", Alias: "o"},
				On:   eq(col("c", "id"), col("o", "customer_id")),
			}},
		},
	}
	return scenario{
		name:  "join",
		about: "two-table equi-join between customers and orders on customer id",
		stmts: stmts,
	}
}

func indexAccessPath() scenario {
	stmts := []ast.Statement{
		&ast.CreateTableStmt{Table: "widgets", Columns: []ast.ColumnDef{
			{Name: "id", Type: "INT"},
			{Name: "sku", Type: "CHAR", Length: 8},
		}},
		&ast.CreateIndexStmt{Table: "widgets", Columns: []string{"id"}},
		&ast.InsertStmt{Table: "widgets", Values: []ast.LiteralExpr{intLit(1), strLit("sku-a")}},
		&ast.InsertStmt{Table: "widgets", Values: []ast.LiteralExpr{intLit(2), strLit("sku-b")}},
		&ast.SelectStmt{
			Star: true,
			From: []ast.TableRef{{Table: "widgets"}},
			Where: []*ast.BinaryExpr{
				eq(col("widgets", "id"), intLit(2)),
			},
		},
	}
	return scenario{
		name:  "index",
		about: "equality predicate on an indexed column chooses an index scan",
		stmts: stmts,
	}
}

func predicatePushdownAcrossJoin() scenario {
	stmts := []ast.Statement{
		&ast.CreateTableStmt{Table: "departments", Columns: []ast.ColumnDef{
			{Name: "id", Type: "INT"},
			{Name: "name", Type: "CHAR", Length: 16},
		}},
		&ast.CreateTableStmt{Table: "employees", Columns: []ast.ColumnDef{
			{Name: "id", Type: "INT"},
			{Name: "dept_id", Type: "INT"},
			{Name: "salary", Type: "INT"},
		}},
		&ast.InsertStmt{Table: "departments", Values: []ast.LiteralExpr{intLit(1), strLit("eng")}},
		&ast.InsertStmt{Table: "departments", Values: []ast.LiteralExpr{intLit(2), strLit("ops")}},
		&ast.InsertStmt{Table: "employees", Values: []ast.LiteralExpr{intLit(10), intLit(1), intLit(9000)}},
		&ast.InsertStmt{Table: "employees", Values: []ast.LiteralExpr{intLit(11), intLit(2), intLit(5000)}},
		&ast.SelectStmt{
			Star: true,
			From: []ast.TableRef{{Table: "departments", Alias: "d"}},
			Joins: []ast.JoinRef{{
				Kind: ast.InnerJoin,
				Ref:  ast.TableRef{Table: "employees", Alias: "e"},
				On:   eq(col("d", "id"), col("e", "dept_id")),
			}},
			Where: []*ast.BinaryExpr{
				lt(col("e", "salary"), intLit(8000)),
			},
		},
	}
	return scenario{
		name:  "pushdown",
		about: "single-table salary predicate pushes below the department/employee join",
		stmts: stmts,
	}
}

func greedyJoinOrdering() scenario {
	stmts := []ast.Statement{
		&ast.CreateTableStmt{Table: "small", Columns: []ast.ColumnDef{{Name: "id", Type: "INT"}}},
		&ast.CreateTableStmt{Table: "med", Columns: []ast.ColumnDef{{Name: "id", Type: "INT"}, {Name: "small_id", Type: "INT"}}},
		&ast.CreateTableStmt{Table: "big", Columns: []ast.ColumnDef{{Name: "id", Type: "INT"}, {Name: "med_id", Type: "INT"}}},
		&ast.InsertStmt{Table: "small", Values: []ast.LiteralExpr{intLit(1)}},
		&ast.InsertStmt{Table: "med", Values: []ast.LiteralExpr{intLit(1), intLit(1)}},
		&ast.InsertStmt{Table: "med", Values: []ast.LiteralExpr{intLit(2), intLit(1)}},
		&ast.InsertStmt{Table: "big", Values: []ast.LiteralExpr{intLit(1), intLit(1)}},
		&ast.InsertStmt{Table: "big", Values: []ast.LiteralExpr{intLit(2), intLit(1)}},
		&ast.InsertStmt{Table: "big", Values: []ast.LiteralExpr{intLit(3), intLit(2)}},
		&ast.SelectStmt{
			Star: true,
			From: []ast.TableRef{{Table: "big", Alias: "b"}},
			Joins: []ast.JoinRef{{
				Kind: ast.InnerJoin,
				Ref:  ast.TableRef{Table: "med", Alias: "m"},
				On:   eq(col("m", "id"), col("b", "med_id")),
			}, {
				Kind: ast.InnerJoin,
				Ref:  ast.TableRef{Table: "small", Alias: "s"},
				On:   eq(col("s", "id"), col("m", "small_id")),
			}},
		},
	}
	return scenario{
		name:  "ordering",
		about: "greedy reordering should drive the three-table join from the smallest table outward",
		stmts: stmts,
	}
}

func updateWithIndex() scenario {
	stmts := []ast.Statement{
		&ast.CreateTableStmt{Table: "accounts", Columns: []ast.ColumnDef{
			{Name: "id", Type: "INT"},
			{Name: "balance", Type: "INT"},
		}},
		&ast.CreateIndexStmt{Table: "accounts", Columns: []string{"id"}},
		&ast.InsertStmt{Table: "accounts", Values: []ast.LiteralExpr{intLit(1), intLit(100)}},
		&ast.UpdateStmt{
			Table: "accounts",
			Set:   []ast.SetClause{{Column: "balance", Value: intLit(150)}},
			Where: []*ast.BinaryExpr{eq(col("accounts", "id"), intLit(1))},
		},
		&ast.SelectStmt{
			Star:  true,
			From:  []ast.TableRef{{Table: "accounts"}},
			Where: []*ast.BinaryExpr{eq(col("accounts", "id"), intLit(1))},
		},
	}
	return scenario{
		name:  "update",
		about: "indexed equality lookup drives an UPDATE, then re-read confirms the index still finds it",
		stmts: stmts,
	}
}

func orderByDescending() scenario {
	stmts := []ast.Statement{
		&ast.CreateTableStmt{Table: "scores", Columns: []ast.ColumnDef{
			{Name: "id", Type: "INT"},
			{Name: "points", Type: "INT"},
		}},
		&ast.InsertStmt{Table: "scores", Values: []ast.LiteralExpr{intLit(1), intLit(10)}},
		&ast.InsertStmt{Table: "scores", Values: []ast.LiteralExpr{intLit(2), intLit(30)}},
		&ast.InsertStmt{Table: "scores", Values: []ast.LiteralExpr{intLit(3), intLit(20)}},
		&ast.SelectStmt{
			Star:     true,
			From:     []ast.TableRef{{Table: "scores"}},
			OrderBy:  &ast.ColumnExpr{Table: "scores", Column: "points"},
			OrderDir: ast.Desc,
		},
	}
	return scenario{
		name:  "orderby",
		about: "ORDER BY points DESC over an unindexed column",
		stmts: stmts,
	}
}
