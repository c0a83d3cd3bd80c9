// Package ast is the parsed-statement contract the catalog resolver
// consumes (spec.md §6 names parsing as an external collaborator: SQL
// text in, one of these statements out). No lexer or parser lives in
// this module — building one is explicitly out of scope — so these
// types are the seam a caller (a test, or a future parser) constructs
// directly.
package ast

// Statement is the closed set of parsed top-level statements the
// resolver accepts, matching the grammar in spec.md §6.
type Statement interface {
	stmt()
}

// Expr is a scalar expression appearing in a WHERE/ON/SET clause or a
// projection list.
type Expr interface {
	expr()
}

// ColumnExpr names a column, optionally qualified by a table name or
// alias (e.g. "s.id" vs bare "id").
type ColumnExpr struct {
	Table  string // empty when unqualified
	Column string
}

func (ColumnExpr) expr() {}

// LiteralExpr is a constant value as written in the source text; typing
// happens during resolution, not here.
type LiteralExpr struct {
	Kind LiteralKind
	Int  int32
	Flt  float32
	Str  string
	Bool bool
}

type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	StringLiteral
	BoolLiteral
)

func (LiteralExpr) expr() {}

// CmpOp enumerates the comparison operators spec.md §6 accepts.
type CmpOp int

const (
	Eq CmpOp = iota
	Neq
	Lt
	Gt
	Le
	Ge
)

// BinaryExpr is a comparison "lhs op rhs" appearing in WHERE/ON, or a
// join condition when used inside a JoinRef.
type BinaryExpr struct {
	Op  CmpOp
	LHS Expr
	RHS Expr
}

func (BinaryExpr) expr() {}

// TableRef is one FROM-list entry: a base table with an optional alias.
type TableRef struct {
	Table string
	Alias string // empty when not aliased
}

// JoinRef is a `JOIN ref ON cond` entry; the resolver treats its
// condition as part of the query's WHERE-equivalent condition list.
type JoinRef struct {
	Kind JoinKind
	Ref  TableRef
	On   *BinaryExpr
}

// JoinKind distinguishes inner joins (supported) from outer joins
// (parseable per spec.md §6 grammar, rejected by the resolver/planner
// per spec.md §9's Open Questions resolution).
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
	FullJoin
)

// OrderDirection is ASC or DESC for an ORDER BY clause.
type OrderDirection int

const (
	Asc OrderDirection = iota
	Desc
)

// SelectStmt is `SELECT [* | col, ...] FROM ref[, ref | JOIN ...] [WHERE
// ...] [ORDER BY col [ASC|DESC]]`.
type SelectStmt struct {
	Star       bool
	Projection []ColumnExpr // ignored when Star is true
	From       []TableRef
	Joins      []JoinRef
	Where      []*BinaryExpr
	OrderBy    *ColumnExpr
	OrderDir   OrderDirection
}

func (*SelectStmt) stmt() {}

// InsertStmt is `INSERT INTO t VALUES (v, ...)`.
type InsertStmt struct {
	Table  string
	Values []LiteralExpr
}

func (*InsertStmt) stmt() {}

// DeleteStmt is `DELETE FROM t [WHERE ...]`.
type DeleteStmt struct {
	Table string
	Where []*BinaryExpr
}

func (*DeleteStmt) stmt() {}

// SetClause is one `col = v` pair of an UPDATE statement.
type SetClause struct {
	Column string
	Value  LiteralExpr
}

// UpdateStmt is `UPDATE t SET c = v, ... [WHERE ...]`.
type UpdateStmt struct {
	Table string
	Set   []SetClause
	Where []*BinaryExpr
}

func (*UpdateStmt) stmt() {}

// ColumnDef is one `col type` entry of a CREATE TABLE statement.
type ColumnDef struct {
	Name   string
	Type   string // "INT" | "FLOAT" | "CHAR" | "BOOLEAN" (or "BOOL")
	Length uint32 // declared n for CHAR(n); ignored otherwise
}

// CreateTableStmt is `CREATE TABLE t (col type, ...)`.
type CreateTableStmt struct {
	Table   string
	Columns []ColumnDef
}

func (*CreateTableStmt) stmt() {}

// DropTableStmt is `DROP TABLE t`.
type DropTableStmt struct {
	Table string
}

func (*DropTableStmt) stmt() {}

// CreateIndexStmt is `CREATE INDEX t (c1, ...)`.
type CreateIndexStmt struct {
	Table   string
	Columns []string
}

func (*CreateIndexStmt) stmt() {}

// DropIndexStmt is `DROP INDEX t (c1, ...)`.
type DropIndexStmt struct {
	Table   string
	Columns []string
}

func (*DropIndexStmt) stmt() {}

// DescStmt is `DESC t`.
type DescStmt struct {
	Table string
}

func (*DescStmt) stmt() {}

// ShowTablesStmt is `SHOW TABLES`.
type ShowTablesStmt struct{}

func (*ShowTablesStmt) stmt() {}

// ShowIndexStmt is `SHOW INDEX FROM t`.
type ShowIndexStmt struct {
	Table string
}

func (*ShowIndexStmt) stmt() {}

// TxnKind distinguishes the four transaction-control statements.
type TxnKind int

const (
	Begin TxnKind = iota
	Commit
	Abort
	Rollback
)

// TxnStmt is `BEGIN | COMMIT | ABORT | ROLLBACK`.
type TxnStmt struct {
	Kind TxnKind
}

func (*TxnStmt) stmt() {}

// SetConfigStmt is `SET enable_nestloop = {true|false}` or
// `SET enable_sortmerge = {true|false}`.
type SetConfigStmt struct {
	Key   string
	Value bool
}

func (*SetConfigStmt) stmt() {}

// ExplainStmt is `EXPLAIN stmt`; the wrapped statement is always a
// SelectStmt per spec.md §4.3 ("EXPLAIN wraps a normal SELECT plan").
type ExplainStmt struct {
	Stmt *SelectStmt
}

func (*ExplainStmt) stmt() {}
