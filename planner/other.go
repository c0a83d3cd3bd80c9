package planner

import (
	"github.com/sabledb/sabledb/ast"
	"github.com/sabledb/sabledb/dberrors"
)

// BuildOther plans the no-subtree statement shapes: DDL, SHOW/DESC,
// transaction control, and SET. These never pass through resolve/rewrite
// — they consult the catalog directly at execution time — so this takes
// the raw ast.Statement (spec.md §4.3: "DDL/SHOW/TXN statements go to
// the corresponding DDLPlan/OtherPlan wrappers with no subtree").
func BuildOther(stmt ast.Statement) (Plan, error) {
	switch s := stmt.(type) {
	case *ast.CreateTableStmt:
		return &DDLPlan{Kind: CreateTable, Table: s.Table, Columns: s.Columns}, nil
	case *ast.DropTableStmt:
		return &DDLPlan{Kind: DropTable, Table: s.Table}, nil
	case *ast.CreateIndexStmt:
		return &DDLPlan{Kind: CreateIndex, Table: s.Table, KeyColumns: s.Columns}, nil
	case *ast.DropIndexStmt:
		return &DDLPlan{Kind: DropIndex, Table: s.Table, KeyColumns: s.Columns}, nil
	case *ast.ShowTablesStmt:
		return &OtherPlan{Kind: ShowTables}, nil
	case *ast.ShowIndexStmt:
		return &OtherPlan{Kind: ShowIndex, Table: s.Table}, nil
	case *ast.DescStmt:
		return &OtherPlan{Kind: Desc, Table: s.Table}, nil
	case *ast.TxnStmt:
		switch s.Kind {
		case ast.Begin:
			return &OtherPlan{Kind: TxnBegin}, nil
		case ast.Commit:
			return &OtherPlan{Kind: TxnCommit}, nil
		case ast.Abort:
			return &OtherPlan{Kind: TxnAbort}, nil
		case ast.Rollback:
			return &OtherPlan{Kind: TxnRollback}, nil
		}
		return nil, dberrors.NewInternalError("unrecognized transaction statement kind %d", s.Kind)
	case *ast.SetConfigStmt:
		return &OtherPlan{Kind: SetConfig, ConfigKey: s.Key, ConfigValue: s.Value}, nil
	default:
		return nil, dberrors.NewInternalError("planner.BuildOther: unrecognized statement %T", stmt)
	}
}
