package engine

import (
	"go.uber.org/zap"

	"github.com/sabledb/sabledb/ast"
	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/dberrors"
	"github.com/sabledb/sabledb/exec"
	"github.com/sabledb/sabledb/planner"
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/resolve"
	"github.com/sabledb/sabledb/rewrite"
	"github.com/sabledb/sabledb/txn"
	"github.com/sabledb/sabledb/types"
)

// execQuery implements the resolve -> rewrite -> plan -> compile ->
// drive pipeline for SELECT, INSERT, DELETE, UPDATE and EXPLAIN.
func (s *Session) execQuery(stmt ast.Statement) (*Result, error) {
	q, err := resolveStatement(stmt, s)
	if err != nil {
		return nil, err
	}
	if rc, ok := s.eng.Records.(catalog.RowCounter); ok {
		rewrite.Apply(q, rc)
	}

	plan, err := planner.Build(q, s.eng.Catalog, s.cfg)
	if err != nil {
		return nil, err
	}
	warnCrossProducts(s.eng.Log, plan)

	if q.Kind == query.Explain {
		return &Result{ExplainText: planner.Explain(plan)}, nil
	}

	nameToTable := make(map[string]string, len(q.Tables))
	for _, t := range q.Tables {
		nameToTable[t.Name()] = t.Table
	}
	execCtx := &exec.Context{
		Catalog:     s.eng.Catalog,
		Records:     s.eng.Records,
		Indexes:     s.eng.Indexes,
		NameToTable: nameToTable,
	}

	op, err := exec.Compile(plan, execCtx)
	if err != nil {
		return nil, err
	}

	var result *Result
	txErr := s.withStatementTxn(func(ctx *txn.Context) error {
		var driveErr error
		result, driveErr = drive(op, ctx, q.Kind)
		return driveErr
	})
	if txErr != nil {
		return nil, txErr
	}
	return result, nil
}

func resolveStatement(stmt ast.Statement, s *Session) (*query.Query, error) {
	switch st := stmt.(type) {
	case *ast.SelectStmt:
		return resolve.ResolveSelect(st, s.eng.Catalog)
	case *ast.InsertStmt:
		return resolve.ResolveInsert(st, s.eng.Catalog)
	case *ast.DeleteStmt:
		return resolve.ResolveDelete(st, s.eng.Catalog)
	case *ast.UpdateStmt:
		return resolve.ResolveUpdate(st, s.eng.Catalog)
	case *ast.ExplainStmt:
		return resolve.ResolveExplain(st, s.eng.Catalog)
	default:
		return nil, dberrors.NewInternalError("engine: unrecognized statement %T", stmt)
	}
}

// drive runs op to completion under ctx, collecting either a SELECT's
// rows or a DML statement's affected-row count (spec.md §4.4: the root
// operator's next drives everything beneath it to produce the
// statement's full result).
func drive(op exec.Operator, ctx *txn.Context, kind query.Kind) (*Result, error) {
	if err := op.Begin(ctx); err != nil {
		return nil, err
	}

	if kind == query.Insert || kind == query.Delete || kind == query.Update {
		if op.IsEnd() {
			return &Result{Affected: 0}, nil
		}
		affected := op.CurrentTuple().Values[0].ToInteger()
		return &Result{Affected: affected}, nil
	}

	cols := op.OutputColumns()
	names := make([]string, len(cols))
	for i, c := range cols {
		if c.OutputName != "" {
			names[i] = c.OutputName
		} else {
			names[i] = c.Table + "." + c.Column
		}
	}

	var rows [][]types.Value
	for !op.IsEnd() {
		t := op.CurrentTuple()
		rows = append(rows, append([]types.Value(nil), t.Values...))
		if err := op.Next(); err != nil {
			return nil, err
		}
	}
	return &Result{Columns: names, Rows: rows}, nil
}

// warnCrossProducts walks the finished plan tree and logs one zap Warn
// per JoinPlan the physical planner had to leave condition-free — an
// explicit cross product between the two named tables, rather than a
// join the planner could push a condition into.
func warnCrossProducts(log *zap.Logger, p planner.Plan) {
	switch n := p.(type) {
	case *planner.JoinPlan:
		if len(n.Conds) == 0 {
			log.Warn("cross product in plan",
				zap.Strings("left_tables", leafTables(n.Left)),
				zap.Strings("right_tables", leafTables(n.Right)))
		}
		warnCrossProducts(log, n.Left)
		warnCrossProducts(log, n.Right)
	case *planner.FilterPlan:
		warnCrossProducts(log, n.Child)
	case *planner.ProjectionPlan:
		warnCrossProducts(log, n.Child)
	case *planner.SortPlan:
		warnCrossProducts(log, n.Child)
	case *planner.DMLPlan:
		if n.Child != nil {
			warnCrossProducts(log, n.Child)
		}
	}
}

// leafTables collects every base table name reachable under p, for the
// cross-product warning's diagnostic payload.
func leafTables(p planner.Plan) []string {
	switch n := p.(type) {
	case *planner.ScanPlan:
		return []string{n.Table}
	case *planner.JoinPlan:
		return append(leafTables(n.Left), leafTables(n.Right)...)
	case *planner.FilterPlan:
		return leafTables(n.Child)
	case *planner.ProjectionPlan:
		return leafTables(n.Child)
	case *planner.SortPlan:
		return leafTables(n.Child)
	default:
		return nil
	}
}
