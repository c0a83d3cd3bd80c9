// Package engine is the top-level statement dispatcher spec.md §6's
// "Exit codes / return shape" and §7's propagation policy imply:
// resolve -> rewrite -> plan -> compile -> drive, for every statement
// shape the SQL surface accepts.
package engine

import (
	"go.uber.org/zap"

	"github.com/sabledb/sabledb/ast"
	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/config"
	"github.com/sabledb/sabledb/dberrors"
	"github.com/sabledb/sabledb/storage/index"
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/txn"
)

// Engine owns the process-wide collaborators spec.md §6 names as
// external: the catalog, the record and index managers, and the lock
// manager every Session's transactions are scheduled through.
type Engine struct {
	Catalog *catalog.Catalog
	Records record.Manager
	Indexes index.Manager
	Locks   *txn.LockManager
	Log     *zap.Logger
	// DefaultConfig is the planner configuration new sessions inherit a
	// clone of at construction (spec.md §9: "pass an explicit
	// planner-configuration value from the session into the planner").
	DefaultConfig *config.PlannerConfig
}

func New(cat *catalog.Catalog, rm record.Manager, im index.Manager, log *zap.Logger) *Engine {
	return &Engine{
		Catalog:       cat,
		Records:       rm,
		Indexes:       im,
		Locks:         txn.NewLockManager(),
		Log:           log,
		DefaultConfig: config.NewDefault(),
	}
}

// Session is one client connection's state: its own planner knobs and,
// while a transaction is open, the *txn.Context every statement it
// issues runs under. A nil tx means autocommit — each statement gets
// its own single-statement transaction.
type Session struct {
	eng *Engine
	cfg *config.PlannerConfig
	tx  *txn.Context
}

func NewSession(eng *Engine) *Session {
	return &Session{eng: eng, cfg: eng.DefaultConfig.Clone()}
}

// Execute dispatches one parsed statement, implementing spec.md §4.3's
// "DDL/SHOW/TXN statements go to the corresponding DDLPlan/OtherPlan
// wrappers with no subtree" alongside the resolve/rewrite/plan/compile
// pipeline for SELECT/INSERT/DELETE/UPDATE/EXPLAIN.
func (s *Session) Execute(stmt ast.Statement) (*Result, error) {
	switch st := stmt.(type) {
	case *ast.TxnStmt:
		return s.execTxn(st)
	case *ast.SetConfigStmt:
		return s.execSetConfig(st)
	case *ast.CreateTableStmt, *ast.DropTableStmt, *ast.CreateIndexStmt, *ast.DropIndexStmt,
		*ast.ShowTablesStmt, *ast.ShowIndexStmt, *ast.DescStmt:
		return s.execDDL(stmt)
	case *ast.SelectStmt, *ast.InsertStmt, *ast.DeleteStmt, *ast.UpdateStmt, *ast.ExplainStmt:
		return s.execQuery(stmt)
	default:
		return nil, dberrors.NewInternalError("engine: unrecognized statement %T", stmt)
	}
}

func (s *Session) execTxn(st *ast.TxnStmt) (*Result, error) {
	switch st.Kind {
	case ast.Begin:
		if s.tx != nil {
			return nil, dberrors.NewSemanticError("a transaction is already open")
		}
		s.tx = s.eng.Locks.Begin()
		return &Result{Message: "transaction started"}, nil
	case ast.Commit:
		if s.tx == nil {
			return nil, dberrors.NewSemanticError("no transaction is open")
		}
		s.tx.SetState(txn.Committed)
		s.tx.Release()
		s.tx = nil
		return &Result{Message: "transaction committed"}, nil
	case ast.Abort, ast.Rollback:
		if s.tx == nil {
			return nil, dberrors.NewSemanticError("no transaction is open")
		}
		s.tx.SetState(txn.Aborted)
		s.tx.Release()
		s.tx = nil
		return &Result{Message: "transaction rolled back"}, nil
	default:
		return nil, dberrors.NewInternalError("engine: unrecognized txn kind %d", st.Kind)
	}
}

func (s *Session) execSetConfig(st *ast.SetConfigStmt) (*Result, error) {
	switch st.Key {
	case "enable_nestloop":
		s.cfg.SetEnableNestLoop(st.Value)
	case "enable_sortmerge":
		s.cfg.SetEnableSortMerge(st.Value)
	default:
		return nil, dberrors.NewSemanticError("unrecognized session setting %q", st.Key)
	}
	return &Result{Message: "setting updated"}, nil
}

// withStatementTxn runs fn under the session's open transaction, or
// under a fresh single-statement transaction when none is open,
// applying spec.md §7's propagation policy: CancelledError and
// ConflictError abort the transaction; anything else leaves it open
// for the client to decide (a no-op for the autocommit case, since that
// transaction is discarded either way).
func (s *Session) withStatementTxn(fn func(ctx *txn.Context) error) error {
	ctx := s.tx
	autocommit := ctx == nil
	if autocommit {
		ctx = s.eng.Locks.Begin()
	}

	err := fn(ctx)

	if dberrors.As(err, dberrors.Cancelled) || dberrors.As(err, dberrors.Conflict) {
		ctx.SetState(txn.Aborted)
		ctx.Release()
		if !autocommit {
			s.tx = nil
		}
		return err
	}

	if autocommit {
		if err == nil {
			ctx.SetState(txn.Committed)
		} else {
			ctx.SetState(txn.Aborted)
		}
		ctx.Release()
	}
	return err
}
