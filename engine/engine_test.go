package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sabledb/sabledb/ast"
	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/storage/index"
	"github.com/sabledb/sabledb/storage/record"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	eng := New(catalog.NewCatalog(), record.NewHeapManager(), index.NewSortedIndexManager(), zap.NewNop())
	return NewSession(eng)
}

func TestExecTxnBeginCommitRoundTrip(t *testing.T) {
	s := newTestSession(t)

	res, err := s.Execute(&ast.TxnStmt{Kind: ast.Begin})
	require.NoError(t, err)
	require.Equal(t, "transaction started", res.Message)

	res, err = s.Execute(&ast.TxnStmt{Kind: ast.Commit})
	require.NoError(t, err)
	require.Equal(t, "transaction committed", res.Message)
}

func TestExecTxnDoubleBeginFails(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute(&ast.TxnStmt{Kind: ast.Begin})
	require.NoError(t, err)

	_, err = s.Execute(&ast.TxnStmt{Kind: ast.Begin})
	require.Error(t, err)
}

func TestExecTxnCommitWithoutBeginFails(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute(&ast.TxnStmt{Kind: ast.Commit})
	require.Error(t, err)
}

func TestExecTxnRollbackWithoutBeginFails(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute(&ast.TxnStmt{Kind: ast.Rollback})
	require.Error(t, err)
}

func TestExecTxnAbortClosesOpenTransaction(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute(&ast.TxnStmt{Kind: ast.Begin})
	require.NoError(t, err)

	res, err := s.Execute(&ast.TxnStmt{Kind: ast.Abort})
	require.NoError(t, err)
	require.Equal(t, "transaction rolled back", res.Message)

	require.Nil(t, s.tx)
}

func TestExecSetConfigTogglesNestLoopAndSortMerge(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute(&ast.SetConfigStmt{Key: "enable_nestloop", Value: false})
	require.NoError(t, err)
	require.False(t, s.cfg.EnableNestLoop())

	_, err = s.Execute(&ast.SetConfigStmt{Key: "enable_sortmerge", Value: false})
	require.NoError(t, err)
	require.False(t, s.cfg.EnableSortMerge())
}

func TestExecSetConfigUnrecognizedKeyFails(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute(&ast.SetConfigStmt{Key: "enable_bogus", Value: true})
	require.Error(t, err)
}

func TestExecuteRejectsUnrecognizedStatement(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Execute(nil)
	require.Error(t, err)
}
