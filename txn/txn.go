// Package txn stands in for the transaction/lock manager spec.md §6 names
// as an external collaborator: ctx.lock_shared/lock_exclusive,
// ctx.cancel_requested. It provides enough of a real lock table and
// cancellation flag to exercise the locking and cancellation rules of
// spec.md §5 end to end, without implementing crash recovery or MVCC.
package txn

import (
	"sync/atomic"

	deadlock "github.com/sasha-s/go-deadlock"
)

type State int32

const (
	Active State = iota
	Committed
	Aborted
)

// LockMode mirrors the two modes spec.md §5 requires: shared for scans,
// exclusive for DML.
type LockMode int32

const (
	Shared LockMode = iota
	Exclusive
)

// Context is the per-statement/per-transaction execution context threaded
// through every operator. It is the ctx named throughout spec.md §4.4 and
// §5 (lock_shared, lock_exclusive, cancel_requested).
type Context struct {
	id        int64
	lm        *LockManager
	state     atomic.Int32
	cancelled atomic.Bool
}

func newContext(id int64, lm *LockManager) *Context {
	c := &Context{id: id, lm: lm}
	c.state.Store(int32(Active))
	return c
}

func (c *Context) ID() int64 { return c.id }

func (c *Context) State() State { return State(c.state.Load()) }

func (c *Context) SetState(s State) { c.state.Store(int32(s)) }

// CancelRequested implements ctx.cancel_requested(). Operators check this
// between tuples (spec.md §5 "Cancellation and timeout").
func (c *Context) CancelRequested() bool { return c.cancelled.Load() }

func (c *Context) RequestCancel() { c.cancelled.Store(true) }

// LockShared implements ctx.lock_shared(table|rid): acquire a shared lock
// held for the duration of the enclosing transaction.
func (c *Context) LockShared(resource string) error {
	return c.lm.lock(c.id, resource, Shared)
}

// LockExclusive implements ctx.lock_exclusive(table|rid).
func (c *Context) LockExclusive(resource string) error {
	return c.lm.lock(c.id, resource, Exclusive)
}

// Release drops every lock this context holds; called on commit, abort,
// or rollback.
func (c *Context) Release() { c.lm.releaseAll(c.id) }

// LockManager is a simple table/row lock table: one mode per (holder,
// resource) pair, shared locks are compatible with each other, exclusive
// locks are not compatible with anything. The table itself is guarded by
// go-deadlock's annotated Mutex (rather than sync.Mutex), so an
// accidental deadlock on it is reported by that library.
type LockManager struct {
	mu    deadlock.Mutex
	held  map[string][]holder // resource -> holders
	byTxn map[int64][]string  // txn id -> resources it holds
	next  atomic.Int64
}

type holder struct {
	txnID int64
	mode  LockMode
}

func NewLockManager() *LockManager {
	return &LockManager{
		held:  make(map[string][]holder),
		byTxn: make(map[int64][]string),
	}
}

// Begin implements the engine-level half of BEGIN: allocate a fresh
// Context bound to this lock manager.
func (lm *LockManager) Begin() *Context {
	id := lm.next.Add(1)
	return newContext(id, lm)
}

func (lm *LockManager) lock(txnID int64, resource string, mode LockMode) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	holders := lm.held[resource]
	for _, h := range holders {
		if h.txnID == txnID {
			if h.mode == Exclusive || mode == Shared {
				return nil // already hold as strong or stronger
			}
			continue
		}
		if mode == Exclusive || h.mode == Exclusive {
			return ErrConflict
		}
	}
	lm.held[resource] = append(holders, holder{txnID: txnID, mode: mode})
	lm.byTxn[txnID] = append(lm.byTxn[txnID], resource)
	return nil
}

func (lm *LockManager) releaseAll(txnID int64) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	for _, resource := range lm.byTxn[txnID] {
		holders := lm.held[resource]
		out := holders[:0]
		for _, h := range holders {
			if h.txnID != txnID {
				out = append(out, h)
			}
		}
		if len(out) == 0 {
			delete(lm.held, resource)
		} else {
			lm.held[resource] = out
		}
	}
	delete(lm.byTxn, txnID)
}
