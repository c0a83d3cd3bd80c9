package txn

import "errors"

// ErrConflict is returned by LockShared/LockExclusive when a conflicting
// lock is already held by another transaction. The exec operators wrap
// this as a dberrors ConflictError, and the engine then aborts the
// transaction (spec.md §7 propagation policy).
var ErrConflict = errors.New("txn: lock conflict")
