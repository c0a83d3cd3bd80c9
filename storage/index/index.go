// Package index is the index manager named as an external collaborator in
// spec.md §6: open(table, key) -> Handle, range_probe(lo, hi, inclusivity)
// -> rows, insert(key, rid), delete(key, rid). As with package record, this
// module gives it a concrete in-memory implementation (sortedindex.go)
// instead of a mock, so IndexScan can be exercised end to end.
package index

import (
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/types"
)

// Bound is one end of a range probe. A nil Bound means unbounded on that
// side (matches a leading-wildcard or trailing-wildcard scan).
type Bound struct {
	Value     []types.Value
	Inclusive bool
}

// Manager implements the §6 contract open(table, key) -> Handle.
type Manager interface {
	CreateIndex(table string, keyColumns []string) error
	DropIndex(table string, keyColumns []string) error
	Open(table string, keyColumns []string) (Handle, error)
}

// Handle is one index's lookup surface. Keys are composite: one
// types.Value per indexed column, in declared key-column order.
type Handle interface {
	// Probe returns every row identifier stored under an exact key —
	// the access path an equality predicate compiles to.
	Probe(key []types.Value) ([]record.RowID, error)
	// RangeProbe returns every row identifier whose key falls within
	// [lo, hi] (each bound optionally open or unbounded), in ascending
	// key order. A bound with fewer values than the key has columns is
	// compared against the key's leading columns. This is what a <, <=,
	// >, >= or BETWEEN-shaped predicate compiles to.
	RangeProbe(lo, hi *Bound) ([]record.RowID, error)
	Insert(key []types.Value, rid record.RowID) error
	Delete(key []types.Value, rid record.RowID) error
}
