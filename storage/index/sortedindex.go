package index

import (
	"fmt"
	"sort"
	"strings"

	sortedmap "github.com/tobshub/go-sortedmap"

	deadlock "github.com/sasha-s/go-deadlock"

	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/types"
)

// indexEntry is one distinct key's posting list. Duplicate keys (a
// non-unique index) keep every matching row identifier together rather
// than storing one map entry per row.
type indexEntry struct {
	key  string
	rids []record.RowID
}

func lessEntry(a, b indexEntry) bool { return a.key < b.key }

// sortedIndex is the in-memory Handle: github.com/tobshub/go-sortedmap
// holds the authoritative key -> indexEntry map for equality probes and
// mutation, while keys is a separately maintained ascending slice of the
// same encoded keys used for range-probe binary search. The sortedmap's
// own iteration order is not relied upon here, since its public API only
// confirms keyed Get/Insert/Delete, not a documented ordered-range walk.
type sortedIndex struct {
	mu      deadlock.RWMutex
	entries *sortedmap.SortedMap[string, indexEntry]
	keys    []string
}

func newSortedIndex() *sortedIndex {
	return &sortedIndex{
		entries: sortedmap.New[string, indexEntry](0, lessEntry),
	}
}

func (idx *sortedIndex) Probe(key []types.Value) ([]record.RowID, error) {
	enc := EncodeKey(key)
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	e, ok := idx.entries.Get(enc)
	if !ok {
		return nil, nil
	}
	out := make([]record.RowID, len(e.rids))
	copy(out, e.rids)
	return out, nil
}

func (idx *sortedIndex) RangeProbe(lo, hi *Bound) ([]record.RowID, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	startIdx := 0
	if lo != nil {
		enc := EncodeKey(lo.Value)
		startIdx = sort.SearchStrings(idx.keys, enc)
		for !lo.Inclusive && startIdx < len(idx.keys) && hasKeyPrefix(idx.keys[startIdx], enc) {
			startIdx++
		}
	}
	endIdx := len(idx.keys)
	if hi != nil {
		enc := EncodeKey(hi.Value)
		endIdx = sort.SearchStrings(idx.keys, enc)
		for hi.Inclusive && endIdx < len(idx.keys) && hasKeyPrefix(idx.keys[endIdx], enc) {
			endIdx++
		}
	}

	var out []record.RowID
	for i := startIdx; i < endIdx && i < len(idx.keys); i++ {
		e, ok := idx.entries.Get(idx.keys[i])
		if !ok {
			continue
		}
		out = append(out, e.rids...)
	}
	return out, nil
}

// hasKeyPrefix reports whether key equals prefix or extends it by further
// key components, so a bound on a composite key's leading columns
// matches every key that starts with them.
func hasKeyPrefix(key, prefix string) bool {
	return key == prefix || strings.HasPrefix(key, prefix+"\x1f")
}

func (idx *sortedIndex) Insert(key []types.Value, rid record.RowID) error {
	enc := EncodeKey(key)
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if e, ok := idx.entries.Get(enc); ok {
		e.rids = append(e.rids, rid)
		idx.entries.Replace(enc, e)
		return nil
	}
	idx.entries.Insert(enc, indexEntry{key: enc, rids: []record.RowID{rid}})
	pos := sort.SearchStrings(idx.keys, enc)
	idx.keys = append(idx.keys, "")
	copy(idx.keys[pos+1:], idx.keys[pos:])
	idx.keys[pos] = enc
	return nil
}

func (idx *sortedIndex) Delete(key []types.Value, rid record.RowID) error {
	enc := EncodeKey(key)
	idx.mu.Lock()
	defer idx.mu.Unlock()

	e, ok := idx.entries.Get(enc)
	if !ok {
		return fmt.Errorf("index: key not found")
	}
	filtered := e.rids[:0]
	for _, r := range e.rids {
		if r != rid {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		idx.entries.Delete(enc)
		pos := sort.SearchStrings(idx.keys, enc)
		if pos < len(idx.keys) && idx.keys[pos] == enc {
			idx.keys = append(idx.keys[:pos], idx.keys[pos+1:]...)
		}
		return nil
	}
	e.rids = filtered
	idx.entries.Replace(enc, e)
	return nil
}

// SortedIndexManager implements Manager over in-memory sortedIndex
// handles, one per (table, key-column list) pair — mirroring how
// catalog.IndexDescriptor names an index by its table and key columns
// rather than by a separate index name.
type SortedIndexManager struct {
	mu      deadlock.RWMutex
	indexes map[string]*sortedIndex
}

func NewSortedIndexManager() *SortedIndexManager {
	return &SortedIndexManager{indexes: make(map[string]*sortedIndex)}
}

func indexKey(table string, cols []string) string {
	s := table
	for _, c := range cols {
		s += "\x1f" + c
	}
	return s
}

func (m *SortedIndexManager) CreateIndex(table string, keyColumns []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := indexKey(table, keyColumns)
	if _, exists := m.indexes[k]; exists {
		return fmt.Errorf("index: %s already has an index on %v", table, keyColumns)
	}
	m.indexes[k] = newSortedIndex()
	return nil
}

func (m *SortedIndexManager) DropIndex(table string, keyColumns []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := indexKey(table, keyColumns)
	if _, exists := m.indexes[k]; !exists {
		return fmt.Errorf("index: %s has no index on %v", table, keyColumns)
	}
	delete(m.indexes, k)
	return nil
}

func (m *SortedIndexManager) Open(table string, keyColumns []string) (Handle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, ok := m.indexes[indexKey(table, keyColumns)]
	if !ok {
		return nil, fmt.Errorf("index: %s has no index on %v", table, keyColumns)
	}
	return idx, nil
}
