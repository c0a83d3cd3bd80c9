package record

import (
	"fmt"

	"github.com/dsnet/golib/memfile"
	deadlock "github.com/sasha-s/go-deadlock"
)

// HeapManager is the in-memory record.Manager: one heap file per table,
// each row occupying a fixed-width slot. It stands in for the teacher's
// disk-backed, buffer-pool-mediated table heap (storage/access.TableHeap)
// without reimplementing paging — this module's buffer pool is named as
// an external collaborator in spec.md §6 and is out of scope.
type HeapManager struct {
	mu     deadlock.RWMutex
	tables map[string]*heapFile
}

func NewHeapManager() *HeapManager {
	return &HeapManager{tables: make(map[string]*heapFile)}
}

func (m *HeapManager) CreateTable(table string, rowWidth uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tables[table]; exists {
		return fmt.Errorf("record: table %q already has storage", table)
	}
	m.tables[table] = newHeapFile(rowWidth)
	return nil
}

func (m *HeapManager) DropTable(table string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tables[table]; !exists {
		return fmt.Errorf("record: table %q has no storage", table)
	}
	delete(m.tables, table)
	return nil
}

func (m *HeapManager) Open(table string) (FileHandle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("record: table %q has no storage", table)
	}
	return f, nil
}

// RowCount implements catalog.RowCounter so the cardinality estimator
// (catalog.Estimate) can read live storage sizes directly.
func (m *HeapManager) RowCount(table string) int64 {
	m.mu.RLock()
	f, ok := m.tables[table]
	m.mu.RUnlock()
	if !ok {
		return 0
	}
	return f.RowCount()
}

// heapFile backs one table: rows live in fixed-width slots inside an
// in-memory memfile.File (dsnet/golib/memfile — an io.ReaderAt/WriterAt
// byte buffer), with a parallel tombstone slice marking deleted slots so
// row identifiers stay stable for a row's lifetime (a tombstoned slot is
// never reused).
type heapFile struct {
	mu        deadlock.RWMutex
	rowWidth  uint32
	backing   *memfile.File
	tombstone []bool
	liveCount int64
}

func newHeapFile(rowWidth uint32) *heapFile {
	return &heapFile{
		rowWidth: rowWidth,
		backing:  memfile.New(nil),
	}
}

func (f *heapFile) Get(rid RowID) (Record, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if err := f.checkSlot(rid); err != nil {
		return nil, err
	}
	if f.tombstone[rid.Slot] {
		return nil, fmt.Errorf("record: row %s was deleted", rid)
	}
	buf := make([]byte, f.rowWidth)
	if _, err := f.backing.ReadAt(buf, int64(rid.Slot)*int64(f.rowWidth)); err != nil {
		return nil, err
	}
	return Record(buf), nil
}

func (f *heapFile) Insert(rec Record) (RowID, error) {
	if uint32(len(rec)) != f.rowWidth {
		return RowID{}, fmt.Errorf("record: insert width %d != table row width %d", len(rec), f.rowWidth)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	slot := int64(len(f.tombstone))
	if _, err := f.backing.WriteAt(rec, slot*int64(f.rowWidth)); err != nil {
		return RowID{}, err
	}
	f.tombstone = append(f.tombstone, false)
	f.liveCount++
	return RowID{Slot: slot}, nil
}

func (f *heapFile) Delete(rid RowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkSlot(rid); err != nil {
		return err
	}
	if !f.tombstone[rid.Slot] {
		f.tombstone[rid.Slot] = true
		f.liveCount--
	}
	return nil
}

func (f *heapFile) Update(rid RowID, rec Record) error {
	if uint32(len(rec)) != f.rowWidth {
		return fmt.Errorf("record: update width %d != table row width %d", len(rec), f.rowWidth)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkSlot(rid); err != nil {
		return err
	}
	if f.tombstone[rid.Slot] {
		return fmt.Errorf("record: row %s was deleted", rid)
	}
	_, err := f.backing.WriteAt(rec, int64(rid.Slot)*int64(f.rowWidth))
	return err
}

func (f *heapFile) RowCount() int64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.liveCount
}

func (f *heapFile) checkSlot(rid RowID) error {
	if rid.Slot < 0 || rid.Slot >= int64(len(f.tombstone)) {
		return fmt.Errorf("record: row %s out of range", rid)
	}
	return nil
}

func (f *heapFile) Scan() (Iterator, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	tombs := make([]bool, len(f.tombstone))
	copy(tombs, f.tombstone)
	it := &heapIterator{file: f, tombstone: tombs, slot: -1}
	it.advance()
	return it, nil
}

// heapIterator is the §6 rid/next/is_end scan cursor, snapshotting the
// tombstone map at Scan() time so a concurrent delete of an
// already-yielded row cannot corrupt the iteration (mirrors the
// index-scan executors' "detect value update after iterator created"
// check in spirit, kept simple here because this heap has no secondary
// structure to go stale).
type heapIterator struct {
	file      *heapFile
	tombstone []bool
	slot      int64
}

func (it *heapIterator) advance() {
	it.slot++
	for it.slot < int64(len(it.tombstone)) && it.tombstone[it.slot] {
		it.slot++
	}
}

func (it *heapIterator) IsEnd() bool { return it.slot >= int64(len(it.tombstone)) }

func (it *heapIterator) Next() {
	if it.IsEnd() {
		return
	}
	it.advance()
}

func (it *heapIterator) RowID() RowID { return RowID{Slot: it.slot} }

func (it *heapIterator) Record() Record {
	rec, err := it.file.Get(RowID{Slot: it.slot})
	if err != nil {
		return nil
	}
	return rec
}
