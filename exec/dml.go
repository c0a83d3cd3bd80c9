package exec

import (
	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/storage/index"
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/txn"
	"github.com/sabledb/sabledb/types"
)

// affectedSchema is the one-column result every DML operator produces:
// a count of rows it touched, surfaced to the caller as an ordinary
// tuple so the engine layer doesn't need a separate result shape for
// statements versus queries.
var affectedSchema = Schema{{Column: "affected", Type: types.Integer, Length: 4}}

func affectedTuple(n int32) *Tuple {
	return &Tuple{Schema: affectedSchema, Values: []types.Value{types.NewInteger(n)}}
}

// boundIndex pairs a table's index descriptor with the open handle this
// statement mutates it through.
type boundIndex struct {
	keyCols []string
	handle  index.Handle
}

func openIndexes(table string, meta *catalog.TableMeta, im index.Manager) ([]boundIndex, error) {
	descs := meta.Indexes()
	out := make([]boundIndex, 0, len(descs))
	for _, d := range descs {
		h, err := im.Open(table, d.KeyColumns)
		if err != nil {
			return nil, asStorage(err)
		}
		out = append(out, boundIndex{keyCols: d.KeyColumns, handle: h})
	}
	return out, nil
}

func indexKeyValues(schema Schema, vals []types.Value, keyCols []string, table string) []types.Value {
	out := make([]types.Value, len(keyCols))
	for i, c := range keyCols {
		idx := schema.indexOf(table, c)
		out[i] = vals[idx]
	}
	return out
}

// Insert writes one literal row into storage and every index defined on
// the table, then yields a single affected-row tuple (spec.md §4.4 "DML
// operators").
type Insert struct {
	table   string
	schema  Schema
	values  []types.Value
	fh      record.FileHandle
	indexes []boundIndex

	st  state
	cur *Tuple
}

func NewInsert(table string, meta *catalog.TableMeta, values []types.Value, fh record.FileHandle, im index.Manager) (*Insert, error) {
	indexes, err := openIndexes(table, meta, im)
	if err != nil {
		return nil, err
	}
	return &Insert{table: table, schema: SchemaOfTable(table, meta), values: values, fh: fh, indexes: indexes}, nil
}

func (n *Insert) Begin(ctx *txn.Context) error {
	if err := ctx.LockExclusive(n.table); err != nil {
		return asConflict(err)
	}
	rec := n.schema.Encode(n.values)
	rid, err := n.fh.Insert(rec)
	if err != nil {
		return asStorage(err)
	}
	for _, bi := range n.indexes {
		key := indexKeyValues(n.schema, n.values, bi.keyCols, n.table)
		if err := bi.handle.Insert(key, rid); err != nil {
			return asStorage(err)
		}
	}
	n.cur = affectedTuple(1)
	n.st = streaming
	return nil
}

func (n *Insert) Next() error {
	n.st = ended
	n.cur = nil
	return nil
}

func (n *Insert) IsEnd() bool { return n.st == ended }

func (n *Insert) CurrentTuple() *Tuple { return n.cur }

func (n *Insert) OutputColumns() []query.ColumnRef { return affectedSchema.ColumnRefs() }

func (n *Insert) TupleWidth() uint32 { return affectedSchema.Width() }

func (n *Insert) CurrentRowID() (record.RowID, error) { return record.RowID{}, ErrUnsupportedOperation }

// Delete drains child (a scan/filter tree already narrowed to the rows
// to remove) and, for each, deletes the row from storage and from every
// index, yielding a single affected-row count (spec.md §4.4 "DML
// operators").
type Delete struct {
	table   string
	schema  Schema
	child   Operator
	fh      record.FileHandle
	indexes []boundIndex

	st       state
	affected int32
	cur      *Tuple
}

func NewDelete(table string, meta *catalog.TableMeta, child Operator, fh record.FileHandle, im index.Manager) (*Delete, error) {
	indexes, err := openIndexes(table, meta, im)
	if err != nil {
		return nil, err
	}
	return &Delete{table: table, schema: SchemaOfTable(table, meta), child: child, fh: fh, indexes: indexes}, nil
}

func (d *Delete) Begin(ctx *txn.Context) error {
	if err := ctx.LockExclusive(d.table); err != nil {
		return asConflict(err)
	}
	if err := d.child.Begin(ctx); err != nil {
		return err
	}
	for !d.child.IsEnd() {
		if err := d.deleteCurrent(); err != nil {
			return err
		}
		if err := d.child.Next(); err != nil {
			return err
		}
	}
	d.cur = affectedTuple(d.affected)
	d.st = streaming
	return nil
}

func (d *Delete) deleteCurrent() error {
	rid, err := d.child.CurrentRowID()
	if err != nil {
		return err
	}
	t := d.child.CurrentTuple()
	for _, bi := range d.indexes {
		key := indexKeyValues(d.schema, t.Values, bi.keyCols, d.table)
		if err := bi.handle.Delete(key, rid); err != nil {
			return asStorage(err)
		}
	}
	if err := d.fh.Delete(rid); err != nil {
		return asStorage(err)
	}
	d.affected++
	return nil
}

func (d *Delete) Next() error {
	d.st = ended
	d.cur = nil
	return nil
}

func (d *Delete) IsEnd() bool { return d.st == ended }

func (d *Delete) CurrentTuple() *Tuple { return d.cur }

func (d *Delete) OutputColumns() []query.ColumnRef { return affectedSchema.ColumnRefs() }

func (d *Delete) TupleWidth() uint32 { return affectedSchema.Width() }

func (d *Delete) CurrentRowID() (record.RowID, error) { return record.RowID{}, ErrUnsupportedOperation }

// Update drains child (already narrowed to the rows to change), applies
// SetClauses to derive each row's new image, rewrites it in place, and
// refreshes every index the table carries — unconditionally re-keying
// rather than checking whether a particular index's key columns were
// actually among the SET targets, since a table this module expects to
// plan over never carries enough indexes for that distinction to matter
// (spec.md §4.4 "DML operators").
type Update struct {
	table      string
	schema     Schema
	child      Operator
	setClauses []query.SetClause
	fh         record.FileHandle
	indexes    []boundIndex

	st       state
	affected int32
	cur      *Tuple
}

func NewUpdate(table string, meta *catalog.TableMeta, child Operator, setClauses []query.SetClause, fh record.FileHandle, im index.Manager) (*Update, error) {
	indexes, err := openIndexes(table, meta, im)
	if err != nil {
		return nil, err
	}
	return &Update{table: table, schema: SchemaOfTable(table, meta), child: child, setClauses: setClauses, fh: fh, indexes: indexes}, nil
}

func (u *Update) Begin(ctx *txn.Context) error {
	if err := ctx.LockExclusive(u.table); err != nil {
		return asConflict(err)
	}
	if err := u.child.Begin(ctx); err != nil {
		return err
	}
	for !u.child.IsEnd() {
		if err := u.updateCurrent(); err != nil {
			return err
		}
		if err := u.child.Next(); err != nil {
			return err
		}
	}
	u.cur = affectedTuple(u.affected)
	u.st = streaming
	return nil
}

func (u *Update) updateCurrent() error {
	rid, err := u.child.CurrentRowID()
	if err != nil {
		return err
	}
	old := u.child.CurrentTuple()
	newVals := append([]types.Value(nil), old.Values...)
	for _, sc := range u.setClauses {
		if idx := u.schema.indexOf(u.table, sc.Column); idx >= 0 {
			newVals[idx] = sc.Value
		}
	}
	for _, bi := range u.indexes {
		oldKey := indexKeyValues(u.schema, old.Values, bi.keyCols, u.table)
		if err := bi.handle.Delete(oldKey, rid); err != nil {
			return asStorage(err)
		}
	}
	rec := u.schema.Encode(newVals)
	if err := u.fh.Update(rid, rec); err != nil {
		return asStorage(err)
	}
	for _, bi := range u.indexes {
		newKey := indexKeyValues(u.schema, newVals, bi.keyCols, u.table)
		if err := bi.handle.Insert(newKey, rid); err != nil {
			return asStorage(err)
		}
	}
	u.affected++
	return nil
}

func (u *Update) Next() error {
	u.st = ended
	u.cur = nil
	return nil
}

func (u *Update) IsEnd() bool { return u.st == ended }

func (u *Update) CurrentTuple() *Tuple { return u.cur }

func (u *Update) OutputColumns() []query.ColumnRef { return affectedSchema.ColumnRefs() }

func (u *Update) TupleWidth() uint32 { return affectedSchema.Width() }

func (u *Update) CurrentRowID() (record.RowID, error) { return record.RowID{}, ErrUnsupportedOperation }
