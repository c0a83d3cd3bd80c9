package catalog

import "github.com/sabledb/sabledb/types"

// TableMeta is the catalog's view of one table: its ordered columns and
// the indexes defined over it. It lives for the process lifetime, created
// by DDL and consulted read-only during planning and execution.
type TableMeta struct {
	Name    string
	Columns []*ColumnMeta
	// indexes maps an indexKey(cols) to its descriptor. Populated by
	// CreateIndex/removed by DropIndex.
	indexes map[string]*IndexDescriptor
}

func NewTableMeta(name string, columns []*ColumnMeta) *TableMeta {
	return &TableMeta{
		Name:    name,
		Columns: columns,
		indexes: make(map[string]*IndexDescriptor),
	}
}

// GetColumn returns the column named name, or nil if the table has none.
func (t *TableMeta) GetColumn(name string) *ColumnMeta {
	for _, c := range t.Columns {
		if c.ColumnName == name {
			return c
		}
	}
	return nil
}

// ColumnIndex returns the ordinal position of name within t.Columns, or
// -1 when the column does not exist.
func (t *TableMeta) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.ColumnName == name {
			return i
		}
	}
	return -1
}

// RowWidth is the byte length of one fixed-width record image for this
// table: the sum of every column's Length.
func (t *TableMeta) RowWidth() uint32 {
	var w uint32
	for _, c := range t.Columns {
		w += c.Length
	}
	return w
}

// IndexOn returns the descriptor for an index keyed exactly by cols (same
// columns, same order), or nil.
func (t *TableMeta) IndexOn(cols []string) *IndexDescriptor {
	return t.indexes[indexKey(cols)]
}

// Indexes returns every index descriptor defined on the table.
func (t *TableMeta) Indexes() []*IndexDescriptor {
	out := make([]*IndexDescriptor, 0, len(t.indexes))
	for _, d := range t.indexes {
		out = append(out, d)
	}
	return out
}

// IndexesCoveringColumn returns every index (single-column or composite)
// whose key contains col.
func (t *TableMeta) IndexesCoveringColumn(col string) []*IndexDescriptor {
	var out []*IndexDescriptor
	for _, d := range t.indexes {
		for _, c := range d.KeyColumns {
			if c == col {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

func (t *TableMeta) addIndex(d *IndexDescriptor) {
	t.indexes[indexKey(d.KeyColumns)] = d
}

func (t *TableMeta) removeIndex(cols []string) {
	delete(t.indexes, indexKey(cols))
}

// CheckValueTypes validates that vals matches the table schema in arity
// and per-column type, as required by the resolver's INSERT validation
// (spec: "an inserted value list does not match the table schema in
// arity or type").
func (t *TableMeta) CheckValueTypes(vals []types.Value) bool {
	if len(vals) != len(t.Columns) {
		return false
	}
	for i, v := range vals {
		if v.ValueType() != t.Columns[i].Type {
			return false
		}
	}
	return true
}
