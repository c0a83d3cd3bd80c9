// Package exec implements the execution operators (spec.md §4.4): a
// Volcano-style begin/next/is_end/current_tuple iterator protocol driven
// by single-threaded cooperative pull (spec.md §5).
package exec

import (
	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/dberrors"
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/storage/record"
	"github.com/sabledb/sabledb/types"
)

// ColumnSpec is one column of an operator's output schema: enough to
// both encode/decode a record image and answer a Condition lookup by
// (table, column).
type ColumnSpec struct {
	Table  string
	Column string
	Type   types.TypeID
	Length uint32
	offset uint32
}

// Schema is an operator's ordered output column list. Unlike
// catalog.ColumnMeta's offsets (which describe a table's on-disk
// layout), a Schema's offsets describe the byte layout of *this
// operator's* tuple image — e.g. a join's schema is its own contiguous
// encoding of left-columns-then-right-columns, not either child table's
// original layout.
type Schema []ColumnSpec

// SchemaFromColumns resolves a list of query.ColumnRef against the
// catalog into a Schema with freshly assigned sequential offsets.
func SchemaFromColumns(cols []query.ColumnRef, cat *catalog.Catalog, nameToTable map[string]string) (Schema, error) {
	out := make(Schema, 0, len(cols))
	var off uint32
	for _, c := range cols {
		table := nameToTable[c.Table]
		meta, ok := cat.GetTable(table)
		if !ok {
			return nil, dberrors.NewInternalError("exec: unknown table %q in schema", table)
		}
		col := meta.GetColumn(c.Column)
		if col == nil {
			return nil, dberrors.NewInternalError("exec: unknown column %q.%q in schema", c.Table, c.Column)
		}
		out = append(out, ColumnSpec{Table: c.Table, Column: c.Column, Type: col.Type, Length: col.Length, offset: off})
		off += col.Length
	}
	return out, nil
}

// SchemaOfTable builds the full, untouched output schema for a
// ScanPlan: one ColumnSpec per table column, in declared order, using
// name as the qualifying table label (the alias, when the scan came
// from an aliased FROM-list entry).
func SchemaOfTable(name string, meta *catalog.TableMeta) Schema {
	out := make(Schema, len(meta.Columns))
	var off uint32
	for i, c := range meta.Columns {
		out[i] = ColumnSpec{Table: name, Column: c.ColumnName, Type: c.Type, Length: c.Length, offset: off}
		off += c.Length
	}
	return out
}

// Concat builds the schema of a join's output: left columns followed by
// right columns, re-offset contiguously.
func Concat(left, right Schema) Schema {
	out := make(Schema, 0, len(left)+len(right))
	var off uint32
	for _, c := range left {
		c.offset = off
		off += c.Length
		out = append(out, c)
	}
	for _, c := range right {
		c.offset = off
		off += c.Length
		out = append(out, c)
	}
	return out
}

func (s Schema) Width() uint32 {
	var w uint32
	for _, c := range s {
		w += c.Length
	}
	return w
}

func (s Schema) ColumnRefs() []query.ColumnRef {
	out := make([]query.ColumnRef, len(s))
	for i, c := range s {
		out[i] = query.ColumnRef{Table: c.Table, Column: c.Column}
	}
	return out
}

// Select narrows/reorders s to cols, preserving each column's
// type/length and re-offsetting them contiguously for the new layout.
// Used to compute a Projection's output schema at construction time,
// before any child tuple has flowed through.
func (s Schema) Select(cols []query.ColumnRef) Schema {
	out := make(Schema, len(cols))
	var off uint32
	for i, c := range cols {
		src := s[s.indexOf(c.Table, c.Column)]
		out[i] = ColumnSpec{Table: c.Table, Column: c.Column, Type: src.Type, Length: src.Length, offset: off}
		off += src.Length
	}
	return out
}

func (s Schema) indexOf(table, column string) int {
	for i, c := range s {
		if c.Column == column && (table == "" || c.Table == table) {
			return i
		}
	}
	return -1
}

// Encode packs vals (one per schema column, in order) into a fixed-width
// record image matching this schema's byte layout.
func (s Schema) Encode(vals []types.Value) record.Record {
	buf := make([]byte, s.Width())
	for i, c := range s {
		writeValue(buf[c.offset:c.offset+c.Length], c.Type, vals[i])
	}
	return record.Record(buf)
}

// Decode unpacks a record image into one types.Value per schema column.
func (s Schema) Decode(rec record.Record) []types.Value {
	out := make([]types.Value, len(s))
	for i, c := range s {
		out[i] = readValue(rec[c.offset:c.offset+c.Length], c.Type)
	}
	return out
}

func writeValue(dst []byte, t types.TypeID, v types.Value) {
	switch t {
	case types.Integer:
		putInt32(dst, v.ToInteger())
	case types.Float:
		putFloat32(dst, v.ToFloat())
	case types.Boolean:
		if v.ToBoolean() {
			dst[0] = 1
		} else {
			dst[0] = 0
		}
	case types.Char:
		copy(dst, v.Raw())
	}
}

func readValue(src []byte, t types.TypeID) types.Value {
	switch t {
	case types.Integer:
		return types.NewInteger(getInt32(src))
	case types.Float:
		return types.NewFloat(getFloat32(src))
	case types.Boolean:
		return types.NewBoolean(src[0] != 0)
	case types.Char:
		return types.NewChar(string(src), uint32(len(src)))
	default:
		return types.Value{}
	}
}

// Tuple is the record image an operator currently holds, paired with
// the schema needed to interpret it (spec.md §3's "current output
// record image").
type Tuple struct {
	Schema Schema
	Values []types.Value
	RowID  record.RowID
}

// Get resolves a ColumnRef against the tuple's own schema, used by
// Filter/Join to evaluate conditions without re-decoding bytes.
func (t *Tuple) Get(ref query.ColumnRef) (types.Value, bool) {
	i := t.Schema.indexOf(ref.Table, ref.Column)
	if i < 0 {
		return types.Value{}, false
	}
	return t.Values[i], true
}

// Project returns a new Tuple narrowed/reordered to cols, preserving
// each column's type/length from the source schema and re-offsetting
// them contiguously for the new, narrower layout.
func (t *Tuple) Project(cols []query.ColumnRef) *Tuple {
	vals := make([]types.Value, len(cols))
	for i, c := range cols {
		v, _ := t.Get(c)
		vals[i] = v
	}
	return &Tuple{Schema: t.Schema.Select(cols), Values: vals}
}

// concatWith joins this tuple (left) with other (right) into one wide
// tuple sharing the concatenated schema.
func (t *Tuple) concatWith(other *Tuple, schema Schema) *Tuple {
	vals := make([]types.Value, 0, len(t.Values)+len(other.Values))
	vals = append(vals, t.Values...)
	vals = append(vals, other.Values...)
	return &Tuple{Schema: schema, Values: vals}
}
