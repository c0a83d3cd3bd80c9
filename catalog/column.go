package catalog

import "github.com/sabledb/sabledb/types"

// ColumnMeta describes one column of a table: its owning table, name,
// type tag, fixed byte length and byte offset within a record image.
//
// Nullability is tracked but not enforced anywhere in this core — the
// spec reserves the field for a later constraint layer.
type ColumnMeta struct {
	TableName  string
	ColumnName string
	Type       types.TypeID
	// Length is the fixed byte length of the column's record image: 4 for
	// Integer/Float, 1 for Boolean, n for Char(n).
	Length   uint32
	Offset   uint32
	Nullable bool
}

func NewColumnMeta(table, name string, typeID types.TypeID, length uint32, offset uint32) *ColumnMeta {
	return &ColumnMeta{
		TableName:  table,
		ColumnName: name,
		Type:       typeID,
		Length:     length,
		Offset:     offset,
	}
}
