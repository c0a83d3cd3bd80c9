package types

// TypeID enumerates the column types this engine understands. A CHAR(n)
// column carries its declared length separately (see catalog.ColumnMeta);
// TypeID only distinguishes the family.
type TypeID int32

const (
	Invalid TypeID = iota
	Integer
	Float
	Char
	Boolean
)

func (t TypeID) String() string {
	switch t {
	case Integer:
		return "INT"
	case Float:
		return "FLOAT"
	case Char:
		return "CHAR"
	case Boolean:
		return "BOOLEAN"
	default:
		return "INVALID"
	}
}

// Size returns the fixed on-disk width in bytes for types whose width does
// not depend on a declared length. Char is variable (callers must consult
// the column's declared length) and returns 0 here.
func (t TypeID) Size() uint32 {
	switch t {
	case Integer:
		return 4
	case Float:
		return 4
	case Boolean:
		return 1
	default:
		return 0
	}
}
