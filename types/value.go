package types

import (
	"fmt"
	"strings"
)

// Value is the tagged union carried through conditions, tuples and plan
// literals: {int, float, string, bool}.
type Value struct {
	typeID TypeID
	ival   int32
	fval   float32
	sval   string
	bval   bool
	// charLen is the declared CHAR(n) width. Zero for non-Char values.
	charLen uint32
}

func NewInteger(v int32) Value  { return Value{typeID: Integer, ival: v} }
func NewFloat(v float32) Value  { return Value{typeID: Float, fval: v} }
func NewBoolean(v bool) Value   { return Value{typeID: Boolean, bval: v} }

// NewChar builds a CHAR(n) value, space-padding (or truncating) v to n
// bytes the way a fixed-width record image would store it.
func NewChar(v string, n uint32) Value {
	return Value{typeID: Char, sval: padChar(v, n), charLen: n}
}

func padChar(v string, n uint32) string {
	if uint32(len(v)) >= n {
		return v[:n]
	}
	return v + strings.Repeat(" ", int(n)-len(v))
}

func (v Value) ValueType() TypeID { return v.typeID }

func (v Value) ToInteger() int32 { return v.ival }
func (v Value) ToFloat() float32 { return v.fval }
func (v Value) ToBoolean() bool  { return v.bval }

// ToVarchar returns the CHAR(n) value with trailing padding trimmed, for
// display purposes. Comparisons use the padded form (CompareEquals etc.)
// so that 'a  ' and 'a' compare equal under CHAR(n) semantics.
func (v Value) ToVarchar() string { return strings.TrimRight(v.sval, " ") }

// Raw returns the stored (possibly padded) string for a Char value.
func (v Value) Raw() string { return v.sval }

func (v Value) String() string {
	switch v.typeID {
	case Integer:
		return fmt.Sprintf("%d", v.ival)
	case Float:
		return fmt.Sprintf("%g", v.fval)
	case Char:
		return v.sval
	case Boolean:
		return fmt.Sprintf("%t", v.bval)
	default:
		return "<invalid>"
	}
}

func (v Value) sameType(o Value) bool { return v.typeID == o.typeID }

func (v Value) CompareEquals(o Value) bool {
	common_assert(v.sameType(o))
	switch v.typeID {
	case Integer:
		return v.ival == o.ival
	case Float:
		return v.fval == o.fval
	case Char:
		return v.sval == o.sval
	case Boolean:
		return v.bval == o.bval
	}
	return false
}

func (v Value) CompareNotEquals(o Value) bool { return !v.CompareEquals(o) }

func (v Value) CompareLessThan(o Value) bool {
	common_assert(v.sameType(o))
	switch v.typeID {
	case Integer:
		return v.ival < o.ival
	case Float:
		return v.fval < o.fval
	case Char:
		return v.sval < o.sval
	case Boolean:
		return !v.bval && o.bval
	}
	return false
}

func (v Value) CompareLessThanEquals(o Value) bool {
	return v.CompareLessThan(o) || v.CompareEquals(o)
}

func (v Value) CompareGreaterThan(o Value) bool { return o.CompareLessThan(v) }

func (v Value) CompareGreaterThanEquals(o Value) bool {
	return v.CompareGreaterThan(o) || v.CompareEquals(o)
}

// common_assert avoids importing the common package here to keep types
// dependency-free (it sits under everything else); comparing mismatched
// types is always a planner/resolver bug, never user-triggerable.
func common_assert(ok bool) {
	if !ok {
		panic("types: comparison between values of different TypeID")
	}
}
