package index

import (
	"fmt"
	"math"

	"github.com/sabledb/sabledb/types"
)

// encodeComponent maps one Value onto a fixed-width string such that
// byte-wise (hence lexicographic) ordering of the encoding matches the
// value's own CompareLessThan ordering. Concatenating per-column
// encodings for a composite key then orders the whole key correctly,
// because every component has a fixed width.
func encodeComponent(v types.Value) string {
	switch v.ValueType() {
	case types.Integer:
		// Bias into the non-negative range so two's-complement negative
		// numbers still sort before positive ones byte-wise.
		biased := int64(v.ToInteger()) + (1 << 31)
		return fmt.Sprintf("%020d", biased)
	case types.Float:
		bits := math.Float32bits(v.ToFloat())
		// IEEE-754 monotonic remap: flip the sign bit, and for negatives
		// flip every other bit too, so unsigned integer order of the
		// remapped bits matches float order.
		if bits&0x80000000 != 0 {
			bits = ^bits
		} else {
			bits |= 0x80000000
		}
		return fmt.Sprintf("%020d", bits)
	case types.Char:
		return v.Raw()
	case types.Boolean:
		if v.ToBoolean() {
			return "1"
		}
		return "0"
	default:
		return v.String()
	}
}

// EncodeKey encodes a composite key (one Value per indexed column, in key
// order) into the order-preserving string used as the sorted map's key.
func EncodeKey(vals []types.Value) string {
	s := ""
	for i, v := range vals {
		if i > 0 {
			s += "\x1f"
		}
		s += encodeComponent(v)
	}
	return s
}
