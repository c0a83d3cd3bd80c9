package exec

import (
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/types"
)

func evalOp(op query.Op, lhs, rhs types.Value) bool {
	switch op {
	case query.Eq:
		return lhs.CompareEquals(rhs)
	case query.Neq:
		return lhs.CompareNotEquals(rhs)
	case query.Lt:
		return lhs.CompareLessThan(rhs)
	case query.Gt:
		return lhs.CompareGreaterThan(rhs)
	case query.Le:
		return lhs.CompareLessThanEquals(rhs)
	case query.Ge:
		return lhs.CompareGreaterThanEquals(rhs)
	default:
		return false
	}
}

// evalConds reports whether every condition holds, resolving each side
// through get. A condition whose column cannot be resolved (should not
// happen for a well-planned tree) is treated as false rather than
// panicking.
func evalConds(conds []query.Condition, get func(query.ColumnRef) (types.Value, bool)) bool {
	for _, c := range conds {
		lhs, ok := get(c.LHS)
		if !ok {
			return false
		}
		var rhs types.Value
		if c.RHS.IsColumn {
			rhs, ok = get(c.RHS.Column)
			if !ok {
				return false
			}
		} else {
			rhs = c.RHS.Value
		}
		if !evalOp(c.Op, lhs, rhs) {
			return false
		}
	}
	return true
}
