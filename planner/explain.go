package planner

import (
	"fmt"
	"strings"
)

// Explain renders a plan tree as the canonical indented, depth-prefixed
// text SPEC_FULL's EXPLAIN output uses (grounded on, but more decorated
// than, the teacher's plain-space PrintPlanTree).
func Explain(p Plan) string {
	var b strings.Builder
	explainNode(&b, p, 0)
	return b.String()
}

func explainNode(b *strings.Builder, p Plan, depth int) {
	if depth > 0 {
		b.WriteString(strings.Repeat("  ", depth-1))
		b.WriteString("└─ ")
	}
	b.WriteString(debugLine(p))
	b.WriteString("\n")
	for _, child := range children(p) {
		explainNode(b, child, depth+1)
	}
}

func debugLine(p Plan) string {
	switch n := p.(type) {
	case *ScanPlan:
		mode := "SeqScan"
		if n.Mode == IndexMode {
			mode = "IndexScan"
		}
		return fmt.Sprintf("%s(%s) conds=%d", mode, n.Table, len(n.Conds))
	case *JoinPlan:
		algo := "NestedLoop"
		if n.Algo == SortMerge {
			algo = "SortMerge"
		}
		return fmt.Sprintf("%sJoin conds=%d", algo, len(n.Conds))
	case *FilterPlan:
		return fmt.Sprintf("Filter conds=%d", len(n.Conds))
	case *ProjectionPlan:
		return fmt.Sprintf("Projection cols=%d", len(n.Cols))
	case *SortPlan:
		dir := "ASC"
		if n.Direction == 1 {
			dir = "DESC"
		}
		return fmt.Sprintf("Sort(%s.%s %s)", n.Key.Table, n.Key.Column, dir)
	case *DMLPlan:
		return fmt.Sprintf("DML(kind=%d table=%s)", n.Kind, n.Table)
	case *DDLPlan:
		return fmt.Sprintf("DDL(kind=%d table=%s)", n.Kind, n.Table)
	case *OtherPlan:
		return fmt.Sprintf("Other(kind=%d)", n.Kind)
	default:
		return "?"
	}
}

func children(p Plan) []Plan {
	switch n := p.(type) {
	case *JoinPlan:
		return []Plan{n.Left, n.Right}
	case *FilterPlan:
		return []Plan{n.Child}
	case *ProjectionPlan:
		return []Plan{n.Child}
	case *SortPlan:
		return []Plan{n.Child}
	case *DMLPlan:
		if n.Child != nil {
			return []Plan{n.Child}
		}
		return nil
	default:
		return nil
	}
}
