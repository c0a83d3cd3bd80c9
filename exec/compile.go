package exec

import (
	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/dberrors"
	"github.com/sabledb/sabledb/planner"
	"github.com/sabledb/sabledb/storage/index"
	"github.com/sabledb/sabledb/storage/record"
)

// Context bundles everything Compile needs to turn a planner.Plan into
// a live operator tree: the catalog for column metadata, the storage
// managers a scan or DML node opens a handle against, and the
// alias-to-physical-table map a multi-table SELECT's ScanPlan.Table
// values are qualified by (empty/absent for a single-table DML plan,
// whose ScanPlan.Table is already the physical name).
type Context struct {
	Catalog     *catalog.Catalog
	Records     record.Manager
	Indexes     index.Manager
	NameToTable map[string]string
}

func (c *Context) physicalName(name string) string {
	if t, ok := c.NameToTable[name]; ok {
		return t
	}
	return name
}

func (c *Context) resolveTable(name string) (*catalog.TableMeta, string, error) {
	table := c.physicalName(name)
	meta, ok := c.Catalog.GetTable(table)
	if !ok {
		return nil, "", dberrors.NewSemanticError("unknown table %q", table)
	}
	return meta, table, nil
}

// Compile is the single switch over planner.Plan's closed kinds,
// mirroring the teacher's execution_engine.go build step: one plan node
// shape in, one concrete exec.Operator out.
func Compile(p planner.Plan, ctx *Context) (Operator, error) {
	switch n := p.(type) {
	case *planner.ScanPlan:
		return compileScan(n, ctx)
	case *planner.JoinPlan:
		return compileJoin(n, ctx)
	case *planner.FilterPlan:
		child, err := Compile(n.Child, ctx)
		if err != nil {
			return nil, err
		}
		return NewFilter(child, n.Conds), nil
	case *planner.ProjectionPlan:
		child, err := Compile(n.Child, ctx)
		if err != nil {
			return nil, err
		}
		return NewProjection(child, n.Cols), nil
	case *planner.SortPlan:
		child, err := Compile(n.Child, ctx)
		if err != nil {
			return nil, err
		}
		return NewSort(child, n.Key, n.Direction), nil
	case *planner.DMLPlan:
		return compileDML(n, ctx)
	default:
		return nil, dberrors.NewInternalError("exec.Compile: unsupported plan node %T", p)
	}
}

func compileScan(n *planner.ScanPlan, ctx *Context) (Operator, error) {
	meta, table, err := ctx.resolveTable(n.Table)
	if err != nil {
		return nil, err
	}
	fh, err := ctx.Records.Open(table)
	if err != nil {
		return nil, asStorage(err)
	}
	if n.Mode == planner.SeqMode {
		return NewSeqScan(n.Table, meta, n.Conds, fh), nil
	}
	idx, err := ctx.Indexes.Open(table, n.IndexKey)
	if err != nil {
		return nil, asStorage(err)
	}
	return NewIndexScan(n.Table, meta, n.Conds, n.IndexKey, idx, fh), nil
}

func compileJoin(n *planner.JoinPlan, ctx *Context) (Operator, error) {
	left, err := Compile(n.Left, ctx)
	if err != nil {
		return nil, err
	}
	right, err := Compile(n.Right, ctx)
	if err != nil {
		return nil, err
	}
	switch n.Algo {
	case planner.NestedLoop:
		return NewNestedLoopJoin(left, right, n.Conds), nil
	case planner.SortMerge:
		return NewSortMergeJoin(left, right, n.Conds)
	default:
		return nil, dberrors.NewInternalError("exec.Compile: unrecognized join algorithm %d", n.Algo)
	}
}

func compileDML(n *planner.DMLPlan, ctx *Context) (Operator, error) {
	switch n.Kind {
	case planner.Insert:
		meta, table, err := ctx.resolveTable(n.Table)
		if err != nil {
			return nil, err
		}
		fh, err := ctx.Records.Open(table)
		if err != nil {
			return nil, asStorage(err)
		}
		return NewInsert(table, meta, n.Values, fh, ctx.Indexes)
	case planner.Delete:
		meta, table, err := ctx.resolveTable(n.Table)
		if err != nil {
			return nil, err
		}
		child, err := Compile(n.Child, ctx)
		if err != nil {
			return nil, err
		}
		fh, err := ctx.Records.Open(table)
		if err != nil {
			return nil, asStorage(err)
		}
		return NewDelete(table, meta, child, fh, ctx.Indexes)
	case planner.Update:
		meta, table, err := ctx.resolveTable(n.Table)
		if err != nil {
			return nil, err
		}
		child, err := Compile(n.Child, ctx)
		if err != nil {
			return nil, err
		}
		fh, err := ctx.Records.Open(table)
		if err != nil {
			return nil, asStorage(err)
		}
		return NewUpdate(table, meta, child, n.SetClauses, fh, ctx.Indexes)
	case planner.Select, planner.ExplainKind:
		return Compile(n.Child, ctx)
	default:
		return nil, dberrors.NewInternalError("exec.Compile: unrecognized DML kind %d", n.Kind)
	}
}
