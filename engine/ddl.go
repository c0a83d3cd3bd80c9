package engine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sabledb/sabledb/ast"
	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/dberrors"
	"github.com/sabledb/sabledb/exec"
	"github.com/sabledb/sabledb/planner"
	"github.com/sabledb/sabledb/types"
)

// execDDL plans and executes every no-subtree statement shape: DDL,
// SHOW/DESC. These consult the catalog (and, for CREATE/DROP, the
// storage managers) directly rather than flowing through
// resolve/rewrite/exec.Compile (spec.md §4.3: "DDL/SHOW/TXN statements
// go to the corresponding DDLPlan/OtherPlan wrappers with no subtree").
// DDL is serialized externally per spec.md §5 — the caller is expected
// to hold whatever session-level mutual exclusion it needs around a
// call to Execute; this module does not itself queue concurrent DDL.
func (s *Session) execDDL(stmt ast.Statement) (*Result, error) {
	p, err := planner.BuildOther(stmt)
	if err != nil {
		return nil, err
	}
	switch n := p.(type) {
	case *planner.DDLPlan:
		return s.execDDLPlan(n)
	case *planner.OtherPlan:
		return s.execOtherPlan(n)
	default:
		return nil, dberrors.NewInternalError("engine: unexpected plan %T from BuildOther", p)
	}
}

func (s *Session) execDDLPlan(n *planner.DDLPlan) (*Result, error) {
	switch n.Kind {
	case planner.CreateTable:
		return s.createTable(n)
	case planner.DropTable:
		if !s.eng.Catalog.DropTable(n.Table) {
			return nil, dberrors.NewSemanticError("table %q does not exist", n.Table)
		}
		if err := s.eng.Records.DropTable(n.Table); err != nil {
			return nil, dberrors.WrapStorageError(err)
		}
		return &Result{Message: "table dropped"}, nil
	case planner.CreateIndex:
		return s.createIndex(n)
	case planner.DropIndex:
		if !s.eng.Catalog.DropIndex(n.Table, n.KeyColumns) {
			return nil, dberrors.NewSemanticError("no index %v on table %q", n.KeyColumns, n.Table)
		}
		if err := s.eng.Indexes.DropIndex(n.Table, n.KeyColumns); err != nil {
			return nil, dberrors.WrapStorageError(err)
		}
		return &Result{Message: "index dropped"}, nil
	default:
		return nil, dberrors.NewInternalError("engine: unrecognized DDL kind %d", n.Kind)
	}
}

func (s *Session) createTable(n *planner.DDLPlan) (*Result, error) {
	if _, exists := s.eng.Catalog.GetTable(n.Table); exists {
		return nil, dberrors.NewSemanticError("table %q already exists", n.Table)
	}
	columns := make([]*catalog.ColumnMeta, len(n.Columns))
	var width uint32
	for i, c := range n.Columns {
		typeID, length, err := parseColumnType(c.Type, c.Length)
		if err != nil {
			return nil, err
		}
		columns[i] = catalog.NewColumnMeta(n.Table, c.Name, typeID, length, 0)
		width += length
	}
	if !s.eng.Catalog.CreateTable(n.Table, columns) {
		return nil, dberrors.NewSemanticError("table %q already exists", n.Table)
	}
	if err := s.eng.Records.CreateTable(n.Table, width); err != nil {
		return nil, dberrors.WrapStorageError(err)
	}
	return &Result{Message: "table created"}, nil
}

// parseColumnType maps a CREATE TABLE column type token to its TypeID
// and fixed byte length (spec.md §6 types: "INT (4 bytes), FLOAT (4
// bytes), CHAR(n) (fixed-width, space-padded)").
func parseColumnType(t string, declaredLen uint32) (types.TypeID, uint32, error) {
	switch strings.ToUpper(t) {
	case "INT":
		return types.Integer, types.Integer.Size(), nil
	case "FLOAT":
		return types.Float, types.Float.Size(), nil
	case "CHAR":
		if declaredLen == 0 {
			return types.Invalid, 0, dberrors.NewSemanticError("CHAR column requires a declared length")
		}
		return types.Char, declaredLen, nil
	case "BOOLEAN", "BOOL":
		return types.Boolean, types.Boolean.Size(), nil
	default:
		return types.Invalid, 0, dberrors.NewSemanticError("unrecognized column type %q", t)
	}
}

func (s *Session) createIndex(n *planner.DDLPlan) (*Result, error) {
	meta, ok := s.eng.Catalog.GetTable(n.Table)
	if !ok {
		return nil, dberrors.NewSemanticError("unknown table %q", n.Table)
	}
	if !s.eng.Catalog.CreateIndex(n.Table, n.KeyColumns) {
		return nil, dberrors.NewSemanticError("cannot create index %v on table %q", n.KeyColumns, n.Table)
	}
	if err := s.eng.Indexes.CreateIndex(n.Table, n.KeyColumns); err != nil {
		return nil, dberrors.WrapStorageError(err)
	}
	if err := s.backfillIndex(n.Table, meta, n.KeyColumns); err != nil {
		return nil, err
	}
	return &Result{Message: "index created"}, nil
}

// backfillIndex populates a freshly created index from every row
// already in the table, so CREATE INDEX is usable immediately rather
// than only covering rows inserted afterward.
func (s *Session) backfillIndex(table string, meta *catalog.TableMeta, keyCols []string) error {
	fh, err := s.eng.Records.Open(table)
	if err != nil {
		return dberrors.WrapStorageError(err)
	}
	idx, err := s.eng.Indexes.Open(table, keyCols)
	if err != nil {
		return dberrors.WrapStorageError(err)
	}
	it, err := fh.Scan()
	if err != nil {
		return dberrors.WrapStorageError(err)
	}
	schema := exec.SchemaOfTable(table, meta)
	for !it.IsEnd() {
		vals := schema.Decode(it.Record())
		key := make([]types.Value, len(keyCols))
		for i, c := range keyCols {
			key[i] = vals[meta.ColumnIndex(c)]
		}
		if err := idx.Insert(key, it.RowID()); err != nil {
			return dberrors.WrapStorageError(err)
		}
		it.Next()
	}
	return nil
}

func (s *Session) execOtherPlan(n *planner.OtherPlan) (*Result, error) {
	switch n.Kind {
	case planner.ShowTables:
		names := s.eng.Catalog.TableNames()
		sort.Strings(names)
		rows := make([][]string, len(names))
		for i, name := range names {
			rows[i] = []string{name}
		}
		return &Result{Columns: []string{"table"}, Text: rows}, nil
	case planner.ShowIndex:
		meta, ok := s.eng.Catalog.GetTable(n.Table)
		if !ok {
			return nil, dberrors.NewSemanticError("unknown table %q", n.Table)
		}
		descs := meta.Indexes()
		rows := make([][]string, 0, len(descs))
		for _, d := range descs {
			kind := "range"
			if !d.SupportsRange {
				kind = "hash"
			}
			rows = append(rows, []string{strings.Join(d.KeyColumns, ","), kind})
		}
		return &Result{Columns: []string{"key_columns", "kind"}, Text: rows}, nil
	case planner.Desc:
		meta, ok := s.eng.Catalog.GetTable(n.Table)
		if !ok {
			return nil, dberrors.NewSemanticError("unknown table %q", n.Table)
		}
		rows := make([][]string, len(meta.Columns))
		for i, c := range meta.Columns {
			rows[i] = []string{c.ColumnName, c.Type.String(), strconv.FormatUint(uint64(c.Length), 10)}
		}
		return &Result{Columns: []string{"name", "type", "length"}, Text: rows}, nil
	default:
		return nil, dberrors.NewInternalError("engine: unrecognized informational plan kind %d", n.Kind)
	}
}
