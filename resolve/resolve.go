// Package resolve implements the catalog resolver (spec.md §4.1):
// ast.Statement + catalog.Catalog in, query.Query out, or a
// dberrors.SemanticError naming exactly what went wrong (a PlanError for
// an outer join).
package resolve

import (
	"github.com/sabledb/sabledb/ast"
	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/dberrors"
	"github.com/sabledb/sabledb/query"
	"github.com/sabledb/sabledb/types"
)

// scope is the per-statement table/alias bindings a resolver walk
// consults to turn ast.ColumnExpr into query.ColumnRef.
type scope struct {
	cat    *catalog.Catalog
	tables []query.TableRef
	// byName maps each TableRef's qualifying name (alias, or table name
	// when unaliased) to its resolved *catalog.TableMeta.
	byName map[string]*catalog.TableMeta
}

func newScope(cat *catalog.Catalog, refs []ast.TableRef) (*scope, error) {
	s := &scope{cat: cat, byName: make(map[string]*catalog.TableMeta)}
	for _, r := range refs {
		meta, ok := cat.GetTable(r.Table)
		if !ok {
			return nil, dberrors.NewSemanticError("unknown table %q", r.Table)
		}
		tr := query.TableRef{Table: r.Table, Alias: r.Alias}
		s.tables = append(s.tables, tr)
		s.byName[tr.Name()] = meta
	}
	return s, nil
}

// resolveColumn turns a (possibly unqualified) ast.ColumnExpr into a
// query.ColumnRef, enforcing spec.md §4.1's resolution rules.
func (s *scope) resolveColumn(c ast.ColumnExpr) (query.ColumnRef, error) {
	if c.Table != "" {
		meta, ok := s.byName[c.Table]
		if !ok {
			return query.ColumnRef{}, dberrors.NewSemanticError("unknown table qualifier %q", c.Table)
		}
		if meta.GetColumn(c.Column) == nil {
			return query.ColumnRef{}, dberrors.NewSemanticError("column %q does not exist on %q", c.Column, c.Table)
		}
		return query.ColumnRef{Table: c.Table, Column: c.Column}, nil
	}

	if len(s.tables) > 1 {
		return query.ColumnRef{}, dberrors.NewSemanticError(
			"column %q must be qualified in a multi-table query", c.Column)
	}

	var match *query.TableRef
	for i := range s.tables {
		name := s.tables[i].Name()
		if s.byName[name].GetColumn(c.Column) != nil {
			if match != nil {
				return query.ColumnRef{}, dberrors.NewSemanticError("column %q is ambiguous", c.Column)
			}
			match = &s.tables[i]
		}
	}
	if match == nil {
		return query.ColumnRef{}, dberrors.NewSemanticError("column %q does not exist", c.Column)
	}
	return query.ColumnRef{Table: match.Name(), Column: c.Column}, nil
}

func resolveLiteral(l ast.LiteralExpr, wantType types.TypeID, wantLen uint32) (types.Value, error) {
	switch l.Kind {
	case ast.IntLiteral:
		if wantType != 0 && wantType != types.Integer {
			return types.Value{}, dberrors.NewSemanticError("expected %s, got INT literal", wantType)
		}
		return types.NewInteger(l.Int), nil
	case ast.FloatLiteral:
		if wantType != 0 && wantType != types.Float {
			return types.Value{}, dberrors.NewSemanticError("expected %s, got FLOAT literal", wantType)
		}
		return types.NewFloat(l.Flt), nil
	case ast.StringLiteral:
		if wantType != 0 && wantType != types.Char {
			return types.Value{}, dberrors.NewSemanticError("expected %s, got CHAR literal", wantType)
		}
		return types.NewChar(l.Str, wantLen), nil
	case ast.BoolLiteral:
		if wantType != 0 && wantType != types.Boolean {
			return types.Value{}, dberrors.NewSemanticError("expected %s, got BOOLEAN literal", wantType)
		}
		return types.NewBoolean(l.Bool), nil
	default:
		return types.Value{}, dberrors.NewInternalError("unrecognized literal kind %d", l.Kind)
	}
}

func cmpOp(op ast.CmpOp) query.Op {
	switch op {
	case ast.Eq:
		return query.Eq
	case ast.Neq:
		return query.Neq
	case ast.Lt:
		return query.Lt
	case ast.Gt:
		return query.Gt
	case ast.Le:
		return query.Le
	case ast.Ge:
		return query.Ge
	default:
		return query.Eq
	}
}

// resolveCond resolves one WHERE/ON/JOIN-condition expression. The rhs
// may be a bare literal or another column reference.
func (s *scope) resolveCond(b *ast.BinaryExpr) (query.Condition, error) {
	lc, ok := b.LHS.(ast.ColumnExpr)
	if !ok {
		return query.Condition{}, dberrors.NewSemanticError("condition left-hand side must be a column")
	}
	lhs, err := s.resolveColumn(lc)
	if err != nil {
		return query.Condition{}, err
	}
	lhsMeta := s.byName[lhs.Table].GetColumn(lhs.Column)

	switch rhs := b.RHS.(type) {
	case ast.ColumnExpr:
		rc, err := s.resolveColumn(rhs)
		if err != nil {
			return query.Condition{}, err
		}
		return query.Condition{LHS: lhs, Op: cmpOp(b.Op), RHS: query.ColumnOperand(rc)}, nil
	case ast.LiteralExpr:
		v, err := resolveLiteral(rhs, lhsMeta.Type, lhsMeta.Length)
		if err != nil {
			return query.Condition{}, err
		}
		return query.Condition{LHS: lhs, Op: cmpOp(b.Op), RHS: query.ValueOperand(v)}, nil
	default:
		return query.Condition{}, dberrors.NewInternalError("unrecognized condition right-hand side")
	}
}

func (s *scope) resolveConds(bs []*ast.BinaryExpr) ([]query.Condition, error) {
	out := make([]query.Condition, 0, len(bs))
	for _, b := range bs {
		c, err := s.resolveCond(b)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ResolveSelect implements §4.1 for SELECT and the statement EXPLAIN
// wraps.
func ResolveSelect(stmt *ast.SelectStmt, cat *catalog.Catalog) (*query.Query, error) {
	refs := append([]ast.TableRef{}, stmt.From...)
	for _, j := range stmt.Joins {
		if j.Kind != ast.InnerJoin {
			return nil, dberrors.NewPlanError("outer joins are not supported")
		}
		refs = append(refs, j.Ref)
	}
	s, err := newScope(cat, refs)
	if err != nil {
		return nil, err
	}

	conds, err := s.resolveConds(stmt.Where)
	if err != nil {
		return nil, err
	}
	for _, j := range stmt.Joins {
		jc, err := s.resolveCond(j.On)
		if err != nil {
			return nil, err
		}
		conds = append(conds, jc)
	}

	q := &query.Query{Kind: query.Select, Tables: s.tables, Conds: conds}

	if stmt.Star {
		q.Star = true
	} else {
		for _, c := range stmt.Projection {
			cr, err := s.resolveColumn(c)
			if err != nil {
				return nil, err
			}
			q.Projections = append(q.Projections, cr)
		}
	}

	if stmt.OrderBy != nil {
		cr, err := s.resolveColumn(*stmt.OrderBy)
		if err != nil {
			return nil, err
		}
		dir := query.Asc
		if stmt.OrderDir == ast.Desc {
			dir = query.Desc
		}
		q.Order = &query.OrderKey{Column: cr, Direction: dir}
	}

	return q, nil
}

// ResolveInsert implements §4.1 for INSERT, including the arity/type
// validation spec.md §4.1 requires.
func ResolveInsert(stmt *ast.InsertStmt, cat *catalog.Catalog) (*query.Query, error) {
	meta, ok := cat.GetTable(stmt.Table)
	if !ok {
		return nil, dberrors.NewSemanticError("unknown table %q", stmt.Table)
	}
	if len(stmt.Values) != len(meta.Columns) {
		return nil, dberrors.NewSemanticError(
			"INSERT into %q expects %d values, got %d", stmt.Table, len(meta.Columns), len(stmt.Values))
	}
	vals := make([]types.Value, len(stmt.Values))
	for i, lit := range stmt.Values {
		col := meta.Columns[i]
		v, err := resolveLiteral(lit, col.Type, col.Length)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	if !meta.CheckValueTypes(vals) {
		return nil, dberrors.NewSemanticError("INSERT into %q: value list does not match table schema", stmt.Table)
	}
	return &query.Query{
		Kind:   query.Insert,
		Tables: []query.TableRef{{Table: stmt.Table}},
		Values: vals,
	}, nil
}

// ResolveDelete implements §4.1 for DELETE.
func ResolveDelete(stmt *ast.DeleteStmt, cat *catalog.Catalog) (*query.Query, error) {
	s, err := newScope(cat, []ast.TableRef{{Table: stmt.Table}})
	if err != nil {
		return nil, err
	}
	conds, err := s.resolveConds(stmt.Where)
	if err != nil {
		return nil, err
	}
	return &query.Query{Kind: query.Delete, Tables: s.tables, Conds: conds}, nil
}

// ResolveUpdate implements §4.1 for UPDATE, rejecting a SET clause that
// names a nonexistent column.
func ResolveUpdate(stmt *ast.UpdateStmt, cat *catalog.Catalog) (*query.Query, error) {
	s, err := newScope(cat, []ast.TableRef{{Table: stmt.Table}})
	if err != nil {
		return nil, err
	}
	meta := s.byName[stmt.Table]

	conds, err := s.resolveConds(stmt.Where)
	if err != nil {
		return nil, err
	}

	sets := make([]query.SetClause, 0, len(stmt.Set))
	for _, sc := range stmt.Set {
		col := meta.GetColumn(sc.Column)
		if col == nil {
			return nil, dberrors.NewSemanticError("SET names nonexistent column %q", sc.Column)
		}
		v, err := resolveLiteral(sc.Value, col.Type, col.Length)
		if err != nil {
			return nil, err
		}
		sets = append(sets, query.SetClause{Column: sc.Column, Value: v})
	}

	return &query.Query{Kind: query.Update, Tables: s.tables, Conds: conds, SetClauses: sets}, nil
}

// ResolveExplain implements §4.1 for EXPLAIN, which wraps a SELECT
// (spec.md §4.3: "EXPLAIN wraps a normal SELECT plan").
func ResolveExplain(stmt *ast.ExplainStmt, cat *catalog.Catalog) (*query.Query, error) {
	q, err := ResolveSelect(stmt.Stmt, cat)
	if err != nil {
		return nil, err
	}
	q.Kind = query.Explain
	return q, nil
}
