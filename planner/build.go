package planner

import (
	"sort"

	stack "github.com/golang-collections/collections/stack"

	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/config"
	"github.com/sabledb/sabledb/dberrors"
	"github.com/sabledb/sabledb/query"
)

// swapOp centralizes the operator-swap map spec.md §9 asks to be a
// single reversible-comparison function shared by join-tree
// construction and condition migration, instead of the two independent
// copies the teacher carries.
func swapOp(op query.Op) query.Op {
	switch op {
	case query.Eq:
		return query.Eq
	case query.Neq:
		return query.Neq
	case query.Lt:
		return query.Gt
	case query.Gt:
		return query.Lt
	case query.Le:
		return query.Ge
	case query.Ge:
		return query.Le
	default:
		return op
	}
}

// flip swaps a two-column condition's sides (and operator), used when a
// join-tree step needs LHS to name the left subtree's table and RHS the
// right subtree's.
func flip(c query.Condition) query.Condition {
	return query.Condition{
		LHS: c.RHS.Column,
		Op:  swapOp(c.Op),
		RHS: query.ColumnOperand(c.LHS),
	}
}

// Build implements §4.3 for SELECT/INSERT/DELETE/UPDATE/EXPLAIN: the
// resolved, rewritten query.Query in, a Plan tree out.
func Build(q *query.Query, cat *catalog.Catalog, cfg *config.PlannerConfig) (Plan, error) {
	switch q.Kind {
	case query.Insert:
		return &DMLPlan{Kind: Insert, Table: q.Tables[0].Table, Values: q.Values}, nil
	case query.Delete:
		child, err := buildSingleTableChild(q, cat, cfg)
		if err != nil {
			return nil, err
		}
		return &DMLPlan{Kind: Delete, Child: child, Table: q.Tables[0].Table, Conds: q.Conds}, nil
	case query.Update:
		child, err := buildSingleTableChild(q, cat, cfg)
		if err != nil {
			return nil, err
		}
		return &DMLPlan{Kind: Update, Child: child, Table: q.Tables[0].Table, Conds: q.Conds, SetClauses: q.SetClauses}, nil
	case query.Select, query.Explain:
		child, err := buildSelectTree(q, cat, cfg)
		if err != nil {
			return nil, err
		}
		kind := Select
		if q.Kind == query.Explain {
			kind = ExplainKind
		}
		return &DMLPlan{Kind: kind, Child: child}, nil
	default:
		return nil, dberrors.NewInternalError("planner.Build: unrecognized query kind %d", q.Kind)
	}
}

// buildSingleTableChild plans DELETE/UPDATE's subtree: an access path
// over the one named table, filtered by the WHERE predicates. No
// projection insertion — the DML operator reads the full record image
// to locate and mutate rows by row identifier.
func buildSingleTableChild(q *query.Query, cat *catalog.Catalog, cfg *config.PlannerConfig) (Plan, error) {
	table := q.Tables[0].Table
	meta, ok := cat.GetTable(table)
	if !ok {
		return nil, dberrors.NewSemanticError("unknown table %q", table)
	}
	scan := buildScan(table, meta, q.Conds)
	return finalize(scan), nil
}

// buildSelectTree implements Phase A, Phase B, algorithm choice,
// condition migration and projection/sort insertion for SELECT (and the
// statement EXPLAIN wraps).
func buildSelectTree(q *query.Query, cat *catalog.Catalog, cfg *config.PlannerConfig) (Plan, error) {
	nameToTable := make(map[string]string, len(q.Tables))
	for _, t := range q.Tables {
		nameToTable[t.Name()] = t.Table
	}

	// Phase A: partition conditions and pick each table's access path.
	scans := make(map[string]Plan, len(q.Tables))
	for _, t := range q.Tables {
		meta, ok := cat.GetTable(t.Table)
		if !ok {
			return nil, dberrors.NewSemanticError("unknown table %q", t.Table)
		}
		var single []query.Condition
		for _, c := range q.Conds {
			if c.SingleTable() && c.LHS.Table == t.Name() {
				single = append(single, c)
			}
		}
		scans[t.Name()] = buildScan(t.Name(), meta, single)
	}

	var joinConds []query.Condition
	for _, c := range q.Conds {
		if !c.SingleTable() {
			joinConds = append(joinConds, c)
		}
	}
	orderJoinCondsByTablePosition(joinConds, q.Tables)

	tree, err := buildJoinSkeleton(q.Tables, scans, joinConds, cfg)
	if err != nil {
		return nil, err
	}

	tree = finalize(tree)
	if !q.Star {
		tree = insertPerTableProjections(tree, cat, nameToTable, q.NeededColumns)
	}

	if q.Order != nil {
		tree = &SortPlan{Child: tree, Key: q.Order.Column, Direction: q.Order.Direction}
	}

	rootCols := q.Projections
	if q.Star {
		rootCols = OutputColumns(tree, cat, nameToTable)
	}
	return &ProjectionPlan{Child: tree, Cols: rootCols}, nil
}

// buildScan chooses Seq vs Index per §4.3 Phase A and attaches the
// table's full single-table predicate list to the resulting ScanPlan
// (condition migration, below, decides what survives on the scan node
// itself vs. moves into a wrapping FilterPlan).
func buildScan(name string, meta *catalog.TableMeta, conds []query.Condition) *ScanPlan {
	cols := make(map[string]struct{})
	for _, c := range conds {
		cols[c.LHS.Column] = struct{}{}
	}
	colList := make([]string, 0, len(cols))
	for c := range cols {
		colList = append(colList, c)
	}
	sort.Strings(colList)

	for _, col := range colList {
		for _, idx := range meta.IndexesCoveringColumn(col) {
			if len(idx.KeyColumns) == 1 {
				return &ScanPlan{Mode: IndexMode, Table: name, Conds: conds, IndexKey: idx.KeyColumns}
			}
		}
	}

	for _, idx := range meta.Indexes() {
		if sameColumnSet(idx.KeyColumns, colList) {
			return &ScanPlan{Mode: IndexMode, Table: name, Conds: conds, IndexKey: idx.KeyColumns}
		}
	}

	return &ScanPlan{Mode: SeqMode, Table: name, Conds: conds}
}

func sameColumnSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string{}, a...)
	bs := append([]string{}, b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// orderJoinCondsByTablePosition sorts conds so that "the first join
// condition" Phase B step 1 picks is the one connecting the two tables
// earliest in the (possibly greedily reordered) table list, and every
// later condition is visited in that same table-position order. Without
// this, Phase B would build its skeleton off the WHERE clause's literal
// condition order and §4.2(c)'s reordering would never reach the plan
// shape it is meant to produce (spec.md §8 scenario 4: "a left-deep tree
// with small ⋈ med at the root of the leftmost join").
func orderJoinCondsByTablePosition(conds []query.Condition, tables []query.TableRef) {
	pos := make(map[string]int, len(tables))
	for i, t := range tables {
		pos[t.Name()] = i
	}
	rank := func(c query.Condition) (int, int) {
		a, b := pos[c.LHS.Table], pos[c.RHS.Column.Table]
		if a > b {
			a, b = b, a
		}
		return a, b
	}
	sort.SliceStable(conds, func(i, j int) bool {
		ai, aj := rank(conds[i])
		bi, bj := rank(conds[j])
		if ai != bi {
			return ai < bi
		}
		return aj < bj
	})
}

// buildJoinSkeleton implements Phase B: consume the (reordered) table
// list and the join-condition list, building a strictly left-deep tree.
func buildJoinSkeleton(tables []query.TableRef, scans map[string]Plan, joinConds []query.Condition, cfg *config.PlannerConfig) (Plan, error) {
	if len(tables) == 1 {
		return scans[tables[0].Name()], nil
	}

	available := make(map[string]Plan, len(scans))
	for k, v := range scans {
		available[k] = v
	}
	inTree := make(map[string]bool, len(tables))

	var tree Plan

	attachCross := func(name string) {
		right := available[name]
		delete(available, name)
		if tree == nil {
			tree = right
		} else {
			tree = &JoinPlan{Algo: NestedLoop, Left: tree, Right: right, Conds: nil}
		}
		inTree[name] = true
	}

	for _, cond := range joinConds {
		a, b := cond.LHS.Table, cond.RHS.Column.Table
		aIn, bIn := inTree[a], inTree[b]

		switch {
		case !aIn && !bIn:
			// Neither side seen yet: seed (or extend) the tree with a's
			// scan via cross product, then attach b's scan with this
			// condition — this keeps every JoinPlan's right child a bare
			// scan (the left-deep invariant) even when this join
			// condition connects a fresh pair onto an existing tree.
			if tree == nil {
				left := available[a]
				delete(available, a)
				inTree[a] = true
				right := available[b]
				delete(available, b)
				inTree[b] = true
				algo, err := chooseAlgo(cfg, hasEquality([]query.Condition{cond}))
				if err != nil {
					return nil, err
				}
				tree = &JoinPlan{Algo: algo, Left: left, Right: right, Conds: []query.Condition{cond}}
				continue
			}
			attachCross(a)
			right := available[b]
			delete(available, b)
			inTree[b] = true
			c := cond
			if c.LHS.Table != a {
				c = flip(c)
			}
			algo, err := chooseAlgo(cfg, hasEquality([]query.Condition{c}))
			if err != nil {
				return nil, err
			}
			tree = &JoinPlan{Algo: algo, Left: tree, Right: right, Conds: []query.Condition{c}}

		case aIn != bIn:
			// Exactly one side already in the tree: attach the other
			// scan on top, rewriting the condition with the operator
			// swap map when the new table ends up as the join's LHS.
			newTable := a
			if aIn {
				newTable = b
			}
			right := available[newTable]
			delete(available, newTable)
			inTree[newTable] = true
			c := cond
			if c.LHS.Table == newTable {
				c = flip(c)
			}
			algo, err := chooseAlgo(cfg, hasEquality([]query.Condition{c}))
			if err != nil {
				return nil, err
			}
			tree = &JoinPlan{Algo: algo, Left: tree, Right: right, Conds: []query.Condition{c}}

		default:
			// Both tables already in the tree: push the condition down
			// to the deepest join whose two subtrees split the two
			// tables (spec's resolved Open Question), rather than
			// mirroring the source's shallower, right-child-only probe.
			target := deepestSplit(tree, a, b)
			if target == nil {
				return nil, dberrors.NewInternalError("condition migration: no join splits %q/%q", a, b)
			}
			c := cond
			if !tablesOf(target.Left)[c.LHS.Table] {
				c = flip(c)
			}
			target.Conds = append(target.Conds, c)
		}
	}

	// Step 3: any tables untouched by a join condition attach by cross
	// product, in table-list order (the FROM order, or the greedy
	// reordering's order when rewrite has reordered the tables).
	for _, t := range tables {
		if !inTree[t.Name()] {
			attachCross(t.Name())
		}
	}

	return tree, nil
}

// chooseAlgo implements §4.3's algorithm-choice rule. NestedLoop is
// preferred whenever it is available at all (it handles every
// condition shape); SortMerge is used only when NestedLoop is disabled,
// SortMerge itself is enabled, and the join has an equi-condition to
// merge on. Neither available is a PlanError.
func chooseAlgo(cfg *config.PlannerConfig, hasEq bool) (Algo, error) {
	if cfg.EnableNestLoop() {
		return NestedLoop, nil
	}
	if cfg.EnableSortMerge() && hasEq {
		return SortMerge, nil
	}
	return 0, dberrors.NewPlanError("no usable join algorithm for this condition set (nestloop disabled, sortmerge requires an equi-condition)")
}

func hasEquality(conds []query.Condition) bool {
	for _, c := range conds {
		if c.Op == query.Eq {
			return true
		}
	}
	return false
}

// tablesOf returns the set of table names reachable from a plan
// subtree's leaves.
func tablesOf(p Plan) map[string]bool {
	out := make(map[string]bool)
	collectTables(p, out)
	return out
}

func collectTables(p Plan, out map[string]bool) {
	switch n := p.(type) {
	case *ScanPlan:
		out[n.Table] = true
	case *FilterPlan:
		collectTables(n.Child, out)
	case *ProjectionPlan:
		collectTables(n.Child, out)
	case *JoinPlan:
		collectTables(n.Left, out)
		collectTables(n.Right, out)
	}
}

// deepestSplit walks the skeleton with an explicit work stack (rather
// than recursion) looking for the JoinPlan whose Left/Right subtrees
// separately contain a and b; because Phase B only ever grows the tree
// left-deep, at most one level genuinely splits the pair, but the walk
// still runs root-to-leaf so a match found later in the traversal is
// always the deeper one.
func deepestSplit(root Plan, a, b string) *JoinPlan {
	st := stack.New()
	st.Push(root)
	var found *JoinPlan
	for st.Len() > 0 {
		v := st.Pop().(Plan)
		jp, ok := v.(*JoinPlan)
		if !ok {
			continue
		}
		lt := tablesOf(jp.Left)
		rt := tablesOf(jp.Right)
		if (lt[a] && rt[b]) || (lt[b] && rt[a]) {
			found = jp
		}
		st.Push(jp.Right)
		st.Push(jp.Left)
	}
	return found
}

// finalize is the single finalization pass spec.md §9 calls for:
// canonicalize every ScanPlan that still carries single-table
// predicates into Filter(ScanPlan'). An IndexMode scan keeps its
// predicates in place instead — the IndexScan operator consults them
// directly to derive its probe range and apply residual filtering
// (§4.4), so wrapping it in a Filter too would double-filter.
func finalize(p Plan) Plan {
	switch n := p.(type) {
	case *ScanPlan:
		if n.Mode == SeqMode && len(n.Conds) > 0 {
			bare := &ScanPlan{Mode: n.Mode, Table: n.Table}
			return &FilterPlan{Child: bare, Conds: n.Conds}
		}
		return n
	case *JoinPlan:
		n.Left = finalize(n.Left)
		n.Right = finalize(n.Right)
		return n
	case *FilterPlan:
		n.Child = finalize(n.Child)
		return n
	case *ProjectionPlan:
		n.Child = finalize(n.Child)
		return n
	default:
		return p
	}
}

// insertPerTableProjections implements §4.3's "Projection insertion"
// for each table scan: when needed is a strict subset of the table's
// full schema, wrap the scan (or its enclosing Filter) in a
// ProjectionPlan narrowing to just those columns, in the table's
// declared column order.
func insertPerTableProjections(p Plan, cat *catalog.Catalog, nameToTable map[string]string, needed map[string]map[string]struct{}) Plan {
	switch n := p.(type) {
	case *JoinPlan:
		n.Left = insertPerTableProjections(n.Left, cat, nameToTable, needed)
		n.Right = insertPerTableProjections(n.Right, cat, nameToTable, needed)
		return n
	case *FilterPlan:
		n.Child = wrapScanProjection(n.Child, cat, nameToTable, needed)
		return n
	case *ScanPlan:
		return wrapScanProjection(n, cat, nameToTable, needed)
	default:
		return p
	}
}

func wrapScanProjection(p Plan, cat *catalog.Catalog, nameToTable map[string]string, needed map[string]map[string]struct{}) Plan {
	scan, ok := p.(*ScanPlan)
	if !ok {
		return p
	}
	meta, ok := cat.GetTable(nameToTable[scan.Table])
	if !ok {
		return p
	}
	need, ok := needed[scan.Table]
	if !ok || len(need) >= len(meta.Columns) {
		return p
	}
	cols := make([]query.ColumnRef, 0, len(need))
	for _, c := range meta.Columns {
		if _, ok := need[c.ColumnName]; ok {
			cols = append(cols, query.ColumnRef{Table: scan.Table, Column: c.ColumnName})
		}
	}
	if len(cols) == len(meta.Columns) {
		return p
	}
	return &ProjectionPlan{Child: p, Cols: cols}
}

// OutputColumns computes a plan subtree's output schema — used to
// expand a symbolic STAR projection from the plan root (spec.md §9:
// "keep the star symbolic through planning; expand only in the final
// root projection using the plan root's schema").
func OutputColumns(p Plan, cat *catalog.Catalog, nameToTable map[string]string) []query.ColumnRef {
	switch n := p.(type) {
	case *ScanPlan:
		meta, ok := cat.GetTable(nameToTable[n.Table])
		if !ok {
			return nil
		}
		out := make([]query.ColumnRef, len(meta.Columns))
		for i, c := range meta.Columns {
			out[i] = query.ColumnRef{Table: n.Table, Column: c.ColumnName}
		}
		return out
	case *FilterPlan:
		return OutputColumns(n.Child, cat, nameToTable)
	case *ProjectionPlan:
		return n.Cols
	case *SortPlan:
		return OutputColumns(n.Child, cat, nameToTable)
	case *JoinPlan:
		return append(OutputColumns(n.Left, cat, nameToTable), OutputColumns(n.Right, cat, nameToTable)...)
	default:
		return nil
	}
}
