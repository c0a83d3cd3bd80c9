package rewrite

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	pair "github.com/notEpsilon/go-pair"

	"github.com/sabledb/sabledb/catalog"
	"github.com/sabledb/sabledb/query"
)

// reorderTables implements §4.2(c): greedy, cardinality-driven join
// reordering, applied only once the query touches three or more tables.
func reorderTables(q *query.Query, rc catalog.RowCounter) {
	card := make(map[string]int64, len(q.Tables))
	origPos := make(map[string]int, len(q.Tables))
	for i, t := range q.Tables {
		card[t.Name()] = catalog.Estimate(rc, t.Table)
		origPos[t.Name()] = i
	}

	// Join graph: one pair.Pair per join condition's two qualifying
	// names. Adjacency sets (used for the connectivity checks below) are
	// derived from this edge list rather than built inline, so the edge
	// list itself stays the single source of truth for "which tables
	// are joined to which."
	var edges []pair.Pair[string, string]
	for _, c := range q.Conds {
		if c.SingleTable() {
			continue
		}
		edges = append(edges, *pair.New(c.LHS.Table, c.RHS.Column.Table))
	}

	adj := make(map[string]mapset.Set[string])
	ensure := func(n string) mapset.Set[string] {
		s, ok := adj[n]
		if !ok {
			s = mapset.NewThreadUnsafeSet[string]()
			adj[n] = s
		}
		return s
	}
	for _, e := range edges {
		ensure(e.First).Add(e.Second)
		ensure(e.Second).Add(e.First)
	}

	byCardAsc := func(names []string) {
		sort.SliceStable(names, func(i, j int) bool {
			if card[names[i]] != card[names[j]] {
				return card[names[i]] < card[names[j]]
			}
			return origPos[names[i]] < origPos[names[j]]
		})
	}

	names := make([]string, len(q.Tables))
	for i, t := range q.Tables {
		names[i] = t.Name()
	}
	byCardAsc(names)

	if len(names) < 2 {
		return
	}
	chosenOrder := []string{names[0], names[1]}
	chosen := mapset.NewThreadUnsafeSet[string](chosenOrder...)
	remaining := append([]string{}, names[2:]...)

	hasEdgeToSet := func(t string) bool {
		s, ok := adj[t]
		return ok && s.Intersect(chosen).Cardinality() > 0
	}
	hasEdgeToOtherUnused := func(t string, unused []string) bool {
		s, ok := adj[t]
		if !ok {
			return false
		}
		for _, u := range unused {
			if u != t && s.Contains(u) {
				return true
			}
		}
		return false
	}

	for len(remaining) > 0 {
		byCardAsc(remaining)

		pick := -1
		for i, t := range remaining {
			if hasEdgeToSet(t) {
				pick = i
				break
			}
		}
		if pick == -1 {
			for i, t := range remaining {
				if hasEdgeToOtherUnused(t, remaining) {
					pick = i
					break
				}
			}
		}
		if pick == -1 {
			pick = 0
		}

		t := remaining[pick]
		chosenOrder = append(chosenOrder, t)
		chosen.Add(t)
		remaining = append(remaining[:pick], remaining[pick+1:]...)
	}

	byName := make(map[string]query.TableRef, len(q.Tables))
	for _, t := range q.Tables {
		byName[t.Name()] = t
	}
	reordered := make([]query.TableRef, len(chosenOrder))
	for i, n := range chosenOrder {
		reordered[i] = byName[n]
	}
	q.Tables = reordered
}
