package rowtree

import "github.com/alexanderramin/ganttline/internal/domain"

// Diff reports which top-level subtrees a dataset change touched.
type Diff struct {
	// Added holds the top-level ancestors, in the new tree, of inserted rows.
	Added []*Node
	// Removed holds the old-tree top-level ancestors of deleted rows.
	Removed []*Node
	// Surviving holds the new-tree nodes of Removed entries that still exist.
	Surviving []*Node
}

// Touched returns the new-tree roots whose dates and segments need a refresh.
func (d Diff) Touched() []*Node {
	seen := make(map[string]bool)
	var out []*Node
	for _, n := range append(append([]*Node(nil), d.Added...), d.Surviving...) {
		if n != nil && !seen[n.ID] {
			seen[n.ID] = true
			out = append(out, n)
		}
	}
	return out
}

// Rebuild builds the tree from newRows and diffs it against the previous
// dataset. Inserted and deleted ids are found by membership, without
// descending into an already-inserted or already-deleted subtree, and are
// walked up to their top-level ancestor so callers only refresh the smallest
// affected subtrees. Dates of the touched subtrees are refreshed.
func (t *Tree) Rebuild(newRows []domain.Row) (Diff, error) {
	oldRows := t.rows
	oldNodes := t.nodes
	oldParent := make(map[string]string, len(oldNodes))
	for id, n := range oldNodes {
		oldParent[id] = n.ParentID
	}

	var addedIDs []string
	walkRows(newRows, func(r domain.Row) bool {
		id := t.rowID(r)
		if _, ok := oldNodes[id]; !ok {
			addedIDs = append(addedIDs, id)
			return false
		}
		return true
	})

	err := t.Build(newRows)

	// oldRows is flat pre-order, so a removed parent is always seen before
	// its descendants.
	var removedIDs []string
	removedSeen := make(map[string]bool)
	for _, r := range oldRows {
		id := t.rowID(r)
		if _, ok := t.nodes[id]; ok || removedSeen[id] {
			continue
		}
		if p := oldParent[id]; p != "" && removedSeen[p] {
			removedSeen[id] = true
			continue
		}
		removedSeen[id] = true
		removedIDs = append(removedIDs, id)
	}

	var d Diff
	for _, id := range addedIDs {
		if top := t.TopLevel(id); top != nil {
			d.Added = appendUnique(d.Added, top)
		}
	}
	oldParentOf := func(id string) (string, bool) {
		p, ok := oldParent[id]
		return p, ok
	}
	for _, id := range removedIDs {
		oldTop := topLevel(id, oldParentOf, oldNodes)
		if oldTop == nil {
			continue
		}
		d.Removed = appendUnique(d.Removed, oldTop)
		if survivor, ok := t.nodes[oldTop.ID]; ok {
			d.Surviving = appendUnique(d.Surviving, survivor)
		}
	}
	t.RefreshDates(d.Touched())
	return d, err
}

func walkRows(rows []domain.Row, fn func(domain.Row) bool) {
	for _, r := range rows {
		if fn(r) {
			walkRows(r.Children, fn)
		}
	}
}

func appendUnique(nodes []*Node, n *Node) []*Node {
	for _, existing := range nodes {
		if existing.ID == n.ID {
			return nodes
		}
	}
	return append(nodes, n)
}
