package rowtree

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt/timeline"
)

var (
	// ErrMissingRowID is reported for rows the id accessor returns "" for.
	ErrMissingRowID = errors.New("row has no id")

	// ErrDuplicateRowID is reported for a row whose id was already seen.
	ErrDuplicateRowID = errors.New("duplicate row id")
)

// IDFunc extracts the stable id of a dataset row.
type IDFunc func(domain.Row) string

// DefaultID reads domain.Row.ID.
func DefaultID(r domain.Row) string { return r.ID }

// Tree is an arena of row nodes keyed by id with explicit parent links.
// It is rebuilt wholesale by Build; it is not safe for concurrent use.
type Tree struct {
	rowID     IDFunc
	nodes     map[string]*Node
	ids       []string // every row, pre-order (parent before children)
	visible   []string // ids not under a collapsed ancestor, pre-order
	roots     []*Node
	rows      []domain.Row // row data in ids order
	index     map[string]int
	collapsed []string // collapsed ids, in collapse order
}

// New creates an empty tree. A nil accessor uses DefaultID.
func New(rowID IDFunc) *Tree {
	if rowID == nil {
		rowID = DefaultID
	}
	return &Tree{rowID: rowID, nodes: make(map[string]*Node)}
}

// Build converts the nested dataset into nodes, reusing existing nodes by id.
// Rows without an id or with a duplicate id are skipped together with their
// subtree; the returned error joins one entry per skipped row while the rest
// of the tree is still built.
func (t *Tree) Build(rows []domain.Row) error {
	b := &builder{
		tree:  t,
		old:   t.nodes,
		nodes: make(map[string]*Node, len(t.nodes)),
	}
	roots := b.convert(rows, 0, "")

	t.nodes = b.nodes
	t.ids = b.ids
	t.rows = b.rows
	t.index = make(map[string]int, len(b.ids))
	for i, id := range b.ids {
		t.index[id] = i
	}
	t.roots = roots
	t.pruneCollapsed()
	t.recomputeVisibility()
	return errors.Join(b.errs...)
}

type builder struct {
	tree  *Tree
	old   map[string]*Node
	nodes map[string]*Node
	ids   []string
	rows  []domain.Row
	errs  []error
}

// convert walks rows depth-first. Children are converted before their parent
// node is finalized so aggregate spans are computed bottom-up.
func (b *builder) convert(rows []domain.Row, level int, parentID string) []*Node {
	out := make([]*Node, 0, len(rows))
	for _, row := range rows {
		id := b.tree.rowID(row)
		if id == "" {
			b.errs = append(b.errs, fmt.Errorf("row %q at level %d: %w", row.Title, level, ErrMissingRowID))
			continue
		}
		if _, seen := b.nodes[id]; seen {
			b.errs = append(b.errs, fmt.Errorf("row %s: %w", id, ErrDuplicateRowID))
			continue
		}

		n, ok := b.old[id]
		if !ok {
			n = newNode(id)
		}
		b.nodes[id] = n
		b.ids = append(b.ids, id)
		b.rows = append(b.rows, row)

		n.Children = b.convert(row.Children, level+1, id)
		n.Level = level
		n.ParentID = parentID
		n.HasChildren = len(row.Children) > 0
		n.IsEmpty = row.IsEmpty
		n.Data = row

		var s span
		if n.HasChildren {
			s = childSpan(n)
		} else {
			s = dataSpan(row)
		}
		n.setSpan(s.start, s.end)
		out = append(out, n)
	}
	return out
}

// pruneCollapsed forgets collapsed ids whose rows are gone.
func (t *Tree) pruneCollapsed() {
	kept := t.collapsed[:0]
	for _, id := range t.collapsed {
		if n, ok := t.nodes[id]; ok && !n.Expand {
			kept = append(kept, id)
		}
	}
	t.collapsed = kept
}

// recomputeVisibility derives Hide for every node from its ancestors'
// expand state and rebuilds the visible id list.
func (t *Tree) recomputeVisibility() {
	visible := make([]string, 0, len(t.ids))
	var walk func(nodes []*Node, hidden bool)
	walk = func(nodes []*Node, hidden bool) {
		for _, n := range nodes {
			n.Hide = hidden
			if !hidden {
				visible = append(visible, n.ID)
			}
			walk(n.Children, hidden || !n.Expand)
		}
	}
	walk(t.roots, false)
	t.visible = visible
}

// RefreshDates recomputes the aggregate span of every parent in the given
// subtrees, children first. Leaves keep their span.
func (t *Tree) RefreshDates(nodes []*Node) {
	for _, n := range nodes {
		if n == nil || !n.HasChildren {
			continue
		}
		t.RefreshDates(n.Children)
		s := childSpan(n)
		n.setSpan(s.start, s.end)
	}
}

// RefreshFromSegments recomputes a leaf row's span from its cached segments
// and then every ancestor on the way to its top-level row.
func (t *Tree) RefreshFromSegments(id string) {
	n, ok := t.nodes[id]
	if !ok || n.Segments == nil {
		return
	}
	s := segmentSpan(timeline.Flatten(n.Segments))
	n.setSpan(s.start, s.end)
	t.RefreshDates([]*Node{t.TopLevel(id)})
}

// FreshRows applies externally edited row data to existing leaf nodes and
// recomputes their spans and their ancestors'. Unknown rows are ignored.
// It returns the distinct top-level rows that were touched.
func (t *Tree) FreshRows(rows []domain.Row) []*Node {
	seen := make(map[string]bool)
	var tops []*Node
	for _, row := range rows {
		n, ok := t.nodes[t.rowID(row)]
		if !ok || n.HasChildren {
			continue
		}
		row.Children = n.Data.Children
		n.Data = row
		s := dataSpan(row)
		n.setSpan(s.start, s.end)
		t.replaceRowData(n.ID, row)
		if top := t.TopLevel(n.ID); top != nil && !seen[top.ID] {
			seen[top.ID] = true
			tops = append(tops, top)
		}
	}
	t.RefreshDates(tops)
	return tops
}

// SyncFromSegments writes a leaf row's cached segments back into its row
// data, keeping the row's timeline order, and returns the updated row.
// Later builds then aggregate the committed geometry instead of the
// dataset the gesture started from.
func (t *Tree) SyncFromSegments(id string) (domain.Row, bool) {
	n, ok := t.nodes[id]
	if !ok || n.HasChildren || n.Segments == nil {
		return domain.Row{}, false
	}
	live := make(map[string]*timeline.Node)
	for _, seg := range timeline.Flatten(n.Segments) {
		live[seg.ID] = seg
	}
	row := n.Data
	row.TimeLines = make([]domain.TimeLine, len(n.Data.TimeLines))
	for i, tl := range n.Data.TimeLines {
		if seg, ok := live[tl.ID]; ok {
			tl = seg.TimeLine()
		}
		row.TimeLines[i] = tl
	}
	t.SetData(id, row)
	return row, true
}

// SetData replaces the row data held for id without touching its span.
func (t *Tree) SetData(id string, row domain.Row) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	n.Data = row
	t.replaceRowData(id, row)
}

func (t *Tree) replaceRowData(id string, row domain.Row) {
	if i, ok := t.index[id]; ok {
		t.rows[i] = row
	}
}

// Index returns the dataset position of id.
func (t *Tree) Index(id string) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// TopLevel walks parent links from id up to its root-most ancestor.
func (t *Tree) TopLevel(id string) *Node {
	return topLevel(id, func(id string) (string, bool) {
		n, ok := t.nodes[id]
		if !ok {
			return "", false
		}
		return n.ParentID, true
	}, t.nodes)
}

func topLevel(id string, parentOf func(string) (string, bool), nodes map[string]*Node) *Node {
	cur := id
	for {
		parent, ok := parentOf(cur)
		if !ok {
			return nil
		}
		if parent == "" {
			return nodes[cur]
		}
		cur = parent
	}
}

// Get returns the node for id.
func (t *Tree) Get(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Nodes returns the id → node arena. Callers must not modify the map.
func (t *Tree) Nodes() map[string]*Node { return t.nodes }

// IDs returns every row id in dataset order.
func (t *Tree) IDs() []string { return t.ids }

// VisibleIDs returns the ids of rows not hidden by a collapsed ancestor.
func (t *Tree) VisibleIDs() []string { return t.visible }

// Roots returns the top-level nodes in dataset order.
func (t *Tree) Roots() []*Node { return t.roots }

// Rows returns the row data in dataset order.
func (t *Tree) Rows() []domain.Row { return t.rows }

// Len returns the number of rows in the tree.
func (t *Tree) Len() int { return len(t.ids) }
