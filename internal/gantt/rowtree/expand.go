package rowtree

// SetExpand expands or collapses a row. Descendants of a collapsed row are
// hidden and leave the visible id list; expanding restores every descendant
// not itself under another collapsed row. Returns false for unknown ids.
func (t *Tree) SetExpand(id string, expand bool) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	if n.Expand == expand {
		return true
	}
	n.Expand = expand
	if expand {
		t.removeCollapsed(id)
	} else {
		t.collapsed = append(t.collapsed, id)
	}
	t.recomputeVisibility()
	return true
}

// ExpandAll expands every collapsed row.
func (t *Tree) ExpandAll() {
	for _, id := range t.collapsed {
		if n, ok := t.nodes[id]; ok {
			n.Expand = true
		}
	}
	t.collapsed = t.collapsed[:0]
	t.recomputeVisibility()
}

// Collapsed returns the ids of collapsed rows in the order they were
// collapsed.
func (t *Tree) Collapsed() []string {
	out := make([]string, len(t.collapsed))
	copy(out, t.collapsed)
	return out
}

// AffectedChildren returns the descendants whose visibility follows the
// expand state of n: the whole subtree, minus the subtrees of descendants
// that are themselves collapsed.
func AffectedChildren(n *Node) []*Node {
	var out []*Node
	Walk(n.Children, func(c *Node) bool {
		out = append(out, c)
		return c.Expand
	})
	return out
}

func (t *Tree) removeCollapsed(id string) {
	for i, cid := range t.collapsed {
		if cid == id {
			t.collapsed = append(t.collapsed[:i], t.collapsed[i+1:]...)
			return
		}
	}
}
