package timeline

import (
	"slices"
	"sort"
)

// Sort orders nodes ascending by start. Equal starts keep their input order.
func Sort(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Start.Before(nodes[j].Start)
	})
}

// Merge collapses overlapping segments of a start-sorted list into display
// groups. A segment whose start is not after the running group's end
// (touching counts) is absorbed and the group's end becomes the later of the
// two. Group membership is flat: absorbing an existing group takes over its
// members. Input raw nodes are never modified.
func Merge(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	owned := false // out's last element is a group built by this call
	for _, n := range nodes {
		if len(out) == 0 || n.Start.After(out[len(out)-1].End) {
			out = append(out, n)
			owned = false
			continue
		}
		last := out[len(out)-1]
		if !owned {
			last = newGroup(last)
			owned = true
		}
		out[len(out)-1] = absorb(last, n)
	}
	return out
}

// SortAndMerge sorts the real segments behind nodes and merges them again.
// Use it after a gesture changed dates, since a move can both create and
// break groups.
func SortAndMerge(nodes []*Node) []*Node {
	raw := Flatten(nodes)
	Sort(raw)
	return Merge(raw)
}

func absorb(group, n *Node) *Node {
	if n.End.After(group.End) {
		group.End = n.End
	}
	group.Members = append(group.Members, n.Raw()...)
	group.IsSameDate = group.Start.Equal(group.End)
	group.DisableMove = group.DisableMove || n.DisableMove
	group.DisableStretch = group.DisableStretch || n.DisableStretch
	group.Points = append(group.Points, n.Points...)
	slices.SortStableFunc(group.Points, func(a, b *PointNode) int {
		return a.Date.Compare(b.Date)
	})
	return group
}

// newGroup starts a merge group from head. An existing group is copied so
// the caller's nodes stay untouched.
func newGroup(head *Node) *Node {
	g := &Node{
		ID:             head.ID,
		Start:          head.Start,
		End:            head.End,
		IsMerge:        true,
		Members:        append([]*Node(nil), head.Raw()...),
		Color:          head.Color,
		Icon:           head.Icon,
		Label:          head.Label,
		DisableMove:    head.DisableMove,
		DisableStretch: head.DisableStretch,
		Data:           head.Data,
	}
	g.Points = append(g.Points, head.Points...)
	return g
}
