package rowtree

// Walk visits nodes depth-first in pre-order. Returning false from fn skips
// the children of the visited node.
func Walk(nodes []*Node, fn func(*Node) bool) {
	for _, n := range nodes {
		if fn(n) {
			Walk(n.Children, fn)
		}
	}
}

// Subtrees returns the given nodes and all of their descendants, pre-order.
func Subtrees(nodes []*Node) []*Node {
	var out []*Node
	Walk(nodes, func(n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}
