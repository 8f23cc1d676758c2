// Package timeline holds the per-row segment model: timeline nodes, their
// time points, and the sort/merge pass that collapses overlapping segments
// into display groups.
package timeline

import (
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
)

// ParentColor is the bar color of synthetic parent-aggregate and same-date
// segments.
const ParentColor = "#000"

// Node is one timeline segment of a row. A Node is either a raw segment
// backed by a domain.TimeLine, a synthetic aggregate standing in for a parent
// row's children, or a merge group (IsMerge) covering several raw segments.
type Node struct {
	ID             string
	Start          time.Time
	End            time.Time
	IsSameDate     bool
	IsMerge        bool
	Members        []*Node // raw segments of a merge group, flat
	HasChildren    bool    // synthetic parent-aggregate node
	Color          string
	Icon           string
	Label          string
	DisableMove    bool
	DisableStretch bool
	Points         []*PointNode
	Data           domain.TimeLine
}

// PointNode is a time point bound to a segment. TranslateX is the pixel
// offset from the owning segment's start and is recomputed on every
// projection.
type PointNode struct {
	ID         string
	Date       time.Time
	TranslateX float64
	Icon       string
	Data       domain.TimePoint
}

// NewNode builds a raw segment node from a timeline.
func NewNode(tl domain.TimeLine) *Node {
	n := &Node{
		ID:             tl.ID,
		Start:          tl.Start,
		End:            tl.End,
		IsSameDate:     tl.IsSameDate(),
		Color:          tl.Color,
		Icon:           tl.Icon,
		Label:          tl.Label,
		DisableMove:    tl.DisableMove,
		DisableStretch: tl.DisableStretch,
		Points:         BuildPoints(tl),
		Data:           tl,
	}
	if n.IsSameDate {
		n.Color = ParentColor
	}
	return n
}

// NewParentNode builds the synthetic node shown on a parent row, spanning
// its descendants. Returns nil when the row has no dated content.
func NewParentNode(rowID string, start, end *time.Time) *Node {
	if start == nil || end == nil {
		return nil
	}
	return &Node{
		ID:          rowID,
		Start:       *start,
		End:         *end,
		IsSameDate:  start.Equal(*end),
		HasChildren: true,
		Color:       ParentColor,
	}
}

// BuildPoints projects the raw points of a timeline into point nodes with a
// zero offset, pending the first windowing pass.
func BuildPoints(tl domain.TimeLine) []*PointNode {
	if len(tl.Points) == 0 {
		return nil
	}
	points := make([]*PointNode, 0, len(tl.Points))
	for _, p := range tl.Points {
		points = append(points, &PointNode{
			ID:   p.ID,
			Date: p.At,
			Icon: p.Icon,
			Data: p,
		})
	}
	return points
}

// TimeLine returns the node's backing timeline carrying the node's current
// span and point dates.
func (n *Node) TimeLine() domain.TimeLine {
	tl := n.Data
	tl.Start, tl.End = n.Start, n.End
	if len(n.Points) > 0 {
		tl.Points = make([]domain.TimePoint, 0, len(n.Points))
		for _, p := range n.Points {
			tp := p.Data
			tp.At = p.Date
			tl.Points = append(tl.Points, tp)
		}
	}
	return tl
}

// Raw returns the real segments a node represents: its members for a merge
// group, otherwise the node itself.
func (n *Node) Raw() []*Node {
	if n.IsMerge {
		return n.Members
	}
	return []*Node{n}
}

// IDs returns the ids of the real segments the node represents.
func (n *Node) IDs() []string {
	raw := n.Raw()
	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		ids = append(ids, r.ID)
	}
	return ids
}

// SetDates updates the node's span and same-date flag together.
func (n *Node) SetDates(start, end time.Time) {
	n.Start = start
	n.End = end
	n.IsSameDate = start.Equal(end)
}

// Shift moves the node and its points by d.
func (n *Node) Shift(d time.Duration) {
	n.SetDates(n.Start.Add(d), n.End.Add(d))
	for _, p := range n.Points {
		p.Date = p.Date.Add(d)
	}
}

// Flatten returns every real segment represented by nodes, in order.
func Flatten(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Raw()...)
	}
	return out
}
