// Package rowtree maintains one node per dataset row: parent/child links,
// nesting level, collapse state and the aggregate date span of every row.
package rowtree

import (
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt/timeline"
)

// Node is the engine-side state of one row. Nodes are reused across Build
// calls while their id persists, so collapse state and cached segments
// survive dataset refreshes.
type Node struct {
	ID           string
	Level        int
	StartDate    *time.Time
	EndDate      *time.Time
	OldStartDate *time.Time
	OldEndDate   *time.Time
	HasChildren  bool
	Expand       bool
	Hide         bool
	ParentID     string
	Children     []*Node
	IsEmpty      bool
	Data         domain.Row

	// Segments is the sorted, merged segment list of the row. Nil means the
	// cache is invalid and the next windowing pass rebuilds it.
	Segments []*timeline.Node
}

func newNode(id string) *Node {
	return &Node{ID: id, Expand: true}
}

// setSpan records the previous span and installs the new one.
func (n *Node) setSpan(start, end *time.Time) {
	n.OldStartDate, n.OldEndDate = n.StartDate, n.EndDate
	n.StartDate, n.EndDate = start, end
}

// span is a running min/max accumulator over optional instants.
type span struct {
	start, end *time.Time
}

func (s *span) add(start, end time.Time) {
	if s.start == nil || start.Before(*s.start) {
		v := start
		s.start = &v
	}
	if s.end == nil || end.After(*s.end) {
		v := end
		s.end = &v
	}
}

func (s *span) addPtr(start, end *time.Time) {
	if start != nil {
		s.add(*start, *start)
	}
	if end != nil {
		s.add(*end, *end)
	}
}

// childSpan aggregates the dated content of a parent's children.
func childSpan(n *Node) span {
	var s span
	for _, c := range n.Children {
		s.addPtr(c.StartDate, c.EndDate)
	}
	return s
}

// dataSpan aggregates the raw timelines of a leaf row.
func dataSpan(row domain.Row) span {
	var s span
	for _, tl := range row.TimeLines {
		s.add(tl.Start, tl.End)
	}
	return s
}

// segmentSpan aggregates the live segments cached on a leaf row.
func segmentSpan(segments []*timeline.Node) span {
	var s span
	for _, seg := range segments {
		s.add(seg.Start, seg.End)
	}
	return s
}

// SegmentsFor builds the unmerged, start-sorted segment list for a row: a
// single synthetic aggregate for a parent row, otherwise one node per raw
// timeline. Raw timelines on a parent row are never rendered.
func SegmentsFor(n *Node) []*timeline.Node {
	if n.HasChildren {
		if p := timeline.NewParentNode(n.ID, n.StartDate, n.EndDate); p != nil {
			return []*timeline.Node{p}
		}
		return nil
	}
	nodes := make([]*timeline.Node, 0, len(n.Data.TimeLines))
	for _, tl := range n.Data.TimeLines {
		nodes = append(nodes, timeline.NewNode(tl))
	}
	timeline.Sort(nodes)
	return nodes
}
