// Package viewport computes the rows and segments that fall inside the
// scrolled chart window, caching projections between passes.
package viewport

import (
	"time"

	"github.com/alexanderramin/ganttline/internal/gantt/rowtree"
	"github.com/alexanderramin/ganttline/internal/gantt/scale"
	"github.com/alexanderramin/ganttline/internal/gantt/timeline"
)

// Type classifies how a projected segment is drawn.
type Type int

const (
	TypeNormal Type = iota
	TypeParent
	TypeSameDate
)

func (t Type) String() string {
	switch t {
	case TypeParent:
		return "parent"
	case TypeSameDate:
		return "same-date"
	default:
		return "normal"
	}
}

// VisibleRow is a row inside the vertical window.
type VisibleRow struct {
	ID         string
	Node       *rowtree.Node
	TranslateY float64
}

// VisibleTimeLine is the per-frame projection of one display segment.
// During a drag the gesture owns and updates the projection of the dragged
// segment in place.
type VisibleTimeLine struct {
	ID             string
	Start          time.Time
	End            time.Time
	TranslateX     float64
	Width          float64
	Type           Type
	Points         []*timeline.PointNode
	Node           *timeline.Node
	Color          string
	Icon           string
	Label          string
	DisableMove    bool
	DisableStretch bool
	Moving         bool
}

// Project builds the projection of seg under sc. Points inside the segment's
// span (inclusive) get their offset from the segment start.
func Project(seg *timeline.Node, sc scale.Scale) *VisibleTimeLine {
	vt := &VisibleTimeLine{
		ID:             seg.ID,
		Node:           seg,
		Color:          seg.Color,
		Icon:           seg.Icon,
		Label:          seg.Label,
		DisableMove:    seg.DisableMove,
		DisableStretch: seg.DisableStretch,
	}
	vt.Reproject(sc)
	return vt
}

// Reproject recomputes type and geometry from the node's current dates.
func (vt *VisibleTimeLine) Reproject(sc scale.Scale) {
	seg := vt.Node
	switch {
	case seg.HasChildren:
		vt.Type = TypeParent
	case seg.IsSameDate:
		vt.Type = TypeSameDate
	default:
		vt.Type = TypeNormal
	}
	vt.Start, vt.End = seg.Start, seg.End
	vt.TranslateX = sc.X(seg.Start)
	if seg.IsSameDate {
		vt.Width = 0
	} else {
		vt.Width = sc.Width(seg.Start, seg.End)
	}

	vt.Points = vt.Points[:0]
	for _, p := range seg.Points {
		if p.Date.Before(seg.Start) || p.Date.After(seg.End) {
			continue
		}
		p.TranslateX = sc.Width(seg.Start, p.Date)
		vt.Points = append(vt.Points, p)
	}
}

// Right returns the pixel offset of the segment's trailing edge.
func (vt *VisibleTimeLine) Right() float64 {
	return vt.TranslateX + vt.Width
}

// Point returns the projected point with the given id.
func (vt *VisibleTimeLine) Point(id string) *timeline.PointNode {
	for _, p := range vt.Points {
		if p.ID == id {
			return p
		}
	}
	return nil
}
