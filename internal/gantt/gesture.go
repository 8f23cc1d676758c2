package gantt

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt/drag"
	"github.com/alexanderramin/ganttline/internal/gantt/scale"
	"github.com/alexanderramin/ganttline/internal/gantt/timeline"
	"github.com/alexanderramin/ganttline/internal/gantt/viewport"
)

var (
	ErrUnknownSegment = errors.New("segment is not in the window")
	ErrUnknownPoint   = errors.New("point is not on the segment")
)

// BeginMove starts moving segment segID of row rowID. The segment must be
// inside the window; segID may name any member of a merge group.
func (e *Engine) BeginMove(rowID, segID string, pointerX float64) error {
	vt, err := e.find(rowID, segID)
	if err != nil {
		return e.reject("move", rowID, err)
	}
	g, err := drag.StartMove(&e.slot, dragHost{e}, e.opts.dragConfig(), rowID, vt, pointerX, e.otherBounds(rowID, vt.Node))
	if err != nil {
		return e.reject("move", rowID, err)
	}
	e.begin("move", g, vt)
	return nil
}

// BeginStretch starts dragging one edge of a segment.
func (e *Engine) BeginStretch(rowID, segID string, side drag.Side, pointerX float64) error {
	op := "stretch_" + side.String()
	vt, err := e.find(rowID, segID)
	if err != nil {
		return e.reject(op, rowID, err)
	}
	g, err := drag.StartStretch(&e.slot, dragHost{e}, e.opts.dragConfig(), side, rowID, vt, pointerX, e.otherBounds(rowID, vt.Node))
	if err != nil {
		return e.reject(op, rowID, err)
	}
	e.begin(op, g, vt)
	return nil
}

// BeginPointDrag starts sliding a time point along its segment.
func (e *Engine) BeginPointDrag(rowID, segID, pointID string, pointerX float64) error {
	vt, err := e.find(rowID, segID)
	if err != nil {
		return e.reject("point", rowID, err)
	}
	p := vt.Point(pointID)
	if p == nil {
		return e.reject("point", rowID, fmt.Errorf("%s on %s: %w", pointID, segID, ErrUnknownPoint))
	}
	g, err := drag.StartPointDrag(&e.slot, dragHost{e}, rowID, vt, p, pointerX)
	if err != nil {
		return e.reject("point", rowID, err)
	}
	e.begin("point", g, nil)
	return nil
}

// Dragging reports whether a gesture is in progress.
func (e *Engine) Dragging() bool { return e.gesture != nil }

// Gesture returns the gesture in progress, or nil.
func (e *Engine) Gesture() drag.Gesture { return e.gesture }

// Drag feeds a pointer position, relative to the viewport's left edge, to
// the gesture in progress.
func (e *Engine) Drag(pointerX float64) error {
	if e.gesture == nil {
		return drag.ErrNotDragging
	}
	e.gesture.Update(pointerX)
	return nil
}

// Tick advances auto-scroll by one frame. Hosts call it from their frame
// timer for as long as it returns true.
func (e *Engine) Tick() bool {
	if e.gesture == nil {
		return false
	}
	return e.gesture.Tick()
}

// EndDrag commits the gesture in progress. A gesture with no net change
// ends silently.
func (e *Engine) EndDrag() error {
	g := e.gesture
	if g == nil {
		return drag.ErrNotDragging
	}
	e.finish(g, g.Commit())
	return nil
}

// CancelDrag abandons the gesture in progress, restoring the pre-gesture
// geometry. It is safe to call when idle.
func (e *Engine) CancelDrag() {
	g := e.gesture
	if g == nil {
		return
	}
	g.Cancel()
	e.finish(g, nil)
}

func (e *Engine) find(rowID, segID string) (*viewport.VisibleTimeLine, error) {
	vt := e.win.Find(rowID, segID)
	if vt == nil {
		return nil, fmt.Errorf("%s/%s: %w", rowID, segID, ErrUnknownSegment)
	}
	return vt, nil
}

func (e *Engine) reject(op, rowID string, err error) error {
	e.opts.Observer.ObserveRejected(op, rowID, err)
	return err
}

func (e *Engine) begin(kind string, g drag.Gesture, vt *viewport.VisibleTimeLine) {
	e.gesture, e.kind, e.began = g, kind, time.Now()
	if vt != nil {
		e.win.SetMoving(g.RowID(), vt)
	}
}

// finish re-integrates the dragged row: the row is re-sorted and re-merged,
// its span and its ancestors' are re-aggregated, the committed geometry is
// written back into the row data, and only then is the window refreshed and
// the change reported.
func (e *Engine) finish(g drag.Gesture, c *drag.Change) {
	rowID := g.RowID()
	e.gesture = nil
	e.win.ClearMoving()
	e.win.Drop(rowID)

	if c != nil {
		if n, ok := e.tree.Get(rowID); ok && n.Segments != nil && c.Kind != drag.KindPoint {
			n.Segments = timeline.SortAndMerge(n.Segments)
			e.tree.RefreshFromSegments(rowID)
		}
		if row, ok := e.tree.SyncFromSegments(rowID); ok {
			e.storeRow(row)
		}
	}
	// Ancestor projections were edited live; rebuild them from the tree.
	e.win.InvalidateAncestors(rowID)
	full := e.updateBounds()
	e.refresh("gesture", full)

	ev := GestureEvent{Kind: e.kind, RowID: rowID, Committed: c != nil, Duration: time.Since(e.began)}
	if c != nil {
		ev.IDs = c.IDs
	}
	e.opts.Observer.ObserveGesture(ev)
	if c != nil {
		e.emit(c)
	}
}

func (e *Engine) emit(c *drag.Change) {
	l := e.opts.Listener
	switch c.Kind {
	case drag.KindMove:
		l.OnTimeLineMoveChange(c.RowID, c.IDs, c.Moved)
	case drag.KindStretch:
		l.OnTimeLineStretchChange(c.RowID, c.IDs, c.Start, c.End)
	case drag.KindPoint:
		l.OnTimePointMoveFinished(c.Point.Data, c.Date)
	}
}

// otherBounds is the extent of every dated leaf except the segments behind
// dragged.
func (e *Engine) otherBounds(rowID string, dragged *timeline.Node) drag.Bounds {
	skip := make(map[*timeline.Node]bool)
	for _, r := range dragged.Raw() {
		skip[r] = true
	}
	var b drag.Bounds
	add := func(start, end time.Time) {
		if b.Min == nil || start.Before(*b.Min) {
			v := start
			b.Min = &v
		}
		if b.Max == nil || end.After(*b.Max) {
			v := end
			b.Max = &v
		}
	}
	for _, n := range e.tree.Nodes() {
		if n.HasChildren || n.IsEmpty {
			continue
		}
		if n.ID == rowID && n.Segments != nil {
			for _, seg := range timeline.Flatten(n.Segments) {
				if !skip[seg] {
					add(seg.Start, seg.End)
				}
			}
			continue
		}
		if n.StartDate != nil && n.EndDate != nil {
			add(*n.StartDate, *n.EndDate)
		}
	}
	return b
}

// PointsAt resolves the batch of points stacked under a click on a point
// marker. offsetX is the click position relative to the marker's left edge.
func (e *Engine) PointsAt(rowID, segID, pointID string, offsetX float64) []domain.TimePoint {
	vt := e.win.Find(rowID, segID)
	if vt == nil {
		return nil
	}
	near := timeline.PointsNear(vt.Node.Points, vt.Point(pointID), offsetX, e.opts.PointSize, e.opts.PerHourSpacing)
	out := make([]domain.TimePoint, 0, len(near))
	for _, p := range near {
		out = append(out, p.Data)
	}
	return out
}

// dragHost exposes the engine to gestures without widening its public API.
type dragHost struct{ e *Engine }

func (h dragHost) Scale() scale.Scale { return h.e.win.Scale() }

func (h dragHost) Viewport() (float64, float64) {
	left, _ := h.e.win.Scroll()
	w, _ := h.e.win.Size()
	return left, w
}

func (h dragHost) ScrollBy(dx float64) {
	left, top := h.e.win.Scroll()
	h.e.ScrollTo(left+dx, top)
}

func (h dragHost) FitBounds(lo, hi time.Time) {
	if h.e.setBounds(&lo, &hi) {
		h.e.refresh("fit", true)
	}
}

func (h dragHost) Live(rowID string) { h.e.win.UpdateParentTimeLine(rowID) }
