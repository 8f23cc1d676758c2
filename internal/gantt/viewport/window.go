package viewport

import (
	"math"
	"time"

	"github.com/alexanderramin/ganttline/internal/gantt/rowtree"
	"github.com/alexanderramin/ganttline/internal/gantt/scale"
	"github.com/alexanderramin/ganttline/internal/gantt/timeline"
)

// DefaultBufferWidth is the horizontal overscan, in pixels, on each side of
// the viewport.
const DefaultBufferWidth = 200

// Config sizes the window.
type Config struct {
	RowHeight   float64
	RowBuffer   int
	BufferWidth float64
}

// Window owns the visible-row list and the per-row projection cache. It reads
// the row tree and writes only segment caches on its nodes.
type Window struct {
	cfg   Config
	tree  *rowtree.Tree
	scale scale.Scale

	scrollLeft, scrollTop float64
	width, height         float64

	rows      []VisibleRow
	timelines map[string][]*VisibleTimeLine

	movingRowID string
	moving      *VisibleTimeLine
}

// New creates a window over tree. Non-positive sizes fall back to usable
// defaults.
func New(tree *rowtree.Tree, cfg Config) *Window {
	if cfg.RowHeight <= 0 {
		cfg.RowHeight = 1
	}
	if cfg.RowBuffer < 0 {
		cfg.RowBuffer = 0
	}
	if cfg.BufferWidth <= 0 {
		cfg.BufferWidth = DefaultBufferWidth
	}
	return &Window{
		cfg:       cfg,
		tree:      tree,
		scale:     scale.New(time.Time{}, 1),
		timelines: make(map[string][]*VisibleTimeLine),
	}
}

// SetScale installs the horizontal scale. Callers re-window afterwards.
func (w *Window) SetScale(sc scale.Scale) { w.scale = sc }

// Scale returns the current horizontal scale.
func (w *Window) Scale() scale.Scale { return w.scale }

// SetScroll records the scroll offsets.
func (w *Window) SetScroll(left, top float64) {
	w.scrollLeft = math.Max(0, left)
	w.scrollTop = math.Max(0, top)
}

// Scroll returns the scroll offsets.
func (w *Window) Scroll() (left, top float64) { return w.scrollLeft, w.scrollTop }

// Resize records the viewport size in pixels.
func (w *Window) Resize(width, height float64) {
	w.width = math.Max(0, width)
	w.height = math.Max(0, height)
}

// Size returns the viewport size in pixels.
func (w *Window) Size() (width, height float64) { return w.width, w.height }

// Ready reports whether the viewport has been measured. Passes on an
// unmeasured viewport are skipped.
func (w *Window) Ready() bool { return w.width > 0 && w.height > 0 }

// RefreshAll recomputes the visible rows and every row's projection.
// It reports false when the pass was skipped.
func (w *Window) RefreshAll() bool {
	if !w.Ready() {
		return false
	}
	w.refreshRows()
	w.refreshTimeLines(true)
	return true
}

// RefreshAfterScrollTop recomputes the visible rows and projects only rows
// with no cached projection.
func (w *Window) RefreshAfterScrollTop() bool {
	if !w.Ready() {
		return false
	}
	w.refreshRows()
	w.refreshTimeLines(false)
	return true
}

// RowRange returns the clamped inclusive index range of visible ids inside
// the vertical window, or ok=false when no row is in range.
func (w *Window) RowRange() (start, end int, ok bool) {
	ids := w.tree.VisibleIDs()
	if len(ids) == 0 {
		return 0, 0, false
	}
	rowH := w.cfg.RowHeight
	buffer := rowH * float64(w.cfg.RowBuffer)
	start = int(math.Floor((w.scrollTop - buffer) / rowH))
	end = int(math.Ceil((w.scrollTop + w.height + buffer) / rowH))
	start = max(0, start)
	end = min(len(ids)-1, end)
	return start, end, start <= end
}

func (w *Window) refreshRows() {
	start, end, ok := w.RowRange()
	if !ok {
		w.rows = nil
		return
	}
	ids := w.tree.VisibleIDs()
	rows := make([]VisibleRow, 0, end-start+1)
	for i := start; i <= end; i++ {
		n, found := w.tree.Get(ids[i])
		if !found {
			continue
		}
		rows = append(rows, VisibleRow{
			ID:         n.ID,
			Node:       n,
			TranslateY: float64(i) * w.cfg.RowHeight,
		})
		if n.Segments == nil {
			n.Segments = timeline.Merge(rowtree.SegmentsFor(n))
		}
	}
	w.rows = rows
}

// DateRange returns the horizontal window in calendar time, overscan
// included. The left pixel bound never goes below the chart origin.
func (w *Window) DateRange() (d0, d1 time.Time) {
	left := math.Max(0, w.scrollLeft-w.cfg.BufferWidth)
	right := w.scrollLeft + w.width + w.cfg.BufferWidth
	return w.scale.DateAt(left), w.scale.DateAt(right)
}

func (w *Window) refreshTimeLines(all bool) {
	d0, d1 := w.DateRange()
	next := make(map[string][]*VisibleTimeLine, len(w.rows))
	for _, row := range w.rows {
		if !all {
			if cached, ok := w.timelines[row.ID]; ok {
				next[row.ID] = cached
				continue
			}
		}
		next[row.ID] = w.project(row.ID, row.Node.Segments, d0, d1)
	}
	w.timelines = next
}

func (w *Window) project(rowID string, segs []*timeline.Node, d0, d1 time.Time) []*VisibleTimeLine {
	lo, hi := InView(segs, d0, d1)
	hasMoving := w.moving != nil && w.movingRowID == rowID
	out := make([]*VisibleTimeLine, 0, hi-lo+1)
	for _, seg := range segs[lo:hi] {
		if hasMoving && seg.ID == w.moving.ID {
			continue
		}
		out = append(out, Project(seg, w.scale))
	}
	if hasMoving {
		out = append(out, w.moving)
	}
	return out
}

// SetMoving hands the projection of a dragged segment to the window: the
// segment is left out of normal projection for its row and vt is emitted in
// its place until ClearMoving.
func (w *Window) SetMoving(rowID string, vt *VisibleTimeLine) {
	w.movingRowID, w.moving = rowID, vt
	if vt != nil {
		vt.Moving = true
	}
}

// ClearMoving ends the substitution and drops the row's cached projection so
// the next pass projects the committed segments.
func (w *Window) ClearMoving() {
	if w.moving != nil {
		w.moving.Moving = false
		delete(w.timelines, w.movingRowID)
	}
	w.movingRowID, w.moving = "", nil
}

// Moving returns the dragged row and projection, if any.
func (w *Window) Moving() (string, *VisibleTimeLine) { return w.movingRowID, w.moving }

// Invalidate drops the segment cache and projection of every row in the
// given subtrees.
func (w *Window) Invalidate(nodes []*rowtree.Node) {
	rowtree.Walk(nodes, func(n *rowtree.Node) bool {
		n.Segments = nil
		delete(w.timelines, n.ID)
		return true
	})
}

// InvalidateAncestors drops the cached aggregate segment and projection of
// every ancestor of rowID.
func (w *Window) InvalidateAncestors(rowID string) {
	n, ok := w.tree.Get(rowID)
	for ok && n.ParentID != "" {
		n, ok = w.tree.Get(n.ParentID)
		if ok {
			n.Segments = nil
			delete(w.timelines, n.ID)
		}
	}
}

// Drop forgets the cached projection of one row.
func (w *Window) Drop(rowID string) { delete(w.timelines, rowID) }

// FreshTimeLines invalidates the given subtrees and re-windows, projecting
// only rows whose cache was dropped.
func (w *Window) FreshTimeLines(nodes []*rowtree.Node) bool {
	if len(nodes) == 0 {
		return false
	}
	w.Invalidate(nodes)
	return w.RefreshAfterScrollTop()
}

// UpdateParentTimeLine recomputes the aggregate segment of every ancestor of
// rowID from its children's live segments, updating visible projections in
// place. It is used while a drag is in flight, before dates are committed to
// the row tree.
func (w *Window) UpdateParentTimeLine(rowID string) {
	n, ok := w.tree.Get(rowID)
	if !ok {
		return
	}
	for n.ParentID != "" {
		parent, found := w.tree.Get(n.ParentID)
		if !found {
			return
		}
		if len(parent.Segments) == 1 && parent.Segments[0].HasChildren {
			agg := parent.Segments[0]
			if start, end, dated := liveChildSpan(parent); dated {
				agg.SetDates(start, end)
				for _, vt := range w.timelines[parent.ID] {
					if vt.Node == agg {
						vt.Reproject(w.scale)
					}
				}
			}
		}
		n = parent
	}
}

func liveChildSpan(parent *rowtree.Node) (start, end time.Time, ok bool) {
	add := func(s, e time.Time) {
		if !ok || s.Before(start) {
			start = s
		}
		if !ok || e.After(end) {
			end = e
		}
		ok = true
	}
	for _, c := range parent.Children {
		if c.Segments != nil {
			for _, seg := range c.Segments {
				add(seg.Start, seg.End)
			}
			continue
		}
		if c.StartDate != nil && c.EndDate != nil {
			add(*c.StartDate, *c.EndDate)
		}
	}
	return start, end, ok
}

// Rows returns the rows of the last pass.
func (w *Window) Rows() []VisibleRow { return w.rows }

// TimeLines returns the projected segments of a visible row.
func (w *Window) TimeLines(rowID string) []*VisibleTimeLine { return w.timelines[rowID] }

// TimeLineMap returns every projected row, keyed by row id.
func (w *Window) TimeLineMap() map[string][]*VisibleTimeLine { return w.timelines }

// Find returns the projection of segment segID on row rowID.
func (w *Window) Find(rowID, segID string) *VisibleTimeLine {
	for _, vt := range w.timelines[rowID] {
		if vt.ID == segID {
			return vt
		}
		if vt.Node != nil && vt.Node.IsMerge {
			for _, m := range vt.Node.Members {
				if m.ID == segID {
					return vt
				}
			}
		}
	}
	return nil
}
