// Package gantt is the windowed timeline engine behind a chart: it keeps the
// row tree, windows it against the scrolled viewport and runs the drag
// gestures, reporting committed edits through a Listener.
//
// An Engine is single-threaded. Every method must be called from the host's
// event loop; auto-scroll continues only while the host keeps calling Tick.
package gantt

import (
	"math"
	"slices"
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt/drag"
	"github.com/alexanderramin/ganttline/internal/gantt/rowtree"
	"github.com/alexanderramin/ganttline/internal/gantt/scale"
	"github.com/alexanderramin/ganttline/internal/gantt/viewport"
)

// Engine owns the state of one chart.
type Engine struct {
	opts Options
	tree *rowtree.Tree
	win  *viewport.Window

	rows    []domain.Row
	padding []domain.Row

	minDate *time.Time
	maxDate *time.Time

	slot    drag.Slot
	gesture drag.Gesture
	kind    string
	began   time.Time

	sel selection
}

// New creates an engine with no rows and an unmeasured viewport.
func New(opts Options) *Engine {
	opts = opts.withDefaults()
	tree := rowtree.New(opts.RowID)
	e := &Engine{
		opts: opts,
		tree: tree,
		win: viewport.New(tree, viewport.Config{
			RowHeight:   opts.RowHeight,
			RowBuffer:   opts.RowBuffer,
			BufferWidth: opts.BufferWidth,
		}),
	}
	e.applyScale()
	return e
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// SetRows replaces the dataset. Rows that keep their id keep their collapse
// state and segment cache; only subtrees that gained or lost rows are
// re-aggregated and re-windowed. Rows with a missing or duplicate id are
// skipped and reported in the returned error; everything else still loads.
func (e *Engine) SetRows(rows []domain.Row) error {
	e.rows = rows
	err := e.rebuild(false)
	e.syncPadding()
	return err
}

// Reload replaces the dataset and drops every segment cache, for hosts whose
// rows changed content under unchanged ids.
func (e *Engine) Reload(rows []domain.Row) error {
	e.rows = rows
	err := e.rebuild(true)
	e.syncPadding()
	return err
}

func (e *Engine) rebuild(all bool) error {
	data := e.rows
	if len(e.padding) > 0 {
		data = make([]domain.Row, 0, len(e.rows)+len(e.padding))
		data = append(append(data, e.rows...), e.padding...)
	}
	diff, err := e.tree.Rebuild(data)
	if err != nil {
		e.opts.Observer.ObserveRejected("build", "", err)
	}
	if all {
		e.win.Invalidate(e.tree.Roots())
	} else {
		e.win.Invalidate(diff.Touched())
	}
	full := e.updateBounds()
	e.clampScroll()
	e.refresh("rows", full || all)
	return err
}

// syncPadding keeps enough empty rows after the dataset to fill the
// viewport.
func (e *Engine) syncPadding() {
	if e.opts.EmptyRows == nil {
		return
	}
	_, h := e.win.Size()
	if h <= 0 {
		return
	}
	limit := int(math.Ceil(h / e.opts.RowHeight))
	want := max(0, limit-(len(e.tree.VisibleIDs())-len(e.padding)))
	if want == len(e.padding) {
		return
	}
	if want < len(e.padding) {
		e.padding = e.padding[:want]
	} else {
		extra := e.opts.EmptyRows(want - len(e.padding))
		for i := range extra {
			extra[i].IsEmpty = true
		}
		e.padding = append(e.padding, extra...)
	}
	_ = e.rebuild(false)
}

// extent returns the span of every dated, non-padding top-level row.
func (e *Engine) extent() (lo, hi *time.Time) {
	for _, n := range e.tree.Roots() {
		if n.IsEmpty {
			continue
		}
		if n.StartDate != nil && (lo == nil || n.StartDate.Before(*lo)) {
			lo = n.StartDate
		}
		if n.EndDate != nil && (hi == nil || n.EndDate.After(*hi)) {
			hi = n.EndDate
		}
	}
	return lo, hi
}

// updateBounds recomputes the chart's min/max dates from the row tree. It
// reports whether the origin moved, which invalidates every projection.
func (e *Engine) updateBounds() bool {
	lo, hi := e.extent()
	return e.setBounds(lo, hi)
}

func (e *Engine) setBounds(lo, hi *time.Time) bool {
	originMoved := false
	if !sameTime(e.minDate, lo) {
		e.minDate = copyTime(lo)
		originMoved = true
		if lo != nil {
			e.opts.Listener.OnMinDateChanged(*lo)
		}
	}
	if !sameTime(e.maxDate, hi) {
		e.maxDate = copyTime(hi)
		if hi != nil {
			e.opts.Listener.OnMaxDateChanged(*hi)
		}
	}
	if originMoved {
		e.applyScale()
	}
	return originMoved
}

func (e *Engine) applyScale() {
	var origin time.Time
	if e.minDate != nil {
		origin = scale.OriginFor(*e.minDate, e.opts.EdgeSpacing, e.opts.PerHourSpacing)
	}
	e.win.SetScale(scale.New(origin, e.opts.PerHourSpacing))
}

func (e *Engine) refresh(reason string, full bool) {
	started := time.Now()
	var ok bool
	if full {
		ok = e.win.RefreshAll()
	} else {
		ok = e.win.RefreshAfterScrollTop()
	}
	e.opts.Observer.ObserveWindow(WindowEvent{
		Reason:   reason,
		Full:     full,
		Skipped:  !ok,
		Rows:     len(e.win.Rows()),
		Duration: time.Since(started),
	})
}

// ScrollTo moves the viewport. Offsets are clamped to the chart. A pure
// vertical scroll only projects rows entering the window.
func (e *Engine) ScrollTo(left, top float64) {
	oldLeft, _ := e.win.Scroll()
	e.win.SetScroll(left, top)
	e.clampScroll()
	newLeft, _ := e.win.Scroll()
	e.refresh("scroll", newLeft != oldLeft)
}

func (e *Engine) clampScroll() {
	left, top := e.win.Scroll()
	w, h := e.win.Size()
	left = min(left, max(0, e.ChartWidth()-w))
	top = min(top, max(0, e.ContentHeight()-h))
	e.win.SetScroll(left, top)
}

// Resize records a new viewport size and re-windows. A zero size is kept
// but windowing is skipped until a usable size arrives.
func (e *Engine) Resize(width, height float64) {
	e.win.Resize(width, height)
	e.syncPadding()
	e.clampScroll()
	e.refresh("resize", true)
}

// ChartWidth is the pixel width of the whole chart, edge spacing included.
func (e *Engine) ChartWidth() float64 {
	if e.maxDate == nil {
		return 0
	}
	return e.win.Scale().X(*e.maxDate) + e.opts.EdgeSpacing
}

// ContentHeight is the pixel height of all visible rows.
func (e *Engine) ContentHeight() float64 {
	return float64(len(e.tree.VisibleIDs())) * e.opts.RowHeight
}

// FreshTimeLines drops the cached segments of the given subtrees and
// re-windows them.
func (e *Engine) FreshTimeLines(nodes []*rowtree.Node) {
	started := time.Now()
	ok := e.win.FreshTimeLines(nodes)
	e.opts.Observer.ObserveWindow(WindowEvent{
		Reason:   "fresh_timelines",
		Skipped:  !ok,
		Rows:     len(e.win.Rows()),
		Duration: time.Since(started),
	})
}

// FreshRowNodes applies externally edited row data: leaf spans and their
// ancestors are recomputed, segment caches rebuilt, and chart bounds
// updated.
func (e *Engine) FreshRowNodes(rows []domain.Row) {
	tops := e.tree.FreshRows(rows)
	if len(tops) == 0 {
		return
	}
	for _, row := range rows {
		if n, ok := e.tree.Get(e.opts.RowID(row)); ok && !n.HasChildren {
			e.storeRow(n.Data)
		}
	}
	e.win.Invalidate(tops)
	full := e.updateBounds()
	e.refresh("fresh_rows", full)
}

// storeRow writes an edited row back into the dataset the engine rebuilds
// from. Slices on the path to the row are copied so the host's rows are
// never mutated; ancestor nodes pick up the rewritten children.
func (e *Engine) storeRow(row domain.Row) {
	if rows, ok := e.replaceRow(e.rows, e.opts.RowID(row), row); ok {
		e.rows = rows
	}
}

func (e *Engine) replaceRow(rows []domain.Row, id string, row domain.Row) ([]domain.Row, bool) {
	for i := range rows {
		rid := e.opts.RowID(rows[i])
		if rid == id {
			out := slices.Clone(rows)
			row.Children = rows[i].Children
			out[i] = row
			e.tree.SetData(id, row)
			return out, true
		}
		children, ok := e.replaceRow(rows[i].Children, id, row)
		if !ok {
			continue
		}
		out := slices.Clone(rows)
		out[i].Children = children
		e.tree.SetData(rid, out[i])
		return out, true
	}
	return rows, false
}

// SetExpand expands or collapses a row and reports the collapsed set to the
// listener. Returns false for unknown ids.
func (e *Engine) SetExpand(id string, expand bool) bool {
	if !e.tree.SetExpand(id, expand) {
		return false
	}
	e.afterExpand()
	return true
}

// ExpandAll expands every collapsed row.
func (e *Engine) ExpandAll() {
	e.tree.ExpandAll()
	e.afterExpand()
}

func (e *Engine) afterExpand() {
	e.opts.Listener.OnExpandChange(e.tree.Collapsed())
	e.syncPadding()
	e.clampScroll()
	e.refresh("expand", false)
}

// DisplayRows returns the data of the rows currently inside the viewport,
// overscan excluded.
func (e *Engine) DisplayRows() []domain.Row {
	ids := e.tree.VisibleIDs()
	_, top := e.win.Scroll()
	_, h := e.win.Size()
	if h <= 0 || len(ids) == 0 {
		return nil
	}
	first := int(top / e.opts.RowHeight)
	last := int(math.Ceil((top+h)/e.opts.RowHeight)) - 1
	first = max(0, first)
	last = min(len(ids)-1, last)
	var out []domain.Row
	for i := first; i <= last; i++ {
		if n, ok := e.tree.Get(ids[i]); ok {
			out = append(out, n.Data)
		}
	}
	return out
}

// Tree exposes the row tree for read access.
func (e *Engine) Tree() *rowtree.Tree { return e.tree }

// RowNodeMap returns the id → row node arena.
func (e *Engine) RowNodeMap() map[string]*rowtree.Node { return e.tree.Nodes() }

// RowNodeIDs returns every row id in dataset order.
func (e *Engine) RowNodeIDs() []string { return e.tree.IDs() }

// VisibleRowIDs returns the ids of rows not hidden by a collapsed ancestor.
func (e *Engine) VisibleRowIDs() []string { return e.tree.VisibleIDs() }

// VisibleRows returns the rows inside the vertical window.
func (e *Engine) VisibleRows() []viewport.VisibleRow { return e.win.Rows() }

// VisibleTimeLines returns the projected segments of every windowed row.
func (e *Engine) VisibleTimeLines() map[string][]*viewport.VisibleTimeLine {
	return e.win.TimeLineMap()
}

// TimeLines returns the projected segments of one windowed row.
func (e *Engine) TimeLines(rowID string) []*viewport.VisibleTimeLine {
	return e.win.TimeLines(rowID)
}

// Scale returns the chart's horizontal scale.
func (e *Engine) Scale() scale.Scale { return e.win.Scale() }

// Scroll returns the scroll offsets.
func (e *Engine) Scroll() (left, top float64) { return e.win.Scroll() }

// Size returns the viewport size.
func (e *Engine) Size() (width, height float64) { return e.win.Size() }

// MinDate returns the earliest date on the chart, or nil for an undated chart.
func (e *Engine) MinDate() *time.Time { return copyTime(e.minDate) }

// MaxDate returns the latest date on the chart, or nil for an undated chart.
func (e *Engine) MaxDate() *time.Time { return copyTime(e.maxDate) }

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
