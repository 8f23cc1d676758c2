package drag

import (
	"time"

	"github.com/alexanderramin/ganttline/internal/gantt/timeline"
	"github.com/alexanderramin/ganttline/internal/gantt/viewport"
)

// member is a real segment's span, and its point dates, as they were when
// the gesture began.
type member struct {
	node       *timeline.Node
	start, end time.Time
	points     []time.Time
}

func snapshot(n *timeline.Node) []member {
	raw := n.Raw()
	out := make([]member, 0, len(raw))
	for _, r := range raw {
		mb := member{node: r, start: r.Start, end: r.End}
		for _, p := range r.Points {
			mb.points = append(mb.points, p.Date)
		}
		out = append(out, mb)
	}
	return out
}

// shiftPoints places every member's points d after their starting dates, so
// markers keep their offset from the bar they ride on.
func shiftPoints(members []member, d time.Duration) {
	for _, mb := range members {
		for i, p := range mb.node.Points {
			p.Date = mb.points[i].Add(d)
		}
	}
}

// Move drags a whole segment (or merge group) along the time axis.
type Move struct {
	slot   *Slot
	host   Host
	cfg    Config
	rowID  string
	vt     *viewport.VisibleTimeLine
	bounds Bounds
	state  State

	lastX            float64
	offset           float64 // total pixel displacement, auto-scroll included
	oldStart, oldEnd time.Time
	members          []member
	scroll           autoScroll
}

// StartMove begins moving vt, a projection on row rowID. b is the extent of
// everything else on the chart, sampled once for the whole gesture.
func StartMove(slot *Slot, h Host, cfg Config, rowID string, vt *viewport.VisibleTimeLine, pointerX float64, b Bounds) (*Move, error) {
	cfg = cfg.withDefaults()
	if vt.Node.HasChildren {
		return nil, ErrAggregate
	}
	if cfg.DisableMove || vt.DisableMove {
		return nil, ErrMoveDisabled
	}
	m := &Move{
		slot:     slot,
		host:     h,
		cfg:      cfg,
		rowID:    rowID,
		vt:       vt,
		bounds:   b,
		lastX:    pointerX,
		oldStart: vt.Node.Start,
		oldEnd:   vt.Node.End,
		members:  snapshot(vt.Node),
	}
	if err := slot.acquire(m); err != nil {
		return nil, err
	}
	m.state = Dragging
	return m, nil
}

func (m *Move) RowID() string { return m.rowID }

func (m *Move) State() State { return m.state }

// TimeLine returns the live projection being dragged.
func (m *Move) TimeLine() *viewport.VisibleTimeLine { return m.vt }

// Update applies a pointer move. pointerX is relative to the viewport's
// left edge.
func (m *Move) Update(pointerX float64) {
	if m.state != Dragging {
		return
	}
	dx := pointerX - m.lastX
	if dx != 0 {
		m.apply(dx)
	}

	scrollLeft, width := m.host.Viewport()
	margin := m.cfg.EdgeMargin
	nearLeft := pointerX <= margin || m.vt.TranslateX-scrollLeft <= margin
	nearRight := pointerX >= width-margin || m.vt.Right()-scrollLeft >= width-margin
	m.scroll.observe(m.lastX, pointerX, dx, nearLeft, nearRight)
	m.lastX = pointerX
}

// Tick advances auto-scroll by one step. It reports whether auto-scroll is
// still running.
func (m *Move) Tick() bool {
	if m.state != Dragging || !m.scroll.active {
		return false
	}
	step := m.scroll.next(m.cfg.AutoScrollStep)
	m.host.ScrollBy(step)
	m.apply(step)
	return true
}

// apply shifts the live segment by dx pixels. Dates are derived from the
// total displacement so that moving back by the same distance restores them
// exactly.
func (m *Move) apply(dx float64) {
	m.offset += dx
	d := m.host.Scale().Duration(m.offset)
	m.vt.Node.SetDates(m.oldStart.Add(d), m.oldEnd.Add(d))
	shiftPoints(m.members, d)
	m.host.FitBounds(fit(m.bounds, m.vt.Node.Start, m.vt.Node.End))
	m.vt.Reproject(m.host.Scale())
	m.host.Live(m.rowID)
}

// Commit ends the gesture. When the start moved, every real segment behind
// the dragged display segment, and each of its points, is shifted by the
// same delta. Points already travelled with the bar; a gesture with no net
// change leaves them where they started.
func (m *Move) Commit() *Change {
	if m.state != Dragging {
		return nil
	}
	m.state = Committing
	defer m.finish()

	delta := m.vt.Node.Start.Sub(m.oldStart)
	if delta == 0 {
		shiftPoints(m.members, 0)
		return nil
	}
	c := &Change{Kind: KindMove, RowID: m.rowID}
	for _, mb := range m.members {
		n := mb.node
		n.SetDates(mb.start.Add(delta), mb.end.Add(delta))
		n.Data.Start, n.Data.End = n.Start, n.End
		moved := MovedTimeLine{ID: n.ID, Start: n.Start, End: n.End}
		for i, p := range n.Points {
			p.Date = mb.points[i].Add(delta)
			p.Data.At = p.Date
			moved.Points = append(moved.Points, MovedPoint{ID: p.ID, Date: p.Date})
		}
		c.IDs = append(c.IDs, n.ID)
		c.Moved = append(c.Moved, moved)
	}
	return c
}

// Cancel restores the pre-gesture geometry without emitting a change.
func (m *Move) Cancel() {
	if m.state != Dragging {
		return
	}
	m.vt.Node.SetDates(m.oldStart, m.oldEnd)
	shiftPoints(m.members, 0)
	m.host.FitBounds(fit(m.bounds, m.oldStart, m.oldEnd))
	m.vt.Reproject(m.host.Scale())
	m.host.Live(m.rowID)
	m.finish()
}

func (m *Move) finish() {
	m.scroll.stop()
	m.slot.release(m)
	m.state = Idle
}
