package drag

import (
	"time"

	"github.com/alexanderramin/ganttline/internal/gantt/scale"
	"github.com/alexanderramin/ganttline/internal/gantt/viewport"
)

// Stretch drags one edge of a segment while the other stays put.
type Stretch struct {
	slot   *Slot
	host   Host
	cfg    Config
	side   Side
	rowID  string
	vt     *viewport.VisibleTimeLine
	bounds Bounds
	state  State

	lastX            float64
	oldStart, oldEnd time.Time
	members          []member
	scroll           autoScroll

	// pending is pointer travel, in shrink direction, absorbed while the
	// segment sat at minimum width. Reverse travel pays it off before the
	// edge moves again, keeping the handle under the pointer.
	pending float64
}

// StartStretch begins dragging the given edge of vt.
func StartStretch(slot *Slot, h Host, cfg Config, side Side, rowID string, vt *viewport.VisibleTimeLine, pointerX float64, b Bounds) (*Stretch, error) {
	cfg = cfg.withDefaults()
	if vt.Node.HasChildren {
		return nil, ErrAggregate
	}
	if cfg.DisableStretch || vt.DisableStretch {
		return nil, ErrStretchDisabled
	}
	s := &Stretch{
		slot:     slot,
		host:     h,
		cfg:      cfg,
		side:     side,
		rowID:    rowID,
		vt:       vt,
		bounds:   b,
		lastX:    pointerX,
		oldStart: vt.Node.Start,
		oldEnd:   vt.Node.End,
		members:  snapshot(vt.Node),
	}
	if err := slot.acquire(s); err != nil {
		return nil, err
	}
	s.state = Dragging
	return s, nil
}

func (s *Stretch) RowID() string { return s.rowID }

func (s *Stretch) State() State { return s.state }

func (s *Stretch) Side() Side { return s.side }

// TimeLine returns the live projection being stretched.
func (s *Stretch) TimeLine() *viewport.VisibleTimeLine { return s.vt }

// Update applies a pointer move. pointerX is relative to the viewport's
// left edge.
func (s *Stretch) Update(pointerX float64) {
	if s.state != Dragging {
		return
	}
	dx := pointerX - s.lastX
	if dx != 0 {
		s.apply(dx)
	}

	scrollLeft, width := s.host.Viewport()
	edge := s.vt.TranslateX
	if s.side == Right {
		edge = s.vt.Right()
	}
	rel := edge - scrollLeft
	margin := s.cfg.EdgeMargin
	s.scroll.observe(s.lastX, pointerX, dx, rel <= margin, rel >= width-margin)
	s.lastX = pointerX
}

// Tick advances auto-scroll by one step. Scrolling stops once the segment
// bottoms out at minimum width.
func (s *Stretch) Tick() bool {
	if s.state != Dragging || !s.scroll.active {
		return false
	}
	step := s.scroll.next(s.cfg.AutoScrollStep)
	s.host.ScrollBy(step)
	s.apply(step)
	if s.pending > 0 {
		s.scroll.stop()
	}
	return true
}

// apply routes a pointer delta through the pending-excess bookkeeping.
// Deltas are normalized so that positive means shrinking for either side.
func (s *Stretch) apply(dx float64) {
	shrink := dx
	if s.side == Right {
		shrink = -dx
	}
	per := s.cfg.MinWidth - s.vt.Width + shrink
	if s.pending == 0 {
		s.stretch(shrink)
	}
	next := s.pending + per
	if next >= 0 {
		s.pending = next
	} else if s.pending > 0 {
		s.stretch(next)
		s.pending = 0
	}
}

// stretch moves the edge by shrink pixels (negative widens), never leaving
// the segment narrower than the minimum width.
func (s *Stretch) stretch(shrink float64) {
	sc := s.host.Scale()
	minW := s.cfg.MinWidth
	oldW := s.vt.Width
	w := max(oldW-shrink, minW)
	diff := oldW - w

	n := s.vt.Node
	if s.side == Left {
		start := n.Start.Add(sc.Duration(diff))
		if scale.Round(sc.Width(start, n.End), 6) < minW {
			start = n.End.Add(-sc.CeilDuration(minW))
		}
		n.SetDates(start, n.End)
	} else {
		end := n.End.Add(-sc.Duration(diff))
		if scale.Round(sc.Width(n.Start, end), 6) < minW {
			end = n.Start.Add(sc.CeilDuration(minW))
		}
		n.SetDates(n.Start, end)
	}
	s.host.FitBounds(fit(s.bounds, n.Start, n.End))
	s.vt.Reproject(s.host.Scale())
	s.host.Live(s.rowID)
}

// Commit ends the gesture. Only the dragged edge is committed: on a merge
// group, every member whose corresponding edge sat on the group's old edge,
// or now lies beyond the new one, follows it.
func (s *Stretch) Commit() *Change {
	if s.state != Dragging {
		return nil
	}
	s.state = Committing
	defer s.finish()

	n := s.vt.Node
	if n.Start.Equal(s.oldStart) && n.End.Equal(s.oldEnd) {
		return nil
	}
	c := &Change{Kind: KindStretch, RowID: s.rowID}
	if s.side == Left {
		start := n.Start
		c.Start = &start
		for _, mb := range s.members {
			if !mb.start.Equal(s.oldStart) && !mb.start.Before(start) {
				continue
			}
			end := mb.end
			if end.Before(start) {
				end = start
			}
			s.commitMember(c, mb, start, end)
		}
	} else {
		end := n.End
		c.End = &end
		for _, mb := range s.members {
			if !mb.end.Equal(s.oldEnd) && !mb.end.After(end) {
				continue
			}
			start := mb.start
			if start.After(end) {
				start = end
			}
			s.commitMember(c, mb, start, end)
		}
	}
	return c
}

// commitMember installs a member's new span and pulls its points inside it.
func (s *Stretch) commitMember(c *Change, mb member, start, end time.Time) {
	mb.node.SetDates(start, end)
	mb.node.Data.Start, mb.node.Data.End = start, end
	for _, p := range mb.node.Points {
		switch {
		case p.Date.Before(start):
			p.Date = start
		case p.Date.After(end):
			p.Date = end
		}
		p.Data.At = p.Date
	}
	c.IDs = append(c.IDs, mb.node.ID)
}

// Cancel restores the pre-gesture geometry without emitting a change.
func (s *Stretch) Cancel() {
	if s.state != Dragging {
		return
	}
	s.vt.Node.SetDates(s.oldStart, s.oldEnd)
	s.host.FitBounds(fit(s.bounds, s.oldStart, s.oldEnd))
	s.vt.Reproject(s.host.Scale())
	s.host.Live(s.rowID)
	s.finish()
}

func (s *Stretch) finish() {
	s.scroll.stop()
	s.slot.release(s)
	s.pending = 0
	s.state = Idle
}
