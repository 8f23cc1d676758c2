package drag

import (
	"math"
	"time"

	"github.com/alexanderramin/ganttline/internal/gantt/timeline"
	"github.com/alexanderramin/ganttline/internal/gantt/viewport"
)

// PointDrag slides a time point along its segment.
type PointDrag struct {
	slot  *Slot
	host  Host
	rowID string
	vt    *viewport.VisibleTimeLine
	point *timeline.PointNode
	state State

	startX, startTranslateX float64
}

// StartPointDrag begins dragging point, which must be projected on vt.
func StartPointDrag(slot *Slot, h Host, rowID string, vt *viewport.VisibleTimeLine, point *timeline.PointNode, pointerX float64) (*PointDrag, error) {
	d := &PointDrag{
		slot:            slot,
		host:            h,
		rowID:           rowID,
		vt:              vt,
		point:           point,
		startX:          pointerX,
		startTranslateX: point.TranslateX,
	}
	if err := slot.acquire(d); err != nil {
		return nil, err
	}
	d.state = Dragging
	return d, nil
}

func (d *PointDrag) RowID() string { return d.rowID }

func (d *PointDrag) State() State { return d.state }

// Point returns the point being dragged.
func (d *PointDrag) Point() *timeline.PointNode { return d.point }

// Update moves the point, clamped to the segment's width.
func (d *PointDrag) Update(pointerX float64) {
	if d.state != Dragging {
		return
	}
	tx := d.startTranslateX + pointerX - d.startX
	d.point.TranslateX = min(max(tx, 0), d.vt.Width)
}

// Tick is a no-op: point drags never auto-scroll.
func (d *PointDrag) Tick() bool { return false }

// Commit converts the pixel travel back to a date. Seconds are rounded up
// when moving left and down when moving right, so the point never lands past
// where it was dropped.
func (d *PointDrag) Commit() *Change {
	if d.state != Dragging {
		return nil
	}
	d.state = Committing
	defer d.finish()

	dx := d.point.TranslateX - d.startTranslateX
	if dx == 0 {
		return nil
	}
	secs := d.host.Scale().Seconds(dx)
	if dx < 0 {
		secs = math.Ceil(secs)
	} else {
		secs = math.Floor(secs)
	}
	date := d.point.Date.Add(time.Duration(secs) * time.Second)
	d.point.Date = date
	d.point.Data.At = date
	return &Change{
		Kind:  KindPoint,
		RowID: d.rowID,
		IDs:   []string{d.owner()},
		Point: d.point,
		Date:  date,
	}
}

// owner returns the id of the real segment the point belongs to.
func (d *PointDrag) owner() string {
	for _, r := range d.vt.Node.Raw() {
		for _, p := range r.Points {
			if p == d.point {
				return r.ID
			}
		}
	}
	return d.vt.ID
}

// Cancel puts the point back where it started.
func (d *PointDrag) Cancel() {
	if d.state != Dragging {
		return
	}
	d.point.TranslateX = d.startTranslateX
	d.finish()
}

func (d *PointDrag) finish() {
	d.slot.release(d)
	d.state = Idle
}
