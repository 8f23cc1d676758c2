package drag

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt/scale"
	"github.com/alexanderramin/ganttline/internal/gantt/timeline"
	"github.com/alexanderramin/ganttline/internal/gantt/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan1 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return jan1.AddDate(0, 0, n-1) }

func ptr(t time.Time) *time.Time { return &t }

// fakeHost is a chart whose origin tracks the fitted minimum date.
type fakeHost struct {
	perHour    float64
	edge       float64
	sc         scale.Scale
	scrollLeft float64
	width      float64
	min, max   time.Time
	lives      int
}

func newHost(perHour, edge, width float64) *fakeHost {
	h := &fakeHost{perHour: perHour, edge: edge, width: width}
	h.FitBounds(day(1), day(60))
	return h
}

func (h *fakeHost) Scale() scale.Scale { return h.sc }

func (h *fakeHost) Viewport() (float64, float64) { return h.scrollLeft, h.width }

func (h *fakeHost) ScrollBy(dx float64) { h.scrollLeft = math.Max(0, h.scrollLeft+dx) }

func (h *fakeHost) FitBounds(min, max time.Time) {
	h.min, h.max = min, max
	h.sc = scale.New(scale.OriginFor(min, h.edge, h.perHour), h.perHour)
}

func (h *fakeHost) Live(string) { h.lives++ }

// wideBounds keeps the chart at Jan 1 – Mar 1 regardless of the drag.
var wideBounds = Bounds{Min: ptr(day(1)), Max: ptr(day(60))}

func project(h *fakeHost, tls ...domain.TimeLine) *viewport.VisibleTimeLine {
	nodes := make([]*timeline.Node, 0, len(tls))
	for _, tl := range tls {
		nodes = append(nodes, timeline.NewNode(tl))
	}
	timeline.Sort(nodes)
	merged := timeline.Merge(nodes)
	return viewport.Project(merged[0], h.Scale())
}

func TestMove_RoundTripRestoresDates(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 200; trial++ {
		h := newHost(10, 20, 1000)
		vt := project(h, domain.TimeLine{ID: "a", Start: day(10), End: day(12)})
		var slot Slot

		m, err := StartMove(&slot, h, Config{EdgeMargin: 20}, "r", vt, 500, wideBounds)
		require.NoError(t, err)

		delta := (rng.Float64() - 0.5) * 400
		m.Update(500 + delta)
		m.Update(500)

		assert.True(t, vt.Node.Start.Equal(day(10)), "trial %d delta %v", trial, delta)
		assert.True(t, vt.Node.End.Equal(day(12)), "trial %d delta %v", trial, delta)
		assert.Nil(t, m.Commit(), "no net change, no event")
		assert.False(t, slot.Busy())
	}
}

func TestMove_MergedGroupTwoDaysShiftsEveryMember(t *testing.T) {
	h := newHost(10, 20, 4000)
	vt := project(h,
		domain.TimeLine{ID: "a", Start: day(1), End: day(5),
			Points: []domain.TimePoint{{ID: "p", At: day(2)}}},
		domain.TimeLine{ID: "b", Start: day(4), End: day(10)},
	)
	require.True(t, vt.Node.IsMerge)
	require.True(t, vt.Node.Start.Equal(day(1)))
	require.True(t, vt.Node.End.Equal(day(10)))

	var slot Slot
	m, err := StartMove(&slot, h, Config{EdgeMargin: 20}, "r", vt, 1000, wideBounds)
	require.NoError(t, err)
	m.Update(1000 + 2*24*10)

	c := m.Commit()
	require.NotNil(t, c)
	assert.Equal(t, KindMove, c.Kind)
	assert.Equal(t, "r", c.RowID)
	assert.ElementsMatch(t, []string{"a", "b"}, c.IDs)
	require.Len(t, c.Moved, 2)

	byID := map[string]MovedTimeLine{}
	for _, mv := range c.Moved {
		byID[mv.ID] = mv
	}
	assert.True(t, byID["a"].Start.Equal(day(3)))
	assert.True(t, byID["a"].End.Equal(day(7)))
	assert.True(t, byID["b"].Start.Equal(day(6)))
	assert.True(t, byID["b"].End.Equal(day(12)))
	require.Len(t, byID["a"].Points, 1)
	assert.True(t, byID["a"].Points[0].Date.Equal(day(4)))

	for _, r := range vt.Node.Members {
		assert.True(t, r.Data.Start.Equal(r.Start), "raw data follows the node")
	}
	assert.False(t, slot.Busy())
	assert.Equal(t, Idle, m.State())
}

func TestMove_PointsRideAlongMidDrag(t *testing.T) {
	h := newHost(10, 20, 4000)
	vt := project(h, domain.TimeLine{ID: "a", Start: day(2), End: day(5),
		Points: []domain.TimePoint{{ID: "p", At: day(3)}}})
	require.Len(t, vt.Points, 1)
	require.Equal(t, 240.0, vt.Points[0].TranslateX)

	var slot Slot
	m, err := StartMove(&slot, h, Config{EdgeMargin: 20}, "r", vt, 1000, wideBounds)
	require.NoError(t, err)
	m.Update(1000 + 3*240)

	require.Len(t, vt.Points, 1, "the point stays on the bar")
	assert.Equal(t, 240.0, vt.Points[0].TranslateX)
	assert.True(t, vt.Points[0].Date.Equal(day(6)))

	m.Update(1000 - 240)
	require.Len(t, vt.Points, 1)
	assert.Equal(t, 240.0, vt.Points[0].TranslateX)

	m.Cancel()
	require.Len(t, vt.Points, 1)
	assert.True(t, vt.Points[0].Date.Equal(day(3)))
	assert.True(t, vt.Points[0].Data.At.Equal(day(3)))
}

func TestMove_Refused(t *testing.T) {
	h := newHost(10, 20, 1000)
	var slot Slot

	disabled := project(h, domain.TimeLine{ID: "a", Start: day(2), End: day(3), DisableMove: true})
	_, err := StartMove(&slot, h, Config{}, "r", disabled, 0, wideBounds)
	assert.ErrorIs(t, err, ErrMoveDisabled)

	enabled := project(h, domain.TimeLine{ID: "b", Start: day(2), End: day(3)})
	_, err = StartMove(&slot, h, Config{DisableMove: true}, "r", enabled, 0, wideBounds)
	assert.ErrorIs(t, err, ErrMoveDisabled)

	agg := viewport.Project(timeline.NewParentNode("p", ptr(day(2)), ptr(day(3))), h.Scale())
	_, err = StartMove(&slot, h, Config{}, "p", agg, 0, wideBounds)
	assert.ErrorIs(t, err, ErrAggregate)

	assert.False(t, slot.Busy(), "refused gestures never take the slot")
}

func TestSlot_OneGestureAtATime(t *testing.T) {
	h := newHost(10, 20, 1000)
	var slot Slot
	a := project(h, domain.TimeLine{ID: "a", Start: day(2), End: day(3)})
	b := project(h, domain.TimeLine{ID: "b", Start: day(5), End: day(6)})

	m, err := StartMove(&slot, h, Config{}, "r", a, 0, wideBounds)
	require.NoError(t, err)
	assert.Same(t, m, slot.Current())

	_, err = StartStretch(&slot, h, Config{}, Right, "r", b, 0, wideBounds)
	assert.ErrorIs(t, err, ErrBusy)
	_, err = StartPointDrag(&slot, h, "r", b, &timeline.PointNode{ID: "p"}, 0)
	assert.ErrorIs(t, err, ErrBusy)

	m.Cancel()
	m.Cancel()
	assert.Nil(t, m.Commit(), "cleanup is idempotent")
	assert.False(t, slot.Busy())

	_, err = StartStretch(&slot, h, Config{}, Right, "r", b, 0, wideBounds)
	assert.NoError(t, err)
}

func TestMove_ExtendsChartMinimumOnlyPastOtherRows(t *testing.T) {
	h := newHost(10, 20, 1000)
	bounds := Bounds{Min: ptr(day(3)), Max: ptr(day(20))}
	h.FitBounds(day(3), day(20))
	vt := project(h, domain.TimeLine{ID: "a", Start: day(5), End: day(6)})

	var slot Slot
	m, err := StartMove(&slot, h, Config{EdgeMargin: 20}, "r", vt, 500, bounds)
	require.NoError(t, err)

	m.Update(500 - 24*10) // one day left: still after day 3
	assert.True(t, h.min.Equal(day(3)))

	m.Update(500 - 3*24*10) // three days left: day 2, before everything else
	assert.True(t, h.min.Equal(day(2)))
	assert.Equal(t, 20.0, vt.TranslateX, "leading edge pinned to the chart floor")

	m.Update(500)
	assert.True(t, h.min.Equal(day(3)), "minimum shrinks back")

	m.Update(500 + 20*24*10) // far right: day 25
	assert.True(t, h.max.Equal(day(26)))
	assert.Greater(t, h.lives, 0)

	m.Cancel()
	assert.True(t, vt.Node.Start.Equal(day(5)))
	assert.True(t, h.min.Equal(day(3)))
	assert.True(t, h.max.Equal(day(20)))
}

func TestMove_AutoScrollNearEdge(t *testing.T) {
	h := newHost(1, 20, 1000)
	vt := project(h, domain.TimeLine{ID: "a", Start: day(10), End: day(11)})
	var slot Slot
	m, err := StartMove(&slot, h, Config{EdgeMargin: 20}, "r", vt, 500, wideBounds)
	require.NoError(t, err)

	assert.False(t, m.Tick(), "no auto-scroll before reaching an edge")

	m.Update(990)
	require.True(t, m.Tick())
	assert.Equal(t, 10.0, h.scrollLeft)
	assert.True(t, vt.Node.Start.Equal(day(10).Add(500*time.Hour)))

	require.True(t, m.Tick())
	assert.Greater(t, h.scrollLeft, 20.0, "steps speed up")

	m.Update(700)
	assert.False(t, m.Tick(), "moving back inward stops auto-scroll")

	c := m.Commit()
	require.NotNil(t, c)
	assert.Equal(t, []string{"a"}, c.IDs)
}

func TestStretch_MinimumWidthAndPendingExcess(t *testing.T) {
	h := newHost(1, 20, 2000)
	vt := project(h, domain.TimeLine{ID: "a", Start: day(10), End: day(12)})
	require.Equal(t, 48.0, vt.Width)

	var slot Slot
	s, err := StartStretch(&slot, h, Config{EdgeMargin: 20, MinWidth: 4}, Right, "r", vt, 1000, wideBounds)
	require.NoError(t, err)

	s.Update(900)
	assert.Equal(t, 4.0, vt.Width, "clamped at minimum width")

	s.Update(930)
	assert.Equal(t, 4.0, vt.Width, "excess is worked off first")

	s.Update(960)
	assert.Equal(t, 8.0, vt.Width, "edge is back under the pointer")

	c := s.Commit()
	require.NotNil(t, c)
	assert.Equal(t, KindStretch, c.Kind)
	assert.Nil(t, c.Start)
	require.NotNil(t, c.End)
	assert.True(t, c.End.Equal(day(10).Add(8*time.Hour)))
	assert.Equal(t, []string{"a"}, c.IDs)
}

func TestStretch_LeftEdgeClampsAndCommitsStartOnly(t *testing.T) {
	h := newHost(1, 20, 2000)
	vt := project(h, domain.TimeLine{ID: "a", Start: day(10), End: day(12)})
	var slot Slot
	s, err := StartStretch(&slot, h, Config{EdgeMargin: 20}, Left, "r", vt, 500, wideBounds)
	require.NoError(t, err)

	s.Update(600)
	assert.Equal(t, 4.0, vt.Width)
	assert.True(t, vt.Node.End.Equal(day(12)))

	c := s.Commit()
	require.NotNil(t, c)
	require.NotNil(t, c.Start)
	assert.Nil(t, c.End)
	assert.True(t, c.Start.Equal(day(12).Add(-4*time.Hour)))
}

func TestStretch_CommittedWidthNeverBelowMinimum(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 300; trial++ {
		h := newHost(1+rng.Float64()*20, 20, 5000)
		vt := project(h, domain.TimeLine{ID: "a", Start: day(10), End: day(10).Add(time.Duration(rng.Intn(72)) * time.Hour)})
		side := Side(rng.Intn(2))
		var slot Slot
		s, err := StartStretch(&slot, h, Config{EdgeMargin: 20, MinWidth: 4}, side, "r", vt, 2500, wideBounds)
		require.NoError(t, err)

		x := 2500.0
		for i := rng.Intn(8); i >= 0; i-- {
			x += (rng.Float64() - 0.5) * 600
			s.Update(x)
		}
		if c := s.Commit(); c != nil {
			w := h.Scale().Width(vt.Node.Start, vt.Node.End)
			assert.GreaterOrEqual(t, scale.Round(w, 6), 4.0, "trial %d", trial)
		}
	}
}

func TestStretch_MergedGroupMembersFollowTheEdge(t *testing.T) {
	h := newHost(1, 20, 5000)
	group := func() *viewport.VisibleTimeLine {
		return project(h,
			domain.TimeLine{ID: "a", Start: day(1), End: day(5)},
			domain.TimeLine{ID: "b", Start: day(4), End: day(10)},
		)
	}

	t.Run("extend left", func(t *testing.T) {
		vt := group()
		var slot Slot
		s, err := StartStretch(&slot, h, Config{}, Left, "r", vt, 500, wideBounds)
		require.NoError(t, err)
		s.Update(500 - 24)
		c := s.Commit()
		require.NotNil(t, c)
		assert.Equal(t, []string{"a"}, c.IDs)
		a := vt.Node.Members[0]
		assert.True(t, a.Start.Equal(day(0)))
		assert.True(t, a.End.Equal(day(5)))
	})

	t.Run("shrink left past a member", func(t *testing.T) {
		vt := group()
		var slot Slot
		s, err := StartStretch(&slot, h, Config{}, Left, "r", vt, 500, wideBounds)
		require.NoError(t, err)
		s.Update(500 + 5*24)
		c := s.Commit()
		require.NotNil(t, c)
		assert.Equal(t, []string{"a", "b"}, c.IDs)
		for _, m := range vt.Node.Members {
			assert.True(t, m.Start.Equal(day(6)), m.ID)
			assert.False(t, m.End.Before(m.Start), m.ID)
		}
	})

	t.Run("shrink right", func(t *testing.T) {
		vt := group()
		var slot Slot
		s, err := StartStretch(&slot, h, Config{}, Right, "r", vt, 500, wideBounds)
		require.NoError(t, err)
		s.Update(500 - 3*24)
		c := s.Commit()
		require.NotNil(t, c)
		assert.Equal(t, []string{"b"}, c.IDs)
		assert.True(t, c.End.Equal(day(7)))
		b := vt.Node.Members[1]
		assert.True(t, b.Start.Equal(day(4)))
		assert.True(t, b.End.Equal(day(7)))
	})
}

func TestStretch_LivePointOffsets(t *testing.T) {
	h := newHost(1, 20, 5000)
	vt := project(h, domain.TimeLine{ID: "a", Start: day(2), End: day(5),
		Points: []domain.TimePoint{{ID: "p", At: day(3)}}})
	require.Equal(t, 24.0, vt.Points[0].TranslateX)

	var slot Slot
	s, err := StartStretch(&slot, h, Config{}, Left, "r", vt, 500, wideBounds)
	require.NoError(t, err)
	s.Update(500 - 24)
	require.Len(t, vt.Points, 1)
	assert.Equal(t, 48.0, vt.Points[0].TranslateX, "offset grows with the start edge")
	s.Cancel()

	s, err = StartStretch(&slot, h, Config{}, Right, "r", vt, 500, wideBounds)
	require.NoError(t, err)
	s.Update(500 + 24)
	require.Len(t, vt.Points, 1)
	assert.Equal(t, 24.0, vt.Points[0].TranslateX, "right edge leaves the point alone")
	s.Cancel()
}

func TestStretch_CommitClampsMemberPoints(t *testing.T) {
	h := newHost(1, 20, 5000)
	vt := project(h,
		domain.TimeLine{ID: "a", Start: day(1), End: day(5),
			Points: []domain.TimePoint{{ID: "p", At: day(2)}}},
		domain.TimeLine{ID: "b", Start: day(4), End: day(10)},
	)
	var slot Slot
	s, err := StartStretch(&slot, h, Config{}, Left, "r", vt, 500, wideBounds)
	require.NoError(t, err)
	s.Update(500 + 5*24)
	require.NotNil(t, s.Commit())

	a := vt.Node.Members[0]
	require.True(t, a.Start.Equal(day(6)))
	require.Len(t, a.Points, 1)
	assert.True(t, a.Points[0].Date.Equal(day(6)))
	assert.True(t, a.Points[0].Data.At.Equal(day(6)))
	assert.True(t, a.TimeLine().Points[0].At.Equal(day(6)))
}

func TestStretch_Refused(t *testing.T) {
	h := newHost(1, 20, 1000)
	var slot Slot
	vt := project(h, domain.TimeLine{ID: "a", Start: day(2), End: day(3), DisableStretch: true})
	_, err := StartStretch(&slot, h, Config{}, Left, "r", vt, 0, wideBounds)
	assert.ErrorIs(t, err, ErrStretchDisabled)
}

func TestPointDrag_ClampsAndRoundsTowardStart(t *testing.T) {
	h := newHost(10, 20, 1000)
	at := day(1).Add(6 * time.Hour)
	mk := func() (*viewport.VisibleTimeLine, *timeline.PointNode) {
		vt := project(h, domain.TimeLine{ID: "a", Start: day(1), End: day(2),
			Points: []domain.TimePoint{{ID: "p", At: at}}})
		require.Len(t, vt.Points, 1)
		return vt, vt.Points[0]
	}

	vt, p := mk()
	assert.Equal(t, 60.0, p.TranslateX)
	var slot Slot
	d, err := StartPointDrag(&slot, h, "r", vt, p, 100)
	require.NoError(t, err)
	d.Update(1000)
	assert.Equal(t, vt.Width, p.TranslateX)
	d.Update(-1000)
	assert.Equal(t, 0.0, p.TranslateX)
	d.Update(100 + 1.0001)
	c := d.Commit()
	require.NotNil(t, c)
	assert.Equal(t, KindPoint, c.Kind)
	assert.Same(t, p, c.Point)
	assert.Equal(t, []string{"a"}, c.IDs)
	assert.True(t, c.Date.Equal(at.Add(360*time.Second)), "floor when moving right")
	assert.True(t, p.Data.At.Equal(c.Date))

	_, p2 := mk()
	d2, err := StartPointDrag(&slot, h, "r", vt, p2, 100)
	require.NoError(t, err)
	d2.Update(100 - 1.0001)
	c2 := d2.Commit()
	require.NotNil(t, c2)
	assert.True(t, c2.Date.Equal(at.Add(-360*time.Second)), "ceil when moving left")
}

func TestPointDrag_CancelRestoresOffset(t *testing.T) {
	h := newHost(10, 20, 1000)
	vt := project(h, domain.TimeLine{ID: "a", Start: day(1), End: day(2),
		Points: []domain.TimePoint{{ID: "p", At: day(1).Add(time.Hour)}}})
	p := vt.Points[0]
	var slot Slot
	d, err := StartPointDrag(&slot, h, "r", vt, p, 0)
	require.NoError(t, err)
	d.Update(50)
	d.Cancel()
	assert.Equal(t, 10.0, p.TranslateX)
	assert.False(t, slot.Busy())
	assert.False(t, d.Tick())
}

func TestAutoScroll_StartStopAndSpeed(t *testing.T) {
	var a autoScroll
	a.observe(100, 90, -10, true, false)
	require.True(t, a.active)
	assert.Equal(t, -10.0, a.next(10))

	a.observe(90, 95, 5, true, false)
	assert.True(t, a.active, "still short of the anchor")
	a.observe(95, 101, 6, true, false)
	assert.False(t, a.active, "back past the anchor")

	a.observe(0, 10, 10, false, true)
	for i := 0; i < 100; i++ {
		a.next(10)
	}
	assert.Equal(t, 30.0, a.next(10), "speed is capped")

	a.observe(10, 500, 490, false, false)
	assert.False(t, a.active)
}
