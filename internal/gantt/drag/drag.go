// Package drag implements the pointer gestures on chart segments: moving a
// segment, stretching one of its edges, and sliding a time point along it.
//
// Each gesture is an explicit state machine driven by the host's event loop:
// Update on every pointer move, Tick on every frame while auto-scrolling,
// Commit on pointer release and Cancel on abnormal termination. One Slot per
// chart guarantees a single gesture at a time.
package drag

import (
	"errors"
	"time"

	"github.com/alexanderramin/ganttline/internal/gantt/scale"
)

var (
	ErrBusy            = errors.New("another gesture is in progress")
	ErrMoveDisabled    = errors.New("move is disabled for this segment")
	ErrStretchDisabled = errors.New("stretch is disabled for this segment")
	ErrAggregate       = errors.New("parent aggregate segments cannot be dragged")
	ErrNotDragging     = errors.New("no gesture in progress")
)

// State is the lifecycle position of a gesture.
type State int

const (
	Idle State = iota
	Dragging
	Committing
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Committing:
		return "committing"
	default:
		return "idle"
	}
}

// Side selects the edge a stretch gesture moves.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// DefaultMinWidth is the narrowest a stretched segment may become, in pixels.
const DefaultMinWidth = 4

// DefaultAutoScrollStep is the base auto-scroll distance per tick, in pixels.
const DefaultAutoScrollStep = 10

// Config carries the chart-wide gesture settings.
type Config struct {
	// EdgeMargin is the distance from a viewport edge within which dragging
	// outward starts auto-scrolling. It is also the chart's edge spacing.
	EdgeMargin     float64
	MinWidth       float64
	AutoScrollStep float64
	DisableMove    bool
	DisableStretch bool
}

func (c Config) withDefaults() Config {
	if c.MinWidth <= 0 {
		c.MinWidth = DefaultMinWidth
	}
	if c.AutoScrollStep <= 0 {
		c.AutoScrollStep = DefaultAutoScrollStep
	}
	return c
}

// Bounds is the date extent of everything on the chart except the dragged
// segment. Nil means nothing else is dated.
type Bounds struct {
	Min *time.Time
	Max *time.Time
}

// Host is the chart a gesture acts on.
type Host interface {
	// Scale returns the current horizontal scale. It changes when the chart
	// bounds move.
	Scale() scale.Scale
	// Viewport returns the horizontal scroll offset and viewport width.
	Viewport() (scrollLeft, width float64)
	// ScrollBy scrolls the chart horizontally.
	ScrollBy(dx float64)
	// FitBounds makes the chart span exactly the given extent, re-windowing
	// if the origin moved.
	FitBounds(min, max time.Time)
	// Live is called after every change to live geometry on rowID.
	Live(rowID string)
}

// Gesture is the common surface of Move, Stretch and PointDrag.
type Gesture interface {
	RowID() string
	State() State
	Update(pointerX float64)
	Tick() bool
	Commit() *Change
	Cancel()
}

// Slot is the single "currently dragging" slot of a chart.
type Slot struct {
	current Gesture
}

// Current returns the active gesture, or nil.
func (s *Slot) Current() Gesture { return s.current }

// Busy reports whether a gesture holds the slot.
func (s *Slot) Busy() bool { return s.current != nil }

func (s *Slot) acquire(g Gesture) error {
	if s.current != nil {
		return ErrBusy
	}
	s.current = g
	return nil
}

func (s *Slot) release(g Gesture) {
	if s.current == g {
		s.current = nil
	}
}

// fit merges the dragged extent into the rest of the chart's bounds.
func fit(b Bounds, start, end time.Time) (time.Time, time.Time) {
	lo, hi := start, end
	if b.Min != nil && b.Min.Before(lo) {
		lo = *b.Min
	}
	if b.Max != nil && b.Max.After(hi) {
		hi = *b.Max
	}
	return lo, hi
}
