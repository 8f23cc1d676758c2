package drag

import (
	"time"

	"github.com/alexanderramin/ganttline/internal/gantt/timeline"
)

// Kind identifies the gesture that produced a Change.
type Kind int

const (
	KindMove Kind = iota
	KindStretch
	KindPoint
)

// MovedPoint is the new date of a point carried along by a move.
type MovedPoint struct {
	ID   string
	Date time.Time
}

// MovedTimeLine is the new span of one real segment after a move.
type MovedTimeLine struct {
	ID     string
	Start  time.Time
	End    time.Time
	Points []MovedPoint
}

// Change is the committed outcome of a gesture.
type Change struct {
	Kind  Kind
	RowID string
	// IDs lists every real segment the gesture changed.
	IDs []string

	// Move.
	Moved []MovedTimeLine

	// Stretch: only the edge that moved is set.
	Start *time.Time
	End   *time.Time

	// Point drag.
	Point *timeline.PointNode
	Date  time.Time
}
