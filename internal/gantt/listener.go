package gantt

import (
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt/drag"
)

// MovedTimeLine is the new span of one real segment after a move.
type MovedTimeLine = drag.MovedTimeLine

// MovedPoint is the new date of a point carried along by a move.
type MovedPoint = drag.MovedPoint

// Listener receives the engine's change events. The engine never persists
// anything; hosts apply these to their own dataset.
type Listener interface {
	// OnTimeLineMoveChange reports every real segment shifted by one move.
	OnTimeLineMoveChange(rowID string, ids []string, moved []MovedTimeLine)
	// OnTimeLineStretchChange reports one stretched edge. Exactly one of
	// start and end is non-nil.
	OnTimeLineStretchChange(rowID string, ids []string, start, end *time.Time)
	OnTimePointMoveFinished(point domain.TimePoint, date time.Time)
	OnMinDateChanged(date time.Time)
	OnMaxDateChanged(date time.Time)
	// OnExpandChange carries the full set of collapsed row ids.
	OnExpandChange(collapsed []string)
}

// NoopListener ignores all events. Embed it to implement a subset.
type NoopListener struct{}

func (NoopListener) OnTimeLineMoveChange(string, []string, []MovedTimeLine) {}
func (NoopListener) OnTimeLineStretchChange(string, []string, *time.Time, *time.Time) {}
func (NoopListener) OnTimePointMoveFinished(domain.TimePoint, time.Time) {}
func (NoopListener) OnMinDateChanged(time.Time) {}
func (NoopListener) OnMaxDateChanged(time.Time) {}
func (NoopListener) OnExpandChange([]string) {}
