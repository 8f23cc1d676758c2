package testutil

import (
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/google/uuid"
)

// Jan1 anchors fixture dates.
var Jan1 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Day returns midnight UTC of day n of 2026, counting Jan 1 as day 1.
func Day(n int) time.Time { return Jan1.AddDate(0, 0, n-1) }

func NewTestChart(name string) *domain.Chart {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Chart{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Row options
type RowOption func(*domain.Row)

func WithParent(id string) RowOption {
	return func(r *domain.Row) {
		r.ParentID = &id
	}
}

func WithOrderIndex(i int) RowOption {
	return func(r *domain.Row) {
		r.OrderIndex = i
	}
}

func WithTimeLines(tls ...domain.TimeLine) RowOption {
	return func(r *domain.Row) {
		for i := range tls {
			tls[i].RowID = r.ID
		}
		r.TimeLines = append(r.TimeLines, tls...)
	}
}

// WithChildren nests rows under r, pointing their ParentID at it.
func WithChildren(children ...*domain.Row) RowOption {
	return func(r *domain.Row) {
		for _, c := range children {
			id := r.ID
			c.ParentID = &id
			c.ChartID = r.ChartID
			r.Children = append(r.Children, *c)
		}
	}
}

func NewTestRow(chartID, title string, opts ...RowOption) *domain.Row {
	r := &domain.Row{
		ID:      uuid.New().String(),
		ChartID: chartID,
		Title:   title,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TimeLine options
type TimeLineOption func(*domain.TimeLine)

func WithLabel(label string) TimeLineOption {
	return func(t *domain.TimeLine) {
		t.Label = label
	}
}

func WithLocked(move, stretch bool) TimeLineOption {
	return func(t *domain.TimeLine) {
		t.DisableMove = move
		t.DisableStretch = stretch
	}
}

// WithPoint adds a point at at, bound to the timeline.
func WithPoint(id string, at time.Time) TimeLineOption {
	return func(t *domain.TimeLine) {
		t.Points = append(t.Points, domain.TimePoint{ID: id, TimeLineID: t.ID, At: at})
	}
}

func NewTestTimeLine(rowID string, start, end time.Time, opts ...TimeLineOption) *domain.TimeLine {
	t := &domain.TimeLine{
		ID:    uuid.New().String(),
		RowID: rowID,
		Start: start,
		End:   end,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
