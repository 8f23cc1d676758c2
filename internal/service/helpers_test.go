package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/repository"
	"github.com/alexanderramin/ganttline/internal/testutil"
	"github.com/stretchr/testify/require"
)

type capturingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *capturingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *capturingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

// seedChart stores:
//
//	p
//	├── c1 (days 5-7)
//	└── c2 (days 10-12)
//	r  a (days 2-5, point on day 3) overlapping b (days 4-8)
//	s  x (days 20-22)
func seedChart(t *testing.T, database *sql.DB) *domain.Chart {
	t.Helper()
	ctx := context.Background()
	charts := repository.NewSQLiteChartRepo(database)
	rows := repository.NewSQLiteRowRepo(database)
	timelines := repository.NewSQLiteTimeLineRepo(database)
	points := repository.NewSQLiteTimePointRepo(database)

	chart := testutil.NewTestChart("Seeded")
	require.NoError(t, charts.Create(ctx, chart))

	addRow := func(id string, order int, parent *string) {
		r := &domain.Row{ID: id, ChartID: chart.ID, ParentID: parent, Title: id, OrderIndex: order}
		require.NoError(t, rows.Create(ctx, r))
	}
	addTimeLine := func(id, rowID string, from, to int) {
		tl := testutil.NewTestTimeLine(rowID, testutil.Day(from), testutil.Day(to), testutil.WithLabel(id))
		tl.ID = id
		require.NoError(t, timelines.Create(ctx, tl))
	}

	p := "p"
	addRow("p", 0, nil)
	addRow("c2", 2, &p)
	addRow("c1", 1, &p)
	addRow("r", 3, nil)
	addRow("s", 4, nil)
	addTimeLine("c1-a", "c1", 5, 7)
	addTimeLine("c2-a", "c2", 10, 12)
	addTimeLine("a", "r", 2, 5)
	addTimeLine("b", "r", 4, 8)
	addTimeLine("x", "s", 20, 22)
	require.NoError(t, points.Create(ctx, &domain.TimePoint{ID: "pt", TimeLineID: "a", At: testutil.Day(3)}))
	return chart
}

func findRow(rows []domain.Row, id string) *domain.Row {
	for i := range rows {
		if rows[i].ID == id {
			return &rows[i]
		}
		if r := findRow(rows[i].Children, id); r != nil {
			return r
		}
	}
	return nil
}

func findTimeLine(rows []domain.Row, id string) *domain.TimeLine {
	for i := range rows {
		for j := range rows[i].TimeLines {
			if rows[i].TimeLines[j].ID == id {
				return &rows[i].TimeLines[j]
			}
		}
		if tl := findTimeLine(rows[i].Children, id); tl != nil {
			return tl
		}
	}
	return nil
}
