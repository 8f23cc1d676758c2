package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt"
	"github.com/alexanderramin/ganttline/internal/gantt/drag"
	"github.com/alexanderramin/ganttline/internal/repository"
	"github.com/alexanderramin/ganttline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPersistedEngine loads the seeded chart into an engine whose edits are
// written back through a Persister. One pixel is one hour and the chart
// starts on Jan 1.
func newPersistedEngine(t *testing.T) (*gantt.Engine, *Persister, DatasetService, string) {
	t.Helper()
	database := testutil.NewTestDB(t)
	chart := seedChart(t, database)
	data := NewDatasetService(testutil.NewTestUoW(database))
	ctx := context.Background()

	rows, err := data.LoadRows(ctx, chart.ID)
	require.NoError(t, err)
	p := NewPersister(ctx, chart.ID, data)
	e := gantt.New(gantt.Options{PerHourSpacing: 1, EdgeSpacing: 24, Listener: p})
	require.NoError(t, e.SetRows(rows))
	e.Resize(2000, 300)
	return e, p, data, chart.ID
}

func TestPersister_MoveWritesMergedMembers(t *testing.T) {
	e, p, data, chartID := newPersistedEngine(t)
	saved := 0
	p.OnSaved = func() { saved++ }

	require.NoError(t, e.BeginMove("r", "b", 300))
	require.NoError(t, e.Drag(300+2*24))
	require.NoError(t, e.EndDrag())
	require.NoError(t, p.Err())
	assert.Equal(t, 1, saved)

	rows, err := data.LoadRows(context.Background(), chartID)
	require.NoError(t, err)
	a := findTimeLine(rows, "a")
	assert.True(t, a.Start.Equal(testutil.Day(4)))
	assert.True(t, a.End.Equal(testutil.Day(7)))
	assert.True(t, a.Points[0].At.Equal(testutil.Day(5)))
	b := findTimeLine(rows, "b")
	assert.True(t, b.Start.Equal(testutil.Day(6)))
	assert.True(t, b.End.Equal(testutil.Day(10)))
}

func TestPersister_StretchAndPoint(t *testing.T) {
	e, p, data, chartID := newPersistedEngine(t)
	ctx := context.Background()

	require.NoError(t, e.BeginStretch("s", "x", drag.Right, 500))
	require.NoError(t, e.Drag(524))
	require.NoError(t, e.EndDrag())

	require.NoError(t, e.BeginPointDrag("r", "a", "pt", 100))
	require.NoError(t, e.Drag(124))
	require.NoError(t, e.EndDrag())
	require.NoError(t, p.Err())

	rows, err := data.LoadRows(ctx, chartID)
	require.NoError(t, err)
	x := findTimeLine(rows, "x")
	assert.True(t, x.Start.Equal(testutil.Day(20)))
	assert.True(t, x.End.Equal(testutil.Day(23)))
	a := findTimeLine(rows, "a")
	assert.True(t, a.Points[0].At.Equal(testutil.Day(4)))
}

func TestPersister_CancelWritesNothing(t *testing.T) {
	e, p, data, chartID := newPersistedEngine(t)

	require.NoError(t, e.BeginMove("s", "x", 800))
	require.NoError(t, e.Drag(900))
	e.CancelDrag()
	require.NoError(t, p.Err())

	rows, err := data.LoadRows(context.Background(), chartID)
	require.NoError(t, err)
	assert.True(t, findTimeLine(rows, "x").Start.Equal(testutil.Day(20)))
}

func TestPersister_CollectsWriteErrors(t *testing.T) {
	e, p, _, _ := newPersistedEngine(t)
	p.chartID = "someone-else"

	require.NoError(t, e.BeginMove("s", "x", 800))
	require.NoError(t, e.Drag(824))
	require.NoError(t, e.EndDrag())

	err := p.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong")
	assert.NoError(t, p.Err(), "errors are drained")
}

func TestPersister_UnknownPointErrorsAreNotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	chart := seedChart(t, database)
	data := NewDatasetService(testutil.NewTestUoW(database))
	p := NewPersister(context.Background(), chart.ID, data)

	p.OnTimePointMoveFinished(domain.TimePoint{ID: "ghost", TimeLineID: "a"}, testutil.Day(3))
	assert.ErrorIs(t, p.Err(), repository.ErrNotFound)
}
