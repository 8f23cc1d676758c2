package cli

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/alexanderramin/ganttline/internal/config"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/repository"
	"github.com/alexanderramin/ganttline/internal/service"
	"github.com/alexanderramin/ganttline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) (*App, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	return &App{
		Charts:        service.NewChartService(repository.NewSQLiteChartRepo(database)),
		Data:          service.NewDatasetService(uow),
		Import:        service.NewImportService(uow),
		Config:        config.DefaultConfig(),
		IsInteractive: func() bool { return false },
	}, database
}

// seedChart stores a chart named "Seeded":
//
//	p
//	├── c1 (days 5-7)
//	└── c2 (days 10-12)
//	r  a (days 2-5, point pt on day 3) overlapping b (days 4-8)
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

	p := "p"
	for i, r := range []struct {
		id     string
		parent *string
	}{{"p", nil}, {"c1", &p}, {"c2", &p}, {"r", nil}, {"s", nil}} {
		require.NoError(t, rows.Create(ctx, &domain.Row{ID: r.id, ChartID: chart.ID, ParentID: r.parent, Title: r.id, OrderIndex: i}))
	}
	for _, tl := range []struct {
		id, row  string
		from, to int
	}{{"c1-a", "c1", 5, 7}, {"c2-a", "c2", 10, 12}, {"a", "r", 2, 5}, {"b", "r", 4, 8}, {"x", "s", 20, 22}} {
		seg := testutil.NewTestTimeLine(tl.row, testutil.Day(tl.from), testutil.Day(tl.to), testutil.WithLabel(tl.id))
		seg.ID = tl.id
		require.NoError(t, timelines.Create(ctx, seg))
	}
	require.NoError(t, points.Create(ctx, &domain.TimePoint{ID: "pt", TimeLineID: "a", At: testutil.Day(3)}))
	return chart
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return plain(buf.String()), err
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func plain(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func loadTimeLine(t *testing.T, app *App, chartID, id string) domain.TimeLine {
	t.Helper()
	rows, err := app.Data.LoadRows(context.Background(), chartID)
	require.NoError(t, err)
	var find func(rows []domain.Row) *domain.TimeLine
	find = func(rows []domain.Row) *domain.TimeLine {
		for i := range rows {
			for j := range rows[i].TimeLines {
				if rows[i].TimeLines[j].ID == id {
					return &rows[i].TimeLines[j]
				}
			}
			if tl := find(rows[i].Children); tl != nil {
				return tl
			}
		}
		return nil
	}
	tl := find(rows)
	require.NotNil(t, tl, "timeline %s", id)
	return *tl
}

func writeDataset(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// --- chart ---

func TestChartCmd_CreateListDelete(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "chart", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No charts yet")

	out, err = executeCmd(t, app, "chart", "create", "Roadmap")
	require.NoError(t, err)
	assert.Contains(t, out, "Created chart Roadmap")

	out, err = executeCmd(t, app, "chart", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Roadmap")

	out, err = executeCmd(t, app, "chart", "delete", "Roadmap")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted chart Roadmap")

	_, err = executeCmd(t, app, "chart", "delete", "Roadmap")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chart not found")
}

func TestChartCmd_CreateRejectsBlankName(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "chart", "create", "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestResolveChart_ByIDPrefix(t *testing.T) {
	app, database := testApp(t)
	chart := seedChart(t, database)

	c, err := resolveChart(context.Background(), app, chart.ID[:6])
	require.NoError(t, err)
	assert.Equal(t, chart.ID, c.ID)

	_, err = resolveChart(context.Background(), app, "")
	require.Error(t, err)
}

// --- import / rows ---

func TestImportCmd_ThenRows(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "import", "../importer/testdata/release.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported chart Release plan")
	assert.Contains(t, out, "4 rows, 4 timelines, 1 points")

	out, err = executeCmd(t, app, "rows", "Release plan")
	require.NoError(t, err)
	assert.Contains(t, out, "Release plan")
	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "Wireframes")
	assert.Contains(t, out, "2026-01-05 → 2026-01-16")
	assert.Contains(t, out, "locked")
}

func TestImportCmd_InvalidFile(t *testing.T) {
	app, _ := testApp(t)
	path := writeDataset(t, `
chart:
  name: Broken
rows:
  - id: a
    timelines:
      - start: 2026-01-09
        end: 2026-01-02
`)
	_, err := executeCmd(t, app, "import", path)
	require.Error(t, err)

	out, err := executeCmd(t, app, "chart", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Broken")
}

func TestRowsCmd_ShowsIDsAndSegments(t *testing.T) {
	app, database := testApp(t)
	seedChart(t, database)

	out, err := executeCmd(t, app, "rows", "Seeded", "--ids")
	require.NoError(t, err)
	assert.Contains(t, out, "[c1]")
	assert.Contains(t, out, "[c1-a]")
	assert.Contains(t, out, "1 points")
	assert.Contains(t, out, "2026-01-02 → 2026-01-08")
}

// --- show ---

func TestShowCmd_RendersFrame(t *testing.T) {
	app, database := testApp(t)
	seedChart(t, database)

	out, err := executeCmd(t, app, "show", "Seeded", "--width", "100", "--height", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded")
	assert.Contains(t, out, "▾ p")
	assert.Contains(t, out, "█")
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "5 rows")
}

func TestShowCmd_Collapse(t *testing.T) {
	app, database := testApp(t)
	seedChart(t, database)

	out, err := executeCmd(t, app, "show", "Seeded", "--collapse", "p")
	require.NoError(t, err)
	assert.Contains(t, out, "▸ p")
	assert.NotContains(t, out, "c1")
	assert.Contains(t, out, "3 rows")

	_, err = executeCmd(t, app, "show", "Seeded", "--collapse", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown row")
}

// --- gestures ---

func TestMoveCmd_ShiftsSegmentByPixels(t *testing.T) {
	app, database := testApp(t)
	chart := seedChart(t, database)

	// Two pixels per hour by default, so 48px is one day.
	out, err := executeCmd(t, app, "move", "Seeded", "c1", "c1-a", "48")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved c1-a on c1")
	assert.Contains(t, out, "2026-01-06 → 2026-01-08")

	tl := loadTimeLine(t, app, chart.ID, "c1-a")
	assert.True(t, tl.Start.Equal(testutil.Day(6)))
	assert.True(t, tl.End.Equal(testutil.Day(8)))
}

func TestMoveCmd_MergedSegmentMovesAllMembers(t *testing.T) {
	app, database := testApp(t)
	chart := seedChart(t, database)

	_, err := executeCmd(t, app, "move", "Seeded", "r", "b", "48")
	require.NoError(t, err)

	a := loadTimeLine(t, app, chart.ID, "a")
	assert.True(t, a.Start.Equal(testutil.Day(3)))
	assert.True(t, a.Points[0].At.Equal(testutil.Day(4)))
	b := loadTimeLine(t, app, chart.ID, "b")
	assert.True(t, b.Start.Equal(testutil.Day(5)))
	assert.True(t, b.End.Equal(testutil.Day(9)))
}

func TestStretchCmd_Sides(t *testing.T) {
	app, database := testApp(t)
	chart := seedChart(t, database)

	_, err := executeCmd(t, app, "stretch", "Seeded", "s", "x", "48")
	require.NoError(t, err)
	x := loadTimeLine(t, app, chart.ID, "x")
	assert.True(t, x.Start.Equal(testutil.Day(20)))
	assert.True(t, x.End.Equal(testutil.Day(23)))

	_, err = executeCmd(t, app, "stretch", "Seeded", "s", "x", "48", "--side", "left")
	require.NoError(t, err)
	x = loadTimeLine(t, app, chart.ID, "x")
	assert.True(t, x.Start.Equal(testutil.Day(21)))
	assert.True(t, x.End.Equal(testutil.Day(23)))

	_, err = executeCmd(t, app, "stretch", "Seeded", "s", "x", "48", "--side", "top")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid side")
}

func TestPointCmd_SlidesPoint(t *testing.T) {
	app, database := testApp(t)
	chart := seedChart(t, database)

	out, err := executeCmd(t, app, "point", "Seeded", "r", "a", "pt", "48")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved point pt on a")

	a := loadTimeLine(t, app, chart.ID, "a")
	assert.True(t, a.Points[0].At.Equal(testutil.Day(4)))
}

func TestGestureCmd_Errors(t *testing.T) {
	app, database := testApp(t)
	seedChart(t, database)

	_, err := executeCmd(t, app, "move", "Seeded", "c1", "c1-a", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pixel offset")

	_, err = executeCmd(t, app, "move", "Seeded", "c1", "nope", "48")
	require.Error(t, err)

	_, err = executeCmd(t, app, "move", "Seeded", "p", "p", "48")
	require.Error(t, err)

	_, err = executeCmd(t, app, "point", "Seeded", "r", "a", "nope", "24")
	require.Error(t, err)
}

// --- view ---

func TestViewCmd_NeedsTerminal(t *testing.T) {
	app, database := testApp(t)
	seedChart(t, database)

	_, err := executeCmd(t, app, "view", "Seeded")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestViewSource_ArgumentRules(t *testing.T) {
	app, database := testApp(t)
	seedChart(t, database)
	ctx := context.Background()

	_, _, err := viewSource(ctx, app, nil, "", false)
	require.Error(t, err)
	_, _, err = viewSource(ctx, app, []string{"Seeded"}, "plan.yaml", false)
	require.Error(t, err)
	_, _, err = viewSource(ctx, app, []string{"Seeded"}, "", true)
	require.Error(t, err)

	src, changes, err := viewSource(ctx, app, []string{"Seeded"}, "", false)
	require.NoError(t, err)
	assert.Nil(t, changes)
	assert.Equal(t, "Seeded", src.Title())

	src, _, err = viewSource(ctx, app, nil, "plan.yaml", false)
	require.NoError(t, err)
	assert.Equal(t, "plan.yaml", src.Title())
}
