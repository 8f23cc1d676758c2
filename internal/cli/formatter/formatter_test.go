package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/ganttline/internal/gantt/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

var jan1 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// dayFrame is one column per day, twenty days wide, starting Jan 1.
func dayFrame(rows ...FrameRow) Frame {
	return Frame{
		Scale:      scale.New(jan1, 1),
		Width:      24 * 20,
		CellWidth:  24,
		LabelWidth: 10,
		Rows:       rows,
	}
}

func chartLines(t *testing.T, f Frame) []string {
	t.Helper()
	out := strings.TrimSuffix(stripANSI(RenderChart(f)), "\n")
	return strings.Split(out, "\n")
}

// cells drops the label column from a rendered row.
func cells(line string, labelWidth int) string {
	return string([]rune(line)[labelWidth+2:])
}

func TestRenderChart_Axis(t *testing.T) {
	lines := chartLines(t, dayFrame())
	require.Len(t, lines, 2)
	axis := cells(lines[0], 10)
	assert.Equal(t, "Jan 01 Jan 08 Jan 15", axis)
	rule := []rune(cells(lines[1], 10))
	require.Len(t, rule, 20)
	assert.Equal(t, '┬', rule[0])
	assert.Equal(t, '┬', rule[7])
	assert.Equal(t, '┬', rule[14])
	assert.Equal(t, '─', rule[1])
}

func TestRenderChart_BarsPointsAndLabels(t *testing.T) {
	f := dayFrame(
		FrameRow{ID: "r", Title: "Row", Bars: []Bar{
			{X: 24, Width: 72, Kind: "normal", Label: "a", Points: []float64{48}},
		}},
		FrameRow{ID: "m", Title: "Milestone", Bars: []Bar{{X: 24 * 10, Kind: "same-date"}}},
		FrameRow{ID: "p", Title: "Parent", HasChildren: true, Expanded: false, Bars: []Bar{
			{X: 0, Width: 48, Kind: "parent"},
		}},
	)
	f.Cursor = "m"
	lines := chartLines(t, f)
	require.Len(t, lines, 5)

	assert.Equal(t, " █●█ a"+strings.Repeat(" ", 14), cells(lines[2], 10))
	assert.Equal(t, strings.Repeat(" ", 10)+"◆"+strings.Repeat(" ", 9), cells(lines[3], 10))
	assert.Equal(t, "━━"+strings.Repeat(" ", 18), cells(lines[4], 10))

	assert.True(t, strings.HasPrefix(lines[3], "›"), "cursor marker")
	assert.Contains(t, lines[4], "▸ Parent")
}

func TestRenderChart_ClipsToWindow(t *testing.T) {
	f := dayFrame(FrameRow{ID: "r", Title: "Row", Bars: []Bar{
		{X: 24 * 18, Width: 24 * 10, Kind: "normal", Moving: true},
	}})
	f.ScrollLeft = 24 * 2
	lines := chartLines(t, f)
	row := []rune(cells(lines[2], 10))
	require.Len(t, row, 20)
	assert.Equal(t, strings.Repeat(" ", 16)+"▓▓▓▓", string(row))
}

func TestRenderChart_EmptyRowIsBlank(t *testing.T) {
	lines := chartLines(t, dayFrame(FrameRow{ID: "e", Empty: true}))
	assert.Equal(t, strings.Repeat(" ", 32), lines[2])
}

func TestRenderTree(t *testing.T) {
	out := stripANSI(RenderTree([]TreeItem{
		{Title: "Design", Level: 0},
		{Title: "Wireframes", Level: 1, Detail: "2026-01-05 → 2026-01-09 (4d)"},
		{Title: "Review", Level: 2, IsLast: true},
		{Title: "Mockups", Level: 1, IsLast: true, Collapsed: true},
		{Title: "Sub", Level: 2, IsLast: true},
		{Title: "Build", Level: 0, IsLast: true},
	}))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Design", strings.TrimSpace(lines[0]))
	assert.True(t, strings.HasPrefix(lines[1], "├─ Wireframes"))
	assert.True(t, strings.HasSuffix(lines[1], "(4d)"))
	assert.Equal(t, "│  └─ Review", lines[2])
	assert.Equal(t, "└─ Mockups ▸", lines[3])
	assert.Equal(t, "   └─ Sub", lines[4])
}

func TestRenderTable(t *testing.T) {
	out := stripANSI(RenderTable([]string{"NAME", "ROWS"}, [][]string{{"Release", "4"}, {"Q1", "12"}}))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME     ROWS", lines[0])
	assert.Equal(t, "───────  ────", lines[1])
	assert.Equal(t, "Release  4", lines[2])
	assert.Equal(t, "Q1       12", lines[3])
}

func TestFormatSpan(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       string
	}{
		{"whole days", jan1, jan1.AddDate(0, 0, 4), "2026-01-01 → 2026-01-05 (4d)"},
		{"hours", jan1, jan1.Add(30 * time.Hour), "2026-01-01 → 2026-01-02 06:00 (1d 6h)"},
		{"same date", jan1, jan1, "2026-01-01 ◆"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSpan(tt.start, tt.end))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab…", Truncate("abcd", 3))
	assert.Equal(t, "…", Truncate("abcd", 1))
	assert.Equal(t, "", Truncate("abcd", 0))
}

func TestHumanTimestampFrom(t *testing.T) {
	now := jan1.Add(48 * time.Hour)
	assert.Equal(t, "Just now", HumanTimestampFrom(now, now))
	assert.Equal(t, "5m ago", HumanTimestampFrom(now.Add(-5*time.Minute), now))
	assert.Equal(t, "2d ago", HumanTimestampFrom(jan1, now))
}
