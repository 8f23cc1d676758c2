package formatter

import (
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/ganttline/internal/gantt/scale"
	"github.com/charmbracelet/lipgloss"
)

// Bar is one projected segment, in chart pixels.
type Bar struct {
	X, Width float64
	Kind     string // normal, parent or same-date
	Label    string
	Color    string
	Moving   bool
	Focused  bool
	Points   []float64 // chart pixel offsets
}

// FrameRow is one row of a rendered frame.
type FrameRow struct {
	ID          string
	Title       string
	Level       int
	HasChildren bool
	Expanded    bool
	Empty       bool
	Selected    bool
	Bars        []Bar
}

// Frame is a windowed slice of the chart mapped onto terminal cells. Each
// column covers CellWidth chart pixels starting at ScrollLeft.
type Frame struct {
	Scale      scale.Scale
	ScrollLeft float64
	Width      float64
	CellWidth  float64
	LabelWidth int
	Cursor     string
	Rows       []FrameRow
}

// Columns returns how many chart columns fit in the frame.
func (f Frame) Columns() int {
	if f.CellWidth <= 0 {
		return 0
	}
	return int(f.Width / f.CellWidth)
}

// Column maps a chart pixel offset to a column index, which may fall outside
// [0, Columns()).
func (f Frame) Column(x float64) int {
	return int(math.Floor((x - f.ScrollLeft) / f.CellWidth))
}

// lastColumn is the column holding the pixel just before x.
func (f Frame) lastColumn(x float64) int {
	return int(math.Ceil((x-f.ScrollLeft)/f.CellWidth)) - 1
}

const (
	glyphBar      = '█'
	glyphParent   = '━'
	glyphMoving   = '▓'
	glyphSameDate = '◆'
	glyphPoint    = '●'
)

// canvas is one line of chart cells with a style per cell.
type canvas struct {
	runes  []rune
	styles []*lipgloss.Style
}

func newCanvas(n int) *canvas {
	c := &canvas{runes: make([]rune, n), styles: make([]*lipgloss.Style, n)}
	for i := range c.runes {
		c.runes[i] = ' '
	}
	return c
}

func (c *canvas) set(col int, r rune, st *lipgloss.Style) {
	if col < 0 || col >= len(c.runes) {
		return
	}
	c.runes[col] = r
	c.styles[col] = st
}

func (c *canvas) free(from, to int) bool {
	for i := from; i <= to; i++ {
		if i < 0 || i >= len(c.runes) || c.runes[i] != ' ' {
			return false
		}
	}
	return true
}

func (c *canvas) String() string {
	var b strings.Builder
	for i := 0; i < len(c.runes); {
		j := i
		for j < len(c.runes) && c.styles[j] == c.styles[i] {
			j++
		}
		run := string(c.runes[i:j])
		if c.styles[i] != nil {
			run = c.styles[i].Render(run)
		}
		b.WriteString(run)
		i = j
	}
	return b.String()
}

// RenderChart draws the frame: a date axis followed by one line per row.
func RenderChart(f Frame) string {
	cols := f.Columns()
	var b strings.Builder
	label := strings.Repeat(" ", f.LabelWidth+2)
	ticks, rule := renderAxis(f, cols)
	b.WriteString(label + ticks + "\n")
	b.WriteString(label + rule + "\n")
	for _, row := range f.Rows {
		b.WriteString(renderLabel(f, row))
		b.WriteString(renderBars(f, row, cols))
		b.WriteString("\n")
	}
	return b.String()
}

func renderLabel(f Frame, row FrameRow) string {
	if row.Empty {
		return strings.Repeat(" ", f.LabelWidth+2)
	}
	mark := " "
	switch {
	case row.ID == f.Cursor:
		mark = "›"
	case row.Selected:
		mark = "•"
	}
	fold := "  "
	if row.HasChildren {
		fold = "▾ "
		if !row.Expanded {
			fold = "▸ "
		}
	}
	text := Truncate(strings.Repeat("  ", row.Level)+fold+row.Title, f.LabelWidth)
	text += strings.Repeat(" ", f.LabelWidth-lipgloss.Width(text))
	switch {
	case row.ID == f.Cursor:
		text = StyleCursor.Render(text)
	case row.Selected:
		text = StyleYellow.Render(text)
	}
	return mark + text + " "
}

func renderBars(f Frame, row FrameRow, cols int) string {
	c := newCanvas(cols)
	if row.Empty {
		return c.String()
	}
	pointStyle := StyleYellow
	for _, bar := range row.Bars {
		st := BarStyle(bar.Kind, bar.Color, bar.Moving || bar.Focused)
		c0 := f.Column(bar.X)
		if bar.Kind == "same-date" {
			c.set(c0, glyphSameDate, &st)
		} else {
			glyph := glyphBar
			switch {
			case bar.Moving:
				glyph = glyphMoving
			case bar.Kind == "parent":
				glyph = glyphParent
			}
			c1 := max(c0, f.lastColumn(bar.X+bar.Width))
			for col := max(c0, 0); col <= min(c1, cols-1); col++ {
				c.set(col, glyph, &st)
			}
			c0 = c1
		}
		for _, p := range bar.Points {
			c.set(f.Column(p), glyphPoint, &pointStyle)
		}
		if bar.Label != "" {
			text := []rune(bar.Label)
			from := c0 + 2
			if c.free(from-1, from+len(text)-1) {
				for i, r := range text {
					c.set(from+i, r, &StyleDim)
				}
			}
		}
	}
	return c.String()
}

// renderAxis labels day boundaries, thinning them so labels never collide.
func renderAxis(f Frame, cols int) (ticks, rule string) {
	labels := newCanvas(cols)
	line := make([]rune, cols)
	for i := range line {
		line[i] = '─'
	}
	if cols == 0 || f.Scale.PerHourSpacing <= 0 {
		return labels.String(), string(line)
	}

	const labelLayout = "Jan 02"
	dayCols := 24 * f.Scale.PerHourSpacing / f.CellWidth
	step := max(1, int(math.Ceil(float64(len(labelLayout)+1)/dayCols)))

	day := f.Scale.DateAt(f.ScrollLeft).UTC().Truncate(24 * time.Hour)
	if f.Scale.X(day) < f.ScrollLeft {
		day = day.AddDate(0, 0, 1)
	}
	for ; ; day = day.AddDate(0, 0, step) {
		col := f.Column(f.Scale.X(day))
		if col >= cols {
			break
		}
		line[col] = '┬'
		text := []rune(day.Format(labelLayout))
		if col+len(text) <= cols {
			for i, r := range text {
				labels.set(col+i, r, &StyleDim)
			}
		}
	}
	return labels.String(), Dim(string(line))
}
