package cli

import (
	"github.com/alexanderramin/ganttline/internal/cli/formatter"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt"
	"github.com/alexanderramin/ganttline/internal/gantt/timeline"
)

const labelWidth = 24

func newEngine(app *App, listener gantt.Listener, padded bool) *gantt.Engine {
	opts := app.Config.EngineOptions()
	opts.Listener = listener
	opts.Observer = app.Observer
	if padded {
		opts.EmptyRows = gantt.NewEmptyRows
	}
	return gantt.New(opts)
}

func cellWidth(app *App) float64 {
	if app.Config.CellWidth > 0 {
		return app.Config.CellWidth
	}
	return 12
}

// frameOf captures the rows and segments inside the engine's window, overscan
// excluded.
func frameOf(e *gantt.Engine, cell float64, cursor, focus string) formatter.Frame {
	left, top := e.Scroll()
	width, height := e.Size()
	rowHeight := e.Options().RowHeight
	f := formatter.Frame{
		Scale:      e.Scale(),
		ScrollLeft: left,
		Width:      width,
		CellWidth:  cell,
		LabelWidth: labelWidth,
		Cursor:     cursor,
	}
	for _, vr := range e.VisibleRows() {
		if vr.TranslateY+rowHeight <= top || vr.TranslateY >= top+height {
			continue
		}
		n := vr.Node
		row := formatter.FrameRow{
			ID:          vr.ID,
			Title:       domain.CoalesceStr(n.Data.Title, n.ID),
			Level:       n.Level,
			HasChildren: n.HasChildren,
			Expanded:    n.Expand,
			Empty:       n.IsEmpty,
			Selected:    e.IsSelected(vr.ID),
		}
		for _, vt := range e.TimeLines(vr.ID) {
			bar := formatter.Bar{
				X:       vt.TranslateX,
				Width:   vt.Width,
				Kind:    vt.Type.String(),
				Label:   vt.Label,
				Color:   vt.Color,
				Moving:  vt.Moving,
				Focused: vr.ID == cursor && vt.ID == focus,
			}
			if bar.Color == timeline.ParentColor {
				bar.Color = ""
			}
			for _, p := range vt.Points {
				bar.Points = append(bar.Points, vt.TranslateX+p.TranslateX)
			}
			row.Bars = append(row.Bars, bar)
		}
		f.Rows = append(f.Rows, row)
	}
	return f
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
