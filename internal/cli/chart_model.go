package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/ganttline/internal/cli/formatter"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt"
	"github.com/alexanderramin/ganttline/internal/gantt/drag"
	"github.com/alexanderramin/ganttline/internal/gantt/viewport"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// chrome is the number of terminal lines around the chart rows: the title,
// the two axis lines, the status line and the help line.
const chrome = 5

// frameInterval paces auto-scroll while a gesture sits at the window edge.
const frameInterval = 40 * time.Millisecond

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureMove
	gestureStretch
	gesturePoint
)

func (g gestureKind) String() string {
	switch g {
	case gestureMove:
		return "moving"
	case gestureStretch:
		return "stretching"
	case gesturePoint:
		return "dragging point"
	default:
		return ""
	}
}

type (
	rowsLoadedMsg struct {
		rows   []domain.Row
		reload bool
		err    error
	}
	fileChangedMsg struct{}
	frameMsg       struct{}
	spanSavedMsg   struct {
		id  string
		err error
	}
)

// chartModel is the interactive chart viewer. The keyboard stands in for the
// pointer: a gesture starts at the focused segment and each arrow press
// moves the virtual pointer by one terminal column.
type chartModel struct {
	ctx    context.Context
	source rowSource
	engine *gantt.Engine
	cell   float64
	help   help.Model

	width, height int
	loaded        bool

	cursor     string
	focus      int // index into the cursor row's segments
	pointFocus int

	gesture  gestureKind
	pointerX float64
	ticking  bool

	form *huh.Form
	edit *spanEdit

	changes <-chan struct{}

	status string
	err    error
}

func newChartModel(ctx context.Context, app *App, source rowSource, changes <-chan struct{}) *chartModel {
	return &chartModel{
		ctx:     ctx,
		source:  source,
		engine:  newEngine(app, source.Listener(), true),
		cell:    cellWidth(app),
		help:    help.New(),
		changes: changes,
	}
}

func (m *chartModel) Init() tea.Cmd {
	return tea.Batch(m.loadRows(false), m.waitForChange())
}

func (m *chartModel) loadRows(reload bool) tea.Cmd {
	return func() tea.Msg {
		rows, err := m.source.Load(m.ctx)
		return rowsLoadedMsg{rows: rows, reload: reload, err: err}
	}
}

// waitForChange blocks on the file watcher. It returns nil when the viewer
// is not watching anything.
func (m *chartModel) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

func (m *chartModel) tick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m *chartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case rowsLoadedMsg:
		m.applyRows(msg)
		return m, nil

	case fileChangedMsg:
		return m, tea.Batch(m.loadRows(true), m.waitForChange())

	case frameMsg:
		if m.gesture == gestureNone || !m.engine.Tick() {
			m.ticking = false
			return m, nil
		}
		return m, m.tick()

	case spanSavedMsg:
		if msg.err != nil {
			m.setErr(msg.err)
		} else {
			m.status = "Saved " + shortID(msg.id)
		}
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		if m.gesture != gestureNone {
			return m.updateGesture(msg)
		}
		return m.updateBrowse(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m *chartModel) applyRows(msg rowsLoadedMsg) {
	if msg.err != nil {
		m.setErr(msg.err)
		return
	}
	if m.gesture != gestureNone {
		m.engine.CancelDrag()
		m.gesture = gestureNone
	}
	if err := m.engine.SetRows(msg.rows); err != nil {
		m.setErr(err)
		return
	}
	m.loaded = true
	m.err = nil
	if msg.reload {
		m.status = "Reloaded"
	}
	if !slices.Contains(m.rowIDs(), m.cursor) {
		m.cursor = ""
		if ids := m.rowIDs(); len(ids) > 0 {
			m.cursor = ids[0]
		}
		m.focus, m.pointFocus = 0, 0
	}
	m.followCursor()
}

// resize maps the terminal size onto the engine's pixel viewport.
func (m *chartModel) resize() {
	cols := max(m.width-(labelWidth+2), 1)
	rows := max(m.height-chrome, 1)
	m.engine.Resize(float64(cols)*m.cell, float64(rows)*m.engine.Options().RowHeight)
	m.followCursor()
}

// rowIDs returns the visible dataset rows, padding excluded.
func (m *chartModel) rowIDs() []string {
	nodes := m.engine.RowNodeMap()
	var ids []string
	for _, id := range m.engine.VisibleRowIDs() {
		if n := nodes[id]; n != nil && !n.IsEmpty {
			ids = append(ids, id)
		}
	}
	return ids
}

func (m *chartModel) moveCursor(delta int) {
	ids := m.rowIDs()
	if len(ids) == 0 {
		return
	}
	i := slices.Index(ids, m.cursor)
	i = min(max(i+delta, 0), len(ids)-1)
	if ids[i] != m.cursor {
		m.cursor = ids[i]
		m.focus, m.pointFocus = 0, 0
	}
	m.followCursor()
}

// followCursor scrolls vertically until the cursor row is inside the
// window.
func (m *chartModel) followCursor() {
	i := slices.Index(m.engine.VisibleRowIDs(), m.cursor)
	if i < 0 {
		return
	}
	rowHeight := m.engine.Options().RowHeight
	left, top := m.engine.Scroll()
	_, h := m.engine.Size()
	y := float64(i) * rowHeight
	switch {
	case y < top:
		m.engine.ScrollTo(left, y)
	case y+rowHeight > top+h:
		m.engine.ScrollTo(left, y+rowHeight-h)
	}
}

func (m *chartModel) scrollBy(dx, dy float64) {
	left, top := m.engine.Scroll()
	m.engine.ScrollTo(max(left+dx, 0), max(top+dy, 0))
}

// segments returns the cursor row's projected segments, left to right.
func (m *chartModel) segments() []*viewport.VisibleTimeLine {
	segs := slices.Clone(m.engine.TimeLines(m.cursor))
	slices.SortStableFunc(segs, func(a, b *viewport.VisibleTimeLine) int {
		switch {
		case a.TranslateX < b.TranslateX:
			return -1
		case a.TranslateX > b.TranslateX:
			return 1
		}
		return 0
	})
	return segs
}

func (m *chartModel) focused() *viewport.VisibleTimeLine {
	segs := m.segments()
	if len(segs) == 0 {
		return nil
	}
	return segs[m.focus%len(segs)]
}

func (m *chartModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rowHeight := m.engine.Options().RowHeight
	_, h := m.engine.Size()
	m.status = ""

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, keys.PageUp):
		m.moveCursor(-max(int(h/rowHeight), 1))
	case key.Matches(msg, keys.PageDown):
		m.moveCursor(max(int(h/rowHeight), 1))
	case key.Matches(msg, keys.Left):
		m.scrollBy(-4*m.cell, 0)
	case key.Matches(msg, keys.Right):
		m.scrollBy(4*m.cell, 0)
	case key.Matches(msg, keys.Toggle):
		if n, ok := m.engine.Tree().Get(m.cursor); ok && n.HasChildren {
			m.engine.SetExpand(n.ID, !n.Expand)
			m.followCursor()
		}
	case key.Matches(msg, keys.ExpandAll):
		m.engine.ExpandAll()
		m.followCursor()
	case key.Matches(msg, keys.Select):
		m.engine.Select(m.cursor, false, false)
	case key.Matches(msg, keys.SelectToggle):
		m.engine.Select(m.cursor, true, false)
	case key.Matches(msg, keys.SelectRange):
		m.engine.Select(m.cursor, false, true)
	case key.Matches(msg, keys.NextSegment):
		if n := len(m.segments()); n > 0 {
			m.focus = (m.focus + 1) % n
			m.pointFocus = 0
		}
	case key.Matches(msg, keys.NextPoint):
		m.pointFocus++
	case key.Matches(msg, keys.Move):
		m.beginGesture(gestureMove, drag.Left)
	case key.Matches(msg, keys.StretchLeft):
		m.beginGesture(gestureStretch, drag.Left)
	case key.Matches(msg, keys.StretchRight):
		m.beginGesture(gestureStretch, drag.Right)
	case key.Matches(msg, keys.Point):
		m.beginGesture(gesturePoint, drag.Left)
	case key.Matches(msg, keys.Edit):
		return m, m.openForm()
	case key.Matches(msg, keys.Reload):
		return m, m.loadRows(true)
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// beginGesture grabs the focused segment at the pixel a pointer would use.
func (m *chartModel) beginGesture(kind gestureKind, side drag.Side) {
	vt := m.focused()
	if vt == nil {
		m.status = "No segment on this row"
		return
	}
	left, _ := m.engine.Scroll()
	x := vt.TranslateX - left
	var err error
	switch kind {
	case gestureMove:
		err = m.engine.BeginMove(m.cursor, vt.ID, x)
	case gestureStretch:
		if side == drag.Right {
			x += vt.Width
		}
		err = m.engine.BeginStretch(m.cursor, vt.ID, side, x)
	case gesturePoint:
		if len(vt.Points) == 0 {
			m.status = "No points on this segment"
			return
		}
		p := vt.Points[m.pointFocus%len(vt.Points)]
		x += p.TranslateX
		err = m.engine.BeginPointDrag(m.cursor, vt.ID, p.ID, x)
	}
	if err != nil {
		m.setErr(err)
		return
	}
	m.gesture = kind
	m.pointerX = x
	m.err = nil
}

func (m *chartModel) updateGesture(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := 0.0
	switch {
	case key.Matches(msg, keys.Left):
		step = -m.cell
	case key.Matches(msg, keys.Right):
		step = m.cell
	case key.Matches(msg, keys.Commit):
		m.endGesture(true)
		return m, nil
	case key.Matches(msg, keys.Cancel):
		m.endGesture(false)
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		m.engine.CancelDrag()
		return m, tea.Quit
	default:
		return m, nil
	}

	m.pointerX += step
	if err := m.engine.Drag(m.pointerX); err != nil {
		m.setErr(err)
		return m, nil
	}
	if m.ticking || m.gesture == gesturePoint {
		return m, nil
	}
	// The first drag near an edge arms auto-scroll; keep ticking while the
	// engine reports it is still scrolling.
	m.ticking = true
	return m, m.tick()
}

func (m *chartModel) endGesture(commit bool) {
	verb := m.gesture.String()
	m.gesture = gestureNone
	m.ticking = false
	if !commit {
		m.engine.CancelDrag()
		m.status = "Cancelled"
		return
	}
	if err := m.engine.EndDrag(); err != nil {
		m.setErr(err)
		return
	}
	if err := m.source.Err(); err != nil {
		m.setErr(err)
		return
	}
	m.status = "Done " + verb
}

func (m *chartModel) openForm() tea.Cmd {
	vt := m.focused()
	if vt == nil {
		m.status = "No segment on this row"
		return nil
	}
	if vt.Node.HasChildren {
		m.status = "Parent spans follow their children"
		return nil
	}
	m.form, m.edit = newSpanForm(m.cursor, vt.Node)
	return m.form.Init()
}

func (m *chartModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.form, m.edit = nil, nil
		m.status = "Cancelled"
		return m, nil
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		edit := m.edit
		m.form, m.edit = nil, nil
		return m, tea.Batch(cmd, m.applySpan(edit))
	case huh.StateAborted:
		m.form, m.edit = nil, nil
		m.status = "Cancelled"
	}
	return m, cmd
}

// applySpan installs the typed span in the engine and hands it to the source
// to persist.
func (m *chartModel) applySpan(edit *spanEdit) tea.Cmd {
	start, end, err := edit.parse()
	if err != nil {
		m.setErr(err)
		return nil
	}
	n, ok := m.engine.Tree().Get(edit.RowID)
	if !ok {
		m.setErr(fmt.Errorf("unknown row %q", edit.RowID))
		return nil
	}
	row, ok := withSpan(n.Data, edit.TimeLineID, start, end)
	if !ok {
		m.setErr(fmt.Errorf("unknown segment %q", edit.TimeLineID))
		return nil
	}
	m.engine.FreshRowNodes([]domain.Row{row})
	m.status = "Saving " + shortID(edit.TimeLineID)
	id := edit.TimeLineID
	return func() tea.Msg {
		return spanSavedMsg{id: id, err: m.source.SetSpan(m.ctx, id, start, end)}
	}
}

func (m *chartModel) setErr(err error) {
	m.err = err
	m.status = ""
}

func (m *chartModel) View() string {
	var b strings.Builder
	title := formatter.Header(m.source.Title())
	if m.gesture != gestureNone {
		title += "  " + formatter.StyleYellowBold.Render(m.gesture.String())
	}
	b.WriteString(title + "\n")

	if m.form != nil {
		b.WriteString(m.form.View())
		b.WriteString("\n" + formatter.Dim("enter next · esc cancel"))
		return b.String()
	}

	if !m.loaded {
		if m.err != nil {
			b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
		} else {
			b.WriteString(formatter.Dim("Loading…") + "\n")
		}
		return b.String()
	}

	focus := ""
	if vt := m.focused(); vt != nil {
		focus = vt.ID
	}
	b.WriteString(formatter.RenderChart(frameOf(m.engine, m.cell, m.cursor, focus)))

	b.WriteString(m.statusLine() + "\n")
	if m.gesture != gestureNone {
		b.WriteString(m.help.View(dragKeys{keys}))
	} else {
		b.WriteString(m.help.View(keys))
	}
	return b.String()
}

func (m *chartModel) statusLine() string {
	if m.err != nil {
		msg := m.err.Error()
		if errors.Is(m.err, gantt.ErrUnknownSegment) {
			msg = "segment is outside the window"
		}
		return formatter.StyleRed.Render("Error: " + msg)
	}
	if m.status != "" {
		return formatter.StyleGreen.Render(m.status)
	}
	if vt := m.focused(); vt != nil {
		return formatter.Dim(fmt.Sprintf("%s  %s", shortID(vt.ID), formatter.FormatSpan(vt.Start, vt.End)))
	}
	return ""
}
