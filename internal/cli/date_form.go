package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/ganttline/internal/cli/formatter"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt/timeline"
	"github.com/alexanderramin/ganttline/internal/importer"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// huhTheme is the huh base theme recoloured with the gruvbox palette.
func huhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// spanEdit holds the values bound to the date form.
type spanEdit struct {
	RowID      string
	TimeLineID string
	Start      string
	End        string
}

// parse returns the typed span, checking that it does not run backwards.
func (s *spanEdit) parse() (time.Time, time.Time, error) {
	start, err := importer.ParseInstant(s.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := importer.ParseInstant(s.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end is before start")
	}
	return start, end, nil
}

// instantInput formats t the way ParseInstant reads it back.
func instantInput(t time.Time) string {
	t = t.UTC()
	if t.Equal(t.Truncate(24 * time.Hour)) {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

func validateInstant(s string) error {
	_, err := importer.ParseInstant(s)
	return err
}

// newSpanForm builds the form that retypes the dates of a segment. A merged
// segment first asks which member to edit.
func newSpanForm(rowID string, seg *timeline.Node) (*huh.Form, *spanEdit) {
	members := []*timeline.Node{seg}
	if seg.IsMerge {
		members = seg.Members
	}
	first := members[0]
	edit := &spanEdit{
		RowID:      rowID,
		TimeLineID: first.ID,
		Start:      instantInput(first.Start),
		End:        instantInput(first.End),
	}

	var fields []huh.Field
	if len(members) > 1 {
		options := make([]huh.Option[string], 0, len(members))
		for _, m := range members {
			label := fmt.Sprintf("%s  %s", domain.CoalesceStr(m.Label, m.ID), formatter.FormatSpan(m.Start, m.End))
			options = append(options, huh.NewOption(label, m.ID))
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Which segment?").
			Options(options...).
			Value(&edit.TimeLineID))
	}
	fields = append(fields,
		huh.NewInput().
			Title("Start").
			Placeholder("YYYY-MM-DD").
			Value(&edit.Start).
			Validate(validateInstant),
		huh.NewInput().
			Title("End").
			Placeholder("YYYY-MM-DD").
			Value(&edit.End).
			Validate(func(s string) error {
				end, err := importer.ParseInstant(s)
				if err != nil {
					return err
				}
				if start, err := importer.ParseInstant(edit.Start); err == nil && end.Before(start) {
					return fmt.Errorf("end is before start")
				}
				return nil
			}),
	)

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huhTheme()).WithShowHelp(false)
	return form, edit
}

// withSpan returns a copy of row whose timeline id has the new span, its
// points clamped inside it.
func withSpan(row domain.Row, id string, start, end time.Time) (domain.Row, bool) {
	tls := make([]domain.TimeLine, len(row.TimeLines))
	copy(tls, row.TimeLines)
	found := false
	for i := range tls {
		if tls[i].ID != id {
			continue
		}
		found = true
		tls[i].Start, tls[i].End = start, end
		pts := make([]domain.TimePoint, len(tls[i].Points))
		for j, p := range tls[i].Points {
			if p.At.Before(start) {
				p.At = start
			}
			if p.At.After(end) {
				p.At = end
			}
			pts[j] = p
		}
		tls[i].Points = pts
	}
	row.TimeLines = tls
	return row, found
}
