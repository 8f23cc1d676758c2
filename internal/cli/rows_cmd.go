package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ganttline/internal/cli/formatter"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/spf13/cobra"
)

func newRowsCmd(app *App) *cobra.Command {
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "rows <chart>",
		Short: "Print a chart's row tree with segment spans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveChart(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			rows, err := app.Data.LoadRows(cmd.Context(), c.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Header(c.Name))
			if len(rows) == 0 {
				fmt.Fprintln(out, formatter.Dim("No rows."))
				return nil
			}
			fmt.Fprint(out, formatter.RenderTree(treeItems(rows, showIDs)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showIDs, "ids", false, "Show row and segment ids")

	return cmd
}

// treeItems flattens rows in preorder. Rows with segments list each one on
// its own line below the row.
func treeItems(rows []domain.Row, showIDs bool) []formatter.TreeItem {
	var items []formatter.TreeItem
	var walk func(rows []domain.Row, level int)
	walk = func(rows []domain.Row, level int) {
		for i, r := range rows {
			last := i == len(rows)-1
			title := domain.CoalesceStr(r.Title, r.ID)
			if showIDs {
				title += formatter.Dim(" [" + r.ID + "]")
			}
			item := formatter.TreeItem{Title: title, Level: level, IsLast: last}
			if start, end, ok := rowSpan(r); ok {
				item.Detail = formatter.FormatSpan(start, end)
			}
			items = append(items, item)

			if len(r.Children) > 0 {
				walk(r.Children, level+1)
				continue
			}
			if len(r.TimeLines) > 1 || showIDs {
				for j, tl := range r.TimeLines {
					items = append(items, formatter.TreeItem{
						Title:  segmentTitle(tl, showIDs),
						Level:  level + 1,
						IsLast: j == len(r.TimeLines)-1,
						Detail: formatter.FormatSpan(tl.Start, tl.End),
					})
				}
			}
		}
	}
	walk(rows, 0)
	return items
}

func segmentTitle(tl domain.TimeLine, showIDs bool) string {
	var parts []string
	if tl.Icon != "" {
		parts = append(parts, tl.Icon)
	}
	parts = append(parts, formatter.Dim(domain.CoalesceStr(tl.Label, "segment")))
	if showIDs {
		parts = append(parts, formatter.Dim("["+tl.ID+"]"))
	}
	if n := len(tl.Points); n > 0 {
		parts = append(parts, formatter.Dim(fmt.Sprintf("%d points", n)))
	}
	if tl.DisableMove || tl.DisableStretch {
		parts = append(parts, formatter.StyleRed.Render("locked"))
	}
	return strings.Join(parts, " ")
}

// rowSpan returns the span of a row's own segments and its descendants'.
func rowSpan(r domain.Row) (start, end time.Time, ok bool) {
	for _, tl := range r.TimeLines {
		if !ok || tl.Start.Before(start) {
			start = tl.Start
		}
		if !ok || tl.End.After(end) {
			end = tl.End
		}
		ok = true
	}
	for _, c := range r.Children {
		cs, ce, cok := rowSpan(c)
		if !cok {
			continue
		}
		if !ok || cs.Before(start) {
			start = cs
		}
		if !ok || ce.After(end) {
			end = ce
		}
		ok = true
	}
	return start, end, ok
}
