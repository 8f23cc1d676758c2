package cli

import (
	"fmt"

	"github.com/alexanderramin/ganttline/internal/cli/formatter"
	"github.com/alexanderramin/ganttline/internal/gantt"
	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	var scrollLeft, scrollTop float64
	var width, height int
	var collapse []string

	cmd := &cobra.Command{
		Use:   "show <chart>",
		Short: "Render one windowed frame of a chart as text",
		Long: `Render one windowed frame of a chart as text.

--width and --height are in terminal cells; --scroll-left and --scroll-top
are chart pixels, as the engine sees them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveChart(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			rows, err := app.Data.LoadRows(cmd.Context(), c.ID)
			if err != nil {
				return err
			}

			e := newEngine(app, gantt.NoopListener{}, false)
			if err := e.SetRows(rows); err != nil {
				return err
			}
			for _, id := range collapse {
				if !e.SetExpand(id, false) {
					return fmt.Errorf("unknown row %q", id)
				}
			}
			cell := cellWidth(app)
			e.Resize(float64(width)*cell, float64(height)*e.Options().RowHeight)
			e.ScrollTo(scrollLeft, scrollTop)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Header(c.Name))
			fmt.Fprint(out, formatter.RenderChart(frameOf(e, cell, "", "")))
			left, top := e.Scroll()
			fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("scroll %.0f,%.0f of %.0fx%.0f px · %d rows",
				left, top, e.ChartWidth(), e.ContentHeight(), len(e.VisibleRowIDs()))))
			return nil
		},
	}

	cmd.Flags().Float64Var(&scrollLeft, "scroll-left", 0, "Horizontal scroll offset in chart pixels")
	cmd.Flags().Float64Var(&scrollTop, "scroll-top", 0, "Vertical scroll offset in chart pixels")
	cmd.Flags().IntVar(&width, "width", 80, "Chart width in terminal columns")
	cmd.Flags().IntVar(&height, "height", 20, "Chart height in rows")
	cmd.Flags().StringSliceVar(&collapse, "collapse", nil, "Row ids to collapse before rendering")

	return cmd
}
