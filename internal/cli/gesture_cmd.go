package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/alexanderramin/ganttline/internal/cli/formatter"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt"
	"github.com/alexanderramin/ganttline/internal/gantt/drag"
	"github.com/alexanderramin/ganttline/internal/gantt/timeline"
	"github.com/alexanderramin/ganttline/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// headless runs one gesture against a chart loaded into an engine whose
// window covers the whole chart, so no auto-scroll is needed.
type headless struct {
	chart     *domain.Chart
	engine    *gantt.Engine
	persister *service.Persister
}

func openHeadless(ctx context.Context, app *App, chartRef string, travel float64) (*headless, error) {
	c, err := resolveChart(ctx, app, chartRef)
	if err != nil {
		return nil, err
	}
	rows, err := app.Data.LoadRows(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	p := service.NewPersister(ctx, c.ID, app.Data)
	e := newEngine(app, p, false)
	if err := e.SetRows(rows); err != nil {
		return nil, err
	}
	opts := e.Options()
	e.Resize(e.ChartWidth()+math.Abs(travel)+opts.BufferWidth, max(e.ContentHeight(), opts.RowHeight))
	return &headless{chart: c, engine: e, persister: p}, nil
}

// run drives the gesture from x to x+travel in one step and commits it.
func (h *headless) run(x, travel float64) error {
	if err := h.engine.Drag(x + travel); err != nil {
		return err
	}
	if err := h.engine.EndDrag(); err != nil {
		return err
	}
	return h.persister.Err()
}

func parsePixels(s string) (float64, error) {
	px, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pixel offset %q: %w", s, err)
	}
	return px, nil
}

// printRow reports the row's segments as the engine now sees them.
func (h *headless) printRow(cmd *cobra.Command, rowID string) {
	out := cmd.OutOrStdout()
	for _, vt := range h.engine.TimeLines(rowID) {
		segs := []*timeline.Node{vt.Node}
		if vt.Node.IsMerge {
			segs = vt.Node.Members
		}
		for _, seg := range segs {
			fmt.Fprintf(out, "  %s  %s\n", formatter.Bold(seg.ID), formatter.FormatSpan(seg.Start, seg.End))
			for _, p := range seg.Points {
				fmt.Fprintf(out, "    %s %s\n", formatter.Dim("● "+p.ID), formatter.FormatInstant(p.Date))
			}
		}
	}
}

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <chart> <row> <segment> <px>",
		Short: "Move a segment by a pixel offset and save the result",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			travel, err := parsePixels(args[3])
			if err != nil {
				return err
			}
			h, err := openHeadless(cmd.Context(), app, args[0], travel)
			if err != nil {
				return err
			}
			x, err := segmentX(h.engine, args[1], args[2], drag.Left)
			if err != nil {
				return err
			}
			if err := h.engine.BeginMove(args[1], args[2], x); err != nil {
				return err
			}
			if err := h.run(x, travel); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s on %s\n", args[2], args[1])
			h.printRow(cmd, args[1])
			return nil
		},
	}
}

func newStretchCmd(app *App) *cobra.Command {
	side := sideValue(drag.Right)

	cmd := &cobra.Command{
		Use:   "stretch <chart> <row> <segment> <px>",
		Short: "Drag one edge of a segment by a pixel offset and save the result",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			travel, err := parsePixels(args[3])
			if err != nil {
				return err
			}
			h, err := openHeadless(cmd.Context(), app, args[0], travel)
			if err != nil {
				return err
			}
			x, err := segmentX(h.engine, args[1], args[2], drag.Side(side))
			if err != nil {
				return err
			}
			if err := h.engine.BeginStretch(args[1], args[2], drag.Side(side), x); err != nil {
				return err
			}
			if err := h.run(x, travel); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stretched %s edge of %s on %s\n", drag.Side(side), args[2], args[1])
			h.printRow(cmd, args[1])
			return nil
		},
	}

	cmd.Flags().Var(&side, "side", "Edge to drag (left|right)")

	return cmd
}

func newPointCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "point <chart> <row> <segment> <point> <px>",
		Short: "Slide a time point along its segment and save the result",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			travel, err := parsePixels(args[4])
			if err != nil {
				return err
			}
			h, err := openHeadless(cmd.Context(), app, args[0], travel)
			if err != nil {
				return err
			}
			x, err := segmentX(h.engine, args[1], args[2], drag.Left)
			if err != nil {
				return err
			}
			if err := h.engine.BeginPointDrag(args[1], args[2], args[3], x); err != nil {
				return err
			}
			if err := h.run(x, travel); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved point %s on %s\n", args[3], args[2])
			h.printRow(cmd, args[1])
			return nil
		},
	}
}

// sideValue is the --side flag.
type sideValue drag.Side

var _ pflag.Value = (*sideValue)(nil)

func (s *sideValue) String() string { return drag.Side(*s).String() }

func (s *sideValue) Set(v string) error {
	switch v {
	case "left":
		*s = sideValue(drag.Left)
	case "right":
		*s = sideValue(drag.Right)
	default:
		return fmt.Errorf("invalid side %q (want left or right)", v)
	}
	return nil
}

func (*sideValue) Type() string { return "side" }

// segmentX returns the viewport-relative pixel of a segment's edge, where a
// pointer would grab it.
func segmentX(e *gantt.Engine, rowID, segID string, side drag.Side) (float64, error) {
	for _, vt := range e.TimeLines(rowID) {
		if vt.ID != segID && !isMember(vt.Node, segID) {
			continue
		}
		left, _ := e.Scroll()
		if side == drag.Right {
			return vt.Right() - left, nil
		}
		return vt.TranslateX - left, nil
	}
	return 0, fmt.Errorf("%s/%s: %w", rowID, segID, gantt.ErrUnknownSegment)
}

func isMember(n *timeline.Node, id string) bool {
	if n == nil || !n.IsMerge {
		return false
	}
	for _, m := range n.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}
