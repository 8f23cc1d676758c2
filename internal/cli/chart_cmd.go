package cli

import (
	"fmt"

	"github.com/alexanderramin/ganttline/internal/cli/formatter"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/spf13/cobra"
)

func newChartCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Manage charts",
	}

	cmd.AddCommand(
		newChartListCmd(app),
		newChartCreateCmd(app),
		newChartDeleteCmd(app),
	)

	return cmd
}

func newChartListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			charts, err := app.Charts.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(charts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No charts yet. Create one with `ganttline chart create` or `ganttline import`."))
				return nil
			}

			rows := make([][]string, 0, len(charts))
			for _, c := range charts {
				rows = append(rows, []string{
					formatter.Dim(shortID(c.ID)),
					c.Name,
					formatter.HumanTimestamp(c.UpdatedAt),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "NAME", "UPDATED"}, rows))
			return nil
		},
	}
}

func newChartCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &domain.Chart{Name: args[0]}
			if err := app.Charts.Create(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created chart %s (%s)\n", c.Name, shortID(c.ID))
			return nil
		},
	}
}

func newChartDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <chart>",
		Short: "Delete a chart with all of its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveChart(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Charts.Delete(cmd.Context(), c.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted chart %s\n", c.Name)
			return nil
		},
	}
}
