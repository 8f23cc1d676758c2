package cli

import (
	"github.com/alexanderramin/ganttline/internal/config"
	"github.com/alexanderramin/ganttline/internal/gantt"
	"github.com/alexanderramin/ganttline/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings CLI commands run against.
type App struct {
	Charts service.ChartService
	Data   service.DatasetService
	Import service.ImportService

	Config   config.Config
	Observer gantt.Observer

	// IsInteractive reports whether stdin is a terminal. The chart viewer
	// refuses to start without one.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "ganttline" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "ganttline",
		Short:         "Windowed gantt timelines in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newChartCmd(app),
		newImportCmd(app),
		newRowsCmd(app),
		newShowCmd(app),
		newMoveCmd(app),
		newStretchCmd(app),
		newPointCmd(app),
		newViewCmd(app),
	)

	return root
}
