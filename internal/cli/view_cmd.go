package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newViewCmd(app *App) *cobra.Command {
	var file string
	var watch bool

	cmd := &cobra.Command{
		Use:   "view [chart]",
		Short: "Browse and edit a chart interactively",
		Long: `Browse and edit a chart interactively.

Pass a chart name or id to edit a stored chart; gestures are saved as they
finish. With --file the rows come straight from a dataset file and edits
stay in memory. --watch reloads the file whenever it changes on disk.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return errors.New("view needs an interactive terminal")
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			source, changes, err := viewSource(ctx, app, args, file, watch)
			if err != nil {
				return err
			}
			m := newChartModel(ctx, app, source, changes)
			if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				return fmt.Errorf("chart viewer: %w", err)
			}
			return source.Err()
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read rows from a YAML or JSON dataset file")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload --file when it changes")

	return cmd
}

// viewSource picks the row source from the arguments. changes is nil unless
// a file is watched.
func viewSource(ctx context.Context, app *App, args []string, file string, watch bool) (rowSource, <-chan struct{}, error) {
	switch {
	case file != "" && len(args) > 0:
		return nil, nil, errors.New("pass either a chart or --file, not both")
	case file != "":
		var changes <-chan struct{}
		if watch {
			ch, err := watchFile(ctx, file)
			if err != nil {
				return nil, nil, err
			}
			changes = ch
		}
		return &fileSource{path: file}, changes, nil
	case watch:
		return nil, nil, errors.New("--watch needs --file")
	case len(args) == 0:
		return nil, nil, errors.New("pass a chart name or id, or --file")
	}
	c, err := resolveChart(ctx, app, args[0])
	if err != nil {
		return nil, nil, err
	}
	return newStoreSource(ctx, c, app.Data), nil, nil
}
