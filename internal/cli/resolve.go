package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/repository"
)

// resolveChart finds a chart by exact id, exact name, then unique id prefix.
func resolveChart(ctx context.Context, app *App, input string) (*domain.Chart, error) {
	if input == "" {
		return nil, fmt.Errorf("chart is required")
	}

	c, err := app.Charts.Resolve(ctx, input)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	charts, err := app.Charts.List(ctx)
	if err != nil {
		return nil, err
	}
	var matches []*domain.Chart
	for _, c := range charts {
		if strings.HasPrefix(c.ID, input) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("chart not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("chart ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
