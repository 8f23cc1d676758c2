package service

import (
	"context"
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt"
	"github.com/alexanderramin/ganttline/internal/importer"
)

type ChartService interface {
	Create(ctx context.Context, c *domain.Chart) error
	GetByID(ctx context.Context, id string) (*domain.Chart, error)
	// Resolve looks a chart up by id, then by name.
	Resolve(ctx context.Context, ref string) (*domain.Chart, error)
	List(ctx context.Context) ([]*domain.Chart, error)
	Delete(ctx context.Context, id string) error
}

// DatasetService loads a chart's rows for the engine and persists the edits
// the engine reports.
type DatasetService interface {
	// LoadRows returns the chart's rows nested, each with its timelines and
	// their points.
	LoadRows(ctx context.Context, chartID string) ([]domain.Row, error)
	ApplyMove(ctx context.Context, chartID string, moved []gantt.MovedTimeLine) error
	// ApplyStretch moves one edge of every listed timeline. Exactly one of
	// start and end is set.
	ApplyStretch(ctx context.Context, chartID string, ids []string, start, end *time.Time) error
	ApplyPointMove(ctx context.Context, chartID, pointID string, at time.Time) error
	// SetSpan replaces a timeline's span outright, dragging its points back
	// inside.
	SetSpan(ctx context.Context, chartID, timelineID string, start, end time.Time) error
}

// ImportResult holds the outcome of a chart import.
type ImportResult struct {
	Chart         *domain.Chart
	RowCount      int
	TimeLineCount int
	PointCount    int
}

type ImportService interface {
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
	ImportSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
