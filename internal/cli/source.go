package cli

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt"
	"github.com/alexanderramin/ganttline/internal/importer"
	"github.com/alexanderramin/ganttline/internal/service"
)

// rowSource is where the viewer's rows come from and where its edits go.
type rowSource interface {
	Title() string
	Load(ctx context.Context) ([]domain.Row, error)
	// Listener returns the engine listener that records committed gestures.
	Listener() gantt.Listener
	// SetSpan saves a span typed into the date form.
	SetSpan(ctx context.Context, timelineID string, start, end time.Time) error
	// Err drains write errors recorded since the last call.
	Err() error
}

// storeSource reads and writes a chart in the database.
type storeSource struct {
	chart     *domain.Chart
	data      service.DatasetService
	persister *service.Persister
}

func newStoreSource(ctx context.Context, chart *domain.Chart, data service.DatasetService) *storeSource {
	return &storeSource{
		chart:     chart,
		data:      data,
		persister: service.NewPersister(ctx, chart.ID, data),
	}
}

func (s *storeSource) Title() string { return s.chart.Name }

func (s *storeSource) Load(ctx context.Context) ([]domain.Row, error) {
	return s.data.LoadRows(ctx, s.chart.ID)
}

func (s *storeSource) Listener() gantt.Listener { return s.persister }

func (s *storeSource) SetSpan(ctx context.Context, timelineID string, start, end time.Time) error {
	return s.data.SetSpan(ctx, s.chart.ID, timelineID, start, end)
}

func (s *storeSource) Err() error { return s.persister.Err() }

// fileSource reads a dataset file. Edits stay in memory.
type fileSource struct {
	path string
}

func (s *fileSource) Title() string { return filepath.Base(s.path) }

func (s *fileSource) Load(context.Context) ([]domain.Row, error) {
	schema, err := importer.LoadImportSchema(s.path)
	if err != nil {
		return nil, err
	}
	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return importer.Rows(schema)
}

func (s *fileSource) Listener() gantt.Listener { return gantt.NoopListener{} }

func (s *fileSource) SetSpan(context.Context, string, time.Time, time.Time) error {
	return nil
}

func (s *fileSource) Err() error { return nil }
