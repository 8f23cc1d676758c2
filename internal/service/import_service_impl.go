package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/ganttline/internal/db"
	"github.com/alexanderramin/ganttline/internal/importer"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportFile(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportSchema(ctx, schema)
}

func (s *importService) ImportSchema(ctx context.Context, schema *importer.ImportSchema) (res *ImportResult, err error) {
	fields := map[string]any{"chart_name": schema.Chart.Name}
	defer observe(ctx, s.observer, "ImportChart", fields)(&err)

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	generated, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if err := r.charts.Create(ctx, generated.Chart); err != nil {
			return fmt.Errorf("creating chart: %w", err)
		}
		for _, row := range generated.Rows {
			if err := r.rows.Create(ctx, row); err != nil {
				return fmt.Errorf("creating row %q: %w", row.Title, err)
			}
		}
		for _, tl := range generated.TimeLines {
			if err := r.timelines.Create(ctx, tl); err != nil {
				return fmt.Errorf("creating timeline %q: %w", tl.Label, err)
			}
		}
		for _, p := range generated.Points {
			if err := r.points.Create(ctx, p); err != nil {
				return fmt.Errorf("creating time point: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["chart_id"] = generated.Chart.ID
	fields["rows"] = len(generated.Rows)
	return &ImportResult{
		Chart:         generated.Chart,
		RowCount:      len(generated.Rows),
		TimeLineCount: len(generated.TimeLines),
		PointCount:    len(generated.Points),
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
