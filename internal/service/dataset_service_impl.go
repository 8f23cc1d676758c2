package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/ganttline/internal/db"
	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/gantt"
	"github.com/alexanderramin/ganttline/internal/repository"
)

type datasetService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewDatasetService(uow db.UnitOfWork, observers ...UseCaseObserver) DatasetService {
	return &datasetService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// txRepos are the repositories bound to one transaction.
type txRepos struct {
	charts    repository.ChartRepo
	rows      repository.RowRepo
	timelines repository.TimeLineRepo
	points    repository.TimePointRepo
}

func newTxRepos(tx db.DBTX) txRepos {
	return txRepos{
		charts:    repository.NewSQLiteChartRepo(tx),
		rows:      repository.NewSQLiteRowRepo(tx),
		timelines: repository.NewSQLiteTimeLineRepo(tx),
		points:    repository.NewSQLiteTimePointRepo(tx),
	}
}

func (s *datasetService) LoadRows(ctx context.Context, chartID string) ([]domain.Row, error) {
	var out []domain.Row
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if _, err := r.charts.GetByID(ctx, chartID); err != nil {
			return err
		}
		rows, err := r.rows.ListByChart(ctx, chartID)
		if err != nil {
			return err
		}
		tls, err := r.timelines.ListByChart(ctx, chartID)
		if err != nil {
			return err
		}
		pts, err := r.points.ListByChart(ctx, chartID)
		if err != nil {
			return err
		}
		out = nestRows(rows, tls, pts)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading rows: %w", err)
	}
	return out, nil
}

// nestRows rebuilds the row hierarchy from flat store records. Siblings keep
// order_index order; rows whose parent is missing are promoted to roots.
func nestRows(rows []*domain.Row, tls []*domain.TimeLine, pts []*domain.TimePoint) []domain.Row {
	pointsBy := make(map[string][]domain.TimePoint)
	for _, p := range pts {
		pointsBy[p.TimeLineID] = append(pointsBy[p.TimeLineID], *p)
	}
	timelinesBy := make(map[string][]domain.TimeLine)
	for _, t := range tls {
		tl := *t
		tl.Points = pointsBy[tl.ID]
		sort.SliceStable(tl.Points, func(i, j int) bool { return tl.Points[i].At.Before(tl.Points[j].At) })
		timelinesBy[tl.RowID] = append(timelinesBy[tl.RowID], tl)
	}

	known := make(map[string]bool, len(rows))
	for _, r := range rows {
		known[r.ID] = true
	}
	childrenBy := make(map[string][]*domain.Row)
	var roots []*domain.Row
	for _, r := range rows {
		if r.ParentID != nil && known[*r.ParentID] {
			childrenBy[*r.ParentID] = append(childrenBy[*r.ParentID], r)
			continue
		}
		roots = append(roots, r)
	}

	var build func(list []*domain.Row) []domain.Row
	build = func(list []*domain.Row) []domain.Row {
		if len(list) == 0 {
			return nil
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].OrderIndex < list[j].OrderIndex })
		out := make([]domain.Row, 0, len(list))
		for _, r := range list {
			row := *r
			row.TimeLines = timelinesBy[r.ID]
			row.Children = build(childrenBy[r.ID])
			out = append(out, row)
		}
		return out
	}
	return build(roots)
}

func (s *datasetService) ApplyMove(ctx context.Context, chartID string, moved []gantt.MovedTimeLine) (err error) {
	fields := map[string]any{"chart_id": chartID, "timelines": len(moved)}
	defer observe(ctx, s.observer, "ApplyMove", fields)(&err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		for _, m := range moved {
			if _, err := r.ownedTimeLine(ctx, chartID, m.ID); err != nil {
				return err
			}
			if err := r.timelines.UpdateSpan(ctx, m.ID, m.Start, m.End); err != nil {
				return err
			}
			for _, p := range m.Points {
				if err := r.points.UpdateAt(ctx, p.ID, p.Date); err != nil {
					return err
				}
			}
		}
		return r.charts.Touch(ctx, chartID)
	})
}

func (s *datasetService) ApplyStretch(ctx context.Context, chartID string, ids []string, start, end *time.Time) (err error) {
	fields := map[string]any{"chart_id": chartID, "timelines": len(ids)}
	defer observe(ctx, s.observer, "ApplyStretch", fields)(&err)

	if (start == nil) == (end == nil) {
		return fmt.Errorf("stretch needs exactly one edge")
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		for _, id := range ids {
			tl, err := r.ownedTimeLine(ctx, chartID, id)
			if err != nil {
				return err
			}
			newStart, newEnd := tl.Start, tl.End
			if start != nil {
				newStart = *start
				if newEnd.Before(newStart) {
					newEnd = newStart
				}
			} else {
				newEnd = *end
				if newStart.After(newEnd) {
					newStart = newEnd
				}
			}
			if err := r.setSpan(ctx, chartID, tl.ID, newStart, newEnd); err != nil {
				return err
			}
		}
		return r.charts.Touch(ctx, chartID)
	})
}

func (s *datasetService) ApplyPointMove(ctx context.Context, chartID, pointID string, at time.Time) (err error) {
	fields := map[string]any{"chart_id": chartID, "point_id": pointID}
	defer observe(ctx, s.observer, "ApplyPointMove", fields)(&err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		p, err := r.points.GetByID(ctx, pointID)
		if err != nil {
			return err
		}
		tl, err := r.ownedTimeLine(ctx, chartID, p.TimeLineID)
		if err != nil {
			return err
		}
		if !tl.Contains(at) {
			return fmt.Errorf("point %s: %s outside timeline %s", pointID, at.Format(time.RFC3339), tl.ID)
		}
		if err := r.points.UpdateAt(ctx, pointID, at); err != nil {
			return err
		}
		return r.charts.Touch(ctx, chartID)
	})
}

func (s *datasetService) SetSpan(ctx context.Context, chartID, timelineID string, start, end time.Time) (err error) {
	fields := map[string]any{"chart_id": chartID, "timeline_id": timelineID}
	defer observe(ctx, s.observer, "SetSpan", fields)(&err)

	if end.Before(start) {
		return fmt.Errorf("end %s before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if _, err := r.ownedTimeLine(ctx, chartID, timelineID); err != nil {
			return err
		}
		if err := r.setSpan(ctx, chartID, timelineID, start, end); err != nil {
			return err
		}
		return r.charts.Touch(ctx, chartID)
	})
}

// ownedTimeLine loads a timeline and checks that its row belongs to chartID.
func (r txRepos) ownedTimeLine(ctx context.Context, chartID, id string) (*domain.TimeLine, error) {
	tl, err := r.timelines.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("timeline %s: %w", id, err)
	}
	row, err := r.rows.GetByID(ctx, tl.RowID)
	if err != nil {
		return nil, err
	}
	if row.ChartID != chartID {
		return nil, fmt.Errorf("timeline %s does not belong to chart %s", id, chartID)
	}
	return tl, nil
}

// setSpan writes a new span and pulls the timeline's points back inside it.
func (r txRepos) setSpan(ctx context.Context, chartID, id string, start, end time.Time) error {
	if err := r.timelines.UpdateSpan(ctx, id, start, end); err != nil {
		return err
	}
	pts, err := r.points.ListByChart(ctx, chartID)
	if err != nil {
		return err
	}
	for _, p := range pts {
		if p.TimeLineID != id {
			continue
		}
		at := p.At
		if at.Before(start) {
			at = start
		} else if at.After(end) {
			at = end
		}
		if at.Equal(p.At) {
			continue
		}
		if err := r.points.UpdateAt(ctx, p.ID, at); err != nil {
			return err
		}
	}
	return nil
}
