package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ganttline/internal/db"
	"github.com/alexanderramin/ganttline/internal/domain"
)

// SQLiteTimeLineRepo implements TimeLineRepo using a SQLite database.
// Points are stored separately and are not loaded with their timeline.
type SQLiteTimeLineRepo struct {
	db db.DBTX
}

func NewSQLiteTimeLineRepo(conn db.DBTX) *SQLiteTimeLineRepo {
	return &SQLiteTimeLineRepo{db: conn}
}

const timelineColumns = `t.id, t.row_id, t.start_at, t.end_at, t.label, t.icon, t.color, t.disable_move, t.disable_stretch`

func (r *SQLiteTimeLineRepo) Create(ctx context.Context, t *domain.TimeLine) error {
	if t.End.Before(t.Start) {
		return fmt.Errorf("timeline %s: end %s before start %s", t.ID, formatTime(t.End), formatTime(t.Start))
	}
	query := `INSERT INTO timelines (id, row_id, start_at, end_at, label, icon, color, disable_move, disable_stretch)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.RowID,
		formatTime(t.Start),
		formatTime(t.End),
		t.Label,
		t.Icon,
		t.Color,
		boolToInt(t.DisableMove),
		boolToInt(t.DisableStretch),
	)
	if err != nil {
		return fmt.Errorf("inserting timeline: %w", err)
	}
	return nil
}

func (r *SQLiteTimeLineRepo) GetByID(ctx context.Context, id string) (*domain.TimeLine, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+timelineColumns+` FROM timelines t WHERE t.id = ?`, id)
	return scanTimeLine(row)
}

// ListByChart returns every timeline of a chart ordered by start.
func (r *SQLiteTimeLineRepo) ListByChart(ctx context.Context, chartID string) ([]*domain.TimeLine, error) {
	query := `SELECT ` + timelineColumns + `
		FROM timelines t
		JOIN rows r ON r.id = t.row_id
		WHERE r.chart_id = ?
		ORDER BY t.start_at, t.id`
	rows, err := r.db.QueryContext(ctx, query, chartID)
	if err != nil {
		return nil, fmt.Errorf("listing timelines: %w", err)
	}
	defer rows.Close()

	var out []*domain.TimeLine
	for rows.Next() {
		t, err := scanTimeLine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timelines: %w", err)
	}
	return out, nil
}

func (r *SQLiteTimeLineRepo) UpdateSpan(ctx context.Context, id string, start, end time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("timeline %s: end %s before start %s", id, formatTime(end), formatTime(start))
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE timelines SET start_at = ?, end_at = ? WHERE id = ?`,
		formatTime(start), formatTime(end), id)
	if err != nil {
		return fmt.Errorf("updating timeline span: %w", err)
	}
	return checkAffected(res, "timeline", id)
}

func (r *SQLiteTimeLineRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timelines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting timeline: %w", err)
	}
	return checkAffected(res, "timeline", id)
}

func scanTimeLine(s scanner) (*domain.TimeLine, error) {
	var t domain.TimeLine
	var start, end string
	var disableMove, disableStretch int
	err := s.Scan(&t.ID, &t.RowID, &start, &end, &t.Label, &t.Icon, &t.Color, &disableMove, &disableStretch)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("timeline: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning timeline: %w", err)
	}
	if t.Start, err = parseTime("start_at", start); err != nil {
		return nil, err
	}
	if t.End, err = parseTime("end_at", end); err != nil {
		return nil, err
	}
	t.DisableMove = intToBool(disableMove)
	t.DisableStretch = intToBool(disableStretch)
	return &t, nil
}
