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

// SQLiteTimePointRepo implements TimePointRepo using a SQLite database.
type SQLiteTimePointRepo struct {
	db db.DBTX
}

func NewSQLiteTimePointRepo(conn db.DBTX) *SQLiteTimePointRepo {
	return &SQLiteTimePointRepo{db: conn}
}

const pointColumns = `p.id, p.timeline_id, p.at, p.icon`

func (r *SQLiteTimePointRepo) Create(ctx context.Context, p *domain.TimePoint) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO time_points (id, timeline_id, at, icon) VALUES (?, ?, ?, ?)`,
		p.ID, p.TimeLineID, formatTime(p.At), p.Icon)
	if err != nil {
		return fmt.Errorf("inserting time point: %w", err)
	}
	return nil
}

func (r *SQLiteTimePointRepo) GetByID(ctx context.Context, id string) (*domain.TimePoint, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+pointColumns+` FROM time_points p WHERE p.id = ?`, id)
	return scanTimePoint(row)
}

// ListByChart returns every point of a chart ordered by date.
func (r *SQLiteTimePointRepo) ListByChart(ctx context.Context, chartID string) ([]*domain.TimePoint, error) {
	query := `SELECT ` + pointColumns + `
		FROM time_points p
		JOIN timelines t ON t.id = p.timeline_id
		JOIN rows r ON r.id = t.row_id
		WHERE r.chart_id = ?
		ORDER BY p.at, p.id`
	rows, err := r.db.QueryContext(ctx, query, chartID)
	if err != nil {
		return nil, fmt.Errorf("listing time points: %w", err)
	}
	defer rows.Close()

	var out []*domain.TimePoint
	for rows.Next() {
		p, err := scanTimePoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time points: %w", err)
	}
	return out, nil
}

func (r *SQLiteTimePointRepo) UpdateAt(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE time_points SET at = ? WHERE id = ?`, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("updating time point: %w", err)
	}
	return checkAffected(res, "time point", id)
}

func (r *SQLiteTimePointRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_points WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting time point: %w", err)
	}
	return checkAffected(res, "time point", id)
}

func scanTimePoint(s scanner) (*domain.TimePoint, error) {
	var p domain.TimePoint
	var at string
	if err := s.Scan(&p.ID, &p.TimeLineID, &at, &p.Icon); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("time point: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning time point: %w", err)
	}
	var err error
	if p.At, err = parseTime("at", at); err != nil {
		return nil, err
	}
	return &p, nil
}
