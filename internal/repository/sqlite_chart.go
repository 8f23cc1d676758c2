package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/ganttline/internal/db"
	"github.com/alexanderramin/ganttline/internal/domain"
)

// SQLiteChartRepo implements ChartRepo using a SQLite database.
type SQLiteChartRepo struct {
	db db.DBTX
}

func NewSQLiteChartRepo(conn db.DBTX) *SQLiteChartRepo {
	return &SQLiteChartRepo{db: conn}
}

const chartColumns = `id, name, created_at, updated_at`

func (r *SQLiteChartRepo) Create(ctx context.Context, c *domain.Chart) error {
	query := `INSERT INTO charts (` + chartColumns + `) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting chart: %w", err)
	}
	return nil
}

func (r *SQLiteChartRepo) GetByID(ctx context.Context, id string) (*domain.Chart, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+chartColumns+` FROM charts WHERE id = ?`, id)
	return scanChart(row)
}

// GetByName matches case-insensitively and returns the oldest chart with
// that name.
func (r *SQLiteChartRepo) GetByName(ctx context.Context, name string) (*domain.Chart, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+chartColumns+` FROM charts WHERE LOWER(name) = LOWER(?) ORDER BY created_at LIMIT 1`, name)
	return scanChart(row)
}

func (r *SQLiteChartRepo) List(ctx context.Context) ([]*domain.Chart, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+chartColumns+` FROM charts ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("listing charts: %w", err)
	}
	defer rows.Close()

	var charts []*domain.Chart
	for rows.Next() {
		c, err := scanChart(rows)
		if err != nil {
			return nil, err
		}
		charts = append(charts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating charts: %w", err)
	}
	return charts, nil
}

// Touch bumps updated_at after any edit to the chart's rows.
func (r *SQLiteChartRepo) Touch(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE charts SET updated_at = ? WHERE id = ?`, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("touching chart: %w", err)
	}
	return checkAffected(res, "chart", id)
}

func (r *SQLiteChartRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM charts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting chart: %w", err)
	}
	return checkAffected(res, "chart", id)
}

func scanChart(s scanner) (*domain.Chart, error) {
	var c domain.Chart
	var createdAt, updatedAt string
	if err := s.Scan(&c.ID, &c.Name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("chart: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning chart: %w", err)
	}
	var err error
	if c.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
