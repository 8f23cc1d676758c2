package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/ganttline/internal/db"
	"github.com/alexanderramin/ganttline/internal/domain"
)

// SQLiteRowRepo implements RowRepo using a SQLite database.
type SQLiteRowRepo struct {
	db db.DBTX
}

func NewSQLiteRowRepo(conn db.DBTX) *SQLiteRowRepo {
	return &SQLiteRowRepo{db: conn}
}

const rowColumns = `id, chart_id, parent_id, title, order_index, is_empty`

func (r *SQLiteRowRepo) Create(ctx context.Context, row *domain.Row) error {
	query := `INSERT INTO rows (` + rowColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		row.ID,
		row.ChartID,
		nullableString(row.ParentID),
		row.Title,
		row.OrderIndex,
		boolToInt(row.IsEmpty),
	)
	if err != nil {
		return fmt.Errorf("inserting row: %w", err)
	}
	return nil
}

func (r *SQLiteRowRepo) GetByID(ctx context.Context, id string) (*domain.Row, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+rowColumns+` FROM rows WHERE id = ?`, id)
	return scanRow(row)
}

// ListByChart returns every row of a chart, flat, ordered by order_index
// within the chart.
func (r *SQLiteRowRepo) ListByChart(ctx context.Context, chartID string) ([]*domain.Row, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+rowColumns+` FROM rows WHERE chart_id = ? ORDER BY order_index, id`, chartID)
	if err != nil {
		return nil, fmt.Errorf("listing rows: %w", err)
	}
	defer rows.Close()

	var out []*domain.Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteRowRepo) Update(ctx context.Context, row *domain.Row) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rows SET parent_id = ?, title = ?, order_index = ?, is_empty = ? WHERE id = ?`,
		nullableString(row.ParentID),
		row.Title,
		row.OrderIndex,
		boolToInt(row.IsEmpty),
		row.ID,
	)
	if err != nil {
		return fmt.Errorf("updating row: %w", err)
	}
	return checkAffected(res, "row", row.ID)
}

func (r *SQLiteRowRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rows WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting row: %w", err)
	}
	return checkAffected(res, "row", id)
}

func scanRow(s scanner) (*domain.Row, error) {
	var row domain.Row
	var parentID sql.NullString
	var isEmpty int
	if err := s.Scan(&row.ID, &row.ChartID, &parentID, &row.Title, &row.OrderIndex, &isEmpty); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("row: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning row: %w", err)
	}
	row.ParentID = stringPtr(parentID)
	row.IsEmpty = intToBool(isEmpty)
	return &row, nil
}
