package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
)

type ChartRepo interface {
	Create(ctx context.Context, c *domain.Chart) error
	GetByID(ctx context.Context, id string) (*domain.Chart, error)
	GetByName(ctx context.Context, name string) (*domain.Chart, error)
	List(ctx context.Context) ([]*domain.Chart, error)
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// RowRepo stores rows flat; nesting is rebuilt from ParentID on load.
type RowRepo interface {
	Create(ctx context.Context, r *domain.Row) error
	GetByID(ctx context.Context, id string) (*domain.Row, error)
	ListByChart(ctx context.Context, chartID string) ([]*domain.Row, error)
	Update(ctx context.Context, r *domain.Row) error
	Delete(ctx context.Context, id string) error
}

type TimeLineRepo interface {
	Create(ctx context.Context, t *domain.TimeLine) error
	GetByID(ctx context.Context, id string) (*domain.TimeLine, error)
	ListByChart(ctx context.Context, chartID string) ([]*domain.TimeLine, error)
	UpdateSpan(ctx context.Context, id string, start, end time.Time) error
	Delete(ctx context.Context, id string) error
}

type TimePointRepo interface {
	Create(ctx context.Context, p *domain.TimePoint) error
	GetByID(ctx context.Context, id string) (*domain.TimePoint, error)
	ListByChart(ctx context.Context, chartID string) ([]*domain.TimePoint, error)
	UpdateAt(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
