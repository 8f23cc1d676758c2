package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/repository"
	"github.com/google/uuid"
)

type chartService struct {
	charts repository.ChartRepo
}

func NewChartService(charts repository.ChartRepo) ChartService {
	return &chartService{charts: charts}
}

func (s *chartService) Create(ctx context.Context, c *domain.Chart) error {
	if err := c.ValidateName(); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Second)
	c.CreatedAt = now
	c.UpdatedAt = now
	return s.charts.Create(ctx, c)
}

func (s *chartService) GetByID(ctx context.Context, id string) (*domain.Chart, error) {
	return s.charts.GetByID(ctx, id)
}

func (s *chartService) Resolve(ctx context.Context, ref string) (*domain.Chart, error) {
	c, err := s.charts.GetByID(ctx, ref)
	if err == nil || !errors.Is(err, repository.ErrNotFound) {
		return c, err
	}
	return s.charts.GetByName(ctx, ref)
}

func (s *chartService) List(ctx context.Context) ([]*domain.Chart, error) {
	return s.charts.List(ctx)
}

func (s *chartService) Delete(ctx context.Context, id string) error {
	return s.charts.Delete(ctx, id)
}
