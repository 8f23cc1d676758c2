package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/alexanderramin/ganttline/internal/repository"
	"github.com/alexanderramin/ganttline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartService_CreateAndResolve(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewChartService(repository.NewSQLiteChartRepo(database))
	ctx := context.Background()

	c := &domain.Chart{Name: "Roadmap"}
	require.NoError(t, svc.Create(ctx, c))
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	byID, err := svc.Resolve(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Roadmap", byID.Name)

	byName, err := svc.Resolve(ctx, "Roadmap")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byName.ID)

	_, err = svc.Resolve(ctx, "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestChartService_CreateRejectsBlankName(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewChartService(repository.NewSQLiteChartRepo(database))

	err := svc.Create(context.Background(), &domain.Chart{Name: "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestChartService_DeleteCascades(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	chart := seedChart(t, database)
	svc := NewChartService(repository.NewSQLiteChartRepo(database))

	require.NoError(t, svc.Delete(ctx, chart.ID))

	rows, err := repository.NewSQLiteRowRepo(database).ListByChart(ctx, chart.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
	_, err = repository.NewSQLiteTimeLineRepo(database).GetByID(ctx, "a")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, chart.ID), repository.ErrNotFound)
}
