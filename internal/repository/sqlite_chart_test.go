package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/ganttline/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteChartRepo(db)
	ctx := context.Background()

	c := testutil.NewTestChart("Roadmap")
	require.NoError(t, repo.Create(ctx, c))

	fetched, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Roadmap", fetched.Name)
	assert.True(t, c.CreatedAt.Equal(fetched.CreatedAt))

	byName, err := repo.GetByName(ctx, "roadmap")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byName.ID)
}

func TestChartRepo_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteChartRepo(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, repo.Touch(ctx, "missing"), ErrNotFound)
}

func TestChartRepo_ListAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteChartRepo(db)
	ctx := context.Background()

	a := testutil.NewTestChart("A")
	b := testutil.NewTestChart("B")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	charts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, charts, 2)

	require.NoError(t, repo.Delete(ctx, a.ID))
	charts, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, charts, 1)
	assert.Equal(t, b.ID, charts[0].ID)
}
