package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierbooks/facturio/internal/catalog/domain"
	"github.com/atelierbooks/facturio/internal/config"
)

func TestReplacePersistsAcrossReload(t *testing.T) {
	cfg := config.Config{DataDir: t.TempDir()}

	repo, err := Provide(cfg)
	require.NoError(t, err)

	items := []domain.Item{
		{Description: "Sac bandoulière", UnitPrice: 120.5, Quantity: 1},
		{Description: "Portefeuille", UnitPrice: 45, Quantity: 2},
	}
	require.NoError(t, repo.Replace(context.Background(), items))

	reloaded, err := Provide(cfg)
	require.NoError(t, err)

	got, err := reloaded.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestListCopiesWorkingSet(t *testing.T) {
	cfg := config.Config{DataDir: t.TempDir()}

	repo, err := Provide(cfg)
	require.NoError(t, err)
	require.NoError(t, repo.Replace(context.Background(), []domain.Item{
		{Description: "Sac", UnitPrice: 100, Quantity: 1},
	}))

	first, err := repo.List(context.Background())
	require.NoError(t, err)
	first[0].Description = "mutated"

	second, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sac", second[0].Description)
}
