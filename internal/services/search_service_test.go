package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rverbytskyi/planora/internal/database/testutil"
)

func TestSearchMatchesCatalog(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	svc, err := NewSearchService(db)
	require.NoError(t, err)

	result, err := svc.Search(context.Background(), "par")
	require.NoError(t, err)
	require.Empty(t, result.Countries)
	require.Len(t, result.Cities, 1)
	require.Equal(t, "Paris", result.Cities[0].Name)
	require.Len(t, result.Cities[0].Activities, 1)

	result, err = svc.Search(context.Background(), "JAP")
	require.NoError(t, err)
	require.Len(t, result.Countries, 1)
	require.Equal(t, "Japan", result.Countries[0].Name)
	require.Empty(t, result.Cities)
}

func TestSearchRequiresQuery(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	svc, err := NewSearchService(db)
	require.NoError(t, err)

	_, err = svc.Search(context.Background(), "   ")
	require.Error(t, err)
}
