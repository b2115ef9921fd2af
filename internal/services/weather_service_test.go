package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rverbytskyi/planora/internal/database/testutil"
	"github.com/rverbytskyi/planora/internal/geo"
	apperrors "github.com/rverbytskyi/planora/pkg/errors"
)

func TestForecastForCityCachesSnapshot(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"latitude": 48.85,
			"longitude": 2.35,
			"timezone": "Europe/Paris",
			"current_weather": {"temperature": 21.5, "windspeed": 10.2, "weathercode": 2, "time": "2025-06-01T08:00"}
		}`))
	}))
	t.Cleanup(server.Close)

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	client, err := geo.NewWeatherClient(server.URL, server.Client(), time.Second)
	require.NoError(t, err)

	current := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	svc, err := NewWeatherService(db, client, WithWeatherClock(func() time.Time { return current }))
	require.NoError(t, err)

	forecast, err := svc.ForecastForCity(context.Background(), "seed-city-paris")
	require.NoError(t, err)
	require.Equal(t, 21.5, forecast.Current.Temperature)
	require.Equal(t, "Europe/Paris", forecast.Timezone)
	require.Equal(t, int64(1), requests.Load())

	// A fresh snapshot is served from the city row without a second fetch.
	_, err = svc.ForecastForCity(context.Background(), "seed-city-paris")
	require.NoError(t, err)
	require.Equal(t, int64(1), requests.Load())

	// Once the snapshot expires the forecast is fetched again.
	current = current.Add(weatherSnapshotTTL + time.Minute)
	_, err = svc.ForecastForCity(context.Background(), "seed-city-paris")
	require.NoError(t, err)
	require.Equal(t, int64(2), requests.Load())
}

func TestForecastForCityUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	client, err := geo.NewWeatherClient(server.URL, server.Client(), time.Second)
	require.NoError(t, err)

	svc, err := NewWeatherService(db, client)
	require.NoError(t, err)

	_, err = svc.ForecastForCity(context.Background(), "no-such-city")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
