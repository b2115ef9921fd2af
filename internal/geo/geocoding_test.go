package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGeocodingSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Paris", r.URL.Query().Get("name"))
		require.Equal(t, "5", r.URL.Query().Get("count"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"name":"Paris","country":"France","latitude":48.85,"longitude":2.35}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewGeocodingClient(server.URL, server.Client(), time.Second)
	require.NoError(t, err)

	places, err := client.Search(context.Background(), "Paris", 0)
	require.NoError(t, err)
	require.Len(t, places, 1)
	require.Equal(t, "Paris", places[0].Name)
	require.Equal(t, "France", places[0].Country)
	require.Equal(t, 48.85, places[0].Latitude)
}

func TestNominatimForwardParsesStringCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"Louvre","display_name":"Louvre, Paris, France","lat":"48.8606","lon":"2.3376"}]`))
	}))
	t.Cleanup(server.Close)

	client, err := NewNominatimClient(server.URL, server.Client(), time.Millisecond, time.Second)
	require.NoError(t, err)

	places, err := client.Forward(context.Background(), "Louvre", 5)
	require.NoError(t, err)
	require.Len(t, places, 1)
	require.Equal(t, "Louvre, Paris, France", places[0].DisplayName)
	require.Equal(t, 48.8606, places[0].Latitude)
	require.Equal(t, 2.3376, places[0].Longitude)
}

func TestNominatimThrottlesRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Somewhere","display_name":"Somewhere","lat":"1.0","lon":"2.0"}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewNominatimClient(server.URL, server.Client(), time.Second, time.Second)
	require.NoError(t, err)

	var slept []time.Duration
	client.sleep = func(d time.Duration) { slept = append(slept, d) }

	_, err = client.Reverse(context.Background(), 1, 2)
	require.NoError(t, err)
	_, err = client.Reverse(context.Background(), 1, 2)
	require.NoError(t, err)

	// The second call has to wait out the remainder of the interval.
	require.Len(t, slept, 1)
	require.Greater(t, slept[0], time.Duration(0))
	require.LessOrEqual(t, slept[0], time.Second)
}

func TestGetJSONRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client, err := NewGeocodingClient(server.URL, server.Client(), time.Second)
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "Paris", 5)
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}
