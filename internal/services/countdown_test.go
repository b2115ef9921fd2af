package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rverbytskyi/planora/internal/models"
)

func futureTrip(start, end time.Time) models.Trip {
	return models.Trip{
		BaseModel: models.BaseModel{ID: "trip-1"},
		Name:      "Paris Getaway",
		Status:    models.StatusPlanned,
		StartDate: start,
		EndDate:   end,
	}
}

func TestCalculateCountdownBeforeStart(t *testing.T) {
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	trip := futureTrip(start, end)

	// Three days, two hours and thirty minutes before the noon start.
	now := time.Date(2025, 6, 7, 9, 30, 0, 0, time.UTC)
	cd := CalculateCountdown(trip, now)

	require.False(t, cd.IsTripStarted)
	require.False(t, cd.IsTripEnded)
	require.False(t, cd.RequiresCompletionConfirmation)
	require.Equal(t, 3, cd.Days)
	require.Equal(t, 2, cd.Hours)
	require.Equal(t, 30, cd.Minutes)
	require.Equal(t, 0, cd.Seconds)
	require.Equal(t, int64(3*24*3600+2*3600+30*60), cd.TotalSeconds)
	require.Equal(t, "3 days until your trip!", cd.Message)
}

func TestCalculateCountdownCoarsestUnit(t *testing.T) {
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	trip := futureTrip(start, end)

	cases := []struct {
		now     time.Time
		message string
	}{
		{time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC), "1 day until your trip!"},
		{time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC), "5 hours until your trip!"},
		{time.Date(2025, 6, 10, 11, 59, 0, 0, time.UTC), "1 minute until your trip!"},
		{time.Date(2025, 6, 10, 11, 59, 59, 0, time.UTC), "Your trip starts any moment now!"},
	}

	for _, tc := range cases {
		cd := CalculateCountdown(trip, tc.now)
		require.Equal(t, tc.message, cd.Message, "now %s", tc.now)
	}
}

func TestCalculateCountdownMonotonic(t *testing.T) {
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	trip := futureTrip(start, end)

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	previous := CalculateCountdown(trip, now).TotalSeconds
	for i := 1; i <= 48; i++ {
		cd := CalculateCountdown(trip, now.Add(time.Duration(i)*time.Hour))
		require.LessOrEqual(t, cd.TotalSeconds, previous)
		previous = cd.TotalSeconds
	}
}

func TestCalculateCountdownNoonBoundary(t *testing.T) {
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	trip := futureTrip(start, end)

	before := CalculateCountdown(trip, time.Date(2025, 6, 10, 11, 59, 59, 0, time.UTC))
	require.False(t, before.IsTripStarted)

	atNoon := CalculateCountdown(trip, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	require.True(t, atNoon.IsTripStarted)
	require.False(t, atNoon.IsTripEnded)
	require.Equal(t, "Your trip is underway!", atNoon.Message)
	require.Zero(t, atNoon.TotalSeconds)
}

func TestCalculateCountdownEnded(t *testing.T) {
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	lastMoment := time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC)
	trip := futureTrip(start, end)

	cd := CalculateCountdown(trip, lastMoment)
	require.False(t, cd.IsTripEnded)

	// A planned trip past its end asks the owner to confirm completion.
	cd = CalculateCountdown(trip, lastMoment.Add(time.Second))
	require.True(t, cd.IsTripEnded)
	require.True(t, cd.RequiresCompletionConfirmation)
	require.Equal(t, "Your trip has ended. Would you like to mark it as completed?", cd.Message)

	trip.Status = models.StatusOngoing
	cd = CalculateCountdown(trip, lastMoment.Add(time.Second))
	require.False(t, cd.RequiresCompletionConfirmation)
	require.Equal(t, "Your trip has ended.", cd.Message)
}
