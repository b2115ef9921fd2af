package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		input string
		want  TripStatus
		ok    bool
	}{
		{"PLANNED", StatusPlanned, true},
		{"ONGOING", StatusOngoing, true},
		{"COMPLETED", StatusCompleted, true},
		{"CANCELLED", StatusCancelled, true},
		{"CONFIRMED", StatusPlanned, true},
		{"IN_PROGRESS", StatusOngoing, true},
		{"planned", "", false},
		{"DELETED", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		status, ok := ParseStatus(tc.input)
		require.Equal(t, tc.ok, ok, "input %q", tc.input)
		require.Equal(t, tc.want, status, "input %q", tc.input)
	}
}

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    TripStatus
		to      TripStatus
		allowed bool
	}{
		{StatusPlanned, StatusOngoing, true},
		{StatusPlanned, StatusCompleted, true},
		{StatusPlanned, StatusCancelled, true},
		{StatusOngoing, StatusCompleted, true},
		{StatusOngoing, StatusCancelled, true},
		{StatusOngoing, StatusPlanned, false},
		{StatusOngoing, StatusOngoing, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusOngoing, false},
		{StatusCancelled, StatusPlanned, false},
		{StatusCancelled, StatusCompleted, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestTripBoundaries(t *testing.T) {
	trip := Trip{
		StartDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}

	require.Equal(t, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC), trip.StartsAt())
	require.Equal(t, time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC), trip.EndsAt())
}

func TestReminderTypeForDays(t *testing.T) {
	for days := 1; days <= 10; days++ {
		reminderType, ok := ReminderTypeForDays(days)
		require.True(t, ok, "days %d", days)

		back, ok := reminderType.ReminderDays()
		require.True(t, ok)
		require.Equal(t, days, back)
	}

	_, ok := ReminderTypeForDays(0)
	require.False(t, ok)
	_, ok = ReminderTypeForDays(11)
	require.False(t, ok)
}
