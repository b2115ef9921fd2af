package services

import (
	"fmt"
	"time"

	"github.com/rverbytskyi/planora/internal/models"
)

// Countdown describes how far away a trip is at a given instant.
type Countdown struct {
	TripID       string            `json:"trip_id"`
	TripName     string            `json:"trip_name"`
	Status       models.TripStatus `json:"status"`
	TotalSeconds int64             `json:"total_seconds"`
	Days         int               `json:"days"`
	Hours        int               `json:"hours"`
	Minutes      int               `json:"minutes"`
	Seconds      int               `json:"seconds"`
	Message      string            `json:"message"`

	IsTripStarted                  bool `json:"is_trip_started"`
	IsTripEnded                    bool `json:"is_trip_ended"`
	RequiresCompletionConfirmation bool `json:"requires_completion_confirmation"`
}

// CalculateCountdown computes the countdown for a trip at the supplied
// instant. The calculation is pure so callers inject the clock.
func CalculateCountdown(trip models.Trip, now time.Time) Countdown {
	startsAt := trip.StartsAt()
	endsAt := trip.EndsAt()

	cd := Countdown{
		TripID:        trip.ID,
		TripName:      trip.Name,
		Status:        trip.Status,
		IsTripStarted: !now.Before(startsAt),
		IsTripEnded:   now.After(endsAt),
	}

	cd.RequiresCompletionConfirmation = cd.IsTripEnded && trip.Status == models.StatusPlanned

	switch {
	case cd.RequiresCompletionConfirmation:
		cd.Message = "Your trip has ended. Would you like to mark it as completed?"
	case cd.IsTripEnded:
		cd.Message = "Your trip has ended."
	case cd.IsTripStarted:
		cd.Message = "Your trip is underway!"
	default:
		remaining := startsAt.Sub(now)
		cd.TotalSeconds = int64(remaining / time.Second)
		cd.Days = int(remaining / (24 * time.Hour))
		cd.Hours = int(remaining/time.Hour) % 24
		cd.Minutes = int(remaining/time.Minute) % 60
		cd.Seconds = int(remaining/time.Second) % 60
		cd.Message = countdownMessage(cd.Days, cd.Hours, cd.Minutes)
	}

	return cd
}

// countdownMessage reports the coarsest nonzero unit remaining.
func countdownMessage(days, hours, minutes int) string {
	switch {
	case days > 0:
		return fmt.Sprintf("%d %s until your trip!", days, pluralize(days, "day"))
	case hours > 0:
		return fmt.Sprintf("%d %s until your trip!", hours, pluralize(hours, "hour"))
	case minutes > 0:
		return fmt.Sprintf("%d %s until your trip!", minutes, pluralize(minutes, "minute"))
	default:
		return "Your trip starts any moment now!"
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
