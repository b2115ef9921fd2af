package services

import (
	"fmt"

	"github.com/rverbytskyi/planora/internal/models"
)

// statusContent returns the wording for a lifecycle status change.
func statusContent(status models.TripStatus, trip models.Trip) (string, string) {
	switch status {
	case models.StatusOngoing:
		return "Trip In Progress",
			fmt.Sprintf("%q is now in progress. Enjoy your travels!", trip.Name)
	case models.StatusCompleted:
		return "Trip Completed",
			fmt.Sprintf("%q is complete. We hope you had a great time!", trip.Name)
	case models.StatusCancelled:
		return "Trip Cancelled",
			fmt.Sprintf("%q has been cancelled.", trip.Name)
	default:
		return "Trip Updated", fmt.Sprintf("%q was updated.", trip.Name)
	}
}
