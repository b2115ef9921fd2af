package scheduler

import (
	"fmt"

	"github.com/rverbytskyi/planora/internal/models"
)

// reminderContent returns the notification title and message for a trip
// that starts in the given number of days. Selected milestones carry
// bespoke wording.
func reminderContent(days int, trip models.Trip) (string, string) {
	switch days {
	case 10:
		return "10 Days Until Your Trip!",
			fmt.Sprintf("Only 10 days until %q. Time to start planning the details!", trip.Name)
	case 7:
		return "One Week Until Your Trip!",
			fmt.Sprintf("Just one week left before %q. Check your bookings and reservations.", trip.Name)
	case 3:
		return "3 Days Until Your Trip!",
			fmt.Sprintf("%q is almost here. Time to start packing!", trip.Name)
	case 1:
		return "Tomorrow is the Day!",
			fmt.Sprintf("%q starts tomorrow. Double-check your documents and get some rest.", trip.Name)
	default:
		return fmt.Sprintf("%d Days Until Your Trip", days),
			fmt.Sprintf("%q starts in %d days.", trip.Name, days)
	}
}

// startTodayContent returns the wording for a trip beginning today.
func startTodayContent(trip models.Trip) (string, string) {
	return "Your Trip Starts Today!",
		fmt.Sprintf("%q begins today. Have a wonderful journey!", trip.Name)
}
