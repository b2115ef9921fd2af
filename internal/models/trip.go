package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	StatusPlanned   TripStatus = "PLANNED"
	StatusOngoing   TripStatus = "ONGOING"
	StatusCompleted TripStatus = "COMPLETED"
	StatusCancelled TripStatus = "CANCELLED"
)

// Legacy aliases accepted on input and normalised on read.
const (
	statusConfirmed  TripStatus = "CONFIRMED"
	statusInProgress TripStatus = "IN_PROGRESS"
)

// NormalizeStatus maps legacy alias values onto canonical statuses.
func NormalizeStatus(s TripStatus) TripStatus {
	switch s {
	case statusConfirmed:
		return StatusPlanned
	case statusInProgress:
		return StatusOngoing
	default:
		return s
	}
}

// ParseStatus normalises and validates a status string.
func ParseStatus(s string) (TripStatus, bool) {
	status := NormalizeStatus(TripStatus(s))
	switch status {
	case StatusPlanned, StatusOngoing, StatusCompleted, StatusCancelled:
		return status, true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further transitions are allowed.
func (s TripStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
// Forward moves only: PLANNED -> ONGOING -> COMPLETED, with CANCELLED
// reachable from any non-terminal state.
func (s TripStatus) CanTransitionTo(next TripStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch next {
	case StatusCancelled:
		return true
	case StatusOngoing:
		return s == StatusPlanned
	case StatusCompleted:
		return s == StatusPlanned || s == StatusOngoing
	default:
		return false
	}
}

// TripActivity is one selected activity line inside a trip.
type TripActivity struct {
	ActivityID    string  `json:"activity_id"`
	Name          string  `json:"name"`
	UnitPrice     float64 `json:"unit_price"`
	DurationType  string  `json:"duration_type"`
	DurationValue int     `json:"duration_value"`
	Quantity      int     `json:"quantity"`
}

// Cost is the line total for the selected activity.
func (a TripActivity) Cost() float64 {
	return a.UnitPrice * float64(a.DurationValue) * float64(a.Quantity)
}

// Trip is a planned journey to a city with a set of selected activities.
type Trip struct {
	BaseModel

	UserID string `gorm:"type:uuid;index;not null" json:"user_id"`
	User   *User  `json:"-"`

	CityID string `gorm:"type:uuid;index;not null" json:"city_id"`
	City   *City  `json:"city,omitempty"`

	Name         string     `gorm:"not null" json:"name"`
	StartDate    time.Time  `gorm:"not null;index" json:"start_date"`
	DurationDays int        `gorm:"not null" json:"duration_days"`
	EndDate      time.Time  `gorm:"not null;index" json:"end_date"`
	Status       TripStatus `gorm:"type:varchar(16);not null;default:'PLANNED';index" json:"status"`

	TotalCost  float64                           `json:"total_cost"`
	Activities datatypes.JSONSlice[TripActivity] `json:"activities"`
}

// AfterFind normalises legacy status aliases persisted by older writers.
func (t *Trip) AfterFind(tx *gorm.DB) error {
	t.Status = NormalizeStatus(t.Status)
	return nil
}

// StartsAt returns the moment the trip is considered to begin. Trips
// start at noon local time on the start date.
func (t *Trip) StartsAt() time.Time {
	y, m, d := t.StartDate.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.StartDate.Location())
}

// EndsAt returns the moment the trip is considered over, which is the
// end of the trip's last day.
func (t *Trip) EndsAt() time.Time {
	y, m, d := t.EndDate.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.EndDate.Location())
}
