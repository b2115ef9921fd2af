package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rverbytskyi/planora/internal/models"
	apperrors "github.com/rverbytskyi/planora/pkg/errors"
)

// SelectedActivityInput is one activity line requested for a trip.
type SelectedActivityInput struct {
	ActivityID    string `json:"activity_id" validate:"required"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
	DurationValue int    `json:"duration_value" validate:"required,min=1"`
}

// CreateTripInput defines attributes required to plan a trip.
type CreateTripInput struct {
	CityID       string                  `json:"city_id" validate:"required"`
	Name         string                  `json:"name" validate:"required,max=255"`
	StartDate    time.Time               `json:"start_date" validate:"required"`
	DurationDays int                     `json:"duration_days" validate:"required,min=1"`
	Activities   []SelectedActivityInput `json:"activities" validate:"dive"`
}

// UpdateTripInput carries optional fields for editing a planned trip.
type UpdateTripInput struct {
	Name         *string                  `json:"name" validate:"omitempty,max=255"`
	StartDate    *time.Time               `json:"start_date"`
	DurationDays *int                     `json:"duration_days" validate:"omitempty,min=1"`
	Activities   *[]SelectedActivityInput `json:"activities" validate:"omitempty,dive"`
}

// TripServiceOption customises the TripService.
type TripServiceOption func(*TripService)

// WithTripClock overrides the clock, primarily for testing.
func WithTripClock(now func() time.Time) TripServiceOption {
	return func(s *TripService) {
		if now != nil {
			s.now = now
		}
	}
}

// TripService manages trip planning and retrieval.
type TripService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTripService constructs a TripService.
func NewTripService(db *gorm.DB, opts ...TripServiceOption) (*TripService, error) {
	if db == nil {
		return nil, errors.New("trip service: db is required")
	}
	svc := &TripService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create plans a new trip for the user. Selected activities are priced
// at creation time and the line snapshots stored with the trip.
func (s *TripService) Create(ctx context.Context, userID string, input CreateTripInput) (*models.Trip, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("trip service: user id is required")
	}

	var city models.City
	if err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", input.CityID, true).
		First(&city).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewBadRequest("Unknown or inactive city")
		}
		return nil, fmt.Errorf("trip service: load city: %w", err)
	}

	lines, total, err := s.resolveActivities(ctx, city.ID, input.Activities)
	if err != nil {
		return nil, err
	}

	startDate := truncateToDay(input.StartDate)
	trip := models.Trip{
		UserID:       userID,
		CityID:       city.ID,
		Name:         strings.TrimSpace(input.Name),
		StartDate:    startDate,
		DurationDays: input.DurationDays,
		EndDate:      startDate.AddDate(0, 0, input.DurationDays),
		Status:       models.StatusPlanned,
		TotalCost:    total,
		Activities:   datatypes.NewJSONSlice(lines),
	}

	if err := s.db.WithContext(ctx).Create(&trip).Error; err != nil {
		return nil, fmt.Errorf("trip service: create trip: %w", err)
	}

	trip.City = &city
	return &trip, nil
}

// Update edits a trip owned by the user. Cancelled and completed trips
// can no longer be modified.
func (s *TripService) Update(ctx context.Context, userID, tripID string, input UpdateTripInput) (*models.Trip, error) {
	ctx = ensureContext(ctx)

	trip, err := s.Get(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status.IsTerminal() {
		return nil, apperrors.NewBadRequest("Finished or cancelled trips cannot be modified")
	}

	if input.Name != nil {
		trip.Name = strings.TrimSpace(*input.Name)
	}
	if input.StartDate != nil {
		trip.StartDate = truncateToDay(*input.StartDate)
	}
	if input.DurationDays != nil {
		trip.DurationDays = *input.DurationDays
	}
	trip.EndDate = trip.StartDate.AddDate(0, 0, trip.DurationDays)

	if input.Activities != nil {
		lines, total, err := s.resolveActivities(ctx, trip.CityID, *input.Activities)
		if err != nil {
			return nil, err
		}
		trip.Activities = datatypes.NewJSONSlice(lines)
		trip.TotalCost = total
	}

	if err := s.db.WithContext(ctx).Save(trip).Error; err != nil {
		return nil, fmt.Errorf("trip service: update trip: %w", err)
	}
	return trip, nil
}

// Get loads a trip and verifies ownership.
func (s *TripService) Get(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	ctx = ensureContext(ctx)

	var trip models.Trip
	if err := s.db.WithContext(ctx).
		Preload("City").
		Where("id = ?", tripID).
		First(&trip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("trip service: load trip: %w", err)
	}
	if trip.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return &trip, nil
}

// ListForUser returns the user's trips ordered by start date.
func (s *TripService) ListForUser(ctx context.Context, userID string) ([]models.Trip, error) {
	ctx = ensureContext(ctx)

	var trips []models.Trip
	if err := s.db.WithContext(ctx).
		Preload("City").
		Where("user_id = ?", userID).
		Order("start_date ASC").
		Find(&trips).Error; err != nil {
		return nil, fmt.Errorf("trip service: list trips: %w", err)
	}
	return trips, nil
}

// Countdown computes the countdown for one of the user's trips.
func (s *TripService) Countdown(ctx context.Context, userID, tripID string) (*Countdown, error) {
	trip, err := s.Get(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	cd := CalculateCountdown(*trip, s.now())
	return &cd, nil
}

// Countdowns computes countdowns for all of the user's non-cancelled
// trips, nearest departure first.
func (s *TripService) Countdowns(ctx context.Context, userID string) ([]Countdown, error) {
	trips, err := s.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	countdowns := make([]Countdown, 0, len(trips))
	for _, trip := range trips {
		if trip.Status == models.StatusCancelled {
			continue
		}
		countdowns = append(countdowns, CalculateCountdown(trip, now))
	}

	sort.Slice(countdowns, func(i, j int) bool {
		return countdowns[i].TotalSeconds < countdowns[j].TotalSeconds
	})
	return countdowns, nil
}

func (s *TripService) resolveActivities(ctx context.Context, cityID string, inputs []SelectedActivityInput) ([]models.TripActivity, float64, error) {
	lines := make([]models.TripActivity, 0, len(inputs))
	var total float64

	for _, in := range inputs {
		var activity models.Activity
		if err := s.db.WithContext(ctx).
			Where("id = ? AND city_id = ? AND is_active = ?", in.ActivityID, cityID, true).
			First(&activity).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, apperrors.NewBadRequest("Unknown activity for the selected city")
			}
			return nil, 0, fmt.Errorf("trip service: load activity: %w", err)
		}
		if in.Quantity <= 0 || in.DurationValue <= 0 {
			return nil, 0, apperrors.NewBadRequest("Activity quantity and duration must be positive")
		}

		line := models.TripActivity{
			ActivityID:    activity.ID,
			Name:          activity.Name,
			UnitPrice:     activity.UnitPrice,
			DurationType:  string(activity.DurationType),
			DurationValue: in.DurationValue,
			Quantity:      in.Quantity,
		}
		lines = append(lines, line)
		total += line.Cost()
	}

	return lines, total, nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
