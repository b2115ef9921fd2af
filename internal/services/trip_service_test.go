package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rverbytskyi/planora/internal/database/testutil"
	"github.com/rverbytskyi/planora/internal/models"
	apperrors "github.com/rverbytskyi/planora/pkg/errors"
)

func seedTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:     email,
		Password:  "hashed",
		FirstName: "Ada",
		LastName:  "Lovelace",
		IsActive:  true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTestTrip(t *testing.T, db *gorm.DB, userID string, start time.Time, days int, status models.TripStatus) *models.Trip {
	t.Helper()

	trip := &models.Trip{
		UserID:       userID,
		CityID:       "seed-city-paris",
		Name:         "Test Trip",
		StartDate:    start,
		DurationDays: days,
		EndDate:      start.AddDate(0, 0, days),
		Status:       status,
	}
	require.NoError(t, db.Create(trip).Error)
	return trip
}

func TestTripServiceCreate(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	user := seedTestUser(t, db, "planner@example.com")

	svc, err := NewTripService(db)
	require.NoError(t, err)

	start := time.Date(2025, 7, 1, 15, 30, 0, 0, time.UTC)
	trip, err := svc.Create(context.Background(), user.ID, CreateTripInput{
		CityID:       "seed-city-paris",
		Name:         "  Summer in Paris  ",
		StartDate:    start,
		DurationDays: 4,
		Activities: []SelectedActivityInput{
			{ActivityID: "seed-activity-louvre", Quantity: 2, DurationValue: 3},
		},
	})
	require.NoError(t, err)

	require.Equal(t, "Summer in Paris", trip.Name)
	require.Equal(t, models.StatusPlanned, trip.Status)

	// Start date is truncated to the day and the end date derived from it.
	require.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), trip.StartDate)
	require.Equal(t, trip.StartDate.AddDate(0, 0, 4), trip.EndDate)

	// Louvre tour is 25 per hour, 3 hours for 2 people.
	require.Equal(t, float64(25*3*2), trip.TotalCost)
	require.Len(t, trip.Activities, 1)
	require.Equal(t, "Louvre Museum Tour", trip.Activities[0].Name)
	require.Equal(t, "HOURS", trip.Activities[0].DurationType)
}

func TestTripServiceCreateRejectsUnknownCity(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	user := seedTestUser(t, db, "planner@example.com")

	svc, err := NewTripService(db)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), user.ID, CreateTripInput{
		CityID:       "no-such-city",
		Name:         "Nowhere",
		StartDate:    time.Now(),
		DurationDays: 2,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 400, appErr.StatusCode)
}

func TestTripServiceCreateRejectsForeignActivity(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	user := seedTestUser(t, db, "planner@example.com")

	svc, err := NewTripService(db)
	require.NoError(t, err)

	// Mount Fuji belongs to Tokyo, not Paris.
	_, err = svc.Create(context.Background(), user.ID, CreateTripInput{
		CityID:       "seed-city-paris",
		Name:         "Mismatched",
		StartDate:    time.Now(),
		DurationDays: 2,
		Activities: []SelectedActivityInput{
			{ActivityID: "seed-activity-fuji", Quantity: 1, DurationValue: 1},
		},
	})
	require.Error(t, err)
}

func TestTripServiceUpdateRecalculates(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	user := seedTestUser(t, db, "planner@example.com")

	svc, err := NewTripService(db)
	require.NoError(t, err)

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	trip := seedTestTrip(t, db, user.ID, start, 4, models.StatusPlanned)

	newStart := time.Date(2025, 8, 2, 10, 0, 0, 0, time.UTC)
	newDays := 7
	updated, err := svc.Update(context.Background(), user.ID, trip.ID, UpdateTripInput{
		StartDate:    &newStart,
		DurationDays: &newDays,
		Activities: &[]SelectedActivityInput{
			{ActivityID: "seed-activity-louvre", Quantity: 1, DurationValue: 2},
		},
	})
	require.NoError(t, err)

	require.Equal(t, time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC), updated.StartDate)
	require.Equal(t, updated.StartDate.AddDate(0, 0, 7), updated.EndDate)
	require.Equal(t, float64(50), updated.TotalCost)
}

func TestTripServiceUpdateRejectsTerminal(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	user := seedTestUser(t, db, "planner@example.com")

	svc, err := NewTripService(db)
	require.NoError(t, err)

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	for _, status := range []models.TripStatus{models.StatusCompleted, models.StatusCancelled} {
		trip := seedTestTrip(t, db, user.ID, start, 2, status)

		name := "Renamed"
		_, err := svc.Update(context.Background(), user.ID, trip.ID, UpdateTripInput{Name: &name})
		require.Error(t, err, "status %s", status)
	}
}

func TestTripServiceGetEnforcesOwnership(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	owner := seedTestUser(t, db, "owner@example.com")
	intruder := seedTestUser(t, db, "intruder@example.com")

	svc, err := NewTripService(db)
	require.NoError(t, err)

	trip := seedTestTrip(t, db, owner.ID, time.Now(), 2, models.StatusPlanned)

	_, err = svc.Get(context.Background(), intruder.ID, trip.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.Get(context.Background(), owner.ID, "missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTripServiceCountdowns(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	user := seedTestUser(t, db, "planner@example.com")

	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	svc, err := NewTripService(db, WithTripClock(func() time.Time { return now }))
	require.NoError(t, err)

	far := seedTestTrip(t, db, user.ID, now.AddDate(0, 0, 30), 3, models.StatusPlanned)
	near := seedTestTrip(t, db, user.ID, now.AddDate(0, 0, 5), 3, models.StatusPlanned)
	seedTestTrip(t, db, user.ID, now.AddDate(0, 0, 10), 3, models.StatusCancelled)

	countdowns, err := svc.Countdowns(context.Background(), user.ID)
	require.NoError(t, err)

	// Cancelled trips are excluded and the nearest departure comes first.
	require.Len(t, countdowns, 2)
	require.Equal(t, near.ID, countdowns[0].TripID)
	require.Equal(t, far.ID, countdowns[1].TripID)
	require.Less(t, countdowns[0].TotalSeconds, countdowns[1].TotalSeconds)
}
