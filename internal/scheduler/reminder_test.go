package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rverbytskyi/planora/internal/database/testutil"
	"github.com/rverbytskyi/planora/internal/models"
	"github.com/rverbytskyi/planora/internal/services"
)

type recordingNotifier struct {
	mu     sync.Mutex
	calls  []models.NotificationType
	failOn map[string]error
}

func (n *recordingNotifier) NotifyTrip(_ context.Context, _ models.User, trip models.Trip, notification models.TripNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err, ok := n.failOn[trip.ID]; ok {
		return err
	}
	n.calls = append(n.calls, notification.Type)
	return nil
}

func (n *recordingNotifier) sent() []models.NotificationType {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.NotificationType(nil), n.calls...)
}

type reminderFixture struct {
	db       *gorm.DB
	reminder *Reminder
	notifier *recordingNotifier
	user     *models.User
	now      time.Time
}

func newReminderFixture(t *testing.T, now time.Time) *reminderFixture {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	user := &models.User{
		Email:     "traveller@example.com",
		Password:  "hashed",
		FirstName: "Ada",
		IsActive:  true,
	}
	require.NoError(t, db.Create(user).Error)

	notificationSvc, err := services.NewTripNotificationService(db, nil)
	require.NoError(t, err)

	sink := &recordingNotifier{failOn: map[string]error{}}
	statusSvc, err := services.NewTripStatusService(db, notificationSvc, sink)
	require.NoError(t, err)

	reminder := NewReminder(db, statusSvc, notificationSvc,
		WithNow(func() time.Time { return now }),
		WithNotifier(sink),
	)

	return &reminderFixture{db: db, reminder: reminder, notifier: sink, user: user, now: now}
}

func (f *reminderFixture) seedTrip(t *testing.T, daysUntilStart, durationDays int, status models.TripStatus) *models.Trip {
	t.Helper()

	start := truncateToDay(f.now).AddDate(0, 0, daysUntilStart)
	trip := &models.Trip{
		UserID:       f.user.ID,
		CityID:       "seed-city-paris",
		Name:         "Test Trip",
		StartDate:    start,
		DurationDays: durationDays,
		EndDate:      start.AddDate(0, 0, durationDays),
		Status:       status,
	}
	require.NoError(t, f.db.Create(trip).Error)
	return trip
}

func (f *reminderFixture) notificationCount(t *testing.T, tripID string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.TripNotification{}).
		Where("trip_id = ?", tripID).Count(&count).Error)
	return count
}

func TestRunOnceSendsReminderInsideWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	f := newReminderFixture(t, now)

	trip := f.seedTrip(t, 5, 3, models.StatusPlanned)

	require.NoError(t, f.reminder.RunOnce(context.Background()))

	require.Equal(t, []models.NotificationType{models.NotificationReminder5Days}, f.notifier.sent())
	require.Equal(t, int64(1), f.notificationCount(t, trip.ID))

	var row models.TripNotification
	require.NoError(t, f.db.First(&row, "trip_id = ?", trip.ID).Error)
	require.Equal(t, models.NotificationReminder5Days, row.Type)
	require.True(t, row.EmailSent)
}

func TestRunOnceIsIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	f := newReminderFixture(t, now)

	trip := f.seedTrip(t, 7, 3, models.StatusPlanned)

	require.NoError(t, f.reminder.RunOnce(context.Background()))
	require.NoError(t, f.reminder.RunOnce(context.Background()))
	require.NoError(t, f.reminder.RunOnce(context.Background()))

	require.Equal(t, int64(1), f.notificationCount(t, trip.ID))
	require.Len(t, f.notifier.sent(), 1)
}

func TestRunOnceIgnoresTripsOutsideWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	f := newReminderFixture(t, now)

	eleven := f.seedTrip(t, 11, 3, models.StatusPlanned)
	ten := f.seedTrip(t, 10, 3, models.StatusPlanned)

	require.NoError(t, f.reminder.RunOnce(context.Background()))

	require.Zero(t, f.notificationCount(t, eleven.ID))
	require.Equal(t, int64(1), f.notificationCount(t, ten.ID))
	require.Equal(t, []models.NotificationType{models.NotificationReminder10Days}, f.notifier.sent())

	var row models.TripNotification
	require.NoError(t, f.db.First(&row, "trip_id = ?", ten.ID).Error)
	require.Contains(t, row.Title, "10 Days")
}

func TestRunOnceStartsTripsToday(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	f := newReminderFixture(t, now)

	trip := f.seedTrip(t, 0, 3, models.StatusPlanned)

	require.NoError(t, f.reminder.RunOnce(context.Background()))

	var reloaded models.Trip
	require.NoError(t, f.db.First(&reloaded, "id = ?", trip.ID).Error)
	require.Equal(t, models.StatusOngoing, reloaded.Status)

	// A start-today notice plus the ongoing status announcement.
	require.Equal(t, int64(2), f.notificationCount(t, trip.ID))
	require.Equal(t, []models.NotificationType{models.NotificationTripStartToday}, f.notifier.sent())
}

func TestRunOnceCompletesEndedTrips(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	f := newReminderFixture(t, now)

	ended := f.seedTrip(t, -5, 3, models.StatusOngoing)
	running := f.seedTrip(t, -1, 3, models.StatusOngoing)

	require.NoError(t, f.reminder.RunOnce(context.Background()))

	var reloaded models.Trip
	require.NoError(t, f.db.First(&reloaded, "id = ?", ended.ID).Error)
	require.Equal(t, models.StatusCompleted, reloaded.Status)

	var stillRunning models.Trip
	require.NoError(t, f.db.First(&stillRunning, "id = ?", running.ID).Error)
	require.Equal(t, models.StatusOngoing, stillRunning.Status)

	require.Equal(t, []models.NotificationType{models.NotificationTripCompleted}, f.notifier.sent())
}

func TestRunOnceIsolatesFailures(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	f := newReminderFixture(t, now)

	broken := f.seedTrip(t, 3, 3, models.StatusPlanned)
	healthy := f.seedTrip(t, 2, 3, models.StatusPlanned)
	f.notifier.failOn[broken.ID] = errors.New("mailbox on fire")

	err := f.reminder.RunOnce(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), broken.ID)

	// The healthy trip still received its reminder.
	require.Equal(t, int64(1), f.notificationCount(t, healthy.ID))
	require.Equal(t, []models.NotificationType{models.NotificationReminder2Days}, f.notifier.sent())
}

func TestRunOnceRetriesFailedEmail(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	f := newReminderFixture(t, now)

	trip := f.seedTrip(t, 4, 3, models.StatusPlanned)
	f.notifier.failOn[trip.ID] = errors.New("temporary smtp outage")

	require.Error(t, f.reminder.RunOnce(context.Background()))
	require.Equal(t, int64(1), f.notificationCount(t, trip.ID))

	var row models.TripNotification
	require.NoError(t, f.db.First(&row, "trip_id = ?", trip.ID).Error)
	require.False(t, row.EmailSent)

	// The outage clears and the next run retries without a duplicate row.
	delete(f.notifier.failOn, trip.ID)
	require.NoError(t, f.reminder.RunOnce(context.Background()))

	require.Equal(t, int64(1), f.notificationCount(t, trip.ID))
	require.NoError(t, f.db.First(&row, "trip_id = ?", trip.ID).Error)
	require.True(t, row.EmailSent)
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.Equal(t, 0, daysUntil(today, today.Add(10*time.Hour)))
	require.Equal(t, 1, daysUntil(today, today.AddDate(0, 0, 1)))
	require.Equal(t, 10, daysUntil(today, today.AddDate(0, 0, 10)))
	require.Equal(t, -2, daysUntil(today, today.AddDate(0, 0, -2)))
}

func TestDaysUntilAcrossDSTTransition(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 2025-03-30 is the spring-forward day in Berlin (23 wall-clock
	// hours). The gap to the next morning is still one calendar day.
	today := time.Date(2025, 3, 30, 0, 0, 0, 0, berlin)
	start := time.Date(2025, 3, 31, 0, 0, 0, 0, berlin)
	require.Equal(t, 1, daysUntil(today, start))

	// Ten calendar days spanning the transition.
	require.Equal(t, 10, daysUntil(today, time.Date(2025, 4, 9, 0, 0, 0, 0, berlin)))

	// Start date stored with a different offset than the local today.
	require.Equal(t, 1, daysUntil(today, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 0, daysUntil(today, time.Date(2025, 3, 30, 23, 0, 0, 0, time.UTC)))
}
