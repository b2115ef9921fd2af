// Package scheduler runs the daily trip reminder job.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rverbytskyi/planora/internal/models"
	"github.com/rverbytskyi/planora/internal/notifier"
	"github.com/rverbytskyi/planora/internal/services"
	"github.com/rverbytskyi/planora/pkg/logger"
	"github.com/rverbytskyi/planora/pkg/mail"
	"github.com/rverbytskyi/planora/pkg/metrics"
)

// Reminders go out every morning at 08:00.
const defaultReminderSpec = "0 8 * * *"

// Reminder coordinates the daily trip countdown job: departure
// reminders, start-of-trip transitions, and the completion sweep.
type Reminder struct {
	db            *gorm.DB
	status        *services.TripStatusService
	notifications *services.TripNotificationService
	notifier      notifier.Notifier
	cron          *cron.Cron
	now           func() time.Time
	log           *zap.Logger
	schedule      string
}

// Option customises the Reminder.
type Option func(*Reminder)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(r *Reminder) {
		if c != nil {
			r.cron = c
		}
	}
}

// WithNow overrides the clock used for countdown comparisons.
func WithNow(now func() time.Time) Option {
	return func(r *Reminder) {
		if now != nil {
			r.now = now
		}
	}
}

// WithSchedule overrides the cron specification for the daily run.
func WithSchedule(spec string) Option {
	return func(r *Reminder) {
		if spec != "" {
			r.schedule = spec
		}
	}
}

// WithNotifier attaches an out-of-app notifier for reminder emails.
func WithNotifier(n notifier.Notifier) Option {
	return func(r *Reminder) {
		r.notifier = n
	}
}

// NewReminder constructs a Reminder with sensible defaults.
func NewReminder(db *gorm.DB, status *services.TripStatusService, notifications *services.TripNotificationService, opts ...Option) *Reminder {
	reminder := &Reminder{
		db:            db,
		status:        status,
		notifications: notifications,
		now:           time.Now,
		schedule:      defaultReminderSpec,
		log:           logger.WithModule("scheduler"),
	}

	for _, opt := range opts {
		opt(reminder)
	}

	if reminder.cron == nil {
		reminder.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return reminder
}

// Start registers the daily job with the cron scheduler and launches it.
func (r *Reminder) Start() error {
	if _, err := r.cron.AddFunc(r.schedule, func() {
		if err := r.RunOnce(context.Background()); err != nil {
			r.log.Warn("reminder run finished with errors", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	r.cron.Start()
	r.log.Info("reminder scheduler started", zap.String("schedule", r.schedule))
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (r *Reminder) Stop() context.Context {
	if r.cron == nil {
		return context.Background()
	}
	return r.cron.Stop()
}

// RunOnce executes a full reminder pass. Each trip is processed
// independently so one failure never blocks the rest; errors are
// aggregated and returned. The pass is idempotent: reruns on the same
// day send nothing twice.
func (r *Reminder) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	today := truncateToDay(r.now())
	var errs error

	var planned []models.Trip
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", models.StatusPlanned).
		Find(&planned).Error; err != nil {
		return fmt.Errorf("reminder: load planned trips: %w", err)
	}

	for _, trip := range planned {
		if err := r.processPlanned(ctx, trip, today); err != nil {
			metrics.ReminderFailures.Inc()
			r.log.Warn("reminder failed for trip",
				zap.String("trip_id", trip.ID),
				zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("trip %s: %w", trip.ID, err))
		}
	}

	var ongoing []models.Trip
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ? AND end_date < ?", models.StatusOngoing, today).
		Find(&ongoing).Error; err != nil {
		return multierr.Append(errs, fmt.Errorf("reminder: load ongoing trips: %w", err))
	}

	for _, trip := range ongoing {
		trip := trip
		if err := r.status.AutoTransition(ctx, &trip, models.StatusCompleted); err != nil {
			metrics.ReminderFailures.Inc()
			r.log.Warn("auto-complete failed for trip",
				zap.String("trip_id", trip.ID),
				zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("trip %s: %w", trip.ID, err))
		}
	}

	return errs
}

func (r *Reminder) processPlanned(ctx context.Context, trip models.Trip, today time.Time) error {
	days := daysUntil(today, trip.StartDate)

	switch {
	case days == 0:
		title, message := startTodayContent(trip)
		if err := r.deliver(ctx, trip, models.NotificationTripStartToday, title, message); err != nil {
			return err
		}
		return r.status.AutoTransition(ctx, &trip, models.StatusOngoing)

	case days >= 1 && days <= 10:
		reminderType, ok := models.ReminderTypeForDays(days)
		if !ok {
			return nil
		}
		title, message := reminderContent(days, trip)
		return r.deliver(ctx, trip, reminderType, title, message)

	default:
		return nil
	}
}

// deliver creates the notification if it does not exist yet and follows
// up with an email. A notification whose email previously failed is
// retried without creating a duplicate row.
func (r *Reminder) deliver(ctx context.Context, trip models.Trip, notificationType models.NotificationType, title, message string) error {
	dto, created, err := r.notifications.Create(ctx, services.CreateTripNotificationInput{
		TripID:  trip.ID,
		UserID:  trip.UserID,
		Type:    notificationType,
		Title:   title,
		Message: message,
	})
	if err != nil {
		return err
	}

	if created {
		metrics.RemindersSent.WithLabelValues(string(notificationType)).Inc()
	} else {
		metrics.RemindersSkipped.WithLabelValues(string(notificationType)).Inc()
	}

	if r.notifier == nil || dto.EmailSent {
		return nil
	}
	if trip.User == nil {
		return fmt.Errorf("reminder: trip %s has no user loaded", trip.ID)
	}

	notification := models.TripNotification{
		BaseModel: models.BaseModel{ID: dto.ID},
		TripID:    trip.ID,
		UserID:    trip.UserID,
		Type:      notificationType,
		Title:     title,
		Message:   message,
	}
	if err := r.notifier.NotifyTrip(ctx, *trip.User, trip, notification); err != nil {
		if errors.Is(err, mail.ErrSMTPDisabled) {
			return nil
		}
		return err
	}

	return r.notifications.MarkEmailSent(ctx, dto.ID)
}

// daysUntil counts calendar days between the two dates. Both are
// reduced to their date components in UTC first, so DST shifts and
// mixed timezone offsets never skew the count.
func daysUntil(today, startDate time.Time) int {
	ty, tm, td := today.Date()
	sy, sm, sd := startDate.Date()
	from := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	to := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / (24 * time.Hour))
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
