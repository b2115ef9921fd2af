// Package notifier delivers trip notifications to users over email.
package notifier

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rverbytskyi/planora/internal/models"
	"github.com/rverbytskyi/planora/pkg/logger"
	"github.com/rverbytskyi/planora/pkg/mail"
)

// Notifier sends a trip notification through an out-of-app channel.
type Notifier interface {
	NotifyTrip(ctx context.Context, user models.User, trip models.Trip, notification models.TripNotification) error
}

// EmailNotifier renders trip notifications as HTML emails.
type EmailNotifier struct {
	mailer mail.Mailer
	log    *zap.Logger
}

// NewEmailNotifier constructs an EmailNotifier.
func NewEmailNotifier(mailer mail.Mailer) (*EmailNotifier, error) {
	if mailer == nil {
		return nil, errors.New("email notifier: mailer is required")
	}
	return &EmailNotifier{
		mailer: mailer,
		log:    logger.WithModule("notifier"),
	}, nil
}

// NotifyTrip emails the user about the notification. Ongoing-status
// notifications stay in-app only and are silently skipped.
func (n *EmailNotifier) NotifyTrip(ctx context.Context, user models.User, trip models.Trip, notification models.TripNotification) error {
	if notification.Type == models.NotificationTripOngoing {
		return nil
	}

	subject, body := emailContent(user, trip, notification)

	err := n.mailer.Send(ctx, mail.Message{
		To:      []string{user.Email},
		Subject: subject,
		Body:    body,
		HTML:    true,
	})
	if err != nil {
		if errors.Is(err, mail.ErrSMTPDisabled) {
			n.log.Debug("email delivery disabled, skipping",
				zap.String("trip_id", trip.ID),
				zap.String("type", string(notification.Type)))
			return err
		}
		return fmt.Errorf("email notifier: send: %w", err)
	}

	return nil
}

func emailContent(user models.User, trip models.Trip, notification models.TripNotification) (string, string) {
	if days, ok := notification.Type.ReminderDays(); ok {
		return notification.Title, reminderBody(user, trip, days)
	}

	switch notification.Type {
	case models.NotificationTripStartToday:
		return notification.Title, wrapBody(user,
			fmt.Sprintf("Your trip <strong>%s</strong> begins today. Have a wonderful journey!", trip.Name))
	case models.NotificationTripCompleted:
		return notification.Title, wrapBody(user,
			fmt.Sprintf("Your trip <strong>%s</strong> is complete. We hope you had a great time and would love to see you plan your next adventure.", trip.Name))
	case models.NotificationTripCancelled:
		return notification.Title, wrapBody(user,
			fmt.Sprintf("Your trip <strong>%s</strong> has been cancelled. All reminders for this trip have been stopped.", trip.Name))
	default:
		return notification.Title, wrapBody(user, notification.Message)
	}
}

func reminderBody(user models.User, trip models.Trip, days int) string {
	var line string
	switch days {
	case 10:
		line = fmt.Sprintf("Only 10 days until <strong>%s</strong>. Time to start planning the details!", trip.Name)
	case 7:
		line = fmt.Sprintf("Just one week left before <strong>%s</strong>. Check your bookings and reservations.", trip.Name)
	case 5:
		line = fmt.Sprintf("5 days to go until <strong>%s</strong>. Have you checked the weather forecast yet?", trip.Name)
	case 3:
		line = fmt.Sprintf("<strong>%s</strong> is almost here. Time to start packing!", trip.Name)
	case 2:
		line = fmt.Sprintf("Just 2 days until <strong>%s</strong>. Confirm your transport and accommodation.", trip.Name)
	case 1:
		line = fmt.Sprintf("<strong>%s</strong> starts tomorrow. Double-check your documents and get some rest.", trip.Name)
	default:
		line = fmt.Sprintf("<strong>%s</strong> starts in %d days.", trip.Name, days)
	}
	return wrapBody(user, line)
}

func wrapBody(user models.User, content string) string {
	return fmt.Sprintf(`<html><body style="font-family:sans-serif">
<p>Hi %s,</p>
<p>%s</p>
<p>Safe travels,<br>The Planora Team</p>
</body></html>`, user.FullName(), content)
}
