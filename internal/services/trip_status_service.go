package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rverbytskyi/planora/internal/models"
	"github.com/rverbytskyi/planora/internal/notifier"
	apperrors "github.com/rverbytskyi/planora/pkg/errors"
	"github.com/rverbytskyi/planora/pkg/logger"
	"github.com/rverbytskyi/planora/pkg/mail"
)

const emailSendTimeout = 15 * time.Second

// TripStatusService drives the trip lifecycle and its side effects.
type TripStatusService struct {
	db            *gorm.DB
	notifications *TripNotificationService
	notifier      notifier.Notifier
	log           *zap.Logger
}

// NewTripStatusService constructs a TripStatusService. The notifier may
// be nil, in which case no emails are sent.
func NewTripStatusService(db *gorm.DB, notifications *TripNotificationService, n notifier.Notifier) (*TripStatusService, error) {
	if db == nil {
		return nil, errors.New("trip status service: db is required")
	}
	if notifications == nil {
		return nil, errors.New("trip status service: notification service is required")
	}
	return &TripStatusService{
		db:            db,
		notifications: notifications,
		notifier:      n,
		log:           logger.WithModule("trip_status"),
	}, nil
}

// UpdateStatus moves a trip owned by the user to the requested status.
// Only forward lifecycle moves are allowed; cancellation is reachable
// from any non-terminal state. Completed and cancelled trips trigger a
// best-effort email, ongoing trips notify in-app only.
func (s *TripStatusService) UpdateStatus(ctx context.Context, userID, tripID, requested string) (*models.Trip, error) {
	ctx = ensureContext(ctx)

	next, ok := models.ParseStatus(requested)
	if !ok {
		return nil, apperrors.ErrInvalidStatus
	}

	var trip models.Trip
	if err := s.db.WithContext(ctx).Where("id = ?", tripID).First(&trip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("trip status service: load trip: %w", err)
	}
	if trip.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	if err := s.transition(ctx, &trip, next, false); err != nil {
		return nil, err
	}
	return &trip, nil
}

// Cancel moves a trip owned by the user to CANCELLED.
func (s *TripStatusService) Cancel(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	return s.UpdateStatus(ctx, userID, tripID, string(models.StatusCancelled))
}

// AutoTransition moves a trip to the next status on behalf of the
// scheduler, bypassing ownership checks. Emails are sent synchronously
// so the caller observes delivery failures.
func (s *TripStatusService) AutoTransition(ctx context.Context, trip *models.Trip, next models.TripStatus) error {
	ctx = ensureContext(ctx)
	return s.transition(ctx, trip, next, true)
}

func (s *TripStatusService) transition(ctx context.Context, trip *models.Trip, next models.TripStatus, syncEmail bool) error {
	if !trip.Status.CanTransitionTo(next) {
		return apperrors.ErrInvalidTransition
	}

	if err := s.db.WithContext(ctx).
		Model(trip).
		Update("status", next).Error; err != nil {
		return fmt.Errorf("trip status service: persist status: %w", err)
	}
	trip.Status = next

	title, message := statusContent(next, *trip)
	notificationType, ok := models.NotificationTypeForStatus(next)
	if !ok {
		return nil
	}

	dto, created, err := s.notifications.Create(ctx, CreateTripNotificationInput{
		TripID:  trip.ID,
		UserID:  trip.UserID,
		Type:    notificationType,
		Title:   title,
		Message: message,
	})
	if err != nil {
		s.log.Warn("status notification failed",
			zap.String("trip_id", trip.ID),
			zap.String("status", string(next)),
			zap.Error(err))
		return nil
	}

	if !created || !statusTriggersEmail(next) {
		return nil
	}

	if syncEmail {
		return s.sendEmail(ctx, *trip, *dto)
	}

	go func(trip models.Trip, dto TripNotificationDTO) {
		bgCtx, cancel := context.WithTimeout(context.Background(), emailSendTimeout)
		defer cancel()
		if err := s.sendEmail(bgCtx, trip, dto); err != nil {
			s.log.Warn("status email failed",
				zap.String("trip_id", trip.ID),
				zap.String("type", string(dto.Type)),
				zap.Error(err))
		}
	}(*trip, *dto)

	return nil
}

func (s *TripStatusService) sendEmail(ctx context.Context, trip models.Trip, dto TripNotificationDTO) error {
	if s.notifier == nil {
		return nil
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", trip.UserID).First(&user).Error; err != nil {
		return fmt.Errorf("trip status service: load user: %w", err)
	}

	notification := models.TripNotification{
		BaseModel: models.BaseModel{ID: dto.ID},
		TripID:    dto.TripID,
		UserID:    dto.UserID,
		Type:      dto.Type,
		Title:     dto.Title,
		Message:   dto.Message,
	}
	if err := s.notifier.NotifyTrip(ctx, user, trip, notification); err != nil {
		if errors.Is(err, mail.ErrSMTPDisabled) {
			return nil
		}
		return err
	}

	return s.notifications.MarkEmailSent(ctx, dto.ID)
}

// statusTriggersEmail reports whether a status change emails the owner.
// Ongoing trips are announced in-app only.
func statusTriggersEmail(status models.TripStatus) bool {
	return status == models.StatusCompleted || status == models.StatusCancelled
}
