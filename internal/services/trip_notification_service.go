package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rverbytskyi/planora/internal/models"
	"github.com/rverbytskyi/planora/internal/notifications"
	apperrors "github.com/rverbytskyi/planora/pkg/errors"
)

// TripNotificationDTO represents the API-friendly notification payload.
type TripNotificationDTO struct {
	ID        string                  `json:"id"`
	TripID    string                  `json:"trip_id"`
	UserID    string                  `json:"user_id"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	IsRead    bool                    `json:"is_read"`
	EmailSent bool                    `json:"email_sent"`
	CreatedAt time.Time               `json:"created_at"`
	ReadAt    *time.Time              `json:"read_at,omitempty"`
}

// CreateTripNotificationInput defines attributes required to persist a notification.
type CreateTripNotificationInput struct {
	TripID  string
	UserID  string
	Type    models.NotificationType
	Title   string
	Message string
}

// ListTripNotificationsInput defines filters for querying user notifications.
type ListTripNotificationsInput struct {
	UserID     string
	UnreadOnly bool
	Limit      int
	Offset     int
}

// TripNotificationService manages the per-user trip notification inbox.
type TripNotificationService struct {
	db  *gorm.DB
	hub *notifications.Hub
}

// NewTripNotificationService constructs a TripNotificationService.
func NewTripNotificationService(db *gorm.DB, hub *notifications.Hub) (*TripNotificationService, error) {
	if db == nil {
		return nil, errors.New("trip notification service: db is required")
	}
	return &TripNotificationService{db: db, hub: hub}, nil
}

// Create persists a notification for a trip. At most one notification
// exists per (trip, type) pair; racing writers lose to the unique index
// and the call reports created=false without an error.
func (s *TripNotificationService) Create(ctx context.Context, input CreateTripNotificationInput) (*TripNotificationDTO, bool, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(input.TripID) == "" {
		return nil, false, errors.New("trip notification service: trip id is required")
	}
	if strings.TrimSpace(input.UserID) == "" {
		return nil, false, errors.New("trip notification service: user id is required")
	}
	if input.Type == "" {
		return nil, false, errors.New("trip notification service: type is required")
	}

	notification := models.TripNotification{
		TripID:  input.TripID,
		UserID:  input.UserID,
		Type:    input.Type,
		Title:   strings.TrimSpace(input.Title),
		Message: strings.TrimSpace(input.Message),
	}

	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		if isUniqueConstraintError(err) {
			existing, lookupErr := s.findByTripAndType(ctx, input.TripID, input.Type)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			dto := mapTripNotification(*existing)
			return &dto, false, nil
		}
		return nil, false, fmt.Errorf("trip notification service: create notification: %w", err)
	}

	dto := mapTripNotification(notification)
	s.broadcast(input.UserID, "notification.created", &dto)
	return &dto, true, nil
}

// Exists reports whether a notification already exists for the trip and type.
func (s *TripNotificationService) Exists(ctx context.Context, tripID string, notificationType models.NotificationType) (bool, error) {
	ctx = ensureContext(ctx)
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.TripNotification{}).
		Where("trip_id = ? AND type = ?", tripID, notificationType).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("trip notification service: check existing: %w", err)
	}
	return count > 0, nil
}

// MarkEmailSent records that the notification was delivered by email.
func (s *TripNotificationService) MarkEmailSent(ctx context.Context, notificationID string) error {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).
		Model(&models.TripNotification{}).
		Where("id = ?", notificationID).
		Updates(map[string]any{
			"email_sent":    true,
			"email_sent_at": now,
		}).Error; err != nil {
		return fmt.Errorf("trip notification service: mark email sent: %w", err)
	}
	return nil
}

// ListForUser returns notifications for the supplied user ordered by recency.
func (s *TripNotificationService) ListForUser(ctx context.Context, input ListTripNotificationsInput) ([]TripNotificationDTO, error) {
	ctx = ensureContext(ctx)
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, errors.New("trip notification service: user id is required")
	}

	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if input.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var rows []models.TripNotification
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(max(0, input.Offset)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("trip notification service: list notifications: %w", err)
	}

	items := make([]TripNotificationDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapTripNotification(row))
	}
	return items, nil
}

// UnreadCount returns the number of unread notifications for the user.
func (s *TripNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	ctx = ensureContext(ctx)
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.TripNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("trip notification service: unread count: %w", err)
	}
	return count, nil
}

// MarkRead sets the notification read flag for a user.
func (s *TripNotificationService) MarkRead(ctx context.Context, userID, notificationID string) (*TripNotificationDTO, error) {
	ctx = ensureContext(ctx)
	var notification models.TripNotification
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("trip notification service: load notification: %w", err)
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(&notification).
		Updates(map[string]any{
			"is_read": true,
			"read_at": now,
		}).Error; err != nil {
		return nil, fmt.Errorf("trip notification service: mark read: %w", err)
	}

	notification.IsRead = true
	notification.ReadAt = &now
	dto := mapTripNotification(notification)

	s.broadcast(userID, "notification.read", &dto)
	return &dto, nil
}

// MarkAllRead marks all notifications for the user as read.
func (s *TripNotificationService) MarkAllRead(ctx context.Context, userID string) error {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).
		Model(&models.TripNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{
			"is_read": true,
			"read_at": now,
		}).Error; err != nil {
		return fmt.Errorf("trip notification service: mark all read: %w", err)
	}

	s.broadcast(userID, "notification.read_all", nil)
	return nil
}

func (s *TripNotificationService) findByTripAndType(ctx context.Context, tripID string, notificationType models.NotificationType) (*models.TripNotification, error) {
	var notification models.TripNotification
	if err := s.db.WithContext(ctx).
		Where("trip_id = ? AND type = ?", tripID, notificationType).
		First(&notification).Error; err != nil {
		return nil, fmt.Errorf("trip notification service: load existing: %w", err)
	}
	return &notification, nil
}

func (s *TripNotificationService) broadcast(userID, event string, dto *TripNotificationDTO) {
	if s.hub == nil {
		return
	}
	payload := notifications.Event{Event: event}
	if dto != nil {
		payload.Notification = dto
		payload.NotificationID = dto.ID
	}
	s.hub.Broadcast(userID, payload)
}

func mapTripNotification(row models.TripNotification) TripNotificationDTO {
	return TripNotificationDTO{
		ID:        row.ID,
		TripID:    row.TripID,
		UserID:    row.UserID,
		Type:      row.Type,
		Title:     row.Title,
		Message:   row.Message,
		IsRead:    row.IsRead,
		EmailSent: row.EmailSent,
		CreatedAt: row.CreatedAt,
		ReadAt:    row.ReadAt,
	}
}
