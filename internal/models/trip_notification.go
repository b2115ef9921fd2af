package models

import "time"

// NotificationType identifies the kind of trip notification.
type NotificationType string

const (
	NotificationReminder10Days NotificationType = "REMINDER_10_DAYS"
	NotificationReminder9Days  NotificationType = "REMINDER_9_DAYS"
	NotificationReminder8Days  NotificationType = "REMINDER_8_DAYS"
	NotificationReminder7Days  NotificationType = "REMINDER_7_DAYS"
	NotificationReminder6Days  NotificationType = "REMINDER_6_DAYS"
	NotificationReminder5Days  NotificationType = "REMINDER_5_DAYS"
	NotificationReminder4Days  NotificationType = "REMINDER_4_DAYS"
	NotificationReminder3Days  NotificationType = "REMINDER_3_DAYS"
	NotificationReminder2Days  NotificationType = "REMINDER_2_DAYS"
	NotificationReminder1Day   NotificationType = "REMINDER_1_DAY"
	NotificationTripStartToday NotificationType = "TRIP_START_TODAY"
	NotificationTripOngoing    NotificationType = "TRIP_ONGOING"
	NotificationTripCompleted  NotificationType = "TRIP_COMPLETED"
	NotificationTripCancelled  NotificationType = "TRIP_CANCELLED"
)

var reminderTypesByDays = map[int]NotificationType{
	1:  NotificationReminder1Day,
	2:  NotificationReminder2Days,
	3:  NotificationReminder3Days,
	4:  NotificationReminder4Days,
	5:  NotificationReminder5Days,
	6:  NotificationReminder6Days,
	7:  NotificationReminder7Days,
	8:  NotificationReminder8Days,
	9:  NotificationReminder9Days,
	10: NotificationReminder10Days,
}

// ReminderTypeForDays maps a days-until-start count onto a reminder type.
// Only 1 through 10 days out produce reminders.
func ReminderTypeForDays(days int) (NotificationType, bool) {
	t, ok := reminderTypesByDays[days]
	return t, ok
}

// ReminderDays is the inverse of ReminderTypeForDays.
func (t NotificationType) ReminderDays() (int, bool) {
	for days, reminderType := range reminderTypesByDays {
		if reminderType == t {
			return days, true
		}
	}
	return 0, false
}

// NotificationTypeForStatus maps a trip status onto its notification type.
func NotificationTypeForStatus(status TripStatus) (NotificationType, bool) {
	switch status {
	case StatusOngoing:
		return NotificationTripOngoing, true
	case StatusCompleted:
		return NotificationTripCompleted, true
	case StatusCancelled:
		return NotificationTripCancelled, true
	default:
		return "", false
	}
}

// TripNotification is an in-app notification tied to a trip. The
// composite unique index guarantees at most one row per trip and type.
type TripNotification struct {
	BaseModel

	TripID string `gorm:"type:uuid;not null;uniqueIndex:idx_trip_notifications_trip_type" json:"trip_id"`
	Trip   *Trip  `json:"-"`

	UserID string `gorm:"type:uuid;index;not null" json:"user_id"`

	Type    NotificationType `gorm:"type:varchar(32);not null;uniqueIndex:idx_trip_notifications_trip_type" json:"type"`
	Title   string           `gorm:"not null" json:"title"`
	Message string           `gorm:"type:text" json:"message"`

	IsRead bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at"`

	EmailSent   bool       `gorm:"default:false" json:"email_sent"`
	EmailSentAt *time.Time `json:"email_sent_at"`
}
