package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies one of the fixed notification categories.
// Each category is gated independently for in-app and email delivery by its
// NotificationSetting.
type NotificationType string

// The fixed set of notification categories.
const (
	NotificationTypeNewCase      NotificationType = "new_case"
	NotificationTypeStatusChange NotificationType = "status_change"
	NotificationTypeDetailUpdate NotificationType = "detail_update"
	NotificationTypeDeadline     NotificationType = "deadline"
	NotificationTypeReminder     NotificationType = "reminder"
)

// Notification-specific validation errors.
var (
	// ErrNotificationIDEmpty is returned when a notification ID is empty or nil.
	ErrNotificationIDEmpty = errors.New("notification ID cannot be empty")

	// ErrNotificationMessageEmpty is returned when a notification's message is empty.
	ErrNotificationMessageEmpty = errors.New("notification message cannot be empty")

	// ErrNotificationRecipientEmpty is returned when a notification has no recipient.
	ErrNotificationRecipientEmpty = errors.New("notification recipient cannot be empty")
)

// Notification is the durable record of one dispatched event for one
// recipient. Fan-out to several recipients produces one record each, never a
// shared record with a recipient list. Records are append-only: after
// creation only IsRead changes, and only at the recipient's request.
type Notification struct {
	ID             uuid.UUID        `json:"id"`
	Type           NotificationType `json:"type"`
	Message        string           `json:"message"`
	TaskID         *uuid.UUID       `json:"task_id,omitempty"`
	CaseID         *uuid.UUID       `json:"case_id,omitempty"`
	AnnouncementID *uuid.UUID       `json:"announcement_id,omitempty"`
	Recipient      uuid.UUID        `json:"recipient"`
	IsRead         bool             `json:"is_read"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NewNotification creates an unread Notification for a single recipient.
// Subject references (task, case, announcement) are attached by the caller
// after construction as the dispatch type requires.
func NewNotification(
	notificationType NotificationType,
	message string,
	recipient uuid.UUID,
) (*Notification, error) {
	n := &Notification{
		ID:        uuid.New(),
		Type:      notificationType,
		Message:   message,
		Recipient: recipient,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}

	return n, nil
}

// Validate checks if the Notification has valid data.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return ErrNotificationIDEmpty
	}

	if !ValidNotificationType(n.Type) {
		return ErrInvalidNotificationType
	}

	if n.Message == "" {
		return ErrNotificationMessageEmpty
	}

	if n.Recipient == uuid.Nil {
		return ErrNotificationRecipientEmpty
	}

	return nil
}

// ValidNotificationType reports whether t is one of the fixed categories.
func ValidNotificationType(t NotificationType) bool {
	switch t {
	case NotificationTypeNewCase, NotificationTypeStatusChange,
		NotificationTypeDetailUpdate, NotificationTypeDeadline,
		NotificationTypeReminder:
		return true
	}
	return false
}
