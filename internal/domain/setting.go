package domain

// NotificationSetting holds the per-category delivery flags. IsEnabled gates
// the in-app notification record and push; SendEmail gates the email send.
// The two are independent: a category may email without creating in-app
// records and vice versa.
type NotificationSetting struct {
	Type      NotificationType `json:"type"`
	Name      string           `json:"name"`
	IsEnabled bool             `json:"is_enabled"`
	SendEmail bool             `json:"send_email"`
}

// DefaultNotificationSettings returns the seed rows for the five fixed
// categories, used by the one-time settings bootstrap when the caller
// supplies no overrides.
func DefaultNotificationSettings() []NotificationSetting {
	return []NotificationSetting{
		{Type: NotificationTypeNewCase, Name: "New Case", IsEnabled: true, SendEmail: true},
		{Type: NotificationTypeStatusChange, Name: "Status Change", IsEnabled: true, SendEmail: false},
		{Type: NotificationTypeDetailUpdate, Name: "Detail Update", IsEnabled: true, SendEmail: false},
		{Type: NotificationTypeDeadline, Name: "Deadline", IsEnabled: true, SendEmail: false},
		{Type: NotificationTypeReminder, Name: "Reminder", IsEnabled: true, SendEmail: false},
	}
}
