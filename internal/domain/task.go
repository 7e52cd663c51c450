package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task within a case.
type TaskStatus string

// Possible task status values.
const (
	TaskStatusAwaitingInitiation TaskStatus = "Awaiting Initiation"
	TaskStatusPending            TaskStatus = "Pending"
	TaskStatusCompleted          TaskStatus = "Completed"
	TaskStatusOverdue            TaskStatus = "Overdue"
	TaskStatusOnHold             TaskStatus = "On Hold"
)

// Task-specific validation errors.
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskDescriptionEmpty is returned when a task's description is empty.
	ErrTaskDescriptionEmpty = errors.New("task description cannot be empty")

	// ErrTaskCompletedAtMismatch is returned when CompletedAt and the
	// Completed status disagree.
	ErrTaskCompletedAtMismatch = errors.New(
		"completedAt must be set if and only if the task status is Completed")
)

// Task represents a unit of work embedded in a Case. Tasks have no lifecycle
// of their own: they are stored inside the owning case document and are only
// ever written as part of a whole-case save.
//
// DueDateNotificationSent and ReminderNotificationSent are idempotency
// markers: once a deadline or reminder notification has been produced for the
// current DueDate/ReminderAt value, the flag stays true until that value is
// edited, which resets it and re-arms the notification.
type Task struct {
	ID                       uuid.UUID  `json:"id"`
	Description              string     `json:"description"`
	InitiationDate           *time.Time `json:"initiation_date,omitempty"`
	DueDate                  *time.Time `json:"due_date,omitempty"`
	ReminderAt               *time.Time `json:"reminder_at,omitempty"`
	Remark                   string     `json:"remark,omitempty"`
	Status                   TaskStatus `json:"status"`
	Order                    int        `json:"order"`
	DueDateNotificationSent  bool       `json:"due_date_notification_sent"`
	ReminderNotificationSent bool       `json:"reminder_notification_sent"`
	CompletedAt              *time.Time `json:"completed_at,omitempty"`
}

// NewTask creates a new Task with the given description. The task starts in
// the Awaiting Initiation status with no dates set.
func NewTask(description string) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		Description: description,
		Status:      TaskStatusAwaitingInitiation,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.Description == "" {
		return ErrTaskDescriptionEmpty
	}

	switch t.Status {
	case TaskStatusAwaitingInitiation, TaskStatusPending, TaskStatusCompleted,
		TaskStatusOverdue, TaskStatusOnHold:
	default:
		return ErrInvalidTaskStatus
	}

	// CompletedAt is non-nil iff the task is Completed.
	if (t.CompletedAt != nil) != (t.Status == TaskStatusCompleted) {
		return ErrTaskCompletedAtMismatch
	}

	return nil
}

// SetDueDate changes the task's due date and resets the deadline sent-flag so
// a rescheduled deadline notifies again. Passing nil clears the due date.
func (t *Task) SetDueDate(dueDate *time.Time) {
	t.DueDate = dueDate
	t.DueDateNotificationSent = false
}

// SetReminder changes the task's reminder time and resets the reminder
// sent-flag. Passing nil clears the reminder.
func (t *Task) SetReminder(reminderAt *time.Time) {
	t.ReminderAt = reminderAt
	t.ReminderNotificationSent = false
}

// SetStatus transitions the task to the given status, maintaining the
// CompletedAt invariant: entering Completed stamps the completion time,
// leaving it clears the stamp.
func (t *Task) SetStatus(status TaskStatus, now time.Time) error {
	switch status {
	case TaskStatusAwaitingInitiation, TaskStatusPending, TaskStatusCompleted,
		TaskStatusOverdue, TaskStatusOnHold:
	default:
		return ErrInvalidTaskStatus
	}

	if status == TaskStatusCompleted {
		completedAt := now.UTC()
		t.CompletedAt = &completedAt
	} else {
		t.CompletedAt = nil
	}
	t.Status = status

	return nil
}
