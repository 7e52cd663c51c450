package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkhurst/casetrack-api/internal/domain"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	t.Run("creates task with defaults", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask("File defence")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, "File defence", task.Description)
		assert.Equal(t, domain.TaskStatusAwaitingInitiation, task.Status)
		assert.Nil(t, task.DueDate)
		assert.Nil(t, task.ReminderAt)
		assert.False(t, task.DueDateNotificationSent)
		assert.False(t, task.ReminderNotificationSent)
	})

	t.Run("rejects empty description", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask("")
		assert.ErrorIs(t, err, domain.ErrTaskDescriptionEmpty)
		assert.Nil(t, task)
	})
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	validTask := func() domain.Task {
		return domain.Task{
			ID:          uuid.New(),
			Description: "Serve documents",
			Status:      domain.TaskStatusPending,
		}
	}

	t.Run("valid task passes", func(t *testing.T) {
		t.Parallel()

		task := validTask()
		assert.NoError(t, task.Validate())
	})

	t.Run("rejects nil ID", func(t *testing.T) {
		t.Parallel()

		task := validTask()
		task.ID = uuid.Nil
		assert.ErrorIs(t, task.Validate(), domain.ErrTaskIDEmpty)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		t.Parallel()

		task := validTask()
		task.Status = "Archived"
		assert.ErrorIs(t, task.Validate(), domain.ErrInvalidTaskStatus)
	})

	t.Run("rejects completedAt without Completed status", func(t *testing.T) {
		t.Parallel()

		task := validTask()
		task.CompletedAt = &now
		assert.ErrorIs(t, task.Validate(), domain.ErrTaskCompletedAtMismatch)
	})

	t.Run("rejects Completed status without completedAt", func(t *testing.T) {
		t.Parallel()

		task := validTask()
		task.Status = domain.TaskStatusCompleted
		assert.ErrorIs(t, task.Validate(), domain.ErrTaskCompletedAtMismatch)
	})

	t.Run("accepts Completed status with completedAt", func(t *testing.T) {
		t.Parallel()

		task := validTask()
		task.Status = domain.TaskStatusCompleted
		task.CompletedAt = &now
		assert.NoError(t, task.Validate())
	})
}

func TestTaskSetDueDate(t *testing.T) {
	t.Parallel()

	t.Run("resets sent-flag on edit", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask("Prepare bundle")
		require.NoError(t, err)

		due := time.Now().Add(48 * time.Hour)
		task.SetDueDate(&due)
		task.DueDateNotificationSent = true

		rescheduled := due.Add(72 * time.Hour)
		task.SetDueDate(&rescheduled)

		assert.Equal(t, &rescheduled, task.DueDate)
		assert.False(t, task.DueDateNotificationSent,
			"editing the due date must re-arm the deadline notification")
	})

	t.Run("clearing the date also resets the flag", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask("Prepare bundle")
		require.NoError(t, err)
		task.DueDateNotificationSent = true

		task.SetDueDate(nil)

		assert.Nil(t, task.DueDate)
		assert.False(t, task.DueDateNotificationSent)
	})

	t.Run("does not touch the reminder flag", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask("Prepare bundle")
		require.NoError(t, err)
		task.ReminderNotificationSent = true

		due := time.Now().Add(time.Hour)
		task.SetDueDate(&due)

		assert.True(t, task.ReminderNotificationSent)
	})
}

func TestTaskSetReminder(t *testing.T) {
	t.Parallel()

	task, err := domain.NewTask("Call client")
	require.NoError(t, err)
	task.ReminderNotificationSent = true

	remindAt := time.Now().Add(6 * time.Hour)
	task.SetReminder(&remindAt)

	assert.Equal(t, &remindAt, task.ReminderAt)
	assert.False(t, task.ReminderNotificationSent)
}

func TestTaskSetStatus(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	t.Run("completing stamps completedAt", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask("Draft affidavit")
		require.NoError(t, err)

		require.NoError(t, task.SetStatus(domain.TaskStatusCompleted, now))

		assert.Equal(t, domain.TaskStatusCompleted, task.Status)
		require.NotNil(t, task.CompletedAt)
		assert.Equal(t, now, *task.CompletedAt)
		assert.NoError(t, task.Validate())
	})

	t.Run("reopening clears completedAt", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask("Draft affidavit")
		require.NoError(t, err)
		require.NoError(t, task.SetStatus(domain.TaskStatusCompleted, now))

		require.NoError(t, task.SetStatus(domain.TaskStatusPending, now))

		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.Nil(t, task.CompletedAt)
		assert.NoError(t, task.Validate())
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		t.Parallel()

		task, err := domain.NewTask("Draft affidavit")
		require.NoError(t, err)

		assert.ErrorIs(t, task.SetStatus("Cancelled", now), domain.ErrInvalidTaskStatus)
		assert.Equal(t, domain.TaskStatusAwaitingInitiation, task.Status)
	})
}
