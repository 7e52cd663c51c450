// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidTaskStatus is returned when a task status is not one of the
	// known status values.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidCaseStatus is returned when a case status is not valid.
	ErrInvalidCaseStatus = errors.New("invalid case status")

	// ErrInvalidNotificationType is returned when a notification type is not
	// one of the fixed categories.
	ErrInvalidNotificationType = errors.New("invalid notification type")
)
