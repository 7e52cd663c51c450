// Package service provides the application-level services of the
// notification engine: the settings gate, the dispatcher, and the
// per-recipient notification surface.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); unexpected errors are wrapped
// with fmt.Errorf("%w") so the original cause is preserved.
var (
	// ErrSettingsAlreadyInitialized indicates the one-time settings bootstrap
	// was attempted after setting rows already exist. Initialization is not
	// an upsert; use Update to change an existing category.
	ErrSettingsAlreadyInitialized = errors.New("notification settings already initialized")

	// ErrNoRecipients indicates a dispatch was requested with an empty
	// recipient set after normalization.
	ErrNoRecipients = errors.New("dispatch requires at least one recipient")

	// ErrPersistFailed indicates the durable notification record could not
	// be written. The dispatch is aborted: without the record there is no
	// delivery fallback for offline recipients.
	ErrPersistFailed = errors.New("failed to persist notification record")
)
