package push

import "errors"

// Push-specific errors.
var (
	// errEmptyRegisterFrame is returned when a client's register frame does
	// not carry a recipient identity.
	errEmptyRegisterFrame = errors.New("register frame carries no user ID")
)
