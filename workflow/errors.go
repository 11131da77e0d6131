// workflow/errors.go
package workflow

import "errors"

// Failure taxonomy for transition and apply operations. Callers check with
// errors.Is and decide how to surface each case; handlers map
// ErrAuthorizationDenied to 403, ErrInvalidTransition and
// ErrValidationFailed to 400/409, ErrNotFound to 404.
var (
	ErrAuthorizationDenied = errors.New("authorization denied")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrValidationFailed    = errors.New("validation failed")
	ErrApplyConflict       = errors.New("change request already implemented")
	ErrNotFound            = errors.New("entity not found")
)
