package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrValidation      = errors.New("validation failed")
	// ErrUnknownAgent marks a hand-off to a persona missing from the session
	// registry. This is a configuration defect, not a runtime condition.
	ErrUnknownAgent = errors.New("unknown agent")
	ErrNotFound     = errors.New("not found")
)
