// Package apperrors defines application-level error types.
package apperrors

import (
	"fmt"
)

// ValidationError indicates caller input failed validation.
type ValidationError struct {
	Field   string   // Field that failed validation
	Message string   // Error message
	Details []string // Additional details
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s: %s (%d issues)", e.Field, e.Message, len(e.Details))
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, details ...string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Details: details,
	}
}

// WriteBackError indicates the settings model rejected an update of the
// disabled-sources list. The in-memory state is left as it was before the
// attempted change; retrying is up to the caller.
type WriteBackError struct {
	Cause   error
	Source  string // source whose toggle triggered the write
	Enabled bool   // requested state
}

func (e *WriteBackError) Error() string {
	verb := "disable"
	if e.Enabled {
		verb = "enable"
	}
	if e.Cause != nil {
		return fmt.Sprintf("failed to %s extension %s: writing disabled sources: %v", verb, e.Source, e.Cause)
	}
	return fmt.Sprintf("failed to %s extension %s: writing disabled sources", verb, e.Source)
}

func (e *WriteBackError) Unwrap() error {
	return e.Cause
}

// NewWriteBackError creates a new write-back error.
func NewWriteBackError(source string, enabled bool, cause error) *WriteBackError {
	return &WriteBackError{
		Source:  source,
		Enabled: enabled,
		Cause:   cause,
	}
}

// ConfigurationError indicates the settings document or runtime config is unusable.
type ConfigurationError struct {
	Cause   error
	Aspect  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Aspect, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Aspect, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(aspect, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Aspect:  aspect,
		Message: message,
		Cause:   cause,
	}
}
