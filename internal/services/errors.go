package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsCancelled reports whether an error represents user-initiated cancellation.
// Cancellation is not a failure; callers suppress it from error surfaces.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// ErrorDetails carries the user-facing portion of a classified error.
type ErrorDetails struct {
	Message string
}

// Details extracts a human-readable message from a wrapped error, stripping
// the sentinel prefix so CLI and notification surfaces read cleanly.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	message := strings.TrimSpace(err.Error())
	for _, marker := range []error{ErrExternalTool, ErrValidation, ErrConfiguration, ErrNotFound, ErrTransient} {
		prefix := marker.Error() + ": "
		if strings.HasPrefix(message, prefix) {
			message = strings.TrimSpace(strings.TrimPrefix(message, prefix))
			break
		}
	}
	return ErrorDetails{Message: message}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
