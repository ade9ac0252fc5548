package config

import (
	"fmt"
	"strings"

	"configmirror/internal/selector"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// Validate checks the configuration before the event stream is consumed.
//
// Missing required fields are fatal: the process must not start consuming
// events. Recoverable misconfiguration (unknown kind filter, client timeout
// shorter than the server timeout) is returned as warnings; behavior
// degrades but the process continues.
func (c Config) Validate() (warnings []string, err error) {
	var errs ValidationErrors

	if strings.TrimSpace(c.LabelKey) == "" {
		errs.Add("labelKey", fmt.Sprintf("is required (set %s)", EnvLabel))
	}
	if strings.TrimSpace(c.Folder) == "" {
		errs.Add("folder", fmt.Sprintf("is required (set %s)", EnvFolder))
	}

	if _, valid := selector.ParseKind(c.Resource); !valid {
		valids := make([]string, 0, len(selector.ValidKinds))
		for _, kind := range selector.ValidKinds {
			valids = append(valids, string(kind))
		}
		warnings = append(warnings, fmt.Sprintf(
			"%s should be one of [%s], got %q. Resources won't match until this is fixed",
			EnvResource, strings.Join(valids, ", "), c.Resource))
	}

	if c.WatchClientTimeoutSeconds < c.WatchServerTimeoutSeconds {
		warnings = append(warnings, fmt.Sprintf(
			"the client timeout (%d) is shorter than the server timeout (%d). Consider increasing the client timeout",
			c.WatchClientTimeoutSeconds, c.WatchServerTimeoutSeconds))
	}

	if errs.HasErrors() {
		return warnings, errs
	}
	return warnings, nil
}
