package model

import (
	"fmt"
	"strings"
)

// FieldError points at a single malformed input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates per-field problems with a request so the
// API surface can return field-level detail in one response instead of
// failing on the first bad field.
type ValidationError struct {
	Fields []FieldError
}

// Add records a problem with the named field.
func (v *ValidationError) Add(field, message string) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: message})
}

// Empty reports whether no problems were recorded.
func (v *ValidationError) Empty() bool { return len(v.Fields) == 0 }

// Error implements the error interface with a compact summary.
func (v *ValidationError) Error() string {
	names := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// isBlank reports whether s is empty after trimming whitespace.
func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
