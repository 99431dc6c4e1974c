package domain

import "strings"

// ValidationErrors collects field-level validation messages keyed by field name.
type ValidationErrors map[string][]string

// Add appends a message for the given field.
func (v ValidationErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}

// Empty reports whether no validation errors were recorded.
func (v ValidationErrors) Empty() bool {
	return len(v) == 0
}

// Error renders a flat summary, making ValidationErrors usable as an error value.
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, messages := range v {
		parts = append(parts, field+": "+strings.Join(messages, ", "))
	}
	return strings.Join(parts, "; ")
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
