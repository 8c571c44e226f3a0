package models

import "fmt"

// ConfigurationError reports a malformed or missing catalog definition.
// It is fatal: a run that hits one is aborted before any fetch.
type ConfigurationError struct {
	Code   string
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("configuration error: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("configuration error: definition %s: %s %s", e.Code, e.Field, e.Reason)
}
