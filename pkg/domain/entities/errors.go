package entities

import (
	"errors"
	"fmt"
)

// ConfigurationError reports structurally invalid input detected before any
// selection work starts. It is fatal to the call that returned it.
type ConfigurationError struct {
	Field  string
	Reason string
}

// NewConfigurationError creates a ConfigurationError for the named field
func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError
func IsConfigurationError(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}

// LoadIssue records a catalog field or record that was excluded during construction
type LoadIssue struct {
	PartNumber PartNumber `json:"part_number"`
	Row        int        `json:"row,omitempty"`
	Field      string     `json:"field"`
	Reason     string     `json:"reason"`
}

func (i LoadIssue) String() string {
	if i.Row > 0 {
		return fmt.Sprintf("row %d: %s %s: %s", i.Row, i.PartNumber, i.Field, i.Reason)
	}
	return fmt.Sprintf("%s %s: %s", i.PartNumber, i.Field, i.Reason)
}
