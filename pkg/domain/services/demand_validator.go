package services

import (
	"errors"
	"fmt"

	"github.com/vsinha/bomsource/pkg/domain/entities"
)

// DemandValidator checks demand integrity before any selection work starts
type DemandValidator struct{}

// NewDemandValidator creates a new demand validator
func NewDemandValidator() *DemandValidator {
	return &DemandValidator{}
}

// ValidationResult contains the results of demand validation
type ValidationResult struct {
	DuplicateParts []entities.PartNumber
	Errors         []*entities.ConfigurationError
}

// IsValid reports whether no problems were found
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Err joins every problem into a single error, or returns nil when the demand is valid
func (r *ValidationResult) Err() error {
	if r.IsValid() {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// ValidateDemand reports blank part numbers, non-positive quantities and
// parts demanded more than once (compared case-insensitively)
func (v *DemandValidator) ValidateDemand(lines []entities.DemandLine) *ValidationResult {
	result := &ValidationResult{
		DuplicateParts: make([]entities.PartNumber, 0),
		Errors:         make([]*entities.ConfigurationError, 0),
	}

	firstSeen := make(map[string]int)
	for i, line := range lines {
		lineNo := i + 1

		if line.PartNumber.IsBlank() {
			result.Errors = append(result.Errors,
				entities.NewConfigurationError(fmt.Sprintf("demand line %d", lineNo), "part number is empty"))
			continue
		}

		field := fmt.Sprintf("demand line %d (%s)", lineNo, line.PartNumber)
		if line.Quantity <= 0 {
			result.Errors = append(result.Errors,
				entities.NewConfigurationError(field, "quantity must be positive, got %d", line.Quantity))
		}

		key := line.PartNumber.Key()
		if first, exists := firstSeen[key]; exists {
			result.DuplicateParts = append(result.DuplicateParts, line.PartNumber)
			result.Errors = append(result.Errors,
				entities.NewConfigurationError(field, "duplicate of demand line %d (%s)", first+1, lines[first].PartNumber))
			continue
		}
		firstSeen[key] = i
	}

	return result
}
