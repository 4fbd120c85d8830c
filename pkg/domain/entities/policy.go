package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PriorityMode selects which objective orders the feasible offers first
type PriorityMode int

const (
	DeadlineFirst PriorityMode = iota
	BudgetFirst
)

// String method for PriorityMode enum
func (m PriorityMode) String() string {
	switch m {
	case DeadlineFirst:
		return "DeadlineFirst"
	case BudgetFirst:
		return "BudgetFirst"
	default:
		return "Unknown"
	}
}

// MarshalText renders the mode by name in reports
func (m PriorityMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// IsValid reports whether the mode is one of the known priority modes
func (m PriorityMode) IsValid() bool {
	return m == DeadlineFirst || m == BudgetFirst
}

// ParsePriorityMode parses a priority mode name, ignoring case and separators
func ParsePriorityMode(s string) (PriorityMode, error) {
	normalized := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	switch normalized {
	case "deadline", "deadlinefirst":
		return DeadlineFirst, nil
	case "budget", "budgetfirst":
		return BudgetFirst, nil
	default:
		return DeadlineFirst, fmt.Errorf("invalid priority: %s (expected: DeadlineFirst or BudgetFirst)", s)
	}
}

// Policy holds the global constraints of one selection run
type Policy struct {
	Deadline time.Time       `json:"deadline"`
	Budget   decimal.Decimal `json:"budget"` // zero or negative = unconstrained
	Priority PriorityMode    `json:"priority"`
	// AllowDeadlineOverrun lets a part with no offer inside the deadline fall
	// back to its cheapest quantity-feasible offer instead of staying unresolved.
	AllowDeadlineOverrun bool `json:"allow_deadline_overrun"`
}

// NewPolicy creates a validated Policy
func NewPolicy(deadline time.Time, budget decimal.Decimal, priority PriorityMode, allowDeadlineOverrun bool) (*Policy, error) {
	policy := &Policy{
		Deadline:             deadline,
		Budget:               budget,
		Priority:             priority,
		AllowDeadlineOverrun: allowDeadlineOverrun,
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

// Validate returns a ConfigurationError when the policy is malformed
func (p Policy) Validate() error {
	if p.Deadline.IsZero() {
		return NewConfigurationError("deadline", "deadline must be set")
	}
	if !p.Priority.IsValid() {
		return NewConfigurationError("priority", "unknown priority mode %d", int(p.Priority))
	}
	return nil
}

// BudgetConstrained reports whether the budget limits the run
func (p Policy) BudgetConstrained() bool {
	return p.Budget.IsPositive()
}

// DaysAllowed returns the whole days from today until the deadline, never negative
func (p Policy) DaysAllowed(today time.Time) int {
	days := DaysBetween(today, p.Deadline)
	if days < 0 {
		return 0
	}
	return days
}

// DaysBetween counts calendar days from one date to another, ignoring time of day
func DaysBetween(from, to time.Time) int {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
