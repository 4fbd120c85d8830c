package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UnresolvedReason explains why no decision could be produced for a part
type UnresolvedReason int

const (
	MissingCatalogEntry UnresolvedReason = iota
	NoFeasibleOffer
)

// String method for UnresolvedReason enum
func (r UnresolvedReason) String() string {
	switch r {
	case MissingCatalogEntry:
		return "MissingCatalogEntry"
	case NoFeasibleOffer:
		return "NoFeasibleOffer"
	default:
		return "Unknown"
	}
}

// MarshalText renders the reason by name in reports
func (r UnresolvedReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnresolvedPart represents a demanded part for which no offer was chosen
type UnresolvedPart struct {
	PartNumber PartNumber       `json:"part_number"`
	Quantity   Quantity         `json:"quantity"`
	Reason     UnresolvedReason `json:"reason"`
}

// Decision represents the offer chosen for one demanded part
type Decision struct {
	PartNumber        PartNumber      `json:"part_number"`
	Quantity          Quantity        `json:"quantity"`
	ChosenOffer       Offer           `json:"chosen_offer"`
	LineCost          decimal.Decimal `json:"line_cost"`
	DeadlineOverrun   bool            `json:"deadline_overrun,omitempty"`
	Info              PartInfo        `json:"info"`
	InternalStock     Quantity        `json:"internal_stock"`
	LastPurchasePrice decimal.Decimal `json:"last_purchase_price"`
}

// BudgetReport compares the selection against the policy budget
type BudgetReport struct {
	Constrained  bool            `json:"constrained"`
	Budget       decimal.Decimal `json:"budget"`
	WithinBudget bool            `json:"within_budget"`
	Overrun      decimal.Decimal `json:"overrun"`
	// Achievable is false when even the cheapest feasible plan exceeds the budget
	Achievable bool `json:"achievable"`
}

// NewBudgetReport evaluates a total and its lower bound against a budget
func NewBudgetReport(budget, totalCost, minPossibleCost decimal.Decimal) BudgetReport {
	if !budget.IsPositive() {
		return BudgetReport{
			Budget:       budget,
			WithinBudget: true,
			Overrun:      decimal.Zero,
			Achievable:   true,
		}
	}

	overrun := totalCost.Sub(budget)
	if overrun.IsNegative() {
		overrun = decimal.Zero
	}

	return BudgetReport{
		Constrained:  true,
		Budget:       budget,
		WithinBudget: totalCost.LessThanOrEqual(budget),
		Overrun:      overrun,
		Achievable:   minPossibleCost.LessThanOrEqual(budget),
	}
}

// SelectionResult contains the complete output of a selection run
type SelectionResult struct {
	Decisions              []Decision       `json:"decisions"`
	Unresolved             []UnresolvedPart `json:"unresolved"`
	TotalCost              decimal.Decimal  `json:"total_cost"`
	MinPossibleCost        decimal.Decimal  `json:"min_possible_cost"`
	MaxPossibleCost        decimal.Decimal  `json:"max_possible_cost"`
	EarliestCompletionDays int              `json:"earliest_completion_days"`
	LatestCompletionDays   int              `json:"latest_completion_days"`
	PlannedCompletionDays  int              `json:"planned_completion_days"`
	DaysAllowed            int              `json:"days_allowed"`
	Budget                 BudgetReport     `json:"budget"`
}

// UnresolvedParts returns the part numbers that received no decision, in demand order
func (r *SelectionResult) UnresolvedParts() []PartNumber {
	parts := make([]PartNumber, len(r.Unresolved))
	for i, u := range r.Unresolved {
		parts[i] = u.PartNumber
	}
	return parts
}

// DecisionFor returns the decision for a part number
func (r *SelectionResult) DecisionFor(partNumber PartNumber) (Decision, bool) {
	for _, d := range r.Decisions {
		if d.PartNumber.Equal(partNumber) {
			return d, true
		}
	}
	return Decision{}, false
}

// UnresolvedReasonFor returns why a part was left unresolved
func (r *SelectionResult) UnresolvedReasonFor(partNumber PartNumber) (UnresolvedReason, bool) {
	for _, u := range r.Unresolved {
		if u.PartNumber.Equal(partNumber) {
			return u.Reason, true
		}
	}
	return 0, false
}

// HasDeadlineOverruns reports whether any decision was taken outside the deadline
func (r *SelectionResult) HasDeadlineOverruns() bool {
	for _, d := range r.Decisions {
		if d.DeadlineOverrun {
			return true
		}
	}
	return false
}

// Summary returns a one-line description of the result
func (r *SelectionResult) Summary() string {
	return fmt.Sprintf(
		"%d resolved, %d unresolved | total %s (min %s, max %s) | completion %d-%d days",
		len(r.Decisions),
		len(r.Unresolved),
		r.TotalCost.StringFixed(2),
		r.MinPossibleCost.StringFixed(2),
		r.MaxPossibleCost.StringFixed(2),
		r.EarliestCompletionDays,
		r.LatestCompletionDays,
	)
}
