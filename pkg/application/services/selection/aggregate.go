package selection

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/bomsource/pkg/domain/entities"
)

// aggregator accumulates result bounds in demand order
type aggregator struct {
	total    decimal.Decimal
	minCost  decimal.Decimal
	maxCost  decimal.Decimal
	earliest int
	latest   int
	planned  int
}

func newAggregator() *aggregator {
	return &aggregator{
		total:   decimal.Zero,
		minCost: decimal.Zero,
		maxCost: decimal.Zero,
	}
}

// add folds one resolved part into the totals. Bounds come from the same set
// the choice was made from, so min <= total <= max holds per part.
func (a *aggregator) add(eval partEvaluation) {
	qty := eval.line.Quantity

	partMin := eval.considered[0].LineCost(qty)
	partMax := partMin
	minLead := eval.considered[0].LeadTimeDays
	maxLead := minLead
	for _, offer := range eval.considered[1:] {
		cost := offer.LineCost(qty)
		if cost.LessThan(partMin) {
			partMin = cost
		}
		if cost.GreaterThan(partMax) {
			partMax = cost
		}
		minLead = min(minLead, offer.LeadTimeDays)
		maxLead = max(maxLead, offer.LeadTimeDays)
	}

	a.total = a.total.Add(eval.chosen.LineCost(qty))
	a.minCost = a.minCost.Add(partMin)
	a.maxCost = a.maxCost.Add(partMax)
	a.earliest = max(a.earliest, minLead)
	a.latest = max(a.latest, maxLead)
	a.planned = max(a.planned, eval.chosen.LeadTimeDays)
}

// apply copies the accumulated figures into the result
func (a *aggregator) apply(result *entities.SelectionResult, budget decimal.Decimal) {
	result.TotalCost = a.total
	result.MinPossibleCost = a.minCost
	result.MaxPossibleCost = a.maxCost
	result.EarliestCompletionDays = a.earliest
	result.LatestCompletionDays = a.latest
	result.PlannedCompletionDays = a.planned
	result.Budget = entities.NewBudgetReport(budget, a.total, a.minCost)
}
