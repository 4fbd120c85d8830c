package selection

import (
	"github.com/vsinha/bomsource/pkg/domain/entities"
)

// partEvaluation is the outcome of evaluating one demand line against the catalog
type partEvaluation struct {
	line     entities.DemandLine
	record   entities.PartRecord
	resolved bool
	reason   entities.UnresolvedReason

	// considered is the set the choice was made from: the feasible set, or
	// the quantity-feasible set when the deadline was overrun
	considered []entities.Offer
	chosen     entities.Offer
	overrun    bool
}

// evaluatePart runs lookup, filtering, ordering and choice for a single demand line
func evaluatePart(
	catalog offerLookup,
	line entities.DemandLine,
	policy entities.Policy,
	daysAllowed int,
) partEvaluation {
	eval := partEvaluation{line: line}

	record, found := catalog.Lookup(line.PartNumber)
	if !found {
		eval.reason = entities.MissingCatalogEntry
		return eval
	}
	eval.record = record

	candidates := record.Candidates()
	feasible := feasibleOffers(candidates, line.Quantity, daysAllowed)
	if len(feasible) > 0 {
		ordered := orderOffers(feasible, policy.Priority)
		eval.resolved = true
		eval.considered = feasible
		eval.chosen = ordered[0]
		return eval
	}

	if policy.AllowDeadlineOverrun {
		if overrun := quantityFeasibleOffers(candidates, line.Quantity); len(overrun) > 0 {
			eval.resolved = true
			eval.considered = overrun
			eval.chosen = orderOffers(overrun, entities.BudgetFirst)[0]
			eval.overrun = true
			return eval
		}
	}

	eval.reason = entities.NoFeasibleOffer
	return eval
}

// feasibleOffers keeps the candidates that cover the quantity within the allowed days,
// preserving candidate order
func feasibleOffers(candidates []entities.Offer, quantity entities.Quantity, daysAllowed int) []entities.Offer {
	feasible := make([]entities.Offer, 0, len(candidates))
	for _, offer := range candidates {
		if offer.Covers(quantity) && offer.LeadTimeDays <= daysAllowed {
			feasible = append(feasible, offer)
		}
	}
	return feasible
}

// quantityFeasibleOffers keeps the candidates that cover the quantity, ignoring lead time
func quantityFeasibleOffers(candidates []entities.Offer, quantity entities.Quantity) []entities.Offer {
	feasible := make([]entities.Offer, 0, len(candidates))
	for _, offer := range candidates {
		if offer.Covers(quantity) {
			feasible = append(feasible, offer)
		}
	}
	return feasible
}
