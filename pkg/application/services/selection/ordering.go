package selection

import (
	"sort"

	"github.com/vsinha/bomsource/pkg/domain/entities"
)

// orderOffers returns a copy of offers sorted for the priority mode.
// DeadlineFirst orders by (lead time, unit price), BudgetFirst by (unit price, lead time).
// The sort is stable, so fully tied offers keep candidate order and the
// internal-stock pseudo-offer wins any complete tie.
func orderOffers(offers []entities.Offer, priority entities.PriorityMode) []entities.Offer {
	ordered := make([]entities.Offer, len(offers))
	copy(ordered, offers)

	less := lessDeadlineFirst
	if priority == entities.BudgetFirst {
		less = lessBudgetFirst
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return less(ordered[i], ordered[j])
	})
	return ordered
}

func lessDeadlineFirst(a, b entities.Offer) bool {
	if a.LeadTimeDays != b.LeadTimeDays {
		return a.LeadTimeDays < b.LeadTimeDays
	}
	return a.UnitPrice.LessThan(b.UnitPrice)
}

func lessBudgetFirst(a, b entities.Offer) bool {
	if !a.UnitPrice.Equal(b.UnitPrice) {
		return a.UnitPrice.LessThan(b.UnitPrice)
	}
	return a.LeadTimeDays < b.LeadTimeDays
}
