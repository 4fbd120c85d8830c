package memory

import (
	"github.com/vsinha/bomsource/pkg/domain/entities"
	"github.com/vsinha/bomsource/pkg/domain/repositories"
)

// DemandRepository provides immutable in-memory demand storage
type DemandRepository struct {
	demands []entities.DemandLine
}

// Verify interface compliance
var _ repositories.Demand = (*DemandRepository)(nil)

// NewDemandRepository stores demand lines as given. Lines are not validated
// here; the selection engine rejects malformed demand before it starts.
func NewDemandRepository(lines []entities.DemandLine) *DemandRepository {
	return &DemandRepository{
		demands: append([]entities.DemandLine(nil), lines...),
	}
}

// NewDemandFromReferences counts structural part references. Each reference
// adds one unit; blank references are skipped and part numbers are merged
// case-insensitively, keeping the spelling and position of the first occurrence.
func NewDemandFromReferences(references []entities.PartNumber) *DemandRepository {
	r := &DemandRepository{}
	positions := make(map[string]int)

	for _, ref := range references {
		if ref.IsBlank() {
			continue
		}
		key := ref.Key()
		if index, seen := positions[key]; seen {
			r.demands[index].Quantity++
			continue
		}
		positions[key] = len(r.demands)
		r.demands = append(r.demands, entities.DemandLine{PartNumber: ref, Quantity: 1})
	}

	return r
}

// Entries returns a copy of the demand lines in first-encounter order
func (r *DemandRepository) Entries() []entities.DemandLine {
	return append([]entities.DemandLine(nil), r.demands...)
}

// TotalQuantity returns the sum of all demanded quantities
func (r *DemandRepository) TotalQuantity() entities.Quantity {
	var total entities.Quantity
	for _, d := range r.demands {
		total += d.Quantity
	}
	return total
}
