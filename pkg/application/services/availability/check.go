// Package availability compares demanded quantities with internal stock on hand.
package availability

import (
	"github.com/vsinha/bomsource/pkg/domain/entities"
	"github.com/vsinha/bomsource/pkg/domain/repositories"
)

// Check reports, in demand order, whether internal stock alone covers each
// demanded part. Parts missing from the catalog are reported as unknown.
func Check(catalog repositories.OfferCatalog, demand repositories.Demand) []entities.StockStatus {
	lines := demand.Entries()
	statuses := make([]entities.StockStatus, 0, len(lines))

	for _, line := range lines {
		status := entities.StockStatus{
			PartNumber: line.PartNumber,
			Needed:     line.Quantity,
		}
		if record, found := catalog.Lookup(line.PartNumber); found {
			status.Known = true
			status.InStock = record.InternalStock
		}
		statuses = append(statuses, status)
	}

	return statuses
}

// Shortages filters statuses down to the parts internal stock cannot cover
func Shortages(statuses []entities.StockStatus) []entities.StockStatus {
	var shortages []entities.StockStatus
	for _, s := range statuses {
		if !s.Sufficient() {
			shortages = append(shortages, s)
		}
	}
	return shortages
}
