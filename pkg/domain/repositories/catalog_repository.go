package repositories

import "github.com/vsinha/bomsource/pkg/domain/entities"

// OfferCatalog provides read-only access to part records and their offers.
// Lookups are case-insensitive on the part number.
type OfferCatalog interface {
	Lookup(partNumber entities.PartNumber) (entities.PartRecord, bool)
	Len() int
}
