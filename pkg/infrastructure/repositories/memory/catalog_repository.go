package memory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomsource/pkg/domain/entities"
	"github.com/vsinha/bomsource/pkg/domain/repositories"
)

// CatalogRepository provides immutable in-memory catalog storage
type CatalogRepository struct {
	records    []entities.PartRecord
	recordsMap map[string]int
	issues     []entities.LoadIssue
}

// Verify interface compliance
var _ repositories.OfferCatalog = (*CatalogRepository)(nil)

// NewCatalogRepository builds a catalog from part records. Invalid offers are
// dropped from their record and reported as issues; the load never fails as a
// whole. For duplicate part numbers the first record wins.
func NewCatalogRepository(records []entities.PartRecord) *CatalogRepository {
	r := &CatalogRepository{
		records:    make([]entities.PartRecord, 0, len(records)),
		recordsMap: make(map[string]int, len(records)),
	}

	for _, record := range records {
		r.addRecord(record)
	}

	return r
}

// NewCatalogRepositoryWithIssues builds a catalog and prepends issues found upstream, e.g. while parsing
func NewCatalogRepositoryWithIssues(records []entities.PartRecord, issues []entities.LoadIssue) *CatalogRepository {
	r := NewCatalogRepository(records)
	r.issues = append(append([]entities.LoadIssue(nil), issues...), r.issues...)
	return r
}

func (r *CatalogRepository) addRecord(record entities.PartRecord) {
	if record.PartNumber.IsBlank() {
		r.reject(record.PartNumber, "part_number", "part number cannot be empty")
		return
	}

	key := record.PartNumber.Key()
	if _, exists := r.recordsMap[key]; exists {
		r.reject(record.PartNumber, "part_number", "duplicate part number, keeping first record")
		return
	}

	if record.InternalStock < 0 {
		r.reject(record.PartNumber, "internal_stock", fmt.Sprintf("internal stock cannot be negative, got %d", record.InternalStock))
		record.InternalStock = 0
	}
	if record.LastPurchasePrice.IsNegative() {
		r.reject(record.PartNumber, "last_purchase_price", fmt.Sprintf("last purchase price cannot be negative, got %s", record.LastPurchasePrice))
		record.LastPurchasePrice = decimal.Zero
		// internal stock cannot be priced, so it is not offered
		record.InternalStock = 0
	}

	offers := make([]entities.Offer, 0, len(record.Offers))
	for _, offer := range record.Offers {
		if err := offer.Validate(); err != nil {
			r.reject(record.PartNumber, "offer "+offer.Supplier, err.Error())
			continue
		}
		offers = append(offers, offer)
	}
	record.Offers = offers

	r.recordsMap[key] = len(r.records)
	r.records = append(r.records, record)
}

func (r *CatalogRepository) reject(partNumber entities.PartNumber, field, reason string) {
	r.issues = append(r.issues, entities.LoadIssue{
		PartNumber: partNumber,
		Field:      field,
		Reason:     reason,
	})
}

// Lookup returns a copy of the record for a part number
func (r *CatalogRepository) Lookup(partNumber entities.PartNumber) (entities.PartRecord, bool) {
	index, exists := r.recordsMap[partNumber.Key()]
	if !exists {
		return entities.PartRecord{}, false
	}
	return r.records[index].Clone(), true
}

// Len returns the number of records in the catalog
func (r *CatalogRepository) Len() int {
	return len(r.records)
}

// PartNumbers returns all part numbers in load order
func (r *CatalogRepository) PartNumbers() []entities.PartNumber {
	partNumbers := make([]entities.PartNumber, len(r.records))
	for i := range r.records {
		partNumbers[i] = r.records[i].PartNumber
	}
	return partNumbers
}

// Issues returns the problems found while building the catalog
func (r *CatalogRepository) Issues() []entities.LoadIssue {
	return append([]entities.LoadIssue(nil), r.issues...)
}
