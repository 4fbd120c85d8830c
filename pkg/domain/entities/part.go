package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PartNumber represents a case-insensitive part identifier
type PartNumber string

// Key returns the canonical form of the part number used for equality and lookups
func (p PartNumber) Key() string {
	return strings.ToUpper(strings.TrimSpace(string(p)))
}

// Equal reports whether two part numbers identify the same part
func (p PartNumber) Equal(other PartNumber) bool {
	return p.Key() == other.Key()
}

// IsBlank reports whether the part number is empty after trimming
func (p PartNumber) IsBlank() bool {
	return p.Key() == ""
}

// Quantity represents an integer quantity value for discrete units
type Quantity int64

// PartInfo carries descriptive catalog fields that travel with a decision into reports
type PartInfo struct {
	CatalogNumber string `json:"catalog_number,omitempty"`
	EAN           string `json:"ean,omitempty"`
	ERPCode       string `json:"erp_code,omitempty"`
	Category      string `json:"category,omitempty"`
}

// PartRecord represents one catalog entry: internal stock plus supplier offers
type PartRecord struct {
	PartNumber        PartNumber
	Info              PartInfo
	InternalStock     Quantity
	LastPurchasePrice decimal.Decimal
	Offers            []Offer
}

// NewPartRecord creates a validated PartRecord
func NewPartRecord(
	partNumber PartNumber,
	info PartInfo,
	internalStock Quantity,
	lastPurchasePrice decimal.Decimal,
	offers []Offer,
) (*PartRecord, error) {
	if partNumber.IsBlank() {
		return nil, fmt.Errorf("part number cannot be empty")
	}
	if internalStock < 0 {
		return nil, fmt.Errorf("internal stock cannot be negative, got %d", internalStock)
	}
	if lastPurchasePrice.IsNegative() {
		return nil, fmt.Errorf("last purchase price cannot be negative, got %s", lastPurchasePrice)
	}
	for i, offer := range offers {
		if err := offer.Validate(); err != nil {
			return nil, fmt.Errorf("offer %d: %w", i+1, err)
		}
	}

	return &PartRecord{
		PartNumber:        partNumber,
		Info:              info,
		InternalStock:     internalStock,
		LastPurchasePrice: lastPurchasePrice,
		Offers:            append([]Offer(nil), offers...),
	}, nil
}

// InternalOffer returns the internal-stock pseudo-offer for this part
func (r *PartRecord) InternalOffer() Offer {
	return Offer{
		Supplier:          InternalSupplier,
		UnitPrice:         r.LastPurchasePrice,
		ListPrice:         r.LastPurchasePrice,
		DiscountPercent:   decimal.Zero,
		AvailableQuantity: r.InternalStock,
		LeadTimeDays:      0,
	}
}

// Candidates returns the internal-stock pseudo-offer followed by the supplier
// offers in catalog order. The order is the final tie-breaker during selection.
func (r *PartRecord) Candidates() []Offer {
	candidates := make([]Offer, 0, len(r.Offers)+1)
	candidates = append(candidates, r.InternalOffer())
	candidates = append(candidates, r.Offers...)
	return candidates
}

// Clone returns a deep copy so callers cannot alias catalog storage
func (r *PartRecord) Clone() PartRecord {
	clone := *r
	clone.Offers = append([]Offer(nil), r.Offers...)
	return clone
}
