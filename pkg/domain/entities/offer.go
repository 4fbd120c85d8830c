package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// InternalSupplier is the reserved supplier name of the internal-stock pseudo-offer
const InternalSupplier = "internal"

var hundred = decimal.NewFromInt(100)

// Offer represents a priced, timed way to fulfil the demand for one part
type Offer struct {
	Supplier          string          `json:"supplier"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	ListPrice         decimal.Decimal `json:"list_price"`
	DiscountPercent   decimal.Decimal `json:"discount_percent"`
	AvailableQuantity Quantity        `json:"available_quantity"`
	LeadTimeDays      int             `json:"lead_time_days"`
}

// NewOffer creates a validated supplier Offer. The unit price is the list price
// net of the discount, rounded to two places.
func NewOffer(
	supplier string,
	listPrice, discountPercent decimal.Decimal,
	availableQuantity Quantity,
	leadTimeDays int,
) (*Offer, error) {
	offer := Offer{
		Supplier:          strings.TrimSpace(supplier),
		ListPrice:         listPrice,
		DiscountPercent:   discountPercent,
		AvailableQuantity: availableQuantity,
		LeadTimeDays:      leadTimeDays,
	}
	if err := offer.validateTerms(); err != nil {
		return nil, err
	}
	offer.UnitPrice = NetUnitPrice(listPrice, discountPercent)

	return &offer, nil
}

// NetUnitPrice applies a percentage discount to a list price, rounding half to even at two places
func NetUnitPrice(listPrice, discountPercent decimal.Decimal) decimal.Decimal {
	factor := hundred.Sub(discountPercent).Div(hundred)
	return listPrice.Mul(factor).RoundBank(2)
}

// Validate checks that a supplier offer's monetary and quantity fields are usable
func (o Offer) Validate() error {
	if err := o.validateTerms(); err != nil {
		return err
	}
	if o.UnitPrice.IsNegative() {
		return fmt.Errorf("unit price cannot be negative, got %s", o.UnitPrice)
	}
	return nil
}

func (o Offer) validateTerms() error {
	if o.Supplier == "" {
		return fmt.Errorf("supplier cannot be empty")
	}
	if strings.EqualFold(o.Supplier, InternalSupplier) {
		return fmt.Errorf("supplier name %q is reserved for internal stock", o.Supplier)
	}
	if o.ListPrice.IsNegative() {
		return fmt.Errorf("list price cannot be negative, got %s", o.ListPrice)
	}
	if o.DiscountPercent.IsNegative() || o.DiscountPercent.GreaterThan(hundred) {
		return fmt.Errorf("discount must be between 0 and 100 percent, got %s", o.DiscountPercent)
	}
	if o.AvailableQuantity < 0 {
		return fmt.Errorf("available quantity cannot be negative, got %d", o.AvailableQuantity)
	}
	if o.LeadTimeDays < 0 {
		return fmt.Errorf("lead time cannot be negative, got %d", o.LeadTimeDays)
	}
	return nil
}

// IsInternal reports whether this is the internal-stock pseudo-offer
func (o Offer) IsInternal() bool {
	return o.Supplier == InternalSupplier
}

// Covers reports whether the offer can supply the full quantity on its own
func (o Offer) Covers(quantity Quantity) bool {
	return o.AvailableQuantity >= quantity
}

// LineCost returns the cost of buying quantity units from this offer
func (o Offer) LineCost(quantity Quantity) decimal.Decimal {
	return o.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
