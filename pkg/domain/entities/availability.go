package entities

// StockStatus compares the demanded quantity of a part with internal stock on hand
type StockStatus struct {
	PartNumber PartNumber `json:"part_number"`
	Needed     Quantity   `json:"needed"`
	InStock    Quantity   `json:"in_stock"`
	Known      bool       `json:"known"` // false when the part is absent from the catalog
}

// Sufficient reports whether internal stock alone covers the demand
func (s StockStatus) Sufficient() bool {
	return s.InStock >= s.Needed
}

// Shortfall returns how many units internal stock is missing
func (s StockStatus) Shortfall() Quantity {
	if s.Sufficient() {
		return 0
	}
	return s.Needed - s.InStock
}
