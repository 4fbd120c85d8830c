package entities

import "fmt"

// DemandLine represents the required quantity of one part
type DemandLine struct {
	PartNumber PartNumber `json:"part_number"`
	Quantity   Quantity   `json:"quantity"`
}

// NewDemandLine creates a validated DemandLine
func NewDemandLine(partNumber PartNumber, quantity Quantity) (*DemandLine, error) {
	if partNumber.IsBlank() {
		return nil, fmt.Errorf("part number cannot be empty")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	return &DemandLine{
		PartNumber: partNumber,
		Quantity:   quantity,
	}, nil
}
