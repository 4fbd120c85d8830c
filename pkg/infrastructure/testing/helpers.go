package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomsource/pkg/domain/entities"
	"github.com/vsinha/bomsource/pkg/infrastructure/repositories/memory"
)

// Today is the reference date used by the fixture scenarios
var Today = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

// MustOffer creates a supplier offer without discount - panics on validation error
func MustOffer(supplier, unitPrice string, available entities.Quantity, leadTimeDays int) entities.Offer {
	return MustDiscountedOffer(supplier, unitPrice, "0", available, leadTimeDays)
}

// MustDiscountedOffer creates a supplier offer from a list price and discount - panics on validation error
func MustDiscountedOffer(supplier, listPrice, discountPercent string, available entities.Quantity, leadTimeDays int) entities.Offer {
	offer, err := entities.NewOffer(
		supplier,
		decimal.RequireFromString(listPrice),
		decimal.RequireFromString(discountPercent),
		available,
		leadTimeDays,
	)
	if err != nil {
		panic(err)
	}
	return *offer
}

// MustPartRecord creates a catalog record - panics on validation error
func MustPartRecord(partNumber string, internalStock entities.Quantity, lastPurchasePrice string, offers ...entities.Offer) entities.PartRecord {
	record, err := entities.NewPartRecord(
		entities.PartNumber(partNumber),
		entities.PartInfo{},
		internalStock,
		decimal.RequireFromString(lastPurchasePrice),
		offers,
	)
	if err != nil {
		panic(err)
	}
	return *record
}

// MustPolicy creates a policy whose deadline is daysFromToday after Today - panics on validation error
func MustPolicy(daysFromToday int, budget string, priority entities.PriorityMode, allowOverrun bool) entities.Policy {
	policy, err := entities.NewPolicy(
		Today.AddDate(0, 0, daysFromToday),
		decimal.RequireFromString(budget),
		priority,
		allowOverrun,
	)
	if err != nil {
		panic(err)
	}
	return *policy
}

// BuildSupplierTestData builds a small electronics assembly: a resistor with
// a fast and a cheap supplier, parts covered by internal stock, a relay no
// supplier can deliver in quantity, and a demanded part missing from the catalog.
func BuildSupplierTestData() (*memory.CatalogRepository, *memory.DemandRepository) {
	records := []entities.PartRecord{
		MustPartRecord("R1", 0, "0.09",
			MustOffer("TME", "0.10", 5000, 2),
			MustOffer("RS", "0.08", 5000, 6),
		),
		MustPartRecord("R3", 10, "0.05",
			MustOffer("TME", "0.04", 1000, 2),
		),
		MustPartRecord("C4", 20, "0.35",
			MustDiscountedOffer("TME", "0.40", "10", 500, 2),
			MustOffer("Farnell", "0.30", 100, 5),
		),
		MustPartRecord("K2", 0, "1.20",
			MustOffer("Conrad", "1.50", 3, 6),
		),
	}
	records[0].Info = entities.PartInfo{CatalogNumber: "CRCW060310K0", ERPCode: "ERP-0001", Category: "Resistors"}
	records[2].Info = entities.PartInfo{CatalogNumber: "GRM188R71H104", EAN: "5901234123457", Category: "Capacitors"}

	demand := memory.NewDemandRepository([]entities.DemandLine{
		{PartNumber: "R1", Quantity: 5},
		{PartNumber: "r3", Quantity: 10},
		{PartNumber: "C4", Quantity: 50},
		{PartNumber: "K2", Quantity: 5},
		{PartNumber: "M9", Quantity: 2},
	})

	return memory.NewCatalogRepository(records), demand
}
