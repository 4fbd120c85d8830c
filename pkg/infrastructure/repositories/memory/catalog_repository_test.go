package memory

import (
	"strings"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/vsinha/bomsource/pkg/domain/entities"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCatalogRepository_LookupIsCaseInsensitive(t *testing.T) {
	repo := NewCatalogRepository([]entities.PartRecord{
		{
			PartNumber:        "Wago-2002-1201",
			InternalStock:     12,
			LastPurchasePrice: price("1.20"),
			Offers: []entities.Offer{
				{Supplier: "TME", UnitPrice: price("1.10"), AvailableQuantity: 100, LeadTimeDays: 2},
			},
		},
	})

	record, ok := repo.Lookup("WAGO-2002-1201")
	assert.True(t, ok)
	check.Equal(t, entities.PartNumber("Wago-2002-1201"), record.PartNumber)
	check.Equal(t, entities.Quantity(12), record.InternalStock)
	check.Equal(t, 1, len(record.Offers))

	_, ok = repo.Lookup(" wago-2002-1201 ")
	check.True(t, ok)

	_, ok = repo.Lookup("WAGO-2002")
	check.False(t, ok)
	check.Equal(t, 1, repo.Len())
}

func TestCatalogRepository_InvalidOffersAreExcluded(t *testing.T) {
	repo := NewCatalogRepository([]entities.PartRecord{
		{
			PartNumber:        "R1",
			LastPurchasePrice: price("2"),
			Offers: []entities.Offer{
				{Supplier: "TME", UnitPrice: price("-1"), AvailableQuantity: 5, LeadTimeDays: 2},
				{Supplier: "RS", UnitPrice: price("3"), AvailableQuantity: -5, LeadTimeDays: 3},
				{Supplier: "Farnell", UnitPrice: price("4"), AvailableQuantity: 5, LeadTimeDays: 5},
			},
		},
	})

	record, ok := repo.Lookup("R1")
	assert.True(t, ok)
	assert.Equal(t, 1, len(record.Offers))
	check.Equal(t, "Farnell", record.Offers[0].Supplier)

	issues := repo.Issues()
	assert.Equal(t, 2, len(issues))
	check.Equal(t, "offer TME", issues[0].Field)
	check.Equal(t, "unit price cannot be negative, got -1", issues[0].Reason)
	check.Equal(t, "offer RS", issues[1].Field)
}

func TestCatalogRepository_RecordLevelProblems(t *testing.T) {
	repo := NewCatalogRepository([]entities.PartRecord{
		{PartNumber: "", LastPurchasePrice: price("1")},
		{PartNumber: "C1", InternalStock: -4, LastPurchasePrice: price("1")},
		{PartNumber: "C2", InternalStock: 10, LastPurchasePrice: price("-1")},
		{PartNumber: "c1", InternalStock: 99, LastPurchasePrice: price("1")},
	})

	check.Equal(t, 2, repo.Len())

	c1, ok := repo.Lookup("C1")
	assert.True(t, ok)
	check.Equal(t, entities.Quantity(0), c1.InternalStock)

	c2, ok := repo.Lookup("C2")
	assert.True(t, ok)
	check.Equal(t, entities.Quantity(0), c2.InternalStock)
	check.True(t, c2.LastPurchasePrice.IsZero())

	var reasons []string
	for _, issue := range repo.Issues() {
		reasons = append(reasons, issue.Reason)
	}
	joined := strings.Join(reasons, "|")
	check.True(t, strings.Contains(joined, "part number cannot be empty"))
	check.True(t, strings.Contains(joined, "internal stock cannot be negative, got -4"))
	check.True(t, strings.Contains(joined, "last purchase price cannot be negative, got -1"))
	check.True(t, strings.Contains(joined, "duplicate part number, keeping first record"))
}

func TestCatalogRepository_LookupReturnsCopy(t *testing.T) {
	repo := NewCatalogRepository([]entities.PartRecord{
		{
			PartNumber: "R1",
			Offers:     []entities.Offer{{Supplier: "TME", UnitPrice: price("1"), AvailableQuantity: 1}},
		},
	})

	first, _ := repo.Lookup("R1")
	first.Offers[0].AvailableQuantity = 1000
	first.InternalStock = 1000

	second, _ := repo.Lookup("R1")
	check.Equal(t, entities.Quantity(1), second.Offers[0].AvailableQuantity)
	check.Equal(t, entities.Quantity(0), second.InternalStock)
}

func TestCatalogRepository_WithUpstreamIssues(t *testing.T) {
	upstream := []entities.LoadIssue{{PartNumber: "R9", Row: 4, Field: "TME_Price", Reason: "not a number"}}
	repo := NewCatalogRepositoryWithIssues([]entities.PartRecord{{PartNumber: ""}}, upstream)

	issues := repo.Issues()
	assert.Equal(t, 2, len(issues))
	check.Equal(t, "row 4: R9 TME_Price: not a number", issues[0].String())
	check.Equal(t, "part_number", issues[1].Field)
}
