package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomsource/pkg/application/services/selection"
	"github.com/vsinha/bomsource/pkg/clock"
	"github.com/vsinha/bomsource/pkg/domain/entities"
	"github.com/vsinha/bomsource/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	// Create repositories
	catalog := memory.NewCatalogRepository(motorControllerCatalog())
	demand := memory.NewDemandFromReferences([]entities.PartNumber{
		"R10K", "R10K", "R10K", "R10K",
		"C100N", "C100N",
		"RELAY_12V",
		"MCU_STM32",
		"FUSE_2A", // not in the catalog
	})

	// Create selection engine
	engine := selection.NewEngine(clock.NewReal())
	today := engine.Today()

	for _, priority := range []entities.PriorityMode{entities.DeadlineFirst, entities.BudgetFirst} {
		policy, err := entities.NewPolicy(today.AddDate(0, 0, 5), decimal.NewFromInt(60), priority, false)
		if err != nil {
			fmt.Printf("❌ Invalid policy: %v\n", err)
			return
		}

		fmt.Printf("🚀 Sourcing motor controller BOM (%s, deadline %s)...\n",
			priority, policy.Deadline.Format("2006-01-02"))

		result, err := engine.Select(ctx, catalog, demand, *policy)
		if err != nil {
			fmt.Printf("❌ Selection failed: %v\n", err)
			return
		}

		printResult(result, today)
	}

	fmt.Println("✅ Sourcing analysis complete!")
}

func printResult(result *entities.SelectionResult, today time.Time) {
	fmt.Println("📋 Decisions:")
	for _, d := range result.Decisions {
		fmt.Printf("  %s x%d: %s @ %s = %s (arrives %s)\n",
			d.PartNumber,
			d.Quantity,
			d.ChosenOffer.Supplier,
			d.ChosenOffer.UnitPrice.StringFixed(2),
			d.LineCost.StringFixed(2),
			today.AddDate(0, 0, d.ChosenOffer.LeadTimeDays).Format("2006-01-02"))
	}

	if len(result.Unresolved) > 0 {
		fmt.Println("🚨 Unresolved:")
		for _, u := range result.Unresolved {
			fmt.Printf("  %s x%d: %s\n", u.PartNumber, u.Quantity, u.Reason)
		}
	}

	fmt.Printf("📊 %s\n", result.Summary())
	if result.Budget.Constrained && !result.Budget.WithinBudget {
		fmt.Printf("    ⚠️  Over budget by %s\n", result.Budget.Overrun.StringFixed(2))
	}
	fmt.Println()
}

func motorControllerCatalog() []entities.PartRecord {
	return []entities.PartRecord{
		mustRecord("R10K", 2, "0.08",
			mustOffer("TME", "0.10", "0", 5000, 2),
			mustOffer("RS", "0.09", "10", 5000, 3),
		),
		mustRecord("C100N", 50, "0.20",
			mustOffer("Farnell", "0.15", "0", 1000, 5),
		),
		mustRecord("RELAY_12V", 0, "3.10",
			mustOffer("Conrad", "3.40", "0", 12, 6),
			mustOffer("Elfa", "2.95", "5", 40, 4),
		),
		mustRecord("MCU_STM32", 0, "4.80",
			mustOffer("TME", "5.20", "0", 300, 2),
			mustOffer("Farnell", "4.60", "0", 25, 5),
		),
	}
}

func mustRecord(pn string, stock entities.Quantity, lastPrice string, offers ...entities.Offer) entities.PartRecord {
	record, err := entities.NewPartRecord(entities.PartNumber(pn), entities.PartInfo{}, stock, decimal.RequireFromString(lastPrice), offers)
	if err != nil {
		panic(err)
	}
	return *record
}

func mustOffer(supplier, listPrice, discount string, available entities.Quantity, lead int) entities.Offer {
	offer, err := entities.NewOffer(supplier, decimal.RequireFromString(listPrice), decimal.RequireFromString(discount), available, lead)
	if err != nil {
		panic(err)
	}
	return *offer
}
