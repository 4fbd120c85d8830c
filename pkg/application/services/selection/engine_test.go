package selection

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/vsinha/bomsource/pkg/clock"
	"github.com/vsinha/bomsource/pkg/domain/entities"
	"github.com/vsinha/bomsource/pkg/domain/repositories"
	"github.com/vsinha/bomsource/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/bomsource/pkg/infrastructure/testing"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func newTestEngine(workers int) *Engine {
	return NewEngineWithConfig(clock.NewFixed(testhelpers.Today), EngineConfig{Workers: workers})
}

func scenarioCatalog() *memory.CatalogRepository {
	return memory.NewCatalogRepository([]entities.PartRecord{
		testhelpers.MustPartRecord("R1", 0, "9",
			testhelpers.MustOffer("X", "10", 5, 2),
			testhelpers.MustOffer("Y", "8", 5, 6),
		),
		testhelpers.MustPartRecord("R3", 10, "1",
			testhelpers.MustOffer("X", "2", 100, 1),
		),
	})
}

func demandOf(lines ...entities.DemandLine) *memory.DemandRepository {
	return memory.NewDemandRepository(lines)
}

func mustSelect(t *testing.T, engine *Engine, catalog repositories.OfferCatalog, demand repositories.Demand, policy entities.Policy) *entities.SelectionResult {
	t.Helper()
	result, err := engine.Select(context.Background(), catalog, demand, policy)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	return result
}

func assertDecimal(t *testing.T, name string, expected string, actual decimal.Decimal) {
	t.Helper()
	if !actual.Equal(decimal.RequireFromString(expected)) {
		t.Errorf("Expected %s %s, got %s", name, expected, actual)
	}
}

func TestEngine_ScenarioA_DeadlineFirstPicksOnlyOfferWithinDeadline(t *testing.T) {
	result := mustSelect(t, newTestEngine(1), scenarioCatalog(),
		demandOf(entities.DemandLine{PartNumber: "R1", Quantity: 5}),
		testhelpers.MustPolicy(3, "0", entities.DeadlineFirst, false))

	decision, ok := result.DecisionFor("R1")
	if !ok {
		t.Fatal("Expected a decision for R1")
	}
	if decision.ChosenOffer.Supplier != "X" {
		t.Errorf("Expected supplier X, got %s", decision.ChosenOffer.Supplier)
	}
	assertDecimal(t, "line cost", "50", decision.LineCost)
	if result.DaysAllowed != 3 {
		t.Errorf("Expected 3 days allowed, got %d", result.DaysAllowed)
	}
}

func TestEngine_ScenarioB_BudgetFirstPicksCheaperOffer(t *testing.T) {
	result := mustSelect(t, newTestEngine(1), scenarioCatalog(),
		demandOf(entities.DemandLine{PartNumber: "R1", Quantity: 5}),
		testhelpers.MustPolicy(10, "0", entities.BudgetFirst, false))

	decision, ok := result.DecisionFor("R1")
	if !ok {
		t.Fatal("Expected a decision for R1")
	}
	if decision.ChosenOffer.Supplier != "Y" {
		t.Errorf("Expected supplier Y, got %s", decision.ChosenOffer.Supplier)
	}
	assertDecimal(t, "line cost", "40", decision.LineCost)
}

func TestEngine_ScenarioC_MissingPartIsUnresolved(t *testing.T) {
	result := mustSelect(t, newTestEngine(1), scenarioCatalog(),
		demandOf(
			entities.DemandLine{PartNumber: "R1", Quantity: 5},
			entities.DemandLine{PartNumber: "R2", Quantity: 1},
		),
		testhelpers.MustPolicy(10, "0", entities.DeadlineFirst, false))

	if diff := cmp.Diff([]entities.PartNumber{"R2"}, result.UnresolvedParts()); diff != "" {
		t.Errorf("Unresolved parts mismatch (-want +got):\n%s", diff)
	}
	reason, _ := result.UnresolvedReasonFor("R2")
	if reason != entities.MissingCatalogEntry {
		t.Errorf("Expected MissingCatalogEntry, got %s", reason)
	}
	if _, ok := result.DecisionFor("R2"); ok {
		t.Error("Expected no decision for R2")
	}
	if _, ok := result.DecisionFor("R1"); !ok {
		t.Error("Expected R1 to be resolved")
	}
}

func TestEngine_ScenarioD_InternalStockPreferredInBothModes(t *testing.T) {
	for _, priority := range []entities.PriorityMode{entities.DeadlineFirst, entities.BudgetFirst} {
		t.Run(priority.String(), func(t *testing.T) {
			result := mustSelect(t, newTestEngine(1), scenarioCatalog(),
				demandOf(entities.DemandLine{PartNumber: "R3", Quantity: 10}),
				testhelpers.MustPolicy(10, "0", priority, false))

			decision, ok := result.DecisionFor("R3")
			if !ok {
				t.Fatal("Expected a decision for R3")
			}
			if !decision.ChosenOffer.IsInternal() {
				t.Errorf("Expected internal stock, got %s", decision.ChosenOffer.Supplier)
			}
			if decision.ChosenOffer.LeadTimeDays != 0 {
				t.Errorf("Expected lead time 0, got %d", decision.ChosenOffer.LeadTimeDays)
			}
			assertDecimal(t, "line cost", "10", decision.LineCost)
		})
	}
}

func TestEngine_InsufficientInternalStockFallsBackToSupplier(t *testing.T) {
	result := mustSelect(t, newTestEngine(1), scenarioCatalog(),
		demandOf(entities.DemandLine{PartNumber: "R3", Quantity: 11}),
		testhelpers.MustPolicy(10, "0", entities.DeadlineFirst, false))

	decision, _ := result.DecisionFor("R3")
	if decision.ChosenOffer.Supplier != "X" {
		t.Errorf("Expected supplier X, got %s", decision.ChosenOffer.Supplier)
	}
}

func TestEngine_TieBreaks(t *testing.T) {
	testCases := []struct {
		name     string
		record   entities.PartRecord
		priority entities.PriorityMode
		expected string
	}{
		{
			name: "deadline first, same lead, cheaper wins",
			record: testhelpers.MustPartRecord("P1", 0, "0",
				testhelpers.MustOffer("A", "5", 10, 3),
				testhelpers.MustOffer("B", "4", 10, 3),
			),
			priority: entities.DeadlineFirst,
			expected: "B",
		},
		{
			name: "budget first, same price, faster wins",
			record: testhelpers.MustPartRecord("P1", 0, "0",
				testhelpers.MustOffer("A", "5", 10, 4),
				testhelpers.MustOffer("B", "5", 10, 3),
			),
			priority: entities.BudgetFirst,
			expected: "B",
		},
		{
			name: "deadline first, full tie keeps catalog order",
			record: testhelpers.MustPartRecord("P1", 0, "0",
				testhelpers.MustOffer("A", "5", 10, 3),
				testhelpers.MustOffer("B", "5", 10, 3),
			),
			priority: entities.DeadlineFirst,
			expected: "A",
		},
		{
			name: "budget first, full tie keeps catalog order",
			record: testhelpers.MustPartRecord("P1", 0, "0",
				testhelpers.MustOffer("B", "5", 10, 3),
				testhelpers.MustOffer("A", "5", 10, 3),
			),
			priority: entities.BudgetFirst,
			expected: "B",
		},
		{
			name: "internal stock wins a price tie on lead time",
			record: testhelpers.MustPartRecord("P1", 10, "5",
				testhelpers.MustOffer("A", "5", 10, 0),
			),
			priority: entities.BudgetFirst,
			expected: entities.InternalSupplier,
		},
		{
			name: "cheaper supplier beats internal stock in budget mode",
			record: testhelpers.MustPartRecord("P1", 10, "5",
				testhelpers.MustOffer("A", "4", 10, 2),
			),
			priority: entities.BudgetFirst,
			expected: "A",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			catalog := memory.NewCatalogRepository([]entities.PartRecord{tc.record})
			result := mustSelect(t, newTestEngine(1), catalog,
				demandOf(entities.DemandLine{PartNumber: "P1", Quantity: 10}),
				testhelpers.MustPolicy(7, "0", tc.priority, false))

			decision, ok := result.DecisionFor("P1")
			if !ok {
				t.Fatal("Expected a decision for P1")
			}
			if decision.ChosenOffer.Supplier != tc.expected {
				t.Errorf("Expected supplier %s, got %s", tc.expected, decision.ChosenOffer.Supplier)
			}
		})
	}
}

func TestEngine_Aggregates(t *testing.T) {
	catalog, demand := testhelpers.BuildSupplierTestData()

	testCases := []struct {
		priority  entities.PriorityMode
		total     string
		suppliers []string
		planned   int
	}{
		{entities.DeadlineFirst, "19.00", []string{"TME", entities.InternalSupplier, "TME"}, 2},
		{entities.BudgetFirst, "15.80", []string{"RS", "TME", "Farnell"}, 6},
	}

	for _, tc := range testCases {
		t.Run(tc.priority.String(), func(t *testing.T) {
			result := mustSelect(t, newTestEngine(1), catalog, demand,
				testhelpers.MustPolicy(14, "0", tc.priority, false))

			var suppliers []string
			for _, d := range result.Decisions {
				suppliers = append(suppliers, d.ChosenOffer.Supplier)
			}
			if diff := cmp.Diff(tc.suppliers, suppliers); diff != "" {
				t.Errorf("Chosen suppliers mismatch (-want +got):\n%s", diff)
			}

			assertDecimal(t, "total cost", tc.total, result.TotalCost)
			assertDecimal(t, "min possible cost", "15.80", result.MinPossibleCost)
			assertDecimal(t, "max possible cost", "19.00", result.MaxPossibleCost)
			if result.EarliestCompletionDays != 2 {
				t.Errorf("Expected earliest completion 2, got %d", result.EarliestCompletionDays)
			}
			if result.LatestCompletionDays != 6 {
				t.Errorf("Expected latest completion 6, got %d", result.LatestCompletionDays)
			}
			if result.PlannedCompletionDays != tc.planned {
				t.Errorf("Expected planned completion %d, got %d", tc.planned, result.PlannedCompletionDays)
			}

			expectedUnresolved := []entities.UnresolvedPart{
				{PartNumber: "K2", Quantity: 5, Reason: entities.NoFeasibleOffer},
				{PartNumber: "M9", Quantity: 2, Reason: entities.MissingCatalogEntry},
			}
			if diff := cmp.Diff(expectedUnresolved, result.Unresolved); diff != "" {
				t.Errorf("Unresolved mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngine_DecisionCarriesCatalogMetadata(t *testing.T) {
	catalog, demand := testhelpers.BuildSupplierTestData()
	result := mustSelect(t, newTestEngine(1), catalog, demand,
		testhelpers.MustPolicy(14, "0", entities.DeadlineFirst, false))

	decision, _ := result.DecisionFor("r1")
	if decision.Info.Category != "Resistors" {
		t.Errorf("Expected category Resistors, got %q", decision.Info.Category)
	}
	assertDecimal(t, "last purchase price", "0.09", decision.LastPurchasePrice)

	// the demand spelling is kept on the decision
	r3, _ := result.DecisionFor("R3")
	if r3.PartNumber != "r3" {
		t.Errorf("Expected demand spelling r3, got %s", r3.PartNumber)
	}
}

func TestEngine_PartitionAndBounds(t *testing.T) {
	catalog, demand := testhelpers.BuildSupplierTestData()

	for days := 0; days <= 8; days++ {
		for _, priority := range []entities.PriorityMode{entities.DeadlineFirst, entities.BudgetFirst} {
			t.Run(fmt.Sprintf("%s/%d days", priority, days), func(t *testing.T) {
				result := mustSelect(t, newTestEngine(2), catalog, demand,
					testhelpers.MustPolicy(days, "0", priority, false))

				seen := make(map[string]int)
				for _, d := range result.Decisions {
					seen[d.PartNumber.Key()]++
					if !d.ChosenOffer.Covers(d.Quantity) {
						t.Errorf("%s: chosen offer does not cover %d", d.PartNumber, d.Quantity)
					}
					if d.ChosenOffer.LeadTimeDays > result.DaysAllowed {
						t.Errorf("%s: lead %d exceeds %d days allowed", d.PartNumber, d.ChosenOffer.LeadTimeDays, result.DaysAllowed)
					}
				}
				for _, u := range result.Unresolved {
					seen[u.PartNumber.Key()]++
				}
				for _, line := range demand.Entries() {
					if seen[line.PartNumber.Key()] != 1 {
						t.Errorf("%s appears %d times across decisions and unresolved", line.PartNumber, seen[line.PartNumber.Key()])
					}
				}

				if result.MinPossibleCost.GreaterThan(result.TotalCost) || result.TotalCost.GreaterThan(result.MaxPossibleCost) {
					t.Errorf("Expected min <= total <= max, got %s <= %s <= %s",
						result.MinPossibleCost, result.TotalCost, result.MaxPossibleCost)
				}
				if result.EarliestCompletionDays > result.LatestCompletionDays {
					t.Errorf("Expected earliest <= latest, got %d > %d", result.EarliestCompletionDays, result.LatestCompletionDays)
				}
			})
		}
	}
}

func TestEngine_DeadlineMonotonicity(t *testing.T) {
	catalog, demand := testhelpers.BuildSupplierTestData()
	engine := newTestEngine(1)

	previous := -1
	for days := 0; days <= 10; days++ {
		result := mustSelect(t, engine, catalog, demand,
			testhelpers.MustPolicy(days, "0", entities.DeadlineFirst, false))
		if len(result.Decisions) < previous {
			t.Errorf("Extending the deadline to %d days reduced resolved parts from %d to %d",
				days, previous, len(result.Decisions))
		}
		previous = len(result.Decisions)
	}
}

func TestEngine_DeterministicAcrossWorkerCounts(t *testing.T) {
	catalog, demand := testhelpers.BuildSupplierTestData()
	policy := testhelpers.MustPolicy(5, "10", entities.BudgetFirst, true)

	baseline := mustSelect(t, newTestEngine(1), catalog, demand, policy)
	for _, workers := range []int{2, 4, 16} {
		result := mustSelect(t, newTestEngine(workers), catalog, demand, policy)
		if diff := cmp.Diff(baseline, result, decimalComparer); diff != "" {
			t.Errorf("Result with %d workers differs (-1 worker +%d workers):\n%s", workers, workers, diff)
		}
	}
}

func TestEngine_PastDeadlineOnlyAllowsInternalStock(t *testing.T) {
	result := mustSelect(t, newTestEngine(1), scenarioCatalog(),
		demandOf(
			entities.DemandLine{PartNumber: "R1", Quantity: 5},
			entities.DemandLine{PartNumber: "R3", Quantity: 5},
		),
		testhelpers.MustPolicy(-4, "0", entities.DeadlineFirst, false))

	if result.DaysAllowed != 0 {
		t.Errorf("Expected 0 days allowed, got %d", result.DaysAllowed)
	}
	if reason, _ := result.UnresolvedReasonFor("R1"); reason != entities.NoFeasibleOffer {
		t.Errorf("Expected R1 NoFeasibleOffer, got %s", reason)
	}
	if d, ok := result.DecisionFor("R3"); !ok || !d.ChosenOffer.IsInternal() {
		t.Error("Expected R3 to be served from internal stock")
	}
}

func TestEngine_DeadlineOverrun(t *testing.T) {
	catalog := memory.NewCatalogRepository([]entities.PartRecord{
		testhelpers.MustPartRecord("K2", 1, "1.20",
			testhelpers.MustOffer("Conrad", "1.50", 10, 6),
			testhelpers.MustOffer("Elfa", "1.40", 10, 9),
			testhelpers.MustOffer("RS", "1.40", 10, 8),
		),
	})
	demand := demandOf(entities.DemandLine{PartNumber: "K2", Quantity: 5})

	strict := mustSelect(t, newTestEngine(1), catalog, demand,
		testhelpers.MustPolicy(3, "0", entities.DeadlineFirst, false))
	if reason, ok := strict.UnresolvedReasonFor("K2"); !ok || reason != entities.NoFeasibleOffer {
		t.Fatalf("Expected K2 NoFeasibleOffer without overrun, got %v", strict.Unresolved)
	}
	if strict.HasDeadlineOverruns() {
		t.Error("Expected no overruns in strict mode")
	}

	lenient := mustSelect(t, newTestEngine(1), catalog, demand,
		testhelpers.MustPolicy(3, "0", entities.DeadlineFirst, true))
	decision, ok := lenient.DecisionFor("K2")
	if !ok {
		t.Fatal("Expected a decision for K2 with overrun allowed")
	}
	if decision.ChosenOffer.Supplier != "RS" {
		t.Errorf("Expected cheapest then fastest offer RS, got %s", decision.ChosenOffer.Supplier)
	}
	if !decision.DeadlineOverrun || !lenient.HasDeadlineOverruns() {
		t.Error("Expected the decision to be flagged as a deadline overrun")
	}
	assertDecimal(t, "total cost", "7.00", lenient.TotalCost)
	assertDecimal(t, "min possible cost", "7.00", lenient.MinPossibleCost)
	assertDecimal(t, "max possible cost", "7.50", lenient.MaxPossibleCost)
	if lenient.EarliestCompletionDays != 6 || lenient.LatestCompletionDays != 9 {
		t.Errorf("Expected completion 6-9 days, got %d-%d", lenient.EarliestCompletionDays, lenient.LatestCompletionDays)
	}
}

func TestEngine_OverrunStillNeedsQuantity(t *testing.T) {
	catalog, demand := testhelpers.BuildSupplierTestData()
	result := mustSelect(t, newTestEngine(1), catalog, demand,
		testhelpers.MustPolicy(14, "0", entities.DeadlineFirst, true))

	if reason, _ := result.UnresolvedReasonFor("K2"); reason != entities.NoFeasibleOffer {
		t.Errorf("Expected K2 NoFeasibleOffer, got %s", reason)
	}
}

func TestEngine_BudgetIsReportedNotEnforced(t *testing.T) {
	catalog, demand := testhelpers.BuildSupplierTestData()

	testCases := []struct {
		budget      string
		constrained bool
		within      bool
		overrun     string
		achievable  bool
	}{
		{"0", false, true, "0", true},
		{"20", true, true, "0", true},
		{"16", true, false, "3.00", true},
		{"10", true, false, "9.00", false},
	}

	for _, tc := range testCases {
		t.Run("budget "+tc.budget, func(t *testing.T) {
			result := mustSelect(t, newTestEngine(1), catalog, demand,
				testhelpers.MustPolicy(14, tc.budget, entities.DeadlineFirst, false))

			if len(result.Decisions) != 3 {
				t.Errorf("Expected budget not to eliminate decisions, got %d", len(result.Decisions))
			}
			if result.Budget.Constrained != tc.constrained {
				t.Errorf("Expected constrained=%v, got %v", tc.constrained, result.Budget.Constrained)
			}
			if result.Budget.WithinBudget != tc.within {
				t.Errorf("Expected within=%v, got %v", tc.within, result.Budget.WithinBudget)
			}
			if result.Budget.Achievable != tc.achievable {
				t.Errorf("Expected achievable=%v, got %v", tc.achievable, result.Budget.Achievable)
			}
			assertDecimal(t, "budget overrun", tc.overrun, result.Budget.Overrun)
		})
	}
}

func TestEngine_EmptyDemand(t *testing.T) {
	result := mustSelect(t, newTestEngine(1), scenarioCatalog(), demandOf(),
		testhelpers.MustPolicy(5, "0", entities.DeadlineFirst, false))

	if len(result.Decisions) != 0 || len(result.Unresolved) != 0 {
		t.Errorf("Expected empty result, got %d decisions and %d unresolved", len(result.Decisions), len(result.Unresolved))
	}
	if !result.TotalCost.IsZero() || result.EarliestCompletionDays != 0 {
		t.Errorf("Expected zero aggregates, got %s", result.Summary())
	}
}

func TestEngine_ConfigurationErrors(t *testing.T) {
	validPolicy := testhelpers.MustPolicy(5, "0", entities.DeadlineFirst, false)
	validDemand := demandOf(entities.DemandLine{PartNumber: "R1", Quantity: 1})

	testCases := []struct {
		name        string
		catalog     repositories.OfferCatalog
		demand      repositories.Demand
		policy      entities.Policy
		expectError string
	}{
		{
			name:        "nil catalog",
			demand:      validDemand,
			policy:      validPolicy,
			expectError: "configuration error: catalog: catalog must be provided",
		},
		{
			name:        "nil demand",
			catalog:     scenarioCatalog(),
			policy:      validPolicy,
			expectError: "configuration error: demand: demand must be provided",
		},
		{
			name:        "missing deadline",
			catalog:     scenarioCatalog(),
			demand:      validDemand,
			policy:      entities.Policy{Priority: entities.DeadlineFirst},
			expectError: "configuration error: deadline: deadline must be set",
		},
		{
			name:        "unknown priority",
			catalog:     scenarioCatalog(),
			demand:      validDemand,
			policy:      entities.Policy{Deadline: testhelpers.Today, Priority: entities.PriorityMode(7)},
			expectError: "configuration error: priority: unknown priority mode 7",
		},
		{
			name:        "zero quantity",
			catalog:     scenarioCatalog(),
			demand:      demandOf(entities.DemandLine{PartNumber: "R1", Quantity: 0}),
			policy:      validPolicy,
			expectError: "configuration error: demand line 1 (R1): quantity must be positive, got 0",
		},
		{
			name:    "duplicate part",
			catalog: scenarioCatalog(),
			demand: demandOf(
				entities.DemandLine{PartNumber: "R1", Quantity: 1},
				entities.DemandLine{PartNumber: " r1 ", Quantity: 1},
			),
			policy:      validPolicy,
			expectError: "configuration error: demand line 2 ( r1 ): duplicate of demand line 1 (R1)",
		},
		{
			name:        "blank part",
			catalog:     scenarioCatalog(),
			demand:      demandOf(entities.DemandLine{PartNumber: "", Quantity: 1}),
			policy:      validPolicy,
			expectError: "configuration error: demand line 1: part number is empty",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := newTestEngine(1).Select(context.Background(), tc.catalog, tc.demand, tc.policy)
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if result != nil {
				t.Error("Expected no result alongside a configuration error")
			}
			if !entities.IsConfigurationError(err) {
				t.Errorf("Expected ConfigurationError, got %T", err)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error %q, got %q", tc.expectError, err.Error())
			}
		})
	}
}

func TestEngine_CancelledContext(t *testing.T) {
	catalog, demand := testhelpers.BuildSupplierTestData()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(4).Select(ctx, catalog, demand,
		testhelpers.MustPolicy(5, "0", entities.DeadlineFirst, false))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if entities.IsConfigurationError(err) {
		t.Error("Cancellation must not be reported as a configuration error")
	}
}

func TestEngine_TodayFollowsClock(t *testing.T) {
	engine := NewEngineWithConfig(clock.NewFixed(time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)), EngineConfig{})
	result := mustSelect(t, engine, scenarioCatalog(),
		demandOf(entities.DemandLine{PartNumber: "R1", Quantity: 5}),
		entities.Policy{Deadline: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Priority: entities.DeadlineFirst})

	if result.DaysAllowed != 2 {
		t.Errorf("Expected 2 civil days allowed, got %d", result.DaysAllowed)
	}
}
