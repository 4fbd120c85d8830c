// Package selection chooses one sourcing offer per demanded part under a
// deadline and budget, and reports cost and completion bounds.
package selection

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vsinha/bomsource/pkg/clock"
	"github.com/vsinha/bomsource/pkg/domain/entities"
	"github.com/vsinha/bomsource/pkg/domain/repositories"
	"github.com/vsinha/bomsource/pkg/domain/services"
)

// offerLookup is the part of the catalog the per-part evaluation needs
type offerLookup interface {
	Lookup(partNumber entities.PartNumber) (entities.PartRecord, bool)
}

// EngineConfig holds configuration for the selection engine
type EngineConfig struct {
	// Workers bounds how many parts are evaluated concurrently (<= 1 = sequential).
	// Results do not depend on it.
	Workers int
}

// Engine implements offer selection. It holds no state between calls.
type Engine struct {
	clock     clock.Clock
	config    EngineConfig
	validator *services.DemandValidator
}

// NewEngine creates a new selection engine using one worker per CPU
func NewEngine(c clock.Clock) *Engine {
	return NewEngineWithConfig(c, EngineConfig{
		Workers: runtime.GOMAXPROCS(0),
	})
}

// NewEngineWithConfig creates a new selection engine with custom configuration
func NewEngineWithConfig(c clock.Clock, config EngineConfig) *Engine {
	if c == nil {
		c = clock.NewReal()
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Engine{
		clock:     c,
		config:    config,
		validator: services.NewDemandValidator(),
	}
}

// Today returns the date the engine measures the deadline from
func (e *Engine) Today() time.Time {
	return clock.Today(e.clock)
}

// Select picks one offer per demanded part. A ConfigurationError is returned,
// before any part is evaluated, when the inputs are structurally invalid.
// Parts that cannot be sourced are reported in the result, not as errors.
func (e *Engine) Select(
	ctx context.Context,
	catalog repositories.OfferCatalog,
	demand repositories.Demand,
	policy entities.Policy,
) (*entities.SelectionResult, error) {
	if catalog == nil {
		return nil, entities.NewConfigurationError("catalog", "catalog must be provided")
	}
	if demand == nil {
		return nil, entities.NewConfigurationError("demand", "demand must be provided")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	lines := demand.Entries()
	if err := e.validator.ValidateDemand(lines).Err(); err != nil {
		return nil, err
	}

	daysAllowed := policy.DaysAllowed(e.Today())

	evaluations, err := e.evaluateAll(ctx, catalog, lines, policy, daysAllowed)
	if err != nil {
		return nil, err
	}

	result := &entities.SelectionResult{
		Decisions:   make([]entities.Decision, 0, len(lines)),
		Unresolved:  make([]entities.UnresolvedPart, 0),
		DaysAllowed: daysAllowed,
	}
	agg := newAggregator()

	for _, eval := range evaluations {
		if !eval.resolved {
			result.Unresolved = append(result.Unresolved, entities.UnresolvedPart{
				PartNumber: eval.line.PartNumber,
				Quantity:   eval.line.Quantity,
				Reason:     eval.reason,
			})
			continue
		}

		result.Decisions = append(result.Decisions, entities.Decision{
			PartNumber:        eval.line.PartNumber,
			Quantity:          eval.line.Quantity,
			ChosenOffer:       eval.chosen,
			LineCost:          eval.chosen.LineCost(eval.line.Quantity),
			DeadlineOverrun:   eval.overrun,
			Info:              eval.record.Info,
			InternalStock:     eval.record.InternalStock,
			LastPurchasePrice: eval.record.LastPurchasePrice,
		})
		agg.add(eval)
	}

	agg.apply(result, policy.Budget)
	return result, nil
}

// evaluateAll evaluates every line, storing each outcome at its demand index
func (e *Engine) evaluateAll(
	ctx context.Context,
	catalog offerLookup,
	lines []entities.DemandLine,
	policy entities.Policy,
	daysAllowed int,
) ([]partEvaluation, error) {
	evaluations := make([]partEvaluation, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)

	for i, line := range lines {
		if gctx.Err() != nil {
			break
		}
		i, line := i, line
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			evaluations[i] = evaluatePart(catalog, line, policy, daysAllowed)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	return evaluations, nil
}
