package dto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/vsinha/bomsource/pkg/domain/entities"
)

// fingerprintEncMode encodes with sorted map keys and shortest-form integers
// so that equal selections always produce equal bytes
var fingerprintEncMode = mustCanonicalEncMode()

func mustCanonicalEncMode() cbor.EncMode {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("canonical CBOR options rejected: %v", err))
	}
	return mode
}

// Amounts are rendered as normalized decimal strings so 8 and 8.00 hash alike.
type fingerprintDocument struct {
	_           struct{} `cbor:",toarray"`
	Today       string
	Deadline    string
	Budget      string
	Priority    string
	Overrun     bool
	Decisions   []fingerprintDecision
	Unresolved  []fingerprintUnresolved
	TotalCost   string
	MinCost     string
	MaxCost     string
	Earliest    int
	Latest      int
	DaysAllowed int
}

type fingerprintDecision struct {
	_            struct{} `cbor:",toarray"`
	PartNumber   string
	Quantity     int64
	Supplier     string
	UnitPrice    string
	LeadTimeDays int
	LineCost     string
	Overrun      bool
}

type fingerprintUnresolved struct {
	_          struct{} `cbor:",toarray"`
	PartNumber string
	Quantity   int64
	Reason     string
}

// Fingerprint returns a hex SHA-256 over the canonical CBOR encoding of the
// inputs and outcome of a run. Run identity and generation time are excluded,
// so repeating a run on the same data and date yields the same fingerprint.
func Fingerprint(today time.Time, policy entities.Policy, result *entities.SelectionResult) (string, error) {
	doc := fingerprintDocument{
		Today:       today.Format(time.DateOnly),
		Deadline:    policy.Deadline.Format(time.DateOnly),
		Budget:      policy.Budget.String(),
		Priority:    policy.Priority.String(),
		Overrun:     policy.AllowDeadlineOverrun,
		Decisions:   make([]fingerprintDecision, len(result.Decisions)),
		Unresolved:  make([]fingerprintUnresolved, len(result.Unresolved)),
		TotalCost:   result.TotalCost.String(),
		MinCost:     result.MinPossibleCost.String(),
		MaxCost:     result.MaxPossibleCost.String(),
		Earliest:    result.EarliestCompletionDays,
		Latest:      result.LatestCompletionDays,
		DaysAllowed: result.DaysAllowed,
	}

	for i, d := range result.Decisions {
		doc.Decisions[i] = fingerprintDecision{
			PartNumber:   d.PartNumber.Key(),
			Quantity:     int64(d.Quantity),
			Supplier:     d.ChosenOffer.Supplier,
			UnitPrice:    d.ChosenOffer.UnitPrice.String(),
			LeadTimeDays: d.ChosenOffer.LeadTimeDays,
			LineCost:     d.LineCost.String(),
			Overrun:      d.DeadlineOverrun,
		}
	}
	for i, u := range result.Unresolved {
		doc.Unresolved[i] = fingerprintUnresolved{
			PartNumber: u.PartNumber.Key(),
			Quantity:   int64(u.Quantity),
			Reason:     u.Reason.String(),
		}
	}

	data, err := fingerprintEncMode.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode selection for fingerprint: %w", err)
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
