package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/vsinha/bomsource/pkg/domain/entities"
)

// SelectionReport wraps a selection result with the context needed to render
// or export it
type SelectionReport struct {
	RunID       uuid.UUID                 `json:"run_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Today       time.Time                 `json:"today"`
	Policy      entities.Policy           `json:"policy"`
	Result      *entities.SelectionResult `json:"result"`
	Stock       []entities.StockStatus    `json:"stock,omitempty"`
	LoadIssues  []entities.LoadIssue      `json:"load_issues,omitempty"`
	Fingerprint string                    `json:"fingerprint"`
}

// NewSelectionReport creates a report for a finished run and computes its fingerprint
func NewSelectionReport(
	generatedAt, today time.Time,
	policy entities.Policy,
	result *entities.SelectionResult,
) (*SelectionReport, error) {
	fingerprint, err := Fingerprint(today, policy, result)
	if err != nil {
		return nil, err
	}

	return &SelectionReport{
		RunID:       uuid.New(),
		GeneratedAt: generatedAt,
		Today:       today,
		Policy:      policy,
		Result:      result,
		Fingerprint: fingerprint,
	}, nil
}

// CompletionDate converts a day offset into a calendar date relative to Today
func (r *SelectionReport) CompletionDate(days int) time.Time {
	return r.Today.AddDate(0, 0, days)
}
