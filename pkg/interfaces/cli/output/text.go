package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/vsinha/bomsource/pkg/application/dto"
)

// generateTextOutput creates human-readable text output
func generateTextOutput(report *dto.SelectionReport, config Config) error {
	w := config.writer()

	var file *os.File
	var filename string
	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		filename = filepath.Join(config.OutputDir, "selection_results.txt")
		var err error
		file, err = os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create text file: %w", err)
		}
		defer file.Close()
		w = io.MultiWriter(w, file)
	}

	writeTextReport(w, report, config)

	if file != nil {
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to write text file: %w", err)
		}
		if config.Verbose {
			fmt.Fprintf(config.writer(), "💾 Results saved to: %s\n", filename)
		}
	}
	return nil
}

func writeTextReport(w io.Writer, report *dto.SelectionReport, config Config) {
	result := report.Result
	policy := report.Policy

	fmt.Fprintf(w, "📊 Sourcing Selection Summary\n")
	fmt.Fprintf(w, "=============================\n\n")

	fmt.Fprintf(w, "Run: %s\n", report.RunID)
	fmt.Fprintf(w, "Deadline: %s (%d days allowed)\n", formatDate(policy.Deadline), result.DaysAllowed)
	fmt.Fprintf(w, "Priority: %s\n", policy.Priority)
	if result.Budget.Constrained {
		fmt.Fprintf(w, "Budget: %s\n", policy.Budget.StringFixed(2))
	} else {
		fmt.Fprintf(w, "Budget: unconstrained\n")
	}
	if policy.AllowDeadlineOverrun {
		fmt.Fprintf(w, "Deadline overrun: allowed\n")
	}
	if config.SelectionTime > 0 {
		fmt.Fprintf(w, "Selection Time: %v\n", config.SelectionTime)
	}
	fmt.Fprintln(w)

	if len(result.Decisions) > 0 {
		fmt.Fprintf(w, "📋 Decisions:\n")
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Part Number", "Qty", "Supplier", "Unit Price", "Line Cost", "Lead", "Delivery", "Note"})
		for _, d := range result.Decisions {
			note := ""
			if d.DeadlineOverrun {
				note = "deadline overrun"
			}
			t.AppendRow(table.Row{
				d.PartNumber,
				d.Quantity,
				d.ChosenOffer.Supplier,
				d.ChosenOffer.UnitPrice.StringFixed(2),
				d.LineCost.StringFixed(2),
				fmt.Sprintf("%dd", d.ChosenOffer.LeadTimeDays),
				formatDate(report.CompletionDate(d.ChosenOffer.LeadTimeDays)),
				note,
			})
		}
		t.AppendFooter(table.Row{"", "", "", "Total", result.TotalCost.StringFixed(2)})
		t.Render()
		fmt.Fprintln(w)
	}

	if len(result.Unresolved) > 0 {
		fmt.Fprintf(w, "⚠️  Unresolved:\n")
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Part Number", "Qty", "Reason"})
		for _, u := range result.Unresolved {
			t.AppendRow(table.Row{u.PartNumber, u.Quantity, u.Reason})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	if len(report.Stock) > 0 {
		fmt.Fprintf(w, "📦 Internal Stock:\n")
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Part Number", "Needed", "In Stock", "Shortfall"})
		for _, s := range report.Stock {
			inStock := fmt.Sprint(s.InStock)
			if !s.Known {
				inStock = "not in catalog"
			}
			t.AppendRow(table.Row{s.PartNumber, s.Needed, inStock, s.Shortfall()})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Cost: %s (min %s, max %s)\n",
		result.TotalCost.StringFixed(2),
		result.MinPossibleCost.StringFixed(2),
		result.MaxPossibleCost.StringFixed(2))
	fmt.Fprintf(w, "Earliest Finish: %s\n", formatDays(report, result.EarliestCompletionDays))
	fmt.Fprintf(w, "Latest Finish: %s\n", formatDays(report, result.LatestCompletionDays))
	fmt.Fprintf(w, "Planned Finish: %s\n", formatDays(report, result.PlannedCompletionDays))
	fmt.Fprintf(w, "Budget Status: %s\n", budgetStatus(report))
	if len(report.LoadIssues) > 0 {
		fmt.Fprintf(w, "Catalog Issues: %d (see -verbose)\n", len(report.LoadIssues))
	}
	fmt.Fprintf(w, "Fingerprint: %s\n", report.Fingerprint)
}

func budgetStatus(report *dto.SelectionReport) string {
	b := report.Result.Budget
	switch {
	case !b.Constrained:
		return "unconstrained"
	case b.WithinBudget:
		return "within budget"
	case b.Achievable:
		return fmt.Sprintf("over budget by %s (a cheaper plan fits)", b.Overrun.StringFixed(2))
	default:
		return fmt.Sprintf("over budget by %s; not achievable with available offers", b.Overrun.StringFixed(2))
	}
}
