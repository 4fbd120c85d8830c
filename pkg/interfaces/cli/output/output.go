package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vsinha/bomsource/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format        string
	OutputDir     string
	Verbose       bool
	SelectionTime time.Duration
	InputFiles    map[string]string
	// ProjectName names the spreadsheet export; defaults to "selection"
	ProjectName string
	// Writer receives stdout-bound output; defaults to os.Stdout
	Writer io.Writer
}

func (c Config) writer() io.Writer {
	if c.Writer == nil {
		return os.Stdout
	}
	return c.Writer
}

// Generate creates output in the specified format
func Generate(report *dto.SelectionReport, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(report, config)
	case "json":
		return generateJSONOutput(report, config)
	case "csv":
		return generateCSVOutput(report, config)
	case "xlsx":
		return generateXLSXOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateJSONOutput creates JSON output
func generateJSONOutput(report *dto.SelectionReport, config Config) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.writer(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "selection_results.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput creates CSV output
func generateCSVOutput(report *dto.SelectionReport, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	decisionsFile := filepath.Join(config.OutputDir, "decisions.csv")
	if err := writeCSV(decisionsFile, decisionRows(report)); err != nil {
		return fmt.Errorf("failed to write decisions CSV: %w", err)
	}

	unresolvedFile := filepath.Join(config.OutputDir, "unresolved.csv")
	if err := writeCSV(unresolvedFile, unresolvedRows(report)); err != nil {
		return fmt.Errorf("failed to write unresolved CSV: %w", err)
	}

	var stockFile string
	if len(report.Stock) > 0 {
		stockFile = filepath.Join(config.OutputDir, "stock.csv")
		if err := writeCSV(stockFile, stockRows(report)); err != nil {
			return fmt.Errorf("failed to write stock CSV: %w", err)
		}
	}

	if config.Verbose {
		w := config.writer()
		fmt.Fprintf(w, "💾 CSV results saved to:\n")
		fmt.Fprintf(w, "  Decisions: %s\n", decisionsFile)
		fmt.Fprintf(w, "  Unresolved: %s\n", unresolvedFile)
		if stockFile != "" {
			fmt.Fprintf(w, "  Stock: %s\n", stockFile)
		}
	}

	return nil
}

func writeCSV(filename string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}

func decisionRows(report *dto.SelectionReport) [][]string {
	rows := [][]string{{
		"part_number", "quantity", "supplier", "unit_price", "list_price", "discount_percent",
		"lead_time_days", "delivery_date", "line_cost", "deadline_overrun",
		"catalog_number", "ean", "erp_code", "category",
	}}

	for _, d := range report.Result.Decisions {
		offer := d.ChosenOffer
		rows = append(rows, []string{
			string(d.PartNumber),
			strconv.FormatInt(int64(d.Quantity), 10),
			offer.Supplier,
			offer.UnitPrice.StringFixed(2),
			offer.ListPrice.StringFixed(2),
			offer.DiscountPercent.String(),
			strconv.Itoa(offer.LeadTimeDays),
			formatDate(report.CompletionDate(offer.LeadTimeDays)),
			d.LineCost.StringFixed(2),
			strconv.FormatBool(d.DeadlineOverrun),
			d.Info.CatalogNumber,
			d.Info.EAN,
			d.Info.ERPCode,
			d.Info.Category,
		})
	}
	return rows
}

func unresolvedRows(report *dto.SelectionReport) [][]string {
	rows := [][]string{{"part_number", "quantity", "reason"}}
	for _, u := range report.Result.Unresolved {
		rows = append(rows, []string{
			string(u.PartNumber),
			strconv.FormatInt(int64(u.Quantity), 10),
			u.Reason.String(),
		})
	}
	return rows
}

func stockRows(report *dto.SelectionReport) [][]string {
	rows := [][]string{{"part_number", "needed", "in_stock", "known", "shortfall"}}
	for _, s := range report.Stock {
		rows = append(rows, []string{
			string(s.PartNumber),
			strconv.FormatInt(int64(s.Needed), 10),
			strconv.FormatInt(int64(s.InStock), 10),
			strconv.FormatBool(s.Known),
			strconv.FormatInt(int64(s.Shortfall()), 10),
		})
	}
	return rows
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// formatDays renders a day offset the way the summary shows it: "2024-03-12 (+2d)"
func formatDays(report *dto.SelectionReport, days int) string {
	return fmt.Sprintf("%s (+%dd)", formatDate(report.CompletionDate(days)), days)
}
