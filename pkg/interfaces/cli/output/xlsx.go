package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/bomsource/pkg/application/dto"
)

const (
	selectionSheet  = "BOM"
	unresolvedSheet = "Unresolved"
	headerRow       = 5
	firstDataRow    = 6
)

var selectionHeaders = []string{
	"PartNo", "CatalogNumber", "EAN_Code", "ERP_Code", "Category", "Qty", "Stock", "LastPurchasePrice",
	"ChosenSupplier", "ChosenPrice", "ChosenDelivery", "LineCost", "DeadlineOverrun",
}

// generateXLSXOutput writes a workbook with a summary block in rows 1-3,
// column headers in row 5 and one decision per row from row 6
func generateXLSXOutput(report *dto.SelectionReport, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for XLSX format")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, XLSXFileName(report, config.ProjectName))
	if err := writeWorkbook(report, filename); err != nil {
		return fmt.Errorf("failed to write XLSX file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 XLSX results saved to: %s\n", filename)
	}
	return nil
}

// XLSXFileName returns the export file name for a report, e.g. BOM_controller_2024-03-10_09-30.xlsx
func XLSXFileName(report *dto.SelectionReport, projectName string) string {
	if projectName == "" {
		projectName = "selection"
	}
	return fmt.Sprintf("BOM_%s_%s.xlsx", projectName, report.GeneratedAt.Format("2006-01-02_15-04"))
}

func writeWorkbook(report *dto.SelectionReport, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", selectionSheet); err != nil {
		return err
	}

	result := report.Result
	cells := []struct {
		col, row int
		value    any
	}{
		{1, 1, "Deadline"}, {2, 1, formatDate(report.Policy.Deadline)},
		{4, 1, "Priority"}, {5, 1, report.Policy.Priority.String()},
		{7, 1, "Total"}, {8, 1, result.TotalCost.InexactFloat64()},
		{1, 2, "Budget"}, {2, 2, report.Policy.Budget.InexactFloat64()},
		{4, 2, "EarliestFinish"}, {5, 2, formatDays(report, result.EarliestCompletionDays)},
		{7, 2, "LatestFinish"}, {8, 2, formatDays(report, result.LatestCompletionDays)},
		{1, 3, "BudgetStatus"}, {2, 3, budgetStatus(report)},
		{4, 3, "PlannedFinish"}, {5, 3, formatDays(report, result.PlannedCompletionDays)},
		{7, 3, "MinMaxCost"}, {8, 3, fmt.Sprintf("%s - %s", result.MinPossibleCost.StringFixed(2), result.MaxPossibleCost.StringFixed(2))},
	}
	for _, c := range cells {
		if err := setCell(f, selectionSheet, c.col, c.row, c.value); err != nil {
			return err
		}
	}

	for i, header := range selectionHeaders {
		if err := setCell(f, selectionSheet, i+1, headerRow, header); err != nil {
			return err
		}
	}

	for r, d := range result.Decisions {
		row := firstDataRow + r
		values := []any{
			string(d.PartNumber),
			d.Info.CatalogNumber,
			d.Info.EAN,
			d.Info.ERPCode,
			d.Info.Category,
			int64(d.Quantity),
			int64(d.InternalStock),
			d.LastPurchasePrice.InexactFloat64(),
			d.ChosenOffer.Supplier,
			d.ChosenOffer.UnitPrice.InexactFloat64(),
			d.ChosenOffer.LeadTimeDays,
			d.LineCost.InexactFloat64(),
			d.DeadlineOverrun,
		}
		for i, value := range values {
			if err := setCell(f, selectionSheet, i+1, row, value); err != nil {
				return err
			}
		}
	}

	if len(result.Unresolved) > 0 {
		if _, err := f.NewSheet(unresolvedSheet); err != nil {
			return err
		}
		for i, header := range []string{"PartNo", "Qty", "Reason"} {
			if err := setCell(f, unresolvedSheet, i+1, 1, header); err != nil {
				return err
			}
		}
		for r, u := range result.Unresolved {
			values := []any{string(u.PartNumber), int64(u.Quantity), u.Reason.String()}
			for i, value := range values {
				if err := setCell(f, unresolvedSheet, i+1, r+2, value); err != nil {
					return err
				}
			}
		}
	}

	return f.SaveAs(filename)
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}
