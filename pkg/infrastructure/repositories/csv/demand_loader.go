package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vsinha/bomsource/pkg/domain/entities"
	"github.com/vsinha/bomsource/pkg/infrastructure/repositories/memory"
)

// LoadDemand loads demand from a file. A file with a single part_number column
// lists structural references, one per row, which are counted per part. A file
// with part_number,quantity columns lists explicit quantities.
func (l *Loader) LoadDemand(filename string) (*memory.DemandRepository, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open demand file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadDemand(file)
}

// ReadDemand loads demand from a reader
func (l *Loader) ReadDemand(r io.Reader) (*memory.DemandRepository, error) {
	reader := csv.NewReader(r)
	reader.Comma = l.config.DelimiterRune()
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read demand CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("demand CSV must have header and at least one data row")
	}

	header := records[0]
	switch {
	case validateHeader(header, []string{"part_number"}):
		return parseReferences(records[1:]), nil
	case validateHeader(header, []string{"part_number", "quantity"}):
		lines, err := parseDemandLines(records[1:])
		if err != nil {
			return nil, err
		}
		return memory.NewDemandRepository(lines), nil
	default:
		return nil, fmt.Errorf("demand CSV header mismatch. Expected: [part_number] or [part_number quantity], Got: %v", header)
	}
}

func parseReferences(records [][]string) *memory.DemandRepository {
	refs := make([]entities.PartNumber, 0, len(records))
	for _, record := range records {
		refs = append(refs, entities.PartNumber(strings.TrimSpace(field(record, 0))))
	}
	return memory.NewDemandFromReferences(refs)
}

// parseDemandLines keeps non-positive quantities and duplicates; the engine rejects them
func parseDemandLines(records [][]string) ([]entities.DemandLine, error) {
	var lines []entities.DemandLine
	for i, record := range records {
		if len(record) != 2 {
			return nil, fmt.Errorf("demand CSV row %d: expected 2 columns, got %d", i+2, len(record))
		}

		partNumber := entities.PartNumber(strings.TrimSpace(record[0]))
		if partNumber.IsBlank() {
			continue
		}

		quantity, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("demand CSV row %d: invalid quantity: %s", i+2, record[1])
		}

		lines = append(lines, entities.DemandLine{
			PartNumber: partNumber,
			Quantity:   entities.Quantity(quantity),
		})
	}
	return lines, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if normalizeColumn(actual[i]) != col {
			return false
		}
	}

	return true
}
