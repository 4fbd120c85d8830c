package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomsource/pkg/domain/entities"
	"github.com/vsinha/bomsource/pkg/infrastructure/config"
)

// Loader handles loading catalog and demand data from delimited files
type Loader struct {
	config *config.Config
}

// NewLoader creates a new CSV loader for the given configuration
func NewLoader(cfg *config.Config) *Loader {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Loader{config: cfg}
}

// supplierColumns holds the column indexes of one supplier slot; -1 = absent
type supplierColumns struct {
	profile  config.SupplierProfile
	price    int
	discount int
	stock    int
	delivery int
}

type catalogHeader struct {
	part          int
	internalStock int
	lastPrice     int
	catalogNumber int
	ean           int
	erp           int
	category      int
	suppliers     []supplierColumns
}

// LoadCatalog loads part records from a wide catalog file. Fields that fail to
// parse are reported as issues and exclude the affected offer only; an error is
// returned only when the file itself is unusable.
func (l *Loader) LoadCatalog(filename string) ([]entities.PartRecord, []entities.LoadIssue, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadCatalog(file)
}

// ReadCatalog loads part records from a reader
func (l *Loader) ReadCatalog(r io.Reader) ([]entities.PartRecord, []entities.LoadIssue, error) {
	reader := csv.NewReader(r)
	reader.Comma = l.config.DelimiterRune()
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, nil, fmt.Errorf("catalog CSV must have header and at least one data row")
	}

	header, err := l.parseCatalogHeader(records[0])
	if err != nil {
		return nil, nil, fmt.Errorf("catalog CSV header: %w", err)
	}

	var parts []entities.PartRecord
	var issues []entities.LoadIssue
	for i, record := range records[1:] {
		row := i + 2
		part, rowIssues, ok := l.parsePartRecord(header, record, row)
		issues = append(issues, rowIssues...)
		if ok {
			parts = append(parts, part)
		}
	}

	return parts, issues, nil
}

func (l *Loader) parseCatalogHeader(header []string) (*catalogHeader, error) {
	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[normalizeColumn(col)] = i
	}
	find := func(name string) int {
		if name == "" {
			return -1
		}
		if index, ok := columns[normalizeColumn(name)]; ok {
			return index
		}
		return -1
	}

	cat := l.config.Catalog
	h := &catalogHeader{
		part:          find(cat.PartColumn),
		internalStock: find(cat.InternalStockColumn),
		lastPrice:     find(cat.LastPriceColumn),
		catalogNumber: find(cat.CatalogNumberColumn),
		ean:           find(cat.EANColumn),
		erp:           find(cat.ERPColumn),
		category:      find(cat.CategoryColumn),
	}

	var missing []string
	if h.part < 0 {
		missing = append(missing, cat.PartColumn)
	}
	if h.internalStock < 0 {
		missing = append(missing, cat.InternalStockColumn)
	}
	if h.lastPrice < 0 {
		missing = append(missing, cat.LastPriceColumn)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	for _, profile := range l.config.Suppliers {
		cols := supplierColumns{
			profile:  profile,
			price:    find(profile.Name + "_Price"),
			discount: find(profile.Name + "_Discount"),
			stock:    find(profile.Name + "_Stock"),
			delivery: find(profile.Name + "_Delivery"),
		}
		if cols.price < 0 {
			// supplier not carried by this catalog
			continue
		}
		if cols.stock < 0 {
			return nil, fmt.Errorf("supplier %s has a price column but no %s_Stock column", profile.Name, profile.Name)
		}
		h.suppliers = append(h.suppliers, cols)
	}

	return h, nil
}

func (l *Loader) parsePartRecord(h *catalogHeader, record []string, row int) (entities.PartRecord, []entities.LoadIssue, bool) {
	var issues []entities.LoadIssue
	partNumber := entities.PartNumber(strings.TrimSpace(field(record, h.part)))
	issue := func(fieldName, format string, args ...any) {
		issues = append(issues, entities.LoadIssue{
			PartNumber: partNumber,
			Row:        row,
			Field:      fieldName,
			Reason:     fmt.Sprintf(format, args...),
		})
	}

	if partNumber.IsBlank() {
		issue(l.config.Catalog.PartColumn, "part number is empty, row skipped")
		return entities.PartRecord{}, issues, false
	}

	part := entities.PartRecord{
		PartNumber: partNumber,
		Info: entities.PartInfo{
			CatalogNumber: strings.TrimSpace(field(record, h.catalogNumber)),
			EAN:           strings.TrimSpace(field(record, h.ean)),
			ERPCode:       strings.TrimSpace(field(record, h.erp)),
			Category:      strings.TrimSpace(field(record, h.category)),
		},
		LastPurchasePrice: decimal.Zero,
	}

	stockStr := strings.TrimSpace(field(record, h.internalStock))
	if stockStr != "" {
		stock, err := parseQuantity(stockStr)
		if err != nil {
			issue(l.config.Catalog.InternalStockColumn, "%v, treated as 0", err)
		} else {
			part.InternalStock = stock
		}
	}

	priceStr := strings.TrimSpace(field(record, h.lastPrice))
	switch {
	case priceStr == "":
		if part.InternalStock > 0 {
			issue(l.config.Catalog.LastPriceColumn, "internal stock has no last purchase price, internal stock not offered")
			part.InternalStock = 0
		}
	default:
		price, err := l.parseAmount(priceStr)
		if err != nil {
			issue(l.config.Catalog.LastPriceColumn, "%v, internal stock not offered", err)
			part.InternalStock = 0
		} else {
			part.LastPurchasePrice = price
		}
	}

	for _, cols := range h.suppliers {
		offer, err := l.parseOffer(cols, record)
		if err != nil {
			issue(cols.profile.Name, "%v, offer excluded", err)
			continue
		}
		if offer != nil {
			part.Offers = append(part.Offers, *offer)
		}
	}

	return part, issues, true
}

// parseOffer returns nil without error when the supplier does not list the part
func (l *Loader) parseOffer(cols supplierColumns, record []string) (*entities.Offer, error) {
	name := cols.profile.Name

	priceStr := strings.TrimSpace(field(record, cols.price))
	if priceStr == "" {
		return nil, nil
	}
	price, err := l.parseAmount(priceStr)
	if err != nil {
		return nil, fmt.Errorf("%s_Price: %w", name, err)
	}

	discount := decimal.Zero
	if discountStr := strings.TrimSuffix(strings.TrimSpace(field(record, cols.discount)), "%"); discountStr != "" {
		discount, err = l.parseAmount(strings.TrimSpace(discountStr))
		if err != nil {
			return nil, fmt.Errorf("%s_Discount: %w", name, err)
		}
	}

	stockStr := strings.TrimSpace(field(record, cols.stock))
	if stockStr == "" {
		return nil, fmt.Errorf("%s_Stock: missing value", name)
	}
	stock, err := parseQuantity(stockStr)
	if err != nil {
		return nil, fmt.Errorf("%s_Stock: %w", name, err)
	}

	leadTime := cols.profile.LeadTimeDays
	if deliveryStr := strings.TrimSpace(field(record, cols.delivery)); deliveryStr != "" {
		leadTime, err = strconv.Atoi(deliveryStr)
		if err != nil || leadTime < 0 {
			return nil, fmt.Errorf("%s_Delivery: invalid lead time %q", name, deliveryStr)
		}
	}

	return entities.NewOffer(name, price, discount, stock, leadTime)
}

// parseAmount parses a non-negative decimal. With a non-comma delimiter a
// decimal comma ("12,50") is accepted as well.
func (l *Loader) parseAmount(s string) (decimal.Decimal, error) {
	if l.config.DelimiterRune() != ',' && strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount cannot be negative, got %s", s)
	}
	return value, nil
}

func parseQuantity(s string) (entities.Quantity, error) {
	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	if value < 0 {
		return 0, fmt.Errorf("quantity cannot be negative, got %d", value)
	}
	return entities.Quantity(value), nil
}

// Helper functions for reading CSV records

func field(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return record[index]
}

func normalizeColumn(col string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
}
