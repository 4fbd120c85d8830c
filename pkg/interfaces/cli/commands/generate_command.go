package commands

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vsinha/bomsource/pkg/infrastructure/config"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Parts      int     // Number of catalog parts to generate
	References int     // Number of BOM references in demand.csv
	Inventory  float64 // Internal stock multiplier (e.g., 0.5 = half coverage, 2.0 = 2x coverage)
	Missing    float64 // Share of references pointing at parts absent from the catalog
	ConfigFile string  // Supplier configuration; empty = built-in suppliers
	OutputDir  string  // Output directory for generated files
	Seed       int64   // Random seed for reproducible generation
	Help       bool    // Show help
	Verbose    bool    // Verbose output

	Stdout io.Writer
}

// GenerateCommand handles scenario generation
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
	stdout io.Writer
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	stdout := config.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
		stdout: stdout,
	}
}

// generatedPart is one synthetic catalog entry
type generatedPart struct {
	PartNumber string
	Category   string
	BasePrice  float64
	References int
}

var partFamilies = []struct {
	prefix   string
	category string
	minPrice float64
	maxPrice float64
}{
	{"R", "Resistors", 0.01, 0.20},
	{"C", "Capacitors", 0.02, 1.50},
	{"D", "Diodes", 0.05, 0.80},
	{"K", "Relays", 0.90, 12.00},
	{"X", "Connectors", 0.30, 8.00},
	{"U", "ICs", 0.40, 25.00},
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}

	if err := cmd.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	cfg, err := config.Load(cmd.config.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.stdout,
			"🔧 Generating scenario with %d parts, %d references, %.1fx internal stock\n",
			cmd.config.Parts,
			cmd.config.References,
			cmd.config.Inventory,
		)
		fmt.Fprintf(cmd.stdout, "📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Fprintf(cmd.stdout, "🏪 Suppliers: %s\n", strings.Join(cfg.SupplierNames(), ", "))
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	parts := cmd.generateParts()

	// Demand first: internal stock is sized from the reference counts
	if cmd.config.Verbose {
		fmt.Fprintln(cmd.stdout, "📋 Generating demand.csv...")
	}
	if err := cmd.generateDemand(parts); err != nil {
		return fmt.Errorf("failed to generate demand: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintln(cmd.stdout, "📦 Generating catalog.csv...")
	}
	if err := cmd.generateCatalog(parts, cfg); err != nil {
		return fmt.Errorf("failed to generate catalog: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintln(cmd.stdout, "✅ Scenario generated")
	}
	return nil
}

func (cmd *GenerateCommand) validate() error {
	if cmd.config.Parts <= 0 {
		return fmt.Errorf("parts must be positive, got %d", cmd.config.Parts)
	}
	if cmd.config.References <= 0 {
		return fmt.Errorf("references must be positive, got %d", cmd.config.References)
	}
	if cmd.config.Inventory < 0 {
		return fmt.Errorf("inventory multiplier cannot be negative, got %.2f", cmd.config.Inventory)
	}
	if cmd.config.Missing < 0 || cmd.config.Missing >= 1 {
		return fmt.Errorf("missing share must be in [0, 1), got %.2f", cmd.config.Missing)
	}
	if cmd.config.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}

// generateParts creates the catalog part list in a stable order
func (cmd *GenerateCommand) generateParts() []*generatedPart {
	parts := make([]*generatedPart, cmd.config.Parts)
	for i := range parts {
		family := partFamilies[cmd.rand.Intn(len(partFamilies))]
		price := family.minPrice + cmd.rand.Float64()*(family.maxPrice-family.minPrice)
		parts[i] = &generatedPart{
			PartNumber: fmt.Sprintf("%s%05d", family.prefix, i+1),
			Category:   family.category,
			BasePrice:  price,
		}
	}
	return parts
}

// generateDemand creates the demand.csv file with one row per BOM reference
func (cmd *GenerateCommand) generateDemand(parts []*generatedPart) error {
	filePath := filepath.Join(cmd.config.OutputDir, "demand.csv")
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintln(file, "part_number")

	for i := 0; i < cmd.config.References; i++ {
		if cmd.rand.Float64() < cmd.config.Missing {
			fmt.Fprintf(file, "NC%05d\n", cmd.rand.Intn(cmd.config.Parts)+1)
			continue
		}

		part := parts[cmd.rand.Intn(len(parts))]
		part.References++
		// mix case: part numbers are matched case-insensitively
		if cmd.rand.Intn(10) == 0 {
			fmt.Fprintln(file, strings.ToLower(part.PartNumber))
		} else {
			fmt.Fprintln(file, part.PartNumber)
		}
	}

	return file.Close()
}

// generateCatalog creates the catalog.csv file in the configured column layout
func (cmd *GenerateCommand) generateCatalog(parts []*generatedPart, cfg *config.Config) error {
	filePath := filepath.Join(cmd.config.OutputDir, "catalog.csv")
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	cat := cfg.Catalog
	sep := cat.Delimiter

	header := []string{cat.PartColumn, cat.InternalStockColumn, cat.LastPriceColumn}
	if cat.CategoryColumn != "" {
		header = append(header, cat.CategoryColumn)
	}
	for _, s := range cfg.Suppliers {
		header = append(header, s.Name+"_Price", s.Name+"_Discount", s.Name+"_Stock", s.Name+"_Delivery")
	}
	fmt.Fprintln(file, strings.Join(header, sep))

	for _, part := range parts {
		stock := int(float64(part.References) * cmd.config.Inventory)
		row := []string{
			part.PartNumber,
			fmt.Sprint(stock),
			formatPrice(part.BasePrice * (0.9 + cmd.rand.Float64()*0.2)),
		}
		if cat.CategoryColumn != "" {
			row = append(row, part.Category)
		}

		for _, s := range cfg.Suppliers {
			// roughly one in four suppliers does not list a given part
			if cmd.rand.Intn(4) == 0 {
				row = append(row, "", "", "", "")
				continue
			}
			row = append(row,
				formatPrice(part.BasePrice*(0.8+cmd.rand.Float64()*0.5)),
				fmt.Sprint([]int{0, 0, 5, 10, 15}[cmd.rand.Intn(5)]),
				fmt.Sprint(cmd.generateSupplierStock(part)),
				cmd.generateDelivery(s),
			)
		}
		fmt.Fprintln(file, strings.Join(row, sep))
	}

	return file.Close()
}

// generateSupplierStock sometimes leaves a supplier short of the demanded quantity
func (cmd *GenerateCommand) generateSupplierStock(part *generatedPart) int {
	if cmd.rand.Intn(5) == 0 {
		return cmd.rand.Intn(max(part.References, 1))
	}
	return part.References + cmd.rand.Intn(2000)
}

// generateDelivery leaves most rows on the supplier default and delays a few
func (cmd *GenerateCommand) generateDelivery(s config.SupplierProfile) string {
	if cmd.rand.Intn(3) != 0 {
		return ""
	}
	return fmt.Sprint(s.LeadTimeDays + cmd.rand.Intn(15))
}

func formatPrice(price float64) string {
	return fmt.Sprintf("%.2f", max(price, 0.01))
}

// printHelp shows usage information
func (cmd *GenerateCommand) printHelp() {
	fmt.Fprintln(cmd.stdout, `BOM Sourcing Scenario Generator

USAGE:
    bomsource generate [OPTIONS]

OPTIONS:
    -parts <N>          Number of catalog parts to generate (required)
    -references <N>     Number of BOM references in demand.csv (required)
    -inventory <F>      Internal stock multiplier (e.g., 0.5 = half coverage) (default: 0.5)
    -missing <F>        Share of references absent from the catalog (default: 0.02)
    -config <file>      YAML configuration naming the suppliers (optional)
    -output <DIR>       Output directory for generated files (required)
    -seed <N>           Random seed for reproducible generation (optional)
    -verbose            Enable verbose output
    -help               Show this help message

EXAMPLES:
    # Generate small test scenario
    bomsource generate -parts 50 -references 200 -output ./test_scenario

    # Generate large performance test scenario
    bomsource generate -parts 20000 -references 100000 -inventory 1.2 -output ./large_scenario -verbose

    # Generate reproducible scenario
    bomsource generate -parts 500 -references 2000 -output ./repro_scenario -seed 12345`)
}
