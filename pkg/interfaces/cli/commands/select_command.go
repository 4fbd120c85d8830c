package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/bomsource/pkg/application/dto"
	"github.com/vsinha/bomsource/pkg/application/services/availability"
	"github.com/vsinha/bomsource/pkg/application/services/selection"
	"github.com/vsinha/bomsource/pkg/clock"
	"github.com/vsinha/bomsource/pkg/domain/entities"
	"github.com/vsinha/bomsource/pkg/infrastructure/config"
	"github.com/vsinha/bomsource/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/bomsource/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/bomsource/pkg/interfaces/cli/output"
)

// Config holds configuration for the select command
type Config struct {
	ScenarioDir  string
	CatalogFile  string
	DemandFile   string
	ConfigFile   string
	Deadline     string // YYYY-MM-DD; overrides DeadlineDays
	DeadlineDays int    // negative = use the configured default
	Budget       string // empty = use the configured default
	Priority     string // empty = use the configured default
	AllowOverrun bool
	CheckStock   bool
	OutputDir    string
	Format       string
	ProjectName  string
	Workers      int
	Verbose      bool
	Help         bool

	// Stdout and Stderr default to the process streams
	Stdout io.Writer
	Stderr io.Writer
	// Clock defaults to the system clock
	Clock clock.Clock
}

// SelectCommand runs offer selection over a catalog and a demand file
type SelectCommand struct {
	config Config
	stdout io.Writer
	logger *log.Logger
	clock  clock.Clock
}

// NewSelectCommand creates a new select command with the given configuration
func NewSelectCommand(config Config) *SelectCommand {
	stdout := config.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := config.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	c := config.Clock
	if c == nil {
		c = clock.NewReal()
	}

	return &SelectCommand{
		config: config,
		stdout: stdout,
		logger: log.New(stderr, "", 0),
		clock:  c,
	}
}

// Execute runs the select command
func (c *SelectCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	cfg, err := config.Load(c.config.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(files)
		c.logger.Println("📂 Loading catalog and demand...")
	}

	loader := csv.NewLoader(cfg)

	records, parseIssues, err := loader.LoadCatalog(files["Catalog"])
	if err != nil {
		return fmt.Errorf("error loading catalog: %w", err)
	}
	catalog := memory.NewCatalogRepositoryWithIssues(records, parseIssues)

	demand, err := loader.LoadDemand(files["Demand"])
	if err != nil {
		return fmt.Errorf("error loading demand: %w", err)
	}

	issues := catalog.Issues()
	if len(issues) > 0 {
		c.logger.Printf("⚠️  %d catalog issues; affected offers were excluded", len(issues))
		if c.config.Verbose {
			for _, issue := range issues {
				c.logger.Printf("  %s", issue)
			}
		}
	}

	if c.config.Verbose {
		c.logger.Printf("✅ Data loaded successfully:")
		c.logger.Printf("  Catalog Parts: %d", catalog.Len())
		c.logger.Printf("  Demand Lines: %d (%d units)", len(demand.Entries()), demand.TotalQuantity())
	}

	engine := selection.NewEngine(c.clock)
	if c.config.Workers > 0 {
		engine = selection.NewEngineWithConfig(c.clock, selection.EngineConfig{Workers: c.config.Workers})
	}
	today := engine.Today()

	policy, err := c.buildPolicy(cfg, today)
	if err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}

	if c.config.Verbose {
		c.logger.Printf("🔄 Selecting offers (%s, deadline %s)...", policy.Priority, policy.Deadline.Format("2006-01-02"))
	}

	startTime := time.Now()
	result, err := engine.Select(ctx, catalog, demand, *policy)
	selectionTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("error running selection: %w", err)
	}

	if c.config.Verbose {
		c.logger.Printf("✅ Selection completed in %v: %s", selectionTime, result.Summary())
	}

	report, err := dto.NewSelectionReport(c.clock.Now(), today, *policy, result)
	if err != nil {
		return fmt.Errorf("error building report: %w", err)
	}
	report.LoadIssues = issues

	if c.config.CheckStock {
		report.Stock = availability.Check(catalog, demand)
		if shortages := availability.Shortages(report.Stock); len(shortages) > 0 {
			c.logger.Printf("⚠️  internal stock short for %d of %d parts", len(shortages), len(report.Stock))
		}
	}

	if result.HasDeadlineOverruns() {
		c.logger.Printf("⚠️  some parts are sourced past the deadline")
	}

	outputConfig := output.Config{
		Format:        c.config.Format,
		OutputDir:     c.config.OutputDir,
		Verbose:       c.config.Verbose,
		SelectionTime: selectionTime,
		InputFiles:    files,
		ProjectName:   c.config.ProjectName,
		Writer:        c.stdout,
	}

	if err := output.Generate(report, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		c.logger.Println("🏁 Sourcing analysis complete!")
	}

	return nil
}

// buildPolicy combines command-line values with the configured defaults
func (c *SelectCommand) buildPolicy(cfg *config.Config, today time.Time) (*entities.Policy, error) {
	var deadline time.Time
	if c.config.Deadline != "" {
		parsed, err := time.Parse("2006-01-02", c.config.Deadline)
		if err != nil {
			return nil, fmt.Errorf("invalid deadline: %s (expected YYYY-MM-DD)", c.config.Deadline)
		}
		deadline = parsed
	} else {
		days := cfg.Policy.DeadlineDays
		if c.config.DeadlineDays >= 0 {
			days = c.config.DeadlineDays
		}
		deadline = today.AddDate(0, 0, days)
	}

	budgetStr := cfg.Policy.Budget
	if c.config.Budget != "" {
		budgetStr = c.config.Budget
	}
	budget, err := decimal.NewFromString(budgetStr)
	if err != nil {
		return nil, fmt.Errorf("invalid budget: %s", budgetStr)
	}

	priorityStr := cfg.Policy.Priority
	if c.config.Priority != "" {
		priorityStr = c.config.Priority
	}
	priority, err := entities.ParsePriorityMode(priorityStr)
	if err != nil {
		return nil, err
	}

	allowOverrun := cfg.Policy.AllowDeadlineOverrun || c.config.AllowOverrun

	return entities.NewPolicy(deadline, budget, priority, allowOverrun)
}

// validateInputs validates the command configuration
func (c *SelectCommand) validateInputs() error {
	if c.config.ScenarioDir == "" && (c.config.CatalogFile == "" || c.config.DemandFile == "") {
		return fmt.Errorf("must specify either -scenario directory or both -catalog and -demand files")
	}
	return nil
}

// resolveInputFiles determines the actual file paths to use
func (c *SelectCommand) resolveInputFiles() (map[string]string, error) {
	catalogPath := c.config.CatalogFile
	demandPath := c.config.DemandFile

	if c.config.ScenarioDir != "" {
		if catalogPath == "" {
			catalogPath = filepath.Join(c.config.ScenarioDir, "catalog.csv")
		}
		if demandPath == "" {
			demandPath = filepath.Join(c.config.ScenarioDir, "demand.csv")
		}
	}

	files := map[string]string{
		"Catalog": catalogPath,
		"Demand":  demandPath,
	}

	for _, name := range []string{"Catalog", "Demand"} {
		if _, err := os.Stat(files[name]); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, files[name])
		}
	}

	return files, nil
}

// printHeader prints the command header information
func (c *SelectCommand) printHeader(files map[string]string) {
	c.logger.Printf("🚀 BOM Sourcing CLI")
	c.logger.Printf("Input files:")
	c.logger.Printf("  Catalog: %s", files["Catalog"])
	c.logger.Printf("  Demand: %s", files["Demand"])
	if c.config.ConfigFile != "" {
		c.logger.Printf("  Config: %s", c.config.ConfigFile)
	}
	c.logger.Printf("Output format: %s", c.config.Format)
	if c.config.OutputDir != "" {
		c.logger.Printf("Output directory: %s", c.config.OutputDir)
	}
}

// showHelp displays the help message
func (c *SelectCommand) showHelp() {
	fmt.Fprintf(c.stdout, `BOM Sourcing CLI - choose a supplier offer per BOM part under a deadline and budget

USAGE:
    bomsource -scenario <directory>                # Use scenario directory with CSV files
    bomsource -catalog <file> -demand <file> ...   # Use individual CSV files
    bomsource generate -parts <n> -output <dir>    # Generate a synthetic scenario

OPTIONS:
    -scenario <dir>       Directory containing catalog.csv and demand.csv
    -catalog <file>       Path to the wide catalog CSV file
    -demand <file>        Path to the demand CSV file
    -config <file>        YAML configuration (suppliers, columns, policy defaults)
    -deadline <date>      Deadline as YYYY-MM-DD
    -deadline-days <n>    Deadline as days from today (default: from config)
    -budget <amount>      Global budget, 0 = unconstrained (default: from config)
    -priority <mode>      DeadlineFirst or BudgetFirst (default: from config)
    -allow-overrun        Fall back to the cheapest offer past the deadline
    -check-stock          Report demanded quantities against internal stock
    -workers <n>          Parts evaluated concurrently (default: number of CPUs)
    -output <dir>         Output directory for results (required for csv, xlsx)
    -format <fmt>         Output format: text, json, csv, xlsx (default: text)
    -project <name>       Project name used in the xlsx file name
    -verbose              Enable verbose output
    -help                 Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── catalog.csv     # Internal stock and supplier offers per part
    └── demand.csv      # Parts required by the BOM

CSV FILE FORMATS:

catalog.csv:
    PartNo,CatalogNumber,EAN_Code,ERP_Code,Category,InternalStock,LastPrice,TME_Price,TME_Discount,TME_Stock,TME_Delivery
    R1,CRCW060310K0,,ERP-0001,Resistors,0,0.09,0.10,0,5000,

    Each configured supplier contributes <Name>_Price, <Name>_Discount, <Name>_Stock
    and optional <Name>_Delivery columns. An empty delivery uses the supplier's
    default lead time from the configuration.

demand.csv (one row per BOM reference):
    part_number
    R1
    R1

demand.csv (explicit quantities):
    part_number,quantity
    R1,2

EXAMPLES:
    # Deadline-first selection, two weeks out
    bomsource -scenario examples/controller -deadline-days 14 -verbose

    # Cheapest plan within a budget, exported to Excel
    bomsource -scenario examples/controller -priority BudgetFirst -budget 250 -format xlsx -output results/

    # JSON output with internal stock check
    bomsource -catalog data/catalog.csv -demand data/bom.csv -format json -check-stock
`)
}
