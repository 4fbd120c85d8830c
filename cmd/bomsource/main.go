package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/vsinha/bomsource/pkg/interfaces/cli/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	if len(os.Args) > 1 && os.Args[1] == "generate" {
		err = runGenerate(ctx, os.Args[2:])
	} else {
		err = runSelect(ctx)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSelect(ctx context.Context) error {
	// Command line flags
	var (
		scenarioDir = flag.String(
			"scenario",
			"",
			"Path to scenario directory containing catalog.csv and demand.csv",
		)
		catalogFile  = flag.String("catalog", "", "Path to catalog CSV file")
		demandFile   = flag.String("demand", "", "Path to demand CSV file")
		configFile   = flag.String("config", "", "Path to YAML configuration (optional)")
		deadline     = flag.String("deadline", "", "Deadline date YYYY-MM-DD")
		deadlineDays = flag.Int("deadline-days", -1, "Deadline as days from today (default: from config)")
		budget       = flag.String("budget", "", "Global budget, 0 = unconstrained (default: from config)")
		priority     = flag.String("priority", "", "Priority mode: DeadlineFirst, BudgetFirst (default: from config)")
		allowOverrun = flag.Bool("allow-overrun", false, "Fall back to the cheapest offer past the deadline")
		checkStock   = flag.Bool("check-stock", false, "Report demanded quantities against internal stock")
		workers      = flag.Int("workers", 0, "Parts evaluated concurrently (default: number of CPUs)")
		outputDir    = flag.String("output", "", "Output directory for results (optional)")
		format       = flag.String("format", "text", "Output format: text, json, csv, xlsx")
		projectName  = flag.String("project", "", "Project name used in the xlsx file name")
		verbose      = flag.Bool("verbose", false, "Enable verbose output")
		help         = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	// Create command configuration
	config := commands.Config{
		ScenarioDir:  *scenarioDir,
		CatalogFile:  *catalogFile,
		DemandFile:   *demandFile,
		ConfigFile:   *configFile,
		Deadline:     *deadline,
		DeadlineDays: *deadlineDays,
		Budget:       *budget,
		Priority:     *priority,
		AllowOverrun: *allowOverrun,
		CheckStock:   *checkStock,
		Workers:      *workers,
		OutputDir:    *outputDir,
		Format:       *format,
		ProjectName:  *projectName,
		Verbose:      *verbose,
		Help:         *help,
	}

	return commands.NewSelectCommand(config).Execute(ctx)
}

func runGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var (
		parts      = fs.Int("parts", 0, "Number of catalog parts to generate")
		references = fs.Int("references", 0, "Number of BOM references in demand.csv")
		inventory  = fs.Float64("inventory", 0.5, "Internal stock multiplier")
		missing    = fs.Float64("missing", 0.02, "Share of references absent from the catalog")
		configFile = fs.String("config", "", "Path to YAML configuration (optional)")
		outputDir  = fs.String("output", "", "Output directory for generated files")
		seed       = fs.Int64("seed", 0, "Random seed for reproducible generation")
		verbose    = fs.Bool("verbose", false, "Enable verbose output")
		help       = fs.Bool("help", false, "Show help message")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	config := commands.GenerateConfig{
		Parts:      *parts,
		References: *references,
		Inventory:  *inventory,
		Missing:    *missing,
		ConfigFile: *configFile,
		OutputDir:  *outputDir,
		Seed:       *seed,
		Verbose:    *verbose,
		Help:       *help,
	}

	return commands.NewGenerateCommand(config).Execute(ctx)
}
