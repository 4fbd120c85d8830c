// Package config loads supplier profiles, catalog column names and policy
// defaults from YAML.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/bomsource/pkg/domain/entities"
)

//go:embed default.yaml
var defaultYAML []byte

// Config holds the complete sourcing configuration
type Config struct {
	Catalog   CatalogConfig     `yaml:"catalog"`
	Suppliers []SupplierProfile `yaml:"suppliers"`
	Policy    PolicyDefaults    `yaml:"policy"`
}

// CatalogConfig names the columns of the wide catalog table
type CatalogConfig struct {
	Delimiter           string `yaml:"delimiter"`
	PartColumn          string `yaml:"part_column"`
	InternalStockColumn string `yaml:"internal_stock_column"`
	LastPriceColumn     string `yaml:"last_price_column"`
	CatalogNumberColumn string `yaml:"catalog_number_column,omitempty"`
	EANColumn           string `yaml:"ean_column,omitempty"`
	ERPColumn           string `yaml:"erp_column,omitempty"`
	CategoryColumn      string `yaml:"category_column,omitempty"`
}

// SupplierProfile describes one external supplier slot in the catalog
type SupplierProfile struct {
	Name         string `yaml:"name"`
	LeadTimeDays int    `yaml:"lead_time_days"` // used when the row has no delivery column
}

// PolicyDefaults supplies policy values the CLI falls back to
type PolicyDefaults struct {
	Priority             string `yaml:"priority"`
	Budget               string `yaml:"budget"`
	DeadlineDays         int    `yaml:"deadline_days"`
	AllowDeadlineOverrun bool   `yaml:"allow_deadline_overrun"`
}

// Default returns the embedded configuration
func Default() *Config {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	return cfg
}

// Load reads configuration from path, or returns the embedded default when path is empty.
// Environment variables such as ${CATALOG_DELIMITER} are expanded before parsing.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the built-in column defaults and validates the result
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Catalog.Delimiter == "" {
		c.Catalog.Delimiter = ","
	}
	if c.Catalog.PartColumn == "" {
		c.Catalog.PartColumn = "PartNo"
	}
	if c.Catalog.InternalStockColumn == "" {
		c.Catalog.InternalStockColumn = "InternalStock"
	}
	if c.Catalog.LastPriceColumn == "" {
		c.Catalog.LastPriceColumn = "LastPrice"
	}
	if c.Policy.Priority == "" {
		c.Policy.Priority = entities.DeadlineFirst.String()
	}
	if c.Policy.Budget == "" {
		c.Policy.Budget = "0"
	}
}

// Validate checks that the configuration is internally consistent
func (c *Config) Validate() error {
	var errs []string

	if len([]rune(c.Catalog.Delimiter)) != 1 {
		errs = append(errs, fmt.Sprintf("catalog delimiter must be a single character, got %q", c.Catalog.Delimiter))
	}
	if len(c.Suppliers) == 0 {
		errs = append(errs, "at least one supplier must be configured")
	}

	seen := make(map[string]bool, len(c.Suppliers))
	for i, s := range c.Suppliers {
		name := strings.TrimSpace(s.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Sprintf("supplier %d has no name", i+1))
		case strings.EqualFold(name, entities.InternalSupplier):
			errs = append(errs, fmt.Sprintf("supplier name %q is reserved for internal stock", name))
		case seen[strings.ToUpper(name)]:
			errs = append(errs, fmt.Sprintf("duplicate supplier %q", name))
		}
		seen[strings.ToUpper(name)] = true

		if s.LeadTimeDays < 0 {
			errs = append(errs, fmt.Sprintf("supplier %q lead time cannot be negative, got %d", name, s.LeadTimeDays))
		}
	}

	if _, err := entities.ParsePriorityMode(c.Policy.Priority); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := decimal.NewFromString(c.Policy.Budget); err != nil {
		errs = append(errs, fmt.Sprintf("invalid budget: %s", c.Policy.Budget))
	}
	if c.Policy.DeadlineDays < 0 {
		errs = append(errs, fmt.Sprintf("deadline days cannot be negative, got %d", c.Policy.DeadlineDays))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// DelimiterRune returns the catalog delimiter as a rune for encoding/csv
func (c *Config) DelimiterRune() rune {
	return []rune(c.Catalog.Delimiter)[0]
}

// LeadTimeFor returns the configured default lead time of a supplier
func (c *Config) LeadTimeFor(supplier string) (int, bool) {
	for _, s := range c.Suppliers {
		if strings.EqualFold(s.Name, supplier) {
			return s.LeadTimeDays, true
		}
	}
	return 0, false
}

// SupplierNames returns the configured supplier names in order
func (c *Config) SupplierNames() []string {
	names := make([]string, len(c.Suppliers))
	for i, s := range c.Suppliers {
		names[i] = s.Name
	}
	return names
}
