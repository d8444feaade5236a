package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default qualification thresholds: at least 3 sales spanning at least
// 7300 days (~20 years).
const (
	DefaultMinSaleCount = 3
	DefaultMinSpanDays  = 7300
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Filters are the default qualification thresholds, overridable per estate.
	Filters FilterConfig   `yaml:"filters"`
	Regions []RegionConfig `yaml:"regions"`
	Estates []EstateConfig `yaml:"estates"`
}

// FilterConfig holds the two qualification thresholds. Both reject series
// below the threshold.
type FilterConfig struct {
	MinSaleCount int   `yaml:"min_sale_count"`
	MinSpanDays  int64 `yaml:"min_span_days"`
}

// RegionConfig names one reference region and its UKHPI CSV.
type RegionConfig struct {
	Name          string `yaml:"name"`
	ReferenceFile string `yaml:"reference_file"`
}

// EstateConfig describes one batch: a sales CSV in, two tables out.
type EstateConfig struct {
	Name      string `yaml:"name"`
	SalesFile string `yaml:"sales_file"`

	// Postcode is only used by update-estates to refresh SalesFile from the
	// Land Registry open data service.
	Postcode string `yaml:"postcode"`

	// Output paths. Defaulted to output/<name>-prices.csv and
	// output/<name>-diffs.csv when empty.
	PriceTable string `yaml:"price_table"`
	DiffTable  string `yaml:"diff_table"`

	// TopN limits the selection to the N highest-scoring series.
	// nil keeps every qualifying series.
	TopN *int `yaml:"top_n"`

	// Filters overrides the top-level thresholds for this estate.
	Filters *FilterConfig `yaml:"filters"`
}

// Load reads, defaults and validates a config file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads config without defaulting or validation.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Filters.MinSaleCount == 0 {
		c.Filters.MinSaleCount = DefaultMinSaleCount
	}
	if c.Filters.MinSpanDays == 0 {
		c.Filters.MinSpanDays = DefaultMinSpanDays
	}
	for i := range c.Estates {
		e := &c.Estates[i]
		if e.PriceTable == "" && e.Name != "" {
			e.PriceTable = filepath.Join("output", e.Name+"-prices.csv")
		}
		if e.DiffTable == "" && e.Name != "" {
			e.DiffTable = filepath.Join("output", e.Name+"-diffs.csv")
		}
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.Regions) == 0 {
		return errors.New("at least one region is required")
	}
	for i, r := range c.Regions {
		if r.Name == "" {
			return fmt.Errorf("regions[%d]: name is required", i)
		}
		if r.ReferenceFile == "" {
			return fmt.Errorf("region %q: reference_file is required", r.Name)
		}
	}
	if len(c.Estates) == 0 {
		return errors.New("at least one estate is required")
	}
	for i, e := range c.Estates {
		if e.Name == "" {
			return fmt.Errorf("estates[%d]: name is required", i)
		}
		if e.SalesFile == "" {
			return fmt.Errorf("estate %q: sales_file is required", e.Name)
		}
	}
	return nil
}

// EffectiveFilters merges an estate's override onto the defaults. Zero-valued
// override fields keep the default threshold.
func (c *Config) EffectiveFilters(e EstateConfig) FilterConfig {
	out := c.Filters
	if e.Filters == nil {
		return out
	}
	if e.Filters.MinSaleCount != 0 {
		out.MinSaleCount = e.Filters.MinSaleCount
	}
	if e.Filters.MinSpanDays != 0 {
		out.MinSpanDays = e.Filters.MinSpanDays
	}
	return out
}

// Estate returns the estate config with the given name.
func (c *Config) Estate(name string) (EstateConfig, bool) {
	for _, e := range c.Estates {
		if e.Name == name {
			return e, true
		}
	}
	return EstateConfig{}, false
}
