package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	WebPort       int    `yaml:"web_port" json:"web_port"`
	OutputDir     string `yaml:"output_dir" json:"output_dir"`
	HistoryFile   string `yaml:"history_file" json:"history_file"`
	AdminPassword string `yaml:"admin_password" json:"-"`

	Resolver ResolverConfig `yaml:"resolver" json:"resolver"`
	Defaults RunDefaults    `yaml:"defaults" json:"defaults"`
	Legend   LegendConfig   `yaml:"legend" json:"legend"`
	TopN     int            `yaml:"top_n" json:"top_n"`
}

// ResolverConfig contains country resolution settings
type ResolverConfig struct {
	OverridesFile  string  `yaml:"overrides_file" json:"overrides_file"`
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" json:"fuzzy_threshold"`
}

// RunDefaults supplies column names and the aggregation method when a
// request does not specify them
type RunDefaults struct {
	CountryColumn string `yaml:"country_column" json:"country_column"`
	ValueColumn   string `yaml:"value_column" json:"value_column"`
	YearColumn    string `yaml:"year_column" json:"year_column"`
	Method        string `yaml:"method" json:"method"`
}

// LegendConfig controls choropleth legend classing
type LegendConfig struct {
	Classes int    `yaml:"classes" json:"classes"`
	Method  string `yaml:"method" json:"method"`
}

// LoadConfig loads configuration from a YAML file. An empty path returns
// the built-in defaults.
func LoadConfig(filename string) (*Config, error) {
	var config Config
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	return &config, nil
}

// Validate validates the configuration and applies defaults
func (c *Config) Validate() error {
	if c.WebPort == 0 {
		c.WebPort = 8090
	}
	if c.OutputDir == "" {
		c.OutputDir = "./output"
	}
	if c.HistoryFile == "" {
		c.HistoryFile = "spatialmap_history.db"
	}

	if c.Resolver.FuzzyThreshold == 0 {
		c.Resolver.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if c.Resolver.FuzzyThreshold < 0 || c.Resolver.FuzzyThreshold > 1 {
		return fmt.Errorf("resolver fuzzy_threshold must be within (0, 1], got %v", c.Resolver.FuzzyThreshold)
	}

	if c.Defaults.CountryColumn == "" {
		c.Defaults.CountryColumn = "Country"
	}
	if c.Defaults.ValueColumn == "" {
		c.Defaults.ValueColumn = "Value"
	}
	if c.Defaults.Method == "" {
		c.Defaults.Method = string(MethodSum)
	}
	if _, err := ParseMethod(c.Defaults.Method); err != nil {
		return err
	}

	if c.Legend.Classes == 0 {
		c.Legend.Classes = 5
	}
	if c.Legend.Classes < 1 {
		return fmt.Errorf("legend classes must be >= 1, got %d", c.Legend.Classes)
	}
	if c.Legend.Method == "" {
		c.Legend.Method = string(BinQuantile)
	}
	if _, err := ParseBinMethod(c.Legend.Method); err != nil {
		return err
	}

	if c.TopN == 0 {
		c.TopN = 10
	}
	if c.TopN < 1 {
		return fmt.Errorf("top_n must be >= 1, got %d", c.TopN)
	}

	return nil
}

// RunOptions builds aggregation options from the config defaults, with
// per-request values taking precedence
func (c *Config) RunOptions(countryCol, valueCol, yearCol, method string) Options {
	opts := Options{
		CountryColumn: c.Defaults.CountryColumn,
		ValueColumn:   c.Defaults.ValueColumn,
		YearColumn:    c.Defaults.YearColumn,
		Method:        AggregateMethod(c.Defaults.Method),
	}
	if countryCol != "" {
		opts.CountryColumn = countryCol
	}
	if valueCol != "" {
		opts.ValueColumn = valueCol
	}
	if yearCol != "" {
		opts.YearColumn = yearCol
	}
	if method != "" {
		opts.Method = AggregateMethod(method)
	}
	return opts
}
