package triage

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level pipeline configuration.
// Loaded from YAML via LoadConfig(path).
type Config struct {
	Seed       int64           `yaml:"seed"`
	Generator  GeneratorConfig `yaml:"generator"`
	Clustering ClusterConfig   `yaml:"clustering"`
	Report     ReportConfig    `yaml:"report"`
}

// ReportConfig sizes the views handed to the presentation layer.
type ReportConfig struct {
	Top int `yaml:"top"` // length of the Critical priority list
}

// DefaultConfig returns the demonstration configuration (seed 42, 750 districts).
func DefaultConfig() *Config {
	return &Config{
		Seed:       42,
		Generator:  DefaultGeneratorConfig(),
		Clustering: DefaultClusterConfig(),
		Report:     ReportConfig{Top: 10},
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig, so a file only
// needs the keys it changes. Unrecognized keys are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// WriteYAML encodes c as YAML to w.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if err := c.Generator.validate(); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if err := c.Clustering.validate(); err != nil {
		return fmt.Errorf("clustering: %w", err)
	}
	if c.Report.Top < 0 {
		return fmt.Errorf("report.top must be non-negative, got %d", c.Report.Top)
	}
	return nil
}

func (g *GeneratorConfig) validate() error {
	if g.Districts <= 0 {
		return fmt.Errorf("districts must be positive, got %d", g.Districts)
	}
	if g.Requests.Min < 0 || g.Requests.Max <= g.Requests.Min {
		return fmt.Errorf("requests range [%d, %d) must be non-empty and non-negative", g.Requests.Min, g.Requests.Max)
	}
	if g.Successful.Min < 0 || g.Successful.Max <= g.Successful.Min {
		return fmt.Errorf("successful range [%d, %d) must be non-empty and non-negative", g.Successful.Min, g.Successful.Max)
	}
	if err := validateFloatRange("rejection_rate", g.RejectionRate); err != nil {
		return err
	}
	if g.RejectionRate.Min < 0 || g.RejectionRate.Max > 1 {
		return fmt.Errorf("rejection_rate range [%f, %f) must lie within [0, 1]", g.RejectionRate.Min, g.RejectionRate.Max)
	}
	if err := validateFloatRange("upload_delay_hrs", g.UploadDelayHrs); err != nil {
		return err
	}
	if g.UploadDelayHrs.Min < 0 {
		return fmt.Errorf("upload_delay_hrs.min must be non-negative, got %f", g.UploadDelayHrs.Min)
	}
	return nil
}

func (c *ClusterConfig) validate() error {
	if c.K < 1 || c.K > len(riskCategories) {
		return fmt.Errorf("k must be in [1, %d], got %d", len(riskCategories), c.K)
	}
	if c.Inits < 1 {
		return fmt.Errorf("inits must be positive, got %d", c.Inits)
	}
	if c.MaxIter < 1 {
		return fmt.Errorf("max_iter must be positive, got %d", c.MaxIter)
	}
	if len(c.Features) == 0 {
		return fmt.Errorf("at least one feature required")
	}
	seen := make(map[Feature]bool, len(c.Features))
	for _, f := range c.Features {
		if !IsValidFeature(f) {
			return fmt.Errorf("unknown feature %q; valid: %s", f, strings.Join(ValidFeatureNames(), ", "))
		}
		if seen[f] {
			return fmt.Errorf("feature %q listed twice", f)
		}
		seen[f] = true
	}
	return nil
}

func validateFloatRange(name string, r FloatRange) error {
	for _, v := range []float64{r.Min, r.Max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s bounds must be finite numbers, got [%f, %f)", name, r.Min, r.Max)
		}
	}
	if r.Max <= r.Min {
		return fmt.Errorf("%s range [%f, %f) must be non-empty", name, r.Min, r.Max)
	}
	return nil
}
