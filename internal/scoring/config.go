package scoring

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tier holds the score cutoffs that pick a narrative band for one factor.
type Tier struct {
	Excellent float64 `yaml:"excellent"`
	Good      float64 `yaml:"good"`
}

// ReasoningConfig holds per-factor narrative thresholds. They mirror each
// scorer's own band boundaries by default but can be tuned independently.
type ReasoningConfig struct {
	Price     Tier `yaml:"price"`
	Bedrooms  Tier `yaml:"bedrooms"`
	School    Tier `yaml:"school"`
	Commute   Tier `yaml:"commute"`
	Age       Tier `yaml:"age"`
	Amenities Tier `yaml:"amenities"`
}

// Config holds all scoring engine settings.
type Config struct {
	Weights Weights `yaml:"weights"`

	// ReferenceYear anchors property-age computation. Zero means "use the
	// current calendar year", resolved once when the config is applied.
	ReferenceYear int `yaml:"reference_year"`

	// MaxConcurrency bounds the batch scoring worker pool.
	MaxConcurrency int `yaml:"max_concurrency"`

	Reasoning ReasoningConfig `yaml:"reasoning"`
}

// DefaultReasoning returns narrative thresholds mirroring the scorer bands.
func DefaultReasoning() ReasoningConfig {
	return ReasoningConfig{
		Price:     Tier{Excellent: 90, Good: 70},
		Bedrooms:  Tier{Excellent: 100, Good: 70},
		School:    Tier{Excellent: 80, Good: 60},
		Commute:   Tier{Excellent: 80, Good: 50},
		Age:       Tier{Excellent: 80, Good: 60},
		Amenities: Tier{Excellent: 80, Good: 50},
	}
}

// DefaultConfig returns the canonical configuration.
func DefaultConfig() *Config {
	cfg := &Config{
		Weights:        DefaultWeights(),
		MaxConcurrency: 8,
		Reasoning:      DefaultReasoning(),
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields with sane values.
func (c *Config) ApplyDefaults() {
	if c.ReferenceYear == 0 {
		c.ReferenceYear = time.Now().UTC().Year()
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 8
	}
	if c.Weights == (Weights{}) {
		c.Weights = DefaultWeights()
	}
	if c.Reasoning == (ReasoningConfig{}) {
		c.Reasoning = DefaultReasoning()
	}
}

// Load reads and parses the scoring config file at path, applies defaults
// and validates the weight table.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scoring config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse scoring config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("scoring config: %w", err)
	}
	return cfg, nil
}
