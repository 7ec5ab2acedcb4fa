package scoring

import (
	"fmt"
	"math"
)

// Weights defines the relative importance of each scoring factor.
// All weights must sum to 1.0; Validate runs once at startup and a bad
// table is fatal, never a request-time error.
type Weights struct {
	Price     float64 `yaml:"price" json:"price"`
	Bedrooms  float64 `yaml:"bedrooms" json:"bedrooms"`
	School    float64 `yaml:"school" json:"school"`
	Commute   float64 `yaml:"commute" json:"commute"`
	Age       float64 `yaml:"age" json:"age"`
	Amenities float64 `yaml:"amenities" json:"amenities"`
}

// DefaultWeights returns the canonical weight distribution.
func DefaultWeights() Weights {
	return Weights{
		Price:     0.30,
		Bedrooms:  0.20,
		School:    0.15,
		Commute:   0.15,
		Age:       0.10,
		Amenities: 0.10,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Price + w.Bedrooms + w.School + w.Commute + w.Age + w.Amenities
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w Weights) Validate() error {
	if math.Abs(w.Sum()-1.0) > 1e-9 {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for _, v := range []float64{w.Price, w.Bedrooms, w.School, w.Commute, w.Age, w.Amenities} {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	return nil
}
