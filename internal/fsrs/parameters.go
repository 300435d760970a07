package fsrs

import (
	"fmt"
	"math"
)

// NumWeights is the length of the weight vector.
const NumWeights = 18

// DefaultWeights are the pretrained model weights.
var DefaultWeights = [NumWeights]float64{
	0.40255, 1.18385, 3.173, 15.69105, // w[0..3]   initial stability by rating
	7.1949, 6.4883, 5.2824, 3.2245,    // w[4..7]   initial difficulty by rating
	1.54575, 0.1192, 1.01925,          // w[8..10]  recall stability growth
	1.9395, 0.11, 0.29605, 2.2698,     // w[11..14] forget stability
	0.2315, 2.9898,                    // w[15..16] difficulty step / hard penalty, easy bonus
	0.51655,                           // w[17]     reserved
}

const (
	DefaultDesiredRetention = 0.9
	DefaultMaximumInterval  = 36500
)

// Parameters configure the model. Zero values take the defaults.
type Parameters struct {
	Weights          [NumWeights]float64 `json:"weights" mapstructure:"weights"`
	DesiredRetention float64             `json:"desired_retention" mapstructure:"desired_retention"`
	MaximumInterval  int                 `json:"maximum_interval" mapstructure:"maximum_interval"`
}

// DefaultParameters returns the default parameters.
func DefaultParameters() Parameters {
	return Parameters{
		Weights:          DefaultWeights,
		DesiredRetention: DefaultDesiredRetention,
		MaximumInterval:  DefaultMaximumInterval,
	}
}

// withDefaults fills zero fields.
func (p Parameters) withDefaults() Parameters {
	if p.Weights == [NumWeights]float64{} {
		p.Weights = DefaultWeights
	}
	if p.DesiredRetention == 0 {
		p.DesiredRetention = DefaultDesiredRetention
	}
	if p.MaximumInterval == 0 {
		p.MaximumInterval = DefaultMaximumInterval
	}
	return p
}

// ValidateParameters checks retention, maximum interval and weights.
func ValidateParameters(p Parameters) error {
	if !(p.DesiredRetention > 0 && p.DesiredRetention <= 1) {
		return fmt.Errorf("%w: desired retention %v out of range (0, 1]", ErrInvalidParameters, p.DesiredRetention)
	}
	if p.MaximumInterval < 1 {
		return fmt.Errorf("%w: maximum interval %d must be positive", ErrInvalidParameters, p.MaximumInterval)
	}
	for i, w := range p.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return fmt.Errorf("%w: w[%d] = %v", ErrInvalidParameters, i, w)
		}
	}
	for i := 0; i < 4; i++ {
		if p.Weights[i] == 0 {
			return fmt.Errorf("%w: initial stability w[%d] must be positive", ErrInvalidParameters, i)
		}
	}
	return nil
}
