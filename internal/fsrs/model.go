// Package fsrs implements the forgetting-curve model and the review state
// machine built on it.
package fsrs

import (
	"math"

	"github.com/rcliao/recall/internal/model"
)

// ln(0.9): stability is the time for retrievability to fall to 90%.
var ln09 = math.Log(0.9)

// Model holds validated parameters. All methods are pure.
type Model struct {
	w         [NumWeights]float64
	retention float64
	maxIvl    int
	// ivlFactor converts stability to an interval at the desired retention.
	ivlFactor float64
}

// NewModel validates p (after filling defaults) and returns a Model.
func NewModel(p Parameters) (*Model, error) {
	p = p.withDefaults()
	if err := ValidateParameters(p); err != nil {
		return nil, err
	}
	return &Model{
		w:         p.Weights,
		retention: p.DesiredRetention,
		maxIvl:    p.MaximumInterval,
		ivlFactor: math.Log(p.DesiredRetention) / ln09,
	}, nil
}

// Parameters returns the effective parameters.
func (m *Model) Parameters() Parameters {
	return Parameters{Weights: m.w, DesiredRetention: m.retention, MaximumInterval: m.maxIvl}
}

// InitialStability returns w[r-1], floored at the minimum stability.
func (m *Model) InitialStability(r model.Rating) float64 {
	return m.clampS(m.w[r-1])
}

// InitialDifficulty returns w[4+r-1] clamped to [1, 10].
func (m *Model) InitialDifficulty(r model.Rating) float64 {
	return clampD(m.w[4+int(r)-1])
}

// Retrievability computes R(t, S) = exp(ln(0.9) * t / S).
func (m *Model) Retrievability(elapsedDays, stability float64) float64 {
	if elapsedDays <= 0 {
		return 1.0
	}
	return math.Exp(ln09 * elapsedDays / stability)
}

// NextDifficulty computes D' = clamp(D + w[15]*(G-3), 1, 10).
func (m *Model) NextDifficulty(d float64, r model.Rating) float64 {
	return clampD(d + m.w[15]*float64(int(r)-3))
}

// NextStability dispatches on the rating. The result is always within
// [0.1, maximum interval].
func (m *Model) NextStability(d, s, r float64, rating model.Rating) float64 {
	if rating == model.Again {
		return m.clampS(m.forgetStability(d, s, r))
	}
	return m.clampS(m.recallStability(d, s, r, rating))
}

// recallStability computes
// S' = S * (1 + e^w8 * (11-D) * S^(-w9) * (e^((1-R)*w10) - 1) * hardPenalty * easyBonus).
func (m *Model) recallStability(d, s, r float64, rating model.Rating) float64 {
	hardPenalty := 1.0
	if rating == model.Hard {
		hardPenalty = m.w[15]
	}
	easyBonus := 1.0
	if rating == model.Easy {
		easyBonus = m.w[16]
	}
	return s * (1 + math.Exp(m.w[8])*
		(11-d)*
		math.Pow(s, -m.w[9])*
		(math.Exp((1-r)*m.w[10])-1)*
		hardPenalty*easyBonus)
}

// forgetStability computes
// S' = w11 * D^(-w12) * ((S+1)^w13 - 1) * e^((1-R)*w14), capped at S.
// Forgetting never increases stability, whatever the weights say.
func (m *Model) forgetStability(d, s, r float64) float64 {
	sf := m.w[11] *
		math.Pow(d, -m.w[12]) *
		(math.Pow(s+1, m.w[13]) - 1) *
		math.Exp((1-r)*m.w[14])
	return math.Min(sf, s)
}

// Interval computes round(S * ln(retention)/ln(0.9)) clamped to
// [1, maximum interval].
func (m *Model) Interval(stability float64) int {
	ivl := int(math.Round(stability * m.ivlFactor))
	if ivl < 1 {
		ivl = 1
	}
	if ivl > m.maxIvl {
		ivl = m.maxIvl
	}
	return ivl
}

// PredictRetention returns the retrievability daysAhead days after the
// state's last review. A never-reviewed state predicts 0.
func (m *Model) PredictRetention(s model.MemoryState, daysAhead int) float64 {
	if s.IsNew() || s.Stability <= 0 {
		return 0
	}
	if daysAhead < 0 {
		daysAhead = 0
	}
	return m.Retrievability(float64(daysAhead), s.Stability)
}

func (m *Model) clampS(s float64) float64 {
	return math.Min(math.Max(s, model.MinStability), float64(m.maxIvl))
}

func clampD(d float64) float64 {
	return math.Min(math.Max(d, model.MinDifficulty), model.MaxDifficulty)
}
