package fsrs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/recall/internal/model"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m, err := NewModel(Parameters{})
	require.NoError(t, err)
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t)
	p := m.Parameters()
	assert.Equal(t, DefaultWeights, p.Weights)
	assert.Equal(t, 0.9, p.DesiredRetention)
	assert.Equal(t, 36500, p.MaximumInterval)
}

func TestValidateParameters(t *testing.T) {
	tests := []struct {
		name string
		mod  func(p *Parameters)
	}{
		{"retention zero-ish", func(p *Parameters) { p.DesiredRetention = -0.1 }},
		{"retention above one", func(p *Parameters) { p.DesiredRetention = 1.5 }},
		{"negative max interval", func(p *Parameters) { p.MaximumInterval = -1 }},
		{"negative weight", func(p *Parameters) { p.Weights[9] = -1 }},
		{"nan weight", func(p *Parameters) { p.Weights[3] = math.NaN() }},
		{"zero initial stability", func(p *Parameters) { p.Weights[2] = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mod(&p)
			_, err := NewModel(p)
			assert.ErrorIs(t, err, ErrInvalidParameters)
		})
	}
}

func TestInitialValues(t *testing.T) {
	m := newTestModel(t)
	for i, r := range model.Ratings {
		assert.InDelta(t, DefaultWeights[i], m.InitialStability(r), 1e-12, "S0(%s)", r)
		assert.InDelta(t, DefaultWeights[4+i], m.InitialDifficulty(r), 1e-12, "D0(%s)", r)
	}
}

func TestInitialStabilityFloor(t *testing.T) {
	p := DefaultParameters()
	p.Weights[0] = 0.01
	m, err := NewModel(p)
	require.NoError(t, err)
	assert.Equal(t, 0.1, m.InitialStability(model.Again))
}

func TestInitialDifficultyClamped(t *testing.T) {
	p := DefaultParameters()
	p.Weights[4] = 14
	p.Weights[7] = 0.2
	m, err := NewModel(p)
	require.NoError(t, err)
	assert.Equal(t, 10.0, m.InitialDifficulty(model.Again))
	assert.Equal(t, 1.0, m.InitialDifficulty(model.Easy))
}

func TestRetrievabilityAtZero(t *testing.T) {
	m := newTestModel(t)
	for _, s := range []float64{0.1, 1, 3.173, 100, 36500} {
		assert.Equal(t, 1.0, m.Retrievability(0, s))
	}
}

func TestRetrievabilityAtStability(t *testing.T) {
	m := newTestModel(t)
	assert.InDelta(t, 0.9, m.Retrievability(5, 5), 1e-12)
}

func TestRetrievabilityStrictlyDecreasing(t *testing.T) {
	m := newTestModel(t)
	for _, s := range []float64{0.1, 2.5, 40} {
		prev := m.Retrievability(0, s)
		for day := 1; day <= 60; day++ {
			r := m.Retrievability(float64(day), s)
			require.Less(t, r, prev, "s=%v day=%d", s, day)
			prev = r
		}
	}
}

func TestNextDifficultySign(t *testing.T) {
	m := newTestModel(t)
	d := 5.0
	assert.InDelta(t, d-2*DefaultWeights[15], m.NextDifficulty(d, model.Again), 1e-12)
	assert.InDelta(t, d-DefaultWeights[15], m.NextDifficulty(d, model.Hard), 1e-12)
	assert.Equal(t, d, m.NextDifficulty(d, model.Good))
	assert.InDelta(t, d+DefaultWeights[15], m.NextDifficulty(d, model.Easy), 1e-12)
}

func TestNextDifficultyBounds(t *testing.T) {
	m := newTestModel(t)
	for d := 1.0; d <= 10.0; d += 0.25 {
		for _, r := range model.Ratings {
			got := m.NextDifficulty(d, r)
			assert.GreaterOrEqual(t, got, 1.0)
			assert.LessOrEqual(t, got, 10.0)
		}
	}
}

func TestNextStabilityBounds(t *testing.T) {
	p := DefaultParameters()
	p.MaximumInterval = 365
	m, err := NewModel(p)
	require.NoError(t, err)

	stabilities := []float64{0.1, 0.5, 3, 30, 200, 365}
	retrievabilities := []float64{0, 0.3, 0.9, 1}
	for d := 1.0; d <= 10.0; d += 1.5 {
		for _, s := range stabilities {
			for _, r := range retrievabilities {
				for _, rating := range model.Ratings {
					got := m.NextStability(d, s, r, rating)
					require.GreaterOrEqual(t, got, 0.1, "d=%v s=%v r=%v %s", d, s, r, rating)
					require.LessOrEqual(t, got, 365.0, "d=%v s=%v r=%v %s", d, s, r, rating)
				}
			}
		}
	}
}

func TestForgetNeverIncreasesStability(t *testing.T) {
	// Extreme forget weights push the raw formula far above the prior value.
	p := DefaultParameters()
	p.Weights[11] = 50
	p.Weights[13] = 0.9
	p.Weights[14] = 4
	m, err := NewModel(p)
	require.NoError(t, err)

	for _, s := range []float64{0.5, 2, 20} {
		got := m.NextStability(3, s, 0.2, model.Again)
		assert.LessOrEqual(t, got, s)
	}
}

func TestRecallGrowsStability(t *testing.T) {
	m := newTestModel(t)
	s := 10.0
	hard := m.NextStability(5, s, 0.8, model.Hard)
	good := m.NextStability(5, s, 0.8, model.Good)
	easy := m.NextStability(5, s, 0.8, model.Easy)
	assert.Greater(t, good, s)
	assert.Less(t, hard, good)
	assert.Greater(t, easy, good)
}

func TestIntervalDegeneratesAtDefaultRetention(t *testing.T) {
	m := newTestModel(t)
	for _, s := range []float64{1, 3.173, 7.6, 42} {
		assert.Equal(t, int(math.Round(s)), m.Interval(s))
	}
}

func TestIntervalClamped(t *testing.T) {
	p := DefaultParameters()
	p.MaximumInterval = 100
	m, err := NewModel(p)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Interval(0.1))
	assert.Equal(t, 100, m.Interval(5000))
}

func TestIntervalHigherRetentionShortens(t *testing.T) {
	p := DefaultParameters()
	p.DesiredRetention = 0.95
	m, err := NewModel(p)
	require.NoError(t, err)
	assert.Less(t, m.Interval(20), 20)
}

func TestPredictRetention(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, 0.0, m.PredictRetention(model.NewState(model.NewDate(2025, 1, 1)), 3))

	last := model.NewDate(2025, 1, 1)
	st := model.MemoryState{Difficulty: 5, Stability: 4, Retrievability: 1, Interval: 4, ReviewCount: 1, LastReview: &last, NextReview: last.AddDays(4)}
	before := st
	assert.InDelta(t, 0.9, m.PredictRetention(st, 4), 1e-12)
	assert.Equal(t, 1.0, m.PredictRetention(st, 0))
	assert.Equal(t, before, st)
}
