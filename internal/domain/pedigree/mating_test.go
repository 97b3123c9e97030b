package pedigree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSimulator(t *testing.T, enforceSex bool, animals ...Animal) *Simulator {
	t.Helper()
	c, err := NewClassifier(DefaultThresholds())
	require.NoError(t, err)
	return NewSimulator(NewCalculator(newTestStore(t, animals...), DefaultMaxDepth, 0), c, enforceSex)
}

func TestSimulate_Tiers(t *testing.T) {
	sim := newTestSimulator(t, true, append(herd(), cousins()...)...)

	tests := []struct {
		name      string
		sire, dam string
		coef      float64
		risk      RiskTier
		rec       Recommendation
	}{
		{name: "unrelated", sire: "M1", dam: "B", coef: 0, risk: RiskLow, rec: RecommendProceed},
		{name: "first cousins", sire: "C1", dam: "C2", coef: 0.03125, risk: RiskMedium, rec: RecommendCaution},
		{name: "half siblings", sire: "A", dam: "C", coef: 0.125, risk: RiskHigh, rec: RecommendNotRecommended},
		{name: "full siblings", sire: "A", dam: "B", coef: 0.25, risk: RiskHigh, rec: RecommendNotRecommended},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := sim.Simulate(tt.sire, tt.dam)
			require.NoError(t, err)
			assert.Equal(t, tt.sire, v.SireID)
			assert.Equal(t, tt.dam, v.DamID)
			assert.InDelta(t, tt.coef, v.Result.Coefficient, 1e-12)
			assert.Equal(t, tt.risk, v.Risk)
			assert.Equal(t, tt.rec, v.Recommendation)
			assert.NotEmpty(t, v.Advice)
			assert.InDelta(t, 2*tt.coef, v.Relationship, 1e-12)
		})
	}
}

func TestSimulate_InsufficientPedigreeStillReturnsVerdict(t *testing.T) {
	sim := newTestSimulator(t, true, herd()...)

	v, err := sim.Simulate("M1", "D2")
	require.NoError(t, err)
	assert.True(t, v.Result.InsufficientPedigree)
	assert.Equal(t, RiskLow, v.Risk)
}

func TestSimulate_ParentsOwnInbreeding(t *testing.T) {
	animals := append(herd(), male("X", "A", "B"))
	sim := newTestSimulator(t, true, animals...)

	v, err := sim.Simulate("X", "D2")
	require.NoError(t, err)
	assert.InDelta(t, 0.25, v.SireInbreeding, 1e-12)
	assert.Zero(t, v.DamInbreeding)
}

func TestSimulate_InvalidPairs(t *testing.T) {
	sim := newTestSimulator(t, true, herd()...)

	_, err := sim.Simulate("A", "A")
	require.ErrorIs(t, err, ErrInvalidPair)

	_, err = sim.Simulate("B", "A")
	require.ErrorIs(t, err, ErrInvalidPair)

	_, err = sim.Simulate("A", "H")
	require.ErrorIs(t, err, ErrInvalidPair)

	_, err = sim.Simulate("nope", "B")
	require.ErrorIs(t, err, ErrUnknownAnimal)
}

func TestSimulate_SexChecksCanBeDisabled(t *testing.T) {
	sim := newTestSimulator(t, false, herd()...)

	v, err := sim.Simulate("B", "A")
	require.NoError(t, err)
	assert.InDelta(t, 0.25, v.Result.Coefficient, 1e-12)

	// el mismo animal sigue siendo inválido
	_, err = sim.Simulate("A", "A")
	require.ErrorIs(t, err, ErrInvalidPair)
}
