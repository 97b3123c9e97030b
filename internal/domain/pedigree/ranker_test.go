package pedigree

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRanker(t *testing.T, workers int, animals ...Animal) *Ranker {
	t.Helper()
	c, err := NewClassifier(DefaultThresholds())
	require.NoError(t, err)
	return NewRanker(NewCalculator(newTestStore(t, animals...), DefaultMaxDepth, 0), c, true, workers)
}

func candidateIDs(r *Ranking) []string {
	out := make([]string, 0, r.Len())
	for c := range r.All() {
		out = append(out, c.MaleID)
	}
	return out
}

func TestRank_OrderAndTieBreaks(t *testing.T) {
	r := newTestRanker(t, 4, herd()...)

	got, err := r.Rank(context.Background(), "B", 1, nil)
	require.NoError(t, err)

	// 0: potencial desc (M2 1.2, M0 0.9), luego sin potencial por id; después H 0.125, A/S1 0.25
	assert.Equal(t, []string{"M2", "M0", "M1", "S2", "H", "A", "S1"}, candidateIDs(got))
	assert.Equal(t, 7, got.Evaluated)
	assert.Equal(t, "B", got.FemaleID)

	prev := -1.0
	for i, c := range got.Top(0) {
		assert.Equal(t, i+1, c.Rank)
		assert.GreaterOrEqual(t, c.Coefficient, prev)
		prev = c.Coefficient
	}
}

func TestRank_ThresholdFilters(t *testing.T) {
	r := newTestRanker(t, 2, herd()...)

	got, err := r.Rank(context.Background(), "B", DefaultMaxCoefficient, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"M2", "M0", "M1", "S2"}, candidateIDs(got))
	assert.Equal(t, 7, got.Evaluated)
	for c := range got.All() {
		assert.LessOrEqual(t, c.Coefficient, DefaultMaxCoefficient)
		assert.Equal(t, RiskLow, c.Risk)
		assert.True(t, c.InsufficientPedigree)
	}

	// el umbral es inclusivo
	got, err = r.Rank(context.Background(), "B", 0.125, nil)
	require.NoError(t, err)
	assert.Contains(t, candidateIDs(got), "H")
	assert.NotContains(t, candidateIDs(got), "A")
}

func TestRank_EmptyAndIneligiblePools(t *testing.T) {
	r := newTestRanker(t, 2, herd()...)

	got, err := r.Rank(context.Background(), "B", 1, []string{})
	require.NoError(t, err)
	assert.Zero(t, got.Len())
	assert.Zero(t, got.Evaluated)

	got, err = r.Rank(context.Background(), "B", 1, []string{"B", "D1", "C", "nope"})
	require.NoError(t, err)
	assert.Zero(t, got.Len())

	got, err = r.Rank(context.Background(), "B", 1, []string{"M1", "M1", " M1 "})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Evaluated)
	assert.Equal(t, []string{"M1"}, candidateIDs(got))

	// nadie bajo el umbral
	got, err = r.Rank(context.Background(), "B", 0.1, []string{"A", "S1"})
	require.NoError(t, err)
	assert.Zero(t, got.Len())
	assert.Equal(t, 2, got.Evaluated)
}

func TestRank_Failures(t *testing.T) {
	r := newTestRanker(t, 1, herd()...)

	_, err := r.Rank(context.Background(), "nope", 1, nil)
	require.ErrorIs(t, err, ErrUnknownAnimal)

	_, err = r.Rank(context.Background(), "A", 1, nil)
	require.ErrorIs(t, err, ErrInvalidPair)

	_, err = r.Rank(context.Background(), "B", 1.5, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Rank(ctx, "B", 1, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRank_DeterministicAcrossWorkers(t *testing.T) {
	animals := append(herd(), cousins()...)
	animals = append(animals, male("Z", "S1", "B"), male("K", "C1", "C2"))

	var want []string
	for _, workers := range []int{1, 3, 16} {
		got, err := newTestRanker(t, workers, animals...).Rank(context.Background(), "C2", 1, nil)
		require.NoError(t, err)
		ids := candidateIDs(got)
		if want == nil {
			want = ids
			continue
		}
		assert.Equal(t, want, ids, "workers=%d", workers)
	}
}

func TestRanking_TopAndRestartable(t *testing.T) {
	r := newTestRanker(t, 2, herd()...)

	got, err := r.Rank(context.Background(), "B", 1, nil)
	require.NoError(t, err)

	top := got.Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, "M2", top[0].MaleID)
	assert.Equal(t, "M0", top[1].MaleID)
	assert.Len(t, got.Top(100), 7)

	first := slices.Collect(got.All())
	second := slices.Collect(got.All())
	assert.Equal(t, first, second)

	// cortar la iteración no consume el ranking
	for range got.All() {
		break
	}
	assert.Len(t, slices.Collect(got.All()), 7)
}

func TestRank_CandidateCarriesRelationshipAndRecommendation(t *testing.T) {
	r := newTestRanker(t, 2, herd()...)

	got, err := r.Rank(context.Background(), "B", 1, nil)
	require.NoError(t, err)

	byID := make(map[string]CompatibilityCandidate, got.Len())
	for c := range got.All() {
		byID[c.MaleID] = c
	}

	a := byID["A"]
	assert.InDelta(t, 0.5, a.Relationship, 1e-12)
	assert.Equal(t, RiskHigh, a.Risk)
	assert.Equal(t, RecommendNotRecommended, a.Recommendation)
	assert.NotEmpty(t, a.Advice)

	h := byID["H"]
	assert.InDelta(t, 0.25, h.Relationship, 1e-12)
	assert.Equal(t, RecommendNotRecommended, h.Recommendation)

	m2 := byID["M2"]
	assert.Zero(t, m2.Relationship)
	assert.Equal(t, RecommendProceed, m2.Recommendation)

	// el potencial del candidato es una copia
	require.NotNil(t, m2.GeneticPotential)
	*m2.GeneticPotential = 0
	again, err := r.Rank(context.Background(), "B", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "M2", again.Top(1)[0].MaleID)
	assert.Equal(t, 1.2, *again.Top(1)[0].GeneticPotential)
}
