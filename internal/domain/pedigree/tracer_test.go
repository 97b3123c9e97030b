package pedigree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace_DepthZeroIsEmpty(t *testing.T) {
	s := newTestStore(t, herd()...)

	lin, err := s.Trace("A", 0)
	require.NoError(t, err)
	assert.Empty(t, lin.Ancestors)
	assert.Empty(t, lin.Entries())
}

func TestTrace_DepthOneReturnsParents(t *testing.T) {
	s := newTestStore(t, herd()...)

	lin, err := s.Trace("A", 1)
	require.NoError(t, err)

	got := lin.Entries()
	require.Len(t, got, 2)
	assert.Equal(t, "D1", got[0].ID)
	assert.Equal(t, "S1", got[1].ID)
	for _, e := range got {
		assert.Equal(t, 1, e.Generation)
		assert.Equal(t, 1, e.Paths)
		assert.True(t, e.Recorded)
	}
}

func TestTrace_DepthOneWithSingleKnownParent(t *testing.T) {
	s := newTestStore(t, male("S", "", ""), female("X", "S", ""))

	lin, err := s.Trace("X", 1)
	require.NoError(t, err)
	require.Len(t, lin.Ancestors, 1)
	assert.Contains(t, lin.Ancestors, "S")
}

func TestTrace_FounderHasNoAncestry(t *testing.T) {
	s := newTestStore(t, herd()...)

	lin, err := s.Trace("S1", 5)
	require.NoError(t, err)
	assert.Empty(t, lin.Ancestors)
}

func TestTrace_RetainsEveryPath(t *testing.T) {
	animals := append(herd(), male("X", "A", "B"))
	s := newTestStore(t, animals...)

	lin, err := s.Trace("X", 2)
	require.NoError(t, err)

	require.Contains(t, lin.Ancestors, "S1")
	s1 := lin.Ancestors["S1"]
	assert.Equal(t, 2, s1.Generation)
	assert.Equal(t, 2, s1.Paths)
	assert.Equal(t, map[int]int{2: 2}, s1.PathsByGeneration)
}

func TestTrace_PathsAtDifferentDepths(t *testing.T) {
	// Z = S1 x B, y B es hija de S1: S1 aparece a 1 y a 2 generaciones.
	animals := append(herd(), male("Z", "S1", "B"))
	s := newTestStore(t, animals...)

	lin, err := s.Trace("Z", 2)
	require.NoError(t, err)

	s1 := lin.Ancestors["S1"]
	assert.Equal(t, 1, s1.Generation)
	assert.Equal(t, 1, s1.Paths)
	assert.Equal(t, map[int]int{1: 1, 2: 1}, s1.PathsByGeneration)

	assert.Equal(t, 2, lin.Ancestors["D1"].Generation)
}

func TestTrace_UnknownAnimalAndNegativeDepth(t *testing.T) {
	s := newTestStore(t, herd()...)

	_, err := s.Trace("nope", 3)
	require.ErrorIs(t, err, ErrUnknownAnimal)

	_, err = s.Trace("A", -1)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTrace_CyclicDataTerminates(t *testing.T) {
	s := newTestStore(t,
		male("A", "B", "C"),
		male("B", "C", ""),
		female("C", "A", ""),
	)

	lin, err := s.Trace("A", 10)
	require.NoError(t, err)
	assert.Contains(t, lin.Ancestors, "B")
	assert.Contains(t, lin.Ancestors, "C")
	assert.NotContains(t, lin.Ancestors, "A")
	assert.NotEmpty(t, s.CutEdges())
}

func TestTrace_EntriesSortedByGenerationThenID(t *testing.T) {
	s := newTestStore(t, cousins()...)

	lin, err := s.Trace("C1", 2)
	require.NoError(t, err)

	ids := make([]string, 0)
	for _, e := range lin.Entries() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"F3", "P1", "F1", "G"}, ids)
}
