package pedigree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_LookupAndExists(t *testing.T) {
	s := newTestStore(t, herd()...)

	assert.Equal(t, 11, s.Len())
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, testNow, s.LoadedAt())

	a, err := s.Lookup("A")
	require.NoError(t, err)
	assert.Equal(t, SexMale, a.Sex)
	assert.Equal(t, "S1", a.SireID)

	assert.True(t, s.Exists("B"))
	assert.True(t, s.Exists(" B "))
	assert.False(t, s.Exists("nope"))

	_, err = s.Lookup("nope")
	require.ErrorIs(t, err, ErrUnknownAnimal)

	var ae *AnimalError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "nope", ae.ID)
}

func TestNewStore_RejectsDuplicatesAndEmptyIDs(t *testing.T) {
	_, err := NewStore([]Animal{male("A", "", ""), female("A", "", "")}, testNow)
	require.ErrorIs(t, err, ErrDuplicatedAnimal)

	_, err = NewStore([]Animal{male("  ", "", "")}, testNow)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewStore_UnrecordedParentsArePlaceholders(t *testing.T) {
	s := newTestStore(t, female("X", "ghost-sire", "ghost-dam"))

	assert.Equal(t, 1, s.Len())
	assert.False(t, s.Exists("ghost-sire"))
	_, err := s.Lookup("ghost-dam")
	require.ErrorIs(t, err, ErrUnknownAnimal)

	sire, dam, err := s.Parents("X")
	require.NoError(t, err)
	assert.Equal(t, "ghost-sire", sire)
	assert.Equal(t, "ghost-dam", dam)

	lin, err := s.Trace("X", 3)
	require.NoError(t, err)
	require.Contains(t, lin.Ancestors, "ghost-sire")
	assert.False(t, lin.Ancestors["ghost-sire"].Recorded)

	// los placeholders no son candidatos
	assert.Empty(t, s.Males())
}

func TestNewStore_CutsCycles(t *testing.T) {
	s := newTestStore(t,
		male("A", "B", ""),
		male("B", "A", ""),
	)

	require.Equal(t, []CutEdge{{ChildID: "B", ParentID: "A", Role: RoleSire}}, s.CutEdges())

	sire, _, err := s.Parents("A")
	require.NoError(t, err)
	assert.Equal(t, "B", sire)

	sire, _, err = s.Parents("B")
	require.NoError(t, err)
	assert.Empty(t, sire)
}

func TestNewStore_CutsSelfReference(t *testing.T) {
	s := newTestStore(t, female("A", "", "A"))

	assert.Equal(t, []CutEdge{{ChildID: "A", ParentID: "A", Role: RoleDam}}, s.CutEdges())

	lin, err := s.Trace("A", 5)
	require.NoError(t, err)
	assert.Empty(t, lin.Ancestors)
}

func TestNewStore_SameSireAndDamKeepsSire(t *testing.T) {
	s := newTestStore(t, male("P", "", ""), female("X", "P", "P"))

	sire, dam, err := s.Parents("X")
	require.NoError(t, err)
	assert.Equal(t, "P", sire)
	assert.Empty(t, dam)
	assert.Equal(t, []CutEdge{{ChildID: "X", ParentID: "P", Role: RoleDam}}, s.CutEdges())
}

func TestStore_MalesSorted(t *testing.T) {
	s := newTestStore(t, herd()...)
	assert.Equal(t, []string{"A", "H", "M0", "M1", "M2", "S1", "S2"}, s.Males())
}

func TestSnapshot_SwapAndCurrent(t *testing.T) {
	var snap Snapshot

	_, err := snap.Current()
	require.ErrorIs(t, err, ErrNoSnapshot)

	first := newTestStore(t, herd()...)
	assert.Nil(t, snap.Swap(first))

	second := newTestStore(t, cousins()...)
	assert.Same(t, first, snap.Swap(second))

	cur, err := snap.Current()
	require.NoError(t, err)
	assert.Same(t, second, cur)
}

func TestNewStore_DoesNotShareOptionalFields(t *testing.T) {
	animals := []Animal{
		withBaseline(withPotential(male("A", "", ""), 1.1), 0.2),
		female("B", "", ""),
	}
	s := newTestStore(t, animals...)

	*animals[0].GeneticPotential = 9
	*animals[0].BaselineInbreeding = 0.9

	a, err := s.Lookup("A")
	require.NoError(t, err)
	require.NotNil(t, a.GeneticPotential)
	require.NotNil(t, a.BaselineInbreeding)
	assert.Equal(t, 1.1, *a.GeneticPotential)
	assert.Equal(t, 0.2, *a.BaselineInbreeding)

	*a.GeneticPotential = 5
	*a.BaselineInbreeding = 0.7

	again, err := s.Lookup("A")
	require.NoError(t, err)
	assert.Equal(t, 1.1, *again.GeneticPotential)
	assert.Equal(t, 0.2, *again.BaselineInbreeding)

	res, err := NewCalculator(s, DefaultMaxDepth, 0).InbreedingOf("A")
	require.NoError(t, err)
	assert.InDelta(t, 0.2, res.Coefficient, 1e-12)
}
