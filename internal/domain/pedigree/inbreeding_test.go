package pedigree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoefficient_WorkedExamples(t *testing.T) {
	s := newTestStore(t, herd()...)
	calc := NewCalculator(s, DefaultMaxDepth, 0)

	tests := []struct {
		name      string
		sire, dam string
		want      float64
	}{
		{name: "full siblings", sire: "A", dam: "B", want: 0.25},
		{name: "half siblings", sire: "A", dam: "C", want: 0.125},
		{name: "half siblings through dam", sire: "H", dam: "B", want: 0.125},
		{name: "parent offspring", sire: "S1", dam: "B", want: 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := calc.Coefficient(tt.sire, tt.dam)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, res.Coefficient, 1e-12)
			assert.False(t, res.InsufficientPedigree)
			assert.NotEmpty(t, res.Contributions)
			assert.Equal(t, DefaultMaxDepth, res.SearchedDepth)
		})
	}
}

func TestCoefficient_FirstCousins(t *testing.T) {
	s := newTestStore(t, cousins()...)
	calc := NewCalculator(s, DefaultMaxDepth, 0)

	res, err := calc.Coefficient("C1", "C2")
	require.NoError(t, err)
	assert.InDelta(t, 0.03125, res.Coefficient, 1e-12)

	require.Len(t, res.Contributions, 1)
	c := res.Contributions[0]
	assert.Equal(t, "G", c.AncestorID)
	assert.Equal(t, 2, c.SireGenerations)
	assert.Equal(t, 2, c.DamGenerations)
	assert.Equal(t, 1, c.PathPairs)
}

func TestCoefficient_Contributions(t *testing.T) {
	s := newTestStore(t, herd()...)
	calc := NewCalculator(s, DefaultMaxDepth, 0)

	res, err := calc.Coefficient("A", "B")
	require.NoError(t, err)
	require.Len(t, res.Contributions, 2)

	// mismo aporte: desempata por id
	assert.Equal(t, "D1", res.Contributions[0].AncestorID)
	assert.Equal(t, "S1", res.Contributions[1].AncestorID)
	for _, c := range res.Contributions {
		assert.InDelta(t, 0.125, c.Value, 1e-12)
		assert.Equal(t, 1, c.SireGenerations)
		assert.Equal(t, 1, c.DamGenerations)
		assert.Zero(t, c.AncestorInbreeding)
	}
}

func TestCoefficient_SameAnimalIsInvalidPair(t *testing.T) {
	s := newTestStore(t, herd()...)
	calc := NewCalculator(s, DefaultMaxDepth, 0)

	for _, id := range []string{"A", "B", "S1", "M1"} {
		_, err := calc.Coefficient(id, id)
		require.ErrorIs(t, err, ErrInvalidPair, id)
	}
}

func TestCoefficient_UnknownAnimal(t *testing.T) {
	s := newTestStore(t, female("X", "ghost", ""), male("Y", "", ""))
	calc := NewCalculator(s, DefaultMaxDepth, 0)

	_, err := calc.Coefficient("nope", "X")
	require.ErrorIs(t, err, ErrUnknownAnimal)

	_, err = calc.Coefficient("Y", "nope")
	require.ErrorIs(t, err, ErrUnknownAnimal)

	// un placeholder no es un animal registrado
	_, err = calc.Coefficient("ghost", "X")
	require.ErrorIs(t, err, ErrUnknownAnimal)
}

func TestCoefficient_NoAncestryIsFlagged(t *testing.T) {
	s := newTestStore(t, herd()...)
	calc := NewCalculator(s, DefaultMaxDepth, 0)

	res, err := calc.Coefficient("M1", "D2")
	require.NoError(t, err)
	assert.Zero(t, res.Coefficient)
	assert.True(t, res.InsufficientPedigree)
	assert.Empty(t, res.Contributions)

	// ancestría conocida pero sin ancestro común
	res, err = calc.Coefficient("H", "C")
	require.NoError(t, err)
	assert.Zero(t, res.Coefficient)
	assert.True(t, res.InsufficientPedigree)
}

func TestCoefficient_Symmetric(t *testing.T) {
	animals := append(herd(), male("Z", "S1", "B"), female("Q", "A", "C"))
	s := newTestStore(t, animals...)
	calc := NewCalculator(s, DefaultMaxDepth, 0)

	ids := []string{"A", "B", "C", "H", "Z", "Q", "S1", "D1", "M0"}
	for _, x := range ids {
		for _, y := range ids {
			if x == y {
				continue
			}
			xy, err := calc.Coefficient(x, y)
			require.NoError(t, err)
			yx, err := calc.Coefficient(y, x)
			require.NoError(t, err)
			assert.InDelta(t, xy.Coefficient, yx.Coefficient, 1e-12, "%s x %s", x, y)
			assert.Equal(t, xy.InsufficientPedigree, yx.InsufficientPedigree)
		}
	}
}

func TestCoefficient_MonotonicInDepth(t *testing.T) {
	animals := append(cousins(), male("K1", "C1", "C2"), female("K2", "C1", "C2"))
	s := newTestStore(t, animals...)

	pairs := [][2]string{{"C1", "C2"}, {"K1", "K2"}, {"P1", "P2"}, {"K1", "C2"}}
	for _, pair := range pairs {
		prev := -1.0
		for depth := 0; depth <= MaxAllowedDepth; depth++ {
			res, err := NewCalculator(s, depth, 0).Coefficient(pair[0], pair[1])
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.Coefficient, prev, "%v at depth %d", pair, depth)
			prev = res.Coefficient
		}
	}

	shallow, err := NewCalculator(s, 1, 0).Coefficient("C1", "C2")
	require.NoError(t, err)
	assert.Zero(t, shallow.Coefficient)
	assert.True(t, shallow.InsufficientPedigree)
}

func TestInbreedingOf(t *testing.T) {
	animals := append(herd(), male("X", "A", "B"))
	s := newTestStore(t, animals...)
	calc := NewCalculator(s, DefaultMaxDepth, 0)

	res, err := calc.InbreedingOf("X")
	require.NoError(t, err)
	assert.InDelta(t, 0.25, res.Coefficient, 1e-12)

	founder, err := calc.InbreedingOf("S1")
	require.NoError(t, err)
	assert.Zero(t, founder.Coefficient)
	assert.True(t, founder.InsufficientPedigree)

	_, err = calc.InbreedingOf("nope")
	require.ErrorIs(t, err, ErrUnknownAnimal)
}

func TestCoefficient_InbredCommonAncestor(t *testing.T) {
	// X = A x B tiene F = 0.25. Sus hijos Y1 y Y2 (medio hermanos a través de X):
	// aporte de X = (1/2)^3 * (1 + 0.25)
	animals := append(herd(),
		male("X", "A", "B"),
		male("Y1", "X", "D2"),
		female("Y2", "X", "C"),
	)
	s := newTestStore(t, animals...)
	calc := NewCalculator(s, DefaultMaxDepth, 0)

	res, err := calc.Coefficient("Y1", "Y2")
	require.NoError(t, err)

	var viaX *Contribution
	for i := range res.Contributions {
		if res.Contributions[i].AncestorID == "X" {
			viaX = &res.Contributions[i]
		}
	}
	require.NotNil(t, viaX)
	assert.InDelta(t, 0.25, viaX.AncestorInbreeding, 1e-12)
	assert.InDelta(t, 0.125*1.25, viaX.Value, 1e-12)
}

func TestCoefficient_BaselineOverride(t *testing.T) {
	animals := herd()
	for i := range animals {
		if animals[i].ID == "S1" {
			animals[i] = withBaseline(animals[i], 0.5)
		}
	}
	s := newTestStore(t, animals...)
	calc := NewCalculator(s, DefaultMaxDepth, 0)

	res, err := calc.Coefficient("A", "B")
	require.NoError(t, err)
	// S1: 0.125 * 1.5, D1: 0.125
	assert.InDelta(t, 0.3125, res.Coefficient, 1e-12)

	own, err := calc.InbreedingOf("S1")
	require.NoError(t, err)
	assert.Equal(t, 0.5, own.Coefficient)
	assert.False(t, own.InsufficientPedigree)
}

func TestCoefficient_FounderDefault(t *testing.T) {
	s := newTestStore(t, herd()...)
	calc := NewCalculator(s, DefaultMaxDepth, 0.1)

	res, err := calc.Coefficient("A", "B")
	require.NoError(t, err)
	assert.InDelta(t, 2*0.125*1.1, res.Coefficient, 1e-12)

	own, err := calc.InbreedingOf("M1")
	require.NoError(t, err)
	assert.Equal(t, 0.1, own.Coefficient)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.2))
	assert.Equal(t, 1.0, clamp01(3))
	assert.Equal(t, 0.4, clamp01(0.4))
}
