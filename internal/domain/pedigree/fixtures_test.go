package pedigree

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func male(id, sire, dam string) Animal {
	return Animal{ID: id, Sex: SexMale, SireID: sire, DamID: dam}
}

func female(id, sire, dam string) Animal {
	return Animal{ID: id, Sex: SexFemale, SireID: sire, DamID: dam}
}

func withPotential(a Animal, v float64) Animal {
	a.GeneticPotential = &v
	return a
}

func withBaseline(a Animal, v float64) Animal {
	a.BaselineInbreeding = &v
	return a
}

func newTestStore(t *testing.T, animals ...Animal) *Store {
	t.Helper()
	s, err := NewStore(animals, testNow)
	require.NoError(t, err)
	return s
}

// herd: S1, S2, D1, D2 fundadores.
//
//	A (M) = S1 x D1, B (F) = S1 x D1  -> hermanos completos
//	C (F) = S1 x D2                   -> medio hermana de A y B
//	H (M) = S2 x D1                   -> medio hermano de A y B
//	M0, M1, M2 machos fundadores (M0 y M2 con potencial genético)
func herd() []Animal {
	return []Animal{
		male("S1", "", ""),
		male("S2", "", ""),
		female("D1", "", ""),
		female("D2", "", ""),
		male("A", "S1", "D1"),
		female("B", "S1", "D1"),
		female("C", "S1", "D2"),
		male("H", "S2", "D1"),
		withPotential(male("M0", "", ""), 0.9),
		male("M1", "", ""),
		withPotential(male("M2", "", ""), 1.2),
	}
}

// cousins: C1 y C2 son primos hermanos a través de G.
//
//	P1 = G x F1, P2 = G x F2 (medio hermanos)
//	C1 = P1 x F3, C2 = O4 x P2
func cousins() []Animal {
	return []Animal{
		male("G", "", ""),
		female("F1", "", ""),
		female("F2", "", ""),
		female("F3", "", ""),
		male("O4", "", ""),
		male("P1", "G", "F1"),
		female("P2", "G", "F2"),
		male("C1", "P1", "F3"),
		female("C2", "O4", "P2"),
	}
}
