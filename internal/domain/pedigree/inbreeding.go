package pedigree

import (
	"math"
	"sort"
)

// Calculator computa coeficientes de Wright sobre un Store fijo.
type Calculator struct {
	store    *Store
	maxDepth int
	founder  float64
}

func NewCalculator(store *Store, maxDepth int, founderInbreeding float64) *Calculator {
	return &Calculator{
		store:    store,
		maxDepth: maxDepth,
		founder:  clamp01(founderInbreeding),
	}
}

// Coefficient es el coeficiente de consanguinidad esperado de la cría sireID x damID.
// No valida sexos: eso queda en el simulador.
func (c *Calculator) Coefficient(sireID, damID string) (InbreedingResult, error) {
	sireIdx, ok := c.store.lookupIndex(sireID)
	if !ok {
		return InbreedingResult{}, unknownAnimal(sireID)
	}
	damIdx, ok := c.store.lookupIndex(damID)
	if !ok {
		return InbreedingResult{}, unknownAnimal(damID)
	}
	if sireIdx == damIdx {
		return InbreedingResult{}, invalidPair(sireID, "sire and dam are the same animal")
	}
	return c.offspring(c.lineage(sireIdx), c.lineage(damIdx)), nil
}

// InbreedingOf es el coeficiente propio de un animal registrado.
func (c *Calculator) InbreedingOf(id string) (InbreedingResult, error) {
	idx, ok := c.store.lookupIndex(id)
	if !ok {
		return InbreedingResult{}, unknownAnimal(id)
	}
	return c.own(idx), nil
}

func (c *Calculator) lineage(idx int) *Lineage {
	return c.store.trace(idx, c.maxDepth)
}

// own: override > pedigree (ambos padres conocidos) > fundador.
func (c *Calculator) own(idx int) InbreedingResult {
	if b := c.store.animals[idx].BaselineInbreeding; b != nil {
		return InbreedingResult{Coefficient: clamp01(*b), SearchedDepth: 0}
	}
	sire, dam := c.store.sire[idx], c.store.dam[idx]
	if sire == noParent || dam == noParent {
		return InbreedingResult{
			Coefficient:          c.founder,
			SearchedDepth:        c.maxDepth,
			InsufficientPedigree: true,
		}
	}
	return c.offspring(c.lineage(sire), c.lineage(dam))
}

// ancestorInbreeding es F_A memoizado en el Store.
func (c *Calculator) ancestorInbreeding(idx int) float64 {
	key := inbreedingKey{idx: idx, depth: c.maxDepth, founder: c.founder}
	if v, ok := c.store.inbreeding.Load(key); ok {
		return v.(float64)
	}
	f := c.own(idx).Coefficient
	c.store.inbreeding.Store(key, f)
	return f
}

type contributionKey struct {
	idx    int
	n1, n2 int
}

// offspring aplica la fórmula de Wright sobre los linajes de sire y dam:
// por cada ancestro común A y cada par de caminos que sólo se tocan en A,
// suma (1/2)^(n1+n2+1) * (1 + F_A).
func (c *Calculator) offspring(sire, dam *Lineage) InbreedingResult {
	common := make([]int, 0)
	for idx := range sire.ends {
		if _, ok := dam.ends[idx]; ok {
			common = append(common, idx)
		}
	}
	sort.Ints(common)

	agg := make(map[contributionKey]*Contribution)
	order := make([]contributionKey, 0)
	total := 0.0

	for _, a := range common {
		fa := -1.0
		for _, p1 := range sire.ends[a] {
			for _, p2 := range dam.ends[a] {
				if !meetOnlyAtEnd(p1, p2) {
					continue
				}
				if fa < 0 {
					fa = c.ancestorInbreeding(a)
				}
				v := math.Ldexp(1+fa, -(p1.depth + p2.depth + 1))
				total += v

				k := contributionKey{idx: a, n1: p1.depth, n2: p2.depth}
				ct, ok := agg[k]
				if !ok {
					ct = &Contribution{
						AncestorID:         c.store.animals[a].ID,
						SireGenerations:    p1.depth,
						DamGenerations:     p2.depth,
						AncestorInbreeding: fa,
					}
					agg[k] = ct
					order = append(order, k)
				}
				ct.PathPairs++
				ct.Value += v
			}
		}
	}

	out := InbreedingResult{
		Coefficient:   clamp01(total),
		SearchedDepth: c.maxDepth,
	}
	if len(order) == 0 {
		out.InsufficientPedigree = true
		return out
	}

	out.Contributions = make([]Contribution, 0, len(order))
	for _, k := range order {
		out.Contributions = append(out.Contributions, *agg[k])
	}
	sort.SliceStable(out.Contributions, func(i, j int) bool {
		a, b := out.Contributions[i], out.Contributions[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		if a.AncestorID != b.AncestorID {
			return a.AncestorID < b.AncestorID
		}
		if a.SireGenerations != b.SireGenerations {
			return a.SireGenerations < b.SireGenerations
		}
		return a.DamGenerations < b.DamGenerations
	})
	return out
}

// meetOnlyAtEnd: los dos caminos terminan en el mismo ancestro y no comparten otro animal.
func meetOnlyAtEnd(p1, p2 *pathNode) bool {
	for a := p1.prev; a != nil; a = a.prev {
		for b := p2.prev; b != nil; b = b.prev {
			if a.idx == b.idx {
				return false
			}
		}
	}
	return true
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
