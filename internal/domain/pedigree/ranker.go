package pedigree

import (
	"context"
	"fmt"
	"iter"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Ranker evalúa machos candidatos contra una hembra objetivo.
type Ranker struct {
	calc       *Calculator
	classifier Classifier
	enforceSex bool
	workers    int
}

func NewRanker(calc *Calculator, classifier Classifier, enforceSex bool, workers int) *Ranker {
	if workers <= 0 {
		workers = 1
	}
	return &Ranker{calc: calc, classifier: classifier, enforceSex: enforceSex, workers: workers}
}

// Ranking es el resultado ordenado. All() se puede recorrer las veces que haga falta.
type Ranking struct {
	FemaleID       string
	MaxCoefficient float64
	Evaluated      int

	items []CompatibilityCandidate
}

func (r *Ranking) Len() int { return len(r.items) }

// All recorre los candidatos en orden de ranking.
func (r *Ranking) All() iter.Seq[CompatibilityCandidate] {
	return func(yield func(CompatibilityCandidate) bool) {
		for _, c := range r.items {
			if !yield(c) {
				return
			}
		}
	}
}

// Top devuelve hasta n candidatos; n <= 0 = todos.
func (r *Ranking) Top(n int) []CompatibilityCandidate {
	out := make([]CompatibilityCandidate, 0, min(max(n, 0), len(r.items)))
	for c := range r.All() {
		if n > 0 && len(out) == n {
			break
		}
		out = append(out, c)
	}
	return out
}

// Rank evalúa pool (nil = todos los machos del snapshot) contra femaleID.
// Ids fuera del snapshot, no machos o iguales al objetivo se ignoran.
// El orden final no depende del orden de evaluación: se ordena al final.
func (r *Ranker) Rank(ctx context.Context, femaleID string, maxCoefficient float64, pool []string) (*Ranking, error) {
	if math.IsNaN(maxCoefficient) || maxCoefficient < 0 || maxCoefficient > 1 {
		return nil, fmt.Errorf("%w: max coefficient must be within [0, 1] (%v)", ErrInvalidArgument, maxCoefficient)
	}

	store := r.calc.store
	femaleIdx, ok := store.lookupIndex(femaleID)
	if !ok {
		return nil, unknownAnimal(femaleID)
	}
	if r.enforceSex && store.animals[femaleIdx].Sex != SexFemale {
		return nil, invalidPair(femaleID, "target must be female")
	}

	if pool == nil {
		pool = store.Males()
	}
	eligible := r.eligible(femaleIdx, pool)

	// el linaje de la hembra se traza una sola vez para todo el pool
	target := r.calc.lineage(femaleIdx)

	results := make([]InbreedingResult, len(eligible))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, maleIdx := range eligible {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.calc.offspring(r.calc.lineage(maleIdx), target)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]CompatibilityCandidate, 0, len(eligible))
	for i, maleIdx := range eligible {
		res := results[i]
		if res.Coefficient > maxCoefficient {
			continue
		}
		male := store.animals[maleIdx]
		tier := r.classifier.Classify(res.Coefficient)
		rec, advice := Recommend(tier)
		items = append(items, CompatibilityCandidate{
			MaleID:               male.ID,
			Coefficient:          res.Coefficient,
			Risk:                 tier,
			GeneticPotential:     cloneFloat(male.GeneticPotential),
			InsufficientPedigree: res.InsufficientPedigree,
			Relationship:         2 * res.Coefficient,
			Recommendation:       rec,
			Advice:               advice,
		})
	}

	sort.Slice(items, func(i, j int) bool { return lessCandidate(items[i], items[j]) })
	for i := range items {
		items[i].Rank = i + 1
	}

	return &Ranking{
		FemaleID:       store.animals[femaleIdx].ID,
		MaxCoefficient: maxCoefficient,
		Evaluated:      len(eligible),
		items:          items,
	}, nil
}

func (r *Ranker) eligible(femaleIdx int, pool []string) []int {
	store := r.calc.store
	seen := make(map[int]struct{}, len(pool))
	out := make([]int, 0, len(pool))
	for _, id := range pool {
		idx, ok := store.lookupIndex(id)
		if !ok || idx == femaleIdx {
			continue
		}
		if store.animals[idx].Sex != SexMale {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	return out
}

// lessCandidate: coeficiente asc, potencial genético desc (presente antes que ausente), id asc.
func lessCandidate(a, b CompatibilityCandidate) bool {
	if a.Coefficient != b.Coefficient {
		return a.Coefficient < b.Coefficient
	}
	switch {
	case a.GeneticPotential != nil && b.GeneticPotential != nil:
		if *a.GeneticPotential != *b.GeneticPotential {
			return *a.GeneticPotential > *b.GeneticPotential
		}
	case a.GeneticPotential != nil:
		return true
	case b.GeneticPotential != nil:
		return false
	}
	return a.MaleID < b.MaleID
}
