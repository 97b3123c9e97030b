package pedigree

import (
	"fmt"
	"sort"
)

const DefaultDescendantDepth = 3

// Descendants devuelve los descendientes de id hasta maxDepth generaciones,
// cada uno con su generación mínima. Ordenado por generación y luego id.
func (s *Store) Descendants(id string, maxDepth int) ([]DescendantEntry, error) {
	if maxDepth < 0 {
		return nil, fmt.Errorf("%w: depth cannot be negative (%d)", ErrInvalidArgument, maxDepth)
	}
	root, ok := s.lookupIndex(id)
	if !ok {
		return nil, unknownAnimal(id)
	}

	type item struct {
		idx   int
		depth int
	}

	generation := map[int]int{root: 0}
	queue := []item{{idx: root}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		for _, child := range s.children[cur.idx] {
			if _, seen := generation[child]; seen {
				continue
			}
			generation[child] = cur.depth + 1
			queue = append(queue, item{idx: child, depth: cur.depth + 1})
		}
	}

	out := make([]DescendantEntry, 0, len(generation)-1)
	for idx, g := range generation {
		if idx == root {
			continue
		}
		out = append(out, DescendantEntry{ID: s.animals[idx].ID, Generation: g})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Generation != out[j].Generation {
			return out[i].Generation < out[j].Generation
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
