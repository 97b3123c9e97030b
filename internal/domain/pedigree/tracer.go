package pedigree

import (
	"fmt"
	"sort"
)

// pathNode es un eslabón de un camino desde la raíz trazada.
// Los caminos comparten prefijos: cada nodo apunta al anterior.
type pathNode struct {
	idx   int
	depth int
	prev  *pathNode
}

func (n *pathNode) contains(idx int) bool {
	for p := n; p != nil; p = p.prev {
		if p.idx == idx {
			return true
		}
	}
	return false
}

type visitKey struct {
	idx   int
	depth int
}

// Lineage es el resultado de trazar un animal hasta MaxDepth generaciones.
type Lineage struct {
	Root      string
	MaxDepth  int
	Ancestors map[string]AncestorEntry

	root int
	// ends agrupa los caminos por el ancestro donde terminan; la raíz entra con profundidad 0.
	ends map[int][]*pathNode
}

// Entries devuelve los ancestros ordenados por generación y luego id.
func (l *Lineage) Entries() []AncestorEntry {
	out := make([]AncestorEntry, 0, len(l.Ancestors))
	for _, e := range l.Ancestors {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Generation != out[j].Generation {
			return out[i].Generation < out[j].Generation
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// tracer guarda el estado mutable de un trazado. Es local a cada llamada.
type tracer struct {
	store    *Store
	maxDepth int
	queue    []*pathNode
	seen     map[visitKey]int
	lin      *Lineage
}

// Trace devuelve los ancestros de id alcanzables en maxDepth generaciones.
// Cada camino distinto se retiene por separado; un camino nunca repite un animal.
func (s *Store) Trace(id string, maxDepth int) (*Lineage, error) {
	if maxDepth < 0 {
		return nil, fmt.Errorf("%w: depth cannot be negative (%d)", ErrInvalidArgument, maxDepth)
	}
	idx, ok := s.lookupIndex(id)
	if !ok {
		return nil, unknownAnimal(id)
	}
	return s.trace(idx, maxDepth), nil
}

func (s *Store) trace(root, maxDepth int) *Lineage {
	t := &tracer{
		store:    s,
		maxDepth: maxDepth,
		queue:    make([]*pathNode, 0, 8),
		seen:     make(map[visitKey]int),
		lin: &Lineage{
			Root:     s.animals[root].ID,
			MaxDepth: maxDepth,
			root:     root,
			ends:     make(map[int][]*pathNode),
		},
	}

	start := &pathNode{idx: root}
	t.lin.ends[root] = []*pathNode{start}
	t.queue = append(t.queue, start)

	t.loop()
	t.collect()
	return t.lin
}

// loop expande la cola en anchura, una generación por paso.
func (t *tracer) loop() {
	for len(t.queue) > 0 {
		node := t.queue[0]
		t.queue = t.queue[1:]

		if node.depth >= t.maxDepth {
			continue
		}

		for _, p := range [2]int{t.store.sire[node.idx], t.store.dam[node.idx]} {
			if p == noParent {
				continue
			}
			// guard de ciclo: el store ya corta ciclos, pero un camino no puede volver sobre sí
			if node.contains(p) {
				continue
			}
			next := &pathNode{idx: p, depth: node.depth + 1, prev: node}
			t.seen[visitKey{idx: p, depth: next.depth}]++
			t.lin.ends[p] = append(t.lin.ends[p], next)
			t.queue = append(t.queue, next)
		}
	}
}

// collect arma las entradas por ancestro a partir de la multiplicidad por (id, profundidad).
func (t *tracer) collect() {
	t.lin.Ancestors = make(map[string]AncestorEntry, len(t.lin.ends))
	for key, count := range t.seen {
		a := t.store.animals[key.idx]
		e, ok := t.lin.Ancestors[a.ID]
		if !ok {
			e = AncestorEntry{
				ID:                a.ID,
				Generation:        key.depth,
				PathsByGeneration: make(map[int]int, 1),
				Recorded:          t.store.recorded[key.idx],
			}
		}
		e.PathsByGeneration[key.depth] = count
		if key.depth < e.Generation {
			e.Generation = key.depth
		}
		e.Paths = e.PathsByGeneration[e.Generation]
		t.lin.Ancestors[a.ID] = e
	}
}
