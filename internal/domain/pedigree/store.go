package pedigree

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const noParent = -1

// Store es el índice inmutable del snapshot de pedigree.
// Los animales viven en un arena; sire/dam son índices dentro del arena, nunca punteros.
// Los padres referenciados pero no registrados entran como placeholders sin ancestría.
type Store struct {
	id       string
	loadedAt time.Time

	animals  []Animal
	recorded []bool
	index    map[string]int
	sire     []int
	dam      []int
	children [][]int
	males    []int
	size     int

	cutEdges []CutEdge

	// memo de coeficientes propios; seguro porque el arena no cambia
	inbreeding sync.Map // inbreedingKey -> float64
}

type inbreedingKey struct {
	idx     int
	depth   int
	founder float64
}

// NewStore construye el índice a partir de un set completo de animales.
// Los links que cierran un ciclo (incluida la auto-referencia) se descartan y quedan en CutEdges.
func NewStore(animals []Animal, now time.Time) (*Store, error) {
	s := &Store{
		id:       uuid.NewString(),
		loadedAt: now,
		animals:  make([]Animal, 0, len(animals)),
		recorded: make([]bool, 0, len(animals)),
		index:    make(map[string]int, len(animals)),
	}

	for _, a := range animals {
		a = a.clone()
		a.ID = strings.TrimSpace(a.ID)
		a.SireID = strings.TrimSpace(a.SireID)
		a.DamID = strings.TrimSpace(a.DamID)
		if a.ID == "" {
			return nil, &AnimalError{ID: a.ID, Err: ErrInvalidArgument}
		}
		if _, exists := s.index[a.ID]; exists {
			return nil, &AnimalError{ID: a.ID, Err: ErrDuplicatedAnimal}
		}
		if a.Sex == "" {
			a.Sex = SexUnknown
		}
		s.index[a.ID] = len(s.animals)
		s.animals = append(s.animals, a)
		s.recorded = append(s.recorded, true)
	}

	n := len(s.animals)
	s.sire = make([]int, n)
	s.dam = make([]int, n)
	for i := 0; i < n; i++ {
		a := s.animals[i]
		// resolveParent puede crecer los slices: resolver antes de asignar
		sire := s.resolveParent(a.SireID, SexMale)
		dam := s.resolveParent(a.DamID, SexFemale)
		if sire != noParent && sire == dam {
			// mismo id como sire y dam: se conserva sólo el sire
			s.cutEdges = append(s.cutEdges, CutEdge{ChildID: a.ID, ParentID: a.DamID, Role: RoleDam})
			dam = noParent
		}
		s.sire[i] = sire
		s.dam[i] = dam
	}
	s.size = n

	s.cutCycles()

	s.children = make([][]int, len(s.animals))
	for i := range s.animals {
		if p := s.sire[i]; p != noParent {
			s.children[p] = append(s.children[p], i)
		}
		if p := s.dam[i]; p != noParent && p != s.sire[i] {
			s.children[p] = append(s.children[p], i)
		}
		if s.recorded[i] && s.animals[i].Sex == SexMale {
			s.males = append(s.males, i)
		}
	}

	return s, nil
}

// resolveParent devuelve el índice del padre, creando un placeholder si no está registrado.
func (s *Store) resolveParent(id string, sex Sex) int {
	if id == "" {
		return noParent
	}
	if idx, ok := s.index[id]; ok {
		return idx
	}
	idx := len(s.animals)
	s.index[id] = idx
	s.animals = append(s.animals, Animal{ID: id, Sex: sex})
	s.recorded = append(s.recorded, false)
	s.sire = append(s.sire, noParent)
	s.dam = append(s.dam, noParent)
	return idx
}

// cutCycles recorre el grafo de padres con DFS de tres colores (iterativo) y
// descarta cada link que apunta a un nodo todavía en la pila.
func (s *Store) cutCycles() {
	const (
		white = iota
		gray
		black
	)

	type frame struct {
		idx  int
		next int // 0 = sire, 1 = dam, 2 = listo
	}

	order := make([]int, len(s.animals))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return s.animals[order[i]].ID < s.animals[order[j]].ID })

	state := make([]uint8, len(s.animals))
	stack := make([]frame, 0, 16)

	for _, root := range order {
		if state[root] != white {
			continue
		}
		state[root] = gray
		stack = append(stack[:0], frame{idx: root})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next > 1 {
				state[top.idx] = black
				stack = stack[:len(stack)-1]
				continue
			}

			role := RoleSire
			links := s.sire
			if top.next == 1 {
				role = RoleDam
				links = s.dam
			}
			top.next++

			p := links[top.idx]
			if p == noParent {
				continue
			}
			switch state[p] {
			case white:
				state[p] = gray
				stack = append(stack, frame{idx: p})
			case gray:
				s.cutEdges = append(s.cutEdges, CutEdge{
					ChildID:  s.animals[top.idx].ID,
					ParentID: s.animals[p].ID,
					Role:     role,
				})
				links[top.idx] = noParent
			}
		}
	}
}

func (s *Store) ID() string          { return s.id }
func (s *Store) LoadedAt() time.Time { return s.loadedAt }

// Len cuenta sólo animales registrados (sin placeholders).
func (s *Store) Len() int            { return s.size }
func (s *Store) CutEdges() []CutEdge { return append([]CutEdge(nil), s.cutEdges...) }

func (s *Store) Info() SnapshotInfo {
	return SnapshotInfo{ID: s.id, LoadedAt: s.loadedAt, Animals: s.size, CutEdges: s.CutEdges()}
}

// Lookup devuelve el animal registrado. Los placeholders no cuentan como registrados.
func (s *Store) Lookup(id string) (Animal, error) {
	idx, ok := s.lookupIndex(id)
	if !ok {
		return Animal{}, unknownAnimal(id)
	}
	return s.animals[idx].clone(), nil
}

// Exists responde si el id está registrado en el snapshot.
func (s *Store) Exists(id string) bool {
	_, ok := s.lookupIndex(id)
	return ok
}

func (s *Store) lookupIndex(id string) (int, bool) {
	idx, ok := s.index[strings.TrimSpace(id)]
	if !ok || !s.recorded[idx] {
		return 0, false
	}
	return idx, true
}

// Males devuelve los ids de machos registrados, ordenados.
func (s *Store) Males() []string {
	out := make([]string, 0, len(s.males))
	for _, idx := range s.males {
		out = append(out, s.animals[idx].ID)
	}
	sort.Strings(out)
	return out
}

// Parents devuelve los ids de sire y dam efectivos (después del corte de ciclos).
func (s *Store) Parents(id string) (sireID, damID string, err error) {
	idx, ok := s.lookupIndex(id)
	if !ok {
		return "", "", unknownAnimal(id)
	}
	if p := s.sire[idx]; p != noParent {
		sireID = s.animals[p].ID
	}
	if p := s.dam[idx]; p != noParent {
		damID = s.animals[p].ID
	}
	return sireID, damID, nil
}
