package memory

import (
	"context"
	"sync"

	"herd-pedigree/internal/domain/pedigree"
)

// AnimalsRepo es un Source en memoria. Útil para tests y para levantar la API sin base.
type AnimalsRepo struct {
	mu      sync.RWMutex
	animals []pedigree.Animal
}

func NewAnimalsRepo(animals ...pedigree.Animal) *AnimalsRepo {
	r := &AnimalsRepo{}
	r.Replace(animals)
	return r
}

// Replace cambia el set completo; el próximo Reload lo toma.
func (r *AnimalsRepo) Replace(animals []pedigree.Animal) {
	cp := append([]pedigree.Animal(nil), animals...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.animals = cp
}

func (r *AnimalsRepo) LoadAnimals(ctx context.Context) ([]pedigree.Animal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]pedigree.Animal(nil), r.animals...), nil
}
