package pedigree

import "context"

// Source entrega un snapshot completo de animales. El motor nunca carga parcialmente.
type Source interface {
	LoadAnimals(ctx context.Context) ([]Animal, error)
}
