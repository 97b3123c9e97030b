package pedigree

import "sync/atomic"

// Snapshot guarda el Store vigente. Un refresh es un swap atómico:
// los cálculos en curso siguen viendo el Store que leyeron al empezar.
type Snapshot struct {
	cur atomic.Pointer[Store]
}

func (s *Snapshot) Current() (*Store, error) {
	st := s.cur.Load()
	if st == nil {
		return nil, ErrNoSnapshot
	}
	return st, nil
}

// Swap instala next y devuelve el anterior (nil si no había).
func (s *Snapshot) Swap(next *Store) *Store {
	return s.cur.Swap(next)
}
