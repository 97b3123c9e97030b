package pedigree

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownAnimal    = errors.New("unknown animal")
	ErrInvalidPair      = errors.New("invalid pair")
	ErrConfiguration    = errors.New("invalid configuration")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNoSnapshot       = errors.New("pedigree snapshot not loaded")
	ErrDuplicatedAnimal = errors.New("duplicated animal id")
)

// AnimalError lleva el id ofensivo; unwrap al sentinel.
type AnimalError struct {
	ID  string
	Err error
}

func (e *AnimalError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.ID)
}

func (e *AnimalError) Unwrap() error { return e.Err }

func unknownAnimal(id string) error {
	return &AnimalError{ID: id, Err: ErrUnknownAnimal}
}

func invalidPair(id string, reason string) error {
	return &AnimalError{ID: id, Err: fmt.Errorf("%w: %s", ErrInvalidPair, reason)}
}
