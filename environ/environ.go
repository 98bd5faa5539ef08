package environ

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

var ErrDefined = errors.New("undefined identifier")

type Environ[T any] interface {
	Resolve(string) (T, error)
	Define(string, T)
	Delete(string)
	Names() []string
	Len() int
}

type Env[T any] struct {
	values map[string]T
	parent Environ[T]
}

func Empty[T any]() Environ[T] {
	return Enclosed[T](nil)
}

func Enclosed[T any](parent Environ[T]) Environ[T] {
	e := Env[T]{
		values: make(map[string]T),
		parent: parent,
	}
	return &e
}

func (e *Env[T]) Len() int {
	return len(e.values)
}

func (e *Env[T]) Names() []string {
	names := slices.Collect(maps.Keys(e.values))
	slices.Sort(names)
	return names
}

func (e *Env[T]) Define(ident string, value T) {
	e.values[ident] = value
}

// Delete only removes ident from e. A definition of the same name in the
// parent is visible again afterwards.
func (e *Env[T]) Delete(ident string) {
	delete(e.values, ident)
}

func (e *Env[T]) Resolve(ident string) (T, error) {
	value, ok := e.values[ident]
	if ok {
		return value, nil
	}
	if e.parent != nil {
		return e.parent.Resolve(ident)
	}
	var t T
	return t, fmt.Errorf("%s: %w", ident, ErrDefined)
}

func (e *Env[T]) Unwrap() Environ[T] {
	if e.parent == nil {
		return e
	}
	return e.parent
}

// Locked serializes the access to an Environ. Lookups can run in parallel,
// definitions and deletions are exclusive.
type Locked[T any] struct {
	mu  sync.RWMutex
	env Environ[T]
}

func Guard[T any](env Environ[T]) Environ[T] {
	if env == nil {
		env = Empty[T]()
	}
	return &Locked[T]{
		env: env,
	}
}

func (e *Locked[T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.env.Len()
}

func (e *Locked[T]) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.env.Names()
}

func (e *Locked[T]) Define(ident string, value T) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.env.Define(ident, value)
}

func (e *Locked[T]) Delete(ident string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.env.Delete(ident)
}

func (e *Locked[T]) Resolve(ident string) (T, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.env.Resolve(ident)
}
