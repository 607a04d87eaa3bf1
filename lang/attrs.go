package lang

import (
	"iter"
	"slices"

	"github.com/iancoleman/orderedmap"
)

// Attrs is an insertion-ordered mapping from names to T. Setting an existing
// name replaces its value and keeps its original position.
//
// The zero value is an empty mapping ready to use.
type Attrs[T any] struct {
	m *orderedmap.OrderedMap
}

// NewAttrs returns an empty mapping.
func NewAttrs[T any]() *Attrs[T] {
	return &Attrs[T]{m: orderedmap.New()}
}

// Set binds name to v.
func (a *Attrs[T]) Set(name string, v T) {
	if a.m == nil {
		a.m = orderedmap.New()
	}

	a.m.Set(name, v)
}

// Get returns the value bound to name.
func (a *Attrs[T]) Get(name string) (T, bool) {
	var zero T

	if a == nil || a.m == nil {
		return zero, false
	}

	v, ok := a.m.Get(name)
	if !ok {
		return zero, false
	}

	t, ok := v.(T)

	return t, ok
}

// Has reports whether name is bound.
func (a *Attrs[T]) Has(name string) bool {
	_, ok := a.Get(name)

	return ok
}

// Keys returns a copy of the bound names in insertion order.
func (a *Attrs[T]) Keys() []string {
	if a == nil || a.m == nil {
		return nil
	}

	return slices.Clone(a.m.Keys())
}

// Len returns the number of bound names.
func (a *Attrs[T]) Len() int {
	if a == nil || a.m == nil {
		return 0
	}

	return len(a.m.Keys())
}

// All returns an iterator over the bindings in insertion order.
func (a *Attrs[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		if a == nil || a.m == nil {
			return
		}

		for _, k := range a.m.Keys() {
			v, _ := a.Get(k)
			if !yield(k, v) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of a.
func (a *Attrs[T]) Clone() *Attrs[T] {
	c := NewAttrs[T]()

	for k, v := range a.All() {
		c.Set(k, v)
	}

	return c
}
