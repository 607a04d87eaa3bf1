package lang

import (
	"maps"
	"slices"
)

// Env is the evaluation environment: a stack of frames, innermost last. Each
// frame holds its local bindings and the sets attached to it by with.
//
// A name resolves to the innermost local binding of that name, else to the
// most recently attached set containing it, searched from the innermost frame
// outward. A name found nowhere resolves to a [Dep] on that name, or fails
// with [ErrUndefinedVariable] when AllowDep is false.
type Env struct {
	frames   []*frame
	AllowDep bool
}

type frame struct {
	locals   map[string]*slot
	attached []*Set
}

// slot holds one binding. A binding created by let or rec is evaluated on
// first use.
type slot struct {
	value Value
	force func() (Value, error)
	state slotState
}

type slotState uint8

const (
	slotReady slotState = iota
	slotPending
	slotForcing
)

// NewEnv returns an environment with one empty frame that permits Dep values.
func NewEnv() *Env {
	return &Env{frames: []*frame{newFrame()}, AllowDep: true}
}

func newFrame() *frame {
	return &frame{locals: make(map[string]*slot)}
}

func (e *Env) top() *frame {
	if len(e.frames) == 0 {
		e.frames = append(e.frames, newFrame())
	}

	return e.frames[len(e.frames)-1]
}

// Depth returns the number of frames.
func (e *Env) Depth() int { return len(e.frames) }

// Push enters a new, empty scope.
func (e *Env) Push() { e.frames = append(e.frames, newFrame()) }

// Pop leaves the innermost scope. The outermost frame is never removed.
func (e *Env) Pop() {
	if len(e.frames) > 1 {
		e.frames = e.frames[:len(e.frames)-1]
	}
}

// Set binds key to v in the innermost frame. Binding a key twice in the same
// frame fails with [ErrDuplicateKey].
func (e *Env) Set(key string, v Value) error {
	f := e.top()

	if _, ok := f.locals[key]; ok {
		return ErrDuplicateKey.Detailf("%q", key)
	}

	f.locals[key] = &slot{value: v}

	return nil
}

// Delete removes the binding of key from the innermost frame.
func (e *Env) Delete(key string) bool {
	f := e.top()

	_, ok := f.locals[key]
	delete(f.locals, key)

	return ok
}

// define binds key in the innermost frame to a value computed on first use.
func (e *Env) define(key string, force func() (Value, error)) {
	e.top().locals[key] = &slot{force: force, state: slotPending}
}

// Get returns the value bound to id in the innermost frame only.
func (e *Env) Get(id string) (Value, bool) {
	s, ok := e.top().locals[id]
	if !ok {
		return nil, false
	}

	v, err := s.get(id)

	return v, err == nil
}

// Resolve returns the value id refers to, following the resolution order
// described on [Env].
func (e *Env) Resolve(id string) (Value, error) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if s, ok := e.frames[i].locals[id]; ok {
			return s.get(id)
		}
	}

	for i := len(e.frames) - 1; i >= 0; i-- {
		attached := e.frames[i].attached
		for j := len(attached) - 1; j >= 0; j-- {
			if v, ok := attached[j].Get(id); ok {
				return v, nil
			}
		}
	}

	if !e.AllowDep {
		return nil, ErrUndefinedVariable.Detailf("%q", id)
	}

	return NewDep(id), nil
}

// Attach makes the attributes of s visible in the innermost frame.
func (e *Env) Attach(s *Set) {
	f := e.top()
	f.attached = append(f.attached, s)
}

// Detach removes the set most recently attached to the innermost frame.
func (e *Env) Detach() {
	f := e.top()
	if n := len(f.attached); n > 0 {
		f.attached[n-1] = nil
		f.attached = f.attached[:n-1]
	}
}

// Names returns every name visible in e, sorted.
func (e *Env) Names() []string {
	seen := make(map[string]struct{})

	for _, f := range e.frames {
		for k := range f.locals {
			seen[k] = struct{}{}
		}

		for _, s := range f.attached {
			for _, k := range s.Keys() {
				seen[k] = struct{}{}
			}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// view returns an environment sharing the outermost n frames of e. Pushing
// onto the view never disturbs e.
func (e *Env) view(n int) *Env {
	return &Env{frames: slices.Clip(e.frames[:n]), AllowDep: e.AllowDep}
}

func (s *slot) get(id string) (Value, error) {
	switch s.state {
	case slotPending:
		s.state = slotForcing

		v, err := s.force()
		if err != nil {
			s.state = slotPending

			return nil, err
		}

		s.value, s.force, s.state = v, nil, slotReady

	case slotForcing:
		return nil, ErrInfiniteRecursion.Detailf("while evaluating %q", id)
	}

	return s.value, nil
}
