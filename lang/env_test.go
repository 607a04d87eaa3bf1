package lang

import (
	"errors"
	"slices"
	"testing"
)

func setOf(pairs ...any) *Set {
	s := NewSet()
	for i := 0; i+1 < len(pairs); i += 2 {
		s.Set(pairs[i].(string), pairs[i+1].(Value))
	}

	return s
}

func TestEnv_SetGet(t *testing.T) {
	env := NewEnv()

	if err := env.Set("a", Int(1)); err != nil {
		t.Fatal(err)
	}

	if err := env.Set("a", Int(2)); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate Set error = %v, want %v", err, ErrDuplicateKey)
	}

	if v, ok := env.Get("a"); !ok || v != Int(1) {
		t.Errorf("Get(a) = %v, %t", v, ok)
	}

	env.Push()

	if _, ok := env.Get("a"); ok {
		t.Error("Get found a binding of an outer frame")
	}

	if err := env.Set("a", Int(3)); err != nil {
		t.Errorf("shadowing in a new frame failed: %v", err)
	}

	if !env.Delete("a") || env.Delete("a") {
		t.Error("Delete did not report the binding exactly once")
	}
}

func TestEnv_Resolve(t *testing.T) {
	env := NewEnv()
	_ = env.Set("a", Int(1))

	env.Push()
	env.Attach(setOf("a", Int(2), "b", Int(3), "c", Int(6)))

	tests := []struct {
		name  string
		setup func()
		id    string
		want  Value
	}{
		{name: "outer local before attached set", id: "a", want: Int(1)},
		{name: "attached set", id: "b", want: Int(3)},
		{
			name:  "most recent attachment first",
			setup: func() { env.Attach(setOf("b", Int(4))) },
			id:    "b",
			want:  Int(4),
		},
		{
			name:  "detach restores earlier attachment",
			setup: env.Detach,
			id:    "b",
			want:  Int(3),
		},
		{
			name: "innermost frame attachment first",
			setup: func() {
				env.Push()
				env.Attach(setOf("c", Int(5)))
			},
			id:   "c",
			want: Int(5),
		},
		{
			name:  "pop drops the frame and its attachments",
			setup: env.Pop,
			id:    "c",
			want:  Int(6),
		},
		{name: "unbound name is a dep", id: "zzz", want: NewDep("zzz")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}

			got, err := env.Resolve(tt.id)
			if err != nil {
				t.Fatal(err)
			}

			if !Equal(got, tt.want) {
				t.Errorf("Resolve(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestEnv_DisallowDep(t *testing.T) {
	env := NewEnv()
	env.AllowDep = false

	_, err := env.Resolve("missing")
	if !errors.Is(err, ErrUndefinedVariable) {
		t.Errorf("error = %v, want %v", err, ErrUndefinedVariable)
	}
}

func TestEnv_PopKeepsOutermostFrame(t *testing.T) {
	env := NewEnv()
	_ = env.Set("a", Int(1))

	env.Pop()
	env.Pop()

	if env.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", env.Depth())
	}

	if _, ok := env.Get("a"); !ok {
		t.Error("outermost binding lost")
	}
}

func TestEnv_Names(t *testing.T) {
	env := NewEnv()
	_ = env.Set("zeta", Null{})

	env.Push()
	_ = env.Set("alpha", Null{})
	env.Attach(setOf("beta", Null{}, "alpha", Null{}))

	want := []string{"alpha", "beta", "zeta"}
	if got := env.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestEnv_LazyBinding(t *testing.T) {
	env := NewEnv()
	calls := 0

	env.define("x", func() (Value, error) {
		calls++

		return Int(7), nil
	})

	for range 3 {
		v, err := env.Resolve("x")
		if err != nil || v != Int(7) {
			t.Fatalf("Resolve(x) = %v, %v", v, err)
		}
	}

	if calls != 1 {
		t.Errorf("binding evaluated %d times, want 1", calls)
	}

	env.define("loop", func() (Value, error) { return env.Resolve("loop") })

	if _, err := env.Resolve("loop"); !errors.Is(err, ErrInfiniteRecursion) {
		t.Errorf("error = %v, want %v", err, ErrInfiniteRecursion)
	}
}

func TestBuiltins(t *testing.T) {
	env := Builtins()

	for _, name := range BuiltinNames() {
		v, err := env.Resolve(name)
		if err != nil {
			t.Fatal(err)
		}

		if v.Type() != TypeFunc {
			t.Errorf("builtin %s has type %s", name, v.Type())
		}
	}

	if err := env.Set("map", Null{}); err != nil {
		t.Errorf("user frame rejected shadowing a builtin: %v", err)
	}
}
