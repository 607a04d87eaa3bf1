package lang

import (
	"context"
	"slices"
	"strings"
)

var builtins = []*Func{
	NewFunc("map", 2, builtinMap),
	NewFunc("import", 1, builtinImport),
	NewFunc("toString", 1, builtinToString),
	NewFunc("length", 1, builtinLength),
	NewFunc("attrNames", 1, builtinAttrNames),
	NewFunc("isNull", 1, builtinIsNull),
	NewFunc("head", 1, builtinHead),
	NewFunc("tail", 1, builtinTail),
}

// Builtins returns an environment whose outermost frame binds the builtin
// functions, with an empty frame pushed above it for user bindings.
func Builtins() *Env {
	env := NewEnv()

	for _, f := range builtins {
		_ = env.Set(f.Name, f)
	}

	env.Push()

	return env
}

// BuiltinNames returns the names of the builtin functions, sorted.
func BuiltinNames() []string {
	names := make([]string, len(builtins))
	for i, f := range builtins {
		names[i] = f.Name
	}

	slices.Sort(names)

	return names
}

func builtinMap(ctx context.Context, c Caller, args []Value) (Value, error) {
	fn := args[0]

	switch list := args[1].(type) {
	case Dep:
		return list, nil

	case List:
		out := make(List, len(list))

		for i, e := range list {
			v, err := c.Apply(ctx, fn, e)
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return out, nil
	}

	return nil, expected("map", TypeList, args[1])
}

func builtinImport(ctx context.Context, c Caller, args []Value) (Value, error) {
	return c.Import(ctx, args[0])
}

func builtinToString(_ context.Context, _ Caller, args []Value) (Value, error) {
	s, ok := coerceString(args[0])
	if !ok {
		return nil, expected("toString", TypeStr, args[0])
	}

	return Str(s), nil
}

func coerceString(v Value) (string, bool) {
	switch v := v.(type) {
	case Str:
		return string(v), true
	case Path:
		return string(v), true
	case NixPath:
		return string(v), true
	case Int, Flo:
		return v.String(), true
	case Bool:
		if v {
			return "1", true
		}

		return "", true
	case Null:
		return "", true

	case List:
		parts := make([]string, 0, len(v))

		for _, e := range v {
			s, ok := coerceString(e)
			if !ok {
				return "", false
			}

			parts = append(parts, s)
		}

		return strings.Join(parts, " "), true
	}

	return "", false
}

func builtinLength(_ context.Context, _ Caller, args []Value) (Value, error) {
	if list, ok := args[0].(List); ok {
		return Int(len(list)), nil
	}

	return nil, expected("length", TypeList, args[0])
}

func builtinAttrNames(_ context.Context, _ Caller, args []Value) (Value, error) {
	set, ok := args[0].(*Set)
	if !ok {
		return nil, expected("attrNames", TypeSet, args[0])
	}

	keys := slices.Sorted(slices.Values(set.Keys()))

	out := make(List, len(keys))
	for i, k := range keys {
		out[i] = Str(k)
	}

	return out, nil
}

func builtinIsNull(_ context.Context, _ Caller, args []Value) (Value, error) {
	_, ok := args[0].(Null)

	return Bool(ok), nil
}

func builtinHead(_ context.Context, _ Caller, args []Value) (Value, error) {
	list, ok := args[0].(List)
	if !ok {
		return nil, expected("head", TypeList, args[0])
	}

	if len(list) == 0 {
		return nil, ErrEmptyList.Detailf("head")
	}

	return list[0], nil
}

func builtinTail(_ context.Context, _ Caller, args []Value) (Value, error) {
	list, ok := args[0].(List)
	if !ok {
		return nil, expected("tail", TypeList, args[0])
	}

	if len(list) == 0 {
		return nil, ErrEmptyList.Detailf("tail")
	}

	return slices.Clone(list[1:]), nil
}

func expected(fn string, want Type, got Value) error {
	return ErrTypeMismatch.Detailf("%s expects a %s, found %s", fn, want, got.Type())
}
