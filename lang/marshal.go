package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/iancoleman/orderedmap"
)

// ToNative converts v to plain Go values: string, int64, float64, bool, nil,
// []any and map[string]any. Functions become the string "<function>" and Dep
// values the string "<dep: ...>".
func ToNative(v Value) any {
	switch v := v.(type) {
	case Str:
		return string(v)
	case Path:
		return string(v)
	case NixPath:
		return FormatValue(v)
	case Int:
		return int64(v)
	case Flo:
		return float64(v)
	case Bool:
		return bool(v)

	case List:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = ToNative(e)
		}

		return out

	case *Set:
		out := make(map[string]any, v.Len())
		for k, e := range v.All() {
			out[k] = ToNative(e)
		}

		return out

	case *Func, *PFunc, Dep:
		return FormatValue(v)
	}

	return nil
}

// FromNative converts a Go value to a [Value]. Maps become sets with their
// keys in sorted order, except ordered maps, which keep theirs.
func FromNative(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case string:
		return Str(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case float64:
		return Flo(x), nil

	case []any:
		out := make(List, len(x))

		for i, e := range x {
			v, err := FromNative(e)
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return out, nil

	case map[string]any:
		return setFromNative(sortedKeys(x), func(k string) any { return x[k] })

	case *orderedmap.OrderedMap:
		return setFromNative(x.Keys(), func(k string) any {
			v, _ := x.Get(k)

			return v
		})

	case orderedmap.OrderedMap:
		return FromNative(&x)
	}

	return fromReflect(reflect.ValueOf(x))
}

func setFromNative(keys []string, get func(string) any) (Value, error) {
	out := NewSet()

	for _, k := range keys {
		v, err := FromNative(get(k))
		if err != nil {
			return nil, err
		}

		out.Set(k, v)
	}

	return out, nil
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int(rv.Uint()), nil

	case reflect.Float32, reflect.Float64:
		return Flo(rv.Float()), nil

	case reflect.String:
		return Str(rv.String()), nil

	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.Slice, reflect.Array:
		out := make(List, rv.Len())

		for i := range rv.Len() {
			v, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return out, nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}

		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}

		slices.Sort(keys)

		return setFromNative(keys, func(k string) any {
			return rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()
		})

	case reflect.Pointer:
		if rv.IsNil() {
			return Null{}, nil
		}

		return FromNative(rv.Elem().Interface())

	case reflect.Invalid:
		return Null{}, nil
	}

	return nil, ErrTypeMismatch.Detailf("cannot convert %s to a value", rv.Type())
}

// ordered converts v like [ToNative], except that sets become ordered maps so
// that encoders keep their attribute order.
func ordered(v Value) any {
	switch v := v.(type) {
	case List:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = ordered(e)
		}

		return out

	case *Set:
		out := orderedmap.New()

		for k, e := range v.All() {
			out.Set(k, ordered(e))
		}

		return out
	}

	return ToNative(v)
}

// MarshalJSON encodes the set as a JSON object in attribute order.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(ordered(s))
}

// MarshalJSON encodes the list as a JSON array.
func (v List) MarshalJSON() ([]byte, error) {
	return json.Marshal(ordered(v))
}

// MarshalYAML encodes the set as a YAML mapping in attribute order.
func (s *Set) MarshalYAML() (any, error) {
	return yamlOrdered(ordered(s)), nil
}

// yamlOrdered replaces the ordered maps in x with YAML map slices.
func yamlOrdered(x any) any {
	switch x := x.(type) {
	case *orderedmap.OrderedMap:
		out := make(yaml.MapSlice, 0, len(x.Keys()))

		for _, k := range x.Keys() {
			v, _ := x.Get(k)
			out = append(out, yaml.MapItem{Key: k, Value: yamlOrdered(v)})
		}

		return out

	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = yamlOrdered(e)
		}

		return out
	}

	return x
}

// WriteJSON writes v to w as JSON followed by a newline. A positive indent
// pretty-prints the output.
func WriteJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// WriteYAML writes v to w as YAML. A positive indent selects block style with
// that indentation; otherwise flow style is used.
func WriteYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, yamlOrdered(v), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// Encodable returns the form of v that [WriteJSON] and [WriteYAML] encode
// with set attributes in order.
func Encodable(v Value) any { return ordered(v) }

// ToTree converts the AST to a tagged tree of ordered maps, one per node, each
// with a "kind" key naming the node variant.
func (ast *AST) ToTree() any { return nodeTree(ast.Root) }

// MarshalJSON implements json.Marshaler for AST.
func (ast *AST) MarshalJSON() ([]byte, error) {
	return json.Marshal(ast.ToTree())
}

func nodeTree(n Node) any {
	m := orderedmap.New()
	m.Set("kind", NodeName(n))

	switch n := n.(type) {
	case *Literal:
		m.Set("value", ToNative(literalValue(n)))
	case *Ident:
		m.Set("name", n.Name)
	case *UnaryExpr:
		m.Set("operand", nodeTree(n.Operand))
	case *BinaryExpr:
		m.Set("left", nodeTree(n.Left))
		m.Set("right", nodeTree(n.Right))
	case *SetExpr:
		m.Set("bindings", bindingsTree(n.Bindings))
	case *LetExpr:
		m.Set("bindings", bindingsTree(n.Bindings))
		m.Set("body", nodeTree(n.Body))

	case *ListExpr:
		elems := make([]any, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = nodeTree(e)
		}

		m.Set("elems", elems)

	case *WithExpr:
		m.Set("scope", nodeTree(n.Scope))
		m.Set("body", nodeTree(n.Body))
	case *IfExpr:
		m.Set("cond", nodeTree(n.Cond))
		m.Set("then", nodeTree(n.Then))
		m.Set("else", nodeTree(n.Else))
	case *SelectExpr:
		m.Set("target", nodeTree(n.Target))
		m.Set("field", n.Field)
	case *ApplyExpr:
		m.Set("func", nodeTree(n.Func))
		m.Set("arg", nodeTree(n.Arg))
	}

	return m
}

func bindingsTree(bindings *Bindings) any {
	m := orderedmap.New()

	for name, b := range bindings.All() {
		if b.Inherited {
			m.Set(name, map[string]any{"kind": "Inherit"})

			continue
		}

		m.Set(name, nodeTree(b.Expr))
	}

	return m
}
