package lang

import (
	"context"
	"slices"
	"strings"
)

// Type identifies the variant of a [Value].
type Type int

const (
	TypeInvalid Type = iota // invalid
	TypeStr                 // Str
	TypePath                // Path
	TypeNixPath             // NixPath
	TypeInt                 // Int
	TypeFlo                 // Flo
	TypeBool                // Bool
	TypeNull                // Null
	TypeList                // List
	TypeSet                 // Set
	TypeFunc                // Func
	TypePFunc               // PFunc
	TypeDep                 // Dep
)

// Value is the result of evaluating an expression.
//
// String renders the value in source syntax; see [FormatValue].
type Value interface {
	Type() Type
	String() string
}

type (
	// Str is a string. Strings produced from literals share the source text.
	Str string
	// Path is a filesystem path literal such as ./default.nix.
	Path string
	// NixPath is a search path lookup such as <nixpkgs>, without brackets.
	NixPath string
	// Int is a 64-bit integer.
	Int int64
	// Flo is a 64-bit floating point number.
	Flo float64
	// Bool is true or false.
	Bool bool
	// Null is the null value.
	Null struct{}
	// List is an ordered sequence of values.
	List []Value
)

// Set is an ordered attribute set.
type Set struct {
	Attrs[Value]
}

// NewSet returns an empty attribute set.
func NewSet() *Set { return &Set{} }

// Builtin implements a host function. It receives exactly as many arguments
// as the arity of the [Func] it backs.
type Builtin func(ctx context.Context, c Caller, args []Value) (Value, error)

// Caller gives builtins access to the evaluator that applies them.
type Caller interface {
	// Apply calls fn with arg.
	Apply(ctx context.Context, fn, arg Value) (Value, error)
	// Import loads the expression at path.
	Import(ctx context.Context, path Value) (Value, error)
}

// Func is a host function of fixed arity. Applying it to fewer arguments
// than its arity yields a [PFunc].
type Func struct {
	Name  string
	Call  Builtin
	Arity int
}

// NewFunc returns a function value named name.
func NewFunc(name string, arity int, call Builtin) *Func {
	return &Func{Name: name, Arity: max(arity, 1), Call: call}
}

// PFunc is a partially applied [Func].
type PFunc struct {
	Func *Func
	Args []Value
}

// Dep stands for a value that depends on names not yet bound. It absorbs
// every operation it takes part in.
type Dep struct {
	names []string
}

// NewDep returns a Dep on the given names.
func NewDep(names ...string) Dep {
	names = slices.Clone(names)
	slices.Sort(names)

	return Dep{names: slices.Compact(names)}
}

// Names returns the unresolved names in sorted order.
func (d Dep) Names() []string { return slices.Clone(d.names) }

// Union returns a Dep on the names of both d and o.
func (d Dep) Union(o Dep) Dep {
	return NewDep(append(slices.Clone(d.names), o.names...)...)
}

func (Str) Type() Type     { return TypeStr }
func (Path) Type() Type    { return TypePath }
func (NixPath) Type() Type { return TypeNixPath }
func (Int) Type() Type     { return TypeInt }
func (Flo) Type() Type     { return TypeFlo }
func (Bool) Type() Type    { return TypeBool }
func (Null) Type() Type    { return TypeNull }
func (List) Type() Type    { return TypeList }
func (*Set) Type() Type    { return TypeSet }
func (*Func) Type() Type   { return TypeFunc }
func (*PFunc) Type() Type  { return TypePFunc }
func (Dep) Type() Type     { return TypeDep }

func (v Str) String() string     { return FormatValue(v) }
func (v Path) String() string    { return FormatValue(v) }
func (v NixPath) String() string { return FormatValue(v) }
func (v Int) String() string     { return FormatValue(v) }
func (v Flo) String() string     { return FormatValue(v) }
func (v Bool) String() string    { return FormatValue(v) }
func (v Null) String() string    { return FormatValue(v) }
func (v List) String() string    { return FormatValue(v) }
func (v *Set) String() string    { return FormatValue(v) }
func (v *Func) String() string   { return FormatValue(v) }
func (v *PFunc) String() string  { return FormatValue(v) }
func (v Dep) String() string     { return FormatValue(v) }

// IsDep reports whether v is a [Dep].
func IsDep(v Value) bool {
	_, ok := v.(Dep)

	return ok
}

// IsFunc reports whether v can be applied.
func IsFunc(v Value) bool {
	switch v.(type) {
	case *Func, *PFunc:
		return true
	}

	return false
}

// Equal reports whether a and b are structurally equal. Functions are never
// equal to anything, themselves included. Values of distinct types are
// unequal, so 1 and 1.0 differ.
func Equal(a, b Value) bool {
	if IsFunc(a) || IsFunc(b) {
		return false
	}

	switch a := a.(type) {
	case Str, Path, NixPath, Int, Flo, Bool, Null:
		return a == b

	case List:
		b, ok := b.(List)
		if !ok || len(a) != len(b) {
			return false
		}

		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}

		return true

	case *Set:
		b, ok := b.(*Set)
		if !ok || a.Len() != b.Len() {
			return false
		}

		for k, av := range a.All() {
			bv, ok := b.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}

		return true

	case Dep:
		b, ok := b.(Dep)

		return ok && slices.Equal(a.names, b.names)
	}

	return false
}

func toFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int:
		return float64(v), true
	case Flo:
		return float64(v), true
	}

	return 0, false
}

// FormatValue renders v in source syntax. Functions render as <function> and
// Dep values as <dep: a, b>.
func FormatValue(v Value) string {
	var sb strings.Builder

	formatValue(&sb, v)

	return sb.String()
}

func formatValue(sb *strings.Builder, v Value) {
	switch v := v.(type) {
	case Str:
		sb.WriteString(quote(string(v)))
	case Path:
		sb.WriteString(string(v))
	case NixPath:
		sb.WriteString("<" + string(v) + ">")
	case Int:
		sb.WriteString(formatInt(int64(v)))
	case Flo:
		sb.WriteString(formatFloat(float64(v)))
	case Bool:
		if v {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case Null:
		sb.WriteString("null")

	case List:
		sb.WriteByte('[')

		for _, e := range v {
			sb.WriteByte(' ')
			formatValue(sb, e)
		}

		sb.WriteString(" ]")

	case *Set:
		sb.WriteByte('{')

		for k, e := range v.All() {
			sb.WriteString(" " + k + " = ")
			formatValue(sb, e)
			sb.WriteByte(';')
		}

		sb.WriteString(" }")

	case *Func, *PFunc:
		sb.WriteString("<function>")

	case Dep:
		sb.WriteString("<dep: " + strings.Join(v.names, ", ") + ">")

	default:
		sb.WriteString("<invalid>")
	}
}

// quote delimits s so that it reads back as the same string. Strings have no
// escapes, so a string containing a double quote uses the indented form.
func quote(s string) string {
	if strings.Contains(s, `"`) && !strings.Contains(s, "''") {
		return "''" + s + "''"
	}

	return `"` + s + `"`
}
