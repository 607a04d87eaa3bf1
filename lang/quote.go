package lang

import "math"

// IsIdent reports whether name can be written as an identifier, that is, a
// binding name or attribute that needs no quoting.
func IsIdent(name string) bool {
	if name == "" || !isIdentStart(name[0]) {
		return false
	}

	for i := 1; i < len(name); i++ {
		if !isIdentPart(name[i]) {
			return false
		}
	}

	_, reserved := keywords[name]

	return !reserved
}

// Quote returns an expression that evaluates to v. Functions, [Dep] values,
// non-finite floats and sets with attribute names that are not identifiers
// have no source form and fail with [ErrUnsupported].
func Quote(v Value) (Node, error) {
	switch v := v.(type) {
	case nil:
		return nil, ErrUnsupported.Detailf("nil value")
	case Str:
		return &Literal{Type: TypeStr, Text: string(v)}, nil
	case Path:
		return &Literal{Type: TypePath, Text: string(v)}, nil
	case NixPath:
		return &Literal{Type: TypeNixPath, Text: string(v)}, nil
	case Int:
		return &Literal{Type: TypeInt, Int: int64(v)}, nil
	case Flo:
		if math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) {
			return nil, ErrUnsupported.Detailf("float %v", float64(v))
		}

		return &Literal{Type: TypeFlo, Flo: float64(v)}, nil
	case Bool:
		return &Literal{Type: TypeBool, Bool: bool(v)}, nil
	case Null:
		return &Literal{Type: TypeNull}, nil

	case List:
		elems := make([]Node, len(v))

		for i, e := range v {
			n, err := Quote(e)
			if err != nil {
				return nil, err
			}

			elems[i] = n
		}

		return &ListExpr{Elems: elems}, nil

	case *Set:
		bindings := NewAttrs[*Binding]()

		for k, e := range v.All() {
			if !IsIdent(k) {
				return nil, ErrUnsupported.Detailf("attribute name %q", k)
			}

			n, err := Quote(e)
			if err != nil {
				return nil, err
			}

			bindings.Set(k, &Binding{Name: k, Expr: n})
		}

		return &SetExpr{Bindings: bindings}, nil

	default:
		return nil, ErrUnsupported.Detailf("%s has no source form", v.Type())
	}
}
