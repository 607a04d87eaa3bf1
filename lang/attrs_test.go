package lang

import (
	"slices"
	"testing"
)

func TestAttrs_KeysIsCopy(t *testing.T) {
	a := NewAttrs[int]()
	a.Set("b", 1)
	a.Set("a", 2)
	a.Set("b", 3)

	keys := a.Keys()
	slices.Sort(keys)

	if got, want := a.Keys(), []string{"b", "a"}; !slices.Equal(got, want) {
		t.Errorf("Keys() after sorting a copy = %v, want %v", got, want)
	}

	var order []string
	for k := range a.All() {
		order = append(order, k)
	}

	if !slices.Equal(order, []string{"b", "a"}) {
		t.Errorf("All() order = %v", order)
	}

	if v, _ := a.Get("b"); v != 3 {
		t.Errorf("Get(b) = %d, want 3", v)
	}
}

func TestAttrs_ZeroValue(t *testing.T) {
	var a Attrs[string]

	if a.Len() != 0 || a.Keys() != nil || a.Has("x") {
		t.Error("zero value is not empty")
	}

	for range a.All() {
		t.Error("zero value yielded a binding")
	}

	a.Set("x", "y")

	if a.Len() != 1 || !a.Has("x") {
		t.Error("Set on the zero value was lost")
	}
}
