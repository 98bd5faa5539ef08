package css

import (
	"errors"
	"testing"
)

func TestRegister(t *testing.T) {
	Register("my-func", func(_ Node, _ []any) (any, error) {
		return true, nil
	})
	if _, ok := Lookup("my_func"); !ok {
		t.Fatalf("function not registered")
	}
	if isRaw("my-func") {
		t.Errorf("function should not be raw")
	}
	RegisterRaw("my-func", func(_ Node, _ []any) (any, error) {
		return true, nil
	})
	if !isRaw("my_func") {
		t.Errorf("function should be raw after replacement")
	}
	Unregister("my_func")
	if _, ok := Lookup("my-func"); ok {
		t.Errorf("function still registered")
	}
}

func TestBuiltins(t *testing.T) {
	for _, name := range []string{"empty", "target"} {
		if _, ok := Lookup(name); !ok {
			t.Errorf("%s: builtin function missing", name)
		}
	}
}

func TestScope(t *testing.T) {
	called := errors.New("override")
	Register("scoped", func(_ Node, _ []any) (any, error) {
		return false, nil
	})
	defer Unregister("scoped")

	funcs := Funcs{
		"scoped": func(_ Node, _ []any) (any, error) {
			return nil, called
		},
	}
	fn, err := resolve(funcs.scope(), "scoped")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := fn.Call(nil, nil); !errors.Is(err, called) {
		t.Errorf("override not used")
	}
	if _, err := resolve(funcs.scope(), "empty"); err != nil {
		t.Errorf("registry not visible through override: %s", err)
	}

	var none Funcs
	fn, err = resolve(none.scope(), "scoped")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := fn.Call(nil, nil); err != nil {
		t.Errorf("registered function expected")
	}

	_, err = resolve(none.scope(), "missing")
	var ferr UnknownFunctionError
	if !errors.As(err, &ferr) || ferr.Name != "missing" {
		t.Errorf("expected unknown function error, got %v", err)
	}
}

func TestTruthy(t *testing.T) {
	var (
		nilNode Node
		nilList []Node
	)
	tests := []struct {
		Value any
		Want  bool
	}{
		{Value: nil, Want: false},
		{Value: true, Want: true},
		{Value: false, Want: false},
		{Value: "", Want: false},
		{Value: "x", Want: true},
		{Value: 0, Want: false},
		{Value: 2, Want: true},
		{Value: 0.0, Want: false},
		{Value: 1.5, Want: true},
		{Value: nilNode, Want: false},
		{Value: nilList, Want: false},
		{Value: []Node{nil}, Want: true},
		{Value: map[string]int(nil), Want: false},
		{Value: struct{}{}, Want: true},
	}
	for _, c := range tests {
		got, err := truthy(c.Value)
		if err != nil {
			t.Errorf("%v: unexpected error: %s", c.Value, err)
			continue
		}
		if got != c.Want {
			t.Errorf("%#v: truthy mismatched! want %t, got %t", c.Value, c.Want, got)
		}
	}
}
