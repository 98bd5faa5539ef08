package css

import (
	"errors"
	"strings"

	"github.com/midbel/joy/environ"
)

// Func is the signature of a pseudo class function. It receives the candidate
// node and the arguments given in the selector:
//
//   - Nth for complex numbers,
//   - string for quoted strings and raw identifiers,
//   - float64 for numbers,
//   - *Sequence for selectors, evaluated with node as start node.
//
// The candidate is accepted when the returned value is truthy.
type Func func(node Node, args []any) (any, error)

type Function struct {
	Call Func
	// Raw makes the parser pass a bare identifier as a string instead of
	// compiling it as a selector.
	Raw bool
}

// Funcs overrides the registered functions for one evaluation.
type Funcs map[string]Func

var registry = environ.Guard(builtins())

func builtins() environ.Environ[Function] {
	env := environ.Empty[Function]()
	env.Define("empty", Function{Call: callEmpty})
	env.Define("target", Function{Call: callTarget})
	return env
}

func Register(name string, fn Func) {
	registry.Define(funcName(name), Function{Call: fn})
}

func RegisterRaw(name string, fn Func) {
	registry.Define(funcName(name), Function{Call: fn, Raw: true})
}

func Unregister(name string) {
	registry.Delete(funcName(name))
}

// Lookup returns the function registered under name.
func Lookup(name string) (Function, bool) {
	fn, err := registry.Resolve(funcName(name))
	return fn, err == nil
}

func isRaw(name string) bool {
	fn, ok := Lookup(name)
	return ok && fn.Raw
}

// scope layers the per call functions over the registry.
func (f Funcs) scope() environ.Environ[Function] {
	if len(f) == 0 {
		return registry
	}
	env := environ.Enclosed(registry)
	for name, fn := range f {
		env.Define(funcName(name), Function{Call: fn})
	}
	return env
}

func resolve(env environ.Environ[Function], name string) (Function, error) {
	fn, err := env.Resolve(name)
	if err != nil {
		if errors.Is(err, environ.ErrDefined) {
			return fn, UnknownFunctionError{Name: name}
		}
		return fn, err
	}
	if fn.Call == nil {
		return fn, UnknownFunctionError{Name: name}
	}
	return fn, nil
}

func funcName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func callEmpty(node Node, _ []any) (any, error) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Kind() != TextNode || c.Text() != "" {
			return false, nil
		}
	}
	return true, nil
}

func callTarget(node Node, _ []any) (any, error) {
	frag := infoFromNode(node).fragment()
	if frag == "" {
		return false, nil
	}
	id, ok := node.Attr("id")
	return ok && id == frag, nil
}
