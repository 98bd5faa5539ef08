package css

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Condition is a predicate attached to a step. Conditions of a step are
// evaluated in order of increasing tier and the first failing one rejects the
// candidate.
type Condition interface {
	Tier() int
	String() string

	test(*candidate) (bool, error)
}

type attrCond struct {
	name  string
	op    string
	value string
}

func (_ attrCond) Tier() int {
	return 0
}

func (c attrCond) String() string {
	if c.op == "" {
		return "@" + c.name
	}
	return fmt.Sprintf("@%s%s%q", c.name, c.op, c.value)
}

func (c attrCond) test(cdt *candidate) (bool, error) {
	val, ok := cdt.node.Attr(c.name)
	switch c.op {
	case "":
		return ok, nil
	case "=":
		return ok && val == c.value, nil
	case "!=":
		return val != c.value, nil
	case "^=":
		return c.value != "" && strings.HasPrefix(val, c.value), nil
	case "$=":
		return c.value != "" && strings.HasSuffix(val, c.value), nil
	case "*=":
		return c.value != "" && strings.Contains(val, c.value), nil
	case "|=":
		return ok && (val == c.value || strings.HasPrefix(val, c.value+"-")), nil
	case "~=":
		if c.value == "" || strings.ContainsAny(c.value, " \t\n\r\f") {
			return false, nil
		}
		return strings.Contains(" "+normalizeSpace(val)+" ", " "+c.value+" "), nil
	default:
		return false, fmt.Errorf("%s: unsupported attribute operator", c.op)
	}
}

func normalizeSpace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

type rootCond struct{}

func (_ rootCond) Tier() int {
	return 0
}

func (_ rootCond) String() string {
	return "root()"
}

func (_ rootCond) test(cdt *candidate) (bool, error) {
	return elementParent(cdt.node) == nil, nil
}

// axisFirst accepts the first element met along the axis of its step.
type axisFirst struct{}

func (_ axisFirst) Tier() int {
	return 0
}

func (_ axisFirst) String() string {
	return "position()=1"
}

func (_ axisFirst) test(cdt *candidate) (bool, error) {
	return cdt.axisPos == 1, nil
}

type childKind int8

const (
	childFirst childKind = iota
	childLast
	childOnly
	childNth
	childNthLast
)

type childCond struct {
	kind  childKind
	typed bool
	nth   Nth
}

func (_ childCond) Tier() int {
	return 1
}

func (c childCond) String() string {
	var name string
	switch c.kind {
	case childFirst:
		name = "first"
	case childLast:
		name = "last"
	case childOnly:
		name = "only"
	case childNth:
		name = "nth(" + c.nth.String() + ")"
	case childNthLast:
		name = "nth-last(" + c.nth.String() + ")"
	}
	if c.typed {
		return name + "-of-type"
	}
	return name + "-child"
}

func (c childCond) test(cdt *candidate) (bool, error) {
	var pos, count int
	switch c.kind {
	case childFirst, childNth:
		pos = cdt.position(c.typed)
	case childLast, childNthLast:
		pos = cdt.position(c.typed)
		count = cdt.count(c.typed)
	case childOnly:
		count = cdt.count(c.typed)
	}
	switch c.kind {
	case childFirst:
		return pos == 0, nil
	case childLast:
		return pos == count-1, nil
	case childOnly:
		return count == 1, nil
	case childNth:
		return c.nth.Match(pos + 1), nil
	case childNthLast:
		return c.nth.Match(count - pos), nil
	default:
		return false, nil
	}
}

type fixedCond string

const (
	fixedDisabled fixedCond = "disabled"
	fixedEnabled  fixedCond = "enabled"
	fixedChecked  fixedCond = "checked"
	fixedLink     fixedCond = "link"
	fixedVisited  fixedCond = "visited"
	fixedInput    fixedCond = "input"
)

func (_ fixedCond) Tier() int {
	return 0
}

func (c fixedCond) String() string {
	return string(c) + "()"
}

func (c fixedCond) test(cdt *candidate) (bool, error) {
	var (
		name = cdt.name(cdt.node)
		has  = func(n Node, attr string) bool {
			_, ok := n.Attr(attr)
			return ok
		}
	)
	switch c {
	case fixedDisabled:
		if has(cdt.node, "disabled") && name != "style" {
			return true, nil
		}
		p := elementParent(cdt.node)
		return p != nil && has(p, "disabled"), nil
	case fixedEnabled:
		switch name {
		case "input", "textarea", "select", "optgroup", "option", "button":
			return !has(cdt.node, "disabled"), nil
		default:
			return false, nil
		}
	case fixedChecked:
		return has(cdt.node, "checked") || has(cdt.node, "selected"), nil
	case fixedLink:
		return name == "a" && has(cdt.node, "href"), nil
	case fixedInput:
		switch name {
		case "input", "select", "textarea", "button":
			return true, nil
		default:
			return false, nil
		}
	default:
		return false, nil
	}
}

type selectKind int8

const (
	selectNot selectKind = iota
	selectHas
	selectAny
)

// selectCond holds the conditions whose arguments are selectors evaluated with
// the candidate as start node.
type selectCond struct {
	kind selectKind
	list []*Selector
}

func (_ selectCond) Tier() int {
	return 2
}

func (c selectCond) String() string {
	var list []string
	for _, s := range c.list {
		list = append(list, s.String())
	}
	var name string
	switch c.kind {
	case selectNot:
		name = "not"
	case selectHas:
		name = "has"
	case selectAny:
		name = "any"
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(list, ", "))
}

func (c selectCond) test(cdt *candidate) (bool, error) {
	for _, s := range c.list {
		ok, err := cdt.exists(s)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		return c.kind != selectNot, nil
	}
	return c.kind == selectNot, nil
}

type argument struct {
	value any
	sel   *Selector
}

func (a argument) String() string {
	if a.sel != nil {
		return a.sel.String()
	}
	switch v := a.value.(type) {
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

type funcCond struct {
	name string
	args []argument
}

func (_ funcCond) Tier() int {
	return 2
}

func (c funcCond) String() string {
	var list []string
	for _, a := range c.args {
		list = append(list, a.String())
	}
	return fmt.Sprintf("%s(%s)", c.name, strings.Join(list, ", "))
}

func (c funcCond) test(cdt *candidate) (bool, error) {
	fn, err := cdt.lookup(c.name)
	if err != nil {
		return false, err
	}
	args := make([]any, 0, len(c.args))
	for _, a := range c.args {
		if a.sel != nil {
			args = append(args, cdt.evaluate(a.sel))
		} else {
			args = append(args, a.value)
		}
	}
	res, err := fn.Call(cdt.node, args)
	if err != nil {
		return false, err
	}
	return truthy(res)
}

// truthy converts the result of a function to a boolean. A *Sequence is true
// when it yields at least one node.
func truthy(value any) (bool, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		return v != "", nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0 && !math.IsNaN(v), nil
	case []Node:
		return len(v) > 0, nil
	case *Sequence:
		if v == nil {
			return false, nil
		}
		return v.Exists()
	case Node:
		return !isNilValue(v), nil
	default:
		return !isNilValue(v), nil
	}
}

func isNilValue(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	case reflect.Array, reflect.String:
		return rv.Len() == 0
	default:
		return false
	}
}
