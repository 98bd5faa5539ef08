package css

import (
	"math"
	"strconv"
	"strings"
)

type Axis int8

const (
	AxisSelf Axis = iota
	AxisChild
	AxisDescendant
	AxisDescendantOrSelf
	AxisParent
	AxisAncestor
	AxisAncestorOrSelf
	AxisFollowingSibling
	AxisFirstFollowingSibling
	AxisPrecedingSibling
	AxisFirstPrecedingSibling
)

var axisNames = []string{
	AxisSelf:                  "self",
	AxisChild:                 "child",
	AxisDescendant:            "descendant",
	AxisDescendantOrSelf:      "descendant-or-self",
	AxisParent:                "parent",
	AxisAncestor:              "ancestor",
	AxisAncestorOrSelf:        "ancestor-or-self",
	AxisFollowingSibling:      "following-sibling",
	AxisFirstFollowingSibling: "first-following-sibling",
	AxisPrecedingSibling:      "preceding-sibling",
	AxisFirstPrecedingSibling: "first-preceding-sibling",
}

func lookupAxis(name string) (Axis, bool) {
	for i, n := range axisNames {
		if n == name {
			return Axis(i), true
		}
	}
	return 0, false
}

func (a Axis) String() string {
	if a < 0 || int(a) >= len(axisNames) {
		return "<axis>"
	}
	return axisNames[a]
}

func (a Axis) descending() bool {
	return a == AxisDescendant || a == AxisDescendantOrSelf
}

// Mode carries the flags a selector is compiled with. It is part of the key of
// the compiled selector cache.
type Mode int8

const (
	ModeNoContext Mode = 1 << iota
	ModeXML

	ModeDefault Mode = 0
)

func (m Mode) NoContext() bool {
	return m&ModeNoContext != 0
}

func (m Mode) XML() bool {
	return m&ModeXML != 0
}

func (m Mode) initialAxis() Axis {
	if m.NoContext() {
		return AxisDescendantOrSelf
	}
	return AxisDescendant
}

// Unlimited is the default Limit of a step.
const Unlimited = math.MaxInt32

type Step struct {
	Name  string
	Axis  Axis
	From  int
	Limit int
	Conds []Condition
}

func createStep(name string, axis Axis) Step {
	return Step{
		Name:  name,
		Axis:  axis,
		From:  1,
		Limit: Unlimited,
	}
}

// window reports whether the candidate with the given 1-based rank is
// emitted and whether no later candidate can be.
func (s Step) window(rank int) (emit, last bool) {
	if rank < s.From {
		return false, false
	}
	if s.Limit == Unlimited {
		return true, false
	}
	end := int64(s.From) - 1 + int64(s.Limit)
	return int64(rank) <= end, int64(rank) >= end
}

func (s Step) firstOnly() bool {
	if len(s.Conds) == 0 {
		return false
	}
	_, ok := s.Conds[0].(axisFirst)
	return ok
}

func (s Step) String() string {
	var str strings.Builder
	str.WriteString(s.Axis.String())
	str.WriteString("::")
	if s.Name == "" {
		str.WriteString("*")
	} else {
		str.WriteString(s.Name)
	}
	for _, c := range s.Conds {
		str.WriteString("[")
		str.WriteString(c.String())
		str.WriteString("]")
	}
	if s.From > 1 {
		str.WriteString("{from=")
		str.WriteString(strconv.Itoa(s.From))
		str.WriteString("}")
	}
	if s.Limit != Unlimited {
		str.WriteString("{limit=")
		str.WriteString(strconv.Itoa(s.Limit))
		str.WriteString("}")
	}
	return str.String()
}

type Path []Step

func (p Path) String() string {
	var list []string
	for _, s := range p {
		list = append(list, s.String())
	}
	return strings.Join(list, "/")
}

// Selector is a compiled selector. It is never modified once built and can be
// shared between evaluations.
type Selector struct {
	Source string
	Mode   Mode
	Paths  []Path
}

func (s *Selector) String() string {
	var list []string
	for _, p := range s.Paths {
		list = append(list, p.String())
	}
	return strings.Join(list, " | ")
}
