package css

import (
	"strings"

	"github.com/midbel/joy/environ"
)

type engine struct {
	funcs  environ.Environ[Function]
	info   docInfo
	xml    bool
	tracer Tracer
}

func (e *engine) sameName(a, b string) bool {
	if e.xml {
		return a == b
	}
	return strings.EqualFold(a, b)
}

func (e *engine) name(n Node) string {
	if e.xml {
		return n.Name()
	}
	return strings.ToLower(n.Name())
}

// frame keeps the position of the current node among its element siblings
// and the number of siblings. Each field stays at -1 until needed.
type frame struct {
	pos    int
	count  int
	tpos   int
	tcount int
}

func unknownFrame() frame {
	return frame{
		pos:    -1,
		count:  -1,
		tpos:   -1,
		tcount: -1,
	}
}

// levelFrame is the frame of the first child of a node.
func levelFrame(named bool) frame {
	f := unknownFrame()
	f.pos = 0
	if named {
		f.tpos = 0
	}
	return f
}

type candidate struct {
	*engine
	node    Node
	step    *Step
	frame   *frame
	axisPos int
}

func (c *candidate) position(typed bool) int {
	if !typed {
		if c.frame.pos < 0 {
			c.frame.pos = countSiblings(c.node, isElement, Node.PrevSibling)
		}
		return c.frame.pos
	}
	if c.step.Name == "" {
		return countSiblings(c.node, c.sameType, Node.PrevSibling)
	}
	if c.frame.tpos < 0 {
		c.frame.tpos = countSiblings(c.node, c.sameType, Node.PrevSibling)
	}
	return c.frame.tpos
}

func (c *candidate) count(typed bool) int {
	if !typed {
		if c.frame.count < 0 {
			c.frame.count = c.position(false) + 1 + countSiblings(c.node, isElement, Node.NextSibling)
		}
		return c.frame.count
	}
	if c.step.Name == "" {
		return c.position(true) + 1 + countSiblings(c.node, c.sameType, Node.NextSibling)
	}
	if c.frame.tcount < 0 {
		c.frame.tcount = c.position(true) + 1 + countSiblings(c.node, c.sameType, Node.NextSibling)
	}
	return c.frame.tcount
}

func (c *candidate) sameType(n Node) bool {
	return isElement(n) && c.sameName(n.Name(), c.node.Name())
}

func (c *candidate) lookup(name string) (Function, error) {
	return resolve(c.funcs, name)
}

func (c *candidate) evaluate(sel *Selector) *Sequence {
	return c.engine.evaluate(sel, c.node)
}

func (c *candidate) exists(sel *Selector) (bool, error) {
	return c.evaluate(sel).Exists()
}

func (e *engine) evaluate(sel *Selector, start Node) *Sequence {
	sub := *e
	sub.xml = sel.Mode.XML()
	return &Sequence{
		sel:    sel,
		start:  start,
		engine: &sub,
	}
}

func countSiblings(node Node, accept func(Node) bool, next func(Node) Node) int {
	var n int
	for curr := next(node); curr != nil; curr = next(curr) {
		if accept(curr) {
			n++
		}
	}
	return n
}

// stepIter enumerates the matches of the steps of a path starting at index.
// It keeps its position in the tree so that exhausting the iterator of the
// next step resumes the enumeration where it stopped.
type stepIter struct {
	*engine
	path  Path
	index int
	step  *Step

	origin  Node
	seed    frame
	current Node
	frame   frame
	stack   []frame

	started bool
	done    bool
	skip    bool
	rank    int
	axisPos int

	down *stepIter
}

func newStepIter(e *engine, path Path, index int, origin Node, seed frame) *stepIter {
	it := stepIter{
		engine: e,
		path:   path,
		index:  index,
		step:   &path[index],
		origin: origin,
		seed:   seed,
	}
	return &it
}

func (it *stepIter) last() bool {
	return it.index == len(it.path)-1
}

func (it *stepIter) next() (Node, error) {
	for {
		if it.down != nil {
			node, err := it.down.next()
			if err != nil || node != nil {
				return node, err
			}
			it.down = nil
		}
		if it.done {
			return nil, nil
		}
		node := it.move()
		if node == nil {
			it.done = true
			return nil, nil
		}
		if !isElement(node) {
			continue
		}
		it.axisPos++
		ok, err := it.accept(node)
		if err != nil {
			it.done = true
			return nil, err
		}
		snapshot := it.frame
		it.advance(node)
		if it.step.firstOnly() {
			it.done = true
		}
		if !ok {
			continue
		}
		it.rank++
		emit, last := it.step.window(it.rank)
		if last {
			it.done = true
		}
		if !emit {
			continue
		}
		it.tracer.Match(*it.step, node)
		if it.last() {
			return node, nil
		}
		next := &it.path[it.index+1]
		if next.Axis.descending() {
			it.skip = true
		}
		it.down = newStepIter(it.engine, it.path, it.index+1, node, it.seedFor(next, node, snapshot))
	}
}

func (it *stepIter) accept(node Node) (bool, error) {
	if it.step.Name != "" && !it.sameName(node.Name(), it.step.Name) {
		return false, nil
	}
	cdt := candidate{
		engine:  it.engine,
		node:    node,
		step:    it.step,
		frame:   &it.frame,
		axisPos: it.axisPos,
	}
	for _, c := range it.step.Conds {
		ok, err := c.test(&cdt)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (it *stepIter) direction() int {
	if it.step.Axis == AxisPrecedingSibling {
		return -1
	}
	return 1
}

// advance moves the counters of the current frame past node.
func (it *stepIter) advance(node Node) {
	dir := it.direction()
	if it.frame.pos >= 0 {
		it.frame.pos += dir
	}
	if it.step.Name != "" && it.frame.tpos >= 0 && it.sameName(node.Name(), it.step.Name) {
		it.frame.tpos += dir
	}
}

// seedFor gives the frame the next step starts with at node. Typed counters
// only carry over between steps testing the same name.
func (it *stepIter) seedFor(next *Step, node Node, snapshot frame) frame {
	seed := snapshot
	if it.step.Name == "" || !it.sameName(it.step.Name, next.Name) {
		seed.tpos, seed.tcount = -1, -1
	}
	return seed
}

func (it *stepIter) move() Node {
	if !it.started {
		it.started = true
		it.current = it.first()
		return it.current
	}
	if it.current == nil {
		return nil
	}
	switch it.step.Axis {
	case AxisSelf, AxisParent:
		it.current = nil
	case AxisChild, AxisFollowingSibling:
		it.current = it.current.NextSibling()
	case AxisPrecedingSibling:
		it.current = it.current.PrevSibling()
	case AxisAncestor, AxisAncestorOrSelf:
		it.current = elementParent(it.current)
		it.frame = unknownFrame()
	case AxisDescendant, AxisDescendantOrSelf:
		it.current = it.walk(it.current)
	default:
		it.current = nil
	}
	return it.current
}

func (it *stepIter) first() Node {
	switch it.step.Axis {
	case AxisSelf, AxisDescendantOrSelf, AxisAncestorOrSelf:
		it.frame = it.seed
		return it.origin
	case AxisChild:
		it.frame = levelFrame(it.step.Name != "")
		return it.origin.FirstChild()
	case AxisDescendant:
		it.frame = it.seed
		return it.walk(it.origin)
	case AxisParent, AxisAncestor:
		it.frame = unknownFrame()
		return elementParent(it.origin)
	case AxisFollowingSibling, AxisPrecedingSibling:
		it.frame = it.seed
		if it.frame.pos >= 0 {
			it.frame.pos += it.direction()
		}
		if it.frame.tpos >= 0 && it.step.Name != "" && it.sameName(it.origin.Name(), it.step.Name) {
			it.frame.tpos += it.direction()
		}
		if it.step.Axis == AxisPrecedingSibling {
			return it.origin.PrevSibling()
		}
		return it.origin.NextSibling()
	default:
		return nil
	}
}

// walk gives the node following curr in document order without leaving the
// subtree of the origin. The children of curr are skipped when it was
// matched and the next step searches its descendants.
func (it *stepIter) walk(curr Node) Node {
	if !it.skip {
		if child := curr.FirstChild(); child != nil {
			it.stack = append(it.stack, it.frame)
			it.frame = levelFrame(it.step.Name != "")
			return child
		}
	}
	it.skip = false
	for curr != nil && curr != it.origin {
		if next := curr.NextSibling(); next != nil {
			return next
		}
		curr = curr.Parent()
		if n := len(it.stack); n > 0 {
			it.frame = it.stack[n-1]
			it.stack = it.stack[:n-1]
		}
	}
	return nil
}
