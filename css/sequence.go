package css

import (
	"iter"
)

// Sequence is the lazy result of an evaluation. Nodes are searched only when
// requested and a Sequence can be abandoned at any time.
//
// A Sequence is not safe for concurrent use.
type Sequence struct {
	*engine
	sel   *Selector
	start Node

	path int
	iter *stepIter
	curr Node
	err  error
	eof  bool
}

// Evaluate prepares the evaluation of sel from start. funcs overrides the
// registered functions for this evaluation only.
func Evaluate(sel *Selector, start Node, funcs Funcs) *Sequence {
	info := infoFromNode(start)
	if start != nil && start.Kind() == DocumentNode {
		if doc, ok := start.(Document); ok {
			start = doc.Root()
		}
	}
	eng := engine{
		funcs:  funcs.scope(),
		info:   info,
		xml:    sel.Mode.XML(),
		tracer: NoopTracer(),
	}
	return &Sequence{
		engine: &eng,
		sel:    sel,
		start:  start,
	}
}

// Query compiles text with the mode fitting start and evaluates it. A
// document as start node makes its root element a candidate.
func Query(text string, start Node, funcs Funcs) (*Sequence, error) {
	sel, err := Compile(text, modeFor(start))
	if err != nil {
		return nil, err
	}
	return Evaluate(sel, start, funcs), nil
}

// Select returns all the distinct nodes matching text.
func Select(text string, start Node) ([]Node, error) {
	seq, err := Query(text, start, nil)
	if err != nil {
		return nil, err
	}
	return seq.Get(0, -1)
}

func modeFor(start Node) Mode {
	var mode Mode
	if start == nil {
		return mode
	}
	if start.Kind() == DocumentNode {
		mode |= ModeNoContext
	}
	if infoFromNode(start).xml {
		mode |= ModeXML
	}
	return mode
}

func (s *Sequence) SetTracer(tracer Tracer) {
	if tracer == nil {
		tracer = NoopTracer()
	}
	s.tracer = tracer
}

func (s *Sequence) Selector() *Selector {
	return s.sel
}

// Current returns the node at the position of the sequence without moving
// it. A nil node means that the sequence is exhausted.
func (s *Sequence) Current() (Node, error) {
	if s.curr == nil && !s.eof {
		s.fetch()
	}
	return s.curr, s.err
}

// Advance moves the sequence past its current node.
func (s *Sequence) Advance() {
	if s.curr == nil && !s.eof {
		s.fetch()
	}
	s.curr = nil
}

func (s *Sequence) Next() (Node, error) {
	node, err := s.Current()
	if node != nil {
		s.curr = nil
	}
	return node, err
}

// Rewind restarts the evaluation from the start node.
func (s *Sequence) Rewind() {
	s.path = 0
	s.iter = nil
	s.curr = nil
	s.err = nil
	s.eof = false
}

func (s *Sequence) Exists() (bool, error) {
	node, err := s.Current()
	return node != nil, err
}

func (s *Sequence) All() iter.Seq2[Node, error] {
	fn := func(yield func(Node, error) bool) {
		for {
			node, err := s.Next()
			if err != nil {
				yield(nil, err)
				return
			}
			if node == nil || !yield(node, nil) {
				return
			}
		}
	}
	return fn
}

// Get consumes the sequence from its current position. It collects up to
// skip+count distinct nodes and drops the first skip of them. A negative
// count consumes the whole sequence. The nodes collected before an error are
// returned with it.
func (s *Sequence) Get(skip, count int) ([]Node, error) {
	if skip < 0 {
		skip = 0
	}
	var (
		list []Node
		seen = make(map[Node]struct{})
	)
	for count < 0 || len(list) < skip+count {
		node, err := s.Next()
		if err != nil {
			return trim(list, skip), err
		}
		if node == nil {
			break
		}
		if _, ok := seen[node]; ok {
			continue
		}
		seen[node] = struct{}{}
		list = append(list, node)
	}
	return trim(list, skip), nil
}

// At returns the distinct node at index skip or nil.
func (s *Sequence) At(skip int) (Node, error) {
	list, err := s.Get(skip, 1)
	if len(list) == 0 {
		return nil, err
	}
	return list[0], err
}

func trim(list []Node, skip int) []Node {
	if skip >= len(list) {
		return nil
	}
	return list[skip:]
}

func (s *Sequence) fetch() {
	for s.err == nil {
		if s.iter == nil {
			if s.start == nil || s.path >= len(s.sel.Paths) {
				break
			}
			path := s.sel.Paths[s.path]
			s.path++
			if len(path) == 0 {
				continue
			}
			s.iter = newStepIter(s.engine, path, 0, s.start, unknownFrame())
		}
		node, err := s.iter.next()
		if err != nil {
			s.err = err
			break
		}
		if node != nil {
			s.curr = node
			return
		}
		s.iter = nil
	}
	s.eof = true
}
